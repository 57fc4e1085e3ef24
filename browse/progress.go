// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package browse

import (
	"go.uber.org/atomic"
)

// UnknownLength is the total chain length while it has not been resolved
const UnknownLength int64 = -1

// ProgressReporter counts scanned blocks and decides when progress is worth reporting.
// The total length may be set from another goroutine at any time
type ProgressReporter struct {
	seenBlocks  atomic.Int64
	totalLength atomic.Int64
}

func NewProgressReporter() *ProgressReporter {
	p := &ProgressReporter{}
	p.totalLength.Store(UnknownLength)
	return p
}

// SetTotalLength records the total chain length
func (p *ProgressReporter) SetTotalLength(length int64) {
	p.totalLength.Store(length)
}

// TotalLength returns the total chain length, or UnknownLength
func (p *ProgressReporter) TotalLength() int64 {
	return p.totalLength.Load()
}

// SeenBlocks returns the number of blocks counted so far
func (p *ProgressReporter) SeenBlocks() int64 {
	return p.seenBlocks.Load()
}

// BlockSeen counts one more block and returns a progress report when one is due. With a
// known length a report is due every 1% of the chain. With an unknown length every block
// is reported with 0%. A zero length never reports
func (p *ProgressReporter) BlockSeen(matchCount int64) (Progress, bool) {
	seen := p.seenBlocks.Inc()
	total := p.totalLength.Load()
	ret := Progress{
		SeenBlocks:  seen,
		TotalLength: total,
		MatchCount:  matchCount,
	}
	switch {
	case total < 0:
		return ret, true
	case total == 0:
		return ret, false
	}
	step := total / 100
	if step == 0 || seen%step != 0 {
		return ret, false
	}
	ret.Percent = int(min(seen*100/total, 100))
	return ret, true
}
