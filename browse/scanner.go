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
	"github.com/blinklabs-io/ledgerbrowse/ledger"
	"go.uber.org/atomic"
)

// Scanner tests the instructions of blocks against a target instance and accumulates
// the matches. Spawn instructions match when the instance they create is the target,
// and such matches are recorded but not included in MatchCount
type Scanner struct {
	target     string
	matches    []Match
	matchCount atomic.Int64
}

// NewScanner returns a Scanner looking for the given instance
func NewScanner(target ledger.InstanceID) *Scanner {
	return &Scanner{
		target: target.String(),
	}
}

// Scan decodes the block payload and returns the matches found in it, in ledger order.
// Nothing is recorded when the payload cannot be decoded
func (s *Scanner) Scan(blk *ledger.Block) ([]Match, error) {
	body, err := blk.Body()
	if err != nil {
		return nil, err
	}
	var ret []Match
	blockHash := blk.HashHex()
	for _, instruction := range body.Instructions() {
		if instruction.IsSpawn() {
			if instruction.DeriveID("").String() != s.target {
				continue
			}
		} else {
			if instruction.InstanceID.String() != s.target {
				continue
			}
			s.matchCount.Inc()
		}
		ret = append(
			ret,
			Match{
				BlockHash:   blockHash,
				Instruction: instruction,
			},
		)
	}
	s.matches = append(s.matches, ret...)
	return ret, nil
}

// MatchCount returns the number of matching non-spawn instructions so far. It is safe to
// call from any goroutine
func (s *Scanner) MatchCount() int64 {
	return s.matchCount.Load()
}

// Matches returns all matches so far
func (s *Scanner) Matches() []Match {
	ret := make([]Match, len(s.matches))
	copy(ret, s.matches)
	return ret
}

// Result returns the matches so far as a Result
func (s *Scanner) Result() Result {
	return newResult(s.matches)
}
