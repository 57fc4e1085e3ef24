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
	"context"
	"fmt"

	"github.com/blinklabs-io/ledgerbrowse/ledger"
)

const (
	DefaultStartBlockID = "9cc36071ccb902a1de7e0d21a2c176d73894b1cf88ae4cc2ba4c95cd76f474f3"
	DefaultPageSize     = 15
	DefaultNumPages     = 15
)

// LengthProvider resolves the total length of the chain. The returned channel delivers at
// most one value and must be closed once ctx is done
type LengthProvider interface {
	TotalLength(ctx context.Context) <-chan int64
}

// LengthProviderFunc adapts a function to the LengthProvider interface
type LengthProviderFunc func(ctx context.Context) <-chan int64

func (f LengthProviderFunc) TotalLength(ctx context.Context) <-chan int64 {
	return f(ctx)
}

// Progress is a coarse-grained progress report. TotalLength is -1 while the chain length
// is unknown, in which case Percent is 0
type Progress struct {
	Percent     int
	SeenBlocks  int64
	TotalLength int64
	MatchCount  int64
}

func (p Progress) String() string {
	return fmt.Sprintf(
		"%d%% (%d/%d blocks, %d matches)",
		p.Percent,
		p.SeenBlocks,
		p.TotalLength,
		p.MatchCount,
	)
}

// Match is an instruction that refers to the searched instance, with the block holding it
type Match struct {
	BlockHash   string
	Instruction ledger.Instruction
}

// Result is the outcome of a completed or aborted search. Both slices are in ledger order
// and have the same length
type Result struct {
	MatchedBlockHashes  []string
	MatchedInstructions []ledger.Instruction
}

func newResult(matches []Match) Result {
	ret := Result{
		MatchedBlockHashes:  make([]string, 0, len(matches)),
		MatchedInstructions: make([]ledger.Instruction, 0, len(matches)),
	}
	for _, match := range matches {
		ret.MatchedBlockHashes = append(ret.MatchedBlockHashes, match.BlockHash)
		ret.MatchedInstructions = append(ret.MatchedInstructions, match.Instruction)
	}
	return ret
}

type NotificationLevel uint8

const (
	NotificationLevelInfo  NotificationLevel = 1
	NotificationLevelError NotificationLevel = 2
)

func (l NotificationLevel) String() string {
	switch l {
	case NotificationLevelInfo:
		return "INFO"
	case NotificationLevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(l))
	}
}

// Notification is a human-readable message for display. It carries no control information
type Notification struct {
	Level   NotificationLevel
	Message string
}

func (n Notification) String() string {
	return fmt.Sprintf("[%s] %s", n.Level, n.Message)
}
