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
	"github.com/blinklabs-io/ledgerbrowse/protocol"
)

// Session states
var (
	StateIdle      = protocol.NewState(1, "Idle")
	StateFetching  = protocol.NewState(2, "Fetching")
	StateCompleted = protocol.NewState(3, "Completed")
	StateAborted   = protocol.NewState(4, "Aborted")
	StateFailed    = protocol.NewState(5, "Failed")
)

// Session state machine triggers
const (
	triggerStart     uint8 = 1
	triggerNextRound uint8 = 2
	triggerRetry     uint8 = 3
	triggerComplete  uint8 = 4
	triggerAbort     uint8 = 5
	triggerFail      uint8 = 6
)

// StateMap defines the valid state transitions of a search session
var StateMap = protocol.StateMap{
	StateIdle: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				Trigger:  triggerStart,
				NewState: StateFetching,
			},
		},
	},
	StateFetching: protocol.StateMapEntry{
		Transitions: []protocol.StateTransition{
			{
				Trigger:  triggerNextRound,
				NewState: StateFetching,
			},
			{
				Trigger:  triggerRetry,
				NewState: StateFetching,
			},
			{
				Trigger:  triggerComplete,
				NewState: StateCompleted,
			},
			{
				Trigger:  triggerAbort,
				NewState: StateAborted,
			},
			{
				Trigger:  triggerFail,
				NewState: StateFailed,
			},
		},
	},
	StateCompleted: protocol.StateMapEntry{},
	StateAborted:   protocol.StateMapEntry{},
	StateFailed:    protocol.StateMapEntry{},
}
