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

package protocol

import "fmt"

type State struct {
	Id   uint
	Name string
}

func NewState(id uint, name string) State {
	return State{
		Id:   id,
		Name: name,
	}
}

func (s State) String() string {
	return s.Name
}

// StateTransition maps a trigger to the state it leads to
type StateTransition struct {
	Trigger  uint8
	NewState State
}

type StateMapEntry struct {
	Transitions []StateTransition
}

// IsTerminal returns true for states that have no outgoing transitions
func (e StateMapEntry) IsTerminal() bool {
	return len(e.Transitions) == 0
}

type StateMap map[State]StateMapEntry

// Transition returns the state reached from the current state with the given trigger
func (s StateMap) Transition(current State, trigger uint8) (State, error) {
	entry, ok := s[current]
	if !ok {
		return current, fmt.Errorf("%w: unknown state %s", ErrInvalidStateTransition, current)
	}
	for _, transition := range entry.Transitions {
		if transition.Trigger == trigger {
			return transition.NewState, nil
		}
	}
	return current, fmt.Errorf(
		"%w: trigger %d not allowed in state %s",
		ErrInvalidStateTransition,
		trigger,
		current,
	)
}
