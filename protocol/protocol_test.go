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

import (
	"errors"
	"testing"
)

func TestStateMapTransition(t *testing.T) {
	stateIdle := NewState(1, "Idle")
	stateWorking := NewState(2, "Working")
	stateDone := NewState(3, "Done")
	const (
		triggerStart uint8 = iota
		triggerFinish
	)

	stateMap := StateMap{
		stateIdle: StateMapEntry{
			Transitions: []StateTransition{
				{Trigger: triggerStart, NewState: stateWorking},
			},
		},
		stateWorking: StateMapEntry{
			Transitions: []StateTransition{
				{Trigger: triggerStart, NewState: stateWorking},
				{Trigger: triggerFinish, NewState: stateDone},
			},
		},
		stateDone: StateMapEntry{},
	}

	t.Run("follows allowed transitions", func(t *testing.T) {
		next, err := stateMap.Transition(stateIdle, triggerStart)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if next != stateWorking {
			t.Fatalf("did not get expected state: got %s, wanted %s", next, stateWorking)
		}
		next, err = stateMap.Transition(next, triggerFinish)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if next != stateDone {
			t.Fatalf("did not get expected state: got %s, wanted %s", next, stateDone)
		}
	})

	t.Run("rejects transitions out of terminal state", func(t *testing.T) {
		if !stateMap[stateDone].IsTerminal() {
			t.Fatalf("expected %s to be terminal", stateDone)
		}
		next, err := stateMap.Transition(stateDone, triggerStart)
		if !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("did not get expected error: got %v", err)
		}
		if next != stateDone {
			t.Fatalf("state changed on failed transition: got %s", next)
		}
	})

	t.Run("rejects unknown state", func(t *testing.T) {
		_, err := stateMap.Transition(NewState(99, "Bogus"), triggerStart)
		if !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("did not get expected error: got %v", err)
		}
	})
}

func TestMessageBaseCbor(t *testing.T) {
	m := &MessageBase{MessageType: 3}
	data := []byte{0x81, 0x03}
	m.SetCbor(data)
	data[0] = 0x00
	if m.Cbor()[0] != 0x81 {
		t.Fatalf("stored CBOR was not copied")
	}
	if m.Type() != 3 {
		t.Fatalf("did not get expected type: got %d", m.Type())
	}
}
