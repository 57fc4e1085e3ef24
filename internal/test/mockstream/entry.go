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

package mockstream

import (
	"github.com/blinklabs-io/ledgerbrowse/protocol"
)

type EntryType int

const (
	EntryTypeNone   EntryType = 0
	EntryTypeInput  EntryType = 1
	EntryTypeOutput EntryType = 2
	EntryTypeError  EntryType = 3
	EntryTypeClose  EntryType = 4
)

// ConversationEntry is a single step of a scripted stream conversation. Input entries
// describe a message the client is expected to send. Output, Error and Close entries
// describe what the client receives afterward
type ConversationEntry struct {
	Type             EntryType
	OutputMessages   []protocol.Message
	InputMessage     protocol.Message
	InputMessageType uint
	Error            error
}

// NewInputEntry returns an entry that expects a message of the given type
func NewInputEntry(msgType uint) ConversationEntry {
	return ConversationEntry{
		Type:             EntryTypeInput,
		InputMessageType: msgType,
	}
}

// NewInputMessageEntry returns an entry that expects exactly the given message
func NewInputMessageEntry(msg protocol.Message) ConversationEntry {
	return ConversationEntry{
		Type:         EntryTypeInput,
		InputMessage: msg,
	}
}

// NewOutputEntry returns an entry that delivers the given messages in order
func NewOutputEntry(msgs ...protocol.Message) ConversationEntry {
	return ConversationEntry{
		Type:           EntryTypeOutput,
		OutputMessages: msgs,
	}
}

// NewErrorEntry returns an entry that makes Recv fail with err
func NewErrorEntry(err error) ConversationEntry {
	return ConversationEntry{
		Type:  EntryTypeError,
		Error: err,
	}
}

// NewCloseEntry returns an entry that makes Recv report a clean close by the peer
func NewCloseEntry() ConversationEntry {
	return ConversationEntry{
		Type: EntryTypeClose,
	}
}
