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

package chaintip

import (
	"fmt"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
	"github.com/blinklabs-io/ledgerbrowse/protocol"
)

const (
	MessageTypeGetLatestBlock = 0
	MessageTypeLatestBlock    = 1
)

func NewMsgFromCbor(msgType uint, data []byte) (protocol.Message, error) {
	var ret protocol.Message
	switch msgType {
	case MessageTypeGetLatestBlock:
		ret = &MsgGetLatestBlock{}
	case MessageTypeLatestBlock:
		ret = &MsgLatestBlock{}
	default:
		return nil, fmt.Errorf(
			"%s: %w: %d",
			ProtocolName,
			protocol.ErrProtocolViolationUnknownMessage,
			msgType,
		)
	}
	if _, err := cbor.Decode(data, ret); err != nil {
		return nil, fmt.Errorf("%s: decode error: %w", ProtocolName, err)
	}
	// Store the raw message CBOR
	ret.SetCbor(data)
	return ret, nil
}

type MsgGetLatestBlock struct {
	protocol.MessageBase
}

func NewMsgGetLatestBlock() *MsgGetLatestBlock {
	m := &MsgGetLatestBlock{
		MessageBase: protocol.MessageBase{
			MessageType: MessageTypeGetLatestBlock,
		},
	}
	return m
}

// MsgLatestBlock describes the head of the chain. Index is 0-based
type MsgLatestBlock struct {
	protocol.MessageBase
	Index uint64
	Hash  []byte
}

func NewMsgLatestBlock(index uint64, hash []byte) *MsgLatestBlock {
	m := &MsgLatestBlock{
		MessageBase: protocol.MessageBase{
			MessageType: MessageTypeLatestBlock,
		},
		Index: index,
		Hash:  hash,
	}
	return m
}

// Length returns the number of blocks in the chain up to and including this block.
// Block indexes start at 0, so this is one more than Index
func (m *MsgLatestBlock) Length() int64 {
	return int64(m.Index) + 1
}
