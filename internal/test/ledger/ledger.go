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

// Package test_ledger builds synthetic chains of real, CBOR encoded blocks and the page
// responses a ledger node would send for them
package test_ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
	"github.com/blinklabs-io/ledgerbrowse/internal/test/mockstream"
	"github.com/blinklabs-io/ledgerbrowse/ledger"
	"github.com/blinklabs-io/ledgerbrowse/protocol"
	"github.com/blinklabs-io/ledgerbrowse/protocol/paginate"
)

// Chain is a linear chain of blocks where each block links forward to the next one. The
// last block has no forward links
type Chain struct {
	Blocks []ledger.Block
}

// NewChain returns a chain with one block per body
func NewChain(bodies ...ledger.Body) *Chain {
	c := &Chain{
		Blocks: make([]ledger.Block, len(bodies)),
	}
	for idx, body := range bodies {
		payload, err := cbor.Encode(body)
		if err != nil {
			panic(fmt.Sprintf("unexpected error encoding block body: %s", err))
		}
		c.Blocks[idx] = ledger.Block{
			Hash:    blockHash(idx),
			Index:   uint64(idx),
			Payload: payload,
		}
		if idx > 0 {
			c.Blocks[idx-1].ForwardLinks = []ledger.ForwardLink{
				{To: c.Blocks[idx].Hash},
			}
		}
	}
	return c
}

// NewEmptyChain returns a chain of count blocks without any instructions
func NewEmptyChain(count int) *Chain {
	bodies := make([]ledger.Body, count)
	return NewChain(bodies...)
}

// Len returns the number of blocks in the chain
func (c *Chain) Len() int {
	return len(c.Blocks)
}

// ID returns the hex block ID of the block at the given index
func (c *Chain) ID(idx int) string {
	return hex.EncodeToString(c.Blocks[idx].Hash)
}

// IndexOf returns the index of the block with the given hash, or -1
func (c *Chain) IndexOf(hash []byte) int {
	for idx, blk := range c.Blocks {
		if bytes.Equal(blk.Hash, hash) {
			return idx
		}
	}
	return -1
}

// Request returns the page request a client sends to start at the given block index
func (c *Chain) Request(
	startIdx int,
	pageSize int,
	numPages int,
) *paginate.MsgPaginateRequest {
	return paginate.NewMsgPaginateRequest(
		c.Blocks[startIdx].Hash,
		uint64(pageSize),
		uint64(numPages),
		false,
	)
}

// Pages returns the responses a node sends for a page request starting at the given
// block index. The last page is short when the chain ends inside it, and no pages
// follow the end of the chain
func (c *Chain) Pages(
	startIdx int,
	pageSize int,
	numPages int,
) []protocol.Message {
	var ret []protocol.Message
	idx := startIdx
	for page := range numPages {
		if idx >= len(c.Blocks) {
			break
		}
		end := min(idx+pageSize, len(c.Blocks))
		blocks := make([]ledger.Block, end-idx)
		copy(blocks, c.Blocks[idx:end])
		ret = append(
			ret,
			paginate.NewMsgPaginateResponse(blocks, uint64(page), false),
		)
		idx = end
	}
	return ret
}

// Conversation returns the conversation entries of a client that traverses the chain on a
// single stream from startIdx to the end, one request per round
func (c *Chain) Conversation(
	startIdx int,
	pageSize int,
	numPages int,
) []mockstream.ConversationEntry {
	var ret []mockstream.ConversationEntry
	for idx := startIdx; idx < len(c.Blocks); idx += pageSize * numPages {
		ret = append(
			ret,
			mockstream.NewInputMessageEntry(c.Request(idx, pageSize, numPages)),
			mockstream.NewOutputEntry(c.Pages(idx, pageSize, numPages)...),
		)
	}
	return ret
}

// Body returns a block body with a single accepted transaction holding the given instructions
func Body(instructions ...ledger.Instruction) ledger.Body {
	return ledger.Body{
		TxResults: []ledger.TxResult{
			{
				ClientTransaction: ledger.Transaction{
					Instructions: instructions,
				},
				Accepted: true,
			},
		},
	}
}

// Spawn returns a spawn instruction. The nonce makes the derived instance ID unique
func Spawn(contractID string, nonce byte) ledger.Instruction {
	return ledger.Instruction{
		InstanceID: ledger.NewInstanceID([]byte{0xff}),
		Type:       ledger.InstructionTypeSpawn,
		ContractID: contractID,
		Args: []ledger.Argument{
			{Name: "nonce", Value: []byte{nonce}},
		},
	}
}

// Invoke returns an invoke instruction on the given instance
func Invoke(
	instanceID ledger.InstanceID,
	contractID string,
	command string,
) ledger.Instruction {
	return ledger.Instruction{
		InstanceID: instanceID,
		Type:       ledger.InstructionTypeInvoke,
		ContractID: contractID,
		Command:    command,
	}
}

// Delete returns a delete instruction on the given instance
func Delete(instanceID ledger.InstanceID, contractID string) ledger.Instruction {
	return ledger.Instruction{
		InstanceID: instanceID,
		Type:       ledger.InstructionTypeDelete,
		ContractID: contractID,
	}
}

func blockHash(idx int) []byte {
	data := binary.BigEndian.AppendUint64([]byte("block"), uint64(idx))
	return ledger.Blake2b256Hash(data).Bytes()
}
