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

package ledger

import (
	"encoding/hex"
	"fmt"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
)

// ForwardLink points from a block to one of its chronological successors
type ForwardLink struct {
	cbor.StructAsArray
	To []byte
}

// Block is a single unit of the ledger's append-only history. The payload holds the
// CBOR encoded Body
type Block struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Hash         []byte
	Index        uint64
	ForwardLinks []ForwardLink
	Payload      []byte
}

func (b *Block) UnmarshalCBOR(cborData []byte) error {
	return b.UnmarshalCbor(cborData, b)
}

// HashHex returns the hex form of the block hash
func (b *Block) HashHex() string {
	return hex.EncodeToString(b.Hash)
}

// NextID returns the target of the first forward link, if any. Only the first link is
// ever followed when traversing the chain
func (b *Block) NextID() ([]byte, bool) {
	if len(b.ForwardLinks) == 0 {
		return nil, false
	}
	return b.ForwardLinks[0].To, true
}

// Body decodes the block payload
func (b *Block) Body() (*Body, error) {
	body, err := NewBodyFromCbor(b.Payload)
	if err != nil {
		return nil, fmt.Errorf("block %s: %w", b.HashHex(), err)
	}
	return body, nil
}

// Body is the decoded payload of a block
type Body struct {
	cbor.StructAsArray
	TxResults []TxResult
}

// TxResult is a transaction as it was included in a block
type TxResult struct {
	cbor.StructAsArray
	ClientTransaction Transaction
	Accepted          bool
}

func NewBodyFromCbor(data []byte) (*Body, error) {
	var body Body
	if _, err := cbor.Decode(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodePayload, err)
	}
	return &body, nil
}

// Instructions returns all instructions in the body in ledger order
func (b *Body) Instructions() []Instruction {
	var ret []Instruction
	for _, txResult := range b.TxResults {
		ret = append(ret, txResult.ClientTransaction.Instructions...)
	}
	return ret
}
