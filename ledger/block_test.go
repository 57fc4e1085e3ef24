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

package ledger_test

import (
	"testing"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
	"github.com/blinklabs-io/ledgerbrowse/internal/test"
	"github.com/blinklabs-io/ledgerbrowse/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBody() ledger.Body {
	return ledger.Body{
		TxResults: []ledger.TxResult{
			{
				ClientTransaction: ledger.Transaction{
					Instructions: []ledger.Instruction{
						{
							InstanceID: ledger.NewInstanceID([]byte{0x01}),
							Type:       ledger.InstructionTypeSpawn,
							ContractID: "value",
						},
						{
							InstanceID: ledger.NewInstanceID([]byte{0x02}),
							Type:       ledger.InstructionTypeInvoke,
							ContractID: "value",
							Command:    "update",
							Args: []ledger.Argument{
								{Name: "value", Value: []byte("abc")},
							},
						},
					},
				},
				Accepted: true,
			},
			{
				ClientTransaction: ledger.Transaction{
					Instructions: []ledger.Instruction{
						{
							InstanceID: ledger.NewInstanceID([]byte{0x03}),
							Type:       ledger.InstructionTypeDelete,
							ContractID: "value",
						},
					},
				},
			},
		},
	}
}

func TestBlockRoundTrip(t *testing.T) {
	payload, err := cbor.Encode(testBody())
	require.NoError(t, err)
	blk := ledger.Block{
		Hash:  test.DecodeHexString("aabbccdd"),
		Index: 42,
		ForwardLinks: []ledger.ForwardLink{
			{To: test.DecodeHexString("11223344")},
			{To: test.DecodeHexString("55667788")},
		},
		Payload: payload,
	}
	blockCbor, err := cbor.Encode(blk)
	require.NoError(t, err)
	var decoded ledger.Block
	_, err = cbor.Decode(blockCbor, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "aabbccdd", decoded.HashHex())
	assert.Equal(t, uint64(42), decoded.Index)
	assert.Equal(t, blockCbor, decoded.Cbor())
	next, ok := decoded.NextID()
	require.True(t, ok)
	assert.Equal(t, test.DecodeHexString("11223344"), next)
	body, err := decoded.Body()
	require.NoError(t, err)
	instructions := body.Instructions()
	require.Len(t, instructions, 3)
	assert.Equal(t, ledger.InstructionTypeSpawn, instructions[0].Type)
	assert.Equal(t, ledger.InstructionTypeInvoke, instructions[1].Type)
	assert.Equal(t, "update", instructions[1].Command)
	assert.Equal(t, ledger.InstructionTypeDelete, instructions[2].Type)
	assert.Equal(t, ledger.NewInstanceID([]byte{0x03}), instructions[2].InstanceID)
}

func TestBlockNoForwardLinks(t *testing.T) {
	blk := ledger.Block{Hash: []byte{0x01}}
	_, ok := blk.NextID()
	assert.False(t, ok)
}

func TestBlockBodyDecodeError(t *testing.T) {
	blk := ledger.Block{
		Hash:    []byte{0x01},
		Payload: test.DecodeHexString("ff00"),
	}
	_, err := blk.Body()
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrDecodePayload)
}
