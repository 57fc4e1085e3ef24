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
	"strings"
	"testing"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
	"github.com/blinklabs-io/ledgerbrowse/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIDDeterministic(t *testing.T) {
	instr := ledger.Instruction{
		InstanceID: ledger.NewInstanceID([]byte{0xaa}),
		Type:       ledger.InstructionTypeSpawn,
		ContractID: "value",
	}
	first := instr.DeriveID("")
	second := instr.DeriveID("")
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, instr.DeriveID("seed"))
	other := instr
	other.ContractID = "darc"
	assert.NotEqual(t, first, other.DeriveID(""))
}

func TestDeriveIDMatchesAfterDecode(t *testing.T) {
	instr := ledger.Instruction{
		InstanceID: ledger.NewInstanceID([]byte{0xbb}),
		Type:       ledger.InstructionTypeSpawn,
		ContractID: "value",
		Args: []ledger.Argument{
			{Name: "value", Value: []byte{0x01, 0x02}},
		},
	}
	body := ledger.Body{
		TxResults: []ledger.TxResult{
			{
				ClientTransaction: ledger.Transaction{
					Instructions: []ledger.Instruction{instr},
				},
				Accepted: true,
			},
		},
	}
	payload, err := cbor.Encode(body)
	require.NoError(t, err)
	decoded, err := ledger.NewBodyFromCbor(payload)
	require.NoError(t, err)
	instructions := decoded.Instructions()
	require.Len(t, instructions, 1)
	assert.NotNil(t, instructions[0].Cbor())
	assert.Equal(t, instr.Hash(), instructions[0].Hash())
	assert.Equal(t, instr.DeriveID(""), instructions[0].DeriveID(""))
}

func TestInstanceIDFromHex(t *testing.T) {
	id, err := ledger.NewInstanceIDFromHex(strings.Repeat("0f", 32))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0f", 32), id.String())
	_, err = ledger.NewInstanceIDFromHex("zz")
	assert.Error(t, err)
	_, err = ledger.NewInstanceIDFromHex("0f0f")
	assert.Error(t, err)
}

func TestInstanceIDBech32(t *testing.T) {
	id := ledger.NewInstanceID([]byte{0x01, 0x02, 0x03})
	encoded := id.Bech32("inst")
	assert.True(t, strings.HasPrefix(encoded, "inst1"))
}

func TestInstructionTypeString(t *testing.T) {
	assert.Equal(t, "spawn", ledger.InstructionTypeSpawn.String())
	assert.Equal(t, "invoke", ledger.InstructionTypeInvoke.String())
	assert.Equal(t, "delete", ledger.InstructionTypeDelete.String())
	assert.Equal(t, "unknown(9)", ledger.InstructionType(9).String())
}
