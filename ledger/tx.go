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
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
)

type InstructionType uint8

const (
	InstructionTypeSpawn  InstructionType = 0
	InstructionTypeInvoke InstructionType = 1
	InstructionTypeDelete InstructionType = 2
)

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeSpawn:
		return "spawn"
	case InstructionTypeInvoke:
		return "invoke"
	case InstructionTypeDelete:
		return "delete"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Transaction is an ordered sequence of instructions submitted by a client
type Transaction struct {
	cbor.StructAsArray
	Instructions []Instruction
}

// Argument is a named argument passed to a contract
type Argument struct {
	cbor.StructAsArray
	Name  string
	Value []byte
}

// Instruction is a single operation on a contract instance. For spawn instructions,
// InstanceID refers to the instance holding the contract (usually the config instance)
// and the new instance ID comes from DeriveID
type Instruction struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	InstanceID InstanceID
	Type       InstructionType
	ContractID string
	Command    string
	Args       []Argument
}

func (i *Instruction) UnmarshalCBOR(cborData []byte) error {
	type tInstruction Instruction
	var tmp tInstruction
	if _, err := cbor.Decode(cborData, &tmp); err != nil {
		return err
	}
	*i = Instruction(tmp)
	i.SetCbor(cborData)
	return nil
}

func (i Instruction) IsSpawn() bool {
	return i.Type == InstructionTypeSpawn
}

// Hash returns the Blake2b-256 hash of the instruction's CBOR encoding. The original
// bytes are used when the instruction was decoded from a block
func (i Instruction) Hash() Blake2b256 {
	data := i.Cbor()
	if data == nil {
		var err error
		data, err = cbor.Encode(i)
		if err != nil {
			panic(
				fmt.Sprintf("unexpected error encoding instruction: %s", err),
			)
		}
	}
	return Blake2b256Hash(data)
}

// DeriveID returns the deterministic instance ID resulting from this instruction and
// the given seed. Spawned instances use the empty seed
func (i Instruction) DeriveID(seed string) InstanceID {
	instrHash := i.Hash()
	data := make([]byte, 0, len(instrHash)+4+len(seed))
	data = append(data, instrHash[:]...)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(seed)))
	data = append(data, seed...)
	return InstanceID(Blake2b256Hash(data))
}

func (i Instruction) String() string {
	return fmt.Sprintf(
		"%s %s/%s on %s",
		i.Type,
		i.ContractID,
		i.Command,
		i.InstanceID,
	)
}
