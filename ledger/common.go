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
	"encoding/json"
	"fmt"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

const (
	Blake2b256Size = 32
	InstanceIDSize = Blake2b256Size
)

type Blake2b256 [Blake2b256Size]byte

func NewBlake2b256(data []byte) Blake2b256 {
	b := Blake2b256{}
	copy(b[:], data)
	return b
}

func (b Blake2b256) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b256) Bytes() []byte {
	return b[:]
}

// Blake2b256Hash generates a Blake2b-256 hash from the provided data
func Blake2b256Hash(data []byte) Blake2b256 {
	tmpHash, err := blake2b.New(Blake2b256Size, nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	return Blake2b256(tmpHash.Sum(nil))
}

// InstanceID identifies a contract instance on the ledger
type InstanceID [InstanceIDSize]byte

func NewInstanceID(data []byte) InstanceID {
	i := InstanceID{}
	copy(i[:], data)
	return i
}

// NewInstanceIDFromHex parses the hex representation of an instance ID
func NewInstanceIDFromHex(hexData string) (InstanceID, error) {
	data, err := hex.DecodeString(hexData)
	if err != nil {
		return InstanceID{}, fmt.Errorf("invalid instance ID %q: %w", hexData, err)
	}
	if len(data) != InstanceIDSize {
		return InstanceID{}, fmt.Errorf(
			"invalid instance ID %q: expected %d bytes, got %d",
			hexData,
			InstanceIDSize,
			len(data),
		)
	}
	return NewInstanceID(data), nil
}

// String returns the hex form, which is also the form used for comparisons
func (i InstanceID) String() string {
	return hex.EncodeToString(i[:])
}

func (i InstanceID) Bytes() []byte {
	return i[:]
}

func (i InstanceID) IsZero() bool {
	return i == InstanceID{}
}

func (i InstanceID) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i InstanceID) MarshalCBOR() ([]byte, error) {
	// Ensure we always encode a full-sized bytestring, even if the ID is zero-valued
	idBytes := make([]byte, InstanceIDSize)
	copy(idBytes, i[:])
	return cbor.Encode(idBytes)
}

func (i *InstanceID) UnmarshalCBOR(data []byte) error {
	var idBytes []byte
	if _, err := cbor.Decode(data, &idBytes); err != nil {
		return err
	}
	if len(idBytes) != InstanceIDSize {
		return fmt.Errorf(
			"invalid instance ID length: expected %d, got %d",
			InstanceIDSize,
			len(idBytes),
		)
	}
	*i = NewInstanceID(idBytes)
	return nil
}

// Bech32 renders the instance ID with the given human-readable prefix
func (i InstanceID) Bech32(prefix string) string {
	// Convert data to base32 and encode as bech32
	convData, err := bech32.ConvertBits(i[:], 8, 5, true)
	if err != nil {
		panic(
			fmt.Sprintf("unexpected error converting data to base32: %s", err),
		)
	}
	encoded, err := bech32.Encode(prefix, convData)
	if err != nil {
		panic(fmt.Sprintf("unexpected error encoding data as bech32: %s", err))
	}
	return encoded
}
