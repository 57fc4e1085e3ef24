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

// Package cbor provides CBOR encoding/decoding utilities for ledger messages
// and block payloads.
//
// This package wraps github.com/fxamacker/cbor/v2. Every message exchanged
// with a ledger node is a CBOR array whose first item is the message type.
//
// # Key Types
//
//   - StructAsArray: Embed to encode struct fields as a CBOR array instead of a map
//   - DecodeStoreCbor: Embed to preserve original CBOR bytes for hashing
//   - RawMessage: Deferred decoding (like json.RawMessage)
//
// # Preserving original bytes
//
// Instance IDs of spawned contracts are derived from the hash of the original
// instruction encoding, so types that are hashed keep the bytes they were
// decoded from:
//
//	func (m *MyType) UnmarshalCBOR(data []byte) error {
//	    type tMyType MyType
//	    var tmp tMyType
//	    if _, err := cbor.Decode(data, &tmp); err != nil {
//	        return err
//	    }
//	    *m = MyType(tmp)
//	    m.SetCbor(data)
//	    return nil
//	}
package cbor
