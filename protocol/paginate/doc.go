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

// Package paginate implements the client side of the block pagination protocol.
//
// A client asks a ledger node for numPages pages of pageSize blocks each, starting
// at a given block and following forward links. The node answers with one
// response message per page on the same stream. A stream that has delivered a
// successful response is kept and reused for later requests.
//
// # Key Files
//
//   - paginate.go: ProtocolName, error codes, Stream and Dialer, Config
//   - client.go: Client (the page fetcher) and its connection-mode policy
//   - messages.go: message types with CBOR encoding
//   - error.go: typed errors used to classify failures
//
// # Error classification
//
// A response with ErrorCode 5 means the node reset the stream. The client drops
// the stream and reports a recoverable ProtocolError. Any other nonzero code is a
// fatal ProtocolError. A failure of an established stream that carries no error
// code is a TransportError and is not recoverable.
package paginate
