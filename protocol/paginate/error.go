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

package paginate

import (
	"errors"
	"fmt"
)

var (
	ErrBlockTimeout = errors.New("timed out waiting for page response")
	ErrStreamClosed = errors.New("stream closed by peer")
	ErrNoStream     = errors.New("no stream available")
	ErrEmptyBlockID = errors.New("empty block ID")
)

// ParseError is returned when the start block ID cannot be parsed into bytes
type ParseError struct {
	BlockID string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse the block ID %q: %s", e.BlockID, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConnectionError is returned when a stream to the node cannot be established
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("error creating connection: %s", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ProtocolError is a nonzero error code reported by the node
type ProtocolError struct {
	Code uint64
	Text string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("error code %d : %s", e.Code, e.Text)
}

// Recoverable returns true when the request may be retried on a new stream
func (e *ProtocolError) Recoverable() bool {
	return e.Code == ErrorCodeStreamReset
}

// TransportError is a failure of an established stream that carries no error code
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRecoverable returns true if err contains a recoverable ProtocolError
func IsRecoverable(err error) bool {
	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return protoErr.Recoverable()
	}
	return false
}
