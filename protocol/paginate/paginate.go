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
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/ledgerbrowse/ledger"
)

const (
	ProtocolName = "paginate"
	// ServiceName and MethodName form the websocket path used by ledger nodes
	ServiceName = "ByzCoin"
	MethodName  = "PaginateRequest"
)

// Error codes carried in MsgPaginateResponse
const (
	ErrorCodeNone        uint64 = 0
	ErrorCodeStreamReset uint64 = 5
)

// ConnectionState tracks whether the client holds a reusable stream
type ConnectionState uint8

const (
	ConnectionNone        ConnectionState = 0
	ConnectionEstablished ConnectionState = 1
)

func (s ConnectionState) String() string {
	if s == ConnectionEstablished {
		return "Established"
	}
	return "None"
}

type EventType uint8

const (
	EventTypeBlock    EventType = 1
	EventTypeComplete EventType = 2
	EventTypeError    EventType = 3
)

// Event is a single item of the page stream
type Event struct {
	Type EventType
	// Seq is the 1-based position of the block within its page
	Seq   int
	Block *ledger.Block
	// LastInPage is set on the final block of a page response
	LastInPage bool
	Err        error
}

// Config is used to configure the paginate client
type Config struct {
	BlockTimeout  time.Duration
	RecvQueueSize int
	Logger        *slog.Logger
}

// PaginateOptionFunc represents a function used to modify the paginate config
type PaginateOptionFunc func(*Config)

// NewConfig returns a new paginate config object with the provided options
func NewConfig(options ...PaginateOptionFunc) Config {
	c := Config{
		BlockTimeout:  60 * time.Second,
		RecvQueueSize: 16,
	}
	// Apply provided options functions
	for _, option := range options {
		option(&c)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return c
}

// WithBlockTimeout specifies how long to wait for the next page response. Zero disables the timeout
func WithBlockTimeout(timeout time.Duration) PaginateOptionFunc {
	return func(c *Config) {
		c.BlockTimeout = timeout
	}
}

// WithRecvQueueSize specifies how many received messages may be buffered per stream
func WithRecvQueueSize(size int) PaginateOptionFunc {
	return func(c *Config) {
		c.RecvQueueSize = size
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) PaginateOptionFunc {
	return func(c *Config) {
		c.Logger = logger
	}
}
