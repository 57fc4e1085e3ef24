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

package chaintip

import (
	"io"
	"log/slog"
	"time"
)

const (
	ProtocolName = "chaintip"
	MethodName   = "GetLatestBlock"
)

// Config is used to configure the chaintip client and provider
type Config struct {
	Timeout      time.Duration
	RetryBackoff time.Duration
	MaxRetries   uint64
	Logger       *slog.Logger
}

// ChainTipOptionFunc represents a function used to modify the chaintip config
type ChainTipOptionFunc func(*Config)

// NewConfig returns a new chaintip config object with the provided options
func NewConfig(options ...ChainTipOptionFunc) Config {
	c := Config{
		Timeout:      30 * time.Second,
		RetryBackoff: 500 * time.Millisecond,
		MaxRetries:   3,
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

// WithTimeout specifies how long to wait for the latest block response
func WithTimeout(timeout time.Duration) ChainTipOptionFunc {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetryBackoff specifies the base duration of the exponential retry backoff
func WithRetryBackoff(backoff time.Duration) ChainTipOptionFunc {
	return func(c *Config) {
		c.RetryBackoff = backoff
	}
}

// WithMaxRetries specifies how many times a failed query is retried
func WithMaxRetries(maxRetries uint64) ChainTipOptionFunc {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ChainTipOptionFunc {
	return func(c *Config) {
		c.Logger = logger
	}
}
