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

package ledgerbrowse

import (
	"log/slog"
	"time"
)

// DialerOptionFunc is a type that represents functions that modify the Dialer config
type DialerOptionFunc func(*Dialer)

// WithNetwork specifies the network whose node to connect to
func WithNetwork(network Network) DialerOptionFunc {
	return func(d *Dialer) {
		d.address = network.Address
		d.useTLS = network.UseTLS
	}
}

// WithAddress specifies the host:port of the node's websocket endpoint
func WithAddress(address string) DialerOptionFunc {
	return func(d *Dialer) {
		d.address = address
	}
}

// WithTLS specifies whether to use secure websockets
func WithTLS(useTLS bool) DialerOptionFunc {
	return func(d *Dialer) {
		d.useTLS = useTLS
	}
}

// WithServiceName specifies the service part of the websocket path
func WithServiceName(serviceName string) DialerOptionFunc {
	return func(d *Dialer) {
		d.serviceName = serviceName
	}
}

// WithHandshakeTimeout specifies the timeout for the websocket handshake
func WithHandshakeTimeout(timeout time.Duration) DialerOptionFunc {
	return func(d *Dialer) {
		d.handshakeTimeout = timeout
	}
}

// WithWriteTimeout specifies the deadline for writing a single message. Zero disables it
func WithWriteTimeout(timeout time.Duration) DialerOptionFunc {
	return func(d *Dialer) {
		d.writeTimeout = timeout
	}
}

// WithReadLimit specifies the maximum size of a received message in bytes
func WithReadLimit(limit int64) DialerOptionFunc {
	return func(d *Dialer) {
		d.readLimit = limit
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) DialerOptionFunc {
	return func(d *Dialer) {
		d.logger = logger
	}
}
