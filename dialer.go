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
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/blinklabs-io/ledgerbrowse/protocol"
	"github.com/blinklabs-io/ledgerbrowse/protocol/chaintip"
	"github.com/blinklabs-io/ledgerbrowse/protocol/paginate"
	"github.com/gorilla/websocket"
)

const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultReadLimit        = 64 * 1024 * 1024
)

// Dialer opens websocket streams to a single method of a ledger node service
type Dialer struct {
	address          string
	useTLS           bool
	serviceName      string
	methodName       string
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	readLimit        int64
	logger           *slog.Logger
	msgFromCborFunc  protocol.MessageFromCborFunc
}

// NewDialer returns a Dialer for the given method. Messages received on its streams are
// built with msgFromCborFunc
func NewDialer(
	methodName string,
	msgFromCborFunc protocol.MessageFromCborFunc,
	options ...DialerOptionFunc,
) *Dialer {
	d := &Dialer{
		address:          NetworkLocal.Address,
		serviceName:      paginate.ServiceName,
		methodName:       methodName,
		handshakeTimeout: DefaultHandshakeTimeout,
		writeTimeout:     DefaultWriteTimeout,
		readLimit:        DefaultReadLimit,
		msgFromCborFunc:  msgFromCborFunc,
	}
	// Apply provided options functions
	for _, option := range options {
		option(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return d
}

// NewPaginateDialer returns a Dialer for the block pagination method
func NewPaginateDialer(options ...DialerOptionFunc) *Dialer {
	return NewDialer(paginate.MethodName, paginate.NewMsgFromCbor, options...)
}

// NewChainTipDialer returns a Dialer for the latest block method
func NewChainTipDialer(options ...DialerOptionFunc) *Dialer {
	return NewDialer(chaintip.MethodName, chaintip.NewMsgFromCbor, options...)
}

// URL returns the websocket URL of the dialed method
func (d *Dialer) URL() string {
	u := url.URL{
		Scheme: "ws",
		Host:   d.address,
		Path:   "/" + d.serviceName + "/" + d.methodName,
	}
	if d.useTLS {
		u.Scheme = "wss"
	}
	return u.String()
}

// Dial opens a new websocket stream
func (d *Dialer) Dial(ctx context.Context) (protocol.Stream, error) {
	wsDialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: d.handshakeTimeout,
	}
	wsUrl := d.URL()
	conn, resp, err := wsDialer.DialContext(ctx, wsUrl, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (HTTP status %d)", wsUrl, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", wsUrl, err)
	}
	if d.readLimit > 0 {
		conn.SetReadLimit(d.readLimit)
	}
	d.logger.Debug(
		fmt.Sprintf("connected to %s", wsUrl),
		"component", "connection",
		"connection_id", conn.RemoteAddr().String(),
	)
	return NewConnection(conn, d.msgFromCborFunc, d.writeTimeout, d.logger), nil
}
