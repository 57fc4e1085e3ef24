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

// Package ledgerbrowse implements a client for locating every occurrence of a contract
// instance in the history of a hash-linked block ledger.
//
// This package provides the websocket transport used to talk to ledger nodes. The
// search itself lives in the browse package, and the wire protocols live under protocol.
package ledgerbrowse

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
	"github.com/blinklabs-io/ledgerbrowse/protocol"
	"github.com/gorilla/websocket"
)

var ErrUnexpectedFrameType = errors.New("unexpected websocket frame type")

// The Connection type is a wrapper around a websocket connection that carries one CBOR
// encoded protocol message per binary frame
type Connection struct {
	conn            *websocket.Conn
	msgFromCborFunc protocol.MessageFromCborFunc
	writeTimeout    time.Duration
	logger          *slog.Logger
	connectionId    string
	sendMutex       sync.Mutex
	onceClose       sync.Once
	doneChan        chan struct{}
}

// NewConnection wraps an established websocket connection. Received messages are built
// with msgFromCborFunc
func NewConnection(
	conn *websocket.Conn,
	msgFromCborFunc protocol.MessageFromCborFunc,
	writeTimeout time.Duration,
	logger *slog.Logger,
) *Connection {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	c := &Connection{
		conn:            conn,
		msgFromCborFunc: msgFromCborFunc,
		writeTimeout:    writeTimeout,
		logger:          logger,
		connectionId:    conn.RemoteAddr().String(),
		doneChan:        make(chan struct{}),
	}
	return c
}

// Send encodes the message and writes it as a single binary frame
func (c *Connection) Send(msg protocol.Message) error {
	// Get raw CBOR from message
	data := msg.Cbor()
	// If message has no raw CBOR, encode the message
	if data == nil {
		var err error
		data, err = cbor.Encode(msg)
		if err != nil {
			return err
		}
	}
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	c.logger.Debug(
		fmt.Sprintf("sent message type %d (%d bytes)", msg.Type(), len(data)),
		"component", "connection",
		"connection_id", c.connectionId,
	)
	return nil
}

// Recv blocks until the next message arrives. It returns io.EOF when the peer closes the
// websocket normally
func (c *Connection) Recv() (protocol.Message, error) {
	frameType, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(
			err,
			websocket.CloseNormalClosure,
			websocket.CloseGoingAway,
		) {
			return nil, io.EOF
		}
		select {
		case <-c.doneChan:
			return nil, protocol.ErrProtocolShuttingDown
		default:
		}
		return nil, err
	}
	if frameType != websocket.BinaryMessage {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedFrameType, frameType)
	}
	msgType, err := cbor.DecodeIdFromList(data)
	if err != nil {
		return nil, fmt.Errorf("decode message type: %w", err)
	}
	msg, err := c.msgFromCborFunc(uint(msgType), data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug(
		fmt.Sprintf("received message type %d (%d bytes)", msgType, len(data)),
		"component", "connection",
		"connection_id", c.connectionId,
	)
	return msg, nil
}

// Close will send a close frame to the peer and shutdown the connection. Any blocked Recv
// call returns with an error
func (c *Connection) Close() error {
	var err error
	c.onceClose.Do(func() {
		close(c.doneChan)
		c.sendMutex.Lock()
		// The peer may already be gone, so errors sending the close frame are ignored
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.sendMutex.Unlock()
		err = c.conn.Close()
	})
	return err
}
