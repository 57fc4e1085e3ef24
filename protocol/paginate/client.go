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
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/blinklabs-io/ledgerbrowse/protocol"
)

// Client requests pages of blocks from a ledger node. It is the page fetcher of a
// single browse session and is not safe for concurrent use: all connection state
// changes happen on the caller's goroutine. The only other goroutine is the stream
// subscription, which forwards received messages and owns nothing
type Client struct {
	config   *Config
	dialer   protocol.Dialer
	state    ConnectionState
	stream   protocol.Stream // Current stream, pending or established
	recvChan chan recvResult // Subscription of the current stream
	doneChan chan struct{}   // Closed when the current stream is dropped
	pending  []Event         // Events from the last response not yet delivered
}

type recvResult struct {
	msg protocol.Message
	err error
}

// NewClient creates a new paginate client that opens streams with the given dialer
func NewClient(dialer protocol.Dialer, cfg *Config) *Client {
	if cfg == nil {
		tmpCfg := NewConfig()
		cfg = &tmpCfg
	}
	c := &Client{
		config: cfg,
		dialer: dialer,
	}
	return c
}

// State returns the current connection mode
func (c *Client) State() ConnectionState {
	return c.state
}

// RequestPage issues a single pagination request. With an established stream the request
// is sent on it and the pages arrive through the existing subscription. Otherwise a new
// stream is dialed and becomes established once a successful response arrives. Use
// NextEvent to consume the resulting page stream
func (c *Client) RequestPage(
	ctx context.Context,
	startBlockID string,
	pageSize int,
	numPages int,
) error {
	startId, err := parseBlockID(startBlockID)
	if err != nil {
		return err
	}
	c.config.Logger.Debug(
		fmt.Sprintf(
			"calling RequestPage(start: %s, pageSize: %d, numPages: %d)",
			startBlockID,
			pageSize,
			numPages,
		),
		"component", "network",
		"protocol", ProtocolName,
		"role", "client",
		"connection_state", c.state.String(),
	)
	msg := NewMsgPaginateRequest(
		startId,
		uint64(pageSize),
		uint64(numPages),
		false,
	)
	if c.state == ConnectionEstablished {
		if err := c.stream.Send(msg); err != nil {
			c.dropConnection()
			return &TransportError{Err: err}
		}
		return nil
	}
	// Discard any stream that never became established
	c.dropConnection()
	stream, err := c.dialer.Dial(ctx)
	if err != nil {
		return &ConnectionError{Err: err}
	}
	c.subscribe(stream)
	if err := stream.Send(msg); err != nil {
		c.dropConnection()
		return &ConnectionError{Err: err}
	}
	return nil
}

// NextEvent blocks until the next event of the page stream is available
func (c *Client) NextEvent() Event {
	if len(c.pending) > 0 {
		evt := c.pending[0]
		c.pending = c.pending[1:]
		return evt
	}
	if c.recvChan == nil {
		return errorEvent(&TransportError{Err: ErrNoStream})
	}
	var timeoutChan <-chan time.Time
	if c.config.BlockTimeout > 0 {
		timer := time.NewTimer(c.config.BlockTimeout)
		defer timer.Stop()
		timeoutChan = timer.C
	}
	select {
	case res, ok := <-c.recvChan:
		if !ok {
			return c.streamFailure(ErrStreamClosed)
		}
		return c.handleRecv(res)
	case <-timeoutChan:
		return c.streamFailure(ErrBlockTimeout)
	}
}

// Close drops the current stream, if any
func (c *Client) Close() error {
	c.dropConnection()
	return nil
}

func (c *Client) handleRecv(res recvResult) Event {
	if res.err != nil {
		if errors.Is(res.err, io.EOF) {
			return c.streamFailure(ErrStreamClosed)
		}
		return c.streamFailure(res.err)
	}
	msg, ok := res.msg.(*MsgPaginateResponse)
	if !ok {
		return c.streamFailure(
			fmt.Errorf(
				"%s: %w: type %d",
				ProtocolName,
				protocol.ErrProtocolViolationUnexpectedMessage,
				res.msg.Type(),
			),
		)
	}
	if msg.ErrorCode != ErrorCodeNone {
		protoErr := &ProtocolError{Code: msg.ErrorCode, Text: msg.ErrorText}
		c.config.Logger.Debug(
			"page error returned",
			"component", "network",
			"protocol", ProtocolName,
			"role", "client",
			"error_code", msg.ErrorCode,
			"error_text", msg.ErrorText,
		)
		if protoErr.Recoverable() {
			c.dropConnection()
		}
		return errorEvent(protoErr)
	}
	if c.state != ConnectionEstablished {
		c.state = ConnectionEstablished
		c.config.Logger.Debug(
			"stream established",
			"component", "network",
			"protocol", ProtocolName,
			"role", "client",
		)
	}
	c.config.Logger.Debug(
		"page returned",
		"component", "network",
		"protocol", ProtocolName,
		"role", "client",
		"page_number", msg.PageNumber,
		"blocks", len(msg.Blocks),
	)
	if len(msg.Blocks) == 0 {
		return Event{Type: EventTypeComplete}
	}
	for idx := range msg.Blocks {
		c.pending = append(
			c.pending,
			Event{
				Type:       EventTypeBlock,
				Seq:        idx + 1,
				Block:      &msg.Blocks[idx],
				LastInPage: idx == len(msg.Blocks)-1,
			},
		)
	}
	evt := c.pending[0]
	c.pending = c.pending[1:]
	return evt
}

// streamFailure drops the stream and classifies the failure depending on whether the stream
// was ever established
func (c *Client) streamFailure(err error) Event {
	established := c.state == ConnectionEstablished
	c.dropConnection()
	if established {
		return errorEvent(&TransportError{Err: err})
	}
	return errorEvent(&ConnectionError{Err: err})
}

func (c *Client) subscribe(stream protocol.Stream) {
	recvChan := make(chan recvResult, c.config.RecvQueueSize)
	doneChan := make(chan struct{})
	c.stream = stream
	c.recvChan = recvChan
	c.doneChan = doneChan
	go func() {
		defer close(recvChan)
		for {
			msg, err := stream.Recv()
			select {
			case recvChan <- recvResult{msg: msg, err: err}:
			case <-doneChan:
				return
			}
			if err != nil {
				return
			}
		}
	}()
}

func (c *Client) dropConnection() {
	if c.stream != nil {
		close(c.doneChan)
		if err := c.stream.Close(); err != nil {
			c.config.Logger.Debug(
				fmt.Sprintf("failed to close stream: %s", err),
				"component", "network",
				"protocol", ProtocolName,
				"role", "client",
			)
		}
	}
	c.stream = nil
	c.recvChan = nil
	c.doneChan = nil
	c.pending = nil
	c.state = ConnectionNone
}

func parseBlockID(blockID string) ([]byte, error) {
	if blockID == "" {
		return nil, &ParseError{BlockID: blockID, Err: ErrEmptyBlockID}
	}
	ret, err := hex.DecodeString(blockID)
	if err != nil {
		return nil, &ParseError{BlockID: blockID, Err: err}
	}
	return ret, nil
}

func errorEvent(err error) Event {
	return Event{Type: EventTypeError, Err: err}
}
