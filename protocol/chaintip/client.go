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
	"context"
	"fmt"

	"github.com/blinklabs-io/ledgerbrowse/protocol"
)

// Client queries the latest block of a ledger node. Each query uses its own stream
type Client struct {
	config *Config
	dialer protocol.Dialer
}

// NewClient returns a new chaintip client that opens streams with the given dialer
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

// GetLatestBlock returns the latest block known to the node
func (c *Client) GetLatestBlock(ctx context.Context) (*MsgLatestBlock, error) {
	c.config.Logger.Debug(
		"calling GetLatestBlock()",
		"component", "network",
		"protocol", ProtocolName,
		"role", "client",
	)
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}
	stream, err := c.dialer.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: dial: %w", ProtocolName, err)
	}
	defer func() {
		_ = stream.Close()
	}()
	if err := stream.Send(NewMsgGetLatestBlock()); err != nil {
		return nil, fmt.Errorf("%s: send: %w", ProtocolName, err)
	}
	type recvResult struct {
		msg protocol.Message
		err error
	}
	// Buffered so that the receiver can exit once the stream is closed
	resultChan := make(chan recvResult, 1)
	go func() {
		msg, err := stream.Recv()
		resultChan <- recvResult{msg: msg, err: err}
	}()
	var res recvResult
	select {
	case res = <-resultChan:
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%s: %w", ProtocolName, ErrTimeout)
		}
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, fmt.Errorf("%s: receive: %w", ProtocolName, res.err)
	}
	msg, ok := res.msg.(*MsgLatestBlock)
	if !ok {
		return nil, fmt.Errorf(
			"%s: %w: type %d",
			ProtocolName,
			protocol.ErrProtocolViolationUnexpectedMessage,
			res.msg.Type(),
		)
	}
	if len(msg.Hash) == 0 {
		return nil, fmt.Errorf("%s: %w", ProtocolName, ErrEmptyLatestBlock)
	}
	c.config.Logger.Debug(
		fmt.Sprintf("latest block: index %d, hash %x", msg.Index, msg.Hash),
		"component", "network",
		"protocol", ProtocolName,
		"role", "client",
	)
	return msg, nil
}
