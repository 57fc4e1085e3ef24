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
	"errors"
	"fmt"

	"github.com/blinklabs-io/ledgerbrowse/protocol"
	"github.com/sethvargo/go-retry"
)

// Provider resolves the best-effort total length of the chain in the background
type Provider struct {
	config *Config
	client *Client
}

// NewProvider returns a new Provider that queries nodes reached with the given dialer
func NewProvider(dialer protocol.Dialer, options ...ChainTipOptionFunc) *Provider {
	cfg := NewConfig(options...)
	p := &Provider{
		config: &cfg,
		client: NewClient(dialer, &cfg),
	}
	return p
}

// TotalLength starts resolving the chain length and returns a channel that receives a
// single value once it is known. The channel is closed without a value when the length
// cannot be determined or ctx is cancelled
func (p *Provider) TotalLength(ctx context.Context) <-chan int64 {
	retChan := make(chan int64, 1)
	go func() {
		defer close(retChan)
		length, err := p.queryWithRetry(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				p.config.Logger.Warn(
					fmt.Sprintf("failed to determine chain length: %s", err),
					"component", "network",
					"protocol", ProtocolName,
					"role", "client",
				)
			}
			return
		}
		retChan <- length
	}()
	return retChan
}

func (p *Provider) queryWithRetry(ctx context.Context) (int64, error) {
	backoff := retry.NewExponential(p.config.RetryBackoff)
	backoff = retry.WithMaxRetries(p.config.MaxRetries, backoff)
	var length int64
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		msg, err := p.client.GetLatestBlock(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.config.Logger.Debug(
				fmt.Sprintf("latest block query attempt %d failed: %s", attempt, err),
				"component", "network",
				"protocol", ProtocolName,
				"role", "client",
			)
			return retry.RetryableError(err)
		}
		length = msg.Length()
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, err
		}
		return 0, fmt.Errorf("%w after %d attempts: %w", ErrNoMoreRetries, attempt, err)
	}
	return length, nil
}
