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

package browse

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/ledgerbrowse/protocol/paginate"
)

// Config is used to configure a Browser
var (
	ErrInvalidPageSize = errors.New("page size must be positive")
	ErrInvalidNumPages = errors.New("number of pages must be positive")
)

type Config struct {
	StartBlockID          string
	PageSize              int
	NumPages              int
	Logger                *slog.Logger
	Metrics               *Metrics
	LengthProvider        LengthProvider
	PaginateConfig        *paginate.Config
	ProgressQueueSize     int
	NotificationQueueSize int
}

// BrowseOptionFunc represents a function used to modify the browse config
func (c Config) validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, c.PageSize)
	}
	if c.NumPages <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidNumPages, c.NumPages)
	}
	return nil
}

type BrowseOptionFunc func(*Config)

// NewConfig returns a new browse config object with the provided options
func NewConfig(options ...BrowseOptionFunc) Config {
	c := Config{
		StartBlockID:          DefaultStartBlockID,
		PageSize:              DefaultPageSize,
		NumPages:              DefaultNumPages,
		ProgressQueueSize:     256,
		NotificationQueueSize: 16,
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

// WithStartBlockID specifies the hex ID of the block where searches start
func WithStartBlockID(blockID string) BrowseOptionFunc {
	return func(c *Config) {
		c.StartBlockID = blockID
	}
}

// WithPageSize specifies the number of blocks per page
func WithPageSize(pageSize int) BrowseOptionFunc {
	return func(c *Config) {
		c.PageSize = pageSize
	}
}

// WithNumPages specifies the number of pages requested per round
func WithNumPages(numPages int) BrowseOptionFunc {
	return func(c *Config) {
		c.NumPages = numPages
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) BrowseOptionFunc {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMetrics specifies the metrics to update. Metrics are disabled by default
func WithMetrics(metrics *Metrics) BrowseOptionFunc {
	return func(c *Config) {
		c.Metrics = metrics
	}
}

// WithLengthProvider specifies the source of the total chain length. Without one, the
// length stays unknown for the whole session
func WithLengthProvider(provider LengthProvider) BrowseOptionFunc {
	return func(c *Config) {
		c.LengthProvider = provider
	}
}

// WithPaginateConfig specifies the config of the page fetcher
func WithPaginateConfig(cfg paginate.Config) BrowseOptionFunc {
	return func(c *Config) {
		c.PaginateConfig = &cfg
	}
}

// WithProgressQueueSize specifies how many progress reports may be buffered. Reports that
// do not fit are dropped
func WithProgressQueueSize(size int) BrowseOptionFunc {
	return func(c *Config) {
		c.ProgressQueueSize = size
	}
}

// WithNotificationQueueSize specifies how many notifications may be buffered.
// Notifications that do not fit are dropped
func WithNotificationQueueSize(size int) BrowseOptionFunc {
	return func(c *Config) {
		c.NotificationQueueSize = size
	}
}
