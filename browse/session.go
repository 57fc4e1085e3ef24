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
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blinklabs-io/ledgerbrowse/ledger"
	"github.com/blinklabs-io/ledgerbrowse/protocol"
	"github.com/blinklabs-io/ledgerbrowse/protocol/paginate"
	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// Browser starts search sessions against ledger nodes reached with its dialer
type Browser struct {
	dialer protocol.Dialer
	config Config
}

// New returns a new Browser with the provided options
func New(dialer protocol.Dialer, options ...BrowseOptionFunc) *Browser {
	return &Browser{
		dialer: dialer,
		config: NewConfig(options...),
	}
}

// Search starts a new search session for the target instance. Cancelling ctx aborts the
// session at the next round boundary
func (b *Browser) Search(ctx context.Context, target ledger.InstanceID) *Session {
	s := newSession(b.dialer, b.config, target)
	go s.run(ctx)
	return s
}

// Session is a single search. Its channels are closed once it reaches a terminal state
type Session struct {
	id       string
	config   Config
	target   ledger.InstanceID
	client   *paginate.Client
	scanner  *Scanner
	progress *ProgressReporter
	metrics  *Metrics

	stateMutex sync.Mutex
	state      protocol.State
	err        error
	abort      atomic.Bool
	waitGroup  sync.WaitGroup

	// Only accessed by the controller goroutine
	nextBlockID string
	pageSize    int
	numPages    int
	round       int
	degraded    bool
	scanned     map[string]struct{} // Blocks scanned since the last round boundary
	replay      map[string]struct{} // Blocks a degraded retry will deliver again

	progressChan     chan Progress
	notificationChan chan Notification
	resultChan       chan Result
	doneChan         chan struct{}
}

func newSession(
	dialer protocol.Dialer,
	config Config,
	target ledger.InstanceID,
) *Session {
	paginateConfig := config.PaginateConfig
	if paginateConfig == nil {
		tmpConfig := paginate.NewConfig(paginate.WithLogger(config.Logger))
		paginateConfig = &tmpConfig
	}
	s := &Session{
		id:               uuid.NewString(),
		config:           config,
		target:           target,
		client:           paginate.NewClient(dialer, paginateConfig),
		scanner:          NewScanner(target),
		progress:         NewProgressReporter(),
		metrics:          config.Metrics,
		state:            StateIdle,
		nextBlockID:      config.StartBlockID,
		pageSize:         config.PageSize,
		numPages:         config.NumPages,
		scanned:          make(map[string]struct{}),
		replay:           make(map[string]struct{}),
		progressChan:     make(chan Progress, config.ProgressQueueSize),
		notificationChan: make(chan Notification, config.NotificationQueueSize),
		resultChan:       make(chan Result, 1),
		doneChan:         make(chan struct{}),
	}
	return s
}

// ID returns the unique ID of the session
func (s *Session) ID() string {
	return s.id
}

// Target returns the searched instance
func (s *Session) Target() ledger.InstanceID {
	return s.target
}

// Progress returns the channel of progress reports
func (s *Session) Progress() <-chan Progress {
	return s.progressChan
}

// Notifications returns the channel of notifications
func (s *Session) Notifications() <-chan Notification {
	return s.notificationChan
}

// Result returns the channel that receives the result of a completed or aborted search. A
// failed search closes it without a value
func (s *Session) Result() <-chan Result {
	return s.resultChan
}

// Abort requests the search to stop. The pages already requested are scanned, and no
// further pages are requested
func (s *Session) Abort() {
	s.abort.Store(true)
}

// Done returns a channel that is closed once the session has reached a terminal state
func (s *Session) Done() <-chan struct{} {
	return s.doneChan
}

// Err returns the error that made the session fail, if any
func (s *Session) Err() error {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	return s.err
}

// State returns the current state of the session
func (s *Session) State() protocol.State {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	return s.state
}

// SeenBlocks returns the number of blocks scanned so far
func (s *Session) SeenBlocks() int64 {
	return s.progress.SeenBlocks()
}

// MatchCount returns the number of matching non-spawn instructions so far
func (s *Session) MatchCount() int64 {
	return s.scanner.MatchCount()
}

// TotalLength returns the total chain length, or UnknownLength
func (s *Session) TotalLength() int64 {
	return s.progress.TotalLength()
}

func (s *Session) run(ctx context.Context) {
	startTime := time.Now()
	s.metrics.sessionStarted()
	defer s.finish(startTime)
	stopAbortWatch := context.AfterFunc(ctx, s.Abort)
	defer stopAbortWatch()
	if s.config.LengthProvider != nil {
		lengthCtx, cancelLength := context.WithCancel(ctx)
		defer cancelLength()
		s.subscribeLength(lengthCtx)
	}
	s.config.Logger.Debug(
		fmt.Sprintf("starting search for instance %s", s.target),
		"component", "browse",
		"session_id", s.id,
		"start_block", s.nextBlockID,
		"page_size", s.pageSize,
		"num_pages", s.numPages,
	)
	if err := s.config.validate(); err != nil {
		s.fail(err)
		return
	}
	if err := s.transition(triggerStart); err != nil {
		s.fail(err)
		return
	}
	// Cancellation is honored at round boundaries only, so dialing must not be cut short
	dialCtx := context.WithoutCancel(ctx)
	for {
		trigger, fetchErr := s.fetch(dialCtx)
		if err := s.transition(trigger); err != nil {
			s.fail(err)
			return
		}
		if !StateMap[s.State()].IsTerminal() {
			continue
		}
		switch trigger {
		case triggerComplete, triggerAbort:
			s.resultChan <- s.scanner.Result()
			s.notify(
				NotificationLevelInfo,
				fmt.Sprintf("End of the browsing of the instance ID: %s", s.target),
			)
		case triggerFail:
			s.fail(fetchErr)
		}
		return
	}
}

// fetch requests the next round of pages and scans the blocks as they arrive. It returns
// the trigger for the next state
func (s *Session) fetch(ctx context.Context) (uint8, error) {
	s.config.Logger.Debug(
		fmt.Sprintf(
			"requesting %d pages of %d blocks from %s",
			s.numPages,
			s.pageSize,
			s.nextBlockID,
		),
		"component", "browse",
		"session_id", s.id,
		"round", s.round,
		"degraded", s.degraded,
	)
	if err := s.client.RequestPage(ctx, s.nextBlockID, s.pageSize, s.numPages); err != nil {
		return triggerFail, err
	}
	s.metrics.pageRequested()
	pagesDone := 0
	for {
		evt := s.client.NextEvent()
		switch evt.Type {
		case paginate.EventTypeBlock:
			s.handleBlock(evt.Block)
			if evt.Seq == s.pageSize {
				pagesDone++
			}
			nextID, hasNext := evt.Block.NextID()
			if pagesDone == s.numPages {
				if !hasNext {
					return triggerComplete, nil
				}
				if s.abort.Load() {
					return triggerAbort, nil
				}
				s.nextBlockID = hex.EncodeToString(nextID)
				s.round++
				clear(s.scanned)
				return triggerNextRound, nil
			}
			// The chain ended before the round did
			if evt.LastInPage && !hasNext {
				return triggerComplete, nil
			}
		case paginate.EventTypeComplete:
			return triggerComplete, nil
		case paginate.EventTypeError:
			if paginate.IsRecoverable(evt.Err) {
				s.startDegradedRetry(evt.Err)
				return triggerRetry, nil
			}
			return triggerFail, evt.Err
		default:
			return triggerFail, fmt.Errorf(
				"%w: unknown page event type %d",
				protocol.ErrProtocolViolationUnexpectedMessage,
				evt.Type,
			)
		}
	}
}

func (s *Session) handleBlock(blk *ledger.Block) {
	blockHash := blk.HashHex()
	if _, ok := s.replay[blockHash]; ok {
		delete(s.replay, blockHash)
		return
	}
	s.scanned[blockHash] = struct{}{}
	matches, err := s.scanner.Scan(blk)
	if err != nil {
		s.config.Logger.Warn(
			fmt.Sprintf("skipping block: %s", err),
			"component", "browse",
			"session_id", s.id,
		)
		s.notify(NotificationLevelError, err.Error())
	}
	for _, match := range matches {
		s.metrics.matchFound(match)
		s.config.Logger.Debug(
			fmt.Sprintf("found match in block %s: %s", match.BlockHash, match.Instruction),
			"component", "browse",
			"session_id", s.id,
		)
	}
	s.metrics.blockScanned()
	if progress, ok := s.progress.BlockSeen(s.scanner.MatchCount()); ok {
		select {
		case s.progressChan <- progress:
		default:
			s.config.Logger.Debug(
				"progress queue full, dropping report",
				"component", "browse",
				"session_id", s.id,
			)
		}
	}
}

// startDegradedRetry switches to single block pages for the rest of the session. The blocks
// scanned since the last round boundary will be delivered again and must not be rescanned
func (s *Session) startDegradedRetry(err error) {
	for blockHash := range s.scanned {
		s.replay[blockHash] = struct{}{}
	}
	clear(s.scanned)
	s.pageSize = 1
	s.numPages = 1
	s.degraded = true
	s.metrics.degradedRetry()
	s.config.Logger.Info(
		fmt.Sprintf("stream reset, retrying from %s with single block pages", s.nextBlockID),
		"component", "browse",
		"session_id", s.id,
		"replay_blocks", len(s.replay),
	)
	s.notify(NotificationLevelInfo, err.Error())
}

func (s *Session) subscribeLength(ctx context.Context) {
	lengthChan := s.config.LengthProvider.TotalLength(ctx)
	s.waitGroup.Add(1)
	go func() {
		defer s.waitGroup.Done()
		select {
		case length, ok := <-lengthChan:
			if !ok {
				return
			}
			s.progress.SetTotalLength(length)
			s.config.Logger.Debug(
				fmt.Sprintf("total chain length is %d", length),
				"component", "browse",
				"session_id", s.id,
			)
		case <-ctx.Done():
		}
	}()
}

func (s *Session) transition(trigger uint8) error {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()
	newState, err := StateMap.Transition(s.state, trigger)
	if err != nil {
		s.config.Logger.Error(
			err.Error(),
			"component", "browse",
			"session_id", s.id,
		)
		return err
	}
	if newState != s.state {
		s.config.Logger.Debug(
			fmt.Sprintf("state change: %s -> %s", s.state, newState),
			"component", "browse",
			"session_id", s.id,
		)
	}
	s.state = newState
	return nil
}

// fail records the error and forces the session into the Failed state
func (s *Session) fail(err error) {
	s.stateMutex.Lock()
	s.state = StateFailed
	s.err = err
	s.stateMutex.Unlock()
	s.config.Logger.Error(
		fmt.Sprintf("search failed: %s", err),
		"component", "browse",
		"session_id", s.id,
	)
	s.notify(NotificationLevelError, err.Error())
}

func (s *Session) notify(level NotificationLevel, msg string) {
	select {
	case s.notificationChan <- Notification{Level: level, Message: msg}:
	default:
		s.config.Logger.Debug(
			"notification queue full, dropping notification",
			"component", "browse",
			"session_id", s.id,
		)
	}
}

func (s *Session) finish(startTime time.Time) {
	if err := s.client.Close(); err != nil {
		s.config.Logger.Debug(
			fmt.Sprintf("failed to close page fetcher: %s", err),
			"component", "browse",
			"session_id", s.id,
		)
	}
	// Wait for the length subscription to exit
	s.waitGroup.Wait()
	state := s.State()
	s.config.Logger.Debug(
		fmt.Sprintf(
			"search finished in state %s after %d blocks, %d matches",
			state,
			s.SeenBlocks(),
			s.MatchCount(),
		),
		"component", "browse",
		"session_id", s.id,
	)
	s.metrics.sessionFinished(strings.ToLower(state.Name), time.Since(startTime))
	close(s.progressChan)
	close(s.notificationChan)
	close(s.resultChan)
	close(s.doneChan)
}
