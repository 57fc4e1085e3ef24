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

// Package mockstream provides scripted message streams for testing protocol clients
// without a network
package mockstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
	"github.com/blinklabs-io/ledgerbrowse/protocol"
)

var (
	ErrStreamClosed       = errors.New("mock stream closed")
	ErrNoMoreStreams      = errors.New("no more mock conversations")
	ErrUnexpectedMessage  = errors.New("unexpected message")
	ErrConversationFinish = errors.New("conversation has no more input entries")
)

type recvItem struct {
	msg protocol.Message
	err error
}

// Stream mocks a message stream by following a scripted conversation
type Stream struct {
	mutex           sync.Mutex
	conversation    []ConversationEntry
	position        int
	msgFromCborFunc protocol.MessageFromCborFunc
	recvChan        chan recvItem
	doneChan        chan struct{}
	onceClose       sync.Once
	sent            []protocol.Message
	err             error
}

// NewStream returns a new Stream with the provided conversation entries. Messages are
// passed through CBOR in both directions using msgFromCborFunc, as they would be on the wire
func NewStream(
	msgFromCborFunc protocol.MessageFromCborFunc,
	conversation []ConversationEntry,
) *Stream {
	queueSize := 1
	for _, entry := range conversation {
		queueSize += 1 + len(entry.OutputMessages)
	}
	s := &Stream{
		conversation:    conversation,
		msgFromCborFunc: msgFromCborFunc,
		recvChan:        make(chan recvItem, queueSize),
		doneChan:        make(chan struct{}),
	}
	// Deliver anything scripted before the first input
	s.mutex.Lock()
	s.advance()
	s.mutex.Unlock()
	return s
}

// Send checks the message against the next input entry of the conversation and queues
// the entries that follow it
func (s *Stream) Send(msg protocol.Message) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	select {
	case <-s.doneChan:
		return ErrStreamClosed
	default:
	}
	data, err := cbor.Encode(msg)
	if err != nil {
		return err
	}
	msgType, err := cbor.DecodeIdFromList(data)
	if err != nil {
		return s.fail(fmt.Errorf("decode error: %w", err))
	}
	decoded, err := s.msgFromCborFunc(uint(msgType), data)
	if err != nil {
		return s.fail(fmt.Errorf("message from CBOR error: %w", err))
	}
	s.sent = append(s.sent, decoded)
	if s.position >= len(s.conversation) ||
		s.conversation[s.position].Type != EntryTypeInput {
		return s.fail(ErrConversationFinish)
	}
	entry := s.conversation[s.position]
	s.position++
	if entry.InputMessage != nil {
		expected, err := s.roundTrip(entry.InputMessage)
		if err != nil {
			return s.fail(err)
		}
		if !reflect.DeepEqual(decoded, expected) {
			return s.fail(
				fmt.Errorf(
					"%w: got %#v, expected %#v",
					ErrUnexpectedMessage,
					decoded,
					expected,
				),
			)
		}
	} else if entry.InputMessageType != uint(msgType) {
		return s.fail(
			fmt.Errorf(
				"%w: expected type %d, got %d",
				ErrUnexpectedMessage,
				entry.InputMessageType,
				msgType,
			),
		)
	}
	s.advance()
	return nil
}

// Recv returns the next scripted message. It blocks until one is queued or the stream is closed
func (s *Stream) Recv() (protocol.Message, error) {
	select {
	case item := <-s.recvChan:
		return item.msg, item.err
	case <-s.doneChan:
		return nil, ErrStreamClosed
	}
}

// Close closes the stream and unblocks any pending Recv
func (s *Stream) Close() error {
	s.onceClose.Do(func() {
		close(s.doneChan)
	})
	return nil
}

// Closed returns true once Close has been called
func (s *Stream) Closed() bool {
	select {
	case <-s.doneChan:
		return true
	default:
		return false
	}
}

// Sent returns the messages the client has sent so far
func (s *Stream) Sent() []protocol.Message {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	ret := make([]protocol.Message, len(s.sent))
	copy(ret, s.sent)
	return ret
}

// Err returns the first conversation mismatch, if any
func (s *Stream) Err() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.err
}

// advance queues all output entries up to the next input entry
func (s *Stream) advance() {
	for s.position < len(s.conversation) {
		entry := s.conversation[s.position]
		switch entry.Type {
		case EntryTypeInput:
			return
		case EntryTypeOutput:
			for _, msg := range entry.OutputMessages {
				decoded, err := s.roundTrip(msg)
				s.recvChan <- recvItem{msg: decoded, err: err}
			}
		case EntryTypeError:
			s.recvChan <- recvItem{err: entry.Error}
		case EntryTypeClose:
			s.recvChan <- recvItem{err: io.EOF}
		default:
			panic(
				fmt.Sprintf(
					"unknown conversation entry type: %d: %#v",
					entry.Type,
					entry,
				),
			)
		}
		s.position++
	}
}

func (s *Stream) roundTrip(msg protocol.Message) (protocol.Message, error) {
	// Get raw CBOR from message
	data := msg.Cbor()
	// If message has no raw CBOR, encode the message
	if data == nil {
		var err error
		data, err = cbor.Encode(msg)
		if err != nil {
			return nil, err
		}
	}
	msgType, err := cbor.DecodeIdFromList(data)
	if err != nil {
		return nil, err
	}
	return s.msgFromCborFunc(uint(msgType), data)
}

func (s *Stream) fail(err error) error {
	if s.err == nil {
		s.err = err
	}
	return err
}

// Dialer hands out one scripted Stream per Dial call
type Dialer struct {
	mutex           sync.Mutex
	msgFromCborFunc protocol.MessageFromCborFunc
	conversations   [][]ConversationEntry
	dialErrors      map[int]error
	streams         []*Stream
	dials           int
}

// NewDialer returns a Dialer that serves the given conversations in order
func NewDialer(
	msgFromCborFunc protocol.MessageFromCborFunc,
	conversations ...[]ConversationEntry,
) *Dialer {
	return &Dialer{
		msgFromCborFunc: msgFromCborFunc,
		conversations:   conversations,
		dialErrors:      map[int]error{},
	}
}

// FailDial makes the dial attempt with the given 0-based index fail with err. Failed
// attempts do not consume a conversation
func (d *Dialer) FailDial(attempt int, err error) *Dialer {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.dialErrors[attempt] = err
	return d
}

func (d *Dialer) Dial(ctx context.Context) (protocol.Stream, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	attempt := d.dials
	d.dials++
	if err, ok := d.dialErrors[attempt]; ok {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(d.streams) >= len(d.conversations) {
		return nil, ErrNoMoreStreams
	}
	stream := NewStream(d.msgFromCborFunc, d.conversations[len(d.streams)])
	d.streams = append(d.streams, stream)
	return stream, nil
}

// Dials returns the number of Dial calls so far
func (d *Dialer) Dials() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.dials
}

// Streams returns the streams handed out so far
func (d *Dialer) Streams() []*Stream {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	ret := make([]*Stream, len(d.streams))
	copy(ret, d.streams)
	return ret
}

// Err returns the first conversation mismatch of any stream
func (d *Dialer) Err() error {
	for _, stream := range d.Streams() {
		if err := stream.Err(); err != nil {
			return err
		}
	}
	return nil
}
