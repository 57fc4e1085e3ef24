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

package paginate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	test_ledger "github.com/blinklabs-io/ledgerbrowse/internal/test/ledger"
	"github.com/blinklabs-io/ledgerbrowse/internal/test/mockstream"
	"github.com/blinklabs-io/ledgerbrowse/protocol/paginate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type testInnerFunc func(*testing.T, *paginate.Client, *mockstream.Dialer)

func runTest(
	t *testing.T,
	conversations [][]mockstream.ConversationEntry,
	innerFunc testInnerFunc,
	options ...paginate.PaginateOptionFunc,
) {
	defer goleak.VerifyNone(t)
	dialer := mockstream.NewDialer(paginate.NewMsgFromCbor, conversations...)
	opts := []paginate.PaginateOptionFunc{
		paginate.WithBlockTimeout(2 * time.Second),
	}
	opts = append(opts, options...)
	cfg := paginate.NewConfig(opts...)
	client := paginate.NewClient(dialer, &cfg)
	innerFunc(t, client, dialer)
	if err := dialer.Err(); err != nil {
		t.Errorf("unexpected conversation error: %s", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("unexpected error when closing client: %s", err)
	}
}

func expectBlocks(
	t *testing.T,
	client *paginate.Client,
	chain *test_ledger.Chain,
	startIdx int,
	count int,
	pageSize int,
) {
	t.Helper()
	for i := range count {
		evt := client.NextEvent()
		require.Equal(t, paginate.EventTypeBlock, evt.Type, "event %d: %v", i, evt.Err)
		assert.Equal(t, chain.ID(startIdx+i), evt.Block.HashHex())
		assert.Equal(t, i%pageSize+1, evt.Seq)
		assert.Equal(
			t,
			i%pageSize == pageSize-1 || i == count-1,
			evt.LastInPage,
			"block %d",
			i,
		)
	}
}

func TestRequestPageParseError(t *testing.T) {
	testDefs := []struct {
		blockID string
		isEmpty bool
	}{
		{blockID: "", isEmpty: true},
		{blockID: "not-hex"},
		{blockID: "abc"},
	}
	for _, testDef := range testDefs {
		runTest(
			t,
			nil,
			func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
				err := client.RequestPage(context.Background(), testDef.blockID, 15, 15)
				var parseErr *paginate.ParseError
				if !errors.As(err, &parseErr) {
					t.Fatalf("did not get expected parse error: got %v", err)
				}
				assert.Equal(t, testDef.blockID, parseErr.BlockID)
				assert.Equal(t, testDef.isEmpty, errors.Is(err, paginate.ErrEmptyBlockID))
				assert.Equal(t, 0, dialer.Dials())
			},
		)
	}
}

func TestRequestPageConnectionError(t *testing.T) {
	dialErr := errors.New("connection refused")
	chain := test_ledger.NewEmptyChain(1)
	runTest(
		t,
		nil,
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			dialer.FailDial(0, dialErr)
			err := client.RequestPage(context.Background(), chain.ID(0), 1, 1)
			var connErr *paginate.ConnectionError
			if !errors.As(err, &connErr) {
				t.Fatalf("did not get expected connection error: got %v", err)
			}
			assert.ErrorIs(t, err, dialErr)
			assert.Equal(t, paginate.ConnectionNone, client.State())
		},
	)
}

func TestRequestPageReusesEstablishedStream(t *testing.T) {
	chain := test_ledger.NewEmptyChain(10)
	runTest(
		t,
		[][]mockstream.ConversationEntry{
			chain.Conversation(0, 2, 2),
		},
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			ctx := context.Background()
			assert.Equal(t, paginate.ConnectionNone, client.State())
			require.NoError(t, client.RequestPage(ctx, chain.ID(0), 2, 2))
			expectBlocks(t, client, chain, 0, 4, 2)
			assert.Equal(t, paginate.ConnectionEstablished, client.State())
			require.NoError(t, client.RequestPage(ctx, chain.ID(4), 2, 2))
			expectBlocks(t, client, chain, 4, 4, 2)
			require.NoError(t, client.RequestPage(ctx, chain.ID(8), 2, 2))
			expectBlocks(t, client, chain, 8, 2, 2)
			assert.Equal(t, 1, dialer.Dials())
			streams := dialer.Streams()
			require.Len(t, streams, 1)
			assert.Len(t, streams[0].Sent(), 3)
			assert.False(t, streams[0].Closed())
		},
	)
}

func TestRequestPageShortPage(t *testing.T) {
	chain := test_ledger.NewEmptyChain(3)
	runTest(
		t,
		[][]mockstream.ConversationEntry{
			chain.Conversation(0, 2, 3),
		},
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			require.NoError(t, client.RequestPage(context.Background(), chain.ID(0), 2, 3))
			expectBlocks(t, client, chain, 0, 3, 2)
			_, hasNext := chain.Blocks[2].NextID()
			assert.False(t, hasNext)
		},
	)
}

func TestRequestPageEmptyPage(t *testing.T) {
	chain := test_ledger.NewEmptyChain(1)
	runTest(
		t,
		[][]mockstream.ConversationEntry{
			{
				mockstream.NewInputMessageEntry(chain.Request(0, 1, 1)),
				mockstream.NewOutputEntry(
					paginate.NewMsgPaginateResponse(nil, 0, false),
				),
			},
		},
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			require.NoError(t, client.RequestPage(context.Background(), chain.ID(0), 1, 1))
			evt := client.NextEvent()
			assert.Equal(t, paginate.EventTypeComplete, evt.Type)
			assert.NoError(t, evt.Err)
		},
	)
}

func TestStreamResetDropsConnection(t *testing.T) {
	chain := test_ledger.NewEmptyChain(4)
	runTest(
		t,
		[][]mockstream.ConversationEntry{
			{
				mockstream.NewInputMessageEntry(chain.Request(0, 2, 2)),
				mockstream.NewOutputEntry(chain.Pages(0, 2, 1)...),
				mockstream.NewOutputEntry(
					paginate.NewMsgPaginateError(
						paginate.ErrorCodeStreamReset,
						"stream closed",
					),
				),
			},
			{
				mockstream.NewInputMessageEntry(chain.Request(0, 1, 1)),
				mockstream.NewOutputEntry(chain.Pages(0, 1, 1)...),
			},
		},
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			ctx := context.Background()
			require.NoError(t, client.RequestPage(ctx, chain.ID(0), 2, 2))
			expectBlocks(t, client, chain, 0, 2, 2)
			evt := client.NextEvent()
			require.Equal(t, paginate.EventTypeError, evt.Type)
			var protoErr *paginate.ProtocolError
			if !errors.As(evt.Err, &protoErr) {
				t.Fatalf("did not get expected protocol error: got %v", evt.Err)
			}
			assert.Equal(t, paginate.ErrorCodeStreamReset, protoErr.Code)
			assert.Equal(t, "stream closed", protoErr.Text)
			assert.True(t, paginate.IsRecoverable(evt.Err))
			assert.Equal(t, paginate.ConnectionNone, client.State())
			require.True(t, dialer.Streams()[0].Closed())
			// Retry degraded on a new stream
			require.NoError(t, client.RequestPage(ctx, chain.ID(0), 1, 1))
			expectBlocks(t, client, chain, 0, 1, 1)
			assert.Equal(t, 2, dialer.Dials())
			assert.Equal(t, paginate.ConnectionEstablished, client.State())
		},
	)
}

func TestFatalProtocolError(t *testing.T) {
	chain := test_ledger.NewEmptyChain(4)
	runTest(
		t,
		[][]mockstream.ConversationEntry{
			{
				mockstream.NewInputMessageEntry(chain.Request(0, 2, 1)),
				mockstream.NewOutputEntry(chain.Pages(0, 2, 1)...),
				mockstream.NewInputMessageEntry(chain.Request(2, 2, 1)),
				mockstream.NewOutputEntry(
					paginate.NewMsgPaginateError(1, "unknown block"),
				),
			},
		},
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			ctx := context.Background()
			require.NoError(t, client.RequestPage(ctx, chain.ID(0), 2, 1))
			expectBlocks(t, client, chain, 0, 2, 2)
			require.NoError(t, client.RequestPage(ctx, chain.ID(2), 2, 1))
			evt := client.NextEvent()
			require.Equal(t, paginate.EventTypeError, evt.Type)
			var protoErr *paginate.ProtocolError
			if !errors.As(evt.Err, &protoErr) {
				t.Fatalf("did not get expected protocol error: got %v", evt.Err)
			}
			assert.Equal(t, uint64(1), protoErr.Code)
			assert.False(t, paginate.IsRecoverable(evt.Err))
			assert.Equal(t, "error code 1 : unknown block", evt.Err.Error())
			// The handle is kept for fatal errors
			assert.Equal(t, paginate.ConnectionEstablished, client.State())
			assert.False(t, dialer.Streams()[0].Closed())
		},
	)
}

func TestTransportErrorOnEstablishedStream(t *testing.T) {
	recvErr := errors.New("connection reset by peer")
	chain := test_ledger.NewEmptyChain(4)
	runTest(
		t,
		[][]mockstream.ConversationEntry{
			{
				mockstream.NewInputMessageEntry(chain.Request(0, 2, 2)),
				mockstream.NewOutputEntry(chain.Pages(0, 2, 1)...),
				mockstream.NewErrorEntry(recvErr),
			},
		},
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			require.NoError(t, client.RequestPage(context.Background(), chain.ID(0), 2, 2))
			expectBlocks(t, client, chain, 0, 2, 2)
			evt := client.NextEvent()
			require.Equal(t, paginate.EventTypeError, evt.Type)
			var transportErr *paginate.TransportError
			if !errors.As(evt.Err, &transportErr) {
				t.Fatalf("did not get expected transport error: got %v", evt.Err)
			}
			assert.ErrorIs(t, evt.Err, recvErr)
			assert.False(t, paginate.IsRecoverable(evt.Err))
			assert.Equal(t, paginate.ConnectionNone, client.State())
			assert.True(t, dialer.Streams()[0].Closed())
			assert.Equal(t, 1, dialer.Dials())
		},
	)
}

func TestStreamClosedBeforeEstablished(t *testing.T) {
	chain := test_ledger.NewEmptyChain(1)
	runTest(
		t,
		[][]mockstream.ConversationEntry{
			{
				mockstream.NewInputMessageEntry(chain.Request(0, 1, 1)),
				mockstream.NewCloseEntry(),
			},
		},
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			require.NoError(t, client.RequestPage(context.Background(), chain.ID(0), 1, 1))
			evt := client.NextEvent()
			require.Equal(t, paginate.EventTypeError, evt.Type)
			var connErr *paginate.ConnectionError
			if !errors.As(evt.Err, &connErr) {
				t.Fatalf("did not get expected connection error: got %v", evt.Err)
			}
			assert.ErrorIs(t, evt.Err, paginate.ErrStreamClosed)
			assert.Equal(t, paginate.ConnectionNone, client.State())
		},
	)
}

func TestBlockTimeout(t *testing.T) {
	chain := test_ledger.NewEmptyChain(1)
	runTest(
		t,
		[][]mockstream.ConversationEntry{
			{
				mockstream.NewInputMessageEntry(chain.Request(0, 1, 1)),
			},
		},
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			require.NoError(t, client.RequestPage(context.Background(), chain.ID(0), 1, 1))
			evt := client.NextEvent()
			require.Equal(t, paginate.EventTypeError, evt.Type)
			assert.ErrorIs(t, evt.Err, paginate.ErrBlockTimeout)
			assert.Equal(t, paginate.ConnectionNone, client.State())
			assert.True(t, dialer.Streams()[0].Closed())
		},
		paginate.WithBlockTimeout(50*time.Millisecond),
	)
}

func TestNextEventWithoutRequest(t *testing.T) {
	runTest(
		t,
		nil,
		func(t *testing.T, client *paginate.Client, dialer *mockstream.Dialer) {
			evt := client.NextEvent()
			require.Equal(t, paginate.EventTypeError, evt.Type)
			assert.ErrorIs(t, evt.Err, paginate.ErrNoStream)
		},
	)
}
