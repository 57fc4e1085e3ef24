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
	"errors"
	"testing"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
	test_ledger "github.com/blinklabs-io/ledgerbrowse/internal/test/ledger"
	"github.com/blinklabs-io/ledgerbrowse/protocol"
	"github.com/blinklabs-io/ledgerbrowse/protocol/paginate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMsgPaginateResponseFromCbor(t *testing.T) {
	chain := test_ledger.NewEmptyChain(3)
	msg := paginate.NewMsgPaginateResponse(chain.Blocks, 4, false)
	data, err := cbor.Encode(msg)
	require.NoError(t, err)
	msgType, err := cbor.DecodeIdFromList(data)
	require.NoError(t, err)
	assert.Equal(t, paginate.MessageTypePaginateResponse, msgType)
	decoded, err := paginate.NewMsgFromCbor(uint(msgType), data)
	require.NoError(t, err)
	resp, ok := decoded.(*paginate.MsgPaginateResponse)
	if !ok {
		t.Fatalf("did not get expected message type: got %T", decoded)
	}
	assert.Equal(t, data, resp.Cbor())
	assert.Equal(t, uint64(4), resp.PageNumber)
	assert.Equal(t, paginate.ErrorCodeNone, resp.ErrorCode)
	require.Len(t, resp.Blocks, 3)
	for idx, blk := range resp.Blocks {
		assert.Equal(t, chain.ID(idx), blk.HashHex())
		assert.NotNil(t, blk.Cbor())
	}
	next, ok := resp.Blocks[0].NextID()
	require.True(t, ok)
	assert.Equal(t, chain.Blocks[1].Hash, next)
}

func TestMsgPaginateErrorFromCbor(t *testing.T) {
	msg := paginate.NewMsgPaginateError(paginate.ErrorCodeStreamReset, "stream closed")
	data, err := cbor.Encode(msg)
	require.NoError(t, err)
	decoded, err := paginate.NewMsgFromCbor(paginate.MessageTypePaginateResponse, data)
	require.NoError(t, err)
	resp := decoded.(*paginate.MsgPaginateResponse)
	assert.Equal(t, paginate.ErrorCodeStreamReset, resp.ErrorCode)
	assert.Equal(t, "stream closed", resp.ErrorText)
	assert.Empty(t, resp.Blocks)
}

func TestMsgFromCborUnknownType(t *testing.T) {
	_, err := paginate.NewMsgFromCbor(9, []byte{0x81, 0x09})
	if !errors.Is(err, protocol.ErrProtocolViolationUnknownMessage) {
		t.Fatalf("did not get expected error: got %v", err)
	}
}
