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
	"fmt"

	"github.com/blinklabs-io/ledgerbrowse/cbor"
	"github.com/blinklabs-io/ledgerbrowse/ledger"
	"github.com/blinklabs-io/ledgerbrowse/protocol"
)

const (
	MessageTypePaginateRequest  = 0
	MessageTypePaginateResponse = 1
)

func NewMsgFromCbor(msgType uint, data []byte) (protocol.Message, error) {
	var ret protocol.Message
	switch msgType {
	case MessageTypePaginateRequest:
		ret = &MsgPaginateRequest{}
	case MessageTypePaginateResponse:
		ret = &MsgPaginateResponse{}
	default:
		return nil, fmt.Errorf(
			"%s: %w: %d",
			ProtocolName,
			protocol.ErrProtocolViolationUnknownMessage,
			msgType,
		)
	}
	if _, err := cbor.Decode(data, ret); err != nil {
		return nil, fmt.Errorf("%s: decode error: %w", ProtocolName, err)
	}
	// Store the raw message CBOR
	ret.SetCbor(data)
	return ret, nil
}

type MsgPaginateRequest struct {
	protocol.MessageBase
	StartId  []byte
	PageSize uint64
	NumPages uint64
	Backward bool
}

func NewMsgPaginateRequest(
	startId []byte,
	pageSize uint64,
	numPages uint64,
	backward bool,
) *MsgPaginateRequest {
	m := &MsgPaginateRequest{
		MessageBase: protocol.MessageBase{
			MessageType: MessageTypePaginateRequest,
		},
		StartId:  startId,
		PageSize: pageSize,
		NumPages: numPages,
		Backward: backward,
	}
	return m
}

// MsgPaginateResponse carries a single page of blocks, or an error code
type MsgPaginateResponse struct {
	protocol.MessageBase
	Blocks     []ledger.Block
	PageNumber uint64
	Backward   bool
	ErrorCode  uint64
	ErrorText  string
}

func NewMsgPaginateResponse(
	blocks []ledger.Block,
	pageNumber uint64,
	backward bool,
) *MsgPaginateResponse {
	m := &MsgPaginateResponse{
		MessageBase: protocol.MessageBase{
			MessageType: MessageTypePaginateResponse,
		},
		Blocks:     blocks,
		PageNumber: pageNumber,
		Backward:   backward,
	}
	return m
}

func NewMsgPaginateError(errorCode uint64, errorText string) *MsgPaginateResponse {
	m := &MsgPaginateResponse{
		MessageBase: protocol.MessageBase{
			MessageType: MessageTypePaginateResponse,
		},
		Blocks:    []ledger.Block{},
		ErrorCode: errorCode,
		ErrorText: errorText,
	}
	return m
}
