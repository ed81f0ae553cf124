package fimcp

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/etnz/fiadvisor"
)

const (
	jsonRPCVersion  = "2.0"
	methodToolsCall = "tools/call"
)

// ToolCall is the JSON-RPC request sent to the stream endpoint.
//
//	{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"fetch_net_worth","arguments":{}}}
type ToolCall struct {
	JSONRPC string     `json:"jsonrpc"`
	ID      int        `json:"id"`
	Method  string     `json:"method"`
	Params  ToolParams `json:"params"`
}

// ToolParams names the tool to call. The backend tools take no argument.
type ToolParams struct {
	Name      fiadvisor.RecordType `json:"name"`
	Arguments map[string]any       `json:"arguments"`
}

// NewToolCall returns the call for the tool serving record type t.
func NewToolCall(id int, t fiadvisor.RecordType) ToolCall {
	return ToolCall{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Method:  methodToolsCall,
		Params:  ToolParams{Name: t, Arguments: map[string]any{}},
	}
}

// EncodeToolCall encodes c as a request body.
func EncodeToolCall(c ToolCall) ([]byte, error) {
	if c.Params.Arguments == nil {
		// the backend expects an object, never null.
		c.Params.Arguments = map[string]any{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("cannot encode tool call %s: %w", c.Params.Name, err)
	}
	return data, nil
}

// ToolResult is the JSON-RPC response of the stream endpoint.
//
// The record itself is not a JSON member: it is a JSON document encoded as the
// string Result.Content[0].Text, hence decoded twice.
type ToolResult struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  *ToolContent    `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type ToolContent struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

type Content struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewToolResult wraps record into a response, encoding it as the text of the first content item.
func NewToolResult(id int, record json.RawMessage) ToolResult {
	return ToolResult{
		JSONRPC: jsonRPCVersion,
		ID:      json.RawMessage(fmt.Sprint(id)),
		Result:  &ToolContent{Content: []Content{{Type: "text", Text: string(record)}}},
	}
}

// DecodeToolResult unwraps the two JSON layers of a stream response body and
// returns the inner record document.
//
// A body that is not a result envelope fails with ErrMalformedEnvelope, a text
// that is not a JSON document fails with ErrMalformedRecord.
func DecodeToolResult(body []byte) (json.RawMessage, error) {
	var res ToolResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if res.Error != nil {
		return nil, fmt.Errorf("%w: rpc error %d: %s", ErrMalformedEnvelope, res.Error.Code, res.Error.Message)
	}
	if res.Result == nil || len(res.Result.Content) == 0 {
		return nil, fmt.Errorf("%w: no content in result", ErrMalformedEnvelope)
	}

	text := []byte(res.Result.Content[0].Text)
	if !json.Valid(text) {
		return nil, fmt.Errorf("%w: content text is not a json document: %.60q", ErrMalformedRecord, text)
	}
	return json.RawMessage(text), nil
}

// EncodeLogin returns the login form.
func EncodeLogin(token, phone, passcode string) url.Values {
	return url.Values{
		"sessionId":   {token},
		"phoneNumber": {phone},
		"passcode":    {passcode},
	}
}
