package ipc

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Commands understood by the daemon
const (
	CmdPing          = "ping"
	CmdPanelShow     = "panel.show"
	CmdPanelHide     = "panel.hide"
	CmdPanelToggle   = "panel.toggle"
	CmdHistoryList   = "history.list"
	CmdHistoryClear  = "history.clear"
	CmdHistoryPin    = "history.pin"
	CmdHistoryDelete = "history.delete"
	CmdQuit          = "quit"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a command sent from the CLI to the daemon.
type Request struct {
	Command string         `json:"command"`
	Args    map[string]any `json:"args,omitempty"`
}

// Response represents a reply from the daemon to the CLI.
type Response struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// OK builds a success response carrying data encoded as JSON
func OK(data any) *Response {
	if data == nil {
		return &Response{Status: StatusOK}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Errorf("failed to encode response: %v", err)
	}
	return &Response{Status: StatusOK, Data: raw}
}

// Errorf builds an error response
func Errorf(format string, args ...any) *Response {
	return &Response{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// Err converts an error response into a Go error
func (r *Response) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	if r.Message == "" {
		return fmt.Errorf("daemon returned status %q", r.Status)
	}
	return fmt.Errorf("daemon: %s", r.Message)
}

// Decode unmarshals the response data into v
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(r.Data, v)
}

// IntArg returns the integer argument name. Requests decoded by the server
// carry numbers as json.Number so large ids keep full precision.
func (r *Request) IntArg(name string) (int64, error) {
	v, ok := r.Args[name]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", name)
	}
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("argument %q is not a number", name)
	}
}
