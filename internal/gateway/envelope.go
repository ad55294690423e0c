package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/abhisek/studydeck/internal/quiz"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// envelope is the content service's response wrapper.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`

	// Detail is the framework's own error field, present on validation
	// and auth failures instead of message.
	Detail json.RawMessage `json:"detail"`
}

func (e envelope) errorMessage() string {
	if e.Message != "" {
		return e.Message
	}
	var s string
	if len(e.Detail) > 0 && json.Unmarshal(e.Detail, &s) == nil {
		return s
	}
	return ""
}

// readEnvelope turns an HTTP response into the envelope's data or one of
// the typed transport/rejection errors. The body is always closed.
func readEnvelope(op string, resp *http.Response) (json.RawMessage, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &quiz.TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || !isObject(body) {
		if !ok {
			return nil, &quiz.TransportError{Op: op, StatusCode: resp.StatusCode}
		}
		return nil, &quiz.ServerRejection{Op: op, StatusCode: resp.StatusCode, Message: "malformed response from content service"}
	}

	if env.Success == nil && !ok && env.errorMessage() == "" {
		return nil, &quiz.TransportError{Op: op, StatusCode: resp.StatusCode}
	}
	if env.Success == nil || !*env.Success || !ok {
		return nil, &quiz.ServerRejection{Op: op, StatusCode: resp.StatusCode, Message: env.errorMessage()}
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil, &quiz.ServerRejection{Op: op, StatusCode: resp.StatusCode, Message: "response has no data"}
	}
	return env.Data, nil
}

func isObject(b []byte) bool {
	return strings.HasPrefix(strings.TrimSpace(string(b)), "{")
}

// listField decodes data that is either a bare array or an object holding
// the array under key.
func listField(data json.RawMessage, key string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return trimmed, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, fmt.Errorf("data is neither a list nor an object: %w", err)
	}
	list, ok := obj[key]
	if !ok || bytes.Equal(list, []byte("null")) {
		return json.RawMessage("[]"), nil
	}
	return list, nil
}
