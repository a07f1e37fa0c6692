package v1

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// sanitizeValidationError maps a request binding error to a message safe to
// return to clients. Decoder internals (Go type names, struct paths) never
// leave the service.
func sanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, io.EOF) {
		return "Request body is required"
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "Malformed JSON"
	}
	msg := err.Error()
	if strings.Contains(msg, "cannot unmarshal") ||
		strings.Contains(msg, "Key:") ||
		strings.Contains(msg, "bind") ||
		len(msg) >= 100 {
		return "Invalid request"
	}
	return msg
}
