package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// APIError carries the remote error messages of a failed admin-API call so
// the retry wrapper can classify them (e.g. "database is locked" from a
// SQLite-backed Vendure instance is transient; a constraint violation is not).
type APIError struct {
	Operation string
	Messages  []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("admin API error in %s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

func newAPIError(operation string, errs []graphQLError) *APIError {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return &APIError{Operation: operation, Messages: messages}
}
