package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	payload    any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *JSONResponseBuilder) JSON(v any) *JSONResponseBuilder {
	b.payload = v
	return b
}

// Write sends the built response. A nil payload writes no body.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if b.payload == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	body, err := json.Marshal(b.payload)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte("\n"))
}

type errorBody struct {
	Error string `json:"error"`
}

// ErrorResponse creates a standard {"error": message} response.
func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).JSON(errorBody{Error: message})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

func TooManyRequestsError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

// PreconditionRequiredError asks the client to repeat a destructive request
// with confirmation; detail is included so the client can show what is at stake.
func PreconditionRequiredError(message string, detail any) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(http.StatusPreconditionRequired).
		JSON(struct {
			Error       string `json:"error"`
			Transaction any    `json:"transaction,omitempty"`
		}{Error: message, Transaction: detail})
}
