// Package http exposes the transaction service as a JSON API.
//
// This file holds the request parsing helpers shared by the handlers.
package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"finproject/internal/core"
	"finproject/internal/form"
	"finproject/internal/view"
)

// maxBodyBytes bounds request bodies; a transaction is a few hundred bytes.
const maxBodyBytes = 64 << 10

var errBodyTooLarge = errors.New("request body too large")

// RequestBodyParser handles different content types for request body parsing.
// JSON objects and form-encoded bodies are both accepted.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the (size limited) body once for later parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var maxErr *http.MaxBytesError
	if errors.As(p.err, &maxErr) {
		p.err = errBodyTooLarge
	}
	return p
}

// Parse decodes the body as JSON when it looks like a JSON object, else as a form.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := bytes.TrimSpace(p.body)
	if len(body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("invalid JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(body))
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was present in the body.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData != nil && p.formData.Has(key)
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string. Numbers keep their
// literal text so amounts are not routed through float64.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters other than tab and newlines, then trims.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// DraftFromBody overlays the submitted fields on base, the service's fresh draft.
// Switching type goes through SetType so a stale category is cleared first.
func DraftFromBody(p *RequestBodyParser, base form.Draft) form.Draft {
	d := base
	if p.Has(form.FieldType) {
		d.SetType(core.Type(strings.ToLower(p.Get(form.FieldType))))
	}
	if p.Has(form.FieldAmount) {
		d.Amount = p.Get(form.FieldAmount)
	}
	if p.Has(form.FieldCategory) {
		d.Category = p.Get(form.FieldCategory)
	}
	if p.Has(form.FieldDescription) {
		d.Description = p.Get(form.FieldDescription)
	}
	if p.Has(form.FieldDate) {
		d.Date = p.Get(form.FieldDate)
	}
	return d
}

// ParseHistoryOptions reads ?filter= and ?sort=.
func ParseHistoryOptions(query url.Values) (view.Options, error) {
	filter, err := view.ParseFilter(query.Get("filter"))
	if err != nil {
		return view.Options{}, err
	}
	sortKey, err := view.ParseSort(query.Get("sort"))
	if err != nil {
		return view.Options{}, err
	}
	return view.Options{Filter: filter, Sort: sortKey}, nil
}

// ParseTop reads ?top=N; zero when absent.
func ParseTop(query url.Values) (int, error) {
	v := strings.TrimSpace(query.Get("top"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid top %q: must be a positive integer", v)
	}
	return n, nil
}

// ConfirmRequested reports whether the caller confirmed a destructive action
// with the X-Confirm header or the confirm query parameter.
func ConfirmRequested(r *http.Request) bool {
	for _, v := range []string{r.Header.Get(HeaderConfirm), r.URL.Query().Get("confirm")} {
		if ok, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil && ok {
			return true
		}
	}
	return false
}
