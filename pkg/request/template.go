// SPDX-License-Identifier: Apache-2.0

// Package request implements the request templates sent to the search store.
package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/xataio/esdoc/internal/json"
)

// Template is a wire shaped request to the search store.
type Template struct {
	// Path is URL escaped, segments holding arbitrary values such as
	// document ids must be escaped with url.PathEscape.
	Path        string
	QueryParams map[string]string
	// Body is either a JSON object or a raw string body, such as an NDJSON
	// bulk payload.
	Body    any
	Headers map[string]string
	Method  string
}

// ExecutionParams are the values needed to execute a template.
type ExecutionParams struct {
	Method  string
	Path    string
	Params  map[string]string
	Headers map[string]string
	Body    any
}

const (
	headerAccept      = "accept"
	headerContentType = "content-type"
	mimeJSON          = "application/json"
	// MimeNDJSON is the content type of bulk request bodies.
	MimeNDJSON = "application/x-ndjson"
)

// New returns a GET template for the path.
func New(path string) *Template {
	return &Template{
		Path:   path,
		Method: http.MethodGet,
	}
}

// Build returns a template from the value on input:
//   - a map is used as the request body
//   - a string is parsed as a query string ("k=v&k2=v2")
//   - a template is returned as is
func Build(value any) (*Template, error) {
	switch v := value.(type) {
	case *Template:
		if v == nil {
			return nil, fmt.Errorf("%w: nil template", ErrUnsupportedInput)
		}
		return v, nil
	case Template:
		return &v, nil
	case map[string]any:
		return &Template{Body: v, Method: http.MethodGet}, nil
	case string:
		params, err := ParseQuery(v)
		if err != nil {
			return nil, err
		}
		return &Template{QueryParams: params, Method: http.MethodGet}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, value)
	}
}

// BuildAll builds a template for each element of a slice, or a single
// template for any other value. Strings and maps are never treated as
// sequences.
func BuildAll(value any) ([]*Template, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		t, err := Build(value)
		if err != nil {
			return nil, err
		}
		return []*Template{t}, nil
	}

	templates := make([]*Template, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		t, err := Build(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		templates = append(templates, t)
	}
	return templates, nil
}

// IsTemplate reports whether the value is a template, or a non empty slice
// made only of templates (recursively).
func IsTemplate(value any) bool {
	switch v := value.(type) {
	case *Template:
		return v != nil
	case Template:
		return true
	}

	rv := reflect.ValueOf(value)
	if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() == 0 {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if !IsTemplate(rv.Index(i).Interface()) {
			return false
		}
	}
	return true
}

// ParseQuery parses a "k=v&k2=v2" query string, with an optional leading
// "?". Values are kept as written.
func ParseQuery(query string) (map[string]string, error) {
	s := strings.TrimPrefix(query, "?")
	params := map[string]string{}
	if s == "" {
		return params, nil
	}
	if strings.HasPrefix(s, "&") {
		return nil, MalformedInputError{Input: query, Reason: "leading '&'"}
	}

	for _, pair := range strings.Split(s, "&") {
		if pair == "" {
			return nil, MalformedInputError{Input: query, Reason: "empty parameter"}
		}
		k, v, found := strings.Cut(pair, "=")
		if !found {
			return nil, MalformedInputError{Input: query, Reason: fmt.Sprintf("parameter %q has no value", pair)}
		}
		if k == "" {
			return nil, MalformedInputError{Input: query, Reason: fmt.Sprintf("parameter %q has no name", pair)}
		}
		params[k] = v
	}
	return params, nil
}

// QueryString renders the query params as "k=v" pairs joined by "&", sorted
// by key.
func (t *Template) QueryString() string {
	pairs := make([]string, 0, len(t.QueryParams))
	for _, k := range slices.Sorted(maps.Keys(t.QueryParams)) {
		pairs = append(pairs, k+"="+t.QueryParams[k])
	}
	return strings.Join(pairs, "&")
}

// ExecutionParams returns the execution values of the template. When
// autoHeaders is set, JSON accept and content type headers are added unless
// the template already defines them.
func (t *Template) ExecutionParams(autoHeaders bool) ExecutionParams {
	method := t.Method
	if method == "" {
		method = http.MethodGet
	}

	headers := make(map[string]string, len(t.Headers)+2)
	if autoHeaders {
		headers[headerAccept] = mimeJSON
		headers[headerContentType] = mimeJSON
	}
	for k, v := range t.Headers {
		// caller headers override the defaults regardless of their casing
		lower := strings.ToLower(k)
		if lower == headerAccept || lower == headerContentType {
			delete(headers, lower)
		}
		headers[k] = v
	}

	params := make(map[string]string, len(t.QueryParams))
	maps.Copy(params, t.QueryParams)

	return ExecutionParams{
		Method:  method,
		Path:    strings.TrimSuffix(t.Path, "?"),
		Params:  params,
		Headers: headers,
		Body:    t.Body,
	}
}

// HTTPRequest renders the template as an http request relative to the store
// address. Map bodies are JSON encoded, string bodies are sent as is.
func (t *Template) HTTPRequest(ctx context.Context, autoHeaders bool) (*http.Request, error) {
	p := t.ExecutionParams(autoHeaders)

	body, err := encodeBody(p.Body)
	if err != nil {
		return nil, err
	}

	path := p.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	u := &url.URL{Path: unescaped, RawPath: path}
	if len(p.Params) > 0 {
		q := url.Values{}
		for k, v := range p.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, p.Method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range p.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(b); err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		return buf, nil
	}
}
