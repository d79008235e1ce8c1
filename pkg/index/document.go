// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"
	"github.com/xataio/esdoc/internal/json"
	"github.com/xataio/esdoc/internal/size"
	"github.com/xataio/esdoc/pkg/request"
	"github.com/xataio/esdoc/pkg/types"
)

// Document is an instance of a schema. Its values are owned by the caller.
type Document struct {
	Schema *Schema
	Values map[string]any
	// IndexOverride, when set, is the target index of the document regardless
	// of the schema.
	IndexOverride string
}

// Get returns the value of the field. Nil values are reported as absent.
func (d *Document) Get(field string) (any, bool) {
	v, found := d.Values[field]
	if !found || v == nil {
		return nil, false
	}
	return v, true
}

// Set sets the value of the field.
func (d *Document) Set(field string, value any) {
	if d.Values == nil {
		d.Values = map[string]any{}
	}
	d.Values[field] = value
}

// Validate checks every field value against its field type, then the
// document identity. It does not modify the document.
func (d *Document) Validate() error {
	for _, f := range d.Schema.fields {
		value, present := d.Get(f.Name)
		if !present {
			if f.HasDefault || f.Optional {
				continue
			}
			if f.Name == d.Schema.identityField {
				// checked with the identity below
				continue
			}
			return d.validationError(f.Name, nil, ErrRequiredField)
		}

		if err := validateValue(f.Type, value); err != nil {
			return d.validationError(f.Name, value, err)
		}
	}

	return d.validateIdentity()
}

func validateValue(ft types.FieldType, value any) error {
	if p, ok := ft.(*types.Primitive); ok {
		_, err := p.Coerce(value)
		return err
	}
	_, err := ft.Normalize(value)
	return err
}

func (d *Document) validateIdentity() error {
	idField := d.Schema.identityField
	if idField == DefaultIdentityField {
		return nil
	}

	value, present := d.Get(idField)
	if !present {
		return d.validationError(idField, nil, ErrIdentityMissing)
	}
	id, err := formatID(value)
	if err != nil {
		return d.validationError(idField, value, err)
	}
	if len(id) > idFieldLengthLimit {
		return d.validationError(idField, value, ErrIdentityTooLong)
	}
	return nil
}

func (d *Document) validationError(field string, value any, cause error) error {
	return &ValidationError{
		Schema: d.Schema.name,
		Field:  field,
		Value:  value,
		Cause:  cause,
	}
}

// ID returns the document id, or false when the store assigns it.
func (d *Document) ID() (string, bool) {
	value, present := d.Get(d.Schema.identityField)
	if !present {
		return "", false
	}
	id, err := formatID(value)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

// Index returns the target index of the document. It returns false for data
// stream documents without an index override, callers must handle that case.
func (d *Document) Index() (string, bool) {
	if d.IndexOverride != "" {
		return d.IndexOverride, true
	}
	if d.Schema.dataStream {
		return "", false
	}
	if d.Schema.indexFn != nil {
		if name := d.Schema.indexFn(d); name != "" {
			return name, true
		}
	}
	if d.Schema.indexName != "" {
		return d.Schema.indexName, true
	}
	return "", false
}

// Body returns the document source: the declared field values with defaults
// applied, without the identity field. Absent fields are omitted.
func (d *Document) Body() map[string]any {
	body := make(map[string]any, len(d.Schema.fields))
	for _, f := range d.Schema.fields {
		if f.Name == d.Schema.identityField {
			continue
		}
		value, present := d.Get(f.Name)
		switch {
		case present:
			body[f.Name] = value
		case f.HasDefault:
			body[f.Name] = f.Default
		}
	}
	return body
}

// Size returns the estimated size of the document body.
func (d *Document) Size() int {
	return size.Estimate(d.Body())
}

// EncodedSize returns the exact size of the JSON encoded document body.
func (d *Document) EncodedSize() (int, error) {
	return size.Encoded(d.Body())
}

// CreateRequest returns the request indexing the document.
func (d *Document) CreateRequest() (*request.Template, error) {
	index, ok := d.Index()
	if !ok {
		return nil, fmt.Errorf("schema %s: %w", d.Schema.name, ErrNoIndexName)
	}
	id, _ := d.ID()
	return &request.Template{
		Path:   "/" + url.PathEscape(index) + "/_doc/" + url.PathEscape(id),
		Method: http.MethodPost,
		Body:   d.Body(),
	}, nil
}

// BatchCreateRequest returns the bulk request indexing all the documents, in
// order. The body is a newline delimited sequence of action and source lines,
// terminated by an empty line.
func BatchCreateRequest(docs []*Document) (*request.Template, error) {
	var body strings.Builder
	for i, doc := range docs {
		action, err := bulkAction(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		source, err := json.Marshal(doc.Body())
		if err != nil {
			return nil, fmt.Errorf("document %d: encoding source: %w", i, err)
		}
		body.WriteString(action)
		body.WriteByte('\n')
		body.Write(source)
		body.WriteByte('\n')
	}
	body.WriteByte('\n')

	return &request.Template{
		Path:    "/_bulk",
		Method:  http.MethodPost,
		Headers: map[string]string{"content-type": request.MimeNDJSON},
		Body:    body.String(),
	}, nil
}

func bulkAction(doc *Document) (string, error) {
	index, ok := doc.Index()
	if !ok {
		return "", fmt.Errorf("schema %s: %w", doc.Schema.name, ErrNoIndexName)
	}

	// data streams only accept the create op type
	op := "index"
	if doc.Schema.dataStream {
		op = "create"
	}

	action, err := sjson.Set("", op+"._index", index)
	if err != nil {
		return "", err
	}
	if id, ok := doc.ID(); ok {
		return sjson.Set(action, op+"._id", id)
	}
	return sjson.SetRaw(action, op+"._id", "null")
}

// formatID renders an identity value as the string id sent to the store.
func formatID(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	b, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encoding identity: %w", err)
	}
	return string(b), nil
}
