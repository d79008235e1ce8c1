// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xataio/esdoc/internal/json"
	"github.com/xataio/esdoc/pkg/index"
)

var (
	errNoSchema         = errors.New("a schema definition file is required (--schema)")
	errNoDocumentsFile  = errors.New("a documents file is required (--file)")
	errInvalidDocuments = errors.New("invalid documents")
)

const stdinFile = "-"

func loadSchema(path string) (*index.Schema, error) {
	if path == "" {
		return nil, errNoSchema
	}
	return index.LoadDefinitionFile(path)
}

// readDocumentsFile reads the documents of the NDJSON file, or stdin when the
// path is "-".
func readDocumentsFile(path string, schema *index.Schema, indexOverride string) ([]*index.Document, error) {
	if path == "" {
		return nil, errNoDocumentsFile
	}
	if path == stdinFile {
		return readDocuments(os.Stdin, schema, indexOverride)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening documents file: %w", err)
	}
	defer f.Close()

	return readDocuments(f, schema, indexOverride)
}

// readDocuments decodes a stream of JSON objects, one document each.
func readDocuments(r io.Reader, schema *index.Schema, indexOverride string) ([]*index.Document, error) {
	decoder := json.NewDecoder(r)
	docs := []*index.Document{}
	for {
		values := map[string]any{}
		if err := decoder.Decode(&values); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("decoding document %d: %w", len(docs)+1, err)
		}

		doc := schema.NewDocument(values)
		doc.IndexOverride = indexOverride
		docs = append(docs, doc)
	}
}
