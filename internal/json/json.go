// SPDX-License-Identifier: Apache-2.0

package json

import (
	"io"

	"github.com/bytedance/sonic"
)

// api behaves like encoding/json (sorted map keys, HTML escaping) so encoded
// documents are byte-stable across runs.
var api = sonic.ConfigStd

func Unmarshal(b []byte, v any) error {
	return api.Unmarshal(b, v)
}

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

func NewEncoder(w io.Writer) sonic.Encoder {
	return api.NewEncoder(w)
}

func NewDecoder(r io.Reader) sonic.Decoder {
	return api.NewDecoder(r)
}
