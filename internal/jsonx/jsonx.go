//go:build !nojsonsimd

// Package jsonx routes JSON encoding through sonic, with an encoding/json
// fallback selected by the nojsonsimd build tag for platforms where sonic's
// runtime codegen is unavailable.
package jsonx

import "github.com/bytedance/sonic"

var api = sonic.ConfigDefault

// Marshal encodes v as JSON.
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent encodes v as indented JSON.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal decodes JSON data into v.
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// Valid reports whether data is well-formed JSON.
func Valid(data []byte) bool {
	return api.Valid(data)
}
