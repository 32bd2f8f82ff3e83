// Package yamlutil is the single place that imports the YAML library: config
// files are decoded here and compiled node trees are re-encoded from JSON.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps the documents accepted by DecodeStrict, in bytes.
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// DecodeStrict decodes one YAML document into v. Unknown keys and
// mismatched types are errors.
func DecodeStrict(data []byte, v any) error {
	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}

	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// FromJSON re-encodes a JSON document as YAML. Object keys keep their order.
func FromJSON(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrNilData
	}
	out, err := yaml.JSONToYAML(data)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
