// ABOUTME: YAML backend config file loading layered over the built-in defaults
// ABOUTME: ${VAR} references are expanded before parsing; unknown keys are rejected

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML backend config from path and layers it over
// DefaultBackend. Sections absent from the file keep their defaults.
func LoadFile(path string) (Backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Backend{}, fmt.Errorf("read config %s: %w", path, err)
	}
	b, err := ParseYAML(data)
	if err != nil {
		return Backend{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return b, nil
}

// ParseYAML decodes a YAML backend config over DefaultBackend.
func ParseYAML(data []byte) (Backend, error) {
	b := DefaultBackend()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return Backend{}, err
	}
	return b, nil
}

// EncodeYAML renders b as a config file body.
func (b Backend) EncodeYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
