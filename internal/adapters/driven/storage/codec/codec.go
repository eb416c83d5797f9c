// Package codec serialises the employee collection to and from the
// human-readable JSON layout shared by the file and memory record stores.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/payroll/internal/core/domain"
)

// indent matches the two-space layout of existing collection files.
const indent = "  "

// Encode renders the collection as an indented JSON array.
// A nil collection encodes as "[]".
func Encode(employees []domain.Employee) ([]byte, error) {
	if employees == nil {
		employees = []domain.Employee{}
	}
	data, err := json.MarshalIndent(employees, "", indent)
	if err != nil {
		return nil, fmt.Errorf("encoding employees: %w", err)
	}
	return data, nil
}

// Decode parses a collection. Any malformed content, including an empty
// document or trailing data, returns an error wrapping domain.ErrCorruptStore.
// A literal null decodes as an empty collection.
func Decode(data []byte) ([]domain.Employee, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var employees []domain.Employee
	if err := dec.Decode(&employees); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorruptStore, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing content after collection", domain.ErrCorruptStore)
	}
	if employees == nil {
		employees = []domain.Employee{}
	}
	return employees, nil
}
