// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/katalvlaran/lvsolve/matrix"
	"gopkg.in/yaml.v3"
)

var (
	errNoRHS      = errors.New("system: exactly one of rhs or b is required")
	errNoMatrix   = errors.New("system: a is required without --snapshot")
	errEmptyInput = errors.New("system: empty file")
)

// system is the YAML input of the solve command:
//
//	a:   [[2, 1], [1, 3]]
//	rhs: [3, 5]          # vector right-hand side, or
//	b:   [[3], [5]]      # matrix right-hand side
type system struct {
	A   [][]float64 `yaml:"a"`
	RHS []float64   `yaml:"rhs"`
	B   [][]float64 `yaml:"b"`
}

// loadSystem reads and validates a system file.
func loadSystem(path string) (*system, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s: %w", path, errEmptyInput)
	}

	var s system
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if (s.RHS == nil) == (s.B == nil) {
		return nil, fmt.Errorf("%s: %w", path, errNoRHS)
	}

	return &s, nil
}

// matrixA returns A as a Dense, or nil when the file has none.
func (s *system) matrixA() (*matrix.Dense, error) {
	if s.A == nil {
		return nil, nil
	}
	a, err := matrix.NewDenseFrom(s.A)
	if err != nil {
		return nil, fmt.Errorf("a: %w", err)
	}

	return a, nil
}

// matrixB returns the matrix right-hand side (nil for a vector system).
func (s *system) matrixB() (*matrix.Dense, error) {
	if s.B == nil {
		return nil, nil
	}
	b, err := matrix.NewDenseFrom(s.B)
	if err != nil {
		return nil, fmt.Errorf("b: %w", err)
	}

	return b, nil
}
