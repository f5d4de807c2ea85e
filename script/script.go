// Package script runs a list of array operations described in YAML.
//
// A script looks like:
//
//	name: round trip
//	steps:
//	  - op: mount
//	  - op: grant
//	  - op: write
//	    addr: 65526
//	    data: "0102030405060708090a0b0c0d0e0f101112131415"
//	  - op: read
//	    addr: 65526
//	    len: 21
//	    expect: "0102030405060708090a0b0c0d0e0f101112131415"
//	  - op: read
//	    addr: 1048570
//	    len: 7
//	    code: -1
package script

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Operation names accepted in a step.
const (
	OpMount   = "mount"
	OpUnmount = "unmount"
	OpGrant   = "grant"
	OpRevoke  = "revoke"
	OpRead    = "read"
	OpWrite   = "write"
	OpSign    = "sign"
)

// Step is one operation of a script.
type Step struct {
	Op string `yaml:"op"`

	Addr uint32 `yaml:"addr"`
	Len  uint32 `yaml:"len"`

	// Data is the hex encoded payload of a write. If Fill is set instead, the
	// write repeats that byte Len times.
	Data string `yaml:"data"`
	Fill *int   `yaml:"fill"`

	// Expect is the hex encoded data a read must return.
	Expect string `yaml:"expect"`

	// Code is the legacy return code the step must produce.
	Code *int `yaml:"code"`

	data   []byte
	expect []byte
}

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Parse decodes a script and checks every step.
func Parse(r io.Reader) (*Script, error) {
	s := &Script{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}

	for i := range s.Steps {
		if err := s.Steps[i].prepare(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return s, nil
}

// Load parses the script in a file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// prepare checks the step and decodes its hex fields.
func (s *Step) prepare() error {
	switch s.Op {
	case OpMount, OpUnmount, OpGrant, OpRevoke, OpRead, OpSign:
	case OpWrite:
		if s.Data != "" && s.Fill != nil {
			return fmt.Errorf("write cannot have both data and fill")
		}

		if s.Fill != nil && (*s.Fill < 0 || *s.Fill > 0xff) {
			return fmt.Errorf("fill %d is not a byte", *s.Fill)
		}
	default:
		return fmt.Errorf("unknown op %q", s.Op)
	}

	var err error

	s.data, err = hex.DecodeString(s.Data)
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}

	s.expect, err = hex.DecodeString(s.Expect)
	if err != nil {
		return fmt.Errorf("expect: %w", err)
	}

	return nil
}

// payload returns the bytes to write and the length to pass to Write. A fill
// longer than limit is not materialized, so the array reports the size error.
func (s Step) payload(limit int) ([]byte, uint32) {
	if s.Fill != nil {
		if int64(s.Len) > int64(limit) {
			return []byte{}, s.Len
		}

		return bytes.Repeat([]byte{byte(*s.Fill)}, int(s.Len)), s.Len
	}

	if s.Len == 0 {
		return s.data, uint32(len(s.data))
	}

	return s.data, s.Len
}
