package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// Marshal serializes a layout to pretty-printed JSON.
func Marshal(r Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Unmarshal parses JSON produced by [Marshal]. Missing collections are
// returned as empty, never nil.
func Unmarshal(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if r.Nodes == nil {
		r.Nodes = []Node{}
	}
	if r.Edges == nil {
		r.Edges = []Edge{}
	}
	if r.Ranks == nil {
		r.Ranks = map[int][]string{}
	}
	return r, nil
}

// WriteFile writes a layout to path as JSON.
func WriteFile(r Result, path string) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a layout written by [WriteFile].
func ReadFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
