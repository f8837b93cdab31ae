// Package normalize converts heterogeneous CFG payloads into canonical
// basic blocks.
//
// Analysis backends do not agree on an envelope: a function's blocks may
// arrive as a bare list, under "blocks", "nodes" or "basic_blocks", inside
// a single-element list, or doubly wrapped as {"blocks": {"blocks": [...]}}.
// [Extract] tries each known shape in a fixed order and [Normalize] maps the
// raw records it finds to [cfg.BasicBlock] values. Neither ever fails:
// records that cannot become blocks are dropped.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/cfgview/pkg/cfg"
)

// Strategy names reported by [Extract].
const (
	StrategyWrappedList  = "wrapped-list"
	StrategyList         = "list"
	StrategyBlocks       = "blocks"
	StrategyNodes        = "nodes"
	StrategyBasicBlocks  = "basic_blocks"
	StrategyNestedBlocks = "nested-blocks"
	StrategyNone         = "none"
)

type strategy struct {
	name    string
	extract func(payload any) ([]any, bool)
}

// strategies are tried in order; the first match wins.
var strategies = []strategy{
	{StrategyWrappedList, wrappedList},
	{StrategyList, bareList},
	{StrategyBlocks, listField("blocks")},
	{StrategyNodes, listField("nodes")},
	{StrategyBasicBlocks, listField("basic_blocks")},
	{StrategyNestedBlocks, nestedBlocks},
}

// Extract returns the raw block records of a decoded payload together with
// the name of the strategy that found them. When no strategy matches it
// returns StrategyNone and an empty slice.
func Extract(payload any) (string, []any) {
	for _, s := range strategies {
		if raw, ok := s.extract(payload); ok {
			return s.name, raw
		}
	}
	return StrategyNone, []any{}
}

// Normalize extracts and converts the blocks of a decoded payload.
func Normalize(payload any) []cfg.BasicBlock {
	_, raw := Extract(payload)
	return Blocks(raw)
}

// Blocks converts raw block records in order. Records that are not objects
// or have no resolvable address are dropped.
func Blocks(raw []any) []cfg.BasicBlock {
	blocks := make([]cfg.BasicBlock, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		if b, ok := block(m); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Parse decodes a JSON payload, keeping numbers as [json.Number] so that
// wide addresses do not lose precision.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}

// Decode parses and normalizes a JSON payload. Only malformed JSON is an
// error; a payload without recognizable blocks yields an empty slice.
func Decode(data []byte) ([]cfg.BasicBlock, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Normalize(v), nil
}

func wrappedList(payload any) ([]any, bool) {
	list, ok := payload.([]any)
	if !ok || len(list) != 1 {
		return nil, false
	}
	m, ok := list[0].(map[string]any)
	if !ok {
		return nil, false
	}
	return listOf(m, "blocks")
}

func bareList(payload any) ([]any, bool) {
	list, ok := payload.([]any)
	return list, ok
}

func listField(name string) func(any) ([]any, bool) {
	return func(payload any) ([]any, bool) {
		m, ok := payload.(map[string]any)
		if !ok {
			return nil, false
		}
		return listOf(m, name)
	}
}

func nestedBlocks(payload any) ([]any, bool) {
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	inner, ok := field(m, "blocks")
	if !ok {
		return nil, false
	}
	im, ok := inner.(map[string]any)
	if !ok {
		return nil, false
	}
	return listOf(im, "blocks")
}

func listOf(m map[string]any, name string) ([]any, bool) {
	v, ok := field(m, name)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	return list, ok
}

// field looks a key up case-insensitively, preferring an exact match.
// Among several case-insensitive matches the lexically smallest key wins.
func field(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if strings.EqualFold(k, name) {
			return m[k], true
		}
	}
	return nil, false
}

// first returns the value of the first listed field that is present and
// not null.
func first(m map[string]any, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := field(m, name); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
