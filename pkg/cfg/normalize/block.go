package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/cfgview/pkg/cfg"
)

func block(m map[string]any) (cfg.BasicBlock, bool) {
	raw, ok := first(m, "offset", "addr", "start")
	if !ok {
		return cfg.BasicBlock{}, false
	}
	addr, ok := cfg.Canonicalize(raw)
	if !ok {
		return cfg.BasicBlock{}, false
	}

	b := cfg.BasicBlock{
		Address:      addr,
		Taken:        address(m, "jump"),
		Fallthrough:  address(m, "fail"),
		Instructions: []cfg.Instruction{},
	}
	if v, ok := field(m, "size"); ok {
		b.Size, _ = toInt(v)
	}

	list, ok := listOf(m, "instructions")
	if !ok {
		list, _ = listOf(m, "ops")
	}
	for _, r := range list {
		if inst, ok := instruction(r); ok {
			b.Instructions = append(b.Instructions, inst)
		}
	}
	return b, true
}

func instruction(r any) (cfg.Instruction, bool) {
	switch v := r.(type) {
	case string:
		return cfg.Instruction{Text: v, Class: cfg.Classify(v)}, true
	case map[string]any:
		inst := cfg.Instruction{
			Offset:     address(v, "offset"),
			Text:       text(v, "disasm", "opcode"),
			Bytes:      text(v, "bytes"),
			Type:       text(v, "type"),
			JumpTarget: address(v, "jump"),
			Comment:    text(v, "comment"),
		}
		if s, ok := field(v, "size"); ok {
			inst.Size, _ = toInt(s)
		}
		inst.Class = cfg.Classify(inst.Text)
		if inst.Class == cfg.ClassOther && inst.Type != "" {
			inst.Class = cfg.ClassifyType(inst.Type)
		}
		return inst, true
	default:
		return cfg.Instruction{}, false
	}
}

func address(m map[string]any, name string) cfg.Address {
	v, ok := field(m, name)
	if !ok {
		return ""
	}
	a, _ := cfg.Canonicalize(v)
	return a
}

// text returns the first listed field holding a non-empty string.
func text(m map[string]any, names ...string) string {
	for _, name := range names {
		if v, ok := field(m, name); ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := strconv.Atoi(string(n)); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return floatInt(f)
		}
	case float64:
		return floatInt(n)
	case int:
		return n, true
	case int64:
		return int(n), true
	}
	return 0, false
}

func floatInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
