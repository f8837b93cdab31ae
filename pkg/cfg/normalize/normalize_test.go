package normalize

import (
	"testing"

	"github.com/matzehuels/cfgview/pkg/cfg"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	v, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse(%s) error: %v", s, err)
	}
	return v
}

func TestExtractStrategies(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		count   int
	}{
		{"wrapped list", `[{"blocks":[{"offset":1},{"offset":2}]}]`, StrategyWrappedList, 2},
		{"bare list", `[{"offset":1},{"offset":2},{"offset":3}]`, StrategyList, 3},
		{"single element list without blocks", `[{"offset":1}]`, StrategyList, 1},
		{"blocks", `{"blocks":[{"offset":1}]}`, StrategyBlocks, 1},
		{"blocks case insensitive", `{"Blocks":[{"offset":1}]}`, StrategyBlocks, 1},
		{"nodes", `{"nodes":[{"offset":1},{"offset":2}]}`, StrategyNodes, 2},
		{"basic_blocks", `{"BASIC_BLOCKS":[{"offset":1}]}`, StrategyBasicBlocks, 1},
		{"nested blocks", `{"blocks":{"blocks":[{"offset":1}]}}`, StrategyNestedBlocks, 1},
		{"blocks preferred over nodes", `{"nodes":[{}],"blocks":[{},{}]}`, StrategyBlocks, 2},
		{"nodes not a list", `{"nodes":{"a":1}}`, StrategyNone, 0},
		{"scalar", `42`, StrategyNone, 0},
		{"null", `null`, StrategyNone, 0},
		{"empty object", `{}`, StrategyNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, raw := Extract(mustParse(t, tt.payload))
			if name != tt.want || len(raw) != tt.count {
				t.Errorf("Extract() = (%q, %d records), want (%q, %d)", name, len(raw), tt.want, tt.count)
			}
			if raw == nil {
				t.Error("Extract() returned nil slice")
			}
		})
	}
}

func TestNormalizeNestedDecimalString(t *testing.T) {
	blocks := Normalize(mustParse(t, `{"blocks":{"blocks":[{"offset":"10"}]}}`))
	if len(blocks) != 1 || blocks[0].Address != "0xa" {
		t.Fatalf("blocks = %+v, want single block 0xa", blocks)
	}
}

func TestNormalizeAddressFields(t *testing.T) {
	tests := []struct {
		name   string
		record string
		want   cfg.Address
		keep   bool
	}{
		{"offset", `{"offset":4096}`, "0x1000", true},
		{"addr", `{"addr":"0x1000"}`, "0x1000", true},
		{"start", `{"start":"ff"}`, "0xff", true},
		{"offset wins", `{"start":1,"addr":2,"offset":3}`, "0x3", true},
		{"null offset skipped", `{"offset":null,"addr":5}`, "0x5", true},
		{"unresolvable offset does not fall through", `{"offset":{},"addr":5}`, "", false},
		{"no address", `{"size":4}`, "", false},
		{"negative", `{"offset":-1}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := Normalize(mustParse(t, "["+tt.record+"]"))
			if !tt.keep {
				if len(blocks) != 0 {
					t.Errorf("blocks = %+v, want dropped", blocks)
				}
				return
			}
			if len(blocks) != 1 || blocks[0].Address != tt.want {
				t.Errorf("blocks = %+v, want address %q", blocks, tt.want)
			}
		})
	}
}

func TestNormalizeBlockFields(t *testing.T) {
	payload := `[{
		"offset": 0,
		"size": 12,
		"jump": 16,
		"fail": "0x8",
		"ops": [
			{"offset": 0, "disasm": "cmp eax, 1", "bytes": "83f801", "size": 3, "type": "cmp"},
			{"offset": 3, "opcode": "je 0x10", "type": "cjmp", "jump": 16, "comment": "loop"},
			{"offset": 5, "type": "ucall"},
			"nop",
			7
		]
	}]`
	blocks := Normalize(mustParse(t, payload))
	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	b := blocks[0]
	if b.Address != "0x0" || b.Size != 12 || b.Taken != "0x10" || b.Fallthrough != "0x8" {
		t.Errorf("block = %+v", b)
	}
	if len(b.Instructions) != 4 {
		t.Fatalf("len(Instructions) = %d, want 4", len(b.Instructions))
	}

	want := []struct {
		offset cfg.Address
		text   string
		class  cfg.Class
	}{
		{"0x0", "cmp eax, 1", cfg.ClassCmp},
		{"0x3", "je 0x10", cfg.ClassCJump},
		{"0x5", "", cfg.ClassCall},
		{"", "nop", cfg.ClassNop},
	}
	for i, w := range want {
		got := b.Instructions[i]
		if got.Offset != w.offset || got.Text != w.text || got.Class != w.class {
			t.Errorf("Instructions[%d] = %+v, want offset %q text %q class %q", i, got, w.offset, w.text, w.class)
		}
	}
	if b.Instructions[0].Bytes != "83f801" || b.Instructions[0].Size != 3 {
		t.Errorf("first instruction = %+v", b.Instructions[0])
	}
	if b.Instructions[1].JumpTarget != "0x10" || b.Instructions[1].Comment != "loop" {
		t.Errorf("second instruction = %+v", b.Instructions[1])
	}
}

func TestNormalizeInstructionsPreferredOverOps(t *testing.T) {
	blocks := Normalize(mustParse(t, `[{"offset":0,"instructions":["ret"],"ops":["nop","nop"]}]`))
	if len(blocks[0].Instructions) != 1 || blocks[0].Instructions[0].Class != cfg.ClassRet {
		t.Errorf("Instructions = %+v, want [ret]", blocks[0].Instructions)
	}
}

func TestNormalizeAbsentTargets(t *testing.T) {
	blocks := Normalize(mustParse(t, `[{"offset":0,"jump":null,"fail":{}}]`))
	if blocks[0].Taken != "" || blocks[0].Fallthrough != "" {
		t.Errorf("targets = %q/%q, want absent", blocks[0].Taken, blocks[0].Fallthrough)
	}
	if blocks[0].Instructions == nil {
		t.Error("Instructions should be empty, not nil")
	}
}

func TestNormalizeDropsNonObjects(t *testing.T) {
	blocks := Normalize(mustParse(t, `[1, "x", null, {"offset": 2}]`))
	if len(blocks) != 1 || blocks[0].Address != "0x2" {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestNormalizeWideAddress(t *testing.T) {
	blocks := Normalize(mustParse(t, `[{"offset": 18446744073709551615}]`))
	if blocks[0].Address != "0xffffffffffffffff" {
		t.Errorf("Address = %q", blocks[0].Address)
	}
}

func TestDecode(t *testing.T) {
	if _, err := Decode([]byte(`{"blocks": [`)); err == nil {
		t.Error("Decode(malformed) should fail")
	}
	blocks, err := Decode([]byte(`{"unrelated": true}`))
	if err != nil || len(blocks) != 0 {
		t.Errorf("Decode(unrelated) = %v, %v; want empty, nil", blocks, err)
	}
}
