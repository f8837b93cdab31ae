package artifacts

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/cfgview/pkg/errors"
)

func TestParseFunctionAddress(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0x1000", "4096", false},
		{"0X1a", "26", false},
		{"4096", "4096", false},
		{"0", "0", false},
		{"0xffffffffffffffff", "18446744073709551615", false},
		{"", "", true},
		{"0x", "", true},
		{"0xzz", "", true},
		{"12ab", "", true},
		{"-5", "", true},
		{"+5", "", true},
		{"1_000", "", true},
		{" 12", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFunctionAddress(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFunctionAddress(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidAddress) {
			t.Errorf("ParseFunctionAddress(%q) code = %s, want INVALID_ADDRESS", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseFunctionAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestStoreReadCFG(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "abc", "cfg", "4096.json"), `{"blocks":[]}`)
	s := NewStore(root)

	for _, addr := range []string{"0x1000", "4096"} {
		data, err := s.ReadCFG("abc", addr)
		if err != nil {
			t.Fatalf("ReadCFG(%s): %v", addr, err)
		}
		if string(data) != `{"blocks":[]}` {
			t.Errorf("ReadCFG(%s) = %s", addr, data)
		}
	}

	tests := []struct {
		id, addr string
		code     errors.Code
	}{
		{"abc", "0x2000", errors.ErrCodeNotFound},
		{"missing", "0x1000", errors.ErrCodeNotFound},
		{"abc", "main", errors.ErrCodeInvalidAddress},
		{"../etc", "0x1000", errors.ErrCodeInvalidPath},
		{"", "0x1000", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		_, err := s.ReadCFG(tt.id, tt.addr)
		if got := errors.GetCode(err); got != tt.code {
			t.Errorf("ReadCFG(%q, %q) code = %q, want %q", tt.id, tt.addr, got, tt.code)
		}
	}
}

func TestStoreReadDisassembly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "abc", "disassembly", "0x1000.json"), `{"ops":[]}`)
	s := NewStore(root)

	data, err := s.ReadDisassembly("abc", "0x1000")
	if err != nil || string(data) != `{"ops":[]}` {
		t.Fatalf("ReadDisassembly = %s, %v", data, err)
	}
	if _, err := s.ReadDisassembly("abc", "../x"); !errors.Is(err, errors.ErrCodeInvalidAddress) {
		t.Errorf("traversal addr = %v, want INVALID_ADDRESS", err)
	}
	if _, err := s.ReadDisassembly("abc", "0x2000"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing = %v, want NOT_FOUND", err)
	}
}

func TestStoreFunctions(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"4096.json", "16.json", "256.json", "notes.txt", "main.json"} {
		writeFile(t, filepath.Join(root, "abc", "cfg", name), "{}")
	}
	s := NewStore(root)

	got, err := s.Functions("abc")
	if err != nil {
		t.Fatalf("Functions: %v", err)
	}
	want := []string{"0x10", "0x100", "0x1000"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Functions = %v, want %v", got, want)
	}

	if _, err := s.Functions("nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Functions(nope) = %v, want NOT_FOUND", err)
	}
}

func TestNewStoreDefaultRoot(t *testing.T) {
	if got := NewStore("").Root; got != DefaultRoot {
		t.Errorf("Root = %q, want %q", got, DefaultRoot)
	}
}
