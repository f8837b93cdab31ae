// Package artifacts reads analysis artifacts produced by the disassembly
// backend.
//
// Artifacts live under a root directory, one directory per analysed file:
//
//	<root>/<file id>/cfg/<decimal function address>.json
//	<root>/<file id>/disassembly/<address>.json
//
// A CFG artifact is a raw backend payload; feed it to the pipeline as is.
package artifacts

import (
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/cfgview/pkg/errors"
)

// DefaultRoot is the artifact root used when none is configured.
const DefaultRoot = "storage/artifacts"

// Store reads artifacts below Root.
type Store struct {
	Root string
}

// NewStore creates a store rooted at root, or [DefaultRoot] when empty.
func NewStore(root string) *Store {
	if root == "" {
		root = DefaultRoot
	}
	return &Store{Root: root}
}

// ParseFunctionAddress parses a function address given as 0x-prefixed hex
// or as decimal. It returns the decimal form used in artifact file names.
func ParseFunctionAddress(s string) (string, error) {
	digits, base := s, 10
	if len(s) > 2 && strings.EqualFold(s[:2], "0x") {
		digits, base = s[2:], 16
	}
	if digits == "" || strings.ContainsAny(digits, "+-_ ") {
		return "", errors.New(errors.ErrCodeInvalidAddress, "invalid address %q", s)
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidAddress, "invalid address %q", s)
	}
	return n.Text(10), nil
}

// ReadCFG returns the raw CFG payload of the function at addr in file id.
func (s *Store) ReadCFG(id, addr string) ([]byte, error) {
	if err := errors.ValidateFileID(id); err != nil {
		return nil, err
	}
	dec, err := ParseFunctionAddress(addr)
	if err != nil {
		return nil, err
	}
	return s.read(filepath.Join(s.Root, id, "cfg", dec+".json"), "CFG not found for %s in %s", addr, id)
}

// ReadDisassembly returns the raw disassembly of the function at addr in
// file id. addr is used verbatim as the file name.
func (s *Store) ReadDisassembly(id, addr string) ([]byte, error) {
	if err := errors.ValidateFileID(id); err != nil {
		return nil, err
	}
	if err := errors.ValidateFileID(addr); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAddress, err, "invalid address %q", addr)
	}
	return s.read(filepath.Join(s.Root, id, "disassembly", addr+".json"), "disassembly not found for %s in %s", addr, id)
}

// Functions lists the hex addresses of every function with a CFG artifact
// in file id, in ascending order.
func (s *Store) Functions(id string) ([]string, error) {
	if err := errors.ValidateFileID(id); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.Root, id, "cfg"))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "no artifacts for %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list artifacts for %s", id)
	}

	var addrs []*big.Int
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || e.IsDir() {
			continue
		}
		if n, ok := new(big.Int).SetString(name, 10); ok && n.Sign() >= 0 {
			addrs = append(addrs, n)
		}
	}
	slices.SortFunc(addrs, func(a, b *big.Int) int { return a.Cmp(b) })

	out := make([]string, len(addrs))
	for i, n := range addrs {
		out[i] = "0x" + n.Text(16)
	}
	return out, nil
}

func (s *Store) read(path, notFound string, args ...any) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, notFound, args...)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return data, nil
}
