// Package resolver maps anonymized page identifiers back to the original
// filenames recorded in a mapping file.
package resolver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// NotFound is returned for identifiers that match no mapping entry.
const NotFound = "NOT_FOUND"

// Entry pairs an anonymized filename with its original name.
type Entry struct {
	RandomFilename   string `json:"random_filename"`
	OriginalFilename string `json:"original_filename"`
}

type key struct {
	stem     string
	original string
}

// Mapping is an immutable, ordered set of filename pairs.
type Mapping struct {
	entries []Entry
	keys    []key
}

// New builds a Mapping from entries. Entries with an empty field are
// ignored and only the first occurrence of a random filename is kept.
func New(entries []Entry) *Mapping {
	m := &Mapping{}
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		if e.RandomFilename == "" || e.OriginalFilename == "" {
			continue
		}
		if _, ok := seen[e.RandomFilename]; ok {
			continue
		}
		seen[e.RandomFilename] = struct{}{}

		m.entries = append(m.entries, e)
		if stem := Stem(e.RandomFilename); stem != "" {
			m.keys = append(m.keys, key{stem: stem, original: e.OriginalFilename})
		}
	}

	return m
}

// Load decodes a JSON array of entries.
func Load(r io.Reader) (*Mapping, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	return New(entries), nil
}

// LoadFile reads a mapping file from disk.
func LoadFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMappingNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}
	defer f.Close()

	return Load(f)
}

// Len returns the number of retained entries.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Resolve returns the original filename for pageID, or NotFound. An entry
// matches when its extensionless random filename occurs inside pageID. The
// longest matching identifier wins and ties go to the earliest entry.
func (m *Mapping) Resolve(pageID string) string {
	best := -1
	for i, k := range m.keys {
		if !strings.Contains(pageID, k.stem) {
			continue
		}
		if best < 0 || len(k.stem) > len(m.keys[best].stem) {
			best = i
		}
	}

	if best < 0 {
		return NotFound
	}
	return m.keys[best].original
}

// ResolvePages resolves each identifier in order.
func (m *Mapping) ResolvePages(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m.Resolve(id)
	}
	return out
}

// Stem strips the final extension from name. Leading dots do not start
// an extension, so ".pdf" is returned unchanged.
func Stem(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name
	}
	if strings.TrimLeft(name[:i], ".") == "" {
		return name
	}
	return name[:i]
}
