// Package countries provides the directory of shipping countries known to the
// store, keyed by ISO 3166-1 alpha-2 code.
package countries

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var defaultCountries []byte

// Directory answers whether a country code is known and how to display it.
type Directory interface {
	Exists(code string) bool
	Name(code string) string
}

// StaticDirectory is an immutable Directory loaded from YAML.
type StaticDirectory struct {
	names map[string]string
}

var _ Directory = (*StaticDirectory)(nil)

type document struct {
	Countries map[string]string `yaml:"countries"`
}

// Default returns the embedded ISO 3166-1 directory.
func Default() *StaticDirectory {
	d, err := Load(bytes.NewReader(defaultCountries))
	if err != nil {
		panic(fmt.Sprintf("countries: embedded directory is invalid: %v", err))
	}
	return d
}

// New builds a directory from a code to name map.
func New(names map[string]string) *StaticDirectory {
	copied := make(map[string]string, len(names))
	for code, name := range names {
		copied[code] = name
	}
	return &StaticDirectory{names: copied}
}

// Load parses a YAML document of the form:
//
//	countries:
//	  US: United States (US)
//	  DE: Germany
func Load(r io.Reader) (*StaticDirectory, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode countries: %w", err)
	}
	if len(doc.Countries) == 0 {
		return nil, errors.New("decode countries: no countries defined")
	}
	for code, name := range doc.Countries {
		if strings.TrimSpace(code) == "" || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("decode countries: empty code or name for %q", code)
		}
	}
	return New(doc.Countries), nil
}

// LoadFile reads a YAML directory from disk.
func LoadFile(path string) (*StaticDirectory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open countries file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Exists reports whether code is a known country code. Codes are case-sensitive.
func (d *StaticDirectory) Exists(code string) bool {
	_, ok := d.names[code]
	return ok
}

// Name returns the display name of code, or the code itself when unknown.
func (d *StaticDirectory) Name(code string) string {
	if name, ok := d.names[code]; ok {
		return name
	}
	return code
}

// Codes returns all known codes in ascending order.
func (d *StaticDirectory) Codes() []string {
	codes := make([]string, 0, len(d.names))
	for code := range d.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of known countries.
func (d *StaticDirectory) Len() int {
	return len(d.names)
}
