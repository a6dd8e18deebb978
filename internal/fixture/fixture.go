// internal/fixture/fixture.go
package fixture

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

//go:embed fixtures/*.json
var embedded embed.FS

// ErrNotFound is returned when a fixture document does not exist.
var ErrNotFound = errors.New("fixture not found")

// Loader reads JSON fixture documents, one per test module.
type Loader struct {
	fsys   fs.FS
	source string
}

// NewLoader returns a loader over dir, or over the fixtures compiled into
// the binary when dir is empty.
func NewLoader(dir string) *Loader {
	if dir == "" {
		sub, _ := fs.Sub(embedded, "fixtures")
		return &Loader{fsys: sub, source: "embedded"}
	}
	return &Loader{fsys: os.DirFS(dir), source: dir}
}

// NewLoaderFS returns a loader over an arbitrary file system.
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, source: "fs"}
}

// Source describes where documents are read from.
func (l *Loader) Source() string {
	return l.source
}

// Load reads and validates one document. Each call returns a fresh copy.
func (l *Loader) Load(name string) (*Data, error) {
	file := name
	if path.Ext(file) != ".json" {
		file += ".json"
	}
	raw, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrNotFound, file, l.source)
		}
		return nil, fmt.Errorf("failed to read fixture %s: %w", file, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("fixture %s is not valid JSON", file)
	}
	return &Data{name: strings.TrimSuffix(file, ".json"), raw: raw}, nil
}

// List returns the names of every available document.
func (l *Loader) List() ([]string, error) {
	matches, err := fs.Glob(l.fsys, "*.json")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Data is a read-only fixture document addressed with gjson paths such as
// "linksTest.simpleLinkURL" or "Users.0.Email".
type Data struct {
	name string
	raw  []byte
}

// FromBytes wraps raw JSON, mainly for tests.
func FromBytes(name string, raw []byte) (*Data, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("fixture %s is not valid JSON", name)
	}
	return &Data{name: name, raw: append([]byte(nil), raw...)}, nil
}

func (d *Data) Name() string { return d.name }

// Get returns the raw gjson result for path.
func (d *Data) Get(p string) gjson.Result {
	return gjson.GetBytes(d.raw, p)
}

func (d *Data) Has(p string) bool {
	return d.Get(p).Exists()
}

func (d *Data) String(p string) string {
	return d.Get(p).String()
}

func (d *Data) Int(p string) int {
	return int(d.Get(p).Int())
}

// Strings returns an array value as strings. Object values are returned in
// document order.
func (d *Data) Strings(p string) []string {
	var out []string
	d.Get(p).ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

// Len returns the number of elements of an array value.
func (d *Data) Len(p string) int {
	r := d.Get(p)
	if !r.IsArray() {
		return 0
	}
	return len(r.Array())
}

// Decode unmarshals the value at path into v. An empty path decodes the
// whole document.
func (d *Data) Decode(p string, v any) error {
	raw := d.raw
	if p != "" {
		r := d.Get(p)
		if !r.Exists() {
			return fmt.Errorf("fixture %s has no value at %q", d.name, p)
		}
		raw = []byte(r.Raw)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode %s:%s: %w", d.name, p, err)
	}
	return nil
}

// Raw returns a copy of the document.
func (d *Data) Raw() []byte {
	return append([]byte(nil), d.raw...)
}
