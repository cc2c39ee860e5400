// Package library indexes a directory of DDS textures, plain or packed in
// zstd archives, and serves their bytes and layouts by name.
package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/EchoTools/ddsgpu/internal/logger"
	"github.com/EchoTools/ddsgpu/pkg/archive"
	"github.com/EchoTools/ddsgpu/pkg/texture"
)

// ErrNotFound is returned for names the library does not hold.
var ErrNotFound = errors.New("library: texture not found")

const ddsExt = ".dds"

// Entry describes one texture file. Name is the slash-separated path
// relative to the library root; ID is derived from Name alone, so it is
// stable across scans.
type Entry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	Compressed bool   `json:"compressed"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Levels     int    `json:"levels,omitempty"`
	Format     string `json:"format,omitempty"`
	Cubemap    bool   `json:"cubemap,omitempty"`
	// Error is set when the file could not be decoded.
	Error string `json:"error,omitempty"`
}

// Library is an immutable snapshot of a scanned directory.
type Library struct {
	root    string
	entries []Entry
	byName  map[string]int
	byID    map[string]int
}

type options struct {
	log logger.Logger
}

// Option configures Scan.
type Option func(*options)

// WithLogger sets the logger used to report undecodable files.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// IsTextureFile reports whether name carries a .dds or .dds.zst extension.
func IsTextureFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ddsExt) || strings.HasSuffix(lower, ddsExt+archive.Ext)
}

// Scan walks root and decodes the header of every texture file found.
// Files that fail to decode are kept with Entry.Error set.
func Scan(root string, opts ...Option) (*Library, error) {
	o := options{log: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	lib := &Library{root: root, byName: make(map[string]int), byID: make(map[string]int)}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsTextureFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path: %w", err)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)
		entry := Entry{ID: EntryID(name), Name: name, Size: info.Size()}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := describe(&entry, data); err != nil {
			entry.Error = err.Error()
			o.log.Warn("skipping undecodable texture", "name", entry.Name, "error", err)
		}
		lib.entries = append(lib.entries, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	slices.SortFunc(lib.entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	for i, e := range lib.entries {
		lib.byName[e.Name] = i
		lib.byID[e.ID] = i
	}
	o.log.Info("scanned texture library", "root", root, "textures", len(lib.entries))
	return lib, nil
}

// EntryID is the name-based UUID of the entry called name.
func EntryID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("ddsgpu:"+name)).String()
}

func describe(e *Entry, data []byte) error {
	if archive.IsArchive(data) {
		e.Compressed = true
		var err error
		if data, err = archive.Decode(data); err != nil {
			return err
		}
	}
	l, err := texture.Decode(data, nil)
	if err != nil {
		return err
	}
	e.Width = l.Width
	e.Height = l.Height
	e.Levels = l.LevelCount
	e.Format = l.Format.String()
	e.Cubemap = l.Cubemap
	return nil
}

// Root is the scanned directory.
func (l *Library) Root() string { return l.root }

// Entries returns every entry sorted by name.
func (l *Library) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Names returns the sorted entry names.
func (l *Library) Names() []string {
	names := make([]string, len(l.entries))
	for i, e := range l.entries {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry called name.
func (l *Library) Lookup(name string) (Entry, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// LookupID returns the entry with the given ID.
func (l *Library) LookupID(id string) (Entry, bool) {
	i, ok := l.byID[id]
	if !ok {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Load returns the DDS bytes of name, decompressing archives.
func (l *Library) Load(name string) ([]byte, error) {
	e, ok := l.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(e.Name)))
	if err != nil {
		return nil, err
	}
	if archive.IsArchive(data) {
		return archive.Decode(data)
	}
	return data, nil
}

// Layout loads name and plans its layout.
func (l *Library) Layout(name string, srgb bool) (*texture.Layout, error) {
	data, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	return texture.Decode(data, &texture.DecodeOptions{SRGB: srgb})
}

// WriteIndex writes the entries as an indented JSON array.
func (l *Library) WriteIndex(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l.entries)
}

// ReadIndex reads entries written by WriteIndex.
func ReadIndex(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return entries, nil
}

// WriteModule writes the names as an ES module exporting a default array,
// the listing format browser viewers import.
func (l *Library) WriteModule(w io.Writer) error {
	var b strings.Builder
	b.WriteString("export default [\n")
	for _, name := range l.Names() {
		fmt.Fprintf(&b, "  '%s',\n", strings.ReplaceAll(name, "'", `\'`))
	}
	b.WriteString("];\n")
	_, err := io.WriteString(w, b.String())
	return err
}
