package library

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/EchoTools/ddsgpu/pkg/archive"
	"github.com/EchoTools/ddsgpu/pkg/texture"
)

func encodeDDS(t *testing.T, d texture.Descriptor) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := texture.Encode(&buf, d, make([]byte, d.DataSize())); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func newLibrary(t *testing.T) (string, []byte) {
	t.Helper()
	dir := t.TempDir()

	plain := encodeDDS(t, texture.Descriptor{Width: 16, Height: 8, MipLevels: 5, Format: texture.FormatBC1RGBAUnorm})
	cube := encodeDDS(t, texture.Descriptor{Width: 8, Height: 8, MipLevels: 1, Format: texture.FormatBC3RGBAUnorm, Cubemap: true})
	packed, err := archive.PackTexture(cube)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}

	writeFile(t, filepath.Join(dir, "wall.dds"), plain)
	writeFile(t, filepath.Join(dir, "sky", "cube.DDS.zst"), packed)
	writeFile(t, filepath.Join(dir, "broken.dds"), []byte("not a texture"))
	writeFile(t, filepath.Join(dir, "readme.txt"), []byte("ignored"))
	return dir, cube
}

func TestIsTextureFile(t *testing.T) {
	tests := map[string]bool{
		"a.dds":         true,
		"a.DDS":         true,
		"a.dds.zst":     true,
		"a.zst":         false,
		"a.dds.bak":     false,
		"dds":           false,
		"dir/b.ktx":     false,
		"dir/b.Dds.Zst": true,
	}
	for name, want := range tests {
		if got := IsTextureFile(name); got != want {
			t.Errorf("IsTextureFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestScan(t *testing.T) {
	dir, _ := newLibrary(t)
	lib, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	names := lib.Names()
	want := []string{"broken.dds", "sky/cube.DDS.zst", "wall.dds"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("names: got %v, want %v", names, want)
	}

	wall, _ := lib.Lookup("wall.dds")
	if wall.Width != 16 || wall.Height != 8 || wall.Levels != 5 || wall.Format != "bc1-rgba-unorm" || wall.Compressed {
		t.Errorf("wall entry: %+v", wall)
	}

	cube, _ := lib.Lookup("sky/cube.DDS.zst")
	if !cube.Compressed || !cube.Cubemap || cube.Format != "bc3-rgba-unorm" {
		t.Errorf("cube entry: %+v", cube)
	}

	broken, _ := lib.Lookup("broken.dds")
	if broken.Error == "" {
		t.Error("broken entry has no error")
	}

	byID, ok := lib.LookupID(wall.ID)
	if !ok || byID.Name != "wall.dds" || wall.ID != EntryID("wall.dds") {
		t.Errorf("lookup by id %q: %+v", wall.ID, byID)
	}
	if wall.ID == cube.ID {
		t.Error("entries share an ID")
	}

	if _, ok := lib.Lookup("readme.txt"); ok {
		t.Error("non-texture file was indexed")
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestLoad(t *testing.T) {
	dir, cube := newLibrary(t)
	lib, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	data, err := lib.Load("sky/cube.DDS.zst")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !bytes.Equal(data, cube) {
		t.Error("archive was not decompressed to the original texture")
	}

	l, err := lib.Layout("wall.dds", true)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if l.Format != texture.FormatBC1RGBAUnormSRGB || l.LevelCount != 5 {
		t.Errorf("layout: %s with %d levels", l.Format, l.LevelCount)
	}

	if _, err := lib.Load("../wall.dds"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := lib.Layout("broken.dds", false); !errors.Is(err, texture.ErrMalformedHeader) {
		t.Errorf("expected ErrMalformedHeader, got %v", err)
	}
}

func TestIndex(t *testing.T) {
	dir, _ := newLibrary(t)
	lib, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var buf bytes.Buffer
	if err := lib.WriteIndex(&buf); err != nil {
		t.Fatalf("write index: %v", err)
	}
	entries, err := ReadIndex(&buf)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, e := range lib.Entries() {
		if entries[i] != e {
			t.Errorf("entry %d: got %+v, want %+v", i, entries[i], e)
		}
	}
}

func TestWriteModule(t *testing.T) {
	dir, _ := newLibrary(t)
	lib, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var buf bytes.Buffer
	if err := lib.WriteModule(&buf); err != nil {
		t.Fatalf("write module: %v", err)
	}
	want := "export default [\n  'broken.dds',\n  'sky/cube.DDS.zst',\n  'wall.dds',\n];\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
