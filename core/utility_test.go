// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/gobuffalo/packr"

	"github.com/devblok/vkoverlay/core"
)

var StaticResources packr.Box

func init() {
	StaticResources = packr.NewBox("./assets")
}

// stageShaderDir writes the boxed shader fixtures into a directory the
// loader can walk.
func stageShaderDir(t *testing.T, names ...string) string {
	t.Helper()

	dir, err := ioutil.TempDir("", "shaders")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := ioutil.WriteFile(filepath.Join(dir, name), StaticResources.Bytes(name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadShaderDirectory(t *testing.T) {
	dir := stageShaderDir(t, "widget.vert.spv", "widget.frag.spv")
	defer os.RemoveAll(dir)

	vertex, fragment, err := core.LoadShaderDirectory(dir)
	if err != nil {
		t.Fatalf("LoadShaderDirectory: %v", err)
	}
	if !bytes.Equal(vertex, StaticResources.Bytes("widget.vert.spv")) {
		t.Error("vertex stage does not match the fixture")
	}
	if !bytes.Equal(fragment, StaticResources.Bytes("widget.frag.spv")) {
		t.Error("fragment stage does not match the fixture")
	}
}

func TestLoadShaderDirectoryMissingStage(t *testing.T) {
	dir := stageShaderDir(t, "widget.vert.spv")
	defer os.RemoveAll(dir)

	if _, _, err := core.LoadShaderDirectory(dir); err == nil {
		t.Fatal("expected an error with the fragment stage missing")
	}
}

func TestLoadShaderDirectoryRejectsNonSpirv(t *testing.T) {
	dir := stageShaderDir(t, "widget.frag.spv")
	defer os.RemoveAll(dir)

	source := []byte("#version 450\nvoid main() {}\n")
	if err := ioutil.WriteFile(filepath.Join(dir, "widget.vert.spv"), source, 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := core.LoadShaderDirectory(dir); err == nil {
		t.Fatal("expected an error for a shader without the SPIR-V magic")
	}
}

func TestSliceUint32(t *testing.T) {
	words := core.SliceUint32(StaticResources.Bytes("widget.vert.spv"))
	if len(words) != len(StaticResources.Bytes("widget.vert.spv"))/4 {
		t.Fatalf("got %d words", len(words))
	}
	// SPIR-V magic, little-endian.
	if words[0] != 0x07230203 {
		t.Errorf("first word %#x, want the SPIR-V magic", words[0])
	}
}

func BenchmarkSliceUint32Small(b *testing.B) {
	data := make([]byte, 100)
	for idx := 0; idx < b.N; idx++ {
		core.SliceUint32(data)
	}
}

func BenchmarkSliceUint32Medium(b *testing.B) {
	data := make([]byte, 1000)
	for idx := 0; idx < b.N; idx++ {
		core.SliceUint32(data)
	}
}

func BenchmarkSliceUint32Big(b *testing.B) {
	data := make([]byte, 100000)
	for idx := 0; idx < b.N; idx++ {
		core.SliceUint32(data)
	}
}
