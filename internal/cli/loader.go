package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/jp/internal/doc"
	"github.com/roach88/jp/internal/fileio"
	"github.com/roach88/jp/internal/patch"
)

// LoadDocument reads and parses a document, dispatching on the file
// extension: .yaml/.yml via YAML, .cue via CUE compilation and JSON
// export, everything else as JSON.
func LoadDocument(path string) (doc.Value, error) {
	data, err := fileio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v doc.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v, err = doc.ParseYAML(data)
	case ".cue":
		v, err = loadCUE(path, data)
	default:
		v, err = doc.ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return v, nil
}

// loadCUE compiles a CUE source and exports its concrete value as a
// document. Incomplete values (unresolved references, required
// fields) fail here rather than producing a partial document.
func loadCUE(path string, data []byte) (doc.Value, error) {
	ctx := cuecontext.New()
	val := ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("compiling CUE: %w", err)
	}
	jsonBytes, err := val.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("exporting CUE value: %w", err)
	}
	return doc.ParseJSON(jsonBytes)
}

// LoadPatch reads and parses an RFC 6902 patch file.
func LoadPatch(path string) (patch.Patch, error) {
	data, err := fileio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := patch.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p, nil
}
