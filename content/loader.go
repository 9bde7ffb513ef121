package content

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/kferrin/cellforge/engerr"
)

// LoadPackDir reads a pack directory laid out as:
//
//	manifest.json
//	elements/*.json
//	reactions/*.json
//
// Files within elements/ and reactions/ are sorted by name so a directory's
// own layout does not introduce file-system-order nondeterminism into the
// compiler: pack-file order is part of the input.
func LoadPackDir(dir string) (Pack, error) {
	manifestPath := filepath.Join(dir, "manifest.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return Pack{}, engerr.NewCompileError(manifestPath, err)
	}

	elementFiles, err := readSorted(filepath.Join(dir, "elements"))
	if err != nil {
		return Pack{}, err
	}
	reactionFiles, err := readSorted(filepath.Join(dir, "reactions"))
	if err != nil {
		return Pack{}, err
	}

	return LoadPack(SourceFile{Path: manifestPath, Data: data}, elementFiles, reactionFiles)
}

func readSorted(dir string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, engerr.NewCompileError(dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	files := make([]SourceFile, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, engerr.NewCompileError(path, err)
		}
		files = append(files, SourceFile{Path: path, Data: data})
	}
	return files, nil
}
