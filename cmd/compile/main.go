// Command compile reads one or more content-pack directories and writes
// the merged, compiled Bundle as JSON. It is the only entry point that
// runs the compiler; the engine itself only ever reads an
// already-compiled Bundle.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/kferrin/cellforge/content"
	"github.com/kferrin/cellforge/engerr"
)

// packDirs collects repeated -pack flags in the order given on the
// command line, since pack order is a compile input.
type packDirs []string

func (p *packDirs) String() string { return "" }

func (p *packDirs) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	var dirs packDirs
	flag.Var(&dirs, "pack", "content-pack directory (repeatable; order matters)")
	outPath := flag.String("out", "", "output Bundle JSON path")
	flag.Parse()

	if len(dirs) == 0 {
		log.Fatal("at least one -pack is required")
	}
	if *outPath == "" {
		log.Fatal("-out is required")
	}

	packs := make([]content.Pack, 0, len(dirs))
	for _, dir := range dirs {
		pack, err := content.LoadPackDir(dir)
		if err != nil {
			reportCompileError(err)
			os.Exit(1)
		}
		packs = append(packs, pack)
	}

	bundle, err := content.Compile(packs)
	if err != nil {
		reportCompileError(err)
		os.Exit(1)
	}

	data, err := bundle.MarshalJSON()
	if err != nil {
		log.Fatalf("marshal bundle: %v", err)
	}
	if err := os.WriteFile(*outPath, data, 0644); err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}

	log.Printf("compiled %d pack(s), %d element(s) into %s", len(packs), len(bundle.Elements), *outPath)
}

// reportCompileError prints a compile failure with its offending file
// path when the error carries one.
func reportCompileError(err error) {
	var ce *engerr.CompileError
	if errors.As(err, &ce) && ce.Path != "" {
		log.Printf("compile error in %s: %v", ce.Path, ce.Cause)
		return
	}
	log.Printf("compile error: %v", err)
}
