package content

import (
	"encoding/json"
	"testing"
)

func manifestFile(id string) SourceFile {
	data, _ := json.Marshal(wireManifest{FormatVersion: 1, ID: id, Title: id, Version: "1.0"})
	return SourceFile{Path: id + "/manifest.json", Data: data}
}

func elementFile(path string, id *int, key, category, color string, density any, flags wireFlags) SourceFile {
	densityRaw, _ := json.Marshal(density)
	data, _ := json.Marshal(wireElement{
		Kind:             "element",
		ID:               id,
		Key:              key,
		Category:         category,
		Color:            color,
		Density:          densityRaw,
		Dispersion:       10,
		Lifetime:         0,
		DefaultTemp:      20,
		HeatConductivity: 50,
		Flags:            flags,
	})
	return SourceFile{Path: path, Data: data}
}

func intp(v int) *int { return &v }

func TestCompileAssignsLowestFreeID(t *testing.T) {
	waterID := 6
	base := Pack{
		Manifest: Manifest{ID: "base"},
		Elements: []SourceFile{
			elementFile("base/water.json", &waterID, "water", "liquid", "0xFF2020A0", 1000.0, wireFlags{}),
		},
	}
	overlay := Pack{
		Manifest: Manifest{ID: "draft"},
		Elements: []SourceFile{
			elementFile("draft/acid.json", nil, "acid", "liquid", "0xFF40FF40", 1200.0, wireFlags{Corrosive: true}),
		},
	}

	bundle, err := Compile([]Pack{base, overlay})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if got := bundle.ElementKeyToID["base:water"]; got != 6 {
		t.Errorf("base:water id = %d, want 6", got)
	}
	acidID, ok := bundle.ElementKeyToID["draft:acid"]
	if !ok {
		t.Fatal("draft:acid not found")
	}
	if acidID == 0 || acidID == 6 {
		t.Errorf("draft:acid id = %d, want smallest free id other than 0 and 6", acidID)
	}
	for i := 1; i < int(acidID); i++ {
		if i == 6 {
			continue
		}
		t.Errorf("id %d should have been free and claimed before %d", i, acidID)
	}
}

func TestCompileOverrideKeepsID(t *testing.T) {
	id := 10
	base := Pack{
		Manifest: Manifest{ID: "base"},
		Elements: []SourceFile{
			elementFile("base/sand.json", &id, "sand", "powder", "0xFFC2B280", 1600.0, wireFlags{}),
		},
	}
	overlay := Pack{
		Manifest: Manifest{ID: "base"},
		Elements: []SourceFile{
			elementFile("overlay/sand.json", nil, "sand", "powder", "0xFFC2B280", 2000.0, wireFlags{}),
		},
	}

	bundle, err := Compile([]Pack{base, overlay})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	elem, ok := bundle.ElementByKey("base:sand")
	if !ok {
		t.Fatal("base:sand missing")
	}
	if elem.ID != 10 {
		t.Errorf("overridden element id = %d, want 10 (unchanged)", elem.ID)
	}
	if elem.Density != 2000.0 {
		t.Errorf("overridden element density = %v, want 2000 (replaced)", elem.Density)
	}
}

func TestCompileDeterministic(t *testing.T) {
	pack := Pack{
		Manifest: Manifest{ID: "base"},
		Elements: []SourceFile{
			elementFile("base/sand.json", nil, "sand", "powder", "0xFFC2B280", 1600.0, wireFlags{}),
			elementFile("base/water.json", nil, "water", "liquid", "0xFF2020A0", 1000.0, wireFlags{}),
		},
	}

	b1, err := Compile([]Pack{pack})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	b2, err := Compile([]Pack{pack})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	j1, _ := json.Marshal(b1)
	j2, _ := json.Marshal(b2)
	if string(j1) != string(j2) {
		t.Errorf("compile is not deterministic:\n%s\nvs\n%s", j1, j2)
	}
}

func TestCompileUnknownReferenceIsError(t *testing.T) {
	pack := Pack{
		Manifest: Manifest{ID: "base"},
		Elements: []SourceFile{
			elementFile("base/water.json", nil, "water", "liquid", "0xFF2020A0", 1000.0, wireFlags{}),
		},
		Reactions: []SourceFile{
			{Path: "base/r1.json", Data: mustJSON(wireReaction{
				Kind: "reaction", ID: "r1", Aggressor: "water", Victim: "nonexistent", Chance: 1,
			})},
		},
	}

	if _, err := Compile([]Pack{pack}); err == nil {
		t.Fatal("expected CompileError for unresolved reference, got nil")
	}
}

func TestCompileUtilityMustIgnoreGravity(t *testing.T) {
	pack := Pack{
		Manifest: Manifest{ID: "base"},
		Elements: []SourceFile{
			elementFile("base/void.json", nil, "void", "utility", "0xFF000000", nil, wireFlags{}),
		},
	}
	if _, err := Compile([]Pack{pack}); err == nil {
		t.Fatal("expected CompileError for utility element missing ignoreGravity")
	}
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
