package content

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kferrin/cellforge/engerr"
)

// SourceFile is one parsed pack file: its path (for error reporting) and
// raw JSON bytes. Compile does not touch the filesystem itself — callers
// (cmd/compile, tests) read files and hand Compile their bytes, keeping the
// compiler deterministic and independent of file-system iteration order:
// pack-file order is part of the input, supplied by the caller.
type SourceFile struct {
	Path string
	Data []byte
}

// Pack is one content pack: its manifest plus its element and reaction
// source files, in the order they should be applied.
type Pack struct {
	Manifest Manifest
	Elements []SourceFile
	Reactions []SourceFile
}

// LoadPack parses a manifest file and element/reaction files into a Pack.
func LoadPack(manifestFile SourceFile, elementFiles, reactionFiles []SourceFile) (Pack, error) {
	var wm wireManifest
	if err := json.Unmarshal(manifestFile.Data, &wm); err != nil {
		return Pack{}, engerr.NewCompileError(manifestFile.Path, fmt.Errorf("parsing manifest: %w", err))
	}
	return Pack{
		Manifest: Manifest{
			FormatVersion: wm.FormatVersion,
			ID:            wm.ID,
			Title:         wm.Title,
			Version:       wm.Version,
			Dependencies:  wm.Dependencies,
		},
		Elements:  elementFiles,
		Reactions: reactionFiles,
	}, nil
}

// compileState accumulates allocation decisions across the ordered pack
// list before the final sort-and-freeze step.
type compileState struct {
	elements       map[string]*Element // keyed by "pack:name"
	idOwner        [256]string         // key currently holding each ID, "" if free
	reactions      map[[2]ElementID]*Reaction
	reactionDrafts []*reactionDraft
}

// Compile merges an ordered list of packs into a single immutable Bundle.
// Given the same inputs in the same order, the output is byte-identical
// (tested by TestCompileDeterministic).
func Compile(packs []Pack) (*Bundle, error) {
	st := &compileState{
		elements:  make(map[string]*Element),
		reactions: make(map[[2]ElementID]*Reaction),
	}
	st.idOwner[0] = "<empty>" // ID 0 is reserved for the empty cell

	for _, p := range packs {
		if err := st.applyElements(p); err != nil {
			return nil, err
		}
	}
	for _, p := range packs {
		if err := st.applyReactions(p); err != nil {
			return nil, err
		}
	}
	if err := st.resolveReferences(); err != nil {
		return nil, err
	}

	return st.freeze(packs), nil
}

// applyElements parses and applies one pack's element files: ID allocation
// (step 1) and the override rule (step 2).
func (st *compileState) applyElements(p Pack) error {
	for _, f := range p.Elements {
		var we wireElement
		if err := json.Unmarshal(f.Data, &we); err != nil {
			return engerr.NewCompileError(f.Path, fmt.Errorf("parsing element: %w", err))
		}
		if we.Kind != "element" {
			return engerr.NewCompileError(f.Path, fmt.Errorf("expected kind=element, got %q", we.Kind))
		}
		cat, ok := ParseCategory(we.Category)
		if !ok {
			return engerr.NewCompileError(f.Path, fmt.Errorf("unknown category %q", we.Category))
		}
		color, err := parseColor(we.Color)
		if err != nil {
			return engerr.NewCompileError(f.Path, err)
		}
		density, err := parseDensity(we.Density, cat)
		if err != nil {
			return engerr.NewCompileError(f.Path, err)
		}
		if we.Dispersion < 0 || we.Dispersion > 255 {
			return engerr.NewCompileError(f.Path, fmt.Errorf("dispersion out of range: %d", we.Dispersion))
		}
		if we.Lifetime < 0 || we.Lifetime > 65535 {
			return engerr.NewCompileError(f.Path, fmt.Errorf("lifetime out of range: %d", we.Lifetime))
		}
		if we.HeatConductivity < 0 || we.HeatConductivity > 255 {
			return engerr.NewCompileError(f.Path, fmt.Errorf("heatConductivity out of range: %d", we.HeatConductivity))
		}

		flags := Flags{
			Flammable:     we.Flags.Flammable,
			Conductive:    we.Flags.Conductive,
			Corrosive:     we.Flags.Corrosive,
			Hot:           we.Flags.Hot,
			Cold:          we.Flags.Cold,
			IgnoreGravity: we.Flags.IgnoreGravity,
			Rigid:         we.Flags.Rigid,
		}
		if cat == CategoryUtility && !flags.IgnoreGravity {
			return engerr.NewCompileError(f.Path, fmt.Errorf("utility element %q must set ignoreGravity", we.Key))
		}
		if density == DensityInfinity && !flags.IgnoreGravity {
			return engerr.NewCompileError(f.Path, fmt.Errorf("element %q has infinite density but does not set ignoreGravity", we.Key))
		}

		key := qualify(p.Manifest.ID, we.Key)

		elem := &Element{
			Key:              key,
			Category:         cat,
			ColorABGR:        color,
			Density:          density,
			Dispersion:       uint8(we.Dispersion),
			Lifetime:         uint16(we.Lifetime),
			DefaultTemp:      float32(we.DefaultTemp),
			HeatConductivity: uint8(we.HeatConductivity),
			Flags:            flags,
			Hidden:           we.Hidden,
		}
		if we.Behavior != nil {
			elem.Behavior = *we.Behavior
		}
		if we.Bounce != nil {
			elem.Bounce = float32(*we.Bounce)
		}
		if we.Friction != nil {
			elem.Friction = float32(*we.Friction)
		}
		if we.PhaseChange != nil {
			pc := &PhaseChange{}
			if we.PhaseChange.High != nil {
				pc.High = &PhaseTarget{Temp: float32(we.PhaseChange.High.Temp)}
				pc.High.toRefRaw = resolveRelative(p.Manifest.ID, we.PhaseChange.High.To)
			}
			if we.PhaseChange.Low != nil {
				pc.Low = &PhaseTarget{Temp: float32(we.PhaseChange.Low.Temp)}
				pc.Low.toRefRaw = resolveRelative(p.Manifest.ID, we.PhaseChange.Low.To)
			}
			elem.PhaseChange = pc
		}

		if existing, ok := st.elements[key]; ok {
			// Override rule (step 2): replace fields, keep the ID.
			elem.ID = existing.ID
			st.elements[key] = elem
			continue
		}

		id, err := st.allocateID(f.Path, key, we.ID)
		if err != nil {
			return err
		}
		elem.ID = id
		st.elements[key] = elem
	}
	return nil
}

func (st *compileState) allocateID(path, key string, requested *int) (ElementID, error) {
	if requested != nil {
		if *requested < 0 || *requested > 255 {
			return 0, engerr.NewCompileError(path, fmt.Errorf("id out of range: %d", *requested))
		}
		if *requested == 0 {
			return 0, engerr.NewCompileError(path, fmt.Errorf("id 0 is reserved for the empty cell"))
		}
		id := ElementID(*requested)
		if owner := st.idOwner[id]; owner != "" && owner != key {
			return 0, engerr.NewCompileError(path, fmt.Errorf("id %d already claimed by %q", id, owner))
		}
		st.idOwner[id] = key
		return id, nil
	}
	for i := 1; i <= 255; i++ {
		if st.idOwner[i] == "" {
			st.idOwner[i] = key
			return ElementID(i), nil
		}
	}
	return 0, engerr.NewCompileError(path, fmt.Errorf("no free element IDs remain"))
}

// qualify builds the element's unique "pack:name" key.
func qualify(packID, name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return packID + ":" + name
}

// resolveRelative resolves a short or qualified reference against the
// declaring pack's ID.
func resolveRelative(packID, ref string) string {
	if strings.Contains(ref, ":") {
		return ref
	}
	return packID + ":" + ref
}

func (st *compileState) applyReactions(p Pack) error {
	for _, f := range p.Reactions {
		var wr wireReaction
		if err := json.Unmarshal(f.Data, &wr); err != nil {
			return engerr.NewCompileError(f.Path, fmt.Errorf("parsing reaction: %w", err))
		}
		if wr.Kind != "reaction" {
			return engerr.NewCompileError(f.Path, fmt.Errorf("expected kind=reaction, got %q", wr.Kind))
		}
		if wr.Chance < 0 || wr.Chance > 1 {
			return engerr.NewCompileError(f.Path, fmt.Errorf("chance out of range: %v", wr.Chance))
		}

		aggKey := resolveRelative(p.Manifest.ID, wr.Aggressor)
		vicKey := resolveRelative(p.Manifest.ID, wr.Victim)

		rxn := &reactionDraft{
			path:   f.Path,
			packID: p.Manifest.ID,
			aggKey: aggKey,
			vicKey: vicKey,
			chance: float32(wr.Chance),
		}
		rxn.resAggRaw = "unchanged"
		if wr.ResultAggressor != nil {
			rxn.resAggRaw = *wr.ResultAggressor
		}
		rxn.resVicRaw = "destroyed"
		if wr.ResultVictim != nil {
			rxn.resVicRaw = *wr.ResultVictim
		}
		if wr.Spawn != nil {
			rxn.spawnRaw = *wr.Spawn
			rxn.hasSpawn = true
		}

		st.reactionDrafts = append(st.reactionDrafts, rxn)
	}
	return nil
}

// reactionDraft holds a reaction's raw (unresolved) references until
// resolveReferences runs after every pack's elements have been applied.
type reactionDraft struct {
	path      string
	packID    string // the reaction file's declaring pack, for short-name resolution
	aggKey    string
	vicKey    string
	resAggRaw string // "unchanged", "destroyed", or a ref
	resVicRaw string // "destroyed" or a ref
	hasSpawn  bool
	spawnRaw  string
	chance    float32
}

func (st *compileState) resolveReferences() error {
	resolve := func(path, ref string) (ElementID, error) {
		if ref == "" {
			return 0, engerr.NewCompileError(path, fmt.Errorf("empty reference"))
		}
		e, ok := st.elements[ref]
		if !ok {
			return 0, engerr.NewCompileError(path, fmt.Errorf("unresolved reference %q", ref))
		}
		return e.ID, nil
	}

	for _, e := range st.elements {
		if e.PhaseChange == nil {
			continue
		}
		if e.PhaseChange.High != nil {
			id, err := resolve(e.Key, e.PhaseChange.High.toRefRaw)
			if err != nil {
				return err
			}
			e.PhaseChange.High.To = id
		}
		if e.PhaseChange.Low != nil {
			id, err := resolve(e.Key, e.PhaseChange.Low.toRefRaw)
			if err != nil {
				return err
			}
			e.PhaseChange.Low.To = id
		}
	}

	for _, d := range st.reactionDrafts {
		aggID, err := resolve(d.path, d.aggKey)
		if err != nil {
			return err
		}
		vicID, err := resolve(d.path, d.vicKey)
		if err != nil {
			return err
		}

		r := &Reaction{AggressorID: aggID, VictimID: vicID, Chance: d.chance}

		switch d.resAggRaw {
		case "unchanged":
			r.ResultAggressorUnchanged = true
			r.ResultAggressor = aggID
		case "destroyed":
			r.ResultAggressorDestroyed = true
		default:
			id, err := resolve(d.path, resolveRelative(d.packID, d.resAggRaw))
			if err != nil {
				return err
			}
			r.ResultAggressor = id
		}

		switch d.resVicRaw {
		case "destroyed":
			r.ResultVictimDestroyed = true
		default:
			id, err := resolve(d.path, resolveRelative(d.packID, d.resVicRaw))
			if err != nil {
				return err
			}
			r.ResultVictim = id
		}

		if d.hasSpawn {
			id, err := resolve(d.path, resolveRelative(d.packID, d.spawnRaw))
			if err != nil {
				return err
			}
			r.HasSpawn = true
			r.Spawn = id
		}

		// Override rule (step 2): a later pack's reaction for the same
		// ordered pair replaces the earlier rule. The LUT is symmetric at
		// lookup time, but "same pair" for override purposes is the pair
		// as declared: stored once per ordered pair encountered during
		// compilation.
		st.reactions[[2]ElementID{r.AggressorID, r.VictimID}] = r
	}
	return nil
}

func (st *compileState) freeze(packs []Pack) *Bundle {
	elements := make([]Element, 0, len(st.elements))
	index := make(map[string]ElementID, len(st.elements))
	for _, e := range st.elements {
		elements = append(elements, *e)
		index[e.Key] = e.ID
	}
	sort.Slice(elements, func(i, j int) bool { return elements[i].ID < elements[j].ID })

	reactions := make([]Reaction, 0, len(st.reactions))
	for _, r := range st.reactions {
		reactions = append(reactions, *r)
	}
	sort.Slice(reactions, func(i, j int) bool {
		if reactions[i].AggressorID != reactions[j].AggressorID {
			return reactions[i].AggressorID < reactions[j].AggressorID
		}
		return reactions[i].VictimID < reactions[j].VictimID
	})

	manifests := make([]Manifest, len(packs))
	for i, p := range packs {
		manifests[i] = p.Manifest
	}

	return &Bundle{
		FormatVersion:  1,
		Packs:          manifests,
		Elements:       elements,
		ElementKeyToID: index,
		Reactions:      reactions,
	}
}
