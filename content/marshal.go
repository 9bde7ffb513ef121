package content

import (
	"encoding/json"
	"fmt"
)

// bundleJSON mirrors the compiled bundle's JSON wire shape.
type bundleJSON struct {
	FormatVersion  int                    `json:"formatVersion"`
	GeneratedAt    string                 `json:"generatedAt"`
	Packs          []Manifest             `json:"packs"`
	Elements       []elementJSON          `json:"elements"`
	ElementKeyToID map[string]ElementID   `json:"elementKeyToId"`
	Reactions      []reactionJSON         `json:"reactions"`
}

type elementJSON struct {
	ID               ElementID        `json:"id"`
	Key              string           `json:"key"`
	Category         string           `json:"category"`
	Color            string           `json:"color"`
	Density          json.RawMessage  `json:"density"`
	Dispersion       uint8            `json:"dispersion"`
	Lifetime         uint16           `json:"lifetime"`
	DefaultTemp      float32          `json:"defaultTemp"`
	HeatConductivity uint8            `json:"heatConductivity"`
	Bounce           float32          `json:"bounce,omitempty"`
	Friction         float32          `json:"friction,omitempty"`
	Flags            wireFlags        `json:"flags"`
	Behavior         string           `json:"behavior,omitempty"`
	PhaseChange      *phaseChangeJSON `json:"phaseChange,omitempty"`
	Hidden           bool             `json:"hidden"`
}

type phaseChangeJSON struct {
	High *phaseTargetJSON `json:"high,omitempty"`
	Low  *phaseTargetJSON `json:"low,omitempty"`
}

type phaseTargetJSON struct {
	Temp float32   `json:"temp"`
	To   ElementID `json:"to"`
}

type reactionJSON struct {
	AggressorID              ElementID `json:"aggressorId"`
	VictimID                 ElementID `json:"victimId"`
	ResultAggressor          ElementID `json:"resultAggressor"`
	ResultAggressorUnchanged bool      `json:"resultAggressorUnchanged"`
	ResultAggressorDestroyed bool      `json:"resultAggressorDestroyed"`
	ResultVictim             ElementID `json:"resultVictim"`
	ResultVictimDestroyed    bool      `json:"resultVictimDestroyed"`
	HasSpawn                 bool      `json:"hasSpawn,omitempty"`
	Spawn                    ElementID `json:"spawn,omitempty"`
	Chance                   float32   `json:"chance"`
}

// MarshalJSON serializes the Bundle to its JSON wire format.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	elements := make([]elementJSON, len(b.Elements))
	for i, e := range b.Elements {
		ej := elementJSON{
			ID:               e.ID,
			Key:              e.Key,
			Category:         e.Category.String(),
			Color:            formatColor(e.ColorABGR),
			Density:          formatDensity(e.Density),
			Dispersion:       e.Dispersion,
			Lifetime:         e.Lifetime,
			DefaultTemp:      e.DefaultTemp,
			HeatConductivity: e.HeatConductivity,
			Bounce:           e.Bounce,
			Friction:         e.Friction,
			Flags: wireFlags{
				Flammable:     e.Flags.Flammable,
				Conductive:    e.Flags.Conductive,
				Corrosive:     e.Flags.Corrosive,
				Hot:           e.Flags.Hot,
				Cold:          e.Flags.Cold,
				IgnoreGravity: e.Flags.IgnoreGravity,
				Rigid:         e.Flags.Rigid,
			},
			Behavior: e.Behavior,
			Hidden:   e.Hidden,
		}
		if e.PhaseChange != nil {
			ej.PhaseChange = &phaseChangeJSON{}
			if e.PhaseChange.High != nil {
				ej.PhaseChange.High = &phaseTargetJSON{Temp: e.PhaseChange.High.Temp, To: e.PhaseChange.High.To}
			}
			if e.PhaseChange.Low != nil {
				ej.PhaseChange.Low = &phaseTargetJSON{Temp: e.PhaseChange.Low.Temp, To: e.PhaseChange.Low.To}
			}
		}
		elements[i] = ej
	}

	reactions := make([]reactionJSON, len(b.Reactions))
	for i, r := range b.Reactions {
		reactions[i] = reactionJSON{
			AggressorID:              r.AggressorID,
			VictimID:                 r.VictimID,
			ResultAggressor:          r.ResultAggressor,
			ResultAggressorUnchanged: r.ResultAggressorUnchanged,
			ResultAggressorDestroyed: r.ResultAggressorDestroyed,
			ResultVictim:             r.ResultVictim,
			ResultVictimDestroyed:    r.ResultVictimDestroyed,
			HasSpawn:                 r.HasSpawn,
			Spawn:                    r.Spawn,
			Chance:                   r.Chance,
		}
	}

	return json.Marshal(bundleJSON{
		FormatVersion:  1,
		GeneratedAt:    b.GeneratedAt,
		Packs:          b.Packs,
		Elements:       elements,
		ElementKeyToID: b.ElementKeyToID,
		Reactions:      reactions,
	})
}

// UnmarshalJSON deserializes a Bundle written by MarshalJSON.
func (b *Bundle) UnmarshalJSON(data []byte) error {
	var bj bundleJSON
	if err := json.Unmarshal(data, &bj); err != nil {
		return err
	}

	elements := make([]Element, len(bj.Elements))
	for i, ej := range bj.Elements {
		cat, ok := ParseCategory(ej.Category)
		if !ok {
			return fmt.Errorf("bundle: unknown category %q for element %q", ej.Category, ej.Key)
		}
		color, err := parseColor(ej.Color)
		if err != nil {
			return fmt.Errorf("bundle: element %q: %w", ej.Key, err)
		}
		density, err := parseDensity(ej.Density, cat)
		if err != nil {
			return fmt.Errorf("bundle: element %q: %w", ej.Key, err)
		}
		e := Element{
			ID:               ej.ID,
			Key:              ej.Key,
			Category:         cat,
			ColorABGR:        color,
			Density:          density,
			Dispersion:       ej.Dispersion,
			Lifetime:         ej.Lifetime,
			DefaultTemp:      ej.DefaultTemp,
			HeatConductivity: ej.HeatConductivity,
			Bounce:           ej.Bounce,
			Friction:         ej.Friction,
			Flags: Flags{
				Flammable:     ej.Flags.Flammable,
				Conductive:    ej.Flags.Conductive,
				Corrosive:     ej.Flags.Corrosive,
				Hot:           ej.Flags.Hot,
				Cold:          ej.Flags.Cold,
				IgnoreGravity: ej.Flags.IgnoreGravity,
				Rigid:         ej.Flags.Rigid,
			},
			Behavior: ej.Behavior,
			Hidden:   ej.Hidden,
		}
		if ej.PhaseChange != nil {
			e.PhaseChange = &PhaseChange{}
			if ej.PhaseChange.High != nil {
				e.PhaseChange.High = &PhaseTarget{Temp: ej.PhaseChange.High.Temp, To: ej.PhaseChange.High.To}
			}
			if ej.PhaseChange.Low != nil {
				e.PhaseChange.Low = &PhaseTarget{Temp: ej.PhaseChange.Low.Temp, To: ej.PhaseChange.Low.To}
			}
		}
		elements[i] = e
	}

	reactions := make([]Reaction, len(bj.Reactions))
	for i, rj := range bj.Reactions {
		reactions[i] = Reaction{
			AggressorID:              rj.AggressorID,
			VictimID:                 rj.VictimID,
			ResultAggressor:          rj.ResultAggressor,
			ResultAggressorUnchanged: rj.ResultAggressorUnchanged,
			ResultAggressorDestroyed: rj.ResultAggressorDestroyed,
			ResultVictim:             rj.ResultVictim,
			ResultVictimDestroyed:    rj.ResultVictimDestroyed,
			HasSpawn:                 rj.HasSpawn,
			Spawn:                    rj.Spawn,
			Chance:                   rj.Chance,
		}
	}

	b.FormatVersion = bj.FormatVersion
	b.GeneratedAt = bj.GeneratedAt
	b.Packs = bj.Packs
	b.Elements = elements
	b.ElementKeyToID = bj.ElementKeyToID
	b.Reactions = reactions
	return nil
}

func formatColor(abgr uint32) string {
	a := (abgr >> 24) & 0xFF
	bch := (abgr >> 16) & 0xFF
	g := (abgr >> 8) & 0xFF
	r := abgr & 0xFF
	argb := a<<24 | r<<16 | g<<8 | bch
	return fmt.Sprintf("0x%08X", argb)
}

func formatDensity(d float32) json.RawMessage {
	if d == DensityInfinity {
		return json.RawMessage(`"Infinity"`)
	}
	return json.RawMessage(fmt.Sprintf("%v", d))
}
