// Package markers implements the technical-specification marker model for
// product family schematics: positioned, labeled annotations bound to
// technical variables, plus the editing session that mutates them.
//
// Positions and sizes are percentages of the schematic's rendered bounding
// box, so a marker stays put regardless of display scaling.
package markers

import (
	"encoding/json"

	"github.com/mandoxxdev/crm-catalog/internal/types"
)

// Geometry bounds, in percentage units of the schematic image.
const (
	MinPosition = 0.0
	MaxPosition = 100.0
	MinSize     = 6.0
	MaxSize     = 80.0

	// DefaultSize is the width and height a freshly placed marker gets.
	DefaultSize = 12.0
)

// FallbackVariableKey is bound to new markers when the variable registry is empty.
const FallbackVariableKey = "other"

// Kind selects how a marker's value is rendered and entered downstream.
type Kind string

const (
	// KindDropdown renders the variable as a dropdown over the family's option list.
	KindDropdown Kind = "dropdown"
	// KindNumeric renders a numeric input.
	KindNumeric Kind = "numeric"
	// KindToggle renders a single-select toggle.
	KindToggle Kind = "toggle"
)

// Marker is one annotation placed over a family's schematic image. It
// references a TechnicalVariable weakly, by key: the variable may have been
// deactivated since, in which case the raw key is displayed.
type Marker struct {
	ID          string
	X           float64
	Y           float64
	Width       float64
	Height      float64
	Label       string
	VariableKey string
	Kind        Kind
	Seq         int
}

// markerJSON is the wire/persisted form. The legacy schema used Portuguese
// field names (variavel, tipo, numero) and sometimes quoted numbers; both
// are accepted on decode, and the canonical names are always written.
type markerJSON struct {
	ID       string            `json:"id,omitempty"`
	X        types.FlexFloat64 `json:"x"`
	Y        types.FlexFloat64 `json:"y"`
	Width    types.FlexFloat64 `json:"width,omitempty"`
	Height   types.FlexFloat64 `json:"height,omitempty"`
	Label    string            `json:"label,omitempty"`
	Variable string            `json:"variable,omitempty"`
	Variavel string            `json:"variavel,omitempty"`
	Kind     string            `json:"kind,omitempty"`
	Tipo     string            `json:"tipo,omitempty"`
	Seq      int               `json:"seq,omitempty"`
	Numero   int               `json:"numero,omitempty"`
}

// MarshalJSON emits the canonical persisted shape.
func (m Marker) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string  `json:"id"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Width    float64 `json:"width"`
		Height   float64 `json:"height"`
		Label    string  `json:"label"`
		Variable string  `json:"variable"`
		Kind     Kind    `json:"kind"`
		Seq      int     `json:"seq"`
	}{
		ID:       m.ID,
		X:        m.X,
		Y:        m.Y,
		Width:    m.Width,
		Height:   m.Height,
		Label:    m.Label,
		Variable: m.VariableKey,
		Kind:     m.Kind,
		Seq:      m.Seq,
	})
}

// UnmarshalJSON accepts the canonical shape and the legacy field aliases.
func (m *Marker) UnmarshalJSON(data []byte) error {
	var raw markerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = raw.ID
	m.X = clampPosition(raw.X.Float64())
	m.Y = clampPosition(raw.Y.Float64())
	m.Label = raw.Label

	m.VariableKey = raw.Variable
	if m.VariableKey == "" {
		m.VariableKey = raw.Variavel
	}

	kind := raw.Kind
	if kind == "" {
		kind = raw.Tipo
	}
	m.Kind = normalizeKind(kind)

	m.Seq = raw.Seq
	if m.Seq == 0 {
		m.Seq = raw.Numero
	}

	// Entries written before sizes were configurable carry no geometry.
	w, h := raw.Width.Float64(), raw.Height.Float64()
	if w == 0 {
		w = DefaultSize
	}
	if h == 0 {
		h = DefaultSize
	}
	m.Width = clampSize(w)
	m.Height = clampSize(h)

	return nil
}

// normalizeKind maps legacy kind spellings onto the canonical set. An empty
// kind defaults to dropdown; an unrecognized value is kept verbatim so that
// unknown data degrades visibly instead of being rewritten.
func normalizeKind(s string) Kind {
	switch s {
	case "", "variavel", string(KindDropdown):
		return KindDropdown
	case "numero", string(KindNumeric):
		return KindNumeric
	case "unico", string(KindToggle):
		return KindToggle
	}
	return Kind(s)
}

func clampPosition(v float64) float64 {
	if v < MinPosition {
		return MinPosition
	}
	if v > MaxPosition {
		return MaxPosition
	}
	return v
}

func clampSize(v float64) float64 {
	if v < MinSize {
		return MinSize
	}
	if v > MaxSize {
		return MaxSize
	}
	return v
}
