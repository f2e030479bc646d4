package markers

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/mandoxxdev/crm-catalog/internal/types"
)

// Collection is the ordered set of markers owned by one product family.
// Sequence numbers stay dense (1..N) across every mutation.
type Collection struct {
	items []Marker
}

// New returns an empty collection.
func New() *Collection {
	return &Collection{}
}

// FromMarkers builds a collection from existing markers, assigning ids and
// sequence numbers to entries that lack them.
func FromMarkers(items []Marker) *Collection {
	c := &Collection{items: append([]Marker(nil), items...)}
	c.Normalize()
	return c
}

// Decode parses a persisted marker field. The stored value may be a bare
// array, an object wrapping the array under "markers", or (from the oldest
// rows) a JSON string containing either. Malformed input degrades to an
// empty collection rather than failing the family load.
func Decode(raw []byte) *Collection {
	c := New()
	if len(raw) == 0 || string(raw) == "null" {
		return c
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return New()
	}
	return c
}

// UnmarshalJSON accepts the legacy persisted shapes and normalizes them.
func (c *Collection) UnmarshalJSON(data []byte) error {
	c.items = nil
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Double-encoded rows: a JSON string holding the real document.
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		return c.UnmarshalJSON([]byte(inner))
	}

	if data[0] == '{' {
		var wrapper struct {
			Markers types.FlexList[Marker] `json:"markers"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return err
		}
		c.items = wrapper.Markers.Slice()
	} else {
		var list types.FlexList[Marker]
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		c.items = list.Slice()
	}

	c.Normalize()
	return nil
}

// MarshalJSON emits the canonical bare-array form.
func (c *Collection) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// Len returns the number of markers.
func (c *Collection) Len() int {
	return len(c.items)
}

// Markers returns a copy of the markers in sequence order.
func (c *Collection) Markers() []Marker {
	return append([]Marker(nil), c.items...)
}

// Get returns the marker with the given id.
func (c *Collection) Get(id string) (Marker, bool) {
	if m := c.find(id); m != nil {
		return *m, true
	}
	return Marker{}, false
}

// Add places a new marker at the given percentage position with default
// geometry and kind, sequence number max+1. Returns a copy of the marker.
func (c *Collection) Add(xPct, yPct float64, variableKey string) Marker {
	m := Marker{
		ID:          uuid.NewString(),
		X:           clampPosition(xPct),
		Y:           clampPosition(yPct),
		Width:       DefaultSize,
		Height:      DefaultSize,
		VariableKey: variableKey,
		Kind:        KindDropdown,
		Seq:         c.nextSeq(),
	}
	c.items = append(c.items, m)
	return m
}

// Move repositions a marker, clamping to the image bounds.
func (c *Collection) Move(id string, xPct, yPct float64) bool {
	m := c.find(id)
	if m == nil {
		return false
	}
	m.X = clampPosition(xPct)
	m.Y = clampPosition(yPct)
	return true
}

// ResizeBy adjusts a marker's size by percentage deltas, clamping each axis
// independently to [MinSize, MaxSize].
func (c *Collection) ResizeBy(id string, dw, dh float64) bool {
	m := c.find(id)
	if m == nil {
		return false
	}
	m.Width = clampSize(m.Width + dw)
	m.Height = clampSize(m.Height + dh)
	return true
}

// Update rewrites a marker's label, variable binding, and render kind.
func (c *Collection) Update(id, label, variableKey string, kind Kind) bool {
	m := c.find(id)
	if m == nil {
		return false
	}
	m.Label = label
	m.VariableKey = variableKey
	m.Kind = normalizeKind(string(kind))
	return true
}

// Remove deletes a marker and renumbers the remainder so sequence numbers
// stay contiguous: every marker numbered above the removed one shifts down.
func (c *Collection) Remove(id string) bool {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.renumber()
			return true
		}
	}
	return false
}

// Normalize assigns a fresh id to any marker missing one, appends
// unnumbered entries after the numbered ones in stored order, and renumbers
// the whole collection. Used when hydrating legacy rows.
func (c *Collection) Normalize() {
	for i := range c.items {
		if c.items[i].ID == "" {
			c.items[i].ID = uuid.NewString()
		}
	}
	for i := range c.items {
		if c.items[i].Seq <= 0 {
			c.items[i].Seq = c.nextSeq()
		}
	}
	c.renumber()
}

// renumber sorts by existing sequence (stable, so unnumbered legacy entries
// keep their stored order) and assigns 1..N.
func (c *Collection) renumber() {
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.items[i].Seq < c.items[j].Seq
	})
	for i := range c.items {
		c.items[i].Seq = i + 1
	}
}

func (c *Collection) nextSeq() int {
	max := 0
	for i := range c.items {
		if c.items[i].Seq > max {
			max = c.items[i].Seq
		}
	}
	return max + 1
}

func (c *Collection) find(id string) *Marker {
	for i := range c.items {
		if c.items[i].ID == id {
			return &c.items[i]
		}
	}
	return nil
}
