package markers

// Rect is the measured bounding box of the rendered schematic image, in
// pixels. It is passed into every gesture update explicitly; the session
// never looks layout up on its own.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// degenerate reports whether the box cannot be used for coordinate math
// this frame (image not laid out yet, or mid-reflow).
func (r Rect) degenerate() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Handle identifies one of the four resize handles attached to a marker in
// edit state. East/west adjust width only, north/south height only.
type Handle int

const (
	HandleNorth Handle = iota
	HandleSouth
	HandleEast
	HandleWest
)

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gestureResize
)

// Session drives one marker-editing invocation over a single collection.
// Gestures are mutually exclusive: beginning one while another is active is
// refused. All mutations stay in memory until the caller saves.
type Session struct {
	collection *Collection
	registry   *Registry

	addMode bool

	gesture  gestureKind
	activeID string
	handle   Handle
	moved    bool
	lastX    float64
	lastY    float64

	editingID string
}

// NewSession wraps a collection and registry in an editing session.
func NewSession(c *Collection, r *Registry) *Session {
	if c == nil {
		c = New()
	}
	if r == nil {
		r = NewRegistry(nil)
	}
	return &Session{collection: c, registry: r}
}

// Collection exposes the session's collection, e.g. for saving.
func (s *Session) Collection() *Collection {
	return s.collection
}

// SetAddMode toggles marker placement on click.
func (s *Session) SetAddMode(on bool) {
	s.addMode = on
}

// AddMode reports whether placement mode is active.
func (s *Session) AddMode() bool {
	return s.addMode
}

// Click handles a click on the image at pixel coordinates (x, y). In add
// mode it places a marker at the corresponding percentage position with
// default geometry and the registry's default variable, and the new marker
// immediately enters edit state. Returns the new marker's id, or "" when
// nothing was placed.
func (s *Session) Click(rect Rect, x, y float64) string {
	if !s.addMode || s.gesture != gestureNone {
		return ""
	}
	px, py, ok := percentPosition(rect, x, y)
	if !ok {
		return ""
	}
	m := s.collection.Add(px, py, s.registry.DefaultKey())
	s.editingID = m.ID
	return m.ID
}

// BeginDrag starts a move gesture on an existing marker. Refused while
// another gesture is active or the marker does not exist.
func (s *Session) BeginDrag(id string, x, y float64) bool {
	if s.gesture != gestureNone {
		return false
	}
	if _, ok := s.collection.Get(id); !ok {
		return false
	}
	s.gesture = gestureDrag
	s.activeID = id
	s.moved = false
	s.lastX, s.lastY = x, y
	return true
}

// DragTo recomputes the dragged marker's position from the cursor, every
// movement event, not just at gesture end. A degenerate rect skips the
// position update for that frame; the movement itself still counts against
// the click-vs-drag flag.
func (s *Session) DragTo(rect Rect, x, y float64) {
	if s.gesture != gestureDrag {
		return
	}
	if x != s.lastX || y != s.lastY {
		s.moved = true
	}
	px, py, ok := percentPosition(rect, x, y)
	if !ok {
		return
	}
	s.collection.Move(s.activeID, px, py)
}

// EndDrag finishes the move gesture. A press-and-release with no movement
// in between is a click: the marker enters edit state instead.
func (s *Session) EndDrag() {
	if s.gesture != gestureDrag {
		return
	}
	if !s.moved {
		s.editingID = s.activeID
	}
	s.gesture = gestureNone
	s.activeID = ""
}

// BeginResize starts a resize gesture from one of the four handles. Handles
// only exist on the marker currently in edit state.
func (s *Session) BeginResize(id string, handle Handle, x, y float64) bool {
	if s.gesture != gestureNone || id != s.editingID {
		return false
	}
	if _, ok := s.collection.Get(id); !ok {
		return false
	}
	s.gesture = gestureResize
	s.activeID = id
	s.handle = handle
	s.lastX, s.lastY = x, y
	return true
}

// ResizeTo applies the pointer delta along the handle's axis, leaving the
// other axis untouched. Deltas are converted to percentage units against
// the current rect and clamped; a degenerate rect skips the frame without
// consuming the delta.
func (s *Session) ResizeTo(rect Rect, x, y float64) {
	if s.gesture != gestureResize {
		return
	}
	if rect.degenerate() {
		return
	}

	var dw, dh float64
	switch s.handle {
	case HandleEast:
		dw = (x - s.lastX) / rect.Width * 100
	case HandleWest:
		dw = (s.lastX - x) / rect.Width * 100
	case HandleSouth:
		dh = (y - s.lastY) / rect.Height * 100
	case HandleNorth:
		dh = (s.lastY - y) / rect.Height * 100
	}

	s.collection.ResizeBy(s.activeID, dw, dh)
	s.lastX, s.lastY = x, y
}

// EndResize finishes the resize gesture.
func (s *Session) EndResize() {
	if s.gesture != gestureResize {
		return
	}
	s.gesture = gestureNone
	s.activeID = ""
}

// Editing returns the marker currently in edit state, if any.
func (s *Session) Editing() (Marker, bool) {
	if s.editingID == "" {
		return Marker{}, false
	}
	return s.collection.Get(s.editingID)
}

// SearchVariables filters the registry for the edit form's live search box.
func (s *Session) SearchVariables(query string) []Variable {
	return s.registry.Search(query)
}

// VariableDisplayName resolves a marker's weak variable reference for
// display, falling back to the raw key for deactivated variables.
func (s *Session) VariableDisplayName(key string) string {
	return s.registry.DisplayName(key)
}

// Confirm applies the edit form to the marker in edit state and leaves edit
// state.
func (s *Session) Confirm(label, variableKey string, kind Kind) bool {
	if s.editingID == "" {
		return false
	}
	ok := s.collection.Update(s.editingID, label, variableKey, kind)
	s.editingID = ""
	return ok
}

// RemoveEditing deletes the marker in edit state, renumbering the rest, and
// leaves edit state.
func (s *Session) RemoveEditing() bool {
	if s.editingID == "" {
		return false
	}
	ok := s.collection.Remove(s.editingID)
	s.editingID = ""
	return ok
}

// Cancel leaves edit state without applying changes.
func (s *Session) Cancel() {
	s.editingID = ""
}

// percentPosition converts pixel coordinates to clamped percentages of the
// rect. Reports false when the rect is unusable this frame.
func percentPosition(rect Rect, x, y float64) (float64, float64, bool) {
	if rect.degenerate() {
		return 0, 0, false
	}
	px := clampPosition((x - rect.Left) / rect.Width * 100)
	py := clampPosition((y - rect.Top) / rect.Height * 100)
	return px, py, true
}
