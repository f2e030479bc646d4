package markers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return NewRegistry([]Variable{
		{Key: "power_hp", DisplayName: "Power (HP)", DataKind: "numeric"},
		{Key: "material", DisplayName: "Casing material"},
		{Key: "voltage", DisplayName: "Voltage"},
	})
}

func TestClickPlacesMarkerAtPercentPosition(t *testing.T) {
	s := NewSession(New(), testRegistry())
	s.SetAddMode(true)

	rect := Rect{Left: 100, Top: 50, Width: 800, Height: 600}
	id := s.Click(rect, 300, 350)
	require.NotEmpty(t, id)

	m, ok := s.Collection().Get(id)
	require.True(t, ok)
	assert.Equal(t, 25.0, m.X)
	assert.Equal(t, 50.0, m.Y)
	assert.Equal(t, DefaultSize, m.Width)
	assert.Equal(t, DefaultSize, m.Height)
	assert.Equal(t, "power_hp", m.VariableKey)
	assert.Equal(t, KindDropdown, m.Kind)
	assert.Equal(t, 1, m.Seq)

	editing, ok := s.Editing()
	require.True(t, ok, "new marker enters edit state")
	assert.Equal(t, id, editing.ID)
}

func TestClickOutsideAddModeDoesNothing(t *testing.T) {
	s := NewSession(New(), testRegistry())

	id := s.Click(Rect{Width: 800, Height: 600}, 100, 100)
	assert.Empty(t, id)
	assert.Equal(t, 0, s.Collection().Len())
}

func TestClickClampsToImageBounds(t *testing.T) {
	s := NewSession(New(), testRegistry())
	s.SetAddMode(true)

	rect := Rect{Left: 0, Top: 0, Width: 800, Height: 600}
	id := s.Click(rect, -50, 9000)
	require.NotEmpty(t, id)

	m, _ := s.Collection().Get(id)
	assert.Equal(t, 0.0, m.X)
	assert.Equal(t, 100.0, m.Y)
}

func TestClickOnEmptyRegistryUsesFallbackKey(t *testing.T) {
	s := NewSession(New(), NewRegistry(nil))
	s.SetAddMode(true)

	id := s.Click(Rect{Width: 100, Height: 100}, 10, 10)
	require.NotEmpty(t, id)

	m, _ := s.Collection().Get(id)
	assert.Equal(t, FallbackVariableKey, m.VariableKey)
}

func TestDragMovesMarkerContinuously(t *testing.T) {
	c := New()
	id := c.Add(50, 50, "power_hp").ID
	s := NewSession(c, testRegistry())

	rect := Rect{Left: 0, Top: 0, Width: 1000, Height: 500}
	require.True(t, s.BeginDrag(id, 500, 250))

	s.DragTo(rect, 600, 250)
	m, _ := c.Get(id)
	assert.Equal(t, 60.0, m.X)
	assert.Equal(t, 50.0, m.Y)

	s.DragTo(rect, 800, 400)
	m, _ = c.Get(id)
	assert.Equal(t, 80.0, m.X)
	assert.Equal(t, 80.0, m.Y)

	s.EndDrag()
	_, editing := s.Editing()
	assert.False(t, editing, "a real drag must not open the edit form")
}

func TestPressReleaseWithoutMovementOpensEdit(t *testing.T) {
	c := New()
	id := c.Add(30, 30, "power_hp").ID
	s := NewSession(c, testRegistry())

	require.True(t, s.BeginDrag(id, 300, 150))
	s.EndDrag()

	m, ok := s.Editing()
	require.True(t, ok)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, 30.0, m.X, "position untouched")
}

func TestDragRefusedWhileGestureActive(t *testing.T) {
	c := New()
	a := c.Add(10, 10, "k").ID
	b := c.Add(20, 20, "k").ID
	s := NewSession(c, testRegistry())

	require.True(t, s.BeginDrag(a, 0, 0))
	assert.False(t, s.BeginDrag(b, 0, 0))
	assert.False(t, s.BeginResize(a, HandleEast, 0, 0))
	s.EndDrag()
}

func TestDragSkipsDegenerateFrame(t *testing.T) {
	c := New()
	id := c.Add(40, 40, "k").ID
	s := NewSession(c, testRegistry())

	require.True(t, s.BeginDrag(id, 100, 100))
	s.DragTo(Rect{Width: 0, Height: 0}, 200, 200)

	m, _ := c.Get(id)
	assert.Equal(t, 40.0, m.X, "position unchanged on unusable rect")

	// Movement during the degenerate frame still counts as a drag.
	s.EndDrag()
	_, editing := s.Editing()
	assert.False(t, editing)
}

func TestResizeRequiresEditState(t *testing.T) {
	c := New()
	id := c.Add(50, 50, "k").ID
	s := NewSession(c, testRegistry())

	assert.False(t, s.BeginResize(id, HandleEast, 0, 0))
}

func TestResizeEastAdjustsWidthOnly(t *testing.T) {
	c := New()
	id := c.Add(50, 50, "k").ID
	s := NewSession(c, testRegistry())

	// Enter edit state via a stationary press-release.
	require.True(t, s.BeginDrag(id, 0, 0))
	s.EndDrag()

	rect := Rect{Width: 1000, Height: 500}
	require.True(t, s.BeginResize(id, HandleEast, 500, 250))
	s.ResizeTo(rect, 600, 300)
	s.EndResize()

	m, _ := c.Get(id)
	assert.Equal(t, DefaultSize+10, m.Width, "100px over a 1000px rect is 10 percent")
	assert.Equal(t, DefaultSize, m.Height)
}

func TestResizeNorthGrowsWhenDraggingUp(t *testing.T) {
	c := New()
	id := c.Add(50, 50, "k").ID
	s := NewSession(c, testRegistry())
	require.True(t, s.BeginDrag(id, 0, 0))
	s.EndDrag()

	rect := Rect{Width: 1000, Height: 500}
	require.True(t, s.BeginResize(id, HandleNorth, 500, 250))
	s.ResizeTo(rect, 500, 200)
	s.EndResize()

	m, _ := c.Get(id)
	assert.Equal(t, DefaultSize, m.Width)
	assert.Equal(t, DefaultSize+10, m.Height, "50px up over a 500px rect is 10 percent")
}

func TestResizeClampsUnderExtremeDeltas(t *testing.T) {
	c := New()
	id := c.Add(50, 50, "k").ID
	s := NewSession(c, testRegistry())
	require.True(t, s.BeginDrag(id, 0, 0))
	s.EndDrag()

	rect := Rect{Width: 100, Height: 100}
	require.True(t, s.BeginResize(id, HandleEast, 0, 0))
	s.ResizeTo(rect, 1e6, 0)
	m, _ := c.Get(id)
	assert.Equal(t, MaxSize, m.Width)

	s.ResizeTo(rect, -1e6, 0)
	m, _ = c.Get(id)
	assert.Equal(t, MinSize, m.Width)
	s.EndResize()
}

func TestResizeDegenerateFramePreservesDelta(t *testing.T) {
	c := New()
	id := c.Add(50, 50, "k").ID
	s := NewSession(c, testRegistry())
	require.True(t, s.BeginDrag(id, 0, 0))
	s.EndDrag()

	rect := Rect{Width: 1000, Height: 500}
	require.True(t, s.BeginResize(id, HandleEast, 500, 250))

	// Unusable frame: no size change, and the anchor stays at the press
	// point so the next usable frame applies the full delta.
	s.ResizeTo(Rect{}, 550, 250)
	m, _ := c.Get(id)
	assert.Equal(t, DefaultSize, m.Width)

	s.ResizeTo(rect, 600, 250)
	m, _ = c.Get(id)
	assert.Equal(t, DefaultSize+10, m.Width)
	s.EndResize()
}

func TestConfirmAppliesEditAndLeavesEditState(t *testing.T) {
	c := New()
	id := c.Add(10, 10, "power_hp").ID
	s := NewSession(c, testRegistry())
	require.True(t, s.BeginDrag(id, 0, 0))
	s.EndDrag()

	require.True(t, s.Confirm("Motor power", "voltage", KindNumeric))

	m, _ := c.Get(id)
	assert.Equal(t, "Motor power", m.Label)
	assert.Equal(t, "voltage", m.VariableKey)
	assert.Equal(t, KindNumeric, m.Kind)

	_, editing := s.Editing()
	assert.False(t, editing)
	assert.False(t, s.Confirm("x", "y", KindDropdown), "nothing in edit state")
}

func TestRemoveEditingRenumbersRest(t *testing.T) {
	c := New()
	first := c.Add(10, 10, "k").ID
	c.Add(20, 20, "k")
	c.Add(30, 30, "k")
	s := NewSession(c, testRegistry())
	require.True(t, s.BeginDrag(first, 0, 0))
	s.EndDrag()

	require.True(t, s.RemoveEditing())
	require.Equal(t, 2, c.Len())
	for i, m := range c.Markers() {
		assert.Equal(t, i+1, m.Seq)
	}
}

func TestCancelDiscardsEditState(t *testing.T) {
	c := New()
	id := c.Add(10, 10, "power_hp").ID
	s := NewSession(c, testRegistry())
	require.True(t, s.BeginDrag(id, 0, 0))
	s.EndDrag()

	s.Cancel()
	_, editing := s.Editing()
	assert.False(t, editing)

	m, _ := c.Get(id)
	assert.Equal(t, "power_hp", m.VariableKey, "no changes applied")
}

func TestSearchVariables(t *testing.T) {
	s := NewSession(New(), testRegistry())

	assert.Len(t, s.SearchVariables(""), 3)
	assert.Len(t, s.SearchVariables("  "), 3)

	hits := s.SearchVariables("POWER")
	require.Len(t, hits, 1)
	assert.Equal(t, "power_hp", hits[0].Key)

	hits = s.SearchVariables("volt")
	require.Len(t, hits, 1)
	assert.Equal(t, "voltage", hits[0].Key)

	assert.Empty(t, s.SearchVariables("no such thing"))
}

func TestVariableDisplayNameFallsBackToKey(t *testing.T) {
	s := NewSession(New(), testRegistry())

	assert.Equal(t, "Power (HP)", s.VariableDisplayName("power_hp"))
	assert.Equal(t, "pressao_max", s.VariableDisplayName("pressao_max"))
}
