// Package mouse tracks clickable regions registered during rendering and
// resolves bubbletea mouse events back to the UI element under the cursor.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Rect is a rectangle in screen cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point is inside the rectangle. Right and
// bottom edges are exclusive; zero-size rectangles contain nothing.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a registered hit region with optional payload data.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions registered during the current render pass.
type HitMap struct {
	regions []Region
}

// NewHitMap creates an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region. Later additions win over earlier ones when
// regions overlap, matching render order (topmost last).
func (h *HitMap) Add(id string, r Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: r, Data: data})
}

// AddRect is Add with unpacked rectangle coordinates.
func (h *HitMap) AddRect(id string, x, y, w, hgt int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: hgt}, data)
}

// Test returns the topmost region containing the point, or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Regions returns a copy of the registered regions.
func (h *HitMap) Regions() []Region {
	out := make([]Region, len(h.regions))
	copy(out, h.regions)
	return out
}

// Clear drops all registered regions. Call at the start of each render.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// doubleClickWindow is the maximum delay between two clicks on the same
// region for the second to count as a double click.
const doubleClickWindow = 400 * time.Millisecond

// scrollStep is the number of lines a wheel notch scrolls.
const scrollStep = 3

// ActionType classifies a resolved mouse action.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
)

// Action is the result of resolving a mouse event.
type Action struct {
	Type   ActionType
	Region *Region // region under the cursor, nil on miss
	Delta  int     // scroll delta in lines, negative = up
	DragDX int
	DragDY int
}

// ClickResult reports a resolved click.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler bundles a hit map with click/drag state for a component.
type Handler struct {
	HitMap *HitMap

	lastClickTime   time.Time
	lastClickRegion string

	dragging       bool
	dragStartX     int
	dragStartY     int
	dragRegion     string
	dragStartValue int
}

// NewHandler creates a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// Clear resets the hit map for the next render pass.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleClick resolves a left click at the given point, detecting double
// clicks on the same region. A detected double click resets the state so
// a third click starts over.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		h.lastClickRegion = ""
		return ClickResult{}
	}

	now := time.Now()
	isDouble := h.lastClickRegion == region.ID && now.Sub(h.lastClickTime) <= doubleClickWindow
	if isDouble {
		h.lastClickRegion = ""
	} else {
		h.lastClickRegion = region.ID
		h.lastClickTime = now
	}

	return ClickResult{Region: region, IsDoubleClick: isDouble}
}

// StartDrag begins a drag gesture anchored at (x, y). startValue is the
// caller's value being dragged (e.g. a pane width) for delta-based
// adjustment.
func (h *Handler) StartDrag(x, y int, region string, startValue int) {
	h.dragging = true
	h.dragStartX = x
	h.dragStartY = y
	h.dragRegion = region
	h.dragStartValue = startValue
}

// IsDragging reports whether a drag is in progress.
func (h *Handler) IsDragging() bool {
	return h.dragging
}

// DragRegion returns the ID passed to StartDrag, or "" when not dragging.
func (h *Handler) DragRegion() string {
	return h.dragRegion
}

// DragStartValue returns the value passed to StartDrag.
func (h *Handler) DragStartValue() int {
	return h.dragStartValue
}

// DragDelta returns the offset of the point from the drag anchor.
func (h *Handler) DragDelta(x, y int) (dx, dy int) {
	return x - h.dragStartX, y - h.dragStartY
}

// EndDrag finishes the drag gesture.
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
	h.dragStartValue = 0
}

// HandleMouse resolves a bubbletea mouse event into an Action.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	switch msg.Action {
	case tea.MouseActionPress:
		return h.handlePress(msg)

	case tea.MouseActionMotion:
		if h.dragging {
			dx, dy := h.DragDelta(msg.X, msg.Y)
			return Action{Type: ActionDrag, DragDX: dx, DragDY: dy}
		}
		return Action{Type: ActionHover, Region: h.HitMap.Test(msg.X, msg.Y)}

	case tea.MouseActionRelease:
		if h.dragging {
			h.EndDrag()
			return Action{Type: ActionDragEnd}
		}
	}
	return Action{}
}

func (h *Handler) handlePress(msg tea.MouseMsg) Action {
	region := h.HitMap.Test(msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Shift {
			return Action{Type: ActionScrollLeft, Region: region, Delta: -scrollStep}
		}
		return Action{Type: ActionScrollUp, Region: region, Delta: -scrollStep}

	case tea.MouseButtonWheelDown:
		if msg.Shift {
			return Action{Type: ActionScrollRight, Region: region, Delta: scrollStep}
		}
		return Action{Type: ActionScrollDown, Region: region, Delta: scrollStep}

	// Horizontal wheel directions follow Mac "natural" scrolling.
	case tea.MouseButtonWheelLeft:
		return Action{Type: ActionScrollRight, Region: region, Delta: scrollStep}

	case tea.MouseButtonWheelRight:
		return Action{Type: ActionScrollLeft, Region: region, Delta: -scrollStep}

	case tea.MouseButtonLeft:
		result := h.HandleClick(msg.X, msg.Y)
		if result.Region == nil {
			return Action{}
		}
		if result.IsDoubleClick {
			return Action{Type: ActionDoubleClick, Region: result.Region}
		}
		return Action{Type: ActionClick, Region: result.Region}
	}

	return Action{}
}
