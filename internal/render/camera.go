package render

// Camera translates between grid coordinates and screen coordinates.
// Grid X is multiplied by 2 because emoji occupy 2 terminal columns.
type Camera struct {
	OffsetX    int
	OffsetY    int
	ViewWidth  int // in terminal columns
	ViewHeight int // in terminal rows
}

// NewCamera creates a camera with a viewW×viewH viewport.
func NewCamera(viewW, viewH int) *Camera {
	return &Camera{ViewWidth: viewW, ViewHeight: viewH}
}

// Resize changes the viewport size without moving the camera.
func (c *Camera) Resize(viewW, viewH int) {
	c.ViewWidth, c.ViewHeight = viewW, viewH
}

// Frame positions the camera for a gridW×gridH floor. A floor that fits is
// centred in the viewport; a larger one is scrolled so (fx, fy) stays in view.
func (c *Camera) Frame(gridW, gridH, fx, fy int) {
	cols := c.ViewWidth / 2
	if gridW <= cols {
		c.OffsetX = -(cols - gridW) / 2
	} else {
		c.OffsetX = clamp(fx-cols/2, 0, gridW-cols)
	}
	if gridH <= c.ViewHeight {
		c.OffsetY = -(c.ViewHeight - gridH) / 2
	} else {
		c.OffsetY = clamp(fy-c.ViewHeight/2, 0, gridH-c.ViewHeight)
	}
}

// WorldToScreen converts grid (wx, wy) to screen (sx, sy).
// visible is false when the result falls outside the viewport.
func (c *Camera) WorldToScreen(wx, wy int) (sx, sy int, visible bool) {
	sx = (wx - c.OffsetX) * 2
	sy = wy - c.OffsetY
	visible = sx >= 0 && sx+1 < c.ViewWidth && sy >= 0 && sy < c.ViewHeight
	return
}

// ScreenToWorld converts screen (sx, sy) to grid coordinates.
func (c *Camera) ScreenToWorld(sx, sy int) (int, int) {
	return sx/2 + c.OffsetX, sy + c.OffsetY
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
