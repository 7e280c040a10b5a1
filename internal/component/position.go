package component

import "open-tower/internal/ecs"

const CPosition ecs.ComponentType = 1

// Position is a cell on the floor grid the entity belongs to.
type Position struct {
	X, Y int
}

func (Position) Type() ecs.ComponentType { return CPosition }

// Offset returns the cell (dx, dy) away from p.
func (p Position) Offset(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}
