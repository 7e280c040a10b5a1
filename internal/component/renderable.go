package component

import (
	"open-tower/internal/ecs"

	"github.com/gdamore/tcell/v2"
)

const CRenderable ecs.ComponentType = 2

// Renderable is the sprite drawn for an entity. Glyph is resolved from the
// sprite registry when the entity is created or its sprite changes.
type Renderable struct {
	Glyph       string
	FGColor     tcell.Color
	RenderOrder int
}

func (Renderable) Type() ecs.ComponentType { return CRenderable }
