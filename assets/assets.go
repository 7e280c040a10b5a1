// Package assets embeds the data files shipped with the binary: sprite sets
// and the bundled levels. Files are addressed by slash-separated keys such
// as "sprites/default.yaml".
package assets

import "embed"

//go:embed sprites/*.yaml levels/*.yaml
var FS embed.FS

// Resource keys.
const (
	DefaultSprites = "sprites/default.yaml"
	TutorialLevel  = "levels/tutorial.yaml"
)

// FloorGlyph is drawn on empty floor cells.
const FloorGlyph = "⬛"
