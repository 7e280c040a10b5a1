package editor

import (
	"errors"
	"strconv"
	"strings"
)

// Field is a numeric text input bound to a tile setting. The text is what
// the designer typed; Clamp normalises it into [min, max].
type Field struct {
	text     string
	min, max int
}

func newField(value, min, max int) *Field {
	f := &Field{min: min, max: max}
	f.SetValue(value)
	return f
}

// Text returns the current contents.
func (f *Field) Text() string { return f.text }

// Min returns the smallest accepted value.
func (f *Field) Min() int { return f.min }

// Max returns the largest accepted value.
func (f *Field) Max() int { return f.max }

// SetText replaces the contents without validation.
func (f *Field) SetText(s string) { f.text = s }

// SetValue stores v, clamped.
func (f *Field) SetValue(v int) {
	f.text = strconv.Itoa(clamp(v, f.min, f.max))
}

// Value parses the contents.
func (f *Field) Value() (int, error) {
	return strconv.Atoi(strings.TrimSpace(f.text))
}

// Clamp rewrites the contents so they parse and lie within range. Text
// that does not parse becomes the minimum; overflowing digits saturate.
func (f *Field) Clamp() {
	v, err := f.Value()
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		v = f.min
	}
	f.SetValue(v)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
