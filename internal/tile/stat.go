package tile

import (
	"fmt"
	"strings"
)

// Stat names one of the four entity stats.
type Stat uint8

const (
	Life Stat = iota
	Power
	Defense
	Experience
)

const statCount = 4

var statNames = [statCount]string{"life", "power", "defense", "experience"}

// Next returns the stat after s, wrapping from Experience back to Life.
func (s Stat) Next() Stat {
	return (s + 1) % statCount
}

func (s Stat) String() string {
	if s >= statCount {
		return fmt.Sprintf("stat(%d)", uint8(s))
	}
	return statNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Stat) MarshalText() ([]byte, error) {
	if s >= statCount {
		return nil, fmt.Errorf("unknown stat %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stat) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range statNames {
		if n == name {
			*s = Stat(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stat %q", name)
}
