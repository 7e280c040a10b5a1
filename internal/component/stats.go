package component

import (
	"fmt"

	"open-tower/internal/ecs"
	"open-tower/internal/tile"
)

const CStats ecs.ComponentType = 3

// StatError reports a stat that failed validation.
type StatError struct {
	Stat  tile.Stat
	Value int
	Rule  string
}

func (e *StatError) Error() string {
	return fmt.Sprintf("%s must be %s, got %d", e.Stat, e.Rule, e.Value)
}

// Stats holds the numeric stats of the player or an enemy, plus the number
// of steps taken. Values only change through the additive mutators.
type Stats struct {
	life       int
	power      int
	defense    int
	experience int
	steps      int
}

func (Stats) Type() ecs.ComponentType { return CStats }

// NewStats validates the initial values: life, power and defense must be
// positive and experience must be nonnegative.
func NewStats(life, power, defense, experience int) (Stats, error) {
	switch {
	case life <= 0:
		return Stats{}, &StatError{Stat: tile.Life, Value: life, Rule: "positive"}
	case power <= 0:
		return Stats{}, &StatError{Stat: tile.Power, Value: power, Rule: "positive"}
	case defense <= 0:
		return Stats{}, &StatError{Stat: tile.Defense, Value: defense, Rule: "positive"}
	case experience < 0:
		return Stats{}, &StatError{Stat: tile.Experience, Value: experience, Rule: "nonnegative"}
	}
	return Stats{life: life, power: power, defense: defense, experience: experience}, nil
}

// NewEnemyStats validates enemy stats. Enemies may have zero power or
// defense; life must still be positive.
func NewEnemyStats(life, power, defense, experience int) (Stats, error) {
	if life <= 0 {
		return Stats{}, &StatError{Stat: tile.Life, Value: life, Rule: "positive"}
	}
	for i, v := range [...]int{power, defense, experience} {
		if v < 0 {
			return Stats{}, &StatError{Stat: tile.Power + tile.Stat(i), Value: v, Rule: "nonnegative"}
		}
	}
	return Stats{life: life, power: power, defense: defense, experience: experience}, nil
}

// MustStats is NewStats for literals known to be valid.
func MustStats(life, power, defense, experience int) Stats {
	s, err := NewStats(life, power, defense, experience)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Stats) Life() int       { return s.life }
func (s Stats) Power() int      { return s.power }
func (s Stats) Defense() int    { return s.defense }
func (s Stats) Experience() int { return s.experience }
func (s Stats) StepCount() int  { return s.steps }

// Get returns the value of stat st.
func (s Stats) Get(st tile.Stat) int {
	switch st {
	case tile.Life:
		return s.life
	case tile.Power:
		return s.power
	case tile.Defense:
		return s.defense
	case tile.Experience:
		return s.experience
	}
	return 0
}

func (s *Stats) AddToLife(amount int)       { s.life += amount }
func (s *Stats) AddToPower(amount int)      { s.power += amount }
func (s *Stats) AddToDefense(amount int)    { s.defense += amount }
func (s *Stats) AddToExperience(amount int) { s.experience += amount }
func (s *Stats) IncrementSteps()            { s.steps++ }

// Add dispatches to the mutator for st.
func (s *Stats) Add(st tile.Stat, amount int) {
	switch st {
	case tile.Life:
		s.AddToLife(amount)
	case tile.Power:
		s.AddToPower(amount)
	case tile.Defense:
		s.AddToDefense(amount)
	case tile.Experience:
		s.AddToExperience(amount)
	}
}
