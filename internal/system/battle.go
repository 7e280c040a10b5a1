package system

import (
	"errors"
	"fmt"

	"open-tower/internal/component"
	"open-tower/internal/ecs"
)

var (
	// ErrCannotDamage means the attacker's power does not exceed the
	// defender's defense, so the fight could never end.
	ErrCannotDamage = errors.New("cannot damage enemy")
	// ErrTooStrong means winning would cost all of the attacker's life.
	ErrTooStrong = errors.New("enemy too strong")
)

// Forecast is the deterministic result of a fight. The player strikes
// first; each side deals max(0, power - opposing defense) per round.
type Forecast struct {
	PlayerHit int // damage the player deals per round
	EnemyHit  int // damage the enemy deals per round
	Rounds    int // player strikes needed to win, 0 if impossible
	Damage    int // life the player loses winning
}

// Predict computes the fight between player and enemy without applying it.
func Predict(player, enemy component.Stats) Forecast {
	f := Forecast{
		PlayerHit: max(0, player.Power()-enemy.Defense()),
		EnemyHit:  max(0, enemy.Power()-player.Defense()),
	}
	if f.PlayerHit == 0 {
		return f
	}
	f.Rounds = (enemy.Life() + f.PlayerHit - 1) / f.PlayerHit
	f.Damage = (f.Rounds - 1) * f.EnemyHit
	return f
}

// Winnable reports whether the player survives the fight with life left.
func (f Forecast) Winnable(player component.Stats) error {
	if f.Rounds == 0 {
		return ErrCannotDamage
	}
	if f.Damage >= player.Life() {
		return fmt.Errorf("%w: would take %d damage with %d life", ErrTooStrong, f.Damage, player.Life())
	}
	return nil
}

// Fight resolves a battle between playerID and enemyID. A winnable fight
// charges the damage to the player, grants the enemy's experience and
// destroys the enemy; otherwise nothing changes and the reason is returned.
func Fight(w *ecs.World, playerID, enemyID ecs.EntityID) (Forecast, error) {
	ps, ok := w.Get(playerID, component.CStats).(component.Stats)
	if !ok {
		return Forecast{}, fmt.Errorf("entity %d has no stats", playerID)
	}
	es, ok := w.Get(enemyID, component.CStats).(component.Stats)
	if !ok {
		return Forecast{}, fmt.Errorf("entity %d has no stats", enemyID)
	}
	f := Predict(ps, es)
	if err := f.Winnable(ps); err != nil {
		return f, err
	}
	ps.AddToLife(-f.Damage)
	ps.AddToExperience(es.Experience())
	w.Add(playerID, ps)
	w.DestroyEntity(enemyID)
	return f, nil
}
