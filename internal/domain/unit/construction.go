package unit

import "github.com/andrescamacho/skirmish-go/internal/domain/resource"

// progressPerTimeUnit converts one build-time cost unit into progress points
const progressPerTimeUnit = 600

// Construction is the sub-state of a unit that is still being built. While it
// is present, hit points follow construction progress instead of direct repair.
type Construction struct {
	Progress int
}

// ProgressHP raises u's hit points as if construction had advanced by amount,
// keeping the damage the scaffold has already taken. The progress counter
// itself belongs to the builder and is left untouched.
func (c *Construction) ProgressHP(u *Unit, amount int) {
	costs := u.Type.BuildCosts[resource.Time] * progressPerTimeUnit
	maxHP := u.Type.MaxHP
	if costs <= 0 {
		u.HP = maxHP
		return
	}

	damage := c.Progress*maxHP/costs - u.HP
	u.HP = (c.Progress+amount)*maxHP/costs - damage
	if u.HP > maxHP {
		u.HP = maxHP
	}
}
