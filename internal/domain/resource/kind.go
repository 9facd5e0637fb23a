package resource

import "fmt"

// Kind indexes a resource in cost vectors and player stocks
type Kind int

const (
	// Time is the build-time slot of a cost vector, never held as stock
	Time Kind = iota
	Gold
	Wood
	Oil
	Ore
	Stone
	Coal
)

// MaxCosts is the length of a cost vector
const MaxCosts = 7

var kindNames = [MaxCosts]string{"time", "gold", "wood", "oil", "ore", "stone", "coal"}

// String returns the lower-case resource name used in saves and messages
func (k Kind) String() string {
	if k < 0 || int(k) >= MaxCosts {
		return fmt.Sprintf("resource(%d)", int(k))
	}
	return kindNames[k]
}

// IsValid checks that the kind addresses a cost vector slot
func (k Kind) IsValid() bool {
	return k >= 0 && int(k) < MaxCosts
}

// ParseKind parses a resource name into a Kind
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("invalid resource kind: %s", s)
}

// Spendable returns the kinds that can be held and spent (all but Time)
func Spendable() []Kind {
	kinds := make([]Kind, 0, MaxCosts-1)
	for k := Gold; int(k) < MaxCosts; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
