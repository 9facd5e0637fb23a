package resource

import (
	"strconv"
	"strings"
)

// Costs is a fixed-size vector of amounts indexed by Kind
type Costs [MaxCosts]int

// Get returns the amount for a kind
func (c Costs) Get(k Kind) int {
	return c[k]
}

// IsZero returns true if no spendable kind has a cost
func (c Costs) IsZero() bool {
	for _, k := range Spendable() {
		if c[k] != 0 {
			return false
		}
	}
	return true
}

// FromMap builds a cost vector from resource names (as found in scenario files)
func FromMap(m map[string]int) (Costs, error) {
	var c Costs
	for name, amount := range m {
		k, err := ParseKind(name)
		if err != nil {
			return Costs{}, err
		}
		c[k] = amount
	}
	return c, nil
}

// ToMap returns the non-zero entries keyed by resource name
func (c Costs) ToMap() map[string]int {
	m := make(map[string]int)
	for i, amount := range c {
		if amount != 0 {
			m[Kind(i).String()] = amount
		}
	}
	return m
}

func (c Costs) String() string {
	var parts []string
	for i, amount := range c {
		if amount != 0 {
			parts = append(parts, Kind(i).String()+"="+strconv.Itoa(amount))
		}
	}
	return "{" + strings.Join(parts, " ") + "}"
}
