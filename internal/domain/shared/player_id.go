package shared

import "fmt"

// MaxPlayers is the number of player slots a map can hold
const MaxPlayers = 16

// PlayerID is a value object identifying a player slot
type PlayerID struct {
	value int
}

// NewPlayerID creates a new PlayerID value object
func NewPlayerID(id int) (PlayerID, error) {
	if id < 0 || id >= MaxPlayers {
		return PlayerID{}, fmt.Errorf("player_id must be in [0,%d), got %d", MaxPlayers, id)
	}
	return PlayerID{value: id}, nil
}

// MustNewPlayerID creates a new PlayerID value object, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from a checked save)
func MustNewPlayerID(id int) PlayerID {
	playerID, err := NewPlayerID(id)
	if err != nil {
		panic(err)
	}
	return playerID
}

// Value returns the integer value of the PlayerID
func (p PlayerID) Value() int {
	return p.value
}

// Mask returns the bit for this player in a per-player bitset
func (p PlayerID) Mask() uint16 {
	return 1 << uint(p.value)
}

// String returns a string representation of the PlayerID
func (p PlayerID) String() string {
	return fmt.Sprintf("%d", p.value)
}

// Equals checks if two PlayerIDs are equal
func (p PlayerID) Equals(other PlayerID) bool {
	return p.value == other.value
}
