package unit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Handle is a validated index into the Registry. It stays valid while the
// slot holds the same unit; a purged and reused slot bumps the serial.
type Handle struct {
	Slot   int
	Serial uint32
}

// Ref returns the save reference of the handle ("U" + 4 hex digits)
func (h Handle) Ref() string {
	return fmt.Sprintf("U%04X", h.Slot)
}

// IsZero returns true for the unset handle
func (h Handle) IsZero() bool {
	return h.Serial == 0
}

// ParseRef decodes a save reference back into a slot index
func ParseRef(ref string) (int, error) {
	if !strings.HasPrefix(ref, "U") || len(ref) < 2 {
		return 0, fmt.Errorf("malformed unit reference %q", ref)
	}
	slot, err := strconv.ParseUint(ref[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("malformed unit reference %q: %w", ref, err)
	}
	return int(slot), nil
}

// MaxSlot is the highest slot a save may place a unit in. It is the largest
// index a four digit reference can name.
const MaxSlot = 0xFFFF

// Resolver turns save references into live units
type Resolver interface {
	Resolve(ref string) (*Unit, error)
}

// Registry is the identity table of all units of a game. Iteration always
// follows ascending slot order.
type Registry struct {
	slots  []*Unit
	serial uint32
	free   []int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add places u in the lowest free slot and assigns its handle
func (r *Registry) Add(u *Unit) Handle {
	slot := len(r.slots)
	if len(r.free) > 0 {
		slot = r.free[0]
		r.free = r.free[1:]
		r.slots[slot] = u
	} else {
		r.slots = append(r.slots, u)
	}
	r.serial++
	u.handle = Handle{Slot: slot, Serial: r.serial}
	return u.handle
}

// Place puts u at a given slot, as required when loading a save
func (r *Registry) Place(slot int, u *Unit) (Handle, error) {
	if slot < 0 {
		return Handle{}, shared.NewValidationError("slot", "cannot be negative")
	}
	if slot > MaxSlot {
		return Handle{}, shared.NewValidationError("slot", fmt.Sprintf("slot %d exceeds %d", slot, MaxSlot))
	}
	for len(r.slots) <= slot {
		r.free = append(r.free, len(r.slots))
		r.slots = append(r.slots, nil)
	}
	if r.slots[slot] != nil {
		return Handle{}, shared.NewValidationError("slot", fmt.Sprintf("slot %d already taken", slot))
	}
	r.removeFree(slot)
	r.slots[slot] = u
	r.serial++
	u.handle = Handle{Slot: slot, Serial: r.serial}
	return u.handle, nil
}

func (r *Registry) removeFree(slot int) {
	for i, s := range r.free {
		if s == slot {
			r.free = append(r.free[:i], r.free[i+1:]...)
			return
		}
	}
}

// Get returns the unit behind a handle, or nil if the slot was purged or reused
func (r *Registry) Get(h Handle) *Unit {
	if h.IsZero() || h.Slot < 0 || h.Slot >= len(r.slots) {
		return nil
	}
	u := r.slots[h.Slot]
	if u == nil || u.handle.Serial != h.Serial {
		return nil
	}
	return u
}

// Resolve looks up a save reference
func (r *Registry) Resolve(ref string) (*Unit, error) {
	slot, err := ParseRef(ref)
	if err != nil {
		return nil, err
	}
	if slot >= len(r.slots) || r.slots[slot] == nil {
		return nil, shared.NewUnresolvedReferenceError(ref)
	}
	return r.slots[slot], nil
}

// Purge frees the slot of a unit
func (r *Registry) Purge(u *Unit) {
	slot := u.handle.Slot
	if slot < 0 || slot >= len(r.slots) || r.slots[slot] != u {
		return
	}
	r.slots[slot] = nil
	r.free = append(r.free, slot)
	slices.Sort(r.free)
}

// PurgeDestroyed frees every destroyed unit no order still references and
// returns how many slots were released
func (r *Registry) PurgeDestroyed() int {
	n := 0
	for _, u := range r.slots {
		if u != nil && u.Destroyed && u.refs == 0 {
			r.Purge(u)
			n++
		}
	}
	return n
}

// Units returns every registered unit in slot order
func (r *Registry) Units() []*Unit {
	out := make([]*Unit, 0, len(r.slots))
	for _, u := range r.slots {
		if u != nil {
			out = append(out, u)
		}
	}
	return out
}

// Len returns the number of registered units
func (r *Registry) Len() int {
	n := 0
	for _, u := range r.slots {
		if u != nil {
			n++
		}
	}
	return n
}
