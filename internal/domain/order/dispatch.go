package order

import "github.com/andrescamacho/skirmish-go/internal/domain/unit"

// Tick runs one frame of u's current order and retires it once finished.
// Orders the dispatcher cannot drive are dropped.
func Tick(env *Env, u *unit.Unit) {
	current := u.CurrentOrder()
	if current == nil {
		return
	}
	ex, ok := current.(Executable)
	if !ok {
		u.PopOrder()
		return
	}

	if !ex.IsFinished() {
		ex.Execute(env, u)
	}
	if ex.IsFinished() {
		ex.Release(env.Units)
		u.PopOrder()
	}
}

// Replace supersedes every queued order of u with o
func Replace(env *Env, u *unit.Unit, o Executable) {
	Clear(env, u)
	u.PushOrder(o)
}

// Clear drops every queued order of u, as when u dies
func Clear(env *Env, u *unit.Unit) {
	for _, queued := range u.Orders {
		if ex, ok := queued.(Executable); ok {
			ex.Release(env.Units)
		}
	}
	u.Orders = nil
}
