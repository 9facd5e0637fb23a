package order

import (
	"fmt"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
)

// Save implements Saver
func (o *Repair) Save(w *RecordWriter) {
	o.saveGeneric(w)
	w.Int("repaircycle", o.repairCycle)
	w.Int("state", int(o.state))
	o.saveMoveData(w)
}

func (o *Repair) parseSpecific(key string, r *RecordReader) (bool, error) {
	if handled, err := o.parseMoveData(key, r); handled || err != nil {
		return handled, err
	}
	switch key {
	case "repaircycle":
		v, err := r.Int(key)
		if err != nil {
			return false, err
		}
		o.repairCycle = v
	case "state":
		v, err := r.Int(key)
		if err != nil {
			return false, err
		}
		s := RepairState(v)
		if !s.IsValid() {
			return false, shared.NewParseError(ActionRepair, key, fmt.Sprintf("invalid state %d", v))
		}
		o.state = s
	default:
		return false, nil
	}
	return true, nil
}

func (o *Repair) validateLoaded() error {
	if o.repairCycle < 0 {
		return shared.NewParseError(ActionRepair, "repaircycle", "cannot be negative")
	}
	if o.rng < 0 {
		return shared.NewParseError(ActionRepair, "range", "cannot be negative")
	}
	return nil
}
