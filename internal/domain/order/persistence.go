package order

import (
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
)

// Orders are saved as flat key/value sequences headed by their action tag:
//
//	["action-repair", "finished", "range", 1, "goal", "U0003", "tile", [4, 5], ...]
//
// A key may carry no value ("finished") or one value, which can itself be a
// nested sequence.

// Saver is implemented by orders that can be written to a save
type Saver interface {
	Save(w *RecordWriter)
}

// DecodeOptions control how references in a record are resolved
type DecodeOptions struct {
	// Units resolves goal references. Required.
	Units unit.Resolver
	// Strict fails the load on goal references that no longer resolve.
	// Otherwise the goal is dropped and the saved tile becomes the destination.
	Strict bool
}

type decodable interface {
	Executable
	base() *Base
	parseSpecific(key string, r *RecordReader) (bool, error)
	validateLoaded() error
}

var factories = map[string]func() decodable{
	ActionRepair: func() decodable { return &Repair{} },
}

// Encode writes an order record
func Encode(o unit.Order) (*yaml.Node, error) {
	s, ok := o.(Saver)
	if !ok {
		return nil, fmt.Errorf("order %s cannot be saved", o.Action())
	}
	w := NewRecordWriter(o.Action())
	s.Save(w)
	return w.Node(), nil
}

// Decode reads an order record. Unknown actions and unknown keys are parse errors.
func Decode(n *yaml.Node, opts DecodeOptions) (Executable, error) {
	r, err := OpenRecord(n)
	if err != nil {
		return nil, err
	}
	factory, ok := factories[r.Tag()]
	if !ok {
		return nil, shared.NewParseError(r.Tag(), "", "unknown order action")
	}

	o := factory()
	if err := decodeFields(o, r, opts); err != nil {
		o.base().dropLoadedGoal(opts.Units)
		return nil, err
	}
	return o, nil
}

func decodeFields(o decodable, r *RecordReader, opts DecodeOptions) error {
	for r.More() {
		key, err := r.Key()
		if err != nil {
			return err
		}
		handled, err := o.base().parseGeneric(key, r, opts)
		if err != nil {
			return err
		}
		if handled {
			continue
		}
		handled, err = o.parseSpecific(key, r)
		if err != nil {
			return err
		}
		if !handled {
			return shared.NewParseError(r.Tag(), key, "unsupported tag")
		}
	}
	return o.validateLoaded()
}

// dropLoadedGoal undoes the retain of a record that failed to load
func (b *Base) dropLoadedGoal(units unit.Resolver) {
	if !b.HasGoal() || units == nil {
		return
	}
	if g, err := units.Resolve(b.goal.Ref()); err == nil && g.Handle() == b.goal {
		g.Release()
	}
	b.goal = unit.Handle{}
}

func (b *Base) base() *Base {
	return b
}

// saveGeneric writes the fields every goal-directed order carries
func (b *Base) saveGeneric(w *RecordWriter) {
	if b.finished {
		w.Flag("finished")
	}
	w.Int("range", b.rng)
	if b.HasGoal() {
		// a destroyed but unpurged goal is still written; loading it falls
		// back to the tile, see DecodeOptions.Strict
		w.String("goal", b.goal.Ref())
	}
	w.Tile("tile", b.goalPos)
}

func (b *Base) parseGeneric(key string, r *RecordReader, opts DecodeOptions) (bool, error) {
	switch key {
	case "finished":
		b.finished = true
	case "range":
		v, err := r.Int(key)
		if err != nil {
			return false, err
		}
		b.rng = v
	case "goal":
		ref, err := r.String(key)
		if err != nil {
			return false, err
		}
		if err := b.resolveGoal(ref, r.Tag(), opts); err != nil {
			return false, err
		}
	case "tile":
		t, err := r.Tile(key)
		if err != nil {
			return false, err
		}
		b.goalPos = t
	default:
		return false, nil
	}
	return true, nil
}

func (b *Base) resolveGoal(ref, tag string, opts DecodeOptions) error {
	if opts.Units == nil {
		return shared.NewParseError(tag, "goal", "no unit resolver")
	}
	if b.HasGoal() {
		return shared.NewParseError(tag, "goal", "duplicate goal")
	}
	g, err := opts.Units.Resolve(ref)
	if err != nil {
		var unresolved *shared.UnresolvedReferenceError
		if errors.As(err, &unresolved) && !opts.Strict {
			b.goal = unit.Handle{}
			return nil
		}
		return fmt.Errorf("%s: goal: %w", tag, err)
	}
	g.Retain()
	b.goal = g.Handle()
	return nil
}

// saveMoveData writes the movement state as a nested record
func (b *Base) saveMoveData(w *RecordWriter) {
	inner := NewRecordWriter("")
	if b.Move.Fast {
		inner.Flag("fast")
	}
	steps := make([]int, len(b.Move.Steps))
	for i, d := range b.Move.Steps {
		steps[i] = int(d)
	}
	inner.Ints("path", steps)
	w.Nested("data-move", inner)
}

// parseMoveData reads the nested movement record
func (b *Base) parseMoveData(key string, r *RecordReader) (bool, error) {
	if key != "data-move" {
		return false, nil
	}
	n, err := r.Value(key)
	if err != nil {
		return false, err
	}
	inner, err := openUntagged(n, r.Tag()+"/data-move")
	if err != nil {
		return false, err
	}
	b.Move = PathData{}
	for inner.More() {
		k, err := inner.Key()
		if err != nil {
			return false, err
		}
		switch k {
		case "fast":
			b.Move.Fast = true
		case "path":
			steps, err := inner.Ints(k)
			if err != nil {
				return false, err
			}
			for _, s := range steps {
				d := Direction(s)
				if !d.IsValid() {
					return false, shared.NewParseError(inner.Tag(), k, fmt.Sprintf("invalid direction %d", s))
				}
				b.Move.Steps = append(b.Move.Steps, d)
			}
		default:
			return false, shared.NewParseError(inner.Tag(), k, "unsupported tag")
		}
	}
	return true, nil
}

// RecordWriter builds an order record
type RecordWriter struct {
	seq *yaml.Node
}

// NewRecordWriter starts a record; an empty tag starts an untagged nested record
func NewRecordWriter(tag string) *RecordWriter {
	w := &RecordWriter{seq: &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}}
	if tag != "" {
		w.seq.Content = append(w.seq.Content, strNode(tag))
	}
	return w
}

// Node returns the built sequence
func (w *RecordWriter) Node() *yaml.Node {
	return w.seq
}

// Flag writes a key without a value
func (w *RecordWriter) Flag(key string) {
	w.seq.Content = append(w.seq.Content, strNode(key))
}

// Int writes an integer field
func (w *RecordWriter) Int(key string, v int) {
	w.seq.Content = append(w.seq.Content, strNode(key), intNode(v))
}

// String writes a string field
func (w *RecordWriter) String(key, v string) {
	w.seq.Content = append(w.seq.Content, strNode(key), strNode(v))
}

// Tile writes a tile as [x, y]
func (w *RecordWriter) Tile(key string, t shared.TilePos) {
	w.Ints(key, []int{t.X, t.Y})
}

// Ints writes an integer list
func (w *RecordWriter) Ints(key string, vs []int) {
	list := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range vs {
		list.Content = append(list.Content, intNode(v))
	}
	w.seq.Content = append(w.seq.Content, strNode(key), list)
}

// Nested writes a sub-record
func (w *RecordWriter) Nested(key string, inner *RecordWriter) {
	w.seq.Content = append(w.seq.Content, strNode(key), inner.Node())
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.DoubleQuotedStyle}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

// RecordReader walks an order record key by key
type RecordReader struct {
	tag   string
	items []*yaml.Node
	pos   int
}

// OpenRecord checks that n is a tagged record and positions after the tag
func OpenRecord(n *yaml.Node) (*RecordReader, error) {
	if n != nil && n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n == nil || n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, shared.NewParseError("order", "", "record must be a non-empty sequence")
	}
	head := n.Content[0]
	if head.Kind != yaml.ScalarNode || head.Tag == "!!int" {
		return nil, shared.NewParseError("order", "", "record must start with an action tag")
	}
	return &RecordReader{tag: head.Value, items: n.Content, pos: 1}, nil
}

func openUntagged(n *yaml.Node, name string) (*RecordReader, error) {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, shared.NewParseError(name, "", "must be a sequence")
	}
	return &RecordReader{tag: name, items: n.Content}, nil
}

// Tag returns the record action tag
func (r *RecordReader) Tag() string {
	return r.tag
}

// More returns true while keys remain
func (r *RecordReader) More() bool {
	return r.pos < len(r.items)
}

// Key reads the next key
func (r *RecordReader) Key() (string, error) {
	n := r.items[r.pos]
	r.pos++
	if n.Kind != yaml.ScalarNode || n.Tag == "!!int" {
		return "", shared.NewParseError(r.tag, "", fmt.Sprintf("expected key at position %d", r.pos-1))
	}
	return n.Value, nil
}

// Value reads the raw value that follows key
func (r *RecordReader) Value(key string) (*yaml.Node, error) {
	if !r.More() {
		return nil, shared.NewParseError(r.tag, key, "missing value")
	}
	n := r.items[r.pos]
	r.pos++
	return n, nil
}

// Int reads an integer value
func (r *RecordReader) Int(key string) (int, error) {
	n, err := r.Value(key)
	if err != nil {
		return 0, err
	}
	return scalarInt(r.tag, key, n)
}

// String reads a string value
func (r *RecordReader) String(key string) (string, error) {
	n, err := r.Value(key)
	if err != nil {
		return "", err
	}
	if n.Kind != yaml.ScalarNode {
		return "", shared.NewParseError(r.tag, key, "expected string")
	}
	return n.Value, nil
}

// Ints reads an integer list
func (r *RecordReader) Ints(key string) ([]int, error) {
	n, err := r.Value(key)
	if err != nil {
		return nil, err
	}
	if n.Kind != yaml.SequenceNode {
		return nil, shared.NewParseError(r.tag, key, "expected list")
	}
	out := make([]int, 0, len(n.Content))
	for _, c := range n.Content {
		v, err := scalarInt(r.tag, key, c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Tile reads an [x, y] pair
func (r *RecordReader) Tile(key string) (shared.TilePos, error) {
	vs, err := r.Ints(key)
	if err != nil {
		return shared.TilePos{}, err
	}
	if len(vs) != 2 {
		return shared.TilePos{}, shared.NewParseError(r.tag, key, "tile needs two coordinates")
	}
	return shared.NewTilePos(vs[0], vs[1]), nil
}

func scalarInt(tag, key string, n *yaml.Node) (int, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, shared.NewParseError(tag, key, "expected integer")
	}
	v, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, shared.NewParseError(tag, key, fmt.Sprintf("expected integer, got %q", n.Value))
	}
	return v, nil
}
