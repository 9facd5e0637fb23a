package savegame

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/internal/domain/world"
)

// LoadOptions control how a save is rebuilt
type LoadOptions struct {
	// StrictRefs fails the load on order goals that no longer resolve
	StrictRefs bool
}

// Marshal writes a game as a YAML save
func Marshal(g *game.Game, session string) ([]byte, error) {
	f, err := Encode(g, session)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("failed to encode save: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode save: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses a YAML save or scenario and rebuilds the game
func Unmarshal(data []byte, opts LoadOptions) (*game.Game, *File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse save: %w", err)
	}
	g, err := Decode(&f, opts)
	if err != nil {
		return nil, nil, err
	}
	return g, &f, nil
}

// Encode converts a game into its save document. Everything is written in
// slot, id or ident order so equal games encode to equal bytes.
func Encode(g *game.Game, session string) (*File, error) {
	f := &File{
		Version: FormatVersion,
		Session: session,
		Tick:    g.Tick,
		Map: MapSpec{
			Width:  g.Map.Width(),
			Height: g.Map.Height(),
		},
	}
	for _, t := range g.Map.BlockedTiles() {
		f.Map.Blocked = append(f.Map.Blocked, [2]int{t.X, t.Y})
	}

	for _, p := range g.Players() {
		f.Players = append(f.Players, PlayerSpec{
			ID:        p.ID.Value(),
			Name:      p.Name,
			AI:        p.AIEnabled,
			Resources: p.Resources.Stocks().ToMap(),
			Sequence:  p.Resources.Sequence(),
		})
	}

	for _, t := range g.Types() {
		f.UnitTypes = append(f.UnitTypes, encodeType(t))
	}

	for _, u := range g.Units.Units() {
		spec, err := encodeUnit(u)
		if err != nil {
			return nil, err
		}
		f.Units = append(f.Units, spec)
	}
	return f, nil
}

func encodeType(t *unit.Type) UnitTypeSpec {
	spec := UnitTypeSpec{
		Ident:           t.Ident,
		Name:            t.Name,
		MaxHP:           t.MaxHP,
		TileSize:        [2]int{t.TileWidth, t.TileHeight},
		SightRange:      t.SightRange,
		MoveTicks:       t.MoveTicks,
		RepairRange:     t.RepairRange,
		RepairHP:        t.RepairHP,
		RepairCosts:     t.RepairCosts.ToMap(),
		BuildCosts:      t.BuildCosts.ToMap(),
		Building:        t.Building,
		VisibleUnderFog: t.VisibleUnderFog,
	}
	if a := t.RepairAnimation; a != nil {
		anim := &AnimationSpec{Name: a.Name}
		for _, fr := range a.Frames {
			anim.Frames = append(anim.Frames, formatFrame(fr))
		}
		spec.RepairAnimation = anim
	}
	return spec
}

func encodeUnit(u *unit.Unit) (UnitSpec, error) {
	spec := UnitSpec{
		Ref:       u.Ref(),
		Type:      u.Type.Ident,
		Player:    u.Player.ID.Value(),
		Tile:      [2]int{u.Tile.X, u.Tile.Y},
		HP:        u.HP,
		Heading:   int(u.Heading),
		State:     u.State,
		MoveWait:  u.MoveWait,
		Destroyed: u.Destroyed,
		Removed:   u.Removed,
		SeenBy:    u.SeenBy,
	}
	if u.Anim != (unit.AnimState{}) {
		spec.Anim = &AnimSpec{
			Current:     u.Anim.Current,
			Frame:       u.Anim.Frame,
			Wait:        u.Anim.Wait,
			Sprite:      u.Anim.Sprite,
			Unbreakable: u.Anim.Unbreakable,
		}
	}
	if u.Construction != nil {
		progress := u.Construction.Progress
		spec.Construction = &progress
	}
	for _, o := range u.Orders {
		n, err := order.Encode(o)
		if err != nil {
			return UnitSpec{}, fmt.Errorf("unit %s: %w", u.Ref(), err)
		}
		spec.Orders = append(spec.Orders, *n)
	}
	return spec, nil
}

// Decode rebuilds a game from a save document. Units with refs keep their
// slots; units without take the lowest free slots in listed order. Orders are
// decoded once every unit is placed so goal refs resolve regardless of order.
func Decode(f *File, opts LoadOptions) (*game.Game, error) {
	if f.Version != 0 && f.Version != FormatVersion {
		return nil, shared.NewParseError("save", "version", fmt.Sprintf("unsupported version %d", f.Version))
	}
	m, err := world.NewMap(f.Map.Width, f.Map.Height)
	if err != nil {
		return nil, err
	}
	for _, b := range f.Map.Blocked {
		m.Block(shared.NewTilePos(b[0], b[1]))
	}

	g := game.New(m)
	g.Tick = f.Tick

	for _, ps := range f.Players {
		p, err := decodePlayer(ps)
		if err != nil {
			return nil, err
		}
		if err := g.AddPlayer(p); err != nil {
			return nil, err
		}
	}

	for _, ts := range f.UnitTypes {
		t, err := decodeType(ts)
		if err != nil {
			return nil, err
		}
		if err := g.AddType(t); err != nil {
			return nil, err
		}
	}

	placed := make([]*unit.Unit, len(f.Units))
	for pass := 0; pass < 2; pass++ {
		for i, us := range f.Units {
			withRef := us.Ref != ""
			if (pass == 0) != withRef {
				continue
			}
			u, err := decodeUnit(g, us)
			if err != nil {
				return nil, err
			}
			if withRef {
				slot, err := unit.ParseRef(us.Ref)
				if err != nil {
					return nil, shared.NewParseError("unit", "ref", err.Error())
				}
				if _, err := g.Units.Place(slot, u); err != nil {
					return nil, err
				}
			} else {
				g.Units.Add(u)
			}
			placed[i] = u
		}
	}

	decodeOpts := order.DecodeOptions{Units: g.Units, Strict: opts.StrictRefs}
	for i, us := range f.Units {
		u := placed[i]
		for j := range us.Orders {
			o, err := order.Decode(&us.Orders[j], decodeOpts)
			if err != nil {
				return nil, fmt.Errorf("unit %s order %d: %w", u.Ref(), j, err)
			}
			u.PushOrder(o)
		}
		if us.Repair != "" {
			goal, err := g.Units.Resolve(us.Repair)
			if err != nil {
				return nil, fmt.Errorf("unit %s repair: %w", u.Ref(), err)
			}
			u.PushOrder(order.NewRepair(g.Units, u, goal))
		}
	}
	return g, nil
}

func decodePlayer(ps PlayerSpec) (*player.Player, error) {
	id, err := shared.NewPlayerID(ps.ID)
	if err != nil {
		return nil, shared.NewValidationError("player_id", err.Error())
	}
	stock, err := resource.FromMap(ps.Resources)
	if err != nil {
		return nil, shared.NewParseError("player "+ps.Name, "resources", err.Error())
	}
	for _, k := range resource.Spendable() {
		if stock[k] < 0 {
			return nil, shared.NewValidationError("resources", fmt.Sprintf("%s stock cannot be negative", k))
		}
	}
	p := player.NewPlayer(id, ps.Name, ps.AI, resource.Costs{})
	p.Resources.RestoreForLoad(stock, ps.Sequence)
	return p, nil
}

func decodeType(ts UnitTypeSpec) (*unit.Type, error) {
	repairCosts, err := resource.FromMap(ts.RepairCosts)
	if err != nil {
		return nil, shared.NewParseError("type "+ts.Ident, "repair_costs", err.Error())
	}
	buildCosts, err := resource.FromMap(ts.BuildCosts)
	if err != nil {
		return nil, shared.NewParseError("type "+ts.Ident, "build_costs", err.Error())
	}
	t := &unit.Type{
		Ident:           ts.Ident,
		Name:            ts.Name,
		MaxHP:           ts.MaxHP,
		TileWidth:       ts.TileSize[0],
		TileHeight:      ts.TileSize[1],
		SightRange:      ts.SightRange,
		MoveTicks:       ts.MoveTicks,
		RepairRange:     ts.RepairRange,
		RepairHP:        ts.RepairHP,
		RepairCosts:     repairCosts,
		BuildCosts:      buildCosts,
		Building:        ts.Building,
		VisibleUnderFog: ts.VisibleUnderFog,
	}
	if a := ts.RepairAnimation; a != nil {
		anim := &unit.Animation{Name: a.Name}
		for _, s := range a.Frames {
			fr, err := parseFrame(s)
			if err != nil {
				return nil, shared.NewParseError("type "+ts.Ident, "repair_animation", err.Error())
			}
			anim.Frames = append(anim.Frames, fr)
		}
		t.RepairAnimation = anim
	}
	return t, nil
}

func decodeUnit(g *game.Game, us UnitSpec) (*unit.Unit, error) {
	t := g.Type(us.Type)
	if t == nil {
		return nil, shared.NewInvalidUnitDataError(us.Ref, fmt.Sprintf("unknown unit type %q", us.Type))
	}
	id, err := shared.NewPlayerID(us.Player)
	if err != nil {
		return nil, shared.NewInvalidUnitDataError(us.Ref, err.Error())
	}
	owner := g.Player(id)
	if owner == nil {
		return nil, shared.NewInvalidUnitDataError(us.Ref, fmt.Sprintf("unknown player %d", us.Player))
	}

	u, err := unit.New(t, owner, shared.NewTilePos(us.Tile[0], us.Tile[1]), us.HP)
	if err != nil {
		return nil, err
	}
	u.Heading = shared.Heading(us.Heading)
	u.State = us.State
	u.MoveWait = us.MoveWait
	u.Destroyed = us.Destroyed
	u.Removed = us.Removed
	u.SeenBy = us.SeenBy
	if a := us.Anim; a != nil {
		u.Anim = unit.AnimState{
			Current:     a.Current,
			Frame:       a.Frame,
			Wait:        a.Wait,
			Sprite:      a.Sprite,
			Unbreakable: a.Unbreakable,
		}
	}
	if us.Construction != nil {
		u.Construction = &unit.Construction{Progress: *us.Construction}
	}
	return u, nil
}

func formatFrame(f unit.Frame) string {
	switch f.Op {
	case unit.OpFrame, unit.OpWait:
		return string(f.Op) + " " + strconv.Itoa(f.Arg)
	default:
		return string(f.Op)
	}
}

func parseFrame(s string) (unit.Frame, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return unit.Frame{}, fmt.Errorf("empty frame")
	}
	op, ok := unit.ParseFrameOp(fields[0])
	if !ok {
		return unit.Frame{}, fmt.Errorf("unknown frame op %q", fields[0])
	}
	f := unit.Frame{Op: op}
	switch op {
	case unit.OpFrame, unit.OpWait:
		if len(fields) != 2 {
			return unit.Frame{}, fmt.Errorf("%s needs one argument", op)
		}
		arg, err := strconv.Atoi(fields[1])
		if err != nil {
			return unit.Frame{}, fmt.Errorf("%s argument: %w", op, err)
		}
		f.Arg = arg
	default:
		if len(fields) != 1 {
			return unit.Frame{}, fmt.Errorf("%s takes no argument", op)
		}
	}
	return f, nil
}
