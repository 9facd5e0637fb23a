package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"go.uber.org/zap"

	"github.com/andrescamacho/skirmish-go/internal/adapters/notify"
	"github.com/andrescamacho/skirmish-go/internal/adapters/routing"
	"github.com/andrescamacho/skirmish-go/internal/adapters/savegame"
	"github.com/andrescamacho/skirmish-go/internal/application/simulation"
	"github.com/andrescamacho/skirmish-go/internal/domain/game"
	"github.com/andrescamacho/skirmish-go/internal/domain/order"
	"github.com/andrescamacho/skirmish-go/internal/domain/player"
	"github.com/andrescamacho/skirmish-go/internal/domain/resource"
	"github.com/andrescamacho/skirmish-go/internal/domain/shared"
	"github.com/andrescamacho/skirmish-go/internal/domain/unit"
	"github.com/andrescamacho/skirmish-go/internal/domain/world"
)

// maxApproachFrames bounds the "frames pass until" steps
const maxApproachFrames = 200

type repairOrderContext struct {
	game     *game.Game
	sim      *simulation.Simulation
	notifier *notify.ZapNotifier
	finished map[string]order.FinishReason

	players map[string]*player.Player
	// refs maps scenario names to unit references, which survive a reload
	refs   map[string]string
	orders map[string]*order.Repair
}

func (c *repairOrderContext) reset() {
	c.game = nil
	c.sim = nil
	c.notifier = notify.NewZapNotifier(zap.NewNop(), 0)
	c.finished = make(map[string]order.FinishReason)
	c.players = make(map[string]*player.Player)
	c.refs = make(map[string]string)
	c.orders = make(map[string]*order.Repair)
}

// RepairStep implements order.Observer
func (c *repairOrderContext) RepairStep(u, goal *unit.Unit, hpRestored int, costs resource.Costs) {}

// OrderFinished implements order.Observer
func (c *repairOrderContext) OrderFinished(u *unit.Unit, action string, reason order.FinishReason) {
	c.finished[u.Ref()] = reason
}

// getCellValue returns the cell of row under the named header column
func getCellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == column {
			return row.Cells[i].Value
		}
	}
	return ""
}

func cellInt(table *godog.Table, row *messages.PickleTableRow, column string) (int, error) {
	raw := getCellValue(table, row, column)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", column, raw)
	}
	return v, nil
}

func (c *repairOrderContext) aMapOfTiles(width, height int) error {
	m, err := world.NewMap(width, height)
	if err != nil {
		return err
	}
	c.game = game.New(m)
	return nil
}

func (c *repairOrderContext) theFollowingPlayers(table *godog.Table) error {
	for i, row := range table.Rows[1:] {
		gold, err := cellInt(table, row, "gold")
		if err != nil {
			return err
		}
		wood, err := cellInt(table, row, "wood")
		if err != nil {
			return err
		}
		var opening resource.Costs
		opening[resource.Gold] = gold
		opening[resource.Wood] = wood

		name := getCellValue(table, row, "name")
		p := player.NewPlayer(shared.MustNewPlayerID(i), name, getCellValue(table, row, "ai") == "true", opening)
		if err := c.game.AddPlayer(p); err != nil {
			return err
		}
		c.players[name] = p
	}
	return nil
}

func (c *repairOrderContext) theFollowingUnitTypes(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		t := &unit.Type{
			Ident:      getCellValue(table, row, "ident"),
			TileWidth:  1,
			TileHeight: 1,
			Building:   getCellValue(table, row, "building") == "true",
		}
		t.VisibleUnderFog = t.Building

		fields := []struct {
			column string
			dst    *int
		}{
			{"max_hp", &t.MaxHP},
			{"sight", &t.SightRange},
			{"move_ticks", &t.MoveTicks},
			{"repair_range", &t.RepairRange},
			{"repair_hp", &t.RepairHP},
			{"repair_gold", &t.RepairCosts[resource.Gold]},
			{"repair_wood", &t.RepairCosts[resource.Wood]},
		}
		for _, f := range fields {
			v, err := cellInt(table, row, f.column)
			if err != nil {
				return err
			}
			*f.dst = v
		}

		if err := c.game.AddType(t); err != nil {
			return err
		}
	}
	return nil
}

func (c *repairOrderContext) buildTakesTimeUnits(ident string, units int) error {
	t := c.game.Type(ident)
	if t == nil {
		return fmt.Errorf("unknown unit type %s", ident)
	}
	t.BuildCosts[resource.Time] = units
	return nil
}

func (c *repairOrderContext) repairsWithAnimation(ident string, table *godog.Table) error {
	t := c.game.Type(ident)
	if t == nil {
		return fmt.Errorf("unknown unit type %s", ident)
	}
	anim := &unit.Animation{Name: ident + "-repair"}
	for _, row := range table.Rows[1:] {
		parts := strings.Fields(getCellValue(table, row, "op"))
		if len(parts) == 0 {
			return fmt.Errorf("empty animation op")
		}
		op, ok := unit.ParseFrameOp(parts[0])
		if !ok {
			return fmt.Errorf("unknown animation op %s", parts[0])
		}
		frame := unit.Frame{Op: op}
		if len(parts) > 1 {
			arg, err := strconv.Atoi(parts[1])
			if err != nil {
				return err
			}
			frame.Arg = arg
		}
		anim.Frames = append(anim.Frames, frame)
	}
	t.RepairAnimation = anim
	return nil
}

func (c *repairOrderContext) playerHasGold(name string, gold int) error {
	p, ok := c.players[name]
	if !ok {
		return fmt.Errorf("unknown player %s", name)
	}
	stock := p.Resources.Stocks()
	stock[resource.Gold] = gold
	p.Resources.RestoreForLoad(stock, p.Resources.Sequence())
	return nil
}

func (c *repairOrderContext) aUnitNamed(ident, name, owner string, x, y, hp int) error {
	t := c.game.Type(ident)
	if t == nil {
		return fmt.Errorf("unknown unit type %s", ident)
	}
	p, ok := c.players[owner]
	if !ok {
		return fmt.Errorf("unknown player %s", owner)
	}
	u, err := unit.New(t, p, shared.NewTilePos(x, y), hp)
	if err != nil {
		return err
	}
	c.game.Units.Add(u)
	c.refs[name] = u.Ref()
	return nil
}

func (c *repairOrderContext) isUnderConstruction(name string, progress int) error {
	u, err := c.lookupUnit(name)
	if err != nil {
		return err
	}
	u.Construction = &unit.Construction{Progress: progress}
	return nil
}

func (c *repairOrderContext) lookupUnit(name string) (*unit.Unit, error) {
	ref, ok := c.refs[name]
	if !ok {
		return nil, fmt.Errorf("unknown unit %s", name)
	}
	return c.game.Units.Resolve(ref)
}

func (c *repairOrderContext) repairOrder(name string) (*order.Repair, error) {
	o, ok := c.orders[name]
	if !ok {
		return nil, fmt.Errorf("%s was never ordered to repair", name)
	}
	return o, nil
}

func (c *repairOrderContext) ensureSimulation() (*simulation.Simulation, error) {
	if c.sim != nil {
		return c.sim, nil
	}
	sim, err := simulation.New(c.game, simulation.Options{
		Mover:    routing.NewGridMover(c.game.Map, c.game.Units, 0),
		Notifier: c.notifier,
		Observer: c,
	})
	if err != nil {
		return nil, err
	}
	c.sim = sim
	return sim, nil
}

func (c *repairOrderContext) isOrderedToRepair(workerName, targetName string) error {
	sim, err := c.ensureSimulation()
	if err != nil {
		return err
	}
	worker, err := c.lookupUnit(workerName)
	if err != nil {
		return err
	}
	target, err := c.lookupUnit(targetName)
	if err != nil {
		return err
	}
	o, err := sim.IssueRepair(worker, target)
	if err != nil {
		return err
	}
	c.orders[workerName] = o
	return nil
}

func (c *repairOrderContext) framesPass(n int) error {
	sim, err := c.ensureSimulation()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		sim.Step()
	}
	return nil
}

func (c *repairOrderContext) framesPassUntil(name string, done func(*order.Repair) bool) error {
	o, err := c.repairOrder(name)
	if err != nil {
		return err
	}
	for i := 0; i < maxApproachFrames; i++ {
		if done(o) {
			return nil
		}
		if err := c.framesPass(1); err != nil {
			return err
		}
	}
	return fmt.Errorf("order of %s did not get there within %d frames", name, maxApproachFrames)
}

func (c *repairOrderContext) framesPassUntilRepairing(name string) error {
	return c.framesPassUntil(name, func(o *order.Repair) bool {
		return o.State() == order.RepairRepairing
	})
}

func (c *repairOrderContext) framesPassUntilFinished(name string) error {
	return c.framesPassUntil(name, func(o *order.Repair) bool {
		return o.IsFinished()
	})
}

func (c *repairOrderContext) isDestroyed(name string) error {
	u, err := c.lookupUnit(name)
	if err != nil {
		return err
	}
	u.Damage(u.HP)
	if !u.Destroyed {
		return fmt.Errorf("%s survived", name)
	}
	return nil
}

func (c *repairOrderContext) isMovedTo(name string, x, y int) error {
	u, err := c.lookupUnit(name)
	if err != nil {
		return err
	}
	u.Tile = shared.NewTilePos(x, y)
	return nil
}

// theGameIsSavedAndLoaded round-trips the whole game through the save codec
// and continues with the decoded copy
func (c *repairOrderContext) theGameIsSavedAndLoaded() error {
	data, err := savegame.Marshal(c.game, "bdd")
	if err != nil {
		return err
	}
	g, _, err := savegame.Unmarshal(data, savegame.LoadOptions{StrictRefs: true})
	if err != nil {
		return err
	}

	c.game = g
	c.sim = nil
	for _, p := range g.Players() {
		c.players[p.Name] = p
	}
	for name := range c.orders {
		u, err := c.lookupUnit(name)
		if err != nil {
			return err
		}
		o, ok := u.CurrentOrder().(*order.Repair)
		if !ok {
			return fmt.Errorf("%s lost its repair order in the save", name)
		}
		c.orders[name] = o
	}
	_, err = c.ensureSimulation()
	return err
}

func (c *repairOrderContext) shouldHaveHP(name string, hp int) error {
	u, err := c.lookupUnit(name)
	if err != nil {
		return err
	}
	if u.HP != hp {
		return fmt.Errorf("expected %s to have %d hp, got %d", name, hp, u.HP)
	}
	return nil
}

func (c *repairOrderContext) repairCycleShouldBe(name string, cycle int) error {
	o, err := c.repairOrder(name)
	if err != nil {
		return err
	}
	if o.RepairCycle() != cycle {
		return fmt.Errorf("expected repair cycle %d, got %d", cycle, o.RepairCycle())
	}
	return nil
}

func (c *repairOrderContext) orderShouldBeInState(name, state string) error {
	o, err := c.repairOrder(name)
	if err != nil {
		return err
	}
	if o.State().String() != state {
		return fmt.Errorf("expected state %s, got %s", state, o.State())
	}
	return nil
}

func (c *repairOrderContext) orderShouldBeApproaching(name string) error {
	return c.orderShouldBeInState(name, order.RepairApproaching.String())
}

func (c *repairOrderContext) orderShouldBeFinishedWithReason(name, reason string) error {
	o, err := c.repairOrder(name)
	if err != nil {
		return err
	}
	if !o.IsFinished() {
		return fmt.Errorf("order of %s is still %s", name, o.State())
	}
	got := c.finished[c.refs[name]]
	if string(got) != reason {
		return fmt.Errorf("expected finish reason %s, got %q", reason, got)
	}
	return nil
}

func (c *repairOrderContext) orderShouldNotBeFinished(name string) error {
	o, err := c.repairOrder(name)
	if err != nil {
		return err
	}
	if o.IsFinished() {
		return fmt.Errorf("order of %s finished with %s", name, c.finished[c.refs[name]])
	}
	return nil
}

func (c *repairOrderContext) orderShouldHaveNoGoal(name string) error {
	o, err := c.repairOrder(name)
	if err != nil {
		return err
	}
	if o.HasGoal() {
		return fmt.Errorf("order of %s still holds goal %s", name, o.GoalHandle().Ref())
	}
	return nil
}

func (c *repairOrderContext) orderShouldHeadTo(name string, x, y int) error {
	o, err := c.repairOrder(name)
	if err != nil {
		return err
	}
	want := shared.NewTilePos(x, y)
	if o.GoalPos() != want {
		return fmt.Errorf("expected order of %s to head to %s, got %s", name, want, o.GoalPos())
	}
	return nil
}

func (c *repairOrderContext) orderShouldRequestFreshPath(name string) error {
	o, err := c.repairOrder(name)
	if err != nil {
		return err
	}
	if !o.Move.Fast {
		return fmt.Errorf("order of %s kept a stale path", name)
	}
	return nil
}

func (c *repairOrderContext) playerShouldHaveGoldAndWood(name string, gold, wood int) error {
	p, ok := c.players[name]
	if !ok {
		return fmt.Errorf("unknown player %s", name)
	}
	if got := p.Resources.Stock(resource.Gold); got != gold {
		return fmt.Errorf("expected %s to have %d gold, got %d", name, gold, got)
	}
	if got := p.Resources.Stock(resource.Wood); got != wood {
		return fmt.Errorf("expected %s to have %d wood, got %d", name, wood, got)
	}
	return nil
}

func (c *repairOrderContext) journalShouldHold(name string, count int) error {
	p, ok := c.players[name]
	if !ok {
		return fmt.Errorf("unknown player %s", name)
	}
	if got := len(p.Resources.Journal()); got != count {
		return fmt.Errorf("expected %d journal entries for %s, got %d", count, name, got)
	}
	return nil
}

func (c *repairOrderContext) shouldHaveReceivedNotifications(name string, count int) error {
	p, ok := c.players[name]
	if !ok {
		return fmt.Errorf("unknown player %s", name)
	}
	if got := len(c.notifier.Inbox(p.ID)); got != count {
		return fmt.Errorf("expected %d notifications for %s, got %d", count, name, got)
	}
	return nil
}

func (c *repairOrderContext) lastNotificationShouldContain(name, text string) error {
	p, ok := c.players[name]
	if !ok {
		return fmt.Errorf("unknown player %s", name)
	}
	inbox := c.notifier.Inbox(p.ID)
	if len(inbox) == 0 {
		return fmt.Errorf("%s has no notifications", name)
	}
	last := inbox[len(inbox)-1]
	if !strings.Contains(last.Message, text) {
		return fmt.Errorf("expected notification containing %q, got %q", text, last.Message)
	}
	return nil
}

// InitializeRepairOrderScenario registers the repair order steps
func InitializeRepairOrderScenario(ctx *godog.ScenarioContext) {
	c := &repairOrderContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	// Setup
	ctx.Step(`^a map of (\d+) by (\d+) tiles$`, c.aMapOfTiles)
	ctx.Step(`^the following players:$`, c.theFollowingPlayers)
	ctx.Step(`^the following unit types:$`, c.theFollowingUnitTypes)
	ctx.Step(`^"([^"]*)" takes (\d+) time units to build$`, c.buildTakesTimeUnits)
	ctx.Step(`^"([^"]*)" repairs with the animation:$`, c.repairsWithAnimation)
	ctx.Step(`^"([^"]*)" has (\d+) gold$`, c.playerHasGold)
	ctx.Step(`^a "([^"]*)" named "([^"]*)" owned by "([^"]*)" at (\d+),(\d+) with (\d+) hp$`, c.aUnitNamed)
	ctx.Step(`^"([^"]*)" is under construction with progress (\d+)$`, c.isUnderConstruction)

	// Actions
	ctx.Step(`^"([^"]*)" is ordered to repair "([^"]*)"$`, c.isOrderedToRepair)
	ctx.Step(`^(\d+) frames? pass(?:es)?$`, c.framesPass)
	ctx.Step(`^frames pass until "([^"]*)" is repairing$`, c.framesPassUntilRepairing)
	ctx.Step(`^frames pass until the order of "([^"]*)" is finished$`, c.framesPassUntilFinished)
	ctx.Step(`^"([^"]*)" is destroyed$`, c.isDestroyed)
	ctx.Step(`^"([^"]*)" is moved to (\d+),(\d+)$`, c.isMovedTo)
	ctx.Step(`^the game is saved and loaded$`, c.theGameIsSavedAndLoaded)

	// Assertions
	ctx.Step(`^"([^"]*)" should have (\d+) hp$`, c.shouldHaveHP)
	ctx.Step(`^the repair cycle of "([^"]*)" should be (\d+)$`, c.repairCycleShouldBe)
	ctx.Step(`^the order of "([^"]*)" should be in state "([^"]*)"$`, c.orderShouldBeInState)
	ctx.Step(`^the order of "([^"]*)" should be approaching$`, c.orderShouldBeApproaching)
	ctx.Step(`^the order of "([^"]*)" should be finished with reason "([^"]*)"$`, c.orderShouldBeFinishedWithReason)
	ctx.Step(`^the order of "([^"]*)" should not be finished$`, c.orderShouldNotBeFinished)
	ctx.Step(`^the order of "([^"]*)" should have no goal$`, c.orderShouldHaveNoGoal)
	ctx.Step(`^the order of "([^"]*)" should head to (\d+),(\d+)$`, c.orderShouldHeadTo)
	ctx.Step(`^the order of "([^"]*)" should request a fresh path$`, c.orderShouldRequestFreshPath)
	ctx.Step(`^"([^"]*)" should have (\d+) gold and (\d+) wood$`, c.playerShouldHaveGoldAndWood)
	ctx.Step(`^the journal of "([^"]*)" should hold (\d+) transactions$`, c.journalShouldHold)
	ctx.Step(`^"([^"]*)" should have received (\d+) notifications?$`, c.shouldHaveReceivedNotifications)
	ctx.Step(`^the last notification for "([^"]*)" should contain "([^"]*)"$`, c.lastNotificationShouldContain)
}
