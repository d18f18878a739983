package grammar

import (
	"fmt"

	"github.com/nihei9/lalrgen/grammar/symbol"
)

type ConflictKind string

const (
	ConflictKindShiftReduce  = ConflictKind("shift/reduce")
	ConflictKindReduceReduce = ConflictKind("reduce/reduce")
)

func (k ConflictKind) String() string {
	return string(k)
}

// Conflict records a table cell that had more than one candidate action.
type Conflict struct {
	Kind     ConflictKind
	State    int
	Terminal symbol.Symbol

	// ShiftTo is the destination of the shift action of a shift/reduce conflict.
	ShiftTo int

	// Reduce is the reduce candidate of a shift/reduce conflict, or the reduce action the cell held
	// before a reduce/reduce conflict.
	Reduce *Item

	// Competitor is the newer reduce candidate of a reduce/reduce conflict.
	Competitor *Item

	// Adopted is the action the cell held when the conflict was recorded. AdoptedItem is set when it
	// is a reduce action. Tables.ConflictsAt reports the final action of the cell instead.
	Adopted     ActionType
	AdoptedItem *Item
}

// DefaultConflictCap is the number of conflicts recorded per state unless specified otherwise.
const DefaultConflictCap = 100

// Conflicts is a per-state conflict log. Counters keep counting after a state reaches the
// recording cap, but the records themselves stop.
type Conflicts struct {
	limit  int
	states map[int][]*Conflict
	numSR  int
	numRR  int
}

// NewConflicts returns a log recording up to limit conflicts per state. A negative limit means no limit.
func NewConflicts(limit int) *Conflicts {
	return &Conflicts{
		limit:  limit,
		states: map[int][]*Conflict{},
	}
}

func (c *Conflicts) record(con *Conflict) {
	switch con.Kind {
	case ConflictKindShiftReduce:
		c.numSR++
	case ConflictKindReduceReduce:
		c.numRR++
	}

	cons := c.states[con.State]
	if c.limit >= 0 && len(cons) >= c.limit {
		tracer().Debugf("conflict not recorded (state %v has %v records): %v on %v", con.State, len(cons), con.Kind, con.Terminal)
		return
	}
	c.states[con.State] = append(cons, con)
}

// RecordShiftReduce counts and records a shift/reduce conflict that the shift action won.
func (c *Conflicts) RecordShiftReduce(state int, term symbol.Symbol, shiftTo int, item *Item) {
	c.record(&Conflict{
		Kind:     ConflictKindShiftReduce,
		State:    state,
		Terminal: term,
		ShiftTo:  shiftTo,
		Reduce:   item,
		Adopted:  ActionTypeShift,
	})
}

// RecordReduceReduce counts and records a reduce/reduce conflict. winner is the reduce item the cell
// holds afterwards.
func (c *Conflicts) RecordReduceReduce(state int, term symbol.Symbol, current, competitor, winner *Item) {
	adopted := ActionTypeReduce
	if winner.prod.IsAugmented() {
		adopted = ActionTypeAccept
	}
	c.record(&Conflict{
		Kind:        ConflictKindReduceReduce,
		State:       state,
		Terminal:    term,
		Reduce:      current,
		Competitor:  competitor,
		Adopted:     adopted,
		AdoptedItem: winner,
	})
}

func (c *Conflicts) NumShiftReduce() int {
	return c.numSR
}

func (c *Conflicts) NumReduceReduce() int {
	return c.numRR
}

func (c *Conflicts) At(state int) []*Conflict {
	return append([]*Conflict{}, c.states[state]...)
}

// ConflictText formats a conflict like `shift/reduce conflict (shift 5, reduce E → E + E ・) on *`.
func (g *Grammar) ConflictText(c *Conflict) string {
	switch c.Kind {
	case ConflictKindShiftReduce:
		return fmt.Sprintf("%v conflict (shift %v, reduce %v) on %v", c.Kind, c.ShiftTo, g.ItemText(c.Reduce), g.SymbolName(c.Terminal))
	case ConflictKindReduceReduce:
		return fmt.Sprintf("%v conflict (reduce %v, reduce %v) on %v", c.Kind, g.ItemText(c.Reduce), g.ItemText(c.Competitor), g.SymbolName(c.Terminal))
	}
	return fmt.Sprintf("unknown conflict on %v", g.SymbolName(c.Terminal))
}
