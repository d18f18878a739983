package grammar

import (
	"github.com/nihei9/lalrgen/grammar/symbol"
)

// Resolver decides table cells having more than one candidate action. GenTables installs the shift
// action before it calls ResolveSR, so a resolver never installs shift actions by itself.
type Resolver interface {
	// ResolveSR is called while the cell holds a shift action and item is a reduce candidate.
	ResolveSR(t *Tables, state int, term symbol.Symbol, item *Item) error

	// ResolveRR is called while the cell holds a reduce action and item is another reduce candidate.
	ResolveRR(t *Tables, state int, term symbol.Symbol, item *Item) error

	NumSRConflicts() int
	NumRRConflicts() int
	ConflictsAt(state int) []*Conflict
}

type resolverConfig struct {
	conflictCap int
}

type ResolverOption func(config *resolverConfig)

// RecordingCap limits recorded conflicts per state. A negative value means no limit.
func RecordingCap(n int) ResolverOption {
	return func(config *resolverConfig) {
		config.conflictCap = n
	}
}

func newResolverConfig(opts []ResolverOption) *resolverConfig {
	config := &resolverConfig{
		conflictCap: DefaultConflictCap,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// CountingResolver never changes a table. Shift actions and the first reduce candidates stand, and
// every conflict is counted and recorded.
type CountingResolver struct {
	conflicts *Conflicts
}

func NewCountingResolver(opts ...ResolverOption) *CountingResolver {
	config := newResolverConfig(opts)
	return &CountingResolver{
		conflicts: NewConflicts(config.conflictCap),
	}
}

func (r *CountingResolver) ResolveSR(t *Tables, state int, term symbol.Symbol, item *Item) error {
	_, shiftTo := t.Action(state, term)
	r.conflicts.RecordShiftReduce(state, term, shiftTo, item)
	return nil
}

func (r *CountingResolver) ResolveRR(t *Tables, state int, term symbol.Symbol, item *Item) error {
	current, _ := t.ReduceItemAt(state, term)
	r.conflicts.RecordReduceReduce(state, term, current, item, current)
	return nil
}

func (r *CountingResolver) NumSRConflicts() int {
	return r.conflicts.NumShiftReduce()
}

func (r *CountingResolver) NumRRConflicts() int {
	return r.conflicts.NumReduceReduce()
}

func (r *CountingResolver) ConflictsAt(state int) []*Conflict {
	return r.conflicts.At(state)
}

// PrecedenceResolver resolves shift/reduce conflicts by fixities and reduce/reduce conflicts by
// declaration order.
//
// A shift/reduce conflict is decided by Which(fixity of the production, fixity of the terminal).
// When neither side wins, the shift action stands and the conflict is recorded. A reduce/reduce
// conflict installs the production declared first and is always recorded.
type PrecedenceResolver struct {
	gram      *Grammar
	conflicts *Conflicts
}

func NewPrecedenceResolver(m *LookaheadMachine, opts ...ResolverOption) *PrecedenceResolver {
	config := newResolverConfig(opts)
	return &PrecedenceResolver{
		gram:      m.Grammar(),
		conflicts: NewConflicts(config.conflictCap),
	}
}

func (r *PrecedenceResolver) ResolveSR(t *Tables, state int, term symbol.Symbol, item *Item) error {
	switch Which(item.prod.fixity, r.gram.TerminalFixity(term)) {
	case PreferLeft:
		tracer().Debugf("state %v, %v: reduce %v wins by precedence", state, r.gram.SymbolName(term), r.gram.ItemText(item))
		return t.SetReduce(state, term, item)
	case PreferRight:
		tracer().Debugf("state %v, %v: shift wins over %v by precedence", state, r.gram.SymbolName(term), r.gram.ItemText(item))
		return nil
	}

	_, shiftTo := t.Action(state, term)
	r.conflicts.RecordShiftReduce(state, term, shiftTo, item)
	return nil
}

func (r *PrecedenceResolver) ResolveRR(t *Tables, state int, term symbol.Symbol, item *Item) error {
	current, _ := t.ReduceItemAt(state, term)
	winner := current
	if item.prod.seq < current.prod.seq {
		winner = item
		if err := t.SetReduce(state, term, item); err != nil {
			return err
		}
	}
	r.conflicts.RecordReduceReduce(state, term, current, item, winner)
	return nil
}

func (r *PrecedenceResolver) NumSRConflicts() int {
	return r.conflicts.NumShiftReduce()
}

func (r *PrecedenceResolver) NumRRConflicts() int {
	return r.conflicts.NumReduceReduce()
}

func (r *PrecedenceResolver) ConflictsAt(state int) []*Conflict {
	return r.conflicts.At(state)
}
