package grammar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cnf/structhash"
	"github.com/dekarrin/rosed"
	"github.com/nihei9/lalrgen/grammar/symbol"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

type GoToType string

const (
	GoToTypeRegistered = GoToType("registered")
	GoToTypeError      = GoToType("error")
)

type actionEntry struct {
	typ   ActionType
	state int
	item  *Item
}

// goToEntryEmpty marks a missing goto entry. The initial state is never the destination of a goto
// because its kernel item is S' →・S.
const goToEntryEmpty = 0

// Tables is a pair of an action table and a goto table. GenTables fills every cell, and the tables
// are read-only afterwards.
type Tables struct {
	machine  *LookaheadMachine
	resolver Resolver

	// action is indexed by a state number and then a terminal number. Column 0 belongs to the nil
	// symbol and always holds an error action.
	action [][]actionEntry

	// goTo is indexed by a state number and then a non-terminal number.
	goTo [][]int

	finalized bool
}

// GenTables fills the tables from a look-ahead machine. Cells having more than one candidate are
// passed to the resolver. A nil resolver means a CountingResolver.
func GenTables(m *LookaheadMachine, resolver Resolver) (*Tables, error) {
	if resolver == nil {
		resolver = NewCountingResolver()
	}

	gram := m.Grammar()
	t := &Tables{
		machine:  m,
		resolver: resolver,
		action:   make([][]actionEntry, m.NumStates()),
		goTo:     make([][]int, m.NumStates()),
	}
	for i := range t.action {
		row := make([]actionEntry, gram.TerminalCount())
		for j := range row {
			row[j].typ = ActionTypeError
		}
		t.action[i] = row
		t.goTo[i] = make([]int, gram.NonTerminalCount())
	}

	terms := gram.Terminals()
	for _, state := range m.lr0.states {
		for _, sym := range state.Transitions() {
			if !sym.IsNonTerminal() {
				continue
			}
			next, _ := state.Next(sym)
			t.goTo[state.num][sym.Num()] = next
		}

		for _, term := range terms {
			shiftTo, hasShift := state.Next(term)

			var cands []*Item
			for _, item := range state.reducible {
				if m.hasLookAhead(state.num, item, term) {
					cands = append(cands, item)
				}
			}

			if hasShift {
				if err := t.SetShift(state.num, term, shiftTo); err != nil {
					return nil, err
				}
			}
			for i, item := range cands {
				if i == 0 && !hasShift {
					if err := t.SetReduce(state.num, term, item); err != nil {
						return nil, err
					}
					continue
				}

				var err error
				if t.action[state.num][term.Num()].typ == ActionTypeShift {
					err = resolver.ResolveSR(t, state.num, term, item)
				} else {
					err = resolver.ResolveRR(t, state.num, term, item)
				}
				if err != nil {
					return nil, fmt.Errorf("failed to resolve a conflict; state: %v, symbol: %v: %w", state.num, gram.SymbolName(term), err)
				}
			}
		}
	}
	t.finalized = true

	tracer().Infof("tables of %v: %v states, %v shift/reduce conflicts, %v reduce/reduce conflicts",
		gram.name, m.NumStates(), resolver.NumSRConflicts(), resolver.NumRRConflicts())

	return t, nil
}

func (m *LookaheadMachine) hasLookAhead(state int, item *Item, term symbol.Symbol) bool {
	set, ok := m.lookAheads[state][item.key()]
	if !ok {
		return false
	}
	return set.Contains(term)
}

func (t *Tables) cell(state int, term symbol.Symbol) (*actionEntry, error) {
	if state < 0 || state >= len(t.action) {
		return nil, fmt.Errorf("state out of range: %v", state)
	}
	if !term.IsTerminal() || term.Num().Int() >= len(t.action[state]) {
		return nil, fmt.Errorf("not a terminal of the grammar: %v", term)
	}
	return &t.action[state][term.Num()], nil
}

func (t *Tables) writableCell(state int, term symbol.Symbol) (*actionEntry, error) {
	if t.finalized {
		return nil, fmt.Errorf("tables are already finalized; state: %v, symbol: %v", state, term)
	}
	return t.cell(state, term)
}

func (t *Tables) SetShift(state int, term symbol.Symbol, next int) error {
	e, err := t.writableCell(state, term)
	if err != nil {
		return err
	}
	if next < 0 || next >= len(t.action) {
		return fmt.Errorf("destination state out of range: %v", next)
	}
	*e = actionEntry{
		typ:   ActionTypeShift,
		state: next,
	}
	return nil
}

// SetReduce installs a reduce action. Reducing by the augmented start production means accept.
func (t *Tables) SetReduce(state int, term symbol.Symbol, item *Item) error {
	e, err := t.writableCell(state, term)
	if err != nil {
		return err
	}
	if item == nil || !item.reducible {
		return fmt.Errorf("not a reducible item: %v", item)
	}
	typ := ActionTypeReduce
	if item.prod.IsAugmented() {
		typ = ActionTypeAccept
	}
	*e = actionEntry{
		typ:  typ,
		item: item,
	}
	return nil
}

func (t *Tables) SetAccept(state int, term symbol.Symbol) error {
	e, err := t.writableCell(state, term)
	if err != nil {
		return err
	}
	var item *Item
	{
		prods, _ := t.machine.Grammar().productionSet.findByLHS(t.machine.Grammar().augmentedStartSymbol)
		item, err = newItem(prods[0], prods[0].rhsLen)
		if err != nil {
			return err
		}
	}
	*e = actionEntry{
		typ:  ActionTypeAccept,
		item: item,
	}
	return nil
}

// ReduceItemAt returns the item of a reduce or accept action.
func (t *Tables) ReduceItemAt(state int, term symbol.Symbol) (*Item, bool) {
	e, err := t.cell(state, term)
	if err != nil || e.item == nil {
		return nil, false
	}
	return e.item, true
}

func (t *Tables) Machine() *LookaheadMachine {
	return t.machine
}

func (t *Tables) Resolver() Resolver {
	return t.resolver
}

func (t *Tables) NumStates() int {
	return len(t.action)
}

// Action returns an action type and its argument, a state number for shift and a production number
// for reduce. The argument of accept and error is 0.
func (t *Tables) Action(state int, term symbol.Symbol) (ActionType, int) {
	e, err := t.cell(state, term)
	if err != nil {
		return ActionTypeError, 0
	}
	switch e.typ {
	case ActionTypeShift:
		return ActionTypeShift, e.state
	case ActionTypeReduce:
		return ActionTypeReduce, e.item.prod.num.Int()
	}
	return e.typ, 0
}

func (t *Tables) GoTo(state int, nonTerm symbol.Symbol) (GoToType, int) {
	if state < 0 || state >= len(t.goTo) || !nonTerm.IsNonTerminal() || nonTerm.Num().Int() >= len(t.goTo[state]) {
		return GoToTypeError, 0
	}
	next := t.goTo[state][nonTerm.Num()]
	if next == goToEntryEmpty {
		return GoToTypeError, 0
	}
	return GoToTypeRegistered, next
}

func (t *Tables) NumSRConflicts() int {
	return t.resolver.NumSRConflicts()
}

func (t *Tables) NumRRConflicts() int {
	return t.resolver.NumRRConflicts()
}

// ConflictsAt returns the recorded conflicts of a state. Adopted and AdoptedItem of each record
// describe the final content of the cell, which a later candidate may have overwritten after the
// conflict was recorded.
func (t *Tables) ConflictsAt(state int) []*Conflict {
	recs := t.resolver.ConflictsAt(state)
	if len(recs) == 0 {
		return nil
	}
	cons := make([]*Conflict, 0, len(recs))
	for _, rec := range recs {
		c := *rec
		e, err := t.cell(state, c.Terminal)
		if err == nil {
			c.Adopted = e.typ
			c.AdoptedItem = e.item
		}
		cons = append(cons, &c)
	}
	return cons
}

// DescribeConflictsAt returns a line per recorded conflict of a state.
func (t *Tables) DescribeConflictsAt(state int) []string {
	gram := t.machine.Grammar()
	var lines []string
	for _, c := range t.ConflictsAt(state) {
		lines = append(lines, gram.ConflictText(c))
	}
	return lines
}

// encode packs an action into an int: -state for shift, +production for reduce, 0 for error.
// Accept is a reduce by the augmented start production, whose number is 1.
func (e *actionEntry) encode() int {
	switch e.typ {
	case ActionTypeShift:
		return -e.state
	case ActionTypeReduce, ActionTypeAccept:
		return e.item.prod.num.Int()
	}
	return 0
}

// flatten returns row-major copies of the action and goto tables.
func (t *Tables) flatten() ([]int, []int) {
	gram := t.machine.Grammar()
	termCount := gram.TerminalCount()
	nonTermCount := gram.NonTerminalCount()
	action := make([]int, len(t.action)*termCount)
	goTo := make([]int, len(t.goTo)*nonTermCount)
	for state, row := range t.action {
		for term := range row {
			action[state*termCount+term] = row[term].encode()
		}
		copy(goTo[state*nonTermCount:], t.goTo[state])
	}
	return action, goTo
}

type tablesDigest struct {
	Action []int
	GoTo   []int
}

// Fingerprint returns a digest of the action and goto tables. Equal tables have equal fingerprints.
func (t *Tables) Fingerprint() (string, error) {
	action, goTo := t.flatten()
	return structhash.Hash(&tablesDigest{
		Action: action,
		GoTo:   goTo,
	}, 1)
}

// String renders both tables as a text table. Shift is `s<state>`, reduce is `r<production>`, and
// accept is `acc`.
func (t *Tables) String() string {
	gram := t.machine.Grammar()
	terms := gram.Terminals()
	var nonTerms []symbol.Symbol
	for _, sym := range gram.NonTerminals() {
		if sym.IsStart() {
			continue
		}
		nonTerms = append(nonTerms, sym)
	}

	header := []string{"state"}
	for _, sym := range terms {
		header = append(header, gram.SymbolName(sym))
	}
	for _, sym := range nonTerms {
		header = append(header, gram.SymbolName(sym))
	}
	data := [][]string{header}

	for state := range t.action {
		row := []string{strconv.Itoa(state)}
		for _, sym := range terms {
			var cell string
			switch typ, arg := t.Action(state, sym); typ {
			case ActionTypeShift:
				cell = fmt.Sprintf("s%v", arg)
			case ActionTypeReduce:
				cell = fmt.Sprintf("r%v", arg)
			case ActionTypeAccept:
				cell = "acc"
			}
			row = append(row, cell)
		}
		for _, sym := range nonTerms {
			var cell string
			if typ, next := t.GoTo(state, sym); typ == GoToTypeRegistered {
				cell = strconv.Itoa(next)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	// Header cells keep the case of symbol names. rosed's header mode upper-cases them, so the
	// separator row is drawn here.
	rendered := rosed.Edit("").
		InsertTableOpts(0, data, 120, rosed.Options{
			NoTrailingLineSeparators: true,
		}).
		String()
	lines := strings.SplitN(strings.TrimRight(rendered, "\n"), "\n", 2)
	sep := strings.Repeat("-", utf8.RuneCountInString(strings.TrimRight(lines[0], " ")))
	if len(lines) == 1 {
		return lines[0] + "\n" + sep
	}
	return lines[0] + "\n" + sep + "\n" + lines[1]
}
