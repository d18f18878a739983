package grammar

import (
	"fmt"
	"sort"

	"github.com/nihei9/lalrgen/grammar/symbol"
	spec "github.com/nihei9/lalrgen/spec/grammar"
)

func genReport(tab *Tables) (*spec.Report, error) {
	gram := tab.machine.Grammar()

	var terms []*spec.Terminal
	{
		termSyms := gram.Terminals()
		terms = make([]*spec.Terminal, gram.TerminalCount())
		for _, sym := range termSyms {
			name, ok := gram.symbolTable.ToText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate terminals: symbol not found: %v", sym)
			}

			term := &spec.Terminal{
				Number: sym.Num().Int(),
				Name:   name,
			}
			if f := gram.TerminalFixity(sym); f != nil {
				term.Precedence = f.Prec()
				term.Associativity = f.Assoc().String()
			}

			terms[sym.Num()] = term
		}
	}

	var nonTerms []*spec.NonTerminal
	{
		nonTermSyms := gram.NonTerminals()
		nonTerms = make([]*spec.NonTerminal, gram.NonTerminalCount())
		for _, sym := range nonTermSyms {
			name, ok := gram.symbolTable.ToText(sym)
			if !ok {
				return nil, fmt.Errorf("failed to generate non-terminals: symbol not found: %v", sym)
			}

			nonTerms[sym.Num()] = &spec.NonTerminal{
				Number: sym.Num().Int(),
				Name:   name,
			}
		}
	}

	var prods []*spec.Production
	{
		ps := gram.Productions()
		prods = make([]*spec.Production, len(ps)+1)
		for _, p := range ps {
			rhs := make([]int, len(p.rhs))
			for i, e := range p.rhs {
				if e.IsTerminal() {
					rhs[i] = e.Num().Int()
				} else {
					rhs[i] = e.Num().Int() * -1
				}
			}

			prod := &spec.Production{
				Number:   p.num.Int(),
				Sequence: p.seq,
				LHS:      p.lhs.Num().Int(),
				RHS:      rhs,
			}
			if p.fixity != nil {
				prod.Precedence = p.fixity.Prec()
				prod.Associativity = p.fixity.Assoc().String()
			}

			prods[p.num.Int()] = prod
		}
	}

	states := make([]*spec.State, tab.NumStates())
	for _, s := range tab.machine.LR0Items().States() {
		state, err := genStateReport(tab, s)
		if err != nil {
			return nil, err
		}
		states[s.num] = state
	}

	return &spec.Report{
		Name:            gram.name,
		Class:           tab.machine.Class().String(),
		Terminals:       terms,
		NonTerminals:    nonTerms,
		Productions:     prods,
		States:          states,
		SRConflictCount: tab.NumSRConflicts(),
		RRConflictCount: tab.NumRRConflicts(),
	}, nil
}

func genStateReport(tab *Tables, s *State) (*spec.State, error) {
	gram := tab.machine.Grammar()

	kernel := make([]*spec.Item, 0, len(s.kernel.items))
	for _, item := range s.kernel.items {
		kernel = append(kernel, &spec.Item{
			Production: item.prod.num.Int(),
			Dot:        item.dot,
		})
	}

	var shift []*spec.Transition
	var reduce []*spec.Reduce
	accept := false
TERMINALS_LOOP:
	for _, t := range gram.Terminals() {
		switch typ, arg := tab.Action(s.num, t); typ {
		case ActionTypeShift:
			shift = append(shift, &spec.Transition{
				Symbol: t.Num().Int(),
				State:  arg,
			})
		case ActionTypeAccept:
			accept = true
		case ActionTypeReduce:
			for _, r := range reduce {
				if r.Production == arg {
					r.LookAhead = append(r.LookAhead, t.Num().Int())
					continue TERMINALS_LOOP
				}
			}
			reduce = append(reduce, &spec.Reduce{
				LookAhead:  []int{t.Num().Int()},
				Production: arg,
			})
		}
	}
	sort.Slice(reduce, func(i, j int) bool {
		return reduce[i].Production < reduce[j].Production
	})

	var goTo []*spec.Transition
	for _, n := range gram.NonTerminals() {
		if typ, next := tab.GoTo(s.num, n); typ == GoToTypeRegistered {
			goTo = append(goTo, &spec.Transition{
				Symbol: n.Num().Int(),
				State:  next,
			})
		}
	}

	sr := []*spec.SRConflict{}
	rr := []*spec.RRConflict{}
	for _, c := range tab.ConflictsAt(s.num) {
		switch c.Kind {
		case ConflictKindShiftReduce:
			conflict := &spec.SRConflict{
				Symbol:     c.Terminal.Num().Int(),
				State:      c.ShiftTo,
				Production: c.Reduce.prod.num.Int(),
			}
			if next, prod, isShift := adoptedAction(tab, s.num, c.Terminal); isShift {
				conflict.AdoptedState = &next
			} else {
				conflict.AdoptedProduction = &prod
			}
			sr = append(sr, conflict)
		case ConflictKindReduceReduce:
			_, prod, _ := adoptedAction(tab, s.num, c.Terminal)
			rr = append(rr, &spec.RRConflict{
				Symbol:            c.Terminal.Num().Int(),
				Production1:       c.Reduce.prod.num.Int(),
				Production2:       c.Competitor.prod.num.Int(),
				AdoptedProduction: prod,
			})
		}
	}
	sort.SliceStable(sr, func(i, j int) bool {
		return sr[i].Symbol < sr[j].Symbol
	})
	sort.SliceStable(rr, func(i, j int) bool {
		return rr[i].Symbol < rr[j].Symbol
	})

	return &spec.State{
		Number:     s.num,
		Kernel:     kernel,
		Shift:      shift,
		Reduce:     reduce,
		GoTo:       goTo,
		Accept:     accept,
		SRConflict: sr,
		RRConflict: rr,
	}, nil
}

// adoptedAction returns the final action of a cell. Accept is reported as a reduce by the augmented
// start production.
func adoptedAction(tab *Tables, state int, term symbol.Symbol) (int, int, bool) {
	typ, arg := tab.Action(state, term)
	if typ == ActionTypeShift {
		return arg, 0, true
	}
	if item, ok := tab.ReduceItemAt(state, term); ok {
		return 0, item.prod.num.Int(), false
	}
	return 0, 0, false
}
