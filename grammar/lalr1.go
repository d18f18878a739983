package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nihei9/lalrgen/grammar/symbol"
)

// Class selects how look-ahead symbols of reducible items are computed.
type Class string

const (
	ClassLALR1 = Class("lalr1")
	ClassSLR1  = Class("slr1")
)

func (c Class) String() string {
	return string(c)
}

func ParseClass(s string) (Class, error) {
	switch Class(s) {
	case ClassLALR1, ClassSLR1:
		return Class(s), nil
	}
	return "", fmt.Errorf("invalid class: %v (lalr1 or slr1 are available)", s)
}

type machineConfig struct {
	class Class
}

type MachineOption func(config *machineConfig)

// WithClass switches the look-ahead computation. The default is ClassLALR1.
func WithClass(class Class) MachineOption {
	return func(config *machineConfig) {
		config.class = class
	}
}

type stateAndItem struct {
	state int
	item  itemKey
}

type propagation struct {
	src  *stateAndItem
	dest []*stateAndItem
}

// LookaheadMachine is an LR(0) automaton annotated with look-ahead symbols.
type LookaheadMachine struct {
	lr0   *LR0Items
	class Class

	// lookAheads holds look-ahead sets of kernel items and ε-items per state. The sets are sorted
	// in symbol order.
	lookAheads []map[itemKey]*treeset.Set
}

// GenLookaheadMachine computes look-ahead sets over an LR(0) automaton.
func GenLookaheadMachine(lr0 *LR0Items, opts ...MachineOption) (*LookaheadMachine, error) {
	config := &machineConfig{
		class: ClassLALR1,
	}
	for _, opt := range opts {
		opt(config)
	}

	m := &LookaheadMachine{
		lr0:        lr0,
		class:      config.class,
		lookAheads: make([]map[itemKey]*treeset.Set, len(lr0.states)),
	}
	for i := range m.lookAheads {
		m.lookAheads[i] = map[itemKey]*treeset.Set{}
	}

	first, err := genFirstSet(lr0.gram.productionSet)
	if err != nil {
		return nil, err
	}

	switch config.class {
	case ClassLALR1:
		err = m.genLALR1LookAheads(first)
	case ClassSLR1:
		err = m.genSLR1LookAheads(first)
	default:
		err = fmt.Errorf("invalid class: %v", config.class)
	}
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *LookaheadMachine) LR0Items() *LR0Items {
	return m.lr0
}

func (m *LookaheadMachine) Grammar() *Grammar {
	return m.lr0.gram
}

func (m *LookaheadMachine) Class() Class {
	return m.class
}

func (m *LookaheadMachine) NumStates() int {
	return len(m.lr0.states)
}

// ItemsAt returns the closure items of a state, kernel items first.
func (m *LookaheadMachine) ItemsAt(state int) []*Item {
	s, ok := m.lr0.State(state)
	if !ok {
		return nil
	}
	return s.Items()
}

// ReduceItemsAt returns the reducible items of a state in item order.
func (m *LookaheadMachine) ReduceItemsAt(state int) []*Item {
	s, ok := m.lr0.State(state)
	if !ok {
		return nil
	}
	return s.ReducibleItems()
}

// LookAheadAt returns the look-ahead terminals of an item in ascending order. Only kernel items and
// ε-items have look-ahead sets.
func (m *LookaheadMachine) LookAheadAt(state int, item *Item) []symbol.Symbol {
	if state < 0 || state >= len(m.lookAheads) {
		return nil
	}
	set, ok := m.lookAheads[state][item.key()]
	if !ok {
		return nil
	}
	syms := make([]symbol.Symbol, 0, set.Size())
	for _, v := range set.Values() {
		syms = append(syms, v.(symbol.Symbol))
	}
	return syms
}

func (m *LookaheadMachine) lookAheadSet(state int, key itemKey) *treeset.Set {
	set, ok := m.lookAheads[state][key]
	if !ok {
		set = treeset.NewWith(symbol.Comparator)
		m.lookAheads[state][key] = set
	}
	return set
}

// genLALR1LookAheads determines spontaneous look-ahead symbols and propagation links, then
// propagates look-ahead symbols along the links until nothing changes.
func (m *LookaheadMachine) genLALR1LookAheads(first *firstSet) error {
	prods := m.lr0.gram.productionSet

	// [S' → ・S, $]
	iniState := m.lr0.InitialState()
	m.lookAheadSet(iniState.num, iniState.kernel.items[0].key()).Add(symbol.SymbolEOF)

	var props []*propagation
	for _, state := range m.lr0.states {
		for _, kItem := range state.kernel.items {
			entries, err := genLALR1Closure(kItem, prods, first)
			if err != nil {
				return err
			}

			var propDests []*stateAndItem
			for _, e := range entries {
				if e.item.reducible {
					if e.item.kernel {
						continue
					}
					// An ε-item stays in the current state.
					mergeSet(m.lookAheadSet(state.num, e.item.key()), e.lookAhead)
					if e.propagation {
						propDests = append(propDests, &stateAndItem{
							state: state.num,
							item:  e.item.key(),
						})
					}
					continue
				}

				next, ok := state.Next(e.item.dottedSymbol)
				if !ok {
					return fmt.Errorf("a transition was not found; state: %v, symbol: %v", state.num, e.item.dottedSymbol)
				}
				nextKey := itemKey{
					Prod: e.item.prod.num.Int(),
					Dot:  e.item.dot + 1,
				}
				if !e.lookAhead.Empty() {
					mergeSet(m.lookAheadSet(next, nextKey), e.lookAhead)
				}
				if e.propagation {
					propDests = append(propDests, &stateAndItem{
						state: next,
						item:  nextKey,
					})
				}
			}
			if len(propDests) == 0 {
				continue
			}

			props = append(props, &propagation{
				src: &stateAndItem{
					state: state.num,
					item:  kItem.key(),
				},
				dest: propDests,
			})
		}
	}

	passes := propagateLookAhead(m, props)
	tracer().Debugf("look-ahead propagation: %v links, %v passes", len(props), passes)

	return nil
}

// lr1Entry is an item of an LR(1) closure. When propagation is true, the item inherits look-ahead
// symbols of the source kernel item (the `#` marker of the dragon book).
type lr1Entry struct {
	item        *Item
	lookAhead   *treeset.Set
	propagation bool
}

// genLALR1Closure computes CLOSURE({[srcItem, #]}).
func genLALR1Closure(srcItem *Item, prods *productionSet, first *firstSet) ([]*lr1Entry, error) {
	entries := []*lr1Entry{
		{
			item:        srcItem,
			lookAhead:   treeset.NewWith(symbol.Comparator),
			propagation: true,
		},
	}
	index := map[itemKey]*lr1Entry{
		srcItem.key(): entries[0],
	}

	for {
		changed := false
		for i := 0; i < len(entries); i++ {
			e := entries[i]
			if !e.item.dottedSymbol.IsNonTerminal() {
				continue
			}

			fst, err := first.find(e.item.prod, e.item.dot+1)
			if err != nil {
				return nil, err
			}

			ps, _ := prods.findByLHS(e.item.dottedSymbol)
			for _, prod := range ps {
				key := itemKey{
					Prod: prod.num.Int(),
					Dot:  0,
				}
				dest, ok := index[key]
				if !ok {
					item, err := newItem(prod, 0)
					if err != nil {
						return nil, err
					}
					dest = &lr1Entry{
						item:      item,
						lookAhead: treeset.NewWith(symbol.Comparator),
					}
					index[key] = dest
					entries = append(entries, dest)
					changed = true
				}

				if mergeSet(dest.lookAhead, fst.symbols) {
					changed = true
				}
				if fst.empty {
					if mergeSet(dest.lookAhead, e.lookAhead) {
						changed = true
					}
					if e.propagation && !dest.propagation {
						dest.propagation = true
						changed = true
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	return entries, nil
}

func mergeSet(dest, src *treeset.Set) bool {
	changed := false
	for _, v := range src.Values() {
		if dest.Contains(v) {
			continue
		}
		dest.Add(v)
		changed = true
	}
	return changed
}

// propagateLookAhead returns the number of passes it took to reach the fixed point.
func propagateLookAhead(m *LookaheadMachine, props []*propagation) int {
	passes := 0
	for {
		passes++
		changed := false
		for _, prop := range props {
			src := m.lookAheadSet(prop.src.state, prop.src.item)
			for _, dest := range prop.dest {
				if mergeSet(m.lookAheadSet(dest.state, dest.item), src) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return passes
}
