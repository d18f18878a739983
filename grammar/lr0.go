package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/nihei9/lalrgen/grammar/symbol"
)

// State is a state of the LR(0) automaton.
type State struct {
	kernel *kernel
	num    int

	// items is the closure of the kernel. Kernel items come first, and closure items follow in the
	// order they were found.
	items []*Item

	// next maps a symbol to a state number. Its keys are in symbol order.
	next *treemap.Map

	// reducible holds reducible items in item order. Items of empty productions like `p → ・` are
	// included although they are not kernel items.
	//
	// For instance, CLOSURE({s' → ・s}) of the following grammar contains `s → ・` but the kernel
	// doesn't.
	//
	// s' → s
	// s → A | ε
	reducible []*Item
}

func (s *State) Num() int {
	return s.num
}

// Kernel returns the kernel items sorted by production number and dot.
func (s *State) Kernel() []*Item {
	return append([]*Item{}, s.kernel.items...)
}

// Items returns the closure items, kernel items first.
func (s *State) Items() []*Item {
	return append([]*Item{}, s.items...)
}

// Next returns the state reached by a symbol.
func (s *State) Next(sym symbol.Symbol) (int, bool) {
	v, ok := s.next.Get(sym)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// Transitions returns the symbols having an outgoing transition in ascending order.
func (s *State) Transitions() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, s.next.Size())
	for _, k := range s.next.Keys() {
		syms = append(syms, k.(symbol.Symbol))
	}
	return syms
}

func (s *State) ReducibleItems() []*Item {
	return append([]*Item{}, s.reducible...)
}

// LR0Items is the canonical collection of LR(0) item sets.
type LR0Items struct {
	gram    *Grammar
	states  []*State
	kernels map[kernelID]*State
}

// GenLR0Items builds the LR(0) automaton. States are numbered breadth-first from the initial state,
// and transitions of a state are explored in ascending symbol order, so numbering depends only on
// the grammar.
func GenLR0Items(gram *Grammar) (*LR0Items, error) {
	startSym := gram.augmentedStartSymbol
	if !startSym.IsStart() {
		return nil, fmt.Errorf("passed symbol is not a start symbol")
	}

	lr0 := &LR0Items{
		gram:    gram,
		kernels: map[kernelID]*State{},
	}

	unchecked := arraylist.New()
	{
		prods, _ := gram.productionSet.findByLHS(startSym)
		if len(prods) != 1 {
			return nil, fmt.Errorf("the augmented start symbol must have just one production; got: %v", len(prods))
		}
		initialItem, err := newItem(prods[0], 0)
		if err != nil {
			return nil, err
		}
		k, err := newKernel([]*Item{initialItem})
		if err != nil {
			return nil, err
		}
		unchecked.Add(lr0.addState(k))
	}

	for !unchecked.Empty() {
		v, _ := unchecked.Get(0)
		unchecked.Remove(0)
		state := v.(*State)

		items, err := genLR0Closure(state.kernel, gram.productionSet)
		if err != nil {
			return nil, err
		}
		state.items = items
		for _, item := range items {
			if item.reducible {
				state.reducible = append(state.reducible, item)
			}
		}

		neighbours, err := genNeighbourKernels(items)
		if err != nil {
			return nil, err
		}
		for _, n := range neighbours {
			next, known, err := lr0.findState(n.kernel)
			if err != nil {
				return nil, err
			}
			if !known {
				next = lr0.addState(n.kernel)
				unchecked.Add(next)
			}
			state.next.Put(n.symbol, next.num)
		}
	}

	tracer().Debugf("LR(0) automaton of %v: %v states", gram.name, len(lr0.states))

	return lr0, nil
}

func (lr0 *LR0Items) addState(k *kernel) *State {
	state := &State{
		kernel: k,
		num:    len(lr0.states),
		next:   treemap.NewWith(symbol.Comparator),
	}
	lr0.states = append(lr0.states, state)
	lr0.kernels[k.id] = state
	tracer().Debugf("state %v: %v kernel items", state.num, len(k.items))
	return state
}

// findState looks a kernel up by its digest and confirms the hit by comparing the items themselves.
func (lr0 *LR0Items) findState(k *kernel) (*State, bool, error) {
	state, ok := lr0.kernels[k.id]
	if !ok {
		return nil, false, nil
	}
	if !state.kernel.equals(k) {
		return nil, false, fmt.Errorf("kernel digest collision; state: %v, digest: %v", state.num, k.id)
	}
	return state, true, nil
}

func (lr0 *LR0Items) Grammar() *Grammar {
	return lr0.gram
}

func (lr0 *LR0Items) NumStates() int {
	return len(lr0.states)
}

func (lr0 *LR0Items) States() []*State {
	return append([]*State{}, lr0.states...)
}

func (lr0 *LR0Items) State(num int) (*State, bool) {
	if num < 0 || num >= len(lr0.states) {
		return nil, false
	}
	return lr0.states[num], true
}

func (lr0 *LR0Items) InitialState() *State {
	return lr0.states[0]
}

// Goto returns the state reached from a state by a symbol.
func (lr0 *LR0Items) Goto(state int, sym symbol.Symbol) (int, bool) {
	s, ok := lr0.State(state)
	if !ok {
		return 0, false
	}
	return s.Next(sym)
}

func genLR0Closure(k *kernel, prods *productionSet) ([]*Item, error) {
	items := []*Item{}
	knownItems := map[itemKey]struct{}{}
	for _, item := range k.items {
		items = append(items, item)
		knownItems[item.key()] = struct{}{}
	}
	for i := 0; i < len(items); i++ {
		item := items[i]
		if !item.dottedSymbol.IsNonTerminal() {
			continue
		}

		ps, _ := prods.findByLHS(item.dottedSymbol)
		for _, prod := range ps {
			cItem, err := newItem(prod, 0)
			if err != nil {
				return nil, err
			}
			if _, exist := knownItems[cItem.key()]; exist {
				continue
			}
			items = append(items, cItem)
			knownItems[cItem.key()] = struct{}{}
		}
	}

	return items, nil
}

type neighbourKernel struct {
	symbol symbol.Symbol
	kernel *kernel
}

// genNeighbourKernels returns GOTO(items, X) for every symbol X after a dot, in ascending order of X.
func genNeighbourKernels(items []*Item) ([]*neighbourKernel, error) {
	kItemMap := treemap.NewWith(symbol.Comparator)
	for _, item := range items {
		if item.dottedSymbol.IsNil() {
			continue
		}
		kItem, err := item.advance()
		if err != nil {
			return nil, err
		}
		var kItems []*Item
		if v, ok := kItemMap.Get(item.dottedSymbol); ok {
			kItems = v.([]*Item)
		}
		kItemMap.Put(item.dottedSymbol, append(kItems, kItem))
	}

	kernels := make([]*neighbourKernel, 0, kItemMap.Size())
	it := kItemMap.Iterator()
	for it.Next() {
		k, err := newKernel(it.Value().([]*Item))
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, &neighbourKernel{
			symbol: it.Key().(symbol.Symbol),
			kernel: k,
		})
	}

	return kernels, nil
}
