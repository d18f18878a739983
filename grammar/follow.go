package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nihei9/lalrgen/grammar/symbol"
)

// followEntry is FOLLOW of a non-terminal. EOF is stored as an ordinary terminal.
type followEntry struct {
	symbols *treeset.Set
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: treeset.NewWith(symbol.Comparator),
	}
}

func (e *followEntry) add(sym symbol.Symbol) bool {
	if e.symbols.Contains(sym) {
		return false
	}
	e.symbols.Add(sym)
	return true
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		if e.mergeSet(fst.symbols) {
			changed = true
		}
	}
	if flw != nil {
		if e.mergeSet(flw.symbols) {
			changed = true
		}
	}

	return changed
}

func (e *followEntry) mergeSet(s *treeset.Set) bool {
	changed := false
	for _, v := range s.Values() {
		if e.add(v.(symbol.Symbol)) {
			changed = true
		}
	}
	return changed
}

func (e *followEntry) terminals() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, e.symbols.Size())
	for _, v := range e.symbols.Values() {
		syms = append(syms, v.(symbol.Symbol))
	}
	return syms
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func newFollow(prods *productionSet) *followSet {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return e, nil
}

func genFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	var ntsyms []symbol.Symbol
	{
		seen := map[symbol.Symbol]struct{}{}
		for _, prod := range prods.getAllProductions() {
			if _, ok := seen[prod.lhs]; ok {
				continue
			}
			seen[prod.lhs] = struct{}{}
			ntsyms = append(ntsyms, prod.lhs)
		}
	}

	follow := newFollow(prods)
	for {
		more := false
		for _, ntsym := range ntsyms {
			e, err := follow.find(ntsym)
			if err != nil {
				return nil, err
			}
			changed, err := genFollowEntry(prods, first, follow, e, ntsym)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}

	return follow, nil
}

func genFollowEntry(prods *productionSet, first *firstSet, follow *followSet, acc *followEntry, ntsym symbol.Symbol) (bool, error) {
	changed := false

	if ntsym.IsStart() {
		if acc.add(symbol.SymbolEOF) {
			changed = true
		}
	}
	for _, prod := range prods.getAllProductions() {
		for i, sym := range prod.rhs {
			if sym != ntsym {
				continue
			}
			fst, err := first.find(prod, i+1)
			if err != nil {
				return false, err
			}
			if acc.merge(fst, nil) {
				changed = true
			}
			if fst.empty {
				flw, err := follow.find(prod.lhs)
				if err != nil {
					return false, err
				}
				if acc.merge(nil, flw) {
					changed = true
				}
			}
		}
	}

	return changed, nil
}
