package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/nihei9/lalrgen/grammar/symbol"
)

// firstEntry is FIRST of a symbol or a symbol string. Terminals are kept in symbol order.
type firstEntry struct {
	symbols *treeset.Set
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: treeset.NewWith(symbol.Comparator),
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if e.symbols.Contains(sym) {
		return false
	}
	e.symbols.Add(sym)
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for _, v := range target.symbols.Values() {
		if e.add(v.(symbol.Symbol)) {
			changed = true
		}
	}
	return changed
}

func (e *firstEntry) terminals() []symbol.Symbol {
	syms := make([]symbol.Symbol, 0, e.symbols.Size())
	for _, v := range e.symbols.Values() {
		syms = append(syms, v.(symbol.Symbol))
	}
	return syms
}

type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(prods *productionSet) *firstSet {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}

	return fst
}

// find returns FIRST of prod.rhs[head:].
func (fst *firstSet) find(prod *Production, head int) (*firstEntry, error) {
	return fst.findBySymbols(prod.rhs, head)
}

func (fst *firstSet) findBySymbols(syms []symbol.Symbol, head int) (*firstEntry, error) {
	entry := newFirstEntry()
	if len(syms) <= head {
		entry.addEmpty()
		return entry, nil
	}
	for _, sym := range syms[head:] {
		if sym.IsTerminal() {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

func genFirstSet(prods *productionSet) (*firstSet, error) {
	first := newFirstSet(prods)
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			e := first.findBySymbol(prod.lhs)
			changed, err := genProdFirstEntry(first, e, prod)
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
	return first, nil
}

func genProdFirstEntry(first *firstSet, acc *firstEntry, prod *Production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			return acc.add(sym) || changed, nil
		}

		e := first.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty() || changed, nil
}
