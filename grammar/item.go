package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"github.com/nihei9/lalrgen/grammar/symbol"
)

// itemKey identifies an item by value. Its fields are exported so that structhash can digest it.
type itemKey struct {
	Prod int
	Dot  int
}

// Item is an LR(0) item, a production with a dot position.
type Item struct {
	prod *Production

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol symbol.Symbol

	// When initial is true, the LHS of the production is the augmented start symbol and dot is 0.
	// It looks like S' →・S.
	initial bool

	// When reducible is true, the item looks like E → E + T・.
	reducible bool

	// When kernel is true, the item is kernel item.
	kernel bool
}

func newItem(prod *Production, dot int) (*Item, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}

	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}

	dottedSymbol := symbol.SymbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	initial := prod.lhs.IsStart() && dot == 0

	return &Item{
		prod:         prod,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      initial,
		reducible:    dot == prod.rhsLen,
		kernel:       initial || dot > 0,
	}, nil
}

func (i *Item) Production() *Production {
	return i.prod
}

func (i *Item) Dot() int {
	return i.dot
}

// DottedSymbol returns the symbol right after the dot, or symbol.SymbolNil when the item is reducible.
func (i *Item) DottedSymbol() symbol.Symbol {
	return i.dottedSymbol
}

func (i *Item) IsInitial() bool {
	return i.initial
}

func (i *Item) IsReducible() bool {
	return i.reducible
}

func (i *Item) IsKernel() bool {
	return i.kernel
}

func (i *Item) key() itemKey {
	return itemKey{
		Prod: i.prod.num.Int(),
		Dot:  i.dot,
	}
}

func (i *Item) equals(j *Item) bool {
	return i.prod.num == j.prod.num && i.dot == j.dot
}

func (i *Item) advance() (*Item, error) {
	return newItem(i.prod, i.dot+1)
}

func compareItems(a, b *Item) int {
	switch {
	case a.prod.num < b.prod.num:
		return -1
	case a.prod.num > b.prod.num:
		return 1
	case a.dot < b.dot:
		return -1
	case a.dot > b.dot:
		return 1
	}
	return 0
}

// ItemText formats an item like `expr → expr ・ add expr`.
func (g *Grammar) ItemText(item *Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", g.SymbolName(item.prod.lhs))
	for i, sym := range item.prod.rhs {
		if i == item.dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", g.SymbolName(sym))
	}
	if item.reducible {
		fmt.Fprintf(&b, " ・")
	}
	return b.String()
}

type kernelID string

// kernel is the identity of a state. Two states are the same when their kernels hold the same items.
type kernel struct {
	id    kernelID
	items []*Item
}

type kernelDigest struct {
	Items []itemKey
}

func newKernel(items []*Item) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel need at least one item")
	}

	var sortedItems []*Item
	{
		known := map[itemKey]struct{}{}
		for _, item := range items {
			if !item.kernel {
				return nil, fmt.Errorf("not a kernel item: %v", item.key())
			}
			if _, ok := known[item.key()]; ok {
				continue
			}
			known[item.key()] = struct{}{}
			sortedItems = append(sortedItems, item)
		}
		sort.Slice(sortedItems, func(i, j int) bool {
			return compareItems(sortedItems[i], sortedItems[j]) < 0
		})
	}

	d := &kernelDigest{
		Items: make([]itemKey, len(sortedItems)),
	}
	for i, item := range sortedItems {
		d.Items[i] = item.key()
	}
	id, err := structhash.Hash(d, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to digest a kernel: %w", err)
	}

	return &kernel{
		id:    kernelID(id),
		items: sortedItems,
	}, nil
}

func (k *kernel) equals(l *kernel) bool {
	if len(k.items) != len(l.items) {
		return false
	}
	for i, item := range k.items {
		if !item.equals(l.items[i]) {
			return false
		}
	}
	return true
}
