package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/nihei9/lalrgen/grammar/symbol"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) productionID {
	seq := symbolBytes(lhs)
	for _, sym := range rhs {
		seq = append(seq, symbolBytes(sym)...)
	}
	return productionID(sha256.Sum256(seq))
}

func symbolBytes(sym symbol.Symbol) []byte {
	return []byte{byte(uint16(sym) >> 8), byte(uint16(sym) & 0x00ff)}
}

type productionNum uint16

const (
	productionNumNil   = productionNum(0)
	productionNumStart = productionNum(1)
	productionNumMin   = productionNum(2)
)

func (n productionNum) Int() int {
	return int(n)
}

// Production is a rule `lhs → rhs`. The number 1 is reserved for the augmented start production
// `S' → S`, user productions are numbered from 2 in declaration order.
type Production struct {
	id  productionID
	num productionNum

	// seq is the declaration sequence number. It breaks reduce/reduce ties; the lower one wins.
	seq int

	lhs    symbol.Symbol
	rhs    []symbol.Symbol
	rhsLen int

	// fixity is nil when neither the production nor any terminal in its RHS has one.
	fixity *Fixity
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*Production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &Production{
		id:     genProductionID(lhs, rhs),
		lhs:    lhs,
		rhs:    rhs,
		rhsLen: len(rhs),
	}, nil
}

func (p *Production) Num() int {
	return p.num.Int()
}

func (p *Production) Seq() int {
	return p.seq
}

func (p *Production) LHS() symbol.Symbol {
	return p.lhs
}

func (p *Production) RHS() []symbol.Symbol {
	return append([]symbol.Symbol{}, p.rhs...)
}

func (p *Production) Len() int {
	return p.rhsLen
}

// Fixity returns a copy of the production's fixity, or nil.
func (p *Production) Fixity() *Fixity {
	if p.fixity == nil {
		return nil
	}
	f := *p.fixity
	return &f
}

func (p *Production) IsAugmented() bool {
	return p.lhs.IsStart()
}

func (p *Production) equals(q *Production) bool {
	return q.id == p.id
}

func (p *Production) isEmpty() bool {
	return p.rhsLen == 0
}

type productionSet struct {
	lhs2Prods map[symbol.Symbol][]*Production
	id2Prod   map[productionID]*Production
	num2Prod  []*Production
	num       productionNum
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[symbol.Symbol][]*Production{},
		id2Prod:   map[productionID]*Production{},
		num2Prod:  make([]*Production, productionNumMin),
		num:       productionNumMin,
	}
}

func (ps *productionSet) append(prod *Production) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	if prod.lhs.IsStart() {
		prod.num = productionNumStart
		ps.num2Prod[productionNumStart] = prod
	} else {
		prod.num = ps.num
		ps.num++
		ps.num2Prod = append(ps.num2Prod, prod)
	}

	if prods, ok := ps.lhs2Prods[prod.lhs]; ok {
		ps.lhs2Prods[prod.lhs] = append(prods, prod)
	} else {
		ps.lhs2Prods[prod.lhs] = []*Production{prod}
	}
	ps.id2Prod[prod.id] = prod

	return true
}

func (ps *productionSet) findByID(id productionID) (*Production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *productionSet) findByNum(num productionNum) (*Production, bool) {
	if num < productionNumStart || num.Int() >= len(ps.num2Prod) {
		return nil, false
	}
	prod := ps.num2Prod[num]
	return prod, prod != nil
}

func (ps *productionSet) findByLHS(lhs symbol.Symbol) ([]*Production, bool) {
	if lhs.IsNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

// getAllProductions returns the productions in ascending order of their numbers.
func (ps *productionSet) getAllProductions() []*Production {
	prods := make([]*Production, 0, len(ps.id2Prod))
	for _, p := range ps.num2Prod {
		if p == nil {
			continue
		}
		prods = append(prods, p)
	}
	return prods
}
