package grammar

import "fmt"

type Assoc int

const (
	AssocNon Assoc = iota
	AssocLeft
	AssocRight
)

func (a Assoc) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "nonassoc"
	}
}

// ParseAssoc accepts the names String returns.
func ParseAssoc(s string) (Assoc, error) {
	switch s {
	case "left":
		return AssocLeft, nil
	case "right":
		return AssocRight, nil
	case "nonassoc":
		return AssocNon, nil
	}
	return AssocNon, fmt.Errorf("%w: %v", semErrInvalidAssoc, s)
}

// Fixity is a precedence level paired with an associativity. A higher level binds tighter.
type Fixity struct {
	prec  int
	assoc Assoc
}

func NewFixity(prec int, assoc Assoc) Fixity {
	return Fixity{
		prec:  prec,
		assoc: assoc,
	}
}

func Left(prec int) Fixity {
	return NewFixity(prec, AssocLeft)
}

func Right(prec int) Fixity {
	return NewFixity(prec, AssocRight)
}

func NonAssoc(prec int) Fixity {
	return NewFixity(prec, AssocNon)
}

func (f Fixity) Prec() int {
	return f.prec
}

func (f Fixity) Assoc() Assoc {
	return f.assoc
}

func (f Fixity) String() string {
	return fmt.Sprintf("%v %v", f.assoc, f.prec)
}

type Preference int

const (
	PreferNone Preference = iota
	PreferLeft
	PreferRight
)

func (p Preference) String() string {
	switch p {
	case PreferLeft:
		return "left"
	case PreferRight:
		return "right"
	default:
		return "none"
	}
}

// Which tells which side of a competition binds tighter. A missing fixity on either side ties.
//
// For a shift/reduce conflict l is the fixity of the production and r is the one of the
// look-ahead terminal, so PreferLeft means reduce and PreferRight means shift.
func Which(l, r *Fixity) Preference {
	if l == nil || r == nil {
		return PreferNone
	}
	switch {
	case l.prec > r.prec:
		return PreferLeft
	case l.prec < r.prec:
		return PreferRight
	case l.assoc == AssocLeft && r.assoc == AssocLeft:
		return PreferLeft
	case l.assoc == AssocRight && r.assoc == AssocRight:
		return PreferRight
	}
	return PreferNone
}
