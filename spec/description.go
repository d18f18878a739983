// Package spec reads grammar descriptions written in TOML.
//
//	name  = "expr"
//	start = "expr"
//	terminals = ["id", "lparen", "rparen"]
//
//	[[precedence]]
//	assoc = "left"
//	terminals = ["add", "sub"]
//
//	[[production]]
//	lhs = "expr"
//	rhs = ["expr", "add", "expr"]
//
// Each [[precedence]] table opens a precedence level higher than the previous one. A production
// takes the fixity of its rightmost terminal having one unless `prec` names another terminal.
package spec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	verr "github.com/nihei9/lalrgen/error"
)

type Description struct {
	Name        string             `toml:"name"`
	Start       string             `toml:"start"`
	Terminals   []string           `toml:"terminals"`
	Precedence  []*PrecedenceEntry `toml:"precedence"`
	Productions []*ProductionEntry `toml:"production"`
}

type PrecedenceEntry struct {
	Assoc     string   `toml:"assoc"`
	Terminals []string `toml:"terminals"`
}

// ProductionEntry is `lhs → rhs`. An empty or missing rhs means an ε-production.
type ProductionEntry struct {
	LHS  string   `toml:"lhs"`
	RHS  []string `toml:"rhs"`
	Prec string   `toml:"prec"`
}

// Parse decodes a description. It rejects keys the description doesn't define so that a typo can't
// silently drop a declaration.
func Parse(src io.Reader) (*Description, error) {
	desc := &Description{}
	md, err := toml.NewDecoder(src).Decode(desc)
	if err != nil {
		specErr := &verr.SpecError{
			Cause:  synErrInvalidTOML,
			Detail: err.Error(),
		}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			specErr.Detail = perr.Message
			specErr.Row = perr.Position.Line
		}
		return nil, verr.SpecErrors{specErr}
	}

	var errs verr.SpecErrors
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		errs = append(errs, &verr.SpecError{
			Cause:  synErrUnknownKey,
			Detail: strings.Join(names, ", "),
		})
	}
	errs = append(errs, desc.check()...)
	if len(errs) > 0 {
		return nil, errs
	}

	return desc, nil
}

func (d *Description) check() verr.SpecErrors {
	var errs verr.SpecErrors
	add := func(cause error, detail string) {
		errs = append(errs, &verr.SpecError{
			Cause:  cause,
			Detail: detail,
		})
	}

	for _, t := range d.Terminals {
		if t == "" {
			add(synErrEmptySymbolName, "terminals")
		}
	}
	for i, p := range d.Precedence {
		where := fmt.Sprintf("precedence #%v", i+1)
		if p.Assoc == "" {
			add(synErrNoAssoc, where)
		}
		if len(p.Terminals) == 0 {
			add(synErrNoPrecTerminal, where)
		}
		for _, t := range p.Terminals {
			if t == "" {
				add(synErrEmptySymbolName, where)
			}
		}
	}
	for i, p := range d.Productions {
		where := fmt.Sprintf("production #%v", i+1)
		if p.LHS == "" {
			add(synErrNoProductionName, where)
		}
		for _, s := range p.RHS {
			if s == "" {
				add(synErrEmptySymbolName, where)
			}
		}
	}

	return errs
}
