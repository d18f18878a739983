package grammar

import (
	verr "github.com/nihei9/lalrgen/error"
	tomlspec "github.com/nihei9/lalrgen/spec"
)

// NewGrammarBuilderFromDescription replays a TOML description into a builder. Declarations keep
// the order of the description, so precedence levels rise with each [[precedence]] entry.
func NewGrammarBuilderFromDescription(desc *tomlspec.Description) (*GrammarBuilder, error) {
	b := NewGrammarBuilder(desc.Name)
	if len(desc.Terminals) > 0 {
		b.Terminal(desc.Terminals...)
	}

	var errs verr.SpecErrors
	for _, p := range desc.Precedence {
		assoc, err := ParseAssoc(p.Assoc)
		if err != nil {
			errs = append(errs, &verr.SpecError{
				Cause:  semErrInvalidAssoc,
				Detail: p.Assoc,
			})
			continue
		}
		switch assoc {
		case AssocLeft:
			b.Left(p.Terminals...)
		case AssocRight:
			b.Right(p.Terminals...)
		default:
			b.NonAssoc(p.Terminals...)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if desc.Start != "" {
		b.Start(desc.Start)
	}
	for _, p := range desc.Productions {
		d := b.Production(p.LHS, p.RHS...)
		if p.Prec != "" {
			d.WithPrecOf(p.Prec)
		}
	}

	return b, nil
}
