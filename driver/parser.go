/*
Package driver runs an LR parser on the tables of a compiled grammar.

The action and goto tables may be flat or compressed; the parser reads both
through the same lookups. Parsing stops at the first syntax error, and the
error lists the terminals the parser could have accepted instead.
*/
package driver

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lalrgen.driver'.
func tracer() tracing.Trace {
	return tracing.Select("lalrgen.driver")
}

type SyntaxError struct {
	Row               int
	Col               int
	Message           string
	Token             VToken
	ExpectedTerminals []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v:%v: %v", e.Row+1, e.Col+1, e.Message)
}

type ParserOption func(p *Parser) error

func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		return nil
	}
}

type Parser struct {
	toks       TokenStream
	gram       Grammar
	stateStack *stateStack
	semAct     SemanticActionSet
	synErrs    []*SyntaxError
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		toks:       toks,
		gram:       gram,
		stateStack: &stateStack{},
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Parser) Parse() error {
	p.stateStack.push(p.gram.InitialState())
	tok, err := p.nextToken()
	if err != nil {
		return err
	}

	for {
		act, err := p.lookupAction(tok)
		if err != nil {
			return err
		}
		switch {
		case act < 0: // Shift
			nextState := act * -1
			tracer().Debugf("state %v: shift %v", p.stateStack.top(), nextState)

			p.stateStack.push(nextState)
			if p.semAct != nil {
				p.semAct.Shift(tok)
			}

			tok, err = p.nextToken()
			if err != nil {
				return err
			}
		case act > 0: // Reduce
			prodNum := act
			tracer().Debugf("state %v: reduce %v", p.stateStack.top(), prodNum)

			accepted, err := p.reduce(prodNum)
			if err != nil {
				return err
			}
			if accepted {
				if p.semAct != nil {
					p.semAct.Accept()
				}

				return nil
			}

			if p.semAct != nil {
				p.semAct.Reduce(prodNum)
			}
		default: // Error
			row, col := tok.Position()
			p.synErrs = append(p.synErrs, &SyntaxError{
				Row:               row,
				Col:               col,
				Message:           "unexpected token",
				Token:             tok,
				ExpectedTerminals: p.searchLookahead(p.stateStack.top()),
			})

			if p.semAct != nil {
				p.semAct.MissError(tok)
			}

			return nil
		}
	}
}

func (p *Parser) nextToken() (VToken, error) {
	return p.toks.Next()
}

func (p *Parser) tokenToTerminal(tok VToken) int {
	if tok.EOF() {
		return p.gram.EOF()
	}

	return tok.TerminalID()
}

// lookupAction returns the error action for invalid tokens because no action is indexed by the
// terminal 0.
func (p *Parser) lookupAction(tok VToken) (int, error) {
	return p.gram.Action(p.stateStack.top(), p.tokenToTerminal(tok))
}

func (p *Parser) reduce(prodNum int) (bool, error) {
	if prodNum == p.gram.StartProduction() {
		return true, nil
	}
	lhs := p.gram.LHS(prodNum)
	n := p.gram.AlternativeSymbolCount(prodNum)
	p.stateStack.pop(n)
	nextState, err := p.gram.GoTo(p.stateStack.top(), lhs)
	if err != nil {
		return false, err
	}
	if nextState == 0 {
		return false, fmt.Errorf("goto entry is missing; state: %v, non-terminal: %v", p.stateStack.top(), p.gram.NonTerminal(lhs))
	}
	p.stateStack.push(nextState)
	return false, nil
}

func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.synErrs
}

func (p *Parser) searchLookahead(state int) []string {
	kinds := []string{}
	for term := 1; term < p.gram.TerminalCount(); term++ {
		act, err := p.gram.Action(state, term)
		if err != nil || act == 0 {
			continue
		}
		kinds = append(kinds, p.gram.Terminal(term))
	}
	return kinds
}

type stateStack struct {
	items []int
}

func (s *stateStack) top() int {
	return s.items[len(s.items)-1]
}

func (s *stateStack) push(state int) {
	s.items = append(s.items, state)
}

func (s *stateStack) pop(n int) {
	s.items = s.items[:len(s.items)-n]
}
