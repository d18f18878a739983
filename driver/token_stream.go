package driver

import (
	"bufio"
	"io"
	"unicode"
)

type VToken interface {
	// TerminalID returns 0 for an invalid token.
	TerminalID() int
	Lexeme() []byte
	EOF() bool
	Invalid() bool

	// Position returns a zero-based row and column.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	terminalID int
	lexeme     []byte
	eof        bool
	row        int
	col        int
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() []byte {
	return t.lexeme
}

func (t *vToken) EOF() bool {
	return t.eof
}

func (t *vToken) Invalid() bool {
	return !t.eof && t.terminalID == 0
}

func (t *vToken) Position() (int, int) {
	return t.row, t.col
}

// terminalStream reads terminal names separated by white spaces. A compiled grammar carries no
// lexer, so a source is a sequence of terminal names such as `id + id * id`.
type terminalStream struct {
	src        *bufio.Reader
	nameToTerm map[string]int
	row        int
	col        int
	eof        bool
}

// NewTerminalStream returns a stream that maps each name to a terminal of the grammar. Names that
// aren't terminals become invalid tokens.
func NewTerminalStream(g Grammar, src io.Reader) TokenStream {
	nameToTerm := map[string]int{}
	for term := 0; term < g.TerminalCount(); term++ {
		if term == g.EOF() {
			continue
		}
		if name := g.Terminal(term); name != "" {
			nameToTerm[name] = term
		}
	}
	return &terminalStream{
		src:        bufio.NewReader(src),
		nameToTerm: nameToTerm,
	}
}

func (s *terminalStream) Next() (VToken, error) {
	if s.eof {
		return s.eofToken(), nil
	}

	var lexeme []rune
	var row, col int
	for {
		c, _, err := s.src.ReadRune()
		if err == io.EOF {
			s.eof = true
			break
		}
		if err != nil {
			return nil, err
		}

		if unicode.IsSpace(c) {
			if c == '\n' {
				s.row++
				s.col = 0
			} else {
				s.col++
			}
			if len(lexeme) > 0 {
				break
			}
			continue
		}

		if len(lexeme) == 0 {
			row, col = s.row, s.col
		}
		lexeme = append(lexeme, c)
		s.col++
	}

	if len(lexeme) == 0 {
		return s.eofToken(), nil
	}

	return &vToken{
		terminalID: s.nameToTerm[string(lexeme)],
		lexeme:     []byte(string(lexeme)),
		row:        row,
		col:        col,
	}, nil
}

func (s *terminalStream) eofToken() VToken {
	return &vToken{
		eof: true,
		row: s.row,
		col: s.col,
	}
}
