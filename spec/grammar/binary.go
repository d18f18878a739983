package grammar

import (
	"encoding"
	"fmt"

	"github.com/dekarrin/rezi"
)

// MarshalBinary encodes a compiled grammar with REZI. The result is smaller and faster to load
// than the JSON form.
func (g *CompiledGrammar) MarshalBinary() ([]byte, error) {
	if g.ParsingTable == nil {
		return nil, fmt.Errorf("a compiled grammar needs a parsing table")
	}
	var data []byte
	data = append(data, rezi.EncString(g.Name)...)
	data = append(data, rezi.EncBinary(g.ParsingTable)...)
	return data, nil
}

func (g *CompiledGrammar) UnmarshalBinary(data []byte) error {
	r := &binReader{data: data}
	g.Name = r.string()
	g.ParsingTable = &ParsingTable{}
	r.binary(g.ParsingTable)
	return r.err
}

func (t *ParsingTable) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncString(t.Class)...)
	data = append(data, encInts(t.Action)...)
	data = append(data, encInts(t.GoTo)...)
	data = append(data, encOptional(t.CompressedAction)...)
	data = append(data, encOptional(t.CompressedGoTo)...)
	data = append(data, rezi.EncInt(t.StateCount)...)
	data = append(data, rezi.EncInt(t.InitialState)...)
	data = append(data, rezi.EncInt(t.StartProduction)...)
	data = append(data, encInts(t.LHSSymbols)...)
	data = append(data, encInts(t.AlternativeSymbolCounts)...)
	data = append(data, encStrings(t.Terminals)...)
	data = append(data, rezi.EncInt(t.TerminalCount)...)
	data = append(data, encStrings(t.NonTerminals)...)
	data = append(data, rezi.EncInt(t.NonTerminalCount)...)
	data = append(data, rezi.EncInt(t.EOFSymbol)...)
	return data, nil
}

func (t *ParsingTable) UnmarshalBinary(data []byte) error {
	r := &binReader{data: data}
	t.Class = r.string()
	t.Action = r.ints()
	t.GoTo = r.ints()
	if r.bool() {
		t.CompressedAction = &UniqueEntriesTable{}
		r.binary(t.CompressedAction)
	}
	if r.bool() {
		t.CompressedGoTo = &UniqueEntriesTable{}
		r.binary(t.CompressedGoTo)
	}
	t.StateCount = r.int()
	t.InitialState = r.int()
	t.StartProduction = r.int()
	t.LHSSymbols = r.ints()
	t.AlternativeSymbolCounts = r.ints()
	t.Terminals = r.strings()
	t.TerminalCount = r.int()
	t.NonTerminals = r.strings()
	t.NonTerminalCount = r.int()
	t.EOFSymbol = r.int()
	return r.err
}

func (tab *UniqueEntriesTable) MarshalBinary() ([]byte, error) {
	if tab.UniqueEntries == nil {
		return nil, fmt.Errorf("unique entries are missing")
	}
	var data []byte
	data = append(data, rezi.EncBinary(tab.UniqueEntries)...)
	data = append(data, encInts(tab.RowNums)...)
	data = append(data, rezi.EncInt(tab.OriginalRowCount)...)
	data = append(data, rezi.EncInt(tab.OriginalColCount)...)
	return data, nil
}

func (tab *UniqueEntriesTable) UnmarshalBinary(data []byte) error {
	r := &binReader{data: data}
	tab.UniqueEntries = &RowDisplacementTable{}
	r.binary(tab.UniqueEntries)
	tab.RowNums = r.ints()
	tab.OriginalRowCount = r.int()
	tab.OriginalColCount = r.int()
	return r.err
}

func (tab *RowDisplacementTable) MarshalBinary() ([]byte, error) {
	var data []byte
	data = append(data, rezi.EncInt(tab.OriginalRowCount)...)
	data = append(data, rezi.EncInt(tab.OriginalColCount)...)
	data = append(data, rezi.EncInt(tab.EmptyValue)...)
	data = append(data, encInts(tab.Entries)...)
	data = append(data, encInts(tab.Bounds)...)
	data = append(data, encInts(tab.RowDisplacement)...)
	return data, nil
}

func (tab *RowDisplacementTable) UnmarshalBinary(data []byte) error {
	r := &binReader{data: data}
	tab.OriginalRowCount = r.int()
	tab.OriginalColCount = r.int()
	tab.EmptyValue = r.int()
	tab.Entries = r.ints()
	tab.Bounds = r.ints()
	tab.RowDisplacement = r.ints()
	return r.err
}

func encInts(s []int) []byte {
	data := rezi.EncInt(len(s))
	for _, v := range s {
		data = append(data, rezi.EncInt(v)...)
	}
	return data
}

func encStrings(s []string) []byte {
	data := rezi.EncInt(len(s))
	for _, v := range s {
		data = append(data, rezi.EncString(v)...)
	}
	return data
}

// encOptional writes a presence flag followed by the table when it is present.
func encOptional(tab *UniqueEntriesTable) []byte {
	if tab == nil {
		return rezi.EncBool(false)
	}
	return append(rezi.EncBool(true), rezi.EncBinary(tab)...)
}

// binReader decodes values in sequence. After the first failure it keeps returning zero values
// and err holds the failure.
type binReader struct {
	data []byte
	err  error
}

func (r *binReader) fail(what string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("failed to decode %v: %w", what, err)
	}
}

func (r *binReader) int() int {
	if r.err != nil {
		return 0
	}
	v, n, err := rezi.DecInt(r.data)
	if err != nil {
		r.fail("an integer", err)
		return 0
	}
	r.data = r.data[n:]
	return v
}

func (r *binReader) bool() bool {
	if r.err != nil {
		return false
	}
	v, n, err := rezi.DecBool(r.data)
	if err != nil {
		r.fail("a flag", err)
		return false
	}
	r.data = r.data[n:]
	return v
}

func (r *binReader) string() string {
	if r.err != nil {
		return ""
	}
	v, n, err := rezi.DecString(r.data)
	if err != nil {
		r.fail("a string", err)
		return ""
	}
	r.data = r.data[n:]
	return v
}

func (r *binReader) binary(b encoding.BinaryUnmarshaler) {
	if r.err != nil {
		return
	}
	n, err := rezi.DecBinary(r.data, b)
	if err != nil {
		r.fail("a nested value", err)
		return
	}
	r.data = r.data[n:]
}

func (r *binReader) ints() []int {
	count := r.int()
	if r.err != nil || count == 0 {
		return nil
	}
	s := make([]int, count)
	for i := range s {
		s[i] = r.int()
	}
	return s
}

func (r *binReader) strings() []string {
	count := r.int()
	if r.err != nil || count == 0 {
		return nil
	}
	s := make([]string, count)
	for i := range s {
		s[i] = r.string()
	}
	return s
}
