package grammar

import "fmt"

type CompiledGrammar struct {
	Name         string        `json:"name"`
	ParsingTable *ParsingTable `json:"parsing_table"`
}

// ActionAccept is the action entry meaning accept. It is a reduce by the augmented start
// production, and an action entry is -state for shift, +production for reduce, and 0 for error.
const ActionAccept = 1

type RowDisplacementTable struct {
	OriginalRowCount int   `json:"original_row_count"`
	OriginalColCount int   `json:"original_col_count"`
	EmptyValue       int   `json:"empty_value"`
	Entries          []int `json:"entries"`
	Bounds           []int `json:"bounds"`
	RowDisplacement  []int `json:"row_displacement"`
}

func (tab *RowDisplacementTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if d+col >= len(tab.Bounds) || tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

// UniqueEntriesTable shares identical rows. The unique rows are themselves compressed with row
// displacement.
type UniqueEntriesTable struct {
	UniqueEntries    *RowDisplacementTable `json:"unique_entries"`
	RowNums          []int                 `json:"row_nums"`
	OriginalRowCount int                   `json:"original_row_count"`
	OriginalColCount int                   `json:"original_col_count"`
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries.Lookup(tab.RowNums[row], col)
}

type ParsingTable struct {
	Class string `json:"class"`

	// Action and GoTo are row-major tables indexed by a state number and a symbol number. They are
	// empty when the compressed forms are present.
	Action           []int               `json:"action,omitempty"`
	GoTo             []int               `json:"goto,omitempty"`
	CompressedAction *UniqueEntriesTable `json:"compressed_action,omitempty"`
	CompressedGoTo   *UniqueEntriesTable `json:"compressed_goto,omitempty"`

	StateCount              int      `json:"state_count"`
	InitialState            int      `json:"initial_state"`
	StartProduction         int      `json:"start_production"`
	LHSSymbols              []int    `json:"lhs_symbols"`
	AlternativeSymbolCounts []int    `json:"alternative_symbol_counts"`
	Terminals               []string `json:"terminals"`
	TerminalCount           int      `json:"terminal_count"`
	NonTerminals            []string `json:"non_terminals"`
	NonTerminalCount        int      `json:"non_terminal_count"`
	EOFSymbol               int      `json:"eof_symbol"`
}

// ActionEntry returns an action entry whether the table is compressed or not.
func (t *ParsingTable) ActionEntry(state, term int) (int, error) {
	if t.CompressedAction != nil {
		return t.CompressedAction.Lookup(state, term)
	}
	if state < 0 || state >= t.StateCount || term < 0 || term >= t.TerminalCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", state, term)
	}
	return t.Action[state*t.TerminalCount+term], nil
}

// GoToEntry returns the destination state of a goto, or 0 when there is none.
func (t *ParsingTable) GoToEntry(state, nonTerm int) (int, error) {
	if t.CompressedGoTo != nil {
		return t.CompressedGoTo.Lookup(state, nonTerm)
	}
	if state < 0 || state >= t.StateCount || nonTerm < 0 || nonTerm >= t.NonTerminalCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", state, nonTerm)
	}
	return t.GoTo[state*t.NonTerminalCount+nonTerm], nil
}
