package compressor

import (
	"fmt"
	"sort"

	"github.com/cnf/structhash"
	spec "github.com/nihei9/lalrgen/spec/grammar"
)

type OriginalTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewOriginalTable(entries []int, colCount int) (*OriginalTable, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("enries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable) row(n int) []int {
	return t.entries[n*t.colCount : (n+1)*t.colCount]
}

type Compressor interface {
	Compress(orig *OriginalTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var (
	_ Compressor = &UniqueEntriesTable{}
	_ Compressor = &RowDisplacementTable{}
)

// UniqueEntriesTable stores each distinct row once. The distinct rows are compressed further by a
// RowDisplacementTable.
type UniqueEntriesTable struct {
	UniqueEntries    *RowDisplacementTable
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueEntriesTable(emptyValue int) *UniqueEntriesTable {
	return &UniqueEntriesTable{
		UniqueEntries: NewRowDisplacementTable(emptyValue),
	}
}

func (tab *UniqueEntriesTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries.Lookup(tab.RowNums[row], col)
}

func (tab *UniqueEntriesTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type rowDigest struct {
	Entries []int
}

func (tab *UniqueEntriesTable) Compress(orig *OriginalTable) error {
	var uniqueEntries []int
	rowNums := make([]int, orig.rowCount)
	hash2RowNum := map[string]int{}
	nextRowNum := 0
	for row := 0; row < orig.rowCount; row++ {
		rowHash, err := structhash.Hash(&rowDigest{
			Entries: orig.row(row),
		}, 1)
		if err != nil {
			return err
		}
		rowNum, ok := hash2RowNum[rowHash]
		if !ok {
			rowNum = nextRowNum
			nextRowNum++
			hash2RowNum[rowHash] = rowNum
			uniqueEntries = append(uniqueEntries, orig.row(row)...)
		}
		rowNums[row] = rowNum
	}

	uniq, err := NewOriginalTable(uniqueEntries, orig.colCount)
	if err != nil {
		return err
	}
	if err := tab.UniqueEntries.Compress(uniq); err != nil {
		return err
	}
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

// Spec converts the table into its portable form.
func (tab *UniqueEntriesTable) Spec() *spec.UniqueEntriesTable {
	return &spec.UniqueEntriesTable{
		UniqueEntries:    tab.UniqueEntries.Spec(),
		RowNums:          tab.RowNums,
		OriginalRowCount: tab.OriginalRowCount,
		OriginalColCount: tab.OriginalColCount,
	}
}

const ForbiddenValue = -1

// RowDisplacementTable overlaps sparse rows in a single array. Bounds records which row owns each
// slot, so a lookup of an empty cell can't read an entry of another row.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if d+col >= len(tab.Bounds) || tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type rowInfo struct {
	rowNum      int
	nonEmptyCol []int
}

// Compress places denser rows first. Each row goes to the lowest displacement where its non-empty
// columns don't collide with slots already taken.
func (tab *RowDisplacementTable) Compress(orig *OriginalTable) error {
	rows := make([]*rowInfo, orig.rowCount)
	for row := 0; row < orig.rowCount; row++ {
		info := &rowInfo{
			rowNum: row,
		}
		for col, v := range orig.row(row) {
			if v != tab.EmptyValue {
				info.nonEmptyCol = append(info.nonEmptyCol, col)
			}
		}
		rows[row] = info
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i].nonEmptyCol) > len(rows[j].nonEmptyCol)
	})

	var entries []int
	var bounds []int
	rowDisplacement := make([]int, orig.rowCount)
	grow := func(size int) {
		for len(entries) < size {
			entries = append(entries, tab.EmptyValue)
			bounds = append(bounds, ForbiddenValue)
		}
	}

	nextRowDisplacement := 0
	for _, info := range rows {
		if len(info.nonEmptyCol) == 0 {
			continue
		}

		d := nextRowDisplacement
		for {
			grow(d + orig.colCount)
			overlapped := false
			for _, col := range info.nonEmptyCol {
				if bounds[d+col] != ForbiddenValue {
					overlapped = true
					break
				}
			}
			if !overlapped {
				break
			}
			d++
		}

		rowDisplacement[info.rowNum] = d
		for _, col := range info.nonEmptyCol {
			entries[d+col] = orig.row(info.rowNum)[col]
			bounds[d+col] = info.rowNum
		}
		nextRowDisplacement = d + 1
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries
	tab.Bounds = bounds
	tab.RowDisplacement = rowDisplacement

	return nil
}

func (tab *RowDisplacementTable) Spec() *spec.RowDisplacementTable {
	return &spec.RowDisplacementTable{
		OriginalRowCount: tab.OriginalRowCount,
		OriginalColCount: tab.OriginalColCount,
		EmptyValue:       tab.EmptyValue,
		Entries:          tab.Entries,
		Bounds:           tab.Bounds,
		RowDisplacement:  tab.RowDisplacement,
	}
}
