package compressor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressor_Compress(t *testing.T) {
	x := 0 // an empty value

	allCompressors := func() []Compressor {
		return []Compressor{
			NewUniqueEntriesTable(x),
			NewRowDisplacementTable(x),
		}
	}

	tests := []struct {
		caption  string
		original []int
		rowCount int
		colCount int
	}{
		{
			caption: "all rows are identical",
			original: []int{
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
				1, 1, 1, 1, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			caption: "all entries are empty",
			original: []int{
				x, x, x, x, x,
				x, x, x, x, x,
				x, x, x, x, x,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			caption: "an empty row is between full rows",
			original: []int{
				1, 1, 1, 1, 1,
				x, x, x, x, x,
				1, 1, 1, 1, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			caption: "each row has a hole",
			original: []int{
				1, x, 1, 1, 1,
				1, 1, x, 1, 1,
				1, 1, 1, x, 1,
			},
			rowCount: 3,
			colCount: 5,
		},
		{
			caption: "sparse rows look like an action table",
			original: []int{
				x, x, -3, x, -4, x,
				x, 1, -5, x, x, x,
				x, 4, 4, 4, x, 4,
				x, x, -3, x, -4, x,
				x, 2, 2, -6, x, 2,
			},
			rowCount: 5,
			colCount: 6,
		},
	}
	for _, tt := range tests {
		for _, comp := range allCompressors() {
			t.Run(fmt.Sprintf("%T %v", comp, tt.caption), func(t *testing.T) {
				assert := assert.New(t)
				require := require.New(t)

				dup := make([]int, len(tt.original))
				copy(dup, tt.original)

				orig, err := NewOriginalTable(tt.original, tt.colCount)
				require.NoError(err)
				require.NoError(comp.Compress(orig))

				rowCount, colCount := comp.OriginalTableSize()
				require.Equal(tt.rowCount, rowCount)
				require.Equal(tt.colCount, colCount)
				for i := 0; i < tt.rowCount; i++ {
					for j := 0; j < tt.colCount; j++ {
						v, err := comp.Lookup(i, j)
						require.NoError(err)
						assert.Equal(tt.original[i*tt.colCount+j], v, "entry (%v, %v)", i, j)
					}
				}

				_, err = comp.Lookup(0, -1)
				assert.Error(err)
				_, err = comp.Lookup(-1, 0)
				assert.Error(err)
				_, err = comp.Lookup(rowCount-1, colCount)
				assert.Error(err)
				_, err = comp.Lookup(rowCount, colCount-1)
				assert.Error(err)

				assert.Equal(dup, tt.original, "the original table must be kept intact")
			})
		}
	}
}

func TestUniqueEntriesTable_Spec(t *testing.T) {
	original := []int{
		x0, -2, x0, 3,
		x0, -2, x0, 3,
		5, x0, x0, x0,
	}
	orig, err := NewOriginalTable(original, 4)
	require.NoError(t, err)

	tab := NewUniqueEntriesTable(x0)
	require.NoError(t, tab.Compress(orig))
	assert.Equal(t, []int{0, 0, 1}, tab.RowNums)

	s := tab.Spec()
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			v, err := s.Lookup(i, j)
			require.NoError(t, err)
			assert.Equal(t, original[i*4+j], v, "entry (%v, %v)", i, j)
		}
	}
}

const x0 = 0

func TestNewOriginalTable(t *testing.T) {
	_, err := NewOriginalTable(nil, 1)
	assert.Error(t, err)
	_, err = NewOriginalTable([]int{1, 2, 3}, 0)
	assert.Error(t, err)
	_, err = NewOriginalTable([]int{1, 2, 3}, 2)
	assert.Error(t, err)
}
