package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akolanti/ContractRAG/internal/domain/errorModel"
)

func TestSplit_ContractScenario(t *testing.T) {
	text := strings.Repeat("a", 2500)

	specs, err := Split(text, 1000, 200)
	require.NoError(t, err)
	require.Len(t, specs, 3)

	want := [][2]int{{0, 1000}, {800, 1800}, {1600, 2500}}
	for i, s := range specs {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, want[i][0], s.CharStart)
		assert.Equal(t, want[i][1], s.CharEnd)
	}
	assert.Len(t, []rune(specs[2].Text), 900)
}

func TestSplit_EmptyText(t *testing.T) {
	specs, err := Split("", 1000, 200)
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestSplit_ShortTextIsOneChunk(t *testing.T) {
	specs, err := Split("Termination requires 30 days notice.", 1000, 200)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, 0, specs[0].CharStart)
	assert.Equal(t, 36, specs[0].CharEnd)
}

func TestSplit_ExactlyChunkSize(t *testing.T) {
	specs, err := Split(strings.Repeat("x", 1000), 1000, 200)
	require.NoError(t, err)
	require.Len(t, specs, 1)
}

func TestSplit_InvalidParameters(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
	}{
		{"zero overlap", 100, 0},
		{"negative overlap", 100, -5},
		{"overlap equals size", 100, 100},
		{"overlap above size", 100, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split("some text", tt.size, tt.overlap)
			require.Error(t, err)
			assert.Equal(t, errorModel.KindValidation, errorModel.KindOf(err))
		})
	}
}

func TestSplit_CoverageAndOverlap(t *testing.T) {
	params := []struct{ size, overlap int }{
		{10, 3}, {7, 1}, {50, 49}, {1000, 200}, {2, 1},
	}
	lengths := []int{1, 2, 9, 10, 11, 57, 101, 999, 2500}

	for _, p := range params {
		for _, n := range lengths {
			text := strings.Repeat("b", n)
			specs, err := Split(text, p.size, p.overlap)
			require.NoError(t, err)
			require.NotEmpty(t, specs)

			assert.Equal(t, 0, specs[0].CharStart)
			assert.Equal(t, n, specs[len(specs)-1].CharEnd, "final chunk must end at text length")
			assert.Equal(t, Count(n, p.size, p.overlap), len(specs))

			for i := 1; i < len(specs); i++ {
				prev, cur := specs[i-1], specs[i]
				assert.LessOrEqual(t, prev.CharStart, cur.CharStart)
				// no gaps
				assert.LessOrEqual(t, cur.CharStart, prev.CharEnd)
				assert.Equal(t, p.overlap, prev.CharEnd-cur.CharStart)
				assert.LessOrEqual(t, cur.CharEnd, n)
			}
		}
	}
}

func TestSplit_TailNotReChunked(t *testing.T) {
	// 1000 + (1000-200) = 1800 ends exactly; no extra 200-char tail chunk.
	specs, err := Split(strings.Repeat("c", 1800), 1000, 200)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, 1800, specs[1].CharEnd)

	// 1801 leaves a one-char remainder past the second chunk.
	specs, err = Split(strings.Repeat("c", 1801), 1000, 200)
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, 1600, specs[2].CharStart)
	assert.Equal(t, 1801, specs[2].CharEnd)
}

func TestSplit_Idempotent(t *testing.T) {
	text := strings.Repeat("The Supplier shall indemnify the Customer. ", 80)
	a, err := Split(text, 300, 40)
	require.NoError(t, err)
	b, err := Split(text, 300, 40)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSplit_CountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("é", 25)
	specs, err := Split(text, 10, 2)
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, 25, specs[2].CharEnd)
	assert.Equal(t, strings.Repeat("é", 10), specs[0].Text)
}

func TestNew_Options(t *testing.T) {
	c, err := New(WithChunkSize(500), WithOverlap(50))
	require.NoError(t, err)
	assert.Equal(t, 500, c.Size())
	assert.Equal(t, 50, c.Overlap())
	assert.Len(t, c.Split(strings.Repeat("z", 950)), 2)

	_, err = New(WithOverlap(2000))
	require.Error(t, err)
}
