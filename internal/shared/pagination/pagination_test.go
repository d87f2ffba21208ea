package pagination

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"books-api/internal/shared/apperror"
)

func TestParseDefaults(t *testing.T) {
	cases := []struct {
		name      string
		page, lim string
		wantPage  int
		wantLimit int
	}{
		{"absent", "", "", 1, 10},
		{"non numeric", "abc", "ten", 1, 10},
		{"explicit", "3", "25", 3, 25},
		{"max limit", "1", "100", 1, 100},
		{"mixed", "2", "x", 2, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.page, tc.lim)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
		})
	}
}

func TestParseOutOfRange(t *testing.T) {
	for _, in := range [][2]string{{"0", "10"}, {"-1", "10"}, {"1", "0"}, {"1", "101"}} {
		_, err := Parse(in[0], in[1])
		require.Error(t, err, in)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	}
}

func TestOffsetAndTotals(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	assert.Equal(t, 10, p.Offset())

	res := NewResult([]int{11, 12}, 25, p)
	assert.Equal(t, int64(25), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 10, res.Limit)
}

func TestNewResultEmpty(t *testing.T) {
	res := NewResult[string](nil, 0, Params{Page: 1, Limit: 10})
	assert.NotNil(t, res.Items)
	assert.Equal(t, 0, res.TotalPages)
}

func TestApply(t *testing.T) {
	b := sq.Select("id").From("authors").PlaceholderFormat(sq.Dollar)
	query, _, err := Params{Page: 3, Limit: 20}.Apply(b).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM authors LIMIT 20 OFFSET 40", query)
}
