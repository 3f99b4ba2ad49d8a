package wordexpr_test

import (
	"testing"

	"github.com/fine-structures/spi.SDK/libspi/wordexpr"
	"github.com/fine-structures/spi.SDK/spi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		expr string
		want spi.Word
	}{
		{"a b A B", spi.Word{1, 2, -1, -2}},
		{"abAB", spi.Word{1, 2, -1, -2}},
		{"1 2 -1 -2", spi.Word{1, 2, -1, -2}},
		{"x1 x2 X1 X2", spi.Word{1, 2, -1, -2}},
		{"[a,b]", spi.Word{1, 2, -1, -2}},
		{"[x1, x2]", spi.Word{1, 2, -1, -2}},
		{"a^2 b^2", spi.Word{1, 1, 2, 2}},
		{"x1^2 x2^-1", spi.Word{1, 1, -2}},
		{"(ab)^-1", spi.Word{-2, -1}},
		{"[a,b]^2", spi.Word{1, 2, -1, -2, 1, 2, -1, -2}},
		{"a^0 b", spi.Word{2}},
		{"a b B c", spi.Word{1, 3}},
		{"[ab, c]", spi.Word{1, 2, 3, -2, -1, -3}},
		{"x12 -3", spi.Word{12, -3}},
	}
	for _, tc := range cases {
		w, err := wordexpr.Parse(tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, w, tc.expr)
	}
}

func TestParseErrors(t *testing.T) {
	for _, expr := range []string{
		"a b )",
		"[a b]",
		"a^",
		"a * b",
		"x0",
		"1 0 2",
		"a^100000",
	} {
		_, err := wordexpr.Parse(expr)
		assert.ErrorIs(t, err, spi.ErrBadWord, expr)
	}
	assert.Panics(t, func() { wordexpr.MustParse("(a") })
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "abAB", wordexpr.Format(spi.Word{1, 2, -1, -2}))
	assert.Equal(t, "zZ", wordexpr.Format(spi.Word{26, -26}))
	assert.Equal(t, "27 -1", wordexpr.Format(spi.Word{27, -1}))

	w := spi.Word{3, -1, 2, 2}
	assert.Equal(t, w, wordexpr.MustParse(wordexpr.Format(w)))
}
