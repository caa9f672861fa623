package toolkit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotBlank(t *testing.T) {
	require.NoError(t, NotBlank("query", "x"))
	require.EqualError(t, NotBlank("query", "  \t"), "query must not be blank")
}

func TestInRange(t *testing.T) {
	require.NoError(t, InRange("max_results", nil, 1, 20))

	n := 5
	require.NoError(t, InRange("max_results", &n, 1, 20))

	n = 0
	require.EqualError(t, InRange("max_results", &n, 1, 20), "max_results must be between 1 and 20, got 0")
}

func TestOneOf(t *testing.T) {
	require.NoError(t, OneOf("action_type", "click", "click", "extract"))
	require.EqualError(t, OneOf("action_type", "hover", "click", "extract"),
		`action_type must be one of click, extract, got "hover"`)
}

func TestOr(t *testing.T) {
	require.True(t, Or[bool](nil, true))

	f := false
	require.False(t, Or(&f, true))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "abc", Truncate(" abc ", 10))
	require.Equal(t, "ab…", Truncate("abcdef", 2))
	require.Equal(t, "héllo", Truncate("héllo", 0))
}

func TestBuilder(t *testing.T) {
	var b Builder

	b.Heading("Answer")
	b.Linef("%d items", 2)
	b.Field("Skipped", " ")
	b.Field("Source", "local")
	b.Heading("Done")

	require.Equal(t, "Answer\n2 items\nSource: local\n\nDone", b.Text())
}
