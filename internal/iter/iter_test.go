package iter

import (
	"context"
	"fmt"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"gopkg.funfront.dev/compiler.go/internal/fs"
	"gopkg.funfront.dev/compiler.go/internal/lang"
)

type elem struct {
	value int
}

func TestLookahead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	numValues := 10

	for x := 0; x < numValues; x = x + 1 {
		t.Run(fmt.Sprintf("LA(%d)", x), func(t *testing.T) {
			elems := make([]*elem, 0, numValues)
			for y := 0; y < numValues; y = y + 1 {
				elems = append(elems, &elem{value: y})
			}
			iter := NewSlice(elems)
			look := NewLookahead(iter, uint8(x))
			for y := 0; y < numValues; y = y + 1 {
				val := look.Next(ctx)
				require.True(t, val.IsPresent())
				require.Equal(t, y, val.Value().value)

				expectedPeek := y + x
				peek := look.Lookahead(ctx, uint8(x))
				if expectedPeek < numValues {
					require.True(t, peek.IsPresent())
					require.Equal(t, expectedPeek, peek.Value().value)
				} else {
					require.False(t, peek.IsPresent())
				}
			}
			require.False(t, look.Next(ctx).IsPresent())
			require.Nil(t, look.Close(ctx))
		})
	}
}

func TestLookaheadBeforeNext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	look := NewLookahead(NewSlice([]int{7, 8, 9}), 1)

	first, ok := look.Lookahead(ctx, 0).Get()
	require.True(t, ok)
	require.Equal(t, 7, first)
	second, ok := look.Lookahead(ctx, 1).Get()
	require.True(t, ok)
	require.Equal(t, 8, second)
	require.False(t, look.Lookahead(ctx, 2).IsPresent())

	// Peeking does not consume; the first Next shifts past the peeked value.
	require.Equal(t, 8, look.Next(ctx).Value())
	require.Equal(t, 9, look.Lookahead(ctx, 1).Value())
}

func TestSliceExhausted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	it := NewSlice([]string{"a"})
	require.Equal(t, "a", it.Next(ctx).Value())
	for x := 0; x < 3; x = x + 1 {
		require.False(t, it.Next(ctx).IsPresent())
	}
}

func TestCollect(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	out, err := Collect(ctx, NewSlice([]int{1, 2, 3}))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, out)

	out, err = Collect(ctx, NewSlice([]int{}))
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestUnicodeFileBody(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []lang.CodePoint
	}{
		{
			name:     "empty",
			input:    "",
			expected: nil,
		},
		{
			name:     "ascii",
			input:    "let x",
			expected: []lang.CodePoint{'l', 'e', 't', ' ', 'x'},
		},
		{
			name:     "multibyte",
			input:    "aé世",
			expected: []lang.CodePoint{'a', 0xe9, 0x4e16},
		},
		{
			name:     "invalid utf8",
			input:    "a\xffb",
			expected: []lang.CodePoint{'a', utf8.RuneError, 'b'},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			f := fs.NewFileString("/test.fun", testCase.input, lang.FileKindFun)
			body, err := f.Body(ctx)
			require.NoError(t, err)
			points, err := Collect(ctx, NewUnicodeFileBodyCtx(ctx, body))
			require.NoError(t, err)
			require.Equal(t, testCase.expected, points)
		})
	}
}

var benchEscapeValue *elem
var benchEscapeValuePeek *elem

func BenchmarkLookahead(b *testing.B) {
	ctx := context.Background()
	sliceSize := 1000
	slice := make([]*elem, sliceSize)
	for x := 0; x < sliceSize; x = x + 1 {
		slice[x] = &elem{value: x}
	}

	var loopEscapeValue *elem
	var loopEscapeValuePeek *elem
	b.ResetTimer()
	for n := 0; n < b.N; n = n + 1 {
		look := NewLookahead(NewSlice(slice), 1)
		for x := 0; x < sliceSize; x = x + 1 {
			loopEscapeValue = look.Next(ctx).Value()
			loopEscapeValuePeek = look.Lookahead(ctx, 1).Value()
		}
	}
	benchEscapeValue = loopEscapeValue
	benchEscapeValuePeek = loopEscapeValuePeek
}
