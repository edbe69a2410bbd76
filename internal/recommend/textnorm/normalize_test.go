package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases",
			in:   "The Great Gatsby",
			want: "the great gatsby",
		},
		{
			name: "strips punctuation",
			in:   "Hello, World! It's me.",
			want: "hello world its me",
		},
		{
			name: "keeps digits and underscores",
			in:   "Catch-22 part_2",
			want: "catch22 part_2",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace preserved",
			in:   "a  b\tc",
			want: "a  b\tc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Truncates(t *testing.T) {
	long := strings.Repeat("a", MaxTextLength+500)
	got := Normalize(long)
	assert.Len(t, got, MaxTextLength)
}

func TestNormalize_TruncatesBeforeStripping(t *testing.T) {
	// Punctuation counts toward the length limit because truncation
	// happens first, so the normalized output may be shorter than the cap.
	long := strings.Repeat("a.", MaxTextLength/2+10)
	got := Normalize(long)
	assert.Equal(t, strings.Repeat("a", MaxTextLength/2), got)
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "the hobbit", NormalizeTitle("  The Hobbit  "))
	assert.Equal(t, "don't panic!", NormalizeTitle("Don't Panic!"))
	assert.Equal(t, "", NormalizeTitle("   "))
}

func TestTruncate_DoesNotSplitRunes(t *testing.T) {
	s := "héllo wörld"
	got := Truncate(s, 4)
	assert.Equal(t, "héll", got)
	assert.True(t, strings.HasPrefix(s, got))

	assert.Equal(t, s, Truncate(s, 100))
	assert.Equal(t, "", Truncate(s, 0))
}
