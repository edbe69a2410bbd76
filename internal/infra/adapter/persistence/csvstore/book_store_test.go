package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookrec/internal/domain/entity"
	"bookrec/internal/infra/textenc"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fullHeader = "id,title,author,text,Rating,Category,Summary,Cover\n"

func TestLoadAll(t *testing.T) {
	path := writeCorpus(t, fullHeader+
		`1,The Hobbit,'J.R.R. Tolkien',"In a hole in the ground there lived a hobbit.",4.5,Fantasy,A classic adventure.,http://covers.test/hobbit.jpg`+"\n"+
		`2,Dune,Frank Herbert,"Arrakis, the desert planet.",4.8,Science Fiction,,0`+"\n")

	books, err := NewBookStore(path).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)

	assert.Equal(t, entity.Book{
		ID:       1,
		Title:    "The Hobbit",
		Author:   "'J.R.R. Tolkien'",
		Text:     "In a hole in the ground there lived a hobbit.",
		Rating:   4.5,
		Category: "Fantasy",
		Summary:  "A classic adventure.",
		Cover:    "http://covers.test/hobbit.jpg",
	}, books[0])

	assert.Equal(t, "Dune", books[1].Title)
	assert.Empty(t, books[1].Summary)
	assert.Empty(t, books[1].Cover, "sentinel cover value should map to empty")
}

func TestLoadAllMissingColumns(t *testing.T) {
	path := writeCorpus(t, "id,title,text\n1,The Hobbit,some text\n")

	_, err := NewBookStore(path).LoadAll(context.Background())
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "author")
	assert.Contains(t, err.Error(), "Rating")
}

func TestLoadAllEmptyCorpus(t *testing.T) {
	path := writeCorpus(t, fullHeader)

	_, err := NewBookStore(path).LoadAll(context.Background())
	assert.ErrorIs(t, err, entity.ErrEmptyCorpus)
}

func TestLoadAllFileNotFound(t *testing.T) {
	_, err := NewBookStore(filepath.Join(t.TempDir(), "missing.csv")).LoadAll(context.Background())
	assert.Error(t, err)
}

func TestLoadAllRowLimit(t *testing.T) {
	path := writeCorpus(t, fullHeader+
		"1,A,a,text one,1.0,,,\n"+
		"2,B,b,text two,2.0,,,\n"+
		"3,C,c,text three,3.0,,,\n")

	books, err := NewBookStore(path, WithMaxRows(2)).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "B", books[1].Title)
}

func TestLoadAllSkipsRaggedRows(t *testing.T) {
	path := writeCorpus(t, fullHeader+
		"1,A,a,text one,1.0,,,\n"+
		"2,B,b\n"+
		"3,C,c,text three,3.0,,,\n")

	books, err := NewBookStore(path).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, int64(3), books[1].ID)
}

func TestLoadAllMalformedNumbers(t *testing.T) {
	path := writeCorpus(t, fullHeader+
		"oops,A,a,text one,not-a-number,,,\n")

	books, err := NewBookStore(path).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Zero(t, books[0].ID)
	assert.Zero(t, books[0].Rating)
}

func TestLoadAllRepairsMojibake(t *testing.T) {
	path := writeCorpus(t, fullHeader+
		"1,CafÃ© Nights,a,donâ€™t look back,4.0,,,\n")

	books, err := NewBookStore(path).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Café Nights", books[0].Title)
	assert.Equal(t, "don’t look back", books[0].Text)
}

func TestLoadAllNoopRepair(t *testing.T) {
	path := writeCorpus(t, fullHeader+
		"1,CafÃ© Nights,a,text,4.0,,,\n")

	books, err := NewBookStore(path, WithTextRepair(textenc.Noop)).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CafÃ© Nights", books[0].Title)
}

func TestLoadAllCancelledContext(t *testing.T) {
	path := writeCorpus(t, fullHeader+"1,A,a,text,1.0,,,\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBookStore(path).LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
