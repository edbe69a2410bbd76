package index

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookrec/internal/domain/entity"
	"bookrec/internal/recommend/vectorizer"
)

func testBooks() []entity.Book {
	return []entity.Book{
		{ID: 1, Title: "Dragon Keep", Author: "A. Writer", Text: "A dragon guards the castle keep.", Rating: 4.0},
		{ID: 2, Title: "Castle Winds", Author: "B. Writer", Text: "Winds sweep the old castle walls.", Rating: 3.5},
		{ID: 3, Title: "Wizard Road", Author: "C. Writer", Text: "A wizard walks the long road.", Rating: 4.5},
	}
}

func plainConfig() Config {
	return Config{Vectorizer: vectorizer.Config{}}
}

func TestBuild_FiltersIncompleteRows(t *testing.T) {
	books := append(testBooks(),
		entity.Book{ID: 4, Title: "No Text", Author: "D. Writer"},
		entity.Book{ID: 5, Text: "orphan text without title or author"},
	)

	idx, err := Build(books, plainConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Size())
	assert.Equal(t, []string{"Dragon Keep", "Castle Winds", "Wizard Road"}, idx.Titles())
}

func TestBuild_EmptyCorpus(t *testing.T) {
	_, err := Build(nil, plainConfig())
	assert.ErrorIs(t, err, entity.ErrEmptyCorpus)

	_, err = Build([]entity.Book{{Title: "only title"}}, plainConfig())
	assert.ErrorIs(t, err, entity.ErrEmptyCorpus)
}

func TestBuild_EmptyVocabularyIsFatal(t *testing.T) {
	// A single valid book whose text is nothing but stop words leaves the
	// vectorizer with zero learnable terms.
	books := []entity.Book{
		{ID: 1, Title: "The And Of", Author: "X", Text: "the and of to in"},
	}
	cfg := Config{Vectorizer: vectorizer.Config{FilterStopWords: true}}

	_, err := Build(books, cfg)
	assert.ErrorIs(t, err, vectorizer.ErrEmptyVocabulary)
}

func TestBuild_MatrixMatchesCorpusSize(t *testing.T) {
	idx, err := Build(testBooks(), plainConfig())
	require.NoError(t, err)

	assert.Equal(t, idx.Size(), idx.Matrix().Size())
	for i := 0; i < idx.Size(); i++ {
		assert.Equal(t, 1.0, idx.Matrix().At(i, i))
		assert.Len(t, idx.Vector(i), len(idx.Vector(0)))
	}
}

func TestBuild_SharesVocabularyWithQueries(t *testing.T) {
	idx, err := Build(testBooks(), plainConfig())
	require.NoError(t, err)

	qv := idx.TransformQuery("dragon castle")
	assert.Len(t, qv, len(idx.Vector(0)))
}

func TestBuild_RatingFeatureChangesScores(t *testing.T) {
	books := []entity.Book{
		{ID: 1, Title: "Twin A", Author: "X", Text: "identical text body", Rating: 5.0},
		{ID: 2, Title: "Twin B", Author: "Y", Text: "identical text body", Rating: 1.0},
	}

	plain, err := Build(books, plainConfig())
	require.NoError(t, err)
	withRating, err := Build(books, Config{Vectorizer: vectorizer.Config{}, WithRatingFeature: true})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, plain.Matrix().At(0, 1), 1e-12)
	assert.Less(t, withRating.Matrix().At(0, 1), 1.0)
}

func TestIndex_MatchTitle(t *testing.T) {
	idx, err := Build(testBooks(), plainConfig())
	require.NoError(t, err)

	match, ok := idx.MatchTitle("dragon keep")
	require.True(t, ok)
	assert.Equal(t, 0, match.Index)
	assert.Equal(t, 100, match.Score)

	_, ok = idx.MatchTitle("xqzw vbnm")
	assert.False(t, ok)
}

func TestHolder_ReadinessBarrier(t *testing.T) {
	h := NewHolder()
	assert.False(t, h.Ready())

	_, ok := h.Snapshot()
	assert.False(t, ok)

	idx, err := Build(testBooks(), plainConfig())
	require.NoError(t, err)

	h.Publish(idx)
	assert.True(t, h.Ready())

	got, ok := h.Snapshot()
	require.True(t, ok)
	assert.Same(t, idx, got)
}

func TestHolder_AtomicSwapUnderConcurrentReads(t *testing.T) {
	h := NewHolder()
	first, err := Build(testBooks(), plainConfig())
	require.NoError(t, err)
	h.Publish(first)

	second, err := Build(testBooks()[:2], plainConfig())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				idx, ok := h.Snapshot()
				if !ok {
					t.Error("holder lost its snapshot")
					return
				}
				// Every observed snapshot must be internally consistent.
				if idx.Size() != idx.Matrix().Size() {
					t.Error("snapshot torn between corpus and matrix")
					return
				}
			}
		}()
	}
	h.Publish(second)
	wg.Wait()

	got, ok := h.Snapshot()
	require.True(t, ok)
	assert.Same(t, second, got)
}
