package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookrec/internal/common/pagination"
)

func TestCalculateOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		page  int
		limit int
		want  int
	}{
		{"first page", 1, 20, 0},
		{"second page", 2, 20, 20},
		{"third page smaller limit", 3, 10, 20},
		{"large page", 100, 50, 4950},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pagination.CalculateOffset(tt.page, tt.limit))
		})
	}
}

func TestCalculateTotalPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{"empty corpus still one page", 0, 20, 1},
		{"partial page", 10, 20, 1},
		{"exact fit", 20, 20, 1},
		{"one over", 21, 20, 2},
		{"many pages", 100, 20, 5},
		{"remainder rounds up", 101, 20, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pagination.CalculateTotalPages(tt.total, tt.limit))
		})
	}
}
