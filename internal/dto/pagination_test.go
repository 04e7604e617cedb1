package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		total    int64
		wantPage int
		wantLast int
		offset   int
	}{
		{"empty", 1, 0, 1, 1, 0},
		{"single page", 1, 7, 1, 1, 0},
		{"exact pages", 2, 20, 2, 2, 10},
		{"partial last page", 3, 21, 3, 3, 20},
		{"page below one", -4, 21, 1, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, 10, tt.total)
			assert.Equal(t, tt.wantPage, p.CurrentPage)
			assert.Equal(t, tt.wantLast, p.LastPage)
			assert.Equal(t, tt.offset, p.Offset())
			assert.Equal(t, tt.total, p.Total)
		})
	}
}
