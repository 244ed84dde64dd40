package db

import (
	"testing"

	"github.com/ravitejak99/storefront-go/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestProductFilterQuery(t *testing.T) {
	category := "audio"
	minPrice := 10.0
	maxPrice := 99.5

	tests := []struct {
		name     string
		filter   models.ProductFilter
		wantSQL  []string
		wantArgs []any
	}{
		{
			name:     "no filter",
			filter:   models.ProductFilter{},
			wantArgs: nil,
		},
		{
			name:     "category only",
			filter:   models.ProductFilter{Category: &category},
			wantSQL:  []string{"category ILIKE $1"},
			wantArgs: []any{"%audio%"},
		},
		{
			name:     "min price only",
			filter:   models.ProductFilter{MinPrice: &minPrice},
			wantSQL:  []string{"price >= $1"},
			wantArgs: []any{10.0},
		},
		{
			name:     "price range",
			filter:   models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice},
			wantSQL:  []string{"price >= $1", "price <= $2"},
			wantArgs: []any{10.0, 99.5},
		},
		{
			name:     "category and price range",
			filter:   models.ProductFilter{Category: &category, MinPrice: &minPrice, MaxPrice: &maxPrice},
			wantSQL:  []string{"category ILIKE $1", "price >= $2", "price <= $3"},
			wantArgs: []any{"%audio%", 10.0, 99.5},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args := productFilterQuery(tc.filter)

			for _, clause := range tc.wantSQL {
				assert.Contains(t, query, clause)
			}
			assert.Equal(t, tc.wantArgs, args)

			if tc.filter.Category == nil {
				assert.NotContains(t, query, "ILIKE")
			}
			assert.Contains(t, query, "ORDER BY id")
		})
	}
}
