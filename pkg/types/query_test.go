package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr error
	}{
		{
			name:  "zero query valid",
			query: Query{},
		},
		{
			name: "fully specified query valid",
			query: Query{
				Text:          "temple",
				Categories:    []string{CategoryStructure, CategoryBase},
				Dimension:     DimensionNether,
				SortKey:       SortByCreatedAt,
				SortDirection: SortDescending,
			},
		},
		{
			name:    "unknown sort key",
			query:   Query{SortKey: "distance"},
			wantErr: ErrInvalidSortKey,
		},
		{
			name:    "unknown sort direction",
			query:   Query{SortDirection: "descending"},
			wantErr: ErrInvalidSortDirection,
		},
		{
			name:    "unknown category",
			query:   Query{Categories: []string{CategoryBase, "dungeon"}},
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "unknown dimension",
			query:   Query{Dimension: "aether"},
			wantErr: ErrInvalidDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQueryEffectiveDefaults(t *testing.T) {
	q := Query{}
	assert.Equal(t, SortByName, q.EffectiveSortKey())
	assert.Equal(t, SortAscending, q.EffectiveSortDirection())

	q = Query{SortKey: SortByUpdatedAt, SortDirection: SortDescending}
	assert.Equal(t, SortByUpdatedAt, q.EffectiveSortKey())
	assert.Equal(t, SortDescending, q.EffectiveSortDirection())
}
