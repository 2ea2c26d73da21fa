package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_NameMatches(t *testing.T) {
	p := Product{ID: 1, Name: "Kopi Arabica Premium"}

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"exact word", "Arabica", true},
		{"different case", "aRaBiCa", true},
		{"substring across words", "ca Pre", true},
		{"empty query matches", "", true},
		{"no match", "robusta", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.NameMatches(tt.query))
		})
	}
}

func TestProduct_InStock(t *testing.T) {
	assert.True(t, Product{StockCount: 3}.InStock())
	assert.False(t, Product{StockCount: 0}.InStock())
}
