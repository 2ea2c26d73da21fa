package catalog

import (
	"context"
	"strings"

	"github.com/invoicedesk/client/internal/domain/shared/valueobject"
)

// Product represents a sellable product as served by the external catalog API.
// Products are immutable once fetched; the catalog cache is their sole owner.
type Product struct {
	ID         int64
	Name       string
	UnitPrice  valueobject.Money
	StockCount int
	ImageURL   string
}

// NameMatches reports whether the product name contains the query,
// case-insensitively. An empty query matches every product; callers that
// want different empty-query semantics gate before calling.
func (p Product) NameMatches(query string) bool {
	return strings.Contains(strings.ToLower(p.Name), strings.ToLower(query))
}

// InStock reports whether the product has stock available
func (p Product) InStock() bool {
	return p.StockCount > 0
}

// Lister fetches the full product list from the external API
type Lister interface {
	ListProducts(ctx context.Context) ([]Product, error)
}
