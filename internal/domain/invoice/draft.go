package invoice

import (
	"context"

	"github.com/google/uuid"
	"github.com/invoicedesk/client/internal/domain/shared/valueobject"
)

// DateLayout is the calendar date format used by draft invoices,
// matching the wire format of the external API.
const DateLayout = "2006-01-02"

// Field identifies a scalar field of a draft invoice
type Field string

const (
	FieldDate            Field = "date"
	FieldCustomerName    Field = "customer_name"
	FieldSalespersonName Field = "salesperson_name"
	FieldNotes           Field = "notes"
	FieldItems           Field = "items"
)

// LineItem is one product entry within a draft invoice. UnitPriceSnapshot
// is copied from the product at selection time and never re-synced to
// later catalog changes: the price is frozen at the moment the line was
// added, even if the catalog is refetched afterwards.
type LineItem struct {
	ID                uuid.UUID
	ProductID         int64
	ProductName       string
	Quantity          int64
	UnitPriceSnapshot valueobject.Money
}

// Amount returns quantity times the snapshotted unit price
func (i LineItem) Amount() valueobject.Money {
	return i.UnitPriceSnapshot.MultiplyByInt(i.Quantity)
}

// Draft is an invoice being composed client-side, not yet persisted.
// Drafts have value semantics: the reducer returns a new Draft for every
// action and never mutates its input, so any held Draft stays stable.
// The total is always derived, never stored.
type Draft struct {
	Date            string     `validate:"required,datetime=2006-01-02"`
	CustomerName    string     `validate:"required"`
	SalespersonName string     `validate:"required"`
	Notes           string     `validate:"required,min=10"`
	Items           []LineItem `validate:"required,min=1"`
}

// NewDraft returns an empty draft, the state a composer starts from
func NewDraft() Draft {
	return Draft{Items: []LineItem{}}
}

// Total computes the draft total as the exact fixed-point sum of
// quantity * unit price snapshot over all items
func (d Draft) Total() valueobject.Money {
	if len(d.Items) == 0 {
		return valueobject.ZeroIDR()
	}
	total := valueobject.Zero(d.Items[0].UnitPriceSnapshot.Currency())
	for _, item := range d.Items {
		total = total.MustAdd(item.Amount())
	}
	return total
}

// ItemCount returns the number of line items in the draft
func (d Draft) ItemCount() int {
	return len(d.Items)
}

// cloneItems returns a fresh copy of the items slice so reducer results
// never alias the previous draft's backing array
func (d Draft) cloneItems() []LineItem {
	items := make([]LineItem, len(d.Items))
	copy(items, d.Items)
	return items
}

// PersistedItem is one line of a server-persisted invoice
type PersistedItem struct {
	ProductID int64
	Quantity  int64
	UnitPrice valueobject.Money
}

// PersistedInvoice is a server-assigned invoice record, read-only from
// the client's perspective
type PersistedInvoice struct {
	ID              int64
	Date            string
	CustomerName    string
	SalespersonName string
	Notes           string
	TotalAmount     valueobject.Money
	Items           []PersistedItem
}

// Creator persists a draft invoice through the external API
type Creator interface {
	CreateInvoice(ctx context.Context, draft Draft) (PersistedInvoice, error)
}

// Reader retrieves persisted invoices through the external API.
// The ID index endpoint returns identifiers only; full records are
// fetched one at a time by ID.
type Reader interface {
	ListInvoiceIDs(ctx context.Context) ([]int64, error)
	GetInvoice(ctx context.Context, id int64) (PersistedInvoice, error)
}
