package invoice

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/invoicedesk/client/internal/domain/catalog"
	"github.com/invoicedesk/client/internal/domain/shared"
)

// Action is a state transition applied to a Draft via Reduce
type Action interface {
	isAction()
}

// SetField sets one scalar field of the draft
type SetField struct {
	Field Field
	Value string
}

// AddItem appends a new line item for the product with quantity 1 and
// the unit price snapshotted from the product. Selecting a product that
// is already on the draft adds a second independent line; lines are
// never merged.
type AddItem struct {
	Product catalog.Product
}

// SetItemQuantity replaces the quantity of the line item at Index.
// Quantity carries the raw user input; anything that does not parse as
// a positive integer is rejected and the draft is returned unchanged.
type SetItemQuantity struct {
	Index    int
	Quantity string
}

// RemoveItem removes the line item at Index
type RemoveItem struct {
	Index int
}

// Reset discards the draft and returns the initial empty state
type Reset struct{}

func (SetField) isAction()        {}
func (AddItem) isAction()         {}
func (SetItemQuantity) isAction() {}
func (RemoveItem) isAction()      {}
func (Reset) isAction()           {}

// Reduce applies an action to a draft and returns the resulting draft.
// The input draft is never mutated. On error the input draft is returned
// as-is so callers can keep it as their current state.
func Reduce(d Draft, action Action) (Draft, error) {
	switch a := action.(type) {
	case SetField:
		return reduceSetField(d, a)
	case AddItem:
		return reduceAddItem(d, a)
	case SetItemQuantity:
		return reduceSetItemQuantity(d, a)
	case RemoveItem:
		return reduceRemoveItem(d, a)
	case Reset:
		return NewDraft(), nil
	default:
		return d, shared.NewDomainError("UNKNOWN_ACTION", "Unknown draft action")
	}
}

func reduceSetField(d Draft, a SetField) (Draft, error) {
	next := d
	next.Items = d.cloneItems()
	switch a.Field {
	case FieldDate:
		next.Date = a.Value
	case FieldCustomerName:
		next.CustomerName = a.Value
	case FieldSalespersonName:
		next.SalespersonName = a.Value
	case FieldNotes:
		next.Notes = a.Value
	default:
		return d, shared.ErrInvalidField
	}
	return next, nil
}

func reduceAddItem(d Draft, a AddItem) (Draft, error) {
	next := d
	next.Items = append(d.cloneItems(), LineItem{
		ID:                uuid.New(),
		ProductID:         a.Product.ID,
		ProductName:       a.Product.Name,
		Quantity:          1,
		UnitPriceSnapshot: a.Product.UnitPrice,
	})
	return next, nil
}

func reduceSetItemQuantity(d Draft, a SetItemQuantity) (Draft, error) {
	if a.Index < 0 || a.Index >= len(d.Items) {
		return d, shared.ErrItemNotFound
	}
	quantity, err := strconv.ParseInt(strings.TrimSpace(a.Quantity), 10, 64)
	if err != nil || quantity < 1 {
		return d, shared.ErrInvalidQuantity
	}
	next := d
	next.Items = d.cloneItems()
	next.Items[a.Index].Quantity = quantity
	return next, nil
}

func reduceRemoveItem(d Draft, a RemoveItem) (Draft, error) {
	if a.Index < 0 || a.Index >= len(d.Items) {
		return d, shared.ErrItemNotFound
	}
	items := d.cloneItems()
	next := d
	next.Items = append(items[:a.Index], items[a.Index+1:]...)
	return next, nil
}
