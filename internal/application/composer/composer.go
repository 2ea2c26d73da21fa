package composer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/invoicedesk/client/internal/domain/catalog"
	"github.com/invoicedesk/client/internal/domain/invoice"
	"github.com/invoicedesk/client/internal/domain/shared"
	"github.com/invoicedesk/client/internal/domain/shared/valueobject"
)

// Catalog is the product lookup surface the composer needs. The catalog
// cache satisfies it; tests supply fakes.
type Catalog interface {
	Load(ctx context.Context) error
	Search(query string) []catalog.Product
}

// Composer assembles a draft invoice from catalog search results. All
// mutations flow through the pure reducer in the invoice package; the
// composer holds the current draft value, keeps validation derived after
// every mutation, and owns submission and reset.
type Composer struct {
	catalog Catalog
	creator invoice.Creator
	logger  *zap.Logger

	mu          sync.Mutex
	draft       invoice.Draft
	fieldErrors map[invoice.Field]string
	// itemErrors holds rejected quantity inputs per line index; cleared
	// when the line accepts a new quantity or disappears
	itemErrors  map[int]string
	suggestions []catalog.Product
	generation  uint64
}

// Option is a functional option for configuring the composer
type Option func(*Composer)

// WithLogger sets the logger for the composer
func WithLogger(logger *zap.Logger) Option {
	return func(c *Composer) {
		c.logger = logger
	}
}

// New creates a composer over the given catalog and invoice creator.
// The draft starts empty, with validation already derived so the
// presentation layer sees a consistent initial state.
func New(cat Catalog, creator invoice.Creator, opts ...Option) *Composer {
	c := &Composer{
		catalog:    cat,
		creator:    creator,
		logger:     zap.NewNop(),
		draft:      invoice.NewDraft(),
		itemErrors: make(map[int]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fieldErrors = invoice.Validate(c.draft)
	return c
}

// LoadCatalog fetches the product catalog. A failure is recoverable:
// search degrades to empty results and the operator can retry without
// losing the draft.
func (c *Composer) LoadCatalog(ctx context.Context) error {
	return c.catalog.Load(ctx)
}

// SetField mutates one scalar field of the draft and re-derives validation
func (c *Composer) SetField(field invoice.Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apply(invoice.SetField{Field: field, Value: value})
}

// SearchProducts returns catalog suggestions for the query. An empty
// query yields an empty suggestion list, not the full catalog.
func (c *Composer) SearchProducts(query string) []catalog.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	if query == "" {
		c.suggestions = nil
		return nil
	}
	c.suggestions = c.catalog.Search(query)
	return append([]catalog.Product(nil), c.suggestions...)
}

// AddItem appends a line for the product with quantity 1 and the unit
// price snapshotted now. Selecting the product clears the pending search
// state, mirroring the form emptying its suggestion box.
func (c *Composer) AddItem(product catalog.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.apply(invoice.AddItem{Product: product}); err != nil {
		return err
	}
	c.suggestions = nil
	return nil
}

// SetItemQuantity replaces the quantity of the line at index with the
// raw user input. Invalid input leaves the stored quantity unchanged and
// surfaces a validation error for that line instead.
func (c *Composer) SetItemQuantity(index int, quantity string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.apply(invoice.SetItemQuantity{Index: index, Quantity: quantity})
	if errors.Is(err, shared.ErrInvalidQuantity) {
		c.itemErrors[index] = shared.ErrInvalidQuantity.Message
		return err
	}
	if err != nil {
		return err
	}
	delete(c.itemErrors, index)
	return nil
}

// RemoveItem removes the line at index
func (c *Composer) RemoveItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.apply(invoice.RemoveItem{Index: index}); err != nil {
		return err
	}
	// line indexes shifted; stale per-line errors would point at the
	// wrong rows
	c.itemErrors = make(map[int]string)
	return nil
}

// Total computes the current draft total in fixed-point arithmetic
func (c *Composer) Total() valueobject.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Total()
}

// Validate returns the current field -> message mapping, including
// per-line quantity input errors. Empty iff the draft is submittable.
func (c *Composer) Validate() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mergedErrors()
}

// Draft returns a copy of the current draft value
func (c *Composer) Draft() invoice.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.draft
	d.Items = make([]invoice.LineItem, len(c.draft.Items))
	copy(d.Items, c.draft.Items)
	return d
}

// Suggestions returns a copy of the current search suggestions
func (c *Composer) Suggestions() []catalog.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]catalog.Product(nil), c.suggestions...)
}

// Submit persists the draft through the external API. Precondition: the
// draft validates cleanly. On success the composer resets to its initial
// empty state, including search state. On failure the draft is preserved
// unchanged so the operator can retry; there is no automatic retry.
func (c *Composer) Submit(ctx context.Context) (invoice.PersistedInvoice, error) {
	c.mu.Lock()
	if len(c.mergedErrors()) > 0 {
		c.mu.Unlock()
		return invoice.PersistedInvoice{}, shared.ErrDraftNotValid
	}
	draft := c.draft
	generation := c.generation
	c.mu.Unlock()

	persisted, err := c.creator.CreateInvoice(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		// the composer was reset while the request was in flight; the
		// response must not touch the fresh draft
		if err != nil {
			return invoice.PersistedInvoice{}, fmt.Errorf("%w: %v", shared.ErrSubmission, err)
		}
		return persisted, nil
	}

	if err != nil {
		c.logger.Warn("invoice submission failed", zap.Error(err))
		return invoice.PersistedInvoice{}, fmt.Errorf("%w: %v", shared.ErrSubmission, err)
	}

	c.resetLocked()
	c.logger.Info("invoice submitted", zap.Int64("id", persisted.ID))
	return persisted, nil
}

// Reset discards the draft and all derived state, and orphans any
// in-flight submission so its late response cannot mutate the new draft
func (c *Composer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Composer) resetLocked() {
	c.generation++
	c.draft = invoice.NewDraft()
	c.fieldErrors = invoice.Validate(c.draft)
	c.itemErrors = make(map[int]string)
	c.suggestions = nil
}

// apply runs an action through the reducer and re-derives validation.
// Callers must hold c.mu.
func (c *Composer) apply(action invoice.Action) error {
	next, err := invoice.Reduce(c.draft, action)
	if err != nil {
		return err
	}
	c.draft = next
	c.fieldErrors = invoice.Validate(c.draft)
	return nil
}

// mergedErrors combines structural validation with per-line input
// errors. Callers must hold c.mu.
func (c *Composer) mergedErrors() map[string]string {
	merged := make(map[string]string, len(c.fieldErrors)+len(c.itemErrors))
	for field, message := range c.fieldErrors {
		merged[string(field)] = message
	}
	for index, message := range c.itemErrors {
		merged[fmt.Sprintf("items[%d].quantity", index)] = message
	}
	return merged
}
