package feed

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/invoicedesk/client/internal/domain/invoice"
	"github.com/invoicedesk/client/internal/domain/shared"
)

// State identifies where the loader is in its lifecycle
type State string

const (
	// StateUninitialized means the ID index has not been fetched yet.
	// Distinct from StateExhausted: "not yet fetched" is not "no data".
	StateUninitialized State = "UNINITIALIZED"
	// StateAwaitingMore means at least one fetch succeeded and the
	// loader is idle, waiting for LoadMore
	StateAwaitingMore State = "AWAITING_MORE"
	// StateExhausted means the index was fetched and is empty
	StateExhausted State = "EXHAUSTED"
	// StateErrored means the last fetch failed; everything already in
	// the feed is preserved and a manual retry is possible
	StateErrored State = "ERRORED"
)

// Loader emulates paginated invoice retrieval by fetching one invoice by
// ID at a time, in index order, with back-pressure against overlapping
// requests: the loading flag is a single-flight gate, so at most one
// fetch is in flight and the feed is strictly append-ordered by index
// with no duplicates and no skips.
type Loader struct {
	reader invoice.Reader
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	index   []int64
	feed    []invoice.PersistedInvoice
	cursor  int // last successfully fetched index position, -1 before any
	loading bool
	hasMore bool
	err     error
	// generation orphans in-flight fetches on Close: a late response
	// with a stale generation must not mutate a torn-down feed
	generation uint64
}

// Option is a functional option for configuring the loader
type Option func(*Loader)

// WithLogger sets the logger for the loader
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a loader over the given invoice reader
func New(reader invoice.Reader, opts ...Option) *Loader {
	l := &Loader{
		reader:  reader,
		logger:  zap.NewNop(),
		state:   StateUninitialized,
		cursor:  -1,
		hasMore: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start fetches the invoice ID index once and, when it is non-empty,
// immediately fetches the first invoice. An empty index is terminal:
// the loader moves to Exhausted with nothing more to load. An index
// fetch failure moves to Errored and Start may be called again.
func (l *Loader) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || (l.state != StateUninitialized && !(l.state == StateErrored && l.index == nil)) {
		l.mu.Unlock()
		return nil
	}
	l.loading = true
	generation := l.generation
	l.mu.Unlock()

	ids, err := l.reader.ListInvoiceIDs(ctx)

	l.mu.Lock()
	if l.generation != generation {
		l.mu.Unlock()
		return nil
	}
	if err != nil {
		l.loading = false
		l.state = StateErrored
		l.err = fmt.Errorf("%w: %v", shared.ErrIndexFetch, err)
		l.mu.Unlock()
		l.logger.Warn("invoice index fetch failed", zap.Error(err))
		return l.Err()
	}
	if len(ids) == 0 {
		l.loading = false
		l.state = StateExhausted
		l.hasMore = false
		l.err = nil
		l.mu.Unlock()
		return nil
	}
	l.index = ids
	l.err = nil
	l.mu.Unlock()
	l.logger.Debug("invoice index loaded", zap.Int("count", len(ids)))

	// the first invoice loads without waiting for LoadMore
	return l.fetchAt(ctx, 0, generation)
}

// LoadMore fetches the next invoice in index order and appends it to the
// feed. Precondition: not loading and more is available; otherwise the
// call is a no-op so overlapping calls can neither queue, duplicate, nor
// skip entries. After a fetch failure the cursor stays put and LoadMore
// retries the same position.
func (l *Loader) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || !l.hasMore || l.index == nil {
		l.mu.Unlock()
		return nil
	}
	l.loading = true
	generation := l.generation
	pos := l.cursor + 1
	l.mu.Unlock()

	return l.fetchAt(ctx, pos, generation)
}

// fetchAt retrieves index[pos] and appends it to the feed. The caller
// must have set the loading gate under lock.
func (l *Loader) fetchAt(ctx context.Context, pos int, generation uint64) error {
	id := l.index[pos]
	record, err := l.reader.GetInvoice(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.generation != generation {
		return nil
	}
	l.loading = false

	if err != nil {
		// transient failure: the feed so far is preserved, hasMore is
		// left as previously computed, and the cursor does not move so
		// a retry reissues this same position
		l.state = StateErrored
		l.err = fmt.Errorf("%w: %v", shared.ErrItemFetch, err)
		l.logger.Warn("invoice fetch failed", zap.Int64("id", id), zap.Error(err))
		return l.err
	}

	l.feed = append(l.feed, record)
	l.cursor = pos
	l.hasMore = pos < len(l.index)-1
	l.state = StateAwaitingMore
	l.err = nil
	l.logger.Debug("invoice appended to feed",
		zap.Int64("id", id),
		zap.Int("cursor", pos),
		zap.Bool("has_more", l.hasMore))
	return nil
}

// Close invalidates the session. Any in-flight fetch completes without
// effect on loader state.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	l.loading = false
}

// Feed returns a copy of the invoices fetched so far, in index order
func (l *Loader) Feed() []invoice.PersistedInvoice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]invoice.PersistedInvoice(nil), l.feed...)
}

// State returns the current lifecycle state
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// HasMore reports whether unfetched index positions remain
func (l *Loader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// Loading reports whether a fetch is currently in flight
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Cursor returns the last successfully fetched index position, -1 before
// any fetch succeeded
func (l *Loader) Cursor() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor
}

// Err returns the error from the last failed fetch, if any
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
