package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/invoicedesk/client/internal/domain/catalog"
	"github.com/invoicedesk/client/internal/domain/invoice"
	"github.com/invoicedesk/client/internal/domain/report"
	"github.com/invoicedesk/client/internal/domain/shared/valueobject"
)

// maxResponseSize is the maximum allowed response size from the invoicing API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// defaultTimeout bounds a single request when no HTTP client is supplied
const defaultTimeout = 10 * time.Second

// ErrInvalidBaseURL indicates a malformed API base URL
var ErrInvalidBaseURL = errors.New("api: invalid base URL")

// StatusError is returned when the API answers with a non-2xx status
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: %s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// Client talks to the external invoicing API. It owns the four logical
// calls the core needs (products, invoice create, invoice index, invoice
// by ID) plus the revenue series, and converts between wire shapes and
// domain types: decimal amounts become fixed-point Money at this boundary
// and relative image paths become absolute URLs.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// Option is a functional option for configuring the client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger for the client
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the invoicing API at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	client := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ---------------------------------------------------------------------------
// Wire shapes
// ---------------------------------------------------------------------------

type productDTO struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	Image string          `json:"image"`
}

type invoiceItemDTO struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Outbound payloads carry amounts as plain JSON numbers, matching what
// the API expects; decimal's default JSON encoding would quote them.
type createItemDTO struct {
	ProductID int64   `json:"product_id"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
}

type createInvoiceDTO struct {
	Date            string          `json:"date"`
	CustomerName    string          `json:"customer_name"`
	SalespersonName string          `json:"salesperson_name"`
	Notes           string          `json:"notes"`
	TotalAmount     float64         `json:"total_amount"`
	Items           []createItemDTO `json:"items"`
}

type invoiceDTO struct {
	ID              int64            `json:"id"`
	Date            string           `json:"date"`
	CustomerName    string           `json:"customer_name"`
	SalespersonName string           `json:"salesperson_name"`
	Notes           string           `json:"notes"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	Items           []invoiceItemDTO `json:"items,omitempty"`
}

type invoiceIDDTO struct {
	ID int64 `json:"id"`
}

type revenuePointDTO struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// ListProducts fetches the full product list. Image paths in the response
// are relative; they are resolved against the API base URL so the caller
// always sees absolute URLs.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var dtos []productDTO
	if err := c.get(ctx, "/api/products", &dtos); err != nil {
		return nil, err
	}

	products := lo.Map(dtos, func(dto productDTO, _ int) catalog.Product {
		return catalog.Product{
			ID:         dto.ID,
			Name:       dto.Name,
			UnitPrice:  mustMoney(dto.Price),
			StockCount: dto.Stock,
			ImageURL:   c.absoluteURL(dto.Image),
		}
	})
	c.logger.Debug("fetched product catalog", zap.Int("count", len(products)))
	return products, nil
}

// ---------------------------------------------------------------------------
// Invoices
// ---------------------------------------------------------------------------

// CreateInvoice persists a draft invoice. The total is derived from the
// draft at the boundary; it is never taken from stored state.
func (c *Client) CreateInvoice(ctx context.Context, draft invoice.Draft) (invoice.PersistedInvoice, error) {
	payload := createInvoiceDTO{
		Date:            draft.Date,
		CustomerName:    draft.CustomerName,
		SalespersonName: draft.SalespersonName,
		Notes:           draft.Notes,
		TotalAmount:     draft.Total().Decimal().InexactFloat64(),
		Items: lo.Map(draft.Items, func(item invoice.LineItem, _ int) createItemDTO {
			return createItemDTO{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.UnitPriceSnapshot.Decimal().InexactFloat64(),
			}
		}),
	}

	var dto invoiceDTO
	if err := c.post(ctx, "/api/invoices", payload, &dto); err != nil {
		return invoice.PersistedInvoice{}, err
	}
	c.logger.Info("invoice created", zap.Int64("id", dto.ID))
	return toPersistedInvoice(dto), nil
}

// ListInvoiceIDs fetches the ordered invoice ID index
func (c *Client) ListInvoiceIDs(ctx context.Context) ([]int64, error) {
	var dtos []invoiceIDDTO
	if err := c.get(ctx, "/api/invoices", &dtos); err != nil {
		return nil, err
	}
	return lo.Map(dtos, func(dto invoiceIDDTO, _ int) int64 { return dto.ID }), nil
}

// GetInvoice fetches one persisted invoice by ID
func (c *Client) GetInvoice(ctx context.Context, id int64) (invoice.PersistedInvoice, error) {
	var dto invoiceDTO
	if err := c.get(ctx, fmt.Sprintf("/api/invoices/%d", id), &dto); err != nil {
		return invoice.PersistedInvoice{}, err
	}
	return toPersistedInvoice(dto), nil
}

// ---------------------------------------------------------------------------
// Revenue
// ---------------------------------------------------------------------------

// RevenueSeries fetches the revenue time series bucketed by period
func (c *Client) RevenueSeries(ctx context.Context, period report.Period) ([]report.Point, error) {
	var dtos []revenuePointDTO
	if err := c.get(ctx, "/api/revenue?period="+url.QueryEscape(period.String()), &dtos); err != nil {
		return nil, err
	}
	return lo.Map(dtos, func(dto revenuePointDTO, _ int) report.Point {
		return report.Point{
			Bucket:  dto.Period,
			Revenue: mustMoney(dto.Revenue),
		}
	}), nil
}

// ---------------------------------------------------------------------------
// Transport helpers
// ---------------------------------------------------------------------------

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("api: invalid path %q: %w", path, err)
	}
	endpoint := c.baseURL.ResolveReference(ref).String()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// absoluteURL resolves a possibly relative image path against the API base
func (c *Client) absoluteURL(path string) string {
	if path == "" {
		return ""
	}
	ref, err := url.Parse(path)
	if err != nil {
		return path
	}
	return c.baseURL.ResolveReference(ref).String()
}

// mustMoney converts a boundary decimal amount into fixed-point Money
func mustMoney(d decimal.Decimal) valueobject.Money {
	return valueobject.NewMoneyIDRFromDecimal(d)
}

func toPersistedInvoice(dto invoiceDTO) invoice.PersistedInvoice {
	return invoice.PersistedInvoice{
		ID:              dto.ID,
		Date:            dto.Date,
		CustomerName:    dto.CustomerName,
		SalespersonName: dto.SalespersonName,
		Notes:           dto.Notes,
		TotalAmount:     mustMoney(dto.TotalAmount),
		Items: lo.Map(dto.Items, func(item invoiceItemDTO, _ int) invoice.PersistedItem {
			return invoice.PersistedItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: mustMoney(item.Price),
			}
		}),
	}
}
