package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidField    = NewDomainError("INVALID_FIELD", "Unknown draft field")
	ErrInvalidQuantity = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	ErrItemNotFound    = NewDomainError("ITEM_NOT_FOUND", "Line item not found")
	ErrDraftNotValid   = NewDomainError("DRAFT_NOT_VALID", "Draft invoice has validation errors")

	ErrCatalogLoad = NewDomainError("CATALOG_LOAD_FAILED", "Failed to load product catalog")
	ErrSubmission  = NewDomainError("SUBMISSION_FAILED", "Failed to submit invoice")
	ErrIndexFetch  = NewDomainError("INDEX_FETCH_FAILED", "Failed to fetch invoice ID index")
	ErrItemFetch   = NewDomainError("ITEM_FETCH_FAILED", "Failed to fetch invoice")
)
