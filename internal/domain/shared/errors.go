package shared

import "strings"

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
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrValidation       = NewDomainError("VALIDATION", "Business rule violated")
	ErrConflict         = NewDomainError("CONFLICT", "Resource already exists")
	ErrInventory        = NewDomainError("INVENTORY", "Inventory invariant could not be satisfied")
	ErrItemUpdateFailed = NewDomainError("ITEM_UPDATE_FAILED", "Catalog item update failed")
	ErrCollaborator     = NewDomainError("COLLABORATOR", "Collaborator request failed")
)

// ErrorList aggregates a terminal cause with any per-line processing errors
// accumulated before it. The terminal cause is always the last element.
type ErrorList struct {
	Errors []error
}

// NewErrorList builds an ErrorList from accumulated errors and the terminal cause.
// Nil entries are dropped.
func NewErrorList(accumulated []error, terminal error) *ErrorList {
	list := &ErrorList{}
	for _, err := range accumulated {
		if err != nil {
			list.Errors = append(list.Errors, err)
		}
	}
	if terminal != nil {
		list.Errors = append(list.Errors, terminal)
	}
	return list
}

// Error implements the error interface
func (l *ErrorList) Error() string {
	msgs := make([]string, 0, len(l.Errors))
	for _, err := range l.Errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As
func (l *ErrorList) Unwrap() []error {
	return l.Errors
}
