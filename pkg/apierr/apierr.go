// Package apierr defines the domain error taxonomy shared by every
// context. Errors carry a human description, a machine code, and the
// HTTP status they translate to at the boundary.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeCartNotFound          = "CART_NOT_FOUND"
	CodeProductNotFound       = "PRODUCT_NOT_FOUND"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeCategoryNotFound      = "CATEGORY_NOT_FOUND"
	CodeTicketsNotFound       = "TICKETS_NOT_FOUND"
	CodeInsufficientStock     = "INSUFFICIENT_STOCK"
	CodeCartInactive          = "CART_INACTIVE"
	CodeEmptyCart             = "EMPTY_CART"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeDuplicateProductCode  = "DUPLICATE_PRODUCT_CODE"
	CodeDuplicateCategoryName = "DUPLICATE_CATEGORY_NAME"
	CodeDuplicateEmail        = "DUPLICATE_EMAIL"
	CodePurchaseFailed        = "PURCHASE_FAILED"
	CodeUserUpdateFailed      = "USER_UPDATE_FAILED"
	CodeInvalidInput          = "INVALID_INPUT"
	CodeServerError           = "SERVER_ERROR"
)

// Error is a domain error with an HTTP-equivalent status. It is caught
// at the transport boundary and rendered into the response envelope.
type Error struct {
	Description string `json:"description"`
	Details     string `json:"details"`
	Code        string `json:"-"`
	Status      int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.Code, e.Description, e.Status)
}

func New(description, details, code string, status int) *Error {
	return &Error{Description: description, Details: details, Code: code, Status: status}
}

func NotFound(description, code string) *Error {
	return New(description, description, code, http.StatusNotFound)
}

func BadRequest(description, code string) *Error {
	return New(description, description, code, http.StatusBadRequest)
}

func Conflict(description, code string) *Error {
	return New(description, description, code, http.StatusConflict)
}

func Unauthorized(details string) *Error {
	return New("Unauthorized", details, CodeUnauthorized, http.StatusUnauthorized)
}

func Forbidden(details string) *Error {
	return New("Forbidden", details, CodeForbidden, http.StatusForbidden)
}

func Internal(err error) *Error {
	return New("Internal server error", err.Error(), CodeServerError, http.StatusInternalServerError)
}

// From extracts the *Error from err's chain, wrapping unknown errors
// into a generic server error so callers always get a renderable kind.
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}

// Is reports whether err resolves to the given machine code.
func Is(err error, code string) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
