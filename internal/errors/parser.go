package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies a low-level error into a code and a message safe to
// surface, without leaking driver internals. The context string hints at the
// operation being performed ("create discount", "delete item", ...).
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An internal error occurred"}
	}

	errStr := err.Error()
	errLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	// PostgreSQL constraint violations.
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower)
	}
	if strings.Contains(errLower, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}
	if strings.Contains(errLower, "check constraint") {
		return ErrorInfo{Code: ValidationInvalidInput, Message: "A field value is out of range"}
	}

	// Connectivity problems with the database or an external API.
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email address is already registered"}
	}
	if strings.Contains(errLower, "code") && strings.Contains(errLower, "discount") {
		return ErrorInfo{Code: DiscountCodeExists, Message: "A discount with this code already exists"}
	}
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "The record already exists. Please retry"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "A record with these values already exists"}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{Code: ResourceConflict, Message: "The record is referenced by other data and cannot be deleted"}
	}
	if strings.Contains(errLower, "user_id") {
		return ErrorInfo{Code: ResourceNotFound, Message: "The referenced user does not exist"}
	}
	if strings.Contains(errLower, "item_id") {
		return ErrorInfo{Code: CatalogItemNotFound, Message: "The referenced item does not exist"}
	}
	if strings.Contains(errLower, "price_id") {
		return ErrorInfo{Code: CatalogPriceNotFound, Message: "The referenced item price does not exist"}
	}
	if strings.Contains(errLower, "city_id") {
		return ErrorInfo{Code: CityNotFound, Message: "The referenced city does not exist"}
	}
	if strings.Contains(errLower, "category_id") {
		return ErrorInfo{Code: CatalogCategoryNotFound, Message: "The referenced category does not exist"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
}

func notFoundMessage(context string) string {
	ctx := strings.ToLower(context)
	switch {
	case strings.Contains(ctx, "item"):
		return "Item not found"
	case strings.Contains(ctx, "order"):
		return "Order not found"
	case strings.Contains(ctx, "discount"):
		return "Discount not found"
	case strings.Contains(ctx, "address"):
		return "Address not found"
	case strings.Contains(ctx, "city"):
		return "City not found"
	case strings.Contains(ctx, "category"):
		return "Category not found"
	case strings.Contains(ctx, "user"):
		return "User not found"
	case strings.Contains(ctx, "restaurant"):
		return "Restaurant settings not found"
	}
	return "The requested record was not found"
}

func defaultMessage(context string) string {
	ctx := strings.ToLower(context)
	switch {
	case strings.Contains(ctx, "create"):
		return "Failed to create the record. Please try again later"
	case strings.Contains(ctx, "update"):
		return "Failed to update the record. Please try again later"
	case strings.Contains(ctx, "delete"):
		return "Failed to delete the record. Please try again later"
	}
	return "An internal error occurred. Please try again later"
}
