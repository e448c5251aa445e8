package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/grade-service/internal/errors"
	"github.com/SAP-F-2025/grade-service/internal/grading"
	"github.com/SAP-F-2025/grade-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Catalog specific errors
	ErrTermNotFound       = repositories.ErrTermNotFound
	ErrTermAlreadyExists  = repositories.ErrTermAlreadyExists
	ErrInvalidCatalog     = errors.New("invalid term catalog")
	ErrInvalidSpreadsheet = errors.New("invalid catalog spreadsheet")

	// Grading specific errors
	ErrMissingCategory = grading.ErrMissingCategory
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
	cause   error
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

func (bre *BusinessRuleError) Unwrap() error {
	return bre.cause
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// missingCategoryRule turns the aggregator precondition failure into a
// business rule violation that still matches ErrMissingCategory.
func missingCategoryRule(err error) error {
	var mce *grading.MissingCategoryError
	if !errors.As(err, &mce) {
		return err
	}
	names := make([]string, len(mce.Categories))
	for i, c := range mce.Categories {
		names[i] = c.String()
	}
	bre := NewBusinessRuleError("require_every_category", mce.Error(), map[string]interface{}{"missing": names})
	bre.cause = err
	return bre
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTermNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrInvalidCatalog) ||
		errors.Is(err, ErrInvalidSpreadsheet) {
		return true
	}
	var ve apperrors.ValidationErrors
	var single *apperrors.ValidationError
	return errors.As(err, &ve) || errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre) || errors.Is(err, ErrMissingCategory)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrTermAlreadyExists)
}
