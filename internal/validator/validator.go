package validator

import (
	"reflect"
	"strings"

	apperrors "github.com/SAP-F-2025/grade-service/internal/errors"
	"github.com/SAP-F-2025/grade-service/internal/grading"
	"github.com/SAP-F-2025/grade-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator  *validator.Validate
	catalogValidator *CatalogValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:  structValidator,
		catalogValidator: NewCatalogValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Validate performs complete validation (struct + catalog rules for terms)
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		return err
	}

	if term, ok := s.(*models.Term); ok {
		if errs := v.catalogValidator.ValidateTerm(term); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

// Catalog returns the catalog validator
func (v *Validator) Catalog() *CatalogValidator {
	return v.catalogValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("grade_category", validateCategory)
	validate.RegisterValidation("drop_policy", validateDropPolicy)
	validate.RegisterValidation("inactive_policy", validateInactivePolicy)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateCategory(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case models.Category:
		return v.Valid()
	case string:
		_, err := models.ParseCategory(v)
		return err == nil
	default:
		return false
	}
}

// Empty policies mean "use the configured default".
func validateDropPolicy(fl validator.FieldLevel) bool {
	_, err := grading.ParseDropPolicy(fl.Field().String())
	return err == nil
}

func validateInactivePolicy(fl validator.FieldLevel) bool {
	_, err := grading.ParseInactiveCategoryPolicy(fl.Field().String())
	return err == nil
}
