package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"circulation/pkg/logger"
	"circulation/pkg/model"

	"github.com/go-playground/validator/v10"
)

var deweyRegex = regexp.MustCompile(`^\d{3}(\.\d+)?$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type AssetValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAssetValidator(log *logger.Logger) *AssetValidator {
	v := validator.New()

	if err := v.RegisterValidation("dewey", validateDewey); err != nil {
		log.Fatal("Failed to register 'dewey' validator",
			"error", err,
		)
	}
	v.RegisterStructValidation(validateVariant, model.Asset{})

	log.Debug("Asset validator initialized")

	return &AssetValidator{
		validate: v,
		logger:   log,
	}
}

// validateDewey accepts a three digit class with an optional decimal part,
// e.g. 813 or 813.54.
func validateDewey(fl validator.FieldLevel) bool {
	return deweyRegex.MatchString(fl.Field().String())
}

// validateVariant requires the details that match Kind and nothing else.
func validateVariant(sl validator.StructLevel) {
	asset := sl.Current().Interface().(model.Asset)

	switch asset.Kind {
	case model.AssetKindBook:
		if asset.Book == nil {
			sl.ReportError(asset.Book, "Book", "Book", "variant_required", "")
		}
		if asset.Video != nil {
			sl.ReportError(asset.Video, "Video", "Video", "variant_excluded", "")
		}
	case model.AssetKindVideo:
		if asset.Video == nil {
			sl.ReportError(asset.Video, "Video", "Video", "variant_required", "")
		}
		if asset.Book != nil {
			sl.ReportError(asset.Book, "Book", "Book", "variant_excluded", "")
		}
	}
}

func (v *AssetValidator) Validate(asset *model.Asset) error {
	if err := v.validate.Struct(asset); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *AssetValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "isbn":
			message = fmt.Sprintf("%s must be a valid ISBN-10 or ISBN-13", err.Field())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "dewey":
			message = fmt.Sprintf("%s must look like 813 or 813.54", err.Field())
		case "variant_required":
			message = fmt.Sprintf("%s details are required for this kind", err.Field())
		case "variant_excluded":
			message = fmt.Sprintf("%s details are not allowed for this kind", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
