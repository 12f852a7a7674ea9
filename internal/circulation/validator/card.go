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

var cardIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

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

type CardValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCardValidator(log *logger.Logger) *CardValidator {
	v := validator.New()

	if err := v.RegisterValidation("card_id", validateCardID); err != nil {
		log.Fatal("Failed to register 'card_id' validator",
			"error", err,
		)
	}

	return &CardValidator{
		validate: v,
		logger:   log,
	}
}

// validateCardID keeps card ids safe to embed in paths and cache keys.
func validateCardID(fl validator.FieldLevel) bool {
	return cardIDRegex.MatchString(fl.Field().String())
}

// Validate trims the card id in place before checking it.
func (v *CardValidator) Validate(req *model.CardRequest) error {
	req.CardID = strings.TrimSpace(req.CardID)

	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *CardValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "card_id":
			message = fmt.Sprintf("%s may only contain letters, digits, '-' and '_'", err.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
