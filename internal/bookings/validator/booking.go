package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"steadyhotel/pkg/logger"
	"steadyhotel/pkg/model"
	"steadyhotel/pkg/sanitizer"
)

// Guest capacity per accommodation category. Categories absent from the
// table fall back to the standard room limit.
var guestLimits = map[string]int{
	"Conference Hall": 250,
	"Spa":             10,
	"Honeymoon Suite": 2,
	"Standard Room":   10,
}

const defaultGuestLimit = 10

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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// GuestLimit returns the maximum guest count for a category
func GuestLimit(category string) int {
	if limit, ok := guestLimits[category]; ok {
		return limit
	}
	return defaultGuestLimit
}

// Validate checks a checkout submission. It returns ValidationErrors
// listing every failed rule, or a plain error on internal failure.
func (v *BookingValidator) Validate(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	var errs ValidationErrors

	if !req.CheckInDate.Before(req.CheckOutDate) {
		errs = append(errs, ValidationError{
			Field:   "CheckOutDate",
			Message: "check_out_date must be after check_in_date",
		})
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.CheckInDate.Before(today) {
		errs = append(errs, ValidationError{
			Field:   "CheckInDate",
			Message: "check_in_date cannot be in the past",
		})
	}

	if limit := GuestLimit(req.Category); req.NumberOfGuests > limit {
		errs = append(errs, ValidationError{
			Field:   "NumberOfGuests",
			Message: fmt.Sprintf("Maximum %d guests allowed for %s", limit, categoryLabel(req.Category)),
		})
	}

	if price, err := sanitizer.NormalizePrice(req.Price); err != nil {
		errs = append(errs, ValidationError{
			Field:   "Price",
			Message: fmt.Sprintf("price is not a valid amount: %v", err),
		})
	} else if price <= 0 {
		errs = append(errs, ValidationError{
			Field:   "Price",
			Message: "price must be a positive amount",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func categoryLabel(category string) string {
	if category == "" {
		return "this accommodation"
	}
	return category
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
