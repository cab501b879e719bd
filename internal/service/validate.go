package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

// requireText rejects empty or whitespace-only values.
func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return nil
}

// maxLen rejects values longer than n characters.
func maxLen(field, v string, n int) error {
	if utf8.RuneCountInString(v) > n {
		return fmt.Errorf("%w: %s must be at most %d characters", domain.ErrValidation, field, n)
	}
	return nil
}

// validOrder rejects display positions below 1.
func validOrder(order int) error {
	if order < 1 {
		return fmt.Errorf("%w: order must be at least 1", domain.ErrValidation)
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// trimPtr trims the string behind p in place.
func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

// validPrice rejects negative prices.
func validPrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return nil
}

// validEmail performs a shallow shape check; deliverability is not verified.
func validEmail(email string) error {
	at := strings.LastIndex(email, "@")
	if email != "" && (at < 1 || at == len(email)-1) {
		return fmt.Errorf("%w: email must be a valid address", domain.ErrValidation)
	}
	return nil
}

// validTravelers rejects bookings for fewer than one person.
func validTravelers(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: travelers must be at least 1", domain.ErrValidation)
	}
	return nil
}
