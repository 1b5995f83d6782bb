package pricelist

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a price entry could not be located.
	ErrNotFound = errors.New("price entry not found")
	// ErrDuplicate signals that the mill already has a price for the grade on that date.
	ErrDuplicate = errors.New("price entry for mill, grade and date already exists")
)

// DateLayout is the wire format of effective dates.
const DateLayout = "2006-01-02"

// Entry is the published sugar price of one mill for one grade, effective
// from a given date. Prices are per 50 kg bag (LKg).
type Entry struct {
	ID            string    `json:"id"`
	SugarMill     string    `json:"sugarMill"`
	Grade         string    `json:"grade"`
	PricePerLKg   float64   `json:"pricePerLkg"`
	EffectiveDate time.Time `json:"effectiveDate"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Update applies the non-nil fields to the entry.
func (e *Entry) Update(mill, grade *string, price *float64, effective *time.Time, notes *string, now time.Time) {
	if mill != nil {
		e.SugarMill = *mill
	}
	if grade != nil {
		e.Grade = *grade
	}
	if price != nil {
		e.PricePerLKg = *price
	}
	if effective != nil {
		e.EffectiveDate = *effective
	}
	if notes != nil {
		e.Notes = *notes
	}
	e.UpdatedAt = now
}
