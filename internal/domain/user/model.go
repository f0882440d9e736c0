package user

import (
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/types"
)

// User represents an account holder together with the company profile that is
// stamped onto invoices at creation time.
type User struct {
	ID             string             `db:"id" json:"id"`
	Email          string             `db:"email" json:"email"`
	Name           string             `db:"name" json:"name,omitempty"`
	CompanyName    string             `db:"company_name" json:"company_name"`
	CompanyEmail   string             `db:"company_email" json:"company_email"`
	CompanyAddress string             `db:"company_address" json:"company_address"`
	BusinessType   types.BusinessType `db:"business_type" json:"business_type"`
	Currency       string             `db:"currency" json:"currency"`
	// CustomerID is the payment processor's customer reference, set lazily
	// on first checkout
	CustomerID *string `db:"customer_id" json:"customer_id,omitempty"`
	Onboarded  bool    `db:"onboarded" json:"onboarded"`
	types.BaseModel
}

// Validate checks the profile fields required before invoices can be issued.
func (u *User) Validate() error {
	if u.Email == "" {
		return ierr.NewError("user validation failed").
			WithHint("Email is required").
			Mark(ierr.ErrValidation)
	}
	if u.Onboarded {
		if u.CompanyName == "" || u.CompanyEmail == "" || u.CompanyAddress == "" {
			return ierr.NewError("user validation failed").
				WithHint("Company profile is incomplete").
				Mark(ierr.ErrValidation)
		}
		if err := u.BusinessType.Validate(); err != nil {
			return err
		}
		if u.Currency == "" {
			return ierr.NewError("user validation failed").
				WithHint("Please choose a preferred currency").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}
