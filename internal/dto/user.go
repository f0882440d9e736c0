package dto

import (
	"time"

	"github.com/invixio/invixio/internal/domain/user"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/types"
)

// OnboardUserRequest captures the company profile during first-run setup.
type OnboardUserRequest struct {
	Name           string             `json:"name" binding:"required" example:"Jane Doe"`
	CompanyName    string             `json:"company_name" binding:"required" example:"Doe Design Studio"`
	CompanyEmail   string             `json:"company_email" binding:"required,email" example:"hello@doedesign.test"`
	CompanyAddress string             `json:"company_address" binding:"required"`
	BusinessType   types.BusinessType `json:"business_type" binding:"required" example:"freelancer"`
	Currency       string             `json:"currency" binding:"required" example:"USD"`
}

func (r *OnboardUserRequest) Validate() error {
	if err := r.BusinessType.Validate(); err != nil {
		return err
	}
	if len(r.Currency) != 3 {
		return ierr.NewError("invalid onboarding payload").
			WithHint("Currency must be a 3-letter ISO code").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// UpdateCompanyInfoRequest edits the profile fields stamped onto new
// invoices. Existing invoices keep their original copy.
type UpdateCompanyInfoRequest struct {
	CompanyName    *string             `json:"company_name,omitempty"`
	CompanyEmail   *string             `json:"company_email,omitempty"`
	CompanyAddress *string             `json:"company_address,omitempty"`
	BusinessType   *types.BusinessType `json:"business_type,omitempty"`
	Currency       *string             `json:"currency,omitempty"`
}

func (r *UpdateCompanyInfoRequest) Validate() error {
	if r.BusinessType != nil {
		if err := r.BusinessType.Validate(); err != nil {
			return err
		}
	}
	if r.Currency != nil && len(*r.Currency) != 3 {
		return ierr.NewError("invalid company info payload").
			WithHint("Currency must be a 3-letter ISO code").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// UserResponse represents the account profile response structure.
type UserResponse struct {
	ID             string             `json:"id"`
	Email          string             `json:"email"`
	Name           string             `json:"name,omitempty"`
	CompanyName    string             `json:"company_name,omitempty"`
	CompanyEmail   string             `json:"company_email,omitempty"`
	CompanyAddress string             `json:"company_address,omitempty"`
	BusinessType   types.BusinessType `json:"business_type,omitempty"`
	Currency       string             `json:"currency,omitempty"`
	Onboarded      bool               `json:"onboarded"`
	PlanActive     bool               `json:"plan_active"`
	CreatedAt      time.Time          `json:"created_at"`
}

func ToUserResponse(u *user.User, planActive bool) *UserResponse {
	return &UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		CompanyName:    u.CompanyName,
		CompanyEmail:   u.CompanyEmail,
		CompanyAddress: u.CompanyAddress,
		BusinessType:   u.BusinessType,
		Currency:       u.Currency,
		Onboarded:      u.Onboarded,
		PlanActive:     planActive,
		CreatedAt:      u.CreatedAt,
	}
}
