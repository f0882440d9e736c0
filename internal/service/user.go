package service

import (
	"context"
	"errors"

	"github.com/invixio/invixio/internal/domain/subscription"
	"github.com/invixio/invixio/internal/domain/user"
	"github.com/invixio/invixio/internal/dto"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/types"
)

type UserService interface {
	Onboard(ctx context.Context, req dto.OnboardUserRequest) (*dto.UserResponse, error)
	UpdateCompanyInfo(ctx context.Context, req dto.UpdateCompanyInfoRequest) (*dto.UserResponse, error)
	GetProfile(ctx context.Context) (*dto.UserResponse, error)
}

type userService struct {
	ServiceParams
}

func NewUserService(params ServiceParams) UserService {
	return &userService{ServiceParams: params}
}

// Onboard records the company profile for a first-time user. The profile is
// stamped onto every invoice issued afterwards. The user row is provisioned
// lazily from the token identity on first contact.
func (s *userService) Onboard(ctx context.Context, req dto.OnboardUserRequest) (*dto.UserResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.ensureUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Onboarded {
		return nil, ierr.NewError("user already onboarded").
			WithHint("Company profile has already been set up").
			Mark(ierr.ErrAlreadyExists)
	}

	u.Name = req.Name
	u.CompanyName = req.CompanyName
	u.CompanyEmail = req.CompanyEmail
	u.CompanyAddress = req.CompanyAddress
	u.BusinessType = req.BusinessType
	u.Currency = req.Currency
	u.Onboarded = true

	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.UserRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, u)
}

func (s *userService) UpdateCompanyInfo(ctx context.Context, req dto.UpdateCompanyInfoRequest) (*dto.UserResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.UserRepo.Get(ctx, userID)
	if err != nil {
		return nil, wrapUserNotFound(err)
	}
	if !u.Onboarded {
		return nil, ierr.NewError("user has not completed onboarding").
			WithHint("Complete onboarding first").
			Mark(ierr.ErrInvalidOperation)
	}

	if req.CompanyName != nil {
		u.CompanyName = *req.CompanyName
	}
	if req.CompanyEmail != nil {
		u.CompanyEmail = *req.CompanyEmail
	}
	if req.CompanyAddress != nil {
		u.CompanyAddress = *req.CompanyAddress
	}
	if req.BusinessType != nil {
		u.BusinessType = *req.BusinessType
	}
	if req.Currency != nil {
		u.Currency = *req.Currency
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.UserRepo.Update(ctx, u); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, u)
}

func (s *userService) GetProfile(ctx context.Context) (*dto.UserResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}

	u, err := s.ensureUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, u)
}

// ensureUser provisions the user row from the token identity on first
// contact; the account system upstream owns credentials.
func (s *userService) ensureUser(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.UserRepo.Get(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	u = &user.User{
		ID:        userID,
		Email:     types.GetUserEmail(ctx),
		BaseModel: types.GetDefaultBaseModel(),
	}
	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) toResponse(ctx context.Context, u *user.User) (*dto.UserResponse, error) {
	sub, err := s.SubscriptionRepo.GetByUserID(ctx, u.ID)
	if err != nil && !errors.Is(err, subscription.ErrSubscriptionNotFound) {
		return nil, err
	}
	return dto.ToUserResponse(u, sub.IsActive()), nil
}

func wrapUserNotFound(err error) error {
	if errors.Is(err, user.ErrUserNotFound) {
		return ierr.WithError(err).
			WithHint("User not found").
			Mark(ierr.ErrNotFound)
	}
	return err
}
