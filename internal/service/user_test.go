package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/invixio/invixio/internal/domain/subscription"
	"github.com/invixio/invixio/internal/dto"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/testutil"
	"github.com/invixio/invixio/internal/types"
)

type UserServiceSuite struct {
	testutil.BaseServiceTestSuite
	service UserService
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	collab := s.GetCollaborators()
	s.service = NewUserService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		DB:               testutil.NewMockPostgresClient(s.GetLogger()),
		InvoiceRepo:      stores.InvoiceRepo,
		UserRepo:         stores.UserRepo,
		SubscriptionRepo: stores.SubscriptionRepo,
		PDFGenerator:     collab.PDFGenerator,
		S3:               collab.Documents,
		Mailer:           collab.Mailer,
		Cache:            s.GetCache(),
		Client:           collab.HTTPClient,
	})
}

func (s *UserServiceSuite) onboardRequest() dto.OnboardUserRequest {
	return dto.OnboardUserRequest{
		Name:           "Jordan Reyes",
		CompanyName:    "Atelier North",
		CompanyEmail:   "billing@ateliernorth.test",
		CompanyAddress: "12 Harbor Way, Oslo",
		BusinessType:   types.BusinessTypeFreelancer,
		Currency:       "USD",
	}
}

func (s *UserServiceSuite) TestGetProfileProvisionsLazily() {
	// no row exists yet; first contact creates one from the token identity
	resp, err := s.service.GetProfile(s.GetContext())
	s.NoError(err)
	s.Equal(testutil.DefaultUserID, resp.ID)
	s.Equal(testutil.DefaultUserEmail, resp.Email)
	s.False(resp.Onboarded)
	s.False(resp.PlanActive)

	// the row is durable
	u, err := s.GetUserRepo().Get(s.GetContext(), testutil.DefaultUserID)
	s.NoError(err)
	s.Equal(testutil.DefaultUserEmail, u.Email)
}

func (s *UserServiceSuite) TestOnboard() {
	resp, err := s.service.Onboard(s.GetContext(), s.onboardRequest())
	s.NoError(err)
	s.True(resp.Onboarded)
	s.Equal("Atelier North", resp.CompanyName)
	s.Equal(types.BusinessTypeFreelancer, resp.BusinessType)
	s.Equal("USD", resp.Currency)

	// re-onboarding is a conflict, not an update
	_, err = s.service.Onboard(s.GetContext(), s.onboardRequest())
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *UserServiceSuite) TestOnboardRejectsBadPayload() {
	req := s.onboardRequest()
	req.Currency = "dollars"
	_, err := s.service.Onboard(s.GetContext(), req)
	s.True(ierr.IsValidation(err))

	req = s.onboardRequest()
	req.BusinessType = types.BusinessType("conglomerate")
	_, err = s.service.Onboard(s.GetContext(), req)
	s.True(ierr.IsValidation(err))
}

func (s *UserServiceSuite) TestUpdateCompanyInfo() {
	_, err := s.service.Onboard(s.GetContext(), s.onboardRequest())
	s.NoError(err)

	resp, err := s.service.UpdateCompanyInfo(s.GetContext(), dto.UpdateCompanyInfoRequest{
		CompanyName: lo.ToPtr("Atelier North AS"),
		Currency:    lo.ToPtr("NOK"),
	})
	s.NoError(err)
	s.Equal("Atelier North AS", resp.CompanyName)
	s.Equal("NOK", resp.Currency)

	// untouched fields keep their values
	s.Equal("billing@ateliernorth.test", resp.CompanyEmail)
	s.Equal(types.BusinessTypeFreelancer, resp.BusinessType)
}

func (s *UserServiceSuite) TestUpdateCompanyInfoRequiresOnboarding() {
	_, err := s.service.GetProfile(s.GetContext())
	s.NoError(err)

	_, err = s.service.UpdateCompanyInfo(s.GetContext(), dto.UpdateCompanyInfoRequest{
		CompanyName: lo.ToPtr("Atelier North"),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *UserServiceSuite) TestProfileReflectsActivePlan() {
	_, err := s.service.Onboard(s.GetContext(), s.onboardRequest())
	s.NoError(err)

	s.NoError(s.GetSubscriptionRepo().Upsert(s.GetContext(), &subscription.Subscription{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		UserID:               testutil.DefaultUserID,
		StripeSubscriptionID: "sub_123",
		PlanStatus:           types.SubscriptionStatusActive,
		BaseModel:            types.GetDefaultBaseModel(),
	}))

	resp, err := s.service.GetProfile(s.GetContext())
	s.NoError(err)
	s.True(resp.PlanActive)
}
