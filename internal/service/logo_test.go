package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/httpclient"
	"github.com/invixio/invixio/internal/s3"
	"github.com/invixio/invixio/internal/testutil"
)

// pngBytes carries the PNG magic number so content sniffing accepts it.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}

type LogoServiceSuite struct {
	testutil.BaseServiceTestSuite
	service LogoService
}

func TestLogoService(t *testing.T) {
	suite.Run(t, new(LogoServiceSuite))
}

func (s *LogoServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	collab := s.GetCollaborators()
	s.service = NewLogoService(ServiceParams{
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

func (s *LogoServiceSuite) TestUploadLogo() {
	resp, err := s.service.UploadLogo(s.GetContext(), pngBytes)
	s.NoError(err)
	s.True(strings.HasSuffix(resp.Key, ".png"))
	s.NotEmpty(resp.URL)

	stored, ok := s.GetCollaborators().Documents.Document(resp.Key, s3.DocumentTypeLogo)
	s.True(ok)
	s.Equal(pngBytes, stored)
}

func (s *LogoServiceSuite) TestUploadLogoRejectsUnknownFormat() {
	_, err := s.service.UploadLogo(s.GetContext(), []byte("<svg></svg>"))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LogoServiceSuite) TestUploadLogoRejectsEmptyAndOversized() {
	_, err := s.service.UploadLogo(s.GetContext(), nil)
	s.True(ierr.IsValidation(err))

	big := make([]byte, maxLogoBytes+1)
	copy(big, pngBytes)
	_, err = s.service.UploadLogo(s.GetContext(), big)
	s.True(ierr.IsValidation(err))
}

func (s *LogoServiceSuite) TestUploadLogoFromURL() {
	const source = "https://cdn.example.test/logo.png"
	s.GetCollaborators().HTTPClient.RespondWith(source, &httpclient.Response{
		StatusCode: 200,
		Body:       pngBytes,
	})

	resp, err := s.service.UploadLogoFromURL(s.GetContext(), source)
	s.NoError(err)
	s.True(strings.HasSuffix(resp.Key, ".png"))

	requests := s.GetCollaborators().HTTPClient.Requests()
	s.Len(requests, 1)
	s.Equal(source, requests[0].URL)
}

func (s *LogoServiceSuite) TestUploadLogoFromUnreachableURL() {
	_, err := s.service.UploadLogoFromURL(s.GetContext(), "https://cdn.example.test/missing.png")
	s.Error(err)
}

func (s *LogoServiceSuite) TestUploadLogoFromURLUpstreamStatus() {
	source := "https://cdn.example.test/gone.png"
	s.GetCollaborators().HTTPClient.FailWith(source, httpclient.NewError(404, nil))

	_, err := s.service.UploadLogoFromURL(s.GetContext(), source)
	s.Error(err)

	httpErr, ok := httpclient.IsHTTPError(err)
	s.True(ok)
	s.Equal(404, httpErr.StatusCode)
}

func (s *LogoServiceSuite) TestDeleteLogo() {
	resp, err := s.service.UploadLogo(s.GetContext(), pngBytes)
	s.NoError(err)

	s.NoError(s.service.DeleteLogo(s.GetContext(), resp.Key))

	_, ok := s.GetCollaborators().Documents.Document(resp.Key, s3.DocumentTypeLogo)
	s.False(ok)

	// deleting again reports the logo as gone
	err = s.service.DeleteLogo(s.GetContext(), resp.Key)
	s.True(ierr.IsNotFound(err))
}
