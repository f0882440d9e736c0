package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	ftypes "github.com/h2non/filetype/types"

	"github.com/invixio/invixio/internal/dto"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/httpclient"
	"github.com/invixio/invixio/internal/s3"
	"github.com/invixio/invixio/internal/types"
)

// maxLogoBytes caps uploaded logo size at 2 MiB.
const maxLogoBytes = 2 << 20

// LogoService hosts company logos in object storage so invoices can embed
// them by URL.
type LogoService interface {
	UploadLogo(ctx context.Context, data []byte) (*dto.UploadLogoResponse, error)
	UploadLogoFromURL(ctx context.Context, sourceURL string) (*dto.UploadLogoResponse, error)
	DeleteLogo(ctx context.Context, key string) error
}

type logoService struct {
	ServiceParams
}

func NewLogoService(params ServiceParams) LogoService {
	return &logoService{ServiceParams: params}
}

func (s *logoService) UploadLogo(ctx context.Context, data []byte) (*dto.UploadLogoResponse, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticatedErr()
	}
	if s.S3 == nil {
		return nil, storageDisabledErr()
	}

	if len(data) == 0 {
		return nil, ierr.NewError("empty logo upload").
			WithHint("Logo file is empty").
			Mark(ierr.ErrValidation)
	}
	if len(data) > maxLogoBytes {
		return nil, ierr.NewError("logo too large").
			WithHintf("Logo must be at most %d bytes", maxLogoBytes).
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(data)
	if err != nil || !isSupportedLogoType(kind) {
		return nil, ierr.NewError("unsupported logo format").
			WithHint("Logo must be a PNG, JPEG or WebP image").
			Mark(ierr.ErrValidation)
	}

	key := fmt.Sprintf("%s.%s", uuid.New().String(), kind.Extension)
	doc := s3.NewLogoDocument(key, data, kind.MIME.Value)
	if err := s.S3.UploadDocument(ctx, doc); err != nil {
		return nil, err
	}

	url, err := s.S3.PublicUrl(key, s3.DocumentTypeLogo)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("logo uploaded",
		"user_id", userID,
		"key", key,
		"content_type", kind.MIME.Value)

	return &dto.UploadLogoResponse{Key: key, URL: url}, nil
}

// UploadLogoFromURL fetches a remote image and re-hosts it, so invoices never
// depend on a third-party origin staying up.
func (s *logoService) UploadLogoFromURL(ctx context.Context, sourceURL string) (*dto.UploadLogoResponse, error) {
	if sourceURL == "" {
		return nil, ierr.NewError("missing logo url").
			WithHint("Provide the URL of the logo to import").
			Mark(ierr.ErrValidation)
	}

	resp, err := s.Client.Send(ctx, &httpclient.Request{
		Method: "GET",
		URL:    sourceURL,
	})
	if err != nil {
		if httpErr, ok := httpclient.IsHTTPError(err); ok {
			return nil, ierr.WithError(err).
				WithHintf("The logo URL responded with status %d", httpErr.StatusCode).
				Mark(ierr.ErrHTTPClient)
		}
		return nil, ierr.WithError(err).
			WithHint("Could not fetch the logo from the given URL").
			Mark(ierr.ErrHTTPClient)
	}

	return s.UploadLogo(ctx, resp.Body)
}

func (s *logoService) DeleteLogo(ctx context.Context, key string) error {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return unauthenticatedErr()
	}
	if s.S3 == nil {
		return storageDisabledErr()
	}
	if key == "" {
		return ierr.NewError("missing logo key").
			WithHint("Provide the key of the logo to delete").
			Mark(ierr.ErrValidation)
	}

	exists, err := s.S3.Exists(ctx, key, s3.DocumentTypeLogo)
	if err != nil {
		return err
	}
	if !exists {
		return ierr.NewError("logo not found").
			WithHint("Logo not found").
			Mark(ierr.ErrNotFound)
	}

	if err := s.S3.DeleteDocument(ctx, key, s3.DocumentTypeLogo); err != nil {
		return err
	}

	s.Logger.Infow("logo deleted", "user_id", userID, "key", key)
	return nil
}

func isSupportedLogoType(kind ftypes.Type) bool {
	switch kind {
	case matchers.TypePng, matchers.TypeJpeg, matchers.TypeWebp:
		return true
	}
	return false
}

func storageDisabledErr() error {
	return ierr.NewError("object storage is not configured").
		WithHint("File storage is not available in this environment").
		Mark(ierr.ErrInvalidOperation)
}
