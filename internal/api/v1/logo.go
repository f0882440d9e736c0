package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/service"
)

type LogoHandler struct {
	logoService service.LogoService
	logger      *logger.Logger
}

func NewLogoHandler(logoService service.LogoService, logger *logger.Logger) *LogoHandler {
	return &LogoHandler{
		logoService: logoService,
		logger:      logger,
	}
}

// UploadLogo godoc
// @Summary Upload a company logo
// @Description Accepts a multipart "file" part or a JSON body with a source URL
// @Tags Logos
// @Accept mpfd
// @Produce json
// @Success 201 {object} dto.UploadLogoResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /logos [post]
func (h *LogoHandler) UploadLogo(c *gin.Context) {
	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("failed to read uploaded file").
				Mark(ierr.ErrValidation))
			return
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("failed to read uploaded file").
				Mark(ierr.ErrValidation))
			return
		}

		resp, err := h.logoService.UploadLogo(c.Request.Context(), data)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, resp)
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("provide a multipart file or a source url").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.logoService.UploadLogoFromURL(c.Request.Context(), req.URL)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// DeleteLogo godoc
// @Summary Delete an uploaded logo
// @Tags Logos
// @Produce json
// @Param key path string true "Logo key"
// @Success 200 {object} map[string]string
// @Failure 404 {object} middleware.ErrorResponse
// @Router /logos/{key} [delete]
func (h *LogoHandler) DeleteLogo(c *gin.Context) {
	if err := h.logoService.DeleteLogo(c.Request.Context(), c.Param("key")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
