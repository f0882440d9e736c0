package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/invixio/invixio/internal/dto"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/service"
)

type UserHandler struct {
	userService service.UserService
	logger      *logger.Logger
}

func NewUserHandler(userService service.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Onboard godoc
// @Summary Complete onboarding
// @Description Record the company profile required before invoices can be issued
// @Tags Users
// @Accept json
// @Produce json
// @Param profile body dto.OnboardUserRequest true "Company profile"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /onboarding [post]
func (h *UserHandler) Onboard(c *gin.Context) {
	var req dto.OnboardUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.userService.Onboard(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags Users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	resp, err := h.userService.GetProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateCompanyInfo godoc
// @Summary Update the caller's company profile
// @Tags Users
// @Accept json
// @Produce json
// @Param profile body dto.UpdateCompanyInfoRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateCompanyInfo(c *gin.Context) {
	var req dto.UpdateCompanyInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.userService.UpdateCompanyInfo(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
