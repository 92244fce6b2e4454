package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/internal/delivery/http/middleware"
	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
)

type EmployerProfileHandler struct {
	profileUC domain.EmployerProfileUsecase
}

func NewEmployerProfileHandler(protected *gin.RouterGroup, profileUC domain.EmployerProfileUsecase) {
	handler := &EmployerProfileHandler{profileUC: profileUC}

	employer := protected.Group("/employer", middleware.RequireRole(domain.RoleEmployer))
	{
		employer.GET("/profile", handler.GetMine)
		employer.PUT("/profile", handler.Submit)
	}
}

// GetMine godoc
// @Summary      Own employer profile
// @Tags         employer-profile
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /employer/profile [get]
func (h *EmployerProfileHandler) GetMine(c *gin.Context) {
	profile, err := h.profileUC.GetMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", profile)
}

// Submit godoc
// @Summary      Submit or amend the company profile
// @Description  Completing the company profile is the employer's only onboarding step; the account is active afterwards.
// @Tags         employer-profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.EmployerProfileRequest  true  "Company profile form"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /employer/profile [put]
func (h *EmployerProfileHandler) Submit(c *gin.Context) {
	var req domain.EmployerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	nextRoute, err := h.profileUC.Submit(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Company profile saved", gin.H{"next_route": nextRoute})
}
