package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
)

type OnboardingHandler struct {
	onboardingUC domain.OnboardingUsecase
}

// NewOnboardingHandler registers the status endpoint on the protected group
// and route resolution on the optional-auth group, since the resolver serves
// anonymous visitors too.
func NewOnboardingHandler(optional *gin.RouterGroup, protected *gin.RouterGroup, onboardingUC domain.OnboardingUsecase) {
	handler := &OnboardingHandler{onboardingUC: onboardingUC}

	protected.GET("/onboarding/status", handler.Status)
	optional.POST("/routes/resolve", handler.ResolveRoute)
}

// Status godoc
// @Summary      Onboarding status
// @Description  Returns the persisted completion facts and the derived pipeline stage.
// @Tags         onboarding
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /onboarding/status [get]
func (h *OnboardingHandler) Status(c *gin.Context) {
	userID, _ := c.Get(string(domain.KeyUserID))
	userIDStr, _ := userID.(string)

	status, err := h.onboardingUC.GetStatus(c.Request.Context(), userIDStr)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{
		"status": status,
		"stage":  status.Stage(),
		"route":  status.Stage().Route(status.Role),
	})
}

type resolveRouteRequest struct {
	Path string `json:"path" binding:"required"`
}

// ResolveRoute godoc
// @Summary      Resolve a frontend route
// @Description  Applies the role- and stage-gated route table for the caller's session. Anonymous callers get the public-page verdicts.
// @Tags         onboarding
// @Accept       json
// @Produce      json
// @Param        resolve  body      resolveRouteRequest  true  "Path to resolve"
// @Success      200  {object}  response.Response
// @Router       /routes/resolve [post]
func (h *OnboardingHandler) ResolveRoute(c *gin.Context) {
	var req resolveRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	identity := identityFromContext(c)
	resolution, err := h.onboardingUC.ResolveRoute(c.Request.Context(), req.Path, identity)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", resolution)
}

// identityFromContext rebuilds the session identity set by the auth
// middleware; nil when the request is anonymous.
func identityFromContext(c *gin.Context) *domain.Identity {
	userID, ok := c.Get(string(domain.KeyUserID))
	userIDStr, _ := userID.(string)
	if !ok || userIDStr == "" {
		return nil
	}
	email, _ := c.Get(string(domain.KeyUserEmail))
	emailStr, _ := email.(string)
	role, _ := c.Get(string(domain.KeyUserRole))
	roleStr, _ := role.(string)

	return &domain.Identity{
		ID:    userIDStr,
		Email: emailStr,
		Role:  domain.Role(roleStr),
	}
}
