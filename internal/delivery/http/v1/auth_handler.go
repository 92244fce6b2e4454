package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/config"
	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
)

type AuthHandler struct {
	authUC       domain.AuthUsecase
	onboardingUC domain.OnboardingUsecase
	config       *config.Config
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, onboardingUC domain.OnboardingUsecase, cfg *config.Config) {
	handler := &AuthHandler{
		authUC:       authUC,
		onboardingUC: onboardingUC,
		config:       cfg,
	}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/otp/send", handler.SendOTP)
		publicAuth.POST("/otp/verify", handler.VerifyOTP)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/logout", handler.Logout)
		protectedAuth.POST("/change-password", handler.ChangePassword)
		protectedAuth.GET("/me", handler.Me)
	}
}

// Register godoc
// @Summary      User registration
// @Description  Register a worker or employer account. The account is not signed in until the confirmation email is actioned.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.SignUpRequest  true  "Registration form"
// @Success      201  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	user, err := h.authUC.SignUp(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Registration successful. Please confirm your email address.", gin.H{
		"user": user,
	})
}

// Login godoc
// @Summary      Credential sign-in
// @Description  Exchange email and password for a gateway session. Failures share one message regardless of cause.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      domain.SignInRequest  true  "Credentials"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	session, err := h.authUC.SignIn(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	// Tell the client where this account belongs right now, so the first
	// render after sign-in lands on the correct pipeline step.
	resolution, rerr := h.onboardingUC.ResolveRoute(c.Request.Context(), "/", &session.Identity)
	data := gin.H{"session": session}
	if rerr == nil {
		if resolution.Allowed {
			data["next_route"] = "/"
		} else {
			data["next_route"] = resolution.Redirect
		}
	}
	response.Success(c, http.StatusOK, "Successfully logged in", data)
}

// SendOTP godoc
// @Summary      Request a one-time code
// @Description  Dispatches an OTP to email or phone. Always reports accepted so accounts cannot be enumerated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        otp  body      domain.SendOTPRequest  true  "Destination"
// @Success      200  {object}  response.Response
// @Router       /auth/otp/send [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req domain.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	if !h.authUC.SendOTP(c.Request.Context(), &req) {
		c.Error(apperror.BadRequest("Provide a valid email address or phone number"))
		return
	}
	response.Success(c, http.StatusOK, "If the account exists, a code has been sent", nil)
}

// VerifyOTP godoc
// @Summary      Verify a one-time code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        verify  body      domain.VerifyOTPRequest  true  "Code"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req domain.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	session, ok := h.authUC.VerifyOTP(c.Request.Context(), &req)
	if !ok {
		c.Error(apperror.BadRequest("The code is invalid or has expired"))
		return
	}
	response.Success(c, http.StatusOK, "Successfully logged in", gin.H{"session": session})
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUC.SignOut(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "You have been signed out", nil)
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        change  body      domain.ChangePasswordRequest  true  "New password"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	if err := h.authUC.ChangePassword(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password updated", nil)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the signed-in user together with the persisted onboarding status.
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := c.Get(string(domain.KeyUserID))
	userIDStr, _ := userID.(string)

	user, err := h.authUC.GetCurrentUser(c.Request.Context(), userIDStr)
	if err != nil {
		c.Error(err)
		return
	}
	status, err := h.onboardingUC.GetStatus(c.Request.Context(), userIDStr)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{
		"user":       user,
		"onboarding": status,
	})
}
