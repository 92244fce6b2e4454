package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/internal/delivery/http/middleware"
	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
)

type ScreeningHandler struct {
	screeningUC domain.ScreeningUsecase
}

func NewScreeningHandler(protected *gin.RouterGroup, screeningUC domain.ScreeningUsecase, onboardingUC domain.OnboardingUsecase) {
	handler := &ScreeningHandler{screeningUC: screeningUC}

	screening := protected.Group("/worker/screening",
		middleware.RequireRole(domain.RoleWorker),
		middleware.RequireStage(onboardingUC, domain.StageScreeningPending))
	{
		screening.GET("/questions", handler.Questions)
		screening.GET("", handler.GetMine)
		screening.POST("", handler.Submit)
	}
}

// Questions godoc
// @Summary      Screening question catalog
// @Tags         screening
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /worker/screening/questions [get]
func (h *ScreeningHandler) Questions(c *gin.Context) {
	response.Success(c, http.StatusOK, "OK", h.screeningUC.GetQuestions(c.Request.Context()))
}

// GetMine godoc
// @Summary      Own screening answers
// @Tags         screening
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /worker/screening [get]
func (h *ScreeningHandler) GetMine(c *gin.Context) {
	answers, err := h.screeningUC.GetMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{"answers": answers})
}

// Submit godoc
// @Summary      Submit screening answers
// @Description  Validates every answer at once; on failure the full violation set comes back keyed by question id.
// @Tags         screening
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        answers  body      domain.ScreeningSubmission  true  "Answers"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /worker/screening [post]
func (h *ScreeningHandler) Submit(c *gin.Context) {
	var sub domain.ScreeningSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	nextRoute, err := h.screeningUC.Submit(c.Request.Context(), currentUserID(c), &sub)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Screening submitted", gin.H{"next_route": nextRoute})
}
