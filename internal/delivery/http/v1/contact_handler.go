package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{contactUC: contactUC}

	public.POST("/contact", handler.Send)
}

// Send godoc
// @Summary      Send a help & support message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        message  body      domain.ContactRequest  true  "Contact form"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) Send(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Message sent. We will get back to you shortly.", nil)
}
