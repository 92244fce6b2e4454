package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
)

type CatalogHandler struct {
	catalogUC domain.CatalogUsecase
}

func NewCatalogHandler(public *gin.RouterGroup, catalogUC domain.CatalogUsecase) {
	handler := &CatalogHandler{catalogUC: catalogUC}

	public.GET("/services", handler.Services)
	public.GET("/services/:id", handler.ServiceByID)
	public.GET("/content/fees", handler.FeeSchedule)
	public.GET("/content/testimonials", handler.Testimonials)
}

// Services godoc
// @Summary      Service catalog
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /services [get]
func (h *CatalogHandler) Services(c *gin.Context) {
	response.Success(c, http.StatusOK, "OK", gin.H{"services": h.catalogUC.Services(c.Request.Context())})
}

// ServiceByID godoc
// @Summary      One catalog entry
// @Tags         catalog
// @Produce      json
// @Param        id  path  string  true  "Service id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /services/{id} [get]
func (h *CatalogHandler) ServiceByID(c *gin.Context) {
	service, err := h.catalogUC.ServiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", service)
}

// FeeSchedule godoc
// @Summary      Process and fees content
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /content/fees [get]
func (h *CatalogHandler) FeeSchedule(c *gin.Context) {
	response.Success(c, http.StatusOK, "OK", h.catalogUC.FeeSchedule(c.Request.Context()))
}

// Testimonials godoc
// @Summary      Approved testimonials
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /content/testimonials [get]
func (h *CatalogHandler) Testimonials(c *gin.Context) {
	response.Success(c, http.StatusOK, "OK", gin.H{"testimonials": h.catalogUC.Testimonials(c.Request.Context())})
}
