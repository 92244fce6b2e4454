package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/internal/delivery/http/middleware"
	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
	"go-workwise-backend/pkg/storage"
)

type PaymentHandler struct {
	paymentUC domain.PaymentUsecase
}

func NewPaymentHandler(protected *gin.RouterGroup, paymentUC domain.PaymentUsecase, onboardingUC domain.OnboardingUsecase) {
	handler := &PaymentHandler{paymentUC: paymentUC}

	payment := protected.Group("/worker/payment",
		middleware.RequireRole(domain.RoleWorker),
		middleware.RequireStage(onboardingUC, domain.StagePaymentPending))
	{
		payment.GET("", handler.GetMine)
		payment.POST("", handler.Submit)
		payment.POST("/proof",
			middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig()),
			handler.UploadProof)
	}

	admin := protected.Group("/admin/payments", middleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("", handler.ListQueue)
		admin.POST("/:id/review", handler.Review)
		admin.GET("/export", handler.ExportQueue)
	}
}

// GetMine godoc
// @Summary      Own payment verification
// @Tags         payment
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /worker/payment [get]
func (h *PaymentHandler) GetMine(c *gin.Context) {
	v, err := h.paymentUC.GetMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", v)
}

// Submit godoc
// @Summary      Submit the registration-fee payment
// @Description  Card and PayPal verify immediately. EFT and deposit need a bank reference or proof upload and may park for admin review. The activation code is returned exactly once, on verification.
// @Tags         payment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payment  body      domain.PaymentSubmitRequest  true  "Payment details"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /worker/payment [post]
func (h *PaymentHandler) Submit(c *gin.Context) {
	var req domain.PaymentSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	result, err := h.paymentUC.Submit(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	message := "Payment submitted"
	if result.Verification.Status == domain.PaymentStatusVerified {
		message = "Payment verified. Welcome to WorkWise!"
	}
	response.Success(c, http.StatusOK, message, result)
}

// UploadProof godoc
// @Summary      Upload proof of payment
// @Tags         payment
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Proof of payment (image or PDF)"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /worker/payment/proof [post]
func (h *PaymentHandler) UploadProof(c *gin.Context) {
	filename, data, err := readUpload(c, storage.MaxProofBytes)
	if err != nil {
		c.Error(err)
		return
	}

	key, err := h.paymentUC.UploadProof(c.Request.Context(), currentUserID(c), filename, data)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Proof uploaded", gin.H{"proof_key": key})
}

// ListQueue godoc
// @Summary      Payment review queue
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "Filter by status"
// @Param        page    query  int     false  "Page number"
// @Param        limit   query  int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /admin/payments [get]
func (h *PaymentHandler) ListQueue(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := domain.PaymentFilter{
		Status: domain.PaymentStatus(c.Query("status")),
		Page:   page,
		Limit:  limit,
	}

	rows, total, err := h.paymentUC.ListQueue(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{
		"payments": rows,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// Review godoc
// @Summary      Decide a payment under review
// @Description  Approve issues the activation code and activates the account; reject requires a reason from the closed set.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path  int                          true  "Verification id"
// @Param        review  body  domain.PaymentReviewRequest  true  "Decision"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/payments/{id}/review [post]
func (h *PaymentHandler) Review(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid verification id"))
		return
	}
	var req domain.PaymentReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	v, err := h.paymentUC.Review(c.Request.Context(), currentUserID(c), id, &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Review recorded", v)
}

// ExportQueue godoc
// @Summary      Export the review queue as XLSX
// @Tags         admin
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query  string  false  "Filter by status"
// @Success      200  {file}  binary
// @Router       /admin/payments/export [get]
func (h *PaymentHandler) ExportQueue(c *gin.Context) {
	filter := domain.PaymentFilter{Status: domain.PaymentStatus(c.Query("status"))}

	workbook, err := h.paymentUC.ExportQueue(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("payments-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}
