package v1

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/internal/delivery/http/middleware"
	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
	"go-workwise-backend/pkg/storage"
)

type WorkerProfileHandler struct {
	profileUC domain.WorkerProfileUsecase
}

func NewWorkerProfileHandler(protected *gin.RouterGroup, profileUC domain.WorkerProfileUsecase) {
	handler := &WorkerProfileHandler{profileUC: profileUC}

	worker := protected.Group("/worker", middleware.RequireRole(domain.RoleWorker))
	{
		worker.GET("/profile", handler.GetMine)
		worker.PUT("/profile", handler.Submit)
		worker.POST("/profile/avatar",
			middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig()),
			handler.UploadAvatar)
	}

	// Directory pages are open to any signed-in user.
	protected.GET("/profiles", handler.ListDirectory)
	protected.GET("/profiles/:id", handler.GetByID)
}

// GetMine godoc
// @Summary      Own worker profile
// @Tags         worker-profile
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /worker/profile [get]
func (h *WorkerProfileHandler) GetMine(c *gin.Context) {
	userID := currentUserID(c)
	profile, err := h.profileUC.GetMine(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", profile)
}

// Submit godoc
// @Summary      Submit or amend the worker profile
// @Description  Persists the profile and advances the onboarding pipeline. Returns the route of the next step.
// @Tags         worker-profile
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.WorkerProfileRequest  true  "Profile form"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /worker/profile [put]
func (h *WorkerProfileHandler) Submit(c *gin.Context) {
	var req domain.WorkerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	nextRoute, err := h.profileUC.Submit(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved", gin.H{"next_route": nextRoute})
}

// UploadAvatar godoc
// @Summary      Upload a profile photo
// @Tags         worker-profile
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Avatar image (jpg, png or webp)"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /worker/profile/avatar [post]
func (h *WorkerProfileHandler) UploadAvatar(c *gin.Context) {
	filename, data, err := readUpload(c, storage.MaxAvatarBytes)
	if err != nil {
		c.Error(err)
		return
	}

	key, err := h.profileUC.UploadAvatar(c.Request.Context(), currentUserID(c), filename, data)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Avatar updated", gin.H{"avatar_key": key})
}

// ListDirectory godoc
// @Summary      Browse active workers
// @Tags         worker-profile
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /profiles [get]
func (h *WorkerProfileHandler) ListDirectory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	profiles, total, err := h.profileUC.ListDirectory(c.Request.Context(), page, limit)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", gin.H{
		"profiles": profiles,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetByID godoc
// @Summary      View a worker profile
// @Tags         worker-profile
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Worker user id"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [get]
func (h *WorkerProfileHandler) GetByID(c *gin.Context) {
	profile, err := h.profileUC.GetByID(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "OK", profile)
}

func currentUserID(c *gin.Context) string {
	userID, _ := c.Get(string(domain.KeyUserID))
	userIDStr, _ := userID.(string)
	return userIDStr
}

// readUpload extracts the multipart "file" part, capped at maxBytes.
func readUpload(c *gin.Context, maxBytes int) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, apperror.BadRequest("A file upload is required")
	}
	if fileHeader.Size > int64(maxBytes) {
		return "", nil, apperror.BadRequest("The file exceeds the size limit")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", nil, apperror.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)+1))
	if err != nil {
		return "", nil, apperror.Internal(err)
	}
	if len(data) > maxBytes {
		return "", nil, apperror.BadRequest("The file exceeds the size limit")
	}
	return fileHeader.Filename, data, nil
}
