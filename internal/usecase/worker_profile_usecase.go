package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/apperror"
	"go-workwise-backend/pkg/storage"
	"go-workwise-backend/pkg/validation"
)

type workerProfileUsecase struct {
	repo           domain.WorkerProfileRepository
	onboardingRepo domain.OnboardingRepository
	store          *storage.Store
	validate       *validator.Validate
}

func NewWorkerProfileUsecase(
	repo domain.WorkerProfileRepository,
	onboardingRepo domain.OnboardingRepository,
	store *storage.Store,
	validate *validator.Validate,
) domain.WorkerProfileUsecase {
	return &workerProfileUsecase{
		repo:           repo,
		onboardingRepo: onboardingRepo,
		store:          store,
		validate:       validate,
	}
}

func (u *workerProfileUsecase) GetMine(ctx context.Context, userID string) (*domain.WorkerProfile, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound("Worker profile not found")
	}
	return profile, nil
}

// Submit validates the profile form all-at-once, persists it and returns the
// route of the next pipeline step. Resubmission amends the profile without
// moving the pipeline backwards.
func (u *workerProfileUsecase) Submit(ctx context.Context, userID string, req *domain.WorkerProfileRequest) (string, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return "", err
	}
	if err := u.validate.Struct(req); err != nil {
		return "", apperror.Validation("Please correct the highlighted fields", validation.FieldViolations(err))
	}

	profile := &domain.WorkerProfile{
		UserID:         userID,
		Bio:            req.Bio,
		WorkExperience: req.WorkExperience,
		Nationality:    req.Nationality,
		Address:        req.Address,
	}
	if err := u.repo.Upsert(ctx, profile); err != nil {
		return "", err
	}

	status, err := u.onboardingRepo.GetByUserID(ctx, userID)
	if err != nil || status == nil {
		return domain.StageScreeningPending.Route(domain.RoleWorker), nil
	}
	return status.Stage().Route(status.Role), nil
}

// UploadAvatar validates the image, downscales it and stores it under a key
// derived from the user id, replacing any previous avatar.
func (u *workerProfileUsecase) UploadAvatar(ctx context.Context, userID, filename string, data []byte) (string, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return "", err
	}
	if u.store == nil {
		return "", apperror.New(503, "Uploads are temporarily unavailable", nil)
	}

	if _, err := storage.ValidateAvatar(filename, data); err != nil {
		return "", apperror.BadRequest(err.Error())
	}
	normalized, err := storage.NormalizeAvatar(data)
	if err != nil {
		return "", apperror.BadRequest("The uploaded file could not be read as an image")
	}

	key := fmt.Sprintf("avatars/%s.jpg", userID)
	if err := u.store.Put(ctx, key, "image/jpeg", normalized); err != nil {
		return "", apperror.Internal(err)
	}
	if err := u.repo.SetAvatarKey(ctx, userID, key); err != nil {
		return "", apperror.NotFound("Complete your profile before uploading an avatar")
	}
	return key, nil
}

func (u *workerProfileUsecase) ListDirectory(ctx context.Context, page, limit int) ([]domain.WorkerProfileSummary, int64, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, 0, apperror.Unauthorized("User not authenticated")
	}
	return u.repo.ListActive(ctx, page, limit)
}

// GetByID serves the public profile page. Only active workers are visible to
// other users; a worker can always see their own profile.
func (u *workerProfileUsecase) GetByID(ctx context.Context, viewerID, workerID string) (*domain.WorkerProfile, error) {
	if viewerID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	profile, err := u.repo.GetByUserID(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.NotFound("Worker profile not found")
	}

	if viewerID != workerID {
		status, err := u.onboardingRepo.GetByUserID(ctx, workerID)
		if err != nil {
			return nil, err
		}
		if status == nil || !status.Active() {
			return nil, apperror.NotFound("Worker profile not found")
		}
	}
	return profile, nil
}

// requireSelf enforces ownership from the authenticated context.
func requireSelf(ctx context.Context, userID string) error {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return apperror.Forbidden("You can only manage your own profile")
	}
	return nil
}
