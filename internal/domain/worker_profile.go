package domain

import (
	"context"
	"time"
)

// WorkerProfile is the worker's public-facing profile, created at the
// profile-completion step and amendable afterwards.
type WorkerProfile struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	Bio            string    `json:"bio"`
	WorkExperience string    `json:"work_experience"`
	Nationality    string    `json:"nationality"`
	Address        string    `json:"address"`
	AvatarKey      *string   `json:"avatar_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type WorkerProfileRequest struct {
	Bio            string `json:"bio" validate:"required,max=1000,no_emoji"`
	WorkExperience string `json:"work_experience" validate:"required,max=2000"`
	Nationality    string `json:"nationality" validate:"required,max=60,valid_name"`
	Address        string `json:"address" validate:"required,max=200"`
}

// WorkerProfileSummary is the directory listing row shown to employers.
type WorkerProfileSummary struct {
	UserID      string  `json:"user_id"`
	Bio         string  `json:"bio"`
	Nationality string  `json:"nationality"`
	AvatarKey   *string `json:"avatar_key,omitempty"`
}

type WorkerProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*WorkerProfile, error)
	// Upsert writes the profile and marks the onboarding profile step
	// complete in the same transaction.
	Upsert(ctx context.Context, profile *WorkerProfile) error
	SetAvatarKey(ctx context.Context, userID, avatarKey string) error
	// ListActive returns profiles of fully-activated workers only.
	ListActive(ctx context.Context, page, limit int) ([]WorkerProfileSummary, int64, error)
}

type WorkerProfileUsecase interface {
	GetMine(ctx context.Context, userID string) (*WorkerProfile, error)
	// Submit validates, persists and advances the pipeline; returns the
	// route of the next step.
	Submit(ctx context.Context, userID string, req *WorkerProfileRequest) (string, error)
	UploadAvatar(ctx context.Context, userID, filename string, data []byte) (string, error)
	ListDirectory(ctx context.Context, page, limit int) ([]WorkerProfileSummary, int64, error)
	GetByID(ctx context.Context, viewerID, workerID string) (*WorkerProfile, error)
}
