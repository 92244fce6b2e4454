package usecase_test

import (
	"context"
	"os"
	"testing"

	"go-workwise-backend/internal/domain"
	"go-workwise-backend/internal/usecase"
	"go-workwise-backend/pkg/apperror"
	"go-workwise-backend/pkg/logger"
	"go-workwise-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func authedCtx(userID string, role domain.Role) context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, userID)
	return context.WithValue(ctx, domain.KeyUserRole, string(role))
}

// Mock Repositories

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockOnboardingRepo struct {
	mock.Mock
}

func (m *MockOnboardingRepo) Init(ctx context.Context, userID string, role domain.Role) error {
	return m.Called(ctx, userID, role).Error(0)
}
func (m *MockOnboardingRepo) GetByUserID(ctx context.Context, userID string) (*domain.OnboardingStatus, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingStatus), args.Error(1)
}

type MockScreeningRepo struct {
	mock.Mock
}

func (m *MockScreeningRepo) GetByUserID(ctx context.Context, userID string) ([]domain.ScreeningAnswer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScreeningAnswer), args.Error(1)
}
func (m *MockScreeningRepo) Save(ctx context.Context, userID string, answers []domain.ScreeningAnswer) error {
	return m.Called(ctx, userID, answers).Error(0)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) GetByUserID(ctx context.Context, userID string) (*domain.PaymentVerification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentVerification), args.Error(1)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentVerification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentVerification), args.Error(1)
}
func (m *MockPaymentRepo) Create(ctx context.Context, v *domain.PaymentVerification) (int64, error) {
	args := m.Called(ctx, v)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockPaymentRepo) Upsert(ctx context.Context, v *domain.PaymentVerification) error {
	return m.Called(ctx, v).Error(0)
}
func (m *MockPaymentRepo) MarkVerified(ctx context.Context, id int64, activationHash string) error {
	return m.Called(ctx, id, activationHash).Error(0)
}
func (m *MockPaymentRepo) MarkRejected(ctx context.Context, id int64, reason domain.RejectionReason) error {
	return m.Called(ctx, id, reason).Error(0)
}
func (m *MockPaymentRepo) List(ctx context.Context, filter domain.PaymentFilter) ([]domain.PaymentVerification, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.PaymentVerification), args.Get(1).(int64), args.Error(2)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SignUp(ctx context.Context, email, password string, meta domain.SignUpMetadata) (*domain.Identity, error) {
	args := m.Called(ctx, email, password, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}
func (m *MockGateway) SignInWithPassword(ctx context.Context, email, password string) (*domain.GatewaySession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewaySession), args.Error(1)
}
func (m *MockGateway) SendOTP(ctx context.Context, email, phone string) error {
	return m.Called(ctx, email, phone).Error(0)
}
func (m *MockGateway) VerifyOTP(ctx context.Context, email, phone, token string) (*domain.GatewaySession, error) {
	args := m.Called(ctx, email, phone, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GatewaySession), args.Error(1)
}
func (m *MockGateway) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}
func (m *MockGateway) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return m.Called(ctx, accessToken, newPassword).Error(0)
}
func (m *MockGateway) CurrentIdentity(ctx context.Context, accessToken string) (*domain.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

type MockWorkerProfileRepo struct {
	mock.Mock
}

func (m *MockWorkerProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.WorkerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkerProfile), args.Error(1)
}
func (m *MockWorkerProfileRepo) Upsert(ctx context.Context, profile *domain.WorkerProfile) error {
	return m.Called(ctx, profile).Error(0)
}
func (m *MockWorkerProfileRepo) SetAvatarKey(ctx context.Context, userID, avatarKey string) error {
	return m.Called(ctx, userID, avatarKey).Error(0)
}
func (m *MockWorkerProfileRepo) ListActive(ctx context.Context, page, limit int) ([]domain.WorkerProfileSummary, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.WorkerProfileSummary), args.Get(1).(int64), args.Error(2)
}

type MockEmployerProfileRepo struct {
	mock.Mock
}

func (m *MockEmployerProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.EmployerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployerProfile), args.Error(1)
}
func (m *MockEmployerProfileRepo) Upsert(ctx context.Context, profile *domain.EmployerProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func TestSignUpValidation(t *testing.T) {
	gw := new(MockGateway)
	userRepo := new(MockUserRepo)
	onboardingRepo := new(MockOnboardingRepo)
	uc := usecase.NewAuthUsecase(gw, userRepo, onboardingRepo, newValidator())

	t.Run("invalid form never reaches the gateway", func(t *testing.T) {
		_, err := uc.SignUp(context.Background(), &domain.SignUpRequest{
			FirstName:       "Thandi",
			LastName:        "M",
			Email:           "not-an-email",
			Password:        "short",
			ConfirmPassword: "different",
			AccountType:     "worker",
		})
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 422, appErr.Code)
		assert.Contains(t, appErr.Fields, "Email")
		assert.Contains(t, appErr.Fields, "Password")
		assert.Contains(t, appErr.Fields, "ConfirmPassword")
		gw.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("successful signup provisions user and onboarding rows", func(t *testing.T) {
		gw.On("SignUp", mock.Anything, "thandi@example.com", mock.Anything, mock.Anything).
			Return(&domain.Identity{ID: "uid-1", Email: "thandi@example.com", Role: domain.RoleWorker}, nil)
		userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		onboardingRepo.On("Init", mock.Anything, "uid-1", domain.RoleWorker).Return(nil)

		user, err := uc.SignUp(context.Background(), &domain.SignUpRequest{
			FirstName:       "Thandi",
			LastName:        "M",
			Email:           "thandi@example.com",
			Password:        "correct-horse-9",
			ConfirmPassword: "correct-horse-9",
			AccountType:     "worker",
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleWorker, user.Role)
		onboardingRepo.AssertCalled(t, "Init", mock.Anything, "uid-1", domain.RoleWorker)
	})
}

func TestSignInSanitizesRejections(t *testing.T) {
	gw := new(MockGateway)
	uc := usecase.NewAuthUsecase(gw, new(MockUserRepo), new(MockOnboardingRepo), newValidator())

	gw.On("SignInWithPassword", mock.Anything, "someone@example.com", "wrong").
		Return(nil, &domain.AuthError{Code: domain.AuthErrInvalidCredentials, Message: "user with this email not found"})

	_, err := uc.SignIn(context.Background(), &domain.SignInRequest{
		Email:    "someone@example.com",
		Password: "wrong",
	})
	assert.Error(t, err)
	// One message for every failure cause, so responses cannot reveal which
	// emails are registered.
	assert.Equal(t, "Invalid email or password", err.Error())
}

func TestSendOTPNeverReportsDeliveryFailure(t *testing.T) {
	gw := new(MockGateway)
	uc := usecase.NewAuthUsecase(gw, new(MockUserRepo), new(MockOnboardingRepo), newValidator())

	gw.On("SendOTP", mock.Anything, "ghost@example.com", "").
		Return(&domain.AuthError{Code: domain.AuthErrUnknown, Message: "user not found"})

	accepted := uc.SendOTP(context.Background(), &domain.SendOTPRequest{Email: "ghost@example.com"})
	assert.True(t, accepted)
}

func TestVerifyOTPDestinations(t *testing.T) {
	session := &domain.GatewaySession{
		AccessToken: "jwt-abc",
		Identity:    domain.Identity{ID: "uid-1", Email: "jane@example.com", Role: domain.RoleWorker},
	}

	t.Run("SMS codes verify against the phone they were sent to", func(t *testing.T) {
		gw := new(MockGateway)
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", mock.Anything, "uid-1").Return(&domain.User{ID: "uid-1", Role: domain.RoleWorker}, nil)
		gw.On("VerifyOTP", mock.Anything, "", "+27821234567", "654321").Return(session, nil)
		uc := usecase.NewAuthUsecase(gw, userRepo, new(MockOnboardingRepo), newValidator())

		got, ok := uc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{Phone: "+27821234567", Token: "654321"})
		assert.True(t, ok)
		assert.Equal(t, "jwt-abc", got.AccessToken)
	})

	t.Run("emailed codes verify against the email", func(t *testing.T) {
		gw := new(MockGateway)
		userRepo := new(MockUserRepo)
		userRepo.On("GetByID", mock.Anything, "uid-1").Return(&domain.User{ID: "uid-1", Role: domain.RoleWorker}, nil)
		gw.On("VerifyOTP", mock.Anything, "jane@example.com", "", "123456").Return(session, nil)
		uc := usecase.NewAuthUsecase(gw, userRepo, new(MockOnboardingRepo), newValidator())

		_, ok := uc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{Email: "jane@example.com", Token: "123456"})
		assert.True(t, ok)
	})

	t.Run("exactly one destination is required", func(t *testing.T) {
		gw := new(MockGateway)
		uc := usecase.NewAuthUsecase(gw, new(MockUserRepo), new(MockOnboardingRepo), newValidator())

		_, ok := uc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{Token: "123456"})
		assert.False(t, ok)

		_, ok = uc.VerifyOTP(context.Background(), &domain.VerifyOTPRequest{
			Email: "jane@example.com", Phone: "+27821234567", Token: "123456",
		})
		assert.False(t, ok)
		gw.AssertNotCalled(t, "VerifyOTP", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestWorkerProfileRoundTrip(t *testing.T) {
	ctx := authedCtx("user1", domain.RoleWorker)
	repo := new(MockWorkerProfileRepo)
	onboardingRepo := new(MockOnboardingRepo)

	var saved *domain.WorkerProfile
	repo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.WorkerProfile)
	}).Return(nil)
	onboardingRepo.On("GetByUserID", mock.Anything, "user1").
		Return(&domain.OnboardingStatus{UserID: "user1", Role: domain.RoleWorker, ProfileCompleted: true}, nil)
	uc := usecase.NewWorkerProfileUsecase(repo, onboardingRepo, nil, newValidator())

	req := &domain.WorkerProfileRequest{
		Bio:            "Reliable domestic worker with cooking experience",
		WorkExperience: "Five years with two families in Cape Town",
		Nationality:    "South African",
		Address:        "12 Long Street, Cape Town",
	}
	nextRoute, err := uc.Submit(ctx, "user1", req)
	assert.NoError(t, err)
	assert.Equal(t, "/worker-screening", nextRoute)

	// What was submitted is what reads back.
	repo.On("GetByUserID", mock.Anything, "user1").Return(saved, nil)
	profile, err := uc.GetMine(ctx, "user1")
	assert.NoError(t, err)
	assert.Equal(t, req.Bio, profile.Bio)
	assert.Equal(t, req.WorkExperience, profile.WorkExperience)
	assert.Equal(t, req.Nationality, profile.Nationality)
	assert.Equal(t, req.Address, profile.Address)
}

func TestWorkerProfileValidationBlocksSave(t *testing.T) {
	repo := new(MockWorkerProfileRepo)
	uc := usecase.NewWorkerProfileUsecase(repo, new(MockOnboardingRepo), nil, newValidator())

	_, err := uc.Submit(authedCtx("user1", domain.RoleWorker), "user1", &domain.WorkerProfileRequest{Bio: "only a bio"})
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 422, appErr.Code)
	assert.Contains(t, appErr.Fields, "WorkExperience")
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestEmployerProfileSubmitGoesHome(t *testing.T) {
	repo := new(MockEmployerProfileRepo)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	uc := usecase.NewEmployerProfileUsecase(repo, newValidator())

	// The company profile is the employer's only onboarding step; there is
	// no screening or payment afterwards.
	nextRoute, err := uc.Submit(authedCtx("emp1", domain.RoleEmployer), "emp1", &domain.EmployerProfileRequest{
		CompanyName: "Van der Merwe Construction",
		Industry:    "Construction",
		Description: "Residential building projects across the Western Cape",
		Address: domain.EmployerAddress{
			Street:     "3 Main Road",
			City:       "Stellenbosch",
			Province:   "Western Cape",
			PostalCode: "7600",
			Country:    "South Africa",
		},
		ContactNumber: "+27215551234",
		ContactEmail:  "info@vdmconstruction.co.za",
	})
	assert.NoError(t, err)
	assert.Equal(t, "/", nextRoute)
	repo.AssertCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestScreeningSubmit(t *testing.T) {
	ctx := authedCtx("user1", domain.RoleWorker)

	validAnswers := []domain.ScreeningAnswer{
		{QuestionID: "experience", Text: "1-3 years"},
		{QuestionID: "criminal", Text: "No"},
		{QuestionID: "references", Text: "Yes"},
		{QuestionID: "availability", Selections: []string{"Weekdays"}},
		{QuestionID: "skills", Text: "Gardening"},
	}

	t.Run("requires a completed profile first", func(t *testing.T) {
		repo := new(MockScreeningRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").
			Return(&domain.OnboardingStatus{UserID: "user1", Role: domain.RoleWorker}, nil)
		uc := usecase.NewScreeningUsecase(repo, onboardingRepo)

		_, err := uc.Submit(ctx, "user1", &domain.ScreeningSubmission{Answers: validAnswers})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 409, appErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("violations come back keyed by question id and nothing is saved", func(t *testing.T) {
		repo := new(MockScreeningRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").
			Return(&domain.OnboardingStatus{UserID: "user1", Role: domain.RoleWorker, ProfileCompleted: true}, nil)
		uc := usecase.NewScreeningUsecase(repo, onboardingRepo)

		_, err := uc.Submit(ctx, "user1", &domain.ScreeningSubmission{Answers: nil})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 422, appErr.Code)
		assert.Contains(t, appErr.Fields, "experience")
		assert.Contains(t, appErr.Fields, "skills")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("valid answers save and advance to payment", func(t *testing.T) {
		repo := new(MockScreeningRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").
			Return(&domain.OnboardingStatus{UserID: "user1", Role: domain.RoleWorker, ProfileCompleted: true}, nil).Once()
		repo.On("Save", mock.Anything, "user1", validAnswers).Return(nil)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").
			Return(&domain.OnboardingStatus{UserID: "user1", Role: domain.RoleWorker, ProfileCompleted: true, ScreeningComplete: true}, nil)
		uc := usecase.NewScreeningUsecase(repo, onboardingRepo)

		nextRoute, err := uc.Submit(ctx, "user1", &domain.ScreeningSubmission{Answers: validAnswers})
		assert.NoError(t, err)
		assert.Equal(t, "/worker-payment", nextRoute)
	})

	t.Run("employers cannot submit screening", func(t *testing.T) {
		repo := new(MockScreeningRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "emp1").
			Return(&domain.OnboardingStatus{UserID: "emp1", Role: domain.RoleEmployer, ProfileCompleted: true}, nil)
		uc := usecase.NewScreeningUsecase(repo, onboardingRepo)

		_, err := uc.Submit(authedCtx("emp1", domain.RoleEmployer), "emp1", &domain.ScreeningSubmission{Answers: validAnswers})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})
}

func paymentReadyStatus(userID string) *domain.OnboardingStatus {
	return &domain.OnboardingStatus{
		UserID:            userID,
		Role:              domain.RoleWorker,
		ProfileCompleted:  true,
		ScreeningComplete: true,
	}
}

func TestPaymentSubmit(t *testing.T) {
	ctx := authedCtx("user1", domain.RoleWorker)

	t.Run("card settles and verifies immediately", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").Return(paymentReadyStatus("user1"), nil)
		repo.On("GetByUserID", mock.Anything, "user1").Return(nil, nil)
		repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		repo.On("MarkVerified", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		repo.On("GetByID", mock.Anything, mock.Anything).
			Return(&domain.PaymentVerification{UserID: "user1", Method: domain.PaymentCard, Status: domain.PaymentStatusVerified}, nil)
		uc := usecase.NewPaymentUsecase(repo, onboardingRepo, new(MockUserRepo), nil, nil, newValidator(), 25000, "http://localhost:3000")

		result, err := uc.Submit(ctx, "user1", &domain.PaymentSubmitRequest{Method: domain.PaymentCard})
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusVerified, result.Verification.Status)
		assert.Regexp(t, domain.ActivationCodePattern, result.ActivationCode)
		assert.Equal(t, "/", result.NextRoute)
	})

	t.Run("recognized bank reference verifies without review", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").Return(paymentReadyStatus("user1"), nil)
		repo.On("GetByUserID", mock.Anything, "user1").Return(nil, nil)
		repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		repo.On("MarkVerified", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		repo.On("GetByID", mock.Anything, mock.Anything).
			Return(&domain.PaymentVerification{UserID: "user1", Method: domain.PaymentEFT, Status: domain.PaymentStatusVerified}, nil)
		uc := usecase.NewPaymentUsecase(repo, onboardingRepo, new(MockUserRepo), nil, nil, newValidator(), 25000, "http://localhost:3000")

		result, err := uc.Submit(ctx, "user1", &domain.PaymentSubmitRequest{Method: domain.PaymentEFT, Reference: "WORKER-1234"})
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusVerified, result.Verification.Status)
		assert.NotEmpty(t, result.ActivationCode)
	})

	t.Run("unrecognized EFT parks in review", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").Return(paymentReadyStatus("user1"), nil)
		repo.On("GetByUserID", mock.Anything, "user1").Return(nil, nil)
		repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		uc := usecase.NewPaymentUsecase(repo, onboardingRepo, new(MockUserRepo), nil, nil, newValidator(), 25000, "http://localhost:3000")

		result, err := uc.Submit(ctx, "user1", &domain.PaymentSubmitRequest{Method: domain.PaymentEFT, Reference: "POP-20260815"})
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusVerifying, result.Verification.Status)
		assert.Empty(t, result.ActivationCode)
		repo.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EFT without reference or proof is a validation error", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").Return(paymentReadyStatus("user1"), nil)
		repo.On("GetByUserID", mock.Anything, "user1").Return(nil, nil)
		uc := usecase.NewPaymentUsecase(repo, onboardingRepo, new(MockUserRepo), nil, nil, newValidator(), 25000, "http://localhost:3000")

		_, err := uc.Submit(ctx, "user1", &domain.PaymentSubmitRequest{Method: domain.PaymentEFT})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 422, appErr.Code)
		assert.Contains(t, appErr.Fields, "Reference")
	})

	t.Run("resubmitting after VERIFIED is idempotent", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").Return(paymentReadyStatus("user1"), nil)
		repo.On("GetByUserID", mock.Anything, "user1").
			Return(&domain.PaymentVerification{UserID: "user1", Status: domain.PaymentStatusVerified}, nil)
		uc := usecase.NewPaymentUsecase(repo, onboardingRepo, new(MockUserRepo), nil, nil, newValidator(), 25000, "http://localhost:3000")

		result, err := uc.Submit(ctx, "user1", &domain.PaymentSubmitRequest{Method: domain.PaymentCard})
		assert.NoError(t, err)
		assert.Equal(t, "/", result.NextRoute)
		// No second activation code is ever issued.
		assert.Empty(t, result.ActivationCode)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("skipping earlier steps is rejected", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		onboardingRepo := new(MockOnboardingRepo)
		onboardingRepo.On("GetByUserID", mock.Anything, "user1").
			Return(&domain.OnboardingStatus{UserID: "user1", Role: domain.RoleWorker, ProfileCompleted: true}, nil)
		uc := usecase.NewPaymentUsecase(repo, onboardingRepo, new(MockUserRepo), nil, nil, newValidator(), 25000, "http://localhost:3000")

		_, err := uc.Submit(ctx, "user1", &domain.PaymentSubmitRequest{Method: domain.PaymentCard})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 409, appErr.Code)
	})
}

func TestPaymentReview(t *testing.T) {
	t.Run("non-admin callers are rejected", func(t *testing.T) {
		uc := usecase.NewPaymentUsecase(new(MockPaymentRepo), new(MockOnboardingRepo), new(MockUserRepo), nil, nil, newValidator(), 25000, "")

		_, err := uc.Review(authedCtx("user1", domain.RoleWorker), "user1", 1, &domain.PaymentReviewRequest{Action: "approve"})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("only VERIFYING submissions can be decided", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		repo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.PaymentVerification{ID: 1, Status: domain.PaymentStatusVerified}, nil)
		uc := usecase.NewPaymentUsecase(repo, new(MockOnboardingRepo), new(MockUserRepo), nil, nil, newValidator(), 25000, "")

		_, err := uc.Review(authedCtx("admin1", domain.RoleAdmin), "admin1", 1, &domain.PaymentReviewRequest{Action: "approve"})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 409, appErr.Code)
	})

	t.Run("reject requires a reason from the closed set", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		repo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.PaymentVerification{ID: 1, UserID: "user1", Status: domain.PaymentStatusVerifying}, nil)
		uc := usecase.NewPaymentUsecase(repo, new(MockOnboardingRepo), new(MockUserRepo), nil, nil, newValidator(), 25000, "")

		_, err := uc.Review(authedCtx("admin1", domain.RoleAdmin), "admin1", 1, &domain.PaymentReviewRequest{Action: "reject"})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 422, appErr.Code)
		repo.AssertNotCalled(t, "MarkRejected", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reject with reason records it", func(t *testing.T) {
		repo := new(MockPaymentRepo)
		reason := domain.RejectAmountMismatch
		repo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.PaymentVerification{ID: 1, UserID: "user1", Status: domain.PaymentStatusVerifying}, nil).Once()
		repo.On("MarkRejected", mock.Anything, int64(1), reason).Return(nil)
		repo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.PaymentVerification{ID: 1, UserID: "user1", Status: domain.PaymentStatusRejected, RejectionReason: &reason}, nil)
		uc := usecase.NewPaymentUsecase(repo, new(MockOnboardingRepo), new(MockUserRepo), nil, nil, newValidator(), 25000, "")

		v, err := uc.Review(authedCtx("admin1", domain.RoleAdmin), "admin1", 1, &domain.PaymentReviewRequest{Action: "reject", Reason: reason})
		assert.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRejected, v.Status)
		repo.AssertCalled(t, "MarkRejected", mock.Anything, int64(1), reason)
	})
}

func TestPaymentIDOR(t *testing.T) {
	uc := usecase.NewPaymentUsecase(new(MockPaymentRepo), new(MockOnboardingRepo), new(MockUserRepo), nil, nil, newValidator(), 25000, "")

	t.Run("cannot read another user's verification", func(t *testing.T) {
		_, err := uc.GetMine(authedCtx("user1", domain.RoleWorker), "user2")
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	})

	t.Run("fails safe without authentication context", func(t *testing.T) {
		_, err := uc.GetMine(context.Background(), "user1")
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.Code)
	})
}

func TestExportQueueAdminGate(t *testing.T) {
	repo := new(MockPaymentRepo)
	repo.On("List", mock.Anything, mock.Anything).Return([]domain.PaymentVerification{}, int64(0), nil)
	uc := usecase.NewPaymentUsecase(repo, new(MockOnboardingRepo), new(MockUserRepo), nil, nil, newValidator(), 25000, "")

	_, err := uc.ExportQueue(authedCtx("user1", domain.RoleWorker), domain.PaymentFilter{})
	assert.Error(t, err)

	data, err := uc.ExportQueue(authedCtx("admin1", domain.RoleAdmin), domain.PaymentFilter{})
	assert.NoError(t, err)
	assert.NotEmpty(t, data)
}
