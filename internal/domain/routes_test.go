package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-workwise-backend/internal/domain"
)

func workerStatus(profile, screening, payment bool) *domain.OnboardingStatus {
	return &domain.OnboardingStatus{
		UserID:            "user1",
		Role:              domain.RoleWorker,
		ProfileCompleted:  profile,
		ScreeningComplete: screening,
		PaymentVerified:   payment,
	}
}

func TestStageDerivation(t *testing.T) {
	t.Run("worker track advances per persisted facts", func(t *testing.T) {
		assert.Equal(t, domain.StageProfilePending, workerStatus(false, false, false).Stage())
		assert.Equal(t, domain.StageScreeningPending, workerStatus(true, false, false).Stage())
		assert.Equal(t, domain.StagePaymentPending, workerStatus(true, true, false).Stage())
		assert.Equal(t, domain.StageActive, workerStatus(true, true, true).Stage())
	})

	t.Run("stage never derives from navigation, only from facts", func(t *testing.T) {
		// Payment flag without screening cannot advance past screening.
		s := workerStatus(true, false, true)
		assert.Equal(t, domain.StageScreeningPending, s.Stage())
		assert.False(t, s.Active())
	})

	t.Run("employer track is profile then active", func(t *testing.T) {
		employer := &domain.OnboardingStatus{Role: domain.RoleEmployer}
		assert.Equal(t, domain.StageProfilePending, employer.Stage())

		employer.ProfileCompleted = true
		assert.Equal(t, domain.StageActive, employer.Stage())
	})
}

func TestStageRoute(t *testing.T) {
	assert.Equal(t, "/worker-profile", domain.StageProfilePending.Route(domain.RoleWorker))
	assert.Equal(t, "/employer-profile", domain.StageProfilePending.Route(domain.RoleEmployer))
	assert.Equal(t, "/worker-screening", domain.StageScreeningPending.Route(domain.RoleWorker))
	assert.Equal(t, "/worker-payment", domain.StagePaymentPending.Route(domain.RoleWorker))
	assert.Equal(t, "/", domain.StageActive.Route(domain.RoleWorker))
}

func TestResolveRouteAnonymous(t *testing.T) {
	t.Run("public pages render", func(t *testing.T) {
		for _, path := range []string{"/", "/login", "/about", "/services", "/services/domestic", "/process-and-fees"} {
			res := domain.ResolveRoute(path, nil, nil)
			assert.True(t, res.Allowed, path)
			assert.Empty(t, res.Redirect, path)
		}
	})

	t.Run("protected pages redirect to login", func(t *testing.T) {
		for _, path := range []string{"/profiles", "/worker-profile", "/change-password"} {
			res := domain.ResolveRoute(path, nil, nil)
			assert.False(t, res.Allowed, path)
			assert.Equal(t, "/login", res.Redirect, path)
		}
	})

	t.Run("unknown paths are not found, not errors", func(t *testing.T) {
		res := domain.ResolveRoute("/no-such-page", nil, nil)
		assert.True(t, res.NotFound)
		assert.False(t, res.Allowed)
	})
}

func TestResolveRouteWorkerPipeline(t *testing.T) {
	worker := &domain.Identity{ID: "user1", Role: domain.RoleWorker}

	t.Run("incomplete worker landing on home is sent to first incomplete step", func(t *testing.T) {
		res := domain.ResolveRoute("/", worker, workerStatus(true, false, false))
		assert.False(t, res.Allowed)
		assert.Equal(t, "/worker-screening", res.Redirect)
	})

	t.Run("bookmarking a later step redirects back", func(t *testing.T) {
		res := domain.ResolveRoute("/worker-payment", worker, workerStatus(false, false, false))
		assert.False(t, res.Allowed)
		assert.Equal(t, "/worker-profile", res.Redirect)
	})

	t.Run("completed steps stay reachable for amendments", func(t *testing.T) {
		res := domain.ResolveRoute("/worker-profile", worker, workerStatus(true, true, false))
		assert.True(t, res.Allowed)
	})

	t.Run("active worker reaches home", func(t *testing.T) {
		res := domain.ResolveRoute("/", worker, workerStatus(true, true, true))
		assert.True(t, res.Allowed)
	})

	t.Run("parameterized profile route matches", func(t *testing.T) {
		res := domain.ResolveRoute("/profile/abc-123", worker, workerStatus(true, true, true))
		assert.True(t, res.Allowed)
	})

	t.Run("missing onboarding row resolves as first pipeline step", func(t *testing.T) {
		// The onboarding row is provisioned lazily; until it lands the worker
		// is treated as profile-pending, never bounced back to login.
		res := domain.ResolveRoute("/", worker, nil)
		assert.False(t, res.Allowed)
		assert.Equal(t, "/worker-profile", res.Redirect)

		res = domain.ResolveRoute("/worker-profile", worker, nil)
		assert.True(t, res.Allowed)
		assert.Empty(t, res.Redirect)

		res = domain.ResolveRoute("/worker-payment", worker, nil)
		assert.False(t, res.Allowed)
		assert.Equal(t, "/worker-profile", res.Redirect)
	})
}

func TestResolveRouteRoleProbing(t *testing.T) {
	employer := &domain.Identity{ID: "emp1", Role: domain.RoleEmployer}
	status := &domain.OnboardingStatus{Role: domain.RoleEmployer, ProfileCompleted: true}

	// An employer probing the worker pipeline goes home, never into it.
	for _, path := range []string{"/worker-profile", "/worker-screening", "/worker-payment"} {
		res := domain.ResolveRoute(path, employer, status)
		assert.False(t, res.Allowed, path)
		assert.Equal(t, "/", res.Redirect, path)
	}

	worker := &domain.Identity{ID: "user1", Role: domain.RoleWorker}
	res := domain.ResolveRoute("/employer-profile", worker, workerStatus(true, true, true))
	assert.Equal(t, "/", res.Redirect)
}

func TestRoleFromAccountType(t *testing.T) {
	role, ok := domain.RoleFromAccountType("worker")
	assert.True(t, ok)
	assert.Equal(t, domain.RoleWorker, role)

	role, ok = domain.RoleFromAccountType("employer")
	assert.True(t, ok)
	assert.Equal(t, domain.RoleEmployer, role)

	// Admin cannot be self-assigned through registration.
	_, ok = domain.RoleFromAccountType("admin")
	assert.False(t, ok)

	_, ok = domain.RoleFromAccountType("")
	assert.False(t, ok)
}
