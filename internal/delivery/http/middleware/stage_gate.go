package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-workwise-backend/internal/delivery/http/response"
	"go-workwise-backend/internal/domain"
	"go-workwise-backend/pkg/audit"
)

// RequireRole restricts a route group to one role. Runs after AuthMiddleware.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := c.Get(string(domain.KeyUserRole))
		roleStr, _ := current.(string)
		if roleStr != string(role) {
			userID, _ := c.Get(string(domain.KeyUserID))
			userIDStr, _ := userID.(string)
			audit.Default().Log(c.Request.Context(), audit.Event{
				Event:        audit.EventUnauthorizedAccess,
				SubjectType:  "user_id",
				SubjectValue: userIDStr,
				IP:           c.ClientIP(),
				Details:      map[string]interface{}{"path": c.FullPath(), "required_role": string(role)},
			})
			response.Error(c, http.StatusForbidden, "You do not have access to this resource", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireStage gates a pipeline endpoint on the persisted onboarding status.
// A step is reachable once the pipeline has advanced to it; completed steps
// stay reachable for amendments, steps ahead of the current stage are not.
func RequireStage(onboardingUC domain.OnboardingUsecase, stage domain.Stage) gin.HandlerFunc {
	order := map[domain.Stage]int{
		domain.StageRegistered:       0,
		domain.StageProfilePending:   1,
		domain.StageScreeningPending: 2,
		domain.StagePaymentPending:   3,
		domain.StageActive:           4,
	}
	return func(c *gin.Context) {
		userID, _ := c.Get(string(domain.KeyUserID))
		userIDStr, _ := userID.(string)

		status, err := onboardingUC.GetStatus(c.Request.Context(), userIDStr)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		current := status.Stage()
		if order[stage] > order[current] {
			response.Error(c, http.StatusConflict, "Complete the previous onboarding steps first",
				gin.H{"redirect": current.Route(status.Role)})
			c.Abort()
			return
		}
		c.Next()
	}
}
