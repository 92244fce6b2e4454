package domain

import "strings"

// routeRule describes one frontend path's access policy.
type routeRule struct {
	pattern      string // path pattern, ":" segments match anything
	public       bool   // renders for anonymous visitors
	role         Role   // non-empty restricts to one role
	stageGated   bool   // must be reachable per the onboarding pipeline
	requireStage Stage  // minimum stage when stageGated (StageActive for home/dashboards)
}

// The route table mirrors the pages the frontend surfaces. Order matters for
// the home route, which is public for anonymous visitors but stage-gated for
// signed-in users (an incomplete worker bookmarking "/" must land back on the
// first incomplete step).
var routeRules = []routeRule{
	{pattern: "/login", public: true},
	{pattern: "/register", public: true},
	{pattern: "/about", public: true},
	{pattern: "/help-support", public: true},
	{pattern: "/terms", public: true},
	{pattern: "/privacy", public: true},
	{pattern: "/cookies", public: true},
	{pattern: "/process-and-fees", public: true},
	{pattern: "/services", public: true},
	{pattern: "/services/:id", public: true},

	{pattern: "/worker-profile", role: RoleWorker, stageGated: true, requireStage: StageProfilePending},
	{pattern: "/worker-screening", role: RoleWorker, stageGated: true, requireStage: StageScreeningPending},
	{pattern: "/worker-payment", role: RoleWorker, stageGated: true, requireStage: StagePaymentPending},
	{pattern: "/employer-profile", role: RoleEmployer, stageGated: true, requireStage: StageProfilePending},

	{pattern: "/profiles"},
	{pattern: "/profile/:id"},
	{pattern: "/change-password"},

	{pattern: "/", public: true, stageGated: true, requireStage: StageActive},
}

// stageOrder ranks stages along the worker track; the employer track is a
// prefix of it.
var stageOrder = map[Stage]int{
	StageRegistered:       0,
	StageProfilePending:   1,
	StageScreeningPending: 2,
	StagePaymentPending:   3,
	StageActive:           4,
}

// RouteResolution is the router's verdict for one path.
type RouteResolution struct {
	Path     string `json:"path"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
	NotFound bool   `json:"not_found,omitempty"`
}

// ResolveRoute maps a frontend path to an allow/redirect decision. identity
// is nil for anonymous visitors. A signed-in user whose onboarding row has
// not been provisioned yet resolves as if at the first pipeline step, so the
// next request lands on the profile page rather than bouncing to login.
// Unmatched paths resolve to a not-found page, never an error.
func ResolveRoute(path string, identity *Identity, status *OnboardingStatus) RouteResolution {
	rule, ok := matchRoute(path)
	if !ok {
		return RouteResolution{Path: path, NotFound: true}
	}

	// Anonymous visitors: public pages render, everything else goes to login.
	if identity == nil {
		if rule.public {
			return RouteResolution{Path: path, Allowed: true}
		}
		return RouteResolution{Path: path, Redirect: "/login"}
	}

	// Role restriction before stage gating, so an employer probing
	// /worker-payment is sent home rather than into the worker pipeline.
	if rule.role != "" && rule.role != identity.Role {
		return RouteResolution{Path: path, Redirect: "/"}
	}

	if rule.stageGated {
		current := StageProfilePending
		if status != nil {
			current = status.Stage()
		}
		// Completed steps stay reachable (profiles may be amended later);
		// steps ahead of the persisted stage redirect back to it.
		if rule.requireStage == StageActive && current != StageActive {
			return RouteResolution{Path: path, Redirect: current.Route(identity.Role)}
		}
		if rule.requireStage != StageActive && stageOrder[rule.requireStage] > stageOrder[current] {
			return RouteResolution{Path: path, Redirect: current.Route(identity.Role)}
		}
	}

	return RouteResolution{Path: path, Allowed: true}
}

func matchRoute(path string) (routeRule, bool) {
	segments := splitPath(path)
	for _, rule := range routeRules {
		if matchSegments(splitPath(rule.pattern), segments) {
			return rule, true
		}
	}
	return routeRule{}, false
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			continue
		}
		if p != path[i] {
			return false
		}
	}
	return true
}
