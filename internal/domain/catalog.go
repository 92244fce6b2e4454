package domain

import "context"

// Service is one entry of the static service catalog shown on the
// services page.
type Service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Popular     bool     `json:"popular,omitempty"`
}

var serviceCatalog = []Service{
	{
		ID:          "domestic",
		Title:       "Domestic Workers",
		Description: "Reliable help for your home, including cleaning, cooking, and childcare.",
		Features: []string{
			"Verified and background-checked workers",
			"Flexible scheduling options",
			"Specialized skills like cooking, cleaning, and childcare",
			"Replacement guarantee if you're not satisfied",
		},
		Popular: true,
	},
	{
		ID:          "construction",
		Title:       "Construction Workers",
		Description: "Skilled laborers for construction projects of any size.",
		Features: []string{
			"Experienced workers with verified skills",
			"Workers for short-term and long-term projects",
			"Various specializations: masonry, carpentry, electrical",
			"Proper safety training and certifications",
		},
	},
	{
		ID:          "gardening",
		Title:       "Gardening & Landscaping",
		Description: "Keep your outdoor spaces beautiful with our skilled gardeners.",
		Features: []string{
			"Experienced gardeners and landscapers",
			"Regular maintenance and one-time services",
			"Sustainable gardening practices",
			"Knowledge of local plants and conditions",
		},
	},
	{
		ID:          "security",
		Title:       "Security Services",
		Description: "Protect your home or business with our professional security personnel.",
		Features: []string{
			"Trained and certified security guards",
			"Residential and commercial security",
			"Event security services",
			"Background-checked personnel",
		},
	},
}

// Services returns the static service catalog.
func Services() []Service {
	return serviceCatalog
}

// ServiceByID returns one catalog entry, or false when the id is unknown.
func ServiceByID(id string) (Service, bool) {
	for _, s := range serviceCatalog {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// FeeSchedule is the static process-and-fees content.
type FeeSchedule struct {
	Currency                   string `json:"currency"`
	WorkerRegistrationFeeCents int    `json:"worker_registration_fee_cents"`
	BillingPeriod              string `json:"billing_period"`
	Description                string `json:"description"`
}

// Testimonial is a marketing quote shown on the home page; only approved
// entries are listed.
type Testimonial struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RoleName string `json:"role"`
	Company  string `json:"company,omitempty"`
	Content  string `json:"content"`
	Rating   int    `json:"rating"`
	Approved bool   `json:"-"`
}

var testimonials = []Testimonial{
	{
		ID:       "t1",
		Name:     "Thandi M.",
		RoleName: "Domestic Worker",
		Content:  "Within two weeks of activating my profile I had steady work with two families.",
		Rating:   5,
		Approved: true,
	},
	{
		ID:       "t2",
		Name:     "Pieter v.d.M.",
		RoleName: "Employer",
		Company:  "Van der Merwe Construction",
		Content:  "The screening answers gave us real confidence before the first interview.",
		Rating:   4,
		Approved: true,
	},
	{
		ID:       "t3",
		Name:     "Sipho K.",
		RoleName: "Security Guard",
		Content:  "Registration and payment were straightforward and the activation code came through immediately.",
		Rating:   5,
		Approved: true,
	},
	{
		ID:       "t4",
		Name:     "Test Account",
		RoleName: "Worker",
		Content:  "pending review",
		Rating:   3,
		Approved: false,
	},
}

// ApprovedTestimonials returns only entries cleared for display.
func ApprovedTestimonials() []Testimonial {
	out := make([]Testimonial, 0, len(testimonials))
	for _, t := range testimonials {
		if t.Approved {
			out = append(out, t)
		}
	}
	return out
}

type CatalogUsecase interface {
	Services(ctx context.Context) []Service
	ServiceByID(ctx context.Context, id string) (*Service, error)
	FeeSchedule(ctx context.Context) FeeSchedule
	Testimonials(ctx context.Context) []Testimonial
}
