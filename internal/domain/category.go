package domain

// Category groups dashboard tasks. The ID doubles as the URL slug.
type Category struct {
	ID    string
	Title string
}

// SeedCategories are the categories every deployment starts with.
func SeedCategories() []Category {
	return []Category{
		{ID: "user-guidance", Title: "User Guidance"},
		{ID: "password-reset", Title: "Password Reset"},
		{ID: "incident-solving", Title: "Incident Solving"},
		{ID: "request-solving", Title: "Request Solving"},
		{ID: "faq", Title: "FAQ"},
		{ID: "sla-monitoring", Title: "SLA Monitoring"},
	}
}
