package dto

import "github.com/spec-kit/supportdesk/internal/domain"

// CategoryRequest payload for creating categories.
type CategoryRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CategoryResponse is the public shape of a category.
type CategoryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewCategoryResponses maps domain categories.
func NewCategoryResponses(categories []domain.Category) []CategoryResponse {
	items := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, CategoryResponse{ID: category.ID, Title: category.Title})
	}
	return items
}
