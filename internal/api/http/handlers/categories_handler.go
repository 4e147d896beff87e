package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supportdesk/internal/api/dto"
	"github.com/spec-kit/supportdesk/internal/repository"
	"github.com/spec-kit/supportdesk/internal/service"
	apperrors "github.com/spec-kit/supportdesk/pkg/util"
)

// CategoriesHandler manages dashboard categories.
type CategoriesHandler struct {
	service *service.CategoryService
}

// NewCategoriesHandler constructs the handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{service: categoryService}
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponses(categories)})
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.service.Create(c.Context(), req.ID, req.Title)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.CategoryResponse{ID: category.ID, Title: category.Title},
	})
}

// Delete handles DELETE /api/categories/:id.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return apperrors.NewNotFound("category", nil)
		}
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "category deleted"}})
}
