package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supportdesk/internal/api/dto"
	"github.com/spec-kit/supportdesk/internal/auth"
	"github.com/spec-kit/supportdesk/internal/domain"
	"github.com/spec-kit/supportdesk/internal/repository"
	"github.com/spec-kit/supportdesk/internal/service"
	apperrors "github.com/spec-kit/supportdesk/pkg/util"
)

// TasksHandler manages dashboard task endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs the handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// List handles GET /api/dashboard/:category.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tasks, err := h.service.List(c.Context(), identity, c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponses(tasks)})
}

// ListPending handles GET /api/dashboard/pending.
func (h *TasksHandler) ListPending(c *fiber.Ctx) error {
	tasks, err := h.service.ListPending(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponses(tasks)})
}

// Get handles GET /api/dashboard/:category/:id.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}
	task, err := h.service.Get(c.Context(), identity, c.Params("category"), id)
	if err != nil {
		return mapTaskError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Create handles POST /api/dashboard/:category.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input, err := parseTaskInput(c)
	if err != nil {
		return err
	}
	task, err := h.service.Create(c.Context(), identity, c.Params("category"), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Update handles PUT /api/dashboard/:category/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}
	input, err := parseTaskInput(c)
	if err != nil {
		return err
	}
	task, err := h.service.Update(c.Context(), identity, c.Params("category"), id, input)
	if err != nil {
		return mapTaskError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Delete handles DELETE /api/dashboard/:category/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), identity, c.Params("category"), id); err != nil {
		return mapTaskError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "task deleted"}})
}

// Approve handles POST /api/dashboard/:category/:id/approve.
func (h *TasksHandler) Approve(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}
	task, err := h.service.Approve(c.Context(), identity, c.Params("category"), id)
	if err != nil {
		return mapTaskError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Reject handles POST /api/dashboard/:category/:id/reject.
func (h *TasksHandler) Reject(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := parseTaskID(c)
	if err != nil {
		return err
	}
	var req dto.RejectTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.service.Reject(c.Context(), identity, c.Params("category"), id, req.Reason)
	if err != nil {
		return mapTaskError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

func parseTaskID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid task id", nil)
	}
	return id, nil
}

func parseTaskInput(c *fiber.Ctx) (service.TaskInput, error) {
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return service.TaskInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.Content == "" || req.Type == "" {
		return service.TaskInput{}, apperrors.NewValidationError("title, content, type required", nil)
	}
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Type:        domain.TaskType(req.Type),
		Keywords:    req.Keywords,
	}, nil
}

func mapTaskError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrTaskNotFound) {
		return apperrors.NewNotFound("task", nil)
	}
	return err
}
