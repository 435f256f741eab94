package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/provisioning-service/internal/api/dto"
	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/service"
	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

// StatusesHandler serves the status vocabulary lookup.
type StatusesHandler struct {
	service *service.StatusService
}

// NewStatusesHandler constructs handler.
func NewStatusesHandler(statusService *service.StatusService) *StatusesHandler {
	return &StatusesHandler{service: statusService}
}

// ListStatuses GET /statuses?context_name=<Context>.
func (h *StatusesHandler) ListStatuses(c *fiber.Ctx) error {
	contextName := c.Query("context_name")
	if contextName == "" {
		return apperrors.NewValidationError("context_name required", nil)
	}
	statuses, err := h.service.ListStatuses(c.UserContext(), domain.StatusContext(contextName))
	if err != nil {
		return err
	}
	items := make([]dto.StatusResponse, 0, len(statuses))
	for _, status := range statuses {
		items = append(items, dto.StatusResponse{
			ID:    status.ID,
			Code:  status.Code,
			Label: status.Label,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
