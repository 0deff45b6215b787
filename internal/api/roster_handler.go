package api

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"club-service/internal/repository"
	"club-service/internal/service"
)

type RosterHandler struct {
	seriesService  service.SeriesService
	sessionService service.SessionService
	members        repository.MemberRepository
	validate       *validator.Validate
}

func NewRosterHandler(seriesService service.SeriesService, sessionService service.SessionService, members repository.MemberRepository) *RosterHandler {
	return &RosterHandler{
		seriesService:  seriesService,
		sessionService: sessionService,
		members:        members,
		validate:       validator.New(),
	}
}

type RosterEntryRequest struct {
	CoachID uuid.UUID `json:"coach_id" validate:"required"`
	Status  string    `json:"status,omitempty" validate:"omitempty,oneof=confirmed withdrawn"`
	Role    string    `json:"role,omitempty" validate:"max=100"`
}

type ReplaceRosterRequest struct {
	Coaches []RosterEntryRequest `json:"coaches" validate:"dive"`
}

func (h *RosterHandler) GetRoster(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	roster, err := h.sessionService.ListRoster(c.UserContext(), sessionID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing roster", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not list roster"})
	}

	return c.JSON(fiber.Map{"data": roster})
}

// ReplaceRoster sets the full coach roster of one session. When the
// session belongs to a series, the roster diff is carried onto every
// later occurrence.
func (h *RosterHandler) ReplaceRoster(c *fiber.Ctx) error {
	if !canManageSessions(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "Forbidden",
			"message": "Only coaches can manage sessions",
		})
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	var request ReplaceRosterRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	desired := make([]service.RosterEntry, 0, len(request.Coaches))
	for _, entry := range request.Coaches {
		member, err := h.members.FindByID(c.UserContext(), entry.CoachID)
		if err != nil {
			slog.ErrorContext(c.UserContext(), "Error fetching member", slog.String("error", err.Error()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not verify coach"})
		}
		if member == nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Unknown coach", "coach_id": entry.CoachID})
		}
		status := entry.Status
		if status == "" {
			status = "confirmed"
		}
		desired = append(desired, service.RosterEntry{CoachID: entry.CoachID, Status: status, Role: entry.Role})
	}

	err = h.seriesService.ReplaceRoster(c.UserContext(), sessionID, desired)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		slog.ErrorContext(c.UserContext(), "Error replacing roster", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update roster"})
	}

	roster, err := h.sessionService.ListRoster(c.UserContext(), sessionID)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing roster", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not list roster"})
	}

	return c.JSON(fiber.Map{"data": roster})
}

func (h *RosterHandler) ListCoaches(c *fiber.Ctx) error {
	members, err := h.members.ListActive(c.UserContext())
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing coaches", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not list coaches"})
	}

	return c.JSON(fiber.Map{"data": members})
}
