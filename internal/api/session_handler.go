package api

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"club-service/internal/model"
	"club-service/internal/service"
)

type SessionHandler struct {
	sessionService service.SessionService
	seriesService  service.SeriesService
	validate       *validator.Validate
}

func NewSessionHandler(sessionService service.SessionService, seriesService service.SeriesService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		seriesService:  seriesService,
		validate:       validator.New(),
	}
}

type CreateSessionRequest struct {
	StartAt       time.Time  `json:"start_at" validate:"required"`
	DurationMin   int        `json:"duration_min" validate:"required,min=1"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	LocationID    *uuid.UUID `json:"location_id,omitempty"`
	Notes         string     `json:"notes,omitempty" validate:"max=2000"`
	MinCoaches    int        `json:"min_coaches" validate:"min=0"`
	ConstraintTag string     `json:"constraint_tag,omitempty" validate:"omitempty,oneof=all youth adult team"`
}

type UpdateSessionRequest struct {
	StartAt       *time.Time `json:"start_at,omitempty"`
	DurationMin   *int       `json:"duration_min,omitempty" validate:"omitempty,min=1"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	LocationID    *uuid.UUID `json:"location_id,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	MinCoaches    *int       `json:"min_coaches,omitempty" validate:"omitempty,min=0"`
	ConstraintTag *string    `json:"constraint_tag,omitempty" validate:"omitempty,oneof=all youth adult team"`
	IsCancelled   *bool      `json:"is_cancelled,omitempty"`
	IsLocked      *bool      `json:"is_locked,omitempty"`
}

func canManageSessions(c *fiber.Ctx) bool {
	role := GetRoleFromClaims(c)
	return role == "admin" || role == "coach"
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	if !canManageSessions(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "Forbidden",
			"message": "Only coaches can manage sessions",
		})
	}

	var request CreateSessionRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	session := &model.Session{
		StartAt:       request.StartAt,
		DurationMin:   request.DurationMin,
		CategoryID:    request.CategoryID,
		LocationID:    request.LocationID,
		Notes:         request.Notes,
		MinCoaches:    request.MinCoaches,
		ConstraintTag: request.ConstraintTag,
	}
	if userID, err := GetUserIDFromClaims(c); err == nil {
		session.CreatedBy = &userID
	}

	created, err := h.sessionService.CreateSession(c.UserContext(), session)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDuration) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		slog.ErrorContext(c.UserContext(), "Error creating session", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create session"})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	session, err := h.sessionService.GetSession(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		slog.ErrorContext(c.UserContext(), "Error fetching session", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch session"})
	}

	return c.JSON(session)
}

func (h *SessionHandler) ListUpcomingSessions(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sessions, err := h.sessionService.ListUpcomingSessions(c.UserContext(), page, limit)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing sessions", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not list sessions"})
	}

	return c.JSON(fiber.Map{"data": sessions})
}

// UpdateSession applies a partial edit. With ?propagate=1 the edit is
// replicated onto every later occurrence of the session's series; the
// changed-field set is exactly the fields present in the body.
func (h *SessionHandler) UpdateSession(c *fiber.Ctx) error {
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

	var request UpdateSessionRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	current, err := h.sessionService.GetSession(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		slog.ErrorContext(c.UserContext(), "Error fetching session", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch session"})
	}

	updated := *current
	changed := applySessionPatch(&updated, &request)
	if len(changed) == 0 {
		return c.JSON(updated)
	}

	if c.QueryBool("propagate") {
		err = h.seriesService.PropagateFields(c.UserContext(), &updated, changed)
	} else {
		err = h.sessionService.UpdateSession(c.UserContext(), &updated)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotInSeries):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrIllegalDayShift):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidDuration):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		slog.ErrorContext(c.UserContext(), "Error updating session", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update session"})
	}

	return c.JSON(updated)
}

func applySessionPatch(session *model.Session, request *UpdateSessionRequest) []model.SessionField {
	var changed []model.SessionField

	if request.StartAt != nil {
		session.StartAt = *request.StartAt
		changed = append(changed, model.FieldStartAt)
	}
	if request.DurationMin != nil {
		session.DurationMin = *request.DurationMin
		changed = append(changed, model.FieldDurationMin)
	}
	if request.CategoryID != nil {
		session.CategoryID = request.CategoryID
		changed = append(changed, model.FieldCategoryID)
	}
	if request.LocationID != nil {
		session.LocationID = request.LocationID
		changed = append(changed, model.FieldLocationID)
	}
	if request.Notes != nil {
		session.Notes = *request.Notes
		changed = append(changed, model.FieldNotes)
	}
	if request.MinCoaches != nil {
		session.MinCoaches = *request.MinCoaches
		changed = append(changed, model.FieldMinCoaches)
	}
	if request.ConstraintTag != nil {
		session.ConstraintTag = *request.ConstraintTag
		changed = append(changed, model.FieldConstraintTag)
	}
	if request.IsCancelled != nil {
		session.IsCancelled = *request.IsCancelled
		changed = append(changed, model.FieldIsCancelled)
	}
	if request.IsLocked != nil {
		session.IsLocked = *request.IsLocked
		changed = append(changed, model.FieldIsLocked)
	}

	return changed
}
