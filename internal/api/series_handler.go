package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"club-service/internal/calendar"
	"club-service/internal/model"
	"club-service/internal/service"
)

type SeriesHandler struct {
	seriesService  service.SeriesService
	sessionService service.SessionService
	cal            *calendar.Calendar
	validate       *validator.Validate
}

func NewSeriesHandler(seriesService service.SeriesService, sessionService service.SessionService, cal *calendar.Calendar) *SeriesHandler {
	return &SeriesHandler{
		seriesService:  seriesService,
		sessionService: sessionService,
		cal:            cal,
		validate:       validator.New(),
	}
}

type CreateSeriesRequest struct {
	Mode    string `json:"mode" validate:"required,oneof=weekly same_type"`
	EndDate string `json:"end_date,omitempty"`
}

// CreateSeries turns the session into the anchor of a new series. Without
// an end date the series runs to the end of the club season (July 31).
func (h *SeriesHandler) CreateSeries(c *fiber.Ctx) error {
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

	var request CreateSeriesRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	anchor, err := h.sessionService.GetSession(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
		}
		slog.ErrorContext(c.UserContext(), "Error fetching session", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch session"})
	}

	endDate := h.cal.SeasonEnd(anchor.StartAt)
	if request.EndDate != "" {
		endDate, err = time.ParseInLocation("2006-01-02", request.EndDate, h.cal.Location())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid end_date, expected YYYY-MM-DD"})
		}
	}

	rec, err := h.seriesService.CreateSeries(c.UserContext(), sessionID, model.RecurrenceMode(request.Mode), endDate)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSeriesRequest) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
		}
		slog.ErrorContext(c.UserContext(), "Error creating series", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create series"})
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}
