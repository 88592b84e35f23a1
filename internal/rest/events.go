package rest

import (
	"context"
	"net/http"
	"time"

	"bazaarIntel/domain"
	"bazaarIntel/pkg/logger"
	"bazaarIntel/pkg/trace"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type (
	EventsHandler struct {
		queue    EventQueue
		validate *validator.Validate
		timeout  time.Duration
	}

	EventQueue interface {
		Push(ctx context.Context, event domain.AnalyticsEvent) error
		Length(ctx context.Context) (int64, error)
	}

	PushEventRequest struct {
		EventType string                 `json:"event_type" validate:"required,oneof=productView addToCart purchase shop_visit product_click"`
		UserID    *uint64                `json:"user_id"`
		ShopID    *uint64                `json:"shop_id"`
		ProductID *uint64                `json:"product_id"`
		Metadata  map[string]interface{} `json:"metadata"`
	}

	ProcessorStatsResponse struct {
		QueueLength int64 `json:"queue_length"`
	}
)

func NewEventsHandler(queue EventQueue) *EventsHandler {
	return &EventsHandler{
		queue:    queue,
		validate: validator.New(),
		timeout:  10 * time.Second,
	}
}

// PushEvent enqueues an analytics event for the batch processor.
func (h *EventsHandler) PushEvent(c echo.Context) error {
	var req PushEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	event := domain.AnalyticsEvent{
		EventType: domain.EventType(req.EventType),
		UserID:    req.UserID,
		ShopID:    req.ShopID,
		ProductID: req.ProductID,
		Metadata:  datatypes.JSONMap(req.Metadata),
		Timestamp: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.queue.Push(ctx, event); err != nil {
		logger.Error("failed to enqueue event",
			"trace_id", trace.FromContext(ctx),
			"event_type", req.EventType,
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("event queued"))
}

func (h *EventsHandler) GetProcessorStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	length, err := h.queue.Length(ctx)
	if err != nil {
		logger.Error("failed to read queue length", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(ProcessorStatsResponse{QueueLength: length}))
}
