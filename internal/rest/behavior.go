package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"bazaarIntel/domain"
	"bazaarIntel/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	BehaviorHandler struct {
		behaviorService BehaviorService
		timeout         time.Duration
	}

	BehaviorService interface {
		GetUserProfile(ctx context.Context, userID uint64) (*domain.UserAIProfile, error)
		ProcessUserBehavior(ctx context.Context, userID uint64) (*domain.UserAIProfile, error)
	}
)

func NewBehaviorHandler(svc BehaviorService) *BehaviorHandler {
	return &BehaviorHandler{
		behaviorService: svc,
		timeout:         10 * time.Second,
	}
}

func (h *BehaviorHandler) GetUserProfile(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.behaviorService.GetUserProfile(ctx, userID)
	if err != nil {
		logger.Error("failed to get user profile", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if profile == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "profile not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

// ProcessUser recomputes a user's profile on demand, outside the
// sampled batch path.
func (h *BehaviorHandler) ProcessUser(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.behaviorService.ProcessUserBehavior(ctx, userID)
	if err != nil {
		logger.Error("failed to process user behavior", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if profile == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "no events for user"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}
