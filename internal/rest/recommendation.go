package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"bazaarIntel/business/recommendation"
	"bazaarIntel/domain"
	"bazaarIntel/pkg/logger"
	"bazaarIntel/pkg/metrics"
	"bazaarIntel/pkg/trace"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		recommendationService RecommendationService
		timeout               time.Duration
	}

	RecommendationService interface {
		GetRecommendations(ctx context.Context, userID uint64, limit int) ([]recommendation.ScoredProduct, error)
		GetTrendingProducts(ctx context.Context, limit int) ([]domain.Product, error)
	}
)

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: svc,
		timeout:               10 * time.Second,
	}
}

func (h *RecommendationHandler) GetRecommendations(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid user id"})
	}

	limit := 5
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	start := time.Now()
	recs, err := h.recommendationService.GetRecommendations(ctx, userID, limit)
	metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error("failed to get recommendations",
			"trace_id", trace.FromContext(ctx),
			"user_id", userID,
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

func (h *RecommendationHandler) GetTrending(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid limit"})
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.recommendationService.GetTrendingProducts(ctx, limit)
	if err != nil {
		logger.Error("failed to get trending products", "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}
