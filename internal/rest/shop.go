package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"bazaarIntel/business/insights"
	"bazaarIntel/business/traffic"
	"bazaarIntel/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	ShopHandler struct {
		trafficService  TrafficService
		insightsService InsightsService
		timeout         time.Duration
	}

	TrafficService interface {
		CalculateShopScore(ctx context.Context, shopID uint64) (*traffic.ScoreReport, error)
		GetCategoryLeaderboard(ctx context.Context, category string, limit int) ([]traffic.RankedShop, error)
	}

	InsightsService interface {
		GetShopInsights(ctx context.Context, shopID uint64) (*insights.InsightReport, error)
	}
)

func NewShopHandler(trafficSvc TrafficService, insightsSvc InsightsService) *ShopHandler {
	return &ShopHandler{
		trafficService:  trafficSvc,
		insightsService: insightsSvc,
		timeout:         10 * time.Second,
	}
}

// GetShopScore recomputes and persists the shop's metrics before
// returning them.
func (h *ShopHandler) GetShopScore(c echo.Context) error {
	shopID, err := strconv.ParseUint(c.Param("shopId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid shop id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.trafficService.CalculateShopScore(ctx, shopID)
	if err != nil {
		logger.Error("failed to calculate shop score", "shop_id", shopID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(report))
}

func (h *ShopHandler) GetCategoryLeaderboard(c echo.Context) error {
	category := c.Param("category")
	if category == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing category"})
	}

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

	leaderboard, err := h.trafficService.GetCategoryLeaderboard(ctx, category, limit)
	if err != nil {
		logger.Error("failed to get category leaderboard", "category", category, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(leaderboard))
}

func (h *ShopHandler) GetVendorInsights(c echo.Context) error {
	shopID, err := strconv.ParseUint(c.Param("shopId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid shop id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	report, err := h.insightsService.GetShopInsights(ctx, shopID)
	if err != nil {
		logger.Error("failed to get vendor insights", "shop_id", shopID, "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(report))
}
