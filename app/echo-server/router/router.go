package router

import (
	"bazaarIntel/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupRecommendationRoutes(ai *echo.Group, handler *rest.RecommendationHandler) {
	ai.GET("/recommendations/:userId", handler.GetRecommendations)
	ai.GET("/trending", handler.GetTrending)
}

func SetupBehaviorRoutes(ai *echo.Group, handler *rest.BehaviorHandler) {
	ai.GET("/user-profile/:userId", handler.GetUserProfile)
	ai.POST("/process-user/:userId", handler.ProcessUser)
}

func SetupShopRoutes(ai *echo.Group, handler *rest.ShopHandler) {
	ai.GET("/shop-score/:shopId", handler.GetShopScore)
	ai.GET("/category-leaderboard/:category", handler.GetCategoryLeaderboard)
	ai.GET("/vendor-insights/:shopId", handler.GetVendorInsights)
}

func SetupEventRoutes(ai *echo.Group, handler *rest.EventsHandler) {
	ai.POST("/events", handler.PushEvent)
	ai.GET("/processor-stats", handler.GetProcessorStats)
}
