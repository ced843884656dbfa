package routes

import (
	"minjemin-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupStatsRoutes настраивает маршруты для статистики
func SetupStatsRoutes(app *fiber.App, statsController *controllers.StatsController) {
	// Группа маршрутов для статистики
	stats := app.Group("/stats")

	// GET /stats/products - сводка по вещам
	stats.Get("/products", statsController.GetProductStats)

	// GET /stats/rentals - сводка по арендам
	stats.Get("/rentals", statsController.GetRentalStats)
}
