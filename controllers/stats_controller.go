package controllers

import (
	"minjemin-backend/services"

	"github.com/gofiber/fiber/v2"
)

// StatsController контроллер статистики по вещам и арендам
type StatsController struct {
	statsService *services.StatsService
}

// NewStatsController создает новый экземпляр StatsController
func NewStatsController(statsService *services.StatsService) *StatsController {
	return &StatsController{statsService: statsService}
}

// ProductStatsResponse структура ответа со статистикой по вещам
type ProductStatsResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Stats   *services.ProductStats `json:"stats,omitempty"`
}

// RentalStatsResponse структура ответа со статистикой по арендам
type RentalStatsResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Stats   *services.RentalStats `json:"stats,omitempty"`
}

// GetProductStats получает сводку по вещам
func (sc *StatsController) GetProductStats(c *fiber.Ctx) error {
	stats, err := sc.statsService.TotalProducts()
	if err != nil {
		return c.Status(500).JSON(ProductStatsResponse{
			Success: false,
			Message: "Ошибка при получении статистики",
		})
	}

	return c.JSON(ProductStatsResponse{
		Success: true,
		Message: "Статистика по вещам получена",
		Stats:   stats,
	})
}

// GetRentalStats получает сводку по арендам с разбивкой по статусам
func (sc *StatsController) GetRentalStats(c *fiber.Ctx) error {
	stats, err := sc.statsService.TotalRentals()
	if err != nil {
		return c.Status(500).JSON(RentalStatsResponse{
			Success: false,
			Message: "Ошибка при получении статистики",
		})
	}

	return c.JSON(RentalStatsResponse{
		Success: true,
		Message: "Статистика по арендам получена",
		Stats:   stats,
	})
}
