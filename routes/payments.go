package routes

import (
	"minjemin-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes настраивает маршруты для оплаты аренды
func SetupPaymentRoutes(app *fiber.App, paymentController *controllers.PaymentController) {
	// Группа маршрутов для платежей
	payments := app.Group("/payments")

	// GET /payments/health - проверка работоспособности
	payments.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Payments service is running",
		})
	})

	// POST /payments/rental/:rentalId - оплатить аренду (требует авторизации)
	payments.Post("/rental/:rentalId", paymentController.PayRental)
}
