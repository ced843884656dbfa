package routes

import (
	"minjemin-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupRentalRoutes настраивает маршруты для управления арендой
func SetupRentalRoutes(app *fiber.App, rentalController *controllers.RentalController) {
	// Группа маршрутов для аренды
	rentals := app.Group("/rentals")

	// GET /rentals/health - проверка работоспособности (должен быть перед параметрическим маршрутом)
	rentals.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Rentals service is running",
		})
	})

	// POST /rentals - создать заявку на аренду (требует авторизации)
	rentals.Post("/", rentalController.CreateRental)

	// GET /rentals/my - аренды текущего пользователя (требует авторизации)
	rentals.Get("/my", rentalController.GetMyRentals)

	// GET /rentals/my/page - страница списка, фильтрация в памяти (требует авторизации)
	rentals.Get("/my/page", rentalController.GetMyRentalsPage)

	// GET /rentals/my/pagedb - страница списка, фильтрация в базе (требует авторизации)
	rentals.Get("/my/pagedb", rentalController.GetMyRentalsPageDB)

	// GET /rentals/request - входящие заявки на вещи владельца (требует авторизации)
	rentals.Get("/request", rentalController.GetRequestRentals)

	// POST /rentals/:id/approve - подтвердить заявку (требует авторизации)
	rentals.Post("/:id/approve", rentalController.ApproveRental)

	// POST /rentals/:id/start - начать аренду (требует авторизации)
	rentals.Post("/:id/start", rentalController.StartRental)

	// POST /rentals/:id/complete - завершить аренду (требует авторизации)
	rentals.Post("/:id/complete", rentalController.CompleteRental)

	// POST /rentals/:id/cancel - отменить заявку (требует авторизации)
	rentals.Post("/:id/cancel", rentalController.CancelRental)

	// GET /rentals/:id - получить аренду по ID (публичный доступ)
	rentals.Get("/:id", rentalController.GetRental)

	// DELETE /rentals/:id - административное удаление записи (требует авторизации)
	rentals.Delete("/:id", rentalController.DeleteRental)
}
