package routes

import (
	"minjemin-backend/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupItemRoutes настраивает маршруты для управления вещами
func SetupItemRoutes(app *fiber.App, itemController *controllers.ItemController) {
	// Группа маршрутов для вещей
	items := app.Group("/items")

	// GET /items/health - проверка работоспособности (должен быть перед параметрическим маршрутом)
	items.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Items service is running",
		})
	})

	// POST /items - создать вещь (требует авторизации)
	items.Post("/", itemController.CreateItem)

	// GET /items - список всех вещей (публичный доступ)
	items.Get("/", itemController.GetItems)

	// GET /items/my - вещи текущего пользователя (требует авторизации)
	items.Get("/my", itemController.GetMyItems)

	// GET /items/:id - получить вещь по ID (публичный доступ)
	items.Get("/:id", itemController.GetItem)

	// PUT /items/:id - обновить вещь (требует авторизации)
	items.Put("/:id", itemController.UpdateItem)

	// DELETE /items/:id - удалить вещь (требует авторизации)
	items.Delete("/:id", itemController.DeleteItem)
}
