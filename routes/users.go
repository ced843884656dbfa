package routes

import (
	"minjemin-backend/controllers"
	"minjemin-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes настраивает маршруты для информации о пользователе
func SetupUserRoutes(app *fiber.App, userController *controllers.UserController) {
	// Группа маршрутов для пользователей, токен проверяется middleware
	users := app.Group("/users", utils.AuthMiddleware)

	// GET /users/me - идентификатор текущего пользователя
	users.Get("/me", userController.GetMe)

	// GET /users/user-info - профиль текущего пользователя
	users.Get("/user-info", userController.GetUserInfo)
}
