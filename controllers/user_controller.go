package controllers

import (
	"minjemin-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserController контроллер для информации о текущем пользователе.
// Маршруты защищены utils.AuthMiddleware, который кладет данные токена в Locals
type UserController struct {
	DB *gorm.DB
}

// NewUserController создает новый экземпляр UserController
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// UserResponse структура ответа с профилем пользователя
type UserResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
}

// GetMe возвращает идентификатор текущего пользователя
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	return c.JSON(fiber.Map{
		"success": true,
		"user_id": userID,
		"name":    c.Locals("user_name"),
	})
}

// GetUserInfo возвращает профиль текущего пользователя
func (uc *UserController) GetUserInfo(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(UserResponse{
			Success: false,
			Message: "Пользователь не найден",
		})
	}

	return c.JSON(UserResponse{
		Success: true,
		Message: "Профиль получен",
		User:    &user,
	})
}
