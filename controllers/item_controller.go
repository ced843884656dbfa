package controllers

import (
	"strconv"
	"strings"

	"minjemin-backend/models"
	"minjemin-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ItemController контроллер для управления вещами
type ItemController struct {
	DB *gorm.DB
}

// NewItemController создает новый экземпляр ItemController
func NewItemController(db *gorm.DB) *ItemController {
	return &ItemController{DB: db}
}

// ItemRequest структура запроса создания и обновления вещи
type ItemRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	PricePerDay float64 `json:"price_per_day" validate:"min=0"`
	Stock       int     `json:"stock" validate:"min=0"`
	Available   bool    `json:"available"`
}

// ItemResponse структура ответа с вещью
type ItemResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Item    *models.Item `json:"item,omitempty"`
}

// ItemsResponse структура ответа со списком вещей
type ItemsResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Items   []models.Item `json:"items"`
}

// CreateItem создает новую вещь, владельцем становится текущий пользователь
func (ic *ItemController) CreateItem(c *fiber.Ctx) error {
	userID, err := ic.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(ItemResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	// Валидация
	if err := ic.validateItemRequest(&req); err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	// Создаем вещь. Доступность при создании выставляется принудительно
	item := models.Item{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		PricePerDay: req.PricePerDay,
		Stock:       req.Stock,
		Available:   true,
		OwnerID:     userID,
	}

	if err := ic.DB.Create(&item).Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при создании вещи",
		})
	}

	return c.Status(201).JSON(ItemResponse{
		Success: true,
		Message: "Вещь успешно создана",
		Item:    &item,
	})
}

// GetItems получает список всех вещей
func (ic *ItemController) GetItems(c *fiber.Ctx) error {
	var items []models.Item
	if err := ic.DB.Order("id ASC").Find(&items).Error; err != nil {
		return c.Status(500).JSON(ItemsResponse{
			Success: false,
			Message: "Ошибка при получении списка вещей",
		})
	}

	return c.JSON(ItemsResponse{
		Success: true,
		Message: "Список вещей получен",
		Items:   items,
	})
}

// GetMyItems получает вещи текущего пользователя с фильтрами
// по названию и диапазону цены за день
func (ic *ItemController) GetMyItems(c *fiber.Ctx) error {
	userID, err := ic.getUserIDFromToken(c)
	if err != nil {
		return c.Status(401).JSON(ItemsResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	name := c.Query("name")
	minPriceStr := c.Query("minPrice")
	maxPriceStr := c.Query("maxPrice")

	var items []models.Item
	if err := ic.DB.Where("owner_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return c.Status(500).JSON(ItemsResponse{
			Success: false,
			Message: "Ошибка при получении списка вещей",
		})
	}

	// Фильтры применяются в памяти, пустые значения означают отсутствие фильтра
	filtered := []models.Item{}
	for _, item := range items {
		if name != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(name)) {
			continue
		}
		if minPriceStr != "" {
			minPrice, err := strconv.ParseFloat(minPriceStr, 64)
			if err == nil && item.PricePerDay < minPrice {
				continue
			}
		}
		if maxPriceStr != "" {
			maxPrice, err := strconv.ParseFloat(maxPriceStr, 64)
			if err == nil && item.PricePerDay > maxPrice {
				continue
			}
		}
		filtered = append(filtered, item)
	}

	return c.JSON(ItemsResponse{
		Success: true,
		Message: "Список вещей получен",
		Items:   filtered,
	})
}

// GetItem получает вещь по ID
func (ic *ItemController) GetItem(c *fiber.Ctx) error {
	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный ID вещи",
		})
	}

	var item models.Item
	if err := ic.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(ItemResponse{
			Success: false,
			Message: "Вещь не найдена",
		})
	}

	return c.JSON(ItemResponse{
		Success: true,
		Message: "Вещь найдена",
		Item:    &item,
	})
}

// UpdateItem обновляет вещь целиком: название, описание, цена,
// доступность и количество заменяются значениями из запроса
func (ic *ItemController) UpdateItem(c *fiber.Ctx) error {
	if _, err := ic.getUserIDFromToken(c); err != nil {
		return c.Status(401).JSON(ItemResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный ID вещи",
		})
	}

	var item models.Item
	if err := ic.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(ItemResponse{
			Success: false,
			Message: "Вещь не найдена",
		})
	}

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	// Валидация
	if err := ic.validateItemRequest(&req); err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	item.Name = strings.TrimSpace(req.Name)
	item.Description = req.Description
	item.PricePerDay = req.PricePerDay
	item.Available = req.Available
	item.Stock = req.Stock

	if err := ic.DB.Save(&item).Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при обновлении вещи",
		})
	}

	return c.JSON(ItemResponse{
		Success: true,
		Message: "Вещь успешно обновлена",
		Item:    &item,
	})
}

// DeleteItem удаляет вещь. Удаление запрещено, пока на вещь есть аренды
// вне конечных статусов; завершенные и отмененные аренды удаляются вместе с вещью
func (ic *ItemController) DeleteItem(c *fiber.Ctx) error {
	if _, err := ic.getUserIDFromToken(c); err != nil {
		return c.Status(401).JSON(ItemResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Неверный ID вещи",
		})
	}

	var item models.Item
	if err := ic.DB.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(ItemResponse{
			Success: false,
			Message: "Вещь не найдена",
		})
	}

	// Проверяем активные аренды
	var activeCount int64
	if err := ic.DB.Model(&models.Rental{}).
		Where("item_id = ? AND status NOT IN ?", item.ID,
			[]string{models.RentalStatusCompleted, models.RentalStatusCancelled}).
		Count(&activeCount).Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении вещи",
		})
	}

	if activeCount > 0 {
		return c.Status(400).JSON(ItemResponse{
			Success: false,
			Message: "Вещь используется в активных арендах",
		})
	}

	// Начинаем транзакцию
	tx := ic.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Delete(&item).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении вещи",
		})
	}

	// Удаляем оставшиеся (завершенные и отмененные) аренды вещи
	if err := tx.Where("item_id = ?", item.ID).Delete(&models.Rental{}).Error; err != nil {
		tx.Rollback()
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении вещи",
		})
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(ItemResponse{
			Success: false,
			Message: "Ошибка при удалении вещи",
		})
	}

	return c.JSON(ItemResponse{
		Success: true,
		Message: "Вещь успешно удалена",
	})
}

// Вспомогательные методы

// getUserIDFromToken извлекает ID пользователя из JWT токена
func (ic *ItemController) getUserIDFromToken(c *fiber.Ctx) (uint, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, fiber.NewError(401, "Отсутствует токен авторизации")
	}

	// Извлекаем токен из заголовка "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return 0, fiber.NewError(401, "Неверный формат токена")
	}

	token := tokenParts[1]

	// Валидируем токен
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		return 0, fiber.NewError(401, "Недействительный токен")
	}

	return claims.UserID, nil
}

// validateItemRequest валидирует запрос создания и обновления вещи
func (ic *ItemController) validateItemRequest(req *ItemRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fiber.NewError(400, "Название вещи обязательно")
	}
	if len(req.Name) > 255 {
		return fiber.NewError(400, "Название не должно превышать 255 символов")
	}
	if len(req.Description) > 2000 {
		return fiber.NewError(400, "Описание не должно превышать 2000 символов")
	}
	if req.PricePerDay < 0 {
		return fiber.NewError(400, "Цена за день не может быть отрицательной")
	}
	if req.Stock < 0 {
		return fiber.NewError(400, "Количество не может быть отрицательным")
	}
	return nil
}
