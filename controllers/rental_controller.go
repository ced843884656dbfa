package controllers

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"minjemin-backend/models"
	"minjemin-backend/services"
	"minjemin-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// RentalController контроллер для управления арендой
type RentalController struct {
	rentalService  *services.RentalService
	listingService *services.ListingService
	hub            *services.RentalHub
}

// NewRentalController создает новый экземпляр RentalController
func NewRentalController(rentalService *services.RentalService, listingService *services.ListingService, hub *services.RentalHub) *RentalController {
	return &RentalController{
		rentalService:  rentalService,
		listingService: listingService,
		hub:            hub,
	}
}

// CreateRentalRequest структура запроса создания аренды
type CreateRentalRequest struct {
	ItemID     uint     `json:"item_id" validate:"required"`
	StartDate  string   `json:"start_date" validate:"required"`
	EndDate    string   `json:"end_date" validate:"required"`
	TotalPrice *float64 `json:"total_price"`
}

// RentalResponse структура ответа с арендой
type RentalResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Rental  *models.Rental `json:"rental,omitempty"`
}

// RentalsResponse структура ответа со списком аренды
type RentalsResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Rentals []models.Rental `json:"rentals"`
}

// RentalPageResponse структура ответа со страницей списка аренды
type RentalPageResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Page    *services.RentalPage `json:"page,omitempty"`
}

// CreateRental создает заявку на аренду от имени текущего пользователя
func (rc *RentalController) CreateRental(c *fiber.Ctx) error {
	claims, err := rc.getClaimsFromToken(c)
	if err != nil {
		return c.Status(401).JSON(RentalResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	var req CreateRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(RentalResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	// Парсим даты аренды, пустые значения проверит сервис
	var startDate, endDate time.Time
	if req.StartDate != "" {
		startDate, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return c.Status(400).JSON(RentalResponse{
				Success: false,
				Message: "Неверный формат даты начала",
			})
		}
	}
	if req.EndDate != "" {
		endDate, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return c.Status(400).JSON(RentalResponse{
				Success: false,
				Message: "Неверный формат даты окончания",
			})
		}
	}

	rental, err := rc.rentalService.Create(req.ItemID, claims.UserID, claims.Name, startDate, endDate, req.TotalPrice)
	if err != nil {
		return rc.respondError(c, err)
	}

	rc.hub.NotifyRentalUpdate(rental)

	return c.Status(201).JSON(RentalResponse{
		Success: true,
		Message: "Заявка на аренду создана",
		Rental:  rental,
	})
}

// GetMyRentals получает все аренды текущего пользователя с фильтрами
func (rc *RentalController) GetMyRentals(c *fiber.Ctx) error {
	claims, err := rc.getClaimsFromToken(c)
	if err != nil {
		return c.Status(401).JSON(RentalsResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	rentals, err := rc.listingService.MyRentals(claims.UserID, c.Query("name"), c.Query("status"))
	if err != nil {
		return c.Status(500).JSON(RentalsResponse{
			Success: false,
			Message: "Ошибка при получении списка аренды",
		})
	}

	return c.JSON(RentalsResponse{
		Success: true,
		Message: "Список аренды получен",
		Rentals: rentals,
	})
}

// GetMyRentalsPage получает страницу списка аренды в режиме полного сканирования
func (rc *RentalController) GetMyRentalsPage(c *fiber.Ctx) error {
	claims, err := rc.getClaimsFromToken(c)
	if err != nil {
		return c.Status(401).JSON(RentalPageResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	page, size := rc.getPageParams(c)

	result, err := rc.listingService.MyRentalsPage(claims.UserID, c.Query("name"), c.Query("status"), page, size)
	if err != nil {
		return c.Status(500).JSON(RentalPageResponse{
			Success: false,
			Message: "Ошибка при получении списка аренды",
		})
	}

	return c.JSON(RentalPageResponse{
		Success: true,
		Message: "Страница списка аренды получена",
		Page:    result,
	})
}

// GetMyRentalsPageDB получает ту же страницу, но фильтрация и пагинация
// выполняются на стороне хранилища
func (rc *RentalController) GetMyRentalsPageDB(c *fiber.Ctx) error {
	claims, err := rc.getClaimsFromToken(c)
	if err != nil {
		return c.Status(401).JSON(RentalPageResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	page, size := rc.getPageParams(c)

	result, err := rc.listingService.MyRentalsPageDB(claims.UserID, c.Query("name"), c.Query("status"), page, size)
	if err != nil {
		return c.Status(500).JSON(RentalPageResponse{
			Success: false,
			Message: "Ошибка при получении списка аренды",
		})
	}

	return c.JSON(RentalPageResponse{
		Success: true,
		Message: "Страница списка аренды получена",
		Page:    result,
	})
}

// GetRequestRentals получает входящие заявки на вещи текущего пользователя
func (rc *RentalController) GetRequestRentals(c *fiber.Ctx) error {
	claims, err := rc.getClaimsFromToken(c)
	if err != nil {
		return c.Status(401).JSON(RentalsResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	rentals, err := rc.listingService.RequestRentals(claims.UserID, c.Query("name"), c.Query("status"))
	if err != nil {
		return c.Status(500).JSON(RentalsResponse{
			Success: false,
			Message: "Ошибка при получении списка заявок",
		})
	}

	return c.JSON(RentalsResponse{
		Success: true,
		Message: "Список заявок получен",
		Rentals: rentals,
	})
}

// ApproveRental подтверждает заявку владельцем вещи
func (rc *RentalController) ApproveRental(c *fiber.Ctx) error {
	return rc.transition(c, "Аренда подтверждена", rc.rentalService.Approve)
}

// StartRental переводит аренду в статус ONGOING (выдача вещи арендатору)
func (rc *RentalController) StartRental(c *fiber.Ctx) error {
	return rc.transition(c, "Аренда начата", rc.rentalService.Start)
}

// CompleteRental завершает аренду и возвращает вещь на склад
func (rc *RentalController) CompleteRental(c *fiber.Ctx) error {
	return rc.transition(c, "Аренда завершена", rc.rentalService.Complete)
}

// CancelRental отменяет заявку в статусе PENDING
func (rc *RentalController) CancelRental(c *fiber.Ctx) error {
	if _, err := rc.getClaimsFromToken(c); err != nil {
		return c.Status(401).JSON(RentalResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	rentalID, err := rc.getRentalID(c)
	if err != nil {
		return c.Status(400).JSON(RentalResponse{
			Success: false,
			Message: "Неверный ID аренды",
		})
	}

	rental, err := rc.rentalService.Cancel(rentalID)
	if err != nil {
		return rc.respondError(c, err)
	}

	rc.hub.NotifyRentalUpdate(rental)

	return c.JSON(RentalResponse{
		Success: true,
		Message: "Аренда отменена",
		Rental:  rental,
	})
}

// GetRental получает аренду по ID
func (rc *RentalController) GetRental(c *fiber.Ctx) error {
	rentalID, err := rc.getRentalID(c)
	if err != nil {
		return c.Status(400).JSON(RentalResponse{
			Success: false,
			Message: "Неверный ID аренды",
		})
	}

	rental, err := rc.rentalService.GetByID(rentalID)
	if err != nil {
		return rc.respondError(c, err)
	}

	return c.JSON(RentalResponse{
		Success: true,
		Message: "Аренда найдена",
		Rental:  rental,
	})
}

// DeleteRental выполняет административное удаление записи об аренде.
// Статус не проверяется и склад не корректируется, операция предназначена
// только для ручной очистки данных
func (rc *RentalController) DeleteRental(c *fiber.Ctx) error {
	if _, err := rc.getClaimsFromToken(c); err != nil {
		return c.Status(401).JSON(RentalResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	rentalID, err := rc.getRentalID(c)
	if err != nil {
		return c.Status(400).JSON(RentalResponse{
			Success: false,
			Message: "Неверный ID аренды",
		})
	}

	if err := rc.rentalService.DeleteByID(rentalID); err != nil {
		return rc.respondError(c, err)
	}

	return c.JSON(RentalResponse{
		Success: true,
		Message: "Аренда удалена",
	})
}

// Вспомогательные методы

// transition выполняет переход состояния от имени текущего пользователя
func (rc *RentalController) transition(c *fiber.Ctx, message string, op func(rentalID, actorID uint) (*models.Rental, error)) error {
	claims, err := rc.getClaimsFromToken(c)
	if err != nil {
		return c.Status(401).JSON(RentalResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	rentalID, err := rc.getRentalID(c)
	if err != nil {
		return c.Status(400).JSON(RentalResponse{
			Success: false,
			Message: "Неверный ID аренды",
		})
	}

	rental, err := op(rentalID, claims.UserID)
	if err != nil {
		return rc.respondError(c, err)
	}

	rc.hub.NotifyRentalUpdate(rental)

	return c.JSON(RentalResponse{
		Success: true,
		Message: message,
		Rental:  rental,
	})
}

// respondError переводит ошибки сервисов в HTTP статусы:
// отсутствие записи в 404, нарушение бизнес-правила в 400,
// все остальное в 500 без деталей
func (rc *RentalController) respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrRentalNotFound) || errors.Is(err, services.ErrItemNotFound) {
		return c.Status(404).JSON(RentalResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	var reqErr *services.RequestError
	if errors.As(err, &reqErr) {
		return c.Status(400).JSON(RentalResponse{
			Success: false,
			Message: reqErr.Reason,
		})
	}

	log.Printf("Rental operation error: %v", err)
	return c.Status(500).JSON(RentalResponse{
		Success: false,
		Message: "Внутренняя ошибка сервера",
	})
}

// getRentalID извлекает ID аренды из параметров маршрута
func (rc *RentalController) getRentalID(c *fiber.Ctx) (uint, error) {
	rentalID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(rentalID), nil
}

// getPageParams извлекает параметры пагинации, страница нумеруется с нуля
func (rc *RentalController) getPageParams(c *fiber.Ctx) (int, int) {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	size, _ := strconv.Atoi(c.Query("size", "10"))

	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	return page, size
}

// getClaimsFromToken извлекает claims пользователя из JWT токена
func (rc *RentalController) getClaimsFromToken(c *fiber.Ctx) (*utils.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(401, "Отсутствует токен авторизации")
	}

	// Извлекаем токен из заголовка "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return nil, fiber.NewError(401, "Неверный формат токена")
	}

	claims, err := utils.ValidateJWT(tokenParts[1])
	if err != nil {
		return nil, fiber.NewError(401, "Недействительный токен")
	}

	return claims, nil
}
