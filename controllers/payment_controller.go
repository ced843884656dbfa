package controllers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"minjemin-backend/models"
	"minjemin-backend/services"
	"minjemin-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// PaymentController контроллер для оплаты аренды
type PaymentController struct {
	paymentService *services.PaymentService
	rentalService  *services.RentalService
	hub            *services.RentalHub
}

// NewPaymentController создает новый экземпляр PaymentController
func NewPaymentController(paymentService *services.PaymentService, rentalService *services.RentalService, hub *services.RentalHub) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		rentalService:  rentalService,
		hub:            hub,
	}
}

// PayRequest структура запроса оплаты
type PayRequest struct {
	Amount float64 `json:"amount" validate:"min=0"`
}

// PaymentResponse структура ответа с платежом
type PaymentResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Payment *models.Payment `json:"payment,omitempty"`
}

// PayRental проводит оплату аренды текущим пользователем
func (pc *PaymentController) PayRental(c *fiber.Ctx) error {
	claims, err := pc.getClaimsFromToken(c)
	if err != nil {
		return c.Status(401).JSON(PaymentResponse{
			Success: false,
			Message: "Неавторизованный доступ",
		})
	}

	rentalID, err := strconv.ParseUint(c.Params("rentalId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(PaymentResponse{
			Success: false,
			Message: "Неверный ID аренды",
		})
	}

	var req PayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(PaymentResponse{
			Success: false,
			Message: "Неверный формат данных",
		})
	}

	payment, err := pc.paymentService.Pay(uint(rentalID), claims.UserID, req.Amount)
	if err != nil {
		if errors.Is(err, services.ErrRentalNotFound) {
			return c.Status(404).JSON(PaymentResponse{
				Success: false,
				Message: err.Error(),
			})
		}
		var reqErr *services.RequestError
		if errors.As(err, &reqErr) {
			return c.Status(400).JSON(PaymentResponse{
				Success: false,
				Message: reqErr.Reason,
			})
		}
		log.Printf("Payment error: %v", err)
		return c.Status(500).JSON(PaymentResponse{
			Success: false,
			Message: "Внутренняя ошибка сервера",
		})
	}

	// Уведомляем стороны аренды о смене флага оплаты
	if rental, err := pc.rentalService.GetByID(uint(rentalID)); err == nil {
		pc.hub.NotifyRentalUpdate(rental)
	}

	return c.Status(201).JSON(PaymentResponse{
		Success: true,
		Message: "Оплата проведена",
		Payment: payment,
	})
}

// getClaimsFromToken извлекает claims пользователя из JWT токена
func (pc *PaymentController) getClaimsFromToken(c *fiber.Ctx) (*utils.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(401, "Отсутствует токен авторизации")
	}

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
