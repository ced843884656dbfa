package main

import (
	"log"
	"os"
	"time"

	"minjemin-backend/controllers"
	"minjemin-backend/models"
	"minjemin-backend/routes"
	"minjemin-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Загрузка переменных окружения из .env (если файл есть)
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	// Инициализация базы данных
	db, err := models.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Автомиграция
	db.AutoMigrate(&models.User{}, &models.Item{}, &models.Rental{}, &models.Payment{})

	// Создание Fiber приложения
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// CORS настройки
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000,http://127.0.0.1:3000,http://10.0.2.2:8080"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Инициализация WebSocket хаба
	hub := services.NewRentalHub(db)
	go hub.Run()

	// Инициализация сервисов
	rentalService := services.NewRentalService(db)
	listingService := services.NewListingService(db)
	paymentService := services.NewPaymentService(db, &services.MockPaymentProvider{})
	statsService := services.NewStatsService(db)

	// Инициализация контроллеров
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	itemController := controllers.NewItemController(db)
	rentalController := controllers.NewRentalController(rentalService, listingService, hub)
	paymentController := controllers.NewPaymentController(paymentService, rentalService, hub)
	statsController := controllers.NewStatsController(statsService)

	// Настройка маршрутов
	routes.SetupAuthRoutes(app, authController)
	routes.SetupUserRoutes(app, userController)
	routes.SetupItemRoutes(app, itemController)
	routes.SetupRentalRoutes(app, rentalController)
	routes.SetupPaymentRoutes(app, paymentController)
	routes.SetupStatsRoutes(app, statsController)

	// WebSocket маршрут
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.HandleWebSocket(c)
	}))

	// Общий health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Minjemin Backend is running",
			"timestamp": time.Now().Unix(),
		})
	})

	// Запуск сервера
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}
