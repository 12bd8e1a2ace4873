package main

import (
	"io"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func loadServiceConfig() {
	open, err := os.Open("service_conf.json")
	if err != nil {
		log.Printf("failed to open config: %s", err)
		writeDefaultConfig()
		os.Exit(0)
	}

	data, err := io.ReadAll(open)
	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	err = sonic.Unmarshal(data, &ServiceConfig)
	if err != nil {
		log.Fatalf("failed to unmarshal json data: %s", err)
	}
}

func writeDefaultConfig() {
	defaultData, err := sonic.MarshalIndent(&ServiceConfig, "", "    ")
	if err != nil {
		log.Fatalf("failed to marshal json data: %s", err)
	}

	err = os.WriteFile("service_conf.json", defaultData, 660)
	if err != nil {
		log.Fatalf("failed to write config: %s", err)
	}
}

func main() {
	loadServiceConfig()
	SetupDatabaseConnection()
	SetupRedisConnection()
	SetupStorage()
	InitChannelLayer()

	app := fiber.New(fiber.Config{
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	appGroup := app.Group("/api")
	authRoutes(appGroup)
	categoryRoutes(appGroup)
	imageRoutes(appGroup)
	searchRoutes(appGroup)
	financialRoutes(appGroup)
	profileRoutes(appGroup)
	followRoutes(appGroup)
	aiRoutes(appGroup)
	adminRoutes(appGroup)

	websocketRoutes(app)

	log.Fatal(app.Listen(":8000"))
}
