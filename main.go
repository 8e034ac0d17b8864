package main

import (
	"fmt"
	"log"
	"os"

	"beautyflow-backend/config"
	"beautyflow-backend/controllers"
	"beautyflow-backend/models"
	"beautyflow-backend/routes"
	"beautyflow-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Service{},
		&models.ServiceRecipe{},
		&models.Appointment{},
		&models.StockItem{},
		&models.StockMovement{},
		&models.StockCount{},
		&models.Commission{},
		&models.StaffServiceCommission{},
		&models.Transaction{},
		&models.ReminderLog{},
	)
}

func main() {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		controllers.Assistant = services.NewOpenAIAssistant(apiKey)
	} else {
		log.Println("OPENAI_API_KEY not set, assistant endpoints disabled")
	}

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
