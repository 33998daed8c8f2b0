package routes

import (
	"os"
	"strings"

	"practicepro-backend/config"
	"practicepro-backend/controllers"
	"practicepro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)

		profile := auth.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("", controllers.UpdateProfile)
			profile.PUT("/update-hours", controllers.UpdateWorkingHours)
			profile.PUT("/update-notifications", controllers.UpdateNotificationSettings)
		}
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
		}

		// Session routes
		sessions := api.Group("/sessions")
		{
			sessions.POST("", controllers.CreateSession)
			sessions.GET("", controllers.GetSessions)
			sessions.GET("/:id", controllers.GetSession)
			sessions.PUT("/:id", controllers.UpdateSession)
			sessions.DELETE("/:id", controllers.DeleteSession)

			sessions.POST("/:id/complete", controllers.CompleteSession)
			sessions.POST("/:id/pay", controllers.PaySession)
			sessions.POST("/:id/unpay", controllers.UnpaySession)
			sessions.POST("/:id/receipt", controllers.MarkReceiptSent)
			sessions.POST("/:id/unreceipt", controllers.MarkReceiptUnsent)
			sessions.POST("/:id/cancel", controllers.CancelSession)
			sessions.POST("/:id/transfer", controllers.TransferSession)
		}

		// Finance routes
		finance := api.Group("/finance")
		{
			finance.GET("/summary", controllers.GetFinancialSummary)
			finance.GET("/export", controllers.ExportTransactions)
		}

		// Reminder routes
		reminders := api.Group("/reminders")
		{
			reminders.GET("/templates", controllers.GetReminderTemplates)
			reminders.PUT("/templates", controllers.UpdateReminderTemplate)
			reminders.GET("/logs", controllers.GetReminderLogs)
		}
	}

	return r
}
