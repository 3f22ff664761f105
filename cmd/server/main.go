package main

import (
	"log"
	"os"
	"time"

	"agrisite/internal/database"
	"agrisite/internal/handlers"
	"agrisite/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	r := gin.Default()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Report-Fallback"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.GetSystemStatus)
	r.POST("/login", handlers.Login)

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Println("WARNING: Registration route is OPEN. Disable this in production!")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/regions", handlers.ListRegions)
		api.GET("/holders", handlers.ListLandHolders)
		api.GET("/crops", handlers.ListCrops)
		api.GET("/parcels", handlers.ListLandParcels)
		api.GET("/parcels/:id", handlers.GetLandParcel)

		api.GET("/dashboard", handlers.Dashboard)
		api.GET("/analysis", handlers.AnalysisReports)
		api.GET("/region/:id", handlers.RegionAnalysis)
		api.GET("/crop/:id", handlers.CropAnalysis)
		api.GET("/land-stats", handlers.LandStats)
		api.GET("/analysis-data", handlers.AnalysisData)

		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.Ask)

			admin.POST("/regions", handlers.CreateRegion)
			admin.PUT("/regions/:id", handlers.UpdateRegion)
			admin.DELETE("/regions/:id", handlers.DeleteRegion)

			admin.POST("/holders", handlers.CreateLandHolder)
			admin.PUT("/holders/:id", handlers.UpdateLandHolder)
			admin.DELETE("/holders/:id", handlers.DeleteLandHolder)

			admin.POST("/crops", handlers.CreateCrop)
			admin.PUT("/crops/:id", handlers.UpdateCrop)
			admin.DELETE("/crops/:id", handlers.DeleteCrop)

			admin.POST("/parcels", handlers.CreateLandParcel)
			admin.PUT("/parcels/:id", handlers.UpdateLandParcel)
			admin.DELETE("/parcels/:id", handlers.DeleteLandParcel)

			admin.PUT("/parcels/:id/irrigation", handlers.UpsertIrrigation)
			admin.POST("/parcels/:id/patterns", handlers.CreateCroppingPattern)
			admin.POST("/parcels/:id/analyses", handlers.CreateLandAnalysis)
		}
	}

	downloads := r.Group("/")
	downloads.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	{
		downloads.GET("/export/:data_type", handlers.ExportData)
		downloads.GET("/download/report/:report_type", handlers.DownloadReport)
		downloads.GET("/download/parcel/:id", handlers.DownloadParcelReport)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Server starting on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
