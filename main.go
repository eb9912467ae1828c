package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kartlink/kartlink-api/config"
	"github.com/kartlink/kartlink-api/controllers"
	"github.com/kartlink/kartlink-api/middleware"
	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/services"
)

func main() {
	log.Println("Starting KartLink API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	storage, err := services.InitFileStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}
	services.SetFileStorage(storage)

	services.SetMailer(services.InitMailer(cfg.ResendAPIKey, cfg.MailFrom, cfg.FrontendURL))

	router := setupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// migrate keeps the schema in sync with the models.
func migrate() error {
	return config.GetDB().AutoMigrate(
		&models.User{},
		&models.AccessToken{},
		&models.PasswordResetToken{},
		&models.Session{},
		&models.Pack{},
		&models.Template{},
		&models.PackOffer{},
		&models.Order{},
		&models.PaymentValidation{},
		&models.PaymentSetting{},
		&models.TestimonialCategory{},
		&models.Testimonial{},
		&models.BlogCategory{},
		&models.BlogArticle{},
	)
}

// setupRouter wires middleware and every route group of the API.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded files are served directly when stored on disk
	if cfg.StorageDriver == "local" {
		router.Static("/storage", cfg.StorageRoot)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		v1.POST("/register", controllers.Register)
		v1.POST("/login", controllers.Login)
		v1.POST("/forgot-password", controllers.ForgotPassword)
		v1.POST("/reset-password", controllers.ResetPassword)

		v1.GET("/packs", controllers.ListPacks)
		v1.GET("/packs/:slug", controllers.GetPackBySlug)
		v1.GET("/packs/:slug/offers", controllers.ListPackOffersForPack)
		v1.GET("/packs/:slug/templates", controllers.ListTemplatesByPackSlug)

		v1.GET("/templates", controllers.ListTemplates)
		v1.GET("/templates/:id", controllers.GetTemplate)
		v1.GET("/templates/pack/:slug", controllers.ListTemplatesByPackSlug)

		v1.GET("/pack-offers", controllers.ListPackOffers)
		v1.GET("/pack-offers/:id", controllers.GetPackOffer)

		v1.POST("/orders", controllers.CreateOrder)

		v1.GET("/payment-settings/active", controllers.GetActivePaymentSetting)

		testimonials := v1.Group("/testimonials")
		{
			testimonials.GET("", controllers.ListTestimonials)
			testimonials.GET("/featured", controllers.FeaturedTestimonials)
			testimonials.GET("/categories", controllers.ListTestimonialCategories)
			testimonials.GET("/stats", controllers.TestimonialStats)
			testimonials.GET("/category/:slug", controllers.TestimonialsByCategorySlug)
		}

		blog := v1.Group("/blog")
		{
			blog.GET("/categories", controllers.ListBlogCategories)
			blog.GET("/categories/:slug", controllers.GetBlogCategoryBySlug)
			blog.GET("/articles", controllers.ListBlogArticles)
			blog.GET("/articles/trending", controllers.TrendingBlogArticles)
			blog.GET("/articles/:slug", controllers.GetBlogArticleBySlug)
			blog.GET("/tags", controllers.BlogTags)
			blog.GET("/stats", controllers.BlogStats)
			blog.GET("/archive", controllers.BlogArchive)
			blog.GET("/archive/:year", controllers.BlogArchive)
			blog.GET("/archive/:year/:month", controllers.BlogArchive)
			blog.GET("/authors", controllers.BlogAuthors)
			blog.GET("/authors/:id/articles", controllers.BlogAuthorArticles)
		}

		protected := v1.Group("", middleware.RequireToken())
		{
			protected.GET("/me", controllers.Me)
			protected.POST("/logout", controllers.Logout)
			protected.POST("/refresh-token", controllers.RefreshToken)

			protected.GET("/orders", controllers.ListOrders)
			protected.GET("/orders/:id", controllers.GetOrder)
			protected.POST("/orders/:id/payment-proof", controllers.SubmitPaymentProof)
		}
	}

	router.GET("/admin-redirect", controllers.AdminRedirect)

	admin := router.Group("/admin", middleware.RequireSessionOrToken(), middleware.RequireAdmin())
	{
		admin.GET("", controllers.AdminHome)
		admin.POST("/logout", controllers.AdminLogout)

		admin.GET("/payment-settings", controllers.ListPaymentSettings)
		admin.POST("/payment-settings", controllers.CreatePaymentSetting)
		admin.PUT("/payment-settings/:id", controllers.UpdatePaymentSetting)
		admin.DELETE("/payment-settings/:id", controllers.DeletePaymentSetting)

		admin.GET("/payment-validations", controllers.ListPaymentValidations)
		admin.GET("/payment-validations/:id", controllers.GetPaymentValidation)
		admin.POST("/payment-validations/:id/review", controllers.ReviewPaymentValidation)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "KartLink API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to get database instance",
			"errors":  nil,
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Database connection failed",
			"errors":  nil,
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to query tables",
			"errors":  nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
