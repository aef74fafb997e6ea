package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inmobiliaria-server/config"
	"inmobiliaria-server/database"
	"inmobiliaria-server/handlers/auth"
	"inmobiliaria-server/handlers/clients"
	"inmobiliaria-server/handlers/properties"
	"inmobiliaria-server/handlers/rentals"
	"inmobiliaria-server/handlers/sales"
	"inmobiliaria-server/handlers/users"
	"inmobiliaria-server/middleware"
	"inmobiliaria-server/models"
	"inmobiliaria-server/seed"
	"inmobiliaria-server/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	mailer := &utils.SMTPMailer{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		User:   cfg.SMTPUser,
		Pass:   cfg.SMTPPass,
		Sender: cfg.SMTPSender,
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := auth.NewHandler(db, cfg, mailer)
	propertiesHandler := properties.NewHandler(db)
	clientsHandler := clients.NewHandler(db)
	rentalsHandler := rentals.NewHandler(db)
	salesHandler := sales.NewHandler(db)
	usersHandler := users.NewHandler(db)

	requireAuth := middleware.RequireAuth(db, cfg.JWTSecret)
	adminOnly := middleware.RequireRoles(models.RolAdmin)
	adminOrAgent := middleware.RequireRoles(models.RolAdmin, models.RolAgente)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}

		propertiesGroup := api.Group("/properties")
		{
			propertiesGroup.GET("", propertiesHandler.List)
			propertiesGroup.POST("", requireAuth, adminOrAgent, propertiesHandler.Create)
			propertiesGroup.PUT("/:id", requireAuth, adminOrAgent, propertiesHandler.Update)
			propertiesGroup.DELETE("/:id", requireAuth, adminOnly, propertiesHandler.Delete)
		}

		clientsGroup := api.Group("/clients")
		{
			clientsGroup.GET("", requireAuth, adminOrAgent, clientsHandler.List)
			clientsGroup.POST("", requireAuth, adminOrAgent, clientsHandler.Create)
			clientsGroup.PUT("/:id", requireAuth, adminOrAgent, clientsHandler.Update)
			clientsGroup.DELETE("/:id", requireAuth, adminOnly, clientsHandler.Delete)
			clientsGroup.GET("/profile/:id_usuario", requireAuth, clientsHandler.GetProfile)
			clientsGroup.PUT("/profile/:id_usuario", requireAuth, clientsHandler.UpdateProfile)
		}

		rentalsGroup := api.Group("/rentals")
		{
			rentalsGroup.POST("", requireAuth, rentalsHandler.Create)
			rentalsGroup.GET("/:id_usuario", requireAuth, rentalsHandler.GetByUser)
			rentalsGroup.PUT("/:id", requireAuth, adminOrAgent, rentalsHandler.Update)
			rentalsGroup.DELETE("/:id", requireAuth, rentalsHandler.Cancel)
			rentalsGroup.POST("/rent", requireAuth, rentalsHandler.Rent)
		}

		salesGroup := api.Group("/sales")
		{
			salesGroup.POST("", requireAuth, salesHandler.Create)
			salesGroup.GET("/:id_usuario", requireAuth, salesHandler.GetByUser)
			salesGroup.PUT("/:id", requireAuth, adminOrAgent, salesHandler.Update)
			salesGroup.DELETE("/:id", requireAuth, salesHandler.Cancel)
			salesGroup.DELETE("/:id/remove", requireAuth, adminOnly, salesHandler.Remove)
			salesGroup.POST("/purchase", requireAuth, salesHandler.Purchase)
		}

		usersGroup := api.Group("/users")
		{
			usersGroup.GET("/profile", requireAuth, usersHandler.Profile)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Servidor corriendo en puerto %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if err := database.Close(db); err != nil {
		log.Printf("Database close error: %v", err)
	}
	log.Println("Servidor cerrado")
}
