package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/auth"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/cart"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/config"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/middleware"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/models"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/orders"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/routes"
	"github.com/sn4yber/PR-Ecomeerse-carlosDev-comunity/sessions"
)

func main() {
	log.Println("Starting application...")

	// Load environment variables
	_ = godotenv.Load()
	cfg := config.Load()

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.RefreshToken{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		log.Fatalf("Invalid TAX_RATE %q: %v", cfg.TaxRate, err)
	}

	// Build components with explicit dependency injection
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	sessionStore := sessions.NewStore(db, cfg.MaxSessions, cfg.RefreshTokenTTL)
	authService := auth.NewService(db, codec, sessionStore, cfg.RotateRefreshTok)
	cartEngine := cart.NewEngine(db, taxRate)
	orderLedger := orders.NewLedger(db)

	// Background sweep for expired sessions
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessionStore.StartSweeper(ctx, cfg.SweepInterval)

	// Gin setup
	r := gin.Default()
	r.Use(middleware.Prometheus())

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		DB:          db,
		Codec:       codec,
		AuthService: authService,
		Sessions:    sessionStore,
		Cart:        cartEngine,
		Orders:      orderLedger,
	})

	log.Printf("Server listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Database connection established")
	return db
}
