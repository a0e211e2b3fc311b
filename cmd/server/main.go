package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-library/internal/config"
	"github.com/iliyamo/book-library/internal/database"
	"github.com/iliyamo/book-library/internal/handler"
	"github.com/iliyamo/book-library/internal/queue"
	"github.com/iliyamo/book-library/internal/repository"
	"github.com/iliyamo/book-library/internal/router"
	"github.com/iliyamo/book-library/internal/service"
	"github.com/iliyamo/book-library/internal/utils"
)

func main() {
	// Load a local .env when present; real deployments set the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	issuer := utils.NewIssuer(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)

	users := repository.NewUserRepo(db)
	authors := repository.NewAuthorRepo(db)
	books := repository.NewBookRepo(db)
	reservations := repository.NewReservationRepo(db)

	auth := service.NewAuthService(service.NewSQLUserStore(db, users), issuer, cfg.BcryptCost)

	// Redis is optional; a nil client disables the response cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache disabled")
	}

	// Background consumer logs reservation events; reconnects on its own.
	go queue.StartReservationConsumer(cfg.RabbitURL)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(auth, issuer), issuer, users)
	router.RegisterCatalog(e, handler.NewBookHandler(books), handler.NewAuthorHandler(authors),
		issuer, users, config.LoadCacheConfig(), rdb)
	router.RegisterUsers(e, handler.NewUserHandler(users), issuer, users)
	router.RegisterReservations(e, handler.NewReservationHandler(reservations, books, cfg.RabbitURL), issuer, users)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
