package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/online-storefront/internal/config"
	"github.com/iliyamo/online-storefront/internal/database"
	"github.com/iliyamo/online-storefront/internal/handler"
	"github.com/iliyamo/online-storefront/internal/queue"
	"github.com/iliyamo/online-storefront/internal/repository"
	"github.com/iliyamo/online-storefront/internal/router"
	"github.com/iliyamo/online-storefront/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	var blobs storage.BlobStore
	if s3, err := storage.NewS3Store(cfg); err != nil {
		log.Fatalf("blob store: %v", err)
	} else if s3 != nil {
		blobs = s3
	} else {
		log.Println("blob store not configured, image uploads disabled")
	}

	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	users := &repository.UserRepo{DB: db}
	products := &repository.ProductRepo{DB: db}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(router.CORS(cfg.ClientURL))

	router.Register(e, router.Deps{
		Cfg:      cfg,
		Auth:     handler.NewAuthHandler(cfg, users),
		Products: handler.NewProductHandler(cfg, products, blobs),
		Redis:    rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
