package main

import (
	"context"
	"net/http"
	"os"

	webAdapter "resto-backoffice/internal/adapters/web"
	"resto-backoffice/internal/ai"
	"resto-backoffice/internal/app"
	"resto-backoffice/internal/core"
	"resto-backoffice/internal/db"
	"resto-backoffice/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.DefaultConfig("server"))

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer pool.Close()

	var extractor ai.Extractor
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		extractor = ai.NewVisionExtractor(apiKey)
	} else {
		log.Warn("OPENAI_API_KEY is not set; document extraction disabled")
	}

	svc := app.NewAppService(
		pool,
		core.NewRestaurantService(pool),
		core.NewProductService(pool),
		core.NewSupplierService(pool),
		core.NewDishService(pool),
		core.NewMenuService(pool),
		core.NewBillService(pool),
		core.NewSaleService(pool),
		core.NewDisputeService(pool),
		extractor,
	)

	if _, err := svc.LoadDefaultRestaurant(ctx); err != nil {
		log.Fatal("failed to load restaurant", "error", err)
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, log, allowedOrigins)

	log.Info("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
