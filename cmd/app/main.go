package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"resto-backoffice/internal/adapters/cli"
	"resto-backoffice/internal/adapters/repl"
	"resto-backoffice/internal/ai"
	"resto-backoffice/internal/app"
	"resto-backoffice/internal/core"
	"resto-backoffice/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	var extractor ai.Extractor
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		extractor = ai.NewVisionExtractor(apiKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set; document commands are disabled")
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

	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
