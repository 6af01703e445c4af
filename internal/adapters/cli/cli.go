package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"resto-backoffice/internal/app"
)

// Run executes a one-shot CLI command and exits. Output is JSON so the
// commands compose with jq and shell pipelines. args is os.Args[1:] — the
// first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	if _, err := svc.LoadDefaultRestaurant(ctx); err != nil {
		log.Fatalf("Failed to load restaurant: %v", err)
	}

	printJSON := func(v any) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(v)
	}

	switch args[0] {
	case "products":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		printJSON(result.Products)

	case "stock":
		result, err := svc.GetStockOverview(ctx)
		if err != nil {
			log.Fatalf("Failed to get stock overview: %v", err)
		}
		printJSON(result.Entries)

	case "reorder":
		result, err := svc.GetReorderSuggestions(ctx)
		if err != nil {
			log.Fatalf("Failed to build reorder suggestions: %v", err)
		}
		printJSON(result.Groups)

	case "costings":
		result, err := svc.ListDishCostings(ctx)
		if err != nil {
			log.Fatalf("Failed to compute costings: %v", err)
		}
		printJSON(result.Costings)

	case "bills":
		status := ""
		if len(args) > 1 {
			status = args[1]
		}
		result, err := svc.ListBills(ctx, status)
		if err != nil {
			log.Fatalf("Failed to list bills: %v", err)
		}
		printJSON(result.Bills)

	case "sales":
		result, err := svc.ListSales(ctx)
		if err != nil {
			log.Fatalf("Failed to list sales: %v", err)
		}
		printJSON(result.Sales)

	case "disputes":
		status := ""
		if len(args) > 1 {
			status = args[1]
		}
		result, err := svc.ListDisputes(ctx, status)
		if err != nil {
			log.Fatalf("Failed to list disputes: %v", err)
		}
		printJSON(result.Disputes)

	case "adjust":
		if len(args) < 3 {
			log.Fatal("Usage: app adjust <product-id> <new-quantity> [notes]")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("Invalid product ID %q", args[1])
		}
		notes := ""
		if len(args) > 3 {
			notes = args[3]
		}
		result, err := svc.AdjustStock(ctx, id, args[2], notes)
		if err != nil {
			log.Fatalf("Adjustment failed: %v", err)
		}
		printJSON(result.Product)

	case "confirm-reception":
		// Reads a ReceptionRequest JSON from stdin; pairs with a client that
		// already ran extraction and review.
		var req app.ReceptionRequest
		if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.ConfirmReception(ctx, req)
		if err != nil {
			log.Fatalf("Reception failed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Bill #%d saved.\n", result.Bill.ID)
		printJSON(result.Bill)

	case "confirm-sale":
		var req app.SaleRequest
		if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		result, err := svc.ConfirmSale(ctx, req)
		if err != nil {
			log.Fatalf("Sale failed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Sale #%d saved.\n", result.Sale.ID)
		printJSON(result.Sale)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: products, stock, reorder, costings, bills, sales, disputes, adjust, confirm-reception, confirm-sale", args[0])
	}
}
