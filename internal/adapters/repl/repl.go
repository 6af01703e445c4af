package repl

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"resto-backoffice/internal/app"
)

// Run starts the interactive REPL loop. It reads slash commands from reader
// and dispatches them deterministically; the document flows (/reception,
// /sales-ticket, /sync) open interactive review wizards.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	restaurant, err := svc.LoadDefaultRestaurant(ctx)
	if err != nil {
		log.Fatalf("Failed to load restaurant: %v", err)
	}

	fmt.Println("Resto Back Office")
	fmt.Printf("Restaurant: %s (%s)\n", restaurant.Name, restaurant.Currency)
	fmt.Println("Type /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "products":
			result, err := svc.ListProducts(ctx)
			if err != nil {
				return err
			}
			printProducts(result)

		case "product":
			id, ok := intArg(args, 0, "Usage: /product <id>")
			if !ok {
				return nil
			}
			result, err := svc.GetProduct(ctx, id)
			if err != nil {
				return err
			}
			printProduct(result.Product)

		case "new-product":
			handleNewProduct(ctx, reader, svc)

		case "adjust":
			if len(args) < 2 {
				fmt.Println("Usage: /adjust <product-id> <new-quantity> [notes...]")
				return nil
			}
			id, ok := intArg(args, 0, "Usage: /adjust <product-id> <new-quantity> [notes...]")
			if !ok {
				return nil
			}
			notes := strings.Join(args[2:], " ")
			result, err := svc.AdjustStock(ctx, id, args[1], notes)
			if err != nil {
				return err
			}
			fmt.Printf("Stock adjusted. %s is now %s %s.\n",
				result.Product.Name, result.Product.Quantity, result.Product.Unit)

		case "delete-products":
			if len(args) == 0 {
				fmt.Println("Usage: /delete-products <id> [id...]")
				return nil
			}
			ids := make([]int, 0, len(args))
			for _, a := range args {
				id, err := strconv.Atoi(a)
				if err != nil {
					fmt.Printf("Skipping %q: not a product ID.\n", a)
					continue
				}
				ids = append(ids, id)
			}
			if len(ids) == 0 {
				return nil
			}
			result, err := svc.BulkDeleteProducts(ctx, ids)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d, failed %d.\n", result.Outcome.Deleted, result.Outcome.Failed)
			for _, e := range result.Outcome.Errors {
				fmt.Printf("  %s\n", e)
			}

		case "stock":
			result, err := svc.GetStockOverview(ctx)
			if err != nil {
				return err
			}
			printStockOverview(result)

		case "reorder":
			result, err := svc.GetReorderSuggestions(ctx)
			if err != nil {
				return err
			}
			printReorder(result)

		case "dishes":
			result, err := svc.ListDishes(ctx, false)
			if err != nil {
				return err
			}
			printDishes(result)

		case "dish":
			id, ok := intArg(args, 0, "Usage: /dish <id>")
			if !ok {
				return nil
			}
			result, err := svc.GetDish(ctx, id)
			if err != nil {
				return err
			}
			printDish(result.Dish)

		case "costing":
			if len(args) > 0 {
				id, ok := intArg(args, 0, "Usage: /costing [dish-id]")
				if !ok {
					return nil
				}
				result, err := svc.GetDishCosting(ctx, id)
				if err != nil {
					return err
				}
				printCosting(result.Costing)
				return nil
			}
			result, err := svc.ListDishCostings(ctx)
			if err != nil {
				return err
			}
			printCostings(result)

		case "menus":
			result, err := svc.ListMenus(ctx)
			if err != nil {
				return err
			}
			printMenus(result)

		case "menu":
			id, ok := intArg(args, 0, "Usage: /menu <id>")
			if !ok {
				return nil
			}
			result, err := svc.GetMenu(ctx, id)
			if err != nil {
				return err
			}
			printMenu(result.Menu)

		case "suppliers":
			result, err := svc.ListSuppliers(ctx)
			if err != nil {
				return err
			}
			printSuppliers(result)

		case "bills":
			status := ""
			if len(args) > 0 {
				status = strings.ToUpper(args[0])
			}
			result, err := svc.ListBills(ctx, status)
			if err != nil {
				return err
			}
			printBills(result)

		case "bill":
			id, ok := intArg(args, 0, "Usage: /bill <id>")
			if !ok {
				return nil
			}
			result, err := svc.GetBill(ctx, id)
			if err != nil {
				return err
			}
			printBill(result.Bill)

		case "sales":
			result, err := svc.ListSales(ctx)
			if err != nil {
				return err
			}
			printSales(result)

		case "sale":
			id, ok := intArg(args, 0, "Usage: /sale <id>")
			if !ok {
				return nil
			}
			result, err := svc.GetSale(ctx, id)
			if err != nil {
				return err
			}
			printSale(result.Sale)

		case "disputes":
			status := ""
			if len(args) > 0 {
				status = strings.ToUpper(args[0])
			}
			result, err := svc.ListDisputes(ctx, status)
			if err != nil {
				return err
			}
			printDisputes(result)

		case "new-dispute":
			if len(args) < 2 {
				fmt.Println("Usage: /new-dispute <bill-id> <RETURN|COMPLAINT|REFUND>")
				return nil
			}
			billID, ok := intArg(args, 0, "Usage: /new-dispute <bill-id> <RETURN|COMPLAINT|REFUND>")
			if !ok {
				return nil
			}
			handleNewDispute(ctx, reader, svc, billID, strings.ToUpper(args[1]))

		case "dispute-status":
			if len(args) < 2 {
				fmt.Println("Usage: /dispute-status <dispute-id> <OPEN|IN_PROGRESS|RESOLVED|CLOSED>")
				return nil
			}
			id, ok := intArg(args, 0, "Usage: /dispute-status <dispute-id> <status>")
			if !ok {
				return nil
			}
			status := strings.ToUpper(args[1])
			notes := ""
			if status == "RESOLVED" || status == "CLOSED" {
				fmt.Print("Resolution notes: ")
				raw, _ := reader.ReadString('\n')
				notes = strings.TrimSpace(raw)
			}
			result, err := svc.UpdateDisputeStatus(ctx, id, status, notes)
			if err != nil {
				return err
			}
			fmt.Printf("Dispute #%d is now %s.\n", result.Dispute.ID, result.Dispute.Status)

		case "reception":
			if len(args) < 1 {
				fmt.Println("Usage: /reception <image-path>")
				return nil
			}
			runReceptionWizard(ctx, reader, svc, args[0])

		case "sales-ticket":
			if len(args) < 1 {
				fmt.Println("Usage: /sales-ticket <image-path>")
				return nil
			}
			runSalesWizard(ctx, reader, svc, args[0])

		case "sync":
			if len(args) < 1 {
				fmt.Println("Usage: /sync <image-path>")
				return nil
			}
			runSyncWizard(ctx, reader, svc, args[0])

		case "help":
			printHelp()

		case "exit", "quit":
			return errExit

		default:
			fmt.Printf("Unknown command /%s. Type /help for commands.\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye.")
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if !strings.HasPrefix(input, "/") {
			fmt.Println("Commands start with /. Type /help for the list.")
			continue
		}
		if err := dispatchSlash(input); err != nil {
			if err == errExit {
				fmt.Println("Goodbye.")
				return
			}
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func intArg(args []string, i int, usage string) (int, bool) {
	if len(args) <= i {
		fmt.Println(usage)
		return 0, false
	}
	id, err := strconv.Atoi(args[i])
	if err != nil {
		fmt.Println(usage)
		return 0, false
	}
	return id, true
}

func printHelp() {
	fmt.Println(`Commands:
  /products                      list products
  /product <id>                  show one product
  /new-product                   create a product interactively
  /adjust <id> <qty> [notes]     set a product's quantity
  /delete-products <id> [id...]  delete products (per-row outcome)
  /stock                         stock overview with urgency labels
  /reorder                       reorder suggestions grouped by supplier
  /dishes  /dish <id>            dishes and recipes
  /costing [dish-id]             cost and margin per dish
  /menus  /menu <id>             menus with sections
  /suppliers                     supplier directory
  /reception <image-path>        review and confirm a delivery bill photo
  /sales-ticket <image-path>     review and confirm a POS ticket photo
  /sync <image-path>             review and apply a count sheet photo
  /bills [status]  /bill <id>    delivery bills
  /sales  /sale <id>             sales tickets
  /disputes [status]             supplier disputes
  /new-dispute <bill-id> <type>  open a dispute (RETURN, COMPLAINT, REFUND)
  /dispute-status <id> <status>  move a dispute through its lifecycle
  /help  /exit`)
}
