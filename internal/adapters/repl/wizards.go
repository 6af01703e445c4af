package repl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"resto-backoffice/internal/app"
	"resto-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

func parseFlowDecimal(s string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	raw, _ := reader.ReadString('\n')
	return strings.TrimSpace(raw)
}

// handleNewProduct runs an interactive product creation session.
func handleNewProduct(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	name := prompt(reader, "Name: ")
	if name == "" {
		fmt.Println("Cancelled.")
		return
	}
	req := app.ProductRequest{
		Name:      name,
		Quantity:  prompt(reader, "Starting quantity [0]: "),
		Unit:      strings.ToUpper(prompt(reader, "Unit (KG, G, L, CL, PC, BOX, BTL) [PC]: ")),
		UnitPrice: prompt(reader, "Unit price (blank if unknown): "),
		ParLevel:  prompt(reader, "Par level (blank for none): "),
		Category:  prompt(reader, "Category (optional): "),
		Trackable: true,
	}
	if strings.EqualFold(prompt(reader, "Track stock for this product? [Y/n]: "), "n") {
		req.Trackable = false
	}

	result, err := svc.CreateProduct(ctx, req)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Created product #%d: %s\n", result.Product.ID, result.Product.Name)
}

// handleNewDispute collects a description and optional product IDs, then opens
// the dispute.
func handleNewDispute(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, billID int, disputeType string) {
	description := prompt(reader, "Description: ")

	var productIDs []int
	raw := prompt(reader, "Disputed product IDs (space-separated, blank for none): ")
	for _, tok := range strings.Fields(raw) {
		id, err := strconv.Atoi(tok)
		if err != nil {
			fmt.Printf("Skipping %q: not a product ID.\n", tok)
			continue
		}
		productIDs = append(productIDs, id)
	}

	result, err := svc.CreateDispute(ctx, app.DisputeRequest{
		BillID:      billID,
		Type:        disputeType,
		Description: description,
		ProductIDs:  productIDs,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Dispute #%d opened against bill #%d.\n", result.Dispute.ID, billID)
}

// ── Document review wizards ─────────────────────────────────────────

func mimeTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// extractIntoFlow loads the image, runs extraction, and returns a flow in
// REVIEW, or a zero flow and false when the wizard should end.
func extractIntoFlow(ctx context.Context, svc app.ApplicationService, kind core.FlowKind, imagePath string) (core.ReviewFlow, bool) {
	flow := core.NewReviewFlow(kind)
	flow, err := flow.Begin()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return flow, false
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		fmt.Printf("Cannot read %s: %v\n", imagePath, err)
		return flow.ExtractionFailed(), false
	}

	fmt.Println("Extracting document, this can take a few seconds...")
	res, err := svc.ExtractDocument(ctx, kind, app.Attachment{
		MimeType: mimeTypeForPath(imagePath),
		Data:     data,
	})
	if err != nil {
		fmt.Printf("Extraction failed: %v\n", err)
		return flow.ExtractionFailed(), false
	}

	flow, err = flow.ExtractionSucceeded(res.Header, res.Items)
	if err != nil {
		fmt.Printf("Extraction failed: %v\n", err)
		return flow.ExtractionFailed(), false
	}
	fmt.Printf("Extracted %d line(s).\n", len(flow.Items))
	return flow, true
}

// editItem prompts for replacement values on the current item; blank keeps
// the extracted value.
func editItem(reader *bufio.Reader, item core.LineItem) core.LineItem {
	if v := prompt(reader, fmt.Sprintf("Name [%s]: ", item.Name)); v != "" {
		item.Name = v
	}
	if v := prompt(reader, fmt.Sprintf("Quantity [%s]: ", item.Quantity)); v != "" {
		if q, err := parseFlowDecimal(v); err == nil && q.IsPositive() {
			item.Quantity = *q
		} else {
			fmt.Println("Keeping previous quantity.")
		}
	}
	if v := prompt(reader, fmt.Sprintf("Unit [%s]: ", item.Unit)); v != "" {
		item.Unit = core.Unit(strings.ToUpper(v))
	}
	if v := prompt(reader, fmt.Sprintf("Unit price [%s]: ", money(item.UnitPrice))); v != "" {
		if p, err := parseFlowDecimal(v); err == nil {
			item.UnitPrice = p
		} else {
			fmt.Println("Keeping previous price.")
		}
	}
	return item
}

// reviewLoop drives the item-by-item review until the flow reaches CONFIRM,
// resets to START, or the user cancels. The returned bool is false when the
// wizard should stop.
func reviewLoop(reader *bufio.Reader, flow core.ReviewFlow) (core.ReviewFlow, bool) {
	for flow.State == core.FlowReview {
		printFlowItem(flow)
		choice := strings.ToLower(prompt(reader,
			"(c)onfirm  (e)dit  (s)kip  (r)emove  (p)rev  (n)ext  (q)uit: "))

		var err error
		switch choice {
		case "c", "":
			item, _ := flow.CurrentItem()
			flow, err = flow.ConfirmItem(item)
		case "e":
			item, _ := flow.CurrentItem()
			flow, err = flow.ConfirmItem(editItem(reader, item))
		case "s":
			flow, err = flow.SkipItem()
		case "r":
			flow, err = flow.RemoveItem()
			if flow.State == core.FlowStart {
				fmt.Println("All items removed; nothing to submit.")
				return flow, false
			}
		case "p":
			flow, err = flow.PrevItem()
		case "n":
			flow, err = flow.NextItem()
		case "q":
			if flow.HasUnconfirmed() {
				if !strings.EqualFold(prompt(reader, "Unconfirmed items remain. Discard everything? [y/N]: "), "y") {
					continue
				}
			}
			fmt.Println("Cancelled; nothing was saved.")
			return flow.Cancel(), false
		default:
			fmt.Println("Unknown choice.")
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
	return flow, true
}

// confirmLoop shows the summary screen and returns the flow ready for
// submission, or false when cancelled.
func confirmLoop(reader *bufio.Reader, flow core.ReviewFlow) (core.ReviewFlow, bool) {
	for flow.State == core.FlowConfirm {
		printFlowSummary(flow)
		choice := strings.ToLower(prompt(reader, "(y) submit  (h) edit header  (b)ack to items  (q)uit: "))
		switch choice {
		case "y", "":
			return flow, true
		case "h":
			h := flow.Header
			if v := prompt(reader, fmt.Sprintf("Supplier [%s]: ", h.SupplierName)); v != "" {
				h.SupplierName = v
			}
			if v := prompt(reader, fmt.Sprintf("Date [%s]: ", h.Date)); v != "" {
				h.Date = v
			}
			if v := prompt(reader, fmt.Sprintf("Total [%s]: ", money(h.TotalAmount))); v != "" {
				if d, err := parseFlowDecimal(v); err == nil {
					h.TotalAmount = d
				} else {
					fmt.Println("Keeping previous total.")
				}
			}
			var err error
			flow, err = flow.EditHeader(h)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		case "b":
			var err error
			flow, err = flow.BackToReview()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			var ok bool
			flow, ok = reviewLoop(reader, flow)
			if !ok {
				return flow, false
			}
		case "q":
			fmt.Println("Cancelled; nothing was saved.")
			return flow.Cancel(), false
		default:
			fmt.Println("Unknown choice.")
		}
	}
	return flow, flow.State == core.FlowConfirm
}

func flowLines(flow core.ReviewFlow) []app.LineRequest {
	lines := make([]app.LineRequest, 0, len(flow.Items))
	for _, item := range flow.Items {
		l := app.LineRequest{
			Name:     item.Name,
			Quantity: item.Quantity.String(),
			Unit:     string(item.Unit),
		}
		if item.UnitPrice != nil {
			l.UnitPrice = item.UnitPrice.String()
		}
		if item.TotalPrice != nil {
			l.TotalPrice = item.TotalPrice.String()
		}
		lines = append(lines, l)
	}
	return lines
}

func runReceptionWizard(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, imagePath string) {
	flow, ok := extractIntoFlow(ctx, svc, core.FlowReception, imagePath)
	if !ok {
		return
	}
	flow, ok = reviewLoop(reader, flow)
	if !ok {
		return
	}
	flow, ok = confirmLoop(reader, flow)
	if !ok {
		return
	}

	// A failed submit keeps the flow on the confirm screen for a retry.
	for {
		req := app.ReceptionRequest{
			SupplierName: flow.Header.SupplierName,
			BillDate:     flow.Header.Date,
			Lines:        flowLines(flow),
		}
		if flow.Header.TotalAmount != nil {
			req.TotalAmount = flow.Header.TotalAmount.String()
		}

		result, err := svc.ConfirmReception(ctx, req)
		if err != nil {
			fmt.Printf("Submission failed: %v\n", err)
			flow, _ = flow.SubmitFailed()
			flow, ok = confirmLoop(reader, flow)
			if !ok {
				return
			}
			continue
		}
		flow, _ = flow.SubmitSucceeded()
		fmt.Printf("Reception saved as bill #%d; stock updated for %d line(s).\n",
			result.Bill.ID, len(result.Bill.Lines))
		return
	}
}

func runSalesWizard(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, imagePath string) {
	flow, ok := extractIntoFlow(ctx, svc, core.FlowSales, imagePath)
	if !ok {
		return
	}
	flow, ok = reviewLoop(reader, flow)
	if !ok {
		return
	}
	flow, ok = confirmLoop(reader, flow)
	if !ok {
		return
	}

	req := app.SaleRequest{
		SaleDate: flow.Header.Date,
		Lines:    flowLines(flow),
	}
	if flow.Header.TotalAmount != nil {
		req.TotalAmount = flow.Header.TotalAmount.String()
	}

	result, err := svc.ConfirmSale(ctx, req)
	if err != nil {
		fmt.Printf("Submission failed: %v\n", err)
		return
	}
	fmt.Printf("Sale saved as #%d; recipe ingredients deducted from stock.\n", result.Sale.ID)
}

func runSyncWizard(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, imagePath string) {
	flow, ok := extractIntoFlow(ctx, svc, core.FlowSync, imagePath)
	if !ok {
		return
	}
	flow, ok = reviewLoop(reader, flow)
	if !ok {
		return
	}
	flow, ok = confirmLoop(reader, flow)
	if !ok {
		return
	}

	// Counted lines name products; resolve them against the catalogue and
	// report what could not be matched instead of failing the whole sync.
	products, err := svc.ListProducts(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	byName := make(map[string]int, len(products.Products))
	for _, p := range products.Products {
		byName[strings.ToLower(p.Name)] = p.ID
	}

	var counts []app.SyncCountRequest
	for _, item := range flow.Items {
		id, ok := byName[strings.ToLower(strings.TrimSpace(item.Name))]
		if !ok {
			fmt.Printf("No product named %q; line skipped.\n", item.Name)
			continue
		}
		counts = append(counts, app.SyncCountRequest{
			ProductID: id,
			Counted:   item.Quantity.String(),
		})
	}
	if len(counts) == 0 {
		fmt.Println("No counted lines matched a product; nothing applied.")
		return
	}

	result, err := svc.SyncInventory(ctx, counts)
	if err != nil {
		fmt.Printf("Submission failed: %v\n", err)
		return
	}
	fmt.Printf("Inventory synced; %d product(s) adjusted.\n", result.Applied)
}
