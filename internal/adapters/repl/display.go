package repl

import (
	"fmt"
	"strings"

	"resto-backoffice/internal/app"
	"resto-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

func money(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func printProducts(result *app.ProductListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Println("  PRODUCTS")
	fmt.Println(strings.Repeat("=", 78))
	if len(result.Products) == 0 {
		fmt.Println("  No products.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-4s %-26s %10s %-5s %10s %10s %s\n",
		"ID", "NAME", "QTY", "UNIT", "PRICE", "PAR", "TRACK")
	fmt.Println(strings.Repeat("-", 78))
	for _, p := range result.Products {
		track := "yes"
		if !p.Trackable {
			track = "no"
		}
		fmt.Printf("  %-4d %-26s %10s %-5s %10s %10s %s\n",
			p.ID, p.Name, p.Quantity.String(), p.Unit, money(p.UnitPrice), money(p.ParLevel), track)
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printProduct(p *core.Product) {
	fmt.Printf("\nProduct #%d: %s\n", p.ID, p.Name)
	fmt.Printf("  Quantity : %s %s\n", p.Quantity, p.Unit)
	fmt.Printf("  Price    : %s\n", money(p.UnitPrice))
	fmt.Printf("  Par      : %s\n", money(p.ParLevel))
	fmt.Printf("  Category : %s\n", orDash(p.Category))
	fmt.Printf("  Trackable: %v   Composite: %v\n", p.Trackable, p.Composite)
}

func printStockOverview(result *app.StockOverviewResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Println("  STOCK OVERVIEW")
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-4s %-26s %10s %-5s %-9s %s\n", "ID", "NAME", "QTY", "UNIT", "STATUS", "SERVINGS")
	fmt.Println(strings.Repeat("-", 78))
	for _, e := range result.Entries {
		status := string(e.Status)
		if status == "" {
			status = "ok"
		}
		servings := "-"
		if e.ServingsAvailable != nil {
			servings = e.ServingsAvailable.String()
		}
		fmt.Printf("  %-4d %-26s %10s %-5s %-9s %s\n",
			e.Product.ID, e.Product.Name, e.Product.Quantity.String(), e.Product.Unit, status, servings)
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printReorder(result *app.ReorderResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Println("  REORDER SUGGESTIONS")
	fmt.Println(strings.Repeat("=", 78))
	if len(result.Groups) == 0 {
		fmt.Println("  Nothing to reorder.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	for _, g := range result.Groups {
		fmt.Printf("  %s  (estimated %s)\n", g.SupplierName, g.EstimatedCost.StringFixed(2))
		fmt.Printf("  %-26s %10s %10s %10s %8s\n", "PRODUCT", "QTY", "PAR", "ORDER", "% PAR")
		fmt.Println(strings.Repeat("-", 78))
		for _, s := range g.Suggestions {
			fmt.Printf("  %-26s %10s %10s %10s %7s%%\n",
				s.ProductName, s.Quantity.String(), s.ParLevel.String(),
				s.SuggestedQuantity.String(), s.PercentOfPar.StringFixed(1))
		}
		fmt.Println()
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printDishes(result *app.DishListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  DISHES")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  %-4s %-30s %10s %-7s %s\n", "ID", "NAME", "PRICE", "ACTIVE", "INGREDIENTS")
	fmt.Println(strings.Repeat("-", 70))
	for _, d := range result.Dishes {
		active := "yes"
		if !d.IsActive {
			active = "no"
		}
		fmt.Printf("  %-4d %-30s %10s %-7s %d\n",
			d.ID, d.Name, money(d.SellingPrice), active, len(d.Ingredients))
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printDish(d *core.Dish) {
	fmt.Printf("\nDish #%d: %s\n", d.ID, d.Name)
	fmt.Printf("  Price : %s   Active: %v\n", money(d.SellingPrice), d.IsActive)
	if d.Description != nil {
		fmt.Printf("  About : %s\n", *d.Description)
	}
	fmt.Println("  Recipe:")
	for _, ing := range d.Ingredients {
		fmt.Printf("    %d. %-26s %s %s\n", ing.Position, ing.ProductName,
			ing.QuantityRequired.String(), ing.Unit)
	}
}

func printCosting(c *core.DishCosting) {
	fmt.Printf("\n%s\n", c.DishName)
	fmt.Printf("  Cost          : %s\n", c.Cost.StringFixed(2))
	fmt.Printf("  Selling price : %s\n", money(c.SellingPrice))
	if !c.HasAllPrices {
		fmt.Println("  Margin        : unavailable (some ingredients have no price)")
		return
	}
	if c.Margin == nil {
		fmt.Println("  Margin        : -")
		return
	}
	fmt.Printf("  Margin        : %s%%\n", c.Margin.StringFixed(1))
}

func printCostings(result *app.CostingListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  DISH COSTING")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  %-30s %10s %10s %10s\n", "DISH", "COST", "PRICE", "MARGIN")
	fmt.Println(strings.Repeat("-", 70))
	for _, c := range result.Costings {
		margin := "-"
		if c.Margin != nil {
			margin = c.Margin.StringFixed(1) + "%"
		} else if !c.HasAllPrices {
			margin = "n/a"
		}
		fmt.Printf("  %-30s %10s %10s %10s\n",
			c.DishName, c.Cost.StringFixed(2), money(c.SellingPrice), margin)
	}
	fmt.Println(strings.Repeat("=", 70))
}

func describePricing(p core.MenuPricing) string {
	switch v := p.(type) {
	case core.PrixFixe:
		return fmt.Sprintf("prix fixe %s", v.Price.StringFixed(2))
	case core.Choice:
		return fmt.Sprintf("%d-%d courses for %s", v.MinCourses, v.MaxCourses, v.Price.StringFixed(2))
	}
	return "?"
}

func printMenus(result *app.MenuListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  MENUS")
	fmt.Println(strings.Repeat("=", 70))
	for _, m := range result.Menus {
		active := ""
		if m.IsActive {
			active = "  [active]"
		}
		fmt.Printf("  #%d %s — %s%s\n", m.ID, m.Name, describePricing(m.Pricing), active)
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printMenu(m *core.Menu) {
	fmt.Printf("\nMenu #%d: %s — %s\n", m.ID, m.Name, describePricing(m.Pricing))
	for _, sec := range m.Sections {
		fmt.Printf("  %s\n", sec.Name)
		for _, d := range sec.Dishes {
			fmt.Printf("    - %s\n", d.DishName)
		}
	}
}

func printSuppliers(result *app.SupplierListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  SUPPLIERS")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-4s %-24s %-20s %s\n", "ID", "NAME", "CONTACT", "PHONE")
	fmt.Println(strings.Repeat("-", 72))
	for _, v := range result.Suppliers {
		fmt.Printf("  %-4d %-24s %-20s %s\n", v.ID, v.Name, orDash(v.ContactPerson), orDash(v.Phone))
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printBills(result *app.BillListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  DELIVERY BILLS")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-4s %-12s %-22s %10s %-10s %s\n", "ID", "DATE", "SUPPLIER", "TOTAL", "STATUS", "LINES")
	fmt.Println(strings.Repeat("-", 72))
	for _, b := range result.Bills {
		fmt.Printf("  %-4d %-12s %-22s %10s %-10s %d\n",
			b.ID, b.BillDate, orDash(b.SupplierName), money(b.TotalAmount), b.Status, len(b.Lines))
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printBill(b *core.Bill) {
	fmt.Printf("\nBill #%d — %s — %s — %s\n", b.ID, b.BillDate, orDash(b.SupplierName), b.Status)
	fmt.Printf("  Total: %s\n", money(b.TotalAmount))
	for _, l := range b.Lines {
		fmt.Printf("  %2d. %-26s %8s %-5s @ %s\n",
			l.LineNumber, l.Name, l.Quantity.String(), l.Unit, money(l.UnitPrice))
	}
}

func printSales(result *app.SaleListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 64))
	fmt.Println("  SALES")
	fmt.Println(strings.Repeat("=", 64))
	fmt.Printf("  %-4s %-12s %10s %-10s %s\n", "ID", "DATE", "TOTAL", "STATUS", "LINES")
	fmt.Println(strings.Repeat("-", 64))
	for _, s := range result.Sales {
		fmt.Printf("  %-4d %-12s %10s %-10s %d\n",
			s.ID, s.SaleDate, money(s.TotalAmount), s.Status, len(s.Lines))
	}
	fmt.Println(strings.Repeat("=", 64))
}

func printSale(s *core.Sale) {
	fmt.Printf("\nSale #%d — %s — %s\n", s.ID, s.SaleDate, s.Status)
	fmt.Printf("  Total: %s\n", money(s.TotalAmount))
	for _, l := range s.Lines {
		fmt.Printf("  %2d. %-26s x%s @ %s\n",
			l.LineNumber, l.Name, l.Quantity.String(), money(l.UnitPrice))
	}
}

func printDisputes(result *app.DisputeListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println("  DISPUTES")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-4s %-6s %-10s %-12s %s\n", "ID", "BILL", "TYPE", "STATUS", "DESCRIPTION")
	fmt.Println(strings.Repeat("-", 72))
	for _, d := range result.Disputes {
		fmt.Printf("  %-4d %-6d %-10s %-12s %s\n",
			d.ID, d.BillID, d.Type, d.Status, orDash(d.Description))
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printFlowItem(f core.ReviewFlow) {
	item, err := f.CurrentItem()
	if err != nil {
		return
	}
	mark := " "
	if f.Confirmed[f.Current] {
		mark = "*"
	}
	fmt.Printf("\n[%d/%d]%s %s\n", f.Current+1, len(f.Items), mark, item.Name)
	fmt.Printf("  Quantity : %s %s\n", item.Quantity.String(), item.Unit)
	fmt.Printf("  Price    : %s   Total: %s\n", money(item.UnitPrice), money(item.TotalPrice))
}

func printFlowSummary(f core.ReviewFlow) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 64))
	fmt.Println("  REVIEW SUMMARY")
	if f.Header.SupplierName != "" {
		fmt.Printf("  Supplier : %s\n", f.Header.SupplierName)
	}
	if f.Header.Date != "" {
		fmt.Printf("  Date     : %s\n", f.Header.Date)
	}
	fmt.Printf("  Total    : %s\n", money(f.Header.TotalAmount))
	fmt.Println(strings.Repeat("-", 64))
	for i, item := range f.Items {
		mark := " "
		if f.Confirmed[i] {
			mark = "*"
		}
		fmt.Printf("  %s %-26s %8s %-5s @ %s\n",
			mark, item.Name, item.Quantity.String(), item.Unit, money(item.UnitPrice))
	}
	fmt.Println(strings.Repeat("=", 64))
}
