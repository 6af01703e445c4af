package app

// ProductRequest is the input for creating or updating a product. Numeric
// fields are strings so adapters can pass user input through unparsed; empty
// means absent.
type ProductRequest struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	Unit      string `json:"unit"`
	UnitPrice string `json:"unit_price"`
	ParLevel  string `json:"par_level"`
	Category  string `json:"category"`
	Trackable bool   `json:"trackable"`
	Composite bool   `json:"composite"`
}

// SyncCountRequest is one counted line of the inventory re-sync flow.
type SyncCountRequest struct {
	ProductID int    `json:"product_id"`
	Counted   string `json:"counted"`
}

// IngredientRequest is one recipe line within a DishRequest.
type IngredientRequest struct {
	ProductID        int    `json:"product_id"`
	QuantityRequired string `json:"quantity_required"`
	Unit             string `json:"unit"`
}

// DishRequest is the input for creating or updating a dish with its recipe.
type DishRequest struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	SellingPrice string              `json:"selling_price"`
	IsActive     bool                `json:"is_active"`
	Ingredients  []IngredientRequest `json:"ingredients"`
}

// MenuSectionRequest is one ordered section with its dish placements.
type MenuSectionRequest struct {
	Name    string `json:"name"`
	DishIDs []int  `json:"dish_ids"`
}

// MenuRequest is the input for creating or updating a menu. PricingType
// selects the variant: PRIX_FIXE uses Price alone, CHOICE additionally uses
// the course bounds.
type MenuRequest struct {
	Name        string               `json:"name"`
	PricingType string               `json:"pricing_type"`
	Price       string               `json:"price"`
	MinCourses  int                  `json:"min_courses"`
	MaxCourses  int                  `json:"max_courses"`
	IsActive    bool                 `json:"is_active"`
	Sections    []MenuSectionRequest `json:"sections"`
}

// SupplierRequest is the input for creating or updating a supplier.
type SupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// LineRequest is one reviewed document line in a confirm payload.
type LineRequest struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	Unit       string `json:"unit"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

// ReceptionRequest is the confirm payload of the reception flow.
type ReceptionRequest struct {
	SupplierName string        `json:"supplier_name"`
	BillDate     string        `json:"bill_date"` // YYYY-MM-DD, empty means today
	TotalAmount  string        `json:"total_amount"`
	Lines        []LineRequest `json:"lines"`
}

// SaleRequest is the confirm payload of the sales flow.
type SaleRequest struct {
	SaleDate    string        `json:"sale_date"` // YYYY-MM-DD, empty means today
	TotalAmount string        `json:"total_amount"`
	Lines       []LineRequest `json:"lines"`
}

// DisputeRequest is the input for opening a dispute against a bill.
type DisputeRequest struct {
	BillID      int    `json:"bill_id"`
	Type        string `json:"type"` // RETURN, COMPLAINT, REFUND
	Description string `json:"description"`
	ProductIDs  []int  `json:"product_ids"`
}
