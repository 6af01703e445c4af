package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PricingType tags the two menu pricing variants.
type PricingType string

const (
	PricingPrixFixe PricingType = "PRIX_FIXE"
	PricingChoice   PricingType = "CHOICE"
)

// MenuPricing is a closed union: PrixFixe or Choice. Each variant carries
// only the fields it needs instead of one record with always-optional fields.
type MenuPricing interface {
	PricingType() PricingType
	Validate() error
}

// PrixFixe is a single fixed price covering the whole menu.
// Nothing enforces that the price covers ingredient cost; margin can be negative.
type PrixFixe struct {
	Price decimal.Decimal `json:"price"`
}

func (PrixFixe) PricingType() PricingType { return PricingPrixFixe }

func (p PrixFixe) Validate() error {
	if p.Price.IsNegative() {
		return fmt.Errorf("prix fixe price cannot be negative")
	}
	return nil
}

// Choice is a fixed price for a bounded number of courses picked by the guest.
type Choice struct {
	MinCourses int             `json:"min_courses"`
	MaxCourses int             `json:"max_courses"`
	Price      decimal.Decimal `json:"price"`
}

func (Choice) PricingType() PricingType { return PricingChoice }

func (c Choice) Validate() error {
	if c.MinCourses <= 0 {
		return fmt.Errorf("choice menu must allow at least one course")
	}
	if c.MaxCourses < c.MinCourses {
		return fmt.Errorf("choice menu max courses %d below min %d", c.MaxCourses, c.MinCourses)
	}
	if c.Price.IsNegative() {
		return fmt.Errorf("choice menu price cannot be negative")
	}
	return nil
}

// Menu owns an ordered list of sections.
type Menu struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Pricing   MenuPricing   `json:"-"`
	IsActive  bool          `json:"is_active"`
	Sections  []MenuSection `json:"sections"`
	CreatedAt time.Time     `json:"created_at"`
}

// MenuSection owns an ordered list of dish placements.
type MenuSection struct {
	ID       int        `json:"id"`
	MenuID   int        `json:"menu_id"`
	Name     string     `json:"name"`
	Position int        `json:"position"`
	Dishes   []MenuDish `json:"dishes"`
}

// MenuDish places a dish in a section.
type MenuDish struct {
	ID        int    `json:"id"`
	SectionID int    `json:"section_id"`
	DishID    int    `json:"dish_id"`
	DishName  string `json:"dish_name"`
	Position  int    `json:"position"`
}

// menuJSON is the wire shape; the pricing union flattens to a tagged object.
type menuJSON struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	PricingType PricingType   `json:"pricing_type"`
	PrixFixe    *PrixFixe     `json:"prix_fixe,omitempty"`
	Choice      *Choice       `json:"choice,omitempty"`
	IsActive    bool          `json:"is_active"`
	Sections    []MenuSection `json:"sections"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (m Menu) MarshalJSON() ([]byte, error) {
	out := menuJSON{
		ID:        m.ID,
		Name:      m.Name,
		IsActive:  m.IsActive,
		Sections:  m.Sections,
		CreatedAt: m.CreatedAt,
	}
	switch p := m.Pricing.(type) {
	case PrixFixe:
		out.PricingType = PricingPrixFixe
		out.PrixFixe = &p
	case Choice:
		out.PricingType = PricingChoice
		out.Choice = &p
	}
	return json.Marshal(out)
}

func (m *Menu) UnmarshalJSON(data []byte) error {
	var in menuJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.ID = in.ID
	m.Name = in.Name
	m.IsActive = in.IsActive
	m.Sections = in.Sections
	m.CreatedAt = in.CreatedAt
	switch in.PricingType {
	case PricingPrixFixe:
		if in.PrixFixe == nil {
			return fmt.Errorf("menu %q: prix_fixe pricing missing its fields", in.Name)
		}
		m.Pricing = *in.PrixFixe
	case PricingChoice:
		if in.Choice == nil {
			return fmt.Errorf("menu %q: choice pricing missing its fields", in.Name)
		}
		m.Pricing = *in.Choice
	default:
		return fmt.Errorf("menu %q: unknown pricing type %q", in.Name, in.PricingType)
	}
	return nil
}

// MenuInput holds the fields required to create or update a menu.
type MenuInput struct {
	Name     string
	Pricing  MenuPricing
	IsActive bool
	Sections []MenuSectionInput
}

// MenuSectionInput is one section with its dish placements, in order.
type MenuSectionInput struct {
	Name    string
	DishIDs []int
}
