package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"resto-backoffice/internal/core"
)

func TestMenuPricing_Validate(t *testing.T) {
	tests := []struct {
		name      string
		pricing   core.MenuPricing
		expectErr bool
	}{
		{"prix fixe", core.PrixFixe{Price: dec("35")}, false},
		{"prix fixe free", core.PrixFixe{Price: dec("0")}, false},
		{"prix fixe negative", core.PrixFixe{Price: dec("-1")}, true},
		{"choice", core.Choice{MinCourses: 2, MaxCourses: 3, Price: dec("28")}, false},
		{"choice single course", core.Choice{MinCourses: 1, MaxCourses: 1, Price: dec("15")}, false},
		{"choice zero min", core.Choice{MinCourses: 0, MaxCourses: 3, Price: dec("28")}, true},
		{"choice max below min", core.Choice{MinCourses: 3, MaxCourses: 2, Price: dec("28")}, true},
		{"choice negative price", core.Choice{MinCourses: 1, MaxCourses: 2, Price: dec("-5")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pricing.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMenu_JSONRoundTrip(t *testing.T) {
	menus := []core.Menu{
		{
			ID:        1,
			Name:      "Menu du midi",
			Pricing:   core.PrixFixe{Price: dec("19.5")},
			IsActive:  true,
			CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:        2,
			Name:      "Menu du soir",
			Pricing:   core.Choice{MinCourses: 2, MaxCourses: 3, Price: dec("35")},
			IsActive:  true,
			CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, m := range menus {
		t.Run(m.Name, func(t *testing.T) {
			data, err := json.Marshal(m)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}

			var back core.Menu
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back.Pricing == nil {
				t.Fatal("pricing lost in round trip")
			}
			if back.Pricing.PricingType() != m.Pricing.PricingType() {
				t.Errorf("pricing type %q became %q",
					m.Pricing.PricingType(), back.Pricing.PricingType())
			}
			if c, ok := m.Pricing.(core.Choice); ok {
				got := back.Pricing.(core.Choice)
				if got.MinCourses != c.MinCourses || got.MaxCourses != c.MaxCourses {
					t.Errorf("course bounds %d-%d became %d-%d",
						c.MinCourses, c.MaxCourses, got.MinCourses, got.MaxCourses)
				}
			}
		})
	}
}

func TestMenu_JSONCarriesOnlyOneVariant(t *testing.T) {
	m := core.Menu{ID: 1, Name: "Lunch", Pricing: core.PrixFixe{Price: dec("19.5")}}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal wire shape: %v", err)
	}
	if _, ok := wire["prix_fixe"]; !ok {
		t.Error("expected prix_fixe field on the wire")
	}
	if _, ok := wire["choice"]; ok {
		t.Error("choice field must be absent for a prix fixe menu")
	}
}

func TestMenu_UnmarshalRejectsBadUnions(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"unknown tag", `{"name":"x","pricing_type":"HAPPY_HOUR"}`},
		{"tag without fields", `{"name":"x","pricing_type":"CHOICE"}`},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var m core.Menu
			if err := json.Unmarshal([]byte(tt.data), &m); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
