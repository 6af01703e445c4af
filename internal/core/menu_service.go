package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// MenuService manages menus, their sections, and dish placements.
type MenuService interface {
	// CreateMenu inserts the menu with its sections and placements in one
	// transaction. The pricing variant is validated before anything is written.
	CreateMenu(ctx context.Context, input MenuInput) (*Menu, error)
	// UpdateMenu replaces the menu header and its whole section tree.
	UpdateMenu(ctx context.Context, menuID int, input MenuInput) (*Menu, error)
	GetMenu(ctx context.Context, menuID int) (*Menu, error)
	ListMenus(ctx context.Context) ([]Menu, error)
	DeleteMenu(ctx context.Context, menuID int) error
}

type menuService struct {
	pool *pgxpool.Pool
}

// NewMenuService constructs a MenuService backed by PostgreSQL.
func NewMenuService(pool *pgxpool.Pool) MenuService {
	return &menuService{pool: pool}
}

func validateMenuInput(input MenuInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("menu name is required")
	}
	if input.Pricing == nil {
		return fmt.Errorf("menu pricing is required")
	}
	if err := input.Pricing.Validate(); err != nil {
		return err
	}
	for i, sec := range input.Sections {
		if strings.TrimSpace(sec.Name) == "" {
			return fmt.Errorf("section %d: name is required", i+1)
		}
	}
	return nil
}

// pricingColumns flattens the union for storage: the tag plus the variant's
// own fields, others NULL.
func pricingColumns(p MenuPricing) (pricingType PricingType, fixedPrice *decimal.Decimal, minCourses, maxCourses *int) {
	switch v := p.(type) {
	case PrixFixe:
		price := v.Price
		return PricingPrixFixe, &price, nil, nil
	case Choice:
		price := v.Price
		minC, maxC := v.MinCourses, v.MaxCourses
		return PricingChoice, &price, &minC, &maxC
	}
	return "", nil, nil, nil
}

func pricingFromColumns(pricingType PricingType, fixedPrice *decimal.Decimal, minCourses, maxCourses *int) (MenuPricing, error) {
	price := decimal.Zero
	if fixedPrice != nil {
		price = *fixedPrice
	}
	switch pricingType {
	case PricingPrixFixe:
		return PrixFixe{Price: price}, nil
	case PricingChoice:
		if minCourses == nil || maxCourses == nil {
			return nil, fmt.Errorf("choice menu row missing course bounds")
		}
		return Choice{MinCourses: *minCourses, MaxCourses: *maxCourses, Price: price}, nil
	}
	return nil, fmt.Errorf("unknown pricing type %q", pricingType)
}

func (s *menuService) CreateMenu(ctx context.Context, input MenuInput) (*Menu, error) {
	if err := validateMenuInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	pricingType, fixedPrice, minCourses, maxCourses := pricingColumns(input.Pricing)
	var menuID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO menus (name, pricing_type, fixed_price, min_courses, max_courses, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		strings.TrimSpace(input.Name), pricingType, fixedPrice, minCourses, maxCourses, input.IsActive,
	).Scan(&menuID); err != nil {
		return nil, fmt.Errorf("insert menu %q: %w", input.Name, err)
	}

	if err := insertSections(ctx, tx, menuID, input.Sections); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit menu: %w", err)
	}
	return s.GetMenu(ctx, menuID)
}

func (s *menuService) UpdateMenu(ctx context.Context, menuID int, input MenuInput) (*Menu, error) {
	if err := validateMenuInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	pricingType, fixedPrice, minCourses, maxCourses := pricingColumns(input.Pricing)
	tag, err := tx.Exec(ctx, `
		UPDATE menus
		SET name = $1, pricing_type = $2, fixed_price = $3, min_courses = $4,
		    max_courses = $5, is_active = $6
		WHERE id = $7`,
		strings.TrimSpace(input.Name), pricingType, fixedPrice, minCourses,
		maxCourses, input.IsActive, menuID,
	)
	if err != nil {
		return nil, fmt.Errorf("update menu %d: %w", menuID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("menu %d %w", menuID, ErrNotFound)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM menu_sections WHERE menu_id = $1", menuID); err != nil {
		return nil, fmt.Errorf("clear sections for menu %d: %w", menuID, err)
	}
	if err := insertSections(ctx, tx, menuID, input.Sections); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit menu update: %w", err)
	}
	return s.GetMenu(ctx, menuID)
}

func insertSections(ctx context.Context, tx pgx.Tx, menuID int, sections []MenuSectionInput) error {
	for i, sec := range sections {
		var sectionID int
		if err := tx.QueryRow(ctx, `
			INSERT INTO menu_sections (menu_id, name, position)
			VALUES ($1, $2, $3)
			RETURNING id`,
			menuID, strings.TrimSpace(sec.Name), i+1,
		).Scan(&sectionID); err != nil {
			return fmt.Errorf("insert section %d for menu %d: %w", i+1, menuID, err)
		}
		for j, dishID := range sec.DishIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO menu_dishes (section_id, dish_id, position)
				VALUES ($1, $2, $3)`,
				sectionID, dishID, j+1,
			); err != nil {
				return fmt.Errorf("place dish %d in section %q: %w", dishID, sec.Name, err)
			}
		}
	}
	return nil
}

func (s *menuService) GetMenu(ctx context.Context, menuID int) (*Menu, error) {
	m := &Menu{}
	var pricingType PricingType
	var fixedPrice *decimal.Decimal
	var minCourses, maxCourses *int
	if err := s.pool.QueryRow(ctx, `
		SELECT id, name, pricing_type, fixed_price, min_courses, max_courses, is_active, created_at
		FROM menus WHERE id = $1`, menuID,
	).Scan(&m.ID, &m.Name, &pricingType, &fixedPrice, &minCourses, &maxCourses,
		&m.IsActive, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("menu %d %w", menuID, ErrNotFound)
		}
		return nil, fmt.Errorf("get menu %d: %w", menuID, err)
	}

	pricing, err := pricingFromColumns(pricingType, fixedPrice, minCourses, maxCourses)
	if err != nil {
		return nil, fmt.Errorf("menu %d: %w", menuID, err)
	}
	m.Pricing = pricing

	sections, err := s.fetchSections(ctx, menuID)
	if err != nil {
		return nil, err
	}
	m.Sections = sections
	return m, nil
}

func (s *menuService) fetchSections(ctx context.Context, menuID int) ([]MenuSection, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, menu_id, name, position
		FROM menu_sections
		WHERE menu_id = $1
		ORDER BY position`, menuID)
	if err != nil {
		return nil, fmt.Errorf("fetch sections for menu %d: %w", menuID, err)
	}
	defer rows.Close()

	var sections []MenuSection
	for rows.Next() {
		var sec MenuSection
		if err := rows.Scan(&sec.ID, &sec.MenuID, &sec.Name, &sec.Position); err != nil {
			return nil, fmt.Errorf("scan menu section: %w", err)
		}
		sections = append(sections, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sections {
		dishes, err := s.fetchSectionDishes(ctx, sections[i].ID)
		if err != nil {
			return nil, err
		}
		sections[i].Dishes = dishes
	}
	return sections, nil
}

func (s *menuService) fetchSectionDishes(ctx context.Context, sectionID int) ([]MenuDish, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT md.id, md.section_id, md.dish_id, d.name, md.position
		FROM menu_dishes md
		JOIN dishes d ON d.id = md.dish_id
		WHERE md.section_id = $1
		ORDER BY md.position`, sectionID)
	if err != nil {
		return nil, fmt.Errorf("fetch dishes for section %d: %w", sectionID, err)
	}
	defer rows.Close()

	var dishes []MenuDish
	for rows.Next() {
		var md MenuDish
		if err := rows.Scan(&md.ID, &md.SectionID, &md.DishID, &md.DishName, &md.Position); err != nil {
			return nil, fmt.Errorf("scan menu dish: %w", err)
		}
		dishes = append(dishes, md)
	}
	return dishes, rows.Err()
}

func (s *menuService) ListMenus(ctx context.Context) ([]Menu, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM menus ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list menus: %w", err)
	}
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan menu id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var menus []Menu
	for _, id := range ids {
		m, err := s.GetMenu(ctx, id)
		if err != nil {
			return nil, err
		}
		menus = append(menus, *m)
	}
	return menus, nil
}

func (s *menuService) DeleteMenu(ctx context.Context, menuID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM menus WHERE id = $1", menuID)
	if err != nil {
		return fmt.Errorf("delete menu %d: %w", menuID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("menu %d %w", menuID, ErrNotFound)
	}
	return nil
}
