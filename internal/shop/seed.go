package shop

import "context"

// SeedIfEmpty populates a starter catalog when no categories exist yet, so a
// fresh deployment has something to browse.
func (s *sqlStore) SeedIfEmpty(ctx context.Context) error {
	var n int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM product_category`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	seed := []struct {
		category Category
		products []Product
	}{
		{
			category: Category{Name: "Electronics", Description: "Phones, accessories and gadgets"},
			products: []Product{
				{Name: "Wireless Earbuds", Description: "Bluetooth 5.3, 24h battery", Price: 350000, Available: true},
				{Name: "Power Bank 20000mAh", Description: "Fast charging, dual USB", Price: 280000, Available: true},
				{Name: "Smart Watch", Description: "Heart rate and sleep tracking", Price: 650000, Available: true},
			},
		},
		{
			category: Category{Name: "Clothing", Description: "Everyday wear"},
			products: []Product{
				{Name: "Cotton T-Shirt", Description: "100% cotton, sizes S-XXL", Price: 120000, Available: true},
				{Name: "Hoodie", Description: "Fleece-lined, unisex", Price: 320000, Available: true},
			},
		},
		{
			category: Category{Name: "Home & Kitchen", Description: "Household essentials"},
			products: []Product{
				{Name: "Electric Kettle 1.7L", Description: "Auto shut-off, stainless steel", Price: 240000, Available: true},
				{Name: "Thermos 1L", Description: "Keeps drinks hot for 12 hours", Price: 180000, Available: true},
			},
		},
	}

	for _, group := range seed {
		var catID int64
		if s.dialect == "postgres" {
			if err := s.queryRow(ctx, `INSERT INTO product_category(name, description)
				VALUES(?, ?) RETURNING id`, group.category.Name, group.category.Description).Scan(&catID); err != nil {
				return err
			}
		} else {
			res, err := s.exec(ctx, `INSERT INTO product_category(name, description) VALUES(?, ?)`,
				group.category.Name, group.category.Description)
			if err != nil {
				return err
			}
			if catID, err = res.LastInsertId(); err != nil {
				return err
			}
		}
		for _, p := range group.products {
			p.CategoryID = catID
			if _, err := s.CreateProduct(ctx, p); err != nil {
				return err
			}
		}
	}
	return nil
}
