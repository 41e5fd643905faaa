// Package catalog loads indexable products from MySQL.
package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/styleme-cloud/stylesearch/internal/domain"
)

// Repo reads the product catalog via GORM.
type Repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// productRow mirrors the column set the index needs. Category comes from the
// join, everything else straight from products.
type productRow struct {
	ID            int64   `gorm:"column:id"`
	Name          string  `gorm:"column:name"`
	Description   string  `gorm:"column:description"`
	Brand         string  `gorm:"column:brand"`
	Color         string  `gorm:"column:color"`
	Size          string  `gorm:"column:size"`
	Occasion      string  `gorm:"column:occasion"`
	Gender        string  `gorm:"column:gender"`
	Price         float64 `gorm:"column:price"`
	DiscountPrice float64 `gorm:"column:discount_price"`
	CategoryName  string  `gorm:"column:category_name"`
}

// LoadCatalog returns all in-stock products ordered by id. Out-of-stock
// products never enter the index.
func (r *Repo) LoadCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	var rows []productRow

	err := r.db.WithContext(ctx).
		Table("products AS p").
		Select("p.id, p.name, p.description, p.brand, p.color, p.size, "+
			"p.occasion, p.gender, p.price, p.discount_price, c.name AS category_name").
		Joins("LEFT JOIN categories c ON p.category_id = c.id").
		Where("p.stock > ?", 0).
		Order("p.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.CatalogItem{
			ID:            row.ID,
			Name:          row.Name,
			Description:   row.Description,
			Category:      row.CategoryName,
			Brand:         row.Brand,
			Color:         row.Color,
			Size:          row.Size,
			Occasion:      row.Occasion,
			Gender:        row.Gender,
			Price:         row.Price,
			DiscountPrice: row.DiscountPrice,
		})
	}

	return items, nil
}
