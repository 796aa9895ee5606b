package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetAllProducts() ([]Product, error) {
	var products []Product
	if err := r.db.
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetLatest returns the most recently added products, newest first.
func (r *ProductsRepository) GetLatest(limit int) ([]Product, error) {
	var products []Product
	if err := r.db.
		Preload("Category").
		Order("id DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) GetByID(id uint) (*Product, error) {
	var product Product
	if err := r.db.
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	return &product, nil
}

func (r *ProductsRepository) GetByCategory(categoryID uint) ([]Product, error) {
	var products []Product
	if err := r.db.
		Where("category_id = ?", categoryID).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetByMaxRate returns products whose unit rate does not exceed max.
func (r *ProductsRepository) GetByMaxRate(max decimal.Decimal) ([]Product, error) {
	var products []Product
	if err := r.db.
		Where("rate <= ?", max).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetManufacturedSince returns products manufactured on or after the given date.
func (r *ProductsRepository) GetManufacturedSince(since time.Time) ([]Product, error) {
	var products []Product
	if err := r.db.
		Where("manufacture_date >= ?", since).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductsRepository) CreateProduct(p *Product) error {
	return r.db.Create(p).Error
}

func (r *ProductsRepository) UpdateProduct(p *Product) error {
	return r.db.Save(p).Error
}

func (r *ProductsRepository) DeleteProduct(id uint) error {
	return r.db.Delete(&Product{}, id).Error
}
