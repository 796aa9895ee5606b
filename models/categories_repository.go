package models

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

// ErrCategoryNotFound is returned when a category is not found.
var ErrCategoryNotFound = errors.New("category not found")

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{
		db: db,
	}
}

func (r *CategoriesRepository) GetAllCategories() ([]Category, error) {
	var categories []Category
	if err := r.db.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) GetByID(id uint) (*Category, error) {
	var category Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err // Other DB error
	}
	return &category, nil
}

// FindByName returns the first category whose name contains the term,
// case-insensitively. LOWER() keeps the match portable across SQLite
// and Postgres.
func (r *CategoriesRepository) FindByName(term string) (*Category, error) {
	var category Category
	pattern := "%" + strings.ToLower(term) + "%"
	if err := r.db.
		Where("LOWER(name) LIKE ?", pattern).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoriesRepository) CreateCategory(category *Category) error {
	return r.db.Create(category).Error
}

func (r *CategoriesRepository) UpdateCategory(category *Category) error {
	return r.db.Save(category).Error
}

// DeleteCategory removes the category row only. Products referencing it
// keep their category_id; there is no cascade.
func (r *CategoriesRepository) DeleteCategory(id uint) error {
	return r.db.Delete(&Category{}, id).Error
}
