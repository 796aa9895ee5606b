package models

// Category represents a product category.
// It owns zero or more products; deleting a category does not touch them.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (c *Category) TableName() string {
	return "categories"
}
