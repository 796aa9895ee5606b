package models

// CartItem is the persistent user/product/quantity join table carried over
// from the original schema. The live cart is session-scoped; no handler
// reads or writes this table.
type CartItem struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint
	ProductID uint
	Quantity  int
}

func (c *CartItem) TableName() string {
	return "cart_items"
}
