package models

// Role values stored on a User record.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a login identity.
// Passwords are stored as bcrypt hashes; users are created by the seed
// path only and never mutated by a handler.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
}

func (u *User) TableName() string {
	return "users"
}
