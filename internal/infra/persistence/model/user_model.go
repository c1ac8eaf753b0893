// Package model contains the GORM persistence models.
package model

import (
	"time"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
// The password column is nullable: accounts whose password is intentionally
// not stored keep NULL there and can never authenticate locally.
type UserModel struct {
	ID        string  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Username  string  `gorm:"type:varchar(50);unique;not null"`
	Email     string  `gorm:"type:varchar(255);unique;not null"`
	Name      string  `gorm:"type:varchar(100)"`
	Password  *string `gorm:"type:varchar(255)"`
	Admin     string  `gorm:"type:varchar(10)"` // Historical free-text flag ("yes"/"no"/"y"/"1").
	CreatedAt time.Time
	UpdatedAt time.Time

	Properties []UserPropertyModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// UserPropertyModel mirrors the 'user_properties' table. A user may hold
// several rows under the same property name.
type UserPropertyModel struct {
	ID     string `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID string `gorm:"type:uuid;index;not null"`
	Name   string `gorm:"type:varchar(100);not null"`
	Value  string `gorm:"type:text"`
}

// TableName explicitly sets the table name for GORM.
func (UserPropertyModel) TableName() string {
	return "user_properties"
}
