package model

import "time"

// Customer represents a CRM customer record owned by a single user.
// Email is unique per owner via the composite index; the same address may
// exist under different owners.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   uint      `json:"ownerId" gorm:"not null;uniqueIndex:idx_owner_email;index"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null"`
	Email     string    `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_owner_email"`
	Phone     string    `json:"phone" gorm:"type:varchar(30)"`
	Company   string    `json:"company" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"createdAt"`
}
