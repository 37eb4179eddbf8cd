package models

import "time"

type Parent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_parents_tenant_email"`
	Email     string    `json:"email" gorm:"size:120;not null;uniqueIndex:uq_parents_tenant_email"`
	Phone     string    `json:"phone" gorm:"size:20"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash
	PdpaOK    bool      `json:"pdpa_ok" gorm:"not null;default:false"`
	Name      string    `json:"name" gorm:"size:120"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
