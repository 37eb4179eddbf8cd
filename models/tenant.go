package models

import "time"

// Tenant คือศูนย์ติว 1 แห่ง (1 slug ต่อศูนย์) — ทุกตารางอื่นอ้าง tenant_id
type Tenant struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Slug      string    `json:"slug" gorm:"uniqueIndex;size:60;not null"`
	Name      string    `json:"name" gorm:"size:120;not null"`
	Phone     string    `json:"phone" gorm:"size:20"`
	Address   string    `json:"address" gorm:"type:text"`
	Status    string    `json:"status" gorm:"size:20;not null;default:'active'"` // active|suspended
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
