package models

import "time"

type Tutor struct {
	ID        uint      `gorm:"primaryKey"       json:"id"`
	TenantID  uint      `gorm:"not null;index"   json:"tenant_id"`
	Prefix    string    `gorm:"size:20"          json:"prefix"`
	FirstName string    `gorm:"size:50;not null" json:"first_name"`
	LastName  string    `gorm:"size:50;not null" json:"last_name"`
	Subjects  string    `gorm:"size:200"         json:"subjects"` // วิชาที่สอน คั่นด้วย comma
	Phone     string    `gorm:"size:15"          json:"phone"`
	Email     string    `gorm:"size:120"         json:"email"`
	Status    string    `gorm:"size:20;not null" json:"status"` // active|inactive
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
