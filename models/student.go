package models

import "time"

type Student struct {
	ID        uint       `gorm:"primaryKey"                                        json:"id"`
	TenantID  uint       `gorm:"not null;uniqueIndex:uq_students_tenant_code"      json:"tenant_id"`
	Code      string     `gorm:"size:20;not null;uniqueIndex:uq_students_tenant_code" json:"code"` // รหัสนักเรียนภายในศูนย์
	FirstName string     `gorm:"size:50;not null"  json:"first_name"`
	LastName  string     `gorm:"size:50;not null"  json:"last_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	School    string     `gorm:"size:120"          json:"school"` // โรงเรียนต้นสังกัด (optional)
	Level     string     `gorm:"size:30;not null"  json:"level"`  // เช่น "ป.6", "ม.3"
	Phone     string     `gorm:"size:15"           json:"phone"`
	Status    string     `gorm:"size:20;not null"  json:"status"` // active|inactive
	Note      string     `gorm:"type:text"         json:"note"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
