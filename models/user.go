package models

import "time"

// User = บัญชีพนักงานของศูนย์ (owner/admin/tutor) — ผู้ปกครองแยกตาราง parents
type User struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	TenantID            uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_users_tenant_username"`
	Username            string    `json:"username" gorm:"size:60;not null;uniqueIndex:uq_users_tenant_username"`
	Password            string    `json:"-" gorm:"not null"`            // bcrypt hash
	Role                string    `json:"role" gorm:"size:20;not null"` // "owner" | "admin" | "tutor"
	Name                string    `json:"name" gorm:"size:120"`
	TutorID             *uint     `json:"tutor_id,omitempty" gorm:"index"` // FK -> tutors.id (เฉพาะ role=tutor)
	Enabled             bool      `json:"enabled" gorm:"not null;default:true"`
	ForcePasswordChange bool      `json:"force_password_change" gorm:"not null;default:false"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
