package models

import "time"

// GuardianLink ผูก parent ↔ student ภายใน tenant เดียวกัน
// parent ที่ไม่มี link จะมองไม่เห็นนักเรียนคนนั้นเลย (คืน 404 ไม่ใช่ 403)
type GuardianLink struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_links_tenant_parent_student"`
	ParentID  uint      `json:"parent_id" gorm:"not null;uniqueIndex:uq_links_tenant_parent_student"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:uq_links_tenant_parent_student"`
	Relation  string    `json:"relation" gorm:"size:30"` // บิดา/มารดา/ผู้ปกครอง
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
