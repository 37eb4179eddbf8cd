package models

import "time"

// Session = คาบติว 1 ครั้ง (มีเวลาเริ่ม-จบ) พร้อม roster ว่านัดนักเรียนคนไหนบ้าง
type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"not null;index"`
	TutorID   uint      `json:"tutor_id" gorm:"not null;index"`
	Subject   string    `json:"subject" gorm:"size:80;not null"`
	Room      string    `json:"room" gorm:"size:30"`
	StartsAt  time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt    time.Time `json:"ends_at" gorm:"not null"`
	Status    string    `json:"status" gorm:"size:20;not null;default:'scheduled'"` // scheduled|cancelled|done
	Note      string    `json:"note" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionRoster — นักเรียน 1 คนต่อ 1 แถวต่อ session
type SessionRoster struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_roster_tenant_session_student"`
	SessionID uint      `json:"session_id" gorm:"not null;uniqueIndex:uq_roster_tenant_session_student"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:uq_roster_tenant_session_student"`
	CreatedAt time.Time `json:"created_at"`
}
