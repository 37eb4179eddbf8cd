package models

import "time"

// สถานะของ AbsenceRequest — ห้ามเขียนค่าอื่นนอกกราฟนี้
//
//	(none) --create--> PENDING
//	PENDING --resolve--> APPROVED | DECLINED   (terminal)
//	PENDING --withdraw--> WITHDRAWN
//	WITHDRAWN --resubmit--> PENDING
const (
	AbsencePending   = "PENDING"
	AbsenceApproved  = "APPROVED"
	AbsenceDeclined  = "DECLINED"
	AbsenceWithdrawn = "WITHDRAWN"
)

// AbsenceRequest — คำขอลาของนักเรียน 1 คนต่อ 1 session
// มีได้แถวเดียวต่อ (tenant, session, student); รอบ withdraw→resubmit ใช้แถวเดิม
type AbsenceRequest struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	TenantID   uint   `json:"tenant_id" gorm:"not null;uniqueIndex:uq_absence_tenant_session_student;index"`
	ParentID   uint   `json:"parent_id" gorm:"not null;index"`
	StudentID  uint   `json:"student_id" gorm:"not null;uniqueIndex:uq_absence_tenant_session_student"`
	SessionID  uint   `json:"session_id" gorm:"not null;uniqueIndex:uq_absence_tenant_session_student"`
	Status     string `json:"status" gorm:"size:20;not null"`
	ReasonCode string `json:"reason_code" gorm:"size:40;not null"` // SICK/FAMILY/TRAVEL/OTHER
	Message    string `json:"message" gorm:"size:500"`             // free text — ห้ามหลุดไป audit/attendance view

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// set พร้อมกันครั้งเดียวตอน resolve แล้วไม่ล้างอีก
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResolvedByUserID *uint      `json:"resolved_by_user_id,omitempty"`

	WithdrawnAt   *time.Time `json:"withdrawn_at,omitempty"`
	ResubmittedAt *time.Time `json:"resubmitted_at,omitempty"`
}
