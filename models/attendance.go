package models

import "time"

// ค่าที่บันทึกได้ในใบเช็กชื่อ — "" (ยังไม่เช็ก) ไม่เก็บเป็นแถว
const (
	AttendancePresent = "PRESENT"
	AttendanceLate    = "LATE"
	AttendanceAbsent  = "ABSENT"
	AttendanceExcused = "EXCUSED"
)

// Attendance — ผลเช็กชื่อที่ staff กดบันทึกแล้วเท่านั้น
// ค่า suggest จาก absence request ไม่เคยถูกเขียนลงตารางนี้เอง
type Attendance struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	TenantID       uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_att_tenant_session_student"`
	SessionID      uint      `json:"session_id" gorm:"not null;uniqueIndex:uq_att_tenant_session_student"`
	StudentID      uint      `json:"student_id" gorm:"not null;uniqueIndex:uq_att_tenant_session_student"`
	Status         string    `json:"status" gorm:"size:20;not null"`
	Note           string    `json:"note" gorm:"type:text"`
	MarkedByUserID uint      `json:"marked_by_user_id" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
