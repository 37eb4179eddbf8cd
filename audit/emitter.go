package audit

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lyc2760008/EduHub-sub006/models"
)

const (
	ActorStaff  = "STAFF"
	ActorParent = "PARENT"

	EntityAbsenceRequest = "absence_request"
	EntityAttendance     = "attendance"
)

// Entry — ข้อมูลต่อ 1 transition; ตั้งใจไม่มีช่อง message
// ผู้เรียกส่งได้แค่ MessageLength เพื่อกัน free text หลุดเข้า audit trail
type Entry struct {
	TenantID      uint
	ActorType     string
	ActorID       uint
	Action        string
	EntityType    string
	EntityID      uint
	SessionID     uint
	StudentID     uint
	FromStatus    string
	ToStatus      string
	ReasonCode    string
	MessageLength int
}

type Emitter struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Emitter { return &Emitter{db: db} }

// Emit เขียน 1 แถวลง audit_logs — ส่ง tx เข้ามาเพื่อให้ commit พร้อม transition
// (tx เป็น nil ได้ จะใช้ connection หลักแทน)
func (e *Emitter) Emit(tx *gorm.DB, entry Entry) error {
	db := tx
	if db == nil {
		db = e.db
	}
	row := models.AuditLog{
		EventID:       uuid.New(),
		TenantID:      entry.TenantID,
		ActorType:     entry.ActorType,
		ActorID:       entry.ActorID,
		Action:        entry.Action,
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		SessionID:     entry.SessionID,
		StudentID:     entry.StudentID,
		FromStatus:    entry.FromStatus,
		ToStatus:      entry.ToStatus,
		ReasonCode:    entry.ReasonCode,
		MessageLength: entry.MessageLength,
	}
	return db.Create(&row).Error
}
