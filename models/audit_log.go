package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog — 1 แถวต่อ 1 transition; เก็บ message_length แทนเนื้อหา message
type AuditLog struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	EventID       uuid.UUID `json:"event_id" gorm:"type:uuid;uniqueIndex;not null"`
	TenantID      uint      `json:"tenant_id" gorm:"not null;index"`
	ActorType     string    `json:"actor_type" gorm:"size:10;not null"` // STAFF|PARENT
	ActorID       uint      `json:"actor_id" gorm:"not null"`
	Action        string    `json:"action" gorm:"size:40;not null"` // absence.create / absence.resolve / ...
	EntityType    string    `json:"entity_type" gorm:"size:30;not null"`
	EntityID      uint      `json:"entity_id" gorm:"not null;index"`
	SessionID     uint      `json:"session_id"`
	StudentID     uint      `json:"student_id"`
	FromStatus    string    `json:"from_status" gorm:"size:20"`
	ToStatus      string    `json:"to_status" gorm:"size:20"`
	ReasonCode    string    `json:"reason_code" gorm:"size:40"`
	MessageLength int       `json:"message_length"`
	CreatedAt     time.Time `json:"created_at"`
}
