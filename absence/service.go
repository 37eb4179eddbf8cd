package absence

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lyc2760008/EduHub-sub006/audit"
	"github.com/lyc2760008/EduHub-sub006/models"
)

// Service คุม transition ทั้งหมดของ AbsenceRequest
// ทุก mutation เป็น conditional update คำสั่งเดียว (WHERE เช็กสถานะเดิม)
// แล้วค่อย re-read เพื่อแยกเหตุผลตอนอัปเดตไม่โดนแถว — ไม่ใช้ read-modify-write
type Service struct {
	db  *gorm.DB
	aud *audit.Emitter
	now func() time.Time
}

func NewService(db *gorm.DB, aud *audit.Emitter) *Service {
	return &Service{db: db, aud: aud, now: time.Now}
}

// SetClock ใช้ในเทสต์เท่านั้น
func (s *Service) SetClock(now func() time.Time) { s.now = now }

type CreateInput struct {
	SessionID  uint
	StudentID  uint
	ReasonCode string
	Message    string
}

const maxMessageLen = 500

func validateReason(reasonCode, message string) error {
	if strings.TrimSpace(reasonCode) == "" {
		return &ValidationError{Field: "reason_code", Detail: "required"}
	}
	if len(reasonCode) > 40 {
		return &ValidationError{Field: "reason_code", Detail: "too long"}
	}
	if len(message) > maxMessageLen {
		return &ValidationError{Field: "message", Detail: "exceeds 500 characters"}
	}
	return nil
}

func requireParent(act Actor) error {
	switch act.Role {
	case RoleParent:
		return nil
	case RoleOwner, RoleAdmin, RoleTutor:
		return &ForbiddenError{Reason: ReasonParentOnly}
	}
	return &ForbiddenError{Reason: ReasonParentOnly}
}

func requireStaff(act Actor) error {
	switch act.Role {
	case RoleOwner, RoleAdmin, RoleTutor:
		return nil
	case RoleParent:
		return &ForbiddenError{Reason: ReasonStaffOnly}
	}
	return &ForbiddenError{Reason: ReasonStaffOnly}
}

// Create — parent ยื่นคำขอลาให้ลูกสำหรับ session ที่ยังไม่เริ่ม
func (s *Service) Create(act Actor, in CreateInput) (*models.AbsenceRequest, error) {
	if err := requireParent(act); err != nil {
		return nil, err
	}
	if err := validateReason(in.ReasonCode, in.Message); err != nil {
		return nil, err
	}

	var row models.AbsenceRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.checkEligibility(tx, act, in.StudentID, in.SessionID); err != nil {
			return err
		}

		// duplicate check ก่อน insert เพื่อตอบ status ปัจจุบันให้ผู้เรียกได้
		// (unique index เป็นตัวกันจริงตอน insert ชนกันพอดี)
		var existing models.AbsenceRequest
		err := tx.Where("tenant_id = ? AND session_id = ? AND student_id = ?",
			act.TenantID, in.SessionID, in.StudentID).First(&existing).Error
		if err == nil {
			return &ConflictError{Reason: ReasonDuplicateRequest, CurrentStatus: existing.Status}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		row = models.AbsenceRequest{
			TenantID:   act.TenantID,
			ParentID:   act.UserID,
			StudentID:  in.StudentID,
			SessionID:  in.SessionID,
			Status:     models.AbsencePending,
			ReasonCode: strings.TrimSpace(in.ReasonCode),
			Message:    in.Message,
		}
		if err := tx.Create(&row).Error; err != nil {
			if isDuplicateKey(err) {
				return &ConflictError{Reason: ReasonDuplicateRequest}
			}
			return err
		}

		return s.aud.Emit(tx, audit.Entry{
			TenantID:      act.TenantID,
			ActorType:     audit.ActorParent,
			ActorID:       act.UserID,
			Action:        "absence.create",
			EntityType:    audit.EntityAbsenceRequest,
			EntityID:      row.ID,
			SessionID:     row.SessionID,
			StudentID:     row.StudentID,
			ToStatus:      models.AbsencePending,
			ReasonCode:    row.ReasonCode,
			MessageLength: len(row.Message),
		})
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Resolve — staff ตัดสินคำขอ PENDING เป็น APPROVED/DECLINED
// สองคนกดพร้อมกันจะชนะได้คนเดียว: conditional update สำเร็จครั้งเดียว
// คนแพ้ได้ Conflict พร้อมสถานะที่คนชนะเขียนไว้
func (s *Service) Resolve(act Actor, requestID uint, decision string, resolvingUserID uint) (*models.AbsenceRequest, error) {
	if err := requireStaff(act); err != nil {
		return nil, err
	}
	if decision != models.AbsenceApproved && decision != models.AbsenceDeclined {
		return nil, &ValidationError{Field: "status", Detail: "must be APPROVED or DECLINED"}
	}

	var row models.AbsenceRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := s.now()
		res := tx.Model(&models.AbsenceRequest{}).
			Where("id = ? AND tenant_id = ? AND status = ?", requestID, act.TenantID, models.AbsencePending).
			Updates(map[string]any{
				"status":              decision,
				"resolved_at":         now,
				"resolved_by_user_id": resolvingUserID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.classifyMiss(tx, act.TenantID, requestID, missResolve)
		}

		if err := tx.First(&row, "id = ? AND tenant_id = ?", requestID, act.TenantID).Error; err != nil {
			return err
		}
		return s.aud.Emit(tx, audit.Entry{
			TenantID:      act.TenantID,
			ActorType:     audit.ActorStaff,
			ActorID:       resolvingUserID,
			Action:        "absence.resolve",
			EntityType:    audit.EntityAbsenceRequest,
			EntityID:      row.ID,
			SessionID:     row.SessionID,
			StudentID:     row.StudentID,
			FromStatus:    models.AbsencePending,
			ToStatus:      decision,
			ReasonCode:    row.ReasonCode,
			MessageLength: len(row.Message),
		})
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Withdraw — parent เจ้าของคำขอถอนคำขอที่ยัง PENDING ก่อน session เริ่ม
func (s *Service) Withdraw(act Actor, requestID uint) (*models.AbsenceRequest, error) {
	if err := requireParent(act); err != nil {
		return nil, err
	}

	var row models.AbsenceRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// scope ด้วย parent_id ด้วย — คำขอของคนอื่นเท่ากับไม่มีอยู่
		var cur models.AbsenceRequest
		if err := tx.Where("id = ? AND tenant_id = ? AND parent_id = ?",
			requestID, act.TenantID, act.UserID).First(&cur).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// session เริ่มไปแล้วถอนไม่ได้ (เช็กใหม่ตรงนี้ ไม่เชื่อค่าตอน create)
		var sess models.Session
		if err := tx.Where("id = ? AND tenant_id = ?", cur.SessionID, act.TenantID).First(&sess).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !sess.StartsAt.After(s.now()) {
			return &ForbiddenError{Reason: ReasonSessionNotUpcoming}
		}

		now := s.now()
		res := tx.Model(&models.AbsenceRequest{}).
			Where("id = ? AND tenant_id = ? AND parent_id = ? AND status = ?",
				requestID, act.TenantID, act.UserID, models.AbsencePending).
			Updates(map[string]any{
				"status":       models.AbsenceWithdrawn,
				"withdrawn_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.classifyOwnedMiss(tx, act, requestID, missWithdraw)
		}

		if err := tx.First(&row, "id = ? AND tenant_id = ?", requestID, act.TenantID).Error; err != nil {
			return err
		}
		return s.aud.Emit(tx, audit.Entry{
			TenantID:      act.TenantID,
			ActorType:     audit.ActorParent,
			ActorID:       act.UserID,
			Action:        "absence.withdraw",
			EntityType:    audit.EntityAbsenceRequest,
			EntityID:      row.ID,
			SessionID:     row.SessionID,
			StudentID:     row.StudentID,
			FromStatus:    models.AbsencePending,
			ToStatus:      models.AbsenceWithdrawn,
			ReasonCode:    row.ReasonCode,
			MessageLength: len(row.Message),
		})
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Resubmit — เปิดคำขอ WITHDRAWN กลับมาเป็น PENDING บนแถวเดิม (id เดิม)
// reason/message เขียนทับ; resolved_at/resolved_by ไม่แตะ (ยัง null โดยโครงสร้าง)
func (s *Service) Resubmit(act Actor, requestID uint, reasonCode, message string) (*models.AbsenceRequest, error) {
	if err := requireParent(act); err != nil {
		return nil, err
	}
	if err := validateReason(reasonCode, message); err != nil {
		return nil, err
	}

	var row models.AbsenceRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		now := s.now()
		res := tx.Model(&models.AbsenceRequest{}).
			Where("id = ? AND tenant_id = ? AND parent_id = ? AND status = ?",
				requestID, act.TenantID, act.UserID, models.AbsenceWithdrawn).
			Updates(map[string]any{
				"status":         models.AbsencePending,
				"resubmitted_at": now,
				"reason_code":    strings.TrimSpace(reasonCode),
				"message":        message,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.classifyOwnedMiss(tx, act, requestID, missResubmit)
		}

		if err := tx.First(&row, "id = ? AND tenant_id = ?", requestID, act.TenantID).Error; err != nil {
			return err
		}
		return s.aud.Emit(tx, audit.Entry{
			TenantID:      act.TenantID,
			ActorType:     audit.ActorParent,
			ActorID:       act.UserID,
			Action:        "absence.resubmit",
			EntityType:    audit.EntityAbsenceRequest,
			EntityID:      row.ID,
			SessionID:     row.SessionID,
			StudentID:     row.StudentID,
			FromStatus:    models.AbsenceWithdrawn,
			ToStatus:      models.AbsencePending,
			ReasonCode:    row.ReasonCode,
			MessageLength: len(row.Message),
		})
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Get — อ่านคำขอเดี่ยว; parent เห็นเฉพาะของตัวเอง, staff เห็นทั้ง tenant
func (s *Service) Get(act Actor, requestID uint) (*models.AbsenceRequest, error) {
	q := s.db.Where("id = ? AND tenant_id = ?", requestID, act.TenantID)
	if act.Role == RoleParent {
		q = q.Where("parent_id = ?", act.UserID)
	}
	var row models.AbsenceRequest
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

/* ===== zero-row classification ===== */

type missKind int

const (
	missResolve missKind = iota
	missWithdraw
	missResubmit
)

// conditional update ไม่โดนแถว → อ่านซ้ำเพื่อบอกเหตุผลที่แม่นยำ
func (s *Service) classifyMiss(tx *gorm.DB, tenantID, requestID uint, kind missKind) error {
	var cur models.AbsenceRequest
	if err := tx.First(&cur, "id = ? AND tenant_id = ?", requestID, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return missConflict(cur.Status, kind)
}

func (s *Service) classifyOwnedMiss(tx *gorm.DB, act Actor, requestID uint, kind missKind) error {
	var cur models.AbsenceRequest
	if err := tx.Where("id = ? AND tenant_id = ? AND parent_id = ?",
		requestID, act.TenantID, act.UserID).First(&cur).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return missConflict(cur.Status, kind)
}

func missConflict(current string, kind missKind) error {
	switch kind {
	case missResolve:
		if current == models.AbsenceWithdrawn {
			// คำขอที่ parent ถอนแล้วเป็นของ parent — staff ห้ามตัดสินเด็ดขาด
			return &ConflictError{Reason: ReasonWithdrawnNotResolvable, CurrentStatus: current}
		}
		return &ConflictError{Reason: ReasonNotPending, CurrentStatus: current}
	case missWithdraw:
		return &ConflictError{Reason: ReasonNotPending, CurrentStatus: current}
	case missResubmit:
		return &ConflictError{Reason: ReasonNotWithdrawn, CurrentStatus: current}
	}
	return &ConflictError{CurrentStatus: current}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// postgres: "duplicate key value violates unique constraint"
	// sqlite (เทสต์): "UNIQUE constraint failed"
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
