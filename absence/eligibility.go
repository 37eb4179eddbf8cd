package absence

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lyc2760008/EduHub-sub006/models"
)

// checkEligibility ไล่เช็กตามลำดับ หยุดทันทีที่เจอเหตุผลไม่ผ่าน:
//  1. parent ต้องมี guardian link กับนักเรียนใน tenant นี้ → ไม่มีตอบ NotFound
//     (ไม่ตอบ Forbidden เพื่อไม่ยืนยันว่านักเรียนมีตัวตนให้ parent ที่ไม่เกี่ยว)
//  2. session ต้องอยู่ใน tenant และมีนักเรียนคนนี้ใน roster → NotFound
//  3. เวลาเริ่ม session ต้องอยู่ในอนาคตแบบ strict → Forbidden SESSION_NOT_UPCOMING
func (s *Service) checkEligibility(tx *gorm.DB, act Actor, studentID, sessionID uint) (*models.Session, error) {
	var link models.GuardianLink
	err := tx.Where("tenant_id = ? AND parent_id = ? AND student_id = ?",
		act.TenantID, act.UserID, studentID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sess models.Session
	err = tx.Where("id = ? AND tenant_id = ?", sessionID, act.TenantID).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var onRoster int64
	err = tx.Model(&models.SessionRoster{}).
		Where("tenant_id = ? AND session_id = ? AND student_id = ?",
			act.TenantID, sessionID, studentID).Count(&onRoster).Error
	if err != nil {
		return nil, err
	}
	if onRoster == 0 {
		return nil, ErrNotFound
	}

	if !sess.StartsAt.After(s.now()) {
		return nil, &ForbiddenError{Reason: ReasonSessionNotUpcoming}
	}
	return &sess, nil
}
