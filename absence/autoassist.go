package absence

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lyc2760008/EduHub-sub006/models"
)

// RequestBanner — สิ่งเดียวจากคำขอลาที่โผล่ในหน้าเช็กชื่อ
// ตั้งใจไม่มี message: เนื้อหา free text ไม่ไปหน้า attendance เด็ดขาด
type RequestBanner struct {
	RequestID uint   `json:"request_id"`
	Status    string `json:"status"`
}

type RosterEntry struct {
	StudentID   uint   `json:"student_id"`
	StudentCode string `json:"student_code"`
	StudentName string `json:"student_name"`

	// ค่าที่เคยกดบันทึกจริง ("" = ยังไม่เช็กชื่อ)
	MarkedStatus string `json:"marked_status"`
	MarkedNote   string `json:"marked_note,omitempty"`

	// banner + ค่า suggest — อยู่ใน response เท่านั้น ไม่เคยเขียนลง DB ที่นี่
	Request         *RequestBanner `json:"absence_request,omitempty"`
	SuggestedStatus string         `json:"suggested_status,omitempty"`
}

type AssistView struct {
	SessionID uint          `json:"session_id"`
	Subject   string        `json:"subject"`
	StartsAt  string        `json:"starts_at"`
	Entries   []RosterEntry `json:"entries"`
}

// AttendanceAssist — projection ฝั่งอ่านล้วนตอน staff เปิดหน้าเช็กชื่อ
// ต่อ roster student:
//   - ไม่มีคำขอ หรือ WITHDRAWN → ไม่มี banner (คำขอที่ถอนแล้วถือว่าไม่เคยมี)
//   - PENDING / DECLINED → banner อย่างเดียว ไม่แตะ selector
//   - APPROVED → banner + suggest "EXCUSED" เฉพาะตอนยังไม่มีค่าที่บันทึกจริง
//     (ค่าที่ staff เคยบันทึกชนะ suggest เสมอ)
func (s *Service) AttendanceAssist(act Actor, sessionID uint) (*AssistView, error) {
	if err := requireStaff(act); err != nil {
		return nil, err
	}

	var sess models.Session
	err := s.db.Where("id = ? AND tenant_id = ?", sessionID, act.TenantID).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	type rosterRow struct {
		StudentID uint
		Code      string
		FirstName string
		LastName  string
	}
	var roster []rosterRow
	err = s.db.Table("session_rosters AS r").
		Select("r.student_id, s.code, s.first_name, s.last_name").
		Joins("JOIN students s ON s.id = r.student_id").
		Where("r.tenant_id = ? AND r.session_id = ?", act.TenantID, sessionID).
		Order("s.code ASC").
		Scan(&roster).Error
	if err != nil {
		return nil, err
	}

	var marks []models.Attendance
	err = s.db.Where("tenant_id = ? AND session_id = ?", act.TenantID, sessionID).Find(&marks).Error
	if err != nil {
		return nil, err
	}
	markByStudent := make(map[uint]models.Attendance, len(marks))
	for _, m := range marks {
		markByStudent[m.StudentID] = m
	}

	var reqs []models.AbsenceRequest
	err = s.db.Where("tenant_id = ? AND session_id = ?", act.TenantID, sessionID).Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	reqByStudent := make(map[uint]models.AbsenceRequest, len(reqs))
	for _, r := range reqs {
		reqByStudent[r.StudentID] = r
	}

	view := &AssistView{
		SessionID: sess.ID,
		Subject:   sess.Subject,
		StartsAt:  sess.StartsAt.Format("2006-01-02 15:04"),
		Entries:   make([]RosterEntry, 0, len(roster)),
	}
	for _, r := range roster {
		entry := RosterEntry{
			StudentID:   r.StudentID,
			StudentCode: r.Code,
			StudentName: r.FirstName + " " + r.LastName,
		}
		if m, ok := markByStudent[r.StudentID]; ok {
			entry.MarkedStatus = m.Status
			entry.MarkedNote = m.Note
		}
		if q, ok := reqByStudent[r.StudentID]; ok && q.Status != models.AbsenceWithdrawn {
			entry.Request = &RequestBanner{RequestID: q.ID, Status: q.Status}
			if q.Status == models.AbsenceApproved && entry.MarkedStatus == "" {
				entry.SuggestedStatus = models.AttendanceExcused
			}
		}
		view.Entries = append(view.Entries, entry)
	}
	return view, nil
}
