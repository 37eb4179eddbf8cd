package absence

import (
	"errors"
	"fmt"
)

// reason codes ที่ส่งกลับใน body {"reason": ...}
const (
	ReasonSessionNotUpcoming     = "SESSION_NOT_UPCOMING"
	ReasonDuplicateRequest       = "DUPLICATE_REQUEST"
	ReasonWithdrawnNotResolvable = "REQUEST_WITHDRAWN_NOT_RESOLVABLE"
	ReasonNotPending             = "REQUEST_NOT_PENDING"
	ReasonNotWithdrawn           = "REQUEST_NOT_WITHDRAWN"
	ReasonStaffOnly              = "STAFF_ONLY"
	ReasonParentOnly             = "PARENT_ONLY"
)

// ErrNotFound ใช้ทั้งกรณีไม่มีแถวจริง ๆ และกรณีข้าม tenant/ownership
// (ตอบ 404 เสมอ ไม่ตอบ 403 เพื่อไม่ยืนยันว่าแถวมีอยู่)
var ErrNotFound = errors.New("absence request not found")

type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Detail)
}

type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return "forbidden: " + e.Reason
}

// ConflictError = transition ที่ขอมาไม่ตรงกับสถานะปัจจุบันของแถว
// CurrentStatus บอกผู้เรียกว่าแพ้ race ให้ใคร (เช่น อีกคน approve ไปแล้ว)
type ConflictError struct {
	Reason        string
	CurrentStatus string
}

func (e *ConflictError) Error() string {
	if e.CurrentStatus != "" {
		return fmt.Sprintf("conflict: %s (current status %s)", e.Reason, e.CurrentStatus)
	}
	return "conflict: " + e.Reason
}
