package absence

// Role เป็นเซ็ตปิด — switch ให้ครบทุกค่าเสมอ อย่าเทียบ string ดิบ
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleTutor  Role = "tutor"
	RoleParent Role = "parent"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleTutor, RoleParent:
		return true
	}
	return false
}

func (r Role) IsStaff() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleTutor:
		return true
	case RoleParent:
		return false
	}
	return false
}

// Actor — ตัวตนผู้เรียกแบบ explicit ส่งเข้าทุก operation
// (ไม่อ่าน session state ลอย ๆ จาก global)
type Actor struct {
	TenantID uint
	UserID   uint
	Role     Role
}
