package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/lyc2760008/EduHub-sub006/absence"
	"github.com/lyc2760008/EduHub-sub006/audit"
	"github.com/lyc2760008/EduHub-sub006/config"
	"github.com/lyc2760008/EduHub-sub006/database"
	"github.com/lyc2760008/EduHub-sub006/handlers"
	"github.com/lyc2760008/EduHub-sub006/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Services =====
	emitter := audit.New(database.DB)
	absenceSvc := absence.NewService(database.DB, emitter)

	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	std := handlers.NewStudentHandler()
	ttr := handlers.NewTutorHandler()
	ses := handlers.NewSessionHandler()
	gl := handlers.NewGuardianLinkHandler()
	ar := handlers.NewAbsenceRequestHandler(absenceSvc)
	att := handlers.NewAttendanceHandler(absenceSvc)
	acc := handlers.NewStaffAccountHandler()
	prof := handlers.NewStaffProfileHandler()
	dash := handlers.NewDashboardHandler()
	pp := handlers.NewParentPortalHandler()

	e.GET("/health", handlers.Health)

	// ===== Public Auth =====
	e.POST("/auth/parents/register", auth.ParentRegister)
	e.GET("/auth/check-email", auth.CheckEmail)
	e.POST("/auth/parent/login", auth.ParentLogin)
	e.POST("/auth/staff/login", auth.StaffLogin)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Admin routes (owner/admin) =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole("owner", "admin"))

	admin.GET("/students", std.List)
	admin.POST("/students", std.Create)
	admin.POST("/students/import", std.Import)
	admin.PUT("/students/:id", std.Update)
	admin.DELETE("/students/:id", std.Delete)

	admin.GET("/tutors", ttr.List)
	admin.POST("/tutors", ttr.Create)
	admin.PUT("/tutors/:id", ttr.Update)
	admin.DELETE("/tutors/:id", ttr.Delete)

	admin.POST("/sessions", ses.Create)
	admin.PUT("/sessions/:id", ses.Update)
	admin.DELETE("/sessions/:id", ses.Delete)
	admin.POST("/sessions/:id/roster", ses.AddToRoster)
	admin.DELETE("/sessions/:id/roster/:studentId", ses.RemoveFromRoster)

	admin.GET("/guardian-links", gl.List)
	admin.POST("/guardian-links", gl.Create)
	admin.DELETE("/guardian-links/:id", gl.Delete)

	admin.GET("/staff-accounts", acc.List)
	admin.POST("/staff-accounts", acc.Create)
	admin.POST("/staff-accounts/:id/reset", acc.ResetPassword)
	admin.PATCH("/staff-accounts/:id", acc.Patch)

	// ===== Staff routes (owner/admin/tutor) =====
	staff := e.Group("/staff", authMW, middlewares.RequireStaff())

	staff.GET("/profile", prof.Me)
	staff.PUT("/profile/password", prof.ChangePassword)

	staff.GET("/dashboard/daily", dash.Daily)
	staff.GET("/dashboard/summary", dash.Summary)

	staff.GET("/students", std.List)
	staff.GET("/students/:id", std.Get)
	staff.GET("/tutors", ttr.List)

	staff.GET("/sessions", ses.List)
	staff.GET("/sessions/:id", ses.Get)
	staff.GET("/sessions/:id/roster", ses.Roster)

	// หน้าเช็กชื่อ: อ่าน projection / บันทึกผลที่กด submit จริง
	staff.GET("/sessions/:id/attendance", att.SessionView)
	staff.POST("/sessions/:id/attendance", att.Submit)
	staff.GET("/attendance", att.List)

	// คำขอลา (ฝั่งตรวจ/ตัดสิน)
	staff.GET("/absence-requests", ar.List)
	staff.GET("/absence-requests/pending-count", ar.PendingCount)
	staff.GET("/absence-requests/:id", ar.Get)
	staff.POST("/absence-requests/:id/resolve", ar.Resolve)

	// ===== Parent routes =====
	parent := e.Group("/parent", authMW, middlewares.RequireRole("parent"))
	parent.GET("/children", pp.Children)
	parent.GET("/children/:studentId/sessions", pp.ChildSessions)

	parent.GET("/absence-requests", ar.ListOwn)
	parent.POST("/absence-requests", ar.Create)
	parent.POST("/absence-requests/:id/withdraw", ar.Withdraw)
	parent.POST("/absence-requests/:id/resubmit", ar.Resubmit)
}
