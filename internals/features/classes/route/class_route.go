// file: internals/features/classes/route/class_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/classes/controller"
	"classmanager_backend/internals/middlewares"
	"classmanager_backend/internals/middlewares/auth"
)

// ClassRoutes mounts the join workflow and roster management.
func ClassRoutes(api fiber.Router, db *gorm.DB, rdb *redis.Client, v *validator.Validate) {
	joinCtl := controller.NewJoinController(db, rdb, v)
	memberCtl := controller.NewMemberController(db, v)

	classes := api.Group("/classes")

	// public: what an invite link needs before any login
	classes.Get("/invitation/:code", memberCtl.Invitation)

	authed := classes.Group("", auth.AuthMiddleware(db))
	authed.Get("/code/:code", joinCtl.ValidateClassCode)
	authed.Get("/code-by-phone", memberCtl.ClassCodeByPhone)
	authed.Get("/applications", memberCtl.MyApplications)

	join := authed.Group("/join", middlewares.JoinRateLimiter())
	join.Post("/teacher", joinCtl.TeacherJoin)
	join.Post("/student", joinCtl.StudentJoin)
	join.Post("/resubmit", joinCtl.Resubmit)

	member := authed.Group("", auth.LoadMembership(db))
	member.Get("/members", memberCtl.Roster)
	member.Get("/members/students", memberCtl.StudentNames)
	member.Get("/members/family/:name", memberCtl.FamilyMembers)
	member.Put("/members", memberCtl.Update)
	member.Delete("/members/:id", memberCtl.Delete)

	teacher := member.Group("", auth.OnlyTeacher())
	teacher.Post("/join/review", joinCtl.Review)
	teacher.Get("/join-requests", memberCtl.JoinRequests)

	head := member.Group("", auth.OnlyHeadteacher())
	head.Put("/audit", memberCtl.ToggleAudit)
}
