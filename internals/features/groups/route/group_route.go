// file: internals/features/groups/route/group_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/groups/controller"
	"classmanager_backend/internals/middlewares/auth"
)

// GroupRoutes mounts group management. Reads are class-member level, writes
// are teacher-only.
func GroupRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewGroupController(db, v)

	groups := api.Group("/groups", auth.AuthMiddleware(db), auth.LoadMembership(db))
	groups.Get("/", ctl.List)
	groups.Get("/:id", ctl.Get)

	teacher := groups.Group("", auth.OnlyTeacher())
	teacher.Post("/", ctl.Create)
	teacher.Put("/:id", ctl.Update)
	teacher.Delete("/:id", ctl.Delete)
}
