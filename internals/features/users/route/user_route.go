// file: internals/features/users/route/user_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/users/controller"
	"classmanager_backend/internals/middlewares/auth"
)

// UserRoutes mounts identity endpoints. Login is public; the rest require a
// valid token.
func UserRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewUserController(db, v)

	api.Post("/auth/login", ctl.Login)

	me := api.Group("/users/me", auth.AuthMiddleware(db))
	me.Get("/", ctl.Profile)
	me.Put("/", ctl.UpdateProfile)
	me.Get("/classes", ctl.MyClasses)
	me.Put("/current-class", ctl.SwitchClass)
}
