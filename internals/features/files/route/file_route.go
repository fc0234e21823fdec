// file: internals/features/files/route/file_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/files/controller"
	"classmanager_backend/internals/middlewares/auth"
)

// FileRoutes mounts the attachment registry.
func FileRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	ctl := controller.NewFileController(db, v)

	files := api.Group("/files", auth.AuthMiddleware(db))
	files.Post("/", ctl.Register)
	files.Get("/:id", ctl.Get)
}
