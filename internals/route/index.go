// file: internals/route/index.go
package route

import (
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	academicRoute "classmanager_backend/internals/features/academics/route"
	classRoute "classmanager_backend/internals/features/classes/route"
	fileRoute "classmanager_backend/internals/features/files/route"
	groupRoute "classmanager_backend/internals/features/groups/route"
	homeworkRoute "classmanager_backend/internals/features/homework/route"
	messageRoute "classmanager_backend/internals/features/messages/route"
	userRoute "classmanager_backend/internals/features/users/route"
	helper "classmanager_backend/internals/helpers"
)

// SetupRoutes mounts every feature under /api.
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client) {
	v := helper.NewValidator()
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return helper.Success(c, "ok", nil)
	})

	userRoute.UserRoutes(api, db, v)
	academicRoute.AcademicRoutes(api, db)
	classRoute.ClassRoutes(api, db, rdb, v)
	groupRoute.GroupRoutes(api, db, v)
	homeworkRoute.HomeworkRoutes(api, db, v)
	messageRoute.MessageRoutes(api, db)
	fileRoute.FileRoutes(api, db, v)
}
