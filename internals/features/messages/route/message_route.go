// file: internals/features/messages/route/message_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/messages/controller"
	"classmanager_backend/internals/middlewares/auth"
)

// MessageRoutes mounts the student notification feed.
func MessageRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewMessageController(db)

	messages := api.Group("/messages",
		auth.AuthMiddleware(db), auth.LoadMembership(db), auth.OnlyStudent())
	messages.Get("/", ctl.List)
	messages.Delete("/:id", ctl.Dismiss)
}
