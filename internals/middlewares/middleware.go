// file: internals/middlewares/middleware.go
package middlewares

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares wires the base middleware chain.
func SetupMiddlewares(app *fiber.App) {
	log.Println("[INFO] setting up base middlewares...")
	app.Use(Recovery())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
