// file: internals/features/academics/route/academic_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/academics/controller"
)

// AcademicRoutes mounts the public reference-data lookups the join form
// needs before authentication.
func AcademicRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewAcademicController(db)

	academics := api.Group("/academics")
	academics.Get("/subjects", ctl.Subjects)
	academics.Get("/family-relations", ctl.FamilyRelations)
	academics.Get("/study-stages", ctl.StudyStages)
}
