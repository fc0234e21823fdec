// file: internals/features/homework/route/homework_route.go
package route

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/homework/controller"
	"classmanager_backend/internals/middlewares/auth"
)

// HomeworkRoutes mounts the homework lifecycle: publishing and grading for
// teachers, submission and reading for students.
func HomeworkRoutes(api fiber.Router, db *gorm.DB, v *validator.Validate) {
	hwCtl := controller.NewHomeworkController(db, v)
	ansCtl := controller.NewAnswerController(db, v)

	hw := api.Group("/homework", auth.AuthMiddleware(db), auth.LoadMembership(db))

	hw.Get("/:id/thread", hwCtl.Thread)

	teacher := hw.Group("", auth.OnlyTeacher())
	teacher.Post("/", hwCtl.Assign)
	teacher.Put("/", hwCtl.Update)
	teacher.Delete("/:id", hwCtl.Delete)
	teacher.Get("/published", hwCtl.TeacherList)
	teacher.Get("/targets", hwCtl.Targets)
	teacher.Get("/:id/board", hwCtl.Board)
	teacher.Post("/answers/check", ansCtl.Check)
	teacher.Post("/answers/evaluate", ansCtl.Evaluate)

	student := hw.Group("", auth.OnlyStudent())
	student.Get("/assigned", hwCtl.StudentList)
	student.Post("/answers", ansCtl.Commit)

	hw.Get("/:id", hwCtl.Detail)
}
