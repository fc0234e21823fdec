// file: internals/features/homework/controller/homework_controller.go
package controller

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/constants"
	"classmanager_backend/internals/features/homework/dto"
	"classmanager_backend/internals/features/homework/service"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/middlewares/auth"
	"classmanager_backend/internals/resperr"
)

// HomeworkController exposes homework publishing and the read projections.
type HomeworkController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Assigns  *service.AssignService
	Queries  *service.QueryService
}

func NewHomeworkController(db *gorm.DB, v *validator.Validate) *HomeworkController {
	return &HomeworkController{
		DB:       db,
		Validate: v,
		Assigns:  service.NewAssignService(db),
		Queries:  service.NewQueryService(db),
	}
}

// Targets handles GET /homework/targets, teacher-guarded. ?date= narrows the
// publish day (defaults to today).
func (ctl *HomeworkController) Targets(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return helper.BizError(c, resperr.InvalidParams)
		}
		day = parsed
	}
	targets, err := ctl.Assigns.AvailableTargets(auth.UserIDFromCtx(c), day)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "assignable classes", targets)
}

// Assign handles POST /homework, teacher-guarded.
func (ctl *HomeworkController) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	userID := auth.UserIDFromCtx(c)
	homework, err := ctl.Assigns.Assign(userID, service.AssignInput{
		Title:       req.Title,
		Desc:        req.Desc,
		PubTime:     req.PubTime,
		EndTime:     req.EndTime,
		Attachments: req.Attachments,
		Targets:     req.Targets,
	})
	if err != nil {
		log.Printf("[HOMEWORK] assign rejected publisher=%s: %v", userID, err)
		return helper.BizError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "homework published", homework)
}

// Update handles PUT /homework, teacher-guarded.
func (ctl *HomeworkController) Update(c *fiber.Ctx) error {
	var req dto.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	err := ctl.Assigns.Update(auth.UserIDFromCtx(c), req.HomeworkID, service.UpdateInput{
		Title:       req.Title,
		Desc:        req.Desc,
		PubTime:     req.PubTime,
		EndTime:     req.EndTime,
		Attachments: req.Attachments,
	})
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "homework updated", nil)
}

// Delete handles DELETE /homework/:id, teacher-guarded.
func (ctl *HomeworkController) Delete(c *fiber.Ctx) error {
	homeworkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	if err := ctl.Assigns.Delete(auth.UserIDFromCtx(c), homeworkID); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "homework deleted", nil)
}

// TeacherList handles GET /homework/published, teacher-guarded.
func (ctl *HomeworkController) TeacherList(c *fiber.Ctx) error {
	member := auth.MembershipFromCtx(c)
	paging := helper.ResolvePaging(c, 10, 50)
	items, total, err := ctl.Queries.TeacherHomeworkList(member.UserID, member.ClassID, paging)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "published homework", fiber.Map{
		"items":      items,
		"pagination": helper.BuildPagination(paging, total, len(items)),
	})
}

// StudentList handles GET /homework/assigned, student-guarded.
func (ctl *HomeworkController) StudentList(c *fiber.Ctx) error {
	member := auth.MembershipFromCtx(c)
	paging := helper.ResolvePaging(c, 10, 50)
	items, total, err := ctl.Queries.StudentHomeworkList(member.ClassID, member.Name, paging)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "assigned homework", fiber.Map{
		"items":      items,
		"pagination": helper.BuildPagination(paging, total, len(items)),
	})
}

// Detail handles GET /homework/:id, class-member-guarded. Students may only
// read homework inside their scope.
func (ctl *HomeworkController) Detail(c *fiber.Ctx) error {
	homeworkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	member := auth.MembershipFromCtx(c)
	if member.Role == constants.RoleStudent {
		ok, err := ctl.Queries.InScope(homeworkID, member.ClassID, member.Name)
		if err != nil {
			return helper.BizError(c, err)
		}
		if !ok {
			return helper.BizError(c, resperr.AuthorizationDenied)
		}
	}
	detail, err := ctl.Queries.Detail(homeworkID)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "homework detail", detail)
}

// Board handles GET /homework/:id/board, teacher-guarded.
func (ctl *HomeworkController) Board(c *fiber.Ctx) error {
	homeworkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	member := auth.MembershipFromCtx(c)
	rows, err := ctl.Queries.Board(member.UserID, homeworkID, member.ClassID)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "grading board", rows)
}

// Thread handles GET /homework/:id/thread. Students read their own thread;
// teachers pass ?student= to read any.
func (ctl *HomeworkController) Thread(c *fiber.Ctx) error {
	homeworkID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	member := auth.MembershipFromCtx(c)

	studentName := member.Name
	if constants.IsTeachingRole(member.Role) {
		studentName = c.Query("student")
		if studentName == "" {
			return helper.BizError(c, resperr.MissingParams)
		}
	}
	thread, err := ctl.Queries.Thread(homeworkID, member.ClassID, studentName)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "answer thread", thread)
}
