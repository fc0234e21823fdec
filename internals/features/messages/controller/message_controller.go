// file: internals/features/messages/controller/message_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/features/messages/service"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/middlewares/auth"
	"classmanager_backend/internals/resperr"
)

type MessageController struct {
	DB    *gorm.DB
	Inbox *service.InboxService
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{
		DB:    db,
		Inbox: service.NewInboxService(db),
	}
}

// List handles GET /messages?category=, student-guarded.
func (ctl *MessageController) List(c *fiber.Ctx) error {
	member := auth.MembershipFromCtx(c)
	paging := helper.ResolvePaging(c, 20, 100)
	items, total, err := ctl.Inbox.List(member.ClassID, member.Name, c.Query("category"), paging)
	if err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "messages", fiber.Map{
		"items":      items,
		"pagination": helper.BuildPagination(paging, total, len(items)),
	})
}

// Dismiss handles DELETE /messages/:id, student-guarded.
func (ctl *MessageController) Dismiss(c *fiber.Ctx) error {
	messageID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.BizError(c, resperr.InvalidParams)
	}
	member := auth.MembershipFromCtx(c)
	if err := ctl.Inbox.Dismiss(member.ClassID, member.Name, messageID); err != nil {
		return helper.BizError(c, err)
	}
	return helper.Success(c, "message dismissed", nil)
}
