// file: internals/features/messages/service/inbox_service.go
package service

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	msgModel "classmanager_backend/internals/features/messages/model"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/resperr"
)

// InboxService serves a student's notification feed.
type InboxService struct {
	DB *gorm.DB
}

func NewInboxService(db *gorm.DB) *InboxService {
	return &InboxService{DB: db}
}

// InboxItem is one notification joined with its shared content.
type InboxItem struct {
	MessageID      uuid.UUID  `json:"message_id"`
	Category       string     `json:"category"`
	SenderMemberID *uuid.UUID `json:"sender_member_id"`
	RelatedID      *uuid.UUID `json:"related_id"`
	Body           string     `json:"body"`
	CreatedAt      time.Time  `json:"created_at"`
}

// List pages a student's live messages, newest first, optionally filtered by
// category.
func (s *InboxService) List(classID uuid.UUID, studentName, category string, paging helper.Paging) ([]InboxItem, int64, error) {
	base := s.DB.Model(&msgModel.MessageModel{}).
		Joins("JOIN message_contents ON message_contents.message_content_id = messages.message_content_id").
		Where("messages.message_receiver_class_id = ?", classID).
		Where("messages.message_receiver_name = ?", studentName).
		Where("messages.message_is_deleted = ?", false)
	if category != "" {
		base = base.Where("messages.message_category = ?", category)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, resperr.InternalServerError
	}

	var items []InboxItem
	err := base.Session(&gorm.Session{}).
		Select(`messages.message_id,
			messages.message_category AS category,
			messages.message_sender_member_id AS sender_member_id,
			message_contents.message_content_related_id AS related_id,
			message_contents.message_content_body AS body,
			messages.message_created_at AS created_at`).
		Order("messages.message_created_at DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Scan(&items).Error
	if err != nil {
		return nil, 0, resperr.InternalServerError
	}
	return items, total, nil
}

// Dismiss soft-deletes one of the student's own messages. Dismissing an
// unknown or foreign message id is rejected.
func (s *InboxService) Dismiss(classID uuid.UUID, studentName string, messageID uuid.UUID) error {
	res := s.DB.Model(&msgModel.MessageModel{}).
		Where("message_id = ?", messageID).
		Where("message_receiver_class_id = ?", classID).
		Where("message_receiver_name = ?", studentName).
		Where("message_is_deleted = ?", false).
		Update("message_is_deleted", true)
	if res.Error != nil {
		return resperr.InternalServerError
	}
	if res.RowsAffected == 0 {
		return resperr.InvalidParams
	}
	return nil
}
