// file: internals/features/messages/model/message_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageModel is one notification addressed to a student by
// (class id, student name). A nil sender member id means system-sent.
type MessageModel struct {
	MessageID uuid.UUID `gorm:"type:uuid;primaryKey;column:message_id" json:"message_id"`

	MessageSenderMemberID *uuid.UUID `gorm:"index;column:message_sender_member_id" json:"message_sender_member_id"`
	MessageCategory       string     `gorm:"size:2;not null;column:message_category" json:"message_category"`

	MessageReceiverClassID uuid.UUID `gorm:"not null;index;column:message_receiver_class_id" json:"message_receiver_class_id"`
	MessageReceiverName    string    `gorm:"not null;index;column:message_receiver_name" json:"message_receiver_name"`

	MessageContentID uuid.UUID `gorm:"not null;column:message_content_id" json:"message_content_id"`

	MessageIsDeleted bool      `gorm:"not null;default:false;column:message_is_deleted" json:"message_is_deleted"`
	MessageCreatedAt time.Time `gorm:"not null;autoCreateTime;column:message_created_at" json:"message_created_at"`
}

func (MessageModel) TableName() string { return "messages" }

// MessageContentModel carries the shared body of one fan-out event; every
// recipient's MessageModel row points at it.
type MessageContentModel struct {
	MessageContentID uuid.UUID `gorm:"type:uuid;primaryKey;column:message_content_id" json:"message_content_id"`

	MessageContentRelatedID *uuid.UUID `gorm:"index;column:message_content_related_id" json:"message_content_related_id"`
	MessageContentBody      string     `gorm:"column:message_content_body" json:"message_content_body"`

	MessageContentCreatedAt time.Time `gorm:"not null;autoCreateTime;column:message_content_created_at" json:"message_content_created_at"`
}

func (MessageContentModel) TableName() string { return "message_contents" }

func (m *MessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.MessageID == uuid.Nil {
		m.MessageID = uuid.New()
	}
	return nil
}

func (m *MessageContentModel) BeforeCreate(tx *gorm.DB) error {
	if m.MessageContentID == uuid.Nil {
		m.MessageContentID = uuid.New()
	}
	return nil
}
