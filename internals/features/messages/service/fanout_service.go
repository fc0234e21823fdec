// file: internals/features/messages/service/fanout_service.go
package service

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/constants"
	classModel "classmanager_backend/internals/features/classes/model"
	groupModel "classmanager_backend/internals/features/groups/model"
	msgModel "classmanager_backend/internals/features/messages/model"
	"classmanager_backend/internals/resperr"
)

// Recipient addresses one student: messages and answer-status rows both key
// students by (class id, student name).
type Recipient struct {
	ClassID     uuid.UUID
	StudentName string
}

// ResolveScopeStudents is the single scope-resolution rule shared by
// assignment-time writes and read-time queries: the union of the explicit
// group members and all active students of wholly-targeted classes,
// de-duplicated by (class, name).
func ResolveScopeStudents(db *gorm.DB, classWide []uuid.UUID, groupIDs []uuid.UUID) ([]Recipient, error) {
	seen := make(map[Recipient]struct{})
	var recipients []Recipient

	if len(groupIDs) > 0 {
		var rows []struct {
			GroupClassID           uuid.UUID
			GroupMemberStudentName string
		}
		err := db.Model(&groupModel.GroupMemberModel{}).
			Select("groups.group_class_id, group_members.group_member_student_name").
			Joins("JOIN groups ON groups.group_id = group_members.group_member_group_id").
			Where("group_members.group_member_group_id IN ?", groupIDs).
			Scan(&rows).Error
		if err != nil {
			return nil, resperr.InternalServerError
		}
		for _, row := range rows {
			r := Recipient{ClassID: row.GroupClassID, StudentName: row.GroupMemberStudentName}
			if _, dup := seen[r]; !dup {
				seen[r] = struct{}{}
				recipients = append(recipients, r)
			}
		}
	}

	if len(classWide) > 0 {
		var rows []struct {
			ClassMemberClassID uuid.UUID
			ClassMemberName    string
		}
		err := db.Model(&classModel.ClassMemberModel{}).
			Select("DISTINCT class_member_class_id, class_member_name").
			Where("class_member_class_id IN ?", classWide).
			Where("class_member_role = ?", constants.RoleStudent).
			Where("class_member_is_deleted = ?", false).
			Scan(&rows).Error
		if err != nil {
			return nil, resperr.InternalServerError
		}
		for _, row := range rows {
			r := Recipient{ClassID: row.ClassMemberClassID, StudentName: row.ClassMemberName}
			if _, dup := seen[r]; !dup {
				seen[r] = struct{}{}
				recipients = append(recipients, r)
			}
		}
	}

	return recipients, nil
}

// FanOut writes one content row for the event and one message row per
// recipient. senders maps class id → sender member id; a class without an
// entry produces a system-sent message (nil sender).
func FanOut(
	tx *gorm.DB,
	senders map[uuid.UUID]uuid.UUID,
	category string,
	relatedID *uuid.UUID,
	body string,
	recipients []Recipient,
) (uuid.UUID, error) {
	content := msgModel.MessageContentModel{
		MessageContentRelatedID: relatedID,
		MessageContentBody:      body,
	}
	if err := tx.Create(&content).Error; err != nil {
		return uuid.Nil, resperr.InternalServerError
	}
	if len(recipients) == 0 {
		return content.MessageContentID, nil
	}

	messages := make([]msgModel.MessageModel, 0, len(recipients))
	for _, r := range recipients {
		var sender *uuid.UUID
		if memberID, ok := senders[r.ClassID]; ok {
			id := memberID
			sender = &id
		}
		messages = append(messages, msgModel.MessageModel{
			MessageSenderMemberID:  sender,
			MessageCategory:        category,
			MessageReceiverClassID: r.ClassID,
			MessageReceiverName:    r.StudentName,
			MessageContentID:       content.MessageContentID,
		})
	}
	if err := tx.Create(&messages).Error; err != nil {
		return uuid.Nil, resperr.InternalServerError
	}
	return content.MessageContentID, nil
}

// SingleSender builds a senders map for single-class events.
func SingleSender(classID, memberID uuid.UUID) map[uuid.UUID]uuid.UUID {
	return map[uuid.UUID]uuid.UUID{classID: memberID}
}
