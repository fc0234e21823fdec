// file: internals/features/homework/service/assign_service.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmanager_backend/internals/constants"
	classModel "classmanager_backend/internals/features/classes/model"
	fileService "classmanager_backend/internals/features/files/service"
	groupModel "classmanager_backend/internals/features/groups/model"
	"classmanager_backend/internals/features/homework/model"
	msgService "classmanager_backend/internals/features/messages/service"
	"classmanager_backend/internals/resperr"
)

// AssignService publishes homework: scope validation, the per-day publish
// rule, status-row creation for every student in scope, attachment
// references and the assignment fan-out, all in one transaction.
type AssignService struct {
	DB *gorm.DB
}

func NewAssignService(db *gorm.DB) *AssignService {
	return &AssignService{DB: db}
}

// ScopeTarget is one entry of a homework's scope list. A Nil GroupID targets
// the whole class.
type ScopeTarget struct {
	ClassID uuid.UUID `json:"class_id"`
	GroupID uuid.UUID `json:"group_id"`
}

// AssignInput is the publish payload. A zero PubTime publishes immediately;
// a future one schedules the homework for that day's slot.
type AssignInput struct {
	Title       string
	Desc        string
	PubTime     time.Time
	EndTime     time.Time
	Attachments fileService.AttachmentLists
	Targets     []ScopeTarget
}

// UpdateInput edits a published homework. Scope is fixed after publishing;
// the publish time may be rescheduled, which re-runs the per-day rule.
type UpdateInput struct {
	Title       string
	Desc        string
	PubTime     time.Time
	EndTime     time.Time
	Attachments fileService.AttachmentLists
}

// teachingMemberships loads the publisher's active teaching memberships in
// the given classes, keyed by class id.
func teachingMemberships(db *gorm.DB, userID uuid.UUID, classIDs []uuid.UUID) (map[uuid.UUID]classModel.ClassMemberModel, error) {
	var members []classModel.ClassMemberModel
	err := db.
		Where("class_member_user_id = ?", userID).
		Where("class_member_class_id IN ?", classIDs).
		Where("class_member_role IN ?", []string{constants.RoleHeadteacher, constants.RoleTeacher}).
		Where("class_member_is_deleted = ?", false).
		Find(&members).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	byClass := make(map[uuid.UUID]classModel.ClassMemberModel, len(members))
	for _, m := range members {
		byClass[m.ClassMemberClassID] = m
	}
	return byClass, nil
}

// dayWindow returns the local calendar-day bounds containing t.
func dayWindow(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// conflictingClasses returns the target classes the publisher already has a
// live homework assigned to on the given day, excluding one homework id
// (pass Nil when publishing fresh).
func conflictingClasses(tx *gorm.DB, publisherID uuid.UUID, classIDs []uuid.UUID, day time.Time, excludeHomeworkID uuid.UUID) ([]uuid.UUID, error) {
	dayStart, dayEnd := dayWindow(day)
	query := tx.Model(&model.HomeworkAssignModel{}).
		Distinct("homework_assign_class_id").
		Joins("JOIN homeworks ON homeworks.homework_id = homework_assigns.homework_assign_homework_id").
		Where("homeworks.homework_publisher_id = ?", publisherID).
		Where("homeworks.homework_is_deleted = ?", false).
		Where("homeworks.homework_pub_time >= ? AND homeworks.homework_pub_time < ?", dayStart, dayEnd).
		Where("homework_assigns.homework_assign_class_id IN ?", classIDs)
	if excludeHomeworkID != uuid.Nil {
		query = query.Where("homeworks.homework_id <> ?", excludeHomeworkID)
	}
	var conflicts []uuid.UUID
	if err := query.Pluck("homework_assign_class_id", &conflicts).Error; err != nil {
		return nil, resperr.InternalServerError
	}
	return conflicts, nil
}

// TargetGroup is one pickable group of a target class.
type TargetGroup struct {
	GroupID uuid.UUID `json:"group_id"`
	Name    string    `json:"name"`
}

// TargetClass is one class the publisher may still assign to on a given day.
type TargetClass struct {
	ClassID   uuid.UUID     `json:"class_id"`
	ClassCode int64         `json:"class_code"`
	Grade     int           `json:"grade"`
	Number    int           `json:"number"`
	Groups    []TargetGroup `json:"groups"`
}

// AvailableTargets lists the classes the publisher teaches that have no live
// homework of theirs on the given day yet, each with its groups.
func (s *AssignService) AvailableTargets(publisherUserID uuid.UUID, day time.Time) ([]TargetClass, error) {
	var members []classModel.ClassMemberModel
	err := s.DB.
		Where("class_member_user_id = ?", publisherUserID).
		Where("class_member_role IN ?", []string{constants.RoleHeadteacher, constants.RoleTeacher}).
		Where("class_member_is_deleted = ?", false).
		Find(&members).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	if len(members) == 0 {
		return []TargetClass{}, nil
	}
	classIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		classIDs = append(classIDs, m.ClassMemberClassID)
	}

	conflicts, err := conflictingClasses(s.DB, publisherUserID, classIDs, day, uuid.Nil)
	if err != nil {
		return nil, err
	}
	taken := make(map[uuid.UUID]struct{}, len(conflicts))
	for _, id := range conflicts {
		taken[id] = struct{}{}
	}
	open := classIDs[:0]
	for _, id := range classIDs {
		if _, assigned := taken[id]; !assigned {
			open = append(open, id)
		}
	}
	if len(open) == 0 {
		return []TargetClass{}, nil
	}

	var classes []classModel.ClassModel
	err = s.DB.
		Where("class_id IN ?", open).
		Where("class_is_deleted = ?", false).
		Order("class_grade ASC, class_number ASC").
		Find(&classes).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	var groups []groupModel.GroupModel
	err = s.DB.
		Where("group_class_id IN ?", open).
		Order("group_name ASC").
		Find(&groups).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	groupsByClass := make(map[uuid.UUID][]TargetGroup, len(open))
	for _, g := range groups {
		groupsByClass[g.GroupClassID] = append(groupsByClass[g.GroupClassID],
			TargetGroup{GroupID: g.GroupID, Name: g.GroupName})
	}

	targets := make([]TargetClass, 0, len(classes))
	for _, c := range classes {
		targets = append(targets, TargetClass{
			ClassID:   c.ClassID,
			ClassCode: c.ClassCode,
			Grade:     c.ClassGrade,
			Number:    c.ClassNumber,
			Groups:    groupsByClass[c.ClassID],
		})
	}
	return targets, nil
}

// Assign publishes a homework to the given scope.
func (s *AssignService) Assign(publisherUserID uuid.UUID, in AssignInput) (*model.HomeworkModel, error) {
	if len(in.Targets) == 0 {
		return nil, resperr.MissingParams
	}
	pubTime := in.PubTime
	if pubTime.IsZero() {
		pubTime = time.Now()
	}
	if !pubTime.Before(in.EndTime) {
		return nil, resperr.InvalidParams.WithMessage("publish time must precede the deadline")
	}
	classIDs := make([]uuid.UUID, 0, len(in.Targets))
	seenClass := make(map[uuid.UUID]struct{}, len(in.Targets))
	for _, t := range in.Targets {
		if _, dup := seenClass[t.ClassID]; dup {
			return nil, resperr.InvalidParams.WithMessage("class targeted more than once")
		}
		seenClass[t.ClassID] = struct{}{}
		classIDs = append(classIDs, t.ClassID)
	}

	var homework model.HomeworkModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		members, err := teachingMemberships(tx, publisherUserID, classIDs)
		if err != nil {
			return err
		}
		var subjectID uuid.UUID
		for _, classID := range classIDs {
			member, ok := members[classID]
			if !ok {
				return resperr.AuthorizationDenied
			}
			if member.ClassMemberSubjectID == nil {
				return resperr.InvalidSubject
			}
			if subjectID == uuid.Nil {
				subjectID = *member.ClassMemberSubjectID
			} else if subjectID != *member.ClassMemberSubjectID {
				return resperr.InvalidParams.WithMessage("targets span different subjects")
			}
		}

		classWide, groupIDs, err := validateTargets(tx, in.Targets)
		if err != nil {
			return err
		}

		conflicts, err := conflictingClasses(tx, publisherUserID, classIDs, pubTime, uuid.Nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return resperr.HomeworkAssigned.WithData(conflicts)
		}

		fileIDs, err := fileService.ValidateAttachments(tx, in.Attachments)
		if err != nil {
			return err
		}

		recipients, err := msgService.ResolveScopeStudents(tx, classWide, groupIDs)
		if err != nil {
			return err
		}
		if len(recipients) == 0 {
			return resperr.InvalidParams.WithMessage("scope resolves to no students")
		}

		homework = model.HomeworkModel{
			HomeworkPublisherID: publisherUserID,
			HomeworkSubjectID:   subjectID,
			HomeworkPubTime:     pubTime,
			HomeworkEndTime:     in.EndTime,
			HomeworkTitle:       in.Title,
			HomeworkDesc:        in.Desc,
		}
		if err := tx.Create(&homework).Error; err != nil {
			return resperr.InternalServerError
		}

		assigns := make([]model.HomeworkAssignModel, 0, len(in.Targets))
		for _, t := range in.Targets {
			assigns = append(assigns, model.HomeworkAssignModel{
				HomeworkAssignHomeworkID: homework.HomeworkID,
				HomeworkAssignClassID:    t.ClassID,
				HomeworkAssignGroupID:    t.GroupID,
			})
		}
		if err := tx.Create(&assigns).Error; err != nil {
			return resperr.InternalServerError
		}

		statuses := make([]model.HomeworkAnswerStatusModel, 0, len(recipients))
		for _, r := range recipients {
			statuses = append(statuses, model.HomeworkAnswerStatusModel{
				HomeworkAnswerStatusHomeworkID:  homework.HomeworkID,
				HomeworkAnswerStatusClassID:     r.ClassID,
				HomeworkAnswerStatusStudentName: r.StudentName,
				HomeworkAnswerStatusStatus:      constants.AnswerNeedToSubmit,
			})
		}
		if err := tx.Create(&statuses).Error; err != nil {
			return resperr.InternalServerError
		}

		if err := fileService.CreateReferences(tx, constants.RefByHomework, homework.HomeworkID, fileIDs); err != nil {
			return resperr.InternalServerError
		}

		senders := make(map[uuid.UUID]uuid.UUID, len(members))
		for classID, m := range members {
			senders[classID] = m.ClassMemberID
		}
		relatedID := homework.HomeworkID
		_, err = msgService.FanOut(tx, senders, constants.MsgHomeworkHint, &relatedID,
			fmt.Sprintf("New homework: %s", in.Title), recipients)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &homework, nil
}

// validateTargets checks group targets exist in their class and class-wide
// targets have students, then splits the scope for resolution.
func validateTargets(tx *gorm.DB, targets []ScopeTarget) (classWide, groupIDs []uuid.UUID, err error) {
	for _, t := range targets {
		if t.GroupID == uuid.Nil {
			var count int64
			err := tx.Model(&classModel.ClassMemberModel{}).
				Where("class_member_class_id = ?", t.ClassID).
				Where("class_member_role = ?", constants.RoleStudent).
				Where("class_member_is_deleted = ?", false).
				Count(&count).Error
			if err != nil {
				return nil, nil, resperr.InternalServerError
			}
			if count == 0 {
				return nil, nil, resperr.InvalidParams.WithMessage("class has no students")
			}
			classWide = append(classWide, t.ClassID)
			continue
		}
		var count int64
		err := tx.Model(&groupModel.GroupModel{}).
			Where("group_id = ?", t.GroupID).
			Where("group_class_id = ?", t.ClassID).
			Count(&count).Error
		if err != nil {
			return nil, nil, resperr.InternalServerError
		}
		if count == 0 {
			return nil, nil, resperr.GroupNotFound
		}
		groupIDs = append(groupIDs, t.GroupID)
	}
	return classWide, groupIDs, nil
}

// Update edits a homework's content and schedule. Only the publisher may
// update; the recipient set stays the one resolved at publish time.
func (s *AssignService) Update(publisherUserID, homeworkID uuid.UUID, in UpdateInput) error {
	if !in.PubTime.Before(in.EndTime) {
		return resperr.InvalidParams.WithMessage("publish time must precede the deadline")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var homework model.HomeworkModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("homework_id = ?", homeworkID).
			First(&homework).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resperr.InvalidParams
			}
			return resperr.InternalServerError
		}
		if homework.HomeworkPublisherID != publisherUserID {
			return resperr.AuthorizationDenied
		}
		if homework.HomeworkIsDeleted {
			return resperr.HomeworkDeleted
		}

		classIDs, err := assignedClassIDs(tx, homeworkID)
		if err != nil {
			return err
		}
		conflicts, err := conflictingClasses(tx, publisherUserID, classIDs, in.PubTime, homeworkID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return resperr.HomeworkAssigned.WithData(conflicts)
		}

		fileIDs, err := fileService.ValidateAttachments(tx, in.Attachments)
		if err != nil {
			return err
		}

		err = tx.Model(&model.HomeworkModel{}).
			Where("homework_id = ?", homeworkID).
			Updates(map[string]interface{}{
				"homework_title":      in.Title,
				"homework_desc":       in.Desc,
				"homework_pub_time":   in.PubTime,
				"homework_end_time":   in.EndTime,
				"homework_updated_at": time.Now(),
			}).Error
		if err != nil {
			return resperr.InternalServerError
		}

		if err := replaceHomeworkRefs(tx, homeworkID, fileIDs); err != nil {
			return err
		}

		return s.notifyRecipients(tx, publisherUserID, &homework,
			fmt.Sprintf("Homework updated: %s", in.Title))
	})
}

func replaceHomeworkRefs(tx *gorm.DB, homeworkID uuid.UUID, fileIDs []uuid.UUID) error {
	if err := fileService.DeleteReferences(tx, constants.RefByHomework, homeworkID); err != nil {
		return resperr.InternalServerError
	}
	if err := fileService.CreateReferences(tx, constants.RefByHomework, homeworkID, fileIDs); err != nil {
		return resperr.InternalServerError
	}
	return nil
}

// Delete soft-deletes a homework. Deleting an already-deleted homework
// succeeds without a second notification.
func (s *AssignService) Delete(publisherUserID, homeworkID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var homework model.HomeworkModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("homework_id = ?", homeworkID).
			First(&homework).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resperr.InvalidParams
			}
			return resperr.InternalServerError
		}
		if homework.HomeworkPublisherID != publisherUserID {
			return resperr.AuthorizationDenied
		}
		if homework.HomeworkIsDeleted {
			return nil
		}

		err = tx.Model(&model.HomeworkModel{}).
			Where("homework_id = ?", homeworkID).
			Updates(map[string]interface{}{
				"homework_is_deleted": true,
				"homework_updated_at": time.Now(),
			}).Error
		if err != nil {
			return resperr.InternalServerError
		}
		return s.notifyRecipients(tx, publisherUserID, &homework,
			fmt.Sprintf("Homework deleted: %s", homework.HomeworkTitle))
	})
}

// notifyRecipients messages the homework's publish-time recipient set, read
// back from the answer-status rows.
func (s *AssignService) notifyRecipients(tx *gorm.DB, publisherUserID uuid.UUID, homework *model.HomeworkModel, body string) error {
	var rows []model.HomeworkAnswerStatusModel
	err := tx.
		Where("homework_answer_status_homework_id = ?", homework.HomeworkID).
		Find(&rows).Error
	if err != nil {
		return resperr.InternalServerError
	}
	recipients := make([]msgService.Recipient, 0, len(rows))
	classSet := make(map[uuid.UUID]struct{})
	var classIDs []uuid.UUID
	for _, row := range rows {
		recipients = append(recipients, msgService.Recipient{
			ClassID:     row.HomeworkAnswerStatusClassID,
			StudentName: row.HomeworkAnswerStatusStudentName,
		})
		if _, ok := classSet[row.HomeworkAnswerStatusClassID]; !ok {
			classSet[row.HomeworkAnswerStatusClassID] = struct{}{}
			classIDs = append(classIDs, row.HomeworkAnswerStatusClassID)
		}
	}
	members, err := teachingMemberships(tx, publisherUserID, classIDs)
	if err != nil {
		return err
	}
	senders := make(map[uuid.UUID]uuid.UUID, len(members))
	for classID, m := range members {
		senders[classID] = m.ClassMemberID
	}
	relatedID := homework.HomeworkID
	_, err = msgService.FanOut(tx, senders, constants.MsgHomeworkHint, &relatedID, body, recipients)
	return err
}

func assignedClassIDs(tx *gorm.DB, homeworkID uuid.UUID) ([]uuid.UUID, error) {
	var classIDs []uuid.UUID
	err := tx.Model(&model.HomeworkAssignModel{}).
		Distinct("homework_assign_class_id").
		Where("homework_assign_homework_id = ?", homeworkID).
		Pluck("homework_assign_class_id", &classIDs).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	return classIDs, nil
}
