// file: internals/features/homework/service/query_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"classmanager_backend/internals/constants"
	fileService "classmanager_backend/internals/features/files/service"
	"classmanager_backend/internals/features/homework/model"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/resperr"
)

// QueryService serves the read-only homework projections. It never mutates
// state: the NoFeedback presentation of expired, unanswered homework is
// derived per read.
type QueryService struct {
	DB *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{DB: db}
}

// PresentedStatus applies the read-time derivation: past the end time, a
// status still awaiting the student reads as NoFeedback.
func PresentedStatus(stored string, endTime time.Time, now time.Time) string {
	if now.After(endTime) && constants.IsExpirableStatus(stored) {
		return constants.AnswerNoFeedback
	}
	return stored
}

// TeacherHomeworkItem is one row of the publisher's per-class list.
type TeacherHomeworkItem struct {
	HomeworkID     uuid.UUID `json:"homework_id"`
	Title          string    `json:"title"`
	PubTime        time.Time `json:"pub_time"`
	EndTime        time.Time `json:"end_time"`
	TargetStudents int64     `json:"target_students"`
	SubmittedCount int64     `json:"submitted_count"`
}

// TeacherHomeworkList pages the publisher's live homeworks targeting one
// class, newest first, with per-homework submission progress.
func (s *QueryService) TeacherHomeworkList(publisherUserID, classID uuid.UUID, paging helper.Paging) ([]TeacherHomeworkItem, int64, error) {
	base := s.DB.Model(&model.HomeworkModel{}).
		Joins("JOIN homework_assigns ON homework_assigns.homework_assign_homework_id = homeworks.homework_id").
		Where("homework_assigns.homework_assign_class_id = ?", classID).
		Where("homeworks.homework_publisher_id = ?", publisherUserID).
		Where("homeworks.homework_is_deleted = ?", false)

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("homeworks.homework_id").Count(&total).Error; err != nil {
		return nil, 0, resperr.InternalServerError
	}

	var homeworks []model.HomeworkModel
	err := base.Session(&gorm.Session{}).
		Select("DISTINCT homeworks.*").
		Order("homeworks.homework_pub_time DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Find(&homeworks).Error
	if err != nil {
		return nil, 0, resperr.InternalServerError
	}

	items := make([]TeacherHomeworkItem, 0, len(homeworks))
	for _, hw := range homeworks {
		item := TeacherHomeworkItem{
			HomeworkID: hw.HomeworkID,
			Title:      hw.HomeworkTitle,
			PubTime:    hw.HomeworkPubTime,
			EndTime:    hw.HomeworkEndTime,
		}
		statusQuery := s.DB.Model(&model.HomeworkAnswerStatusModel{}).
			Where("homework_answer_status_homework_id = ?", hw.HomeworkID).
			Where("homework_answer_status_class_id = ?", classID)
		if err := statusQuery.Session(&gorm.Session{}).Count(&item.TargetStudents).Error; err != nil {
			return nil, 0, resperr.InternalServerError
		}
		err := statusQuery.Session(&gorm.Session{}).
			Where("homework_answer_status_status <> ?", constants.AnswerNeedToSubmit).
			Count(&item.SubmittedCount).Error
		if err != nil {
			return nil, 0, resperr.InternalServerError
		}
		items = append(items, item)
	}
	return items, total, nil
}

// StudentHomeworkItem is one row of a student's list.
type StudentHomeworkItem struct {
	HomeworkID uuid.UUID `json:"homework_id"`
	Title      string    `json:"title"`
	PubTime    time.Time `json:"pub_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
	Score      *string   `json:"score"`
}

// StudentHomeworkList pages the homeworks assigned to one student, newest
// first, with the presented status.
func (s *QueryService) StudentHomeworkList(classID uuid.UUID, studentName string, paging helper.Paging) ([]StudentHomeworkItem, int64, error) {
	base := s.DB.Model(&model.HomeworkAnswerStatusModel{}).
		Joins("JOIN homeworks ON homeworks.homework_id = homework_answer_statuses.homework_answer_status_homework_id").
		Where("homework_answer_statuses.homework_answer_status_class_id = ?", classID).
		Where("homework_answer_statuses.homework_answer_status_student_name = ?", studentName).
		Where("homeworks.homework_is_deleted = ?", false)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, resperr.InternalServerError
	}

	var rows []struct {
		model.HomeworkAnswerStatusModel
		model.HomeworkModel
	}
	err := base.Session(&gorm.Session{}).
		Select("homework_answer_statuses.*, homeworks.*").
		Order("homeworks.homework_pub_time DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, resperr.InternalServerError
	}

	now := time.Now()
	items := make([]StudentHomeworkItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, StudentHomeworkItem{
			HomeworkID: row.HomeworkID,
			Title:      row.HomeworkTitle,
			PubTime:    row.HomeworkPubTime,
			EndTime:    row.HomeworkEndTime,
			Status:     PresentedStatus(row.HomeworkAnswerStatusStatus, row.HomeworkEndTime, now),
			Score:      row.HomeworkAnswerStatusScore,
		})
	}
	return items, total, nil
}

// HomeworkDetail is the full homework payload with per-kind attachments and
// scope targets.
type HomeworkDetail struct {
	HomeworkID  uuid.UUID                   `json:"homework_id"`
	SubjectID   uuid.UUID                   `json:"subject_id"`
	Title       string                      `json:"title"`
	Desc        string                      `json:"desc"`
	PubTime     time.Time                   `json:"pub_time"`
	EndTime     time.Time                   `json:"end_time"`
	Targets     []ScopeTarget               `json:"targets"`
	Attachments fileService.AttachmentLists `json:"attachments"`
}

// Detail loads one live homework.
func (s *QueryService) Detail(homeworkID uuid.UUID) (*HomeworkDetail, error) {
	var homework model.HomeworkModel
	err := s.DB.
		Where("homework_id = ?", homeworkID).
		Where("homework_is_deleted = ?", false).
		First(&homework).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.HomeworkDeleted
		}
		return nil, resperr.InternalServerError
	}

	var assigns []model.HomeworkAssignModel
	err = s.DB.
		Where("homework_assign_homework_id = ?", homeworkID).
		Find(&assigns).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	targets := make([]ScopeTarget, 0, len(assigns))
	for _, a := range assigns {
		targets = append(targets, ScopeTarget{
			ClassID: a.HomeworkAssignClassID,
			GroupID: a.HomeworkAssignGroupID,
		})
	}

	attachments, err := fileService.ReferencedFileKinds(s.DB, constants.RefByHomework, homeworkID)
	if err != nil {
		return nil, err
	}

	return &HomeworkDetail{
		HomeworkID:  homework.HomeworkID,
		SubjectID:   homework.HomeworkSubjectID,
		Title:       homework.HomeworkTitle,
		Desc:        homework.HomeworkDesc,
		PubTime:     homework.HomeworkPubTime,
		EndTime:     homework.HomeworkEndTime,
		Targets:     targets,
		Attachments: attachments,
	}, nil
}

// InScope reports whether a student name falls in a homework's resolved
// scope, via the status rows created at publish time.
func (s *QueryService) InScope(homeworkID, classID uuid.UUID, studentName string) (bool, error) {
	var count int64
	err := s.DB.Model(&model.HomeworkAnswerStatusModel{}).
		Where("homework_answer_status_homework_id = ?", homeworkID).
		Where("homework_answer_status_class_id = ?", classID).
		Where("homework_answer_status_student_name = ?", studentName).
		Count(&count).Error
	if err != nil {
		return false, resperr.InternalServerError
	}
	return count > 0, nil
}

// AnswerView is one submission with its grading artifacts resolved.
type AnswerView struct {
	AnswerID    uuid.UUID                   `json:"answer_id"`
	Category    string                      `json:"category"`
	Desc        string                      `json:"desc"`
	CreatedAt   time.Time                   `json:"created_at"`
	Attachments fileService.AttachmentLists `json:"attachments"`

	EvaluateComment  *string        `json:"evaluate_comment"`
	EvaluateRejected *bool          `json:"evaluate_rejected"`
	CheckContent     datatypes.JSON `json:"check_content"`
}

// AnswerThread is one student's full exchange on a homework.
type AnswerThread struct {
	StatusID    uuid.UUID    `json:"status_id"`
	ClassID     uuid.UUID    `json:"class_id"`
	StudentName string       `json:"student_name"`
	Status      string       `json:"status"`
	Score       *string      `json:"score"`
	Answers     []AnswerView `json:"answers"`
}

// Thread loads one student's status row and submission history for a
// homework, oldest answer first.
func (s *QueryService) Thread(homeworkID, classID uuid.UUID, studentName string) (*AnswerThread, error) {
	var homework model.HomeworkModel
	err := s.DB.
		Where("homework_id = ?", homeworkID).
		First(&homework).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.InvalidParams
		}
		return nil, resperr.InternalServerError
	}

	var status model.HomeworkAnswerStatusModel
	err = s.DB.
		Where("homework_answer_status_homework_id = ?", homeworkID).
		Where("homework_answer_status_class_id = ?", classID).
		Where("homework_answer_status_student_name = ?", studentName).
		First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.AuthorizationDenied
		}
		return nil, resperr.InternalServerError
	}

	var answers []model.HomeworkAnswerModel
	err = s.DB.
		Where("homework_answer_status_id = ?", status.HomeworkAnswerStatusID).
		Order("homework_answer_created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}

	answerIDs := make([]uuid.UUID, 0, len(answers))
	for _, a := range answers {
		answerIDs = append(answerIDs, a.HomeworkAnswerID)
	}
	attachments, err := fileService.ReferencedFileKindsBatch(s.DB, constants.RefByHomeworkAnswer, answerIDs)
	if err != nil {
		return nil, err
	}

	views := make([]AnswerView, 0, len(answers))
	for _, a := range answers {
		view := AnswerView{
			AnswerID:    a.HomeworkAnswerID,
			Category:    a.HomeworkAnswerCategory,
			Desc:        a.HomeworkAnswerDesc,
			CreatedAt:   a.HomeworkAnswerCreatedAt,
			Attachments: attachments[a.HomeworkAnswerID],
		}
		if a.HomeworkAnswerEvaluationID != nil {
			var evaluate model.HomeworkEvaluateModel
			err := s.DB.
				Where("homework_evaluate_id = ?", *a.HomeworkAnswerEvaluationID).
				First(&evaluate).Error
			if err != nil {
				return nil, resperr.InternalServerError
			}
			view.EvaluateComment = &evaluate.HomeworkEvaluateComment
			view.EvaluateRejected = &evaluate.HomeworkEvaluateRejected
		}
		if a.HomeworkAnswerCheckID != nil {
			var check model.HomeworkAnswerCheckModel
			err := s.DB.
				Where("homework_answer_check_id = ?", *a.HomeworkAnswerCheckID).
				First(&check).Error
			if err != nil {
				return nil, resperr.InternalServerError
			}
			view.CheckContent = check.HomeworkAnswerCheckContent
		}
		views = append(views, view)
	}

	return &AnswerThread{
		StatusID:    status.HomeworkAnswerStatusID,
		ClassID:     status.HomeworkAnswerStatusClassID,
		StudentName: status.HomeworkAnswerStatusStudentName,
		Status:      PresentedStatus(status.HomeworkAnswerStatusStatus, homework.HomeworkEndTime, time.Now()),
		Score:       status.HomeworkAnswerStatusScore,
		Answers:     views,
	}, nil
}

// BoardRow is one student line on the teacher's grading board.
type BoardRow struct {
	StatusID    uuid.UUID `json:"status_id"`
	StudentName string    `json:"student_name"`
	Status      string    `json:"status"`
	Score       *string   `json:"score"`
}

// Board lists every per-student status of a homework within one class, for
// the publisher's grading view.
func (s *QueryService) Board(publisherUserID, homeworkID, classID uuid.UUID) ([]BoardRow, error) {
	var homework model.HomeworkModel
	err := s.DB.
		Where("homework_id = ?", homeworkID).
		Where("homework_is_deleted = ?", false).
		First(&homework).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.HomeworkDeleted
		}
		return nil, resperr.InternalServerError
	}
	if homework.HomeworkPublisherID != publisherUserID {
		return nil, resperr.AuthorizationDenied
	}

	var statuses []model.HomeworkAnswerStatusModel
	err = s.DB.
		Where("homework_answer_status_homework_id = ?", homeworkID).
		Where("homework_answer_status_class_id = ?", classID).
		Order("homework_answer_status_student_name ASC").
		Find(&statuses).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}

	now := time.Now()
	rows := make([]BoardRow, 0, len(statuses))
	for _, st := range statuses {
		rows = append(rows, BoardRow{
			StatusID:    st.HomeworkAnswerStatusID,
			StudentName: st.HomeworkAnswerStatusStudentName,
			Status:      PresentedStatus(st.HomeworkAnswerStatusStatus, homework.HomeworkEndTime, now),
			Score:       st.HomeworkAnswerStatusScore,
		})
	}
	return rows, nil
}
