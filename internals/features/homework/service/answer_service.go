// file: internals/features/homework/service/answer_service.go
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmanager_backend/internals/constants"
	fileService "classmanager_backend/internals/features/files/service"
	"classmanager_backend/internals/features/homework/model"
	msgService "classmanager_backend/internals/features/messages/service"
	"classmanager_backend/internals/resperr"
)

// AnswerService drives the per-student answer state machine: submission
// (answer, rework, correction), single-answer grading with image
// annotations, and batch evaluation.
type AnswerService struct {
	DB *gorm.DB
}

func NewAnswerService(db *gorm.DB) *AnswerService {
	return &AnswerService{DB: db}
}

// CommitInput is one submission payload.
type CommitInput struct {
	HomeworkID  uuid.UUID
	Desc        string
	Attachments fileService.AttachmentLists
}

// Commit submits an answer, rework or correction, depending on the current
// status. The status row doubles as the scope check: a student without one
// was never assigned the homework.
func (s *AnswerService) Commit(submitterMemberID, classID uuid.UUID, studentName string, in CommitInput) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var homework model.HomeworkModel
		err := tx.
			Where("homework_id = ?", in.HomeworkID).
			First(&homework).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resperr.InvalidParams
			}
			return resperr.InternalServerError
		}
		if homework.HomeworkIsDeleted {
			return resperr.HomeworkDeleted
		}
		if time.Now().After(homework.HomeworkEndTime) {
			return resperr.ExpiredHomework
		}

		var status model.HomeworkAnswerStatusModel
		err = tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("homework_answer_status_homework_id = ?", in.HomeworkID).
			Where("homework_answer_status_class_id = ?", classID).
			Where("homework_answer_status_student_name = ?", studentName).
			First(&status).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resperr.AuthorizationDenied
			}
			return resperr.InternalServerError
		}

		var category, nextStatus string
		switch status.HomeworkAnswerStatusStatus {
		case constants.AnswerNeedToSubmit:
			category, nextStatus = constants.CategoryAnswer, constants.AnswerSubmitted
		case constants.AnswerNeedToRework:
			category, nextStatus = constants.CategoryRework, constants.AnswerSubmitted
		case constants.AnswerChecked:
			var corrections int64
			err := tx.Model(&model.HomeworkAnswerModel{}).
				Where("homework_answer_status_id = ?", status.HomeworkAnswerStatusID).
				Where("homework_answer_category = ?", constants.CategoryCorrection).
				Count(&corrections).Error
			if err != nil {
				return resperr.InternalServerError
			}
			if corrections >= constants.MaxCorrectionTimes {
				return resperr.CorrectionTimesOutOfLimit
			}
			category, nextStatus = constants.CategoryCorrection, constants.AnswerCorrected
		default:
			return resperr.InvalidParams
		}

		fileIDs, err := fileService.ValidateAttachments(tx, in.Attachments)
		if err != nil {
			return err
		}

		answer := model.HomeworkAnswerModel{
			HomeworkAnswerSubmitterMemberID: submitterMemberID,
			HomeworkAnswerHomeworkID:        in.HomeworkID,
			HomeworkAnswerStatusID:          status.HomeworkAnswerStatusID,
			HomeworkAnswerCategory:          category,
			HomeworkAnswerDesc:              in.Desc,
		}
		if err := tx.Create(&answer).Error; err != nil {
			return resperr.InternalServerError
		}
		if err := fileService.CreateReferences(tx, constants.RefByHomeworkAnswer, answer.HomeworkAnswerID, fileIDs); err != nil {
			return resperr.InternalServerError
		}

		err = tx.Model(&model.HomeworkAnswerStatusModel{}).
			Where("homework_answer_status_id = ?", status.HomeworkAnswerStatusID).
			Update("homework_answer_status_status", nextStatus).Error
		if err != nil {
			return resperr.InternalServerError
		}
		return nil
	})
}

// Check grades a single answer with an annotation payload. An empty score
// records the answer as viewed without a grade.
func (s *AnswerService) Check(reviewerUserID, reviewerMemberID, answerID uuid.UUID, score string, content datatypes.JSON) error {
	if score != "" && !constants.IsValidScore(score) {
		return resperr.InvalidParams.WithMessage("invalid score")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		answer, status, homework, err := s.loadAnswerChain(tx, answerID)
		if err != nil {
			return err
		}
		if homework.HomeworkPublisherID != reviewerUserID {
			return resperr.AuthorizationDenied
		}
		if answer.HomeworkAnswerEvaluationID != nil || answer.HomeworkAnswerCheckID != nil {
			return resperr.InvalidParams.WithMessage("answer already reviewed")
		}
		if status.HomeworkAnswerStatusStatus != constants.AnswerSubmitted &&
			status.HomeworkAnswerStatusStatus != constants.AnswerCorrected {
			return resperr.InvalidParams
		}

		check := model.HomeworkAnswerCheckModel{
			HomeworkAnswerCheckReviewerMemberID: reviewerMemberID,
			HomeworkAnswerCheckCategory:         constants.CheckImageMark,
			HomeworkAnswerCheckContent:          content,
		}
		if err := tx.Create(&check).Error; err != nil {
			return resperr.InternalServerError
		}
		err = tx.Model(&model.HomeworkAnswerModel{}).
			Where("homework_answer_id = ?", answerID).
			Update("homework_answer_check_id", check.HomeworkAnswerCheckID).Error
		if err != nil {
			return resperr.InternalServerError
		}

		stored := constants.ScoreViewed
		if score != "" {
			stored = score
		}
		err = tx.Model(&model.HomeworkAnswerStatusModel{}).
			Where("homework_answer_status_id = ?", status.HomeworkAnswerStatusID).
			Updates(map[string]interface{}{
				"homework_answer_status_status": constants.AnswerChecked,
				"homework_answer_status_score":  stored,
			}).Error
		if err != nil {
			return resperr.InternalServerError
		}

		relatedID := homework.HomeworkID
		_, err = msgService.FanOut(tx,
			msgService.SingleSender(status.HomeworkAnswerStatusClassID, reviewerMemberID),
			constants.MsgHomeworkComment, &relatedID,
			fmt.Sprintf("Homework graded: %s", homework.HomeworkTitle),
			[]msgService.Recipient{{
				ClassID:     status.HomeworkAnswerStatusClassID,
				StudentName: status.HomeworkAnswerStatusStudentName,
			}})
		return err
	})
}

// EvaluateInput is the batch evaluation payload. An empty score returns the
// answers for rework.
type EvaluateInput struct {
	AnswerIDs []uuid.UUID
	Comment   string
	Score     string
}

// Evaluate reviews a batch of answers with one shared comment. Rejection
// (empty score) is capped per student; every cap violation is collected
// before anything is written.
func (s *AnswerService) Evaluate(reviewerUserID, reviewerMemberID, reviewerClassID uuid.UUID, in EvaluateInput) error {
	if len(in.AnswerIDs) == 0 {
		return resperr.MissingParams
	}
	if in.Score != "" && !constants.IsValidScore(in.Score) {
		return resperr.InvalidParams.WithMessage("invalid score")
	}
	rejecting := in.Score == ""

	return s.DB.Transaction(func(tx *gorm.DB) error {
		type chain struct {
			answer model.HomeworkAnswerModel
			status model.HomeworkAnswerStatusModel
		}
		chains := make([]chain, 0, len(in.AnswerIDs))
		lockedStatus := make(map[uuid.UUID]struct{})

		for _, answerID := range in.AnswerIDs {
			answer, status, homework, err := s.loadAnswerChain(tx, answerID)
			if err != nil {
				return err
			}
			if homework.HomeworkPublisherID != reviewerUserID ||
				status.HomeworkAnswerStatusClassID != reviewerClassID {
				return resperr.InvalidParams.WithMessage("answer out of reach")
			}
			if answer.HomeworkAnswerEvaluationID != nil || answer.HomeworkAnswerCheckID != nil {
				return resperr.InvalidParams.WithMessage("answer already reviewed")
			}
			if status.HomeworkAnswerStatusStatus != constants.AnswerSubmitted &&
				status.HomeworkAnswerStatusStatus != constants.AnswerCorrected {
				return resperr.InvalidParams
			}
			if rejecting && status.HomeworkAnswerStatusStatus == constants.AnswerCorrected {
				return resperr.InvalidParams.WithMessage("corrected answers cannot be returned")
			}
			if _, dup := lockedStatus[status.HomeworkAnswerStatusID]; dup {
				return resperr.InvalidParams.WithMessage("duplicate answer target")
			}
			lockedStatus[status.HomeworkAnswerStatusID] = struct{}{}
			chains = append(chains, chain{answer: *answer, status: *status})
		}

		if rejecting {
			var overLimit []string
			for _, c := range chains {
				var rejections int64
				err := tx.Model(&model.HomeworkAnswerModel{}).
					Joins("JOIN homework_evaluates ON homework_evaluates.homework_evaluate_id = homework_answers.homework_answer_evaluation_id").
					Where("homework_answers.homework_answer_status_id = ?", c.status.HomeworkAnswerStatusID).
					Where("homework_evaluates.homework_evaluate_rejected = ?", true).
					Count(&rejections).Error
				if err != nil {
					return resperr.InternalServerError
				}
				if rejections >= constants.MaxRejectionTimes {
					overLimit = append(overLimit, c.status.HomeworkAnswerStatusStudentName)
				}
			}
			if len(overLimit) > 0 {
				return resperr.RejectionTimesOutOfLimit.WithData(overLimit)
			}
		}

		evaluate := model.HomeworkEvaluateModel{
			HomeworkEvaluateReviewerMemberID: reviewerMemberID,
			HomeworkEvaluateComment:          in.Comment,
			HomeworkEvaluateRejected:         rejecting,
		}
		if !rejecting {
			score := in.Score
			evaluate.HomeworkEvaluateScore = &score
		}
		if err := tx.Create(&evaluate).Error; err != nil {
			return resperr.InternalServerError
		}

		recipients := make([]msgService.Recipient, 0, len(chains))
		var relatedID uuid.UUID
		for _, c := range chains {
			err := tx.Model(&model.HomeworkAnswerModel{}).
				Where("homework_answer_id = ?", c.answer.HomeworkAnswerID).
				Update("homework_answer_evaluation_id", evaluate.HomeworkEvaluateID).Error
			if err != nil {
				return resperr.InternalServerError
			}

			updates := map[string]interface{}{}
			if rejecting {
				updates["homework_answer_status_status"] = constants.AnswerNeedToRework
			} else {
				updates["homework_answer_status_status"] = constants.AnswerChecked
				updates["homework_answer_status_score"] = in.Score
			}
			err = tx.Model(&model.HomeworkAnswerStatusModel{}).
				Where("homework_answer_status_id = ?", c.status.HomeworkAnswerStatusID).
				Updates(updates).Error
			if err != nil {
				return resperr.InternalServerError
			}

			recipients = append(recipients, msgService.Recipient{
				ClassID:     c.status.HomeworkAnswerStatusClassID,
				StudentName: c.status.HomeworkAnswerStatusStudentName,
			})
			relatedID = c.answer.HomeworkAnswerHomeworkID
		}

		_, err := msgService.FanOut(tx,
			msgService.SingleSender(reviewerClassID, reviewerMemberID),
			constants.MsgHomeworkComment, &relatedID, in.Comment, recipients)
		return err
	})
}

// loadAnswerChain loads an answer, its locked status row and its homework.
func (s *AnswerService) loadAnswerChain(tx *gorm.DB, answerID uuid.UUID) (*model.HomeworkAnswerModel, *model.HomeworkAnswerStatusModel, *model.HomeworkModel, error) {
	var answer model.HomeworkAnswerModel
	err := tx.
		Where("homework_answer_id = ?", answerID).
		First(&answer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, resperr.InvalidParams
		}
		return nil, nil, nil, resperr.InternalServerError
	}
	var status model.HomeworkAnswerStatusModel
	err = tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("homework_answer_status_id = ?", answer.HomeworkAnswerStatusID).
		First(&status).Error
	if err != nil {
		return nil, nil, nil, resperr.InternalServerError
	}
	var homework model.HomeworkModel
	err = tx.
		Where("homework_id = ?", answer.HomeworkAnswerHomeworkID).
		First(&homework).Error
	if err != nil {
		return nil, nil, nil, resperr.InternalServerError
	}
	return &answer, &status, &homework, nil
}
