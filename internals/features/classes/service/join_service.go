// file: internals/features/classes/service/join_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmanager_backend/internals/constants"
	academicModel "classmanager_backend/internals/features/academics/model"
	classModel "classmanager_backend/internals/features/classes/model"
	userModel "classmanager_backend/internals/features/users/model"
	"classmanager_backend/internals/resperr"
)

// JoinService drives the class join workflow: class-code validation, the
// teacher and student join paths (direct membership vs audited application),
// resubmission, and review.
type JoinService struct {
	DB *gorm.DB
}

func NewJoinService(db *gorm.DB) *JoinService {
	return &JoinService{DB: db}
}

// ValidateClassCode looks up a non-deleted class by its join code.
func (s *JoinService) ValidateClassCode(code int64) (*classModel.ClassModel, error) {
	var class classModel.ClassModel
	err := s.DB.
		Where("class_code = ?", code).
		Where("class_is_deleted = ?", false).
		First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.InvalidCode
		}
		return nil, resperr.InternalServerError
	}
	return &class, nil
}

func (s *JoinService) classByID(db *gorm.DB, classID uuid.UUID) (*classModel.ClassModel, error) {
	var class classModel.ClassModel
	err := db.
		Where("class_id = ?", classID).
		Where("class_is_deleted = ?", false).
		First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.InvalidCode
		}
		return nil, resperr.InternalServerError
	}
	return &class, nil
}

// SubjectExists validates a subject reference.
func (s *JoinService) SubjectExists(subjectID uuid.UUID) error {
	var count int64
	if err := s.DB.Model(&academicModel.SubjectModel{}).
		Where("subject_id = ?", subjectID).
		Count(&count).Error; err != nil {
		return resperr.InternalServerError
	}
	if count == 0 {
		return resperr.InvalidSubject
	}
	return nil
}

// FamilyRelationExists validates a family-relation reference against the
// sys config entries.
func (s *JoinService) FamilyRelationExists(relation string) error {
	var count int64
	if err := s.DB.Model(&academicModel.SysConfigModel{}).
		Where("sys_config_type = ?", constants.ConfigFamilyRelation).
		Where("sys_config_key = ?", relation).
		Count(&count).Error; err != nil {
		return resperr.InternalServerError
	}
	if count == 0 {
		return resperr.InvalidFamilyRelation
	}
	return nil
}

// TeacherJoin runs the teacher join path against a validated class.
func (s *JoinService) TeacherJoin(userID uuid.UUID, name string, subjectID uuid.UUID, telephone string, class *classModel.ClassModel) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.teacherJoinTx(tx, userID, name, subjectID, telephone, class, uuid.Nil)
	})
}

// excludeApplyID skips one application from the duplicate-apply guards, so
// review materialization does not trip over the application being reviewed.
func (s *JoinService) teacherJoinTx(tx *gorm.DB, userID uuid.UUID, name string, subjectID uuid.UUID, telephone string, class *classModel.ClassModel, excludeApplyID uuid.UUID) error {
	// a user may hold at most one teaching membership anywhere
	var incumbent struct {
		SubjectName string
	}
	err := tx.Model(&classModel.ClassMemberModel{}).
		Select("subjects.subject_name").
		Joins("JOIN subjects ON subjects.subject_id = class_members.class_member_subject_id").
		Where("class_members.class_member_user_id = ?", userID).
		Where("class_members.class_member_role IN ?", []string{constants.RoleHeadteacher, constants.RoleTeacher}).
		Where("class_members.class_member_is_deleted = ?", false).
		Take(&incumbent).Error
	if err == nil {
		return resperr.DuplicateTeacher.WithMessage("already teaching %s", incumbent.SubjectName)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return resperr.InternalServerError
	}

	// contact-phone match: instant headteacher, bypassing audit, as long as
	// the seat is still open
	if telephone != "" && telephone == class.ClassContactPhone {
		var headCount int64
		err := tx.Model(&classModel.ClassMemberModel{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("class_member_class_id = ?", class.ClassID).
			Where("class_member_role = ?", constants.RoleHeadteacher).
			Where("class_member_is_deleted = ?", false).
			Count(&headCount).Error
		if err != nil {
			return resperr.InternalServerError
		}
		if headCount == 0 {
			return s.createMember(tx, &classModel.ClassMemberModel{
				ClassMemberClassID:   class.ClassID,
				ClassMemberUserID:    userID,
				ClassMemberName:      name,
				ClassMemberRole:      constants.RoleHeadteacher,
				ClassMemberSubjectID: &subjectID,
				ClassMemberTelephone: telephone,
			})
		}
		// seat taken: fall through to the ordinary teacher path
	}

	// one live application per (user, class) for teachers
	applyQuery := tx.Model(&classModel.ClassApplicationModel{}).
		Where("class_application_proposer_id = ?", userID).
		Where("class_application_class_id = ?", class.ClassID).
		Where("class_application_subject_id IS NOT NULL").
		Where("class_application_result <> ?", constants.ApplyRejected)
	if excludeApplyID != uuid.Nil {
		applyQuery = applyQuery.Where("class_application_id <> ?", excludeApplyID)
	}
	var applyCount int64
	err = applyQuery.Count(&applyCount).Error
	if err != nil {
		return resperr.InternalServerError
	}
	if applyCount > 0 {
		return resperr.DuplicateApply
	}

	// one active teacher per (class, subject)
	var subjectIncumbent classModel.ClassMemberModel
	err = tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("class_member_class_id = ?", class.ClassID).
		Where("class_member_subject_id = ?", subjectID).
		Where("class_member_role IN ?", []string{constants.RoleHeadteacher, constants.RoleTeacher}).
		Where("class_member_is_deleted = ?", false).
		Take(&subjectIncumbent).Error
	if err == nil {
		return resperr.TeacherExists.WithMessage("subject already taught by %s", subjectIncumbent.ClassMemberName)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return resperr.InternalServerError
	}

	if !class.ClassNeedAudit {
		return s.createMember(tx, &classModel.ClassMemberModel{
			ClassMemberClassID:   class.ClassID,
			ClassMemberUserID:    userID,
			ClassMemberName:      name,
			ClassMemberRole:      constants.RoleTeacher,
			ClassMemberSubjectID: &subjectID,
			ClassMemberTelephone: telephone,
		})
	}

	apply := classModel.ClassApplicationModel{
		ClassApplicationProposerName: name,
		ClassApplicationProposerID:   userID,
		ClassApplicationClassID:      class.ClassID,
		ClassApplicationSubjectID:    &subjectID,
		ClassApplicationTelephone:    telephone,
		ClassApplicationResult:       constants.ApplyReviewing,
	}
	if err := tx.Create(&apply).Error; err != nil {
		return resperr.InternalServerError
	}
	return nil
}

// StudentJoin runs the student join path against a validated class.
func (s *JoinService) StudentJoin(userID uuid.UUID, name, familyRelation, telephone string, class *classModel.ClassModel) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.studentJoinTx(tx, userID, name, familyRelation, telephone, class, uuid.Nil)
	})
}

func (s *JoinService) studentJoinTx(tx *gorm.DB, userID uuid.UUID, name, familyRelation, telephone string, class *classModel.ClassModel, excludeApplyID uuid.UUID) error {
	// same user, same student name, anywhere active: already in class
	var memberCount int64
	err := tx.Model(&classModel.ClassMemberModel{}).
		Where("class_member_user_id = ?", userID).
		Where("class_member_name = ?", name).
		Where("class_member_is_deleted = ?", false).
		Count(&memberCount).Error
	if err != nil {
		return resperr.InternalServerError
	}
	if memberCount > 0 {
		return resperr.DuplicateMember
	}

	// live student applications of this user in this class
	pendingQuery := tx.
		Where("class_application_proposer_id = ?", userID).
		Where("class_application_class_id = ?", class.ClassID).
		Where("class_application_subject_id IS NULL").
		Where("class_application_result <> ?", constants.ApplyRejected)
	if excludeApplyID != uuid.Nil {
		pendingQuery = pendingQuery.Where("class_application_id <> ?", excludeApplyID)
	}
	var applies []classModel.ClassApplicationModel
	err = pendingQuery.Find(&applies).Error
	if err != nil {
		return resperr.InternalServerError
	}
	for _, apply := range applies {
		if apply.ClassApplicationProposerName == name {
			return resperr.DuplicateApply
		}
	}
	if len(applies) >= constants.MaxPendingAppliesPerClass {
		return resperr.TooManyApply
	}

	if !class.ClassNeedAudit {
		relation := familyRelation
		return s.createMember(tx, &classModel.ClassMemberModel{
			ClassMemberClassID:        class.ClassID,
			ClassMemberUserID:         userID,
			ClassMemberName:           name,
			ClassMemberRole:           constants.RoleStudent,
			ClassMemberFamilyRelation: &relation,
			ClassMemberTelephone:      telephone,
		})
	}

	relation := familyRelation
	apply := classModel.ClassApplicationModel{
		ClassApplicationProposerName:   name,
		ClassApplicationProposerID:     userID,
		ClassApplicationClassID:        class.ClassID,
		ClassApplicationFamilyRelation: &relation,
		ClassApplicationTelephone:      telephone,
		ClassApplicationResult:         constants.ApplyReviewing,
	}
	if err := tx.Create(&apply).Error; err != nil {
		return resperr.InternalServerError
	}
	return nil
}

// Resubmit re-runs the join path of a previously submitted application with
// its stored fields, so a rejected applicant can retry without re-entering
// data.
func (s *JoinService) Resubmit(userID, applyID uuid.UUID) error {
	var apply classModel.ClassApplicationModel
	err := s.DB.
		Where("class_application_id = ?", applyID).
		Where("class_application_proposer_id = ?", userID).
		First(&apply).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resperr.InvalidClassApply
		}
		return resperr.InternalServerError
	}

	class, err := s.classByID(s.DB, apply.ClassApplicationClassID)
	if err != nil {
		return err
	}

	if apply.ClassApplicationSubjectID != nil {
		if err := s.SubjectExists(*apply.ClassApplicationSubjectID); err != nil {
			return err
		}
		return s.TeacherJoin(userID, apply.ClassApplicationProposerName,
			*apply.ClassApplicationSubjectID, apply.ClassApplicationTelephone, class)
	}

	relation := ""
	if apply.ClassApplicationFamilyRelation != nil {
		relation = *apply.ClassApplicationFamilyRelation
	}
	if err := s.FamilyRelationExists(relation); err != nil {
		return err
	}
	return s.StudentJoin(userID, apply.ClassApplicationProposerName,
		relation, apply.ClassApplicationTelephone, class)
}

// Review resolves a pending application. Passing materializes the
// membership inside the same transaction; a conflict surfaced by the
// membership insert rolls the review back and the application stays
// reviewing.
func (s *JoinService) Review(reviewerMemberID uuid.UUID, reviewerName string, reviewerClassID uuid.UUID, applyID uuid.UUID, passed bool) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var apply classModel.ClassApplicationModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("class_application_id = ?", applyID).
			Where("class_application_class_id = ?", reviewerClassID).
			First(&apply).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resperr.InvalidParams
			}
			return resperr.InternalServerError
		}
		if apply.ClassApplicationResult != constants.ApplyReviewing {
			return resperr.ReviewedApply
		}

		result := constants.ApplyRejected
		if passed {
			result = constants.ApplyPassed
		}
		now := time.Now()
		updates := map[string]interface{}{
			"class_application_result":            result,
			"class_application_auditor_name":      reviewerName,
			"class_application_auditor_member_id": reviewerMemberID,
			"class_application_end_time":          now,
		}
		if err := tx.Model(&classModel.ClassApplicationModel{}).
			Where("class_application_id = ?", applyID).
			Updates(updates).Error; err != nil {
			return resperr.InternalServerError
		}

		if !passed {
			return nil
		}

		class, err := s.classByID(tx, apply.ClassApplicationClassID)
		if err != nil {
			return err
		}
		// re-run the join guards against current state before materializing
		if apply.ClassApplicationSubjectID != nil {
			bypass := *class
			bypass.ClassNeedAudit = false
			return s.teacherJoinTx(tx, apply.ClassApplicationProposerID,
				apply.ClassApplicationProposerName, *apply.ClassApplicationSubjectID,
				apply.ClassApplicationTelephone, &bypass, apply.ClassApplicationID)
		}
		relation := ""
		if apply.ClassApplicationFamilyRelation != nil {
			relation = *apply.ClassApplicationFamilyRelation
		}
		bypass := *class
		bypass.ClassNeedAudit = false
		return s.studentJoinTx(tx, apply.ClassApplicationProposerID,
			apply.ClassApplicationProposerName, relation,
			apply.ClassApplicationTelephone, &bypass, apply.ClassApplicationID)
	})
}

// createMember inserts a membership and points the user's current
// membership at it when the user has none yet.
func (s *JoinService) createMember(tx *gorm.DB, member *classModel.ClassMemberModel) error {
	if err := tx.Create(member).Error; err != nil {
		return resperr.InternalServerError
	}
	err := tx.Model(&userModel.UserModel{}).
		Where("user_id = ?", member.ClassMemberUserID).
		Where("user_current_member_id IS NULL").
		Update("user_current_member_id", member.ClassMemberID).Error
	if err != nil {
		return resperr.InternalServerError
	}
	return nil
}
