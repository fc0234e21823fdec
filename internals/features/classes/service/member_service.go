// file: internals/features/classes/service/member_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmanager_backend/internals/constants"
	classModel "classmanager_backend/internals/features/classes/model"
	userModel "classmanager_backend/internals/features/users/model"
	"classmanager_backend/internals/resperr"
)

// MemberService covers membership lifecycle after joining: switching the
// active class context, editing and removing members, and the roster /
// join-request queries teachers work from.
type MemberService struct {
	DB *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{DB: db}
}

func (s *MemberService) activeMember(db *gorm.DB, memberID uuid.UUID) (*classModel.ClassMemberModel, error) {
	var member classModel.ClassMemberModel
	err := db.
		Where("class_member_id = ?", memberID).
		Where("class_member_is_deleted = ?", false).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.NotClassMember
		}
		return nil, resperr.InternalServerError
	}
	return &member, nil
}

// SwitchCurrentClass repoints the user's acting membership. The target must
// be an active membership of the same user.
func (s *MemberService) SwitchCurrentClass(userID, memberID uuid.UUID) error {
	member, err := s.activeMember(s.DB, memberID)
	if err != nil {
		return err
	}
	if member.ClassMemberUserID != userID {
		return resperr.AuthorizationDenied
	}
	if err := s.DB.Model(&userModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_current_member_id", memberID).Error; err != nil {
		return resperr.InternalServerError
	}
	return nil
}

// DeleteMember soft-deletes a membership. A headteacher may remove anyone in
// the class except themselves; everyone else may only quit their own
// membership. If the removed membership was someone's current context it is
// repointed to another active membership, or cleared.
func (s *MemberService) DeleteMember(operatorMemberID uuid.UUID, operatorRole string, operatorClassID uuid.UUID, targetMemberID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var target classModel.ClassMemberModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("class_member_id = ?", targetMemberID).
			Where("class_member_class_id = ?", operatorClassID).
			Where("class_member_is_deleted = ?", false).
			First(&target).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resperr.NotClassMember
			}
			return resperr.InternalServerError
		}

		if target.ClassMemberRole == constants.RoleHeadteacher {
			return resperr.HeadteacherDelete
		}
		if operatorRole != constants.RoleHeadteacher && target.ClassMemberID != operatorMemberID {
			return resperr.AuthorizationDenied
		}

		err = tx.Model(&classModel.ClassMemberModel{}).
			Where("class_member_id = ?", target.ClassMemberID).
			Updates(map[string]interface{}{
				"class_member_is_deleted": true,
				"class_member_updated_at": time.Now(),
			}).Error
		if err != nil {
			return resperr.InternalServerError
		}
		return s.repointCurrentMember(tx, target.ClassMemberUserID, target.ClassMemberID)
	})
}

// repointCurrentMember moves a user's current membership off removedID onto
// any other active membership, or NULL when none remain.
func (s *MemberService) repointCurrentMember(tx *gorm.DB, userID, removedID uuid.UUID) error {
	var user userModel.UserModel
	if err := tx.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return resperr.InternalServerError
	}
	if user.UserCurrentMemberID == nil || *user.UserCurrentMemberID != removedID {
		return nil
	}
	var next classModel.ClassMemberModel
	err := tx.
		Where("class_member_user_id = ?", userID).
		Where("class_member_is_deleted = ?", false).
		Order("class_member_created_at ASC").
		First(&next).Error
	var nextID *uuid.UUID
	switch {
	case err == nil:
		nextID = &next.ClassMemberID
	case errors.Is(err, gorm.ErrRecordNotFound):
		nextID = nil
	default:
		return resperr.InternalServerError
	}
	if err := tx.Model(&userModel.UserModel{}).
		Where("user_id = ?", userID).
		Update("user_current_member_id", nextID).Error; err != nil {
		return resperr.InternalServerError
	}
	return nil
}

// MemberUpdate carries the editable membership fields. Nil means keep.
type MemberUpdate struct {
	Name           *string
	Telephone      *string
	FamilyRelation *string
	SubjectID      *uuid.UUID
}

// UpdateMember edits a membership. A member edits themselves; a headteacher
// may edit anyone in the class. Family relation applies to students only,
// subject to teachers only, and a subject change re-runs the one-teacher-
// per-subject guard.
func (s *MemberService) UpdateMember(operatorMemberID uuid.UUID, operatorRole string, operatorClassID uuid.UUID, targetMemberID uuid.UUID, upd MemberUpdate) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var target classModel.ClassMemberModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("class_member_id = ?", targetMemberID).
			Where("class_member_class_id = ?", operatorClassID).
			Where("class_member_is_deleted = ?", false).
			First(&target).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resperr.NotClassMember
			}
			return resperr.InternalServerError
		}
		if operatorRole != constants.RoleHeadteacher && target.ClassMemberID != operatorMemberID {
			return resperr.AuthorizationDenied
		}

		updates := map[string]interface{}{
			"class_member_updated_at": time.Now(),
		}
		if upd.Name != nil {
			updates["class_member_name"] = *upd.Name
		}
		if upd.Telephone != nil {
			updates["class_member_telephone"] = *upd.Telephone
		}
		if upd.FamilyRelation != nil {
			if target.ClassMemberRole != constants.RoleStudent {
				return resperr.InvalidParams
			}
			updates["class_member_family_relation"] = *upd.FamilyRelation
		}
		if upd.SubjectID != nil {
			if !constants.IsTeachingRole(target.ClassMemberRole) {
				return resperr.InvalidParams
			}
			var incumbent classModel.ClassMemberModel
			err := tx.
				Where("class_member_class_id = ?", operatorClassID).
				Where("class_member_subject_id = ?", *upd.SubjectID).
				Where("class_member_role IN ?", []string{constants.RoleHeadteacher, constants.RoleTeacher}).
				Where("class_member_is_deleted = ?", false).
				Where("class_member_id <> ?", target.ClassMemberID).
				Take(&incumbent).Error
			if err == nil {
				return resperr.TeacherExists.WithMessage("subject already taught by %s", incumbent.ClassMemberName)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return resperr.InternalServerError
			}
			updates["class_member_subject_id"] = *upd.SubjectID
		}

		if err := tx.Model(&classModel.ClassMemberModel{}).
			Where("class_member_id = ?", target.ClassMemberID).
			Updates(updates).Error; err != nil {
			return resperr.InternalServerError
		}
		return nil
	})
}

// ToggleAudit flips whether the class audits incoming join requests.
func (s *MemberService) ToggleAudit(classID uuid.UUID, needAudit bool) error {
	if err := s.DB.Model(&classModel.ClassModel{}).
		Where("class_id = ?", classID).
		Where("class_is_deleted = ?", false).
		Update("class_need_audit", needAudit).Error; err != nil {
		return resperr.InternalServerError
	}
	return nil
}

// FamilyMembers lists the guardian memberships sharing one student name in a
// class, i.e. the child's family as the roster sees it.
func (s *MemberService) FamilyMembers(classID uuid.UUID, studentName string) ([]classModel.ClassMemberModel, error) {
	var members []classModel.ClassMemberModel
	err := s.DB.
		Where("class_member_class_id = ?", classID).
		Where("class_member_name = ?", studentName).
		Where("class_member_role = ?", constants.RoleStudent).
		Where("class_member_is_deleted = ?", false).
		Order("class_member_created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	return members, nil
}

// StudentNames returns the distinct student names of a class, the unit the
// homework and messaging fan-out address.
func (s *MemberService) StudentNames(classID uuid.UUID) ([]string, error) {
	var names []string
	err := s.DB.Model(&classModel.ClassMemberModel{}).
		Distinct("class_member_name").
		Where("class_member_class_id = ?", classID).
		Where("class_member_role = ?", constants.RoleStudent).
		Where("class_member_is_deleted = ?", false).
		Order("class_member_name ASC").
		Pluck("class_member_name", &names).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	return names, nil
}

// Roster lists every active membership of a class, teachers first.
func (s *MemberService) Roster(classID uuid.UUID) ([]classModel.ClassMemberModel, error) {
	var members []classModel.ClassMemberModel
	err := s.DB.
		Where("class_member_class_id = ?", classID).
		Where("class_member_is_deleted = ?", false).
		Order("class_member_role ASC, class_member_created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	return members, nil
}

// JoinRequests splits a class's applications into the reviewing queue and
// the resolved history, newest first in both.
func (s *MemberService) JoinRequests(classID uuid.UUID) (reviewing, reviewed []classModel.ClassApplicationModel, err error) {
	var applies []classModel.ClassApplicationModel
	dbErr := s.DB.
		Where("class_application_class_id = ?", classID).
		Order("class_application_start_time DESC").
		Find(&applies).Error
	if dbErr != nil {
		return nil, nil, resperr.InternalServerError
	}
	reviewing = make([]classModel.ClassApplicationModel, 0)
	reviewed = make([]classModel.ClassApplicationModel, 0)
	for _, apply := range applies {
		if apply.ClassApplicationResult == constants.ApplyReviewing {
			reviewing = append(reviewing, apply)
		} else {
			reviewed = append(reviewed, apply)
		}
	}
	return reviewing, reviewed, nil
}

// MyApplications lists a user's own join requests across classes.
func (s *MemberService) MyApplications(userID uuid.UUID) ([]classModel.ClassApplicationModel, error) {
	var applies []classModel.ClassApplicationModel
	err := s.DB.
		Where("class_application_proposer_id = ?", userID).
		Order("class_application_start_time DESC").
		Find(&applies).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	return applies, nil
}

// ClassCodeByPhone recovers the class code for the class whose contact phone
// matches, for headteachers who lost the invite.
func (s *MemberService) ClassCodeByPhone(telephone string) (int64, error) {
	var class classModel.ClassModel
	err := s.DB.
		Where("class_contact_phone = ?", telephone).
		Where("class_is_deleted = ?", false).
		First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, resperr.InvalidInvitation
		}
		return 0, resperr.InternalServerError
	}
	return class.ClassCode, nil
}

// InvitationInfo describes a class to someone holding its join code.
type InvitationInfo struct {
	ClassID         uuid.UUID `json:"class_id"`
	ClassCode       int64     `json:"class_code"`
	Grade           int       `json:"grade"`
	Number          int       `json:"number"`
	NeedAudit       bool      `json:"need_audit"`
	HeadteacherName string    `json:"headteacher_name"`
	StudentCount    int64     `json:"student_count"`
}

// Invitation resolves a class code into the card shown before joining.
func (s *MemberService) Invitation(code int64) (*InvitationInfo, error) {
	var class classModel.ClassModel
	err := s.DB.
		Where("class_code = ?", code).
		Where("class_is_deleted = ?", false).
		First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.InvalidInvitation
		}
		return nil, resperr.InternalServerError
	}

	info := InvitationInfo{
		ClassID:   class.ClassID,
		ClassCode: class.ClassCode,
		Grade:     class.ClassGrade,
		Number:    class.ClassNumber,
		NeedAudit: class.ClassNeedAudit,
	}

	var head classModel.ClassMemberModel
	err = s.DB.
		Where("class_member_class_id = ?", class.ClassID).
		Where("class_member_role = ?", constants.RoleHeadteacher).
		Where("class_member_is_deleted = ?", false).
		Take(&head).Error
	if err == nil {
		info.HeadteacherName = head.ClassMemberName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, resperr.InternalServerError
	}

	err = s.DB.Model(&classModel.ClassMemberModel{}).
		Distinct("class_member_name").
		Where("class_member_class_id = ?", class.ClassID).
		Where("class_member_role = ?", constants.RoleStudent).
		Where("class_member_is_deleted = ?", false).
		Count(&info.StudentCount).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	return &info, nil
}
