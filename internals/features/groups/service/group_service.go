// file: internals/features/groups/service/group_service.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"classmanager_backend/internals/constants"
	classModel "classmanager_backend/internals/features/classes/model"
	"classmanager_backend/internals/features/groups/model"
	"classmanager_backend/internals/resperr"
)

// GroupService manages named student subsets within one class. Membership is
// reconciled by student name against the class roster; names outside the
// roster never enter a group.
type GroupService struct {
	DB *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{DB: db}
}

// checkNamesInClass verifies every name belongs to an enrolled student of
// the class.
func (s *GroupService) checkNamesInClass(tx *gorm.DB, classID uuid.UUID, names []string) error {
	if len(names) == 0 {
		return nil
	}
	var count int64
	err := tx.Model(&classModel.ClassMemberModel{}).
		Distinct("class_member_name").
		Where("class_member_class_id = ?", classID).
		Where("class_member_role = ?", constants.RoleStudent).
		Where("class_member_is_deleted = ?", false).
		Where("class_member_name IN ?", names).
		Count(&count).Error
	if err != nil {
		return resperr.InternalServerError
	}
	if count != int64(len(names)) {
		return resperr.InvalidParams.WithMessage("some students are not in this class")
	}
	return nil
}

// Create adds a group with an initial member list.
func (s *GroupService) Create(classID uuid.UUID, name string, studentNames []string) (*model.GroupModel, error) {
	studentNames = dedupNames(studentNames)
	var group model.GroupModel
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.GroupModel{}).
			Where("group_class_id = ?", classID).
			Where("group_name = ?", name).
			Count(&count).Error
		if err != nil {
			return resperr.InternalServerError
		}
		if count > 0 {
			return resperr.GroupExists
		}
		if err := s.checkNamesInClass(tx, classID, studentNames); err != nil {
			return err
		}

		group = model.GroupModel{
			GroupClassID: classID,
			GroupName:    name,
		}
		if err := tx.Create(&group).Error; err != nil {
			return resperr.InternalServerError
		}
		return s.insertMembers(tx, group.GroupID, studentNames)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Update renames a group and reconciles its member list: names missing from
// the new list are removed, new ones inserted.
func (s *GroupService) Update(classID, groupID uuid.UUID, name string, studentNames []string) error {
	studentNames = dedupNames(studentNames)
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var group model.GroupModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("group_id = ?", groupID).
			Where("group_class_id = ?", classID).
			First(&group).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resperr.GroupNotFound
			}
			return resperr.InternalServerError
		}

		if name != group.GroupName {
			var count int64
			err := tx.Model(&model.GroupModel{}).
				Where("group_class_id = ?", classID).
				Where("group_name = ?", name).
				Where("group_id <> ?", groupID).
				Count(&count).Error
			if err != nil {
				return resperr.InternalServerError
			}
			if count > 0 {
				return resperr.GroupExists
			}
			if err := tx.Model(&model.GroupModel{}).
				Where("group_id = ?", groupID).
				Update("group_name", name).Error; err != nil {
				return resperr.InternalServerError
			}
		}

		if err := s.checkNamesInClass(tx, classID, studentNames); err != nil {
			return err
		}

		deleteQuery := tx.Where("group_member_group_id = ?", groupID)
		if len(studentNames) > 0 {
			deleteQuery = deleteQuery.Where("group_member_student_name NOT IN ?", studentNames)
		}
		if err := deleteQuery.Delete(&model.GroupMemberModel{}).Error; err != nil {
			return resperr.InternalServerError
		}
		return s.insertMembers(tx, groupID, studentNames)
	})
}

// Delete removes a group and its member rows. Groups referenced by past
// homework scopes stay resolvable through the assign rows, so a hard delete
// here is safe.
func (s *GroupService) Delete(classID, groupID uuid.UUID) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Where("group_id = ?", groupID).
			Where("group_class_id = ?", classID).
			Delete(&model.GroupModel{})
		if res.Error != nil {
			return resperr.InternalServerError
		}
		if res.RowsAffected == 0 {
			return resperr.GroupNotFound
		}
		if err := tx.
			Where("group_member_group_id = ?", groupID).
			Delete(&model.GroupMemberModel{}).Error; err != nil {
			return resperr.InternalServerError
		}
		return nil
	})
}

func (s *GroupService) insertMembers(tx *gorm.DB, groupID uuid.UUID, names []string) error {
	if len(names) == 0 {
		return nil
	}
	rows := make([]model.GroupMemberModel, 0, len(names))
	for _, n := range names {
		rows = append(rows, model.GroupMemberModel{
			GroupMemberGroupID:     groupID,
			GroupMemberStudentName: n,
		})
	}
	if err := tx.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_member_group_id"}, {Name: "group_member_student_name"}},
			DoNothing: true,
		}).
		Create(&rows).Error; err != nil {
		return resperr.InternalServerError
	}
	return nil
}

// GroupView is a group plus its member names.
type GroupView struct {
	GroupID      uuid.UUID `json:"group_id"`
	Name         string    `json:"name"`
	StudentNames []string  `json:"student_names"`
}

// List returns the groups of a class with their member names.
func (s *GroupService) List(classID uuid.UUID) ([]GroupView, error) {
	var groups []model.GroupModel
	err := s.DB.
		Where("group_class_id = ?", classID).
		Order("group_created_at ASC").
		Find(&groups).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		names, err := s.MemberNames(g.GroupID)
		if err != nil {
			return nil, err
		}
		views = append(views, GroupView{
			GroupID:      g.GroupID,
			Name:         g.GroupName,
			StudentNames: names,
		})
	}
	return views, nil
}

// Get returns one group of a class with its member names.
func (s *GroupService) Get(classID, groupID uuid.UUID) (*GroupView, error) {
	var group model.GroupModel
	err := s.DB.
		Where("group_id = ?", groupID).
		Where("group_class_id = ?", classID).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.GroupNotFound
		}
		return nil, resperr.InternalServerError
	}
	names, err := s.MemberNames(groupID)
	if err != nil {
		return nil, err
	}
	return &GroupView{GroupID: group.GroupID, Name: group.GroupName, StudentNames: names}, nil
}

// MemberNames lists a group's student names.
func (s *GroupService) MemberNames(groupID uuid.UUID) ([]string, error) {
	var names []string
	err := s.DB.Model(&model.GroupMemberModel{}).
		Where("group_member_group_id = ?", groupID).
		Order("group_member_student_name ASC").
		Pluck("group_member_student_name", &names).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	return names, nil
}

func dedupNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
