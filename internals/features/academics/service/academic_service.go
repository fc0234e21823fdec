// file: internals/features/academics/service/academic_service.go
package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"classmanager_backend/internals/constants"
	"classmanager_backend/internals/features/academics/model"
	"classmanager_backend/internals/resperr"
)

// AcademicService serves the reference data the join and homework flows
// validate against: subjects and sys-config enumerations.
type AcademicService struct {
	DB *gorm.DB
}

func NewAcademicService(db *gorm.DB) *AcademicService {
	return &AcademicService{DB: db}
}

func (s *AcademicService) Subjects() ([]model.SubjectModel, error) {
	var subjects []model.SubjectModel
	err := s.DB.Order("subject_name ASC").Find(&subjects).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	return subjects, nil
}

func (s *AcademicService) Subject(subjectID uuid.UUID) (*model.SubjectModel, error) {
	var subject model.SubjectModel
	err := s.DB.
		Where("subject_id = ?", subjectID).
		First(&subject).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resperr.InvalidSubject
		}
		return nil, resperr.InternalServerError
	}
	return &subject, nil
}

// FamilyRelations lists the accepted guardian-relation entries.
func (s *AcademicService) FamilyRelations() ([]model.SysConfigModel, error) {
	return s.configEntries(constants.ConfigFamilyRelation)
}

// StudyStages lists the grade-stage entries.
func (s *AcademicService) StudyStages() ([]model.SysConfigModel, error) {
	return s.configEntries(constants.ConfigStudyStage)
}

func (s *AcademicService) configEntries(kind string) ([]model.SysConfigModel, error) {
	var entries []model.SysConfigModel
	err := s.DB.
		Where("sys_config_type = ?", kind).
		Order("sys_config_key ASC").
		Find(&entries).Error
	if err != nil {
		return nil, resperr.InternalServerError
	}
	return entries, nil
}
