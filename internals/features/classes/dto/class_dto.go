// file: internals/features/classes/dto/class_dto.go
package dto

import "github.com/google/uuid"

// TeacherJoinRequest is the teacher join payload. Captcha proof accompanies
// the phone so only its owner can claim the headteacher fast path.
type TeacherJoinRequest struct {
	ClassCode int64     `json:"class_code" validate:"required"`
	Name      string    `json:"name" validate:"required,max=10"`
	SubjectID uuid.UUID `json:"subject_id" validate:"required"`
	Telephone string    `json:"telephone" validate:"required,cnphone"`
	Captcha   string    `json:"captcha" validate:"required,len=6"`
}

type StudentJoinRequest struct {
	ClassCode      int64  `json:"class_code" validate:"required"`
	Name           string `json:"name" validate:"required,max=10"`
	FamilyRelation string `json:"family_relation" validate:"required"`
	Telephone      string `json:"telephone" validate:"required,cnphone"`
	Captcha        string `json:"captcha" validate:"required,len=6"`
}

type ResubmitRequest struct {
	ApplyID uuid.UUID `json:"apply_id" validate:"required"`
}

type ReviewRequest struct {
	ApplyID uuid.UUID `json:"apply_id" validate:"required"`
	Passed  *bool     `json:"passed" validate:"required"`
}

type SwitchClassRequest struct {
	MemberID uuid.UUID `json:"member_id" validate:"required"`
}

type UpdateMemberRequest struct {
	MemberID       uuid.UUID  `json:"member_id" validate:"required"`
	Name           *string    `json:"name" validate:"omitempty,max=10"`
	Telephone      *string    `json:"telephone" validate:"omitempty,cnphone"`
	FamilyRelation *string    `json:"family_relation"`
	SubjectID      *uuid.UUID `json:"subject_id"`
}

type ToggleAuditRequest struct {
	NeedAudit *bool `json:"need_audit" validate:"required"`
}
