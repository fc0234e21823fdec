package constants

// =========================
// Class member roles (class_members.member_role)
// =========================
const (
	RoleHeadteacher = "1"
	RoleTeacher     = "2"
	RoleStudent     = "3"
)

func IsTeachingRole(role string) bool {
	return role == RoleHeadteacher || role == RoleTeacher
}

// =========================
// Join application results (class_applications.result)
// =========================
const (
	ApplyRejected  = "0"
	ApplyReviewing = "1"
	ApplyPassed    = "2"
)

// =========================
// Homework answer statuses (homework_answer_statuses.status)
// =========================
const (
	AnswerNeedToSubmit = "1"
	AnswerSubmitted    = "2"
	AnswerNeedToRework = "3"
	AnswerChecked      = "4"
	AnswerCorrected    = "5"
	AnswerNoFeedback   = "6" // derived at read time, never stored
)

// Statuses presented as NoFeedback once the homework has expired.
func IsExpirableStatus(status string) bool {
	return status == AnswerNeedToSubmit || status == AnswerNeedToRework
}

// =========================
// Homework answer categories (homework_answers.category)
// =========================
const (
	CategoryAnswer     = "1"
	CategoryRework     = "2"
	CategoryCorrection = "3"
)

// =========================
// Answer check categories (homework_answer_checks.category)
// =========================
const (
	CheckImageMark = "1"
)

// =========================
// Message categories (messages.category)
// =========================
const (
	MsgHomeworkHint    = "1"
	MsgHomeworkComment = "2"
)

// =========================
// File categories (file_infos.category)
// =========================
const (
	FileImage = "1"
	FileVideo = "2"
	FileAudio = "3"
	FileDoc   = "4"
)

func IsFileCategory(category string) bool {
	switch category {
	case FileImage, FileVideo, FileAudio, FileDoc:
		return true
	}
	return false
}

// =========================
// File reference kinds (file_references.ref_type)
// =========================
const (
	RefByFeedback       = "1"
	RefByHomework       = "2"
	RefByHomeworkAnswer = "3"
)

// =========================
// Business caps
// =========================
const (
	MaxPendingAppliesPerClass = 5
	MaxCorrectionTimes        = 2
	MaxRejectionTimes         = 2
)

// =========================
// Homework scores
// =========================

// ScoreViewed marks an answer as seen without grading it.
const ScoreViewed = "0"

var validScores = map[string]struct{}{
	"A": {}, "B": {}, "C": {}, "D": {}, "E": {},
}

// IsValidScore reports whether s is a gradeable score value. The empty
// string is handled by callers (it means "viewed" or "reject" depending on
// the operation).
func IsValidScore(s string) bool {
	_, ok := validScores[s]
	return ok
}

// =========================
// Family relations (class_members.family_relation)
// =========================
const (
	RelationSelf        = "1"
	RelationFather      = "2"
	RelationMother      = "3"
	RelationGrandfather = "4"
	RelationGrandmother = "5"
)

// =========================
// System config kinds (sys_configs.config_type)
// =========================
const (
	ConfigStudyStage     = "1"
	ConfigFamilyRelation = "2"
)
