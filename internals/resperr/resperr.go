// file: internals/resperr/resperr.go
package resperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is a business failure carried as a value. Status is the HTTP status
// the transport layer should answer with, Statement a stable machine-readable
// sentence, Message the human-facing text. Data optionally carries context
// (conflicting class list, students over a cap, incumbent teacher name).
type Error struct {
	Status    int         `json:"-"`
	Statement string      `json:"statement"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Statement, e.Message)
}

// WithMessage returns a copy with a formatted message, keeping status and
// statement. Used for errors that embed context (incumbent names etc).
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	clone := *e
	clone.Message = fmt.Sprintf(format, args...)
	return &clone
}

// WithData returns a copy carrying a contextual payload.
func (e *Error) WithData(data interface{}) *Error {
	clone := *e
	clone.Data = data
	return &clone
}

// Is matches on the statement so errors.Is works against catalog entries
// regardless of WithMessage/WithData copies.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Statement == e.Statement
}

func New(status int, statement, message string) *Error {
	return &Error{Status: status, Statement: statement, Message: message}
}

// =========================
// Catalog
// =========================
var (
	InternalServerError = New(fiber.StatusInternalServerError, "Internal server error", "internal server error")

	InvalidToken  = New(fiber.StatusForbidden, "Invalid token", "invalid token")
	TokenExpired  = New(fiber.StatusUnauthorized, "Token expired", "token expired")
	UserDisabled  = New(fiber.StatusForbidden, "User disabled", "user disabled")
	UserNotFound  = New(fiber.StatusNotFound, "User not found", "user not found")
	InvalidParams = New(fiber.StatusBadRequest, "Invalid parameter", "invalid parameter")
	MissingParams = New(fiber.StatusBadRequest, "Missing parameter", "missing required parameter")

	AuthorizationDenied = New(fiber.StatusForbidden, "Authorization denied", "authorization denied")
	DisabledMembership  = New(fiber.StatusForbidden, "Membership disabled", "class membership has been removed")
	NotClassMember      = New(fiber.StatusForbidden, "Not a class member", "no active class membership")

	InvalidCode           = New(fiber.StatusBadRequest, "Invalid code", "invalid class code")
	InvalidSubject        = New(fiber.StatusBadRequest, "Invalid subject", "unknown subject")
	InvalidFamilyRelation = New(fiber.StatusBadRequest, "Invalid family relation", "unknown family relation")
	InvalidClassApply     = New(fiber.StatusBadRequest, "Invalid class apply", "join application not found")
	IncorrectCaptcha      = New(fiber.StatusBadRequest, "Incorrect captcha", "captcha mismatch")
	InvalidInvitation     = New(fiber.StatusBadRequest, "Invalid invitation info", "invalid invitation")

	DuplicateMember   = New(fiber.StatusBadRequest, "User already in class", "already a member of this class")
	DuplicateTeacher  = New(fiber.StatusBadRequest, "Teacher already in class", "already teaching %s")
	DuplicateApply    = New(fiber.StatusBadRequest, "Duplicate apply for class", "application already submitted")
	TeacherExists     = New(fiber.StatusBadRequest, "Subject teacher already in class", "subject already taught by %s")
	TooManyApply      = New(fiber.StatusBadRequest, "Too many apply in class", "too many applications for this class")
	ReviewedApply     = New(fiber.StatusBadRequest, "Apply already reviewed", "application already reviewed")
	HeadteacherDelete = New(fiber.StatusBadRequest, "Headteacher can't quit", "headteacher cannot remove own membership")

	GroupExists   = New(fiber.StatusBadRequest, "Group already exists", "a group with this name already exists")
	GroupNotFound = New(fiber.StatusBadRequest, "Group not found", "group not found")

	HomeworkAssigned = New(fiber.StatusBadRequest, "Homework already assigned", "homework already published today for these classes")
	HomeworkDeleted  = New(fiber.StatusBadRequest, "Homework deleted", "homework has been deleted")
	ExpiredHomework  = New(fiber.StatusBadRequest, "Expired homework", "homework deadline has passed")

	CorrectionTimesOutOfLimit = New(fiber.StatusBadRequest, "Correction times out of limit", "correction limit reached")
	RejectionTimesOutOfLimit  = New(fiber.StatusBadRequest, "Rejection times out of limit", "rejection limit reached for some students")

	FileNotFound = New(fiber.StatusBadRequest, "File not found", "referenced attachment does not exist")
)
