// file: internals/features/classes/service/join_service_test.go
package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmanager_backend/internals/constants"
	classModel "classmanager_backend/internals/features/classes/model"
	userModel "classmanager_backend/internals/features/users/model"
	"classmanager_backend/internals/resperr"
	"classmanager_backend/internals/testutil"
)

func TestValidateClassCode(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	testutil.SeedClass(t, db, 100001, "13912345678", true)

	class, err := svc.ValidateClassCode(100001)
	require.NoError(t, err)
	assert.Equal(t, int64(100001), class.ClassCode)

	_, err = svc.ValidateClassCode(999999)
	assert.True(t, resperr.InvalidCode.Is(err))
}

func TestStudentJoinDirect(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", false)
	user := testutil.SeedUser(t, db, "parent-1")

	require.NoError(t, svc.StudentJoin(user.UserID, "Xiao Ming", "1", "13800000001", class))

	var member classModel.ClassMemberModel
	require.NoError(t, db.Where("class_member_user_id = ?", user.UserID).First(&member).Error)
	assert.Equal(t, constants.RoleStudent, member.ClassMemberRole)
	assert.Equal(t, "Xiao Ming", member.ClassMemberName)

	// first membership becomes the current one
	var fresh userModel.UserModel
	require.NoError(t, db.Where("user_id = ?", user.UserID).First(&fresh).Error)
	require.NotNil(t, fresh.UserCurrentMemberID)
	assert.Equal(t, member.ClassMemberID, *fresh.UserCurrentMemberID)
}

func TestStudentJoinDuplicateMember(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", false)
	user := testutil.SeedUser(t, db, "parent-1")

	require.NoError(t, svc.StudentJoin(user.UserID, "Xiao Ming", "1", "13800000001", class))
	err := svc.StudentJoin(user.UserID, "Xiao Ming", "2", "13800000001", class)
	assert.True(t, resperr.DuplicateMember.Is(err))
}

func TestStudentJoinApplicationCaps(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	user := testutil.SeedUser(t, db, "parent-1")

	for i := 0; i < constants.MaxPendingAppliesPerClass; i++ {
		name := fmt.Sprintf("Child %d", i)
		require.NoError(t, svc.StudentJoin(user.UserID, name, "1", "13800000001", class))
	}

	// same name again while pending
	err := svc.StudentJoin(user.UserID, "Child 0", "1", "13800000001", class)
	assert.True(t, resperr.DuplicateApply.Is(err))

	// sixth distinct name hits the cap
	err = svc.StudentJoin(user.UserID, "Child 5", "1", "13800000001", class)
	assert.True(t, resperr.TooManyApply.Is(err))

	var count int64
	require.NoError(t, db.Model(&classModel.ClassApplicationModel{}).Count(&count).Error)
	assert.EqualValues(t, constants.MaxPendingAppliesPerClass, count)
}

func TestTeacherJoinHeadteacherFastPath(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	subject := testutil.SeedSubject(t, db, "Math")
	user := testutil.SeedUser(t, db, "teacher-1")

	// phone matches the class contact: membership despite audit
	require.NoError(t, svc.TeacherJoin(user.UserID, "Mr. Wang", subject.SubjectID, "13912345678", class))

	var member classModel.ClassMemberModel
	require.NoError(t, db.Where("class_member_user_id = ?", user.UserID).First(&member).Error)
	assert.Equal(t, constants.RoleHeadteacher, member.ClassMemberRole)
}

func TestTeacherJoinSubjectTaken(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", false)
	subject := testutil.SeedSubject(t, db, "Math")

	incumbent := testutil.SeedUser(t, db, "teacher-1")
	require.NoError(t, svc.TeacherJoin(incumbent.UserID, "Mr. Wang", subject.SubjectID, "13800000001", class))

	challenger := testutil.SeedUser(t, db, "teacher-2")
	err := svc.TeacherJoin(challenger.UserID, "Ms. Li", subject.SubjectID, "13800000002", class)
	assert.True(t, resperr.TeacherExists.Is(err))
	assert.Contains(t, err.Error(), "Mr. Wang")
}

func TestTeacherJoinAlreadyTeaching(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	classA := testutil.SeedClass(t, db, 100001, "13912345678", false)
	classB := testutil.SeedClass(t, db, 100002, "13987654321", false)
	math := testutil.SeedSubject(t, db, "Math")
	english := testutil.SeedSubject(t, db, "English")
	user := testutil.SeedUser(t, db, "teacher-1")

	require.NoError(t, svc.TeacherJoin(user.UserID, "Mr. Wang", math.SubjectID, "13800000001", classA))
	err := svc.TeacherJoin(user.UserID, "Mr. Wang", english.SubjectID, "13800000001", classB)
	assert.True(t, resperr.DuplicateTeacher.Is(err))
	assert.Contains(t, err.Error(), "Math")
}

func TestReviewPassCreatesMembership(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	user := testutil.SeedUser(t, db, "parent-1")

	require.NoError(t, svc.StudentJoin(user.UserID, "Xiao Ming", "1", "13800000001", class))

	var apply classModel.ClassApplicationModel
	require.NoError(t, db.First(&apply).Error)
	assert.Equal(t, constants.ApplyReviewing, apply.ClassApplicationResult)

	headUser := testutil.SeedUser(t, db, "head-1")
	head := testutil.SeedMember(t, db, class.ClassID, headUser.UserID, "Mr. Wang", constants.RoleHeadteacher, nil)

	require.NoError(t, svc.Review(head.ClassMemberID, head.ClassMemberName, class.ClassID, apply.ClassApplicationID, true))

	require.NoError(t, db.First(&apply).Error)
	assert.Equal(t, constants.ApplyPassed, apply.ClassApplicationResult)
	require.NotNil(t, apply.ClassApplicationAuditorName)
	assert.Equal(t, "Mr. Wang", *apply.ClassApplicationAuditorName)
	assert.NotNil(t, apply.ClassApplicationEndTime)

	var member classModel.ClassMemberModel
	err := db.
		Where("class_member_user_id = ?", user.UserID).
		Where("class_member_name = ?", "Xiao Ming").
		Where("class_member_is_deleted = ?", false).
		First(&member).Error
	require.NoError(t, err, "passing review must materialize the membership")
	assert.Equal(t, constants.RoleStudent, member.ClassMemberRole)
}

func TestReviewTwiceRejected(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	user := testutil.SeedUser(t, db, "parent-1")
	require.NoError(t, svc.StudentJoin(user.UserID, "Xiao Ming", "1", "13800000001", class))

	var apply classModel.ClassApplicationModel
	require.NoError(t, db.First(&apply).Error)

	headUser := testutil.SeedUser(t, db, "head-1")
	head := testutil.SeedMember(t, db, class.ClassID, headUser.UserID, "Mr. Wang", constants.RoleHeadteacher, nil)

	require.NoError(t, svc.Review(head.ClassMemberID, head.ClassMemberName, class.ClassID, apply.ClassApplicationID, false))
	err := svc.Review(head.ClassMemberID, head.ClassMemberName, class.ClassID, apply.ClassApplicationID, true)
	assert.True(t, resperr.ReviewedApply.Is(err))
}

func TestReviewForeignClass(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	other := testutil.SeedClass(t, db, 100002, "13987654321", true)
	user := testutil.SeedUser(t, db, "parent-1")
	require.NoError(t, svc.StudentJoin(user.UserID, "Xiao Ming", "1", "13800000001", class))

	var apply classModel.ClassApplicationModel
	require.NoError(t, db.First(&apply).Error)

	headUser := testutil.SeedUser(t, db, "head-2")
	head := testutil.SeedMember(t, db, other.ClassID, headUser.UserID, "Ms. Zhao", constants.RoleHeadteacher, nil)

	err := svc.Review(head.ClassMemberID, head.ClassMemberName, other.ClassID, apply.ClassApplicationID, true)
	assert.True(t, resperr.InvalidParams.Is(err))
}

func TestResubmitAfterRejection(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewJoinService(db)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	testutil.SeedFamilyRelation(t, db, "1", "father")
	user := testutil.SeedUser(t, db, "parent-1")
	require.NoError(t, svc.StudentJoin(user.UserID, "Xiao Ming", "1", "13800000001", class))

	var apply classModel.ClassApplicationModel
	require.NoError(t, db.First(&apply).Error)

	headUser := testutil.SeedUser(t, db, "head-1")
	head := testutil.SeedMember(t, db, class.ClassID, headUser.UserID, "Mr. Wang", constants.RoleHeadteacher, nil)
	require.NoError(t, svc.Review(head.ClassMemberID, head.ClassMemberName, class.ClassID, apply.ClassApplicationID, false))

	require.NoError(t, svc.Resubmit(user.UserID, apply.ClassApplicationID))

	var count int64
	require.NoError(t, db.Model(&classModel.ClassApplicationModel{}).
		Where("class_application_result = ?", constants.ApplyReviewing).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
