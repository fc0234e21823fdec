// file: internals/features/homework/service/homework_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"classmanager_backend/internals/constants"
	classModel "classmanager_backend/internals/features/classes/model"
	fileService "classmanager_backend/internals/features/files/service"
	groupService "classmanager_backend/internals/features/groups/service"
	"classmanager_backend/internals/features/homework/model"
	msgModel "classmanager_backend/internals/features/messages/model"
	helper "classmanager_backend/internals/helpers"
	"classmanager_backend/internals/resperr"
	"classmanager_backend/internals/testutil"
)

type homeworkFixture struct {
	db       *gorm.DB
	class    *classModel.ClassModel
	teacher  *classModel.ClassMemberModel // teaching membership, carries the subject
	students []*classModel.ClassMemberModel
}

func newHomeworkFixture(t *testing.T, studentNames ...string) *homeworkFixture {
	t.Helper()
	db := testutil.OpenDB(t)
	class := testutil.SeedClass(t, db, 100001, "13912345678", true)
	subject := testutil.SeedSubject(t, db, "Math")
	teacherUser := testutil.SeedUser(t, db, "teacher-1")
	teacher := testutil.SeedMember(t, db, class.ClassID, teacherUser.UserID, "Mr. Wang", constants.RoleTeacher, &subject.SubjectID)

	fix := &homeworkFixture{db: db, class: class, teacher: teacher}
	for _, name := range studentNames {
		fix.students = append(fix.students, testutil.SeedStudent(t, db, class.ClassID, name))
	}
	return fix
}

func (f *homeworkFixture) wholeClass(end time.Time) AssignInput {
	return AssignInput{
		Title:   "Pages 10-12",
		Desc:    "finish exercises 1 through 9",
		EndTime: end,
		Targets: []ScopeTarget{{ClassID: f.class.ClassID, GroupID: uuid.Nil}},
	}
}

func TestAssignCreatesStatusesAndMessages(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming", "Xiao Hong")
	svc := NewAssignService(fix.db)

	homework, err := svc.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	var statuses []model.HomeworkAnswerStatusModel
	require.NoError(t, fix.db.Find(&statuses).Error)
	require.Len(t, statuses, 2)
	for _, st := range statuses {
		assert.Equal(t, constants.AnswerNeedToSubmit, st.HomeworkAnswerStatusStatus)
		assert.Equal(t, homework.HomeworkID, st.HomeworkAnswerStatusHomeworkID)
	}

	var messages []msgModel.MessageModel
	require.NoError(t, fix.db.Find(&messages).Error)
	require.Len(t, messages, 2)
	for _, msg := range messages {
		assert.Equal(t, constants.MsgHomeworkHint, msg.MessageCategory)
		require.NotNil(t, msg.MessageSenderMemberID)
		assert.Equal(t, fix.teacher.ClassMemberID, *msg.MessageSenderMemberID)
	}
}

func TestAssignSameDayTwiceRejected(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	svc := NewAssignService(fix.db)

	_, err := svc.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	_, err = svc.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(72*time.Hour)))
	require.True(t, resperr.HomeworkAssigned.Is(err))

	var be *resperr.Error
	require.ErrorAs(t, err, &be)
	conflicts, ok := be.Data.([]uuid.UUID)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{fix.class.ClassID}, conflicts)
}

func TestAssignGroupScopeResolution(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming", "Xiao Hong", "Xiao Gang")
	groups := groupService.NewGroupService(fix.db)
	group, err := groups.Create(fix.class.ClassID, "Group A", []string{"Xiao Ming", "Xiao Hong"})
	require.NoError(t, err)

	svc := NewAssignService(fix.db)
	in := fix.wholeClass(time.Now().Add(48 * time.Hour))
	in.Targets = []ScopeTarget{{ClassID: fix.class.ClassID, GroupID: group.GroupID}}
	homework, err := svc.Assign(fix.teacher.ClassMemberUserID, in)
	require.NoError(t, err)

	var names []string
	require.NoError(t, fix.db.Model(&model.HomeworkAnswerStatusModel{}).
		Where("homework_answer_status_homework_id = ?", homework.HomeworkID).
		Order("homework_answer_status_student_name ASC").
		Pluck("homework_answer_status_student_name", &names).Error)
	assert.Equal(t, []string{"Xiao Hong", "Xiao Ming"}, names)
}

func TestAssignScheduledForTomorrow(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	svc := NewAssignService(fix.db)

	tomorrow := time.Now().AddDate(0, 0, 1)
	in := fix.wholeClass(tomorrow.Add(48 * time.Hour))
	in.PubTime = tomorrow
	homework, err := svc.Assign(fix.teacher.ClassMemberUserID, in)
	require.NoError(t, err)

	wantDay := tomorrow.Format("2006-01-02")
	assert.Equal(t, wantDay, homework.HomeworkPubTime.Format("2006-01-02"))

	// the scheduled day is burnt, today stays open
	targets, err := svc.AvailableTargets(fix.teacher.ClassMemberUserID, tomorrow)
	require.NoError(t, err)
	assert.Empty(t, targets)
	targets, err = svc.AvailableTargets(fix.teacher.ClassMemberUserID, time.Now())
	require.NoError(t, err)
	assert.Len(t, targets, 1)

	// today's slot is still assignable
	_, err = svc.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	// but a second homework on the scheduled day conflicts
	in = fix.wholeClass(tomorrow.Add(72 * time.Hour))
	in.PubTime = tomorrow
	_, err = svc.Assign(fix.teacher.ClassMemberUserID, in)
	assert.True(t, resperr.HomeworkAssigned.Is(err))
}

func TestAssignInvertedWindow(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	svc := NewAssignService(fix.db)

	in := fix.wholeClass(time.Now().Add(time.Hour))
	in.PubTime = time.Now().Add(2 * time.Hour)
	_, err := svc.Assign(fix.teacher.ClassMemberUserID, in)
	assert.True(t, resperr.InvalidParams.Is(err))
}

func TestUpdateInvertedWindow(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	svc := NewAssignService(fix.db)
	homework, err := svc.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	err = svc.Update(fix.teacher.ClassMemberUserID, homework.HomeworkID, UpdateInput{
		Title:   homework.HomeworkTitle,
		Desc:    homework.HomeworkDesc,
		PubTime: time.Now().Add(48 * time.Hour),
		EndTime: time.Now().Add(24 * time.Hour),
	})
	assert.True(t, resperr.InvalidParams.Is(err))
}

func TestAssignOutsideTaughtClass(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	other := testutil.SeedClass(t, fix.db, 100002, "13987654321", true)
	testutil.SeedStudent(t, fix.db, other.ClassID, "Someone")

	svc := NewAssignService(fix.db)
	in := fix.wholeClass(time.Now().Add(48 * time.Hour))
	in.Targets = []ScopeTarget{{ClassID: other.ClassID, GroupID: uuid.Nil}}
	_, err := svc.Assign(fix.teacher.ClassMemberUserID, in)
	assert.True(t, resperr.AuthorizationDenied.Is(err))
}

func TestAvailableTargetsExcludesAssignedDay(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	groups := groupService.NewGroupService(fix.db)
	_, err := groups.Create(fix.class.ClassID, "Group A", []string{"Xiao Ming"})
	require.NoError(t, err)

	svc := NewAssignService(fix.db)
	targets, err := svc.AvailableTargets(fix.teacher.ClassMemberUserID, time.Now())
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, fix.class.ClassID, targets[0].ClassID)
	require.Len(t, targets[0].Groups, 1)
	assert.Equal(t, "Group A", targets[0].Groups[0].Name)

	_, err = svc.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	targets, err = svc.AvailableTargets(fix.teacher.ClassMemberUserID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, targets)

	// tomorrow is open again
	targets, err = svc.AvailableTargets(fix.teacher.ClassMemberUserID, time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, targets, 1)
}

func TestDeleteIdempotent(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	svc := NewAssignService(fix.db)
	homework, err := svc.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(fix.teacher.ClassMemberUserID, homework.HomeworkID))
	var afterFirst int64
	require.NoError(t, fix.db.Model(&msgModel.MessageModel{}).Count(&afterFirst).Error)

	// second delete succeeds without another notification
	require.NoError(t, svc.Delete(fix.teacher.ClassMemberUserID, homework.HomeworkID))
	var afterSecond int64
	require.NoError(t, fix.db.Model(&msgModel.MessageModel{}).Count(&afterSecond).Error)
	assert.Equal(t, afterFirst, afterSecond)
}

func TestDeleteForeignHomework(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	svc := NewAssignService(fix.db)
	homework, err := svc.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	stranger := testutil.SeedUser(t, fix.db, "stranger")
	err = svc.Delete(stranger.UserID, homework.HomeworkID)
	assert.True(t, resperr.AuthorizationDenied.Is(err))
}

func TestCommitCheckCorrectRecheck(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	assigns := NewAssignService(fix.db)
	answers := NewAnswerService(fix.db)
	student := fix.students[0]

	homework, err := assigns.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	commit := func() error {
		return answers.Commit(student.ClassMemberID, fix.class.ClassID, student.ClassMemberName,
			CommitInput{HomeworkID: homework.HomeworkID, Desc: "done"})
	}
	latestAnswer := func() model.HomeworkAnswerModel {
		var a model.HomeworkAnswerModel
		require.NoError(t, fix.db.Order("homework_answer_created_at DESC").First(&a).Error)
		return a
	}
	statusNow := func() model.HomeworkAnswerStatusModel {
		var st model.HomeworkAnswerStatusModel
		require.NoError(t, fix.db.First(&st).Error)
		return st
	}

	require.NoError(t, commit())
	assert.Equal(t, constants.AnswerSubmitted, statusNow().HomeworkAnswerStatusStatus)
	assert.Equal(t, constants.CategoryAnswer, latestAnswer().HomeworkAnswerCategory)

	marks := datatypes.JSON([]byte(`{"marks":[{"x":1,"y":2}]}`))
	require.NoError(t, answers.Check(fix.teacher.ClassMemberUserID, fix.teacher.ClassMemberID,
		latestAnswer().HomeworkAnswerID, "B", marks))
	st := statusNow()
	assert.Equal(t, constants.AnswerChecked, st.HomeworkAnswerStatusStatus)
	require.NotNil(t, st.HomeworkAnswerStatusScore)
	assert.Equal(t, "B", *st.HomeworkAnswerStatusScore)

	// correction after being checked
	require.NoError(t, commit())
	assert.Equal(t, constants.AnswerCorrected, statusNow().HomeworkAnswerStatusStatus)
	assert.Equal(t, constants.CategoryCorrection, latestAnswer().HomeworkAnswerCategory)

	require.NoError(t, answers.Check(fix.teacher.ClassMemberUserID, fix.teacher.ClassMemberID,
		latestAnswer().HomeworkAnswerID, "A", marks))
	st = statusNow()
	assert.Equal(t, constants.AnswerChecked, st.HomeworkAnswerStatusStatus)
	assert.Equal(t, "A", *st.HomeworkAnswerStatusScore)
}

func TestCorrectionCap(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	assigns := NewAssignService(fix.db)
	answers := NewAnswerService(fix.db)
	student := fix.students[0]

	homework, err := assigns.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	commit := func() error {
		return answers.Commit(student.ClassMemberID, fix.class.ClassID, student.ClassMemberName,
			CommitInput{HomeworkID: homework.HomeworkID, Desc: "done"})
	}
	check := func() {
		var a model.HomeworkAnswerModel
		require.NoError(t, fix.db.Order("homework_answer_created_at DESC").First(&a).Error)
		require.NoError(t, answers.Check(fix.teacher.ClassMemberUserID, fix.teacher.ClassMemberID,
			a.HomeworkAnswerID, "C", nil))
	}

	require.NoError(t, commit()) // answer
	check()
	require.NoError(t, commit()) // correction 1
	check()
	require.NoError(t, commit()) // correction 2
	check()

	err = commit() // correction 3
	assert.True(t, resperr.CorrectionTimesOutOfLimit.Is(err))
}

func TestCommitExpired(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	assigns := NewAssignService(fix.db)
	answers := NewAnswerService(fix.db)
	student := fix.students[0]

	homework, err := assigns.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.NoError(t, fix.db.Model(&model.HomeworkModel{}).
		Where("homework_id = ?", homework.HomeworkID).
		Update("homework_end_time", time.Now().Add(-time.Hour)).Error)

	err = answers.Commit(student.ClassMemberID, fix.class.ClassID, student.ClassMemberName,
		CommitInput{HomeworkID: homework.HomeworkID, Desc: "late"})
	assert.True(t, resperr.ExpiredHomework.Is(err))
}

func TestCommitOutOfScope(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming", "Xiao Hong", "Xiao Gang")
	groups := groupService.NewGroupService(fix.db)
	group, err := groups.Create(fix.class.ClassID, "Group A", []string{"Xiao Ming"})
	require.NoError(t, err)

	assigns := NewAssignService(fix.db)
	answers := NewAnswerService(fix.db)
	in := fix.wholeClass(time.Now().Add(48 * time.Hour))
	in.Targets = []ScopeTarget{{ClassID: fix.class.ClassID, GroupID: group.GroupID}}
	homework, err := assigns.Assign(fix.teacher.ClassMemberUserID, in)
	require.NoError(t, err)

	outsider := fix.students[1] // not in the group
	err = answers.Commit(outsider.ClassMemberID, fix.class.ClassID, outsider.ClassMemberName,
		CommitInput{HomeworkID: homework.HomeworkID, Desc: "hello"})
	assert.True(t, resperr.AuthorizationDenied.Is(err))
}

func TestEvaluateRejectionCap(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	assigns := NewAssignService(fix.db)
	answers := NewAnswerService(fix.db)
	student := fix.students[0]

	homework, err := assigns.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	commit := func() {
		require.NoError(t, answers.Commit(student.ClassMemberID, fix.class.ClassID, student.ClassMemberName,
			CommitInput{HomeworkID: homework.HomeworkID, Desc: "try"}))
	}
	reject := func() error {
		var a model.HomeworkAnswerModel
		require.NoError(t, fix.db.Order("homework_answer_created_at DESC").First(&a).Error)
		return answers.Evaluate(fix.teacher.ClassMemberUserID, fix.teacher.ClassMemberID, fix.class.ClassID,
			EvaluateInput{AnswerIDs: []uuid.UUID{a.HomeworkAnswerID}, Comment: "redo it"})
	}

	commit()
	require.NoError(t, reject()) // rejection 1
	commit()
	require.NoError(t, reject()) // rejection 2
	commit()

	err = reject() // rejection 3 hits the per-student cap
	require.True(t, resperr.RejectionTimesOutOfLimit.Is(err))
	var be *resperr.Error
	require.ErrorAs(t, err, &be)
	offenders, ok := be.Data.([]string)
	require.True(t, ok)
	assert.Equal(t, []string{"Xiao Ming"}, offenders)
}

func TestEvaluateGradesBatch(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming", "Xiao Hong")
	assigns := NewAssignService(fix.db)
	answers := NewAnswerService(fix.db)

	homework, err := assigns.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	var ids []uuid.UUID
	for _, student := range fix.students {
		require.NoError(t, answers.Commit(student.ClassMemberID, fix.class.ClassID, student.ClassMemberName,
			CommitInput{HomeworkID: homework.HomeworkID, Desc: "done"}))
		var a model.HomeworkAnswerModel
		require.NoError(t, fix.db.Order("homework_answer_created_at DESC").First(&a).Error)
		ids = append(ids, a.HomeworkAnswerID)
	}

	require.NoError(t, answers.Evaluate(fix.teacher.ClassMemberUserID, fix.teacher.ClassMemberID, fix.class.ClassID,
		EvaluateInput{AnswerIDs: ids, Comment: "well done", Score: "A"}))

	var evaluates []model.HomeworkEvaluateModel
	require.NoError(t, fix.db.Find(&evaluates).Error)
	require.Len(t, evaluates, 1, "one evaluation row shared by the batch")

	var statuses []model.HomeworkAnswerStatusModel
	require.NoError(t, fix.db.Find(&statuses).Error)
	for _, st := range statuses {
		assert.Equal(t, constants.AnswerChecked, st.HomeworkAnswerStatusStatus)
		require.NotNil(t, st.HomeworkAnswerStatusScore)
		assert.Equal(t, "A", *st.HomeworkAnswerStatusScore)
	}
}

func TestEvaluateCorrectedCannotBeRejected(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	assigns := NewAssignService(fix.db)
	answers := NewAnswerService(fix.db)
	student := fix.students[0]

	homework, err := assigns.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(48*time.Hour)))
	require.NoError(t, err)

	commit := func() {
		require.NoError(t, answers.Commit(student.ClassMemberID, fix.class.ClassID, student.ClassMemberName,
			CommitInput{HomeworkID: homework.HomeworkID, Desc: "try"}))
	}
	commit()
	var first model.HomeworkAnswerModel
	require.NoError(t, fix.db.Order("homework_answer_created_at DESC").First(&first).Error)
	require.NoError(t, answers.Check(fix.teacher.ClassMemberUserID, fix.teacher.ClassMemberID,
		first.HomeworkAnswerID, "C", nil))
	commit() // correction → status Corrected

	var latest model.HomeworkAnswerModel
	require.NoError(t, fix.db.Order("homework_answer_created_at DESC").First(&latest).Error)
	err = answers.Evaluate(fix.teacher.ClassMemberUserID, fix.teacher.ClassMemberID, fix.class.ClassID,
		EvaluateInput{AnswerIDs: []uuid.UUID{latest.HomeworkAnswerID}, Comment: "redo"})
	assert.True(t, resperr.InvalidParams.Is(err))
}

func TestNoFeedbackDerivation(t *testing.T) {
	end := time.Now().Add(-time.Hour)
	assert.Equal(t, constants.AnswerNoFeedback,
		PresentedStatus(constants.AnswerNeedToSubmit, end, time.Now()))
	assert.Equal(t, constants.AnswerNoFeedback,
		PresentedStatus(constants.AnswerNeedToRework, end, time.Now()))
	assert.Equal(t, constants.AnswerChecked,
		PresentedStatus(constants.AnswerChecked, end, time.Now()))

	future := time.Now().Add(time.Hour)
	assert.Equal(t, constants.AnswerNeedToSubmit,
		PresentedStatus(constants.AnswerNeedToSubmit, future, time.Now()))
}

func TestStudentListDerivesNoFeedback(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	assigns := NewAssignService(fix.db)
	queries := NewQueryService(fix.db)
	student := fix.students[0]

	homework, err := assigns.Assign(fix.teacher.ClassMemberUserID, fix.wholeClass(time.Now().Add(time.Hour)))
	require.NoError(t, err)
	require.NoError(t, fix.db.Model(&model.HomeworkModel{}).
		Where("homework_id = ?", homework.HomeworkID).
		Update("homework_end_time", time.Now().Add(-time.Hour)).Error)

	items, total, err := queries.StudentHomeworkList(fix.class.ClassID, student.ClassMemberName,
		helper.Paging{Page: 1, PerPage: 10, Offset: 0, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, constants.AnswerNoFeedback, items[0].Status)

	// storage stays untouched
	var st model.HomeworkAnswerStatusModel
	require.NoError(t, fix.db.First(&st).Error)
	assert.Equal(t, constants.AnswerNeedToSubmit, st.HomeworkAnswerStatusStatus)
}

func TestAssignWithAttachments(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	assigns := NewAssignService(fix.db)
	img := testutil.SeedFile(t, fix.db, fix.teacher.ClassMemberUserID, constants.FileImage)

	in := fix.wholeClass(time.Now().Add(48 * time.Hour))
	in.Attachments = fileService.AttachmentLists{Images: []uuid.UUID{img.FileInfoID}}
	homework, err := assigns.Assign(fix.teacher.ClassMemberUserID, in)
	require.NoError(t, err)

	queries := NewQueryService(fix.db)
	detail, err := queries.Detail(homework.HomeworkID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{img.FileInfoID}, detail.Attachments.Images)
}

func TestAssignUnknownAttachmentKind(t *testing.T) {
	fix := newHomeworkFixture(t, "Xiao Ming")
	assigns := NewAssignService(fix.db)
	img := testutil.SeedFile(t, fix.db, fix.teacher.ClassMemberUserID, constants.FileImage)

	// declared as video, stored as image
	in := fix.wholeClass(time.Now().Add(48 * time.Hour))
	in.Attachments = fileService.AttachmentLists{Videos: []uuid.UUID{img.FileInfoID}}
	_, err := assigns.Assign(fix.teacher.ClassMemberUserID, in)
	assert.True(t, resperr.FileNotFound.Is(err))
}
