package controllers_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"learnhub/database"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizPayload(passPct float64) map[string]interface{} {
	return map[string]interface{}{
		"title":           "Final Quiz",
		"pass_percentage": passPct,
		"questions": []map[string]interface{}{
			{
				"text": "What does SQL stand for?",
				"choices": []map[string]interface{}{
					{"text": "Structured Query Language", "is_correct": true},
					{"text": "Simple Query Language", "is_correct": false},
				},
			},
			{
				"text": "Which command reads rows?",
				"choices": []map[string]interface{}{
					{"text": "INSERT", "is_correct": false},
					{"text": "SELECT", "is_correct": true},
				},
			},
		},
	}
}

func TestCreateQuiz_RejectsAmbiguousAnswerKey(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "qteach1", models.RoleTeacher)
	crs := seedCourse(t, "SQL Basics", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	payload := quizPayload(50)
	questions := payload["questions"].([]map[string]interface{})
	choices := questions[0]["choices"].([]map[string]interface{})
	choices[0]["is_correct"] = true
	choices[1]["is_correct"] = true

	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/quiz", offering.ID), teacherTok, payload)
	assert.Equal(t, 422, status)
}

func TestGetQuiz_HidesAnswerKey(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "qteach2", models.RoleTeacher)
	_, studentTok := seedUser(t, "qstud2", models.RoleStudent)

	crs := seedCourse(t, "SQL Basics", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	status, envelope := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/quiz", offering.ID), teacherTok, quizPayload(50))
	require.Equal(t, 201, status)
	quizID := uint(dataField(t, envelope)["quiz_id"].(float64))

	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/offering/%d/enroll", offering.ID), studentTok, nil)
	require.Equal(t, 200, status)

	status, envelope = doRequest(t, app, "GET", fmt.Sprintf("/quiz/%d", quizID), studentTok, nil)
	require.Equal(t, 200, status)

	raw, err := json.Marshal(envelope)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "is_correct")

	questions := dataField(t, envelope)["questions"].([]interface{})
	assert.Len(t, questions, 2)
}

func TestGetQuiz_RequiresAccess(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "qteach3", models.RoleTeacher)
	_, outsiderTok := seedUser(t, "qstud3", models.RoleStudent)

	crs := seedCourse(t, "SQL Basics", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	status, envelope := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/quiz", offering.ID), teacherTok, quizPayload(50))
	require.Equal(t, 201, status)
	quizID := uint(dataField(t, envelope)["quiz_id"].(float64))

	// Not enrolled, not paid
	status, _ = doRequest(t, app, "GET", fmt.Sprintf("/quiz/%d", quizID), outsiderTok, nil)
	assert.Equal(t, 403, status)
}

// submitAnswers builds an answer map choosing the correct choice for the
// first correctOnly questions and a wrong one for the rest.
func submitAnswers(t *testing.T, quizID uint, correctOnly int) map[string]uint {
	t.Helper()

	var questions []courseModels.Question
	require.NoError(t, database.Database.Db.Where("quiz_id = ?", quizID).Order("id asc").Find(&questions).Error)

	answers := make(map[string]uint)
	for i, q := range questions {
		var choice courseModels.Choice
		want := i < correctOnly
		require.NoError(t, database.Database.Db.Where("question_id = ? AND is_correct = ?", q.ID, want).First(&choice).Error)
		answers[fmt.Sprint(q.ID)] = choice.ID
	}
	return answers
}

func TestSubmitQuiz_ScoringAndCertificate(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "qteach4", models.RoleTeacher)
	student, studentTok := seedUser(t, "qstud4", models.RoleStudent)

	crs := seedCourse(t, "SQL Basics", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	status, envelope := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/quiz", offering.ID), teacherTok, quizPayload(50))
	require.Equal(t, 201, status)
	quizID := uint(dataField(t, envelope)["quiz_id"].(float64))

	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/offering/%d/enroll", offering.ID), studentTok, nil)
	require.Equal(t, 200, status)

	// One of two correct: 50%, passing at the 50% threshold (not strict)
	answers := submitAnswers(t, quizID, 1)
	status, envelope = doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/submit", quizID), studentTok, map[string]interface{}{"answers": answers})
	require.Equal(t, 201, status)

	data := dataField(t, envelope)
	assert.Equal(t, 50.0, data["score"])
	assert.Equal(t, true, data["passed"])

	certID, ok := data["certificate_id"].(string)
	require.True(t, ok, "expected a certificate on pass")
	assert.Regexp(t, `^CERT-[0-9A-F]{16}$`, certID)

	// Passing again does not mint a second certificate
	answers = submitAnswers(t, quizID, 2)
	status, envelope = doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/submit", quizID), studentTok, map[string]interface{}{"answers": answers})
	require.Equal(t, 201, status)
	assert.Equal(t, certID, dataField(t, envelope)["certificate_id"])

	var certCount int64
	database.Database.Db.Model(&courseModels.Certificate{}).Where("student_id = ?", student.ID).Count(&certCount)
	assert.Equal(t, int64(1), certCount)

	// Every submission leaves an attempt behind
	var attemptCount int64
	database.Database.Db.Model(&courseModels.StudentQuizAttempt{}).Where("student_id = ?", student.ID).Count(&attemptCount)
	assert.Equal(t, int64(2), attemptCount)
}

func TestSubmitQuiz_FailingScore(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "qteach5", models.RoleTeacher)
	student, studentTok := seedUser(t, "qstud5", models.RoleStudent)

	crs := seedCourse(t, "SQL Basics", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	status, envelope := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/quiz", offering.ID), teacherTok, quizPayload(75))
	require.Equal(t, 201, status)
	quizID := uint(dataField(t, envelope)["quiz_id"].(float64))

	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/offering/%d/enroll", offering.ID), studentTok, nil)
	require.Equal(t, 200, status)

	// 50% against a 75% threshold: recorded but failed, no certificate
	answers := submitAnswers(t, quizID, 1)
	status, envelope = doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/submit", quizID), studentTok, map[string]interface{}{"answers": answers})
	require.Equal(t, 201, status)

	data := dataField(t, envelope)
	assert.Equal(t, 50.0, data["score"])
	assert.Equal(t, false, data["passed"])
	_, hasCert := data["certificate_id"]
	assert.False(t, hasCert)

	var certCount int64
	database.Database.Db.Model(&courseModels.Certificate{}).Where("student_id = ?", student.ID).Count(&certCount)
	assert.Zero(t, certCount)
}

func TestSubmitQuiz_UnansweredQuestionsCountAsWrong(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "qteach6", models.RoleTeacher)
	_, studentTok := seedUser(t, "qstud6", models.RoleStudent)

	crs := seedCourse(t, "SQL Basics", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	status, envelope := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/quiz", offering.ID), teacherTok, quizPayload(50))
	require.Equal(t, 201, status)
	quizID := uint(dataField(t, envelope)["quiz_id"].(float64))

	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/offering/%d/enroll", offering.ID), studentTok, nil)
	require.Equal(t, 200, status)

	// Empty submission scores zero instead of erroring
	status, envelope = doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/submit", quizID), studentTok, map[string]interface{}{"answers": map[string]uint{}})
	require.Equal(t, 201, status)

	data := dataField(t, envelope)
	assert.Equal(t, 0.0, data["score"])
	assert.Equal(t, false, data["passed"])
}

func TestGetAttemptResult_OwnerOnly(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "qteach7", models.RoleTeacher)
	_, studentTok := seedUser(t, "qstud7", models.RoleStudent)
	_, otherTok := seedUser(t, "qstud7b", models.RoleStudent)

	crs := seedCourse(t, "SQL Basics", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	status, envelope := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/quiz", offering.ID), teacherTok, quizPayload(50))
	require.Equal(t, 201, status)
	quizID := uint(dataField(t, envelope)["quiz_id"].(float64))

	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/offering/%d/enroll", offering.ID), studentTok, nil)
	require.Equal(t, 200, status)

	answers := submitAnswers(t, quizID, 2)
	status, envelope = doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/submit", quizID), studentTok, map[string]interface{}{"answers": answers})
	require.Equal(t, 201, status)
	attemptID := int(dataField(t, envelope)["attempt_id"].(float64))

	status, _ = doRequest(t, app, "GET", fmt.Sprintf("/user/attempts/%d", attemptID), studentTok, nil)
	assert.Equal(t, 200, status)

	status, _ = doRequest(t, app, "GET", fmt.Sprintf("/user/attempts/%d", attemptID), otherTok, nil)
	assert.Equal(t, 403, status)
}

func TestGetCertificate_OwnerOnly(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "qteach8", models.RoleTeacher)
	_, studentTok := seedUser(t, "qstud8", models.RoleStudent)
	_, otherTok := seedUser(t, "qstud8b", models.RoleStudent)

	crs := seedCourse(t, "SQL Basics", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	status, envelope := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/quiz", offering.ID), teacherTok, quizPayload(50))
	require.Equal(t, 201, status)
	quizID := uint(dataField(t, envelope)["quiz_id"].(float64))

	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/offering/%d/enroll", offering.ID), studentTok, nil)
	require.Equal(t, 200, status)

	answers := submitAnswers(t, quizID, 2)
	status, envelope = doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/submit", quizID), studentTok, map[string]interface{}{"answers": answers})
	require.Equal(t, 201, status)
	certID := dataField(t, envelope)["certificate_id"].(string)

	status, envelope = doRequest(t, app, "GET", "/user/certificate/"+certID, studentTok, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "SQL Basics", dataField(t, envelope)["course_title"])

	status, _ = doRequest(t, app, "GET", "/user/certificate/"+certID, otherTok, nil)
	assert.Equal(t, 403, status)
}

func TestGetOfferingQuizzes_OwnerOnly(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "qteach9", models.RoleTeacher)
	_, intruderTok := seedUser(t, "qteach9b", models.RoleTeacher)

	crs := seedCourse(t, "Compilers", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/quiz", offering.ID), teacherTok, quizPayload(50))
	require.Equal(t, 201, status)

	status, envelope := doRequest(t, app, "GET", fmt.Sprintf("/teacher/offering/%d/quizzes", offering.ID), teacherTok, nil)
	require.Equal(t, 200, status)

	data := dataField(t, envelope)
	quizzes := data["quizzes"].([]interface{})
	require.Len(t, quizzes, 1)
	assert.Equal(t, float64(2), quizzes[0].(map[string]interface{})["question_count"])

	status, _ = doRequest(t, app, "GET", fmt.Sprintf("/teacher/offering/%d/quizzes", offering.ID), intruderTok, nil)
	assert.Equal(t, 403, status)
}

func TestSubmitQuiz_NoQuestions(t *testing.T) {
	app := setupTestApp(t)

	teacher, _ := seedUser(t, "qteach10", models.RoleTeacher)
	student, studentTok := seedUser(t, "qstud10", models.RoleStudent)

	crs := seedCourse(t, "Empty Shell", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	// A quiz can end up with no questions; scoring treats that as 0, not
	// as an error
	quiz := courseModels.Quiz{CourseOfferingID: offering.ID, Title: "Placeholder", PassPercentage: 50}
	require.NoError(t, database.Database.Db.Create(&quiz).Error)

	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/offering/%d/enroll", offering.ID), studentTok, nil)
	require.Equal(t, 200, status)

	status, envelope := doRequest(t, app, "POST", fmt.Sprintf("/quiz/%d/submit", quiz.ID), studentTok, map[string]interface{}{"answers": map[string]uint{}})
	require.Equal(t, 201, status)

	data := dataField(t, envelope)
	assert.Equal(t, float64(0), data["score"])
	assert.Equal(t, false, data["passed"])
	assert.NotContains(t, data, "certificate_id")

	var attemptCount int64
	database.Database.Db.Model(&courseModels.StudentQuizAttempt{}).
		Where("student_id = ? AND quiz_id = ?", student.ID, quiz.ID).Count(&attemptCount)
	assert.Equal(t, int64(1), attemptCount)
}
