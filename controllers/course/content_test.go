package controllers_test

import (
	"fmt"
	"testing"

	"learnhub/database"
	"learnhub/models"
	courseModels "learnhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentAccess(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "cteach1", models.RoleTeacher)
	_, enrolledTok := seedUser(t, "cstud1", models.RoleStudent)
	_, outsiderTok := seedUser(t, "cstud1b", models.RoleStudent)

	crs := seedCourse(t, "Web Dev", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	body := map[string]interface{}{
		"title":        "Lecture 1",
		"content_type": "video",
		"video_url":    "https://cdn.example.com/lecture1.mp4",
	}
	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/content", offering.ID), teacherTok, body)
	require.Equal(t, 201, status)

	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/offering/%d/enroll", offering.ID), enrolledTok, nil)
	require.Equal(t, 200, status)

	// Enrolled student sees the material
	status, envelope := doRequest(t, app, "GET", fmt.Sprintf("/offering/%d/content", offering.ID), enrolledTok, nil)
	require.Equal(t, 200, status)
	data := dataField(t, envelope)
	assert.Equal(t, float64(1), data["total"])

	// The offering's own teacher sees it without an enrollment
	status, _ = doRequest(t, app, "GET", fmt.Sprintf("/offering/%d/content", offering.ID), teacherTok, nil)
	assert.Equal(t, 200, status)

	// An outsider does not
	status, _ = doRequest(t, app, "GET", fmt.Sprintf("/offering/%d/content", offering.ID), outsiderTok, nil)
	assert.Equal(t, 403, status)
}

func TestContentAccess_PaidCourse(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "cteach2", models.RoleTeacher)
	payer, payerTok := seedUser(t, "cstud2", models.RoleStudent)

	crs := seedCourse(t, "Pro Web Dev", 60, false)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	body := map[string]interface{}{
		"title":        "Syllabus",
		"content_type": "file",
		"file_url":     "https://cdn.example.com/syllabus.pdf",
	}
	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/content", offering.ID), teacherTok, body)
	require.Equal(t, 201, status)

	// Unpaid: no access
	status, _ = doRequest(t, app, "GET", fmt.Sprintf("/offering/%d/content", offering.ID), payerTok, nil)
	require.Equal(t, 403, status)

	// Payment alone grants access, even before picking this offering
	seedSuccessPayment(t, payer.ID, crs.ID, 60)
	status, _ = doRequest(t, app, "GET", fmt.Sprintf("/offering/%d/content", offering.ID), payerTok, nil)
	assert.Equal(t, 200, status)
}

func TestAddContent_RequiresMatchingURL(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "cteach3", models.RoleTeacher)
	crs := seedCourse(t, "Web Dev", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	body := map[string]interface{}{
		"title":        "Broken",
		"content_type": "video",
		// no video_url
	}
	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/content", offering.ID), teacherTok, body)
	assert.Equal(t, 422, status)
}

func TestDeleteContent(t *testing.T) {
	app := setupTestApp(t)

	teacher, teacherTok := seedUser(t, "cteach4", models.RoleTeacher)
	_, studentTok := seedUser(t, "cstud4", models.RoleStudent)

	crs := seedCourse(t, "Web Dev", 0, true)
	offering := seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	body := map[string]interface{}{
		"title":        "Old lecture",
		"content_type": "link",
		"link_url":     "https://example.com/old",
	}
	status, _ := doRequest(t, app, "POST", fmt.Sprintf("/teacher/offering/%d/content", offering.ID), teacherTok, body)
	require.Equal(t, 201, status)

	var content courseModels.CourseContent
	require.NoError(t, database.Database.Db.Where("course_offering_id = ?", offering.ID).First(&content).Error)

	status, _ = doRequest(t, app, "DELETE", fmt.Sprintf("/teacher/offering/%d/content/%d", offering.ID, content.ID), teacherTok, nil)
	require.Equal(t, 200, status)

	// Soft-deleted content disappears from the student listing
	status, _ = doRequest(t, app, "POST", fmt.Sprintf("/offering/%d/enroll", offering.ID), studentTok, nil)
	require.Equal(t, 200, status)

	status, envelope := doRequest(t, app, "GET", fmt.Sprintf("/offering/%d/content", offering.ID), studentTok, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(0), dataField(t, envelope)["total"])
}
