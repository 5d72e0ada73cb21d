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

func TestGetAllCourses(t *testing.T) {
	app := setupTestApp(t)

	student, studentTok := seedUser(t, "catstud1", models.RoleStudent)
	teacher, _ := seedUser(t, "catteach1", models.RoleTeacher)

	free := seedCourse(t, "Free Intro", 0, true)
	paid := seedCourse(t, "Paid Masterclass", 99, false)
	seedOffering(t, free.ID, teacher.ID, "FALL", 2026)
	seedSuccessPayment(t, student.ID, paid.ID, 99)

	status, envelope := doRequest(t, app, "GET", "/course/list", studentTok, nil)
	require.Equal(t, 200, status)

	data := dataField(t, envelope)
	courses := data["courses"].([]interface{})
	require.Len(t, courses, 2)

	byTitle := map[string]map[string]interface{}{}
	for _, raw := range courses {
		entry := raw.(map[string]interface{})
		byTitle[entry["title"].(string)] = entry
	}

	assert.Equal(t, float64(1), byTitle["Free Intro"]["teacher_count"])
	assert.Equal(t, false, byTitle["Free Intro"]["user_has_paid"])
	assert.Equal(t, float64(0), byTitle["Paid Masterclass"]["teacher_count"])
	assert.Equal(t, true, byTitle["Paid Masterclass"]["user_has_paid"])

	pagination := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["total"])
}

func TestGetAllCourses_Filters(t *testing.T) {
	app := setupTestApp(t)

	_, studentTok := seedUser(t, "catstud2", models.RoleStudent)
	seedCourse(t, "Go for Beginners", 0, true)
	seedCourse(t, "Rust for Beginners", 50, false)

	status, envelope := doRequest(t, app, "GET", "/course/list?search=Go", studentTok, nil)
	require.Equal(t, 200, status)
	assert.Len(t, dataField(t, envelope)["courses"].([]interface{}), 1)

	status, envelope = doRequest(t, app, "GET", "/course/list?free=true", studentTok, nil)
	require.Equal(t, 200, status)
	courses := dataField(t, envelope)["courses"].([]interface{})
	require.Len(t, courses, 1)
	assert.Equal(t, "Go for Beginners", courses[0].(map[string]interface{})["title"])
}

func TestGetCourseDetails(t *testing.T) {
	app := setupTestApp(t)

	_, studentTok := seedUser(t, "catstud3", models.RoleStudent)
	teacher, _ := seedUser(t, "catteach3", models.RoleTeacher)

	crs := seedCourse(t, "Distributed Systems", 80, false)
	seedOffering(t, crs.ID, teacher.ID, "FALL", 2026)

	status, envelope := doRequest(t, app, "GET", fmt.Sprintf("/course/%d", crs.ID), studentTok, nil)
	require.Equal(t, 200, status)

	data := dataField(t, envelope)
	assert.Equal(t, false, data["user_has_paid"])
	assert.Equal(t, false, data["has_access"])

	offerings := data["offerings"].([]interface{})
	require.Len(t, offerings, 1)
	assert.Equal(t, "catteach3", offerings[0].(map[string]interface{})["teacher_name"])
}

func TestAdminCourseCRUD(t *testing.T) {
	app := setupTestApp(t)

	_, adminTok := seedUser(t, "admin1", models.RoleAdmin)
	_, studentTok := seedUser(t, "catstud4", models.RoleStudent)

	// Students cannot reach the admin surface at all
	status, _ := doRequest(t, app, "POST", "/admin/course/create", studentTok, map[string]interface{}{"title": "Nope", "is_free": true})
	require.Equal(t, 403, status)

	body := map[string]interface{}{
		"title":       "Machine Learning",
		"description": "From regression to transformers.",
		"price":       120.0,
		"is_free":     false,
	}
	status, envelope := doRequest(t, app, "POST", "/admin/course/create", adminTok, body)
	require.Equal(t, 201, status)

	created := dataField(t, envelope)
	courseID := uint(created["ID"].(float64))

	// Partial update: only the price changes
	status, _ = doRequest(t, app, "PUT", fmt.Sprintf("/admin/course/%d", courseID), adminTok, map[string]interface{}{"price": 99.0})
	require.Equal(t, 200, status)

	var crs courseModels.Course
	require.NoError(t, database.Database.Db.First(&crs, courseID).Error)
	assert.Equal(t, "Machine Learning", crs.Title)
	assert.Equal(t, 99.0, crs.Price)

	status, envelope = doRequest(t, app, "GET", fmt.Sprintf("/admin/course/%d", courseID), adminTok, nil)
	require.Equal(t, 200, status)
	detail := dataField(t, envelope)
	assert.Equal(t, float64(0), detail["enrollment_count"])
	assert.Equal(t, float64(0), detail["revenue"])

	// Soft delete removes it from the catalog but keeps the row
	status, _ = doRequest(t, app, "DELETE", fmt.Sprintf("/admin/course/%d", courseID), adminTok, nil)
	require.Equal(t, 200, status)

	status, _ = doRequest(t, app, "GET", fmt.Sprintf("/course/%d", courseID), studentTok, nil)
	assert.Equal(t, 404, status)

	require.NoError(t, database.Database.Db.First(&crs, courseID).Error)
	assert.True(t, crs.IsDeleted)
}

func TestAdminCreateCourse_ValidatesPricing(t *testing.T) {
	app := setupTestApp(t)

	_, adminTok := seedUser(t, "admin2", models.RoleAdmin)

	// Free with a price is contradictory
	body := map[string]interface{}{"title": "Broken", "price": 10.0, "is_free": true}
	status, _ := doRequest(t, app, "POST", "/admin/course/create", adminTok, body)
	assert.Equal(t, 422, status)

	// Paid with no price is too
	body = map[string]interface{}{"title": "Broken Too", "price": 0.0, "is_free": false}
	status, _ = doRequest(t, app, "POST", "/admin/course/create", adminTok, body)
	assert.Equal(t, 422, status)
}
