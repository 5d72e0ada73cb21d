package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"learnhub/config"
	"learnhub/database"
	"learnhub/middleware"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/routers/courseRoutes"
	"learnhub/routers/paymentRoutes"
	"learnhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestApp wires a fresh in-memory database and the full route table.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	n := atomic.AddInt64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:coursetest%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupTeacherRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)

	return app
}

func seedUser(t *testing.T, username, role string) (models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:        username,
		Email:           username + "@example.com",
		Password:        string(hashed),
		Role:            role,
		IsEmailVerified: true,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Username, user.Role, user.Email)
	require.NoError(t, err)

	return user, token
}

func seedCourse(t *testing.T, title string, price float64, isFree bool) courseModels.Course {
	t.Helper()

	crs := courseModels.Course{Title: title, Price: price, IsFree: isFree}
	require.NoError(t, database.Database.Db.Create(&crs).Error)
	return crs
}

func seedOffering(t *testing.T, courseID, teacherID uint, semester string, year int) courseModels.CourseOffering {
	t.Helper()

	offering := courseModels.CourseOffering{
		CourseID:  courseID,
		TeacherID: teacherID,
		Semester:  semester,
		Year:      year,
	}
	require.NoError(t, database.Database.Db.Create(&offering).Error)
	return offering
}

func seedSuccessPayment(t *testing.T, studentID, courseID uint, amount float64) courseModels.Payment {
	t.Helper()

	payment := courseModels.Payment{
		StudentID:     studentID,
		CourseID:      &courseID,
		Amount:        amount,
		PaymentMethod: "paypal",
		Status:        courseModels.PaymentSuccess,
		TransactionID: utils.GenerateTransactionID(database.Database.Db, "paypal"),
	}
	require.NoError(t, database.Database.Db.Create(&payment).Error)
	return payment
}

// doRequest performs an authenticated JSON request against the test app and
// decodes the standard response envelope.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &envelope), "body: %s", raw)
	}

	return resp.StatusCode, envelope
}

func dataField(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "expected data object, got %v", envelope["data"])
	return data
}

// fakeGateway stands in for the PayPal client during tests.
type fakeGateway struct {
	createFn  func(amount float64, currency, returnURL, cancelURL, description string) (*utils.GatewayHandoff, error)
	executeFn func(paymentID, payerID string) error
}

func (f *fakeGateway) CreatePayment(amount float64, currency, returnURL, cancelURL, description string) (*utils.GatewayHandoff, error) {
	return f.createFn(amount, currency, returnURL, cancelURL, description)
}

func (f *fakeGateway) ExecutePayment(paymentID, payerID string) error {
	return f.executeFn(paymentID, payerID)
}

func installFakeGateway(t *testing.T, gw *fakeGateway) {
	t.Helper()

	prev := utils.Gateway
	utils.Gateway = gw
	t.Cleanup(func() { utils.Gateway = prev })
}

func approvingGateway(paymentID string) *fakeGateway {
	return &fakeGateway{
		createFn: func(amount float64, currency, returnURL, cancelURL, description string) (*utils.GatewayHandoff, error) {
			return &utils.GatewayHandoff{
				PaymentID:   paymentID,
				ApprovalURL: "https://sandbox.paypal.test/approve/" + paymentID,
			}, nil
		},
		executeFn: func(pID, payerID string) error { return nil },
	}
}
