package dashboardController_test

import (
	"net/http"
	"testing"
	"time"

	"learnly/models"
	"learnly/models/training"
	"learnly/testutil"

	"github.com/jinzhu/now"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPayment(t *testing.T, db *gorm.DB, userID, productID uint, ref string, amount float64, status string, approvedAt *time.Time) {
	t.Helper()
	p := models.Payment{
		UserID:            userID,
		ProductID:         productID,
		Amount:            amount,
		Currency:          "BRL",
		Status:            status,
		ExternalReference: ref,
		ApprovedAt:        approvedAt,
	}
	require.NoError(t, db.Create(&p).Error)
}

func TestStats(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t)
	adminUser := testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)
	admin := testutil.Token(t, adminUser)
	student := testutil.SeedUser(t, db, "student@example.com", models.RoleUser)

	published := testutil.SeedTraining(t, db, "published-one", training.StatusPublished, 100)
	testutil.SeedTraining(t, db, "draft-one", training.StatusDraft, 0)
	testutil.SeedTraining(t, db, "draft-two", training.StatusDraft, 0)

	require.NoError(t, db.Create(&training.Enrollment{UserID: student.ID, TrainingID: published.ID, Status: training.EnrollmentCompleted}).Error)

	product := models.Product{Name: "Bundle", Slug: "bundle", Price: 100, Currency: "BRL", Active: true}
	require.NoError(t, db.Create(&product).Error)

	current := time.Now()
	previous := now.New(current).BeginningOfMonth().AddDate(0, 0, -1).Add(12 * time.Hour)
	seedPayment(t, db, student.ID, product.ID, "ref-now", 100, models.PaymentApproved, &current)
	seedPayment(t, db, student.ID, product.ID, "ref-prev", 40, models.PaymentApproved, &previous)
	seedPayment(t, db, student.ID, product.ID, "ref-pending", 999, models.PaymentPending, nil)

	page := testutil.SeedLandingPage(t, db, adminUser.ID, "promo", true)
	require.NoError(t, db.Create(&models.Lead{LandingPageID: page.ID, Name: "Ana", Email: "ana@example.com", SyncStatus: models.SyncPending}).Error)

	status, _ := testutil.Do(t, app, http.MethodGet, "/admin/dashboard/stats", testutil.Token(t, student), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := testutil.Do(t, app, http.MethodGet, "/admin/dashboard/stats", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	out := env.Map()

	trainings := out["trainings"].(map[string]interface{})
	assert.EqualValues(t, 1, trainings["published"])
	assert.EqualValues(t, 2, trainings["draft"])
	assert.EqualValues(t, 0, trainings["deleted"])

	assert.EqualValues(t, 2, out["users"])
	assert.EqualValues(t, 1, out["enrollments"])
	assert.EqualValues(t, 1, out["completed_enrollments"])
	assert.EqualValues(t, 1, out["leads"])
	assert.InDelta(t, 140, out["revenue"], 0.001)

	thisMonth := out["this_month"].(map[string]interface{})
	assert.EqualValues(t, 1, thisMonth["approved_payments"])
	assert.InDelta(t, 100, thisMonth["revenue"], 0.001)

	lastMonth := out["last_month"].(map[string]interface{})
	assert.EqualValues(t, 1, lastMonth["approved_payments"])
	assert.InDelta(t, 40, lastMonth["revenue"], 0.001)
}
