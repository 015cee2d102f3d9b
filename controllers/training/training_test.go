package trainingController_test

import (
	"fmt"
	"net/http"
	"testing"

	"learnly/models"
	"learnly/models/training"
	"learnly/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app   *fiber.App
	admin string
	user  string
}

func setup(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	admin := testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin)
	user := testutil.SeedUser(t, db, "user@example.com", models.RoleUser)
	return &fixture{
		app:   testutil.NewApp(t),
		admin: testutil.Token(t, admin),
		user:  testutil.Token(t, user),
	}
}

func (f *fixture) createTraining(t *testing.T, name string) uint {
	status, env := testutil.Do(t, f.app, http.MethodPost, "/admin/trainings", f.admin, map[string]interface{}{
		"name":  name,
		"price": 0,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	return uint(env.Map()["id"].(float64))
}

func (f *fixture) createModule(t *testing.T, trainingID uint, title string) uint {
	status, env := testutil.Do(t, f.app, http.MethodPost, fmt.Sprintf("/admin/trainings/%d/modules", trainingID), f.admin,
		map[string]interface{}{"title": title})
	require.Equal(t, http.StatusCreated, status, env.Message)
	return uint(env.Map()["id"].(float64))
}

func titles(t *testing.T, env testutil.Envelope) []string {
	t.Helper()
	items, ok := env.Data.([]interface{})
	require.True(t, ok, "data is not a list")
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.(map[string]interface{})["title"].(string)
	}
	return out
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	f := setup(t)

	status, _ := testutil.Do(t, f.app, http.MethodGet, "/admin/trainings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := testutil.Do(t, f.app, http.MethodGet, "/admin/trainings", f.user, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied! Admin only.", env.Message)
}

func TestCreateTrainingValidation(t *testing.T) {
	f := setup(t)

	status, env := testutil.Do(t, f.app, http.MethodPost, "/admin/trainings", f.admin, map[string]interface{}{
		"name":  "ab",
		"price": -1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Status)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
	assert.Contains(t, env.Details, "name")
	assert.Contains(t, env.Details, "price")

	status, env = testutil.Do(t, f.app, http.MethodPost, "/admin/trainings", f.admin, `{"name":"Go Basics","unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body!", env.Message)
}

func TestCreateTrainingRejectsDuplicateName(t *testing.T) {
	f := setup(t)
	f.createTraining(t, "Go Basics")

	status, env := testutil.Do(t, f.app, http.MethodPost, "/admin/trainings", f.admin, map[string]interface{}{"name": "go basics"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CONFLICT", env.Error)
}

func TestModuleLifecycle(t *testing.T) {
	f := setup(t)
	tid := f.createTraining(t, "Go Basics")

	a := f.createModule(t, tid, "Intro")
	b := f.createModule(t, tid, "Types")
	c := f.createModule(t, tid, "Concurrency")

	base := fmt.Sprintf("/admin/trainings/%d/modules", tid)

	// move the last module to the front and rename it in one request
	status, env := testutil.Do(t, f.app, http.MethodPut, fmt.Sprintf("%s/%d", base, c), f.admin, map[string]interface{}{
		"title":       "Goroutines",
		"order_index": 0,
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "Goroutines", env.Map()["title"])

	_, env = testutil.Do(t, f.app, http.MethodGet, base, f.admin, nil)
	assert.Equal(t, []string{"Goroutines", "Intro", "Types"}, titles(t, env))

	status, env = testutil.Do(t, f.app, http.MethodPut, fmt.Sprintf("%s/%d", base, a), f.admin, map[string]interface{}{"order_index": 3})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Details, "order_index")

	status, _ = testutil.Do(t, f.app, http.MethodDelete, fmt.Sprintf("%s/%d", base, a), f.admin, nil)
	assert.Equal(t, http.StatusNoContent, status)

	_, env = testutil.Do(t, f.app, http.MethodGet, base, f.admin, nil)
	assert.Equal(t, []string{"Goroutines", "Types"}, titles(t, env))

	status, env = testutil.Do(t, f.app, http.MethodPost, base+"/reorder", f.admin, map[string]interface{}{"modules": []uint{b, c}})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, []string{"Types", "Goroutines"}, titles(t, env))

	status, env = testutil.Do(t, f.app, http.MethodPost, base+"/reorder", f.admin, map[string]interface{}{"modules": []uint{b}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Error)
}

func TestModuleNotFound(t *testing.T) {
	f := setup(t)
	tid := f.createTraining(t, "Go Basics")

	status, env := testutil.Do(t, f.app, http.MethodDelete, fmt.Sprintf("/admin/trainings/%d/modules/999", tid), f.admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error)

	status, _ = testutil.Do(t, f.app, http.MethodPost, "/admin/trainings/999/modules", f.admin, map[string]interface{}{"title": "Intro"})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = testutil.Do(t, f.app, http.MethodGet, "/admin/trainings/abc/modules", f.admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Details, "training_id")
}

func TestLessonLifecycle(t *testing.T) {
	f := setup(t)
	tid := f.createTraining(t, "Go Basics")
	mid := f.createModule(t, tid, "Intro")
	base := fmt.Sprintf("/admin/modules/%d/lessons", mid)

	status, env := testutil.Do(t, f.app, http.MethodPost, base, f.admin, map[string]interface{}{
		"title":        "Setup",
		"content_type": "video",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Details, "video_url")

	var ids []uint
	for _, title := range []string{"Setup", "Hello", "Tooling"} {
		status, env = testutil.Do(t, f.app, http.MethodPost, base, f.admin, map[string]interface{}{
			"title":        title,
			"content_type": "video",
			"video_url":    "https://videos.example.com/" + title,
			"duration":     60,
		})
		require.Equal(t, http.StatusCreated, status, env.Message)
		ids = append(ids, uint(env.Map()["id"].(float64)))
	}

	status, _ = testutil.Do(t, f.app, http.MethodPut, fmt.Sprintf("%s/%d", base, ids[0]), f.admin, map[string]interface{}{"order_index": 2})
	require.Equal(t, http.StatusOK, status)

	_, env = testutil.Do(t, f.app, http.MethodGet, base, f.admin, nil)
	assert.Equal(t, []string{"Hello", "Tooling", "Setup"}, titles(t, env))

	status, _ = testutil.Do(t, f.app, http.MethodDelete, fmt.Sprintf("%s/%d", base, ids[1]), f.admin, nil)
	assert.Equal(t, http.StatusNoContent, status)

	_, env = testutil.Do(t, f.app, http.MethodGet, base, f.admin, nil)
	assert.Equal(t, []string{"Tooling", "Setup"}, titles(t, env))
}

func TestDeleteTrainingCascades(t *testing.T) {
	f := setup(t)
	tid := f.createTraining(t, "Go Basics")
	mid := f.createModule(t, tid, "Intro")
	status, _ := testutil.Do(t, f.app, http.MethodPost, fmt.Sprintf("/admin/modules/%d/lessons", mid), f.admin, map[string]interface{}{
		"title":        "Reading",
		"content_type": "document",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = testutil.Do(t, f.app, http.MethodDelete, fmt.Sprintf("/admin/trainings/%d", tid), f.admin, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = testutil.Do(t, f.app, http.MethodGet, fmt.Sprintf("/admin/trainings/%d", tid), f.admin, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = testutil.Do(t, f.app, http.MethodGet, fmt.Sprintf("/admin/modules/%d/lessons", mid), f.admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCatalogHidesContentUntilEnrolled(t *testing.T) {
	f := setup(t)
	tid := f.createTraining(t, "Go Basics")
	mid := f.createModule(t, tid, "Intro")
	status, env := testutil.Do(t, f.app, http.MethodPost, fmt.Sprintf("/admin/modules/%d/lessons", mid), f.admin, map[string]interface{}{
		"title":        "Setup",
		"content_type": "video",
		"video_url":    "https://videos.example.com/setup",
	})
	require.Equal(t, http.StatusCreated, status)
	lid := uint(env.Map()["id"].(float64))

	// drafts are invisible to users
	status, _ = testutil.Do(t, f.app, http.MethodGet, fmt.Sprintf("/trainings/%d", tid), f.user, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = testutil.Do(t, f.app, http.MethodPost, fmt.Sprintf("/admin/trainings/%d/publish", tid), f.admin, nil)
	require.Equal(t, http.StatusOK, status)

	lessonPath := fmt.Sprintf("/trainings/%d/modules/%d/lessons/%d", tid, mid, lid)
	status, env = testutil.Do(t, f.app, http.MethodGet, lessonPath, f.user, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You are not enrolled in this training!", env.Message)

	status, _ = testutil.Do(t, f.app, http.MethodPost, fmt.Sprintf("/trainings/%d/enroll", tid), f.user, nil)
	assert.Equal(t, http.StatusCreated, status)
	status, env = testutil.Do(t, f.app, http.MethodPost, fmt.Sprintf("/trainings/%d/enroll", tid), f.user, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Already enrolled!", env.Message)

	status, env = testutil.Do(t, f.app, http.MethodGet, lessonPath, f.user, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.Equal(t, "https://videos.example.com/setup", env.Map()["video_url"])

	status, env = testutil.Do(t, f.app, http.MethodPost, fmt.Sprintf("/trainings/%d/lessons/%d/complete", tid, lid), f.user, nil)
	require.Equal(t, http.StatusOK, status, env.Message)

	_, env = testutil.Do(t, f.app, http.MethodGet, fmt.Sprintf("/trainings/%d/progress", tid), f.user, nil)
	enrollment := env.Map()["enrollment"].(map[string]interface{})
	assert.Equal(t, training.EnrollmentCompleted, enrollment["status"])
	assert.EqualValues(t, 100, enrollment["progress"])
}
