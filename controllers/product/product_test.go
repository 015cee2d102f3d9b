package productController_test

import (
	"fmt"
	"net/http"
	"testing"

	"learnly/models"
	"learnly/models/training"
	"learnly/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductAdminAndStorefront(t *testing.T) {
	db := testutil.NewDB(t)
	app := testutil.NewApp(t)
	admin := testutil.Token(t, testutil.SeedUser(t, db, "admin@example.com", models.RoleAdmin))
	user := testutil.Token(t, testutil.SeedUser(t, db, "user@example.com", models.RoleUser))
	tr := testutil.SeedTraining(t, db, "go-pro", training.StatusPublished, 199)

	status, env := testutil.Do(t, app, http.MethodPost, "/admin/products", admin, map[string]interface{}{
		"name":        "Go Pro Bundle",
		"price":       199,
		"training_id": tr.ID,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	created := env.Map()
	assert.Equal(t, "go-pro-bundle", created["slug"])
	assert.Equal(t, "BRL", created["currency"])
	id := uint(created["id"].(float64))

	status, env = testutil.Do(t, app, http.MethodPost, "/admin/products", admin, map[string]interface{}{
		"name":  "go pro bundle",
		"price": 10,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CONFLICT", env.Error)

	status, env = testutil.Do(t, app, http.MethodPost, "/admin/products", admin, map[string]interface{}{
		"name":        "Orphan",
		"training_id": 999,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Details, "training_id")

	status, env = testutil.Do(t, app, http.MethodGet, "/products/go-pro-bundle", user, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Go Pro Bundle", env.Map()["name"])

	status, _ = testutil.Do(t, app, http.MethodPut, fmt.Sprintf("/admin/products/%d", id), admin, map[string]interface{}{"active": false})
	require.Equal(t, http.StatusOK, status)

	status, _ = testutil.Do(t, app, http.MethodGet, "/products/go-pro-bundle", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	_, env = testutil.Do(t, app, http.MethodGet, "/admin/products", admin, nil)
	assert.Len(t, env.Map()["items"], 1)

	status, _ = testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("/admin/products/%d", id), admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
