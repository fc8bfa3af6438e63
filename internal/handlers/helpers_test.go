package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vistoria-api/internal/config"
	"vistoria-api/internal/database"
	"vistoria-api/internal/models"
	"vistoria-api/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "secret123"

// testApp wires the real router against a per-test in-memory database.
// Tests go through HTTP like any client would; only seeding touches the
// database directly.
type testApp struct {
	t      *testing.T
	router *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.DB = db

	cfg := &config.Config{ServerPort: "8080", SessionSecret: "test-secret"}
	return &testApp{t: t, router: server.NewRouter(cfg)}
}

func (a *testApp) do(method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func (a *testApp) createUser(name, email string, role models.UserRole) models.User {
	a.t.Helper()

	// MinCost keeps the fixture fast; strength is irrelevant here
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(a.t, err)

	u := models.User{Name: name, Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(a.t, database.DB.Create(&u).Error)
	return u
}

func (a *testApp) login(email string) []*http.Cookie {
	a.t.Helper()

	w := a.do(http.MethodPost, "/login", gin.H{"email": email, "password": testPassword}, nil)
	require.Equal(a.t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(a.t, cookies)
	return cookies
}

// world is the minimal fleet a vistoria needs: an admin, two inspectors,
// one lancha with an active three-item template (two mandatory).
type world struct {
	admin      models.User
	inspectorA models.User
	inspectorB models.User

	adminCk []*http.Cookie
	inspACk []*http.Cookie
	inspBCk []*http.Cookie

	client   models.Client
	location models.Location
	vessel   models.Vessel
	template models.ChecklistTemplate
}

func (a *testApp) seedWorld() *world {
	a.t.Helper()

	w := &world{
		admin:      a.createUser("Admin", "admin@test.local", models.RoleAdmin),
		inspectorA: a.createUser("Inspector A", "a@test.local", models.RoleInspector),
		inspectorB: a.createUser("Inspector B", "b@test.local", models.RoleInspector),
	}
	w.adminCk = a.login(w.admin.Email)
	w.inspACk = a.login(w.inspectorA.Email)
	w.inspBCk = a.login(w.inspectorB.Email)

	w.client = models.Client{Name: "João da Silva", CPFCNPJ: "123.456.789-00"}
	require.NoError(a.t, database.DB.Create(&w.client).Error)

	w.location = models.Location{Name: "Marina Porto Bello", City: "Angra dos Reis", State: "RJ"}
	require.NoError(a.t, database.DB.Create(&w.location).Error)

	w.vessel = models.Vessel{
		ClientID: w.client.ID,
		Name:     "Mar Azul",
		Type:     models.VesselLancha,
		Year:     2019,
	}
	require.NoError(a.t, database.DB.Create(&w.vessel).Error)

	w.template = models.ChecklistTemplate{
		VesselType: models.VesselLancha,
		Name:       "Checklist lancha",
		Active:     true,
		Items: []models.ChecklistTemplateItem{
			{Position: 1, Name: "Casco", Mandatory: true, Active: true},
			{Position: 2, Name: "Motor", Mandatory: true, Active: true},
			{Position: 3, Name: "Teste de navegação", AllowsVideo: true, Active: true},
		},
	}
	require.NoError(a.t, database.DB.Create(&w.template).Error)

	return w
}

// createVistoria goes through the API so the create handler is exercised
// everywhere a fixture needs a vistoria.
func (a *testApp) createVistoria(w *world, inspectorID uint) models.Vistoria {
	a.t.Helper()

	resp := a.do(http.MethodPost, "/vistorias", gin.H{
		"vessel_id":     w.vessel.ID,
		"location_id":   w.location.ID,
		"inspector_id":  inspectorID,
		"inspector_fee": 300.0,
	}, w.adminCk)
	require.Equal(a.t, http.StatusCreated, resp.Code, resp.Body.String())

	var v models.Vistoria
	decode(a.t, resp, &v)
	require.Equal(a.t, models.StatusPending, v.Status)
	return v
}

func (a *testApp) instantiate(id uint, cookies []*http.Cookie) []models.VistoriaChecklistItem {
	a.t.Helper()

	resp := a.do(http.MethodPost, fmt.Sprintf("/vistorias/%d/checklist", id), nil, cookies)
	require.Equal(a.t, http.StatusCreated, resp.Code, resp.Body.String())

	var items []models.VistoriaChecklistItem
	decode(a.t, resp, &items)
	return items
}

func (a *testApp) setItemStatus(itemID uint, status models.ItemStatus, cookies []*http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	return a.do(http.MethodPatch, fmt.Sprintf("/checklist/items/%d", itemID), gin.H{"status": status}, cookies)
}
