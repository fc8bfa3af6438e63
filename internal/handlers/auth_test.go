package handlers_test

import (
	"net/http"
	"testing"

	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser("Admin", "admin@test.local", models.RoleAdmin)

	resp := app.do(http.MethodPost, "/login", gin.H{"email": admin.Email, "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = app.do(http.MethodPost, "/login", gin.H{"email": "ghost@test.local", "password": testPassword}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = app.do(http.MethodPost, "/login", gin.H{"email": admin.Email, "password": testPassword}, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var me models.User
	decode(t, resp, &me)
	assert.Equal(t, admin.Email, me.Email)
	assert.NotContains(t, resp.Body.String(), "password", "hash must never leave the API")
}

func TestRequireAuth(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser("Admin", "admin@test.local", models.RoleAdmin)

	resp := app.do(http.MethodGet, "/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	cookies := app.login(admin.Email)
	resp = app.do(http.MethodGet, "/me", nil, cookies)
	require.Equal(t, http.StatusOK, resp.Code)
	var me models.User
	decode(t, resp, &me)
	assert.Equal(t, models.RoleAdmin, me.Role)

	// logout hands back a cleared session cookie
	resp = app.do(http.MethodPost, "/logout", nil, cookies)
	require.Equal(t, http.StatusOK, resp.Code)
	cleared := resp.Result().Cookies()
	resp = app.do(http.MethodGet, "/me", nil, cleared)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRegisterInspector(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser("Admin", "admin@test.local", models.RoleAdmin)
	adminCk := app.login(admin.Email)

	resp := app.do(http.MethodPost, "/inspectors", gin.H{
		"name":     "Carlos Mendes",
		"email":    "carlos@test.local",
		"password": testPassword,
	}, adminCk)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var inspector models.User
	decode(t, resp, &inspector)
	assert.Equal(t, models.RoleInspector, inspector.Role)

	// the new account can log in right away
	inspCk := app.login("carlos@test.local")

	resp = app.do(http.MethodPost, "/inspectors", gin.H{
		"name":     "Carlos Clone",
		"email":    "carlos@test.local",
		"password": testPassword,
	}, adminCk)
	require.Equal(t, http.StatusConflict, resp.Code)
	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "email_taken", body["error"])

	// inspectors cannot mint accounts
	resp = app.do(http.MethodPost, "/inspectors", gin.H{
		"name":     "Novo",
		"email":    "novo@test.local",
		"password": testPassword,
	}, inspCk)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = app.do(http.MethodPost, "/inspectors", gin.H{
		"name":     "Curto",
		"email":    "curto@test.local",
		"password": "123",
	}, adminCk)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = app.do(http.MethodGet, "/inspectors", nil, inspCk)
	require.Equal(t, http.StatusOK, resp.Code)
	var inspectors []models.User
	decode(t, resp, &inspectors)
	require.Len(t, inspectors, 1)
	assert.Equal(t, "Carlos Mendes", inspectors[0].Name)
}
