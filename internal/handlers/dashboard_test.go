package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"vistoria-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardResponse struct {
	ByStatus []struct {
		Status models.VistoriaStatus `json:"status"`
		Count  int64                 `json:"count"`
	} `json:"by_status"`
	ByInspector []struct {
		InspectorID uint  `json:"inspector_id"`
		Count       int64 `json:"count"`
	} `json:"by_inspector"`
}

func TestDashboardScoping(t *testing.T) {
	app := newTestApp(t)
	w := app.seedWorld()

	vA := app.createVistoria(w, w.inspectorA.ID)
	app.createVistoria(w, w.inspectorA.ID)
	app.createVistoria(w, w.inspectorB.ID)

	resp := app.do(http.MethodPost, fmt.Sprintf("/vistorias/%d/start", vA.ID), nil, w.inspACk)
	require.Equal(t, http.StatusOK, resp.Code)

	// admin sees the whole operation and the per-inspector breakdown
	resp = app.do(http.MethodGet, "/dashboard", nil, w.adminCk)
	require.Equal(t, http.StatusOK, resp.Code)
	var adminView dashboardResponse
	decode(t, resp, &adminView)

	totals := map[models.VistoriaStatus]int64{}
	for _, sc := range adminView.ByStatus {
		totals[sc.Status] = sc.Count
	}
	assert.EqualValues(t, 2, totals[models.StatusPending])
	assert.EqualValues(t, 1, totals[models.StatusInProgress])
	require.Len(t, adminView.ByInspector, 2)

	// inspector B only sees their single pending assignment
	resp = app.do(http.MethodGet, "/dashboard", nil, w.inspBCk)
	require.Equal(t, http.StatusOK, resp.Code)
	var inspView dashboardResponse
	decode(t, resp, &inspView)
	require.Len(t, inspView.ByStatus, 1)
	assert.Equal(t, models.StatusPending, inspView.ByStatus[0].Status)
	assert.EqualValues(t, 1, inspView.ByStatus[0].Count)
	assert.Empty(t, inspView.ByInspector)
}

func TestAuditTrail(t *testing.T) {
	app := newTestApp(t)
	w := app.seedWorld()

	v := app.createVistoria(w, w.inspectorA.ID)
	resp := app.do(http.MethodPost, fmt.Sprintf("/vistorias/%d/start", v.ID), nil, w.inspACk)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = app.do(http.MethodGet, "/audit", nil, w.adminCk)
	require.Equal(t, http.StatusOK, resp.Code)
	var logs []models.AuditLog
	decode(t, resp, &logs)
	require.NotEmpty(t, logs)

	actions := map[string]bool{}
	for _, l := range logs {
		actions[l.Action] = true
	}
	assert.True(t, actions["create"])
	assert.True(t, actions["start"])

	resp = app.do(http.MethodGet, "/audit", nil, w.inspACk)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
