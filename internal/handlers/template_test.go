package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"vistoria-api/internal/database"
	"vistoria-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTemplateAndFetchByVesselType(t *testing.T) {
	app := newTestApp(t)
	w := app.seedWorld()

	resp := app.do(http.MethodPost, "/templates", gin.H{
		"vessel_type": models.VesselVeleiro,
		"name":        "Checklist veleiro",
		"items": []gin.H{
			{"position": 1, "name": "Casco e quilha", "mandatory": true},
			{"position": 2, "name": "Mastro e velame", "mandatory": true},
		},
	}, w.adminCk)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = app.do(http.MethodGet, "/vessel-types/veleiro/template", nil, w.inspACk)
	require.Equal(t, http.StatusOK, resp.Code)
	var tpl models.ChecklistTemplate
	decode(t, resp, &tpl)
	assert.Equal(t, "Checklist veleiro", tpl.Name)
	require.Len(t, tpl.Items, 2)
	assert.Equal(t, "Casco e quilha", tpl.Items[0].Name)

	resp = app.do(http.MethodGet, "/vessel-types/jetski/template", nil, w.inspACk)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = app.do(http.MethodGet, "/vessel-types/submarino/template", nil, w.inspACk)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTemplateWritesRequireAdmin(t *testing.T) {
	app := newTestApp(t)
	w := app.seedWorld()

	resp := app.do(http.MethodPost, "/templates", gin.H{
		"vessel_type": models.VesselJetSki,
		"name":        "Checklist jetski",
	}, w.inspACk)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = app.do(http.MethodPost, fmt.Sprintf("/templates/%d/items", w.template.ID),
		gin.H{"name": "Item novo"}, w.inspACk)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// reads stay open to inspectors
	resp = app.do(http.MethodGet, "/templates", nil, w.inspACk)
	assert.Equal(t, http.StatusOK, resp.Code)
}

// Editing master data must never rewrite item copies already handed to
// open vistorias.
func TestTemplateEditLeavesInstantiatedCopiesUntouched(t *testing.T) {
	app := newTestApp(t)
	w := app.seedWorld()

	v := app.createVistoria(w, w.inspectorA.ID)
	items := app.instantiate(v.ID, w.inspACk)
	require.True(t, items[0].Mandatory)

	// demote the master "Casco" item to optional and rename it
	var master models.ChecklistTemplateItem
	require.NoError(t, database.DB.
		Where("checklist_template_id = ? AND position = 1", w.template.ID).
		First(&master).Error)

	newName := "Casco e convés"
	mandatory := false
	resp := app.do(http.MethodPut, fmt.Sprintf("/template-items/%d", master.ID),
		gin.H{"name": newName, "mandatory": mandatory}, w.adminCk)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated models.ChecklistTemplateItem
	decode(t, resp, &updated)
	assert.Equal(t, newName, updated.Name)
	assert.False(t, updated.Mandatory)

	// the copy still carries the snapshot taken at instantiation
	var copyItem models.VistoriaChecklistItem
	require.NoError(t, database.DB.First(&copyItem, items[0].ID).Error)
	assert.Equal(t, "Casco", copyItem.Name)
	assert.True(t, copyItem.Mandatory)

	// and the approval gate still counts it as mandatory
	resp = app.do(http.MethodGet, fmt.Sprintf("/vistorias/%d/progress", v.ID), nil, w.inspACk)
	require.Equal(t, http.StatusOK, resp.Code)
	var progress models.ChecklistProgress
	decode(t, resp, &progress)
	assert.Equal(t, 2, progress.MandatoryPending)

	// deleting the master item leaves the copy alone too
	resp = app.do(http.MethodDelete, fmt.Sprintf("/template-items/%d", master.ID), nil, w.adminCk)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, database.DB.First(&copyItem, items[0].ID).Error)
}

func TestAddTemplateItemAppliesToNewInstantiationsOnly(t *testing.T) {
	app := newTestApp(t)
	w := app.seedWorld()

	before := app.createVistoria(w, w.inspectorA.ID)
	beforeItems := app.instantiate(before.ID, w.inspACk)
	require.Len(t, beforeItems, 3)

	resp := app.do(http.MethodPost, fmt.Sprintf("/templates/%d/items", w.template.ID),
		gin.H{"position": 4, "name": "Extintores", "mandatory": true}, w.adminCk)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	after := app.createVistoria(w, w.inspectorA.ID)
	afterItems := app.instantiate(after.ID, w.inspACk)
	require.Len(t, afterItems, 4)
	assert.Equal(t, "Extintores", afterItems[3].Name)

	// the earlier vistoria keeps its three-item snapshot
	var count int64
	require.NoError(t, database.DB.Model(&models.VistoriaChecklistItem{}).
		Where("vistoria_id = ?", before.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}
