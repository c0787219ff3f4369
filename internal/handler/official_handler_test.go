package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ref-assign-api/internal/models"
	"github.com/noah-isme/ref-assign-api/internal/service"
)

type officialRepoMock struct {
	officials map[string]*models.Official
}

func (m *officialRepoMock) List(_ context.Context, _ models.OfficialFilter) ([]models.Official, int, error) {
	return nil, 0, nil
}

func (m *officialRepoMock) FindByID(_ context.Context, id string) (*models.Official, error) {
	official, ok := m.officials[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return official, nil
}

func (m *officialRepoMock) ExistsByEmail(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (m *officialRepoMock) Create(_ context.Context, official *models.Official) error {
	official.ID = "off-new"
	return nil
}

func (m *officialRepoMock) Deactivate(_ context.Context, _ string) error {
	return nil
}

type windowRepoMock struct {
	windows []models.AvailabilityWindow
}

func (m *windowRepoMock) ListByOfficial(_ context.Context, _ string) ([]models.AvailabilityWindow, error) {
	return m.windows, nil
}

func (m *windowRepoMock) Create(_ context.Context, window *models.AvailabilityWindow) error {
	window.ID = "win-new"
	m.windows = append(m.windows, *window)
	return nil
}

func (m *windowRepoMock) Delete(_ context.Context, _, _ string) error {
	return nil
}

func newOfficialHandlerFixture() *OfficialHandler {
	officials := &officialRepoMock{
		officials: map[string]*models.Official{
			"off-1": {ID: "off-1", FullName: "Dana Reeves", Email: "dana@example.com", CertificationLevel: 3, Active: true},
		},
	}
	windows := &windowRepoMock{
		windows: []models.AvailabilityWindow{
			{ID: "win-1", OfficialID: "off-1", Date: "2026-03-01", StartTime: "09:00", EndTime: "17:00", Available: true},
		},
	}
	return NewOfficialHandler(service.NewOfficialService(officials, windows, nil, nil))
}

func performRequest(handler gin.HandlerFunc, method, path string, params gin.Params, body []byte) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	handler(c)
	return w
}

func TestOfficialHandlerSubmitWindowSuccess(t *testing.T) {
	h := newOfficialHandlerFixture()
	payload := []byte(`{"date":"2026-03-02","startTime":"10:00","endTime":"12:00","available":true}`)

	w := performRequest(h.SubmitWindow, http.MethodPost, "/officials/off-1/windows", gin.Params{{Key: "id", Value: "off-1"}}, payload)

	require.Equal(t, http.StatusCreated, w.Code)
	var envelope struct {
		Data models.AvailabilityWindow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "win-new", envelope.Data.ID)
	require.True(t, envelope.Data.Available)
}

func TestOfficialHandlerSubmitWindowRejectsMalformed(t *testing.T) {
	h := newOfficialHandlerFixture()
	payload := []byte(`{"date":"2026-03-02","startTime":"9:00","endTime":"12:00","available":true}`)

	w := performRequest(h.SubmitWindow, http.MethodPost, "/officials/off-1/windows", gin.Params{{Key: "id", Value: "off-1"}}, payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "INVALID_WINDOW", envelope.Error.Code)
}

func TestOfficialHandlerCheckAvailability(t *testing.T) {
	h := newOfficialHandlerFixture()
	payload := []byte(`{"date":"2026-03-01","startTime":"10:00","endTime":"11:00"}`)

	w := performRequest(h.CheckAvailability, http.MethodPost, "/officials/off-1/availability/check", gin.Params{{Key: "id", Value: "off-1"}}, payload)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data struct {
			Status string `json:"status"`
			Score  int    `json:"score"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "AVAILABLE", envelope.Data.Status)
	require.Equal(t, 10, envelope.Data.Score)
}

func TestOfficialHandlerGetNotFound(t *testing.T) {
	h := newOfficialHandlerFixture()

	w := performRequest(h.Get, http.MethodGet, "/officials/off-missing", gin.Params{{Key: "id", Value: "off-missing"}}, nil)

	require.Equal(t, http.StatusNotFound, w.Code)
}
