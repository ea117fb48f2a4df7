package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-insights-api/internal/domain"
	"github.com/vfg2006/sales-insights-api/internal/scheduler"
	"github.com/vfg2006/sales-insights-api/pkg/apiErrors"
)

type stubRefresher struct {
	triggerErr error
	triggered  int
	status     domain.FeedStatus
}

func (s *stubRefresher) TriggerManualSync() error {
	s.triggered++
	return s.triggerErr
}

func (s *stubRefresher) GetStatus() domain.FeedStatus {
	return s.status
}

func TestRunFeedRefresh(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		triggerErr error
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{name: "Admin dispara a atualização", role: domain.RoleAdmin, wantStatus: http.StatusAccepted, wantCalls: 1},
		{name: "Atualização já em andamento", role: domain.RoleAdmin, triggerErr: scheduler.ErrSyncAlreadyRunning, wantStatus: http.StatusConflict, wantCode: apiErrors.ErrAlreadyRunning, wantCalls: 1},
		{name: "Visualizador não pode disparar", role: domain.RoleViewer, wantStatus: http.StatusForbidden, wantCode: apiErrors.ErrInsufficientPrivilege},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refresher := &stubRefresher{triggerErr: tt.triggerErr}
			h := newTestRouter(tt.role, Feed(refresher))

			rec := doRequest(t, h, http.MethodPost, "/v1/feed/refresh", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalls, refresher.triggered)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
		})
	}
}

func TestGetFeedStatus(t *testing.T) {
	completed := time.Date(2025, 2, 10, 3, 0, 5, 0, time.UTC)
	refresher := &stubRefresher{status: domain.FeedStatus{
		Enabled:             true,
		CronSchedule:        "0 3 * * *",
		Source:              "http",
		LastSyncCompletedAt: completed,
		Stores:              3,
		Records:             2400,
	}}

	h := newTestRouter(domain.RoleAdmin, Feed(refresher))
	rec := doRequest(t, h, http.MethodGet, "/v1/feed/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status domain.FeedStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, refresher.status.Records, status.Records)
	assert.True(t, status.LastSyncCompletedAt.Equal(completed))
}
