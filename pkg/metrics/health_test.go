package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetHealthChecker(t *testing.T) {
	t.Helper()
	healthChecker = &HealthChecker{
		components: make(map[string]ComponentHealth),
		startTime:  time.Now(),
	}
}

func TestRegisterComponent(t *testing.T) {
	resetHealthChecker(t)

	RegisterComponent("scheduler", true, "running")

	comp, ok := healthChecker.components["scheduler"]
	require.True(t, ok)
	assert.True(t, comp.Healthy)
	assert.Equal(t, "running", comp.Message)
}

func TestUpdateComponent_ReplacesState(t *testing.T) {
	resetHealthChecker(t)

	RegisterComponent("heartbeat_applier", true, "ok")
	UpdateComponent("heartbeat_applier", false, "no heartbeats for 60s")

	comp := healthChecker.components["heartbeat_applier"]
	assert.False(t, comp.Healthy)
	assert.Equal(t, "no heartbeats for 60s", comp.Message)
}

func TestGetHealth(t *testing.T) {
	tests := []struct {
		name       string
		setup      func()
		wantStatus string
	}{
		{
			name: "all healthy",
			setup: func() {
				RegisterComponent("scheduler", true, "")
				RegisterComponent("heartbeat_applier", true, "")
			},
			wantStatus: "healthy",
		},
		{
			name: "one unhealthy",
			setup: func() {
				RegisterComponent("heartbeat_applier", true, "")
				RegisterComponent("scheduler", false, "local node id not set")
			},
			wantStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetHealthChecker(t)
			tt.setup()

			health := GetHealth()
			assert.Equal(t, tt.wantStatus, health.Status)
		})
	}
}

func TestGetReadiness_RequiresScheduler(t *testing.T) {
	resetHealthChecker(t)

	// Only a non-critical component is up; the scheduler hasn't registered.
	RegisterComponent("heartbeat_applier", true, "")

	readiness := GetReadiness()
	assert.Equal(t, "not_ready", readiness.Status)
	assert.NotEmpty(t, readiness.Message)

	RegisterComponent("scheduler", true, "")
	readiness = GetReadiness()
	assert.Equal(t, "ready", readiness.Status)
}

func TestGetReadiness_UnhealthyCriticalComponent(t *testing.T) {
	resetHealthChecker(t)

	RegisterComponent("scheduler", false, "local node id not set")

	readiness := GetReadiness()
	assert.Equal(t, "not_ready", readiness.Status)
	assert.Contains(t, readiness.Components["scheduler"], "local node id not set")
}

func TestHealthHandler_StatusCodes(t *testing.T) {
	resetHealthChecker(t)
	RegisterComponent("scheduler", true, "")

	w := httptest.NewRecorder()
	HealthHandler()(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	UpdateComponent("scheduler", false, "broken")
	w = httptest.NewRecorder()
	HealthHandler()(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var health HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, "unhealthy", health.Status)
}

func TestReadyHandler_StatusCodes(t *testing.T) {
	resetHealthChecker(t)

	w := httptest.NewRecorder()
	ReadyHandler()(w, httptest.NewRequest("GET", "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "no scheduler registered yet")

	RegisterComponent("scheduler", true, "")
	w = httptest.NewRecorder()
	ReadyHandler()(w, httptest.NewRequest("GET", "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var readiness HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&readiness))
	assert.Equal(t, "ready", readiness.Status)
}

func TestLivenessHandler_AlwaysOK(t *testing.T) {
	resetHealthChecker(t)

	w := httptest.NewRecorder()
	LivenessHandler()(w, httptest.NewRequest("GET", "/live", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "alive", response["status"])
	assert.NotEmpty(t, response["uptime"])
}
