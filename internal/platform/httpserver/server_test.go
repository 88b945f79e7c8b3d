package httpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	scheduleservice "tranche/contexts/token-vesting/schedule-service"
	vestinghttp "tranche/contexts/token-vesting/schedule-service/transport/http"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(scheduleservice.NewInMemoryModule(logger), logger, "")
}

func doRequest(t *testing.T, server *Server, method string, path string, actor string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if actor != "" {
		req.Header.Set("X-Actor-Id", actor)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func initBody() string {
	start := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	return `{"schedule_id":"sched-1","mint":"mint-1","distributor":"dist-1","start_at":"` + start + `","total_supply":1200}`
}

func TestMutatingRoutesRequireActorHeader(t *testing.T) {
	server := newTestServer(t)
	rec := doRequest(t, server, http.MethodPost, "/v1/vesting/schedules", "", initBody())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}

	var resp vestinghttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code != "missing_actor" {
		t.Fatalf("error code %q", resp.Code)
	}
}

func TestInitializeAndFetchSchedule(t *testing.T) {
	server := newTestServer(t)

	rec := doRequest(t, server, http.MethodPost, "/v1/vesting/schedules", "admin-1", initBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("initialize status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, server, http.MethodGet, "/v1/vesting/schedules/sched-1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status %d: %s", rec.Code, rec.Body.String())
	}
	var resp vestinghttp.ScheduleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if resp.Data.ScheduleID != "sched-1" || resp.Data.TotalSupply != 1200 {
		t.Fatalf("schedule payload = %+v", resp.Data)
	}
}

func TestDuplicateInitializeConflicts(t *testing.T) {
	server := newTestServer(t)
	if rec := doRequest(t, server, http.MethodPost, "/v1/vesting/schedules", "admin-1", initBody()); rec.Code != http.StatusCreated {
		t.Fatalf("initialize status %d", rec.Code)
	}
	rec := doRequest(t, server, http.MethodPost, "/v1/vesting/schedules", "admin-1", initBody())
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate initialize status %d, want 409", rec.Code)
	}
}

func TestUnknownScheduleIsNotFound(t *testing.T) {
	server := newTestServer(t)
	rec := doRequest(t, server, http.MethodGet, "/v1/vesting/schedules/missing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestGarbledStartTimestampIsBadRequest(t *testing.T) {
	server := newTestServer(t)
	body := `{"schedule_id":"sched-1","mint":"mint-1","distributor":"dist-1","start_at":"wednesday","total_supply":1200}`
	rec := doRequest(t, server, http.MethodPost, "/v1/vesting/schedules", "admin-1", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", rec.Code, rec.Body.String())
	}
	var resp vestinghttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code != "invalid_request" {
		t.Fatalf("error code %q, want invalid_request", resp.Code)
	}
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	server := newTestServer(t)
	rec := doRequest(t, server, http.MethodPost, "/v1/vesting/schedules", "admin-1", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestReleaseBeforeSealIsScheduleStateError(t *testing.T) {
	server := newTestServer(t)
	if rec := doRequest(t, server, http.MethodPost, "/v1/vesting/schedules", "admin-1", initBody()); rec.Code != http.StatusCreated {
		t.Fatalf("initialize status %d", rec.Code)
	}

	rec := doRequest(t, server, http.MethodPost, "/v1/vesting/schedules/sched-1/release", "dist-1", `{"wallet":"wallet-a"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422: %s", rec.Code, rec.Body.String())
	}
	var resp vestinghttp.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code != "schedule_state" {
		t.Fatalf("error code %q, want schedule_state", resp.Code)
	}
}
