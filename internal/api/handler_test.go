package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/hrroster/internal/cache"
	"github.com/wolfeidau/hrroster/internal/command"
	"github.com/wolfeidau/hrroster/internal/store/memory"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	exec, err := command.NewExecutor(cache.NewRegistry(memory.NewStore()))
	require.NoError(t, err)
	return &testServer{t: t, handler: NewHandler(exec)}
}

func (s *testServer) do(method, path string, params url.Values, body any) (int, map[string]any) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	target := path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, httptest.NewRequest(method, target, reader))

	var out map[string]any
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

// seed creates an organization with one department and two employees.
func (s *testServer) seed() (cid string, deptID, adaID, graceID string) {
	s.t.Helper()

	code, out := s.do(http.MethodPost, "/organizations", nil, map[string]any{"name": "Acme"})
	require.Equal(s.t, http.StatusCreated, code, out)
	cid = out["clientId"].(string)

	code, out = s.do(http.MethodPost, "/department", url.Values{"cid": {cid}}, map[string]any{"name": "Engineering", "budget": "50000"})
	require.Equal(s.t, http.StatusCreated, code, out)
	deptID = fmt.Sprint(out["departmentId"])

	add := func(name string) string {
		code, out := s.do(http.MethodPost, "/department/employee", url.Values{"cid": {cid}, "departmentId": {deptID}}, map[string]any{
			"name": name, "position": "Engineer", "salary": 5000, "performance": 80, "hireDate": "2024-02-01",
		})
		require.Equal(s.t, http.StatusCreated, code, out)
		return fmt.Sprint(out["employeeId"])
	}

	return cid, deptID, add("Ada"), add("Grace")
}

func TestHandler_Health(t *testing.T) {
	s := newTestServer(t)
	code, out := s.do(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", out["status"])
}

func TestHandler_ConditionalReads(t *testing.T) {
	s := newTestServer(t)
	cid, _, adaID, _ := s.seed()

	get := func(ifNoneMatch string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/employee?"+url.Values{"cid": {cid}, "employeeId": {adaID}}.Encode(), nil)
		if ifNoneMatch != "" {
			req.Header.Set("If-None-Match", ifNoneMatch)
		}
		w := httptest.NewRecorder()
		s.handler.ServeHTTP(w, req)
		return w
	}

	first := get("")
	require.Equal(t, http.StatusOK, first.Code)
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Equal(t, "no-cache", first.Header().Get("Cache-Control"))

	notModified := get(etag)
	require.Equal(t, http.StatusNotModified, notModified.Code)
	require.Empty(t, notModified.Body.Bytes())
	require.Equal(t, etag, notModified.Header().Get("ETag"))

	require.Equal(t, http.StatusNotModified, get(`"stale", W/`+etag).Code)

	code, _ := s.do(http.MethodPatch, "/employee", url.Values{"cid": {cid}, "employeeId": {adaID}}, map[string]any{"position": "Lead"})
	require.Equal(t, http.StatusOK, code)

	changed := get(etag)
	require.Equal(t, http.StatusOK, changed.Code)
	require.NotEqual(t, etag, changed.Header().Get("ETag"))
}

func TestHandler_Organization(t *testing.T) {
	s := newTestServer(t)
	cid, _, _, _ := s.seed()

	code, out := s.do(http.MethodGet, "/organization", url.Values{"cid": {cid}}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "success", out["status"])
	require.Equal(t, "Acme", out["name"])

	code, out = s.do(http.MethodGet, "/organization", url.Values{"cid": {"not-base58!"}}, nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "failed", out["status"])

	code, _ = s.do(http.MethodGet, "/organization", url.Values{"cid": {EncodeClientID(999)}}, nil)
	require.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodPost, "/organizations", nil, map[string]any{"name": ""})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/organizations", nil, map[string]any{"name": "Acme"})
	require.Equal(t, http.StatusBadRequest, code)

	code, out = s.do(http.MethodPatch, "/organization", url.Values{"cid": {cid}}, map[string]any{"name": "Acme Holdings"})
	require.Equal(t, http.StatusOK, code, out)
	require.Equal(t, "Acme Holdings", out["name"])

	code, _ = s.do(http.MethodDelete, "/organization", url.Values{"cid": {cid}}, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/organization", url.Values{"cid": {cid}}, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestHandler_Employee(t *testing.T) {
	s := newTestServer(t)
	cid, deptID, adaID, graceID := s.seed()

	code, out := s.do(http.MethodPatch, "/employee", url.Values{"cid": {cid}, "employeeId": {adaID}}, map[string]any{"position": "Lead"})
	require.Equal(t, http.StatusOK, code, out)

	code, out = s.do(http.MethodGet, "/employee", url.Values{"cid": {cid}, "employeeId": {adaID}}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Lead", out["position"])
	require.Equal(t, "2024-02-01", out["hireDate"])

	code, _ = s.do(http.MethodPatch, "/employee", url.Values{"cid": {cid}, "employeeId": {adaID}}, map[string]any{"performance": 101})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPatch, "/department/head", url.Values{"cid": {cid}, "departmentId": {deptID}, "employeeId": {graceID}}, nil)
	require.Equal(t, http.StatusOK, code)

	code, out = s.do(http.MethodGet, "/department", url.Values{"cid": {cid}, "departmentId": {deptID}}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Grace", out["head"])

	code, out = s.do(http.MethodGet, "/department/stats/positions", url.Values{"cid": {cid}, "departmentId": {deptID}}, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, map[string]any{"Engineer": float64(1), "Lead": float64(1)}, out["positions"])

	code, _ = s.do(http.MethodGet, "/department/stats/mood", url.Values{"cid": {cid}, "departmentId": {deptID}}, nil)
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodDelete, "/department/employee", url.Values{"cid": {cid}, "departmentId": {deptID}, "employeeId": {adaID}}, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/employee", url.Values{"cid": {cid}, "employeeId": {adaID}}, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestHandler_Shifts(t *testing.T) {
	s := newTestServer(t)
	cid, _, adaID, graceID := s.seed()

	shift := func(emp, day, slot string) url.Values {
		return url.Values{"cid": {cid}, "employeeId": {emp}, "dayOfWeek": {day}, "timeSlot": {slot}}
	}

	code, out := s.do(http.MethodPost, "/shift", shift(adaID, "1", "0"), nil)
	require.Equal(t, http.StatusCreated, code, out)
	require.Equal(t, "MONDAY", out["dayOfWeek"])

	code, out = s.do(http.MethodPost, "/shift", shift(graceID, "1", "0"), nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Failed to add shift - time slot might be already assigned", out["message"])

	code, out = s.do(http.MethodPost, "/shift", shift(adaID, "8", "0"), nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "failed", out["status"])

	code, out = s.do(http.MethodGet, "/shift", url.Values{"cid": {cid}}, nil)
	require.Equal(t, http.StatusOK, code)
	schedule := out["schedule"].(map[string]any)
	require.Len(t, schedule["MONDAY"], 1)
	available := out["availableSlots"].(map[string]any)
	require.Len(t, available["MONDAY"], 2)
	require.Len(t, available["FRIDAY"], 3)

	code, out = s.do(http.MethodGet, "/shift", url.Values{"cid": {cid}, "dayOfWeek": {"1"}}, nil)
	require.Equal(t, http.StatusOK, code)
	require.NotContains(t, out, "availableSlots")
	require.Len(t, out["shifts"], 1)

	code, _ = s.do(http.MethodDelete, "/shift", shift(adaID, "1", "0"), nil)
	require.Equal(t, http.StatusOK, code)

	code, out = s.do(http.MethodDelete, "/shift", shift(adaID, "1", "0"), nil)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Failed to remove shift", out["message"])
}
