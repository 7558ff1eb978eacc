package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/hrroster/internal/api"
	"github.com/wolfeidau/hrroster/internal/cache"
	"github.com/wolfeidau/hrroster/internal/command"
	"github.com/wolfeidau/hrroster/internal/models"
	"github.com/wolfeidau/hrroster/internal/store/memory"
)

type fixture struct {
	client      *Client
	url         string
	cid         string
	deptID      int64
	empID       int64
	conditional atomic.Int64 // requests carrying If-None-Match
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	st := memory.NewStore()
	org, err := st.InsertOrganization(ctx, &models.Organization{Name: "Acme"})
	require.NoError(t, err)
	dept, err := st.InsertDepartment(ctx, org.ID, &models.Department{Name: "Engineering", Budget: decimal.NewFromInt(20000)})
	require.NoError(t, err)
	emp := &models.Employee{Name: "Ada", Position: "Engineer", Salary: decimal.NewFromInt(5000), Performance: 90}
	_, err = st.AddEmployeeToDepartment(ctx, org.ID, dept.ID, emp)
	require.NoError(t, err)

	exec, err := command.NewExecutor(cache.NewRegistry(st))
	require.NoError(t, err)

	f := &fixture{cid: api.EncodeClientID(org.ID), deptID: dept.ExternalID, empID: emp.ExternalID}

	handler := api.NewHandler(exec)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") != "" {
			f.conditional.Add(1)
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	f.url = srv.URL
	f.client, err = New(Config{ServerURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	return f
}

func TestNew(t *testing.T) {
	_, err := New(Config{ServerURL: "not a url"})
	require.Error(t, err)

	c, err := New(DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, "localhost:8080", c.baseURL.Host)
}

func TestClient_CachedReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	get := func() *http.Response {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url+"/organization?cid="+f.cid, nil)
		require.NoError(t, err)
		resp, err := f.client.http.Do(req)
		require.NoError(t, err)
		_, err = io.Copy(io.Discard, resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		return resp
	}

	first := get()
	require.Equal(t, http.StatusOK, first.StatusCode)
	require.NotEmpty(t, first.Header.Get("ETag"))
	require.Empty(t, first.Header.Get(httpcache.XFromCache))

	second := get()
	require.Equal(t, http.StatusOK, second.StatusCode)
	require.Equal(t, "1", second.Header.Get(httpcache.XFromCache))
	require.Equal(t, first.Header.Get("ETag"), second.Header.Get("ETag"))
	require.Equal(t, int64(1), f.conditional.Load(), "cached response is revalidated")

	// a write changes the body, so the next read misses the cache
	_, err := f.client.RenameOrganization(ctx, f.cid, "Acme Holdings")
	require.NoError(t, err)

	third := get()
	require.Empty(t, third.Header.Get(httpcache.XFromCache))
	require.NotEqual(t, first.Header.Get("ETag"), third.Header.Get("ETag"))

	res, err := f.client.Organization(ctx, f.cid)
	require.NoError(t, err)
	require.Equal(t, "Acme Holdings", res.Fields["name"])
}

func TestClient_Health(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.client.Health(context.Background()))
}

func TestClient_Organization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.client.Organization(ctx, f.cid)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Equal(t, "Acme", res.Fields["name"])

	created, err := f.client.CreateOrganization(ctx, "Globex")
	require.NoError(t, err)
	require.NotEmpty(t, created.Fields["clientId"])

	res, err = f.client.RenameOrganization(ctx, f.cid, "Acme Holdings")
	require.NoError(t, err)
	require.Equal(t, "Acme Holdings", res.Fields["name"])

	res, err = f.client.CreateOrganization(ctx, "Globex")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	require.Equal(t, "Organization already exists", res.Message())
}

func TestClient_UnknownOrganization(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Organization(context.Background(), api.EncodeClientID(9999))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClient_DepartmentAndEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.client.Department(ctx, f.cid, f.deptID)
	require.NoError(t, err)
	require.Equal(t, "Engineering", res.Fields["name"])

	res, err = f.client.Employee(ctx, f.cid, f.empID)
	require.NoError(t, err)
	require.Equal(t, "Ada", res.Fields["name"])

	res, err = f.client.DepartmentStats(ctx, f.cid, f.deptID, "positions")
	require.NoError(t, err)
	require.Contains(t, res.Fields, "positions")
}

func TestClient_Shifts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.client.AddShift(ctx, f.cid, f.empID, 1, 0)
	require.NoError(t, err)
	require.Equal(t, "Shift added successfully", res.Message())

	_, err = f.client.AddShift(ctx, f.cid, f.empID, 1, 0)
	require.Error(t, err)

	res, err = f.client.Shifts(ctx, f.cid, nil, nil)
	require.NoError(t, err)
	schedule := res.Fields["schedule"].(map[string]any)
	require.Len(t, schedule, 7)
	require.Len(t, schedule["MONDAY"], 1)

	monday := 1
	res, err = f.client.Shifts(ctx, f.cid, &monday, &f.empID)
	require.NoError(t, err)
	require.Len(t, res.Fields["shifts"], 1)

	_, err = f.client.RemoveShift(ctx, f.cid, f.empID, 1, 0)
	require.NoError(t, err)

	// a second read sees the removal even though GETs go through the cache
	res, err = f.client.Shifts(ctx, f.cid, &monday, nil)
	require.NoError(t, err)
	require.Empty(t, res.Fields["shifts"])
}
