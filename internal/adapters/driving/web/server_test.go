package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/payroll/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/payroll/internal/core/domain"
	"github.com/custodia-labs/payroll/internal/core/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAvatar struct{}

func (stubAvatar) URL(name string) string { return "avatar:" + name }

type dashboardResponse struct {
	Employees []domain.EmployeeView `json:"employees"`
	Totals    domain.PayrollTotals  `json:"totals"`
}

func newTestServer(t *testing.T, cfg Config) (*Server, *services.PayrollService, *memory.RecordStore) {
	t.Helper()
	store := memory.NewRecordStore()
	svc := services.NewPayrollService(store, stubAvatar{})
	var ms int64 = 1700000000000
	svc.SetClock(func() time.Time {
		ms++
		return time.UnixMilli(ms)
	})
	srv, err := NewServer(&Ports{Payroll: svc}, cfg)
	require.NoError(t, err)
	return srv, svc, store
}

func do(t *testing.T, srv *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func dashboard(t *testing.T, srv *Server) dashboardResponse {
	t.Helper()
	rec := do(t, srv, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var out dashboardResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestNewServer_RequiresPayroll(t *testing.T) {
	_, err := NewServer(&Ports{}, Config{})
	assert.ErrorIs(t, err, ErrMissingPayrollService)

	_, err = NewServer(nil, Config{})
	assert.ErrorIs(t, err, ErrMissingPayrollService)
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{})

	rec := do(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDashboard_Empty(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{})

	out := dashboard(t, srv)

	assert.Empty(t, out.Employees)
	assert.Equal(t, 0, out.Totals.Headcount)
}

func TestAdd_RedirectsAndEnriches(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{})

	rec := do(t, srv, http.MethodPost, "/add", url.Values{
		"name":       {"Ann"},
		"salary":     {"1000"},
		"department": {"Eng", "Ops"},
		"startDate":  {"2024-01-15"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	out := dashboard(t, srv)
	require.Len(t, out.Employees, 1)
	e := out.Employees[0]
	assert.Equal(t, "Ann", e.Name)
	assert.Equal(t, domain.Departments{"Eng", "Ops"}, e.Department)
	assert.InDelta(t, 120, e.Tax, 1e-9)
	assert.InDelta(t, 880, e.NetSalary, 1e-9)
	assert.Equal(t, "avatar:Ann", e.ProfilePic)
	assert.InDelta(t, 1000, out.Totals.Gross, 1e-9)
}

func TestAdd_ValidationError(t *testing.T) {
	srv, _, store := newTestServer(t, Config{})

	rec := do(t, srv, http.MethodPost, "/add", url.Values{"name": {"Ann"}, "salary": {"-5"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Salary cannot be negative")
	assert.Nil(t, store.Bytes())
}

func TestEdit_ShowAndUpdate(t *testing.T) {
	srv, svc, _ := newTestServer(t, Config{})
	e, err := svc.Create(context.Background(), domain.EmployeeInput{Name: "Ann", Salary: "1000", Notes: "keep"})
	require.NoError(t, err)
	path := "/edit/" + domain.FormatID(e.ID)

	rec := do(t, srv, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var shown domain.Employee
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shown))
	assert.Equal(t, e.ID, shown.ID)

	rec = do(t, srv, http.MethodPost, path, url.Values{"name": {"Annie"}, "salary": {"1500"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := svc.Get(context.Background(), domain.FormatID(e.ID))
	require.NoError(t, err)
	assert.Equal(t, "Annie", got.Name)
	assert.InDelta(t, 1500, got.Salary, 1e-9)
	assert.Equal(t, "keep", got.Notes, "fields missing from the form survive")
	assert.Equal(t, "avatar:Ann", got.ProfilePic)
}

func TestEdit_UnknownRedirects(t *testing.T) {
	srv, _, store := newTestServer(t, Config{})

	rec := do(t, srv, http.MethodGet, "/edit/123", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(t, srv, http.MethodPost, "/edit/123", url.Values{"name": {"Ghost"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, store.Bytes())
}

func TestDelete(t *testing.T) {
	srv, svc, _ := newTestServer(t, Config{})
	ctx := context.Background()
	a, err := svc.Create(ctx, domain.EmployeeInput{Name: "A", Salary: "1"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, domain.EmployeeInput{Name: "B", Salary: "2"})
	require.NoError(t, err)

	rec := do(t, srv, http.MethodGet, "/delete/"+domain.FormatID(a.ID), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(t, srv, http.MethodPost, "/delete/does-not-exist", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	out := dashboard(t, srv)
	require.Len(t, out.Employees, 1)
	assert.Equal(t, b.ID, out.Employees[0].ID)
}

func TestStoreErrorsAreServerErrors(t *testing.T) {
	srv, _, store := newTestServer(t, Config{})
	store.SetBytes([]byte("not json"))

	rec := do(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "corrupt record store")

	store.SetBytes([]byte("[]"))
	store.FailWrites(errors.New("disk full"))
	rec = do(t, srv, http.MethodPost, "/add", url.Values{"name": {"Ann"}, "salary": {"1"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "disk full")
}

func TestRequestID(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{})

	rec := do(t, srv, http.MethodGet, "/health", nil)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	srv, _, _ := newTestServer(t, Config{RateLimit: 1, Burst: 2})

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		codes = append(codes, do(t, srv, http.MethodGet, "/health", nil).Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Contains(t, codes[2:], http.StatusTooManyRequests)
}

func TestInputFromForm_MarksOnlyPresentFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/edit/1", strings.NewReader("notes=hello&department=Eng"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	in := inputFromForm(c)

	assert.True(t, in.Has(domain.FieldNotes))
	assert.True(t, in.Has(domain.FieldDepartment))
	assert.False(t, in.Has(domain.FieldName))
	assert.False(t, in.Has(domain.FieldSalary))
	assert.Equal(t, "hello", in.Notes)
	assert.Equal(t, []string{"Eng"}, in.Department)
}
