package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/recruitdesk/apiserver/internal/services"
	"github.com/recruitdesk/apiserver/internal/store"
	"github.com/recruitdesk/apiserver/types"
)

var (
	alice = types.User{ID: "u-alice", Email: "alice@x.com", Name: "Alice", Role: types.RoleUser}
	bob   = types.User{ID: "u-bob", Email: "bob@x.com", Name: "Bob", Role: types.RoleUser}
	root  = types.User{ID: "u-root", Email: "root@x.com", Name: "Root", Role: types.RoleAdmin}
)

// stubAuth resolves tokens of the form "tok-<user id>".
type stubAuth struct {
	users map[string]types.User
}

func newStubAuth(users ...types.User) *stubAuth {
	a := &stubAuth{users: map[string]types.User{}}
	for _, u := range users {
		a.users["tok-"+u.ID] = u
	}
	return a
}

func (a *stubAuth) Authenticate(ctx context.Context, token string) (types.User, error) {
	switch token {
	case "expired":
		return types.User{}, services.ErrInvalidToken
	case "ghost":
		return types.User{}, store.ErrNotFound
	}
	u, ok := a.users[token]
	if !ok {
		return types.User{}, services.ErrInvalidToken
	}
	return u, nil
}

type memJobs struct {
	mu   sync.Mutex
	n    int
	jobs map[string]types.Job
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: map[string]types.Job{}}
}

func (m *memJobs) List(ctx context.Context, userID string) ([]types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Job, 0)
	for _, j := range m.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memJobs) Get(ctx context.Context, userID, id string) (types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok || j.UserID != userID {
		return types.Job{}, store.ErrNotFound
	}
	return j, nil
}

func (m *memJobs) Create(ctx context.Context, userID string, job types.Job) (types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	job.ID = "job-" + strconv.Itoa(m.n)
	job.UserID = userID
	if job.Status == "" {
		job.Status = types.JobStatusOpen
	}
	m.jobs[job.ID] = job
	return job, nil
}

func (m *memJobs) Update(ctx context.Context, userID, id string, job types.Job) (types.Job, error) {
	if _, err := m.Get(ctx, userID, id); err != nil {
		return types.Job{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	job.ID = id
	job.UserID = userID
	m.jobs[id] = job
	return job, nil
}

func (m *memJobs) Delete(ctx context.Context, userID, id string) error {
	if _, err := m.Get(ctx, userID, id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
	return nil
}

type stubCandidates struct {
	created []types.Candidate
}

func (s *stubCandidates) List(ctx context.Context, userID string) ([]types.Candidate, error) {
	return []types.Candidate{}, nil
}

func (s *stubCandidates) Get(ctx context.Context, userID, id string) (types.Candidate, error) {
	return types.Candidate{}, store.ErrNotFound
}

func (s *stubCandidates) Create(ctx context.Context, userID string, c types.Candidate) (types.Candidate, error) {
	c.ID = "cand-1"
	c.UserID = userID
	s.created = append(s.created, c)
	return c, nil
}

func (s *stubCandidates) Update(ctx context.Context, userID, id string, c types.Candidate) (types.Candidate, error) {
	return types.Candidate{}, store.ErrNotFound
}

func (s *stubCandidates) Delete(ctx context.Context, userID, id string) error {
	return store.ErrNotFound
}

type stubOffers struct {
	sendErr error
	sent    []string
	pdf     string
	pdfErr  error
}

func (s *stubOffers) List(ctx context.Context, userID string) ([]types.OfferLetter, error) {
	return []types.OfferLetter{}, nil
}

func (s *stubOffers) Get(ctx context.Context, userID, id string) (types.OfferLetter, error) {
	return types.OfferLetter{}, store.ErrNotFound
}

func (s *stubOffers) Create(ctx context.Context, userID string, o types.OfferLetter) (types.OfferLetter, error) {
	return o, nil
}

func (s *stubOffers) Update(ctx context.Context, userID, id string, o types.OfferLetter) (types.OfferLetter, error) {
	return o, nil
}

func (s *stubOffers) Delete(ctx context.Context, userID, id string) error {
	return nil
}

func (s *stubOffers) SendNotification(ctx context.Context, sender types.User, id, status string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	if status != types.OfferStatusAccepted && status != types.OfferStatusRejected {
		return services.ErrInvalidStatus
	}
	s.sent = append(s.sent, sender.ID+":"+id+":"+status)
	return nil
}

func (s *stubOffers) ArchivedPDF(ctx context.Context, userID, id string) (io.ReadCloser, error) {
	if s.pdfErr != nil {
		return nil, s.pdfErr
	}
	return io.NopCloser(strings.NewReader(s.pdf)), nil
}

type stubAdmin struct {
	users   []types.UserSummary
	deleted []string
}

func (s *stubAdmin) ListUsers(ctx context.Context) ([]types.UserSummary, error) {
	return s.users, nil
}

func (s *stubAdmin) DeleteUser(ctx context.Context, id string) error {
	switch id {
	case root.ID:
		return services.ErrAdminProtected
	case alice.ID, bob.ID:
		s.deleted = append(s.deleted, id)
		return nil
	default:
		return store.ErrNotFound
	}
}

type captureRecorder struct {
	mu      sync.Mutex
	entries []types.ActivityLog
}

func (c *captureRecorder) Record(entry types.ActivityLog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
}

type testAPI struct {
	router *chi.Mux
	jobs   *memJobs
	cands  *stubCandidates
	offers *stubOffers
	admin  *stubAdmin
	rec    *captureRecorder
}

func newTestAPI() *testAPI {
	api := &testAPI{
		router: chi.NewRouter(),
		jobs:   newMemJobs(),
		cands:  &stubCandidates{},
		offers: &stubOffers{pdf: "%PDF-1.3"},
		admin:  &stubAdmin{users: []types.UserSummary{{ID: alice.ID, Email: alice.Email, Role: alice.Role}}},
		rec:    &captureRecorder{},
	}
	authn := RequireAuth(newStubAuth(alice, bob, root))
	api.router.Group(func(r chi.Router) {
		r.Use(authn)
		r.Route("/api/jobs", func(r chi.Router) { JobRouter(r, api.jobs) })
		r.Route("/api/candidates", func(r chi.Router) { CandidateRouter(r, api.cands) })
		r.Route("/api/offerLetter", func(r chi.Router) { OfferLetterRouter(r, api.offers, api.rec) })
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			AdminRouter(r, api.admin, api.rec)
		})
	})
	return api
}

func (api *testAPI) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	api.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body.Error
}

func TestRequireAuthFailures(t *testing.T) {
	api := newTestAPI()

	tests := []struct {
		name    string
		token   string
		status  int
		message string
	}{
		{"missing", "", http.StatusUnauthorized, "No token provided"},
		{"expired", "expired", http.StatusForbidden, "Invalid or expired token"},
		{"forged", "not-a-token", http.StatusForbidden, "Invalid or expired token"},
		{"deleted user", "ghost", http.StatusNotFound, "User not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := api.do(t, http.MethodGet, "/api/jobs", tt.token, "")
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			if got := decodeError(t, rr); got != tt.message {
				t.Fatalf("error = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestJobsAreScopedToOwner(t *testing.T) {
	api := newTestAPI()

	rr := api.do(t, http.MethodPost, "/api/jobs", "tok-"+alice.ID, `{"title":"  Backend Engineer ","skills":"go"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", rr.Code, rr.Body.String())
	}
	var created types.Job
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if created.Title != "Backend Engineer" || created.Status != types.JobStatusOpen {
		t.Fatalf("unexpected job: %+v", created)
	}

	if rr := api.do(t, http.MethodGet, "/api/jobs/"+created.ID, "tok-"+bob.ID, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("foreign get status = %d, want 404", rr.Code)
	} else if got := decodeError(t, rr); got != "Job not found" {
		t.Fatalf("error = %q", got)
	}
	if rr := api.do(t, http.MethodDelete, "/api/jobs/"+created.ID, "tok-"+bob.ID, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("foreign delete status = %d, want 404", rr.Code)
	}

	rr = api.do(t, http.MethodGet, "/api/jobs", "tok-"+bob.ID, "")
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("bob list = %d %s", rr.Code, rr.Body.String())
	}

	if rr := api.do(t, http.MethodDelete, "/api/jobs/"+created.ID, "tok-"+alice.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("owner delete status = %d", rr.Code)
	}
}

func TestCreateJobValidation(t *testing.T) {
	api := newTestAPI()

	rr := api.do(t, http.MethodPost, "/api/jobs", "tok-"+alice.ID, `{"title":"  ","status":"Paused"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var body ValidationErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	fields := map[string]string{}
	for _, fe := range body.Errors {
		fields[fe.Field] = fe.Message
	}
	if fields["title"] != "Job title is required" {
		t.Fatalf("title message = %q", fields["title"])
	}
	if _, ok := fields["status"]; !ok {
		t.Fatalf("expected status error, got %+v", body.Errors)
	}

	if rr := api.do(t, http.MethodPost, "/api/jobs", "tok-"+alice.ID, `{"title":`); rr.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", rr.Code)
	}
}

func TestCreateCandidateResumeLink(t *testing.T) {
	api := newTestAPI()

	rr := api.do(t, http.MethodPost, "/api/candidates", "tok-"+alice.ID,
		`{"name":"Cara","email":"cara@x.com","resumeLink":"not a url"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Valid resume link is required") {
		t.Fatalf("body = %s", rr.Body.String())
	}

	rr = api.do(t, http.MethodPost, "/api/candidates", "tok-"+alice.ID,
		`{"name":"Cara","email":" Cara@X.com ","resumeLink":""}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	if len(api.cands.created) != 1 || api.cands.created[0].Email != "cara@x.com" {
		t.Fatalf("created = %+v", api.cands.created)
	}
}

func TestSendEmail(t *testing.T) {
	tests := []struct {
		name    string
		sendErr error
		status  string
		code    int
		message string
	}{
		{"accepted", nil, "Accepted", http.StatusOK, ""},
		{"invalid status", nil, "Pending", http.StatusBadRequest, "Invalid status"},
		{"missing offer", store.ErrNotFound, "Accepted", http.StatusNotFound, "Offer letter not found"},
		{"missing candidate", services.ErrCandidateNotFound, "Accepted", http.StatusNotFound, "Candidate not found"},
		{"delivery failure", services.ErrSendFailed, "Rejected", http.StatusInternalServerError, "Failed to send email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI()
			api.offers.sendErr = tt.sendErr

			rr := api.do(t, http.MethodPost, "/api/offerLetter/off-1/send-email", "tok-"+alice.ID,
				`{"status":"`+tt.status+`"}`)
			if rr.Code != tt.code {
				t.Fatalf("status = %d, want %d body=%s", rr.Code, tt.code, rr.Body.String())
			}
			if tt.code != http.StatusOK {
				if got := decodeError(t, rr); got != tt.message {
					t.Fatalf("error = %q, want %q", got, tt.message)
				}
				if len(api.rec.entries) != 0 {
					t.Fatalf("failed send must not be recorded")
				}
				return
			}

			var body SendEmailResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Message != "Email sent and status updated successfully" || body.Status != "Accepted" {
				t.Fatalf("unexpected body: %+v", body)
			}
			if len(api.offers.sent) != 1 || api.offers.sent[0] != alice.ID+":off-1:Accepted" {
				t.Fatalf("sent = %v", api.offers.sent)
			}
			if len(api.rec.entries) != 1 || api.rec.entries[0].Action != "send_offer_email" {
				t.Fatalf("recorded = %+v", api.rec.entries)
			}
		})
	}
}

func TestDownloadPDF(t *testing.T) {
	api := newTestAPI()

	rr := api.do(t, http.MethodGet, "/api/offerLetter/off-1/pdf", "tok-"+alice.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if rr.Body.String() != "%PDF-1.3" {
		t.Fatalf("body = %q", rr.Body.String())
	}

	api.offers.pdfErr = services.ErrArchiveUnavailable
	if rr := api.do(t, http.MethodGet, "/api/offerLetter/off-1/pdf", "tok-"+alice.ID, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("archive disabled status = %d", rr.Code)
	}
	api.offers.pdfErr = errors.New("boom")
	if rr := api.do(t, http.MethodGet, "/api/offerLetter/off-1/pdf", "tok-"+alice.ID, ""); rr.Code != http.StatusInternalServerError {
		t.Fatalf("storage failure status = %d", rr.Code)
	}
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI()

	rr := api.do(t, http.MethodGet, "/api/admin/users", "tok-"+alice.ID, "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-admin status = %d", rr.Code)
	}
	if got := decodeError(t, rr); got != "Access denied. Admins only." {
		t.Fatalf("error = %q", got)
	}

	if rr := api.do(t, http.MethodGet, "/api/admin/users", "tok-"+root.ID, ""); rr.Code != http.StatusOK {
		t.Fatalf("admin list status = %d", rr.Code)
	}

	rr = api.do(t, http.MethodDelete, "/api/admin/users/"+root.ID, "tok-"+root.ID, "")
	if rr.Code != http.StatusForbidden || decodeError(t, rr) != "Cannot delete admin users" {
		t.Fatalf("delete admin = %d %s", rr.Code, rr.Body.String())
	}
	if rr := api.do(t, http.MethodDelete, "/api/admin/users/nobody", "tok-"+root.ID, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("delete unknown = %d", rr.Code)
	}
	if rr := api.do(t, http.MethodDelete, "/api/admin/users/"+bob.ID, "tok-"+root.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete bob = %d", rr.Code)
	}
	if len(api.admin.deleted) != 1 || api.admin.deleted[0] != bob.ID {
		t.Fatalf("deleted = %v", api.admin.deleted)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		got, err := bearerToken(req)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("bearerToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}

type dashboardFunc func(ctx context.Context, userID string) (types.DashboardSummary, error)

func (f dashboardFunc) Summary(ctx context.Context, userID string) (types.DashboardSummary, error) {
	return f(ctx, userID)
}

func TestDashboard(t *testing.T) {
	var asked string
	svc := dashboardFunc(func(ctx context.Context, userID string) (types.DashboardSummary, error) {
		asked = userID
		if userID == bob.ID {
			return types.DashboardSummary{}, errors.New("db down")
		}
		return types.DashboardSummary{OpenPositions: 2, TotalCandidates: 5, ScheduledInterviews: 1}, nil
	})
	router := chi.NewRouter()
	router.With(RequireAuth(newStubAuth(alice, bob))).Get("/api/dashboard", Dashboard(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer tok-"+alice.ID)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || asked != alice.ID {
		t.Fatalf("dashboard = %d for %q", rr.Code, asked)
	}
	want := `{"openPositions":2,"totalCandidates":5,"scheduledInterviews":1}`
	if strings.TrimSpace(rr.Body.String()) != want {
		t.Fatalf("body = %s", rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Authorization", "Bearer tok-"+bob.ID)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusInternalServerError || strings.Contains(rr.Body.String(), "db down") {
		t.Fatalf("failure = %d %s", rr.Code, rr.Body.String())
	}
}
