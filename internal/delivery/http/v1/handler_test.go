package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"applicant-tracker/config"
	"applicant-tracker/internal/domain"
	"applicant-tracker/internal/usecase"
	"applicant-tracker/pkg/security"
	"applicant-tracker/pkg/staging"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "handler-test-secret"
	maxUpload  = 10 << 20
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

// ---- in-memory collaborators for the resume flow ----

type memCandidates struct {
	domain.CandidateRepository
	ids map[int64]bool
}

func (m *memCandidates) GetByID(_ context.Context, id int64) (*domain.Candidate, error) {
	if !m.ids[id] {
		return nil, nil
	}
	return &domain.Candidate{ID: id, Name: "Ada", Email: "ada@example.com", Position: "Engineer"}, nil
}

type memResumes struct {
	mu     sync.Mutex
	rows   map[int64]domain.Resume
	nextID int64
	clock  time.Time
}

func newMemResumes() *memResumes {
	return &memResumes{rows: map[int64]domain.Resume{}, clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (m *memResumes) GetByID(_ context.Context, id int64) (*domain.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memResumes) ListByCandidate(_ context.Context, candidateID int64) ([]domain.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Resume
	for _, r := range m.rows {
		if r.CandidateID == candidateID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memResumes) GetLatestByCandidate(ctx context.Context, candidateID int64) (*domain.Resume, error) {
	list, _ := m.ListByCandidate(ctx, candidateID)
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (m *memResumes) Create(_ context.Context, r *domain.Resume) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	r.ID = m.nextID
	r.UploadedAt = m.clock
	m.rows[r.ID] = *r
	return nil
}

func (m *memResumes) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memDrive keeps uploaded objects by remote name and serves them over HTTP
// so returned URLs can be dereferenced.
type memDrive struct {
	mu      sync.Mutex
	objects map[string][]byte
	calls   int
	srv     *httptest.Server
}

func newMemDrive(t *testing.T) *memDrive {
	d := &memDrive{objects: map[string][]byte{}}
	d.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		defer d.mu.Unlock()
		data, ok := d.objects[r.URL.Path[1:]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(d.srv.Close)
	return d
}

func (d *memDrive) Upload(_ context.Context, localPath, remoteName string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	d.objects[remoteName] = data
	return d.srv.URL + "/" + remoteName, nil
}

func (d *memDrive) Delete(_ context.Context, remoteName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++
	delete(d.objects, remoteName)
	return nil
}

// ---- mocks for the remaining usecases ----

type mockCandidateUC struct{ mock.Mock }

func (m *mockCandidateUC) ListCandidates(ctx context.Context, f domain.CandidateFilter) (*domain.PaginatedResult[domain.Candidate], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaginatedResult[domain.Candidate]), args.Error(1)
}

func (m *mockCandidateUC) GetCandidate(ctx context.Context, id int64) (*domain.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *mockCandidateUC) CreateCandidate(ctx context.Context, c *domain.Candidate, resume *domain.ResumeFile, uploader string) (*domain.CandidateWithResume, error) {
	args := m.Called(ctx, c, resume, uploader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CandidateWithResume), args.Error(1)
}

func (m *mockCandidateUC) UpdateCandidate(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *mockCandidateUC) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Candidate, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Candidate), args.Error(1)
}

func (m *mockCandidateUC) DeleteCandidate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockDashboardUC struct{ mock.Mock }

func (m *mockDashboardUC) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *mockDashboardUC) GetPositionReports(ctx context.Context) ([]domain.PositionReport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PositionReport), args.Error(1)
}

func (m *mockDashboardUC) ExportCandidates(ctx context.Context, format string, f domain.CandidateFilter) ([]byte, string, error) {
	args := m.Called(ctx, format, f)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

type stubHealth struct {
	report  map[string]string
	healthy bool
}

func (s stubHealth) Check(context.Context) (map[string]string, bool) { return s.report, s.healthy }

// ---- fixture ----

type fixture struct {
	router     *gin.Engine
	resumes    *memResumes
	drive      *memDrive
	stagingDir string
	candidates *mockCandidateUC
	dashboard  *mockDashboardUC
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	area, err := staging.NewArea(dir)
	require.NoError(t, err)

	f := &fixture{
		resumes:    newMemResumes(),
		drive:      newMemDrive(t),
		stagingDir: dir,
		candidates: &mockCandidateUC{},
		dashboard:  &mockDashboardUC{},
	}
	resumeUC := usecase.NewResumeUsecase(f.resumes, &memCandidates{ids: map[int64]bool{42: true}}, f.drive, area,
		security.UploadPolicy{MaxSize: maxUpload, AllowedMIMETypes: []string{"application/pdf"}}, time.Minute)

	f.router = NewRouter(RouterDeps{
		CandidateUC: f.candidates,
		ResumeUC:    resumeUC,
		DashboardUC: f.dashboard,
		HealthUC:    stubHealth{report: map[string]string{"status": "ok", "postgres": "ok"}, healthy: true},
		Config: &config.Config{
			AuthJWTSecret:            testSecret,
			MaxUploadSize:            maxUpload,
			UploadRateLimitPerMinute: 1000,
		},
	})
	return f
}

func token(t *testing.T, email string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "uid-7",
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (f *fixture) do(t *testing.T, req *http.Request, authed bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if authed {
		req.Header.Set("Authorization", "Bearer "+token(t, "recruiter@example.com"))
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func pdf(size int) []byte {
	data := bytes.Repeat([]byte{0x42}, size)
	copy(data, "%PDF-1.7\n")
	return data
}

// multipartBody builds a form whose file part carries contentType.
func multipartBody(t *testing.T, field, filename, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, path, filename, contentType string, data []byte) *http.Request {
	body, ct := multipartBody(t, resumeField, filename, contentType, data, nil)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	return req
}

func stagedFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

// ---- resume routes ----

func TestResumeUploadThenFetch(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/api/resumes/candidate/42", nil), true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	content := pdf(2 << 20)
	w, env := f.do(t, uploadRequest(t, "/api/resumes/candidate/42", "cv.pdf", "application/pdf", content), true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Success)

	w, env = f.do(t, httptest.NewRequest(http.MethodGet, "/api/resumes/candidate/42", nil), true)
	require.Equal(t, http.StatusOK, w.Code)

	var resume map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &resume))
	assert.Equal(t, "cv.pdf", resume["file_name"])
	assert.EqualValues(t, 2097152, resume["file_size"])
	assert.Equal(t, "application/pdf", resume["mime_type"])
	assert.Equal(t, "recruiter@example.com", resume["uploaded_by"])
	assert.NotContains(t, resume, "remote_name")

	resp, err := http.Get(resume["file_path"].(string))
	require.NoError(t, err)
	defer resp.Body.Close()
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(content, got), "stored bytes differ from upload")

	assert.Empty(t, stagedFiles(t, f.stagingDir), "staging area must be empty after upload")
}

func TestResumeUploadRejections(t *testing.T) {
	cases := []struct {
		name        string
		path        string
		filename    string
		contentType string
		data        []byte
		authed      bool
		want        int
	}{
		{"wrong mime", "/api/resumes/candidate/42", "cv.docx", "application/msword", pdf(1024), true, http.StatusBadRequest},
		{"pdf header on text", "/api/resumes/candidate/42", "cv.pdf", "application/pdf", []byte("hello world, not a pdf"), true, http.StatusBadRequest},
		{"too large", "/api/resumes/candidate/42", "cv.pdf", "application/pdf", pdf(maxUpload + 1), true, http.StatusBadRequest},
		{"bad id", "/api/resumes/candidate/abc", "cv.pdf", "application/pdf", pdf(1024), true, http.StatusBadRequest},
		{"unknown candidate", "/api/resumes/candidate/7", "cv.pdf", "application/pdf", pdf(1024), true, http.StatusNotFound},
		{"no token", "/api/resumes/candidate/42", "cv.pdf", "application/pdf", pdf(1024), false, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			w, env := f.do(t, uploadRequest(t, tc.path, tc.filename, tc.contentType, tc.data), tc.authed)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
			assert.False(t, env.Success)
			assert.Zero(t, f.drive.calls, "provider must not be called")
			assert.Empty(t, f.resumes.rows)
			assert.Empty(t, stagedFiles(t, f.stagingDir))
		})
	}
}

func TestResumeUploadMissingFile(t *testing.T) {
	f := newFixture(t)

	body, ct := multipartBody(t, "", "", "", nil, map[string]string{"note": "no file"})
	req := httptest.NewRequest(http.MethodPost, "/api/resumes/candidate/42", body)
	req.Header.Set("Content-Type", ct)

	w, env := f.do(t, req, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file uploaded", env.Message)
}

func TestResumeUploadWithoutEmailClaim(t *testing.T) {
	f := newFixture(t)

	req := uploadRequest(t, "/api/resumes/candidate/42", "cv.pdf", "application/pdf", pdf(1024))
	req.Header.Set("Authorization", "Bearer "+token(t, ""))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, f.drive.calls)
}

func TestResumeReplaceKeepsOnlyNewest(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, uploadRequest(t, "/api/resumes/candidate/42", "old.pdf", "application/pdf", pdf(2048)), true)
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = f.do(t, uploadRequest(t, "/api/resumes/candidate/42", "new.pdf", "application/pdf", pdf(4096)), true)
	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, f.resumes.rows, 1)
	assert.Len(t, f.drive.objects, 1)

	_, env := f.do(t, httptest.NewRequest(http.MethodGet, "/api/resumes/candidate/42", nil), true)
	var resume domain.Resume
	require.NoError(t, json.Unmarshal(env.Data, &resume))
	assert.Equal(t, "new.pdf", resume.FileName)
}

func TestResumeDelete(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, httptest.NewRequest(http.MethodDelete, "/api/resumes/999", nil), true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, f.drive.calls)

	w, _ = f.do(t, httptest.NewRequest(http.MethodDelete, "/api/resumes/x", nil), true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env := f.do(t, uploadRequest(t, "/api/resumes/candidate/42", "cv.pdf", "application/pdf", pdf(2048)), true)
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Resume
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, env = f.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/resumes/%d", created.ID), nil), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Resume deleted successfully", env.Message)
	assert.Empty(t, f.resumes.rows)
	assert.Empty(t, f.drive.objects)
}

// ---- candidate routes ----

func TestCreateCandidateJSON(t *testing.T) {
	f := newFixture(t)

	f.candidates.On("CreateCandidate", mock.Anything,
		mock.MatchedBy(func(c *domain.Candidate) bool { return c.Name == "Ada" && c.Email == "ada@example.com" }),
		(*domain.ResumeFile)(nil), "recruiter@example.com").
		Return(&domain.CandidateWithResume{Candidate: domain.Candidate{ID: 1, Name: "Ada"}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/candidates",
		bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","position":"Engineer"}`))
	req.Header.Set("Content-Type", "application/json")

	w, env := f.do(t, req, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `null`, string(extract(t, env.Data, "resume")))
	f.candidates.AssertExpectations(t)
}

func TestCreateCandidateMultipartWithResume(t *testing.T) {
	f := newFixture(t)

	content := pdf(4096)
	f.candidates.On("CreateCandidate", mock.Anything,
		mock.MatchedBy(func(c *domain.Candidate) bool { return c.Position == "Designer" && c.HiringLocation == "Remote" }),
		mock.MatchedBy(func(r *domain.ResumeFile) bool {
			if r == nil || r.FileName != "cv.pdf" || r.MIMEType != "application/pdf" || r.Size != int64(len(content)) {
				return false
			}
			data, err := io.ReadAll(r.Content)
			return err == nil && bytes.Equal(data, content)
		}),
		"recruiter@example.com").
		Return(&domain.CandidateWithResume{
			Candidate: domain.Candidate{ID: 2},
			Resume:    &domain.Resume{ID: 5, FileName: "cv.pdf"},
		}, nil)

	body, ct := multipartBody(t, resumeField, "cv.pdf", "application/pdf", content, map[string]string{
		"name": "Grace", "email": "grace@example.com", "position": "Designer", "hiring_location": "Remote",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/candidates", body)
	req.Header.Set("Content-Type", ct)

	w, _ := f.do(t, req, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	f.candidates.AssertExpectations(t)
}

func TestListCandidatesParsesFilter(t *testing.T) {
	f := newFixture(t)

	want := domain.CandidateFilter{
		Statuses:   []string{"Hired", "Under Review"},
		Department: "Sales",
		Query:      "ada",
		Page:       2,
		PageSize:   5,
	}
	f.candidates.On("ListCandidates", mock.Anything, want).
		Return(domain.NewPaginatedResult([]domain.Candidate{{ID: 1}}, 6, 2, 5), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/candidates?status=Hired,%20Under%20Review&department=Sales&q=ada&page=2&page_size=5", nil)
	w, env := f.do(t, req, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `2`, string(extract(t, env.Data, "totalPages")))
	f.candidates.AssertExpectations(t)
}

func TestCandidateBadIDAndStatusBody(t *testing.T) {
	f := newFixture(t)

	w, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/api/candidates/0", nil), true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPatch, "/api/candidates/3/status", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w, env := f.do(t, req, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Status is required", env.Message)
	f.candidates.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// ---- misc routes ----

func TestExportSetsAttachmentHeaders(t *testing.T) {
	f := newFixture(t)
	f.dashboard.On("ExportCandidates", mock.Anything, "csv", mock.Anything).
		Return([]byte("ID,NAME\n1,Ada\n"), "candidates_20260101_090000.csv", nil)

	w, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/api/reports/candidates/export?format=CSV", nil), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="candidates_20260101_090000.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "ID,NAME\n1,Ada\n", w.Body.String())
}

func TestAuthRoutes(t *testing.T) {
	f := newFixture(t)

	w, env := f.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/test", nil), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/protected", nil), false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = f.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/protected", nil), true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"uid-7","email":"recruiter@example.com"}`, string(env.Data))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w, env := f.do(t, httptest.NewRequest(http.MethodGet, "/health", nil), false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","postgres":"ok"}`, string(env.Data))
	assert.NotEmpty(t, env.RequestID)

	degraded := &HealthHandler{healthUC: stubHealth{report: map[string]string{"status": "degraded", "redis": "down"}}}
	r := gin.New()
	r.GET("/health", degraded.Health)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func extract(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}
