package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"socialdesk/config"
	"socialdesk/internal/domain"
	"socialdesk/internal/handler"
	"socialdesk/internal/media"
	"socialdesk/internal/middleware"
	"socialdesk/internal/repository"
	"socialdesk/internal/services"
	"socialdesk/internal/storage"
	"socialdesk/pkg/logger"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type recordingNotifier struct {
	mu         sync.Mutex
	bookings   int
	reports    int
	recoveries int
}

func (n *recordingNotifier) BookingCreated(context.Context, *domain.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings++
}

func (n *recordingNotifier) ReportCreated(context.Context, *domain.Report) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reports++
}

func (n *recordingNotifier) RecoveryCreated(context.Context, *domain.AccountRecovery) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.recoveries++
}

type testApp struct {
	server   *Server
	provider *storage.MemoryProvider
	notifier *recordingNotifier
	token    string
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		CurrentPage  int64 `json:"currentPage"`
		TotalPages   int64 `json:"totalPages"`
		TotalItems   int64 `json:"totalItems"`
		ItemsPerPage int64 `json:"itemsPerPage"`
		HasNextPage  bool  `json:"hasNextPage"`
		HasPrevPage  bool  `json:"hasPrevPage"`
	} `json:"pagination"`
	Code string `json:"code"`
}

func newTestApp(t *testing.T, checks ...HealthCheck) *testApp {
	t.Helper()
	l := logger.NewNop()
	cfg := &config.Config{
		AppMode:        TestMode,
		AppPort:        "0",
		JWTSecret:      "test-secret",
		JWTExpiryHours: 24,
		MaxUploadMB:    5,
		CORSOrigins:    []string{"*"},
	}
	provider := storage.NewMemoryProvider("https://cdn.test")
	mediaHandler := media.NewHandler(provider, media.DefaultMaxFileSize, time.Second, l)
	collections := repository.NewMemoryCollections(mediaHandler, l)
	if err := collections.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := services.New(services.Deps{Config: cfg, Collections: collections, Media: mediaHandler, Logger: l})
	if _, err := svc.Auth.EnsureBootstrapAdmin(context.Background(), "admin@example.com", "secret", "Admin"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	notifier := &recordingNotifier{}
	srv := New(cfg, l)
	srv.SetupRoutes(handler.New(svc, notifier), svc.Auth, Limiters{}, checks...)
	return &testApp{server: srv, provider: provider, notifier: notifier}
}

func (a *testApp) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	a.server.Engine().ServeHTTP(rec, req)
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s response %q: %v", req.Method, req.URL, rec.Body.String(), err)
	}
	return rec, env
}

func jsonRequest(method, path string, body any) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type file struct {
	field, name string
	data        []byte
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, files ...file) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("file: %v", err)
		}
		part.Write(f.data)
	}
	w.Close()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	if a.token != "" {
		return a.token
	}
	rec, env := a.do(t, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "admin@example.com", "password": "secret",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	var data struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	json.Unmarshal(env.Data, &data)
	if data.TokenType != "Bearer" || data.AccessToken == "" {
		t.Fatalf("unexpected login data %s", env.Data)
	}
	a.token = data.AccessToken
	return a.token
}

func (a *testApp) authed(t *testing.T, req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+a.login(t))
	return req
}

func bookingBody(slot string) map[string]string {
	return map[string]string{
		"fullName":        "Sara",
		"phoneNumber":     "0500000000",
		"email":           "s@x.com",
		"platform":        "instagram",
		"serviceType":     "APP_DESIGN",
		"appointmentDate": "2099-01-01",
		"appointmentTime": slot,
	}
}

func TestBookingSubmission(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.do(t, jsonRequest(http.MethodPost, "/api/bookings", bookingBody("9:00 ص")))
	if rec.Code != http.StatusCreated || !env.Success {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	var booking struct {
		ID          string `json:"id"`
		ServiceType string `json:"serviceType"`
	}
	json.Unmarshal(env.Data, &booking)
	if booking.ServiceType != "تصميم تطبيقات" || booking.ID == "" {
		t.Fatalf("unexpected booking %s", env.Data)
	}
	if app.notifier.bookings != 1 {
		t.Fatalf("expected one notification, got %d", app.notifier.bookings)
	}

	rec, env = app.do(t, jsonRequest(http.MethodPost, "/api/bookings", bookingBody("9:00 ص")))
	if rec.Code != http.StatusBadRequest || env.Message != domain.MsgSlotTaken {
		t.Fatalf("expected slot taken, got %d %s", rec.Code, rec.Body.String())
	}
	if app.notifier.bookings != 1 {
		t.Fatal("a rejected booking must not notify")
	}
}

func TestBookingListRequiresTokenAndPaginates(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.do(t, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))
	if rec.Code != http.StatusUnauthorized || env.Message != middleware.MsgNoToken {
		t.Fatalf("expected 401, got %d %s", rec.Code, rec.Body.String())
	}

	for _, slot := range domain.AppointmentTimes[:12] {
		if rec, _ := app.do(t, jsonRequest(http.MethodPost, "/api/bookings", bookingBody(slot))); rec.Code != http.StatusCreated {
			t.Fatalf("create %s: %d", slot, rec.Code)
		}
	}

	rec, env = app.do(t, app.authed(t, httptest.NewRequest(http.MethodGet, "/api/bookings?page=2&limit=50", nil)))
	if rec.Code != http.StatusOK || env.Pagination == nil {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	p := env.Pagination
	if p.CurrentPage != 2 || p.TotalPages != 2 || p.TotalItems != 12 || p.ItemsPerPage != 10 || p.HasNextPage || !p.HasPrevPage {
		t.Fatalf("unexpected pagination %+v", p)
	}
	var items []json.RawMessage
	json.Unmarshal(env.Data, &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 items on page 2, got %d", len(items))
	}

	rec, env = app.do(t, app.authed(t, httptest.NewRequest(http.MethodGet, "/api/bookings?page=9", nil)))
	json.Unmarshal(env.Data, &items)
	if rec.Code != http.StatusOK || !env.Success || len(items) != 0 {
		t.Fatalf("page past the end should be empty, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestBookingAvailabilityIsPublic(t *testing.T) {
	app := newTestApp(t)
	app.do(t, jsonRequest(http.MethodPost, "/api/bookings", bookingBody("9:00 ص")))

	rec, env := app.do(t, httptest.NewRequest(http.MethodGet, "/api/bookings/availability?date=2099-01-01", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("availability: %d %s", rec.Code, rec.Body.String())
	}
	var av services.Availability
	json.Unmarshal(env.Data, &av)
	if len(av.Booked) != 1 || av.Booked[0] != "9:00 ص" {
		t.Fatalf("unexpected availability %+v", av)
	}

	rec, _ = app.do(t, httptest.NewRequest(http.MethodGet, "/api/bookings/availability", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing date should be 400, got %d", rec.Code)
	}
}

func recoveryFields() map[string]string {
	return map[string]string{
		"platform":    "Instagram",
		"username":    "lost",
		"phoneNumber": "0500000000",
		"email":       "owner@example.com",
		"fullName":    "Owner",
		"idNumber":    "1234567890",
		"description": "hacked",
	}
}

func TestRecoveryMultipartSubmission(t *testing.T) {
	app := newTestApp(t)

	req := multipartRequest(t, http.MethodPost, "/api/account-recovery", recoveryFields(),
		file{"identityDocuments", "front.png", pngBytes},
		file{"identityDocuments", "back.png", pngBytes},
	)
	rec, env := app.do(t, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	var rec1 domain.AccountRecovery
	json.Unmarshal(env.Data, &rec1)
	if len(rec1.IdentityDocuments) != 2 || rec1.Status != domain.StatusPending {
		t.Fatalf("unexpected recovery %s", env.Data)
	}
	if app.notifier.recoveries != 1 {
		t.Fatal("recovery should notify")
	}

	rec, env = app.do(t, app.authed(t, jsonRequest(http.MethodPut, "/api/account-recovery/"+rec1.ID.Hex(), map[string]string{"status": "completed"})))
	if rec.Code != http.StatusOK {
		t.Fatalf("status update: %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = app.do(t, app.authed(t, httptest.NewRequest(http.MethodDelete, "/api/account-recovery/"+rec1.ID.Hex(), nil)))
	if rec.Code != http.StatusOK || app.provider.Live() != 0 {
		t.Fatalf("delete: %d, %d objects left", rec.Code, app.provider.Live())
	}

	rec, env = app.do(t, app.authed(t, httptest.NewRequest(http.MethodGet, "/api/account-recovery/"+rec1.ID.Hex(), nil)))
	if rec.Code != http.StatusNotFound || env.Message != "الطلب غير موجود" {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRecoveryTooManyFiles(t *testing.T) {
	app := newTestApp(t)
	var files []file
	for i := 0; i < 6; i++ {
		files = append(files, file{"identityDocuments", "doc.png", pngBytes})
	}
	rec, _ := app.do(t, multipartRequest(t, http.MethodPost, "/api/account-recovery", recoveryFields(), files...))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(app.provider.Puts()) != 0 {
		t.Fatal("nothing should be uploaded")
	}
}

func TestReportMultipartWithBracketKeys(t *testing.T) {
	app := newTestApp(t)
	fields := map[string]string{
		"fakeAccount[username]":    "impostor",
		"fakeAccount[platform]":    "instagram",
		"fakeAccount[accountLink]": "https://instagram.com/impostor",
		"fakeAccount[description]": "pretends to be me",
		"personalInfo":             `{"firstName":"Sara","lastName":"Ali","occupation":"student","idNumber":"123","idExpiry":"2030-01-01"}`,
		"realAccounts[instagram]":  "https://instagram.com/sara",
	}
	rec, env := app.do(t, multipartRequest(t, http.MethodPost, "/api/reports", fields,
		file{"idImage", "id.png", pngBytes},
		file{"screenshots", "s.png", pngBytes},
	))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	var report domain.Report
	json.Unmarshal(env.Data, &report)
	if report.FakeAccount.Username != "impostor" || report.PersonalInfo.FirstName != "Sara" || report.RealAccounts.Instagram == "" {
		t.Fatalf("unexpected report %s", env.Data)
	}
	if report.Documents.IDImage == nil || len(report.Documents.Screenshots) != 1 {
		t.Fatalf("unexpected documents %s", env.Data)
	}
	if app.notifier.reports != 1 {
		t.Fatal("report should notify")
	}
}

func TestReportUnexpectedFileField(t *testing.T) {
	app := newTestApp(t)
	rec, env := app.do(t, multipartRequest(t, http.MethodPost, "/api/reports", map[string]string{},
		file{"avatar", "a.png", pngBytes},
	))
	if rec.Code != http.StatusBadRequest || !strings.Contains(env.Message, "avatar") {
		t.Fatalf("expected 400 naming the field, got %d %s", rec.Code, rec.Body.String())
	}
	if len(app.provider.Puts()) != 0 {
		t.Fatal("nothing should be uploaded")
	}
}

func TestFeedbackJSONWithRawURL(t *testing.T) {
	app := newTestApp(t)
	rec, env := app.do(t, jsonRequest(http.MethodPost, "/api/feedback", map[string]any{
		"name": "Sara", "feedback": "great", "media": "https://example.com/v.mp4",
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	var fb struct {
		Media string `json:"media"`
	}
	json.Unmarshal(env.Data, &fb)
	if fb.Media != "https://example.com/v.mp4" {
		t.Fatalf("raw url media should round trip as a string, got %s", env.Data)
	}

	rec, env = app.do(t, httptest.NewRequest(http.MethodGet, "/api/feedback", nil))
	if rec.Code != http.StatusOK || env.Pagination == nil || env.Pagination.TotalItems != 1 {
		t.Fatalf("public list: %d %s", rec.Code, rec.Body.String())
	}
}

func TestFeedbackRejectsDocument(t *testing.T) {
	app := newTestApp(t)
	rec, _ := app.do(t, multipartRequest(t, http.MethodPost, "/api/feedback",
		map[string]string{"name": "Sara", "feedback": "great"},
		file{"media", "doc.pdf", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")},
	))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBlogLifecycle(t *testing.T) {
	app := newTestApp(t)
	fields := map[string]string{"title": "Hello", "category": "news", "excerpt": "short", "content": "# Title", "author": "Team"}

	rec, _ := app.do(t, multipartRequest(t, http.MethodPost, "/api/blogs", fields, file{"image", "cover.png", pngBytes}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("create without token should be 401, got %d", rec.Code)
	}

	rec, env := app.do(t, app.authed(t, multipartRequest(t, http.MethodPost, "/api/blogs", fields, file{"image", "cover.png", pngBytes})))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var blog domain.Blog
	json.Unmarshal(env.Data, &blog)

	rec, env = app.do(t, httptest.NewRequest(http.MethodGet, "/api/blogs/"+blog.ID.Hex(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("public get: %d", rec.Code)
	}

	rec, env = app.do(t, app.authed(t, jsonRequest(http.MethodPut, "/api/blogs/"+blog.ID.Hex(), map[string]string{"title": "Renamed"})))
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	var updated domain.Blog
	json.Unmarshal(env.Data, &updated)
	if updated.Title != "Renamed" || updated.Image.PublicID != blog.Image.PublicID {
		t.Fatalf("unexpected update %s", env.Data)
	}

	rec, _ = app.do(t, app.authed(t, httptest.NewRequest(http.MethodDelete, "/api/blogs/"+blog.ID.Hex(), nil)))
	if rec.Code != http.StatusOK || app.provider.Live() != 0 {
		t.Fatalf("delete: %d, %d objects left", rec.Code, app.provider.Live())
	}

	rec, env = app.do(t, httptest.NewRequest(http.MethodGet, "/api/blogs/not-an-id", nil))
	if rec.Code != http.StatusNotFound || env.Message != "التدوينة غير موجودة" {
		t.Fatalf("expected 404, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	app.do(t, jsonRequest(http.MethodPost, "/api/bookings", bookingBody("9:00 ص")))

	rec, env := app.do(t, app.authed(t, httptest.NewRequest(http.MethodGet, "/api/admin/counts", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("counts: %d", rec.Code)
	}
	var counts domain.Counts
	json.Unmarshal(env.Data, &counts)
	if counts.Bookings != 1 {
		t.Fatalf("unexpected counts %s", env.Data)
	}

	rec, env = app.do(t, app.authed(t, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)))
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), "recentBookings") {
		t.Fatalf("dashboard: %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatal("password hash must never be serialised")
	}

	rec, _ = app.do(t, app.authed(t, jsonRequest(http.MethodPut, "/api/admin/profile", map[string]string{"name": "Boss"})))
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = app.do(t, app.authed(t, httptest.NewRequest(http.MethodDelete, "/api/admin/media", nil)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing public_id should be 400, got %d", rec.Code)
	}

	app.provider.FailDelete = true
	rec, _ = app.do(t, app.authed(t, httptest.NewRequest(http.MethodDelete, "/api/admin/media?public_id=blogs/x.png", nil)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("media host failure should surface, got %d", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	rec, env := app.do(t, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@example.com", "password": "wrong"}))
	if rec.Code != http.StatusUnauthorized || env.Message != services.MsgInvalidCredentials {
		t.Fatalf("expected 401, got %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = app.do(t, app.authed(t, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: %d", rec.Code)
	}
}

func TestPingHealthAndNoRoute(t *testing.T) {
	app := newTestApp(t,
		HealthCheck{Name: "database", Check: func(context.Context) error { return nil }},
	)
	if rec, _ := app.do(t, httptest.NewRequest(http.MethodGet, "/ping", nil)); rec.Code != http.StatusOK {
		t.Fatalf("ping: %d", rec.Code)
	}
	if rec, _ := app.do(t, httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	if rec, env := app.do(t, httptest.NewRequest(http.MethodGet, "/api/nothing", nil)); rec.Code != http.StatusNotFound || env.Code != "NOT_FOUND" {
		t.Fatalf("no route: %d", rec.Code)
	}

	down := newTestApp(t, HealthCheck{Name: "cache", Check: func(context.Context) error { return errors.New("down") }})
	if rec, _ := down.do(t, httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unhealthy: %d", rec.Code)
	}
}
