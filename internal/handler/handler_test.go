package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/agent"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/extraction"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/middleware"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/notify"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/onboarding"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/store"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/upload"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/config"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/database"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/pkg/jwtutil"
)

type stepExtractor struct{ byStep map[int]map[string]any }

func (s stepExtractor) ExtractStep(_ context.Context, _ string, step int) (map[string]any, error) {
	if fields, ok := s.byStep[step]; ok {
		return fields, nil
	}
	return nil, extraction.ErrParse
}

func (stepExtractor) Summarize(_ context.Context, description string, _, _ []string) string {
	return "Summary: " + description
}

type echoChatter struct{}

func (echoChatter) ChatTurn(_ context.Context, text string, _ []extraction.Message, solutions string) (string, error) {
	return "## Answer\n\n" + text + "\n\n" + solutions, nil
}

type relay struct {
	mu   sync.Mutex
	msgs []notify.InterestEmail
}

type testServer struct {
	e       *echo.Echo
	jwt     *jwtutil.JWTUtil
	db      *gorm.DB
	uploads *upload.MemoryBackend
	relay   *relay
	notify  *notify.Notifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:h_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	rl := &relay{}
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg notify.InterestEmail
		_ = json.NewDecoder(r.Body).Decode(&msg)
		rl.mu.Lock()
		rl.msgs = append(rl.msgs, msg)
		rl.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(relaySrv.Close)

	st := store.New(db)
	jwt := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "handler-test", ExpirationHours: 1})
	backend := upload.NewMemoryBackend("http://files.test")
	notifier := notify.NewNotifier(relaySrv.URL, "")
	extractor := stepExtractor{byStep: map[int]map[string]any{
		1: {"solutionName": "Falcon Vision", "description": "Reads licence plates", "contactEmail": "sales@falcon.sa"},
		2: {"techCategory": []string{"Computer Vision"}},
		3: {"deploymentStatus": "Production", "arabicSupport": true},
		4: {},
	}}

	h := &Handler{
		ServiceName: "marketplace-test",
		Store:       st,
		JWT:         jwt,
		Wizard:      onboarding.NewWizard(onboarding.NewMemoryStore(time.Hour), extractor, time.Minute),
		Agent:       agent.NewService(echoChatter{}, st, agent.NewMemoryLimiter(3)),
		Uploads:     upload.NewService(backend),
		Notifier:    notifier,
	}

	e := echo.New()
	e.Use(middleware.RequestIDMiddleware())
	h.Mount(e, middleware.Authenticate(jwt, st, time.Second))

	require.NoError(t, db.Create(&model.User{AuthID: "auth-eval", Email: "eval@hub.sa", Role: model.RoleEvaluator}).Error)
	return &testServer{e: e, jwt: jwt, db: db, uploads: backend, relay: rl, notify: notifier}
}

func (ts *testServer) token(t *testing.T, authID string) string {
	t.Helper()
	tok, err := ts.jwt.GenerateToken(authID, authID+"@example.sa", model.RoleUser)
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, rec)["error"]
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "Vendor@Acme.sa", Password: "s3cret-pass", ContactName: "Noura"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	rec = ts.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "vendor@acme.sa", Password: "another-pass"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/auth/register", "", RegisterRequest{Email: "x@y.sa", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Email: "vendor@acme.sa", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", errorOf(t, rec))

	rec = ts.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Email: "nobody@acme.sa", Password: "s3cret-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Email: "vendor@acme.sa", Password: "s3cret-pass"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decode[map[string]any](t, rec)["token"].(string)

	rec = ts.do(t, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Noura", decode[model.User](t, rec).ContactName)
}

func TestSubmissionReviewFlow(t *testing.T) {
	ts := newTestServer(t)
	vendor := ts.token(t, "auth-vendor")
	buyer := ts.token(t, "auth-buyer")
	eval := ts.token(t, "auth-eval")

	rec := ts.do(t, http.MethodPost, "/api/solutions", "", store.SolutionInput{SolutionName: "X"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/solutions", vendor, store.SolutionInput{SolutionName: "X", Summary: "Y"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "contact email")

	rec = ts.do(t, http.MethodPost, "/api/solutions", vendor, store.SolutionInput{
		SolutionName: "X", Summary: "Y", ContactEmail: "a@b.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sol := decode[model.Solution](t, rec)
	assert.Equal(t, model.StatusPending, sol.Status)
	path := "/api/solutions/" + sol.ID

	// hidden from the catalog and from other users until approved
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/catalog/"+sol.ID, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, buyer, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, path, vendor, nil).Code)

	// lifecycle keys sent by the owner are dropped
	rec = ts.do(t, http.MethodPatch, path, vendor, map[string]any{
		"summary":                  "Better",
		"tech_approval_status":     "approved",
		"business_approval_status": "approved",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sol = decode[model.Solution](t, rec)
	assert.Equal(t, "Better", sol.Summary)
	assert.Equal(t, model.StatusPending, sol.TechApprovalStatus)

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPatch, path, buyer, map[string]any{"summary": "mine"}).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodGet, "/api/review/queue", vendor, nil).Code)

	rec = ts.do(t, http.MethodGet, "/api/review/queue", eval, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Solution](t, rec), 1)

	rec = ts.do(t, http.MethodPatch, "/api/review/solutions/"+sol.ID, eval, map[string]any{"tech_approval_status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)
	// one approved track is not enough for the catalog
	assert.EqualValues(t, 0, decode[map[string]any](t, ts.do(t, http.MethodGet, "/api/catalog", "", nil))["total"])

	rec = ts.do(t, http.MethodPatch, "/api/review/solutions/"+sol.ID, eval, map[string]any{"business_approval_status": "bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPatch, "/api/review/solutions/"+sol.ID, eval, map[string]any{
		"business_approval_status": "approved",
		"status":                   "approved",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/catalog?search=better", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Items []model.Solution `json:"items"`
		Total int              `json:"total"`
	}](t, rec)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, sol.ID, page.Items[0].ID)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, path, buyer, nil).Code)

	rec = ts.do(t, http.MethodDelete, path, vendor, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "approved solutions cannot be deleted", errorOf(t, rec))

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/solutions/not-a-uuid", vendor, nil).Code)
}

func TestInterestsAndDashboard(t *testing.T) {
	ts := newTestServer(t)
	vendor := ts.token(t, "auth-vendor")
	buyer := ts.token(t, "auth-buyer")

	rec := ts.do(t, http.MethodPost, "/api/solutions", vendor, store.SolutionInput{
		SolutionName: "Falcon", Summary: "Plates", ContactEmail: "sales@falcon.sa",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	sol := decode[model.Solution](t, rec)
	lead := store.InterestInput{
		CompanyName: "MoT", ContactName: "Ali", ContactEmail: "ali@mot.gov.sa", Message: "Pilot?",
	}

	// buyers cannot raise interest before the solution is listed
	rec = ts.do(t, http.MethodPost, "/api/solutions/"+sol.ID+"/interests", buyer, lead)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPatch, "/api/review/solutions/"+sol.ID, ts.token(t, "auth-eval"), map[string]any{
		"status": "approved", "tech_approval_status": "approved", "business_approval_status": "approved",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/solutions/"+sol.ID+"/interests", buyer, lead)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	interest := decode[model.Interest](t, rec)
	assert.Equal(t, model.InterestNew, interest.Status)

	ts.notify.Wait()
	ts.relay.mu.Lock()
	require.Len(t, ts.relay.msgs, 1)
	assert.Equal(t, "sales@falcon.sa", ts.relay.msgs[0].To)
	ts.relay.mu.Unlock()

	rec = ts.do(t, http.MethodGet, "/api/profile/dashboard", vendor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[Dashboard](t, rec)
	assert.Len(t, d.Solutions, 1)
	assert.Len(t, d.ReceivedInterests, 1)
	assert.Empty(t, d.Interests)

	rec = ts.do(t, http.MethodGet, "/api/interests/mine", buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Interest](t, rec), 1)

	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/api/interests/"+interest.ID, vendor, nil).Code)
	assert.Empty(t, decode[[]model.Interest](t, ts.do(t, http.MethodGet, "/api/interests/received", vendor, nil)))
}

func TestOnboardingOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	vendor := ts.token(t, "auth-vendor")

	rec := ts.do(t, http.MethodPost, "/api/onboarding", vendor, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	state := decode[OnboardingResponse](t, rec)
	path := "/api/onboarding/" + state.ID

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, path, ts.token(t, "auth-other"), nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, path+"/messages", vendor, map[string]string{"text": ""}).Code)

	for i := 0; i < 4; i++ {
		rec = ts.do(t, http.MethodPost, path+"/messages", vendor, map[string]string{"text": "answer"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	state = decode[OnboardingResponse](t, rec)
	assert.True(t, state.IsCompleted)
	require.NotNil(t, state.Form)
	assert.Equal(t, "Falcon Vision", state.Form.SolutionName)
	assert.Equal(t, "Summary: Reads licence plates", state.Form.Summary)
	assert.Equal(t, []string{"Computer Vision"}, state.Form.TechCategories)
	assert.True(t, state.Form.ArabicSupport)

	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, path+"/messages", vendor, map[string]string{"text": "more"}).Code)

	// the handed-off form submits as is
	rec = ts.do(t, http.MethodPost, "/api/solutions", vendor, state.Form)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestOnboardingSkip(t *testing.T) {
	ts := newTestServer(t)
	vendor := ts.token(t, "auth-vendor")

	state := decode[OnboardingResponse](t, ts.do(t, http.MethodPost, "/api/onboarding", vendor, nil))
	path := "/api/onboarding/" + state.ID
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path+"/messages", vendor, map[string]string{"text": "Falcon"}).Code)

	rec := ts.do(t, http.MethodPost, path+"/skip", vendor, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state = decode[OnboardingResponse](t, rec)
	assert.True(t, state.IsCancelled)
	require.NotNil(t, state.Form)
	assert.Equal(t, "Falcon Vision", state.Form.SolutionName)
}

func TestAgentChatAndReports(t *testing.T) {
	ts := newTestServer(t)
	buyer := ts.token(t, "auth-buyer")

	rec := ts.do(t, http.MethodPost, "/api/agent/chat", buyer, agent.ChatRequest{Message: "hello"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[agent.ChatResponse](t, rec).Report)

	rec = ts.do(t, http.MethodPost, "/api/agent/chat", buyer, agent.ChatRequest{Message: "Write a report on vision vendors"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[agent.ChatResponse](t, rec)
	require.NotNil(t, resp.Report)
	assert.Equal(t, 1, resp.Remaining)

	rec = ts.do(t, http.MethodGet, "/api/agent/reports", buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.ResearchReport](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/api/agent/reports/"+resp.Report.ID, buyer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[map[string]any](t, rec)["html"], "<h2>Answer</h2>")

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/agent/reports/"+resp.Report.ID, ts.token(t, "auth-other"), nil).Code)

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/agent/chat", buyer, agent.ChatRequest{Message: "hi"}).Code)
	rec = ts.do(t, http.MethodPost, "/api/agent/chat", buyer, agent.ChatRequest{Message: "hi"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, errorOf(t, rec), "limit")
}

func TestUploadOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	vendor := ts.token(t, "auth-vendor")

	send := func(kind string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		part, err := w.CreateFormFile("file", "deck.pdf")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/uploads/"+kind, &body)
		req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+vendor)
		rec := httptest.NewRecorder()
		ts.e.ServeHTTP(rec, req)
		return rec
	}

	rec := send(upload.KindPitchDecks, []byte("%PDF-1.5\n%..."))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[upload.Result](t, rec)
	assert.True(t, strings.HasPrefix(res.Key, "pitch-decks/auth-vendor/"))
	_, _, ok := ts.uploads.Object(res.Key)
	assert.True(t, ok)

	rec = send(upload.KindProductImages, []byte("%PDF-1.5\n%..."))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/pitch-decks", nil)
	req.Header.Set("Authorization", "Bearer "+vendor)
	rec = httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
