package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/medstudy-backend/internal/data/repos"
	"github.com/yungbote/medstudy-backend/internal/data/repos/testutil"
	apphttp "github.com/yungbote/medstudy-backend/internal/http"
	httpH "github.com/yungbote/medstudy-backend/internal/http/handlers"
	httpMW "github.com/yungbote/medstudy-backend/internal/http/middleware"
	"github.com/yungbote/medstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/medstudy-backend/internal/platform/openai"
	"github.com/yungbote/medstudy-backend/internal/services"
)

type stubLLM struct {
	mu      sync.Mutex
	content string
	err     error
}

func (s *stubLLM) Complete(context.Context, openai.ChatRequest) (openai.ChatResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return openai.ChatResult{}, s.err
	}
	return openai.ChatResult{Content: s.content, Model: "stub"}, nil
}

func (s *stubLLM) set(content string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content, s.err = content, err
}

type apiEnv struct {
	router *gin.Engine
	auth   services.AuthService
	llm    *stubLLM
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)

	auth, err := services.NewAuthService(log, "handler-test-secret", "medstudy")
	require.NoError(t, err)
	subjectRepo := repos.NewSubjectRepo(db, log)
	progressRepo := repos.NewProgressRepo(db, log)
	sessionRepo := repos.NewStudySessionRepo(db, log)
	statsRepo := repos.NewUserStatsRepo(db, log)
	subjects, err := services.NewSubjectService(db, log, subjectRepo)
	require.NoError(t, err)

	llm := &stubLLM{}
	ai := services.NewAIService(log, llm)
	chat := services.NewChatService(log, ai, repos.NewChatMessageRepo(db, log), progressRepo, sessionRepo, subjectRepo)

	router := apphttp.NewRouter(apphttp.RouterConfig{
		Log:                 log,
		AuthMiddleware:      httpMW.NewAuthMiddleware(log, auth),
		HealthHandler:       httpH.NewHealthHandler(db),
		AuthHandler:         httpH.NewAuthHandler(log, services.NewUserService(db, log, repos.NewUserRepo(db, log), statsRepo)),
		SubjectHandler:      httpH.NewSubjectHandler(log, subjects),
		ProgressHandler:     httpH.NewProgressHandler(log, services.NewProgressService(log, progressRepo), services.NewStatsService(log, statsRepo)),
		StudySessionHandler: httpH.NewStudySessionHandler(log, services.NewStudySessionService(log, sessionRepo)),
		NoteHandler:         httpH.NewNoteHandler(log, services.NewNoteService(log, repos.NewNoteRepo(db, log))),
		AIHandler:           httpH.NewAIHandler(log, chat),
	})
	return &apiEnv{router: router, auth: auth, llm: llm}
}

// signIn mints a token for a fresh user and syncs the user row.
func (e *apiEnv) signIn(t *testing.T) string {
	t.Helper()
	id := "user-" + uuid.NewString()
	tok, err := e.auth.MintToken(ctxutil.RequestData{
		UserID:    id,
		Email:     id + "@example.com",
		FirstName: "Sam",
	}, time.Hour)
	require.NoError(t, err)
	rec := e.do(t, tok, http.MethodPost, "/api/auth/session", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return tok
}

func (e *apiEnv) do(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error.Message
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthCheckIsPublic(t *testing.T) {
	e := newAPI(t)
	rec := e.do(t, "", http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAPIRequiresBearerToken(t *testing.T) {
	e := newAPI(t)
	for _, path := range []string{"/api/subjects", "/api/notes", "/api/auth/user"} {
		rec := e.do(t, "", http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := e.do(t, "not-a-jwt", http.MethodGet, "/api/subjects", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserBeforeSessionIsNotFound(t *testing.T) {
	e := newAPI(t)
	tok, err := e.auth.MintToken(ctxutil.RequestData{UserID: "ghost"}, time.Hour)
	require.NoError(t, err)
	rec := e.do(t, tok, http.MethodGet, "/api/auth/user", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubjectsInitializeAndCreate(t *testing.T) {
	e := newAPI(t)
	tok := e.signIn(t)

	rec := e.do(t, tok, http.MethodPost, "/api/initialize", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	init := decode[struct {
		Message  string `json:"message"`
		Subjects []struct {
			Name string `json:"name"`
		} `json:"subjects"`
	}](t, rec)
	assert.Equal(t, "Default subjects initialized", init.Message)
	require.Len(t, init.Subjects, 5)
	assert.Equal(t, "Cardiology", init.Subjects[0].Name)

	rec = e.do(t, tok, http.MethodPost, "/api/subjects", map[string]any{"description": "no name"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name is required", errorMessage(t, rec))

	rec = e.do(t, tok, http.MethodPost, "/api/subjects", map[string]any{"name": "Pathology", "icon": "fas fa-microscope"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, tok, http.MethodGet, "/api/subjects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 6)
}

func TestStudySessionValidation(t *testing.T) {
	e := newAPI(t)
	tok := e.signIn(t)

	rec := e.do(t, tok, http.MethodPost, "/api/study-sessions", map[string]any{"startedAt": time.Now().UTC()})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duration is required", errorMessage(t, rec))

	rec = e.do(t, tok, http.MethodPost, "/api/study-sessions", `{"duration":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, tok, http.MethodPost, "/api/study-sessions", map[string]any{
		"duration":          45,
		"questionsAnswered": 10,
		"correctAnswers":    7,
		"startedAt":         time.Now().Add(-time.Hour).UTC(),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, tok, http.MethodGet, "/api/study-sessions/weekly/summary?tz=Mars/Olympus", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown time zone: Mars/Olympus", errorMessage(t, rec))

	rec = e.do(t, tok, http.MethodGet, "/api/study-sessions/weekly/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decode[map[string]any](t, rec)
	assert.EqualValues(t, 10, summary["totalQuestions"])
	assert.EqualValues(t, 70, summary["accuracy"])
}

func TestNotesLifecycle(t *testing.T) {
	e := newAPI(t)
	owner := e.signIn(t)
	other := e.signIn(t)

	rec := e.do(t, owner, http.MethodPost, "/api/notes", map[string]any{"title": "Murmurs"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "content is required", errorMessage(t, rec))

	rec = e.do(t, owner, http.MethodPost, "/api/notes", map[string]any{
		"title":   "Murmurs",
		"content": "Systolic vs diastolic",
		"tags":    []string{"cardio", " "},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	note := decode[struct {
		ID   string   `json:"id"`
		Tags []string `json:"tags"`
	}](t, rec)
	assert.Equal(t, []string{"cardio"}, note.Tags)

	rec = e.do(t, other, http.MethodPatch, "/api/notes/"+note.ID, map[string]any{"title": "mine now"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, owner, http.MethodPatch, "/api/notes/not-a-uuid", map[string]any{"title": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid note id", errorMessage(t, rec))

	rec = e.do(t, owner, http.MethodPatch, "/api/notes/"+note.ID, map[string]any{"title": "Heart murmurs"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Heart murmurs", decode[map[string]any](t, rec)["title"])

	rec = e.do(t, other, http.MethodDelete, "/api/notes/"+note.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(t, owner, http.MethodDelete, "/api/notes/"+note.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Note deleted successfully"}`, rec.Body.String())

	rec = e.do(t, owner, http.MethodGet, "/api/notes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestStatsPatch(t *testing.T) {
	e := newAPI(t)
	tok := e.signIn(t)

	rec := e.do(t, tok, http.MethodPatch, "/api/user/stats", map[string]any{"studyStreak": 4})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 4, decode[map[string]any](t, rec)["studyStreak"])

	rec = e.do(t, tok, http.MethodPatch, "/api/user/stats", map[string]any{"overallProgress": 140})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressPartialUpsertKeepsOmittedFields(t *testing.T) {
	e := newAPI(t)
	tok := e.signIn(t)

	rec := e.do(t, tok, http.MethodPost, "/api/initialize", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	subjects := decode[struct {
		Subjects []struct {
			ID string `json:"id"`
		} `json:"subjects"`
	}](t, rec).Subjects
	require.NotEmpty(t, subjects)
	subjectID := subjects[0].ID

	rec = e.do(t, tok, http.MethodPost, "/api/user/progress", map[string]any{
		"subjectId":          subjectID,
		"progressPercentage": 40,
		"topicsMastered":     3,
		"currentTopic":       "Murmurs",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, tok, http.MethodPost, "/api/user/progress", map[string]any{
		"subjectId":          subjectID,
		"progressPercentage": 55,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	row := decode[map[string]any](t, rec)
	assert.EqualValues(t, 55, row["progressPercentage"])
	assert.EqualValues(t, 3, row["topicsMastered"])
	assert.Equal(t, "Murmurs", row["currentTopic"])

	rec = e.do(t, tok, http.MethodGet, "/api/user/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]map[string]any](t, rec)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 3, rows[0]["topicsMastered"])
}

func TestStoreConstraintFailuresAreClientErrors(t *testing.T) {
	e := newAPI(t)
	tok := e.signIn(t)

	rec := e.do(t, tok, http.MethodPost, "/api/user/progress", map[string]any{
		"subjectId":          uuid.NewString(),
		"progressPercentage": 10,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "a referenced record does not exist", errorMessage(t, rec))

	shared := "shared-" + uuid.NewString() + "@example.com"
	for i, want := range []int{http.StatusOK, http.StatusConflict} {
		other, err := e.auth.MintToken(ctxutil.RequestData{
			UserID: "user-" + uuid.NewString(),
			Email:  shared,
		}, time.Hour)
		require.NoError(t, err)
		rec = e.do(t, other, http.MethodPost, "/api/auth/session", nil)
		require.Equal(t, want, rec.Code, "identity %d: %s", i, rec.Body.String())
	}
	assert.Equal(t, "a record with the same unique values already exists", errorMessage(t, rec))
	assert.NotContains(t, rec.Body.String(), "UNIQUE")
}

func TestAskFailsWithBadGatewayButEnhanceFallsBack(t *testing.T) {
	e := newAPI(t)
	tok := e.signIn(t)
	e.llm.set("definitely not json", nil)

	rec := e.do(t, tok, http.MethodPost, "/api/ai/ask", map[string]any{"question": "What is afterload?"})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Failed to get AI response. Please try again.", errorMessage(t, rec))

	rec = e.do(t, tok, http.MethodGet, "/api/ai/chat-history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	e.llm.set("", errors.New("upstream down"))
	rec = e.do(t, tok, http.MethodPost, "/api/ai/enhance-notes", map[string]any{"notes": "SA node sets rate", "subject": "Physiology"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"enhancedNotes":"SA node sets rate"}`, rec.Body.String())
}

func TestAskValidationAndHistory(t *testing.T) {
	e := newAPI(t)
	tok := e.signIn(t)

	rec := e.do(t, tok, http.MethodPost, "/api/ai/ask", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Question is required", errorMessage(t, rec))

	e.llm.set(`{"answer":"Afterload is ventricular wall stress during ejection.","confidence":0.9}`, nil)
	rec = e.do(t, tok, http.MethodPost, "/api/ai/ask", map[string]any{"question": "What is afterload?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	answer := decode[map[string]any](t, rec)
	assert.EqualValues(t, 0.9, answer["confidence"])
	assert.Equal(t, []any{}, answer["sources"])

	rec = e.do(t, tok, http.MethodGet, "/api/ai/chat-history?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]map[string]any](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, "What is afterload?", history[0]["message"])
}

func TestGenerateMCQsEndpoint(t *testing.T) {
	e := newAPI(t)
	tok := e.signIn(t)

	rec := e.do(t, tok, http.MethodPost, "/api/ai/generate-mcqs", map[string]any{"subject": "Cardiology"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Subject and topic are required", errorMessage(t, rec))

	e.llm.set(`{"questions":[{"question":"Q","options":["a","b","c","d"],"correctAnswer":1,"explanation":"b"}]}`, nil)
	rec = e.do(t, tok, http.MethodPost, "/api/ai/generate-mcqs", map[string]any{"subject": "Cardiology", "topic": "Murmurs"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[struct {
		Questions []map[string]any `json:"questions"`
	}](t, rec)
	require.Len(t, out.Questions, 1)
	assert.Equal(t, "medium", out.Questions[0]["difficulty"])
}

func TestDeleteUserRemovesAccount(t *testing.T) {
	e := newAPI(t)
	tok := e.signIn(t)

	rec := e.do(t, tok, http.MethodDelete, "/api/auth/user", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Account deleted successfully"}`, rec.Body.String())

	rec = e.do(t, tok, http.MethodGet, "/api/auth/user", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
