package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
	"alfredoptarigan/career-pilot/internal/repositories"
	"alfredoptarigan/career-pilot/internal/services"
)

type stubAnalyzer struct {
	result *models.AnalysisResult
	err    error
	files  []services.ResumeFile
	texts  [][2]string
}

func (s *stubAnalyzer) Analyze(_ context.Context, jobDescription string, file services.ResumeFile) (*models.AnalysisResult, error) {
	s.files = append(s.files, file)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubAnalyzer) AnalyzeText(_ context.Context, jobDescription, resume string) (*models.AnalysisResult, error) {
	s.texts = append(s.texts, [2]string{jobDescription, resume})
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubJobs serves a fixed catalog and resolves descriptions the same way the
// real job service does.
type stubJobs struct {
	jobs      map[string]*models.JobDescription
	created   []models.CreateJobRequest
	recommend error
}

func newStubJobs(jobs ...*models.JobDescription) *stubJobs {
	s := &stubJobs{jobs: map[string]*models.JobDescription{}}
	for _, job := range jobs {
		s.jobs[job.ID.String()] = job
	}
	return s
}

func (s *stubJobs) ResolveDescription(ctx context.Context, text, jobID string) (string, *models.JobDescription, error) {
	if jobID != "" {
		job, err := s.Get(ctx, jobID)
		if err != nil {
			return "", nil, err
		}
		return job.Description, job, nil
	}
	if text == "" {
		return "", nil, services.ErrInvalidInput
	}
	return text, nil, nil
}

func (s *stubJobs) List(context.Context) ([]models.JobDescription, error) {
	out := make([]models.JobDescription, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, *job)
	}
	return out, nil
}

func (s *stubJobs) Get(_ context.Context, id string) (*models.JobDescription, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, services.ErrJobNotFound
	}
	return job, nil
}

func (s *stubJobs) Create(_ context.Context, req models.CreateJobRequest) (*models.JobDescription, error) {
	s.created = append(s.created, req)
	return &models.JobDescription{ID: uuid.New(), Title: req.Title, Description: req.Description}, nil
}

func (s *stubJobs) Recommend(context.Context, string, int) ([]models.JobRecommendation, error) {
	if s.recommend != nil {
		return nil, s.recommend
	}
	return []models.JobRecommendation{}, nil
}

type stubAgent struct {
	reply   string
	prompts []string
}

func (s *stubAgent) Respond(_ context.Context, _ []models.ConversationTurn, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, nil
}

type stubInterviewer struct {
	evalErr error
}

func (s *stubInterviewer) GenerateQuestions(context.Context, string) (*models.InterviewQuestionSet, error) {
	return &models.InterviewQuestionSet{Questions: []string{"q1", "q2", "q3", "q4", "q5"}}, nil
}

func (s *stubInterviewer) EvaluateAnswer(context.Context, string, string, string) (*models.AnswerEvaluation, error) {
	if s.evalErr != nil {
		return nil, s.evalErr
	}
	return &models.AnswerEvaluation{Score: 8, Feedback: "Solid."}, nil
}

func (s *stubInterviewer) Transcribe(_ context.Context, spoken string) (string, error) {
	return "Um, " + spoken, nil
}

type stubAccounts struct{}

func (stubAccounts) Register(_ context.Context, req models.RegisterRequest) (*models.User, string, error) {
	return &models.User{ID: uuid.New(), Username: req.Username, Email: req.Email, Role: models.RoleUser}, "token", nil
}

func (stubAccounts) Login(context.Context, models.LoginRequest) (*models.User, string, error) {
	return nil, "", services.ErrInvalidCredentials
}

// stubTokens maps bearer tokens to principals.
type stubTokens map[string]*models.Principal

func (s stubTokens) Authenticate(_ context.Context, token string) (*models.Principal, error) {
	principal, ok := s[token]
	if !ok {
		return nil, services.ErrUnauthorized
	}
	return principal, nil
}

type recorderSpy struct {
	mu      sync.Mutex
	records []*models.AnalysisHistory
}

func (r *recorderSpy) Start(context.Context) {}
func (r *recorderSpy) Stop() {}

func (r *recorderSpy) Record(record *models.AnalysisHistory) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return true
}

type fakeUsers struct{}

func (fakeUsers) Create(context.Context, *models.User) error { return nil }

func (fakeUsers) FindByID(context.Context, uuid.UUID) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (fakeUsers) FindByEmail(context.Context, string) (*models.User, error) {
	return nil, repositories.ErrNotFound
}

func (fakeUsers) ListSummaries(context.Context) ([]models.UserSummary, error) {
	return []models.UserSummary{{ID: uuid.New(), Username: "jane", Email: "jane@example.com", Role: models.RoleUser, AnalysisCount: 2}}, nil
}

type fakeAnalyses struct {
	byUser map[uuid.UUID][]models.AnalysisHistory
}

func (fakeAnalyses) Append(context.Context, *models.AnalysisHistory) error { return nil }

func (f fakeAnalyses) FindByUser(_ context.Context, userID uuid.UUID, _ int) ([]models.AnalysisHistory, error) {
	return f.byUser[userID], nil
}

func (f fakeAnalyses) FindAll(context.Context, int) ([]models.AnalysisHistory, error) {
	var all []models.AnalysisHistory
	for _, records := range f.byUser {
		all = append(all, records...)
	}
	return all, nil
}

var (
	testUser  = &models.Principal{UserID: uuid.New(), Role: models.RoleUser}
	testAdmin = &models.Principal{UserID: uuid.New(), Role: models.RoleAdmin}
)

type testEnv struct {
	app      *fiber.App
	analyzer *stubAnalyzer
	jobs     *stubJobs
	agent    *stubAgent
	recorder *recorderSpy
}

const maxTestUpload = 1024

func newTestEnv(t *testing.T, jobs ...*models.JobDescription) *testEnv {
	t.Helper()

	env := &testEnv{
		analyzer: &stubAnalyzer{result: &models.AnalysisResult{
			MatchScore:     82,
			ScoreRationale: "Strong Go background.",
			MatchingSkills: []string{"Go"},
			MissingSkills:  []string{"Kafka"},
			ImpliedSkills:  "API design",
			Status:         models.StatusApproved,
		}},
		jobs:     newStubJobs(jobs...),
		agent:    &stubAgent{reply: "Please paste your résumé."},
		recorder: &recorderSpy{},
	}

	log := zap.NewNop()
	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})

	RegisterRoutes(env.app, Handlers{
		Auth:      NewAuthHandler(stubAccounts{}),
		Analyze:   NewAnalyzeHandler(env.analyzer, env.jobs, env.recorder, maxTestUpload, log),
		Agent:     NewAgentHandler(env.agent, env.jobs, log),
		Jobs:      NewJobHandler(env.jobs),
		Interview: NewInterviewHandler(&stubInterviewer{evalErr: services.ErrEvaluationFailed}, env.jobs),
		History: NewHistoryHandler(fakeAnalyses{byUser: map[uuid.UUID][]models.AnalysisHistory{
			testUser.UserID: {{ID: uuid.New(), ResumeFileName: "mine.pdf", MatchScore: 70}},
		}}),
		Admin: NewAdminHandler(fakeUsers{}, fakeAnalyses{}, log),
	}, stubTokens{"user-token": testUser, "admin-token": testAdmin})

	return env
}

func jsonRequest(t *testing.T, method, path string, body any, token string) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileName string, data []byte, token string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("resumeFile", fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v), string(data))
}
