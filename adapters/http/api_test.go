package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getauthentic/backend/adapters/persistence"
	"github.com/getauthentic/backend/internal/application/service"
	assistantUC "github.com/getauthentic/backend/internal/application/usecase/assistant"
	authUC "github.com/getauthentic/backend/internal/application/usecase/auth"
	billingUC "github.com/getauthentic/backend/internal/application/usecase/billing"
	mediaUC "github.com/getauthentic/backend/internal/application/usecase/media"
	profileUC "github.com/getauthentic/backend/internal/application/usecase/profile"
	quizUC "github.com/getauthentic/backend/internal/application/usecase/quiz"
	"github.com/getauthentic/backend/pkg/auth"
	"github.com/getauthentic/backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeMailer struct {
	fail      bool
	lastToken string
}

func (m *fakeMailer) SendVerificationEmail(ctx context.Context, toEmail, restaurantName, token string) error {
	if m.fail {
		return errors.New("smtp refused")
	}
	m.lastToken = token
	return nil
}

type fakeLLM struct {
	fail  bool
	reply string
}

func (f *fakeLLM) GenerateAssistantReply(ctx context.Context, messages []service.ChatMessage) (string, error) {
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	return f.reply, nil
}

type fakeBilling struct {
	event service.WebhookEvent
}

func (p *fakeBilling) CreateCustomer(ctx context.Context, email, restaurantName string) (string, error) {
	return "cus_test", nil
}

func (p *fakeBilling) CreateCheckoutSession(ctx context.Context, customerID, priceID, successURL, cancelURL string) (string, error) {
	return "https://checkout.example.com/s/" + customerID, nil
}

func (p *fakeBilling) ParseWebhookEvent(payload []byte, signature string) (service.WebhookEvent, error) {
	if signature != "good" {
		return service.WebhookEvent{}, errors.New("bad signature")
	}
	return p.event, nil
}

type testServer struct {
	router  *gin.Engine
	repo    *persistence.MemoryUserRepo
	mailer  *fakeMailer
	llm     *fakeLLM
	billing *fakeBilling
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.NewNop()
	repo := persistence.NewMemoryUserRepo()
	mailer := &fakeMailer{}
	llm := &fakeLLM{reply: "Serve the khao soi on banana leaves."}
	billing := &fakeBilling{}
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	plans := billingUC.Plans{MonthlyPriceID: "price_monthly", YearlyPriceID: "price_yearly"}
	frontendURL := "https://app.example.com"

	authHandler := NewAuthHandler(
		authUC.NewSignupUseCase(repo, mailer, nil, log),
		authUC.NewVerifyEmailUseCase(repo, nil, log),
		authUC.NewLoginUseCase(repo, jwtSvc, log),
		frontendURL,
		log,
	)
	profileHandler := NewProfileHandler(profileUC.NewUpdateProfileUseCase(repo, log), log)
	mediaHandler := NewMediaHandler(mediaUC.NewUploadResultImageUseCase(repo, discardUploader{}, log), log)
	quizHandler := NewQuizHandler(quizUC.NewQuizUseCase(repo, nil, log), log)
	billingHandler := NewBillingHandler(
		billingUC.NewBillingUseCase(repo, billing, plans, frontendURL, log),
		billingUC.NewWebhookUseCase(repo, billing, plans, nil, nil, log),
		log,
	)
	assistantHandler := NewAssistantHandler(assistantUC.NewAskUseCase(repo, llm, 40, log), log)

	router := NewRouter(RouterDeps{
		Auth:       authHandler,
		Profile:    profileHandler,
		Media:      mediaHandler,
		Quiz:       quizHandler,
		Billing:    billingHandler,
		Assistant:  assistantHandler,
		JWTService: jwtSvc,
		Logger:     log,
	})

	return &testServer{router: router, repo: repo, mailer: mailer, llm: llm, billing: billing}
}

type discardUploader struct{}

func (discardUploader) Upload(ctx context.Context, file io.Reader, folder, publicID string) (string, error) {
	return "/uploads/" + folder + "/" + publicID, nil
}

func (discardUploader) Delete(ctx context.Context, publicID string) error { return nil }

func (s *testServer) postJSON(t *testing.T, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestSignupVerifyLoginFlow(t *testing.T) {
	s := newTestServer(t)

	signup := gin.H{"restaurant_name": "Thai Spice", "email": "a@x.com", "password": "p"}

	w := s.postJSON(t, "/api/signup", signup, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Same email again: the SPA expects this exact 400 shape.
	w = s.postJSON(t, "/api/signup", signup, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success": false, "message": "User already exists."}`, w.Body.String())

	login := gin.H{"identifier": "a@x.com", "password": "p"}
	w = s.postJSON(t, "/api/login", login, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "unverified account cannot log in")

	w = s.get(t, "/api/verify-email?token="+s.mailer.lastToken+"&email=a@x.com")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/login?verified=true")

	w = s.postJSON(t, "/api/login", login, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var loginResp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	assert.Equal(t, "Thai Spice", loginResp.RestaurantName)
	assert.False(t, loginResp.ProfileCompleted)
	assert.NotEmpty(t, loginResp.AccessToken)

	update := gin.H{
		"owner_name":       "Ann",
		"location":         "Bangkok",
		"business_type":    "Restaurant",
		"current_position": "Owner",
		"contact_email":    "a@x.com",
	}
	w = s.postJSON(t, "/api/profile-update", update, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.postJSON(t, "/api/login", login, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	assert.True(t, loginResp.ProfileCompleted)
}

func TestSignup_MailFailureIs500(t *testing.T) {
	s := newTestServer(t)
	s.mailer.fail = true

	w := s.postJSON(t, "/api/signup", gin.H{"restaurant_name": "Thai Spice", "email": "a@x.com", "password": "p"}, nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "verification email")
}

func TestQuizResultRoundTrip(t *testing.T) {
	s := newTestServer(t)
	signupAndVerify(t, s, "a@x.com")

	w := s.get(t, "/api/quiz-result?email=a@x.com")
	require.Equal(t, http.StatusOK, w.Code)
	var resp QuizResultResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Exists)

	save := gin.H{
		"email":        "a@x.com",
		"scores":       []float64{4.2, 3.8, 4.5, 3.1},
		"categories":   []string{"Ingredients", "Visual Appearance", "Cultural & Local Experiences", "Servicescape"},
		"profile_type": "Cultural Food Traveler",
	}
	w = s.postJSON(t, "/api/quiz-result", save, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.get(t, "/api/quiz-result?email=a@x.com")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Exists)
	assert.Equal(t, "Cultural Food Traveler", resp.ProfileType)
	assert.Len(t, resp.Scores, 4)
}

func TestSubscribeRequiresToken(t *testing.T) {
	s := newTestServer(t)
	token := signupAndVerify(t, s, "a@x.com")

	w := s.postJSON(t, "/api/subscribe", gin.H{"email": "a@x.com"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "direct activation needs a bearer token")

	w = s.postJSON(t, "/api/subscribe", gin.H{"email": "a@x.com"},
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.get(t, "/api/subscription-status?email=a@x.com")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subscribed": true}`, w.Body.String())
}

func TestWebhook_BadSignatureIs400(t *testing.T) {
	s := newTestServer(t)
	signupAndVerify(t, s, "a@x.com")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "forged")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "signature verification failed")

	status := s.get(t, "/api/subscription-status?email=a@x.com")
	assert.JSONEq(t, `{"subscribed": false}`, status.Body.String())
}

func TestAskAI_ProviderFailureIsPlain500(t *testing.T) {
	s := newTestServer(t)
	signupAndVerify(t, s, "a@x.com")
	s.llm.fail = true

	w := s.postMultipart(t, "/api/ask-ai", map[string]string{
		"email":        "a@x.com",
		"profile_type": "Leisure Traveler",
		"question":     "How do I greet guests?",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "AI suggestion failed", w.Body.String())

	s.llm.fail = false
	w = s.postMultipart(t, "/api/ask-ai", map[string]string{
		"email":        "a@x.com",
		"profile_type": "Leisure Traveler",
		"question":     "How do I greet guests?",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Serve the khao soi on banana leaves.", w.Body.String())
}

func (s *testServer) postMultipart(t *testing.T, path string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func signupAndVerify(t *testing.T, s *testServer, email string) string {
	t.Helper()
	w := s.postJSON(t, "/api/signup", gin.H{"restaurant_name": "Thai Spice " + email, "email": email, "password": "p"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.get(t, fmt.Sprintf("/api/verify-email?token=%s&email=%s", s.mailer.lastToken, email))
	require.Equal(t, http.StatusFound, w.Code)

	w = s.postJSON(t, "/api/login", gin.H{"identifier": email, "password": "p"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.get(t, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "UP"}`, w.Body.String())
}
