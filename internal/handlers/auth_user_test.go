package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petstore/internal/memstore"
	"petstore/internal/middleware"
	"petstore/internal/models"
	"petstore/internal/token"
)

type recordingNotifier struct {
	verifyLinks []string
	otps        []string
}

func (n *recordingNotifier) SendVerificationEmail(_ context.Context, _, _, link string) error {
	n.verifyLinks = append(n.verifyLinks, link)
	return nil
}

func (n *recordingNotifier) SendPasswordResetOTP(_ context.Context, _, _, otp string) error {
	n.otps = append(n.otps, otp)
	return nil
}

type authFixture struct {
	db       *memstore.DB
	tokens   *token.Issuer
	notifier *recordingNotifier
	router   *gin.Engine
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		db:       memstore.New(),
		tokens:   token.NewIssuer("access-secret", "refresh-secret", 5*time.Hour, 7*24*time.Hour),
		notifier: &recordingNotifier{},
	}
	cookies := CookieOptions{}

	r := gin.New()
	r.POST("/api/user/register", Register(f.db.Users, f.notifier, "http://shop.local"))
	r.POST("/api/user/verify-email", VerifyEmail(f.db.Users))
	r.POST("/api/user/login", Login(f.db.Users, f.tokens, cookies))
	r.POST("/api/user/refresh-token", RefreshToken(f.db.Users, f.tokens, cookies))
	r.PUT("/api/user/forgot-password", ForgotPassword(f.db.Users, f.notifier))
	r.PUT("/api/user/verify-forgot-password-otp", VerifyForgotPasswordOTP(f.db.Users))
	r.PUT("/api/user/reset-password", ResetPassword(f.db.Users))

	private := r.Group("/api/user", middleware.Auth(f.tokens))
	private.GET("/logout", Logout(f.db.Users, cookies))
	private.GET("/user-details", UserDetails(f.db.Users))
	private.PUT("/update-user", UpdateUser(f.db.Users))

	f.router = r
	return f
}

func (f *authFixture) register(t *testing.T, email, password string) models.User {
	t.Helper()
	w := doJSON(t, f.router, http.MethodPost, "/api/user/register", map[string]any{
		"name": "Ana", "email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var u models.User
	decodeData(t, decodeEnvelope(t, w), &u)
	return u
}

type loginTokens struct {
	AccessToken  string `json:"accesstoken"`
	RefreshToken string `json:"refreshToken"`
}

func (f *authFixture) login(t *testing.T, email, password string) (loginTokens, *httptest.ResponseRecorder) {
	t.Helper()
	w := doJSON(t, f.router, http.MethodPost, "/api/user/login", map[string]any{"email": email, "password": password})
	var out loginTokens
	if w.Code == http.StatusOK {
		decodeData(t, decodeEnvelope(t, w), &out)
	}
	return out, w
}

func withBearer(t *testing.T, r http.Handler, method, path, raw string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	u := f.register(t, "Ana@Example.com", "secreto1")
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	require.Len(t, f.notifier.verifyLinks, 1)
	assert.Equal(t, "http://shop.local/verify-email?code="+u.ID.Hex(), f.notifier.verifyLinks[0])

	w := doJSON(t, f.router, http.MethodPost, "/api/user/register", map[string]any{
		"name": "Otra", "email": "ana@example.com", "password": "x",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Error, el correo ya existe", decodeEnvelope(t, w).Message)
}

func TestRegisterDoesNotLeakPasswordHash(t *testing.T) {
	f := newAuthFixture()
	w := doJSON(t, f.router, http.MethodPost, "/api/user/register", map[string]any{
		"name": "Ana", "email": "ana@example.com", "password": "secreto1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture()
	u := f.register(t, "ana@example.com", "secreto1")

	w := doJSON(t, f.router, http.MethodPost, "/api/user/verify-email", map[string]any{"code": u.ID.Hex()})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := f.db.Users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifyEmail)

	w = doJSON(t, f.router, http.MethodPost, "/api/user/verify-email", map[string]any{"code": "65f1c0ffee0000000000beef"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Codigo invalido", decodeEnvelope(t, w).Message)
}

func TestLoginFailures(t *testing.T) {
	f := newAuthFixture()
	u := f.register(t, "ana@example.com", "secreto1")

	_, w := f.login(t, "nadie@example.com", "secreto1")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Usuario no esta registrado", decodeEnvelope(t, w).Message)

	_, w = f.login(t, "ana@example.com", "otra")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Verifica tu contraseña", decodeEnvelope(t, w).Message)

	f.db.Users.SetStatus(u.ID, models.UserStatusSuspended)
	_, w = f.login(t, "ana@example.com", "secreto1")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Contacte al administrador", decodeEnvelope(t, w).Message)
}

func TestLoginSetsCookiesAndRefreshRotatesAccess(t *testing.T) {
	f := newAuthFixture()
	u := f.register(t, "ana@example.com", "secreto1")

	tokens, w := f.login(t, "ana@example.com", "secreto1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	cookies := w.Result().Cookies()
	names := map[string]*http.Cookie{}
	for _, c := range cookies {
		names[c.Name] = c
	}
	require.Contains(t, names, middleware.AccessTokenCookie)
	require.Contains(t, names, middleware.RefreshTokenCookie)
	assert.True(t, names[middleware.AccessTokenCookie].HttpOnly)

	stored, err := f.db.Users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, token.Hash(tokens.RefreshToken), stored.RefreshToken)
	assert.NotNil(t, stored.LastLoginDate)

	w = withBearer(t, f.router, http.MethodPost, "/api/user/refresh-token", tokens.RefreshToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var refreshed struct {
		AccessToken string `json:"accessToken"`
	}
	decodeData(t, decodeEnvelope(t, w), &refreshed)
	id, err := f.tokens.ParseAccess(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	w = withBearer(t, f.router, http.MethodPost, "/api/user/refresh-token", tokens.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "access tokens are not refresh tokens")
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ana@example.com", "secreto1")
	tokens, w := f.login(t, "ana@example.com", "secreto1")
	require.Equal(t, http.StatusOK, w.Code)

	w = withBearer(t, f.router, http.MethodGet, "/api/user/logout", tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Cierre de sesión exitoso", decodeEnvelope(t, w).Message)

	w = withBearer(t, f.router, http.MethodPost, "/api/user/refresh-token", tokens.RefreshToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token invalido", decodeEnvelope(t, w).Message)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ana@example.com", "secreto1")

	w := doJSON(t, f.router, http.MethodPut, "/api/user/forgot-password", map[string]any{"email": "ana@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, f.notifier.otps, 1)
	otp := f.notifier.otps[0]
	assert.Len(t, otp, 6)

	w = doJSON(t, f.router, http.MethodPut, "/api/user/verify-forgot-password-otp", map[string]any{"email": "ana@example.com", "otp": "000000x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "OTP Invalido", decodeEnvelope(t, w).Message)

	w = doJSON(t, f.router, http.MethodPut, "/api/user/verify-forgot-password-otp", map[string]any{"email": "ana@example.com", "otp": otp})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, f.router, http.MethodPut, "/api/user/reset-password", map[string]any{
		"email": "ana@example.com", "otp": otp, "newPassword": "nueva123", "confirmPassword": "distinta",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, f.router, http.MethodPut, "/api/user/reset-password", map[string]any{
		"email": "ana@example.com", "otp": otp, "newPassword": "nueva123", "confirmPassword": "nueva123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, w = f.login(t, "ana@example.com", "secreto1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, w = f.login(t, "ana@example.com", "nueva123")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, f.router, http.MethodPut, "/api/user/reset-password", map[string]any{
		"email": "ana@example.com", "otp": otp, "newPassword": "otra", "confirmPassword": "otra",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "an OTP works once")
}

func TestExpiredOTP(t *testing.T) {
	f := newAuthFixture()
	u := f.register(t, "ana@example.com", "secreto1")
	require.NoError(t, f.db.Users.SetPasswordResetOTP(context.Background(), u.ID, "123456", time.Now().Add(-time.Minute)))

	w := doJSON(t, f.router, http.MethodPut, "/api/user/verify-forgot-password-otp", map[string]any{"email": "ana@example.com", "otp": "123456"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "OTP expirado", decodeEnvelope(t, w).Message)
}

func TestUserDetailsAndUpdate(t *testing.T) {
	f := newAuthFixture()
	f.register(t, "ana@example.com", "secreto1")
	f.register(t, "luis@example.com", "secreto2")
	tokens, w := f.login(t, "ana@example.com", "secreto1")
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/user/update-user", strings.NewReader(`{"name":"Ana María","mobile":3009876543}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: tokens.AccessToken})
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Usuario actualizado exitosamente", decodeEnvelope(t, w).Message)

	w = withBearer(t, f.router, http.MethodGet, "/api/user/user-details", tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var u models.User
	decodeData(t, decodeEnvelope(t, w), &u)
	assert.Equal(t, "Ana María", u.Name)
	require.NotNil(t, u.Mobile)
	assert.Equal(t, int64(3009876543), *u.Mobile)

	req = httptest.NewRequest(http.MethodPut, "/api/user/update-user", strings.NewReader(`{"email":"luis@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
