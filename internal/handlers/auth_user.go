package handlers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"petstore/internal/middleware"
	"petstore/internal/models"
	"petstore/internal/token"
)

const passwordResetTTL = time.Hour

type TokenIssuer interface {
	IssueAccess(userID primitive.ObjectID) (string, error)
	IssueRefresh(userID primitive.ObjectID) (string, error)
	ParseRefresh(raw string) (primitive.ObjectID, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, name, link string) error
	SendPasswordResetOTP(ctx context.Context, email, name, otp string) error
}

// CookieOptions controls the auth cookies set on login and refresh.
type CookieOptions struct {
	Secure bool
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Code string `json:"code"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

/* ===== REGISTER ===== */

func Register(users UserStore, notifier Notifier, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/register"
		defer handlePanic(c, route)

		var req registerRequest
		_ = c.ShouldBindJSON(&req)

		name := strings.TrimSpace(req.Name)
		email := normalizeEmail(req.Email)
		if name == "" || email == "" || req.Password == "" {
			respondWithError(c, http.StatusBadRequest, route, "Ingrese el correo, nombre de usuario y contraseña")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if _, err := users.FindByEmail(ctx, email); err == nil {
			respondWithError(c, http.StatusBadRequest, route, "Error, el correo ya existe")
			return
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			respondInternal(c, route, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		user := &models.User{
			Name:     name,
			Email:    email,
			Password: string(hash),
			Status:   models.UserStatusActive,
			Role:     models.RoleUser,
		}
		if err := users.Create(ctx, user); err != nil {
			respondInternal(c, route, err)
			return
		}

		link := fmt.Sprintf("%s/verify-email?code=%s", frontendURL, user.ID.Hex())
		if err := notifier.SendVerificationEmail(ctx, user.Email, user.Name, link); err != nil {
			log.Warn().Err(err).Str("route", route).Msg("verification email not sent")
		}

		log.Info().Str("route", route).Str("userId", user.ID.Hex()).Msg("user registered")
		respondOK(c, "Usuario registrado con exito", user)
	}
}

func VerifyEmail(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/verify-email"
		defer handlePanic(c, route)

		var req verifyEmailRequest
		_ = c.ShouldBindJSON(&req)

		userID, ok := parseObjectID(req.Code)
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "Codigo invalido")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		found, err := users.MarkEmailVerified(ctx, userID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		if !found {
			respondWithError(c, http.StatusBadRequest, route, "Codigo invalido")
			return
		}

		respondOK(c, "Se ha verificado el correo", nil)
	}
}

/* ===== SESSION ===== */

func Login(users UserStore, tokens TokenIssuer, cookies CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/login"
		defer handlePanic(c, route)

		var req loginRequest
		_ = c.ShouldBindJSON(&req)

		email := normalizeEmail(req.Email)
		if email == "" || req.Password == "" {
			respondWithError(c, http.StatusBadRequest, route, "Ingrese el email o contraseña")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		user, err := users.FindByEmail(ctx, email)
		if errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(c, http.StatusBadRequest, route, "Usuario no esta registrado")
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		if user.Status != models.UserStatusActive {
			respondWithError(c, http.StatusBadRequest, route, "Contacte al administrador")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "Verifica tu contraseña")
			return
		}

		accessToken, err := tokens.IssueAccess(user.ID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		refreshToken, err := tokens.IssueRefresh(user.ID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		if err := users.RecordLogin(ctx, user.ID, token.Hash(refreshToken), time.Now()); err != nil {
			respondInternal(c, route, err)
			return
		}

		setAuthCookie(c, cookies, middleware.AccessTokenCookie, accessToken, tokens.AccessTTL())
		setAuthCookie(c, cookies, middleware.RefreshTokenCookie, refreshToken, tokens.RefreshTTL())

		log.Info().Str("route", route).Str("userId", user.ID.Hex()).Msg("login succeeded")
		respondOK(c, "Inicio de sesión Exitoso", gin.H{
			"accesstoken":  accessToken,
			"refreshToken": refreshToken,
		})
	}
}

func Logout(users UserStore, cookies CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/logout"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		clearAuthCookie(c, cookies, middleware.AccessTokenCookie)
		clearAuthCookie(c, cookies, middleware.RefreshTokenCookie)

		ctx, cancel := storeContext(c)
		defer cancel()

		if err := users.SetRefreshToken(ctx, userID, ""); err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Cierre de sesión exitoso", nil)
	}
}

// RefreshToken trades a refresh token (cookie or bearer) for a new access
// token. The token must be the one issued at the user's last login.
func RefreshToken(users UserStore, tokens TokenIssuer, cookies CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/refresh-token"
		defer handlePanic(c, route)

		raw, _ := c.Cookie(middleware.RefreshTokenCookie)
		if strings.TrimSpace(raw) == "" {
			raw = middleware.BearerToken(c.GetHeader("Authorization"))
		}
		if strings.TrimSpace(raw) == "" {
			respondWithError(c, http.StatusUnauthorized, route, "Token invalido")
			return
		}

		userID, err := tokens.ParseRefresh(raw)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "Token expirado")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(c, http.StatusUnauthorized, route, "Token invalido")
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		if user.RefreshToken == "" || user.RefreshToken != token.Hash(raw) {
			respondWithError(c, http.StatusUnauthorized, route, "Token invalido")
			return
		}

		accessToken, err := tokens.IssueAccess(user.ID)
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		setAuthCookie(c, cookies, middleware.AccessTokenCookie, accessToken, tokens.AccessTTL())

		respondOK(c, "Nuevo token de acceso generado", gin.H{"accessToken": accessToken})
	}
}

/* ===== PASSWORD RESET ===== */

func ForgotPassword(users UserStore, notifier Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/user/forgot-password"
		defer handlePanic(c, route)

		var req forgotPasswordRequest
		_ = c.ShouldBindJSON(&req)

		ctx, cancel := storeContext(c)
		defer cancel()

		user, ok := lookupUserByEmail(c, ctx, users, route, req.Email, "Correo electronico no esta disponible")
		if !ok {
			return
		}

		otp, err := generateOTP()
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		if err := users.SetPasswordResetOTP(ctx, user.ID, otp, time.Now().Add(passwordResetTTL)); err != nil {
			respondInternal(c, route, err)
			return
		}
		if err := notifier.SendPasswordResetOTP(ctx, user.Email, user.Name, otp); err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Verifica tu email", nil)
	}
}

func VerifyForgotPasswordOTP(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/user/verify-forgot-password-otp"
		defer handlePanic(c, route)

		var req verifyOTPRequest
		_ = c.ShouldBindJSON(&req)

		if normalizeEmail(req.Email) == "" || strings.TrimSpace(req.OTP) == "" {
			respondWithError(c, http.StatusBadRequest, route, "Proporcione el correo electrónico en el campo obligatorio.")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		user, ok := lookupUserByEmail(c, ctx, users, route, req.Email, "Correo electronico no esta disponible")
		if !ok {
			return
		}
		if msg := checkOTP(user, req.OTP, time.Now()); msg != "" {
			respondWithError(c, http.StatusBadRequest, route, msg)
			return
		}

		respondOK(c, "Verificacion de OTP Exitosa", nil)
	}
}

// ResetPassword needs the OTP issued by forgot-password along with the email
// and both passwords. A missing or expired OTP is a 400.
func ResetPassword(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/user/reset-password"
		defer handlePanic(c, route)

		var req resetPasswordRequest
		_ = c.ShouldBindJSON(&req)

		if normalizeEmail(req.Email) == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
			respondWithError(c, http.StatusBadRequest, route, "Ingrese los campos requeridos correo, contraseña y confiracion de contraseña")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		user, ok := lookupUserByEmail(c, ctx, users, route, req.Email, "El correo no esta disponible.")
		if !ok {
			return
		}
		if req.NewPassword != req.ConfirmPassword {
			respondWithError(c, http.StatusBadRequest, route, "La nueva contraseña y la confirmacion de contraseña deben coincidir.")
			return
		}
		if msg := checkOTP(user, req.OTP, time.Now()); msg != "" {
			respondWithError(c, http.StatusBadRequest, route, msg)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		if err := users.ResetPassword(ctx, user.ID, string(hash)); err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Contraseña actualizada exitosamente", nil)
	}
}

/* ===== HELPERS ===== */

func lookupUserByEmail(c *gin.Context, ctx context.Context, users UserStore, route, email, missingMessage string) (*models.User, bool) {
	user, err := users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, mongo.ErrNoDocuments) {
		respondWithError(c, http.StatusBadRequest, route, missingMessage)
		return nil, false
	}
	if err != nil {
		respondInternal(c, route, err)
		return nil, false
	}
	return user, true
}

// checkOTP returns an empty string when otp is the user's live reset code.
func checkOTP(user *models.User, otp string, now time.Time) string {
	if user.ForgotPasswordExpiry == nil || now.After(*user.ForgotPasswordExpiry) {
		return "OTP expirado"
	}
	if user.ForgotPasswordOTP == "" || strings.TrimSpace(otp) != user.ForgotPasswordOTP {
		return "OTP Invalido"
	}
	return ""
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func setAuthCookie(c *gin.Context, opts CookieOptions, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", opts.Secure, true)
}

func clearAuthCookie(c *gin.Context, opts CookieOptions, name string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(name, "", -1, "/", "", opts.Secure, true)
}
