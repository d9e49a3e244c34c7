package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"petstore/internal/models"
)

type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   *int64 `json:"mobile"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

func UserDetails(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/user-details"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		user, err := users.FindByID(ctx, userID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(c, http.StatusNotFound, route, "Usuario no encontrado")
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Detalles del usuario", user)
	}
}

func UpdateUser(users UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/user/update-user"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "No has iniciado sesión")
			return
		}

		var req updateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, "Datos de usuario invalidos", err)
			return
		}

		update := models.UserProfileUpdate{
			Name:   strings.TrimSpace(req.Name),
			Email:  normalizeEmail(req.Email),
			Mobile: req.Mobile,
			Avatar: strings.TrimSpace(req.Avatar),
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				respondInternal(c, route, err)
				return
			}
			update.Password = string(hash)
		}

		ctx, cancel := storeContext(c)
		defer cancel()

		if update.Email != "" {
			existing, err := users.FindByEmail(ctx, update.Email)
			if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
				respondInternal(c, route, err)
				return
			}
			if existing != nil && existing.ID != userID {
				respondWithError(c, http.StatusBadRequest, route, "Error, el correo ya existe")
				return
			}
		}

		res, err := users.UpdateProfile(ctx, userID, update)
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Usuario actualizado exitosamente", res)
	}
}
