package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const storeTimeout = 5 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Error().Str("route", route).Interface("panic", r).Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": "internal server error",
			"error":   true,
			"success": false,
		})
	}
}

func storeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"error":   false,
		"success": true,
		"data":    data,
	})
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Warn().Str("route", route).Int("status", status).Msg(message)
	c.AbortWithStatusJSON(status, gin.H{
		"message": message,
		"error":   true,
		"success": false,
	})
}

// respondInternal passes the underlying error text through to the caller.
func respondInternal(c *gin.Context, route string, err error) {
	log.Error().Err(err).Str("route", route).Msg("request failed")
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"message": err.Error(),
		"error":   true,
		"success": false,
	})
}

func respondValidationError(c *gin.Context, route string, message string, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		log.Warn().Str("route", route).Strs("details", details).Msg(message)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"message": message,
			"error":   true,
			"success": false,
			"details": details,
		})
		return
	}
	respondWithError(c, http.StatusBadRequest, route, message)
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// currentUserID reads the id the auth middleware stored on the context.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get("userId")
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

// parseObjectID returns false for empty or malformed ids.
func parseObjectID(value string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(value))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseObjectIDs(values []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		id, ok := parseObjectID(v)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
