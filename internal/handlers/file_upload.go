package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadImage accepts a multipart "image" file and returns its public URL.
func UploadImage(storage *UploadStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/file/upload"
		defer handlePanic(c, route)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize+(1<<20))

		file, err := c.FormFile("image")
		if errors.Is(err, http.ErrMissingFile) {
			respondWithError(c, http.StatusBadRequest, route, "Proporcione una imagen")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		url, err := storage.Save(file)
		if errors.Is(err, errInvalidImage) {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		respondOK(c, "Imagen cargada exitosamente", gin.H{"url": url})
	}
}
