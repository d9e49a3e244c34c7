package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxImageSize = 5 << 20

var errInvalidImage = errors.New("invalid image")

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// UploadStorage keeps catalog images on local disk and serves them under
// <publicBaseURL>/uploads/.
type UploadStorage struct {
	dir           string
	publicBaseURL string
}

func NewUploadStorage(dir, publicBaseURL string) *UploadStorage {
	return &UploadStorage{
		dir:           filepath.Clean(dir),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *UploadStorage) Dir() string {
	return s.dir
}

// Save validates and stores an image, returning its public URL.
func (s *UploadStorage) Save(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("%w: file extension is required", errInvalidImage)
	}
	if _, ok := allowedImageExtensions[extension]; !ok {
		return "", fmt.Errorf("%w: unsupported type %s", errInvalidImage, extension)
	}
	if file.Size > maxImageSize {
		return "", fmt.Errorf("%w: file too large (max 5MB)", errInvalidImage)
	}

	filename := primitive.NewObjectID().Hex() + extension
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", s.dir).Msg("upload: failed to create directory")
		return "", err
	}

	fullPath := filepath.Join(s.dir, filename)
	out, err := os.Create(fullPath)
	if err != nil {
		log.Error().Err(err).Str("path", fullPath).Msg("upload: failed to create file")
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Error().Err(err).Str("path", fullPath).Msg("upload: failed to write file")
		return "", err
	}

	log.Debug().Str("path", fullPath).Msg("upload: image saved")
	return s.publicBaseURL + "/uploads/" + filename, nil
}

// Delete removes a previously saved image. URLs that do not point into the
// upload directory (CDN images, for instance) are ignored.
func (s *UploadStorage) Delete(url string) error {
	trimmed := strings.TrimSpace(url)
	prefix := s.publicBaseURL + "/uploads/"
	if trimmed == "" || !strings.HasPrefix(trimmed, prefix) {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, prefix))
	cleanRel = strings.TrimPrefix(cleanRel, "/")
	if cleanRel == "" || cleanRel == "." {
		return fmt.Errorf("refusing to delete upload root: %s", url)
	}

	target := filepath.Clean(filepath.Join(s.dir, filepath.FromSlash(cleanRel)))
	if !strings.HasPrefix(target, s.dir+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload dir: %s", url)
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
