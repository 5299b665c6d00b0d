package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HansOheneba/airban-api/internal/http/middleware"
	"github.com/HansOheneba/airban-api/internal/imagehost"
)

// MaxImageBytes caps a decoded upload.
const MaxImageBytes = 8 << 20

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, name string) (string, error)
}

// UploadImageRequest is the JSON form of an upload. Image may carry a
// "data:<mime>;base64," prefix.
type UploadImageRequest struct {
	Image string `json:"image" example:"iVBORw0KGgoAAAANSUhEUgAA..."`
	Name  string `json:"name"  example:"classic-oak"`
}

// UploadImageResponse carries the hosted URL.
type UploadImageResponse struct {
	URL string `json:"url" example:"https://i.ibb.co/abc/oak.jpg"`
}

// UploadImage godoc
// @ID          uploadImage
// @Summary     Upload a door image
// @Description Accepts a multipart "image" file or JSON {"image": "<base64>"} up to 8 MiB and returns the hosted URL.
// @Tags        Images
// @Accept      json,mpfd
// @Produce     json
// @Param       image  formData  file                          false  "Image file"
// @Param       body   body      handlers.UploadImageRequest   false  "Base64 image"
// @Success     201    {object}  handlers.UploadImageResponse
// @Failure     400    {object}  handlers.ErrorResponse  "Missing or invalid image"
// @Failure     502    {object}  handlers.ErrorResponse  "Upload failed"
// @Failure     503    {object}  handlers.ErrorResponse  "Image host not configured"
// @Router      /images [post]
func (h *Handlers) UploadImage(c *gin.Context) {
	if h.images == nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "image uploads are not configured")
		return
	}

	data, name, msg := readImage(c)
	if msg != "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, msg)
		return
	}

	url, err := h.images.Upload(c.Request.Context(), data, name)
	switch {
	case errors.Is(err, imagehost.ErrNotConfigured):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "image uploads are not configured")
		return
	case errors.Is(err, imagehost.ErrUploadFailed):
		middleware.LoggerFrom(c).Warn().Err(err).Msg("image upload")
		fail(c, http.StatusBadGateway, ErrCodeBadGateway, "image upload failed")
		return
	case err != nil:
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, UploadImageResponse{URL: url})
}

// readImage extracts the upload from a multipart or JSON body. A non-empty
// msg describes why the request is unusable.
func readImage(c *gin.Context) (data []byte, name, msg string) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, "", "missing image file"
		}
		if fh.Size > MaxImageBytes {
			return nil, "", "image exceeds 8 MiB"
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", "unreadable image file"
		}
		defer f.Close()
		data, err = io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
		if err != nil {
			return nil, "", "unreadable image file"
		}
		name = strings.TrimSuffix(fh.Filename, extOf(fh.Filename))
	} else {
		var req UploadImageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, "", "invalid JSON body"
		}
		raw := strings.TrimSpace(req.Image)
		if i := strings.Index(raw, ";base64,"); strings.HasPrefix(raw, "data:") && i >= 0 {
			raw = raw[i+len(";base64,"):]
		}
		if raw == "" {
			return nil, "", "image is required"
		}
		var err error
		if data, err = base64.StdEncoding.DecodeString(raw); err != nil {
			return nil, "", "image must be base64 encoded"
		}
		name = strings.TrimSpace(req.Name)
	}

	switch {
	case len(data) == 0:
		return nil, "", "image is empty"
	case len(data) > MaxImageBytes:
		return nil, "", "image exceeds 8 MiB"
	}
	return data, name, ""
}

func extOf(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		return filename[i:]
	}
	return ""
}
