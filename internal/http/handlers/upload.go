package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/careercoach-backend/internal/platform/apierr"
	"github.com/yungbote/careercoach-backend/internal/services"
)

// readUpload reads one multipart file, refusing anything over maxBytes.
func readUpload(fh *multipart.FileHeader, maxBytes int64) (services.Upload, error) {
	if fh.Size > maxBytes {
		return services.Upload{}, tooLarge(fh.Filename, maxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, apierr.BadRequest(fmt.Errorf("open %s: %w", fh.Filename, err))
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return services.Upload{}, apierr.BadRequest(fmt.Errorf("read %s: %w", fh.Filename, err))
	}
	if int64(len(data)) > maxBytes {
		return services.Upload{}, tooLarge(fh.Filename, maxBytes)
	}
	return services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func tooLarge(name string, maxBytes int64) error {
	return apierr.New(http.StatusRequestEntityTooLarge, "file_too_large",
		fmt.Errorf("%s is larger than %d MB", name, maxBytes>>20))
}

// parseMultipart bounds the whole request body before parsing the form.
func parseMultipart(c *gin.Context, maxBytes int64) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return apierr.New(http.StatusRequestEntityTooLarge, "file_too_large", err)
		}
		return apierr.New(http.StatusBadRequest, "invalid_multipart_form", err)
	}
	return nil
}
