package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/driverelay/service/internal/relay"
	"github.com/driverelay/service/internal/response"
	"github.com/driverelay/service/internal/storage"
)

// FieldName is the multipart field that carries the file.
const FieldName = "file"

// ErrNoFile is returned when the request carries no file in FieldName.
var ErrNoFile = errors.New("no file was uploaded")

// ErrNoDestination is returned when the destination container is not configured.
var ErrNoDestination = errors.New("destination folder is not configured on the server")

var errInvalidBody = errors.New("invalid multipart body")

// Options configures a Handler.
type Options struct {
	// TempDir is where uploads are staged.
	TempDir string
	// MaxUploadBytes caps the request body.
	MaxUploadBytes int64
	// Destination is consulted on every request.
	Destination func() string
}

// Handler holds HTTP handlers for the upload endpoint.
type Handler struct {
	state  Readiness
	opts   Options
	logger *zap.Logger
}

// NewHandler creates a new upload Handler.
func NewHandler(state Readiness, opts Options, logger *zap.Logger) *Handler {
	return &Handler{state: state, opts: opts, logger: logger}
}

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	Message string `json:"message" example:"upload succeeded"`
	FileID  string `json:"fileId"  example:"1A2b3C4d5E6f7G8h9I0j"`
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Stages one multipart file, relays it to the configured storage provider and returns the provider's file ID. The local copy is always removed before the response is written.
//	@Tags			upload
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"File to upload"
//	@Success		200		{object}	UploadResponse
//	@Failure		400		{object}	response.Envelope
//	@Failure		413		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/api/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := h.state.Err(); err != nil {
		h.logger.Warn("upload refused: server is degraded", zap.Error(err))
		response.InternalError(w, "server configuration error: "+err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	staged, err := h.stageFile(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			response.TooLarge(w, fmt.Sprintf("file exceeds the %d byte limit", tooLarge.Limit))
		case errors.Is(err, ErrNoFile):
			response.BadRequest(w, ErrNoFile.Error())
		case errors.Is(err, errInvalidBody), errors.Is(err, io.ErrUnexpectedEOF):
			response.BadRequest(w, errInvalidBody.Error())
		default:
			h.logger.Error("staging upload failed", zap.Error(err))
			response.InternalError(w, "could not receive the uploaded file")
		}
		return
	}

	res, err := h.send(r.Context(), staged)
	if errors.Is(err, ErrNoDestination) {
		h.logger.Error("upload refused", zap.Error(err))
		response.InternalError(w, err.Error())
		return
	}
	if err != nil {
		response.InternalError(w, "failed to upload the file to the storage provider")
		return
	}

	response.JSON(w, http.StatusOK, UploadResponse{
		Message: "upload succeeded",
		FileID:  res.ID,
	})
}

// Ready godoc
//
//	@Summary		Readiness probe
//	@Description	Reports whether the storage credential was loaded at startup.
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	response.Envelope
//	@Failure		503	{object}	response.Envelope
//	@Router			/ready [get]
func (h *Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if err := h.state.Err(); err != nil {
		response.ServiceUnavailable(w, err.Error())
		return
	}
	response.OK(w, map[string]string{"status": "ready"})
}

// send relays staged to the current destination. The staged file is gone by
// the time send returns, on every path.
func (h *Handler) send(ctx context.Context, staged *relay.StagedFile) (*storage.Result, error) {
	defer func() {
		if err := staged.Remove(); err != nil {
			h.logger.Warn("staged file cleanup failed", zap.String("path", staged.Path), zap.Error(err))
		}
	}()

	container := h.opts.Destination()
	if container == "" {
		return nil, ErrNoDestination
	}
	return h.state.relayer.Send(ctx, staged, container)
}

// stageFile writes the first file found in FieldName to TempDir. Any other
// parts, including further files, are skipped.
func (h *Handler) stageFile(r *http.Request) (*relay.StagedFile, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFile, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoFile
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errInvalidBody, err)
		}
		if part.FormName() != FieldName || part.FileName() == "" {
			part.Close()
			continue
		}

		contentType := part.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		staged, err := relay.Stage(h.opts.TempDir, part.FileName(), contentType, part)
		part.Close()
		return staged, err
	}
}
