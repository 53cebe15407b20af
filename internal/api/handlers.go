package api

import (
	"encoding/json"
	"errors"
	"image"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mrwolf/companion-server/internal/config"
	"github.com/mrwolf/companion-server/internal/db"
	"github.com/mrwolf/companion-server/internal/imaging"
	"github.com/mrwolf/companion-server/internal/models"
	"github.com/mrwolf/companion-server/internal/persona"
	"github.com/mrwolf/companion-server/internal/session"
)

const version = "1.0.0"

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

type Handlers struct {
	cfg     *config.Config
	db      *db.DB
	session *session.Session
	logger  *zap.Logger
}

func NewHandlers(cfg *config.Config, database *db.DB, sess *session.Session, logger *zap.Logger) *Handlers {
	return &Handlers{
		cfg:     cfg,
		db:      database,
		session: sess,
		logger:  logger,
	}
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:   "ok",
		Database: h.checkDatabase(),
		Dataset:  h.session.DatasetInfo(),
		Session:  h.session.ID(),
		Version:  version,
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, resp)
}

func (h *Handlers) checkDatabase() string {
	if h.db == nil {
		return "not configured"
	}
	if err := h.db.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return "connected"
}

// About handles GET /about
func (h *Handlers) About(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, models.AboutResponse{
		Name: "companion-server",
		Description: "Basic creation of a companion persona from manga pages. " +
			"OCR and chat responses are simplistic placeholders for research purposes.",
		Version: version,
	})
}

// GetPersona handles GET /api/v1/persona
func (h *Handlers) GetPersona(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.PersonaResponse{Persona: h.session.Persona()})
}

// UpdatePersona handles PUT /api/v1/persona
func (h *Handlers) UpdatePersona(w http.ResponseWriter, r *http.Request) {
	var req persona.Fields
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	status := h.session.UpdatePersona(req)
	writeJSON(w, models.PersonaResponse{Persona: h.session.Persona(), Status: status})
}

// ResetPersona handles POST /api/v1/persona/reset
func (h *Handlers) ResetPersona(w http.ResponseWriter, r *http.Request) {
	status := h.session.ResetPersona()
	writeJSON(w, models.PersonaResponse{Persona: h.session.Persona(), Status: status})
}

// SetAvatar handles PUT /api/v1/persona/avatar (multipart field "image")
func (h *Handlers) SetAvatar(w http.ResponseWriter, r *http.Request) {
	img, ok := h.readImage(w, r)
	if !ok {
		return
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		h.logger.Error("encoding avatar", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to encode avatar", "ENCODE_ERROR")
		return
	}

	h.session.SetAvatar(data)
	writeJSON(w, models.PersonaResponse{Persona: h.session.Persona(), Status: persona.MsgUpdated})
}

// GetAvatar handles GET /api/v1/persona/avatar
func (h *Handlers) GetAvatar(w http.ResponseWriter, r *http.Request) {
	data := h.session.Avatar()
	if len(data) == 0 {
		writeError(w, http.StatusNotFound, "no avatar set", "NOT_FOUND")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GetDataset handles GET /api/v1/dataset
func (h *Handlers) GetDataset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.datasetResponse(h.session.Dataset().Render()))
}

// AddText handles POST /api/v1/dataset/text
func (h *Handlers) AddText(w http.ResponseWriter, r *http.Request) {
	var req models.TextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	writeJSON(w, h.datasetResponse(h.session.AddText(req.Text)))
}

// AddImage handles POST /api/v1/dataset/image (multipart field "image")
func (h *Handlers) AddImage(w http.ResponseWriter, r *http.Request) {
	img, ok := h.readImage(w, r)
	if !ok {
		return
	}

	text, rendered := h.session.AddImage(r.Context(), img)
	writeJSON(w, models.OCRResponse{
		ExtractedText: text,
		Dataset:       rendered,
		Info:          h.session.DatasetInfo(),
	})
}

// SaveDataset handles POST /api/v1/dataset/save
func (h *Handlers) SaveDataset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.datasetResponse(h.session.SaveDataset()))
}

// LoadDataset handles POST /api/v1/dataset/load (multipart field "file").
// A file that cannot be read is reported in the dataset view, not as an HTTP error.
func (h *Handlers) LoadDataset(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.readUpload(w, r, "file")
	if !ok {
		writeJSON(w, h.datasetResponse(session.MsgLoadFailed))
		return
	}
	defer file.Close()

	writeJSON(w, h.datasetResponse(h.session.ImportDataset(header.Filename, file)))
}

// ClearDataset handles POST /api/v1/dataset/clear
func (h *Handlers) ClearDataset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.datasetResponse(h.session.ClearDataset()))
}

func (h *Handlers) datasetResponse(rendered string) models.DatasetResponse {
	lines := h.session.Dataset().Lines()
	return models.DatasetResponse{
		Dataset: rendered,
		Lines:   lines,
		Info:    h.session.DatasetInfo(),
	}
}

// GetChat handles GET /api/v1/chat
func (h *Handlers) GetChat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.ChatResponse{History: h.session.History()})
}

// Chat handles POST /api/v1/chat
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	writeJSON(w, models.ChatResponse{History: h.session.Chat(req.Message)})
}

// ResetChat handles DELETE /api/v1/chat
func (h *Handlers) ResetChat(w http.ResponseWriter, r *http.Request) {
	h.session.ResetChat()
	writeJSON(w, models.ChatResponse{History: h.session.History()})
}

// Upscale handles POST /api/v1/upscale (multipart field "image") and returns a PNG
func (h *Handlers) Upscale(w http.ResponseWriter, r *http.Request) {
	img, ok := h.readImage(w, r)
	if !ok {
		return
	}

	data, err := imaging.EncodePNG(imaging.Upscale(img))
	if err != nil {
		h.logger.Error("encoding upscaled image", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to encode image", "ENCODE_ERROR")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Activity handles GET /api/v1/activity
func (h *Handlers) Activity(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured", "NOT_CONFIGURED")
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			parsed, err = time.Parse("2006-01-02", sinceStr)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid since format, use RFC3339 or YYYY-MM-DD", "INVALID_DATE")
				return
			}
		}
		since = parsed
	}

	activity, err := h.db.RecentActivity(h.session.ID(), since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error", "DB_ERROR")
		return
	}
	if activity == nil {
		activity = []db.Activity{}
	}

	writeJSON(w, models.ActivityResponse{Activity: activity})
}

// readUpload returns the named multipart file, writing nothing on failure
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		h.logger.Warn("parsing upload", zap.String("field", field), zap.Error(err))
		return nil, nil, false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		h.logger.Warn("reading upload", zap.String("field", field), zap.Error(err))
		return nil, nil, false
	}
	return file, header, true
}

// readImage decodes the multipart "image" field, writing an error response on failure
func (h *Handlers) readImage(w http.ResponseWriter, r *http.Request) (image.Image, bool) {
	file, _, ok := h.readUpload(w, r, "image")
	if !ok {
		writeError(w, http.StatusBadRequest, "image upload required", "MISSING_IMAGE")
		return nil, false
	}
	defer file.Close()

	img, _, err := imaging.DecodeLimited(file, h.cfg.MaxImagePixels)
	if errors.Is(err, imaging.ErrTooLarge) {
		h.logger.Warn("rejecting upload", zap.Error(err))
		writeError(w, http.StatusBadRequest, "image dimensions too large", "IMAGE_TOO_LARGE")
		return nil, false
	}
	if err != nil {
		h.logger.Warn("decoding upload", zap.Error(err))
		writeError(w, http.StatusBadRequest, "unsupported image", "INVALID_IMAGE")
		return nil, false
	}
	return img, true
}
