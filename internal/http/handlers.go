package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"voice2crm-service/internal/events"
	"voice2crm-service/internal/models"
	"voice2crm-service/internal/observability/logging"
	"voice2crm-service/internal/observability/metrics"
	"voice2crm-service/internal/service/crm"
	"voice2crm-service/internal/service/normalize"
	"voice2crm-service/internal/service/stt"
)

// LeadExtractor turns a transcript into a structured lead.
type LeadExtractor interface {
	Extract(ctx context.Context, transcript string) (models.Lead, error)
}

// CrmClient is the submission and OAuth surface the handlers need.
type CrmClient interface {
	BeginAuth() string
	CompleteAuth(ctx context.Context, code, state string) (string, error)
	Submit(ctx context.Context, clientID string, contacts []map[string]string) ([]models.SubmissionResult, error)
	SubmitWithKey(ctx context.Context, contacts []map[string]string) ([]models.SubmissionResult, error)
	HasStaticKey() bool
}

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	Transcriber     stt.Transcriber
	Extractor       LeadExtractor
	Crm             CrmClient
	Publisher       *events.Publisher
	FrontendURL     string
	MaxUploadBytes  int64
	DefaultLanguage string
	Metrics         *metrics.Metrics
}

func (h *Handlers) metricsOrDefault() *metrics.Metrics {
	if h.Metrics != nil {
		return h.Metrics
	}
	return metrics.DefaultMetrics
}

// Root is the liveness probe.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Voice2CRM API is running",
		"status":  "ok",
	})
}

// Transcribe accepts a multipart audio upload, transcribes it and extracts
// a structured lead from the transcript.
func (h *Handlers) Transcribe(w http.ResponseWriter, r *http.Request) {
	m := h.metricsOrDefault()

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing audio file upload")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading audio upload: "+err.Error())
		return
	}
	m.RecordAudioReceived(len(audio))

	language := r.FormValue("language")
	if language == "" {
		language = h.DefaultLanguage
	}

	start := time.Now()
	transcript, err := h.Transcriber.Transcribe(r.Context(), audio, language)
	m.RecordTranscription(h.Transcriber.Name(), err, time.Since(start).Seconds())
	if err != nil {
		lg := logging.WithRequest(middleware.GetReqID(r.Context()))
		lg.Error().Err(err).Msg("Transcription failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	lead, err := h.Extractor.Extract(r.Context(), transcript)
	if err != nil {
		lg := logging.WithRequest(middleware.GetReqID(r.Context()))
		lg.Error().Err(err).Msg("Extraction failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	requestID := middleware.GetReqID(r.Context())
	if h.Publisher != nil {
		_ = h.Publisher.PublishExtracted(r.Context(), requestID, models.LeadExtracted{
			EventType:  "lead.extracted",
			RequestID:  requestID,
			Transcript: transcript,
			Lead:       lead,
			Timestamp:  time.Now().UnixMilli(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transcription":   transcript,
		"structured_data": lead,
	})
}

// submitRequest accepts both body shapes: a leads array or a single lead.
type submitRequest struct {
	Leads []models.Lead `json:"leads"`
}

// Submit normalizes the posted leads and creates one HubSpot contact per
// lead. Leads that fail normalization get an error result without aborting
// the rest of the batch.
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	leads, ok := decodeLeads(w, r)
	if !ok {
		return
	}

	clientID := chi.URLParam(r, "clientID")
	if clientID == "" && !h.Crm.HasStaticKey() {
		writeError(w, http.StatusUnauthorized, "no client id and no static API key configured")
		return
	}

	// Normalize each lead independently; only the valid ones go to the CRM.
	results := make([]models.SubmissionResult, len(leads))
	contacts := make([]map[string]string, 0, len(leads))
	contactIdx := make([]int, 0, len(leads))
	for i, lead := range leads {
		props, err := normalize.Normalize(lead)
		if err != nil {
			results[i] = models.SubmissionResult{
				Contact: leadProperties(lead),
				Status:  models.StatusError,
				Detail:  err.Error(),
			}
			continue
		}
		contacts = append(contacts, props)
		contactIdx = append(contactIdx, i)
	}

	var (
		submitted []models.SubmissionResult
		err       error
	)
	if clientID != "" {
		submitted, err = h.Crm.Submit(r.Context(), clientID, contacts)
	} else {
		submitted, err = h.Crm.SubmitWithKey(r.Context(), contacts)
	}
	if errors.Is(err, crm.ErrUnknownClient) {
		writeError(w, http.StatusNotFound, "unknown client")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for i, res := range submitted {
		results[contactIdx[i]] = res
	}

	succeeded, failed := 0, 0
	for _, res := range results {
		if res.Status == models.StatusSuccess {
			succeeded++
		} else {
			failed++
		}
	}

	if h.Publisher != nil {
		_ = h.Publisher.PublishSubmitted(r.Context(), clientID, models.LeadSubmitted{
			EventType: "lead.submitted",
			ClientID:  clientID,
			Results:   results,
			Succeeded: succeeded,
			Failed:    failed,
			Timestamp: time.Now().UnixMilli(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// AuthBegin redirects the caller to the HubSpot authorize URL.
func (h *Handlers) AuthBegin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.Crm.BeginAuth(), http.StatusFound)
}

// AuthCallback exchanges the authorization code for tokens and hands back
// the minted client id, either via a frontend redirect or as JSON.
func (h *Handlers) AuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code")
		return
	}
	state := r.URL.Query().Get("state")

	clientID, err := h.Crm.CompleteAuth(r.Context(), code, state)
	if errors.Is(err, crm.ErrInvalidState) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var xerr *crm.TokenExchangeError
	if errors.As(err, &xerr) {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.FrontendURL != "" {
		u, perr := url.Parse(h.FrontendURL)
		if perr == nil {
			q := u.Query()
			q.Set("client_id", clientID)
			u.RawQuery = q.Encode()
			http.Redirect(w, r, u.String(), http.StatusFound)
			return
		}
		lg := logging.WithComponent("handlers")
		lg.Error().Err(perr).Msg("Invalid frontend URL, falling back to JSON")
	}

	writeJSON(w, http.StatusOK, map[string]string{"client_id": clientID})
}

// decodeLeads parses the request body, accepting {"leads":[...]} or a bare
// lead object. It writes the error response itself when parsing fails.
func decodeLeads(w http.ResponseWriter, r *http.Request) ([]models.Lead, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body: "+err.Error())
		return nil, false
	}

	var req submitRequest
	if err := json.Unmarshal(body, &req); err == nil && req.Leads != nil {
		if len(req.Leads) == 0 {
			writeError(w, http.StatusBadRequest, "empty leads array")
			return nil, false
		}
		return req.Leads, true
	}

	var single models.Lead
	if err := json.Unmarshal(body, &single); err == nil {
		return []models.Lead{single}, true
	}

	writeError(w, http.StatusBadRequest, "invalid request body")
	return nil, false
}

// leadProperties mirrors the normalizer's field mapping for reporting leads
// that never made it through normalization.
func leadProperties(lead models.Lead) map[string]string {
	props := map[string]string{}
	set := func(k, v string) {
		if v != "" {
			props[k] = v
		}
	}
	set("firstname", lead.FirstName)
	set("lastname", lead.LastName)
	set("jobtitle", lead.JobTitle)
	set("company", lead.Company)
	set("email", lead.Email)
	set("phone", lead.Phone)
	return props
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
