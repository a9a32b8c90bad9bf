package httpserver

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wkyin9211-crypto/mediarelay/internal/app"
	"github.com/wkyin9211-crypto/mediarelay/internal/httpserver/httputil"
	"github.com/wkyin9211-crypto/mediarelay/internal/models"
	"github.com/wkyin9211-crypto/mediarelay/internal/transcript"
	"github.com/wkyin9211-crypto/mediarelay/internal/uploads"
	"github.com/wkyin9211-crypto/mediarelay/internal/webhook"
)

type relayHandler struct {
	container *app.Container

	mu       sync.Mutex
	inflight map[webhook.Operation]bool
}

func registerAPIRoutes(fiberApp *fiber.App, container *app.Container) {
	h := &relayHandler{
		container: container,
		inflight:  make(map[webhook.Operation]bool),
	}

	api := fiberApp.Group("/api")
	api.Post("/uploads/:kind", h.addUploads)
	api.Get("/uploads/:kind", h.listUploads)
	api.Delete("/uploads/:kind/:id", h.removeUpload)

	api.Get("/voices", h.voices)
	api.Post("/generate-image", h.generateImage)
	api.Post("/fix-image", h.fixImage)
	api.Post("/synthesize-audio", h.synthesizeAudio)
	api.Post("/transcribe-audio", h.transcribeAudio)
}

// acquire marks an operation in flight. The UI contract allows one
// outstanding request per operation and offers no cancellation.
func (h *relayHandler) acquire(op webhook.Operation) (func(), bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.inflight[op] {
		return nil, false
	}
	h.inflight[op] = true
	return func() {
		h.mu.Lock()
		delete(h.inflight, op)
		h.mu.Unlock()
	}, true
}

// invoke runs the gateway call with metrics and failure logging.
func (h *relayHandler) invoke(c *fiber.Ctx, op webhook.Operation, req webhook.Request) webhook.Envelope {
	start := time.Now()
	env := h.container.Gateway.Invoke(c.UserContext(), op, req)

	outcome := "ok"
	if _, mapped := h.container.Config.EndpointFor(string(op)); !mapped {
		outcome = "simulated"
	}
	if !env.Success {
		outcome = "error"
		h.container.Logger.Warn("webhook call failed",
			"operation", string(op), "error", env.Error)
	}
	h.container.Observability.RecordWebhookInvocation(string(op), outcome, time.Since(start))
	return env
}

func (h *relayHandler) addUploads(c *fiber.Ctx) error {
	kind, err := uploads.ParseKind(c.Params("kind"))
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}
	form, err := c.MultipartForm()
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "multipart form required")
	}
	fileHeaders := form.File["files[]"]
	if len(fileHeaders) == 0 {
		fileHeaders = form.File["files"]
	}
	if len(fileHeaders) == 0 {
		return httputil.WriteError(c, fiber.StatusBadRequest, "no files provided")
	}

	type rejection struct {
		Name   string `json:"name"`
		Reason string `json:"reason"`
	}
	stored := make([]models.UploadedFile, 0, len(fileHeaders))
	rejected := make([]rejection, 0)

	for _, fh := range fileHeaders {
		src, err := fh.Open()
		if err != nil {
			rejected = append(rejected, rejection{Name: fh.Filename, Reason: "failed to open file"})
			continue
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			rejected = append(rejected, rejection{Name: fh.Filename, Reason: "failed to read file"})
			continue
		}
		file, err := h.container.Uploads.Add(kind, fh.Filename, fh.Header.Get("Content-Type"), data)
		if err != nil {
			rejected = append(rejected, rejection{Name: fh.Filename, Reason: err.Error()})
			continue
		}
		stored = append(stored, file)
	}

	return httputil.WriteData(c, fiber.Map{
		"files":    stored,
		"rejected": rejected,
	})
}

func (h *relayHandler) listUploads(c *fiber.Ctx) error {
	kind, err := uploads.ParseKind(c.Params("kind"))
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}
	return httputil.WriteData(c, fiber.Map{
		"files": h.container.Uploads.List(kind),
	})
}

func (h *relayHandler) removeUpload(c *fiber.Ctx) error {
	kind, err := uploads.ParseKind(c.Params("kind"))
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.container.Uploads.Remove(kind, c.Params("id")); err != nil {
		if errors.Is(err, uploads.ErrNotFound) {
			return httputil.WriteError(c, fiber.StatusNotFound, "upload not found")
		}
		return httputil.WriteError(c, fiber.StatusInternalServerError, err.Error())
	}
	return httputil.WriteData(c, fiber.Map{"removed": c.Params("id")})
}

func (h *relayHandler) voices(c *fiber.Ctx) error {
	env := h.invoke(c, webhook.OpVoices, webhook.Request{JSON: map[string]any{}})
	if !env.Success {
		return httputil.WriteError(c, fiber.StatusBadGateway, env.Error)
	}
	return httputil.WriteData(c, env.Data)
}

type imagePayload struct {
	Prompt string `json:"prompt"`
}

func (h *relayHandler) generateImage(c *fiber.Ctx) error {
	var payload imagePayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	prompt := strings.TrimSpace(payload.Prompt)
	if prompt == "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "prompt is required")
	}
	return h.forwardImage(c, webhook.OpGenerateImage, prompt)
}

func (h *relayHandler) fixImage(c *fiber.Ctx) error {
	var payload imagePayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	if h.container.Uploads.Count(uploads.KindImage) == 0 {
		return httputil.WriteError(c, fiber.StatusBadRequest, "no images uploaded")
	}
	return h.forwardImage(c, webhook.OpFixImage, strings.TrimSpace(payload.Prompt))
}

func (h *relayHandler) forwardImage(c *fiber.Ctx, op webhook.Operation, prompt string) error {
	release, ok := h.acquire(op)
	if !ok {
		return httputil.WriteError(c, fiber.StatusConflict, "operation already in progress")
	}
	defer release()

	refs := make([]map[string]string, 0)
	for _, img := range h.container.Uploads.List(uploads.KindImage) {
		refs = append(refs, map[string]string{"id": img.ID, "name": img.Name})
	}
	env := h.invoke(c, op, webhook.Request{JSON: map[string]any{
		"prompt": prompt,
		"images": refs,
	}})
	if !env.Success {
		return httputil.WriteError(c, fiber.StatusBadGateway, env.Error)
	}
	return httputil.WriteData(c, env.Data)
}

type synthesisPayload struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId"`
}

func (h *relayHandler) synthesizeAudio(c *fiber.Ctx) error {
	var payload synthesisPayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "text is required")
	}
	voiceID := strings.TrimSpace(payload.VoiceID)
	if voiceID == "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "voiceId is required")
	}

	release, ok := h.acquire(webhook.OpSynthesizeAudio)
	if !ok {
		return httputil.WriteError(c, fiber.StatusConflict, "operation already in progress")
	}
	defer release()

	env := h.invoke(c, webhook.OpSynthesizeAudio, webhook.Request{Form: &webhook.Form{
		Fields: map[string]string{
			"text":    text,
			"voiceId": voiceID,
		},
		Files: fileParts(h.container.Uploads.List(uploads.KindAudio)),
	}})
	if !env.Success {
		return httputil.WriteError(c, fiber.StatusBadGateway, env.Error)
	}
	return httputil.WriteData(c, env.Data)
}

type transcriptionPayload struct {
	IncludeTimestamps  *bool  `json:"includeTimestamps"`
	SpeakerDiarization *bool  `json:"speakerDiarization"`
	Language           string `json:"language"`
}

func (h *relayHandler) transcribeAudio(c *fiber.Ctx) error {
	var payload transcriptionPayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	files := h.container.Uploads.List(uploads.KindTranscription)
	if len(files) == 0 {
		return httputil.WriteError(c, fiber.StatusBadRequest, "no audio files uploaded")
	}

	includeTimestamps := true
	if payload.IncludeTimestamps != nil {
		includeTimestamps = *payload.IncludeTimestamps
	}
	speakerDiarization := false
	if payload.SpeakerDiarization != nil {
		speakerDiarization = *payload.SpeakerDiarization
	}
	language := strings.TrimSpace(payload.Language)
	if language == "" {
		language = "auto"
	}

	release, ok := h.acquire(webhook.OpTranscribeAudio)
	if !ok {
		return httputil.WriteError(c, fiber.StatusConflict, "operation already in progress")
	}
	defer release()

	env := h.invoke(c, webhook.OpTranscribeAudio, webhook.Request{Form: &webhook.Form{
		Fields: map[string]string{
			"includeTimestamps":  boolField(includeTimestamps),
			"speakerDiarization": boolField(speakerDiarization),
			"language":           language,
		},
		Files: fileParts(files),
	}})
	if !env.Success {
		return httputil.WriteError(c, fiber.StatusBadGateway, env.Error)
	}

	records := transcript.Normalize(env.Data)
	if len(records) == 0 {
		// An empty batch is a valid answer, not an error.
		return httputil.WriteData(c, fiber.Map{
			"transcriptions": []models.TranscriptionRecord{},
			"message":        "no transcription data received",
		})
	}
	return httputil.WriteData(c, fiber.Map{
		"transcriptions": records,
	})
}

func fileParts(files []models.UploadedFile) []webhook.FilePart {
	parts := make([]webhook.FilePart, 0, len(files))
	for _, f := range files {
		parts = append(parts, webhook.FilePart{
			Field:       "files[]",
			Name:        f.Name,
			ContentType: f.ContentType,
			Data:        f.Data,
		})
	}
	return parts
}

func boolField(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
