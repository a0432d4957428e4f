package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/oarkflow/json"
	"go.uber.org/zap"

	"github.com/oarkflow/textrank/loader"
	"github.com/oarkflow/textrank/nlp/keyword"
	"github.com/oarkflow/textrank/nlp/pipeline"
	"github.com/oarkflow/textrank/nlp/summarization"
	"github.com/oarkflow/textrank/server/pkg/metrics"
	"github.com/oarkflow/textrank/store"
	"github.com/oarkflow/textrank/translate"
)

// Store persists summaries; *store.Store satisfies it.
type Store interface {
	Save(ctx context.Context, rec store.Record) (string, error)
	Get(ctx context.Context, id string) (store.Record, error)
}

type Options struct {
	// MinInputLength is the number of characters the trimmed text must exceed.
	MinInputLength int
	TopN           int
	Phrases        bool
}

type Handler struct {
	analyzer   *pipeline.Analyzer
	loader     *loader.Loader
	translator translate.Translator
	store      Store
	metrics    *metrics.Metrics
	log        *zap.Logger
	opts       Options

	text    *Validator
	url     *Validator
	options *Validator
}

// Deps are the collaborators of the handlers. Translator and Store may be nil, which
// disables translation and persistence.
type Deps struct {
	Analyzer   *pipeline.Analyzer
	Loader     *loader.Loader
	Translator translate.Translator
	Store      Store
	Metrics    *metrics.Metrics
	Log        *zap.Logger
}

func New(deps Deps, opts Options) *Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Loader == nil {
		deps.Loader = loader.New(loader.DefaultConfig(), deps.Log)
	}
	if deps.Analyzer == nil {
		deps.Analyzer = pipeline.New(summarization.New(summarization.DefaultConfig(), deps.Log))
	}
	if opts.TopN < 1 {
		opts.TopN = keyword.DefaultTopN
	}
	return &Handler{
		analyzer:   deps.Analyzer,
		loader:     deps.Loader,
		translator: deps.Translator,
		store:      deps.Store,
		metrics:    deps.Metrics,
		log:        deps.Log,
		opts:       opts,
		text:       mustValidator(textSchema),
		url:        mustValidator(urlSchema),
		options:    mustValidator(optionsSchema),
	}
}

type SummarizeRequest struct {
	Text         string `json:"text,omitempty"`
	URL          string `json:"url,omitempty"`
	NumSentences int    `json:"num_sentences,omitempty"`
	TopN         int    `json:"top_n,omitempty"`
	Keywords     *bool  `json:"keywords,omitempty"`
	Phrases      *bool  `json:"phrases,omitempty"`
	Language     string `json:"language,omitempty"`
}

type SummaryResponse struct {
	ID               string               `json:"id,omitempty"`
	Summary          string               `json:"summary"`
	Method           summarization.Method `json:"method"`
	Reason           string               `json:"reason,omitempty"`
	TotalSentences   int                  `json:"total_sentences"`
	Keywords         []keyword.Keyword    `json:"keywords,omitempty"`
	Phrases          []keyword.Phrase     `json:"phrases,omitempty"`
	Language         string               `json:"language,omitempty"`
	Translation      string               `json:"translation,omitempty"`
	TranslationError string               `json:"translation_error,omitempty"`
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Summarize handles POST /api/v1/summarize with a JSON body carrying the text.
func (h *Handler) Summarize(c *fiber.Ctx) error {
	req, err := h.decode(c, h.text)
	if err != nil {
		return err
	}
	return h.respond(c, "text", req.Text, req)
}

// SummarizeURL fetches the page named in the JSON body and summarizes its text.
func (h *Handler) SummarizeURL(c *fiber.Ctx) error {
	req, err := h.decode(c, h.url)
	if err != nil {
		return err
	}
	text, err := h.loader.Fetch(c.UserContext(), req.URL)
	if err != nil {
		return h.fail(c, statusOf(err), err.Error())
	}
	return h.respond(c, "url", text, req)
}

// SummarizeFile reads the multipart field "file" (txt, pdf, docx or html). Options are
// passed as plain form fields.
func (h *Handler) SummarizeFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "multipart field \"file\" is required")
	}
	raw := formOptions(c)
	if msgs := h.options.Validate(raw); msgs != nil {
		return h.fail(c, fiber.StatusBadRequest, "invalid request", msgs...)
	}
	var req SummarizeRequest
	if err := remarshal(raw, &req); err != nil {
		return h.fail(c, fiber.StatusBadRequest, "invalid request", err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "cannot read upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "cannot read upload")
	}
	text, err := h.loader.Load(c.UserContext(), loader.Source{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		return h.fail(c, statusOf(err), err.Error())
	}
	return h.respond(c, "file", text, req)
}

// GetSummary returns a stored summary record.
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	rec, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

// Download serves a stored summary as summary.txt.
func (h *Handler) Download(c *fiber.Ctx) error {
	rec, err := h.lookup(c)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="summary.txt"`)
	c.Type("txt", "utf-8")
	return c.SendString(rec.Summary)
}

func (h *Handler) lookup(c *fiber.Ctx) (store.Record, error) {
	if h.store == nil {
		return store.Record{}, h.fail(c, fiber.StatusNotFound, "summaries are not stored")
	}
	rec, err := h.store.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return store.Record{}, h.fail(c, statusOf(err), err.Error())
	}
	return rec, nil
}

func (h *Handler) decode(c *fiber.Ctx, v *Validator) (SummarizeRequest, error) {
	var req SummarizeRequest
	var raw map[string]any
	if err := json.Unmarshal(c.Body(), &raw); err != nil || raw == nil {
		return req, h.fail(c, fiber.StatusBadRequest, "invalid JSON")
	}
	if msgs := v.Validate(raw); msgs != nil {
		return req, h.fail(c, fiber.StatusBadRequest, "invalid request", msgs...)
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return req, h.fail(c, fiber.StatusBadRequest, "invalid request", err.Error())
	}
	return req, nil
}

func (h *Handler) respond(c *fiber.Ctx, source, text string, req SummarizeRequest) error {
	log := h.requestLog(c)
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= h.opts.MinInputLength {
		return h.fail(c, fiber.StatusUnprocessableEntity,
			fmt.Sprintf("insufficient content: provide more than %d characters", h.opts.MinInputLength))
	}

	phrases := 0
	if (req.Phrases == nil && h.opts.Phrases) || (req.Phrases != nil && *req.Phrases) {
		phrases = h.topN(req)
	}
	start := time.Now()
	analysis, err := h.analyzer.Analyze(c.UserContext(), text, pipeline.Options{
		Sentences: req.NumSentences,
		Keywords:  h.topN(req),
		Phrases:   phrases,
	})
	if err != nil {
		return h.fail(c, fiber.StatusServiceUnavailable, err.Error())
	}
	sum := analysis.Summary
	h.metrics.ObserveSummary(string(sum.Method), source, sum.Total, time.Since(start))
	if sum.Degraded() {
		log.Warn("summary degraded", zap.String("method", string(sum.Method)), zap.String("reason", sum.Reason))
	}

	resp := SummaryResponse{
		Summary:        sum.Summary,
		Method:         sum.Method,
		Reason:         sum.Reason,
		TotalSentences: sum.Total,
		Phrases:        analysis.Phrases,
	}
	if req.Keywords == nil || *req.Keywords {
		resp.Keywords = analysis.Keywords
	}
	if req.Language != "" {
		resp.Language = req.Language
		h.translate(c.UserContext(), &resp)
	}
	if h.store != nil {
		id, err := h.store.Save(c.UserContext(), store.Record{
			Summary:     resp.Summary,
			Method:      string(resp.Method),
			Keywords:    tokens(analysis.Keywords),
			Language:    resp.Language,
			Translation: resp.Translation,
		})
		if err != nil {
			log.Error("failed to store summary", zap.Error(err))
		} else {
			resp.ID = id
		}
	}
	log.Info("summary created",
		zap.String("source", source),
		zap.String("method", string(sum.Method)),
		zap.Int("sentences", sum.Total),
		zap.Duration("took", time.Since(start)),
	)
	return c.Status(fiber.StatusOK).JSON(resp)
}

// translate fills the translation or the translation error; it never fails the request.
func (h *Handler) translate(ctx context.Context, resp *SummaryResponse) {
	if h.translator == nil {
		resp.TranslationError = translate.ErrDisabled.Error()
		return
	}
	out, err := h.translator.Translate(ctx, resp.Summary, resp.Language)
	h.metrics.ObserveTranslation(err)
	if err != nil {
		resp.TranslationError = err.Error()
		return
	}
	resp.Translation = out
}

func tokens(kws []keyword.Keyword) []string {
	out := make([]string, len(kws))
	for i, k := range kws {
		out[i] = k.Token
	}
	return out
}

func (h *Handler) topN(req SummarizeRequest) int {
	if req.TopN > 0 {
		return req.TopN
	}
	return h.opts.TopN
}

func (h *Handler) requestLog(c *fiber.Ctx) *zap.Logger {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return h.log.With(zap.String("request_id", id))
	}
	return h.log
}

// RequestError is a failed request; ErrorHandler renders it as JSON.
type RequestError struct {
	Code    int
	Message string
	Details []string
}

func (e *RequestError) Error() string { return e.Message }

func (h *Handler) fail(c *fiber.Ctx, code int, msg string, details ...string) error {
	if code >= fiber.StatusInternalServerError {
		h.requestLog(c).Error("request failed", zap.Int("status", code), zap.String("message", msg))
	}
	return &RequestError{Code: code, Message: msg, Details: details}
}

// ErrorHandler is the fiber error handler for the service: every error leaves as
// {"error": code, "message": text}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{}
	var reqErr *RequestError
	var fe *fiber.Error
	switch {
	case errors.As(err, &reqErr):
		code = reqErr.Code
		body["message"] = reqErr.Message
		if len(reqErr.Details) > 0 {
			body["details"] = reqErr.Details
		}
	case errors.As(err, &fe):
		code = fe.Code
		body["message"] = fe.Message
	default:
		body["message"] = err.Error()
	}
	body["error"] = code
	return c.Status(code).JSON(body)
}

// statusOf maps collaborator errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, loader.ErrUnsupported):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, loader.ErrTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, loader.ErrEmptyDocument):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, loader.ErrFetch):
		return fiber.StatusBadGateway
	case errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// formOptions converts multipart form fields into the types a decoded JSON body would
// carry. Values that do not convert are kept as strings so validation reports them.
func formOptions(c *fiber.Ctx) map[string]any {
	raw := map[string]any{}
	for _, key := range []string{"num_sentences", "top_n"} {
		if v := c.FormValue(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				raw[key] = float64(n)
			} else {
				raw[key] = v
			}
		}
	}
	for _, key := range []string{"keywords", "phrases"} {
		if v := c.FormValue(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				raw[key] = b
			} else {
				raw[key] = v
			}
		}
	}
	if v := c.FormValue("language"); v != "" {
		raw["language"] = v
	}
	return raw
}

func remarshal(src map[string]any, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
