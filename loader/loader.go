// Package loader turns uploaded documents and web pages into plain text for summarization.
package loader

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/oarkflow/textrank/nlp/segmenter"
)

var (
	ErrUnsupported   = errors.New("unsupported document type")
	ErrEmptyDocument = errors.New("no text content in document")
	ErrTooLarge      = errors.New("document exceeds size limit")
	ErrFetch         = errors.New("fetch failed")
)

type Kind string

const (
	KindText Kind = "text"
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindHTML Kind = "html"
)

// Source is an uploaded document. Name and ContentType are hints; either may be empty.
type Source struct {
	Name        string
	ContentType string
	Data        []byte
}

// Parser extracts plain text from raw document bytes.
type Parser interface {
	Parse(data []byte) (string, error)
}

type Config struct {
	MaxBytes            int64   `json:"max_bytes" yaml:"max_bytes" bcl:"max_bytes"`
	FetchTimeoutSeconds int     `json:"fetch_timeout_seconds" yaml:"fetch_timeout_seconds" bcl:"fetch_timeout_seconds"`
	FetchRatePerSecond  float64 `json:"fetch_rate_per_second" yaml:"fetch_rate_per_second" bcl:"fetch_rate_per_second"`
	FetchBurst          int     `json:"fetch_burst" yaml:"fetch_burst" bcl:"fetch_burst"`
	UserAgent           string  `json:"user_agent" yaml:"user_agent" bcl:"user_agent"`
}

func DefaultConfig() Config {
	return Config{
		MaxBytes:            20 << 20,
		FetchTimeoutSeconds: 15,
		FetchRatePerSecond:  2,
		FetchBurst:          4,
		UserAgent:           "textrank/1.0 (+https://github.com/oarkflow/textrank)",
	}
}

type Loader struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
	parsers map[Kind]Parser
}

func New(cfg Config, log *zap.Logger) *Loader {
	def := DefaultConfig()
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		cfg.FetchTimeoutSeconds = def.FetchTimeoutSeconds
	}
	if cfg.FetchRatePerSecond <= 0 {
		cfg.FetchRatePerSecond = def.FetchRatePerSecond
	}
	if cfg.FetchBurst <= 0 {
		cfg.FetchBurst = def.FetchBurst
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		cfg:     cfg,
		client:  &http.Client{Timeout: time.Duration(cfg.FetchTimeoutSeconds) * time.Second},
		limiter: rate.NewLimiter(rate.Limit(cfg.FetchRatePerSecond), cfg.FetchBurst),
		log:     log,
		parsers: map[Kind]Parser{
			KindText: TextParser{},
			KindPDF:  PDFParser{},
			KindDOCX: DocxParser{},
			KindHTML: HTMLParser{},
		},
	}
}

// Load extracts the text of an uploaded document.
func (l *Loader) Load(ctx context.Context, src Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if int64(len(src.Data)) > l.cfg.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(src.Data), l.cfg.MaxBytes)
	}
	kind, err := Detect(src)
	if err != nil {
		return "", err
	}
	text, err := l.parsers[kind].Parse(src.Data)
	if err != nil {
		return "", err
	}
	paragraphs := segmenter.ParagraphSplit(text)
	if len(paragraphs) == 0 {
		return "", fmt.Errorf("%s %q: %w", kind, src.Name, ErrEmptyDocument)
	}
	text = strings.Join(paragraphs, "\n\n")
	l.log.Debug("document loaded", zap.String("name", src.Name), zap.String("kind", string(kind)), zap.Int("chars", len(text)))
	return text, nil
}

// Detect picks a parser kind from the file extension, then the declared content type,
// then by sniffing the bytes.
func Detect(src Source) (Kind, error) {
	switch strings.ToLower(filepath.Ext(src.Name)) {
	case ".txt", ".text", ".md":
		return KindText, nil
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	case ".html", ".htm":
		return KindHTML, nil
	}
	if kind, ok := kindOfMIME(src.ContentType); ok {
		return kind, nil
	}
	if len(src.Data) > 0 {
		if kind, ok := kindOfMIME(http.DetectContentType(src.Data)); ok {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: name %q, content type %q", ErrUnsupported, src.Name, src.ContentType)
}

func kindOfMIME(contentType string) (Kind, bool) {
	if contentType == "" {
		return "", false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch mt {
	case "text/plain", "text/markdown":
		return KindText, true
	case "text/html", "application/xhtml+xml":
		return KindHTML, true
	case "application/pdf":
		return KindPDF, true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return KindDOCX, true
	}
	return "", false
}

// TextParser treats the bytes as UTF-8 text.
type TextParser struct{}

func (TextParser) Parse(data []byte) (string, error) {
	return strings.ToValidUTF8(string(data), "�"), nil
}
