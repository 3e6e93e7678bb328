package server

import (
	"embed"
	"net/http"

	"github.com/mpapenbr/gps-extractor/log"
	"github.com/mpapenbr/gps-extractor/pkg/config"
	"github.com/mpapenbr/gps-extractor/pkg/encode"
)

//go:embed web/index.html
var webFS embed.FS

type (
	Server struct {
		maxUploadSize int64
		defaultFormat encode.Format
		log           *log.Logger
	}
	Option func(*Server)
)

func NewServer(opts ...Option) *Server {
	cfg := config.Default()
	ret := &Server{
		maxUploadSize: cfg.MaxUploadSize,
		defaultFormat: encode.Format(cfg.Format),
		log:           log.Default().Named("server"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func WithConfig(cfg config.Config) Option {
	return func(s *Server) {
		if cfg.MaxUploadSize > 0 {
			s.maxUploadSize = cfg.MaxUploadSize
		}
		if f, err := encode.ParseFormat(cfg.Format); err == nil {
			s.defaultFormat = f
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// Handler returns the handler serving the upload page and the api endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/extract", s.extract)
	mux.HandleFunc("POST /api/preview", s.preview)
	return s.withRequestLogging(mux)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	data, err := webFS.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
