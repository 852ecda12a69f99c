// Package server exposes the translator over HTTP.
package server

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"

	"github.com/rickcrawford/wpmarkdown/internal/middleware"
	"github.com/rickcrawford/wpmarkdown/internal/stats"
	"github.com/rickcrawford/wpmarkdown/internal/translator"
)

// maxBodySize caps POST /convert bodies.
const maxBodySize = 10 << 20

// Options configures the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	Translator *translator.Translator
	Stats      *stats.Counter
}

type handler struct {
	translator *translator.Translator
	stats      *stats.Counter
	markdown   goldmark.Markdown
}

// New creates an *http.Server serving the conversion API.
func New(opts Options) *http.Server {
	return &http.Server{
		Addr:         opts.Addr,
		Handler:      Router(opts),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
}

// Router builds the chi router:
//
//	POST /convert   HTML body -> Markdown (?save_scraped_images=true, ?format=html)
//	GET  /healthz
func Router(opts Options) http.Handler {
	h := &handler{
		translator: opts.Translator,
		stats:      opts.Stats,
		markdown:   goldmark.New(),
	}
	if h.translator == nil {
		h.translator = translator.New()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggerMiddleware)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.With(middleware.DecompressRequest).Post("/convert", h.convert)

	return r
}

func (h *handler) convert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "reading body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	q := r.URL.Query()
	saveImages, _ := strconv.ParseBool(q.Get("save_scraped_images"))

	md, err := h.translator.Translate(string(body), translator.Options{SaveScrapedImages: saveImages})
	if err != nil {
		log.Printf("conversion error: %v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s := h.stats.Count(md)
	w.Header().Set("X-Word-Count", strconv.Itoa(s.Words))
	if h.stats.TokensEnabled() {
		w.Header().Set("X-Token-Count", strconv.Itoa(s.Tokens))
	}

	if q.Get("format") == "html" {
		var buf bytes.Buffer
		if err := h.markdown.Convert([]byte(md), &buf); err != nil {
			http.Error(w, "rendering preview: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(md))
}
