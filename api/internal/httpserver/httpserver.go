package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tax-moguls/api/internal/cache"
	"tax-moguls/api/internal/estimate"
	"tax-moguls/api/internal/sanitize"
)

// upstreamTimeout bounds one model call. The model is slow but a request
// stuck past this point is not coming back.
const upstreamTimeout = 90 * time.Second

// Gateway is the single operation this server needs from the generative
// model: prompt text in, raw text out.
type Gateway interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Server struct {
	log     *zap.Logger
	gw      Gateway
	store   cache.Store
	token   string
	origins []string
}

// New wires the estimate pipeline. The cache is owned by the caller and
// passed in so tests and future distributed caches swap in without
// touching handlers.
func New(log *zap.Logger, gw Gateway, store cache.Store, embedToken string, allowedOrigins []string) *Server {
	return &Server{
		log:     log,
		gw:      gw,
		store:   store,
		token:   embedToken,
		origins: allowedOrigins,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/estimate", s.cors(s.auth(http.HandlerFunc(s.handleEstimate))))
	return mux
}

// cors allows requests without an Origin header outright; with one, the
// origin must be on the allow-list (empty list allows all).
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			if !s.originAllowed(origin) {
				writeJSON(w, http.StatusForbidden, map[string]any{"error": "CORS blocked"})
				return
			}
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, x-embed-token")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	if len(s.origins) == 0 {
		return true
	}
	for _, o := range s.origins {
		if o == origin {
			return true
		}
	}
	return false
}

// auth enforces the shared-secret embed token when one is configured.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token != "" && r.Header.Get("x-embed-token") != s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	log := s.log.With(zap.String("request_id", uuid.NewString()))

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid payload",
			"details": []estimate.Violation{{Field: "body", Message: "bad json: " + err.Error()}},
		})
		return
	}

	req, violations := estimate.Validate(body)
	if len(violations) > 0 {
		log.Info("payload rejected", zap.Int("violations", len(violations)))
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid payload",
			"details": violations,
		})
		return
	}

	bodyLang, _ := body["language"].(string)
	lang := estimate.ResolveLanguage(bodyLang, r.Header.Get("Accept-Language"))
	key := estimate.CacheKey(req, lang)

	if cached, ok := s.store.Get(r.Context(), key); ok {
		var res estimate.Result
		// A broken cached blob reads as a miss, same as a stale one.
		if err := json.Unmarshal(cached, &res); err == nil {
			log.Info("cache hit", zap.String("lang", lang))
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	prompt := estimate.BuildPrompt(req, lang)
	start := time.Now()
	raw, err := s.gw.Generate(ctx, prompt)
	if err != nil {
		log.Error("upstream call failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":  "Upstream error",
			"detail": err.Error(),
		})
		return
	}
	log.Debug("raw model output", zap.Duration("upstream", time.Since(start)), zap.String("raw", raw))

	res, err := sanitize.Result(raw, req)
	if err != nil {
		var exErr *sanitize.ExtractionError
		var parseErr *sanitize.ParseError
		switch {
		case errors.As(err, &exErr):
			log.Error("no JSON in model output")
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error": "AI returned no valid JSON",
				"raw":   exErr.Raw,
			})
		case errors.As(err, &parseErr):
			log.Error("model JSON parse failed", zap.Error(parseErr.Err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":  "AI JSON parse failed",
				"detail": parseErr.Err.Error(),
				"raw":    parseErr.Raw,
			})
		default:
			log.Error("sanitize failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":  "AI JSON parse failed",
				"detail": err.Error(),
			})
		}
		return
	}

	if blob, err := json.Marshal(res); err == nil {
		if err := s.store.Put(r.Context(), key, blob); err != nil {
			log.Warn("cache put failed", zap.Error(err))
		}
	}
	log.Info("estimate served", zap.String("lang", lang), zap.Duration("upstream", time.Since(start)))
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
