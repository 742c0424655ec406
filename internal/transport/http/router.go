// SPDX-License-Identifier: Apache-2.0

package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dverbeek/windriver/internal/domain"
	"github.com/dverbeek/windriver/internal/input"
	"github.com/dverbeek/windriver/internal/metrics"
	"github.com/dverbeek/windriver/internal/transport/middleware"
)

// elementKey is the W3C WebDriver element identifier used in find-element
// responses and pointer origins.
const elementKey = "element-6066-11e4-a52e-4f735466cecf"

type newSessionRequest struct {
	Capabilities struct {
		AlwaysMatch map[string]any `json:"alwaysMatch"`
	} `json:"capabilities"`
	DesiredCapabilities map[string]any `json:"desiredCapabilities"`
}

type findElementRequest struct {
	Using string `json:"using"`
	Value string `json:"value"`
}

type actionsRequest struct {
	Actions []map[string]any `json:"actions"`
}

type sendKeysRequest struct {
	Text  string   `json:"text"`
	Value []string `json:"value"`
}

type chordRequest struct {
	Modifier string `json:"modifier"`
	Key      string `json:"key"`
}

type scanCodesRequest struct {
	Codes []uint16 `json:"codes"`
}

type clickRequest struct {
	Button    int    `json:"button"`
	Repeat    int    `json:"repeat"`
	Alignment string `json:"alignment"`
	OffsetX   int    `json:"offsetX"`
	OffsetY   int    `json:"offsetY"`
}

type moveToRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Deps struct {
	Sessions      SessionStore
	Elements      ElementResolver
	Engine        ActionExecutor
	Native        input.NativeClicker
	Recorder      CommandRecorder
	Logger        *slog.Logger
	CmdRatePerMin int
	Version       string
	Commit        string
	BuildDate     string
}

func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics.Init()
	version := valueOrDefault(deps.Version, "dev")
	commit := valueOrDefault(deps.Commit, "none")
	buildDate := valueOrDefault(deps.BuildDate, "unknown")

	r := chi.NewRouter()
	r.Use(requestIDMiddleware())
	r.Use(requestLoggingMiddleware(logger))
	r.Use(commandAuditMiddleware(deps.Recorder))

	// ---------------- HEALTH / METRICS / VERSION ----------------

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("health check hit")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version":    version,
			"commit":     commit,
			"build_date": buildDate,
		})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeValue(w, http.StatusOK, map[string]any{
			"ready":   true,
			"message": "driver ready",
			"build": map[string]string{
				"version": version,
			},
		})
	})

	// ---------------- SESSION LIFECYCLE ----------------

	r.Post("/session", func(w http.ResponseWriter, r *http.Request) {
		caps, err := decodeNewSessionRequest(r)
		if err != nil {
			writeDriverError(w, logger, domain.InvalidArgument("malformed new session request"))
			return
		}

		sess, err := deps.Sessions.Create(caps)
		if err != nil {
			writeDriverError(w, logger, err)
			return
		}

		writeValue(w, http.StatusOK, map[string]any{
			"sessionId":    sess.ID.String(),
			"capabilities": sess.Capabilities,
		})
	})

	r.Get("/sessions", func(w http.ResponseWriter, r *http.Request) {
		sessions := deps.Sessions.List()
		out := make([]map[string]any, 0, len(sessions))
		for _, sess := range sessions {
			out = append(out, map[string]any{
				"id":           sess.ID.String(),
				"capabilities": sess.Capabilities,
			})
		}
		writeValue(w, http.StatusOK, out)
	})

	r.Get("/commands", func(w http.ResponseWriter, r *http.Request) {
		if deps.Recorder == nil {
			writeValue(w, http.StatusOK, []any{})
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		records, err := deps.Recorder.ListRecent(r.Context(), limit)
		if err != nil {
			writeDriverError(w, logger, err)
			return
		}
		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out = append(out, map[string]any{
				"id":          rec.ID.String(),
				"sessionId":   rec.SessionID,
				"method":      rec.Method,
				"path":        rec.Path,
				"status":      rec.Status,
				"duration_ms": rec.DurationMS,
				"created_at":  rec.CreatedAt,
			})
		}
		writeValue(w, http.StatusOK, out)
	})

	// ---------------- SESSION-SCOPED COMMANDS ----------------

	r.Route("/session/{sessionId}", func(sr chi.Router) {
		sr.Use(middleware.SessionRateLimit(deps.CmdRatePerMin))

		sr.Delete("/", func(w http.ResponseWriter, r *http.Request) {
			sess, ok := requireSession(w, r, deps, logger)
			if !ok {
				return
			}
			if err := deps.Sessions.Delete(sess.ID); err != nil {
				writeDriverError(w, logger, err)
				return
			}
			deps.Elements.DropSession(sess.ID)
			writeValue(w, http.StatusOK, nil)
		})

		// The engine entry point: the client-submitted action sequence.
		sr.Post("/actions", func(w http.ResponseWriter, r *http.Request) {
			sess, ok := requireSession(w, r, deps, logger)
			if !ok {
				return
			}
			var req actionsRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeDriverError(w, logger, domain.InvalidArgument("malformed actions payload"))
				return
			}

			seq := domain.ParseActionSequence(req.Actions)
			if err := deps.Engine.ExecuteActions(seq, dispatchContext(sess, deps)); err != nil {
				writeDriverError(w, logger, err)
				return
			}
			writeValue(w, http.StatusOK, nil)
		})

		sr.Post("/keys", func(w http.ResponseWriter, r *http.Request) {
			if _, ok := requireSession(w, r, deps, logger); !ok {
				return
			}
			text, err := decodeSendKeys(r)
			if err != nil {
				writeDriverError(w, logger, err)
				return
			}
			if err := deps.Engine.SendText(text); err != nil {
				writeDriverError(w, logger, err)
				return
			}
			writeValue(w, http.StatusOK, nil)
		})

		sr.Post("/chord", func(w http.ResponseWriter, r *http.Request) {
			if _, ok := requireSession(w, r, deps, logger); !ok {
				return
			}
			var req chordRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeDriverError(w, logger, domain.InvalidArgument("malformed chord payload"))
				return
			}
			if err := deps.Engine.SendChord(req.Modifier, req.Key); err != nil {
				writeDriverError(w, logger, err)
				return
			}
			writeValue(w, http.StatusOK, nil)
		})

		sr.Post("/scancodes", func(w http.ResponseWriter, r *http.Request) {
			if _, ok := requireSession(w, r, deps, logger); !ok {
				return
			}
			var req scanCodesRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeDriverError(w, logger, domain.InvalidArgument("malformed scancodes payload"))
				return
			}
			if err := deps.Engine.SendScanCodes(req.Codes); err != nil {
				writeDriverError(w, logger, err)
				return
			}
			writeValue(w, http.StatusOK, nil)
		})

		sr.Get("/location", func(w http.ResponseWriter, r *http.Request) {
			if _, ok := requireSession(w, r, deps, logger); !ok {
				return
			}
			point, err := deps.Engine.CursorPos()
			if err != nil {
				writeDriverError(w, logger, err)
				return
			}
			writeValue(w, http.StatusOK, map[string]int{"x": point.X, "y": point.Y})
		})

		sr.Post("/moveto", func(w http.ResponseWriter, r *http.Request) {
			sess, ok := requireSession(w, r, deps, logger)
			if !ok {
				return
			}
			var req moveToRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeDriverError(w, logger, domain.InvalidArgument("malformed moveto payload"))
				return
			}

			// logical coordinates in, physical cursor out
			point, err := input.ClickablePoint(
				domain.Rect{X: req.X, Y: req.Y}, "", 0, 0, sess.ScaleRatio,
			)
			if err != nil {
				writeDriverError(w, logger, err)
				return
			}
			if err := deps.Engine.MoveCursor(point); err != nil {
				writeDriverError(w, logger, err)
				return
			}
			writeValue(w, http.StatusOK, nil)
		})

		sr.Post("/element", func(w http.ResponseWriter, r *http.Request) {
			sess, ok := requireSession(w, r, deps, logger)
			if !ok {
				return
			}
			var req findElementRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeDriverError(w, logger, domain.InvalidArgument("malformed find element payload"))
				return
			}

			el, err := deps.Elements.Find(sess, req.Using, req.Value)
			if err != nil {
				writeDriverError(w, logger, err)
				return
			}
			writeValue(w, http.StatusOK, map[string]string{
				elementKey: el.ID.String(),
			})
		})

		sr.Route("/element/{elementId}", func(er chi.Router) {
			er.Get("/rect", func(w http.ResponseWriter, r *http.Request) {
				_, el, ok := requireElement(w, r, deps, logger)
				if !ok {
					return
				}
				writeValue(w, http.StatusOK, el.Rect)
			})

			er.Get("/text", func(w http.ResponseWriter, r *http.Request) {
				_, el, ok := requireElement(w, r, deps, logger)
				if !ok {
					return
				}
				writeValue(w, http.StatusOK, el.Name)
			})

			er.Post("/click", func(w http.ResponseWriter, r *http.Request) {
				sess, el, ok := requireElement(w, r, deps, logger)
				if !ok {
					return
				}
				var req clickRequest
				// an empty body means a single default left click
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
					writeDriverError(w, logger, domain.InvalidArgument("malformed click payload"))
					return
				}

				err := deps.Engine.Click(
					el, dispatchContext(sess, deps),
					req.Button, req.Repeat,
					req.Alignment, req.OffsetX, req.OffsetY,
				)
				if err != nil {
					writeDriverError(w, logger, err)
					return
				}
				writeValue(w, http.StatusOK, nil)
			})

			er.Post("/value", func(w http.ResponseWriter, r *http.Request) {
				if _, _, ok := requireElement(w, r, deps, logger); !ok {
					return
				}
				text, err := decodeSendKeys(r)
				if err != nil {
					writeDriverError(w, logger, err)
					return
				}
				if err := deps.Engine.SendText(text); err != nil {
					writeDriverError(w, logger, err)
					return
				}
				writeValue(w, http.StatusOK, nil)
			})
		})
	})

	return r
}

// dispatchContext assembles the per-call borrow the engine needs. It is
// rebuilt for every command and never cached.
func dispatchContext(sess *domain.Session, deps Deps) input.DispatchContext {
	return input.DispatchContext{
		AppHandle:  sess.AppHandle,
		ScaleRatio: sess.ScaleRatio,
		Native:     deps.Native,
		LookupElement: func(elementID string) (*domain.Element, bool) {
			id, err := uuid.Parse(elementID)
			if err != nil {
				return nil, false
			}
			el, err := deps.Elements.Get(sess.ID, id)
			if err != nil {
				return nil, false
			}
			return el, true
		},
	}
}

func requireSession(w http.ResponseWriter, r *http.Request, deps Deps, logger *slog.Logger) (*domain.Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		writeDriverError(w, logger, domain.ErrSessionNotFound)
		return nil, false
	}
	sess, err := deps.Sessions.Get(id)
	if err != nil {
		writeDriverError(w, logger, err)
		return nil, false
	}
	return sess, true
}

func requireElement(w http.ResponseWriter, r *http.Request, deps Deps, logger *slog.Logger) (*domain.Session, *domain.Element, bool) {
	sess, ok := requireSession(w, r, deps, logger)
	if !ok {
		return nil, nil, false
	}
	elID, err := uuid.Parse(chi.URLParam(r, "elementId"))
	if err != nil {
		writeDriverError(w, logger, domain.ErrElementNotFound)
		return nil, nil, false
	}
	el, err := deps.Elements.Get(sess.ID, elID)
	if err != nil {
		writeDriverError(w, logger, err)
		return nil, nil, false
	}
	return sess, el, true
}

func decodeNewSessionRequest(r *http.Request) (domain.Capabilities, error) {
	var req newSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.Capabilities{}, err
	}

	raw := req.Capabilities.AlwaysMatch
	if raw == nil {
		raw = req.DesiredCapabilities
	}

	var caps domain.Capabilities
	if app, ok := raw["app"].(string); ok {
		caps.App = app
	}
	if class, ok := raw["appClass"].(string); ok {
		caps.AppClass = class
	}
	if ratio, ok := raw["scaleRatio"].(float64); ok {
		caps.ScaleRatio = ratio
	}
	return caps, nil
}

func decodeSendKeys(r *http.Request) (string, error) {
	var req sendKeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", domain.InvalidArgument("malformed send keys payload")
	}
	if req.Text != "" {
		return req.Text, nil
	}
	return strings.Join(req.Value, ""), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeValue wraps the payload in the W3C WebDriver response envelope.
func writeValue(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"value": v})
}

// writeDriverError maps an engine error to the WebDriver error envelope.
// Only OS-transport failures and unknown errors become server errors; the
// rest are client errors.
func writeDriverError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	code := "unknown error"

	var invalidArg *domain.InvalidArgumentError
	var transportErr *domain.TransportError

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status, code = http.StatusNotFound, "invalid session id"
	case errors.Is(err, domain.ErrElementNotFound):
		status, code = http.StatusNotFound, "no such element"
	case errors.Is(err, domain.ErrWindowNotFound):
		status, code = http.StatusNotFound, "no such window"
	case errors.As(err, &invalidArg):
		status, code = http.StatusBadRequest, "invalid argument"
	case errors.Is(err, domain.ErrSessionLimitExceeded):
		status, code = http.StatusInternalServerError, "session not created"
	case errors.As(err, &transportErr):
		status, code = http.StatusInternalServerError, "unknown error"
		logger.Error("input transport failure", "error", err)
	default:
		logger.Error("command failed", "error", err)
	}

	writeJSON(w, status, map[string]any{
		"value": map[string]string{
			"error":   code,
			"message": err.Error(),
		},
	})
}

func valueOrDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
