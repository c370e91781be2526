package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/docforge/docforge/pkg/render"
	"github.com/docforge/docforge/pkg/render/markup"
)

// Broadcaster fans notifications out to every connected SSE subscriber
// through a bounded channel per subscriber; a slow subscriber that doesn't
// drain fast enough loses messages rather than blocking the sender.
type Broadcaster struct {
	subscribe   chan chan []byte
	unsubscribe chan chan []byte
	publish     chan []byte
}

const subscriberBufferSize = 100

func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscribe:   make(chan chan []byte),
		unsubscribe: make(chan chan []byte),
		publish:     make(chan []byte),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	subscribers := make(map[chan []byte]struct{})
	for {
		select {
		case ch := <-b.subscribe:
			subscribers[ch] = struct{}{}
		case ch := <-b.unsubscribe:
			delete(subscribers, ch)
			close(ch)
		case msg := <-b.publish:
			for ch := range subscribers {
				select {
				case ch <- msg:
				default:
					// subscriber is behind; drop this message for it rather
					// than block the whole broadcast.
				}
			}
		}
	}
}

// Publish broadcasts msg to every current subscriber, non-blocking.
func (b *Broadcaster) Publish(msg []byte) { b.publish <- msg }

func (b *Broadcaster) newSubscriber() chan []byte {
	ch := make(chan []byte, subscriberBufferSize)
	b.subscribe <- ch
	return ch
}

func (b *Broadcaster) drop(ch chan []byte) { b.unsubscribe <- ch }

// RegisterRoutes wires the §4.3 HTTP surface onto mux: JSON-RPC, SSE, the
// REST render/templates wrappers, and liveness. CORS allows any origin.
func (s *Server) RegisterRoutes(mux *http.ServeMux, events *Broadcaster, engine *render.Engine, timeoutMs int) {
	mux.HandleFunc("/mcp", cors(s.handleMCP))
	mux.HandleFunc("/sse", cors(s.handleSSE(events)))
	mux.HandleFunc("/api/render", cors(s.handleAPIRender(engine, timeoutMs)))
	mux.HandleFunc("/api/templates", cors(s.handleAPITemplates))
	mux.HandleFunc("/health", cors(handleHealth))
	mux.HandleFunc("/", cors(handleHealth))
}

func cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp := errorResponse(nil, CodeParseError, "invalid JSON")
		writeJSONRPC(w, resp)
		return
	}

	resp := s.Handle(r.Context(), req)
	if resp == nil {
		resp = resultResponse(req.ID, map[string]any{})
	}
	writeJSONRPC(w, resp)
}

// writeJSONRPC always answers with HTTP 200; JSON-RPC-level failures are
// carried in the body's error field, not the HTTP status.
func writeJSONRPC(w http.ResponseWriter, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleSSE(events *Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ch := events.newSubscriber()
		defer events.drop(ch)

		for {
			select {
			case <-r.Context().Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if _, err := w.Write(append(append([]byte("data: "), msg...), '\n', '\n')); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

type apiRenderRequest struct {
	Template   string                 `json:"template"`
	IsTemplate bool                   `json:"is_template"`
	Inputs     map[string]interface{} `json:"inputs"`
	Format     string                 `json:"format"`
	PPI        int                    `json:"ppi"`
}

type apiRenderResponse struct {
	Success   bool     `json:"success"`
	Data      string   `json:"data,omitempty"`
	MimeType  string   `json:"mime_type,omitempty"`
	PageCount int      `json:"page_count,omitempty"`
	Error     string   `json:"error,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

func (s *Server) handleAPIRender(engine *render.Engine, timeoutMs int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var req apiRenderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeAPIRenderError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Format == "" {
			req.Format = "pdf"
		}

		source := req.Template
		if req.IsTemplate {
			source = "typst://templates/" + req.Template
		}

		resp, eerr := engine.Compile(context.Background(), render.RenderRequest{
			Source: source,
			Inputs: req.Inputs,
			Format: render.Format(req.Format),
			PPI:    req.PPI,
		}, timeoutMs)
		if eerr != nil {
			writeAPIRenderError(w, http.StatusBadRequest, eerr.Error())
			return
		}
		if len(resp.Errors) > 0 {
			writeAPIRenderError(w, http.StatusBadRequest, "compile produced errors")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(apiRenderResponse{
			Success:   true,
			Data:      base64.StdEncoding.EncodeToString(resp.Artifact),
			MimeType:  mimeType(req.Format),
			PageCount: resp.PageCount,
			Warnings:  diagnosticStrings(resp.Warnings),
		})
	}
}

func diagnosticStrings(diags []markup.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Message
	}
	return out
}

func writeAPIRenderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiRenderResponse{Success: false, Error: message})
}

func (s *Server) handleAPITemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"templates": s.templates.List()})
}
