package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/acampos/matriculabot/internal/bot"
	"github.com/acampos/matriculabot/internal/domain"
	"github.com/coder/websocket"
)

const writeTimeout = 10 * time.Second

var identityPattern = regexp.MustCompile(`^[A-Za-z0-9._:+@-]{1,128}$`)

// inboundFrame is one message from the client.
type inboundFrame struct {
	Text string `json:"text"`
}

// outboundFrame is one reply to the client. Type is "text" or "file";
// file payloads travel base64-encoded.
type outboundFrame struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Filename string `json:"filename,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	Data     string `json:"data,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// Handler serves the websocket chat endpoint.
type Handler struct {
	bot      *bot.Bot
	registry *Registry
	isDev    bool
}

// NewHandler creates a websocket chat handler.
func NewHandler(b *bot.Bot, registry *Registry, isDev bool) *Handler {
	return &Handler{bot: b, registry: registry, isDev: isDev}
}

// ServeHTTP upgrades the request and runs the read loop. The identity
// comes from the "identity" query parameter; each inbound text frame is
// one conversational turn.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("identity")
	if !identityPattern.MatchString(identity) {
		http.Error(w, `{"error":"missing or invalid identity"}`, http.StatusBadRequest)
		return
	}

	opts := &websocket.AcceptOptions{}
	if h.isDev {
		opts.OriginPatterns = []string{"*"}
	}
	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Error("WebSocket accept failed", "identity", identity, "error", err)
		return
	}

	h.registry.Register(identity, conn)
	defer h.registry.Unregister(identity, conn)
	defer conn.Close(websocket.StatusInternalError, "handler exited")

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			slog.Warn("WebSocket read failed", "identity", identity, "error", err)
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.Warn("Dropping malformed chat frame", "identity", identity, "error", err)
			continue
		}

		reply, err := h.bot.HandleTurn(ctx, identity, frame.Text)
		if err != nil {
			slog.Error("Turn failed", "identity", identity, "error", err)
			// The reply still carries the localized generic failure text.
		}
		if reply.Text == "" && reply.Attachment == nil {
			continue
		}

		if err := writeReply(ctx, conn, reply); err != nil {
			slog.Warn("WebSocket write failed", "identity", identity, "error", err)
			return
		}
	}
}

// Send delivers a reply to an identity's live connection, if any. It
// implements the messaging-gateway contract for out-of-band delivery.
func (h *Handler) Send(ctx context.Context, identity string, reply domain.Reply) error {
	conn := h.registry.Get(identity)
	if conn == nil {
		return fmt.Errorf("no active connection for identity %q", identity)
	}
	return writeReply(ctx, conn, reply)
}

func writeReply(ctx context.Context, conn *websocket.Conn, reply domain.Reply) error {
	frame := outboundFrame{Type: "text", Text: reply.Text}
	if reply.IsFile() {
		a := reply.Attachment
		frame = outboundFrame{
			Type:     "file",
			Filename: a.Filename,
			MIMEType: a.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(a.Data),
			Caption:  a.Caption,
		}
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal reply frame: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("write reply frame: %w", err)
	}
	return nil
}
