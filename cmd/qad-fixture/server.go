package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/codethink/qad-fixture/internal/backend"
	"github.com/codethink/qad-fixture/internal/config"
	"github.com/codethink/qad-fixture/internal/devclass"
	"github.com/codethink/qad-fixture/internal/telemetry"
)

// command is one newline-delimited-JSON request from the harness's
// WebSocket client, e.g. {"op":"move","event":0,"x":10,"y":20}.
type command struct {
	Op    string `json:"op"`
	Event int    `json:"event"`
	Kind  string `json:"kind,omitempty"`

	X          int32 `json:"x,omitempty"`
	Y          int32 `json:"y,omitempty"`
	X2         int32 `json:"x2,omitempty"`
	Y2         int32 `json:"y2,omitempty"`
	Steps      int   `json:"steps,omitempty"`
	Value      int32 `json:"value,omitempty"`
	DurationMs int   `json:"duration_ms,omitempty"`
	Code       uint16 `json:"code,omitempty"`
	Codes      []uint16 `json:"codes,omitempty"`
	Screen     int   `json:"screen,omitempty"`
}

type response struct {
	ID      string `json:"id"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Image   string `json:"image,omitempty"`   // base64, only for screenshot
	Screens string `json:"screens,omitempty"` // one line per CRTC, only for list_screens
}

func runServe(cfg *config.Config) error {
	log, err := telemetry.NewLogger()
	if err != nil {
		return fmt.Errorf("telemetry logger: %w", err)
	}
	defer log.Sync()

	reporter := telemetry.NewReporter(log)
	defer reporter.Flush()

	reg := buildRegistry(cfg, log)
	defer reg.Close()

	mappings, inputKind := resolveDeviceMappings(cfg)
	screenKind := defaultScreenKind(cfg)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		handleConn(conn, reg, mappings, inputKind, screenKind, reporter, telemetry.Component(log, "server"))
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Error("server stopped", zap.Error(err))
		}
	}()
	log.Info("qad-fixture listening", zap.String("addr", cfg.ListenAddr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func handleConn(conn *websocket.Conn, reg *backend.Registry, mappings []devclass.Mapping, inputKind backend.InputKind, screenKind backend.ScreenKind, reporter *telemetry.Reporter, log *zap.Logger) {
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		scanner := bufio.NewScanner(bytes.NewReader(raw))
		for scanner.Scan() {
			cid := uuid.New().String()
			var cmd command
			if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
				writeResponse(conn, response{ID: cid, OK: false, Error: "bad json: " + err.Error()})
				continue
			}
			resp := dispatch(cid, cmd, reg, mappings, inputKind, screenKind)
			if !resp.OK {
				log.Warn("command failed", zap.String("op", cmd.Op), zap.String("error", resp.Error))
			}
			writeResponse(conn, resp)
		}
	}
}

func dispatch(cid string, cmd command, reg *backend.Registry, mappings []devclass.Mapping, inputKind backend.InputKind, screenKind backend.ScreenKind) response {
	resolveEvent := func() (int, error) {
		if cmd.Kind == "" {
			return cmd.Event, nil
		}
		kind, ok := parseKind(cmd.Kind)
		if !ok {
			return 0, backend.NewError(backend.BadInput, "resolve_event", nil)
		}
		event, ok := devclass.Resolve(mappings, kind)
		if !ok {
			return 0, backend.NewError(backend.BadInput, "resolve_event", nil)
		}
		return event, nil
	}

	switch cmd.Op {
	case "move", "button", "touch", "swipe", "key", "text":
		in, err := reg.Input(inputKind)
		if err != nil {
			return response{ID: cid, OK: false, Error: err.Error()}
		}
		event, err := resolveEvent()
		if err != nil {
			return response{ID: cid, OK: false, Error: err.Error()}
		}

		var opErr error
		switch cmd.Op {
		case "move":
			opErr = in.Move(event, cmd.X, cmd.Y)
		case "button":
			opErr = in.Button(event, cmd.Value)
		case "touch":
			opErr = in.Touch(event, cmd.X, cmd.Y, time.Duration(cmd.DurationMs)*time.Millisecond)
		case "swipe":
			opErr = in.Swipe(event, cmd.X, cmd.Y, cmd.X2, cmd.Y2, cmd.Steps)
		case "key":
			opErr = in.Key(event, cmd.Code)
		case "text":
			opErr = in.Text(event, cmd.Codes)
		}
		if opErr != nil {
			return response{ID: cid, OK: false, Error: opErr.Error()}
		}
		return response{ID: cid, OK: true}

	case "screenshot":
		scr, err := reg.Screen(screenKind)
		if err != nil {
			return response{ID: cid, OK: false, Error: err.Error()}
		}
		img, err := scr.Screenshot(cmd.Screen)
		if err != nil {
			return response{ID: cid, OK: false, Error: err.Error()}
		}
		return response{ID: cid, OK: true, Image: base64.StdEncoding.EncodeToString(img.Bytes)}

	case "list_screens":
		scr, err := reg.Screen(screenKind)
		if err != nil {
			return response{ID: cid, OK: false, Error: err.Error()}
		}
		listing, err := scr.ListScreens()
		if err != nil {
			return response{ID: cid, OK: false, Error: err.Error()}
		}
		return response{ID: cid, OK: true, Screens: listing}

	default:
		return response{ID: cid, OK: false, Error: "unknown op: " + cmd.Op}
	}
}

func parseKind(s string) (devclass.Kind, bool) {
	switch s {
	case "keyboard":
		return devclass.KindKeyboard, true
	case "mouse":
		return devclass.KindMouse, true
	case "trackpad":
		return devclass.KindTrackpad, true
	case "touchscreen":
		return devclass.KindTouchscreen, true
	default:
		return 0, false
	}
}

func writeResponse(conn *websocket.Conn, resp response) {
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	b = append(b, '\n')
	conn.WriteMessage(websocket.TextMessage, b)
}
