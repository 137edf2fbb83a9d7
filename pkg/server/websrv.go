package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/ember-mush/goembermud/pkg/events"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// WebServer serves the WebSocket transport plus the metrics and health
// endpoints. WebSocket clients receive structured JSON events instead
// of rendered telnet text.
type WebServer struct {
	game *Game
	srv  *http.Server
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The game protocol carries no cookies or ambient credentials, so
	// cross-origin clients are allowed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewWebServer creates the web front-end for a game.
func NewWebServer(g *Game) *WebServer {
	return &WebServer{game: g}
}

// Start begins serving HTTP. Blocks until the server stops.
func (ws *WebServer) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ws.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if ws.game.Metrics != nil {
		mux.Handle("/metrics", ws.game.Metrics.Handler())
	}

	addr := fmt.Sprintf("%s:%d", ws.game.Conf.WebHost, ws.game.Conf.WebPort)
	ws.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	log.WithField("addr", addr).Info("web server listening")
	return ws.srv.ListenAndServe()
}

// Stop shuts the HTTP server down.
func (ws *WebServer) Stop() {
	if ws.srv != nil {
		ws.srv.Close()
	}
}

// wsEvent is the JSON wire form of a game event.
type wsEvent struct {
	Type   string         `json:"type"`
	Text   string         `json:"text,omitempty"`
	Source worlddb.ID     `json:"source,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// wsInput is one client message: a command line.
type wsInput struct {
	Input string `json:"input"`
}

func (ws *WebServer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	g := ws.game

	d := NewDescriptor(g.Conns.NextID(), wsNetConn{conn})
	d.Transport = TransportWebSocket

	var writeMu sync.Mutex
	send := func(ev wsEvent) {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteJSON(ev); err != nil {
			d.Close()
		}
	}
	d.SendFunc = func(msg string) {
		send(wsEvent{Type: "text", Text: strings.TrimRight(msg, "\r\n")})
	}
	d.ReceiveFunc = func(ev events.Event) {
		send(wsEvent{Type: ev.Type.String(), Text: ev.Text, Source: ev.Source, Data: ev.Data})
	}

	g.Conns.Add(d)
	if g.Metrics != nil {
		g.Metrics.ConnectionOpened("websocket")
	}
	defer func() {
		if d.State == ConnConnected {
			g.Lock()
			if actor := g.actor(d); actor != nil {
				g.Act("$n has lost $s link.", actor, nil, nil, ToRoom)
			}
			g.Unlock()
		}
		g.Conns.Remove(d)
		d.Close()
		conn.Close()
	}()

	d.Sendf("Welcome to %s.", g.Conf.MudName)
	d.Send("By what name do you wish to be known?")

	for {
		var in wsInput
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		line := strings.TrimSpace(in.Input)
		switch d.State {
		case ConnLogin:
			loginCharacter(g, d, line, "websocket")
		case ConnConnected:
			g.Lock()
			DispatchCommand(g, d, line)
			g.Unlock()
		}
		if d.IsClosed() {
			return
		}
	}
}

// wsNetConn adapts a websocket connection to net.Conn for the parts of
// Descriptor that want one. Reads and writes go through the JSON
// paths, never through this adapter.
type wsNetConn struct {
	*websocket.Conn
}

func (c wsNetConn) Read(b []byte) (int, error)  { return 0, fmt.Errorf("use ReadJSON") }
func (c wsNetConn) Write(b []byte) (int, error) { return len(b), nil }
func (c wsNetConn) SetDeadline(t time.Time) error {
	if err := c.SetReadDeadline(t); err != nil {
		return err
	}
	return c.SetWriteDeadline(t)
}

var _ net.Conn = wsNetConn{}
