package server

import (
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ember-mush/goembermud/pkg/blueprint"
	"github.com/ember-mush/goembermud/pkg/worlddb"
)

// Server owns the listeners and the accept loops around a Game.
type Server struct {
	Game      *Game
	listener  net.Listener
	webServer *WebServer
	watcher   *blueprint.Watcher
}

// NewServer creates a server around an assembled game.
func NewServer(g *Game) *Server {
	return &Server{Game: g}
}

// Start brings up the telnet listener, and the web server and blueprint
// watcher when configured. It blocks until the listener fails.
func (s *Server) Start() error {
	g := s.Game
	if g.Conf.MetricsEnabled && g.Metrics == nil {
		g.Metrics = NewMetrics(g, time.Now())
	}

	if g.Conf.WatchBlueprints && g.Conf.BlueprintDir != "" {
		w, err := blueprint.Watch(g.Conf.BlueprintDir, func(path string) {
			if err := g.ReloadBlueprints(); err != nil {
				log.WithError(err).WithField("path", path).Warn("blueprint reload failed")
			}
		})
		if err != nil {
			log.WithError(err).Warn("blueprint watcher disabled")
		} else {
			s.watcher = w
		}
	}

	if g.Conf.WebEnabled {
		s.webServer = NewWebServer(g)
		go func() {
			if err := s.webServer.Start(); err != nil {
				log.WithError(err).Error("web server stopped")
			}
		}()
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", g.Conf.Port))
	if err != nil {
		return fmt.Errorf("listener: %w", err)
	}
	s.listener = ln
	log.WithField("port", g.Conf.Port).Info("listening")
	s.acceptLoop(ln)
	return nil
}

// Stop closes the listener and the blueprint watcher.
func (s *Server) Stop() {
	if s.listener != nil {
		s.listener.Close()
	}
	if s.watcher != nil {
		s.watcher.Close()
	}
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			log.WithError(err).Info("accept loop ended")
			return
		}
		d := NewDescriptor(s.Game.Conns.NextID(), conn)
		s.Game.Conns.Add(d)
		if s.Game.Metrics != nil {
			s.Game.Metrics.ConnectionOpened("tcp")
		}
		go s.handleConnection(d)
	}
}

func (s *Server) handleConnection(d *Descriptor) {
	g := s.Game
	defer func() {
		g.Conns.Remove(d)
		d.Close()
	}()

	d.Sendf("Welcome to %s.", g.Conf.MudName)
	d.Send("By what name do you wish to be known?")

	for !d.IsClosed() {
		if g.Conf.IdleTimeout > 0 {
			d.Conn.SetReadDeadline(time.Now().Add(time.Duration(g.Conf.IdleTimeout) * time.Second))
		}
		line, err := d.Reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.WithError(err).WithField("addr", d.Addr).Debug("read failed")
			}
			if d.State == ConnConnected {
				g.Lock()
				if actor := g.actor(d); actor != nil {
					g.Act("$n has lost $s link.", actor, nil, nil, ToRoom)
				}
				g.Unlock()
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")

		switch d.State {
		case ConnLogin:
			loginCharacter(g, d, line, "tcp")
		case ConnConnected:
			g.Lock()
			DispatchCommand(g, d, line)
			g.Unlock()
		}
	}
}

// loginCharacter validates the name, finds or creates the character,
// and drops them into the start room.
func loginCharacter(g *Game, d *Descriptor, name, transport string) {
	name = strings.TrimSpace(name)
	if !validName(name) {
		d.Send("Names are 2-20 letters. Try again:")
		return
	}
	name = capitalize(strings.ToLower(name))

	g.Lock()
	defer g.Unlock()

	ch := g.FindPlayer(name)
	if ch == nil {
		ch = g.createPlayer(name)
		if ch == nil {
			d.Send("The world has no rooms; try again later.")
			return
		}
		d.Sendf("Welcome, %s. A new life begins.", name)
	} else {
		d.Sendf("Welcome back, %s.", name)
	}

	g.Conns.Login(d, ch.ID)
	log.WithFields(log.Fields{
		"character": name,
		"addr":      d.Addr,
		"transport": transport,
	}).Info("player connected")
	g.Act("$n has arrived.", ch, nil, nil, ToRoom)
	g.showRoom(d, ch)
}

// createPlayer makes a fresh player character in the start room. The
// first player in an empty world becomes a wizard.
func (g *Game) createPlayer(name string) *worlddb.Entity {
	room := g.StartRoom()
	if room == nil {
		return nil
	}
	ch := worlddb.NewCharacter(name, []string{strings.ToLower(name)}, worlddb.CharInfo{
		CarryMax: 200,
	})
	ch.Level = 1
	if !g.anyPlayers() {
		ch.Level = g.Conf.WizLevel
		log.WithField("character", name).Info("first player granted wizard level")
	}
	g.World.Add(ch)
	ch.Home = room.ID
	if err := g.World.Move(ch, room); err != nil {
		g.World.Delete(ch)
		return nil
	}
	g.persist(ch, room)
	return ch
}

func (g *Game) anyPlayers() bool {
	for _, e := range g.World.Entities {
		if e.Type == worlddb.TypeCharacter && e.Char != nil && !e.Char.NPC {
			return true
		}
	}
	return false
}

func validName(name string) bool {
	if len(name) < 2 || len(name) > 20 {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
