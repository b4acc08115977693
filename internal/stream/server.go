package stream

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/san-kum/impact/internal/collision"
)

// Server steps a simulation at a fixed tick and broadcasts every
// frame to websocket clients on /ws. Clients are read-only viewers;
// nothing they send changes the simulation.
type Server struct {
	addr        string
	scenario    string
	fps         int
	sim         *collision.Simulation
	broadcaster *Broadcaster
	log         *Logger
}

func NewServer(addr, scenario string, fps int, s *collision.Simulation, log *Logger) *Server {
	if fps <= 0 {
		fps = 60
	}
	if log == nil {
		log = NewLogger("info")
	}
	return &Server{
		addr:        addr,
		scenario:    scenario,
		fps:         fps,
		sim:         s,
		broadcaster: NewBroadcaster(),
		log:         log,
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := s.broadcaster.Upgrader()
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("websocket upgrade: %v", err)
		return
	}

	s.broadcaster.RegisterClient(conn)
	s.log.Infof("client connected: %s", conn.RemoteAddr())

	// Drain the read side so close frames are processed; viewers have
	// nothing meaningful to send.
	go func() {
		defer s.broadcaster.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Run serves websocket clients and drives the simulation until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	dt := 1.0 / float64(s.fps)
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
			s.broadcaster.Close()
			return ctx.Err()

		case err := <-errCh:
			s.broadcaster.Close()
			return err

		case <-ticker.C:
			if err := s.sim.Update(dt); err != nil {
				s.log.Errorf("simulation step: %v", err)
				continue
			}
			t += dt

			event := FrameEvent{
				Scenario:  s.scenario,
				Time:      t,
				Collided:  s.sim.Collided(),
				Momentum:  s.sim.Momentum(),
				Energy:    s.sim.KineticEnergy(),
				Particles: s.sim.Particles(),
			}
			if err := s.broadcaster.Notify(ctx, event); err != nil && ctx.Err() == nil {
				s.log.Warnf("broadcast: %v", err)
			}
		}
	}
}
