package common

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

// ShutdownHook is a function executed after a termination signal is received
// but before the HTTP servers begin their graceful shutdown. If a hook returns
// an error it will be logged; shutdown continues regardless.
type ShutdownHook func(ctx context.Context) error

// NamedServer pairs a server with the name used in its log lines.
type NamedServer struct {
	Name   string
	Server *http.Server
}

// RunServersWithShutdown starts every server and blocks until a termination
// signal (SIGINT or SIGTERM) is received. Hooks then run in order, each with
// its own hookTimeout inside the overall shutdownTimeout, and finally the
// servers are shut down in reverse start order.
//
// Typical usage in main:
//
//	api := &http.Server{Addr: ":8080", Handler: mux}
//	common.RunServersWithShutdown(15*time.Second, 5*time.Second, []common.NamedServer{{"api", api}}, closeHook)
func RunServersWithShutdown(shutdownTimeout, hookTimeout time.Duration, servers []NamedServer, hooks ...ShutdownHook) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	waitAndShutdown(stop, shutdownTimeout, hookTimeout, servers, hooks...)
}

func waitAndShutdown(stop <-chan os.Signal, shutdownTimeout, hookTimeout time.Duration, servers []NamedServer, hooks ...ShutdownHook) {
	if hookTimeout <= 0 {
		hookTimeout = 5 * time.Second
	}

	for _, s := range servers {
		go func(s NamedServer) {
			log.Printf("starting %s on %s", s.Name, s.Server.Addr)
			if err := s.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("%s listen error: %v", s.Name, err)
			}
		}(s)
	}

	sig := <-stop
	log.WithField("signal", sig).Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for i, h := range hooks {
		if h == nil {
			continue
		}
		hCtx, hCancel := context.WithTimeout(ctx, hookTimeout)
		if err := h(hCtx); err != nil {
			log.Printf("shutdown hook %d failed: %v", i, err)
		}
		if err := hCtx.Err(); err == context.DeadlineExceeded {
			log.Printf("shutdown hook %d timed out", i)
		}
		hCancel()
	}

	for i := len(servers) - 1; i >= 0; i-- {
		s := servers[i]
		if err := s.Server.Shutdown(ctx); err != nil {
			log.Printf("graceful shutdown of %s failed: %v", s.Name, err)
		} else {
			log.Printf("%s shutdown complete", s.Name)
		}
	}
}

// TimeoutConfig holds server and shutdown related timeouts. Values are read
// from the environment as Go durations ("5s", "1m").
type TimeoutConfig struct {
	ReadHeader time.Duration `envconfig:"READ_HEADER_TIMEOUT"`
	Read       time.Duration `envconfig:"READ_TIMEOUT"`
	Write      time.Duration `envconfig:"WRITE_TIMEOUT"`
	Idle       time.Duration `envconfig:"IDLE_TIMEOUT"`
	Shutdown   time.Duration `envconfig:"SHUTDOWN_TIMEOUT"`
	Hook       time.Duration `envconfig:"HOOK_TIMEOUT"`
}

// LoadTimeoutConfig overrides defaults with any of READ_HEADER_TIMEOUT,
// READ_TIMEOUT, WRITE_TIMEOUT, IDLE_TIMEOUT, SHUTDOWN_TIMEOUT and
// HOOK_TIMEOUT that are set. Unparsable or non-positive values keep the
// default.
func LoadTimeoutConfig(defaults TimeoutConfig) TimeoutConfig {
	loaded := defaults
	if err := envconfig.Process("", &loaded); err != nil {
		log.Printf("invalid timeout config, using defaults: %v", err)
		return defaults
	}
	keep := func(v *time.Duration, def time.Duration) {
		if *v <= 0 {
			*v = def
		}
	}
	keep(&loaded.ReadHeader, defaults.ReadHeader)
	keep(&loaded.Read, defaults.Read)
	keep(&loaded.Write, defaults.Write)
	keep(&loaded.Idle, defaults.Idle)
	keep(&loaded.Shutdown, defaults.Shutdown)
	keep(&loaded.Hook, defaults.Hook)
	return loaded
}

// NewServerWithTimeouts attaches timeout settings to an existing *http.Server or creates a new one if nil.
func NewServerWithTimeouts(base *http.Server, cfg TimeoutConfig) *http.Server {
	if base == nil {
		base = &http.Server{}
	}
	base.ReadHeaderTimeout = cfg.ReadHeader
	base.ReadTimeout = cfg.Read
	base.WriteTimeout = cfg.Write
	base.IdleTimeout = cfg.Idle
	return base
}
