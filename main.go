package main

import (
	"context"
	"flag"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/matst80/slask-shelf/pkg/catalog"
	"github.com/matst80/slask-shelf/pkg/common"
	"github.com/matst80/slask-shelf/pkg/server"
	"github.com/matst80/slask-shelf/pkg/session"
	"github.com/matst80/slask-shelf/pkg/storage"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/matst80/slask-shelf/pkg/tracking"
	"github.com/matst80/slask-shelf/pkg/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")

type Config struct {
	ListenAddress string        `envconfig:"LISTEN_ADDRESS" default:":8080"`
	DebugAddress  string        `envconfig:"DEBUG_ADDRESS" default:":8081"`
	RedisUrl      string        `envconfig:"REDIS_URL"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RabbitUrl     string        `envconfig:"RABBIT_URL"`
	Country       string        `envconfig:"COUNTRY" default:"se"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	CatalogFile   string        `envconfig:"CATALOG_FILE"`
	DataDir       string        `envconfig:"DATA_DIR"`
	DefaultTheme  types.Theme   `envconfig:"DEFAULT_THEME" default:"light"`
	DefaultName   string        `envconfig:"DEFAULT_USER_NAME" default:"Guest"`
	DefaultEmail  string        `envconfig:"DEFAULT_USER_EMAIL"`
	DefaultAvatar string        `envconfig:"DEFAULT_USER_AVATAR"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string        `envconfig:"LOG_FORMAT" default:"text"`
}

func setupLogging(cfg Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

// defaultUser is the profile every new session starts with.
func defaultUser(cfg Config) types.User {
	return types.User{
		Name:   cfg.DefaultName,
		Email:  cfg.DefaultEmail,
		Avatar: cfg.DefaultAvatar,
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}

func debugMux() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	srv.Handle("/metrics", promhttp.Handler())
	if *enableProfiling {
		srv.HandleFunc("/debug/pprof/", pprof.Index)
		srv.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		srv.HandleFunc("/debug/pprof/profile", pprof.Profile)
		srv.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		srv.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return srv
}

func main() {
	flag.Parse()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	setupLogging(cfg)

	items, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	log.Printf("Catalog loaded with %d items", items.Len())

	hooks := []common.ShutdownHook{}
	registryOpts := []session.Option{
		session.WithTTL(cfg.SessionTTL),
		session.WithStoreOptions(store.WithTheme(cfg.DefaultTheme), store.WithUser(defaultUser(cfg))),
	}
	if cfg.RedisUrl != "" {
		mirror := session.NewRedisMirror(cfg.RedisUrl, cfg.RedisPassword, 0, cfg.SessionTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := mirror.Ping(ctx); err != nil {
			log.Warnf("Redis not reachable yet at %s: %v", cfg.RedisUrl, err)
		}
		cancel()
		registryOpts = append(registryOpts, session.WithMirror(mirror))
		hooks = append(hooks, func(ctx context.Context) error {
			return mirror.Close()
		})
		log.Printf("Session mirror enabled, url: %s", cfg.RedisUrl)
	} else if cfg.DataDir != "" {
		disk := storage.NewDiskStorage(cfg.Country, cfg.DataDir)
		registryOpts = append(registryOpts, session.WithMirror(storage.NewSessionMirror(disk)))
		log.Printf("Session files enabled in %s", cfg.DataDir)
	}
	registry := session.NewRegistry(registryOpts...)

	api := &server.ShelfServer{
		Sessions: registry,
		Catalog:  items,
		Signer:   common.NewSessionSigner(cfg.SessionSecret, cfg.SessionTTL),
	}
	if cfg.RabbitUrl != "" {
		trk, err := tracking.NewRabbitTracking(cfg.RabbitUrl, cfg.Country)
		if err != nil {
			log.Errorf("Failed to create rabbit tracking: %v", err)
		} else {
			api.Tracking = trk
			hooks = append(hooks, func(ctx context.Context) error {
				return trk.Close()
			})
		}
	}
	if cfg.SessionSecret == "" {
		log.Warn("No SESSION_SECRET set, sessions will not survive a restart")
	}

	// stop the janitor before the mirror closes
	hooks = append([]common.ShutdownHook{func(ctx context.Context) error {
		registry.Close()
		return nil
	}}, hooks...)

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", api.Handler()))

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      15 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	servers := []common.NamedServer{
		{Name: "api", Server: common.NewServerWithTimeouts(&http.Server{Addr: cfg.ListenAddress, Handler: mux}, timeouts)},
		{Name: "debug", Server: &http.Server{Addr: cfg.DebugAddress, Handler: debugMux()}},
	}
	common.RunServersWithShutdown(timeouts.Shutdown, timeouts.Hook, servers, hooks...)
	log.Println("Shutdown complete")
}
