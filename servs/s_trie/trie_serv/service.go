// Package trie_serv runs a trie Store behind NATS micro endpoints and,
// optionally, the HTTP API.
package trie_serv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/rs/zerolog"
	"github.com/rskv-p/minitrie/config"
	"github.com/rskv-p/minitrie/pkg/x_db"
	"github.com/rskv-p/minitrie/pkg/x_log"
	"github.com/rskv-p/minitrie/servs/s_trie/trie_api"
)

const (
	ServiceName = "trie"
	Version     = "1.0.0"
)

// Service owns the store and every transport attached to it.
type Service struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   *Store
	metrics *Metrics

	ns    *server.Server
	nc    *nats.Conn
	micro micro.Service

	dao  *x_db.DAO
	http *http.Server
	ln   net.Listener
}

// New creates a service; call Init then Start.
func New(cfg *config.Config) *Service {
	return &Service{cfg: cfg, log: x_log.New(ServiceName), metrics: NewMetrics()}
}

// Metrics returns the request counters.
func (s *Service) Metrics() *Metrics { return s.metrics }

// Store exposes the shared dictionary.
func (s *Service) Store() *Store { return s.store }

// ClientURL is the NATS URL the service is connected to.
func (s *Service) ClientURL() string {
	if s.nc == nil {
		return ""
	}
	return s.nc.ConnectedUrl()
}

// HTTPAddr is the bound HTTP address, empty when HTTP is disabled.
func (s *Service) HTTPAddr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Init loads the dictionary and opens every connection.
func (s *Service) Init() error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	kind, opts, err := s.cfg.TrieOptions()
	if err != nil {
		return err
	}
	if s.store, err = NewStore(kind, s.cfg.Trie.Path, opts...); err != nil {
		return err
	}
	loaded, err := s.store.Open()
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	s.log.Info().Str("kind", string(kind)).Str("path", s.cfg.Trie.Path).
		Bool("loaded", loaded).Int("words", s.store.Len()).Msg("dictionary ready")

	url := s.cfg.NATS.URL
	if s.cfg.NATS.Embedded {
		if url, err = s.startEmbedded(); err != nil {
			return err
		}
	}
	if s.nc, err = nats.Connect(url, nats.Name(ServiceName)); err != nil {
		return fmt.Errorf("nats client connect: %w", err)
	}

	if s.cfg.HTTP.Enabled {
		return s.initHTTP()
	}
	return nil
}

func (s *Service) startEmbedded() (string, error) {
	ns, err := server.NewServer(&server.Options{
		Host:   s.cfg.NATS.Host,
		Port:   s.cfg.NATS.Port,
		NoLog:  true,
		NoSigs: true,
	})
	if err != nil {
		return "", fmt.Errorf("nats-server init: %w", err)
	}
	s.ns = ns
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		return "", errors.New("nats-server not ready")
	}
	s.log.Info().Str("url", ns.ClientURL()).Msg("embedded nats started")
	return ns.ClientURL(), nil
}

func (s *Service) initHTTP() error {
	opts := trie_api.RouterOptions{
		JWTSecret: []byte(s.cfg.HTTP.JWTSecret),
		TokenTTL:  s.cfg.HTTP.TokenTTL,
		Logger:    &s.log,
	}
	if s.cfg.DB.DSN != "" {
		dao, err := x_db.Open(s.cfg.Database())
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		s.dao = dao
		opts.Users = dao
	}
	router, err := trie_api.NewRouter(s.store, opts)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("http listen: %w", err)
	}
	s.ln = ln
	s.http = &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	return nil
}

// Start registers the NATS endpoints and begins serving HTTP.
func (s *Service) Start() error {
	svc, err := micro.AddService(s.nc, micro.Config{
		Name:        ServiceName,
		Version:     Version,
		Description: "UTF-16 prefix dictionary",
		QueueGroup:  s.cfg.NATS.Queue,
		// endpoint stats carry the counters recorded under the endpoint name
		StatsHandler: func(e *micro.Endpoint) any {
			return s.metrics.Scope(e.Name)
		},
	})
	if err != nil {
		return fmt.Errorf("register service: %w", err)
	}
	s.micro = svc

	g := svc.AddGroup(s.cfg.NATS.Prefix)
	for name, h := range map[string]micro.HandlerFunc{
		trie_api.SubjectInsert: s.handleInsert,
		trie_api.SubjectSearch: s.handleSearch,
		trie_api.SubjectSave:   s.handleSave,
		trie_api.SubjectLoad:   s.handleLoad,
		trie_api.SubjectStats:  s.handleStats,
	} {
		if err := g.AddEndpoint(name, s.safe(name, h)); err != nil {
			_ = svc.Stop()
			return fmt.Errorf("add endpoint %s: %w", name, err)
		}
	}

	if s.http != nil {
		go func() {
			if err := s.http.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error().Err(err).Msg("http server stopped")
			}
		}()
		s.log.Info().Str("addr", s.HTTPAddr()).Msg("http api listening")
	}

	s.log.Info().Str("prefix", s.cfg.NATS.Prefix).Str("id", svc.Info().ID).Msg("service started")
	return nil
}

// Stop shuts every transport down, saving first when configured to.
func (s *Service) Stop() error {
	var errs []error
	if s.micro != nil {
		errs = append(errs, s.micro.Stop())
	}
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, s.http.Shutdown(ctx))
		cancel()
	}
	if s.cfg.Trie.SaveOnStop && s.store != nil {
		path, err := s.store.Save("")
		if err != nil {
			errs = append(errs, err)
		} else {
			s.log.Info().Str("path", path).Msg("dictionary saved")
		}
	}
	if s.nc != nil {
		s.nc.Close()
	}
	if s.ns != nil {
		s.ns.Shutdown()
	}
	if s.dao != nil {
		errs = append(errs, s.dao.Close())
	}
	return errors.Join(errs...)
}
