package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/papapumpkin/ggce/internal/artifact"
	"github.com/papapumpkin/ggce/internal/basisstore"
	"github.com/papapumpkin/ggce/internal/cloud"
	"github.com/papapumpkin/ggce/internal/config"
	"github.com/papapumpkin/ggce/internal/ctxlog"
	"github.com/papapumpkin/ggce/internal/hierarchy"
	"github.com/papapumpkin/ggce/internal/model"
	"github.com/papapumpkin/ggce/internal/telemetry"
	"github.com/papapumpkin/ggce/internal/ui"
)

// envReplacer maps nested keys such as artifact.bucket to GGCE_ARTIFACT_BUCKET.
var envReplacer = strings.NewReplacer(".", "_")

// session bundles the runtime collaborators shared by every command.
type session struct {
	cfg     config.Config
	ctx     context.Context
	printer *ui.Printer
	emitter *telemetry.Emitter
	cache   *cloud.Cache
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	s := &session{
		cfg:     cfg,
		ctx:     ctxlog.WithLogger(ctx, ctxlog.New(os.Stderr, level)),
		printer: ui.New(),
	}
	if s.cache, err = cloud.NewCache(cfg.CacheSize); err != nil {
		return nil, err
	}
	if cfg.TelemetryPath != "" {
		if s.emitter, err = telemetry.NewEmitter(cfg.TelemetryPath); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *session) Close() error {
	return s.emitter.Close()
}

// build runs the pipeline for m with the session's options.
func (s *session) build(m *model.Model, runID string) (*hierarchy.System, error) {
	sys, err := hierarchy.Build(s.ctx, m,
		hierarchy.WithStrict(s.cfg.Strict),
		hierarchy.WithCache(s.cache),
		hierarchy.WithEmitter(s.emitter),
		hierarchy.WithRunID(runID),
	)
	if err != nil {
		var ce *hierarchy.ClosureError
		if errors.As(err, &ce) {
			s.printer.Closure(ce.Closure)
		}
		return nil, err
	}
	return sys, nil
}

// persist saves sys to the configured SQLite database and object store.
// Either destination is skipped when not configured.
func (s *session) persist(sys *hierarchy.System, publish bool) error {
	exp := sys.Export()
	if s.cfg.BasisDB != "" {
		store, err := basisstore.Open(s.ctx, s.cfg.BasisDB)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(s.ctx, exp); err != nil {
			return err
		}
		s.printer.Success(fmt.Sprintf("saved %s to %s", exp.RunID, s.cfg.BasisDB))
	}
	if !publish {
		return nil
	}
	objects, err := s.objectStore()
	if err != nil {
		return err
	}
	keys, err := artifact.Publish(s.ctx, objects, s.cfg.Artifact.Prefix, exp, sys.Report())
	if err != nil {
		return err
	}
	if err := s.emitter.Stage(telemetry.KindPublished, exp.RunID, "", keys); err != nil {
		ctxlog.FromContext(s.ctx).Warn("telemetry emit failed", "error", err)
	}
	s.printer.Success(fmt.Sprintf("published %s", strings.Join(keys, ", ")))
	return nil
}

func (s *session) objectStore() (artifact.Store, error) {
	a := s.cfg.Artifact
	if !a.Enabled() {
		return nil, fmt.Errorf("artifact store not configured: set artifact.endpoint and artifact.bucket")
	}
	return artifact.NewS3Store(artifact.S3Config{
		Endpoint:  a.Endpoint,
		Region:    a.Region,
		AccessKey: a.AccessKey,
		SecretKey: a.SecretKey,
		Bucket:    a.Bucket,
		UseSSL:    a.UseSSL,
	})
}

func (s *session) debounce() time.Duration {
	d, err := time.ParseDuration(s.cfg.Debounce)
	if err != nil {
		ctxlog.FromContext(s.ctx).Warn("invalid debounce, using default", "value", s.cfg.Debounce, "error", err)
		return 0
	}
	return d
}
