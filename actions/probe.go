package actions

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/relloyd/housepipe/clickhouse"
	"github.com/relloyd/housepipe/logger"
	"github.com/relloyd/housepipe/rdbms"
)

// ClickHouseConfig describes the analytics store used by the probe, load and report steps.
type ClickHouseConfig struct {
	Url            string `json:"url" errorTxt:"ClickHouse URL" mandatory:"yes"`
	User           string `json:"user,omitempty"`
	Password       string `json:"password,omitempty"`
	Database       string `json:"database,omitempty"`
	Table          string `json:"table" errorTxt:"ClickHouse table" mandatory:"yes"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty"`
}

// RelationalConfig describes the relational database probed in step 2.
// If Dsn is set a Go driver is used, otherwise the psql client is run.
type RelationalConfig struct {
	Dsn      string `json:"dsn,omitempty"`
	Psql     string `json:"psql,omitempty"`
	Host     string `json:"host,omitempty"`
	Port     string `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Database string `json:"database,omitempty"`
	Password string `json:"password,omitempty"`
}

// NewClickHouseStore returns a client for the analytics store in cfg.
func NewClickHouseStore(cfg ClickHouseConfig) (*clickhouse.Client, error) {
	opts := make([]clickhouse.Option, 0, 3)
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, clickhouse.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}))
	}
	if cfg.User != "" {
		opts = append(opts, clickhouse.WithCredentials(cfg.User, cfg.Password))
	}
	if cfg.Database != "" {
		opts = append(opts, clickhouse.WithDatabase(cfg.Database))
	}
	return clickhouse.NewClient(cfg.Url, opts...)
}

// NewVersionProber returns a driver based prober when cfg.Dsn is set, else a psql prober.
func NewVersionProber(log logger.Logger, cfg RelationalConfig) rdbms.VersionProber {
	if cfg.Dsn != "" {
		return rdbms.DsnProber{Log: log, Details: rdbms.DsnConnectionDetails{Dsn: cfg.Dsn}}
	}
	return rdbms.PsqlProber{
		Binary:   cfg.Psql,
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Database: cfg.Database,
		Password: cfg.Password,
	}
}

// RunProbeAnalytics logs the analytics store version.
// Errors are logged and an empty string is returned; the probe never stops a run.
func RunProbeAnalytics(ctx context.Context, log logger.Logger, store clickhouse.Store) string {
	v, err := store.Version(ctx)
	if err != nil {
		log.Error("ClickHouse version probe failed: ", err)
		return ""
	}
	log.Info("ClickHouse version: ", v)
	return v
}

// RunProbeRelational logs the relational database version.
// Errors are logged and an empty string is returned; the probe never stops a run.
func RunProbeRelational(ctx context.Context, log logger.Logger, prober rdbms.VersionProber) string {
	v, err := prober.Version(ctx)
	if err != nil {
		log.Error("PostgreSQL version probe failed: ", err)
		return ""
	}
	v = strings.TrimSpace(v)
	log.Info("PostgreSQL version: ", v)
	return v
}
