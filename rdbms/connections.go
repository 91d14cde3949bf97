package rdbms

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/IBM/nzgo/v12"
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/logger"
	_ "github.com/sijms/go-ora/v2"
	_ "github.com/snowflakedb/gosnowflake"
	"github.com/xo/dburl"
)

// schemeTypes maps DSN schemes to connection types.
var schemeTypes = map[string]string{
	"postgres":   constants.ConnectionTypePostgres,
	"postgresql": constants.ConnectionTypePostgres,
	"pg":         constants.ConnectionTypePostgres,
	"sqlserver":  constants.ConnectionTypeSqlServer,
	"mssql":      constants.ConnectionTypeSqlServer,
	"oracle":     constants.ConnectionTypeOracle,
	"snowflake":  constants.ConnectionTypeSnowflake,
	"netezza":    constants.ConnectionTypeNetezza,
}

// DsnConnectionDetails is a simple struct to hold a DSN only.
type DsnConnectionDetails struct {
	Dsn string `errorTxt:"data source name i.e. connect string" mandatory:"yes"`
}

// Type returns the connection type for the DSN scheme.
func (d DsnConnectionDetails) Type() (string, error) {
	scheme, _ := splitScheme(d.Dsn)
	t, ok := schemeTypes[strings.ToLower(scheme)]
	if !ok {
		return "", fmt.Errorf("unsupported database type, %q", scheme)
	}
	return t, nil
}

// String returns the DSN with redacted password.
func (d DsnConnectionDetails) String() string {
	t, err := d.Type()
	if err != nil {
		return "<invalid DSN>"
	}
	switch t {
	case constants.ConnectionTypeNetezza:
		return redactNetezza(d.Dsn)
	case constants.ConnectionTypeSnowflake:
		s, err := SnowflakeParseDSN(d.Dsn)
		if err != nil {
			return "<invalid DSN>"
		}
		return s.String()
	default:
		u, err := dburl.Parse(d.Dsn)
		if err != nil {
			return "<invalid DSN>"
		}
		return u.Redacted()
	}
}

func splitScheme(dsn string) (string, string) {
	idx := strings.Index(dsn, "://")
	if idx < 0 {
		return "", dsn
	}
	return dsn[:idx], dsn[idx+3:]
}

// OpenDbConnection opens and pings the database in c.
// Oracle, Snowflake and Netezza DSNs are handled explicitly, everything else goes through dburl.
func OpenDbConnection(ctx context.Context, log logger.Logger, c DsnConnectionDetails) (db *sql.DB, connType string, err error) {
	connType, err = c.Type()
	if err != nil {
		return nil, "", err
	}
	log.Debug("opening connection type ", connType, ": ", c) // don't log password details.
	switch connType {
	case constants.ConnectionTypeOracle:
		db, err = sql.Open("oracle", c.Dsn)
	case constants.ConnectionTypeSnowflake:
		db, err = sql.Open("snowflake", strings.TrimPrefix(c.Dsn, "snowflake://"))
	case constants.ConnectionTypeNetezza:
		var dsn string
		if dsn, err = NetezzaConnectionString(c.Dsn); err != nil {
			return nil, "", err
		}
		db, err = sql.Open("nzgo", dsn)
	default:
		var u *dburl.URL
		if u, err = dburl.Parse(c.Dsn); err != nil {
			return nil, "", errors.Wrap(err, "DSN could not be parsed")
		}
		db, err = sql.Open(u.Driver, u.DSN)
	}
	if err != nil {
		return nil, "", err
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", errors.Wrapf(err, "unable to connect to %v", c)
	}
	log.Info("Successful connection to: ", c)
	return db, connType, nil
}
