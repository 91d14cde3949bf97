package rdbms

import (
	"context"
	"fmt"

	"github.com/relloyd/housepipe/constants"
)

// VersionProber returns the version banner of a relational database.
type VersionProber interface {
	Version(ctx context.Context) (string, error)
}

var versionSql = map[string]string{
	constants.ConnectionTypePostgres:  "SELECT version()",
	constants.ConnectionTypeNetezza:   "SELECT version()",
	constants.ConnectionTypeSqlServer: "SELECT @@VERSION",
	constants.ConnectionTypeSnowflake: "SELECT CURRENT_VERSION()",
	constants.ConnectionTypeOracle:    "SELECT banner FROM v$version WHERE ROWNUM = 1",
}

// VersionSql returns the statement that fetches the server version for connectionType.
func VersionSql(connectionType string) (string, error) {
	s, ok := versionSql[connectionType]
	if !ok {
		return "", fmt.Errorf("unsupported database type, %q", connectionType)
	}
	return s, nil
}
