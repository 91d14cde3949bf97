package rdbms

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFakePsql creates a shell script that echoes its arguments and PGPASSWORD, then exits with code.
func writeFakePsql(t *testing.T, code string) string {
	name := filepath.Join(t.TempDir(), "psql")
	script := "#!/bin/sh\n" +
		"echo \"args: $*\"\n" +
		"echo \"password: $PGPASSWORD\"\n" +
		"echo \"connection refused\" 1>&2\n" +
		"exit " + code + "\n"
	require.NoError(t, os.WriteFile(name, []byte(script), 0755))
	return name
}

func TestPsqlProberArgs(t *testing.T) {
	p := PsqlProber{Host: "postgres_user", User: "user", Database: "test"}
	assert.Equal(t, []string{"-h", "postgres_user", "-U", "user", "-d", "test", "-c", "SELECT version();"}, p.Args())
	p.Port = "5433"
	p.Query = "SELECT 1;"
	assert.Equal(t, []string{"-h", "postgres_user", "-p", "5433", "-U", "user", "-d", "test", "-c", "SELECT 1;"}, p.Args())
}

func TestPsqlProberVersion(t *testing.T) {
	p := PsqlProber{Binary: writeFakePsql(t, "0"), Host: "h", User: "u", Database: "d", Password: "secret"}
	out, err := p.Version(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, "args: -h h -U u -d d -c SELECT version();")
	assert.Contains(t, out, "password: secret")
	assert.False(t, strings.Contains(out, "connection refused"))
}

func TestPsqlProberFailure(t *testing.T) {
	p := PsqlProber{Binary: writeFakePsql(t, "2"), Host: "h", User: "u", Database: "d"}
	_, err := p.Version(context.Background())
	require.Error(t, err)
	var pe *PsqlError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.ExitCode)
	assert.Contains(t, pe.Error(), "connection refused")
}

func TestPsqlProberMissingBinary(t *testing.T) {
	p := PsqlProber{Binary: filepath.Join(t.TempDir(), "no-such-psql"), Host: "h", User: "u", Database: "d"}
	_, err := p.Version(context.Background())
	require.Error(t, err)
	var pe *PsqlError
	assert.False(t, errors.As(err, &pe))
}

func TestPsqlProberValidation(t *testing.T) {
	_, err := PsqlProber{Binary: "psql"}.Version(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PostgreSQL host")
}
