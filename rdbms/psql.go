package rdbms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/relloyd/housepipe/constants"
	"github.com/relloyd/housepipe/helper"
)

// PsqlProber runs the psql command line client to fetch the PostgreSQL version.
type PsqlProber struct {
	Binary   string `errorTxt:"psql binary" mandatory:"yes"`
	Host     string `errorTxt:"PostgreSQL host" mandatory:"yes"`
	Port     string
	User     string `errorTxt:"PostgreSQL user" mandatory:"yes"`
	Database string `errorTxt:"PostgreSQL database" mandatory:"yes"`
	Password string
	Query    string
}

// PsqlError is returned when psql exits with a non-zero code.
type PsqlError struct {
	ExitCode int
	Stderr   string
}

func (e *PsqlError) Error() string {
	return fmt.Sprintf("psql exited with code %v: %v", e.ExitCode, strings.TrimSpace(e.Stderr))
}

// Args returns the psql command line arguments.
func (p PsqlProber) Args() []string {
	args := []string{"-h", p.Host}
	if p.Port != "" {
		args = append(args, "-p", p.Port)
	}
	q := p.Query
	if q == "" {
		q = "SELECT version();"
	}
	return append(args, "-U", p.User, "-d", p.Database, "-c", q)
}

// Version runs psql and returns its standard output.
// The password is passed to psql in the PGPASSWORD environment variable, never on the command line.
func (p PsqlProber) Version(ctx context.Context) (string, error) {
	if err := helper.ValidateStructIsPopulated(p); err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, p.Binary, p.Args()...)
	env := os.Environ()
	if p.Password != "" {
		env = helper.EnvWithOverride(env, constants.EnvVarPgPassword, p.Password)
	}
	cmd.Env = env
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &PsqlError{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return "", fmt.Errorf("error running %v: %w", p.Binary, err)
	}
	return stdout.String(), nil
}
