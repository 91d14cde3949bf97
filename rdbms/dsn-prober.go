package rdbms

import (
	"context"
	"fmt"

	"github.com/relloyd/housepipe/helper"
	"github.com/relloyd/housepipe/logger"
)

// DsnProber connects with a Go database driver and selects the server version.
type DsnProber struct {
	Log     logger.Logger
	Details DsnConnectionDetails
}

func (p DsnProber) Version(ctx context.Context) (string, error) {
	if err := helper.ValidateStructIsPopulated(p.Details); err != nil {
		return "", err
	}
	db, connType, err := OpenDbConnection(ctx, p.Log, p.Details)
	if err != nil {
		return "", err
	}
	defer db.Close()
	q, err := VersionSql(connType)
	if err != nil {
		return "", err
	}
	h := &firstValueHandler{}
	if err = SqlQuery(ctx, p.Log, db, q, h); err != nil {
		return "", err
	}
	if !h.found {
		return "", fmt.Errorf("no rows returned by %q", q)
	}
	return h.value, nil
}

// firstValueHandler keeps the first column of the first row.
type firstValueHandler struct {
	value string
	found bool
}

func (h *firstValueHandler) HandleHeader(header []interface{}) error {
	return nil
}

func (h *firstValueHandler) HandleRow(row []interface{}) error {
	if h.found || len(row) == 0 {
		return nil
	}
	h.value = helper.InterfaceToString(row[:1])[0]
	h.found = true
	return nil
}
