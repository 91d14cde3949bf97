package actions

import (
	"fmt"
	"io"
	"os"

	"github.com/relloyd/housepipe/logger"
	"github.com/sirupsen/logrus"
)

// stdout is where definitions and DDL are printed.
var stdout io.Writer = os.Stdout

func validateLogLevel(level string) error {
	if _, err := logrus.ParseLevel(level); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	return nil
}

func getPrintLogFunc(log logger.Logger, useStdOut bool) func(msg string) {
	return func(msg string) {
		if useStdOut {
			fmt.Fprintln(stdout, msg)
		} else {
			log.Info(msg)
		}
	}
}
