package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds the process-wide zap logger and installs it via
// zap.ReplaceGlobals, so every package logs through zap.L().
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
