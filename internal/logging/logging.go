// Package logging writes compile and execution events to a zap logger.
package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hanpama/lazygraph/internal/eventbus"
	"github.com/hanpama/lazygraph/internal/events"
	"github.com/hanpama/lazygraph/internal/reqid"
)

// New builds the CLI logger. dev selects zap's development config.
func New(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Register logs events from the global bus to logger and returns a function
// removing the subscriptions. Valid compiles are logged at debug and
// successful executions at info; failures of either are logged at warn.
func Register(logger *zap.Logger) (unsubscribe func()) {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.Compile) {
			fields := []zap.Field{
				zap.String("query", e.Query),
				zap.Strings("rules", e.Rules),
				zap.Duration("duration", e.Duration),
			}
			if len(e.Errors) > 0 {
				logger.Warn("graphql compile failed", append(fields, zap.Errors("errors", e.Errors))...)
				return
			}
			logger.Debug("graphql compiled", fields...)
		}),

		eventbus.Subscribe(func(ctx context.Context, e events.GraphQLFinish) {
			fields := []zap.Field{
				zap.String("query", e.Query),
				zap.String("operation", e.OperationName),
				zap.String("operation_type", e.OperationType),
				zap.Duration("duration", e.Duration),
			}
			if rid, ok := reqid.FromContext(ctx); ok {
				fields = append(fields, zap.Int64("request_id", rid))
			}
			if len(e.Errors) > 0 {
				fields = append(fields, zap.Errors("errors", e.Errors))
			}
			if e.Err != nil {
				logger.Warn("graphql execution failed", append(fields, zap.Error(e.Err))...)
				return
			}
			logger.Info("graphql executed", fields...)
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
