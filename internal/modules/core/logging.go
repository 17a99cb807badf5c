package core

import (
	"context"
	"errors"

	"github.com/eskrenkovic/mediator-go"

	"go.uber.org/zap"
)

const LoggerContextKey contextKey = "logger"

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// Logger returns the request scoped logger, or the global zap logger
// when none was attached.
func Logger(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.L()
}

func LogError(ctx context.Context, msg string, fields ...zap.Field) {
	Logger(ctx).Error(msg, fields...)
}

func correlationFields(ctx context.Context) []zap.Field {
	correlationID, ok := ctx.Value(CorrelationIDContextKey).(string)
	if !ok || correlationID == "" {
		return nil
	}
	return []zap.Field{zap.String("correlation_id", correlationID)}
}

var _ mediator.PipelineBehavior = (*RequestLoggingBehavior)(nil)

type RequestLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *RequestLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	logFields := correlationFields(ctx)

	if principal := Principal(ctx); principal != "" {
		logFields = append(logFields, zap.String("principal", principal))
	}

	if request != nil {
		logFields = append(logFields, zap.Any("request_body", request))
	}

	b.Logger.Info("processing request", logFields...)

	return next(ctx, request)
}

var _ mediator.PipelineBehavior = (*HandlerErrorLoggingBehavior)(nil)

// HandlerErrorLoggingBehavior logs rejected requests at warn level and
// everything else the handler returns at error level.
type HandlerErrorLoggingBehavior struct {
	Logger *zap.Logger
}

func (b *HandlerErrorLoggingBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	response, err := next(ctx, request)
	if err == nil {
		return response, nil
	}

	logFields := append(correlationFields(ctx), zap.Error(err))

	var commandErr CommandError
	if errors.As(err, &commandErr) && commandErr.StatusCode < 500 {
		b.Logger.Warn("request rejected", append(logFields, zap.Int("status_code", commandErr.StatusCode))...)
	} else {
		b.Logger.Error("handler returned error", logFields...)
	}

	return response, err
}
