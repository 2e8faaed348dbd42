// Package telemetry installs the OpenTelemetry tracer provider. Tracing is
// exported over OTLP gRPC only when OTEL_EXPORTER_OTLP_ENDPOINT is set;
// otherwise the global no-op provider stays in place.
package telemetry

import (
	"context"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	apperrors "github.com/agbru/epanalyzer/internal/errors"
)

// EndpointEnv names the variable that enables export.
const EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// DefaultServiceName is used when Init is given an empty name.
const DefaultServiceName = "epanalyzer"

const initTimeout = 3 * time.Second

// Shutdown flushes and stops the tracer provider.
type Shutdown func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init configures tracing for serviceName. The returned Shutdown is never
// nil, even on error.
func Init(serviceName string) (Shutdown, error) {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	endpoint := strings.TrimSpace(os.Getenv(EndpointEnv))
	if endpoint == "" {
		return noopShutdown, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	if err != nil {
		return noopShutdown, apperrors.WrapError(err, "otlp exporter")
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return noopShutdown, apperrors.WrapError(err, "otel resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exp),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer returns a named tracer from the global provider.
func Tracer(name string) trace.Tracer {
	if n := strings.TrimSpace(name); n != "" {
		return otel.Tracer(n)
	}
	return otel.Tracer(DefaultServiceName)
}
