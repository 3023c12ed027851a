package telemetry

import (
	"context"
	"fmt"
	"io"

	"github.com/ShrishPande/tallyinsight/internal/platform/config"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "tallyinsight"

// NewTracerProvider builds the SDK provider for the exporter named in cfg.
// "stdout" writes spans to out, "otlp" ships them over HTTP and "none" keeps
// spans in process so their context still propagates.
// Callers own the provider and must Shutdown it to flush batched spans.
func NewTracerProvider(ctx context.Context, cfg *config.Config, out io.Writer) (*sdktrace.TracerProvider, error) {
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", serviceName)))
	if err != nil {
		return nil, fmt.Errorf("building trace resource: %w", err)
	}

	options := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	switch cfg.OTelExporter {
	case "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	case "otlp":
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.OTelOTLPEndpoint))
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	case "none", "":
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.OTelExporter)
	}

	return sdktrace.NewTracerProvider(options...), nil
}
