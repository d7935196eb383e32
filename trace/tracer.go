// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package trace exports ledger spans to a zipkin collector.
package trace

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/countervm/consts"
)

const (
	DefaultEndpoint   = "http://localhost:9411/api/v2/spans"
	DefaultSampleRate = 0.1

	exportTimeout = 10 * time.Second
	// Must exceed [exportTimeout] so a pending batch can flush on Close.
	shutdownTimeout = 15 * time.Second
)

type Config struct {
	Enabled bool `json:"enabled"`

	// Fraction of root spans sampled. Children follow their parent.
	SampleRate float64 `json:"sampleRate"`

	// Zipkin collector spans are exported to.
	Endpoint string `json:"endpoint"`

	// Reported as the service name of every span.
	ServiceName string `json:"serviceName"`
	Version     string `json:"version"`
}

func NewDefaultConfig() Config {
	return Config{
		SampleRate:  DefaultSampleRate,
		Endpoint:    DefaultEndpoint,
		ServiceName: consts.Name,
		Version:     consts.Version,
	}
}

type tracer struct {
	oteltrace.Tracer

	provider *sdktrace.TracerProvider
}

func (t *tracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return t.provider.Shutdown(ctx)
}

// New returns the avalanchego no-op tracer unless [config] enables export.
func New(config Config) (trace.Tracer, error) {
	if !config.Enabled {
		return trace.Noop, nil
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	exporter, err := zipkin.New(endpoint)
	if err != nil {
		return nil, err
	}
	serviceName := config.ServiceName
	if serviceName == "" {
		serviceName = consts.Name
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			attribute.String("version", config.Version),
		)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(config.SampleRate))),
	)
	return &tracer{
		Tracer:   provider.Tracer(serviceName),
		provider: provider,
	}, nil
}
