// Copyright (c) 2025 Zonemap Project
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

// Package tracer provides the trace provider and span helpers used across
// the client.
package tracer

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	_service     = "zonemap-client"
	_defaultRate = 1.0
)

// Config is the config for tracer
type Config struct {
	// ServiceName customizes the service name
	ServiceName string `yaml:"serviceName"`
	// EndPoint is the jaeger collector endpoint
	EndPoint string `yaml:"endpoint"`
	// InstanceID must be unique for each instance of the same service
	InstanceID string `yaml:"instanceID"`
	// SamplingRatio customizes the sampling ratio, 0 never samples and 1 always samples
	SamplingRatio string `yaml:"samplingRatio"`
}

type (
	// Option is the option to set the tracer provider parameter
	Option func(ops *optionParams) error

	optionParams struct {
		serviceName   string
		endpoint      string
		instanceID    string
		samplingRatio string
	}
)

// WithServiceName defines the service name
func WithServiceName(name string) Option {
	return func(ops *optionParams) error {
		ops.serviceName = name
		return nil
	}
}

// WithEndpoint defines the jaeger collector endpoint
func WithEndpoint(endpoint string) Option {
	return func(ops *optionParams) error {
		ops.endpoint = endpoint
		return nil
	}
}

// WithInstanceID defines the instance ID
func WithInstanceID(instanceID string) Option {
	return func(ops *optionParams) error {
		ops.instanceID = instanceID
		return nil
	}
}

// WithSamplingRatio defines the sampling ratio
func WithSamplingRatio(samplingRatio string) Option {
	return func(ops *optionParams) error {
		ops.samplingRatio = samplingRatio
		return nil
	}
}

// NewProvider creates a tracer provider and registers it globally. It
// returns nil without error when no endpoint is configured.
func NewProvider(opts ...Option) (*sdktrace.TracerProvider, error) {
	var (
		ops          optionParams
		err          error
		samplingRate = _defaultRate
	)
	for _, opt := range opts {
		if err = opt(&ops); err != nil {
			return nil, err
		}
	}
	// tracing is disabled without a collector endpoint
	if ops.endpoint == "" {
		return nil, nil
	}
	if ops.serviceName == "" {
		ops.serviceName = _service
	}
	if ops.samplingRatio != "" {
		samplingRate, err = strconv.ParseFloat(ops.samplingRatio, 64)
		if err != nil {
			return nil, errors.WithMessagef(err, "invalid sampling ratio %s", ops.samplingRatio)
		}
	}
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(ops.endpoint)))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(samplingRate))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(ops.serviceName),
			attribute.String("ID", ops.instanceID),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// NewSpan creates a span on the global tracer
func NewSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer("").Start(ctx, name, opts...)
}

// SpanFromContext returns the current span from ctx
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
