package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// DefaultServiceName identifies the service in exported telemetry.
const DefaultServiceName = "orderexport"

// DefaultServiceVersion is reported when no version is configured.
const DefaultServiceVersion = "dev"

// newResource describes the running service for every signal.
func newResource(serviceName, serviceVersion string) (*resource.Resource, error) {
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	if serviceVersion == "" {
		serviceVersion = DefaultServiceVersion
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
