package middleware

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const unknownService = "unknown-service"

const serviceAccountNamespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// detectServiceInfo resolves the service name and namespace for telemetry.
//
// Name: OTEL_SERVICE_NAME, then the deployment part of POD_NAME or the
// hostname ("account-75c98b4b9c-kdv2n" -> "account"), then fallback.
// Namespace: service.namespace in OTEL_RESOURCE_ATTRIBUTES, the mounted
// service account namespace, POD_NAMESPACE, then "default".
func detectServiceInfo(fallback string) (serviceName, namespace string) {
	serviceName = os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		podName := os.Getenv("POD_NAME")
		if podName == "" {
			podName, _ = os.Hostname()
		}
		serviceName = deploymentName(podName)
	}
	if serviceName == "" {
		serviceName = fallback
	}
	if serviceName == "" {
		serviceName = unknownService
	}

	return serviceName, detectNamespace()
}

// deploymentName strips the replicaset and pod hashes from a pod name.
// Names that do not look like pod names are returned unchanged.
func deploymentName(podName string) string {
	parts := strings.Split(podName, "-")
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[:len(parts)-2], "-")
}

func detectNamespace() string {
	if attrs := os.Getenv("OTEL_RESOURCE_ATTRIBUTES"); attrs != "" {
		for _, attr := range strings.Split(attrs, ",") {
			if k, v, ok := strings.Cut(attr, "="); ok && k == "service.namespace" {
				return v
			}
		}
	}
	if data, err := os.ReadFile(serviceAccountNamespaceFile); err == nil {
		return strings.TrimSpace(string(data))
	}
	if ns := os.Getenv("POD_NAMESPACE"); ns != "" {
		return ns
	}
	return "default"
}

// CreateResource builds the OpenTelemetry resource shared by tracing and
// profiling. On partial detection failure a minimal resource is returned
// together with the error.
func CreateResource(ctx context.Context, fallbackName string) (*resource.Resource, error) {
	serviceName, namespace := detectServiceInfo(fallbackName)

	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithOS(),
		resource.WithContainer(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceNamespaceKey.String(namespace),
		),
	)
	if err != nil {
		return resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceNamespaceKey.String(namespace),
		), fmt.Errorf("resource detection partial failure (using fallback): %w", err)
	}
	return res, nil
}

// GetServiceName extracts service name from a resource
func GetServiceName(res *resource.Resource) string {
	for _, attr := range res.Attributes() {
		if attr.Key == semconv.ServiceNameKey {
			return attr.Value.AsString()
		}
	}
	return unknownService
}
