// Package observability wires the OpenTelemetry tracer the dispatcher's
// manager and HTTP layer use for request spans. Trimmed from the teacher's
// multi-backend (DataDog/Elastic/OTLP-push) observability layer down to the
// single exporter actually reachable from this repo's go.mod: OTLP-over-HTTP,
// toggled by the standard OTEL_EXPORTER_OTLP_ENDPOINT convention. See
// DESIGN.md for why the rest of the teacher's backends were dropped instead
// of adapted.
package observability

import "time"

// Config holds the tracer provider's environment-driven knobs.
type Config struct {
	Enabled            bool          `env:"OTEL_ENABLED" envDefault:"true"`
	ServiceName        string        `env:"SERVICE_NAME" envDefault:"elevator-dispatch"`
	ServiceVersion     string        `env:"SERVICE_VERSION" envDefault:"1.0.0"`
	Environment        string        `env:"ENV" envDefault:"development"`
	ExporterEndpoint   string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ExporterTimeout    time.Duration `env:"OTEL_EXPORTER_TIMEOUT" envDefault:"10s"`
	ExporterInsecure   bool          `env:"OTEL_EXPORTER_INSECURE" envDefault:"true"`
	BatchTimeout       time.Duration `env:"OTEL_BATCH_TIMEOUT" envDefault:"5s"`
	SamplingRatio      float64       `env:"OTEL_SAMPLING_RATIO" envDefault:"1.0"`
}
