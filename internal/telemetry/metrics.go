package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/WailSalutem-Health-Care/clinic-service"

// Metrics holds the service's custom instruments. A nil *Metrics records nothing.
type Metrics struct {
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	PatientTotal     metric.Int64Counter
	VisitTotal       metric.Int64Counter
	AppointmentTotal metric.Int64Counter

	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics registers instruments on the global meter provider.
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(meterName))
}

// NewMetrics registers instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.HTTPRequestsTotal, "http_server_requests_total", "Total number of HTTP requests", "{request}"},
		{&m.PatientTotal, "patient_total", "Patient operations", "{operation}"},
		{&m.VisitTotal, "visit_total", "Clinical visit operations", "{operation}"},
		{&m.AppointmentTotal, "appointment_total", "Appointment operations", "{operation}"},
		{&m.AuthFailuresTotal, "auth_failures_total", "Authentication failures", "{failure}"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit)); err != nil {
			return nil, err
		}
	}

	if m.HTTPDurationMs, err = meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}
	if m.PermissionCheckDuration, err = meter.Float64Histogram(
		"permission_check_duration_ms",
		metric.WithDescription("Permission check duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPDurationMs.Record(ctx, durationMs, attrs)
}

func (m *Metrics) RecordPatientOperation(ctx context.Context, operation string) {
	if m != nil {
		m.PatientTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

func (m *Metrics) RecordVisitOperation(ctx context.Context, operation string) {
	if m != nil {
		m.VisitTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

// RecordAppointmentOperation counts appointment writes; state is the resulting state.
func (m *Metrics) RecordAppointmentOperation(ctx context.Context, operation, state string) {
	if m != nil {
		m.AppointmentTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("state", state),
		))
	}
}

func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	if m != nil {
		m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	if m != nil {
		m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
			attribute.String("permission", permission),
			attribute.Bool("allowed", allowed),
		))
	}
}
