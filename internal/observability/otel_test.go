package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tbourn/go-shop-backend/internal/config"
)

// preserveOTelGlobals restores the process-wide tracer provider and
// propagator after a test, since SetupOTel mutates both.
func preserveOTelGlobals(t *testing.T) {
	t.Helper()
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
}

func enabledConfig(service string) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    true,
		Endpoint:    "localhost:4317",
		ServiceName: service,
		SampleRatio: 1.0,
	}
}

func TestSetupOTel_DisabledIsNoOp(t *testing.T) {
	preserveOTelGlobals(t)
	prevTP := otel.GetTracerProvider()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Enabled: false}, "v0")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatal("disabled setup replaced the tracer provider")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
}

func TestSetupOTel_InsecureInstallsProviderAndPropagator(t *testing.T) {
	preserveOTelGlobals(t)

	shutdown, err := SetupOTel(context.Background(), enabledConfig("shop-insecure"), "v1")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("tracer provider = %T, want *sdktrace.TracerProvider", otel.GetTracerProvider())
	}

	// The composite propagator must round-trip a span context.
	ctx, span := otel.Tracer("setup-test").Start(context.Background(), "op")
	span.End()
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	if len(carrier) == 0 {
		t.Fatal("propagator injected nothing")
	}
	_ = otel.GetTextMapPropagator().Extract(context.Background(), carrier)
}

func TestSetupOTel_TLSBranch(t *testing.T) {
	preserveOTelGlobals(t)

	cfg := enabledConfig("shop-tls")
	cfg.Insecure = false
	shutdown, err := SetupOTel(context.Background(), cfg, "v1")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
		t.Fatalf("tracer provider = %T", otel.GetTracerProvider())
	}
}

func TestSetupOTel_ExporterErrorLeavesGlobalsUntouched(t *testing.T) {
	preserveOTelGlobals(t)

	orig := newOTLPExporterFn
	defer func() { newOTLPExporterFn = orig }()
	newOTLPExporterFn = func(ctx context.Context, client otlptrace.Client) (*otlptrace.Exporter, error) {
		return nil, errors.New("exporter unavailable")
	}

	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()

	if _, err := SetupOTel(context.Background(), enabledConfig("shop-expfail"), "v1"); err == nil {
		t.Fatal("expected exporter error")
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatal("tracer provider replaced despite setup failure")
	}
	if otel.GetTextMapPropagator() != prevProp {
		t.Fatal("propagator replaced despite setup failure")
	}
}

func TestSetupOTel_ResourceErrorLeavesGlobalsUntouched(t *testing.T) {
	preserveOTelGlobals(t)

	orig := newServiceResourceFn
	defer func() { newServiceResourceFn = orig }()
	newServiceResourceFn = func(ctx context.Context, serviceName, version string) (*resource.Resource, error) {
		return nil, errors.New("resource unavailable")
	}

	prevTP := otel.GetTracerProvider()

	if _, err := SetupOTel(context.Background(), enabledConfig("shop-resfail"), "v1"); err == nil {
		t.Fatal("expected resource error")
	}
	if otel.GetTracerProvider() != prevTP {
		t.Fatal("tracer provider replaced despite setup failure")
	}
}

func TestSetupOTel_ShutdownIsCallable(t *testing.T) {
	preserveOTelGlobals(t)

	shutdown, err := SetupOTel(context.Background(), enabledConfig("shop-shutdown"), "v1")
	if err != nil {
		t.Fatalf("SetupOTel: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
