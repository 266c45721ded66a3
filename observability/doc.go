// Package observability wires OpenTelemetry tracing and metrics into seqkit
// tools.
//
// When disabled, which is the default, nothing is exported and the global
// no-op providers stay in place, so instrumented code runs unchanged.
//
// Setup:
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{Name: "seqq"})
//	defer shutdown(ctx)
//
// Instrumenting a plan run:
//
//	metrics, _ := observability.NewMetrics(observability.Meter("seqq"))
//	rc := observability.NewRunContext(runID, "count", metrics)
//	ctx, span := rc.StartSpan(ctx, observability.SpanPlanExecute)
//	...
//	rc.End(ctx, span, n, err)
package observability
