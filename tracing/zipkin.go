package tracing

import (
	"fmt"
	"net/http"

	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/middleware/http"
	httpreporter "github.com/openzipkin/zipkin-go/reporter/http"
)

// NewServerMiddleware traces every request and reports spans to the Zipkin
// collector at address. The returned close function flushes the reporter.
func NewServerMiddleware(address, port string) (func(http.Handler) http.Handler, func() error, error) {
	reporter := httpreporter.NewReporter("http://" + address + "/api/v2/spans")

	endpoint, err := zipkin.NewEndpoint("bloglist", "localhost:"+port)
	if err != nil {
		reporter.Close()
		return nil, nil, fmt.Errorf("unable to create local endpoint: %w", err)
	}

	tracer, err := zipkin.NewTracer(reporter, zipkin.WithLocalEndpoint(endpoint))
	if err != nil {
		reporter.Close()
		return nil, nil, fmt.Errorf("unable to create tracer: %w", err)
	}

	middleware := zipkinhttp.NewServerMiddleware(
		tracer, zipkinhttp.TagResponseSize(true),
	)
	return middleware, reporter.Close, nil
}
