// Command hookless-demo wires a small echo Servlet to the nethttp
// container, with Prometheus metrics and slog logging, behind CORS and
// request-logging middleware. It exists to exercise the module end to end;
// application code would build its own Servlet instead of this one.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hookless-go/hookless"
	"github.com/hookless-go/hookless/metrics"
	"github.com/hookless-go/hookless/middleware"
	"github.com/hookless-go/hookless/nethttp"
	"github.com/hookless-go/hookless/reactive"
)

type CLI struct {
	Addr        string        `help:"Address to listen on." default:":8080"`
	MetricsAddr string        `help:"Address to serve /metrics on." default:":9090" name:"metrics-addr"`
	Timeout     time.Duration `help:"Per-request timeout." default:"30s"`
}

func (c *CLI) Run() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	reg := prometheus.NewRegistry()
	promMetrics := metrics.NewPrometheus(reg, "hookless_demo")

	cfg := hookless.DefaultConfig()
	cfg.Timeout = c.Timeout

	servlet := hookless.NewServlet(
		hookless.WithEvaluator(reactive.NewEvaluator()),
		hookless.WithLogger(logger),
		hookless.WithMetrics(promMetrics),
		hookless.WithConfig(cfg),
		hookless.WithGet(echoHandler),
		hookless.WithPost(echoHandler),
	)

	container := nethttp.New(servlet)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.Servlet = servlet

	var handler http.Handler = container
	handler = middleware.Logging(logger)(handler)
	handler = middleware.CORS(corsCfg)(handler)

	mux := http.NewServeMux()
	mux.Handle("/", handler)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		logger.Info("metrics listening", slog.String("addr", c.MetricsAddr))
		if err := http.ListenAndServe(c.MetricsAddr, metricsMux); err != nil {
			logger.Error("metrics server stopped", slog.Any("error", err))
		}
	}()

	logger.Info("hookless-demo listening", slog.String("addr", c.Addr))
	return http.ListenAndServe(c.Addr, mux)
}

// echoHandler reflects the method, path, and body back to the caller.
func echoHandler(req *hookless.Request) *hookless.Response {
	body := fmt.Sprintf("%s %s\n\n%s", req.Method, req.URL().Path, string(req.Data))
	return hookless.NewResponse().
		WithHeader("Content-Type", "text/plain; charset=utf-8").
		WithData([]byte(body))
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("hookless-demo"),
		kong.Description("Demo server for the hookless reactive servlet bridge."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
