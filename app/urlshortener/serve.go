package main

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	httpKit "github.com/superj80820/url-shortener/kit/http"
	httpMiddlewareKit "github.com/superj80820/url-shortener/kit/http/middleware"
	loggerKit "github.com/superj80820/url-shortener/kit/logger"
	traceKit "github.com/superj80820/url-shortener/kit/trace"
	deliveryHTTP "github.com/superj80820/url-shortener/urlshortener/delivery/http"
	"go.opentelemetry.io/otel/trace"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the http server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := createLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()

		app, err := createApplication(ctx, cfg, logger, cfg.IsDevelopment())
		if err != nil {
			return err
		}
		defer app.Close(logger)

		var tracer trace.Tracer
		if cfg.EnableTracer {
			var shutdownTracer func(context.Context) error
			tracer, shutdownTracer, err = traceKit.CreateTracerWithShutdown(ctx, SERVICE_NAME, "0.0.0")
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := shutdownTracer(shutdownCtx); err != nil {
					logger.Warn("shutdown tracer failed", loggerKit.Error(err))
				}
			}()
		} else {
			tracer = traceKit.CreateNoOpTracer()
		}

		middlewares := []endpoint.Middleware{httpMiddlewareKit.CreateLoggingMiddleware(logger)}
		if cfg.EnableMetric {
			middlewares = append(middlewares, httpMiddlewareKit.CreateMetrics(SYSTEM_NAME, SERVICE_NAME))
		}
		customMiddleware := endpoint.Chain(middlewares[0], middlewares[1:]...)

		r := mux.NewRouter()
		deliveryHTTP.MakeHTTPHandler(
			r,
			app.urlUseCase,
			customMiddleware,
			httptransport.ServerBefore(httpKit.CustomBeforeCtx(tracer)),
			httptransport.ServerAfter(httpKit.CustomAfterCtx),
			httptransport.ServerErrorEncoder(httpKit.EncodeHTTPErrorResponse()),
		)
		if cfg.EnableMetric {
			r.Handle("/metrics", promhttp.Handler())
		}

		g := new(run.Group)
		{
			httpSrv := http.Server{
				Addr:              cfg.Addr,
				Handler:           r,
				ReadHeaderTimeout: readHeaderTimeout,
			}
			g.Add(func() error {
				logger.Info("http server started",
					loggerKit.String("addr", cfg.Addr),
					loggerKit.String("db-type", cfg.DBType),
					loggerKit.Int64("machine-id", app.idGenerator.MachineID()),
				)
				if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return errors.Wrap(err, "http server failed")
				}
				return nil
			}, func(err error) {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := httpSrv.Shutdown(shutdownCtx); err != nil {
					logger.Error("shutdown http server failed", loggerKit.Error(err))
				}
			})
		}
		g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

		err = g.Run()
		var signalErr run.SignalError
		if errors.As(err, &signalErr) {
			logger.Info("received signal, shut down", loggerKit.String("signal", signalErr.Signal.String()))
			return nil
		}
		return err
	},
}
