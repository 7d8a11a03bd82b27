//
// NEWS
// ====
// A news publishing service: paginated newest-first listings, search, article
// pages and permission-gated writes for members of the "author" group.
//
// Also check the generated docs from passing the -routes flag,
// to run yourself do: `go run . -routes`
//
// Prepare the database:
// ---------------------
// $ go run . init -category Sports
// $ go run . init -user kate -password secret123
// $ go run . init -superuser -user kate
//
// Boot the server:
// ----------------
// $ go run .
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/news/
// {"news":[],"page":{"number":1,"size":3,...},"is_not_author":true}
//
// $ curl -c jar -X POST -H 'Content-Type: application/json' \
//     -d '{"username":"kate","password":"secret123"}' http://localhost:3333/accounts/login
//
// $ curl -b jar -X POST http://localhost:3333/upgrade
//
// $ curl -b jar -X POST -H 'Content-Type: application/json' \
//     -d '{"title":"Derby","body":"**2:1**","category":"Sports"}' http://localhost:3333/news/create
//
// $ curl 'http://localhost:3333/news/search?category=Sports&page=1'
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"github.com/SergeyParamoshkin/news/internal/config"
	"github.com/SergeyParamoshkin/news/internal/db"
	"github.com/SergeyParamoshkin/news/internal/errresponse"
	"github.com/SergeyParamoshkin/news/internal/metrics"
)

const ServiceName = "news"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "init" {
		os.Exit(runInit(os.Args[2:]))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln(err)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalln(err)
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	promConfig := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(promConfig.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(promConfig, c)
	if err != nil {
		sugar.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	sqlDB, err := db.OpenURL(cfg.DB)
	if err != nil {
		sugar.Errorw("could not open database", "error", err)
		return
	}
	defer func() {
		sugar.Infow("closing database")
		sqlDB.Close()
	}()

	a, err := NewApp(context.Background(), sugar, cfg, sqlDB, metrics.New(global.Meter(ServiceName)))
	if err != nil {
		sugar.Errorw("could not assemble app", "error", err)
		return
	}
	r := a.routes()

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if cfg.Routes {
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/news",
			Intro:       "Routes of the news publishing service.",
		}))

		return
	}

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	serve(sugar, map[string]http.Handler{
		cfg.Addr:     r,
		cfg.DiagAddr: diagRouter,
	})
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// serve runs one server per address until SIGINT or SIGTERM, or until one of
// them fails, and then shuts all of them down.
func serve(sugar *zap.SugaredLogger, handlers map[string]http.Handler) {
	stop := make(chan os.Signal, len(handlers)+1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	servers := make([]*http.Server, 0, len(handlers))
	for addr, h := range handlers {
		srv := &http.Server{
			Addr:         addr,
			Handler:      h,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		servers = append(servers, srv)

		go func() {
			sugar.Infow("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				sugar.Errorw(err.Error(), "addr", srv.Addr)
				stop <- os.Interrupt
			}
		}()
	}

	<-stop
	sugar.Infow("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			sugar.Errorw("shutdown", "addr", srv.Addr, "error", err)
		}
	}
}

func init() {
	render.Respond = errresponse.Respond
}
