package core

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"dev.lkm.one/crosscheck/common"
	"dev.lkm.one/crosscheck/util"
)

type serverMetrics struct {
	registry    *prometheus.Registry
	callsTotal  *prometheus.CounterVec
	runDuration prometheus.Histogram
}

func newServerMetrics() *serverMetrics {
	registry := prometheus.NewRegistry()
	util.NewExporterMetric(registry, common.PrometheusNamespace, common.AppVersion)
	return &serverMetrics{
		registry: registry,
		callsTotal: util.NewCounterVec(registry, common.PrometheusNamespace, "upstream", "calls_total",
			"Upstream calls by source, operation and outcome.", []string{"source", "operation", "outcome"}),
		runDuration: util.NewHistogram(registry, common.PrometheusNamespace, "diagnostic", "run_duration_seconds",
			"Duration of full diagnostic runs.", []float64{0.5, 1, 2.5, 5, 10, 30, 60}),
	}
}

func (metrics *serverMetrics) observe(source string, operation string, duration time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	metrics.callsTotal.WithLabelValues(source, operation, outcome).Inc()
}

// StartServer - Start the HTTP server in the background. It embeds the
// diagnostic payload in a web handler and exposes Prometheus metrics.
func StartServer(waitGroup *sync.WaitGroup, shutdown *util.ShutdownChannelDistributor, config *common.Config, engine *Engine) {
	shutdownChannel := make(chan bool, 1)
	if !shutdown.AddListener(shutdownChannel) {
		return
	}
	waitGroup.Add(1)

	metrics := newServerMetrics()
	engine.Observe = metrics.observe

	// Configure
	var mainServeMux http.ServeMux
	mainServeMux.HandleFunc("/", handleOtherRequest)
	mainServeMux.HandleFunc("/diagnose", handleDiagnoseRequest(engine, metrics))
	mainServeMux.Handle("/metrics", promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:    config.HTTPEndpoint,
		Handler: &mainServeMux,
	}

	// Run
	var shutdownContextCancel context.CancelFunc = nil
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
		}
		// Cancel shutdown timer
		if shutdownContextCancel != nil {
			shutdownContextCancel()
		}
		log.Info("HTTP server stopped")
		waitGroup.Done()
	}()

	// Shutdown
	go func() {
		<-shutdownChannel
		var shutdownContext context.Context
		shutdownContext, shutdownContextCancel = context.WithTimeout(context.Background(), 5*time.Second)
		server.Shutdown(shutdownContext)
	}()

	log.Infof("HTTP server started: %v", config.HTTPEndpoint)
}

func handleOtherRequest(response http.ResponseWriter, request *http.Request) {
	if request.URL.Path == "/" {
		fmt.Fprintf(response, "%s version %s by %s.\n", common.AppName, common.AppVersion, common.AppAuthor)
		fmt.Fprintf(response, "\nPaths:\n")
		fmt.Fprintf(response, "- Diagnose: /diagnose?identity=<identity>\n")
		fmt.Fprintf(response, "- Metrics: /metrics\n")
	} else {
		http.Error(response, "404 - Page not found.\n", http.StatusNotFound)
	}
}

func handleDiagnoseRequest(engine *Engine, metrics *serverMetrics) http.HandlerFunc {
	return func(response http.ResponseWriter, request *http.Request) {
		log.WithFields(log.Fields{
			"endpoint": "diagnose",
			"client":   request.RemoteAddr,
			"url":      request.URL,
		}).Trace("Request")

		identity := request.URL.Query().Get("identity")
		if identity == "" {
			http.Error(response, "identity is required\n", http.StatusBadRequest)
			return
		}

		startTime := time.Now()
		result, err := engine.RunDiagnostic(request.Context(), identity)
		metrics.runDuration.Observe(time.Since(startTime).Seconds())
		if err != nil {
			log.WithError(err).Error("Diagnostic run failed")
			http.Error(response, "diagnostic run failed\n", http.StatusBadGateway)
			return
		}

		payload, err := result.MarshalJSON()
		if err != nil {
			http.Error(response, "failed to encode report\n", http.StatusInternalServerError)
			return
		}
		response.Header().Set("Content-Type", "application/json")
		response.Write(payload)
	}
}
