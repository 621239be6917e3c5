package main

import (
	"expvar"
	"net/http"
	"os"

	"github.com/docker/go-metrics"
	gorhandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// configureDebugServer starts the debug/metrics listener at addr, if set.
// It never blocks the caller; a listen failure is fatal since it means
// the operator asked for a debug server and didn't get one.
func configureDebugServer(addr string) {
	if addr == "" {
		return
	}

	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler())
	router.Handle("/debug/vars", expvar.Handler())

	handler := gorhandlers.CombinedLoggingHandler(os.Stdout, router)

	go func(addr string) {
		logrus.Infof("debug server listening %v", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			logrus.Fatalf("error listening on debug interface: %v", err)
		}
	}(addr)
}
