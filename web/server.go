package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mogaika/anm_browser/vfs"
)

var ServerDirectory vfs.Directory

func NewRouter(d vfs.Directory) http.Handler {
	ServerDirectory = d

	r := mux.NewRouter()
	route := func(path string, h http.HandlerFunc, methods ...string) {
		r.HandleFunc(path, metrics.InstrumentHandler(path, h)).Methods(methods...)
	}
	route("/json/pack", HandlerAjaxPack, http.MethodGet)
	route("/json/pack/{file}", HandlerAjaxPackFile, http.MethodGet)
	route("/json/pack/{file}/{class}", HandlerAjaxPackFileClass, http.MethodGet)
	route("/json/pack/{file}/{class}/{animation}", HandlerAjaxPackFileAnimation, http.MethodGet)
	route("/dump/pack/{file}", HandlerDumpPackFile, http.MethodGet, http.MethodHead)
	route("/dump/pack/{file}/{format}", HandlerDumpPackFileFormat, http.MethodGet)
	route("/upload/pack/{file}", HandlerUploadPackFile, http.MethodPost)

	// the websocket hijacks the connection and is not instrumented
	r.HandleFunc("/ws/status", HandlerStatusWs)
	r.Handle("/metrics", promhttp.Handler())

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r)
}

func StartServer(addr string, d vfs.Directory) error {
	h := handlers.LoggingHandler(os.Stdout, NewRouter(d))

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
