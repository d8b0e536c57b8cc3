package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/skinpack/config"
	"github.com/mogaika/skinpack/status"
	"github.com/mogaika/skinpack/store"
	"github.com/mogaika/skinpack/utils"
)

// Server exposes the codec, collapser and shader generator over http.
// Store may be nil, then the store routes report an error.
type Server struct {
	Pipeline *config.Pipeline
	Store    *store.Store
	Log      *utils.Logger
	Status   *status.Hub
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/shader/{palette}", s.HandlerShader).Methods("GET")
	r.HandleFunc("/shader/{palette}/inspect", s.HandlerShaderInspect).Methods("GET")
	r.HandleFunc("/anim/inspect", s.HandlerAnimInspect).Methods("POST")
	r.HandleFunc("/mesh/collapse", s.HandlerMeshCollapse).Methods("POST")
	r.HandleFunc("/store/animations", s.HandlerStoreList).Methods("GET")
	r.HandleFunc("/store/animations", s.HandlerStoreUpload).Methods("POST")
	r.HandleFunc("/store/animations/{name}", s.HandlerStoreAnimation).Methods("GET")
	r.HandleFunc("/store/animations/{name}", s.HandlerStoreDelete).Methods("DELETE")
	if s.Status != nil {
		r.HandleFunc("/ws/status", s.Status.HandlerWebsocket)
	}
	return r
}

func StartServer(addr string, s *Server) error {
	h := handlers.RecoveryHandler()(s.Router())
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
