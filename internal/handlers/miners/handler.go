package miners

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/RapidPrime/ReferenceClient/internal/core/services/status"
	"github.com/RapidPrime/ReferenceClient/internal/handlers"
)

type ApiHandler struct {
	StatusService status.IStatusService
}

func NewHandler(statusService status.IStatusService) *ApiHandler {
	return &ApiHandler{
		StatusService: statusService,
	}
}

func (api *ApiHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/status", api.GetStatus).Methods("GET")
	r.HandleFunc("/api/stats", api.GetStats).Methods("GET")
	r.HandleFunc("/api/threads", api.GetThreads).Methods("GET")
}

func (api *ApiHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, api.StatusService.Status(r.Context()))
}

func (api *ApiHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, api.StatusService.Stats(r.Context()))
}

func (api *ApiHandler) GetThreads(w http.ResponseWriter, r *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, api.StatusService.Threads(r.Context()))
}
