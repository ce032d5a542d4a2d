package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"cityevents/internal/delivery/http/controllers"
)

// NewRouter initializes the API server's router with all application routes.
func NewRouter(eventController *controllers.EventController, requestController *controllers.RequestController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST /users/{userId}/events", eventController.CreateEvent)
	mux.HandleFunc("GET /users/{userId}/events", eventController.ListEvents)
	mux.HandleFunc("GET /users/{userId}/events/{eventId}", eventController.GetEvent)
	mux.HandleFunc("PATCH /users/{userId}/events/{eventId}", eventController.UpdateEvent)
	mux.HandleFunc("PATCH /admin/events/{eventId}", eventController.UpdateEventByAdmin)

	// Participation requests
	mux.HandleFunc("POST /users/{userId}/requests", requestController.CreateRequest)
	mux.HandleFunc("GET /users/{userId}/requests", requestController.ListOwnRequests)
	mux.HandleFunc("PATCH /users/{userId}/requests/{requestId}/cancel", requestController.CancelRequest)
	mux.HandleFunc("GET /users/{userId}/events/{eventId}/requests", requestController.ListEventRequests)
	mux.HandleFunc("PATCH /users/{userId}/events/{eventId}/requests", requestController.UpdateStatus)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewStatsRouter initializes the view-statistics collector's router.
func NewStatsRouter(statsController *controllers.StatsController) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /hit", statsController.RecordHit)
	mux.HandleFunc("GET /stats", statsController.GetStats)

	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
