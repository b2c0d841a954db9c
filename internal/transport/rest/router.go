package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"closerlab/internal/service"
	"closerlab/internal/transport/rest/handler"
	"closerlab/internal/transport/rest/middleware"
	"closerlab/internal/transport/ws"
)

// Container holds everything the router needs.
type Container struct {
	AuthService    *service.AuthService
	OfferService   *service.OfferService
	SessionService *service.SessionService
	ScoringService *service.ScoringService
	WSHandler      *ws.Handler
}

// NewRouter builds the HTTP router.
func NewRouter(c *Container) *mux.Router {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	offerHandler := handler.NewOfferHandler(c.OfferService)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.ScoringService)
	analysisHandler := handler.NewAnalysisHandler(c.SessionService, c.ScoringService)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	v1.HandleFunc("/trainees/join", authHandler.Join).Methods("POST")

	// Coach routes
	coach := v1.PathPrefix("").Subrouter()
	coach.Use(middleware.RequireCoach(c.AuthService))
	coach.HandleFunc("/offers", offerHandler.Create).Methods("POST")

	// Trainee routes
	trainee := v1.PathPrefix("").Subrouter()
	trainee.Use(middleware.RequireTrainee(c.AuthService))
	trainee.HandleFunc("/offers", offerHandler.List).Methods("GET")
	trainee.HandleFunc("/offers/{offerId}", offerHandler.Get).Methods("GET")
	trainee.HandleFunc("/sessions", sessionHandler.Start).Methods("POST")
	trainee.HandleFunc("/sessions", sessionHandler.List).Methods("GET")
	trainee.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET")
	trainee.HandleFunc("/sessions/{sessionId}/turns", sessionHandler.PostTurn).Methods("POST")
	trainee.HandleFunc("/sessions/{sessionId}/end", sessionHandler.End).Methods("POST")
	trainee.HandleFunc("/sessions/{sessionId}/voice", sessionHandler.VoiceBrief).Methods("GET")
	trainee.HandleFunc("/sessions/{sessionId}/analysis", analysisHandler.Request).Methods("POST")
	trainee.HandleFunc("/sessions/{sessionId}/analysis", analysisHandler.Get).Methods("GET")

	// WebSocket (token auth happens inside the handler, via query param)
	v1.HandleFunc("/ws/sessions/{sessionId}", c.WSHandler.TraineeWS).Methods("GET")
	v1.HandleFunc("/ws/sessions/{sessionId}/observe", c.WSHandler.ObserverWS).Methods("GET")

	r.Use(corsMiddleware)
	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
