package api

import (
	"fmt"

	"github.com/garnizeh/uzman/internal/config"
	"github.com/garnizeh/uzman/internal/kv"
	"github.com/garnizeh/uzman/internal/repository/kvstore"
	"github.com/garnizeh/uzman/internal/session"
	"github.com/garnizeh/uzman/internal/validate"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, store kv.Store) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository and session manager over the shared store
	repo := kvstore.New(store, logger)
	sess := session.NewManager(repo, store, cfg.JWTSecret, cfg.TokenDuration, logger)

	validator, err := validate.New()
	if err != nil {
		return nil, fmt.Errorf("load schemas: %w", err)
	}

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(sess, validator)
	usersHandler := NewUsersHandler(repo, sess, validator)
	projectsHandler := NewProjectsHandler(repo, validator)
	questionsHandler := NewQuestionsHandler(repo, validator)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/v1/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/v1/projects/{id:[0-9]+}", projectsHandler.Get).Methods("GET")
	r.HandleFunc("/v1/questions", questionsHandler.List).Methods("GET")
	r.HandleFunc("/v1/questions/{id:[0-9]+}", questionsHandler.Get).Methods("GET")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(AuthMiddleware(sess))

	// Auth endpoints
	apiV1.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	// User endpoints
	apiV1.HandleFunc("/users/profile", usersHandler.Profile).Methods("GET")
	apiV1.HandleFunc("/users/{id:[0-9]+}", usersHandler.UpdateProfile).Methods("PATCH")
	apiV1.HandleFunc("/experts", usersHandler.ListExperts).Methods("GET")

	// Project endpoints
	apiV1.HandleFunc("/projects", projectsHandler.List).Methods("GET")
	apiV1.HandleFunc("/projects", projectsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/projects/{id:[0-9]+}", projectsHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/projects/{id:[0-9]+}/applications", projectsHandler.Apply).Methods("POST")
	apiV1.HandleFunc("/projects/{id:[0-9]+}/applications/{appID:[0-9]+}", projectsHandler.DecideApplication).Methods("PATCH")

	// Q&A endpoints
	apiV1.HandleFunc("/questions", questionsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/questions/{id:[0-9]+}/answers", questionsHandler.CreateAnswer).Methods("POST")
	apiV1.HandleFunc("/questions/{id:[0-9]+}/answers/{answerID:[0-9]+}/vote", questionsHandler.Vote).Methods("PUT")

	return r, nil
}
