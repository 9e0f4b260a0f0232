// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chain for the
// Inkpress API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"inkpress/internal/handlers"
	"inkpress/internal/loader"
	"inkpress/internal/middleware"
)

// New creates the configured Chi router with all middleware and route
// groups wired up. loaderStorage feeds the per-request relation
// batchers that hang off every request context.
func New(categories *handlers.Categories, posts *handlers.Posts, tags *handlers.Tags, loaderStorage loader.Storage, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}).Handler)

	// Health check — no loaders, no JSON envelope.
	r.Get("/health", healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(loader.Middleware(loaderStorage))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categories.List)
			r.Post("/", categories.Create)
			r.Post("/reorder", categories.Reorder)
			r.Get("/{id}", categories.Get)
			r.Put("/{id}", categories.Update)
			r.Delete("/{id}", categories.Delete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Post("/", posts.Create)
			r.Get("/slug/{slug}", posts.GetBySlug)
			r.Get("/{id}", posts.Get)
			r.Put("/{id}", posts.Update)
			r.Delete("/{id}", posts.Delete)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.List)
			r.Post("/", tags.Create)
			r.Get("/{id}", tags.Get)
			r.Put("/{id}", tags.Update)
			r.Delete("/{id}", tags.Delete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
