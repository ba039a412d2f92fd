package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/sessions"
	internalmodels "github.com/adampresley/sundayalbum/cmd/website/internal/models"
)

func newViewerAccessMiddleware(sessionService sessions.Session[*internalmodels.Viewer], excludedPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				err    error
				viewer *internalmodels.Viewer
			)

			path := r.URL.Path

			/*
			 * If this path is excluded, keep going.
			 */
			for _, excludedPath := range excludedPaths {
				if strings.HasPrefix(path, excludedPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if viewer, err = sessionService.Get(r); err != nil {
				http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
				return
			}

			ctx := context.WithValue(r.Context(), "viewer", viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
