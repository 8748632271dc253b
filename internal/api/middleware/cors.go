package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewCORS creates the CORS middleware for the API. Only the methods in
// allowedMethods pass a preflight; see RouteMethods.
func NewCORS(allowedOrigins, allowedMethods []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: allowedMethods,
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
		},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// RouteMethods returns the sorted set of HTTP methods registered on routes,
// plus OPTIONS for preflight requests.
func RouteMethods(routes chi.Routes) ([]string, error) {
	methods := []string{http.MethodOptions}
	err := chi.Walk(routes, func(method, _ string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if !slices.Contains(methods, method) {
			methods = append(methods, method)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(methods)
	return methods, nil
}
