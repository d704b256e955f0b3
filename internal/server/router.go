package server

import (
	"context"
	"net/http"

	"winecalc/internal/handlers"
	applog "winecalc/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	mux.HandleFunc("/healthz", handlers.Health)
	applog.Debug(context.Background(), "route registered", "path", "/healthz")
	mux.HandleFunc("/login", handlers.Login)
	applog.Debug(context.Background(), "route registered", "path", "/login")
	mux.HandleFunc("/signup", handlers.Signup)
	applog.Debug(context.Background(), "route registered", "path", "/signup")
	mux.HandleFunc("/logout", handlers.Logout)
	applog.Debug(context.Background(), "route registered", "path", "/logout")

	protected := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/app", handlers.Cellar},
		{"/app/api/tanks", handlers.TankResource},
		{"/app/api/tanks/", handlers.TankResource},
		{"/app/api/blends/saved", handlers.SavedBlendResource},
		{"/app/api/blends/saved/", handlers.SavedBlendResource},
		{"/app/api/blends/", handlers.BlendCalculation},
		{"/app/blends/work-order", handlers.GenerateWorkOrder},
		{"/app/api/additions", handlers.Additions},
		{"/app/api/additions/", handlers.Additions},
	}
	for _, route := range protected {
		mux.Handle(route.path, handlers.RequireAuthentication(route.handler))
		applog.Debug(context.Background(), "route registered", "path", route.path, "protected", true)
	}

	mux.HandleFunc("/", handlers.Home)
	applog.Debug(context.Background(), "route registered", "path", "/")
	return mux
}
