package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"localscope/api"
	"localscope/app"
	"localscope/docs"
	"localscope/places"
)

var EnvFlag = flag.String("env", "", "Set the environment")
var ServeFlag = flag.Bool("serve", false, "Run the server")
var AddressFlag = flag.String("address", "", "Address for server")
var EndpointFlag = flag.String("endpoint", "", "Places API endpoint")

func main() {
	flag.Parse()

	if !*ServeFlag {
		fmt.Println("--serve not set")
		return
	}

	cfg := app.LoadConfig()
	if *EnvFlag != "" {
		cfg.Env = *EnvFlag
	}
	if *AddressFlag != "" {
		cfg.Address = *AddressFlag
	}
	if *EndpointFlag != "" {
		cfg.PlacesURL = *EndpointFlag
	}
	app.SetupLogger(cfg.Env)

	if err := run(cfg); err != nil {
		app.Log("main", "Server error: %v", err)
		os.Exit(1)
	}
}

func run(cfg *app.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics, err := places.NewMetrics(nil)
	if err != nil {
		return err
	}

	client := places.NewClient(cfg.PlacesURL,
		places.WithTimeout(cfg.PlacesTimeout),
		places.WithMetrics(metrics),
	)
	sessions := places.NewSessions(ctx, client, metrics, cfg.SessionTTL)
	sessions.SetLimit(cfg.MaxSessions)

	// render the api markdown
	md := api.Markdown()
	apiDoc := app.Render([]byte(md))
	apiHTML := app.RenderHTML("API", "API documentation", string(apiDoc))

	app.RegisterStatus(
		app.StatusCheck{Name: "Places API", Status: cfg.PlacesURL != "", Details: cfg.PlacesURL},
		app.StatusCheck{Name: "Request Timeout", Status: cfg.PlacesTimeout > 0, Details: cfg.PlacesTimeout.String()},
	)
	app.StatusSessionsFunc = sessions.Len

	mux := http.NewServeMux()

	// serve the search page
	places.NewHandler(sessions).Register(mux)

	// serve the api doc
	mux.Handle("/api", app.ServeHTML(apiHTML))

	// docs
	mux.HandleFunc("/about", docs.AboutHandler)
	mux.HandleFunc("/docs", docs.Handler)
	mux.HandleFunc("/docs/", docs.Handler)

	// status
	mux.HandleFunc("/status", app.StatusHandler)
	mux.HandleFunc("/health", app.HealthHandler)
	mux.Handle("/metrics", metrics.Handler())

	// serve the app
	static := app.Serve()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/places", http.StatusFound)
			return
		}
		static.ServeHTTP(w, r)
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           middleware(cfg.Env, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Log("main", "Starting server on %s (places endpoint %s)", cfg.Address, cfg.PlacesURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sessions.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		app.Log("main", "Shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func middleware(env string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env == "dev" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		if v := len(r.URL.Path); v > 1 && strings.HasSuffix(r.URL.Path, "/") {
			r.URL.Path = r.URL.Path[:v-1]
		}

		next.ServeHTTP(w, r)
	})
}
