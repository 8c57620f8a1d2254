package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/inamate/canvas-go/internal/asset"
	"github.com/inamate/inamate/canvas-go/internal/auth"
	"github.com/inamate/inamate/canvas-go/internal/board"
	"github.com/inamate/inamate/canvas-go/internal/canvas"
	"github.com/inamate/inamate/canvas-go/internal/collab"
	"github.com/inamate/inamate/canvas-go/internal/config"
	"github.com/inamate/inamate/canvas-go/internal/db"
	"github.com/inamate/inamate/canvas-go/internal/db/dbgen"
	"github.com/inamate/inamate/canvas-go/internal/document"
	"github.com/inamate/inamate/canvas-go/internal/export"
	mw "github.com/inamate/inamate/canvas-go/internal/middleware"
)

// playgroundBoardID is an in-memory board anyone can join. It starts from
// the sample document and is never saved.
const playgroundBoardID = "board_playground"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := dbgen.New(pool)
	loader := asset.NewLoader(cfg.AssetDir, cfg.MaxAssetDimension,
		asset.WithRemoteHosts(cfg.RemoteHosts()...),
		asset.WithFetchTimeout(cfg.RemoteImageTimeout),
	)

	authService := auth.NewService(queries, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	boardService := board.NewService(queries, loader)
	boardHandler := board.NewHandler(boardService, int(cfg.DefaultCanvasWidth), int(cfg.DefaultCanvasHeight))

	// Canvas loader for the collaboration hub
	docLoader := func(ctx context.Context, boardID string) (*canvas.Canvas, int, error) {
		if boardID == playgroundBoardID {
			c, err := canvas.FromDocument(document.NewSampleDocument(cfg.DefaultCanvasWidth, cfg.DefaultCanvasHeight))
			return c, 0, err
		}
		return boardService.LoadCanvas(ctx, boardID)
	}

	// Canvas saver for the collaboration hub
	docSaver := func(ctx context.Context, boardID string, c *canvas.Canvas) error {
		if boardID == playgroundBoardID {
			return nil
		}
		_, err := boardService.StoreCanvas(ctx, boardID, c)
		return err
	}

	hub := collab.NewHub(docLoader, docSaver)
	go hub.Run()

	assetHandler := asset.NewHandler(cfg.AssetDir, cfg.MaxAssetDimension)
	exportHandler := export.NewHandler(loader)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, `{"status":"degraded"}`, http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	api.HandleFunc("/me", authHandler.Me).Methods("GET")
	boardHandler.Routes(api)

	// Asset and export endpoints. Upload, serve and export stay public for
	// the playground; deleting an asset needs a signed-in user.
	assetHandler.Routes(r, api)
	r.HandleFunc("/export/{format}", exportHandler.Export).Methods("POST", "OPTIONS")

	// WebSocket endpoint
	r.HandleFunc("/ws/board/{boardId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, boardService, cfg.Origins())
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all dirty boards
		slog.Info("saving all boards...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *collab.Hub, authSvc *auth.Service, boards *board.Service, origins []string) {
	boardID := mux.Vars(r)["boardId"]

	var userID, displayName string
	if boardID == playgroundBoardID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Browsers cannot set headers on websocket requests.
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if err := boards.CheckMember(r.Context(), boardID, userID); err != nil {
			http.Error(w, "not a board member", http.StatusForbidden)
			return
		}

		user, err := authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(origins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := collab.NewClient(hub, conn, userID, displayName, boardID, uuid.New().String())
	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns strips the scheme from allowed origins, which is the form
// websocket.AcceptOptions matches against.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
		} else {
			out = append(out, o)
		}
	}
	return out
}
