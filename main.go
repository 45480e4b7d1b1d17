package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"pngdrop/backend/api/route"
	"pngdrop/backend/common"
	"pngdrop/backend/library/store"

	"github.com/gin-gonic/gin"
)

//go:embed web
var webFS embed.FS

func main() {
	cfg, err := common.LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, common.ErrUsage) {
			common.PrintUsageError(err)
			os.Exit(2)
		}
		common.FatalLog(err)
	}
	if cfg.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if cfg.PrintHelp {
		common.PrintHelp(os.Stdout)
		os.Exit(0)
	}
	if err := common.SetupGinLog(cfg.LogDir); err != nil {
		common.FatalLog(err)
	}
	common.SysLog(common.SystemName + " " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	namer, err := store.NamerFor(cfg.Naming)
	if err != nil {
		common.FatalLog(err)
	}
	st, err := store.New(cfg.Destination, namer)
	if err != nil {
		common.FatalLog(err)
	}
	common.SysLog(fmt.Sprintf("storing uploads in %s, naming: %s", st.Root(), cfg.Naming))

	server := gin.Default()
	route.SetRouter(server, cfg, st, webFS)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           server,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	done := setupGracefulShutdown(srv, cfg)

	common.SysLog("Server listening on port: " + strconv.Itoa(cfg.Port) + ", prefix: " + cfg.Prefix)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		common.FatalLog("failed to start server: " + err.Error())
	}
	<-done
}

// setupGracefulShutdown drains in-flight requests on SIGINT/SIGTERM. The
// returned channel closes once the server has stopped.
func setupGracefulShutdown(srv *http.Server, cfg *common.Config) <-chan struct{} {
	done := make(chan struct{})
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer close(done)
		<-c
		common.SysLog("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			common.SysError("Error shutting down server: " + err.Error())
		} else {
			common.SysLog("Server shut down successfully")
		}
	}()
	return done
}
