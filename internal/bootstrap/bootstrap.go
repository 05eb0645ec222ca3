// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-arcade/activation/internal/activation"
	"github.com/go-arcade/activation/internal/config"
	"github.com/go-arcade/activation/internal/router"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/go-arcade/activation/pkg/metrics"
	"github.com/go-arcade/activation/pkg/safe"
	"github.com/gofiber/fiber/v2"
)

type App struct {
	HttpApp  *fiber.App
	Registry *activation.Registry
	Metrics  *metrics.Server
	Logger   *log.Logger
	AppConf  config.AppConfig
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	registry *activation.Registry,
	metricsServer *metrics.Server,
	logger *log.Logger,
	appConf config.AppConfig,
) (*App, func(), error) {
	httpApp := rt.Router()

	cleanup := func() {
		logger.Log.Info("Stopping activation registry...")
		registry.Stop()
	}

	app := &App{
		HttpApp:  httpApp,
		Registry: registry,
		Metrics:  metricsServer,
		Logger:   logger,
		AppConf:  appConf,
	}
	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	if _, err := os.Stat(configFile); err != nil {
		return nil, nil, fmt.Errorf("config file %s: %w", configFile, err)
	}

	// Wire build App
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	logger := app.Logger.Log
	appConf := app.AppConf

	app.Registry.Start()

	if err := app.Metrics.Start(); err != nil {
		logger.Errorw("metrics server failed to start", "error", err)
	}

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// start HTTP server (async)
	safe.Go(func() {
		addr := fmt.Sprintf("%s:%d", appConf.Http.Host, appConf.Http.Port)
		logger.Infow("HTTP listener started", "address", addr, "contextPath", appConf.Http.ContextPath)

		var err error
		if appConf.Http.TLS.CertFile != "" && appConf.Http.TLS.KeyFile != "" {
			err = app.HttpApp.ListenTLS(addr, appConf.Http.TLS.CertFile, appConf.Http.TLS.KeyFile)
		} else {
			err = app.HttpApp.Listen(addr)
		}
		if err != nil {
			logger.Errorw("HTTP listener failed", "address", addr, "error", err)
		}
	})

	// wait for exit signal
	sig := <-quit
	logger.Infof("Received signal: %v, shutting down gracefully...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), appConf.Http.ShutdownTimeoutDuration())
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown error: %v", err)
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	if err := app.Metrics.Stop(shutdownCtx); err != nil {
		logger.Errorf("metrics server shutdown error: %v", err)
	}

	// close registry, cache and database
	cleanup()

	logger.Info("Server shutdown complete")
	_ = logger.Sync()
}
