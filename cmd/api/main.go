// @title           Contract RAG API
// @version         1.0
// @description     Asynchronous question answering, field extraction and risk audit over uploaded contracts
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/ContractRAG/internal/bootstrap"
	"github.com/akolanti/ContractRAG/internal/config"
	jobmodel "github.com/akolanti/ContractRAG/internal/domain/jobModel"
	"github.com/akolanti/ContractRAG/internal/handlers"
	"github.com/akolanti/ContractRAG/internal/job"
	"github.com/akolanti/ContractRAG/internal/mcpServer"
	"github.com/akolanti/ContractRAG/internal/middleware"
	"github.com/akolanti/ContractRAG/internal/server"
	"github.com/akolanti/ContractRAG/internal/worker"
	"github.com/akolanti/ContractRAG/pkg/logger_i"
)

var (
	configPath        string
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	//config
	flag.StringVar(&configPath, "config", "", "yaml or toml config file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides the config")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}

	logger_i.Init(settings.IsProd)
	var logger = logger_i.NewLogger("main")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	app, err := bootstrap.New(serviceContext, settings)
	if err != nil {
		logger.Error("Could not start services", "error", err)
		return
	}
	defer app.Close()

	if settings.AuthToken == "" && !settings.NoAuthBypass {
		logger.Warn("AUTH_TOKEN is empty, every protected route will answer 401")
	}

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	logger.Info("Starting job service")
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          app.Jobs,
	})

	handlers.InitJobHandler(handlers.Config{
		JobService:     service,
		RagService:     app.Rag,
		UploadDir:      settings.UploadDir,
		MaxUploadBytes: settings.MaxUploadBytes,
	})

	//init worker pool
	worker.InitServices(service, app.Rag)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	var mcpHandler http.Handler
	if mcp, err := mcpServer.NewServer(app.Rag); err != nil {
		logger.Error("MCP endpoint disabled", "error", err)
	} else {
		mcpHandler = mcp.Handler()
	}

	mw := middleware.New(middleware.Options{
		AuthToken:    settings.AuthToken,
		NoAuthBypass: settings.NoAuthBypass,
	})
	router := server.NewRouter(mw, mcpHandler)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(settings.ListenAddr, router)

	<-stopExecution
	logger.Info("Server stopped")
}
