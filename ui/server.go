package ui

import (
	"fmt"
	"log"
	"os"

	"parquetry/app"
	"parquetry/internal/config"
	"parquetry/internal/history"
	"parquetry/ports"

	"github.com/gin-gonic/gin"
)

// Server is the web surface over the conversion engine: upload + convert,
// history, download, delete, and a schema preview that never writes output.
type Server struct {
	router    *gin.Engine
	converter *app.Converter
	reader    ports.Reader
	store     history.Store
	cfg       *config.Config
}

// NewServer wires the conversion engine into an HTTP router
func NewServer(cfg *config.Config, converter *app.Converter, reader ports.Reader, store history.Store) *Server {
	s := &Server{
		router:    gin.Default(),
		converter: converter,
		reader:    reader,
		store:     store,
		cfg:       cfg,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.POST("/convert", s.handleConvert)
	s.router.POST("/preview", s.handlePreview)
	s.router.GET("/history", s.handleHistory)
	s.router.GET("/download/:id", s.handleDownload)
	s.router.DELETE("/history/:id", s.handleDelete)
}

// Router exposes the underlying router for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start ensures the working directories exist and serves until shutdown
func (s *Server) Start() error {
	for _, dir := range []string{s.cfg.Paths.UploadDir, s.cfg.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	log.Printf("[Server] Listening on port %s", s.cfg.Server.Port)
	return s.router.Run(":" + s.cfg.Server.Port)
}
