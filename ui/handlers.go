package ui

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"parquetry/domain/profile"
	"parquetry/domain/table"
	"parquetry/internal/errors"
	"parquetry/internal/history"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// allowedExtensions lists the upload types the reader supports
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".csv":  true,
}

// handleConvert accepts a spreadsheet upload, converts it to parquet under a
// uuid-prefixed name, records the outcome in history, and removes the upload
// once the artifact exists.
func (s *Server) handleConvert(c *gin.Context) {
	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing file upload"})
		return
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("unsupported file type %s; only .xlsx and .csv are accepted", ext),
		})
		return
	}

	id := uuid.NewString()
	inputPath := filepath.Join(s.cfg.Paths.UploadDir, id+"_"+filepath.Base(upload.Filename))
	if err := c.SaveUploadedFile(upload, inputPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to store upload"})
		return
	}

	convertedName := strings.TrimSuffix(filepath.Base(upload.Filename), ext) + ".parquet"
	outputPath := filepath.Join(s.cfg.Paths.OutputDir, id+"_"+convertedName)

	outcome := s.converter.Convert(c.Request.Context(), inputPath, outputPath, nil)
	if !outcome.Success {
		os.Remove(inputPath)
		status := http.StatusInternalServerError
		if outcome.ErrorCode == errors.CodeSourceRead {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"detail": outcome.Error, "code": outcome.ErrorCode})
		return
	}

	// The upload has served its purpose once the artifact exists.
	os.Remove(inputPath)

	entry := history.NewEntry(id, filepath.Base(upload.Filename), convertedName,
		outcome.InputSize, outcome.OutputSize, outcome.Elapsed)
	if err := s.store.Add(entry); err != nil {
		log.Printf("[Server] history add failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             id,
		"original_name":  entry.OriginalName,
		"converted_name": entry.ConvertedName,
		"original_size":  entry.OriginalSize,
		"converted_size": entry.ConvertedSize,
		"elapsed_ms":     entry.ElapsedMs,
		"download_url":   "/download/" + id,
	})
}

// handlePreview runs the schema pipeline on an upload without writing any
// output: resolved schema plus per-column summaries.
func (s *Server) handlePreview(c *gin.Context) {
	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "missing file upload"})
		return
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("unsupported file type %s; only .xlsx and .csv are accepted", ext),
		})
		return
	}

	tmpPath := filepath.Join(s.cfg.Paths.UploadDir, "preview_"+uuid.NewString()+ext)
	if err := c.SaveUploadedFile(upload, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to store upload"})
		return
	}
	defer os.Remove(tmpPath)

	raw, err := s.reader.Read(tmpPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error(), "code": errors.GetCode(err)})
		return
	}

	schema, cols := table.Resolve(table.NormalizeTable(raw))
	c.JSON(http.StatusOK, gin.H{
		"schema":  schema,
		"columns": profile.SummarizeAll(cols),
		"rows":    raw.RowCount(),
	})
}

// handleHistory returns all retained conversion records, newest first
func (s *Server) handleHistory(c *gin.Context) {
	entries, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// handleDownload streams a converted artifact by its history id
func (s *Server) handleDownload(c *gin.Context) {
	id := c.Param("id")
	path, name, ok := s.findArtifact(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "file not found or expired"})
		return
	}
	c.FileAttachment(path, name)
}

// handleDelete removes a history entry along with its artifact
func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	if path, _, ok := s.findArtifact(id); ok {
		if err := os.Remove(path); err != nil {
			log.Printf("[Server] failed to remove artifact %s: %v", path, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// findArtifact locates the output file written for a conversion id. Artifacts
// are stored as "<id>_<original base>.parquet".
func (s *Server) findArtifact(id string) (path, name string, ok bool) {
	entries, err := os.ReadDir(s.cfg.Paths.OutputDir)
	if err != nil {
		return "", "", false
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), id+"_") {
			return filepath.Join(s.cfg.Paths.OutputDir, e.Name()),
				strings.TrimPrefix(e.Name(), id+"_"), true
		}
	}
	return "", "", false
}
