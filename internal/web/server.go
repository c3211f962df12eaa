// Package web serves the upload form and the JSON endpoint on top of a
// pipeline runner.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"resume-rag/internal/config"
	"resume-rag/internal/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	msgMissingKey  = "Please enter your Gemini API key to begin."
	msgMissingFile = "Please upload your resume to continue."
	msgTooLarge    = "The uploaded file is too large."
)

// Runner processes one résumé request.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

type Server struct {
	cfg    *config.Config
	runner Runner
	engine *gin.Engine
	md     goldmark.Markdown
}

type pageData struct {
	Info   string
	Error  string
	Result *pipeline.Result
	Answer template.HTML
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(cfg *config.Config, runner Runner) *Server {
	s := &Server{
		cfg:    cfg,
		runner: runner,
		engine: gin.New(),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}

	s.engine.Use(gin.Recovery(), requestLogger())
	s.engine.MaxMultipartMemory = cfg.Server.MaxUploadSize
	s.engine.SetHTMLTemplate(template.Must(template.New("page").Parse(pageTemplate)))

	s.engine.GET("/", s.index)
	s.engine.GET("/health", s.health)
	s.engine.POST("/analyze", s.analyzePage)
	s.engine.POST("/api/analyze", s.analyzeJSON)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "page", pageData{})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) analyzePage(c *gin.Context) {
	result, status, msg := s.run(c)
	if result == nil {
		data := pageData{Error: msg}
		if status == http.StatusBadRequest {
			data = pageData{Info: msg}
		}
		c.HTML(status, "page", data)
		return
	}

	answer, err := s.renderMarkdown(result.Answer)
	if err != nil {
		log.Warn().Err(err).Msg("Error rendering answer, falling back to plain text")
		answer = template.HTML(template.HTMLEscapeString(result.Answer))
	}
	c.HTML(http.StatusOK, "page", pageData{Result: result, Answer: answer})
}

func (s *Server) analyzeJSON(c *gin.Context) {
	result, status, msg := s.run(c)
	if result == nil {
		c.JSON(status, errorResponse{Error: msg})
		return
	}
	c.JSON(http.StatusOK, result)
}

// run reads the form and runs the pipeline. On failure it returns a nil
// result with the status and message to show.
func (s *Server) run(c *gin.Context) (*pipeline.Result, int, string) {
	if s.cfg.Server.MaxUploadSize > 0 {
		if c.Request.ContentLength > s.cfg.Server.MaxUploadSize {
			return nil, http.StatusRequestEntityTooLarge, msgTooLarge
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxUploadSize)
	}

	file, err := c.FormFile("resume")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, msgTooLarge
		}
		if c.PostForm("api_key") == "" {
			return nil, http.StatusBadRequest, msgMissingKey
		}
		return nil, http.StatusBadRequest, msgMissingFile
	}

	apiKey := c.PostForm("api_key")
	if apiKey == "" {
		return nil, http.StatusBadRequest, msgMissingKey
	}

	f, err := file.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("Error opening upload")
		return nil, http.StatusBadRequest, msgMissingFile
	}
	defer f.Close()

	result, err := s.runner.Run(c.Request.Context(), pipeline.Request{
		APIKey:   apiKey,
		Filename: file.Filename,
		Document: f,
	})
	if err != nil {
		status, msg := s.describe(err)
		log.Error().Err(err).Int("status", status).Msg("Error analyzing resume")
		return nil, status, msg
	}
	return result, http.StatusOK, ""
}

func (s *Server) describe(err error) (int, string) {
	switch {
	case errors.Is(err, pipeline.ErrMissingAPIKey):
		return http.StatusBadRequest, msgMissingKey
	case errors.Is(err, pipeline.ErrUnsupportedModel):
		return http.StatusForbidden, fmt.Sprintf(
			"Your API key does not have access to %s. Check that the key is valid and the model is enabled.",
			s.cfg.LLM.Model)
	default:
		return http.StatusInternalServerError, "Something went wrong: " + err.Error()
	}
}

func (s *Server) renderMarkdown(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request")
	}
}
