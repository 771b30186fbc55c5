// Package server exposes the generation pipeline over HTTP for the browser
// editor. Concurrency control between competing revisions of one session is
// the caller's concern; each request runs one independent pipeline pass.
package server

import (
	"errors"
	"net/http"

	"posterforge/internal/model"
	"posterforge/internal/pipeline"
	"posterforge/internal/poster"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	gen      model.Generator
	pipe     *pipeline.Pipeline
	sessions *sessionStore
	log      *logrus.Logger
}

func New(gen model.Generator, pipe *pipeline.Pipeline, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		gen:      gen,
		pipe:     pipe,
		sessions: newStore(),
		log:      log,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/posters", s.handleGenerate)
		api.POST("/posters/parse", s.handleParse)
		api.GET("/posters/:id", s.handleGet)
		api.POST("/posters/:id/revise", s.handleRevise)
		api.POST("/posters/:id/undo", s.handleUndo)
		api.POST("/posters/:id/redo", s.handleRedo)
	}
	return r
}

type generateRequest struct {
	Text        string `json:"text" binding:"required"`
	StylePrompt string `json:"stylePrompt"`
}

type parseRequest struct {
	Raw string `json:"raw" binding:"required"`
}

type reviseRequest struct {
	Instruction string `json:"instruction" binding:"required"`
}

type posterResponse struct {
	SessionID string           `json:"sessionId"`
	Document  *poster.Document `json:"document"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raw, err := s.gen.GeneratePoster(c.Request.Context(), req.Text, req.StylePrompt)
	if err != nil {
		s.log.WithError(err).Error("model call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "the model service is unavailable, try again"})
		return
	}

	doc, err := s.pipe.Parse(raw)
	if err != nil {
		s.respondParseError(c, err)
		return
	}

	sess := s.sessions.create(doc)
	s.log.WithFields(logrus.Fields{"session": sess.id, "sections": len(doc.Sections)}).Info("poster generated")
	c.JSON(http.StatusOK, posterResponse{SessionID: sess.id, Document: doc})
}

// handleParse runs the ingestion pipeline over a caller-supplied raw reply.
// The browser editor uses it to re-ingest replies it fetched itself.
func (s *Server) handleParse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := s.pipe.Parse(req.Raw)
	if err != nil {
		s.respondParseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

func (s *Server) handleGet(c *gin.Context) {
	sess, ok := s.sessions.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	doc, _ := sess.current()
	c.JSON(http.StatusOK, posterResponse{SessionID: sess.id, Document: doc})
}

func (s *Server) handleRevise(c *gin.Context) {
	sess, ok := s.sessions.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}

	var req reviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	currentJSON, err := sess.currentJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	raw, err := s.gen.RevisePoster(c.Request.Context(), currentJSON, req.Instruction)
	if err != nil {
		s.log.WithError(err).Error("model call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "the model service is unavailable, try again"})
		return
	}

	doc, err := s.pipe.Parse(raw)
	if err != nil {
		s.respondParseError(c, err)
		return
	}

	sess.push(doc)
	c.JSON(http.StatusOK, posterResponse{SessionID: sess.id, Document: doc})
}

func (s *Server) handleUndo(c *gin.Context) {
	s.step(c, func(sess *session) (*poster.Document, bool) { return sess.undo() })
}

func (s *Server) handleRedo(c *gin.Context) {
	s.step(c, func(sess *session) (*poster.Document, bool) { return sess.redo() })
}

func (s *Server) step(c *gin.Context, move func(*session) (*poster.Document, bool)) {
	sess, ok := s.sessions.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
		return
	}
	doc, ok := move(sess)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "nothing to step to"})
		return
	}
	c.JSON(http.StatusOK, posterResponse{SessionID: sess.id, Document: doc})
}

func (s *Server) respondParseError(c *gin.Context, err error) {
	var perr *pipeline.ParseError
	if errors.As(err, &perr) {
		s.log.WithError(err).Warn("model reply rejected")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": perr.UserMessage()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
