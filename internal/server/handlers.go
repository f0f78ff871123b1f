package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrisight/paddy/internal/config"
	"github.com/agrisight/paddy/internal/domain"
	"github.com/agrisight/paddy/internal/intake"
	"github.com/agrisight/paddy/internal/pipeline"
)

func newValidator(cfg *config.Config) *intake.Validator {
	return intake.NewValidator(cfg.Upload.MaxBytes, cfg.Upload.AllowedTypes)
}

func (s *Server) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Recognize accepts a multipart image upload, runs the pipeline, and
// returns the created record synchronously. The multipart field is "image";
// "file" is accepted as an alias for older clients.
func (s *Server) Recognize(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		if file, err = c.FormFile("file"); err != nil {
			writeError(c, http.StatusBadRequest, domain.ErrMissingFile)
			return
		}
	}

	data, err := readAll(file, s.cfg.Upload.MaxBytes)
	if err != nil {
		s.log.Error("Failed to read upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	res := s.pipeline.Submit(c.Request.Context(), pipeline.Submission{
		Data:        data,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		OwnerID:     s.identity(c).UserID,
	})

	switch res.State {
	case pipeline.Completed:
		c.JSON(http.StatusOK, res.Record)

	case pipeline.Rejected:
		writeError(c, http.StatusBadRequest, res.Err)

	case pipeline.ClassificationFailed:
		status := http.StatusBadGateway
		if errors.Is(res.Err, domain.ErrClassificationUnavailable) {
			status = http.StatusGatewayTimeout
		}
		writeError(c, status, res.Err)

	case pipeline.PersistenceFailed:
		// the diagnosis succeeded but was not saved; hand it over once so
		// the caller can still show it, with no identifier to look up later
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     res.Err.Error(),
			"code":      domain.ErrorCode(res.Err),
			"diagnosis": res.Diagnosis,
		})
	}
}

func (s *Server) GetRecognition(c *gin.Context) {
	rec, err := s.records.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(c, http.StatusNotFound, domain.ErrNotFound)
			return
		}
		s.log.Error("Failed to load record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load record"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) GetHistory(c *gin.Context) {
	page, err1 := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, err2 := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err1 != nil || err2 != nil {
		writeError(c, http.StatusBadRequest, domain.ErrInvalidPageParams)
		return
	}

	// authenticated users see their own history; admins see everything
	owner := ""
	if id := s.identity(c); !id.Anonymous() && !id.Admin() {
		owner = id.UserID
	}

	result, err := s.history.List(c.Request.Context(), owner, page, limit, c.Query("search"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPageParams) {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		s.log.Error("Failed to list history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list history"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) GetKnowledge(c *gin.Context) {
	items, err := s.knowledge.List(c.Request.Context())
	if err != nil {
		s.log.Error("Failed to list knowledge base", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list knowledge base"})
		return
	}
	if items == nil {
		items = []domain.KnowledgeItem{}
	}
	c.JSON(http.StatusOK, items)
}

type createFeedbackRequest struct {
	Text     string `json:"text"`
	ResultID string `json:"resultId"`
}

func (s *Server) CreateFeedback(c *gin.Context) {
	var req createFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		writeError(c, http.StatusBadRequest, domain.ErrMissingText)
		return
	}

	id := s.identity(c)
	username := "anonymous"
	if !id.Anonymous() {
		username = id.UserID
	}

	fb, err := s.feedback.Create(c.Request.Context(), &domain.Feedback{
		UserID:   id.UserID,
		Username: username,
		Text:     req.Text,
		ResultID: req.ResultID,
	})
	if err != nil {
		s.log.Error("Failed to store feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store feedback"})
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (s *Server) ListFeedbacks(c *gin.Context) {
	items, err := s.feedback.List(c.Request.Context())
	if err != nil {
		s.log.Error("Failed to list feedbacks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list feedbacks"})
		return
	}
	if items == nil {
		items = []domain.Feedback{}
	}
	c.JSON(http.StatusOK, items)
}

type updateFeedbackStatusRequest struct {
	Status domain.FeedbackStatus `json:"status"`
}

func (s *Server) UpdateFeedbackStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid feedback id"})
		return
	}

	var req updateFeedbackStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, domain.ErrInvalidFeedbackState)
		return
	}

	fb, err := s.feedback.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidFeedbackState):
			writeError(c, http.StatusBadRequest, err)
		case errors.Is(err, domain.ErrNotFound):
			writeError(c, http.StatusNotFound, err)
		default:
			s.log.Error("Failed to update feedback", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update feedback"})
		}
		return
	}
	c.JSON(http.StatusOK, fb)
}

func writeError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  domain.ErrorCode(err),
	})
}

// readAll buffers the upload, stopping one byte past maxBytes so an
// oversized body is never held in memory whole. The intake size check
// still produces the rejection; this only bounds the read.
func readAll(file *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxBytes+1))
}
