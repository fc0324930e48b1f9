package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// searchRequest binds the /search payload. TopK of zero means "use the
// default"; explicit values must stay within [1, 10].
type searchRequest struct {
	Query string `json:"query" binding:"required,min=1"`
	TopK  int    `json:"top_k" binding:"omitempty,gte=1,lte=10"`
}

// sentimentRequest binds the /sentiment payload.
type sentimentRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

// documentView is the wire shape of one listed document.
type documentView struct {
	Id     uint64 `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

// handleUpload accepts a multipart file upload and schedules it for
// ingestion. The response reports the new document's id; processing happens
// asynchronously and its outcome is visible via /documents.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	doc, err := s.coordinator.Submit(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		s.logger.Error("upload failed", "filename", fileHeader.Filename, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"doc_id":   doc.Id,
		"filename": doc.Filename,
	})
}

// handleListDocuments returns all documents, newest first.
func (s *Server) handleListDocuments(c *gin.Context) {
	docs, err := s.documents.ListDocuments(c.Request.Context(), 0)
	if err != nil {
		s.logger.Error("listing documents failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]documentView, 0, len(docs))
	for _, doc := range docs {
		views = append(views, documentView{
			Id:     uint64(doc.Id),
			Name:   doc.Filename,
			Status: string(doc.Status),
			Date:   doc.UploadedAt.Format("2006-01-02 15:04"),
		})
	}
	c.JSON(http.StatusOK, views)
}

// handleSearch runs the retrieval and generation flow for a question.
func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := s.orchestrator.Ask(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		s.logger.Error("search failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, answer)
}

// handleSentiment classifies the tone of a piece of text.
func (s *Server) handleSentiment(c *gin.Context) {
	var req sentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := s.analyzer.Analyze(c.Request.Context(), req.Text)
	if err != nil {
		s.logger.Error("sentiment analysis failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
