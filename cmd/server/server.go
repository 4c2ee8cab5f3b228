package main

import (
	"errors"
	"net/http"

	appcore "assesscore/app/core"
	"assesscore/app/session"
	"assesscore/domain/assessment"
	"assesscore/domain/core"
	"assesscore/internal"

	"github.com/gin-gonic/gin"
)

// Server is the thin gin.Engine wrapper over app/core.Service: one handler
// per §6 operation, JSON in/out, no auth, no validation beyond what the
// service already does.
type Server struct {
	router  *gin.Engine
	service *appcore.Service
	logger  *internal.Logger
}

// NewServer builds the router and registers routes.
func NewServer(service *appcore.Service, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{router: gin.Default(), service: service, logger: logger}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.POST("/candidates", s.handleCreateCandidate)
	s.router.POST("/assessments", s.handleCreateAssessment)
	s.router.POST("/assessments/:id/start", s.handleStartAssessment)
	s.router.GET("/assessments/:id/next", s.handleNextItem)
	s.router.POST("/assessments/:id/responses", s.handleRespondItem)
	s.router.POST("/assessments/:id/complete", s.handleCompleteAssessment)
	s.router.GET("/assessments/:id/match/:modelId", s.handleComputeMatch)
	s.router.GET("/assessments/:id/interview/:modelId", s.handleInterviewQuestions)
}

// Start runs the HTTP server on addr, blocking until it exits.
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

type createCandidateRequest struct {
	Attributes map[string]interface{} `json:"attributes"`
}

func (s *Server) handleCreateCandidate(c *gin.Context) {
	var req createCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := s.service.CreateCandidate(c.Request.Context(), req.Attributes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"candidateId": id})
}

type createAssessmentRequest struct {
	CandidateID string `json:"candidateId" binding:"required"`
	Type        string `json:"type" binding:"required"`
}

func (s *Server) handleCreateAssessment(c *gin.Context) {
	var req createAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := s.service.CreateAssessment(c.Request.Context(), core.CandidateID(req.CandidateID), assessment.Type(req.Type))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assessmentId": id})
}

func (s *Server) handleStartAssessment(c *gin.Context) {
	id := core.AssessmentID(c.Param("id"))
	section, err := s.service.StartAssessment(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"firstSection": section})
}

func (s *Server) handleNextItem(c *gin.Context) {
	id := core.AssessmentID(c.Param("id"))
	res, err := s.service.NextItem(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nextItemResponse(res))
}

func nextItemResponse(res session.NextResult) gin.H {
	body := gin.H{
		"sectionComplete": res.SectionComplete,
		"assessmentDone":  res.AssessmentDone,
	}
	if res.Item != nil {
		body["item"] = res.Item
	}
	if res.SectionComplete && !res.AssessmentDone {
		body["nextSection"] = res.NextSection
	}
	return body
}

type respondRequest struct {
	ItemID         string  `json:"itemId" binding:"required"`
	ResponseTimeMs int     `json:"responseTimeMs"`
	Likert         *int    `json:"likert,omitempty"`
	MultipleChoice *string `json:"multipleChoice,omitempty"`
	ForcedChoice   *string `json:"forcedChoice,omitempty"`
	Binary         *bool   `json:"binary,omitempty"`
}

func (r respondRequest) toResponseValue() (assessment.ResponseValue, error) {
	switch {
	case r.Likert != nil:
		return assessment.ParseLikert(*r.Likert)
	case r.MultipleChoice != nil:
		return assessment.MultipleChoiceResponse{Value: *r.MultipleChoice}, nil
	case r.ForcedChoice != nil:
		return assessment.ParseForcedChoice(*r.ForcedChoice)
	case r.Binary != nil:
		return assessment.BinaryResponse{Value: *r.Binary}, nil
	default:
		return nil, core.NewInputInvalidError("response", "exactly one of likert/multipleChoice/forcedChoice/binary must be set")
	}
}

func (s *Server) handleRespondItem(c *gin.Context) {
	id := core.AssessmentID(c.Param("id"))
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	value, err := req.toResponseValue()
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.service.RespondItem(c.Request.Context(), id, core.ItemID(req.ItemID), value, req.ResponseTimeMs); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ack": true})
}

func (s *Server) handleCompleteAssessment(c *gin.Context) {
	id := core.AssessmentID(c.Param("id"))
	scores, err := s.service.CompleteAssessment(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": scores})
}

func (s *Server) handleComputeMatch(c *gin.Context) {
	id := core.AssessmentID(c.Param("id"))
	modelID := core.PerformanceModelID(c.Param("modelId"))
	m, err := s.service.ComputeMatch(c.Request.Context(), id, modelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) handleInterviewQuestions(c *gin.Context) {
	id := core.AssessmentID(c.Param("id"))
	modelID := core.PerformanceModelID(c.Param("modelId"))
	blocks, err := s.service.InterviewQuestions(c.Request.Context(), id, modelID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocks": blocks})
}

// writeError maps the domain sentinel-error chain onto an HTTP status,
// per §7's propagation policy.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrInputInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrStateInvalid):
		status = http.StatusConflict
	case errors.Is(err, core.ErrAssessmentExpired):
		status = http.StatusGone
	case errors.Is(err, core.ErrEstimationDiverged):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
