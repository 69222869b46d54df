package server

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/vocabcheck/internal/model"
	"github.com/ppiankov/vocabcheck/internal/render"
)

// EvaluateResponse is the JSON body returned by POST /api/evaluate
type EvaluateResponse struct {
	Report  string         `json:"report"`
	Verdict *model.Verdict `json:"verdict"`
}

// ErrorResponse is the JSON body returned for failed requests
type ErrorResponse struct {
	Error string            `json:"error"`
	Kind  model.FailureKind `json:"kind,omitempty"`
}

type pageData struct {
	Sentence    string
	TargetWord  string
	ExpectedPOS string
	Feedback    template.HTML
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index", pageData{})
}

func (s *Server) handleForm(c *gin.Context) {
	req := model.EvaluationRequest{
		Sentence:    c.PostForm("sentence"),
		TargetWord:  c.PostForm("target_word"),
		ExpectedPOS: c.PostForm("expected_pos"),
	}

	var feedback string
	verdict, err := s.evaluator.Evaluate(c.Request.Context(), req)
	if err != nil {
		feedback = render.HTMLFailure(err)
	} else {
		feedback = render.HTML(verdict)
	}

	c.HTML(http.StatusOK, "index", pageData{
		Sentence:    req.Sentence,
		TargetWord:  req.TargetWord,
		ExpectedPOS: req.ExpectedPOS,
		// Rendered with x/net/html, which escapes every user-supplied string
		Feedback: template.HTML(feedback),
	})
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req model.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	verdict, err := s.evaluator.Evaluate(c.Request.Context(), req)
	if err != nil {
		var failure *model.Failure
		if !errors.As(err, &failure) {
			s.logger.Error("Evaluation failed", "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}

		status := http.StatusBadRequest
		if failure.Kind == model.FailureTaggerUnavailable {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, ErrorResponse{Error: failure.Message, Kind: failure.Kind})
		return
	}

	c.JSON(http.StatusOK, EvaluateResponse{
		Report:  render.Text(verdict),
		Verdict: verdict,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	tagger := s.status != nil && s.status.TaggerAvailable()
	classifier := s.status != nil && s.status.ClassifierAvailable()

	status := "ok"
	code := http.StatusOK
	switch {
	case !tagger:
		status = "unavailable"
		code = http.StatusServiceUnavailable
	case !classifier:
		status = "degraded"
	}

	c.JSON(code, gin.H{
		"status":     status,
		"tagger":     tagger,
		"classifier": classifier,
	})
}
