package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/models"
	"github.com/noah-isme/teach-assist-api/pkg/response"
)

type questionService interface {
	CreateFromSets(ctx context.Context, sets []models.QuestionSet) ([]*dto.CreateQuestionsResponse, error)
	ListByExam(ctx context.Context, examID int64) (*models.QuestionSet, error)
	Get(ctx context.Context, id int64) (*models.Question, error)
}

type paperRenderer interface {
	RenderPaper(ctx context.Context, examID int64) ([]byte, error)
}

// QuestionHandler exposes question set endpoints.
type QuestionHandler struct {
	questions questionService
	papers    paperRenderer
}

// NewQuestionHandler constructs a question handler.
func NewQuestionHandler(questions questionService, papers paperRenderer) *QuestionHandler {
	return &QuestionHandler{questions: questions, papers: papers}
}

// Create godoc
// @Summary Store question sets
// @Description Accepts one question set or a list of them and stores them as typed questions
// @Tags Questions
// @Accept json
// @Produce json
// @Param payload body models.QuestionSet true "Question set"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	sets, err := decodeQuestionSets(body)
	if err != nil {
		response.Error(c, invalidPayload(err))
		return
	}

	results, err := h.questions.CreateFromSets(c.Request.Context(), sets)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, results)
}

// decodeQuestionSets accepts a lone object as a one-element list.
func decodeQuestionSets(body []byte) ([]models.QuestionSet, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var set models.QuestionSet
		if err := json.Unmarshal(trimmed, &set); err != nil {
			return nil, err
		}
		return []models.QuestionSet{set}, nil
	}
	var sets []models.QuestionSet
	if err := json.Unmarshal(trimmed, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// ListByExam godoc
// @Summary List an exam's questions grouped by category
// @Tags Questions
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /questions/exam/{exam_id} [get]
func (h *QuestionHandler) ListByExam(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	set, err := h.questions.ListByExam(c.Request.Context(), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, set)
}

// PaperPDF godoc
// @Summary Render the exam paper as PDF
// @Tags Questions
// @Produce application/pdf
// @Param exam_id path int true "Exam ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /questions/exam/{exam_id}/pdf [get]
func (h *QuestionHandler) PaperPDF(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.papers.RenderPaper(c.Request.Context(), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Binary(c, "application/pdf", "exam_"+strconv.FormatInt(examID, 10)+".pdf", payload)
}

// Get godoc
// @Summary Get a question
// @Tags Questions
// @Produce json
// @Param question_id path int true "Question ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /questions/{question_id} [get]
func (h *QuestionHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "question_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	q, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, q)
}
