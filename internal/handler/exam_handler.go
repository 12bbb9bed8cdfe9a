package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
	"github.com/noah-isme/teach-assist-api/pkg/response"
)

type examService interface {
	Generate(ctx context.Context, actor models.Actor, req dto.GenerateExamRequest) (*dto.GenerateExamResponse, error)
	GenerateWithLLM(ctx context.Context, actor models.Actor, req dto.GenerateAIExamRequest) (*dto.PublicExam, error)
	Get(ctx context.Context, examID int64) (*dto.PublicExam, error)
	Publish(ctx context.Context, examID int64) (*models.Exam, error)
	Complete(ctx context.Context, examID int64) (*models.Exam, error)
	Start(ctx context.Context, examID int64) (*dto.StartExamResponse, error)
	Download(ctx context.Context, examID int64) (*dto.DownloadExamResponse, error)
}

type gradingService interface {
	Submit(ctx context.Context, examID int64, req dto.SubmitRequest) (*dto.SubmitResponse, error)
	Grade(ctx context.Context, examID int64, req dto.GradeRequest) (*dto.GradeResponse, error)
}

type marksService interface {
	StudentResult(ctx context.Context, examID, studentID int64) (*dto.StudentResult, error)
	Stats(ctx context.Context, examID int64) (*dto.ExamStats, error)
	StatsCSV(ctx context.Context, examID int64) ([]byte, error)
}

type paperExporter interface {
	ExportPaper(ctx context.Context, examID int64) (*dto.PaperExportResponse, error)
}

// ExamHandler exposes the exam lifecycle, submission and grading endpoints.
type ExamHandler struct {
	exams   examService
	grading gradingService
	marks   marksService
	papers  paperExporter
}

// NewExamHandler constructs an exam handler.
func NewExamHandler(exams examService, grading gradingService, marks marksService, papers paperExporter) *ExamHandler {
	return &ExamHandler{exams: exams, grading: grading, marks: marks, papers: papers}
}

// Generate godoc
// @Summary Generate a template exam
// @Description Creates a scheduled exam with placeholder questions built from the topic
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body dto.GenerateExamRequest true "Generation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exams/generate [post]
func (h *ExamHandler) Generate(c *gin.Context) {
	var req dto.GenerateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.exams.Generate(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// GenerateWithLLM godoc
// @Summary Generate an exam with the language model
// @Tags Exams
// @Accept json
// @Produce json
// @Param payload body dto.GenerateAIExamRequest true "Structure payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /exams/generate/ai [post]
func (h *ExamHandler) GenerateWithLLM(c *gin.Context) {
	var req dto.GenerateAIExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.exams.GenerateWithLLM(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get godoc
// @Summary Get an exam without answers
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exams/{exam_id} [get]
func (h *ExamHandler) Get(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	exam, err := h.exams.Get(c.Request.Context(), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, exam)
}

// Publish godoc
// @Summary Publish an exam
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{exam_id}/publish [post]
func (h *ExamHandler) Publish(c *gin.Context) {
	h.transition(c, h.exams.Publish)
}

// Complete godoc
// @Summary Mark an exam as completed
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{exam_id}/complete [post]
func (h *ExamHandler) Complete(c *gin.Context) {
	h.transition(c, h.exams.Complete)
}

func (h *ExamHandler) transition(c *gin.Context, fn func(context.Context, int64) (*models.Exam, error)) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	exam, err := fn(c.Request.Context(), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"exam_id": exam.ID, "status": exam.Status})
}

// Start godoc
// @Summary Start an exam session
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exams/{exam_id}/start [post]
func (h *ExamHandler) Start(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	session, err := h.exams.Start(c.Request.Context(), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// Submit godoc
// @Summary Submit answers
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param payload body dto.SubmitRequest true "Answers"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /exams/{exam_id}/submit [post]
func (h *ExamHandler) Submit(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	if req.StudentID == 0 {
		req.StudentID = actorFromContext(c).UserID
	}
	result, err := h.grading.Submit(c.Request.Context(), examID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Grade godoc
// @Summary Grade a submission
// @Tags Exams
// @Accept json
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param payload body dto.GradeRequest true "Submission to grade"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exams/{exam_id}/grade [post]
func (h *ExamHandler) Grade(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	result, err := h.grading.Grade(c.Request.Context(), examID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// StudentResult godoc
// @Summary Get a student's result for an exam
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Param student_id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exams/{exam_id}/student/{student_id} [get]
func (h *ExamHandler) StudentResult(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	studentID, err := parseIDParam(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.marks.StudentResult(c.Request.Context(), examID, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Download godoc
// @Summary Download an exam as HTML
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{exam_id}/download [get]
func (h *ExamHandler) Download(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exams.Download(c.Request.Context(), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Stats godoc
// @Summary Exam statistics
// @Description Per-student totals; format=csv returns a CSV attachment
// @Tags Exams
// @Produce json
// @Produce text/csv
// @Param exam_id path int true "Exam ID"
// @Param format query string false "json or csv"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /exams/{exam_id}/stats [get]
func (h *ExamHandler) Stats(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	switch format := strings.ToLower(c.DefaultQuery("format", "json")); format {
	case "csv":
		payload, err := h.marks.StatsCSV(c.Request.Context(), examID)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=exam-"+strconv.FormatInt(examID, 10)+"-stats.csv")
		c.Data(http.StatusOK, "text/csv", payload)
	case "json":
		stats, err := h.marks.Stats(c.Request.Context(), examID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, stats)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported format "+format))
	}
}

// ExportPaper godoc
// @Summary Queue a PDF export of the exam paper
// @Tags Exams
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /exams/{exam_id}/paper/export [post]
func (h *ExamHandler) ExportPaper(c *gin.Context) {
	examID, err := parseIDParam(c, "exam_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.papers.ExportPaper(c.Request.Context(), examID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, result)
}
