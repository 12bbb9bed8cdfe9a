package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/llm"
	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

// Feedback written without consulting the model. FeedbackIncorrect covers
// objective questions stored without an answer key, which never score.
const (
	FeedbackCorrect      = "Correct Answer."
	FeedbackIncorrect    = "Incorrect Answer."
	FeedbackNotAttempted = "Question not attempted."
	FeedbackBlankAnswer  = "No answer given."
)

const submissionReceived = "received"

type shortAnswerGrader interface {
	GradeShortAnswer(ctx context.Context, question, answer, rubric string, maxPoints int) (llm.Grade, error)
}

// GradingService scores submissions and maintains the per-student marks row.
type GradingService struct {
	exams     examStore
	questions questionStore
	responses responseStore
	marks     marksStore
	sessions  sessionStore
	grader    shortAnswerGrader
	cache     *CacheService
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(exams examStore, questions questionStore, responses responseStore, marks marksStore, sessions sessionStore, grader shortAnswerGrader, cache *CacheService, tx txProvider, validate *validator.Validate, logger *zap.Logger) *GradingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{
		exams:     exams,
		questions: questions,
		responses: responses,
		marks:     marks,
		sessions:  sessions,
		grader:    grader,
		cache:     cache,
		tx:        tx,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

type verdict struct {
	score    float64
	feedback string
	correct  bool
}

// Submit scores a batch of answers and appends one response row per answer.
// Every question is resolved and scored before anything is written, so a
// missing question or failed model call leaves no partial submission behind.
func (s *GradingService) Submit(ctx context.Context, examID int64, req dto.SubmitRequest) (result *dto.SubmitResponse, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation(err, "invalid submission payload")
	}
	if err := s.checkSession(ctx, examID, req.SessionToken); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(req.Answers))
	for _, a := range req.Answers {
		ids = append(ids, a.QuestionID)
	}
	found, err := s.questions.FindByIDs(ctx, examID, ids)
	if err != nil {
		return nil, internal(err, "failed to load questions")
	}
	byID := make(map[int64]models.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	for _, a := range req.Answers {
		if _, ok := byID[a.QuestionID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Question "+itoa(a.QuestionID)+" not found")
		}
	}

	rows := make([]models.StudentResponse, 0, len(req.Answers))
	grades := make([]dto.PartialGrade, 0, len(req.Answers))
	for _, a := range req.Answers {
		v, gradeErr := s.score(ctx, byID[a.QuestionID], a.Response)
		if gradeErr != nil {
			return nil, gradeErr
		}
		score, feedback := v.score, v.feedback
		rows = append(rows, models.StudentResponse{
			StudentID:     req.StudentID,
			ExamID:        examID,
			QuestionID:    a.QuestionID,
			Response:      a.Response,
			MarksObtained: &score,
			Feedback:      &feedback,
		})
		grades = append(grades, dto.PartialGrade{QuestionID: a.QuestionID, MarksObtained: score, Feedback: feedback})
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, internal(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for i := range rows {
		if err = s.responses.Insert(ctx, tx, &rows[i]); err != nil {
			err = internal(err, "failed to store response")
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		err = internal(err, "failed to commit submission")
		return nil, err
	}

	s.logger.Info("submission received",
		zap.Int64("exam_id", examID),
		zap.Int64("student_id", req.StudentID),
		zap.Int("answers", len(rows)),
	)
	return &dto.SubmitResponse{
		SubmissionID:  rows[len(rows)-1].ID,
		PartialGrades: grades,
		Status:        submissionReceived,
	}, nil
}

// Grade runs a grading pass for one student of the exam. The latest response
// per question counts; superseded rows are zeroed so the marks total equals
// the sum over every stored row.
func (s *GradingService) Grade(ctx context.Context, examID int64, req dto.GradeRequest) (result *dto.GradeResponse, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation(err, "invalid grading payload")
	}
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, lookup(err, "Exam")
	}

	studentID := req.StudentID
	if studentID == 0 {
		submission, findErr := s.responses.FindByID(ctx, req.SubmissionID)
		if findErr != nil {
			return nil, lookup(findErr, "Submission")
		}
		if submission.ExamID != examID {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Submission not found")
		}
		studentID = submission.StudentID
	}

	rows, err := s.responses.ListByStudentExam(ctx, examID, studentID)
	if err != nil {
		return nil, internal(err, "failed to load responses")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Submission not found")
	}
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, internal(err, "failed to load questions")
	}

	latest := make(map[int64]models.StudentResponse, len(rows))
	var superseded []models.StudentResponse
	for _, row := range rows {
		if prev, ok := latest[row.QuestionID]; ok {
			superseded = append(superseded, prev)
		}
		latest[row.QuestionID] = row
	}

	type rescore struct {
		id       int64
		score    float64
		feedback string
	}
	updates := make([]rescore, 0, len(latest))
	details := make(models.ResultDetails, 0, len(questions))
	for i, q := range questions {
		detail := models.ResultDetail{
			Index:         i + 1,
			QuestionID:    q.ID,
			Question:      q.Content,
			MaxMarks:      q.Marks,
			CorrectAnswer: q.ExpectedAnswer(),
		}
		row, ok := latest[q.ID]
		if !ok {
			detail.Feedback = FeedbackNotAttempted
			details = append(details, detail)
			continue
		}
		detail.StudentAnswer = row.Response

		var v verdict
		if !q.Type.Objective() && row.MarksObtained != nil && !req.Regrade {
			v = verdict{score: llm.Clamp(*row.MarksObtained, q.Marks)}
			if row.Feedback != nil {
				v.feedback = *row.Feedback
			}
			v.correct = v.score >= float64(q.Marks)
		} else {
			var gradeErr error
			if v, gradeErr = s.score(ctx, q, row.Response); gradeErr != nil {
				return nil, gradeErr
			}
		}
		detail.Score = v.score
		detail.Feedback = v.feedback
		detail.IsCorrect = v.correct
		details = append(details, detail)
		updates = append(updates, rescore{id: row.ID, score: v.score, feedback: v.feedback})
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, internal(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, u := range updates {
		feedback := u.feedback
		if err = s.responses.UpdateScore(ctx, tx, u.id, u.score, &feedback); err != nil {
			err = internal(err, "failed to update response score")
			return nil, err
		}
	}
	for _, old := range superseded {
		if old.MarksObtained != nil && *old.MarksObtained == 0 {
			continue
		}
		if err = s.responses.UpdateScore(ctx, tx, old.ID, 0, old.Feedback); err != nil {
			err = internal(err, "failed to reset superseded response")
			return nil, err
		}
	}

	total, err := s.responses.SumObtained(ctx, tx, examID, studentID)
	if err != nil {
		err = internal(err, "failed to total marks")
		return nil, err
	}
	maxMarks, err := s.questions.SumMarks(ctx, tx, examID)
	if err != nil {
		err = internal(err, "failed to total exam marks")
		return nil, err
	}
	record := &models.Marks{
		StudentID:  studentID,
		ExamID:     examID,
		TotalMarks: total,
		MaxMarks:   maxMarks,
		Results:    details,
	}
	if err = s.marks.Upsert(ctx, tx, record); err != nil {
		err = internal(err, "failed to store marks")
		return nil, err
	}
	completed, err := s.exams.CompleteIfFullyGraded(ctx, tx, examID)
	if err != nil {
		err = internal(err, "failed to update exam status")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = internal(err, "failed to commit grading")
		return nil, err
	}

	if invErr := s.cache.Invalidate(ctx, examStatsKey(examID)); invErr != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Int64("exam_id", examID), zap.Error(invErr))
	}

	status := exam.Status
	if completed {
		status = models.ExamStatusCompleted
	}
	s.logger.Info("submission graded",
		zap.Int64("exam_id", examID),
		zap.Int64("student_id", studentID),
		zap.Float64("total_marks", total),
		zap.Int("max_marks", maxMarks),
	)
	return &dto.GradeResponse{
		SubmissionID: req.SubmissionID,
		StudentID:    studentID,
		TotalMarks:   total,
		MaxMarks:     maxMarks,
		Graded:       true,
		ExamStatus:   status,
		Details:      details,
	}, nil
}

func (s *GradingService) checkSession(ctx context.Context, examID int64, token string) error {
	session, err := s.sessions.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrPreconditionFailed, "Invalid or expired session token")
		}
		return internal(err, "failed to load exam session")
	}
	if session.ExamID != examID || !session.Live(s.now()) {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "Invalid or expired session token")
	}
	return nil
}

// score grades one answer. Objective questions need a case-insensitive exact
// match; free text goes to the model and is clamped to the question's marks.
func (s *GradingService) score(ctx context.Context, q models.Question, response string) (verdict, error) {
	if q.Type.Objective() {
		expected := strings.TrimSpace(q.ExpectedAnswer())
		if expected == "" {
			return verdict{score: 0, feedback: FeedbackIncorrect}, nil
		}
		if strings.EqualFold(strings.TrimSpace(response), expected) {
			return verdict{score: float64(q.Marks), feedback: FeedbackCorrect, correct: true}, nil
		}
		return verdict{score: 0, feedback: incorrectFeedback(expected)}, nil
	}
	if strings.TrimSpace(response) == "" {
		return verdict{score: 0, feedback: FeedbackBlankAnswer}, nil
	}

	grade, err := s.grader.GradeShortAnswer(ctx, q.Content, response, q.ExpectedAnswer(), q.Marks)
	if err != nil {
		s.logger.Error("short answer grading failed", zap.Int64("question_id", q.ID), zap.Error(err))
		return verdict{}, upstream(err, "failed to grade answer")
	}
	score := llm.Clamp(grade.Score, q.Marks)
	return verdict{score: score, feedback: grade.Feedback, correct: score >= float64(q.Marks)}, nil
}

// incorrectFeedback names the expected option so result sheets can show it.
func incorrectFeedback(expected string) string {
	return "Incorrect. The correct option was " + expected + "."
}
