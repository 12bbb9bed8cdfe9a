package service

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/llm"
	"github.com/noah-isme/teach-assist-api/internal/models"
	"github.com/noah-isme/teach-assist-api/pkg/config"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

const defaultGradeLevel = "University"

type questionGenerator interface {
	GenerateQuestions(ctx context.Context, req llm.GenerationRequest) ([]llm.GeneratedQuestion, error)
}

var downloadTemplate = template.Must(template.New("exam").Parse(`
<html>
  <head><title>{{.Title}}</title></head>
  <body>
    <h1>{{.Title}}</h1>
    <p>{{.Description}}</p>
    <p>Status: {{.Status}}</p>
  </body>
</html>
`))

// ExamService drives the exam lifecycle from generation to session start.
type ExamService struct {
	exams     examStore
	questions questionStore
	sessions  sessionStore
	generator questionGenerator
	tx        txProvider
	validator *validator.Validate
	logger    *zap.Logger
	cfg       config.ExamConfig
	now       func() time.Time
}

// NewExamService constructs the exam service.
func NewExamService(exams examStore, questions questionStore, sessions sessionStore, generator questionGenerator, tx txProvider, validate *validator.Validate, logger *zap.Logger, cfg config.ExamConfig) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionBaseURL == "" {
		cfg.SessionBaseURL = "https://teach-assistant.com"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 4 * time.Hour
	}
	return &ExamService{
		exams:     exams,
		questions: questions,
		sessions:  sessions,
		generator: generator,
		tx:        tx,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Generate creates a scheduled exam and returns templated preview questions,
// one per requested category. No question rows are written.
func (s *ExamService) Generate(ctx context.Context, actor models.Actor, req dto.GenerateExamRequest) (*dto.GenerateExamResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation(err, "invalid exam generation payload")
	}

	exam := &models.Exam{
		TeacherID: actor.UserID,
		ClassID:   actor.ClassID,
		Title:     req.Topic,
		Status:    models.ExamStatusScheduled,
	}
	if syllabus := strings.TrimSpace(req.Syllabus); syllabus != "" {
		exam.Description = &syllabus
	}
	if err := s.exams.Create(ctx, nil, exam); err != nil {
		return nil, internal(err, "failed to create exam")
	}

	previews := make([]dto.PreviewQuestion, 0, 3)
	if req.Counts.MCQ > 0 {
		previews = append(previews, dto.PreviewQuestion{
			Type:    "MCQ",
			Content: "What is 2+2 in " + req.Topic + "?",
			Options: []string{"3", "4", "5"},
			Answer:  "4",
		})
	}
	if req.Counts.OneMark > 0 {
		previews = append(previews, dto.PreviewQuestion{
			Type:    string(models.CategoryOneMark),
			Content: "Define a key term in " + req.Topic + ".",
			Answer:  "Definition...",
		})
	}
	if req.Counts.ThreeMark > 0 {
		previews = append(previews, dto.PreviewQuestion{
			Type:    string(models.CategoryThreeMark),
			Content: "Explain a concept in " + req.Topic + ".",
			Answer:  "Explanation...",
		})
	}

	s.logger.Info("exam generated", zap.Int64("exam_id", exam.ID), zap.Int("previews", len(previews)))
	return &dto.GenerateExamResponse{ExamID: exam.ID, PreviewQuestions: previews}, nil
}

// GenerateWithLLM has the language model author the questions and persists
// the exam together with every question in one transaction.
func (s *ExamService) GenerateWithLLM(ctx context.Context, actor models.Actor, req dto.GenerateAIExamRequest) (result *dto.PublicExam, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validation(err, "invalid exam generation payload")
	}
	for _, spec := range req.Structure {
		if _, perr := models.ParseQuestionType(spec.QuestionType); perr != nil {
			return nil, validation(perr, "invalid question type")
		}
	}
	gradeLevel := strings.TrimSpace(req.GradeLevel)
	if gradeLevel == "" {
		gradeLevel = defaultGradeLevel
	}

	generated, genErr := s.generator.GenerateQuestions(ctx, llm.GenerationRequest{
		Topic:      req.Topic,
		GradeLevel: gradeLevel,
		Structure:  req.Structure,
	})
	if genErr != nil {
		s.logger.Error("question generation failed", zap.String("topic", req.Topic), zap.Error(genErr))
		return nil, upstream(genErr, "failed to generate exam questions")
	}
	if len(generated) == 0 {
		return nil, upstream(llm.ErrEmptyResponse, "failed to generate exam questions")
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

	description := "Generated for " + gradeLevel
	exam := &models.Exam{
		TeacherID:   actor.UserID,
		ClassID:     actor.ClassID,
		Title:       req.Topic,
		Description: &description,
		Status:      models.ExamStatusScheduled,
	}
	if err = s.exams.Create(ctx, tx, exam); err != nil {
		err = internal(err, "failed to create exam")
		return nil, err
	}

	questions := make([]models.Question, 0, len(generated))
	for _, g := range generated {
		marks := g.Points
		if marks <= 0 {
			marks = 1
		}
		q := models.Question{
			ExamID:   exam.ID,
			Category: models.CategoryFor(g.Type, marks),
			Type:     g.Type,
			Content:  g.Text,
			Marks:    marks,
			Options:  models.QuestionOptions(g.Options),
		}
		if rubric := strings.TrimSpace(g.Rubric); rubric != "" {
			q.Answer = &rubric
		}
		questions = append(questions, q)
	}
	if err = s.questions.CreateBatch(ctx, tx, questions); err != nil {
		err = internal(err, "failed to store generated questions")
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		err = internal(err, "failed to commit generated exam")
		return nil, err
	}

	s.logger.Info("exam generated with llm", zap.Int64("exam_id", exam.ID), zap.Int("questions", len(questions)))
	return publicExam(exam, questions, s.now()), nil
}

// Get returns the student-safe view of an exam.
func (s *ExamService) Get(ctx context.Context, examID int64) (*dto.PublicExam, error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, lookup(err, "Exam")
	}
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, internal(err, "failed to load questions")
	}
	return publicExam(exam, questions, exam.CreatedAt), nil
}

// Publish moves a scheduled exam to published. Publishing twice is a no-op.
func (s *ExamService) Publish(ctx context.Context, examID int64) (*models.Exam, error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, lookup(err, "Exam")
	}
	switch exam.Status {
	case models.ExamStatusPublished:
		return exam, nil
	case models.ExamStatusCompleted:
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "Completed exams cannot be published")
	}
	if err := s.exams.UpdateStatus(ctx, nil, examID, models.ExamStatusPublished); err != nil {
		return nil, internal(err, "failed to publish exam")
	}
	exam.Status = models.ExamStatusPublished
	return exam, nil
}

// Complete closes a published exam. Completing twice is a no-op.
func (s *ExamService) Complete(ctx context.Context, examID int64) (*models.Exam, error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, lookup(err, "Exam")
	}
	switch exam.Status {
	case models.ExamStatusCompleted:
		return exam, nil
	case models.ExamStatusScheduled:
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "Exam must be published before completion")
	}
	if err := s.exams.UpdateStatus(ctx, nil, examID, models.ExamStatusCompleted); err != nil {
		return nil, internal(err, "failed to complete exam")
	}
	exam.Status = models.ExamStatusCompleted
	return exam, nil
}

// Start mints a session token for a published exam.
func (s *ExamService) Start(ctx context.Context, examID int64) (*dto.StartExamResponse, error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, lookup(err, "Exam")
	}
	if exam.Status != models.ExamStatusPublished {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "Exam must be published before starting")
	}

	now := s.now()
	session := &models.ExamSession{
		Token:     uuid.NewString(),
		ExamID:    exam.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, internal(err, "failed to start exam session")
	}

	return &dto.StartExamResponse{
		ExamID:       exam.ID,
		SessionToken: session.Token,
		Link:         s.cfg.SessionBaseURL + "/exams/" + itoa(exam.ID) + "/session/" + session.Token,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

// Download renders the exam summary as an HTML document.
func (s *ExamService) Download(ctx context.Context, examID int64) (*dto.DownloadExamResponse, error) {
	exam, err := s.exams.FindByID(ctx, examID)
	if err != nil {
		return nil, lookup(err, "Exam")
	}
	description := ""
	if exam.Description != nil {
		description = *exam.Description
	}
	var buf bytes.Buffer
	if err := downloadTemplate.Execute(&buf, map[string]string{
		"Title":       exam.Title,
		"Description": description,
		"Status":      string(exam.Status),
	}); err != nil {
		return nil, internal(err, "failed to render exam")
	}
	return &dto.DownloadExamResponse{ExamID: exam.ID, Format: "html", Content: buf.String()}, nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *ExamService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, internal(err, "failed to purge exam sessions")
	}
	if removed > 0 {
		s.logger.Info("expired exam sessions purged", zap.Int64("count", removed))
	}
	return removed, nil
}

func publicExam(exam *models.Exam, questions []models.Question, generatedAt time.Time) *dto.PublicExam {
	out := &dto.PublicExam{
		ExamID:      exam.ID,
		Title:       exam.Title,
		Status:      exam.Status,
		Questions:   make([]dto.PublicQuestion, 0, len(questions)),
		GeneratedAt: generatedAt,
	}
	for _, q := range questions {
		out.Questions = append(out.Questions, dto.PublicQuestion{
			QuestionID:   q.ID,
			QuestionType: q.Type,
			Points:       q.Marks,
			Text:         q.Content,
			Options:      q.Options,
		})
		out.TotalMarks += q.Marks
	}
	return out
}
