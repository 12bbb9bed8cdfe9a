package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

// QuestionService manages an exam's typed question rows.
type QuestionService struct {
	exams     examStore
	questions questionStore
	tx        txProvider
	logger    *zap.Logger
}

// NewQuestionService constructs the question service.
func NewQuestionService(exams examStore, questions questionStore, tx txProvider, logger *zap.Logger) *QuestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{exams: exams, questions: questions, tx: tx, logger: logger}
}

// CreateFromSet converts a paper-style question set into typed rows.
func (s *QuestionService) CreateFromSet(ctx context.Context, set models.QuestionSet) (*dto.CreateQuestionsResponse, error) {
	results, err := s.CreateFromSets(ctx, []models.QuestionSet{set})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// CreateFromSets stores several question sets in one transaction. Every set
// is validated before the first insert, so a bad set stores nothing.
func (s *QuestionService) CreateFromSets(ctx context.Context, sets []models.QuestionSet) (results []*dto.CreateQuestionsResponse, err error) {
	if len(sets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no question sets given")
	}
	batches := make([][]models.Question, len(sets))
	for i, set := range sets {
		if batches[i], err = s.checkSet(ctx, set); err != nil {
			if len(sets) > 1 {
				appErr := appErrors.FromError(err)
				err = appErrors.Wrap(appErr.Err, appErr.Code, appErr.Status, "set "+itoa(int64(i+1))+": "+appErr.Message)
			}
			return nil, err
		}
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
	for _, batch := range batches {
		if err = s.questions.CreateBatch(ctx, tx, batch); err != nil {
			err = internal(err, "failed to store questions")
			return nil, err
		}
	}
	if err = tx.Commit(); err != nil {
		err = internal(err, "failed to commit questions")
		return nil, err
	}

	results = make([]*dto.CreateQuestionsResponse, 0, len(sets))
	for i, set := range sets {
		s.logger.Info("question set stored", zap.Int64("exam_id", set.ExamID), zap.Int("questions", len(batches[i])))
		results = append(results, &dto.CreateQuestionsResponse{ExamID: set.ExamID, Created: len(batches[i]), Questions: batches[i]})
	}
	return results, nil
}

func (s *QuestionService) checkSet(ctx context.Context, set models.QuestionSet) ([]models.Question, error) {
	if set.ExamID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exam_id is required")
	}
	questions := set.Questions()
	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "question set is empty")
	}
	for i, q := range questions {
		if q.Content == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "question "+itoa(int64(i+1))+" has no text")
		}
	}
	if _, err := s.exams.FindByID(ctx, set.ExamID); err != nil {
		return nil, lookup(err, "Exam")
	}
	return questions, nil
}

// ListByExam returns the exam's questions regrouped into a question set.
func (s *QuestionService) ListByExam(ctx context.Context, examID int64) (*models.QuestionSet, error) {
	questions, err := s.questions.ListByExam(ctx, examID)
	if err != nil {
		return nil, internal(err, "failed to load questions")
	}
	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "No questions found for this exam")
	}
	set := models.GroupQuestions(examID, questions)
	return &set, nil
}

// Get returns one question.
func (s *QuestionService) Get(ctx context.Context, id int64) (*models.Question, error) {
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Question")
	}
	return q, nil
}
