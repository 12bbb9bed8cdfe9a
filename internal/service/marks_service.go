package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
	"github.com/noah-isme/teach-assist-api/pkg/export"
)

// MarksService reports graded outcomes.
type MarksService struct {
	marks  marksStore
	cache  *CacheService
	logger *zap.Logger
}

// NewMarksService constructs the marks service.
func NewMarksService(marks marksStore, cache *CacheService, logger *zap.Logger) *MarksService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MarksService{marks: marks, cache: cache, logger: logger}
}

// StudentResult returns the stored result sheet for one student.
func (s *MarksService) StudentResult(ctx context.Context, examID, studentID int64) (*dto.StudentResult, error) {
	record, err := s.marks.FindByStudentExam(ctx, examID, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "No results found for this exam/student")
		}
		return nil, internal(err, "failed to load marks")
	}
	out := &dto.StudentResult{
		ExamID:     examID,
		StudentID:  studentID,
		TotalMarks: record.TotalMarks,
		MaxMarks:   record.MaxMarks,
		Results:    make([]dto.StudentResultItem, 0, len(record.Results)),
	}
	for _, r := range record.Results {
		out.Results = append(out.Results, dto.StudentResultItem{
			Feedback:      r.Feedback,
			CorrectAnswer: r.CorrectAnswer,
			StudentAnswer: r.StudentAnswer,
			IsCorrect:     r.IsCorrect,
		})
	}
	return out, nil
}

// Stats lists every graded student of the exam, served from cache when enabled.
func (s *MarksService) Stats(ctx context.Context, examID int64) (*dto.ExamStats, error) {
	key := examStatsKey(examID)
	var cached dto.ExamStats
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}
	epoch := s.cache.Epoch(key)

	stats, err := s.marks.Stats(ctx, examID)
	if err != nil {
		return nil, internal(err, "failed to load exam stats")
	}
	if len(stats) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "No students attended this exam")
	}
	out := &dto.ExamStats{ExamID: examID, Stats: stats}
	if err := s.cache.SetIfCurrent(ctx, key, epoch, out, 0); err != nil {
		s.logger.Warn("stats cache write failed", zap.Int64("exam_id", examID), zap.Error(err))
	}
	return out, nil
}

// StatsCSV renders Stats as a CSV table.
func (s *MarksService) StatsCSV(ctx context.Context, examID int64) ([]byte, error) {
	stats, err := s.Stats(ctx, examID)
	if err != nil {
		return nil, err
	}
	table := export.Table{Headers: []string{"student_id", "name", "total_marks", "max_marks"}}
	for _, st := range stats.Stats {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(st.StudentID, 10),
			st.Name,
			strconv.FormatFloat(st.TotalMarks, 'f', -1, 64),
			strconv.Itoa(st.MaxMarks),
		})
	}
	payload, err := export.RenderCSV(table)
	if err != nil {
		return nil, internal(err, "failed to render stats")
	}
	return payload, nil
}
