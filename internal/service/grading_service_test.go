package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/llm"
	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

type gradingFixture struct {
	svc       *GradingService
	exams     *examStoreStub
	questions *questionStoreStub
	responses *responseStoreStub
	marks     *marksStoreStub
	sessions  *sessionStoreStub
	grader    *graderStub
	cache     *cacheRepoStub
}

func newGradingFixture(tx txProvider) gradingFixture {
	now := time.Now()
	f := gradingFixture{
		exams: newExamStore(models.Exam{ID: 10, Title: "Optics", Status: models.ExamStatusPublished}),
		questions: newQuestionStore(
			models.Question{ID: 1, ExamID: 10, Category: models.CategoryMCQ, Type: models.QuestionTypeMultipleChoice, Content: "2+2?", Marks: 1, Options: models.QuestionOptions{"3", "4"}, Answer: strPtr("4")},
			models.Question{ID: 2, ExamID: 10, Category: models.CategoryThreeMark, Type: models.QuestionTypeShortAnswer, Content: "Explain refraction.", Marks: 3, Answer: strPtr("Bending of light")},
			models.Question{ID: 3, ExamID: 10, Category: models.CategoryOneMark, Type: models.QuestionTypeShortAnswer, Content: "Define lens.", Marks: 1, Answer: strPtr("Curved glass")},
			models.Question{ID: 9, ExamID: 11, Category: models.CategoryMCQ, Type: models.QuestionTypeMultipleChoice, Content: "Other exam", Marks: 1, Answer: strPtr("A")},
		),
		responses: &responseStoreStub{},
		marks:     newMarksStore(),
		sessions: newSessionStore(
			models.ExamSession{Token: "live", ExamID: 10, ExpiresAt: now.Add(time.Hour)},
			models.ExamSession{Token: "expired", ExamID: 10, ExpiresAt: now.Add(-time.Minute)},
			models.ExamSession{Token: "other", ExamID: 11, ExpiresAt: now.Add(time.Hour)},
		),
		grader: &graderStub{grade: llm.Grade{Score: 5, Feedback: "Thorough."}},
		cache:  newCacheRepo(),
	}
	cache := NewCacheService(f.cache, nil, time.Minute, nil, true)
	f.svc = NewGradingService(f.exams, f.questions, f.responses, f.marks, f.sessions, f.grader, cache, tx, nil, nil)
	return f
}

func TestGradingServiceSubmitScoresAndAppends(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Submit(context.Background(), 10, dto.SubmitRequest{
		SessionToken: "live",
		StudentID:    42,
		Answers: []dto.Answer{
			{QuestionID: 1, Response: "  4 "},
			{QuestionID: 2, Response: "Light bends between media."},
		},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "received", resp.Status)
	require.Len(t, resp.PartialGrades, 2)
	assert.Equal(t, 1.0, resp.PartialGrades[0].MarksObtained)
	assert.Equal(t, 3.0, resp.PartialGrades[1].MarksObtained, "model score is clamped to question marks")
	require.Len(t, f.responses.rows, 2)
	assert.Equal(t, f.responses.rows[1].ID, resp.SubmissionID)
	assert.Equal(t, 1, f.grader.calls)
}

func TestGradingServiceSubmitObjectiveIsCaseInsensitiveExactMatch(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	f.questions.questions[0].Answer = strPtr("Paris")
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Submit(context.Background(), 10, dto.SubmitRequest{
		SessionToken: "live",
		StudentID:    42,
		Answers:      []dto.Answer{{QuestionID: 1, Response: "paris"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, resp.PartialGrades[0].MarksObtained)
	assert.Equal(t, 0, f.grader.calls)
}

func TestGradingServiceSubmitMissingQuestionWritesNothing(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)

	_, err := f.svc.Submit(context.Background(), 10, dto.SubmitRequest{
		SessionToken: "live",
		StudentID:    42,
		Answers: []dto.Answer{
			{QuestionID: 1, Response: "4"},
			{QuestionID: 9, Response: "A"},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Contains(t, err.Error(), "Question 9 not found")
	assert.Empty(t, f.responses.rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradingServiceSubmitRejectsBadSessions(t *testing.T) {
	f := newGradingFixture(nil)
	for _, token := range []string{"expired", "other", "unknown"} {
		_, err := f.svc.Submit(context.Background(), 10, dto.SubmitRequest{
			SessionToken: token,
			StudentID:    42,
			Answers:      []dto.Answer{{QuestionID: 1, Response: "4"}},
		})
		assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed, token)
	}
	assert.Empty(t, f.responses.rows)
}

func TestGradingServiceSubmitUpstreamFailure(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	f.grader.err = errors.New("quota exhausted")

	_, err := f.svc.Submit(context.Background(), 10, dto.SubmitRequest{
		SessionToken: "live",
		StudentID:    42,
		Answers:      []dto.Answer{{QuestionID: 2, Response: "Light bends."}},
	})
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	assert.Empty(t, f.responses.rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGradingServiceGradeUsesLatestResponse(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	f.exams.completeResult = true
	f.cache.data[examStatsKey(10)] = []byte(`{"exam_id":10}`)

	old := f.responses.seed(42, 10, 1, "4", 1)
	latest := f.responses.seed(42, 10, 1, "5", 0)
	f.responses.seed(42, 10, 2, "Light bends.", 2.5)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: latest, StudentID: 42})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.True(t, resp.Graded)
	assert.Equal(t, latest, resp.SubmissionID)
	assert.Equal(t, 2.5, resp.TotalMarks)
	assert.Equal(t, 5, resp.MaxMarks)
	assert.Equal(t, models.ExamStatusCompleted, resp.ExamStatus)
	assert.Equal(t, 0, f.grader.calls, "scored free text is kept unless regrading")

	require.Len(t, resp.Details, 3)
	assert.False(t, resp.Details[0].IsCorrect)
	assert.Equal(t, "5", resp.Details[0].StudentAnswer)
	assert.Equal(t, "4", resp.Details[0].CorrectAnswer)
	assert.Equal(t, FeedbackNotAttempted, resp.Details[2].Feedback)
	assert.Equal(t, 0.0, resp.Details[2].Score)

	oldRow, err := f.responses.FindByID(context.Background(), old)
	require.NoError(t, err)
	assert.Equal(t, 0.0, *oldRow.MarksObtained, "superseded rows are zeroed")

	record, err := f.marks.FindByStudentExam(context.Background(), 10, 42)
	require.NoError(t, err)
	assert.Equal(t, 2.5, record.TotalMarks)
	assert.Len(t, record.Results, 3)

	assert.Contains(t, f.cache.deleted, examStatsKey(10))
	assert.NotContains(t, f.cache.data, examStatsKey(10))
}

func TestGradingServiceGradeTotalsEqualStoredRows(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	f.responses.seed(42, 10, 1, "4", 1)
	f.responses.seed(42, 10, 1, "4", 1)
	f.responses.seed(42, 10, 3, "Curved glass", 1)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: 1, StudentID: 42})
	require.NoError(t, err)

	var sum float64
	for _, row := range f.responses.rows {
		sum += *row.MarksObtained
	}
	assert.Equal(t, sum, resp.TotalMarks)
	assert.Equal(t, 2.0, resp.TotalMarks)
	assert.Equal(t, models.ExamStatusPublished, resp.ExamStatus)
}

func TestGradingServiceGradeResolvesStudentFromSubmission(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	id := f.responses.seed(42, 10, 1, "4", 1)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: id})
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.StudentID)

	_, err = f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: 999})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestGradingServiceGradeWithoutResponses(t *testing.T) {
	f := newGradingFixture(nil)
	_, err := f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: 1, StudentID: 42})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Contains(t, err.Error(), "Submission not found")
}

func TestGradingServiceRegradeCallsModelAgain(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	f.responses.seed(42, 10, 2, "Light bends.", 1)
	f.grader.grade = llm.Grade{Score: 2, Feedback: "Better on review."}

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: 1, StudentID: 42, Regrade: true})
	require.NoError(t, err)
	assert.Equal(t, 1, f.grader.calls)
	assert.Equal(t, 2.0, resp.TotalMarks)
	assert.Equal(t, "Better on review.", resp.Details[1].Feedback)
}

func TestGradingServiceObjectiveWithoutAnswerKeyNeverScores(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	f.questions.questions[0].Answer = nil
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Submit(context.Background(), 10, dto.SubmitRequest{
		SessionToken: "live",
		StudentID:    42,
		Answers:      []dto.Answer{{QuestionID: 1, Response: "   "}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.PartialGrades[0].MarksObtained)
	assert.Equal(t, FeedbackIncorrect, resp.PartialGrades[0].Feedback)

	// A stale full score on such a row is recomputed to zero.
	f.responses.seed(7, 10, 1, "", 1)
	mock.ExpectBegin()
	mock.ExpectCommit()

	graded, err := f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: 1, StudentID: 7})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0.0, graded.TotalMarks)
	assert.False(t, graded.Details[0].IsCorrect)
}

func TestGradingServiceIncorrectFeedbackNamesExpectedOption(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Submit(context.Background(), 10, dto.SubmitRequest{
		SessionToken: "live",
		StudentID:    42,
		Answers:      []dto.Answer{{QuestionID: 1, Response: "3"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.PartialGrades[0].MarksObtained)
	assert.Equal(t, "Incorrect. The correct option was 4.", resp.PartialGrades[0].Feedback)
}

func TestGradingServiceBlankFreeTextSkipsModel(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := f.svc.Submit(context.Background(), 10, dto.SubmitRequest{
		SessionToken: "live",
		StudentID:    42,
		Answers:      []dto.Answer{{QuestionID: 2, Response: "  "}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.PartialGrades[0].MarksObtained)
	assert.Equal(t, FeedbackBlankAnswer, resp.PartialGrades[0].Feedback)
	assert.Equal(t, 0, f.grader.calls)
}

func TestGradingServiceMaxMarksFollowsAddedQuestions(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	f.responses.seed(42, 10, 1, "4", 1)

	mock.ExpectBegin()
	mock.ExpectCommit()
	first, err := f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: 1, StudentID: 42})
	require.NoError(t, err)
	assert.Equal(t, 5, first.MaxMarks)

	f.questions.questions = append(f.questions.questions,
		models.Question{ID: 12, ExamID: 10, Category: models.CategoryThreeMark, Type: models.QuestionTypeShortAnswer, Content: "Describe a prism.", Marks: 3})

	mock.ExpectBegin()
	mock.ExpectCommit()
	second, err := f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: 1, StudentID: 42})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 8, second.MaxMarks)

	record, err := f.marks.FindByStudentExam(context.Background(), 10, 42)
	require.NoError(t, err)
	assert.Equal(t, 8, record.MaxMarks)
}

func TestGradingServiceRepeatedGradeKeepsOneMarksRow(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newGradingFixture(tx)
	f.responses.seed(42, 10, 1, "4", 1)
	f.responses.seed(42, 10, 3, "Curved glass", 1)

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err := f.svc.Grade(context.Background(), 10, dto.GradeRequest{SubmissionID: 2, StudentID: 42})
		require.NoError(t, err)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Len(t, f.marks.records, 1)

	record, err := f.marks.FindByStudentExam(context.Background(), 10, 42)
	require.NoError(t, err)
	assert.Equal(t, 2.0, record.TotalMarks)
}
