package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

func TestQuestionServiceCreateFromSet(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	questions := newQuestionStore()
	svc := NewQuestionService(newExamStore(models.Exam{ID: 10}), questions, tx, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.CreateFromSet(context.Background(), models.QuestionSet{
		ExamID:    10,
		MCQ:       models.QuestionBucket{{Question: "Pick", Options: []string{"A", "B"}, Answer: "A"}},
		ThreeMark: models.QuestionBucket{{Question: "Explain"}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, models.QuestionTypeMultipleChoice, questions.questions[0].Type)
	assert.Equal(t, 3, questions.questions[1].Marks)

	set, err := svc.ListByExam(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, set.MCQ, 1)
	assert.Len(t, set.ThreeMark, 1)
	assert.Empty(t, set.OneMark)
}

func TestQuestionServiceCreateRollsBackOnFailure(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	questions := newQuestionStore()
	questions.createErr = errors.New("insert failed")
	svc := NewQuestionService(newExamStore(models.Exam{ID: 10}), questions, tx, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.CreateFromSet(context.Background(), models.QuestionSet{
		ExamID:  10,
		OneMark: models.QuestionBucket{{Question: "Define"}},
	})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionServiceCreateValidation(t *testing.T) {
	svc := NewQuestionService(newExamStore(models.Exam{ID: 10}), newQuestionStore(), nil, nil)

	_, err := svc.CreateFromSet(context.Background(), models.QuestionSet{ExamID: 10})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.CreateFromSet(context.Background(), models.QuestionSet{ExamID: 77, MCQ: models.QuestionBucket{{Question: "Pick"}}})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestQuestionServiceGet(t *testing.T) {
	svc := NewQuestionService(newExamStore(), newQuestionStore(models.Question{ID: 5, ExamID: 1, Content: "Define"}), nil, nil)

	q, err := svc.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Define", q.Content)

	_, err = svc.Get(context.Background(), 6)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.ListByExam(context.Background(), 2)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestQuestionServiceCreateFromSetsSharesOneTransaction(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	questions := newQuestionStore()
	svc := NewQuestionService(newExamStore(models.Exam{ID: 10}, models.Exam{ID: 11}), questions, tx, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()

	results, err := svc.CreateFromSets(context.Background(), []models.QuestionSet{
		{ExamID: 10, OneMark: models.QuestionBucket{{Question: "Define"}}},
		{ExamID: 11, ThreeMark: models.QuestionBucket{{Question: "Explain"}, {Question: "Compare"}}},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Created)
	assert.Equal(t, 2, results[1].Created)
	assert.Len(t, questions.questions, 3)
}

func TestQuestionServiceCreateFromSetsRejectsBeforeWriting(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	questions := newQuestionStore()
	svc := NewQuestionService(newExamStore(models.Exam{ID: 10}), questions, tx, nil)

	_, err := svc.CreateFromSets(context.Background(), []models.QuestionSet{
		{ExamID: 10, OneMark: models.QuestionBucket{{Question: "Define"}}},
		{ExamID: 77, OneMark: models.QuestionBucket{{Question: "Name"}}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Contains(t, appErrors.FromError(err).Message, "set 2")
	assert.Empty(t, questions.questions)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, err = svc.CreateFromSets(context.Background(), nil)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
