package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teach-assist-api/internal/dto"
	"github.com/noah-isme/teach-assist-api/internal/llm"
	"github.com/noah-isme/teach-assist-api/internal/models"
	"github.com/noah-isme/teach-assist-api/pkg/config"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

type examFixture struct {
	svc       *ExamService
	exams     *examStoreStub
	questions *questionStoreStub
	sessions  *sessionStoreStub
	generator *generatorStub
}

func newExamFixture(tx txProvider, exams ...models.Exam) examFixture {
	f := examFixture{
		exams:     newExamStore(exams...),
		questions: newQuestionStore(),
		sessions:  newSessionStore(),
		generator: &generatorStub{},
	}
	f.svc = NewExamService(f.exams, f.questions, f.sessions, f.generator, tx, nil, nil, config.ExamConfig{SessionTTL: time.Hour})
	return f
}

var teacherActor = models.Actor{UserID: 7, ClassID: 3, Role: models.RoleTeacher}

func TestExamServiceGeneratePreviews(t *testing.T) {
	f := newExamFixture(nil)

	resp, err := f.svc.Generate(context.Background(), teacherActor, dto.GenerateExamRequest{
		Topic:    "Optics",
		Syllabus: "Reflection and refraction",
		Counts:   dto.QuestionCounts{MCQ: 2, ThreeMark: 1},
	})
	require.NoError(t, err)
	require.Len(t, resp.PreviewQuestions, 2)
	assert.Equal(t, "MCQ", resp.PreviewQuestions[0].Type)
	assert.Equal(t, "What is 2+2 in Optics?", resp.PreviewQuestions[0].Content)
	assert.Equal(t, []string{"3", "4", "5"}, resp.PreviewQuestions[0].Options)
	assert.Equal(t, "4", resp.PreviewQuestions[0].Answer)
	assert.Equal(t, "three_mark", resp.PreviewQuestions[1].Type)
	assert.Equal(t, "Explain a concept in Optics.", resp.PreviewQuestions[1].Content)

	exam := f.exams.exams[resp.ExamID]
	require.NotNil(t, exam)
	assert.Equal(t, models.ExamStatusScheduled, exam.Status)
	assert.Equal(t, int64(7), exam.TeacherID)
	assert.Equal(t, int64(3), exam.ClassID)
	assert.Equal(t, "Reflection and refraction", *exam.Description)
	assert.Empty(t, f.questions.questions, "previews are never persisted")
}

func TestExamServiceGenerateRequiresTopic(t *testing.T) {
	f := newExamFixture(nil)
	_, err := f.svc.Generate(context.Background(), teacherActor, dto.GenerateExamRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExamServiceGenerateWithLLMPersistsInOneTransaction(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newExamFixture(tx)
	f.generator.questions = []llm.GeneratedQuestion{
		{Type: models.QuestionTypeMultipleChoice, Points: 1, Text: "Speed of light?", Options: []string{"A. 3e8 m/s", "B. 340 m/s"}, Rubric: "A"},
		{Type: models.QuestionTypeShortAnswer, Points: 0, Text: "Define refraction.", Rubric: "Bending of light"},
		{Type: models.QuestionTypeShortAnswer, Points: 3, Text: "Explain total internal reflection.", Rubric: "Critical angle"},
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	exam, err := f.svc.GenerateWithLLM(context.Background(), teacherActor, dto.GenerateAIExamRequest{
		Topic: "Optics",
		Structure: []llm.QuestionSpec{
			{QuestionType: "MCQ", Points: 1, Count: 1},
			{QuestionType: "ShortAnswer", Points: 3, Count: 2},
		},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, defaultGradeLevel, f.generator.got.GradeLevel)
	assert.Equal(t, 5, exam.TotalMarks)
	require.Len(t, exam.Questions, 3)
	assert.Equal(t, 1, exam.Questions[1].Points, "missing points default to one")

	stored := f.questions.questions
	require.Len(t, stored, 3)
	assert.Equal(t, models.CategoryMCQ, stored[0].Category)
	assert.Equal(t, models.CategoryOneMark, stored[1].Category)
	assert.Equal(t, models.CategoryThreeMark, stored[2].Category)
	assert.Equal(t, "Critical angle", stored[2].ExpectedAnswer())
	assert.Equal(t, exam.ExamID, stored[0].ExamID)
}

func TestExamServiceGenerateWithLLMMalformedIsUpstreamFailure(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	f := newExamFixture(tx)
	f.generator.err = llm.ErrMalformedResponse

	_, err := f.svc.GenerateWithLLM(context.Background(), teacherActor, dto.GenerateAIExamRequest{
		Topic:     "Optics",
		Structure: []llm.QuestionSpec{{QuestionType: "MCQ", Points: 1, Count: 2}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
	assert.True(t, errors.Is(err, llm.ErrMalformedResponse))
	assert.Empty(t, f.exams.exams)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamServiceGenerateWithLLMRejectsUnknownType(t *testing.T) {
	f := newExamFixture(nil)
	_, err := f.svc.GenerateWithLLM(context.Background(), teacherActor, dto.GenerateAIExamRequest{
		Topic:     "Optics",
		Structure: []llm.QuestionSpec{{QuestionType: "Essay", Points: 5, Count: 1}},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExamServiceStartRequiresPublished(t *testing.T) {
	f := newExamFixture(nil, models.Exam{ID: 1, Title: "Optics", Status: models.ExamStatusScheduled})

	_, err := f.svc.Start(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
	assert.Equal(t, 400, appErrors.FromError(err).Status)

	_, err = f.svc.Start(context.Background(), 99)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestExamServicePublishThenStart(t *testing.T) {
	f := newExamFixture(nil, models.Exam{ID: 1, Title: "Optics", Status: models.ExamStatusScheduled})
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	exam, err := f.svc.Publish(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ExamStatusPublished, exam.Status)

	resp, err := f.svc.Start(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, "https://teach-assistant.com/exams/1/session/"+resp.SessionToken, resp.Link)
	assert.Equal(t, now.Add(time.Hour), resp.ExpiresAt)

	session := f.sessions.sessions[resp.SessionToken]
	require.NotNil(t, session)
	assert.Equal(t, int64(1), session.ExamID)
}

func TestExamServiceLifecycleTransitions(t *testing.T) {
	f := newExamFixture(nil,
		models.Exam{ID: 1, Status: models.ExamStatusScheduled},
		models.Exam{ID: 2, Status: models.ExamStatusCompleted},
	)

	_, err := f.svc.Complete(context.Background(), 1)
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)

	_, err = f.svc.Publish(context.Background(), 2)
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)

	_, err = f.svc.Publish(context.Background(), 1)
	require.NoError(t, err)
	exam, err := f.svc.Complete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.ExamStatusCompleted, exam.Status)
}

func TestExamServiceDownloadEscapesHTML(t *testing.T) {
	desc := "Chapter <3>"
	f := newExamFixture(nil, models.Exam{ID: 4, Title: "<b>Optics</b>", Description: &desc, Status: models.ExamStatusPublished})

	resp, err := f.svc.Download(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "html", resp.Format)
	assert.Contains(t, resp.Content, "<h1>&lt;b&gt;Optics&lt;/b&gt;</h1>")
	assert.Contains(t, resp.Content, "Chapter &lt;3&gt;")
	assert.Contains(t, resp.Content, "Status: published")
	assert.False(t, strings.Contains(resp.Content, "<b>"))
}

func TestExamServiceGetHidesAnswers(t *testing.T) {
	f := newExamFixture(nil, models.Exam{ID: 4, Title: "Optics", Status: models.ExamStatusPublished})
	f.questions = newQuestionStore(models.Question{ID: 1, ExamID: 4, Category: models.CategoryMCQ, Type: models.QuestionTypeMultipleChoice, Content: "Pick", Marks: 1, Options: models.QuestionOptions{"A", "B"}, Answer: strPtr("A")})
	f.svc.questions = f.questions

	exam, err := f.svc.Get(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, exam.Questions, 1)
	assert.Equal(t, 1, exam.TotalMarks)
	assert.Equal(t, []string{"A", "B"}, exam.Questions[0].Options)
}

func TestExamServicePurgeExpiredSessions(t *testing.T) {
	f := newExamFixture(nil)
	now := time.Now()
	f.svc.now = func() time.Time { return now }
	f.sessions.sessions["old"] = &models.ExamSession{Token: "old", ExpiresAt: now.Add(-time.Minute)}
	f.sessions.sessions["live"] = &models.ExamSession{Token: "live", ExpiresAt: now.Add(time.Minute)}

	removed, err := f.svc.PurgeExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Contains(t, f.sessions.sessions, "live")
}
