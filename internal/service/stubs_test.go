package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/teach-assist-api/internal/llm"
	"github.com/noah-isme/teach-assist-api/internal/models"
	appErrors "github.com/noah-isme/teach-assist-api/pkg/errors"
)

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

type examStoreStub struct {
	exams          map[int64]*models.Exam
	nextID         int64
	createErr      error
	completeResult bool
}

func newExamStore(exams ...models.Exam) *examStoreStub {
	s := &examStoreStub{exams: map[int64]*models.Exam{}}
	for i := range exams {
		e := exams[i]
		s.exams[e.ID] = &e
		if e.ID > s.nextID {
			s.nextID = e.ID
		}
	}
	return s
}

func (s *examStoreStub) Create(_ context.Context, _ sqlx.ExtContext, exam *models.Exam) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	exam.ID = s.nextID
	exam.CreatedAt = time.Now()
	exam.UpdatedAt = exam.CreatedAt
	stored := *exam
	s.exams[exam.ID] = &stored
	return nil
}

func (s *examStoreStub) FindByID(_ context.Context, id int64) (*models.Exam, error) {
	e, ok := s.exams[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *e
	return &out, nil
}

func (s *examStoreStub) UpdateStatus(_ context.Context, _ sqlx.ExtContext, id int64, status models.ExamStatus) error {
	e, ok := s.exams[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Status = status
	return nil
}

func (s *examStoreStub) CompleteIfFullyGraded(_ context.Context, _ sqlx.ExtContext, id int64) (bool, error) {
	if s.completeResult {
		if e, ok := s.exams[id]; ok {
			e.Status = models.ExamStatusCompleted
		}
	}
	return s.completeResult, nil
}

type questionStoreStub struct {
	questions []models.Question
	nextID    int64
	createErr error
}

func newQuestionStore(questions ...models.Question) *questionStoreStub {
	s := &questionStoreStub{}
	for _, q := range questions {
		s.questions = append(s.questions, q)
		if q.ID > s.nextID {
			s.nextID = q.ID
		}
	}
	return s
}

func (s *questionStoreStub) CreateBatch(_ context.Context, _ sqlx.ExtContext, questions []models.Question) error {
	if s.createErr != nil {
		return s.createErr
	}
	for i := range questions {
		s.nextID++
		questions[i].ID = s.nextID
		s.questions = append(s.questions, questions[i])
	}
	return nil
}

func (s *questionStoreStub) FindByID(_ context.Context, id int64) (*models.Question, error) {
	for _, q := range s.questions {
		if q.ID == id {
			out := q
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *questionStoreStub) ListByExam(_ context.Context, examID int64) ([]models.Question, error) {
	var out []models.Question
	for _, q := range s.questions {
		if q.ExamID == examID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *questionStoreStub) FindByIDs(_ context.Context, examID int64, ids []int64) ([]models.Question, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Question
	for _, q := range s.questions {
		if q.ExamID == examID && want[q.ID] {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *questionStoreStub) SumMarks(_ context.Context, _ sqlx.ExtContext, examID int64) (int, error) {
	total := 0
	for _, q := range s.questions {
		if q.ExamID == examID {
			total += q.Marks
		}
	}
	return total, nil
}

type sessionStoreStub struct {
	sessions map[string]*models.ExamSession
	purged   int64
}

func newSessionStore(sessions ...models.ExamSession) *sessionStoreStub {
	s := &sessionStoreStub{sessions: map[string]*models.ExamSession{}}
	for i := range sessions {
		sess := sessions[i]
		s.sessions[sess.Token] = &sess
	}
	return s
}

func (s *sessionStoreStub) Create(_ context.Context, session *models.ExamSession) error {
	session.CreatedAt = time.Now()
	stored := *session
	s.sessions[session.Token] = &stored
	return nil
}

func (s *sessionStoreStub) FindByToken(_ context.Context, token string) (*models.ExamSession, error) {
	sess, ok := s.sessions[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *sess
	return &out, nil
}

func (s *sessionStoreStub) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	for token, sess := range s.sessions {
		if sess.ExpiresAt.Before(cutoff) {
			delete(s.sessions, token)
			removed++
		}
	}
	s.purged += removed
	return removed, nil
}

type responseStoreStub struct {
	rows      []models.StudentResponse
	nextID    int64
	insertErr error
}

func (s *responseStoreStub) Insert(_ context.Context, _ sqlx.ExtContext, resp *models.StudentResponse) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.nextID++
	resp.ID = s.nextID
	resp.CreatedAt = time.Now()
	s.rows = append(s.rows, *resp)
	return nil
}

func (s *responseStoreStub) FindByID(_ context.Context, id int64) (*models.StudentResponse, error) {
	for _, r := range s.rows {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *responseStoreStub) ListByStudentExam(_ context.Context, examID, studentID int64) ([]models.StudentResponse, error) {
	var out []models.StudentResponse
	for _, r := range s.rows {
		if r.ExamID == examID && r.StudentID == studentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *responseStoreStub) UpdateScore(_ context.Context, _ sqlx.ExtContext, id int64, marks float64, feedback *string) error {
	for i := range s.rows {
		if s.rows[i].ID == id {
			score := marks
			s.rows[i].MarksObtained = &score
			s.rows[i].Feedback = feedback
			return nil
		}
	}
	return sql.ErrNoRows
}

func (s *responseStoreStub) SumObtained(_ context.Context, _ sqlx.ExtContext, examID, studentID int64) (float64, error) {
	var total float64
	for _, r := range s.rows {
		if r.ExamID == examID && r.StudentID == studentID && r.MarksObtained != nil {
			total += *r.MarksObtained
		}
	}
	return total, nil
}

// seed appends a stored row with a precomputed score.
func (s *responseStoreStub) seed(studentID, examID, questionID int64, response string, score float64) int64 {
	s.nextID++
	s.rows = append(s.rows, models.StudentResponse{
		ID:            s.nextID,
		StudentID:     studentID,
		ExamID:        examID,
		QuestionID:    questionID,
		Response:      response,
		MarksObtained: &score,
	})
	return s.nextID
}

type marksStoreStub struct {
	records    map[[2]int64]*models.Marks
	stats      []models.ExamStat
	statsCalls int
	onStats    func()
}

func newMarksStore() *marksStoreStub {
	return &marksStoreStub{records: map[[2]int64]*models.Marks{}}
}

func (s *marksStoreStub) Upsert(_ context.Context, _ sqlx.ExtContext, marks *models.Marks) error {
	key := [2]int64{marks.ExamID, marks.StudentID}
	if existing, ok := s.records[key]; ok {
		marks.ID = existing.ID
	} else {
		marks.ID = int64(len(s.records) + 1)
	}
	marks.GradedAt = time.Now()
	stored := *marks
	s.records[key] = &stored
	return nil
}

func (s *marksStoreStub) FindByStudentExam(_ context.Context, examID, studentID int64) (*models.Marks, error) {
	m, ok := s.records[[2]int64{examID, studentID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *m
	return &out, nil
}

func (s *marksStoreStub) Stats(_ context.Context, _ int64) ([]models.ExamStat, error) {
	s.statsCalls++
	if s.onStats != nil {
		s.onStats()
	}
	return s.stats, nil
}

type generatorStub struct {
	questions []llm.GeneratedQuestion
	err       error
	got       llm.GenerationRequest
}

func (g *generatorStub) GenerateQuestions(_ context.Context, req llm.GenerationRequest) ([]llm.GeneratedQuestion, error) {
	g.got = req
	return g.questions, g.err
}

type graderStub struct {
	grade llm.Grade
	err   error
	calls int
}

func (g *graderStub) GradeShortAnswer(_ context.Context, _, _, _ string, _ int) (llm.Grade, error) {
	g.calls++
	return g.grade, g.err
}

type cacheRepoStub struct {
	data    map[string][]byte
	deleted []string
	setErr  error
}

func newCacheRepo() *cacheRepoStub {
	return &cacheRepoStub{data: map[string][]byte{}}
}

func (c *cacheRepoStub) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheRepoStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *cacheRepoStub) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func strPtr(s string) *string { return &s }
