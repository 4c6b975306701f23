package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tanishq4141/PROJECT-ALPHA/internal/dto"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/models"
	"github.com/tanishq4141/PROJECT-ALPHA/internal/repository"
	"github.com/tanishq4141/PROJECT-ALPHA/pkg/events"
)

// memStore is an in-memory stand-in for the lifecycle tables.
type memStore struct {
	mu               sync.Mutex
	users            map[string]*models.User
	batches          map[string]*models.Batch
	members          map[string][]string
	batchAssignments map[string][]string
	assignments      []*models.Assignment
	records          map[string]*models.AssignmentRecord
	listCalls        int
	clock            time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:            map[string]*models.User{},
		batches:          map[string]*models.Batch{},
		members:          map[string][]string{},
		batchAssignments: map[string][]string{},
		records:          map[string]*models.AssignmentRecord{},
		clock:            time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) addUser(id, name, email string, role models.UserRole) {
	m.users[id] = &models.User{ID: id, Name: name, Email: email, Role: role, CreatedAt: m.tick()}
}

func (m *memStore) addBatch(id, teacherID string, students ...string) {
	m.batches[id] = &models.Batch{ID: id, Name: "Batch " + id, TeacherID: teacherID, CreatedAt: m.tick()}
	m.members[id] = append([]string(nil), students...)
}

func recordKey(studentID, assignmentID string) string { return studentID + "|" + assignmentID }

func (m *memStore) record(studentID, assignmentID string) *models.AssignmentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[recordKey(studentID, assignmentID)]
}

func (m *memStore) recordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func (m *memStore) distributeLocked(assignmentID string, batchID *string, studentIDs []string) repository.Fanout {
	targets := map[string]struct{}{}
	if batchID != nil {
		linked := false
		for _, id := range m.batchAssignments[*batchID] {
			linked = linked || id == assignmentID
		}
		if !linked {
			m.batchAssignments[*batchID] = append(m.batchAssignments[*batchID], assignmentID)
		}
		for _, s := range m.members[*batchID] {
			targets[s] = struct{}{}
		}
	}
	for _, s := range studentIDs {
		targets[s] = struct{}{}
	}
	fanout := repository.Fanout{Targeted: len(targets)}
	for s := range targets {
		key := recordKey(s, assignmentID)
		if _, ok := m.records[key]; ok {
			continue
		}
		at := m.tick()
		m.records[key] = &models.AssignmentRecord{
			StudentID: s, AssignmentID: assignmentID, Status: models.StatusPending, AssignedAt: at, UpdatedAt: at,
		}
		fanout.Created++
	}
	return fanout
}

func (m *memStore) findAssignmentLocked(id string) *models.Assignment {
	for _, a := range m.assignments {
		if a.ID == id {
			return a
		}
	}
	return nil
}

type memAssignments struct{ *memStore }

func (m memAssignments) Create(_ context.Context, a *models.Assignment) (repository.Fanout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.assignments = append(m.assignments, &cp)
	if a.BatchID == nil {
		return repository.Fanout{}, nil
	}
	return m.distributeLocked(a.ID, a.BatchID, nil), nil
}

func (m memAssignments) Distribute(_ context.Context, assignmentID string, batchID *string, studentIDs []string) (repository.Fanout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.distributeLocked(assignmentID, batchID, studentIDs), nil
}

func (m memAssignments) FindByID(_ context.Context, id string) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a := m.findAssignmentLocked(id); a != nil {
		cp := *a
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m memAssignments) ListByTeacher(_ context.Context, teacherID string) ([]models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	out := []models.Assignment{}
	for i := len(m.assignments) - 1; i >= 0; i-- {
		if m.assignments[i].TeacherID == teacherID {
			out = append(out, *m.assignments[i])
		}
	}
	return out, nil
}

type memBatches struct{ *memStore }

func (m memBatches) FindByID(_ context.Context, id string) (*models.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.batches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m memBatches) Create(_ context.Context, b *models.Batch, studentIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.batches[b.ID] = &cp
	m.members[b.ID] = append([]string(nil), studentIDs...)
	return nil
}

func (m memBatches) ListByTeacher(ctx context.Context, teacherID string) ([]models.BatchDetail, error) {
	m.mu.Lock()
	var list []models.Batch
	for _, b := range m.batches {
		if b.TeacherID == teacherID {
			list = append(list, *b)
		}
	}
	m.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return m.Hydrate(ctx, list)
}

func (m memBatches) Hydrate(_ context.Context, batches []models.Batch) ([]models.BatchDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.BatchDetail, 0, len(batches))
	for _, b := range batches {
		detail := models.BatchDetail{Batch: b, Students: []models.UserSummary{}, AssignmentIDs: []string{}}
		if t, ok := m.users[b.TeacherID]; ok {
			detail.Teacher = models.UserSummary{ID: t.ID, Name: t.Name, Email: t.Email}
		}
		for _, id := range m.members[b.ID] {
			u := m.users[id]
			detail.Students = append(detail.Students, models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email})
		}
		detail.AssignmentIDs = append(detail.AssignmentIDs, m.batchAssignments[b.ID]...)
		out = append(out, detail)
	}
	return out, nil
}

func (m memBatches) Students(_ context.Context, batchID string) ([]models.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserSummary{}
	for _, id := range m.members[batchID] {
		u := m.users[id]
		out = append(out, models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return out, nil
}

func (m memBatches) Assignments(_ context.Context, batchID string) ([]dto.GradebookColumn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []dto.GradebookColumn{}
	for _, id := range m.batchAssignments[batchID] {
		out = append(out, dto.GradebookColumn{ID: id, Title: m.findAssignmentLocked(id).Title})
	}
	return out, nil
}

type memUsers struct{ *memStore }

func (m memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m memUsers) ExistingStudentIDs(_ context.Context, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, id := range ids {
		if u, ok := m.users[id]; ok && u.Role == models.RoleStudent {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m memUsers) FindStudentsByEmails(_ context.Context, emails []string) ([]models.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UserSummary
	for _, u := range m.users {
		if u.Role != models.RoleStudent {
			continue
		}
		for _, e := range emails {
			if strings.EqualFold(e, u.Email) {
				out = append(out, models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email})
				break
			}
		}
	}
	return out, nil
}

type memRecords struct{ *memStore }

func (m memRecords) ListForStudent(_ context.Context, studentID string) ([]models.StudentAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.StudentAssignment{}
	for _, r := range m.records {
		if r.StudentID != studentID {
			continue
		}
		a := m.findAssignmentLocked(r.AssignmentID)
		out = append(out, models.StudentAssignment{Assignment: *a, Status: r.Status, Score: r.Score, CompletedAt: r.CompletedAt})
	}
	return out, nil
}

func (m memRecords) Complete(_ context.Context, studentID, assignmentID string, score int, at time.Time) (*models.AssignmentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := recordKey(studentID, assignmentID)
	rec, ok := m.records[key]
	if !ok {
		rec = &models.AssignmentRecord{StudentID: studentID, AssignmentID: assignmentID, AssignedAt: at}
		m.records[key] = rec
	}
	rec.Status = models.StatusCompleted
	rec.Score = score
	rec.CompletedAt = &at
	rec.UpdatedAt = at
	cp := *rec
	return &cp, nil
}

func (m memRecords) ListForBatch(_ context.Context, batchID string) ([]dto.GradebookEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []dto.GradebookEntry
	for _, r := range m.records {
		for _, s := range m.members[batchID] {
			if s == r.StudentID {
				out = append(out, dto.GradebookEntry{StudentID: r.StudentID, AssignmentID: r.AssignmentID, Status: r.Status, Score: r.Score})
			}
		}
	}
	return out, nil
}

type recordingActivity struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingActivity) Record(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingActivity) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func teacherActor(id string) models.Actor { return models.Actor{ID: id, Role: models.RoleTeacher} }

func studentActor(id string) models.Actor { return models.Actor{ID: id, Role: models.RoleStudent} }

func option(i int) *int { return &i }

func sampleQuestions() []dto.QuestionInput {
	return []dto.QuestionInput{
		{Question: "2+2?", Options: []string{"3", "4"}, CorrectOption: option(1)},
		{Question: "Capital of France?", Options: []string{"Paris", "Rome", "Oslo"}, CorrectOption: option(0)},
	}
}
