package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"studyduel/models"
)

// Memory is an in-process Store used by tests and local development. Every
// read hands out a copy, mirroring the decode round-trip of the real store
// so callers cannot mutate persisted state by accident.
type Memory struct {
	mu           sync.Mutex
	duels        map[string]*models.Duel
	classrooms   map[string]*models.Classroom
	questions    []models.Question
	users        map[string]*models.User
	universities []models.University
	courses      map[string]*models.Course
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		duels:      make(map[string]*models.Duel),
		classrooms: make(map[string]*models.Classroom),
		users:      make(map[string]*models.User),
		courses:    make(map[string]*models.Course),
	}
}

func (m *Memory) Duels() DuelStore              { return (*memDuels)(m) }
func (m *Memory) Classrooms() ClassroomStore    { return (*memClassrooms)(m) }
func (m *Memory) Questions() QuestionStore      { return (*memQuestions)(m) }
func (m *Memory) Users() UserStore              { return (*memUsers)(m) }
func (m *Memory) Universities() UniversityStore { return (*memUniversities)(m) }
func (m *Memory) Courses() CourseStore          { return (*memCourses)(m) }

func copyDuel(d *models.Duel) *models.Duel {
	cp := *d
	cp.Rounds = make([]models.Round, len(d.Rounds))
	for i, r := range d.Rounds {
		round := r
		round.Player1Answers = append([]models.PlayerAnswer(nil), r.Player1Answers...)
		round.Player2Answers = append([]models.PlayerAnswer(nil), r.Player2Answers...)
		cp.Rounds[i] = round
	}
	return &cp
}

type memDuels Memory

func (m *memDuels) Insert(ctx context.Context, duel *models.Duel) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if duel.ID == "" {
		duel.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	duel.CreatedAt = now
	duel.UpdatedAt = now
	duel.Version = 1
	m.duels[duel.ID] = copyDuel(duel)
	return duel.ID, nil
}

func (m *memDuels) Get(ctx context.Context, id string) (*models.Duel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	duel, ok := m.duels[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDuel(duel), nil
}

func (m *memDuels) Update(ctx context.Context, duel *models.Duel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.duels[duel.ID]
	if !ok || current.Version != duel.Version {
		return ErrVersionConflict
	}
	duel.Version++
	duel.UpdatedAt = time.Now().UTC()
	m.duels[duel.ID] = copyDuel(duel)
	return nil
}

func (m *memDuels) FinishedByClassroom(ctx context.Context, classroomID string) ([]models.Duel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var duels []models.Duel
	for _, d := range m.duels {
		if d.ClassroomID == classroomID && d.Status == models.DuelFinished {
			duels = append(duels, *copyDuel(d))
		}
	}
	return duels, nil
}

type memClassrooms Memory

func (m *memClassrooms) Get(ctx context.Context, id string) (*models.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	classroom, ok := m.classrooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *classroom
	cp.Members = append([]string(nil), classroom.Members...)
	return &cp, nil
}

func (m *memClassrooms) FindByCourse(ctx context.Context, courseID string) (*models.Classroom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, classroom := range m.classrooms {
		if classroom.CourseID == courseID {
			cp := *classroom
			cp.Members = append([]string(nil), classroom.Members...)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memClassrooms) Create(ctx context.Context, classroom *models.Classroom) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if classroom.ID == "" {
		classroom.ID = primitive.NewObjectID().Hex()
	}
	cp := *classroom
	cp.Members = append([]string(nil), classroom.Members...)
	m.classrooms[classroom.ID] = &cp
	return classroom.ID, nil
}

func (m *memClassrooms) AddMember(ctx context.Context, classroomID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	classroom, ok := m.classrooms[classroomID]
	if !ok {
		return ErrNotFound
	}
	for _, member := range classroom.Members {
		if member == userID {
			return nil
		}
	}
	classroom.Members = append(classroom.Members, userID)
	return nil
}

func (m *memClassrooms) ClaimWaitingSlot(ctx context.Context, classroomID, playerID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	classroom, ok := m.classrooms[classroomID]
	if !ok {
		return "", false, ErrNotFound
	}
	switch classroom.WaitingPlayer {
	case "":
		classroom.WaitingPlayer = playerID
		return "", false, nil
	case playerID:
		return "", false, ErrAlreadyQueued
	default:
		opponent := classroom.WaitingPlayer
		classroom.WaitingPlayer = ""
		return opponent, true, nil
	}
}

type memQuestions Memory

func (m *memQuestions) Insert(ctx context.Context, question *models.Question) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if question.ID == "" {
		question.ID = primitive.NewObjectID().Hex()
	}
	question.CreatedAt = time.Now().UTC()
	m.questions = append(m.questions, *question)
	return question.ID, nil
}

func (m *memQuestions) List(ctx context.Context, limit int) ([]models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.questions) {
		limit = len(m.questions)
	}
	return append([]models.Question(nil), m.questions[:limit]...), nil
}

func (m *memQuestions) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.questions)), nil
}

type memUsers Memory

func (m *memUsers) Insert(ctx context.Context, user *models.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}
	user.CreatedAt = time.Now().UTC()
	cp := *user
	m.users[user.ID] = &cp
	return user.ID, nil
}

func (m *memUsers) Get(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *memUsers) SetCourse(ctx context.Context, userID, courseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.CourseID = courseID
	return nil
}

type memUniversities Memory

func (m *memUniversities) Insert(ctx context.Context, university *models.University) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if university.ID == "" {
		university.ID = primitive.NewObjectID().Hex()
	}
	m.universities = append(m.universities, *university)
	return university.ID, nil
}

func (m *memUniversities) List(ctx context.Context) ([]models.University, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.University(nil), m.universities...), nil
}

type memCourses Memory

func (m *memCourses) Insert(ctx context.Context, course *models.Course) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if course.ID == "" {
		course.ID = primitive.NewObjectID().Hex()
	}
	cp := *course
	m.courses[course.ID] = &cp
	return course.ID, nil
}

func (m *memCourses) Get(ctx context.Context, id string) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	course, ok := m.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *course
	return &cp, nil
}

func (m *memCourses) ListByUniversity(ctx context.Context, universityID string) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var courses []models.Course
	for _, course := range m.courses {
		if course.UniversityID == universityID {
			courses = append(courses, *course)
		}
	}
	return courses, nil
}
