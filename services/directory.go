package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"studyduel/models"
	"studyduel/store"
)

// IdentityProvider creates accounts in the external identity platform. The
// returned uid doubles as the user's document id.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
}

// DirectoryService covers the university/course/user/classroom surface and
// question-set creation. It is plain validation-and-CRUD over the store.
type DirectoryService struct {
	universities store.UniversityStore
	courses      store.CourseStore
	users        store.UserStore
	classrooms   store.ClassroomStore
	questions    store.QuestionStore
	identity     IdentityProvider
	log          *zap.Logger
}

// NewDirectoryService wires the directory service. identity may be nil, in
// which case users exist only as store documents (local development).
func NewDirectoryService(st store.Store, identity IdentityProvider, log *zap.Logger) *DirectoryService {
	return &DirectoryService{
		universities: st.Universities(),
		courses:      st.Courses(),
		users:        st.Users(),
		classrooms:   st.Classrooms(),
		questions:    st.Questions(),
		identity:     identity,
		log:          log,
	}
}

func (s *DirectoryService) CreateUniversity(ctx context.Context, name, location string) (string, error) {
	return s.universities.Insert(ctx, &models.University{Name: name, Location: location})
}

// ListUniversities returns every university; an empty directory is reported
// as not found, matching the mobile client's expectation.
func (s *DirectoryService) ListUniversities(ctx context.Context) ([]models.University, error) {
	universities, err := s.universities.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(universities) == 0 {
		return nil, ErrUniversityNotFound
	}
	return universities, nil
}

func (s *DirectoryService) CreateCourse(ctx context.Context, universityID, name string) (string, error) {
	return s.courses.Insert(ctx, &models.Course{UniversityID: universityID, Name: name})
}

func (s *DirectoryService) ListCourses(ctx context.Context, universityID string) ([]models.Course, error) {
	courses, err := s.courses.ListByUniversity(ctx, universityID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrCourseNotFound
	}
	return courses, nil
}

// CreateUser registers the account with the identity provider when one is
// configured and stores the profile document under the same uid.
func (s *DirectoryService) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	var uid string
	if s.identity != nil {
		var err error
		uid, err = s.identity.CreateUser(ctx, email, password, displayName)
		if err != nil {
			return "", err
		}
	}
	return s.users.Insert(ctx, &models.User{ID: uid, Email: email, DisplayName: displayName})
}

func (s *DirectoryService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.users.Get(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// JoinCourse sets the user's course and adds them to the course's classroom,
// creating the classroom on its first join.
func (s *DirectoryService) JoinCourse(ctx context.Context, userID, courseID string) (string, error) {
	if _, err := s.courses.Get(ctx, courseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrCourseNotFound
		}
		return "", err
	}
	if err := s.users.SetCourse(ctx, userID, courseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	classroom, err := s.classrooms.FindByCourse(ctx, courseID)
	if errors.Is(err, store.ErrNotFound) {
		return s.classrooms.Create(ctx, &models.Classroom{
			CourseID: courseID,
			Members:  []string{userID},
		})
	}
	if err != nil {
		return "", err
	}
	if err := s.classrooms.AddMember(ctx, classroom.ID, userID); err != nil {
		return "", err
	}
	return classroom.ID, nil
}

// ClassroomMember is the member projection returned to clients.
type ClassroomMember struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// ClassroomView is a classroom with its members resolved to display names.
type ClassroomView struct {
	ID       string            `json:"id"`
	CourseID string            `json:"courseId"`
	Members  []ClassroomMember `json:"members"`
}

// GetClassroom resolves the classroom's member ids to user profiles; members
// whose profile document is missing are skipped.
func (s *DirectoryService) GetClassroom(ctx context.Context, classroomID string) (*ClassroomView, error) {
	classroom, err := s.classrooms.Get(ctx, classroomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}

	view := &ClassroomView{ID: classroom.ID, CourseID: classroom.CourseID, Members: []ClassroomMember{}}
	for _, memberID := range classroom.Members {
		user, err := s.users.Get(ctx, memberID)
		if errors.Is(err, store.ErrNotFound) {
			s.log.Warn("classroom member without user document",
				zap.String("classroomId", classroomID),
				zap.String("userId", memberID))
			continue
		}
		if err != nil {
			return nil, err
		}
		name := user.DisplayName
		if name == "" {
			name = "Unknown"
		}
		view.Members = append(view.Members, ClassroomMember{ID: user.ID, DisplayName: name})
	}
	return view, nil
}

// CreateQuestionSet validates and stores a new question: a text, exactly
// four options and a correctOptionId naming one of them.
func (s *DirectoryService) CreateQuestionSet(ctx context.Context, text string, options []models.Option, correctOptionID string) (string, error) {
	if text == "" || len(options) != models.OptionCount || correctOptionID == "" {
		return "", ErrInvalidQuestion
	}
	question := models.Question{Text: text, Options: options, CorrectOptionID: correctOptionID}
	if !question.HasOption(correctOptionID) {
		return "", ErrInvalidQuestion
	}
	return s.questions.Insert(ctx, &question)
}
