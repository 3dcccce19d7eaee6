package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studyduel/models"
)

// Mongo implements Store on top of a MongoDB database handle.
type Mongo struct {
	duels        *mongoDuels
	classrooms   *mongoClassrooms
	questions    *mongoQuestions
	users        *mongoUsers
	universities *mongoUniversities
	courses      *mongoCourses
}

// NewMongo wires the collection-backed stores from an injected database.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		duels:        &mongoDuels{coll: db.Collection("duels")},
		classrooms:   &mongoClassrooms{coll: db.Collection("classrooms")},
		questions:    &mongoQuestions{coll: db.Collection("questions")},
		users:        &mongoUsers{coll: db.Collection("users")},
		universities: &mongoUniversities{coll: db.Collection("universities")},
		courses:      &mongoCourses{coll: db.Collection("courses")},
	}
}

func (m *Mongo) Duels() DuelStore              { return m.duels }
func (m *Mongo) Classrooms() ClassroomStore    { return m.classrooms }
func (m *Mongo) Questions() QuestionStore      { return m.questions }
func (m *Mongo) Users() UserStore              { return m.users }
func (m *Mongo) Universities() UniversityStore { return m.universities }
func (m *Mongo) Courses() CourseStore          { return m.courses }

func newID() string {
	return primitive.NewObjectID().Hex()
}

type mongoDuels struct {
	coll *mongo.Collection
}

func (s *mongoDuels) Insert(ctx context.Context, duel *models.Duel) (string, error) {
	if duel.ID == "" {
		duel.ID = newID()
	}
	now := time.Now().UTC()
	duel.CreatedAt = now
	duel.UpdatedAt = now
	duel.Version = 1
	if _, err := s.coll.InsertOne(ctx, duel); err != nil {
		return "", fmt.Errorf("failed to insert duel: %w", err)
	}
	return duel.ID, nil
}

func (s *mongoDuels) Get(ctx context.Context, id string) (*models.Duel, error) {
	var duel models.Duel
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&duel)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch duel: %w", err)
	}
	return &duel, nil
}

// Update replaces the full duel document, conditional on the version the
// caller read. A stale version means another writer got there first.
func (s *mongoDuels) Update(ctx context.Context, duel *models.Duel) error {
	readVersion := duel.Version
	duel.Version = readVersion + 1
	duel.UpdatedAt = time.Now().UTC()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": duel.ID, "version": readVersion}, duel)
	if err != nil {
		duel.Version = readVersion
		return fmt.Errorf("failed to update duel: %w", err)
	}
	if res.MatchedCount == 0 {
		duel.Version = readVersion
		return ErrVersionConflict
	}
	return nil
}

func (s *mongoDuels) FinishedByClassroom(ctx context.Context, classroomID string) ([]models.Duel, error) {
	filter := bson.M{"classroomId": classroomID, "status": models.DuelFinished}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query duels: %w", err)
	}
	defer cursor.Close(ctx)

	var duels []models.Duel
	if err := cursor.All(ctx, &duels); err != nil {
		return nil, fmt.Errorf("failed to decode duels: %w", err)
	}
	return duels, nil
}

type mongoClassrooms struct {
	coll *mongo.Collection
}

func (s *mongoClassrooms) Get(ctx context.Context, id string) (*models.Classroom, error) {
	var classroom models.Classroom
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&classroom)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch classroom: %w", err)
	}
	return &classroom, nil
}

func (s *mongoClassrooms) FindByCourse(ctx context.Context, courseID string) (*models.Classroom, error) {
	var classroom models.Classroom
	err := s.coll.FindOne(ctx, bson.M{"courseId": courseID}).Decode(&classroom)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch classroom: %w", err)
	}
	return &classroom, nil
}

func (s *mongoClassrooms) Create(ctx context.Context, classroom *models.Classroom) (string, error) {
	if classroom.ID == "" {
		classroom.ID = newID()
	}
	if _, err := s.coll.InsertOne(ctx, classroom); err != nil {
		return "", fmt.Errorf("failed to insert classroom: %w", err)
	}
	return classroom.ID, nil
}

func (s *mongoClassrooms) AddMember(ctx context.Context, classroomID, userID string) error {
	update := bson.M{"$addToSet": bson.M{"members": userID}}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": classroomID}, update)
	if err != nil {
		return fmt.Errorf("failed to add classroom member: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClaimWaitingSlot runs two single-document check-and-set attempts: first
// claim a foreign occupant, then take the empty slot. Each FindOneAndUpdate
// is atomic, so two concurrent joiners can never both claim the same
// opponent or both end up waiting. The retry loop covers the narrow window
// where the slot flips between the two attempts.
func (s *mongoClassrooms) ClaimWaitingSlot(ctx context.Context, classroomID, playerID string) (string, bool, error) {
	for attempt := 0; attempt < 3; attempt++ {
		claim := bson.M{
			"_id":           classroomID,
			"waitingPlayer": bson.M{"$exists": true, "$nin": bson.A{"", playerID}},
		}
		before := options.FindOneAndUpdate().SetReturnDocument(options.Before)

		var classroom models.Classroom
		err := s.coll.FindOneAndUpdate(ctx, claim, bson.M{"$set": bson.M{"waitingPlayer": ""}}, before).Decode(&classroom)
		if err == nil {
			return classroom.WaitingPlayer, true, nil
		}
		if err != mongo.ErrNoDocuments {
			return "", false, fmt.Errorf("failed to claim waiting slot: %w", err)
		}

		enqueue := bson.M{
			"_id": classroomID,
			"$or": bson.A{
				bson.M{"waitingPlayer": bson.M{"$exists": false}},
				bson.M{"waitingPlayer": ""},
			},
		}
		err = s.coll.FindOneAndUpdate(ctx, enqueue, bson.M{"$set": bson.M{"waitingPlayer": playerID}}).Err()
		if err == nil {
			return "", false, nil
		}
		if err != mongo.ErrNoDocuments {
			return "", false, fmt.Errorf("failed to enter waiting slot: %w", err)
		}

		// Neither branch matched: the classroom is missing, the caller is
		// already the waiter, or the slot changed hands mid-flight.
		classroomDoc, getErr := s.Get(ctx, classroomID)
		if getErr != nil {
			return "", false, getErr
		}
		if classroomDoc.WaitingPlayer == playerID {
			return "", false, ErrAlreadyQueued
		}
	}
	return "", false, ErrVersionConflict
}

type mongoQuestions struct {
	coll *mongo.Collection
}

func (s *mongoQuestions) Insert(ctx context.Context, question *models.Question) (string, error) {
	if question.ID == "" {
		question.ID = newID()
	}
	question.CreatedAt = time.Now().UTC()
	if _, err := s.coll.InsertOne(ctx, question); err != nil {
		return "", fmt.Errorf("failed to insert question: %w", err)
	}
	return question.ID, nil
}

func (s *mongoQuestions) List(ctx context.Context, limit int) ([]models.Question, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

func (s *mongoQuestions) Count(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

type mongoUsers struct {
	coll *mongo.Collection
}

func (s *mongoUsers) Insert(ctx context.Context, user *models.User) (string, error) {
	if user.ID == "" {
		user.ID = newID()
	}
	user.CreatedAt = time.Now().UTC()
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return user.ID, nil
}

func (s *mongoUsers) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (s *mongoUsers) SetCourse(ctx context.Context, userID, courseID string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"courseId": courseID}})
	if err != nil {
		return fmt.Errorf("failed to set user course: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoUniversities struct {
	coll *mongo.Collection
}

func (s *mongoUniversities) Insert(ctx context.Context, university *models.University) (string, error) {
	if university.ID == "" {
		university.ID = newID()
	}
	if _, err := s.coll.InsertOne(ctx, university); err != nil {
		return "", fmt.Errorf("failed to insert university: %w", err)
	}
	return university.ID, nil
}

func (s *mongoUniversities) List(ctx context.Context) ([]models.University, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	defer cursor.Close(ctx)

	var universities []models.University
	if err := cursor.All(ctx, &universities); err != nil {
		return nil, fmt.Errorf("failed to decode universities: %w", err)
	}
	return universities, nil
}

type mongoCourses struct {
	coll *mongo.Collection
}

func (s *mongoCourses) Insert(ctx context.Context, course *models.Course) (string, error) {
	if course.ID == "" {
		course.ID = newID()
	}
	if _, err := s.coll.InsertOne(ctx, course); err != nil {
		return "", fmt.Errorf("failed to insert course: %w", err)
	}
	return course.ID, nil
}

func (s *mongoCourses) Get(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}
	return &course, nil
}

func (s *mongoCourses) ListByUniversity(ctx context.Context, universityID string) ([]models.Course, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"universityId": universityID})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("failed to decode courses: %w", err)
	}
	return courses, nil
}
