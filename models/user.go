package models

import "time"

// User defines a student profile. The document id doubles as the identity
// provider uid; FCMToken is the push delivery token and may be empty.
type User struct {
	ID          string    `bson:"_id,omitempty" json:"id,omitempty"`
	Email       string    `bson:"email" json:"email"`
	DisplayName string    `bson:"displayName" json:"displayName"`
	CourseID    string    `bson:"courseId,omitempty" json:"courseId,omitempty"`
	FCMToken    string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
