package models

// University is a top-level directory entry students pick their courses from.
type University struct {
	ID       string `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string `bson:"name" json:"name"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
}

// Course belongs to a university; each course has one classroom.
type Course struct {
	ID           string `bson:"_id,omitempty" json:"id,omitempty"`
	UniversityID string `bson:"universityId" json:"universityId"`
	Name         string `bson:"name" json:"name"`
}
