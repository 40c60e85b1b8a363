package model

import "time"

type Announcement struct {
	Title    string `firestore:"title" bson:"title" json:"title"`
	Content  string `firestore:"content" bson:"content" json:"content"`
	AuthorID string `firestore:"authorId" bson:"authorid" json:"authorId"`

	CreationDateTime time.Time `firestore:"createdAt" bson:"creationdatetime" json:"createdAt"`
}

type PrayerRequest struct {
	AuthorID   string `firestore:"authorId" bson:"authorid" json:"authorId"`
	AuthorName string `firestore:"authorName" bson:"authorname" json:"authorName"`
	Request    string `firestore:"request" bson:"request" json:"request"`

	CreationDateTime time.Time `firestore:"createdAt" bson:"creationdatetime" json:"createdAt"`
}
