package models

import "time"

type Tag struct {
	TagID     string    `firestore:"tagId" json:"tagId"`
	Name      string    `firestore:"name" json:"name"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
