package models

import (
	"time"
)

const DefaultAvatar = "😀"

type User struct {
	ID        string    `firestore:"id" json:"id"`
	Name      string    `firestore:"name" json:"name"`
	Email     string    `firestore:"email" json:"email"`
	Avatar    string    `firestore:"avatar" json:"avatar"`
	FamilyID  string    `firestore:"familyId" json:"familyId"`
	Password  string    `firestore:"password" json:"-"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
