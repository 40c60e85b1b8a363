package model

type UserRecord struct {
	ID          string   `firestore:"-" bson:"_id" json:"id"`
	DisplayName string   `firestore:"displayName" bson:"displayname" json:"displayName"`
	FCMTokens   []string `firestore:"fcmTokens" bson:"fcmtokens" json:"fcmTokens"`
}

// FirstName is the first word of the display name, used for compact chat titles.
func (u *UserRecord) FirstName() string {
	for i, r := range u.DisplayName {
		if r == ' ' {
			return u.DisplayName[:i]
		}
	}

	return u.DisplayName
}
