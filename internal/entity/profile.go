package entity

// ProfileAttribute is one declared key/value pair on a user's profile. The
// profile store is an external collaborator; this row type mirrors its
// read/write contract so the evaluator can be exercised locally.
type ProfileAttribute struct {
	UserID string `gorm:"primaryKey" json:"user_id"`
	Key    string `gorm:"primaryKey;column:attr_key" json:"key"`
	Value  string `gorm:"not null;column:attr_value" json:"value"`
}
