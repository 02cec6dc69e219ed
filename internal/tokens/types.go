package tokens

import "time"

// Token is a persisted registry authentication token, one per remote host.
type Token struct {
	Host      string    `gorm:"type:text;primaryKey"`
	Username  string    `gorm:"type:text"`
	Token     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"type:timestamp;not null"`
}
