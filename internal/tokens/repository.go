package tokens

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save stores or replaces the token for a host.
func (r *Repository) Save(host, username, token string) (*Token, error) {
	record := &Token{
		Host:      host,
		Username:  username,
		Token:     token,
		CreatedAt: time.Now(),
	}

	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *Repository) GetForHost(host string) (*Token, error) {
	record := &Token{}

	err := r.db.First(record, "host = ?", host).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return record, nil
}

func (r *Repository) Delete(host string) error {
	return r.db.Delete(&Token{}, "host = ?", host).Error
}

func (r *Repository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Token{}).Error
}

// TokenFor satisfies the transport's token source: a missing token is not
// an error, just an empty result.
func (r *Repository) TokenFor(host string) (string, string, error) {
	record, err := r.GetForHost(host)

	if err != nil {
		return "", "", err
	}

	if record == nil {
		return "", "", nil
	}

	return record.Username, record.Token, nil
}
