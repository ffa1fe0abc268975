package x_db

import (
	"context"
	"errors"
	"time"

	"github.com/rskv-p/minitrie/pkg/x_log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//---------------------
// Models
//---------------------

// Word is one dictionary entry. Text is unique per dictionary.
type Word struct {
	ID         uint64 `gorm:"primaryKey"`
	Dictionary string `gorm:"size:128;not null;uniqueIndex:idx_dictionary_text"`
	Text       string `gorm:"not null;uniqueIndex:idx_dictionary_text"`
	CreatedAt  time.Time
}

//---------------------
// DAO
//---------------------

// DAO wraps a gorm connection holding words and API users.
type DAO struct {
	db *gorm.DB
}

// Open connects and migrates the schema.
func Open(cfg Config) (*DAO, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	log := x_log.New("x_db")
	db, err := gorm.Open(d, &gorm.Config{Logger: newLogAdapter(&log, gormLevel(cfg.LogLevel))})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Word{}, &User{}); err != nil {
		return nil, err
	}
	log.Debug().Str("dialect", string(cfg.Dialect)).Msg("database ready")
	return &DAO{db: db}, nil
}

// Close releases the connection pool.
func (d *DAO) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AddWords stores words under dictionary, skipping ones already present.
// It returns how many rows were new.
func (d *DAO) AddWords(ctx context.Context, dictionary string, words []string) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}
	rows := make([]Word, len(words))
	for i, w := range words {
		rows[i] = Word{Dictionary: dictionary, Text: w}
	}
	res := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 500)
	return int(res.RowsAffected), res.Error
}

// EachWord streams the words of dictionary in insertion order.
func (d *DAO) EachWord(ctx context.Context, dictionary string, fn func(string) error) error {
	var batch []Word
	var stop error
	res := d.db.WithContext(ctx).
		Where("dictionary = ?", dictionary).
		Order("id").
		FindInBatches(&batch, 1000, func(tx *gorm.DB, _ int) error {
			for _, w := range batch {
				if err := fn(w.Text); err != nil {
					stop = err
					return err
				}
			}
			return nil
		})
	if stop != nil {
		return stop
	}
	return res.Error
}

// Words returns every word of dictionary in insertion order.
func (d *DAO) Words(ctx context.Context, dictionary string) ([]string, error) {
	var out []string
	err := d.db.WithContext(ctx).Model(&Word{}).
		Where("dictionary = ?", dictionary).
		Order("id").
		Pluck("text", &out).Error
	return out, err
}

// CountWords returns the size of dictionary.
func (d *DAO) CountWords(ctx context.Context, dictionary string) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&Word{}).Where("dictionary = ?", dictionary).Count(&n).Error
	return n, err
}

// Dictionaries lists distinct dictionary names.
func (d *DAO) Dictionaries(ctx context.Context) ([]string, error) {
	var out []string
	err := d.db.WithContext(ctx).Model(&Word{}).Distinct().Order("dictionary").Pluck("dictionary", &out).Error
	return out, err
}

// DeleteDictionary removes every word of dictionary.
func (d *DAO) DeleteDictionary(ctx context.Context, dictionary string) (int64, error) {
	res := d.db.WithContext(ctx).Where("dictionary = ?", dictionary).Delete(&Word{})
	return res.RowsAffected, res.Error
}

// IsNotFound reports gorm's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
