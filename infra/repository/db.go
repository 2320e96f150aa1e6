package repository

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres and migrates the schema. TranslateError is on so
// unique-index violations surface as gorm.ErrDuplicatedKey rather than raw
// driver errors.
func Open(url string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&User{}, &Account{}, &Transfer{}, &Grant{}); err != nil {
		return nil, err
	}
	return db, nil
}
