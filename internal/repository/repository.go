package repository

import "gorm.io/gorm"

// Repository aggregates all repositories.
type Repository struct {
	Account AccountRepository
	Record  RecordRepository
}

// NewRepository creates the repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Account: NewAccountRepo(db),
		Record:  NewRecordRepo(db),
	}
}
