package postgres

import (
	"github.com/totemlabs/totems-engine/internal/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}
