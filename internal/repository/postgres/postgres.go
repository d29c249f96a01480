package postgres

import (
	"database/sql"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.AccessGrantRepository
	repository.AuditLogRepository
	repository.MembershipTxRepository

	InitialApplications repository.ApplicationRepository
	FullApplications    repository.ApplicationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		AccessGrantRepository:  NewAccessGrantRepository(db),
		AuditLogRepository:     NewAuditLogRepository(db),
		MembershipTxRepository: NewMembershipTxRepository(db),
		InitialApplications:    NewApplicationRepository(db, domain.ApplicationKindInitial),
		FullApplications:       NewApplicationRepository(db, domain.ApplicationKindFull),
	}
}

// Applications returns the read repository for the given kind.
func (s *Store) Applications(kind domain.ApplicationKind) repository.ApplicationRepository {
	if kind == domain.ApplicationKindInitial {
		return s.InitialApplications
	}
	return s.FullApplications
}
