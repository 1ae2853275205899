package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/barberhub/booking-service/internal/domain"
	"github.com/barberhub/booking-service/pkg/dbmetrics"
	"github.com/barberhub/booking-service/pkg/psqlbuilder"
)

// Repository репозиторий тенантов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тенантов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тенанта по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "GetByID")
}

// GetBySubdomain получает тенанта по поддомену
func (r *Repository) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	return r.getOne(ctx, squirrel.Eq{"subdomain": subdomain}, "GetBySubdomain")
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq, method string) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"subdomain",
		"is_active",
		"created_at",
	).
		From("tenants").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var t domain.Tenant
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.Name,
		&t.Subdomain,
		&t.IsActive,
		&createdAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan tenant: %v", ErrScanRow, method, err)
	}

	t.CreatedAt = createdAt.Time

	return &t, nil
}
