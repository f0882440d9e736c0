package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/invixio/invixio/internal/domain/user"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/postgres"
)

type userRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewUserRepository(client postgres.IClient, logger *logger.Logger) user.Repository {
	return &userRepository{client: client, logger: logger}
}

const userColumns = `id, email, name,
	company_name, company_email, company_address,
	business_type, currency, customer_id, onboarded,
	status, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	query := `
	INSERT INTO users (` + userColumns + `)
	VALUES (:id, :email, :name,
		:company_name, :company_email, :company_address,
		:business_type, :currency, :customer_id, :onboarded,
		:status, :created_at, :updated_at)
	`

	q := r.client.Querier(ctx)
	if _, err := q.NamedExecContext(ctx, query, u); err != nil {
		return ierr.WithError(err).
			WithHint("failed to create user").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*user.User, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, `email = $1`, email)
}

func (r *userRepository) GetByCustomerID(ctx context.Context, customerID string) (*user.User, error) {
	return r.getBy(ctx, `customer_id = $1`, customerID)
}

func (r *userRepository) getBy(ctx context.Context, cond string, arg interface{}) (*user.User, error) {
	q := r.client.Querier(ctx)

	var u user.User
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + cond
	if err := q.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, ierr.WithError(err).
			WithHint("failed to fetch user").
			Mark(ierr.ErrDatabase)
	}
	return &u, nil
}

func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	query := `
	UPDATE users SET
		name = :name,
		company_name = :company_name,
		company_email = :company_email,
		company_address = :company_address,
		business_type = :business_type,
		currency = :currency,
		customer_id = :customer_id,
		onboarded = :onboarded,
		updated_at = :updated_at
	WHERE id = :id
	`

	q := r.client.Querier(ctx)
	u.UpdatedAt = time.Now().UTC()
	res, err := q.NamedExecContext(ctx, query, u)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update user").
			Mark(ierr.ErrDatabase)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
