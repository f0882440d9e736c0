package repository

import (
	"github.com/invixio/invixio/internal/domain/invoice"
	"github.com/invixio/invixio/internal/domain/subscription"
	"github.com/invixio/invixio/internal/domain/user"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/postgres"
	postgresRepo "github.com/invixio/invixio/internal/repository/postgres"
)

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(client, logger)
}

func NewUserRepository(client postgres.IClient, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(client, logger)
}

func NewSubscriptionRepository(client postgres.IClient, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(client, logger)
}
