// Package seed provisions demo data for development environments.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cabinet/backend/internal/domain/identity"
)

// Seeder inserts a demo accountant, demo companies and one user per
// company. It is idempotent, existing records are left untouched.
type Seeder struct {
	userRepo   identity.UserRepository
	tenantRepo identity.TenantRepository
	logger     *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(userRepo identity.UserRepository, tenantRepo identity.TenantRepository, logger *zap.Logger) *Seeder {
	return &Seeder{
		userRepo:   userRepo,
		tenantRepo: tenantRepo,
		logger:     logger,
	}
}

type demoTenant struct {
	name      string
	code      string
	userEmail string
	userName  string
}

// Run seeds the demo data set. The password for every demo account is
// "Demo1234!".
func (s *Seeder) Run(ctx context.Context) error {
	const demoPassword = "Demo1234!"

	if err := s.seedAccountant(ctx, "accountant@cabinet.ma", demoPassword, "Sara Alami"); err != nil {
		return err
	}

	demoTenants := []demoTenant{
		{name: "Acme SARL", code: "001234567000089", userEmail: "jean@acme.ma", userName: "Jean Dupont"},
		{name: "Atlas Trading SA", code: "002345678000057", userEmail: "omar@atlas.ma", userName: "Omar Benani"},
	}
	for _, dt := range demoTenants {
		if err := s.seedTenantWithUser(ctx, dt, demoPassword); err != nil {
			return err
		}
	}

	s.logger.Info("Demo data ready")
	return nil
}

func (s *Seeder) seedAccountant(ctx context.Context, email, password, name string) error {
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check demo accountant: %w", err)
	}
	if exists {
		return nil
	}

	user, err := identity.NewAccountantUser(email, password, name)
	if err != nil {
		return fmt.Errorf("failed to build demo accountant: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create demo accountant: %w", err)
	}

	s.logger.Info("Seeded demo accountant", zap.String("email", email))
	return nil
}

func (s *Seeder) seedTenantWithUser(ctx context.Context, dt demoTenant, password string) error {
	tenant, err := s.tenantRepo.FindByCode(ctx, dt.code)
	if err != nil {
		tenant, err = identity.NewTenant(dt.name, dt.code)
		if err != nil {
			return fmt.Errorf("failed to build demo company %s: %w", dt.name, err)
		}
		if err := s.tenantRepo.Create(ctx, tenant); err != nil {
			return fmt.Errorf("failed to create demo company %s: %w", dt.name, err)
		}
		s.logger.Info("Seeded demo company", zap.String("name", dt.name))
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, dt.userEmail)
	if err != nil {
		return fmt.Errorf("failed to check demo user: %w", err)
	}
	if exists {
		return nil
	}

	user, err := identity.NewCompanyUser(dt.userEmail, password, dt.userName, tenant.ID)
	if err != nil {
		return fmt.Errorf("failed to build demo user %s: %w", dt.userEmail, err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create demo user %s: %w", dt.userEmail, err)
	}

	s.logger.Info("Seeded demo user", zap.String("email", dt.userEmail))
	return nil
}
