package seed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace-platform/internal/auth"
	"marketplace-platform/internal/catalog"
	"marketplace-platform/internal/rbac"
	"marketplace-platform/internal/tenant"
)

const demoTenantID = "demo-store"

// Demo bootstraps a demo tenant with one identity per role and a few
// products. It is idempotent: already-present records are left alone.
// Intended for local and dev environments only.
func Demo(ctx context.Context, log *slog.Logger, tenants tenant.Repository, authSvc *auth.Service, catalogSvc *catalog.Service) error {
	if _, err := tenants.FindByID(ctx, demoTenantID); errors.Is(err, tenant.ErrNotFound) {
		t := tenant.Tenant{
			ID:          demoTenantID,
			Name:        "Demo Store",
			Description: "Demo tenant for testing",
			CreatedAt:   time.Now().UTC(),
		}
		if err := tenants.Save(ctx, t); err != nil {
			return err
		}
		log.Info("seeded tenant", "tenant_id", demoTenantID)
	} else if err != nil {
		return err
	}

	users := []auth.RegisterRequest{
		{Subject: "admin@example.com", FullName: "Administrator", TenantID: demoTenantID, Password: "admin-password-1", Roles: []string{string(rbac.RoleAdmin)}},
		{Subject: "seller@example.com", FullName: "Seller User", TenantID: demoTenantID, Password: "seller-password-1", Roles: []string{string(rbac.RoleSeller)}},
		{Subject: "customer@example.com", FullName: "Customer User", TenantID: demoTenantID, Password: "customer-password-1", Roles: []string{string(rbac.RoleCustomer)}},
	}
	for _, u := range users {
		if _, _, err := authSvc.Register(ctx, u); err != nil {
			if errors.Is(err, auth.ErrDuplicateSubject) {
				continue
			}
			return err
		}
		log.Info("seeded identity", "subject", u.Subject)
	}

	seller := auth.Principal{
		Subject:  "seller@example.com",
		TenantID: demoTenantID,
		Roles:    []string{string(rbac.RoleSeller)},
	}
	products := []catalog.CreateRequest{
		{Name: "Espresso Beans 1kg", Description: "Dark roast, whole beans", PriceMinor: 1499, Stock: 40},
		{Name: "Pour-Over Kettle", Description: "Gooseneck, 1L", PriceMinor: 3999, Stock: 12},
	}
	for _, req := range products {
		if _, err := catalogSvc.Create(ctx, seller, req, nil); err != nil {
			if errors.Is(err, catalog.ErrDuplicateName) {
				continue
			}
			return err
		}
		log.Info("seeded product", "name", req.Name)
	}
	return nil
}
