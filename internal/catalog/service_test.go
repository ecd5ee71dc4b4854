package catalog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"marketplace-platform/internal/audit"
	"marketplace-platform/internal/auth"
	"marketplace-platform/internal/storage"
)

var (
	seller = auth.Principal{Subject: "seller@shop.com", TenantID: "tenant-1", Roles: []string{"SELLER"}}
	other  = auth.Principal{Subject: "other@shop.com", TenantID: "tenant-1", Roles: []string{"SELLER"}}
	admin  = auth.Principal{Subject: "admin@shop.com", TenantID: "tenant-1", Roles: []string{"ADMIN"}}
	buyer  = auth.Principal{Subject: "buyer@shop.com", TenantID: "tenant-1", Roles: []string{"CUSTOMER"}}
)

func testService(t *testing.T) (*Service, *audit.MemoryRepo) {
	t.Helper()
	audits := audit.NewMemoryRepo()
	svc := NewService(NewMemoryRepo(), storage.NewMemoryStore(), audit.NewService(audits), nil)
	base := time.Unix(1700000000, 0).UTC()
	seq := 0
	svc.clock = func() time.Time {
		// Monotonic steps keep listing order deterministic.
		seq++
		return base.Add(time.Duration(seq) * time.Second)
	}
	return svc, audits
}

func mustCreate(t *testing.T, svc *Service, p auth.Principal, name string) Product {
	t.Helper()
	product, err := svc.Create(context.Background(), p, CreateRequest{Name: name, PriceMinor: 1999, Stock: 5}, nil)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return product
}

func TestCreateProduct(t *testing.T) {
	svc, _ := testService(t)

	product := mustCreate(t, svc, seller, "Walnut Desk")
	if product.ID == "" {
		t.Fatal("expected generated id")
	}
	if product.TenantID != "tenant-1" || product.SellerSubject != seller.Subject {
		t.Fatalf("ownership not recorded: %+v", product)
	}
	if product.CreatedAt.IsZero() || !product.CreatedAt.Equal(product.UpdatedAt) {
		t.Fatalf("timestamps not set on create: %+v", product)
	}
}

func TestCreateProduct_RequiresSellerRole(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Create(context.Background(), buyer, CreateRequest{Name: "Lamp", PriceMinor: 100}, nil)
	if !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied, got %v", err)
	}

	// ADMIN may create even without the seller role.
	if _, err := svc.Create(context.Background(), admin, CreateRequest{Name: "Lamp", PriceMinor: 100}, nil); err != nil {
		t.Fatalf("admin create: %v", err)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _ := testService(t)

	cases := []CreateRequest{
		{Name: "   ", PriceMinor: 100, Stock: 1},
		{Name: "Chair", PriceMinor: -1, Stock: 1},
		{Name: "Chair", PriceMinor: 100, Stock: -1},
	}
	for _, req := range cases {
		if _, err := svc.Create(context.Background(), seller, req, nil); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("request %+v: expected ErrInvalidArgument, got %v", req, err)
		}
	}
}

func TestCreateProduct_DuplicateName(t *testing.T) {
	svc, _ := testService(t)
	mustCreate(t, svc, seller, "Walnut Desk")

	_, err := svc.Create(context.Background(), other, CreateRequest{Name: "walnut desk", PriceMinor: 500}, nil)
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	// Same name in a different tenant is fine.
	elsewhere := auth.Principal{Subject: "s@x.com", TenantID: "tenant-2", Roles: []string{"SELLER"}}
	if _, err := svc.Create(context.Background(), elsewhere, CreateRequest{Name: "Walnut Desk", PriceMinor: 500}, nil); err != nil {
		t.Fatalf("cross-tenant create: %v", err)
	}
}

func TestCreateProduct_WithImage(t *testing.T) {
	svc, _ := testService(t)

	img := &ImageUpload{
		Filename:    "desk.png",
		ContentType: "image/png",
		Size:        4,
		Data:        []byte{1, 2, 3, 4},
	}
	product, err := svc.Create(context.Background(), seller, CreateRequest{Name: "Desk", PriceMinor: 100}, img)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(product.ImageURL, "memory://") || !strings.HasSuffix(product.ImageURL, "-desk.png") {
		t.Fatalf("unexpected image url %q", product.ImageURL)
	}
}

func TestCreateProduct_RejectsBadImages(t *testing.T) {
	svc, _ := testService(t)

	tooLarge := &ImageUpload{
		Filename:    "huge.png",
		ContentType: "image/png",
		Size:        storage.MaxUploadBytes + 1,
		Data:        []byte{1},
	}
	if _, err := svc.Create(context.Background(), seller, CreateRequest{Name: "A", PriceMinor: 1}, tooLarge); !errors.Is(err, storage.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	badType := &ImageUpload{
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
		Size:        4,
		Data:        []byte{1, 2, 3, 4},
	}
	if _, err := svc.Create(context.Background(), seller, CreateRequest{Name: "A", PriceMinor: 1}, badType); !errors.Is(err, storage.ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
}

func TestUpdateProduct_Ownership(t *testing.T) {
	svc, audits := testService(t)
	product := mustCreate(t, svc, seller, "Desk")

	req := UpdateRequest{Name: "Standing Desk", PriceMinor: 2999, Stock: 3}

	// Owner may update.
	updated, err := svc.Update(context.Background(), seller, product.ID, req)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "Standing Desk" || updated.PriceMinor != 2999 {
		t.Fatalf("update not applied: %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatal("UpdatedAt should advance")
	}

	// Another seller in the same tenant may not.
	if _, err := svc.Update(context.Background(), other, product.ID, req); !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied for non-owner, got %v", err)
	}

	// Admin overrides ownership.
	if _, err := svc.Update(context.Background(), admin, product.ID, req); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	var denials int
	for _, e := range audits.Events() {
		if e.Type == audit.EventTypeAccessDenied {
			denials++
		}
	}
	if denials != 1 {
		t.Fatalf("expected 1 denial event, got %d", denials)
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc, _ := testService(t)
	_, err := svc.Update(context.Background(), seller, "missing-id", UpdateRequest{Name: "X", PriceMinor: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateImage(t *testing.T) {
	svc, _ := testService(t)
	product := mustCreate(t, svc, seller, "Desk")

	img := &ImageUpload{Filename: "new.webp", ContentType: "image/webp", Size: 4, Data: bytes.Repeat([]byte{7}, 4)}
	updated, err := svc.UpdateImage(context.Background(), seller, product.ID, img)
	if err != nil {
		t.Fatalf("update image: %v", err)
	}
	if updated.ImageURL == "" {
		t.Fatal("expected image url after replacement")
	}

	if _, err := svc.UpdateImage(context.Background(), seller, product.ID, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for missing image, got %v", err)
	}
	if _, err := svc.UpdateImage(context.Background(), other, product.ID, img); !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied for non-owner, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc, _ := testService(t)
	product := mustCreate(t, svc, seller, "Desk")

	if err := svc.Delete(context.Background(), other, product.ID); !errors.Is(err, ErrDenied) {
		t.Fatalf("expected ErrDenied for non-owner, got %v", err)
	}
	if err := svc.Delete(context.Background(), seller, product.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), product.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListMineScopedToCaller(t *testing.T) {
	svc, _ := testService(t)
	mustCreate(t, svc, seller, "Desk")
	mustCreate(t, svc, seller, "Chair")
	mustCreate(t, svc, other, "Lamp")

	page, err := svc.ListMine(context.Background(), seller)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 products, got %d", page.Total)
	}
	for _, p := range page.Items {
		if p.SellerSubject != seller.Subject {
			t.Fatalf("foreign product in listing: %+v", p)
		}
	}
}

func TestSearch(t *testing.T) {
	svc, _ := testService(t)
	mustCreate(t, svc, seller, "Walnut Desk")
	mustCreate(t, svc, seller, "Oak Chair")

	page, err := svc.Search(context.Background(), "tenant-1", "walnut", 0, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Total != 1 || page.Items[0].Name != "Walnut Desk" {
		t.Fatalf("unexpected search result: %+v", page)
	}
}

func TestListPagination(t *testing.T) {
	svc, _ := testService(t)
	for _, name := range []string{"A", "B", "C"} {
		mustCreate(t, svc, seller, name)
	}

	page, err := svc.List(context.Background(), ListQuery{TenantID: "tenant-1", Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 1 {
		t.Fatalf("expected total 3 with 1 item, got total %d, items %d", page.Total, len(page.Items))
	}
	if page.Items[0].Name != "B" {
		t.Fatalf("expected second oldest product, got %q", page.Items[0].Name)
	}
}
