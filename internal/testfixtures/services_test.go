package testfixtures

import (
	"context"
	"testing"

	"github.com/example/barbershop-manager/internal/application"
)

type capturingBarberRepo struct {
	created application.Barber
}

func (c *capturingBarberRepo) CreateBarber(ctx context.Context, barber application.Barber) (application.Barber, error) {
	c.created = barber
	return barber, nil
}

func (c *capturingBarberRepo) GetBarber(ctx context.Context, id string) (application.Barber, error) {
	return application.Barber{}, application.ErrNotFound
}

func (c *capturingBarberRepo) UpdateBarber(ctx context.Context, barber application.Barber) (application.Barber, error) {
	return barber, nil
}

func (c *capturingBarberRepo) DeleteBarber(ctx context.Context, id string) error {
	return nil
}

func (c *capturingBarberRepo) ListBarbers(ctx context.Context) ([]application.Barber, error) {
	return nil, nil
}

func TestServiceFactoryNewCatalogService(t *testing.T) {
	factory := NewServiceFactory()
	repo := &capturingBarberRepo{}

	svc := factory.NewCatalogService(application.CatalogRepositories{Barbers: repo})
	barber, err := svc.CreateBarber(context.Background(), application.BarberInput{
		Name:   "Renato Garcia",
		Email:  "renato@example.com",
		Phone:  "(11) 98765-4321",
		Status: application.BarberActive,
	})
	if err != nil {
		t.Fatalf("CreateBarber returned error: %v", err)
	}

	if barber.ID != "id-1" {
		t.Fatalf("expected generated ID id-1, got %q", barber.ID)
	}
	if repo.created.ID != barber.ID {
		t.Fatalf("repository received unexpected ID: %q", repo.created.ID)
	}
	if !barber.CreatedAt.Equal(factory.Clock.Now()) {
		t.Fatalf("expected timestamp %v, got %v", factory.Clock.Now(), barber.CreatedAt)
	}
}

func TestServiceFactorySettingsDefaults(t *testing.T) {
	factory := NewServiceFactory()

	settings, err := factory.NewSettingsService(nil, nil).Current(context.Background())
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if settings != application.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}
}
