package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/example/barbershop-manager/internal/persistence"
)

// BarberRepository captures the barber persistence operations.
type BarberRepository interface {
	CreateBarber(ctx context.Context, barber Barber) (Barber, error)
	GetBarber(ctx context.Context, id string) (Barber, error)
	UpdateBarber(ctx context.Context, barber Barber) (Barber, error)
	DeleteBarber(ctx context.Context, id string) error
	ListBarbers(ctx context.Context) ([]Barber, error)
}

// ServiceRepository captures the catalog service persistence operations.
type ServiceRepository interface {
	CreateService(ctx context.Context, service Service) (Service, error)
	GetService(ctx context.Context, id string) (Service, error)
	UpdateService(ctx context.Context, service Service) (Service, error)
	DeleteService(ctx context.Context, id string) error
	ListServices(ctx context.Context) ([]Service, error)
}

// ClientRepository captures the client persistence operations.
type ClientRepository interface {
	CreateClient(ctx context.Context, client Client) (Client, error)
	GetClient(ctx context.Context, id string) (Client, error)
	UpdateClient(ctx context.Context, client Client) (Client, error)
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context) ([]Client, error)
}

// ProductRepository captures the product persistence operations.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product Product) (Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	UpdateProduct(ctx context.Context, product Product) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]Product, error)
}

// CatalogRepositories groups the stores behind the catalog pages.
type CatalogRepositories struct {
	Barbers  BarberRepository
	Services ServiceRepository
	Clients  ClientRepository
	Products ProductRepository
}

// CatalogService manages barbers, services, clients and products.
type CatalogService struct {
	repos       CatalogRepositories
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCatalogService constructs a catalog service with the provided dependencies.
func NewCatalogService(repos CatalogRepositories, idGenerator func() string, now func() time.Time) *CatalogService {
	return NewCatalogServiceWithLogger(repos, idGenerator, now, nil)
}

// NewCatalogServiceWithLogger constructs a catalog service with a specified logger.
func NewCatalogServiceWithLogger(repos CatalogRepositories, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CatalogService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CatalogService{repos: repos, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *CatalogService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CatalogService", operation, attrs...)
}

func (s *CatalogService) logResult(ctx context.Context, logger *slog.Logger, action string, err error, attrs ...any) {
	if err != nil {
		logger.ErrorContext(ctx, "failed to "+action, "error", err, "error_kind", ErrorKind(err))
		return
	}
	logger.With(attrs...).InfoContext(ctx, action+" succeeded")
}

// CreateBarber validates input and stores a new barber.
func (s *CatalogService) CreateBarber(ctx context.Context, input BarberInput) (barber Barber, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateBarber")
	defer func() { s.logResult(ctx, logger, "create barber", err, "barber_id", barber.ID) }()

	input = normalizeBarberInput(input)
	if vErr := validateBarberInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	barber = Barber{
		ID:        s.idGenerator(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Status:    input.Status,
		CreatedAt: s.now(),
	}
	barber.UpdatedAt = barber.CreatedAt
	if s.repos.Barbers == nil {
		return
	}
	barber, err = s.repos.Barbers.CreateBarber(ctx, barber)
	err = mapCatalogRepoError(err, "name")
	return
}

// UpdateBarber validates input and rewrites an existing barber.
func (s *CatalogService) UpdateBarber(ctx context.Context, id string, input BarberInput) (barber Barber, err error) {
	if s == nil || s.repos.Barbers == nil {
		err = fmt.Errorf("barber repository not configured")
		return
	}
	logger := s.loggerWith(ctx, "UpdateBarber", "barber_id", id)
	defer func() { s.logResult(ctx, logger, "update barber", err) }()

	var existing Barber
	if existing, err = s.repos.Barbers.GetBarber(ctx, id); err != nil {
		err = mapCatalogRepoError(err, "name")
		return
	}
	input = normalizeBarberInput(input)
	if vErr := validateBarberInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	existing.Name = input.Name
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.Status = input.Status
	existing.UpdatedAt = s.now()
	barber, err = s.repos.Barbers.UpdateBarber(ctx, existing)
	err = mapCatalogRepoError(err, "name")
	return
}

// DeleteBarber removes a barber. Barbers with appointments cannot be removed.
func (s *CatalogService) DeleteBarber(ctx context.Context, id string) (err error) {
	if s == nil || s.repos.Barbers == nil {
		return fmt.Errorf("barber repository not configured")
	}
	logger := s.loggerWith(ctx, "DeleteBarber", "barber_id", id)
	defer func() { s.logResult(ctx, logger, "delete barber", err) }()

	err = s.repos.Barbers.DeleteBarber(ctx, id)
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return newValidationError("barber", "barber has appointments")
	}
	return mapCatalogRepoError(err, "barber")
}

// ListBarbers returns all barbers sorted by name.
func (s *CatalogService) ListBarbers(ctx context.Context) (barbers []Barber, err error) {
	if s == nil || s.repos.Barbers == nil {
		return nil, nil
	}
	barbers, err = s.repos.Barbers.ListBarbers(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListBarbers").ErrorContext(ctx, "failed to list barbers", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	sortByName(barbers, func(b Barber) (string, string) { return b.Name, b.ID })
	return barbers, nil
}

// GetBarber returns a barber by id.
func (s *CatalogService) GetBarber(ctx context.Context, id string) (Barber, error) {
	if s == nil || s.repos.Barbers == nil {
		return Barber{}, ErrNotFound
	}
	barber, err := s.repos.Barbers.GetBarber(ctx, id)
	return barber, mapCatalogRepoError(err, "barber")
}

// CreateService validates input and stores a new catalog service.
func (s *CatalogService) CreateService(ctx context.Context, input ServiceInput) (service Service, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateService")
	defer func() { s.logResult(ctx, logger, "create service", err, "service_id", service.ID) }()

	input.Name = strings.TrimSpace(input.Name)
	if vErr := validateServiceInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	service = Service{
		ID:              s.idGenerator(),
		Name:            input.Name,
		DurationMinutes: input.DurationMinutes,
		PriceCents:      input.PriceCents,
		CreatedAt:       s.now(),
	}
	service.UpdatedAt = service.CreatedAt
	if s.repos.Services == nil {
		return
	}
	service, err = s.repos.Services.CreateService(ctx, service)
	err = mapCatalogRepoError(err, "name")
	return
}

// UpdateService validates input and rewrites a catalog service. Existing
// appointments keep the duration they were booked with.
func (s *CatalogService) UpdateService(ctx context.Context, id string, input ServiceInput) (service Service, err error) {
	if s == nil || s.repos.Services == nil {
		err = fmt.Errorf("service repository not configured")
		return
	}
	logger := s.loggerWith(ctx, "UpdateService", "service_id", id)
	defer func() { s.logResult(ctx, logger, "update service", err) }()

	var existing Service
	if existing, err = s.repos.Services.GetService(ctx, id); err != nil {
		err = mapCatalogRepoError(err, "name")
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	if vErr := validateServiceInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	existing.Name = input.Name
	existing.DurationMinutes = input.DurationMinutes
	existing.PriceCents = input.PriceCents
	existing.UpdatedAt = s.now()
	service, err = s.repos.Services.UpdateService(ctx, existing)
	err = mapCatalogRepoError(err, "name")
	return
}

// DeleteService removes a catalog service.
func (s *CatalogService) DeleteService(ctx context.Context, id string) (err error) {
	if s == nil || s.repos.Services == nil {
		return fmt.Errorf("service repository not configured")
	}
	logger := s.loggerWith(ctx, "DeleteService", "service_id", id)
	defer func() { s.logResult(ctx, logger, "delete service", err) }()

	return mapCatalogRepoError(s.repos.Services.DeleteService(ctx, id), "service")
}

// ListServices returns the catalog sorted by name.
func (s *CatalogService) ListServices(ctx context.Context) ([]Service, error) {
	if s == nil || s.repos.Services == nil {
		return nil, nil
	}
	services, err := s.repos.Services.ListServices(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListServices").ErrorContext(ctx, "failed to list services", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	sortByName(services, func(sv Service) (string, string) { return sv.Name, sv.ID })
	return services, nil
}

// CreateClient validates input and stores a new client.
func (s *CatalogService) CreateClient(ctx context.Context, input ClientInput) (client Client, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateClient")
	defer func() { s.logResult(ctx, logger, "create client", err, "client_id", client.ID) }()

	input = normalizeClientInput(input)
	if vErr := validateClientInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	client = Client{
		ID:        s.idGenerator(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: s.now(),
	}
	client.UpdatedAt = client.CreatedAt
	if s.repos.Clients == nil {
		return
	}
	client, err = s.repos.Clients.CreateClient(ctx, client)
	err = mapCatalogRepoError(err, "name")
	return
}

// UpdateClient validates input and rewrites a client.
func (s *CatalogService) UpdateClient(ctx context.Context, id string, input ClientInput) (client Client, err error) {
	if s == nil || s.repos.Clients == nil {
		err = fmt.Errorf("client repository not configured")
		return
	}
	logger := s.loggerWith(ctx, "UpdateClient", "client_id", id)
	defer func() { s.logResult(ctx, logger, "update client", err) }()

	var existing Client
	if existing, err = s.repos.Clients.GetClient(ctx, id); err != nil {
		err = mapCatalogRepoError(err, "name")
		return
	}
	input = normalizeClientInput(input)
	if vErr := validateClientInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	existing.Name = input.Name
	existing.Email = input.Email
	existing.Phone = input.Phone
	existing.UpdatedAt = s.now()
	client, err = s.repos.Clients.UpdateClient(ctx, existing)
	err = mapCatalogRepoError(err, "name")
	return
}

// DeleteClient removes a client.
func (s *CatalogService) DeleteClient(ctx context.Context, id string) (err error) {
	if s == nil || s.repos.Clients == nil {
		return fmt.Errorf("client repository not configured")
	}
	logger := s.loggerWith(ctx, "DeleteClient", "client_id", id)
	defer func() { s.logResult(ctx, logger, "delete client", err) }()

	return mapCatalogRepoError(s.repos.Clients.DeleteClient(ctx, id), "client")
}

// ListClients returns all clients sorted by name.
func (s *CatalogService) ListClients(ctx context.Context) ([]Client, error) {
	if s == nil || s.repos.Clients == nil {
		return nil, nil
	}
	clients, err := s.repos.Clients.ListClients(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListClients").ErrorContext(ctx, "failed to list clients", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	sortByName(clients, func(c Client) (string, string) { return c.Name, c.ID })
	return clients, nil
}

// CreateProduct validates input and stores a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (product Product, err error) {
	if s == nil {
		err = fmt.Errorf("CatalogService is nil")
		return
	}
	logger := s.loggerWith(ctx, "CreateProduct")
	defer func() { s.logResult(ctx, logger, "create product", err, "product_id", product.ID) }()

	input.Name = strings.TrimSpace(input.Name)
	if vErr := validateProductInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	product = Product{
		ID:         s.idGenerator(),
		Name:       input.Name,
		PriceCents: input.PriceCents,
		Stock:      input.Stock,
		CreatedAt:  s.now(),
	}
	product.UpdatedAt = product.CreatedAt
	if s.repos.Products == nil {
		return
	}
	product, err = s.repos.Products.CreateProduct(ctx, product)
	err = mapCatalogRepoError(err, "name")
	return
}

// UpdateProduct validates input and rewrites a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input ProductInput) (product Product, err error) {
	if s == nil || s.repos.Products == nil {
		err = fmt.Errorf("product repository not configured")
		return
	}
	logger := s.loggerWith(ctx, "UpdateProduct", "product_id", id)
	defer func() { s.logResult(ctx, logger, "update product", err) }()

	var existing Product
	if existing, err = s.repos.Products.GetProduct(ctx, id); err != nil {
		err = mapCatalogRepoError(err, "name")
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	if vErr := validateProductInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	existing.Name = input.Name
	existing.PriceCents = input.PriceCents
	existing.Stock = input.Stock
	existing.UpdatedAt = s.now()
	product, err = s.repos.Products.UpdateProduct(ctx, existing)
	err = mapCatalogRepoError(err, "name")
	return
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) (err error) {
	if s == nil || s.repos.Products == nil {
		return fmt.Errorf("product repository not configured")
	}
	logger := s.loggerWith(ctx, "DeleteProduct", "product_id", id)
	defer func() { s.logResult(ctx, logger, "delete product", err) }()

	return mapCatalogRepoError(s.repos.Products.DeleteProduct(ctx, id), "product")
}

// ListProducts returns all products sorted by name.
func (s *CatalogService) ListProducts(ctx context.Context) ([]Product, error) {
	if s == nil || s.repos.Products == nil {
		return nil, nil
	}
	products, err := s.repos.Products.ListProducts(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListProducts").ErrorContext(ctx, "failed to list products", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	sortByName(products, func(p Product) (string, string) { return p.Name, p.ID })
	return products, nil
}

func normalizeBarberInput(input BarberInput) BarberInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Status == "" {
		input.Status = BarberActive
	}
	return input
}

func validateBarberInput(input BarberInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Email != "" && !validEmail(input.Email) {
		vErr.add("email", "email is invalid")
	}
	if !input.Status.valid() {
		vErr.add("status", "status is invalid")
	}
	return vErr
}

func validateServiceInput(input ServiceInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.DurationMinutes <= 0 {
		vErr.add("durationMinutes", "duration must be positive")
	}
	if input.PriceCents <= 0 {
		vErr.add("priceCents", "price must be positive")
	}
	return vErr
}

func normalizeClientInput(input ClientInput) ClientInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = normalizeOptionalString(input.Email)
	return input
}

func validateClientInput(input ClientInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Phone == "" {
		vErr.add("phone", "phone is required")
	}
	if input.Email != nil && !validEmail(*input.Email) {
		vErr.add("email", "email is invalid")
	}
	return vErr
}

func validateProductInput(input ProductInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.PriceCents < 0 {
		vErr.add("priceCents", "price cannot be negative")
	}
	if input.Stock < 0 {
		vErr.add("stock", "stock cannot be negative")
	}
	return vErr
}

func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

func normalizeOptionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func sortByName[T any](items []T, key func(T) (string, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ni, idi := key(items[i])
		nj, idj := key(items[j])
		if strings.EqualFold(ni, nj) {
			return idi < idj
		}
		return strings.ToLower(ni) < strings.ToLower(nj)
	})
}

func mapCatalogRepoError(err error, field string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrConstraintViolation), errors.Is(err, persistence.ErrForeignKeyViolation):
		return newValidationError(field, "value violates a constraint")
	}
	return err
}
