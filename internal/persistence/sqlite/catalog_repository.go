package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/barbershop-manager/internal/persistence"
)

// ServiceRepository implements persistence.ServiceRepository using SQLite
type ServiceRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewServiceRepository creates a new SQLite service repository
func NewServiceRepository(pool *ConnectionPool) *ServiceRepository {
	return &ServiceRepository{helper: NewQueryHelper(pool), mapper: NewErrorMapper()}
}

const serviceColumns = `id, name, duration_minutes, price_cents, created_at, updated_at`

// CreateService inserts a new catalog service; names are unique ignoring case
func (r *ServiceRepository) CreateService(ctx context.Context, service persistence.Service) error {
	if service.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		service.ID,
		service.Name,
		service.DurationMinutes,
		service.PriceCents,
		formatTime(service.CreatedAt),
		formatTime(service.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateService updates an existing service
func (r *ServiceRepository) UpdateService(ctx context.Context, service persistence.Service) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE services
		SET name = ?, duration_minutes = ?, price_cents = ?, updated_at = ?
		WHERE id = ?
	`,
		service.Name,
		service.DurationMinutes,
		service.PriceCents,
		formatTime(service.UpdatedAt),
		service.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

// GetService retrieves a service by ID
func (r *ServiceRepository) GetService(ctx context.Context, id string) (persistence.Service, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	service, err := scanService(row)
	if err != nil {
		return persistence.Service{}, r.mapper.MapError(err)
	}
	return service, nil
}

// ListServices returns all services ordered by name
func (r *ServiceRepository) ListServices(ctx context.Context) ([]persistence.Service, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	services := make([]persistence.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return services, nil
}

// DeleteService removes a service. Existing appointments keep the name they
// were booked with.
func (r *ServiceRepository) DeleteService(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func scanService(row rowScanner) (persistence.Service, error) {
	var (
		service              persistence.Service
		createdAt, updatedAt string
	)
	if err := row.Scan(&service.ID, &service.Name, &service.DurationMinutes, &service.PriceCents, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Service{}, persistence.ErrNotFound
		}
		return persistence.Service{}, err
	}
	var err error
	if service.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Service{}, err
	}
	if service.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Service{}, err
	}
	return service, nil
}

// ProductRepository implements persistence.ProductRepository using SQLite
type ProductRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewProductRepository creates a new SQLite product repository
func NewProductRepository(pool *ConnectionPool) *ProductRepository {
	return &ProductRepository{helper: NewQueryHelper(pool), mapper: NewErrorMapper()}
}

const productColumns = `id, name, price_cents, stock, created_at, updated_at`

// CreateProduct inserts a new product
func (r *ProductRepository) CreateProduct(ctx context.Context, product persistence.Product) error {
	if product.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		product.ID,
		product.Name,
		product.PriceCents,
		product.Stock,
		formatTime(product.CreatedAt),
		formatTime(product.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateProduct updates an existing product
func (r *ProductRepository) UpdateProduct(ctx context.Context, product persistence.Product) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE products
		SET name = ?, price_cents = ?, stock = ?, updated_at = ?
		WHERE id = ?
	`,
		product.Name,
		product.PriceCents,
		product.Stock,
		formatTime(product.UpdatedAt),
		product.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

// GetProduct retrieves a product by ID
func (r *ProductRepository) GetProduct(ctx context.Context, id string) (persistence.Product, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	product, err := scanProduct(row)
	if err != nil {
		return persistence.Product{}, r.mapper.MapError(err)
	}
	return product, nil
}

// ListProducts returns all products ordered by name
func (r *ProductRepository) ListProducts(ctx context.Context) ([]persistence.Product, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	products := make([]persistence.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return products, nil
}

// DeleteProduct removes a product
func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func scanProduct(row rowScanner) (persistence.Product, error) {
	var (
		product              persistence.Product
		createdAt, updatedAt string
	)
	if err := row.Scan(&product.ID, &product.Name, &product.PriceCents, &product.Stock, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Product{}, persistence.ErrNotFound
		}
		return persistence.Product{}, err
	}
	var err error
	if product.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Product{}, err
	}
	if product.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Product{}, err
	}
	return product, nil
}

// ClientRepository implements persistence.ClientRepository using SQLite
type ClientRepository struct {
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewClientRepository creates a new SQLite client repository
func NewClientRepository(pool *ConnectionPool) *ClientRepository {
	return &ClientRepository{helper: NewQueryHelper(pool), mapper: NewErrorMapper()}
}

const clientColumns = `id, name, email, phone, created_at, updated_at`

// CreateClient inserts a new client
func (r *ClientRepository) CreateClient(ctx context.Context, client persistence.Client) error {
	if client.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := r.helper.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		client.ID,
		client.Name,
		nullableString(client.Email),
		client.Phone,
		formatTime(client.CreatedAt),
		formatTime(client.UpdatedAt),
	)
	return r.mapper.MapError(err)
}

// UpdateClient updates an existing client
func (r *ClientRepository) UpdateClient(ctx context.Context, client persistence.Client) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE clients
		SET name = ?, email = ?, phone = ?, updated_at = ?
		WHERE id = ?
	`,
		client.Name,
		nullableString(client.Email),
		client.Phone,
		formatTime(client.UpdatedAt),
		client.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

// GetClient retrieves a client by ID
func (r *ClientRepository) GetClient(ctx context.Context, id string) (persistence.Client, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	client, err := scanClient(row)
	if err != nil {
		return persistence.Client{}, r.mapper.MapError(err)
	}
	return client, nil
}

// ListClients returns all clients ordered by name
func (r *ClientRepository) ListClients(ctx context.Context) ([]persistence.Client, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	clients := make([]persistence.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return clients, nil
}

// DeleteClient removes a client
func (r *ClientRepository) DeleteClient(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func scanClient(row rowScanner) (persistence.Client, error) {
	var (
		client               persistence.Client
		email                sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&client.ID, &client.Name, &email, &client.Phone, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Client{}, persistence.ErrNotFound
		}
		return persistence.Client{}, err
	}
	client.Email = stringPointer(email)
	var err error
	if client.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Client{}, err
	}
	if client.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Client{}, err
	}
	return client, nil
}
