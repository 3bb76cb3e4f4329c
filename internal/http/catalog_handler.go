package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/barbershop-manager/internal/application"
	"github.com/example/barbershop-manager/internal/money"
)

type catalogService interface {
	CreateBarber(ctx context.Context, input application.BarberInput) (application.Barber, error)
	UpdateBarber(ctx context.Context, id string, input application.BarberInput) (application.Barber, error)
	DeleteBarber(ctx context.Context, id string) error
	ListBarbers(ctx context.Context) ([]application.Barber, error)

	CreateService(ctx context.Context, input application.ServiceInput) (application.Service, error)
	UpdateService(ctx context.Context, id string, input application.ServiceInput) (application.Service, error)
	DeleteService(ctx context.Context, id string) error
	ListServices(ctx context.Context) ([]application.Service, error)

	CreateClient(ctx context.Context, input application.ClientInput) (application.Client, error)
	UpdateClient(ctx context.Context, id string, input application.ClientInput) (application.Client, error)
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context) ([]application.Client, error)

	CreateProduct(ctx context.Context, input application.ProductInput) (application.Product, error)
	UpdateProduct(ctx context.Context, id string, input application.ProductInput) (application.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]application.Product, error)
}

// CatalogHandler serves the barber, service, client and product registers.
type CatalogHandler struct {
	service   catalogService
	responder responder
	logger    *slog.Logger
}

func NewCatalogHandler(service catalogService, logger *slog.Logger) *CatalogHandler {
	base := defaultLogger(logger)
	return &CatalogHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CatalogHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CatalogHandler", operation, attrs...)
}

func (h *CatalogHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *CatalogHandler) fail(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(ctx, msg, "error", err, "error_kind", application.ErrorKind(err))
	h.responder.handleServiceError(ctx, w, err)
}

// decodeBody reports false after answering 400 when the body cannot be decoded.
func (h *CatalogHandler) decodeBody(w http.ResponseWriter, r *http.Request, operation string, dst any) bool {
	if err := h.responder.decode(w, r, dst); err != nil {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return false
	}
	return true
}

func (h *CatalogHandler) pathID(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return "", false
	}
	return id, true
}

func (h *CatalogHandler) ListBarbers(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	logger := h.log(r.Context(), "ListBarbers")
	barbers, err := h.service.ListBarbers(r.Context())
	if err != nil {
		h.fail(r.Context(), w, logger, "barber list failed", err)
		return
	}
	logger.With("result_count", len(barbers)).InfoContext(r.Context(), "barbers listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBarbersResponse{Barbers: toBarberDTOs(barbers)})
}

func (h *CatalogHandler) CreateBarber(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var req barberRequest
	if !h.decodeBody(w, r, "CreateBarber", &req) {
		return
	}
	logger := h.log(r.Context(), "CreateBarber")
	barber, err := h.service.CreateBarber(r.Context(), req.toInput())
	if err != nil {
		h.fail(r.Context(), w, logger, "barber creation failed", err)
		return
	}
	logger.With("barber_id", barber.ID).InfoContext(r.Context(), "barber created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, barberResponse{Barber: toBarberDTO(barber)})
}

func (h *CatalogHandler) UpdateBarber(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.pathID(w, r, "UpdateBarber")
	if !ok {
		return
	}
	var req barberRequest
	if !h.decodeBody(w, r, "UpdateBarber", &req) {
		return
	}
	logger := h.log(r.Context(), "UpdateBarber", "barber_id", id)
	barber, err := h.service.UpdateBarber(r.Context(), id, req.toInput())
	if err != nil {
		h.fail(r.Context(), w, logger, "barber update failed", err)
		return
	}
	logger.InfoContext(r.Context(), "barber updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, barberResponse{Barber: toBarberDTO(barber)})
}

func (h *CatalogHandler) DeleteBarber(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.pathID(w, r, "DeleteBarber")
	if !ok {
		return
	}
	logger := h.log(r.Context(), "DeleteBarber", "barber_id", id)
	if err := h.service.DeleteBarber(r.Context(), id); err != nil {
		h.fail(r.Context(), w, logger, "barber delete failed", err)
		return
	}
	logger.InfoContext(r.Context(), "barber deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	logger := h.log(r.Context(), "ListServices")
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		h.fail(r.Context(), w, logger, "service list failed", err)
		return
	}
	out := make([]serviceDTO, 0, len(services))
	for _, service := range services {
		out = append(out, toServiceDTO(service))
	}
	logger.With("result_count", len(out)).InfoContext(r.Context(), "services listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listServicesResponse{Services: out})
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var req serviceRequest
	if !h.decodeBody(w, r, "CreateService", &req) {
		return
	}
	logger := h.log(r.Context(), "CreateService")
	service, err := h.service.CreateService(r.Context(), req.toInput())
	if err != nil {
		h.fail(r.Context(), w, logger, "service creation failed", err)
		return
	}
	logger.With("service_id", service.ID).InfoContext(r.Context(), "service created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, serviceResponse{Service: toServiceDTO(service)})
}

func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.pathID(w, r, "UpdateService")
	if !ok {
		return
	}
	var req serviceRequest
	if !h.decodeBody(w, r, "UpdateService", &req) {
		return
	}
	logger := h.log(r.Context(), "UpdateService", "service_id", id)
	service, err := h.service.UpdateService(r.Context(), id, req.toInput())
	if err != nil {
		h.fail(r.Context(), w, logger, "service update failed", err)
		return
	}
	logger.InfoContext(r.Context(), "service updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, serviceResponse{Service: toServiceDTO(service)})
}

func (h *CatalogHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.pathID(w, r, "DeleteService")
	if !ok {
		return
	}
	logger := h.log(r.Context(), "DeleteService", "service_id", id)
	if err := h.service.DeleteService(r.Context(), id); err != nil {
		h.fail(r.Context(), w, logger, "service delete failed", err)
		return
	}
	logger.InfoContext(r.Context(), "service deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	logger := h.log(r.Context(), "ListClients")
	clients, err := h.service.ListClients(r.Context())
	if err != nil {
		h.fail(r.Context(), w, logger, "client list failed", err)
		return
	}
	out := make([]clientDTO, 0, len(clients))
	for _, client := range clients {
		out = append(out, toClientDTO(client))
	}
	logger.With("result_count", len(out)).InfoContext(r.Context(), "clients listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listClientsResponse{Clients: out})
}

func (h *CatalogHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var req clientRequest
	if !h.decodeBody(w, r, "CreateClient", &req) {
		return
	}
	logger := h.log(r.Context(), "CreateClient")
	client, err := h.service.CreateClient(r.Context(), req.toInput())
	if err != nil {
		h.fail(r.Context(), w, logger, "client creation failed", err)
		return
	}
	logger.With("client_id", client.ID).InfoContext(r.Context(), "client created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, clientResponse{Client: toClientDTO(client)})
}

func (h *CatalogHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.pathID(w, r, "UpdateClient")
	if !ok {
		return
	}
	var req clientRequest
	if !h.decodeBody(w, r, "UpdateClient", &req) {
		return
	}
	logger := h.log(r.Context(), "UpdateClient", "client_id", id)
	client, err := h.service.UpdateClient(r.Context(), id, req.toInput())
	if err != nil {
		h.fail(r.Context(), w, logger, "client update failed", err)
		return
	}
	logger.InfoContext(r.Context(), "client updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, clientResponse{Client: toClientDTO(client)})
}

func (h *CatalogHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.pathID(w, r, "DeleteClient")
	if !ok {
		return
	}
	logger := h.log(r.Context(), "DeleteClient", "client_id", id)
	if err := h.service.DeleteClient(r.Context(), id); err != nil {
		h.fail(r.Context(), w, logger, "client delete failed", err)
		return
	}
	logger.InfoContext(r.Context(), "client deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	logger := h.log(r.Context(), "ListProducts")
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.fail(r.Context(), w, logger, "product list failed", err)
		return
	}
	out := make([]productDTO, 0, len(products))
	for _, product := range products {
		out = append(out, toProductDTO(product))
	}
	logger.With("result_count", len(out)).InfoContext(r.Context(), "products listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listProductsResponse{Products: out})
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	var req productRequest
	if !h.decodeBody(w, r, "CreateProduct", &req) {
		return
	}
	logger := h.log(r.Context(), "CreateProduct")
	product, err := h.service.CreateProduct(r.Context(), req.toInput())
	if err != nil {
		h.fail(r.Context(), w, logger, "product creation failed", err)
		return
	}
	logger.With("product_id", product.ID).InfoContext(r.Context(), "product created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, productResponse{Product: toProductDTO(product)})
}

func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.pathID(w, r, "UpdateProduct")
	if !ok {
		return
	}
	var req productRequest
	if !h.decodeBody(w, r, "UpdateProduct", &req) {
		return
	}
	logger := h.log(r.Context(), "UpdateProduct", "product_id", id)
	product, err := h.service.UpdateProduct(r.Context(), id, req.toInput())
	if err != nil {
		h.fail(r.Context(), w, logger, "product update failed", err)
		return
	}
	logger.InfoContext(r.Context(), "product updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, productResponse{Product: toProductDTO(product)})
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}
	id, ok := h.pathID(w, r, "DeleteProduct")
	if !ok {
		return
	}
	logger := h.log(r.Context(), "DeleteProduct", "product_id", id)
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.fail(r.Context(), w, logger, "product delete failed", err)
		return
	}
	logger.InfoContext(r.Context(), "product deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type barberRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

func (r barberRequest) toInput() application.BarberInput {
	return application.BarberInput{
		Name:   strings.TrimSpace(r.Name),
		Email:  strings.TrimSpace(r.Email),
		Phone:  strings.TrimSpace(r.Phone),
		Status: application.BarberStatus(strings.TrimSpace(r.Status)),
	}
}

type serviceRequest struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int64  `json:"priceCents"`
}

func (r serviceRequest) toInput() application.ServiceInput {
	return application.ServiceInput{
		Name:            strings.TrimSpace(r.Name),
		DurationMinutes: r.DurationMinutes,
		PriceCents:      r.PriceCents,
	}
}

type clientRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone string  `json:"phone"`
}

func (r clientRequest) toInput() application.ClientInput {
	var email *string
	if r.Email != nil {
		trimmed := strings.TrimSpace(*r.Email)
		email = &trimmed
	}
	return application.ClientInput{
		Name:  strings.TrimSpace(r.Name),
		Email: email,
		Phone: strings.TrimSpace(r.Phone),
	}
}

type productRequest struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Stock      int    `json:"stock"`
}

func (r productRequest) toInput() application.ProductInput {
	return application.ProductInput{
		Name:       strings.TrimSpace(r.Name),
		PriceCents: r.PriceCents,
		Stock:      r.Stock,
	}
}

type barberResponse struct {
	Barber barberDTO `json:"barber"`
}

type listBarbersResponse struct {
	Barbers []barberDTO `json:"barbers"`
}

type serviceResponse struct {
	Service serviceDTO `json:"service"`
}

type listServicesResponse struct {
	Services []serviceDTO `json:"services"`
}

type clientResponse struct {
	Client clientDTO `json:"client"`
}

type listClientsResponse struct {
	Clients []clientDTO `json:"clients"`
}

type productResponse struct {
	Product productDTO `json:"product"`
}

type listProductsResponse struct {
	Products []productDTO `json:"products"`
}

type barberDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type serviceDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int64  `json:"priceCents"`
	Price           string `json:"price"`
}

type clientDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Phone     string  `json:"phone"`
	CreatedAt string  `json:"createdAt"`
}

type productDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"priceCents"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	StockStatus string `json:"stockStatus"`
}

func toBarberDTO(barber application.Barber) barberDTO {
	return barberDTO{
		ID:        barber.ID,
		Name:      barber.Name,
		Email:     barber.Email,
		Phone:     barber.Phone,
		Status:    string(barber.Status),
		CreatedAt: barber.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: barber.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toBarberDTOs(barbers []application.Barber) []barberDTO {
	out := make([]barberDTO, 0, len(barbers))
	for _, barber := range barbers {
		out = append(out, toBarberDTO(barber))
	}
	return out
}

func toServiceDTO(service application.Service) serviceDTO {
	return serviceDTO{
		ID:              service.ID,
		Name:            service.Name,
		DurationMinutes: service.DurationMinutes,
		PriceCents:      service.PriceCents,
		Price:           money.FormatBRL(service.PriceCents),
	}
}

func toClientDTO(client application.Client) clientDTO {
	return clientDTO{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		CreatedAt: client.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toProductDTO(product application.Product) productDTO {
	return productDTO{
		ID:          product.ID,
		Name:        product.Name,
		PriceCents:  product.PriceCents,
		Price:       money.FormatBRL(product.PriceCents),
		Stock:       product.Stock,
		StockStatus: string(product.StockStatus()),
	}
}
