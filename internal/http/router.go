package http

import (
	"net/http"
)

type RouterConfig struct {
	Bookings   *BookingHandler
	Catalog    *CatalogHandler
	Payments   *PaymentHandler
	Settings   *SettingsHandler
	Analytics  *AnalyticsHandler
	Dashboard  *DashboardHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.Bookings != nil {
		mux.HandleFunc("GET /schedule", cfg.Bookings.Grid)
		mux.HandleFunc("GET /schedule/availability", cfg.Bookings.Availability)
		mux.HandleFunc("GET /appointments", cfg.Bookings.List)
		mux.HandleFunc("POST /appointments", cfg.Bookings.Create)
		mux.HandleFunc("PATCH /appointments/{id}", cfg.Bookings.UpdateStatus)
		mux.HandleFunc("DELETE /appointments/{id}", cfg.Bookings.Delete)
	}

	if cfg.Catalog != nil {
		mux.HandleFunc("GET /barbers", cfg.Catalog.ListBarbers)
		mux.HandleFunc("POST /barbers", cfg.Catalog.CreateBarber)
		mux.HandleFunc("PUT /barbers/{id}", cfg.Catalog.UpdateBarber)
		mux.HandleFunc("DELETE /barbers/{id}", cfg.Catalog.DeleteBarber)

		mux.HandleFunc("GET /services", cfg.Catalog.ListServices)
		mux.HandleFunc("POST /services", cfg.Catalog.CreateService)
		mux.HandleFunc("PUT /services/{id}", cfg.Catalog.UpdateService)
		mux.HandleFunc("DELETE /services/{id}", cfg.Catalog.DeleteService)

		mux.HandleFunc("GET /clients", cfg.Catalog.ListClients)
		mux.HandleFunc("POST /clients", cfg.Catalog.CreateClient)
		mux.HandleFunc("PUT /clients/{id}", cfg.Catalog.UpdateClient)
		mux.HandleFunc("DELETE /clients/{id}", cfg.Catalog.DeleteClient)

		mux.HandleFunc("GET /products", cfg.Catalog.ListProducts)
		mux.HandleFunc("POST /products", cfg.Catalog.CreateProduct)
		mux.HandleFunc("PUT /products/{id}", cfg.Catalog.UpdateProduct)
		mux.HandleFunc("DELETE /products/{id}", cfg.Catalog.DeleteProduct)
	}

	if cfg.Payments != nil {
		mux.HandleFunc("POST /appointments/{id}/checkout", cfg.Payments.CheckoutAppointment)
		mux.HandleFunc("POST /products/{id}/checkout", cfg.Payments.CheckoutProduct)

		mux.HandleFunc("GET /payments", cfg.Payments.List)
		mux.HandleFunc("POST /payments", cfg.Payments.Create)
		mux.HandleFunc("GET /payments/draft", cfg.Payments.Draft)
		mux.HandleFunc("DELETE /payments/draft", cfg.Payments.ClearDraft)

		mux.HandleFunc("GET /debts", cfg.Payments.ListDebts)
		mux.HandleFunc("POST /debts", cfg.Payments.OpenDebt)
		mux.HandleFunc("POST /debts/{id}/settle", cfg.Payments.SettleDebt)
	}

	if cfg.Settings != nil {
		mux.HandleFunc("GET /settings", cfg.Settings.Get)
		mux.HandleFunc("PUT /settings", cfg.Settings.Update)
	}

	if cfg.Analytics != nil {
		mux.HandleFunc("POST /analytics/predictions", cfg.Analytics.Predict)
	}

	if cfg.Dashboard != nil {
		mux.HandleFunc("GET /dashboard", cfg.Dashboard.Summary)
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}
