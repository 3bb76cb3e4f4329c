// Package http provides HTTP handlers and middleware for the barbershop API.
//
// The router exposes the following endpoints:
//   - GET /healthz: liveness check returning "ok".
//   - GET /schedule?date=YYYY-MM-DD&barbers=a,b: the day grid. Each row is a
//     slot label and each cell is "free", "start" (with rowSpan) or
//     "continuation" for one barber column. Columns default to every barber.
//   - GET /schedule/availability?date=&barber_id=&services=a,b: the booking
//     form's slot list with occupied starts flagged as disabled.
//   - GET /appointments, POST /appointments, PATCH /appointments/{id} (status),
//     DELETE /appointments/{id}. A booking that collides with an existing one
//     answers 409 with error_code SLOT_TAKEN.
//   - GET|POST /barbers, /services, /clients, /products and PUT|DELETE
//     /<kind>/{id}: the catalog registers.
//   - POST /appointments/{id}/checkout and POST /products/{id}/checkout: store
//     a payment draft for the caller's session.
//   - GET /payments, POST /payments (clears the session draft),
//     GET /payments/draft, DELETE /payments/draft.
//   - GET /debts, POST /debts, POST /debts/{id}/settle.
//   - GET /settings, PUT /settings.
//   - POST /analytics/predictions: {"historicalBookingData"} optional; 503 when
//     no predictor is configured.
//   - GET /dashboard?date=YYYY-MM-DD: revenue, tab sales, bookings, new
//     clients and per-barber occupancy for the day, plus recent bookings.
//
// Validation failures answer 422 with pt-BR messages keyed by request field.
// The session identity (X-Session-ID header or barbershop_session cookie) only
// scopes payment drafts.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
