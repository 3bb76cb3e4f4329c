package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/example/barbershop-manager/internal/persistence"
)

// PaymentRepository implements persistence.PaymentRepository using SQLite
type PaymentRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewPaymentRepository creates a new SQLite payment repository
func NewPaymentRepository(pool *ConnectionPool) *PaymentRepository {
	return &PaymentRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreatePayment stores a payment and, when debt is non-nil, the debt it opens.
// Both rows are written or neither is.
func (r *PaymentRepository) CreatePayment(ctx context.Context, payment persistence.Payment, debt *persistence.Debt) error {
	if payment.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(ctx, tx, `
			INSERT INTO payments (id, client_name, amount_cents, method, paid_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			payment.ID,
			payment.ClientName,
			payment.AmountCents,
			payment.Method,
			formatTime(payment.PaidAt),
			formatTime(payment.CreatedAt),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}

		for position, name := range payment.ServiceNames {
			_, err := r.helper.ExecTx(ctx, tx,
				`INSERT INTO payment_services (payment_id, position, service_name) VALUES (?, ?, ?)`,
				payment.ID, position, name)
			if err != nil {
				return r.mapper.MapError(err)
			}
		}

		if debt == nil {
			return nil
		}
		return insertDebt(ctx, r.helper, r.mapper, tx, *debt)
	})
}

// ListPayments returns all payments, newest first
func (r *PaymentRepository) ListPayments(ctx context.Context) ([]persistence.Payment, error) {
	payments, err := r.queryPayments(ctx)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return payments, nil
	}

	ids := make([]any, len(payments))
	for i := range payments {
		ids[i] = payments[i].ID
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := r.helper.Query(ctx, `
		SELECT payment_id, service_name
		FROM payment_services
		WHERE payment_id IN (`+placeholders+`)
		ORDER BY payment_id ASC, position ASC
	`, ids...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	names := make(map[string][]string, len(payments))
	for rows.Next() {
		var paymentID, name string
		if err := rows.Scan(&paymentID, &name); err != nil {
			return nil, r.mapper.MapError(err)
		}
		names[paymentID] = append(names[paymentID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range payments {
		payments[i].ServiceNames = names[payments[i].ID]
	}
	return payments, nil
}

func (r *PaymentRepository) queryPayments(ctx context.Context) ([]persistence.Payment, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, client_name, amount_cents, method, paid_at, created_at
		FROM payments
		ORDER BY paid_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	payments := make([]persistence.Payment, 0)
	for rows.Next() {
		var (
			payment           persistence.Payment
			paidAt, createdAt string
		)
		if err := rows.Scan(&payment.ID, &payment.ClientName, &payment.AmountCents, &payment.Method, &paidAt, &createdAt); err != nil {
			return nil, r.mapper.MapError(err)
		}
		if payment.PaidAt, err = parseTime(paidAt); err != nil {
			return nil, err
		}
		if payment.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return payments, nil
}

// DebtRepository implements persistence.DebtRepository using SQLite
type DebtRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewDebtRepository creates a new SQLite debt repository
func NewDebtRepository(pool *ConnectionPool) *DebtRepository {
	return &DebtRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const debtColumns = `id, payment_id, client_name, description, amount_cents, incurred_at, created_at`

// CreateDebt stores a debt that was not opened by a recorded payment
func (r *DebtRepository) CreateDebt(ctx context.Context, debt persistence.Debt) error {
	if debt.ID == "" {
		return persistence.ErrConstraintViolation
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return insertDebt(ctx, r.helper, r.mapper, tx, debt)
	})
}

// GetDebt retrieves a debt by ID
func (r *DebtRepository) GetDebt(ctx context.Context, id string) (persistence.Debt, error) {
	row := r.helper.QueryRow(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = ?`, id)
	debt, err := scanDebt(row)
	if err != nil {
		return persistence.Debt{}, r.mapper.MapError(err)
	}
	return debt, nil
}

// ListDebts returns all open debts, newest first
func (r *DebtRepository) ListDebts(ctx context.Context) ([]persistence.Debt, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+debtColumns+` FROM debts ORDER BY incurred_at DESC, rowid DESC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	debts := make([]persistence.Debt, 0)
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return debts, nil
}

// DeleteDebt removes a debt
func (r *DebtRepository) DeleteDebt(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM debts WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return requireAffected(result)
}

func insertDebt(ctx context.Context, helper *QueryHelper, mapper *ErrorMapper, tx *sql.Tx, debt persistence.Debt) error {
	if debt.ID == "" {
		return persistence.ErrConstraintViolation
	}
	_, err := helper.ExecTx(ctx, tx, `
		INSERT INTO debts (`+debtColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		debt.ID,
		nullableString(debt.PaymentID),
		debt.ClientName,
		debt.Description,
		debt.AmountCents,
		formatTime(debt.IncurredAt),
		formatTime(debt.CreatedAt),
	)
	return mapper.MapError(err)
}

func scanDebt(row rowScanner) (persistence.Debt, error) {
	var (
		debt                  persistence.Debt
		paymentID             sql.NullString
		incurredAt, createdAt string
	)
	err := row.Scan(&debt.ID, &paymentID, &debt.ClientName, &debt.Description, &debt.AmountCents, &incurredAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Debt{}, persistence.ErrNotFound
		}
		return persistence.Debt{}, err
	}
	debt.PaymentID = stringPointer(paymentID)
	if debt.IncurredAt, err = parseTime(incurredAt); err != nil {
		return persistence.Debt{}, err
	}
	if debt.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Debt{}, err
	}
	return debt, nil
}
