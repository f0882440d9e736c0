package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invixio/invixio/internal/domain/invoice"
	ierr "github.com/invixio/invixio/internal/errors"
	"github.com/invixio/invixio/internal/logger"
	"github.com/invixio/invixio/internal/postgres"
	"github.com/invixio/invixio/internal/types"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const pqUniqueViolation = "23505"

type invoiceRepository struct {
	client postgres.IClient
	logger *logger.Logger
}

func NewInvoiceRepository(client postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{client: client, logger: logger}
}

const invoiceColumns = `id, user_id, invoice_number,
	company_name, company_email, company_address,
	client_name, client_email, client_address,
	invoice_date, due_date,
	currency, subtotal, tax, discount, tax_percentage, discount_percentage, total,
	invoice_status, paid_at, cancelled_at,
	notes, payment_instructions, logo_url, pdf_url,
	status, created_at, updated_at`

const insertInvoiceQuery = `
	INSERT INTO invoices (` + invoiceColumns + `)
	VALUES (:id, :user_id, :invoice_number,
		:company_name, :company_email, :company_address,
		:client_name, :client_email, :client_address,
		:invoice_date, :due_date,
		:currency, :subtotal, :tax, :discount, :tax_percentage, :discount_percentage, :total,
		:invoice_status, :paid_at, :cancelled_at,
		:notes, :payment_instructions, :logo_url, :pdf_url,
		:status, :created_at, :updated_at)
`

const insertItemQuery = `
	INSERT INTO invoice_items (id, invoice_id, description, quantity, unit_price, amount, status, created_at, updated_at)
	VALUES (:id, :invoice_id, :description, :quantity, :unit_price, :amount, :status, :created_at, :updated_at)
`

func (r *invoiceRepository) CreateWithItems(ctx context.Context, inv *invoice.Invoice) error {
	return r.client.WithTx(ctx, func(ctx context.Context) error {
		q := r.client.Querier(ctx)

		if _, err := q.NamedExecContext(ctx, insertInvoiceQuery, inv); err != nil {
			return r.wrapWriteErr(err, inv.InvoiceNumber)
		}
		for _, item := range inv.Items {
			item.InvoiceID = inv.ID
			if _, err := q.NamedExecContext(ctx, insertItemQuery, item); err != nil {
				return ierr.WithError(err).
					WithHint("failed to create invoice item").
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
}

func (r *invoiceRepository) UpdateWithItems(ctx context.Context, inv *invoice.Invoice) error {
	query := `
	UPDATE invoices SET
		client_name = :client_name,
		client_email = :client_email,
		client_address = :client_address,
		invoice_date = :invoice_date,
		due_date = :due_date,
		subtotal = :subtotal,
		tax = :tax,
		discount = :discount,
		tax_percentage = :tax_percentage,
		discount_percentage = :discount_percentage,
		total = :total,
		invoice_status = :invoice_status,
		notes = :notes,
		payment_instructions = :payment_instructions,
		logo_url = :logo_url,
		pdf_url = :pdf_url,
		updated_at = :updated_at
	WHERE id = :id AND user_id = :user_id
	`

	return r.client.WithTx(ctx, func(ctx context.Context) error {
		q := r.client.Querier(ctx)

		inv.UpdatedAt = time.Now().UTC()
		res, err := q.NamedExecContext(ctx, query, inv)
		if err != nil {
			return r.wrapWriteErr(err, inv.InvoiceNumber)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return invoice.ErrInvoiceNotFound
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, inv.ID); err != nil {
			return ierr.WithError(err).
				WithHint("failed to replace invoice items").
				Mark(ierr.ErrDatabase)
		}
		for _, item := range inv.Items {
			item.InvoiceID = inv.ID
			if _, err := q.NamedExecContext(ctx, insertItemQuery, item); err != nil {
				return ierr.WithError(err).
					WithHint("failed to create invoice item").
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
}

func (r *invoiceRepository) Get(ctx context.Context, userID, id string) (*invoice.Invoice, error) {
	q := r.client.Querier(ctx)

	var inv invoice.Invoice
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 AND user_id = $2`
	if err := q.GetContext(ctx, &inv, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, ierr.WithError(err).
			WithHint("failed to fetch invoice").
			Mark(ierr.ErrDatabase)
	}

	items, err := r.itemsFor(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (r *invoiceRepository) itemsFor(ctx context.Context, invoiceID string) ([]*invoice.InvoiceItem, error) {
	q := r.client.Querier(ctx)

	var items []*invoice.InvoiceItem
	query := `
	SELECT id, invoice_id, description, quantity, unit_price, amount, status, created_at, updated_at
	FROM invoice_items WHERE invoice_id = $1 ORDER BY created_at, id
	`
	if err := q.SelectContext(ctx, &items, query, invoiceID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to fetch invoice items").
			Mark(ierr.ErrDatabase)
	}
	return items, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, userID, id string, status types.InvoiceStatus, paidAt, cancelledAt *time.Time) error {
	query := `
	UPDATE invoices
	SET invoice_status = $1, paid_at = $2, cancelled_at = $3, updated_at = $4
	WHERE id = $5 AND user_id = $6
	`

	q := r.client.Querier(ctx)
	res, err := q.ExecContext(ctx, query, status, paidAt, cancelledAt, time.Now().UTC(), id, userID)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to update invoice status").
			Mark(ierr.ErrDatabase)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepository) SetPDFURL(ctx context.Context, userID, id, url string) error {
	q := r.client.Querier(ctx)

	query := `UPDATE invoices SET pdf_url = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`
	res, err := q.ExecContext(ctx, query, url, time.Now().UTC(), id, userID)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to record invoice document url").
			Mark(ierr.ErrDatabase)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return invoice.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, userID, id string) error {
	return r.client.WithTx(ctx, func(ctx context.Context) error {
		q := r.client.Querier(ctx)

		if _, err := q.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
			return ierr.WithError(err).
				WithHint("failed to delete invoice items").
				Mark(ierr.ErrDatabase)
		}

		res, err := q.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return ierr.WithError(err).
				WithHint("failed to delete invoice").
				Mark(ierr.ErrDatabase)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return invoice.ErrInvoiceNotFound
		}
		return nil
	})
}

func (r *invoiceRepository) List(ctx context.Context, userID string, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	where, args := buildInvoiceWhere(userID, filter)

	order := "DESC"
	if filter != nil && filter.GetOrder() == types.OrderAsc {
		order = "ASC"
	}
	sort := "created_at"
	if filter != nil && filter.GetSort() == "due_date" {
		sort = "due_date"
	}

	query := fmt.Sprintf(`SELECT `+invoiceColumns+` FROM invoices WHERE %s ORDER BY %s %s, id`,
		where, sort, order)
	if filter != nil && !filter.IsUnlimited() {
		args = append(args, filter.GetLimit(), filter.GetOffset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	q := r.client.Querier(ctx)
	var invoices []*invoice.Invoice
	if err := q.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list invoices").
			Mark(ierr.ErrDatabase)
	}

	for _, inv := range invoices {
		items, err := r.itemsFor(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Items = items
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, userID string, filter *types.InvoiceFilter) (int, error) {
	where, args := buildInvoiceWhere(userID, filter)

	q := r.client.Querier(ctx)
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM invoices WHERE %s`, where)
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func buildInvoiceWhere(userID string, filter *types.InvoiceFilter) (string, []interface{}) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}

	add := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter != nil {
		if filter.Status != nil {
			add("invoice_status = $%d", *filter.Status)
		}
		if filter.ClientEmail != nil {
			add("client_email = $%d", *filter.ClientEmail)
		}
		if filter.DueBefore != nil {
			add("due_date < $%d", *filter.DueBefore)
		}
		if filter.DueAfter != nil {
			add("due_date >= $%d", *filter.DueAfter)
		}
		if filter.CreatedAfter != nil {
			add("created_at >= $%d", *filter.CreatedAfter)
		}
		if filter.CreatedUntil != nil {
			add("created_at < $%d", *filter.CreatedUntil)
		}
	}

	return strings.Join(conditions, " AND "), args
}

func (r *invoiceRepository) CountInRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	q := r.client.Querier(ctx)

	var count int
	query := `SELECT COUNT(*) FROM invoices WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
	if err := q.GetContext(ctx, &count, query, userID, start, end); err != nil {
		return 0, ierr.WithError(err).
			WithHint("failed to count invoices in range").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) GroupByStatus(ctx context.Context, userID string, start, end time.Time) (map[types.InvoiceStatus]int, error) {
	q := r.client.Querier(ctx)

	query := `SELECT invoice_status, COUNT(*) AS count FROM invoices WHERE user_id = $1`
	args := []interface{}{userID}
	if !start.IsZero() || !end.IsZero() {
		query += ` AND created_at >= $2 AND created_at < $3`
		args = append(args, start, end)
	}
	query += ` GROUP BY invoice_status`

	var rows []struct {
		InvoiceStatus types.InvoiceStatus `db:"invoice_status"`
		Count         int                 `db:"count"`
	}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to group invoices by status").
			Mark(ierr.ErrDatabase)
	}

	result := make(map[types.InvoiceStatus]int, len(rows))
	for _, row := range rows {
		result[row.InvoiceStatus] = row.Count
	}
	return result, nil
}

func (r *invoiceRepository) RevenueByMonth(ctx context.Context, userID string, start, end time.Time) (map[string]decimal.Decimal, error) {
	q := r.client.Querier(ctx)

	query := `
	SELECT to_char(date_trunc('month', paid_at), 'YYYY-MM') AS month, COALESCE(SUM(total), 0) AS revenue
	FROM invoices
	WHERE user_id = $1 AND invoice_status = $2 AND paid_at >= $3 AND paid_at < $4
	GROUP BY 1
	`

	var rows []struct {
		Month   string          `db:"month"`
		Revenue decimal.Decimal `db:"revenue"`
	}
	if err := q.SelectContext(ctx, &rows, query, userID, types.InvoiceStatusPaid, start, end); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to aggregate monthly revenue").
			Mark(ierr.ErrDatabase)
	}

	result := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[row.Month] = row.Revenue
	}
	return result, nil
}

func (r *invoiceRepository) MaxInvoiceNumber(ctx context.Context, userID, prefix string) (*string, error) {
	q := r.client.Querier(ctx)

	var number sql.NullString
	query := `SELECT MAX(invoice_number) FROM invoices WHERE user_id = $1 AND invoice_number LIKE $2`
	if err := q.GetContext(ctx, &number, query, userID, prefix+"%"); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to fetch last invoice number").
			Mark(ierr.ErrDatabase)
	}
	if !number.Valid {
		return nil, nil
	}
	return &number.String, nil
}

func (r *invoiceRepository) ListDueBefore(ctx context.Context, cutoff time.Time, statuses []types.InvoiceStatus) ([]*invoice.Invoice, error) {
	q := r.client.Querier(ctx)

	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	var invoices []*invoice.Invoice
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE due_date < $1 AND invoice_status = ANY($2) ORDER BY due_date, id`
	if err := q.SelectContext(ctx, &invoices, query, cutoff, pq.Array(values)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("failed to list due invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) TransitionStatusUnscoped(ctx context.Context, id string, from, to types.InvoiceStatus) (bool, error) {
	q := r.client.Querier(ctx)

	// the status predicate keeps a row settled between list and update from
	// being clobbered
	query := `UPDATE invoices SET invoice_status = $1, updated_at = $2 WHERE id = $3 AND invoice_status = $4`
	res, err := q.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("failed to update invoice status").
			Mark(ierr.ErrDatabase)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

func (r *invoiceRepository) wrapWriteErr(err error, number string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		r.logger.Warnw("invoice number collision", "invoice_number", number)
		return invoice.ErrDuplicateNumber
	}
	return ierr.WithError(err).
		WithHint("failed to write invoice").
		Mark(ierr.ErrDatabase)
}
