package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	common_models "forwarddesk/internal/common/models"
	"forwarddesk/internal/database"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BillingSource reads billing records from the BaaS-managed Postgres
// table. Filters and time range become WHERE clauses so the predicate
// work stays storage-side, same as the Mongo sources.
type BillingSource struct {
	db *sql.DB
}

func NewBillingSource(pg *database.PostgresDB) *BillingSource {
	return &BillingSource{db: pg.DB}
}

// billingColumns whitelists filterable columns; anything else is
// rejected before touching SQL.
var billingColumns = map[string]bool{
	"id":           true,
	"invoice_id":   true,
	"amount_cents": true,
	"currency":     true,
	"status":       true,
	"period":       true,
	"created_at":   true,
}

func (s *BillingSource) Query(ctx context.Context, organizationID primitive.ObjectID, filters []common_models.Filter, timeRange common_models.TimeRange) ([]Row, error) {
	query, args, err := buildBillingQuery(organizationID, filters, timeRange)
	if err != nil {
		return nil, err
	}

	sqlRows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("billing query failed: %w", err)
	}
	defer sqlRows.Close()

	var rows []Row
	for sqlRows.Next() {
		var rec BillingRecord
		if err := sqlRows.Scan(&rec.ID, &rec.InvoiceID, &rec.AmountCents, &rec.Currency, &rec.Status, &rec.Period, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("billing scan failed: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, sqlRows.Err()
}

func buildBillingQuery(organizationID primitive.ObjectID, filters []common_models.Filter, timeRange common_models.TimeRange) (string, []interface{}, error) {
	clauses := []string{"organization_id = $1"}
	args := []interface{}{organizationID.Hex()}

	for _, f := range filters {
		if err := f.Validate(); err != nil {
			return "", nil, err
		}
		if !billingColumns[f.Field] {
			return "", nil, fmt.Errorf("unknown billing field: %s", f.Field)
		}

		switch f.Operator {
		case common_models.OpEq:
			args = append(args, f.Value)
			clauses = append(clauses, fmt.Sprintf("%s = $%d", f.Field, len(args)))
		case common_models.OpNeq:
			args = append(args, f.Value)
			clauses = append(clauses, fmt.Sprintf("%s <> $%d", f.Field, len(args)))
		case common_models.OpGt:
			args = append(args, f.Value)
			clauses = append(clauses, fmt.Sprintf("%s > $%d", f.Field, len(args)))
		case common_models.OpGte:
			args = append(args, f.Value)
			clauses = append(clauses, fmt.Sprintf("%s >= $%d", f.Field, len(args)))
		case common_models.OpLt:
			args = append(args, f.Value)
			clauses = append(clauses, fmt.Sprintf("%s < $%d", f.Field, len(args)))
		case common_models.OpLte:
			args = append(args, f.Value)
			clauses = append(clauses, fmt.Sprintf("%s <= $%d", f.Field, len(args)))
		case common_models.OpIn:
			args = append(args, pq.Array(f.Values()))
			clauses = append(clauses, fmt.Sprintf("%s = ANY($%d)", f.Field, len(args)))
		case common_models.OpBetween:
			bounds := f.Values()
			args = append(args, bounds[0], bounds[1])
			clauses = append(clauses, fmt.Sprintf("%s BETWEEN $%d AND $%d", f.Field, len(args)-1, len(args)))
		}
	}

	if timeRange.Start != nil {
		args = append(args, *timeRange.Start)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if timeRange.End != nil {
		args = append(args, *timeRange.End)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := fmt.Sprintf(
		"SELECT id, invoice_id, amount_cents, currency, status, period, created_at FROM billing_records WHERE %s ORDER BY created_at",
		strings.Join(clauses, " AND "))
	return query, args, nil
}
