package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-insights-api/infrastructure/database"
	"github.com/vfg2006/sales-insights-api/internal/domain"
)

const (
	salesRecordsTable = "sales_records"
)

var salesRecordColumns = []string{
	"date",
	"display_date",
	"all_customer_sales",
	"loyalty_customer_sales",
	"in_store_sale_amount",
	"online_sale_amount",
	"total_avg_ticket_amount",
	"loyalty_cus_avg_ticket_amount",
	"total_orders",
}

type SalesRecordRepository interface {
	SaveOrUpdate(ctx context.Context, storeID string, records []domain.SalesRecord) error
	GetByStore(ctx context.Context, storeID string) ([]domain.SalesRecord, error)
	ListStores(ctx context.Context) ([]string, error)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

type salesRecordRepository struct {
	conn *database.Connection
	now  func() time.Time
}

func NewSalesRecordRepository(conn *database.Connection) SalesRecordRepository {
	return &salesRecordRepository{
		conn: conn,
		now:  time.Now,
	}
}

func (r *salesRecordRepository) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(r.conn.Placeholder())
}

// SaveOrUpdate grava os registros da loja em uma única transação, sobrescrevendo dias já existentes
func (r *salesRecordRepository) SaveOrUpdate(ctx context.Context, storeID string, records []domain.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, record := range records {
			record = record.Normalize()

			query, args, err := r.builder().
				Insert(salesRecordsTable).
				Columns(append([]string{"store_id"}, salesRecordColumns...)...).
				Values(
					storeID,
					record.Date,
					record.DisplayDate,
					record.AllCustomerSales,
					record.LoyaltyCustomerSales,
					record.InStoreSaleAmount,
					record.OnlineSaleAmount,
					record.TotalAvgTicketAmount,
					record.LoyaltyCusAvgTicketAmount,
					record.TotalOrders,
				).
				Suffix(`
					ON CONFLICT (store_id, date) DO UPDATE SET
						display_date = excluded.display_date,
						all_customer_sales = excluded.all_customer_sales,
						loyalty_customer_sales = excluded.loyalty_customer_sales,
						in_store_sale_amount = excluded.in_store_sale_amount,
						online_sale_amount = excluded.online_sale_amount,
						total_avg_ticket_amount = excluded.total_avg_ticket_amount,
						loyalty_cus_avg_ticket_amount = excluded.loyalty_cus_avg_ticket_amount,
						total_orders = excluded.total_orders,
						updated_at = CURRENT_TIMESTAMP
				`).
				ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				var pqErr *pq.Error
				if errors.As(err, &pqErr) {
					return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
				}
				return fmt.Errorf("erro ao executar a query: %w", err)
			}
		}

		return nil
	})
}

func (r *salesRecordRepository) GetByStore(ctx context.Context, storeID string) ([]domain.SalesRecord, error) {
	query, args, err := r.builder().
		Select(salesRecordColumns...).
		From(salesRecordsTable).
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryRecords(ctx, query, args...)
}

func (r *salesRecordRepository) ListStores(ctx context.Context) ([]string, error) {
	query, args, err := r.builder().
		Select("DISTINCT store_id").
		From(salesRecordsTable).
		OrderBy("store_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	stores := make([]string, 0)
	for rows.Next() {
		var store string
		if err := rows.Scan(&store); err != nil {
			return nil, fmt.Errorf("erro ao escanear loja: %w", err)
		}
		stores = append(stores, store)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return stores, nil
}

// DeleteOlderThan remove registros com data anterior a hoje menos days dias
func (r *salesRecordRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := r.now().AddDate(0, 0, -days).UnixMilli()

	query, args, err := r.builder().
		Delete(salesRecordsTable).
		Where(squirrel.Lt{"date": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("erro ao executar a query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("erro ao obter número de linhas afetadas: %w", err)
	}

	return rowsAffected, nil
}

func (r *salesRecordRepository) queryRecords(ctx context.Context, query string, args ...any) ([]domain.SalesRecord, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]domain.SalesRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear registro de vendas: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func scanRecord(rows *sql.Rows) (domain.SalesRecord, error) {
	var record domain.SalesRecord

	err := rows.Scan(
		&record.Date,
		&record.DisplayDate,
		&record.AllCustomerSales,
		&record.LoyaltyCustomerSales,
		&record.InStoreSaleAmount,
		&record.OnlineSaleAmount,
		&record.TotalAvgTicketAmount,
		&record.LoyaltyCusAvgTicketAmount,
		&record.TotalOrders,
	)

	return record, err
}
