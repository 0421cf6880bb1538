package bills

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/famhub/famhub/pkg/tabular"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	colUid     = "UID"
	colBill    = "Bill"
	colAmount  = "Amount"
	colDueDate = "Due Date"
	colPaid    = "Paid"

	dateLayout = "2006-01-02"
)

var columns = []string{colUid, colBill, colAmount, colDueDate, colPaid}

// Columns returns the header contract of the bills table.
func Columns() []string {
	return append([]string(nil), columns...)
}

type Repository interface {
	FindAll(ctx context.Context) ([]Bill, error)
	SaveAll(ctx context.Context, bills []Bill) error
}

type TabularRepository struct {
	store tabular.Store
	table string
}

func NewTabularRepository(store tabular.Store, table string) *TabularRepository {
	return &TabularRepository{store: store, table: table}
}

func (r *TabularRepository) FindAll(ctx context.Context) ([]Bill, error) {
	rows, err := r.store.Read(ctx, r.table)
	if err != nil {
		return nil, fmt.Errorf("could not load bills: %w", err)
	}

	assignedUid := false
	bills := make([]Bill, 0, len(rows))
	for _, row := range rows {
		uid := row[colUid]
		if uid == "" {
			uid = uuid.New().String()
			assignedUid = true
		}

		amount := 0.0
		if cell := row[colAmount]; cell != "" {
			parsed, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				log.Warnf("ignoring unparseable amount cell %q for bill %q", cell, row[colBill])
			} else {
				amount = parsed
			}
		}

		var dueDate *time.Time
		if cell := strings.TrimSpace(row[colDueDate]); cell != "" {
			parsed, err := time.Parse(dateLayout, cell)
			if err != nil {
				log.Warnf("ignoring unparseable due date cell %q for bill %q", cell, row[colBill])
			} else {
				dueDate = &parsed
			}
		}

		bills = append(bills, Bill{
			UID:     uid,
			Name:    row[colBill],
			Amount:  amount,
			DueDate: dueDate,
			// Anything other than "Yes" counts as unpaid, the legacy contract.
			Paid: strings.EqualFold(strings.TrimSpace(row[colPaid]), "yes"),
		})
	}

	// Keep assigned uids addressable across reloads.
	if assignedUid {
		if err := r.SaveAll(ctx, bills); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

func (r *TabularRepository) SaveAll(ctx context.Context, bills []Bill) error {
	rows := make([]tabular.Row, 0, len(bills))
	for _, bill := range bills {
		row := tabular.Row{
			colUid:     bill.UID,
			colBill:    bill.Name,
			colAmount:  strconv.FormatFloat(bill.Amount, 'f', 2, 64),
			colDueDate: "",
			colPaid:    "No",
		}
		if bill.DueDate != nil {
			row[colDueDate] = bill.DueDate.Format(dateLayout)
		}
		if bill.Paid {
			row[colPaid] = "Yes"
		}
		rows = append(rows, row)
	}

	if err := r.store.Write(ctx, r.table, columns, rows); err != nil {
		return fmt.Errorf("could not save bills: %w", err)
	}
	return nil
}
