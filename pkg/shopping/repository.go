package shopping

import (
	"context"
	"fmt"
	"strconv"

	"github.com/famhub/famhub/pkg/tabular"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	colUid    = "UID"
	colItem   = "Item"
	colStore  = "Store"
	colStatus = "Status"
	colPrice  = "Price"
)

var columns = []string{colUid, colItem, colStore, colStatus, colPrice}

// Columns returns the header contract of the shopping table.
func Columns() []string {
	return append([]string(nil), columns...)
}

type Repository interface {
	FindAll(ctx context.Context) ([]Item, error)
	SaveAll(ctx context.Context, items []Item) error
}

type TabularRepository struct {
	store tabular.Store
	table string
}

func NewTabularRepository(store tabular.Store, table string) *TabularRepository {
	return &TabularRepository{store: store, table: table}
}

func (r *TabularRepository) FindAll(ctx context.Context) ([]Item, error) {
	rows, err := r.store.Read(ctx, r.table)
	if err != nil {
		return nil, fmt.Errorf("could not load shopping items: %w", err)
	}

	assignedUid := false
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		uid := row[colUid]
		if uid == "" {
			uid = uuid.New().String()
			assignedUid = true
		}

		price := 0.0
		if cell := row[colPrice]; cell != "" {
			price, err = strconv.ParseFloat(cell, 64)
			if err != nil {
				log.Warnf("ignoring unparseable price cell %q for item %q", cell, row[colItem])
				price = 0
			}
		}

		items = append(items, Item{
			UID:    uid,
			Name:   row[colItem],
			Store:  row[colStore],
			Status: row[colStatus],
			Price:  price,
		})
	}

	// Keep assigned uids addressable across reloads.
	if assignedUid {
		if err := r.SaveAll(ctx, items); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *TabularRepository) SaveAll(ctx context.Context, items []Item) error {
	rows := make([]tabular.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, tabular.Row{
			colUid:    item.UID,
			colItem:   item.Name,
			colStore:  item.Store,
			colStatus: item.Status,
			colPrice:  strconv.FormatFloat(item.Price, 'f', 2, 64),
		})
	}

	if err := r.store.Write(ctx, r.table, columns, rows); err != nil {
		return fmt.Errorf("could not save shopping items: %w", err)
	}
	return nil
}
