package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	d "github.com/valed-dm/ecombot/internal/domain"
)

// GetProducts loads name, price and current stock for the given ids. Missing
// ids are simply absent from the result map; the caller decides whether that
// is an error.
func (r *Repository) GetProducts(ctx context.Context, ids []int64) (map[int64]d.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, stock FROM products WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]d.Product, len(ids))
	for rows.Next() {
		var p d.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ID] = p
	}
	return products, rows.Err()
}

// GetDeliveryConfig reads the whole delivery setup in one snapshot: the
// global toggle, active non-pickup options and all pickup points in id order.
func (r *Repository) GetDeliveryConfig(ctx context.Context) (*d.DeliveryConfig, error) {
	cfg := &d.DeliveryConfig{}

	err := r.db.QueryRowContext(ctx,
		`SELECT delivery_enabled FROM shop_settings WHERE id = 1`).
		Scan(&cfg.DeliveryEnabled)
	if err != nil {
		return nil, fmt.Errorf("failed to read shop settings: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, price, free_threshold, is_active
		 FROM delivery_options ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var opt d.DeliveryOption
		if err := rows.Scan(&opt.ID, &opt.Name, &opt.Price, &opt.FreeThreshold, &opt.Active); err != nil {
			return nil, fmt.Errorf("failed to scan delivery option: %w", err)
		}
		cfg.Options = append(cfg.Options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ppRows, err := r.db.QueryContext(ctx,
		`SELECT id, name, address, is_active FROM pickup_points ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pickup points: %w", err)
	}
	defer ppRows.Close()
	for ppRows.Next() {
		var pp d.PickupPoint
		if err := ppRows.Scan(&pp.ID, &pp.Name, &pp.Address, &pp.Active); err != nil {
			return nil, fmt.Errorf("failed to scan pickup point: %w", err)
		}
		cfg.PickupPoints = append(cfg.PickupPoints, pp)
	}
	return cfg, ppRows.Err()
}
