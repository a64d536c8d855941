// Package store is the persistence layer for orders, payment transactions
// and cached courier tokens. Every mutation goes through a named setter with
// a fixed column list; request bodies never drive UPDATE construction.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("store: order not found")
	ErrTransactionNotFound  = errors.New("store: payment transaction not found")
	ErrDuplicateOrderNumber = errors.New("store: duplicate order number")
	ErrAlreadyRegistered    = errors.New("store: order already registered with courier")
	ErrShipmentExists       = errors.New("store: shipment already exists or is being created")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}
