package pricelist

import (
	"context"
	"time"
)

// Filter narrows price listings. Zero fields are ignored.
type Filter struct {
	SugarMill string
	Grade     string
	From      time.Time
	To        time.Time
}

// Repository defines persistence behaviours for price entries.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context, filter Filter) ([]*Entry, error)
	Update(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id string) error
}
