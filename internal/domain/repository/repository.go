package repository

import "context"

// CRUD is the generic store-access capability set shared by all entities:
// one concrete implementation per entity, parameterized over the entity,
// its create shape and its update shape.
type CRUD[M any, C any, U any] interface {
	Create(ctx context.Context, data C) (*M, error)
	Read(ctx context.Context, uid int64) (*M, error)
	ReadMany(ctx context.Context, offset, limit int) ([]M, error)
	Update(ctx context.Context, uid int64, data U) (*M, error)
	Delete(ctx context.Context, uid int64) error
}
