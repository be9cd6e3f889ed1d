package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// New returns a Context without a transaction.
func New(ctx context.Context) Context { return Context{Ctx: ctx} }

// WithTx returns a copy of c bound to tx.
func (c Context) WithTx(tx *gorm.DB) Context { return Context{Ctx: c.Ctx, Tx: tx} }

// DB returns the transaction when set, otherwise fallback, scoped to c.Ctx.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return db.WithContext(ctx)
}
