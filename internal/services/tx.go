package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
)

// inTx runs fn inside a transaction, or directly on the repos' own handle
// when no database is wired.
func inTx(ctx context.Context, db *gorm.DB, fn func(dbc dbctx.Context) error) error {
	if db == nil {
		return fn(dbctx.New(ctx))
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
