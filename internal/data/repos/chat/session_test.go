package chat

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/majormatch-backend/internal/data/repos/testutil"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
)

func TestSessionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSessionRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx)

	s, err := repo.Create(dbc, &types.ChatSession{UserID: u.ID, Stage: "greeting"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	locked, err := repo.GetForUpdate(dbc, s.ID)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := locked.AppendMessages(
		types.SessionMessage{Role: "user", Content: "안녕하세요", Timestamp: now},
		types.SessionMessage{Role: "assistant", Content: "반가워요", Timestamp: now},
	); err != nil {
		t.Fatalf("AppendMessages: %v", err)
	}
	locked.Stage = "exploration"
	if err := repo.Save(dbc, locked); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByID(dbc, s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	msgs := got.DecodeMessages()
	if len(msgs) != 2 || msgs[1].Content != "반가워요" || got.Stage != "exploration" {
		t.Fatalf("unexpected session: stage=%s msgs=%+v", got.Stage, msgs)
	}
	if rows, err := repo.ListByUser(dbc, u.ID); err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
}
