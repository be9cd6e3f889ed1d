package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/majormatch-backend/internal/domain"
)

var seq atomic.Int64

// SeedUser creates a user with a unique username and student id.
func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.User {
	tb.Helper()
	n := seq.Add(1)
	u := &types.User{
		ID:        uuid.New(),
		StudentID: fmt.Sprintf("2024%05d", n%100000),
		Username:  fmt.Sprintf("student_%d_%d", time.Now().UnixNano()%1_000_000, n),
		Password:  "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedAssessment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, createdAt time.Time) *types.Assessment {
	tb.Helper()
	a := &types.Assessment{
		ID:                uuid.New(),
		UserID:            userID,
		Responses:         datatypes.JSON([]byte(`{"1":5}`)),
		RiasecScores:      datatypes.JSON([]byte(`{"realistic":80,"investigative":60,"artistic":40,"social":20,"enterprising":0,"conventional":100}`)),
		RecommendedMajors: datatypes.JSON([]byte(`["컴퓨터공학과"]`)),
		Recommendations:   datatypes.JSON([]byte(`[]`)),
		ValidationIssues:  datatypes.JSON([]byte(`[]`)),
		Explanation:       "설명",
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assessment: %v", err)
	}
	return a
}
