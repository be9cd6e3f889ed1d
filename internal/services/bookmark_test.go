package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
	"github.com/yungbote/majormatch-backend/internal/riasec"
)

func TestBookmarks(t *testing.T) {
	repo := &fakeBookmarkRepo{}
	svc := NewBookmarkService(logger.Nop(), repo, riasec.DefaultCatalog())
	owner := uuid.New()

	_, err := svc.Add(asUser(owner), "우주항공학과", "")
	assert.ErrorIs(t, err, ErrUnknownMajor)
	assert.ErrorIs(t, err, pkgErrors.ErrInvalidArgument)

	b, err := svc.Add(asUser(owner), " 컴퓨터공학과 ", " 관심 ")
	require.NoError(t, err)
	assert.Equal(t, "컴퓨터공학과", b.MajorName)
	assert.Equal(t, "관심", b.Notes)

	list, err := svc.List(asUser(owner))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, svc.Remove(asUser(uuid.New()), b.ID), pkgErrors.ErrForbidden)
	assert.ErrorIs(t, svc.Remove(asUser(owner), uuid.New()), pkgErrors.ErrNotFound)
	require.NoError(t, svc.Remove(asUser(owner), b.ID))

	list, err = svc.List(asUser(owner))
	require.NoError(t, err)
	assert.Empty(t, list)
}
