package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/testutil"
)

func TestPointRepository_Journal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPointRepository(db)
	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	entries := []*model.PointTransaction{
		{UserID: user.ID, Delta: 5, BalanceAfter: 5, Reason: model.PointReasonAnswerPosted, Reference: "answer:1"},
		{UserID: user.ID, Delta: -3, BalanceAfter: 2, Reason: model.PointReasonTransferOut, Reference: "tr-1", CounterpartyID: &other.ID},
		{UserID: other.ID, Delta: 3, BalanceAfter: 3, Reason: model.PointReasonTransferIn, Reference: "tr-1", CounterpartyID: &user.ID},
	}
	for _, e := range entries {
		require.NoError(t, repo.Create(e))
	}

	list, total, err := repo.ListByUserID(user.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, model.PointReasonTransferOut, list[0].Reason)

	sum, err := repo.SumByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum)

	pair, err := repo.ListByReference("tr-1")
	require.NoError(t, err)
	assert.Len(t, pair, 2)

	sum, err = repo.SumByUserID(99999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum)
}
