package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/codequest_server/internal/model"
	"github.com/qs3c/codequest_server/internal/testutil"
)

func TestSubscriptionRepository_ListByUserID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSubscriptionRepository(db)
	user := testutil.TestUser(t, db)
	now := time.Now()

	require.NoError(t, repo.Create(&model.Subscription{UserID: user.ID, Plan: "bronze", PreviousPlan: "free", Amount: 100, PaidAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.Create(&model.Subscription{UserID: user.ID, Plan: "gold", PreviousPlan: "bronze", Amount: 1000, PaidAt: now}))

	subs, err := repo.ListByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "gold", subs[0].Plan)
	assert.Equal(t, "paid", subs[0].Status)
}
