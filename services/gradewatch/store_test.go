package gradewatch

import (
	"context"
	"testing"

	"gradewatch-backend/lib/testutil"
	"gradewatch-backend/services/gradewatch/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestClearTokensReportsDetachedSessions(t *testing.T) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/gradewatch",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(result.DB)

	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "student1", "shared-token", []string{"a=1"}, "android"))
	require.NoError(t, store.Upsert(ctx, "student2", "shared-token", []string{"b=2"}, "android"))
	require.NoError(t, store.Upsert(ctx, "student3", "other-token", []string{"c=3"}, "ios"))

	identities, err := store.ClearTokens(ctx, "shared-token")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"student1", "student2"}, identities)

	// already cleared, nothing left to report
	identities, err = store.ClearTokens(ctx, "shared-token")
	require.NoError(t, err)
	require.Empty(t, identities)
}
