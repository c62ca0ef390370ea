package test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/infrastructure/firestore"
	repoimpl "Couple-App/internal/repository"
)

func TestFirestoreCheckpointsRepository_Integration(t *testing.T) {
	setupTestEnvironment()

	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_IDが設定されていません。Firestore統合テストをスキップします。")
	}

	ctx := context.Background()
	client, err := firestore.NewFirestoreClient(ctx, projectID)
	require.NoError(t, err, "Firestoreクライアントの初期化に失敗")
	defer client.Close()

	repo := repoimpl.NewFirestoreCheckpointsRepository(client.GetClient())
	coupleID := "it-couple-" + uuid.New().String()
	base := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)

	_, err = repo.MostRecent(ctx, coupleID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(ctx, &model.CoLocationCheckpoint{
			ID:         uuid.New().String(),
			CoupleID:   coupleID,
			Latitude:   37.5665,
			Longitude:  126.978,
			CapturedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	last, err := repo.MostRecent(ctx, coupleID)
	require.NoError(t, err)
	assert.True(t, last.CapturedAt.Equal(base.Add(2*time.Hour)))

	got, err := repo.Range(ctx, coupleID, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	log.Println("✅ Firestoreチェックポイント台帳テスト完了")
}
