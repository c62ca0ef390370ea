package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"Couple-App/internal/domain/model"
	"Couple-App/internal/domain/repository"
)

const checkpointsCollection = "colocationCheckpoints"

// FirestoreCheckpointsRepository Firestoreを使用した共在チェックポイント台帳
// (couple_id, captured_at) の複合インデックスが必要
type FirestoreCheckpointsRepository struct {
	client *firestore.Client
}

// NewFirestoreCheckpointsRepository 新しいFirestoreCheckpointsRepositoryインスタンスを作成
func NewFirestoreCheckpointsRepository(client *firestore.Client) repository.CheckpointsRepository {
	return &FirestoreCheckpointsRepository{
		client: client,
	}
}

// Append チェックポイントIDをドキュメントIDとして保存する
func (r *FirestoreCheckpointsRepository) Append(ctx context.Context, checkpoint *model.CoLocationCheckpoint) error {
	doc := *checkpoint
	doc.CapturedAt = doc.CapturedAt.UTC()

	_, err := r.client.Collection(checkpointsCollection).Doc(checkpoint.ID).Create(ctx, doc)
	if err != nil {
		log.Printf("❌ Failed to save checkpoint %s: %v", checkpoint.ID, err)
		return storageError("チェックポイントの保存に失敗しました", err)
	}
	return nil
}

func (r *FirestoreCheckpointsRepository) MostRecent(ctx context.Context, coupleID string) (*model.CoLocationCheckpoint, error) {
	iter := r.client.Collection(checkpointsCollection).
		Where("couple_id", "==", coupleID).
		OrderBy("captured_at", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, storageError("直近チェックポイントの取得に失敗しました", err)
	}

	var c model.CoLocationCheckpoint
	if err := doc.DataTo(&c); err != nil {
		return nil, storageError("チェックポイントの変換に失敗しました", err)
	}
	c.CapturedAt = c.CapturedAt.UTC()
	return &c, nil
}

func (r *FirestoreCheckpointsRepository) Range(ctx context.Context, coupleID string, start, end time.Time) ([]model.CoLocationCheckpoint, error) {
	iter := r.client.Collection(checkpointsCollection).
		Where("couple_id", "==", coupleID).
		Where("captured_at", ">=", start.UTC()).
		Where("captured_at", "<", end.UTC()).
		OrderBy("captured_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	checkpoints := make([]model.CoLocationCheckpoint, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, storageError("期間内チェックポイントの取得に失敗しました", err)
		}
		var c model.CoLocationCheckpoint
		if err := doc.DataTo(&c); err != nil {
			return nil, storageError("チェックポイントの変換に失敗しました", err)
		}
		c.CapturedAt = c.CapturedAt.UTC()
		checkpoints = append(checkpoints, c)
	}
	return checkpoints, nil
}
