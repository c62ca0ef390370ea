package firestore

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

const defaultCredentialsFile = "firestore-key.json"

// FirestoreClient 共在チェックポイント台帳用のFirestoreクライアント
type FirestoreClient struct {
	client    *firestore.Client
	projectID string
}

// NewFirestoreClient 実行環境に合わせた認証でクライアントを作成する
func NewFirestoreClient(ctx context.Context, projectID string) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
	}

	opts, authMode := clientOptions()
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("Firestoreクライアントの初期化に失敗 (%s): %w", authMode, err)
	}

	log.Printf("✅ Firestore client initialized for project: %s (%s)", projectID, authMode)
	return &FirestoreClient{client: client, projectID: projectID}, nil
}

// clientOptions Cloud Run ではデフォルト認証、それ以外は認証ファイルがあれば使う
func clientOptions() ([]option.ClientOption, string) {
	if os.Getenv("K_SERVICE") != "" {
		return nil, "Cloud Run default auth"
	}

	credentialsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credentialsFile == "" {
		credentialsFile = defaultCredentialsFile
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		log.Printf("⚠️ Credentials file not found: %s, trying with default authentication", credentialsFile)
		return nil, "default auth"
	}
	return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}, "credentials file " + credentialsFile
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
