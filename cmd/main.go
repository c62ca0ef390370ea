package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Couple-App/internal/app"
	"Couple-App/internal/config"
	"Couple-App/internal/handler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("⚠️  環境変数の設定が不正です:")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	ctx := context.Background()
	container, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("依存関係の初期化に失敗: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Printf("⚠️ %v", err)
		}
	}()

	gpsHandler := handler.NewGPSHandler(container.UseCase)
	router := handler.NewRouter(gpsHandler, container.HealthChecks())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		fmt.Printf("Couple-App server starting on :%s...\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("サーバーの起動に失敗: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 シャットダウン中...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ シャットダウンに失敗: %v", err)
	}
}
