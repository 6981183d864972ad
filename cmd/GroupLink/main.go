package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpServer "GroupLink/api/http"
	"GroupLink/internal/config"
	"GroupLink/internal/initial"
	"GroupLink/internal/modules/group/infrastructure/notify"
	groupPersistence "GroupLink/internal/modules/group/infrastructure/persistence"
	"GroupLink/pkg/redis"
	"GroupLink/pkg/util"
	"GroupLink/pkg/ws"
	"GroupLink/pkg/zlog"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置与日志
	conf := config.GetConfig()
	if err := zlog.Init(zlog.Options{
		Level:      conf.LogConfig.Level,
		LogPath:    conf.LogConfig.LogPath,
		MaxSize:    conf.LogConfig.MaxSize,
		MaxBackups: conf.LogConfig.MaxBackups,
		MaxAge:     conf.LogConfig.MaxAge,
		Console:    conf.LogConfig.Console,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer zlog.Sync()
	util.InitIDNode(conf.MainConfig.NodeID)

	// 2. 基础设施
	db, err := initial.InitDB(conf.DatabaseConfig)
	if err != nil {
		zlog.Fatal("数据库初始化失败", zap.Error(err))
	}
	if err := initial.InitRedis(conf.RedisConfig); err != nil {
		zlog.Warn("Redis 初始化失败", zap.Error(err))
	}
	defer redis.Close()

	pub, err := initial.NewEventPublisher(conf)
	if err != nil {
		zlog.Fatal("事件通道初始化失败", zap.Error(err))
	}
	if pub != nil {
		defer pub.Close()
	}

	hub := ws.NewHub()
	var pusher notify.Pusher
	if conf.NotifyConfig.PushOnline {
		pusher = hub
	}
	relay := notify.NewRelay(
		initial.NewRelayConfig(conf.NotifyConfig),
		groupPersistence.NewGroupEventOutboxRepository(db),
		pub,
		pusher,
		groupPersistence.NewGroupMemberRepository(db),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 投递协程在 HTTP 服务关闭之后才停止，未发出的事件留在出箱表中
	relayCtx, stopRelay := context.WithCancel(context.Background())
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		if err := relay.Run(relayCtx); err != nil && !errors.Is(err, context.Canceled) {
			zlog.Error("事件投递退出", zap.Error(err))
		}
	}()

	// 3. 启动 HTTP 服务
	addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpServer.NewEngine(conf, db, hub, relay),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info("服务器正在启动", zap.String("addr", addr), zap.Bool("tls", conf.MainConfig.TLS))
		var err error
		if conf.MainConfig.TLS {
			err = srv.ListenAndServeTLS(conf.MainConfig.CertFile, conf.MainConfig.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 4. 优雅关闭
	<-ctx.Done()
	zlog.Info("正在关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("HTTP 服务关闭失败", zap.Error(err))
	}
	stopRelay()
	<-relayDone

	zlog.Info("服务器已关闭")
}
