package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"dingcan_server/internal/config"
	dao "dingcan_server/internal/dao/mysql"
	myredis "dingcan_server/internal/dao/redis"
	"dingcan_server/internal/handler"
	"dingcan_server/internal/https_server"
	"dingcan_server/internal/infrastructure/email"
	"dingcan_server/internal/infrastructure/logger"
	"dingcan_server/internal/infrastructure/mq"
	"dingcan_server/internal/service"
	"dingcan_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 初始化 validator 中文翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	myredis.Init()
	cache := myredis.GetCacheService()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT（令牌由外部身份服务签发，这里只做验签）
	jwt.Init(conf.JWTConfig.Secret)
	zap.L().Info("JWT 初始化成功")

	// 6. 初始化邮件服务与邀请投递器
	emailSvc := email.Init()
	dispatcher := mq.Init(emailSvc)
	zap.L().Info("邀请邮件投递器初始化成功", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 7. 初始化 Service 层 (依赖注入)
	service.InitServices(repos, cache, dispatcher)
	zap.L().Info("Service 层初始化成功")

	// 8. 初始化 HTTP 服务器
	handlers := handler.NewHandlers(service.Svc)
	engine := https_server.Init(handlers, repos.User)
	zap.L().Info("HTTP 服务器初始化成功")

	// 9. 启动服务
	host := conf.MainConfig.Host
	port := conf.MainConfig.Port

	go func() {
		if err := engine.Run(fmt.Sprintf("%s:%d", host, port)); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 等待信号
	<-quit

	zap.L().Info("关闭服务器...")

	// 关闭邀请投递器，等待在途邮件处理完毕
	dispatcher.Close()

	zap.L().Info("服务器已关闭")
}
