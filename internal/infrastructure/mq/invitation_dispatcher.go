// Package mq 提供邀请邮件的异步投递
// 支持两种消息模式：进程内 channel（单机）与 Kafka（多实例部署）
// 投递是 fire-and-forget 的：失败只记日志，绝不阻塞或影响请求
package mq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	myconfig "dingcan_server/internal/config"
	"dingcan_server/internal/infrastructure/email"
	"dingcan_server/pkg/constants"
)

// InvitationDispatcher 邀请邮件投递接口
type InvitationDispatcher interface {
	// Dispatch 异步投递一封邀请邮件，立即返回
	Dispatch(mail email.InvitationMail)
	// Close 关闭投递器，释放资源
	Close()
}

// Init 根据配置的消息模式创建投递器
// messageMode = "kafka" 时走 Kafka，其余情况走进程内 channel
func Init(emailSvc email.EmailService) InvitationDispatcher {
	kafkaConfig := myconfig.GetConfig().KafkaConfig
	if kafkaConfig.MessageMode == "kafka" {
		d := newKafkaDispatcher(kafkaConfig, emailSvc)
		zap.L().Info("Invitation dispatcher started in kafka mode",
			zap.String("topic", kafkaConfig.InvitationTopic))
		return d
	}
	d := newChannelDispatcher(emailSvc)
	zap.L().Info("Invitation dispatcher started in channel mode")
	return d
}

// ==================== channel 模式 ====================

// channelDispatcher 进程内投递器
// 单 worker 消费缓冲通道，通道满时丢弃并记日志
type channelDispatcher struct {
	mailChan chan email.InvitationMail
	emailSvc email.EmailService
	done     chan struct{}
}

func newChannelDispatcher(emailSvc email.EmailService) *channelDispatcher {
	d := &channelDispatcher{
		mailChan: make(chan email.InvitationMail, constants.CHANNEL_SIZE),
		emailSvc: emailSvc,
		done:     make(chan struct{}),
	}
	go d.startWorker()
	return d
}

// startWorker 消费循环，panic 后自动重启
func (d *channelDispatcher) startWorker() {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Invitation worker panic", zap.Any("recover", rec))
			go d.startWorker() // 重启
		}
	}()

	for {
		select {
		case mail := <-d.mailChan:
			if err := d.emailSvc.SendInvitation(mail); err != nil {
				zap.L().Error("邀请邮件投递失败", zap.Error(err), zap.String("to", mail.To))
			}
		case <-d.done:
			return
		}
	}
}

func (d *channelDispatcher) Dispatch(mail email.InvitationMail) {
	select {
	case d.mailChan <- mail:
		// 成功放入
	default:
		// 通道满：丢弃并记日志，投递本身是尽力而为
		zap.L().Warn("Invitation mail channel full, dropping", zap.String("to", mail.To))
	}
}

func (d *channelDispatcher) Close() {
	close(d.done)
}

// ==================== kafka 模式 ====================

// kafkaDispatcher Kafka 投递器
// Dispatch 写入主题，后台 Reader 消费并调用邮件服务
type kafkaDispatcher struct {
	writer   *kafka.Writer
	reader   *kafka.Reader
	emailSvc email.EmailService
	done     chan struct{}
}

func newKafkaDispatcher(cfg myconfig.KafkaConfig, emailSvc email.EmailService) *kafkaDispatcher {
	d := &kafkaDispatcher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.HostPort),
			Topic:                  cfg.InvitationTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           cfg.Timeout * time.Second,
			RequiredAcks:           kafka.RequireNone,
			AllowAutoTopicCreation: true,
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{cfg.HostPort},
			Topic:          cfg.InvitationTopic,
			CommitInterval: cfg.Timeout * time.Second,
			GroupID:        "invitation_mail",
			StartOffset:    kafka.LastOffset,
		}),
		emailSvc: emailSvc,
		done:     make(chan struct{}),
	}
	go d.startConsumer()
	return d
}

// startConsumer 消费循环，panic 后自动重启
func (d *kafkaDispatcher) startConsumer() {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("Invitation consumer panic", zap.Any("recover", rec))
			go d.startConsumer() // 重启
		}
	}()

	for {
		select {
		case <-d.done:
			return
		default:
		}
		msg, err := d.reader.ReadMessage(context.Background())
		if err != nil {
			zap.L().Error("读取邀请消息失败", zap.Error(err))
			continue
		}
		var mail email.InvitationMail
		if err := json.Unmarshal(msg.Value, &mail); err != nil {
			zap.L().Error("解析邀请消息失败", zap.Error(err))
			continue
		}
		if err := d.emailSvc.SendInvitation(mail); err != nil {
			zap.L().Error("邀请邮件投递失败", zap.Error(err), zap.String("to", mail.To))
		}
	}
}

func (d *kafkaDispatcher) Dispatch(mail email.InvitationMail) {
	value, err := json.Marshal(mail)
	if err != nil {
		zap.L().Error("序列化邀请消息失败", zap.Error(err))
		return
	}
	// RequireNone + 后台 goroutine：写入不阻塞请求路径
	go func() {
		if err := d.writer.WriteMessages(context.Background(), kafka.Message{
			Key:   []byte(mail.To),
			Value: value,
		}); err != nil {
			zap.L().Error("写入邀请消息失败", zap.Error(err), zap.String("to", mail.To))
		}
	}()
}

func (d *kafkaDispatcher) Close() {
	close(d.done)
	if err := d.writer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := d.reader.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}
