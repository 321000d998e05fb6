package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/pkg/logger"
)

// SessionRevoker 结束某用户的全部会话
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID uint) error
}

// UserInvalidator 清理用户缓存
type UserInvalidator interface {
	Invalidate(ctx context.Context, userID uint)
}

type cleanupJob struct {
	userID uint
	enqAt  time.Time
}

// AccountJanitor 注销提交后异步清理会话与缓存
type AccountJanitor struct {
	sessions SessionRevoker
	users    UserInvalidator
	ch       chan cleanupJob
	wg       sync.WaitGroup
}

func NewAccountJanitor(sessions SessionRevoker, users UserInvalidator, queueSize int) *AccountJanitor {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &AccountJanitor{sessions: sessions, users: users, ch: make(chan cleanupJob, queueSize)}
}

// Start 启动 workers 个消费者，返回的函数停止接收并等待队列排空或 ctx 结束
func (j *AccountJanitor) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		j.wg.Add(1)
		go func() {
			defer j.wg.Done()
			for {
				select {
				case job := <-j.ch:
					j.run(job)
				case <-stopCh:
					// 退出前处理剩余任务
					for {
						select {
						case job := <-j.ch:
							j.run(job)
						default:
							return
						}
					}
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		done := make(chan struct{})
		go func() {
			j.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (j *AccountJanitor) run(job cleanupJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	j.Cleanup(ctx, job.userID)
	logger.Debug("account cleanup done", zap.Uint("user", job.userID), zap.Duration("lag", time.Since(job.enqAt)))
}

// Cleanup 同步执行一次清理
func (j *AccountJanitor) Cleanup(ctx context.Context, userID uint) {
	if j.users != nil {
		j.users.Invalidate(ctx, userID)
	}
	if j.sessions != nil {
		if err := j.sessions.RevokeUser(ctx, userID); err != nil {
			logger.Warn("revoke sessions failed", zap.Uint("user", userID), zap.Error(err))
		}
	}
}

// Enqueue 投递清理任务；队列满时退化为同步执行
func (j *AccountJanitor) Enqueue(userID uint) {
	select {
	case j.ch <- cleanupJob{userID: userID, enqAt: time.Now()}:
	default:
		logger.Warn("janitor queue full, cleaning inline", zap.Uint("user", userID))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		j.Cleanup(ctx, userID)
	}
}

// QueueLen 返回当前队列长度（采样值）
func (j *AccountJanitor) QueueLen() int { return len(j.ch) }
