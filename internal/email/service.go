package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"greensteps/internal/logger"
	"greensteps/internal/metrics"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3

	// pollWarnEvery throttles the warning logged while Redis is unreachable.
	pollWarnEvery = time.Minute

	TypeWelcome     = "welcome"
	TypeBadgeEarned = "badge_earned"
)

type Job struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Settings struct {
	From     string
	FromName string
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
}

// SendFunc delivers a fully rendered message.
type SendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

type Service struct {
	redis      *redis.Client
	settings   Settings
	send       SendFunc
	retryDelay time.Duration
	pollWait   time.Duration

	lastPollWarn time.Time
}

func New(rdb *redis.Client, settings Settings) *Service {
	return &Service{
		redis:      rdb,
		settings:   settings,
		send:       smtp.SendMail,
		retryDelay: 5 * time.Second,
		pollWait:   2 * time.Second,
	}
}

func (s *Service) enqueue(ctx context.Context, job Job) error {
	job.Created = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Error("failed to queue email", "to", job.To, "type", job.Type, "error", err)
		return fmt.Errorf("queue email: %w", err)
	}

	logger.Info("email queued", "to", job.To, "type", job.Type)
	return nil
}

// Start drains the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, s.pollWait, queueKey).Result()
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return
	}
	if err != nil {
		s.backOff(ctx, err)
		return
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping malformed email job", "error", err)
		return
	}

	job.Tries++
	if err := s.deliver(job); err != nil {
		logger.Warn("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			s.retry(ctx, job)
			return
		}
		metrics.RecordEmail(job.Type, "failed")
		s.saveFailed(ctx, job, err)
		return
	}

	metrics.RecordEmail(job.Type, "success")
	logger.Info("email sent", "to", job.To, "type", job.Type)
}

// backOff pauses the worker for pollWait after a failed poll.
func (s *Service) backOff(ctx context.Context, err error) {
	if now := time.Now(); now.Sub(s.lastPollWarn) >= pollWarnEvery {
		s.lastPollWarn = now
		logger.Warnf("email queue poll failed, retrying in %s: %v", s.pollWait, err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(s.pollWait):
	}
}

func (s *Service) retry(ctx context.Context, job Job) {
	select {
	case <-ctx.Done():
	case <-time.After(s.retryDelay):
	}

	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	// the worker may be shutting down; the job must survive it
	if err := s.redis.LPush(context.WithoutCancel(ctx), queueKey, data).Err(); err != nil {
		logger.Error("failed to requeue email", "to", job.To, "error", err)
	}
}

func (s *Service) deliver(job Job) error {
	cfg := s.settings

	message := fmt.Sprintf("From: %s <%s>\r\n", cfg.FromName, cfg.From)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if cfg.SMTPUser != "" && cfg.SMTPPass != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	return s.send(cfg.SMTPHost+":"+cfg.SMTPPort, auth, cfg.From, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if err := s.redis.LPush(context.WithoutCancel(ctx), failedQueueKey, data).Err(); err != nil {
		logger.Error("failed to park email", "to", job.To, "error", err)
		return
	}
	logger.Error("email moved to failed queue", "to", job.To, "tries", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) Welcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(`Hi %s,

Welcome to GreenSteps! Log your first waste entry to start earning points
and unlock personalised reduction tips.

- GreenSteps Team`, name)

	return s.enqueue(ctx, Job{
		Type:    TypeWelcome,
		To:      to,
		Name:    name,
		Subject: "Welcome to GreenSteps",
		Body:    body,
	})
}

func (s *Service) SendBadgeEarned(ctx context.Context, to, name, badge string, points int) error {
	body := fmt.Sprintf(`Hi %s,

Congratulations! You reached %d points and earned the %s badge.

Keep logging your waste to climb to the next tier.

- GreenSteps Team`, name, points, BadgeTitle(badge))

	return s.enqueue(ctx, Job{
		Type:    TypeBadgeEarned,
		To:      to,
		Name:    name,
		Subject: "New badge: " + BadgeTitle(badge),
		Body:    body,
	})
}
