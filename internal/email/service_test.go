package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greensteps/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

var testSettings = Settings{
	From:     "noreply@greensteps.app",
	FromName: "GreenSteps",
	SMTPHost: "smtp.test.com",
	SMTPPort: "587",
	SMTPUser: "test@example.com",
	SMTPPass: "password",
}

type sentMail struct {
	addr string
	to   []string
	msg  string
}

func newMiniService(t *testing.T, send SendFunc) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := New(rdb, testSettings)
	svc.retryDelay = 0
	svc.pollWait = 100 * time.Millisecond
	if send != nil {
		svc.send = send
	}
	return svc, mr
}

func queuedJobs(t *testing.T, mr *miniredis.Miniredis, key string) []Job {
	t.Helper()
	if !mr.Exists(key) {
		return nil
	}
	items, err := mr.List(key)
	require.NoError(t, err)

	jobs := make([]Job, 0, len(items))
	for _, item := range items {
		var job Job
		require.NoError(t, json.Unmarshal([]byte(item), &job))
		jobs = append(jobs, job)
	}
	return jobs
}

func TestWelcome(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetVal(1)

	svc := New(db, testSettings)

	err := svc.Welcome(ctx, "user@example.com", "User")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWelcomeQueueError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.Regexp().ExpectLPush("emails", `.*`).SetErr(errors.New("connection refused"))

	svc := New(db, testSettings)

	err := svc.Welcome(ctx, "user@example.com", "User")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSendBadgeEarned(t *testing.T) {
	svc, mr := newMiniService(t, nil)

	err := svc.SendBadgeEarned(context.Background(), "ana@example.com", "Ana", "GREEN_HERO", 52)
	require.NoError(t, err)

	jobs := queuedJobs(t, mr, queueKey)
	require.Len(t, jobs, 1)
	assert.Equal(t, TypeBadgeEarned, jobs[0].Type)
	assert.Equal(t, "ana@example.com", jobs[0].To)
	assert.Equal(t, "New badge: Green Hero", jobs[0].Subject)
	assert.Contains(t, jobs[0].Body, "52 points")
	assert.Zero(t, jobs[0].Tries)
}

func TestProcessNextDelivers(t *testing.T) {
	var sent []sentMail
	svc, mr := newMiniService(t, func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, to: to, msg: string(msg)})
		return nil
	})
	ctx := context.Background()

	require.NoError(t, svc.Welcome(ctx, "ana@example.com", "Ana"))
	svc.processNext(ctx)

	require.Len(t, sent, 1)
	assert.Equal(t, "smtp.test.com:587", sent[0].addr)
	assert.Equal(t, []string{"ana@example.com"}, sent[0].to)
	assert.Contains(t, sent[0].msg, "Subject: Welcome to GreenSteps\r\n")
	assert.Contains(t, sent[0].msg, "From: GreenSteps <noreply@greensteps.app>\r\n")
	assert.Empty(t, queuedJobs(t, mr, queueKey))
}

func TestProcessNextRequeuesOnFailure(t *testing.T) {
	svc, mr := newMiniService(t, func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("smtp unavailable")
	})
	ctx := context.Background()

	require.NoError(t, svc.Welcome(ctx, "ana@example.com", "Ana"))
	svc.processNext(ctx)

	jobs := queuedJobs(t, mr, queueKey)
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, jobs[0].Tries)
	assert.Empty(t, queuedJobs(t, mr, failedQueueKey))
}

func TestProcessNextParksAfterMaxTries(t *testing.T) {
	svc, mr := newMiniService(t, func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("mailbox unavailable")
	})
	ctx := context.Background()

	data, err := json.Marshal(Job{Type: TypeWelcome, To: "ana@example.com", Tries: maxTries - 1})
	require.NoError(t, err)
	_, err = mr.Lpush(queueKey, string(data))
	require.NoError(t, err)

	svc.processNext(ctx)

	assert.Empty(t, queuedJobs(t, mr, queueKey))
	failed, err := mr.List(failedQueueKey)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0], "mailbox unavailable")
}

func TestProcessNextDropsMalformedJob(t *testing.T) {
	called := false
	svc, mr := newMiniService(t, func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	})

	_, err := mr.Lpush(queueKey, "{not json")
	require.NoError(t, err)

	svc.processNext(context.Background())

	assert.False(t, called)
	assert.Empty(t, queuedJobs(t, mr, queueKey))
}

func TestQueueLength(t *testing.T) {
	db, mock := redismock.NewClientMock()
	ctx := context.Background()

	mock.ExpectLLen("emails").SetVal(3)

	svc := New(db, testSettings)
	assert.Equal(t, int64(3), svc.QueueLength(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartStopsOnCancel(t *testing.T) {
	svc, _ := newMiniService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.Start(ctx)
		close(done)
	}()
	cancel()

	<-done
}

func TestProcessNextBacksOffWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })

	svc := New(rdb, testSettings)
	svc.pollWait = 150 * time.Millisecond
	mr.Close()

	start := time.Now()
	svc.processNext(context.Background())
	assert.GreaterOrEqual(t, time.Since(start), svc.pollWait)
	assert.False(t, svc.lastPollWarn.IsZero())

	warned := svc.lastPollWarn
	svc.processNext(context.Background())
	assert.Equal(t, warned, svc.lastPollWarn, "warning is throttled")
}

func TestBackOffReturnsOnCancel(t *testing.T) {
	svc, _ := newMiniService(t, nil)
	svc.pollWait = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	svc.backOff(ctx, errors.New("connection refused"))
	assert.Less(t, time.Since(start), time.Second)
}
