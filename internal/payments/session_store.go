package payments

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type SessionStatus string

const (
	SessionPending SessionStatus = "pending"
	SessionSuccess SessionStatus = "success"
	SessionFailed  SessionStatus = "failed"
)

// Session is the ephemeral per-attempt payment state, keyed by job request.
// Re-initiating a payment overwrites the previous attempt; abandoned
// attempts expire with the key.
type Session struct {
	JobRequestID uuid.UUID     `json:"job_request_id"`
	LowProfileID string        `json:"low_profile_id"`
	Amount       int64         `json:"amount"`
	Status       SessionStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

var ErrSessionNotFound = errors.New("payment session not found")

const sessionTTL = 24 * time.Hour

// SessionStore keeps payment sessions in Redis for the gateway's payment
// window, indexed both by job request id and by the gateway's LowProfileId
// so the webhook can correlate.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func requestKey(jobRequestID uuid.UUID) string {
	return "paysession:request:" + jobRequestID.String()
}

func profileKey(lowProfileID string) string {
	return "paysession:profile:" + lowProfileID
}

func (s *SessionStore) Put(ctx context.Context, sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, requestKey(sess.JobRequestID), b, sessionTTL)
	pipe.Set(ctx, profileKey(sess.LowProfileID), b, sessionTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *SessionStore) GetByJobRequest(ctx context.Context, jobRequestID uuid.UUID) (*Session, error) {
	return s.get(ctx, requestKey(jobRequestID))
}

func (s *SessionStore) GetByLowProfileID(ctx context.Context, lowProfileID string) (*Session, error) {
	return s.get(ctx, profileKey(lowProfileID))
}

// Resolve marks the session's outcome, keeping the keys around (with the
// original TTL window) so duplicate webhook deliveries still correlate.
func (s *SessionStore) Resolve(ctx context.Context, sess *Session, status SessionStatus) error {
	sess.Status = status
	return s.Put(ctx, sess)
}

func (s *SessionStore) get(ctx context.Context, key string) (*Session, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}
