package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"

	"github.com/andrescamacho/searoutes-go/internal/domain/shared"
)

// Outcome is what the gate decided for a request
type Outcome int

const (
	// Fresh means the caller owns the key and must Complete or Release it
	Fresh Outcome = iota
	// Replay means a settled response exists for the key
	Replay
	// InProgress means another request with the key is still running
	InProgress
)

func (o Outcome) String() string {
	switch o {
	case Replay:
		return "replayed"
	case InProgress:
		return "in_progress"
	default:
		return "fresh"
	}
}

// Response is a captured HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) clone() *Response {
	body := make([]byte, len(r.Body))
	copy(body, r.Body)
	return &Response{StatusCode: r.StatusCode, Header: r.Header.Clone(), Body: body}
}

type entry struct {
	inFlight  bool
	expiresAt time.Time
	response  *Response
}

// Store remembers in-flight and settled requests for a TTL. Every write
// moves the key to the front of the LRU and refreshes its expiry, so the
// LRU's oldest entry is always the one expiring first and is what goes
// when capacity is reached.
//
// The store is process local; a restart forgets every key.
type Store struct {
	mu    sync.Mutex
	lru   *simplelru.LRU
	ttl   time.Duration
	clock shared.Clock
}

// NewStore creates a store holding at most maxEntries keys for ttl each
func NewStore(ttl time.Duration, maxEntries int, clock shared.Clock) (*Store, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("idempotency ttl must be positive")
	}
	cache, err := simplelru.NewLRU(maxEntries, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create idempotency cache: %w", err)
	}
	return &Store{lru: cache, ttl: ttl, clock: shared.ClockOrDefault(clock)}, nil
}

// Key builds the cache key from the route, the client key and a hash of
// the body, so the same client key with a different payload is a new request
func Key(method, path, clientKey string, body []byte) string {
	sum := sha256.Sum256(body)
	return method + ":" + path + ":" + clientKey + ":" + hex.EncodeToString(sum[:])
}

// Begin claims key. On Replay the settled response is returned.
func (s *Store) Begin(key string) (Outcome, *Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.purgeExpired(now)

	if value, ok := s.lru.Peek(key); ok {
		e := value.(*entry)
		if e.inFlight {
			return InProgress, nil
		}
		return Replay, e.response.clone()
	}

	s.lru.Add(key, &entry{inFlight: true, expiresAt: now.Add(s.ttl)})
	return Fresh, nil
}

// Complete settles key with the response to replay
func (s *Store) Complete(key string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lru.Add(key, &entry{
		expiresAt: s.clock.Now().Add(s.ttl),
		response:  resp.clone(),
	})
}

// Release forgets key so the client may retry it
func (s *Store) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Remove(key)
}

// Len returns how many keys are held, expired ones included until the next Begin
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

func (s *Store) purgeExpired(now time.Time) {
	for {
		_, value, ok := s.lru.GetOldest()
		if !ok {
			return
		}
		if value.(*entry).expiresAt.After(now) {
			return
		}
		s.lru.RemoveOldest()
	}
}
