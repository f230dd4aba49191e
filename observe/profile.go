package observe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ggoodman/mcp-registry-go/internal/logctx"
	"github.com/ggoodman/mcp-registry-go/storage"
	"github.com/google/uuid"
)

// ErrProfileNotFound is returned by ProfileStore.Load when no live profile
// exists for the token.
var ErrProfileNotFound = errors.New("profile not found")

// DefaultProfileTTL bounds how long collected profiles are kept.
const DefaultProfileTTL = 24 * time.Hour

// Profile is a persisted report, addressed by token.
type Profile struct {
	Token       string    `json:"token"`
	Server      string    `json:"server"`
	CollectedAt time.Time `json:"collectedAt"`
	TotalCount  int       `json:"totalCount"`
	Report      Snapshot  `json:"report"`
}

// ProfileStore persists computed reports so they can be inspected after the
// request that produced them has finished.
type ProfileStore struct {
	store storage.Storage
	ttl   time.Duration
	log   *slog.Logger
	now   func() time.Time
}

// ProfileOption configures a ProfileStore.
type ProfileOption func(*ProfileStore)

// WithProfileTTL sets how long saved profiles live. Non-positive values keep
// profiles until explicitly purged.
func WithProfileTTL(ttl time.Duration) ProfileOption {
	return func(ps *ProfileStore) { ps.ttl = ttl }
}

// WithProfileLogger sets the logger used for save/load diagnostics.
func WithProfileLogger(l *slog.Logger) ProfileOption {
	return func(ps *ProfileStore) {
		if l != nil {
			ps.log = l
		}
	}
}

// NewProfileStore returns a ProfileStore backed by s.
func NewProfileStore(s storage.Storage, opts ...ProfileOption) *ProfileStore {
	ps := &ProfileStore{
		store: s,
		ttl:   DefaultProfileTTL,
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(ps)
	}
	return ps
}

// Save computes r (if it has not been already) and stores it under a freshly
// minted token in the server's namespace.
func (ps *ProfileStore) Save(ctx context.Context, server string, r *Report) (Profile, error) {
	snap := r.Snapshot()
	p := Profile{
		Token:       uuid.NewString(),
		Server:      server,
		CollectedAt: ps.now().UTC(),
		TotalCount:  snap.TotalCount(),
		Report:      snap,
	}
	data, err := json.Marshal(p)
	if err != nil {
		return Profile{}, fmt.Errorf("encode profile: %w", err)
	}

	opts := []storage.Option{storage.WithServer(server)}
	if ps.ttl > 0 {
		opts = append(opts, storage.WithTTL(ps.ttl))
	}
	if err := ps.store.Set(ctx, p.Token, data, opts...); err != nil {
		return Profile{}, fmt.Errorf("store profile: %w", err)
	}

	ctx = logctx.WithProfileData(ctx, &logctx.ProfileData{Token: p.Token, Server: server})
	ps.log.DebugContext(ctx, "observe: profile saved", slog.Int("total_count", p.TotalCount))
	return p, nil
}

// Load fetches a previously saved profile.
func (ps *ProfileStore) Load(ctx context.Context, server, token string) (Profile, error) {
	item, err := ps.store.Get(ctx, token, storage.WithServer(server))
	if err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if item == nil {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, token)
	}
	var p Profile
	if err := json.Unmarshal(item.Data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile %s: %w", token, err)
	}
	return p, nil
}

// Purge deletes every profile saved for server.
func (ps *ProfileStore) Purge(ctx context.Context, server string) error {
	if err := ps.store.Delete(ctx, storage.WithServer(server)); err != nil {
		return fmt.Errorf("purge profiles: %w", err)
	}
	return nil
}
