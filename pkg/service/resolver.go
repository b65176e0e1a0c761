package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
	"github.com/trackapp/laptelemetry-service-go/pkg/repository/track"
	"github.com/trackapp/laptelemetry-service-go/pkg/utils/cache"
	"github.com/trackapp/laptelemetry-service-go/pkg/utils/cache/loadercache"
)

// TrackResolver resolves track names from import files to registry entries.
// Lookups are cached since one import file usually references a single track
// many times.
type TrackResolver struct {
	cache cache.Cache[string, model.Track]
}

func NewTrackResolver(pool *pgxpool.Pool) *TrackResolver {
	return &TrackResolver{
		cache: loadercache.New[string, model.Track](
			loadercache.WithExpiration[string, model.Track](5*time.Minute),
			loadercache.WithLoader[string, model.Track](
				func(name string) (*model.Track, error) {
					return track.LoadByName(context.Background(), pool, name)
				}),
		),
	}
}

// ByName returns the registry entry for a track name, matched case
// insensitive.
func (r *TrackResolver) ByName(ctx context.Context, name string) (
	*model.Track, error,
) {
	return r.cache.Get(ctx, strings.ToLower(strings.TrimSpace(name)))
}

// Invalidate removes a cached entry, used after registry changes.
func (r *TrackResolver) Invalidate(ctx context.Context, name string) {
	r.cache.Invalidate(ctx, strings.ToLower(strings.TrimSpace(name)))
}
