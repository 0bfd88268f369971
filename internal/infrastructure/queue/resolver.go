package queue

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/clinica-nutricion/turnos-client/internal/core/domain"
	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

const defaultWorkers = 4

// Resolver looks up users through a bounded set of concurrent workers.
// Each id is fetched once per call, whatever its multiplicity in the input.
type Resolver struct {
	users   ports.UserAPI
	workers int
	log     zerolog.Logger
}

// NewResolver creates a Resolver with at most workers lookups in flight.
// If workers <= 0, defaultWorkers is used.
func NewResolver(users ports.UserAPI, workers int, log zerolog.Logger) *Resolver {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Resolver{users: users, workers: workers, log: log}
}

// Resolve returns one entry per distinct non-zero id. Failed lookups map to
// domain.UnknownUser so callers can always render a name.
func (r *Resolver) Resolve(ctx context.Context, token string, ids []int64) map[int64]domain.User {
	uniq := distinct(ids)
	out := make(map[int64]domain.User, len(uniq))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(r.workers)
	for _, id := range uniq {
		id := id
		g.Go(func() error {
			u, err := r.users.Get(ctx, token, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.log.Warn().Err(err).Int64("user_id", id).Msg("user lookup failed")
				out[id] = domain.UnknownUser(id)
				return nil
			}
			out[id] = *u
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var _ ports.UserDirectory = (*Resolver)(nil)
