package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/warden/internal/model"
)

var transitionColumns = []string{"npc_id", "tick", "sim_time", "from_state", "to_state"}

// TransitionRepository persists NPC state transitions.
type TransitionRepository struct {
	pool *pgxpool.Pool
}

// NewTransitionRepository creates a new transition repository
func NewTransitionRepository(pool *pgxpool.Pool) *TransitionRepository {
	return &TransitionRepository{pool: pool}
}

// InsertBatch writes transitions with COPY.
func (r *TransitionRepository) InsertBatch(ctx context.Context, transitions []model.Transition) error {
	if len(transitions) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(transitions))
	for _, t := range transitions {
		rows = append(rows, []any{t.NpcID, int64(t.Tick), t.SimTime, t.From.String(), t.To.String()})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"npc_transitions"},
		transitionColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copying %d transitions: %w", len(transitions), err)
	}
	if int(n) != len(transitions) {
		return fmt.Errorf("copied %d of %d transitions", n, len(transitions))
	}
	return nil
}

// ListByNpc returns up to limit transitions of one NPC ordered by tick.
func (r *TransitionRepository) ListByNpc(ctx context.Context, npcID uuid.UUID, limit int) ([]model.Transition, error) {
	query := `
		SELECT npc_id, tick, sim_time, from_state, to_state
		FROM npc_transitions
		WHERE npc_id = $1
		ORDER BY tick, id
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, npcID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying transitions of npc %s: %w", npcID, err)
	}
	defer rows.Close()

	var out []model.Transition
	for rows.Next() {
		var (
			t        model.Transition
			tick     int64
			from, to string
		)
		if err := rows.Scan(&t.NpcID, &tick, &t.SimTime, &from, &to); err != nil {
			return nil, fmt.Errorf("scanning transition row: %w", err)
		}
		t.Tick = uint64(tick)
		if t.From, err = model.ParseBehaviorState(from); err != nil {
			return nil, fmt.Errorf("transition of npc %s: %w", npcID, err)
		}
		if t.To, err = model.ParseBehaviorState(to); err != nil {
			return nil, fmt.Errorf("transition of npc %s: %w", npcID, err)
		}
		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transition rows: %w", err)
	}

	return out, nil
}

// CountByTargetState returns how many transitions entered each state.
func (r *TransitionRepository) CountByTargetState(ctx context.Context) (map[model.BehaviorState]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT to_state, count(*) FROM npc_transitions GROUP BY to_state`)
	if err != nil {
		return nil, fmt.Errorf("counting transitions: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.BehaviorState]int64)
	for rows.Next() {
		var (
			name  string
			count int64
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		state, err := model.ParseBehaviorState(name)
		if err != nil {
			return nil, err
		}
		counts[state] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating count rows: %w", err)
	}

	return counts, nil
}
