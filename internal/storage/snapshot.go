package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneymanager/internal/core"
	"moneymanager/internal/ledger"
)

// SnapshotRepository persists the whole ledger as one JSON blob.
type SnapshotRepository struct {
	kv  KVStore
	key string
	now func() time.Time
}

// NewSnapshotRepository returns a repository over kv. A nil kv is allowed and
// behaves like an environment without storage: loads return the seed ledger
// and saves are dropped.
func NewSnapshotRepository(kv KVStore, key string) *SnapshotRepository {
	if key == "" {
		key = DefaultKey
	}
	return &SnapshotRepository{kv: kv, key: key, now: time.Now}
}

// WithClock overrides the time used to stamp seed records.
func (r *SnapshotRepository) WithClock(now func() time.Time) *SnapshotRepository {
	r.now = now
	return r
}

func (r *SnapshotRepository) Key() string { return r.key }

// Load returns the stored snapshot. Missing or unreadable data, or a blob
// that is not a snapshot at all, is replaced by the seed ledger, which is
// written back so later loads agree. Individual bad records only cost
// themselves. Load never fails.
func (r *SnapshotRepository) Load(ctx context.Context) core.Snapshot {
	if r.kv == nil {
		return ledger.NewSnapshot(core.SeedTransactions(r.now()))
	}

	raw, ok, err := r.kv.Get(ctx, r.key)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "Snapshot read failed, reseeding", "key", r.key, "error", err)
	case !ok:
		slog.InfoContext(ctx, "No snapshot stored, seeding sample ledger", "key", r.key)
	default:
		snap, problems, err := Decode(raw)
		if err == nil {
			if len(problems) > 0 {
				slog.WarnContext(ctx, "Stored snapshot had unusable records",
					"key", r.key, "problems", len(problems), "error", errors.Join(problems...))
			}
			return snap
		}
		slog.WarnContext(ctx, "Stored snapshot is corrupt, reseeding", "key", r.key, "error", err)
	}

	seed := ledger.NewSnapshot(core.SeedTransactions(r.now()))
	r.Save(ctx, seed)
	return seed
}

// Save overwrites the stored snapshot, recomputing its balance first.
// Failures are logged and otherwise ignored; persistence is best effort.
func (r *SnapshotRepository) Save(ctx context.Context, snap core.Snapshot) {
	if err := r.Put(ctx, snap); err != nil {
		slog.WarnContext(ctx, "Snapshot write failed", "key", r.key, "error", err)
	}
}

// Put is Save with the error reported, for callers that can act on it.
func (r *SnapshotRepository) Put(ctx context.Context, snap core.Snapshot) error {
	if r.kv == nil {
		return nil
	}
	raw, err := Encode(ledger.NewSnapshot(snap.Transactions))
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, r.key, raw); err != nil {
		return fmt.Errorf("put %s: %w", r.key, err)
	}
	return nil
}

// Encode serialises a snapshot in the persisted shape.
func Encode(snap core.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

// persisted is the outer shape of the blob. Records are decoded one at a
// time so that one bad record does not take the rest of the ledger with it.
type persisted struct {
	Transactions []json.RawMessage `json:"transactions"`
}

// Decode parses a persisted snapshot. It fails only when raw is not a JSON
// object with a transactions list. Records that do not decode or cannot be
// aggregated are dropped and repeated ids are renamed; each such change is
// returned in problems. The stored balance is ignored and recomputed.
func Decode(raw []byte) (core.Snapshot, []error, error) {
	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return core.Snapshot{}, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if p.Transactions == nil {
		return core.Snapshot{}, nil, errors.New("decode snapshot: missing transactions")
	}

	var problems []error
	list := make([]core.Transaction, 0, len(p.Transactions))
	for i, rec := range p.Transactions {
		var t core.Transaction
		if err := json.Unmarshal(rec, &t); err != nil {
			problems = append(problems, fmt.Errorf("record %d dropped: %w", i, err))
			continue
		}
		list = append(list, t)
	}
	list, restored := core.RestoreTransactions(list)
	problems = append(problems, restored...)
	return ledger.NewSnapshot(list), problems, nil
}

// Peek reads the stored snapshot without seeding or writing anything.
// ok is false when nothing is stored.
func (r *SnapshotRepository) Peek(ctx context.Context) (snap core.Snapshot, ok bool, err error) {
	if r.kv == nil {
		return core.Snapshot{}, false, nil
	}
	raw, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("get %s: %w", r.key, err)
	}
	if !ok {
		return core.Snapshot{}, false, nil
	}
	snap, _, err = Decode(raw)
	if err != nil {
		return core.Snapshot{}, false, err
	}
	return snap, true, nil
}
