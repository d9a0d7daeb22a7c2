// Package redisstore backs the record store with Redis. Each record is one
// JSON value; lifecycle operations commit through WATCH/MULTI so that a
// record mutated concurrently fails the whole commit instead of being
// silently overwritten.
package redisstore

import (
	"context"
	"encoding/json"
	"sort"

	goredis "github.com/go-redis/redis/v8"

	coreredis "github.com/energeticlee/heist-clone/db/redis"
	apperrors "github.com/energeticlee/heist-clone/errors"
	"github.com/energeticlee/heist-clone/heist"
	"github.com/energeticlee/heist-clone/store"
)

const (
	globalKey   = "heist:global"
	playerKeyF  = "heist:player:"
	stakeKeyF   = "heist:stake:"
	stakeKeySep = ":"
)

// Store implements store.Store on Redis.
type Store struct {
	rdb *goredis.Client
}

// New creates a Redis-backed record store.
func New(client *coreredis.Client) *Store {
	return &Store{rdb: client.GetClient()}
}

func playerKey(id string) string {
	return playerKeyF + id
}

func stakeKey(player, mint string) string {
	return stakeKeyF + player + stakeKeySep + mint
}

func getRecord[T any](ctx context.Context, tx *goredis.Tx, key string) (*T, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStorageError, "failed to read record")
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStorageError, "corrupt record")
	}
	return out, nil
}

func setRecord(ctx context.Context, pipe goredis.Pipeliner, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrStorageError, "failed to encode record")
	}
	pipe.Set(ctx, key, data, 0)
	return nil
}

// Apply implements store.Store. The watched key set covers every record the
// closure can touch; TxFailedErr surfaces as ErrStoreConflict so the caller
// can resubmit.
func (s *Store) Apply(ctx context.Context, player, mint string, fn func(v *store.View) error) error {
	keys := []string{globalKey}
	if player != "" {
		keys = append(keys, playerKey(player))
	}
	if player != "" && mint != "" {
		keys = append(keys, stakeKey(player, mint))
	}

	err := s.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		v := &store.View{}

		var err error
		if v.Global, err = getRecord[heist.GlobalState](ctx, tx, globalKey); err != nil {
			return err
		}
		if player != "" {
			if v.Player, err = getRecord[heist.PlayerInfo](ctx, tx, playerKey(player)); err != nil {
				return err
			}
		}
		if player != "" && mint != "" {
			if v.Stake, err = getRecord[heist.StakeInfo](ctx, tx, stakeKey(player, mint)); err != nil {
				return err
			}
		}

		if err := fn(v); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			if v.Global != nil {
				if err := setRecord(ctx, pipe, globalKey, v.Global); err != nil {
					return err
				}
			}
			if player != "" && v.Player != nil {
				if err := setRecord(ctx, pipe, playerKey(player), v.Player); err != nil {
					return err
				}
			}
			if player != "" && mint != "" {
				key := stakeKey(player, mint)
				if v.Stake != nil {
					if err := setRecord(ctx, pipe, key, v.Stake); err != nil {
						return err
					}
				} else {
					pipe.Del(ctx, key)
				}
			}
			return nil
		})
		return err
	}, keys...)

	if err == goredis.TxFailedErr {
		return apperrors.New(apperrors.ErrStoreConflict, "record changed concurrently, resubmit")
	}
	return err
}

func (s *Store) get(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrStorageError, "failed to read record")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrStorageError, "corrupt record")
	}
	return true, nil
}

// Global implements store.Store.
func (s *Store) Global(ctx context.Context) (*heist.GlobalState, error) {
	var g heist.GlobalState
	ok, err := s.get(ctx, globalKey, &g)
	if err != nil || !ok {
		return nil, err
	}
	return &g, nil
}

// Player implements store.Store.
func (s *Store) Player(ctx context.Context, id string) (*heist.PlayerInfo, error) {
	var p heist.PlayerInfo
	ok, err := s.get(ctx, playerKey(id), &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// Stake implements store.Store.
func (s *Store) Stake(ctx context.Context, player, mint string) (*heist.StakeInfo, error) {
	var st heist.StakeInfo
	ok, err := s.get(ctx, stakeKey(player, mint), &st)
	if err != nil || !ok {
		return nil, err
	}
	return &st, nil
}

// PlayerStakes implements store.Store.
func (s *Store) PlayerStakes(ctx context.Context, player string) ([]*heist.StakeInfo, error) {
	var out []*heist.StakeInfo
	iter := s.rdb.Scan(ctx, 0, stakeKeyF+player+stakeKeySep+"*", 100).Iterator()
	for iter.Next(ctx) {
		var st heist.StakeInfo
		ok, err := s.get(ctx, iter.Val(), &st)
		if err != nil {
			return nil, err
		}
		if ok && st.Owner == player {
			out = append(out, &st)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStorageError, "failed to scan stakes")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mint < out[j].Mint })
	return out, nil
}
