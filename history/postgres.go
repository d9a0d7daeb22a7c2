package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

const schema = `
CREATE TABLE IF NOT EXISTS stake_episodes (
	id            BIGSERIAL PRIMARY KEY,
	player        TEXT        NOT NULL,
	mint          TEXT        NOT NULL,
	tier          TEXT        NOT NULL,
	stake_start   TIMESTAMPTZ NOT NULL,
	stake_end     TIMESTAMPTZ NOT NULL,
	elapsed_hours BIGINT      NOT NULL,
	base_reward   BIGINT      NOT NULL,
	draw          BIGINT      NOT NULL,
	multiplier    SMALLINT    NOT NULL,
	outcome_class TEXT        NOT NULL,
	reward        BIGINT      NOT NULL,
	recorded_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS stake_episodes_player_idx ON stake_episodes (player, stake_end DESC);
`

// Postgres records episodes in a stake_episodes table.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens the episode database and ensures the schema exists.
func NewPostgres(dsn string) (*Postgres, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	// Simple protocol avoids prepared-statement collisions behind poolers
	// like PgBouncer.
	cfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db := stdlib.OpenDB(*cfg)
	db.SetConnMaxIdleTime(4 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Postgres{db: db}, nil
}

// Record implements Recorder.
func (p *Postgres) Record(ctx context.Context, e *Episode) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO stake_episodes (
			player, mint, tier, stake_start, stake_end,
			elapsed_hours, base_reward, draw, multiplier, outcome_class, reward
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.Player, e.Mint, e.Tier, e.StakeStart, e.StakeEnd,
		int64(e.ElapsedHours), int64(e.BaseReward), int64(e.Draw),
		int16(e.Multiplier), e.OutcomeClass, int64(e.Reward),
	)
	return err
}

// Close implements Recorder.
func (p *Postgres) Close() error {
	return p.db.Close()
}
