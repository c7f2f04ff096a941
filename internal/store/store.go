// Package store provides SQLite-backed persistence for finished battles
// and their replay logs.
package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"fortress-arena/internal/sim"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a sql.DB for the battle store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and
// applies the schema.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// BattleRow is the stored summary of one battle.
type BattleRow struct {
	ID        int64
	Seed      uint32
	Ruleset   uint32
	Winner    string
	WinReason string
	Duration  int32
	Hash      uint32
	MVPHero   string
	MVPDamage int32
	CreatedAt string
}

// SaveBattle inserts a finished battle with its inputs, both side
// rollups and the full replay log in one transaction. The inputs make
// the battle re-runnable for verification. Returns the battle id.
func (db *DB) SaveBattle(seed uint32, left, right sim.BuildSpec, cfg sim.ArenaConfig, res sim.Result) (int64, error) {
	leftJSON, err := json.Marshal(left)
	if err != nil {
		return 0, fmt.Errorf("marshal left build: %w", err)
	}
	rightJSON, err := json.Marshal(right)
	if err != nil {
		return 0, fmt.Errorf("marshal right build: %w", err)
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("marshal config: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.Exec(
		`INSERT INTO battles (seed, ruleset, winner, win_reason, duration, hash, mvp_hero, mvp_damage,
		  left_build, right_build, config)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seed, sim.RulesetVersion, res.Winner.String(), res.WinReason.String(),
		res.Duration, res.Hash, res.MVP.HeroID, res.MVP.Damage,
		string(leftJSON), string(rightJSON), string(cfgJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("insert battle: %w", err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("battle id: %w", err)
	}

	sides := []struct {
		tag string
		sr  sim.SideResult
	}{
		{"left", res.Left},
		{"right", res.Right},
	}
	for _, s := range sides {
		if _, err := tx.Exec(
			`INSERT INTO battle_sides (battle_id, side, owner_id, owner_name, final_hp, max_hp,
			  total_damage, damage_received, heroes_killed, heroes_lost, live_heroes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, s.tag, s.sr.OwnerID, s.sr.OwnerName, s.sr.FinalHP, s.sr.MaxHP,
			s.sr.TotalDamage, s.sr.DamageReceived, s.sr.HeroesKilled, s.sr.HeroesLost, s.sr.LiveHeroes,
		); err != nil {
			return 0, fmt.Errorf("insert side %s: %w", s.tag, err)
		}
	}

	stmt, err := tx.Prepare(
		`INSERT INTO replay_events (battle_id, seq, tick, kind, side, hero_id, target_index,
		  damage, remaining_hp, start_x, start_y, target_x, target_y)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare events: %w", err)
	}
	defer stmt.Close()

	for seq, ev := range res.Events {
		if _, err := stmt.Exec(
			id, seq, ev.Tick, ev.Kind.String(), ev.Side.String(), ev.HeroID, ev.TargetIndex,
			ev.Damage, ev.RemainingHP, int32(ev.StartX), int32(ev.StartY), int32(ev.TargetX), int32(ev.TargetY),
		); err != nil {
			return 0, fmt.Errorf("insert event %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// GetBattle loads one battle summary by id.
func (db *DB) GetBattle(id int64) (BattleRow, error) {
	var b BattleRow
	err := db.conn.QueryRow(
		`SELECT id, seed, ruleset, winner, win_reason, duration, hash, mvp_hero, mvp_damage, created_at
		 FROM battles WHERE id = ?`, id,
	).Scan(&b.ID, &b.Seed, &b.Ruleset, &b.Winner, &b.WinReason, &b.Duration, &b.Hash, &b.MVPHero, &b.MVPDamage, &b.CreatedAt)
	if err != nil {
		return BattleRow{}, fmt.Errorf("get battle %d: %w", id, err)
	}
	return b, nil
}

// ListBattles returns the most recent battles, newest first.
func (db *DB) ListBattles(limit int) ([]BattleRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(
		`SELECT id, seed, ruleset, winner, win_reason, duration, hash, mvp_hero, mvp_damage, created_at
		 FROM battles ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	var out []BattleRow
	for rows.Next() {
		var b BattleRow
		if err := rows.Scan(&b.ID, &b.Seed, &b.Ruleset, &b.Winner, &b.WinReason, &b.Duration, &b.Hash, &b.MVPHero, &b.MVPDamage, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SideRow is one stored side rollup.
type SideRow struct {
	Side           string
	OwnerID        string
	OwnerName      string
	FinalHP        int32
	MaxHP          int32
	TotalDamage    int32
	DamageReceived int32
	HeroesKilled   int32
	HeroesLost     int32
	LiveHeroes     int32
}

// GetSides loads both side rollups for a battle, left first.
func (db *DB) GetSides(battleID int64) ([]SideRow, error) {
	rows, err := db.conn.Query(
		`SELECT side, owner_id, owner_name, final_hp, max_hp, total_damage, damage_received,
		  heroes_killed, heroes_lost, live_heroes
		 FROM battle_sides WHERE battle_id = ? ORDER BY side = 'left' DESC`, battleID)
	if err != nil {
		return nil, fmt.Errorf("get sides: %w", err)
	}
	defer rows.Close()

	var out []SideRow
	for rows.Next() {
		var s SideRow
		if err := rows.Scan(&s.Side, &s.OwnerID, &s.OwnerName, &s.FinalHP, &s.MaxHP, &s.TotalDamage,
			&s.DamageReceived, &s.HeroesKilled, &s.HeroesLost, &s.LiveHeroes); err != nil {
			return nil, fmt.Errorf("scan side: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// EventRow is one stored replay event.
type EventRow struct {
	Seq         int
	Tick        int32
	Kind        string
	Side        string
	HeroID      string
	TargetIndex int32
	Damage      int32
	RemainingHP int32
	StartX      int32
	StartY      int32
	TargetX     int32
	TargetY     int32
}

// GetEvents loads a battle's replay log in append order.
func (db *DB) GetEvents(battleID int64) ([]EventRow, error) {
	rows, err := db.conn.Query(
		`SELECT seq, tick, kind, side, hero_id, target_index, damage, remaining_hp,
		  start_x, start_y, target_x, target_y
		 FROM replay_events WHERE battle_id = ? ORDER BY seq`, battleID)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	defer rows.Close()

	var out []EventRow
	for rows.Next() {
		var e EventRow
		if err := rows.Scan(&e.Seq, &e.Tick, &e.Kind, &e.Side, &e.HeroID, &e.TargetIndex,
			&e.Damage, &e.RemainingHP, &e.StartX, &e.StartY, &e.TargetX, &e.TargetY); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetBattleInputs loads the stored inputs needed to re-run a battle.
func (db *DB) GetBattleInputs(id int64) (seed uint32, left, right sim.BuildSpec, cfg sim.ArenaConfig, err error) {
	var leftJSON, rightJSON, cfgJSON string
	err = db.conn.QueryRow(
		`SELECT seed, left_build, right_build, config FROM battles WHERE id = ?`, id,
	).Scan(&seed, &leftJSON, &rightJSON, &cfgJSON)
	if err != nil {
		err = fmt.Errorf("get battle inputs %d: %w", id, err)
		return
	}
	if err = json.Unmarshal([]byte(leftJSON), &left); err != nil {
		err = fmt.Errorf("decode left build: %w", err)
		return
	}
	if err = json.Unmarshal([]byte(rightJSON), &right); err != nil {
		err = fmt.Errorf("decode right build: %w", err)
		return
	}
	if err = json.Unmarshal([]byte(cfgJSON), &cfg); err != nil {
		err = fmt.Errorf("decode config: %w", err)
	}
	return
}
