package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yourorg/rest2mcp/pkg/types"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id TEXT PRIMARY KEY,
			endpoint TEXT NOT NULL,
			output_path TEXT NOT NULL,
			model TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS stage_outputs (
			conversion_id TEXT NOT NULL,
			stage TEXT NOT NULL,
			status TEXT NOT NULL,
			raw_output TEXT NOT NULL,
			model TEXT NOT NULL,
			error_msg TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY(conversion_id, stage)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) CreateConversion(endpoint, outputPath, model string) (*types.Conversion, error) {
	now := time.Now().UTC()
	id, err := s.nextConversionID(now)
	if err != nil {
		return nil, err
	}
	conv := &types.Conversion{ID: id, Endpoint: endpoint, OutputPath: outputPath, Model: model, Status: "running", CreatedAt: now, UpdatedAt: now}
	_, err = s.db.Exec(`INSERT INTO conversions(id,endpoint,output_path,model,status,message,created_at,updated_at) VALUES(?,?,?,?,?,?,?,?)`,
		conv.ID, conv.Endpoint, conv.OutputPath, conv.Model, conv.Status, conv.Message, conv.CreatedAt, conv.UpdatedAt)
	return conv, err
}

func (s *SQLiteStore) nextConversionID(now time.Time) (string, error) {
	prefix := fmt.Sprintf("conv_%s_", now.Format("20060102"))
	rows, err := s.db.Query(`SELECT id FROM conversions WHERE id LIKE ?`, prefix+"%")
	if err != nil {
		return "", err
	}
	defer rows.Close()
	maxN := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		var n int
		_, _ = fmt.Sscanf(id, prefix+"%03d", &n)
		if n > maxN {
			maxN = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, maxN+1), nil
}

func (s *SQLiteStore) GetConversion(id string) (*types.Conversion, error) {
	row := s.db.QueryRow(`SELECT id,endpoint,output_path,model,status,message,created_at,updated_at FROM conversions WHERE id=?`, id)
	var out types.Conversion
	if err := row.Scan(&out.ID, &out.Endpoint, &out.OutputPath, &out.Model, &out.Status, &out.Message, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SQLiteStore) UpdateConversionResult(id, status, message string) error {
	_, err := s.db.Exec(`UPDATE conversions SET status=?, message=?, updated_at=? WHERE id=?`, status, message, time.Now().UTC(), id)
	return err
}

func (s *SQLiteStore) ListConversions() ([]types.Conversion, error) {
	rows, err := s.db.Query(`SELECT id,endpoint,output_path,model,status,message,created_at,updated_at FROM conversions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.Conversion
	for rows.Next() {
		var c types.Conversion
		if err := rows.Scan(&c.ID, &c.Endpoint, &c.OutputPath, &c.Model, &c.Status, &c.Message, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteConversion(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM stage_outputs WHERE conversion_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM conversions WHERE id=?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) SaveStageOutput(out *types.StageOutput) error {
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO stage_outputs(conversion_id,stage,status,raw_output,model,error_msg,created_at)
	VALUES(?,?,?,?,?,?,?)
	ON CONFLICT(conversion_id,stage) DO UPDATE SET status=excluded.status,raw_output=excluded.raw_output,model=excluded.model,error_msg=excluded.error_msg,created_at=excluded.created_at`,
		out.ConversionID, out.Stage, out.Status, out.RawOutput, out.Model, out.ErrorMsg, out.CreatedAt)
	return err
}

func (s *SQLiteStore) GetStageOutputs(conversionID string) ([]types.StageOutput, error) {
	rows, err := s.db.Query(`SELECT conversion_id,stage,status,raw_output,model,error_msg,created_at FROM stage_outputs WHERE conversion_id=? ORDER BY created_at ASC, stage ASC`, conversionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.StageOutput
	for rows.Next() {
		var o types.StageOutput
		if err := rows.Scan(&o.ConversionID, &o.Stage, &o.Status, &o.RawOutput, &o.Model, &o.ErrorMsg, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return errors.New("store is nil")
	}
	return s.db.Close()
}
