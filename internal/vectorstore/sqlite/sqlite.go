package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/bilal790042/Document-QA-System/internal/domain"
	"github.com/bilal790042/Document-QA-System/internal/vectorstore"
)

// Storage is a persistent vector store backed by SQLite. Entries are
// append-only rows; similarity search is exact, computed over all rows
// in insertion order.
type Storage struct {
	db   *sql.DB
	path string
}

// NewStorage opens (or creates) the database at the given path.
func NewStorage(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", domain.ErrIndex, err)
	}
	s := &Storage{db: db, path: path}
	if err := s.setup(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) setup() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("%w: pragma failed: %v", domain.ErrIndex, err)
		}
	}
	schema := `
		CREATE TABLE IF NOT EXISTS chunks (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			content TEXT NOT NULL,
			idx INTEGER NOT NULL,
			metadata TEXT,
			embedding BLOB NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: schema creation failed: %v", domain.ErrIndex, err)
	}
	return nil
}

func (s *Storage) Name() string { return "sqlite" }

// Init records the vector dimension. A dimension change over a non-empty
// database is rejected: the stored vectors would be unsearchable.
func (s *Storage) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: invalid dimension %d", domain.ErrIndex, dimension)
	}
	var stored string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'dimension'").Scan(&stored)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	if err == nil {
		prev, _ := strconv.Atoi(stored)
		n, cerr := s.Count(ctx)
		if cerr != nil {
			return cerr
		}
		if prev != dimension && n > 0 {
			return fmt.Errorf("%w: dimension %d conflicts with existing %d", domain.ErrIndex, dimension, prev)
		}
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('dimension', ?)", strconv.Itoa(dimension))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	return nil
}

func (s *Storage) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: chunks and vectors length mismatch", domain.ErrIndex)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO chunks (id, content, idx, metadata, embedding) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	defer stmt.Close()

	for i, ch := range chunks {
		var metaJSON []byte
		if ch.Metadata != nil {
			metaJSON, _ = json.Marshal(ch.Metadata)
		}
		if _, err := stmt.ExecContext(ctx, ch.ID, ch.Content, ch.Index, metaJSON, encodeVector(vectors[i])); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrIndex, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	return nil
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, content, idx, metadata, embedding FROM chunks ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	var scores []float64
	for rows.Next() {
		var ch domain.Chunk
		var metaJSON sql.NullString
		var emb []byte
		if err := rows.Scan(&ch.ID, &ch.Content, &ch.Index, &metaJSON, &emb); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrIndex, err)
		}
		if metaJSON.Valid && metaJSON.String != "" {
			json.Unmarshal([]byte(metaJSON.String), &ch.Metadata)
		}
		chunks = append(chunks, ch)
		scores = append(scores, vectorstore.Cosine(decodeVector(emb), vector))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}

	idxs := vectorstore.TopK(scores, topK)
	results := make([]domain.SearchResult, 0, len(idxs))
	for _, j := range idxs {
		results = append(results, domain.SearchResult{Chunk: chunks[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// encodeVector converts []float64 to []byte.
func encodeVector(f []float64) []byte {
	buf := make([]byte, len(f)*8)
	for i, v := range f {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// decodeVector converts []byte to []float64.
func decodeVector(b []byte) []float64 {
	f := make([]float64, len(b)/8)
	for i := range f {
		f[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return f
}
