package graphdb

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/eak1mov/go-pzmap/atlasgraph"
)

// Writer stores an atlas forest in a SQLite database.
type Writer struct {
	db         *sql.DB
	nodeStmt   *sql.Stmt
	hashStmt   *sql.Stmt
	logger     *slog.Logger
	nodesCount int
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates the database file and its tables.
// The returned Writer must be closed after use.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	_, err = db.Exec(`
		CREATE TABLE metadata (name TEXT, value TEXT);
		CREATE TABLE nodes (
			id INTEGER NOT NULL,
			parent_id INTEGER,
			root_id INTEGER NOT NULL,
			hash_count INTEGER NOT NULL
		);
		CREATE TABLE node_hashes (
			node_id INTEGER NOT NULL,
			hash INTEGER NOT NULL
		);
	`)
	if err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	nodeStmt, err := db.Prepare("INSERT INTO nodes (id, parent_id, root_id, hash_count) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, err
	}
	hashStmt, err := db.Prepare("INSERT INTO node_hashes (node_id, hash) VALUES (?, ?)")
	if err != nil {
		nodeStmt.Close()
		return nil, err
	}

	return &Writer{db: db, nodeStmt: nodeStmt, hashStmt: hashStmt, logger: config.Logger}, nil
}

func (w *Writer) Close() error {
	return errors.Join(w.nodeStmt.Close(), w.hashStmt.Close(), w.db.Close())
}

func (w *Writer) WriteRecord(r Record) error {
	var parentID sql.NullInt64
	if !r.IsRoot {
		parentID = sql.NullInt64{Int64: int64(r.ParentID), Valid: true}
	}
	if _, err := w.nodeStmt.Exec(r.ID, parentID, r.RootID, len(r.Hashes)); err != nil {
		return err
	}
	for _, h := range r.Hashes {
		if _, err := w.hashStmt.Exec(r.ID, h); err != nil {
			return err
		}
	}
	w.nodesCount++
	return nil
}

// WriteGraph writes every node of a built graph in insertion order.
func (w *Writer) WriteGraph(g *atlasgraph.Graph) error {
	for node := range g.Nodes() {
		if err := w.WriteRecord(NewRecord(g, node)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Finalize() error {
	w.logger.Debug("graphdb: creating index", "nodes", w.nodesCount)
	_, err := w.db.Exec(`
		CREATE UNIQUE INDEX node_index ON nodes (id);
		CREATE INDEX node_parent_index ON nodes (parent_id);
		CREATE INDEX node_hash_index ON node_hashes (node_id);
	`)
	w.logger.Debug("graphdb: done!")
	return err
}
