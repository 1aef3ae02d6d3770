// Package graphdb provides API for storing and loading atlas forests in SQLite.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package graphdb

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/eak1mov/go-pzmap/atlasgraph"
)

// Record is the stored form of one forest node.
type Record struct {
	ID       uint32
	IsRoot   bool
	ParentID uint32 // valid unless IsRoot
	RootID   uint32
	Hashes   []uint32
}

func NewRecord(g *atlasgraph.Graph, node atlasgraph.Node) Record {
	r := Record{
		ID:     node.ID,
		IsRoot: true,
		RootID: g.Root(node).ID,
		Hashes: node.Hashes,
	}
	if parent, ok := g.Parent(node); ok {
		r.IsRoot = false
		r.ParentID = parent.ID
	}
	return r
}

// Reader reads records written by Writer.
type Reader struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewReader opens the database read-only.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}

	stmt, err := db.Prepare("SELECT hash FROM node_hashes WHERE node_id = ? ORDER BY hash")
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db, stmt: stmt}, nil
}

func (r *Reader) Close() error {
	return errors.Join(r.stmt.Close(), r.db.Close())
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// ReadRecord returns the record of a node; unknown ids give atlasgraph.ErrUnknownID.
func (r *Reader) ReadRecord(id uint32) (Record, error) {
	var parentID sql.NullInt64
	record := Record{ID: id}
	err := r.db.QueryRow("SELECT parent_id, root_id FROM nodes WHERE id = ?", id).Scan(&parentID, &record.RootID)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %d", atlasgraph.ErrUnknownID, id)
	}
	if err != nil {
		return Record{}, err
	}
	setParent(&record, parentID)

	if record.Hashes, err = r.readHashes(id); err != nil {
		return Record{}, err
	}
	return record, nil
}

func (r *Reader) readHashes(id uint32) ([]uint32, error) {
	rows, err := r.stmt.Query(id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make([]uint32, 0)
	for rows.Next() {
		var h uint32
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hashes, nil
}

func setParent(record *Record, parentID sql.NullInt64) {
	record.IsRoot = !parentID.Valid
	if parentID.Valid {
		record.ParentID = uint32(parentID.Int64)
	}
}

// VisitRecords visits all records in the order they were written.
func (r *Reader) VisitRecords(visitor func(Record) error) error {
	rows, err := r.db.Query("SELECT id, parent_id, root_id FROM nodes ORDER BY rowid")
	if err != nil {
		return err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		var parentID sql.NullInt64
		if err := rows.Scan(&record.ID, &parentID, &record.RootID); err != nil {
			return err
		}
		setParent(&record, parentID)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	for _, record := range records {
		if record.Hashes, err = r.readHashes(record.ID); err != nil {
			return err
		}
		if err := visitor(record); err != nil {
			return err
		}
	}
	return nil
}

// ReadGraph loads the stored hash sets into a new graph and builds it.
func (r *Reader) ReadGraph(opts ...atlasgraph.Option) (*atlasgraph.Graph, error) {
	g := atlasgraph.New(opts...)
	err := r.VisitRecords(func(record Record) error {
		g.AddNode(record.ID, record.Hashes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.Build()
	return g, nil
}
