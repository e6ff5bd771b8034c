package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/Tomalarrrr/team-roadmap-sub001/internal/db"
	"github.com/Tomalarrrr/team-roadmap-sub001/internal/reconcile"
)

// SQLiteDocumentStore keeps one roadmap document in the documents table of a
// shared SQLite file. It is the adapter the reconciler treats as the remote
// store: every write replaces the whole document (last writer wins).
type SQLiteDocumentStore struct {
	roadmapID string
	writer    string
	open      func() (*sql.DB, error)

	mu  sync.Mutex
	db  *sql.DB
	uow db.UnitOfWork
}

// NewSQLiteDocumentStore creates a store over an already open database.
func NewSQLiteDocumentStore(conn *sql.DB, roadmapID, writer string) *SQLiteDocumentStore {
	return &SQLiteDocumentStore{
		roadmapID: roadmapID,
		writer:    writer,
		db:        conn,
		uow:       db.NewSQLiteUnitOfWork(conn),
	}
}

// OpenSQLiteDocumentStore creates a store that opens the database at path on
// first use. A path that cannot be opened (an unmounted share, say) reports
// a transient error, so the reconciler treats the store as unreachable
// rather than broken.
func OpenSQLiteDocumentStore(path, roadmapID, writer string) *SQLiteDocumentStore {
	return &SQLiteDocumentStore{
		roadmapID: roadmapID,
		writer:    writer,
		open:      func() (*sql.DB, error) { return db.OpenDB(path) },
	}
}

// WithUnitOfWork replaces the transaction runner used by Write.
func (s *SQLiteDocumentStore) WithUnitOfWork(uow db.UnitOfWork) *SQLiteDocumentStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uow = uow
	return s
}

func (s *SQLiteDocumentStore) conn() (*sql.DB, db.UnitOfWork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, s.uow, nil
	}
	if s.open == nil {
		return nil, nil, errors.New("document store has no database")
	}
	conn, err := s.open()
	if err != nil {
		return nil, nil, &reconcile.StoreError{Op: "opening document store", Err: err, Transient: true}
	}
	s.db = conn
	s.uow = db.NewSQLiteUnitOfWork(conn)
	return s.db, s.uow, nil
}

// Read returns the stored document body, or nil when none exists yet.
func (s *SQLiteDocumentStore) Read(ctx context.Context) ([]byte, error) {
	conn, _, err := s.conn()
	if err != nil {
		return nil, err
	}
	var body string
	err = conn.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE roadmap_id = ?`, s.roadmapID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("reading document", err)
	}
	return []byte(body), nil
}

// Write replaces the document and bumps its revision.
func (s *SQLiteDocumentStore) Write(ctx context.Context, body []byte) error {
	_, uow, err := s.conn()
	if err != nil {
		return err
	}
	err = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var revision int
		err := tx.QueryRowContext(ctx,
			`SELECT revision FROM documents WHERE roadmap_id = ?`, s.roadmapID).Scan(&revision)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (roadmap_id, body, revision, updated_at, writer)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(roadmap_id) DO UPDATE SET
			   body = excluded.body,
			   revision = excluded.revision,
			   updated_at = excluded.updated_at,
			   writer = excluded.writer`,
			s.roadmapID, string(body), revision+1, nowUTC(), s.writer)
		return err
	})
	return classify("writing document", err)
}

// Ping reports whether the store database can be reached.
func (s *SQLiteDocumentStore) Ping(ctx context.Context) error {
	conn, _, err := s.conn()
	if err != nil {
		return err
	}
	if err := conn.PingContext(ctx); err != nil {
		return classify("pinging document store", err)
	}
	return nil
}

// Info returns the revision metadata of the stored document.
func (s *SQLiteDocumentStore) Info(ctx context.Context) (DocumentInfo, error) {
	conn, _, err := s.conn()
	if err != nil {
		return DocumentInfo{}, err
	}
	var info DocumentInfo
	var updatedAt string
	err = conn.QueryRowContext(ctx,
		`SELECT revision, updated_at, writer, length(body) FROM documents WHERE roadmap_id = ?`,
		s.roadmapID).Scan(&info.Revision, &updatedAt, &info.Writer, &info.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return DocumentInfo{}, fmt.Errorf("document %s: %w", s.roadmapID, ErrNotFound)
	}
	if err != nil {
		return DocumentInfo{}, classify("reading document info", err)
	}
	info.UpdatedAt = parseStoredTime(updatedAt)
	return info, nil
}

// Close releases a database the store opened itself.
func (s *SQLiteDocumentStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
