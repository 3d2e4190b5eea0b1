package models

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
)

const cloudScheme = "sqlitecloud://"

const createVideosTable = `CREATE TABLE IF NOT EXISTS videos (
	id TEXT PRIMARY KEY,
	channel TEXT,
	title TEXT,
	description TEXT,
	published_at TEXT,
	views INTEGER,
	likes INTEGER,
	dislikes INTEGER,
	comment_count INTEGER,
	topics TEXT,
	tags TEXT,
	hash_tags TEXT
)`

// NULL columns come back as empty strings and zero counts
const selectVideos = `SELECT id,
	COALESCE(channel, ''),
	COALESCE(title, ''),
	COALESCE(description, ''),
	COALESCE(published_at, ''),
	COALESCE(views, 0),
	COALESCE(likes, 0),
	COALESCE(dislikes, 0),
	COALESCE(comment_count, 0),
	COALESCE(topics, ''),
	COALESCE(tags, ''),
	COALESCE(hash_tags, '')
	FROM videos ORDER BY rowid`

const upsertVideo = `INSERT INTO videos (id, channel, title, description, published_at, views, likes, dislikes, comment_count, topics, tags, hash_tags)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO UPDATE SET
		views = excluded.views,
		likes = excluded.likes,
		dislikes = excluded.dislikes,
		comment_count = excluded.comment_count,
		topics = excluded.topics,
		tags = excluded.tags,
		hash_tags = excluded.hash_tags`

// Store is the persistence boundary for the videos table
type Store interface {
	ListVideos(ctx context.Context) ([]VideoRecord, error)
	UpsertVideos(ctx context.Context, videos []VideoRecord) error
	Close() error
}

// NewDatabase opens the videos store. Paths starting with sqlitecloud:// go to
// SQLite Cloud, anything else is treated as a local SQLite file.
func NewDatabase(dbPath string) (Store, error) {
	if strings.HasPrefix(dbPath, cloudScheme) {
		return newCloudStore(dbPath)
	}
	return newSQLiteStore(dbPath)
}

// maskConnectionString hides the API key in logs for security
func maskConnectionString(connStr string) string {
	if strings.Contains(connStr, "apikey=") {
		parts := strings.Split(connStr, "apikey=")
		if len(parts) > 1 {
			return parts[0] + "apikey=***"
		}
	}
	return connStr
}

func upsertArgs(v VideoRecord) []interface{} {
	return []interface{}{
		v.ID, v.Channel, v.Title, v.Description, v.PublishedAt,
		v.Views, v.Likes, v.Dislikes, v.CommentCount,
		v.Topics, v.Tags, v.HashTags,
	}
}

// cloudStore keeps videos in SQLite Cloud
type cloudStore struct {
	db *sqlitecloud.SQCloud
}

func newCloudStore(dbPath string) (*cloudStore, error) {
	log.Printf("Connecting to SQLite Cloud database: %s", maskConnectionString(dbPath))

	db, err := sqlitecloud.Connect(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}
	if err := db.Execute(createVideosTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create videos table: %w", err)
	}
	return &cloudStore{db: db}, nil
}

// ListVideos returns every row of the videos table
func (s *cloudStore) ListVideos(ctx context.Context) ([]VideoRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := s.db.Select(selectVideos)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}

	rows := result.GetNumberOfRows()
	videos := make([]VideoRecord, 0, rows)
	for row := uint64(0); row < rows; row++ {
		var cols [12]string
		for col := range cols {
			value, err := result.GetStringValue(row, uint64(col))
			if err != nil {
				return nil, fmt.Errorf("failed to read row %d column %d: %w", row, col, err)
			}
			cols[col] = value
		}
		videos = append(videos, VideoRecord{
			ID:           cols[0],
			Channel:      cols[1],
			Title:        cols[2],
			Description:  cols[3],
			PublishedAt:  cols[4],
			Views:        parseCount(cols[5]),
			Likes:        parseCount(cols[6]),
			Dislikes:     parseCount(cols[7]),
			CommentCount: parseCount(cols[8]),
			Topics:       cols[9],
			Tags:         cols[10],
			HashTags:     cols[11],
		})
	}
	return videos, nil
}

// UpsertVideos inserts new videos and refreshes the counters of known ones
func (s *cloudStore) UpsertVideos(ctx context.Context, videos []VideoRecord) error {
	for _, v := range videos {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.db.ExecuteArray(upsertVideo, upsertArgs(v)); err != nil {
			return fmt.Errorf("failed to upsert video %s: %w", v.ID, err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *cloudStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseCount reads an integer column, treating anything unparseable as zero
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// sqliteStore keeps videos in a local SQLite file
type sqliteStore struct {
	db *sql.DB
}

func newSQLiteStore(dbPath string) (*sqliteStore, error) {
	log.Printf("Opening SQLite database: %s", dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if _, err := db.Exec(createVideosTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create videos table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

// ListVideos returns every row of the videos table
func (s *sqliteStore) ListVideos(ctx context.Context) ([]VideoRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectVideos)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := []VideoRecord{}
	for rows.Next() {
		var v VideoRecord
		if err := rows.Scan(&v.ID, &v.Channel, &v.Title, &v.Description, &v.PublishedAt,
			&v.Views, &v.Likes, &v.Dislikes, &v.CommentCount,
			&v.Topics, &v.Tags, &v.HashTags); err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

// UpsertVideos inserts new videos and refreshes the counters of known ones
func (s *sqliteStore) UpsertVideos(ctx context.Context, videos []VideoRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertVideo)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, v := range videos {
		if _, err := stmt.ExecContext(ctx, upsertArgs(v)...); err != nil {
			return fmt.Errorf("failed to upsert video %s: %w", v.ID, err)
		}
	}
	return tx.Commit()
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}
