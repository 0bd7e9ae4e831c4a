package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateMediaTables, downCreateMediaTables)
}

func upCreateMediaTables(ctx context.Context, tx *sql.Tx) error {
	createCoursesTable := `
	CREATE TABLE courses (
		id UUID PRIMARY KEY,
		mentor_id UUID NOT NULL,
		title VARCHAR(255) NOT NULL,
		video_path VARCHAR(500) NOT NULL,
		video_mime_type VARCHAR(100) NOT NULL,
		video_size_bytes BIGINT NOT NULL,
		video_checksum VARCHAR(64) NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
		duration_probed BOOLEAN NOT NULL DEFAULT FALSE,
		thumbnail_path VARCHAR(500),
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		deleted_at TIMESTAMP WITH TIME ZONE
	);
	`
	if _, err := tx.ExecContext(ctx, createCoursesTable); err != nil {
		return fmt.Errorf("could not create courses table: %w", err)
	}

	createOrdersTable := `
	CREATE TABLE orders (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		course_id UUID NOT NULL,
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE INDEX idx_orders_user_course ON orders (user_id, course_id);
	`
	if _, err := tx.ExecContext(ctx, createOrdersTable); err != nil {
		return fmt.Errorf("could not create orders table: %w", err)
	}

	createRenditionsTable := `
	CREATE TABLE renditions (
		id UUID PRIMARY KEY,
		course_id UUID NOT NULL,
		tier VARCHAR(20) NOT NULL,
		file_path VARCHAR(500) NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		video_bitrate_kbps INTEGER NOT NULL,
		audio_bitrate_kbps INTEGER NOT NULL,
		fps INTEGER NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE UNIQUE INDEX idx_renditions_course_tier ON renditions (course_id, tier);
	`
	if _, err := tx.ExecContext(ctx, createRenditionsTable); err != nil {
		return fmt.Errorf("could not create renditions table: %w", err)
	}

	return nil
}

func downCreateMediaTables(ctx context.Context, tx *sql.Tx) error {
	dropTables := []string{"renditions", "orders", "courses"}
	for _, table := range dropTables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", table)); err != nil {
			return fmt.Errorf("could not drop table %s: %w", table, err)
		}
	}
	return nil
}
