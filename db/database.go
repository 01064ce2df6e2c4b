package db

import (
	"database/sql"
	"fmt"

	"github.com/manngobeh2006/oneclick-master/config"
	"github.com/manngobeh2006/oneclick-master/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to the corpus database.")
	return nil
}

// CloseDB closes the raw database connection.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}

// InitDB creates the corpus schema if it does not exist. The plain SQL path
// owns the schema; GORM maps onto the same columns for CRUD.
func InitDB() error {
	if err := createReferenceTracksTable(); err != nil {
		return err
	}
	logger.Info("Corpus schema initialized.")
	return nil
}

func createReferenceTracksTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS reference_tracks (
		id VARCHAR(36) PRIMARY KEY,
		file_name VARCHAR(255),
		file_hash VARCHAR(64) NOT NULL,
		genre VARCHAR(64) NOT NULL,
		mastering_profile VARCHAR(64),
		integrated_lufs DOUBLE,
		loudness_range_lu DOUBLE,
		dynamic_range_db DOUBLE,
		sub_bass_energy DOUBLE,
		bass_energy DOUBLE,
		low_mid_energy DOUBLE,
		mid_energy DOUBLE,
		high_mid_energy DOUBLE,
		presence_energy DOUBLE,
		air_energy DOUBLE,
		spectral_centroid_hz DOUBLE,
		bass_emphasis DOUBLE,
		high_emphasis DOUBLE,
		stereo_width DOUBLE,
		stereo_correlation DOUBLE,
		estimated_tempo_bpm DOUBLE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT uq_reference_file_hash UNIQUE (file_hash),
		INDEX idx_reference_genre (genre),
		INDEX idx_reference_profile (mastering_profile)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create reference_tracks table: %w", err)
	}
	return nil
}
