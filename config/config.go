package config

import (
	"os"
	"path/filepath"
	"strconv"
)

const (
	// MaxBlocks caps how many color blocks a single design exposes.
	// Designs with more color changes are silently truncated to this count.
	MaxBlocks = 20

	// Canvas geometry for proof previews.
	CanvasSize    = 900
	CanvasPadding = 40
	LineWidth     = 2

	// WatermarkHeight is the pixel height of the opaque band drawn across the
	// bottom of every preview.
	WatermarkHeight = 26

	defaultJumpThreshold = 45.0
)

// Config carries every tunable the service needs. It is built once in main
// and passed into each component; nothing reads the environment after Load.
type Config struct {
	DataDir   string
	MasterDir string

	GeneratedDir  string
	BackupDir     string
	DBPath        string
	LogCSVPath    string
	DesignMapPath string

	AdminPassword string
	JWTSecret     string

	// Optional mirror targets. Empty means disabled.
	MirrorDir      string
	MirrorS3Bucket string

	// Stitch-to-stitch moves longer than this (in native design units) are
	// treated as undrawn travel.
	JumpThreshold float64

	StorageType string
}

// Load builds a Config from JNB_* environment variables, filling defaults for
// anything unset. baseDir anchors the master designs and the design map;
// JNB_DATA_DIR (default baseDir) anchors everything the service writes.
func Load(baseDir string) *Config {
	dataDir := getenv("JNB_DATA_DIR", baseDir)

	cfg := &Config{
		DataDir:   dataDir,
		MasterDir: getenv("JNB_MASTER_DIR", filepath.Join(baseDir, "designs", "master")),

		GeneratedDir:  filepath.Join(dataDir, "designs", "generated"),
		BackupDir:     filepath.Join(dataDir, "backups"),
		DBPath:        filepath.Join(dataDir, "proofs.db"),
		LogCSVPath:    filepath.Join(dataDir, "proofs_log.csv"),
		DesignMapPath: filepath.Join(baseDir, "design_map.json"),

		AdminPassword: getenv("JNB_ADMIN_PASSWORD", "change-this-now"),
		JWTSecret:     os.Getenv("JNB_JWT_SECRET"),

		MirrorDir:      os.Getenv("JNB_MIRROR_BACKUP_DIR"),
		MirrorS3Bucket: os.Getenv("JNB_MIRROR_S3_BUCKET"),

		JumpThreshold: defaultJumpThreshold,
		StorageType:   getenv("JNB_STORAGE_TYPE", "sqlite"),
	}

	if v := os.Getenv("JNB_JUMP_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.JumpThreshold = f
		}
	}
	return cfg
}

// EnsureDirs creates every directory the service writes into.
func (c *Config) EnsureDirs() error {
	dirs := []string{c.MasterDir, c.GeneratedDir, c.BackupDir}
	if c.MirrorDir != "" {
		dirs = append(dirs, c.MirrorDir)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
