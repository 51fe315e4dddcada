package backup

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Bundle describes everything the admin backup zip contains.
type Bundle struct {
	DBPath       string
	CSVPath      string
	SnapshotDir  string
	GeneratedDir string
	DesignMap    map[string]string
}

// ZipName returns the timestamped filename for a backup taken now.
func ZipName(now time.Time) string {
	return "JNB_BACKUP_" + now.Format("20060102_150405") + ".zip"
}

// WriteZip streams the bundle as a zip archive. Files that do not exist yet
// (fresh install, nothing saved) are simply skipped.
func WriteZip(w io.Writer, b Bundle) error {
	zw := zip.NewWriter(w)

	addFile := func(path, arcname string) error {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		defer f.Close()
		dst, err := zw.Create(arcname)
		if err != nil {
			return err
		}
		_, err = io.Copy(dst, f)
		return err
	}

	addDir := func(dir, prefix, ext string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, e := range entries {
			if e.IsDir() || (ext != "" && !strings.EqualFold(filepath.Ext(e.Name()), ext)) {
				continue
			}
			if err := addFile(filepath.Join(dir, e.Name()), prefix+"/"+e.Name()); err != nil {
				return err
			}
		}
		return nil
	}

	if err := addFile(b.DBPath, "proofs.db"); err != nil {
		return err
	}
	if err := addFile(b.CSVPath, "proofs_log.csv"); err != nil {
		return err
	}
	if err := addDir(b.SnapshotDir, "backups", ".json"); err != nil {
		return err
	}
	if err := addDir(b.GeneratedDir, "generated", ""); err != nil {
		return err
	}

	if len(b.DesignMap) > 0 {
		dst, err := zw.Create("design_map.json")
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(b.DesignMap, "", "  ")
		if err != nil {
			return err
		}
		if _, err := dst.Write(data); err != nil {
			return err
		}
	}

	return zw.Close()
}
