// Package backup provides best-effort mirroring of critical files and the
// admin backup bundle.
package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// Mirror copies files to a secondary location after every save: a local
// directory, an S3 bucket, or both. Mirroring is strictly best-effort; a
// failed copy is logged at Warn and never fails the save that triggered it.
type Mirror struct {
	dir    string
	bucket string
	s3     *s3.Client
}

// NewMirror builds a Mirror from the configured targets. Either may be
// empty. An S3 client that cannot be constructed disables the S3 target
// with a warning rather than failing startup.
func NewMirror(dir, bucket string) *Mirror {
	m := &Mirror{dir: dir, bucket: bucket}
	if bucket != "" {
		cfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			logrus.WithError(err).Warn("Mirror S3 disabled: unable to load AWS config")
			m.bucket = ""
		} else {
			m.s3 = s3.NewFromConfig(cfg)
		}
	}
	return m
}

// Enabled reports whether any mirror target is configured.
func (m *Mirror) Enabled() bool {
	return m.dir != "" || m.bucket != ""
}

// Copy mirrors one file to every configured target. Errors are swallowed.
func (m *Mirror) Copy(ctx context.Context, path string) {
	if m.dir != "" {
		if err := copyFile(path, filepath.Join(m.dir, filepath.Base(path))); err != nil {
			logrus.WithError(err).WithField("path", path).Warn("Mirror copy failed")
		}
	}
	if m.bucket != "" && m.s3 != nil {
		if err := m.upload(ctx, path); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"path":   path,
				"bucket": m.bucket,
			}).Warn("Mirror S3 upload failed")
		}
	}
}

func (m *Mirror) upload(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = m.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(filepath.Base(path)),
		Body:   f,
	})
	return err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
