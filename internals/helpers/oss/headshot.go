package oss

import (
	"bytes"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"csmanager_backend/internals/configs"
)

// MaxHeadshotSize bounds uploads at 5MB, checked again here behind the
// controller's guard.
const MaxHeadshotSize = int64(5 * 1024 * 1024)

const headshotDir = "candidate_headshots"

// SaveHeadshot stores a candidate headshot. The local write is authoritative;
// the object-store mirror is advisory-only and its failures are logged, never
// surfaced. Images are normalized to webp, bounded to 1600px.
func SaveHeadshot(userID uint, fh *multipart.FileHeader) (localPath string, publicURL string, err error) {
	if fh.Size > MaxHeadshotSize {
		return "", "", fmt.Errorf("headshot exceeds %d bytes", MaxHeadshotSize)
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", fmt.Errorf("decode image: %w", err)
	}
	img = imaging.Fit(img, 1600, 1600, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: 80}); err != nil {
		return "", "", fmt.Errorf("encode webp: %w", err)
	}

	name := fmt.Sprintf("user_%d_%d.webp", userID, time.Now().UnixNano())
	dir := filepath.Join(configs.MediaRoot, headshotDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create media dir: %w", err)
	}
	localPath = filepath.Join(dir, name)
	if err := os.WriteFile(localPath, buf.Bytes(), 0o644); err != nil {
		return "", "", fmt.Errorf("write headshot: %w", err)
	}

	publicURL = "/" + filepath.ToSlash(localPath)
	if url, mirrorErr := mirror(headshotDir+"/"+name, buf.Bytes()); mirrorErr != nil {
		log.Printf("[ERROR] headshot mirror failed for user %d: %v", userID, mirrorErr)
	} else if url != "" {
		publicURL = url
	}
	return localPath, publicURL, nil
}

// DeleteHeadshot removes the local file and, best-effort, the mirrored copy.
func DeleteHeadshot(localPath string) {
	if localPath == "" {
		return
	}
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ removing headshot %s: %v", localPath, err)
	}
	if key := objectKeyFromLocal(localPath); key != "" {
		if bucket, err := openBucket(); err == nil {
			if err := bucket.DeleteObject(key); err != nil {
				log.Printf("⚠️ removing mirrored headshot %s: %v", key, err)
			}
		}
	}
}

// IsMirroredURL reports whether a recorded headshot URL points at the object
// store rather than local media.
func IsMirroredURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func mirror(key string, data []byte) (string, error) {
	if configs.OSSBucket == "" {
		return "", nil // mirroring disabled
	}
	bucket, err := openBucket()
	if err != nil {
		return "", err
	}
	if err := bucket.PutObject(key, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s.%s/%s", configs.OSSBucket, configs.OSSEndpoint, key), nil
}

func openBucket() (*oss.Bucket, error) {
	client, err := oss.New(configs.OSSEndpoint, configs.OSSKeyID, configs.OSSKeySecret)
	if err != nil {
		return nil, err
	}
	return client.Bucket(configs.OSSBucket)
}

func objectKeyFromLocal(localPath string) string {
	rel, err := filepath.Rel(configs.MediaRoot, localPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}
