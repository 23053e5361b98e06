package utils

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// HTTP timeouts for release downloads. Login nodes often sit behind
// slow outbound proxies, so the transfer timeout is generous.
const (
	downloadTimeout = 5 * time.Minute
	probeTimeout    = 30 * time.Second
)

// DownloadFile fetches url into destPath. The body is written to a
// sibling temp file first and renamed into place, so destPath is never
// left half-written.
func DownloadFile(url, destPath string) error {
	client := &http.Client{Timeout: downloadTimeout}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: HTTP %d", url, resp.StatusCode)
	}

	tmpPath := destPath + ".part"
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, PermFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	_, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", tmpPath, copyErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move download into place: %w", err)
	}
	return nil
}

// URLExists probes url with a HEAD request and reports whether it
// answers 200.
func URLExists(url string) bool {
	client := &http.Client{Timeout: probeTimeout}

	resp, err := client.Head(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// DownloadExecutable fetches url into destPath and marks it executable.
func DownloadExecutable(url, destPath string) error {
	if err := DownloadFile(url, destPath); err != nil {
		return err
	}
	if err := os.Chmod(destPath, PermExec); err != nil {
		return fmt.Errorf("failed to set executable permissions on %s: %w", destPath, err)
	}
	return nil
}
