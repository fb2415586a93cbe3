package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
)

// Client is used for artifact downloads
var Client = http.DefaultClient

// DownloadFile streams url into destPath and returns the number of bytes
// written. With showProgress set and a terminal attached, an animated
// progress bar is rendered while the body is copied.
func DownloadFile(ctx context.Context, url string, destPath string, showProgress bool) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	// Write to a sibling file first so an interrupted download never
	// leaves a truncated archive under the final name
	partPath := destPath + ".part"
	out, err := os.Create(partPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	totalSize := resp.ContentLength
	log.Debug().Str("url", url).Int64("size", totalSize).Str("dest", destPath).Msg("downloading")

	var written int64
	if showProgress && IsTerminal() {
		written, err = copyWithProgress(out, resp.Body, totalSize)
	} else {
		written, err = io.Copy(out, resp.Body)
	}
	closeErr := out.Close()

	if err == nil && totalSize > 0 && written != totalSize {
		err = fmt.Errorf("incomplete download: got %d bytes, expected %d", written, totalSize)
	}
	if err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(partPath)
		return written, fmt.Errorf("failed to write file: %w", err)
	}

	if err := os.Rename(partPath, destPath); err != nil {
		os.Remove(partPath)
		return written, fmt.Errorf("failed to move download into place: %w", err)
	}

	return written, nil
}

func copyWithProgress(dst io.Writer, src io.Reader, totalSize int64) (int64, error) {
	p := tea.NewProgram(NewProgressModel(totalSize))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := p.Run(); err != nil {
			log.Debug().Err(err).Msg("progress ui stopped")
		}
	}()

	pw := newProgressWriter(totalSize, p)
	written, err := io.Copy(io.MultiWriter(dst, pw), src)
	if err != nil {
		p.Send(progressErrMsg{err: err})
	} else {
		p.Send(downloadCompleteMsg{})
	}

	wg.Wait()
	return written, err
}
