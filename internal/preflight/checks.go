package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

const remoteCheckTimeout = 5 * time.Second

// CheckLetterboxd verifies that the scraping target answers over HTTP.
func CheckLetterboxd(ctx context.Context, baseURL, userAgent string) Result {
	const name = "Letterboxd"

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Detail: "missing base url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, remoteCheckTimeout)
	defer cancel()

	client := &http.Client{Timeout: remoteCheckTimeout}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, base+"/", nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%v)", err)}
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < 400:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", base)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return Result{Name: name, Detail: "rate limited (raise letterboxd.request_interval_ms)"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("reachability check failed (%d)", resp.StatusCode)}
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckExportFile verifies that an export CSV exists and is readable.
func CheckExportFile(name, path string, optional bool) Result {
	result := Result{Name: name, Optional: optional}
	info, err := os.Stat(path)
	switch {
	case err != nil && os.IsNotExist(err):
		result.Detail = fmt.Sprintf("%s (missing)", path)
		return result
	case err != nil:
		result.Detail = fmt.Sprintf("%s (error: stat: %v)", path, err)
		return result
	case info.IsDir():
		result.Detail = fmt.Sprintf("%s (error: is a directory)", path)
		return result
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		result.Detail = fmt.Sprintf("%s (error: not readable: %v)", path, err)
		return result
	}
	result.Passed = true
	result.Detail = fmt.Sprintf("%s (%d bytes)", path, info.Size())
	return result
}

// CheckPosterCache verifies that the cache database can be created or opened.
func CheckPosterCache(path string) Result {
	const name = "Poster cache"
	if _, err := os.Stat(path); err == nil {
		if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (present)", path)}
	}
	result := CheckDirectoryAccess(name, filepath.Dir(path))
	if result.Passed {
		result.Detail = fmt.Sprintf("%s (will be created)", path)
	}
	return result
}

func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "reachability check timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "reachability check timed out"
	}
	return err.Error()
}
