package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// downloadChunkSize bounds the memory a download holds at once.
const downloadChunkSize = 32 * 1024

// ResolveFile asks the server for the current download path of ref.
func (c *Client) ResolveFile(ctx context.Context, ref FileReference) (*File, error) {
	const method = "getFile"
	if ref == nil || ref.FileIdentifier() == "" {
		return nil, c.remember(method, usageError("no file_id to resolve"))
	}
	params := map[string]string{"file_id": ref.FileIdentifier()}
	return invoke[File](ctx, c, method, params, nil)
}

// DownloadFile streams the content of file into w and returns the number of
// bytes written. A file without a download path fails with ErrNoFilePath
// before any request is made.
func (c *Client) DownloadFile(ctx context.Context, file *File, w io.Writer) (int64, error) {
	const method = "downloadFile"
	if file == nil || file.FilePath == nil || *file.FilePath == "" {
		return 0, c.remember(method, ErrNoFilePath)
	}
	c.logger.Debug("starting download", "file_id", file.FileID)

	startTime := time.Now()
	fileURL := fmt.Sprintf("%s/%s", c.fileURL, *file.FilePath)
	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(fileURL)
	if err != nil {
		recordRequestDuration(method, statusError, time.Since(startTime).Seconds())
		recordError(method, errorTypeNetwork)
		return 0, c.remember(method, c.transportError(method, err))
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		recordRequestDuration(method, statusError, time.Since(startTime).Seconds())
		recordError(method, errorTypeAPI)
		return 0, c.remember(method, &APIError{
			Method:      method,
			Code:        resp.StatusCode(),
			Description: http.StatusText(resp.StatusCode()),
		})
	}

	buf := make([]byte, downloadChunkSize)
	var written int64
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				recordDownloadBytes(written)
				return written, c.remember(method, resourceError("write download", werr))
			}
			written += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			recordRequestDuration(method, statusError, time.Since(startTime).Seconds())
			recordError(method, errorTypeNetwork)
			recordDownloadBytes(written)
			return written, c.remember(method, c.transportError(method, rerr))
		}
	}

	recordRequestDuration(method, statusSuccess, time.Since(startTime).Seconds())
	recordDownloadBytes(written)
	c.succeeded()
	c.logger.Debug("download finished", "file_id", file.FileID, "bytes", written)
	return written, nil
}

// DownloadFileTo downloads file into a new file at path. A partial file is
// removed on failure.
func (c *Client) DownloadFileTo(ctx context.Context, file *File, path string) (int64, error) {
	const method = "downloadFile"
	if file == nil || file.FilePath == nil || *file.FilePath == "" {
		return 0, c.remember(method, ErrNoFilePath)
	}
	out, err := os.Create(path)
	if err != nil {
		return 0, c.remember(method, resourceError("create destination", err))
	}
	n, err := c.DownloadFile(ctx, file, out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = c.remember(method, resourceError("close destination", cerr))
	}
	if err != nil {
		_ = os.Remove(path)
		return n, err
	}
	return n, nil
}
