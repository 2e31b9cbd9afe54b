package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"kbchat/internal/apiclient"
	"kbchat/internal/models"
)

// UploadField is the multipart field the backend reads the file from.
const UploadField = "file"

// File is a document to upload. Open is called by the transport each time
// the body has to be (re)written.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// OpenFile describes the file at path for upload.
func OpenFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// BytesFile wraps an in-memory document.
func BytesFile(name string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// UploadOptions receive upload progress as whole percentages. OnProgress runs
// synchronously on the transport goroutine. Progress receives the same values
// with a blocking send that is abandoned once ctx is done; the caller owns the
// channel and closes it after UploadKnowledge returns.
type UploadOptions struct {
	OnProgress func(percent int)
	Progress   chan<- int
}

type UploadAPI struct {
	client Requester
}

func NewUploadAPI(client Requester) *UploadAPI {
	return &UploadAPI{client: client}
}

// UploadKnowledge sends file to the knowledge base as a multipart form.
func (a *UploadAPI) UploadKnowledge(ctx context.Context, file File, opts UploadOptions) (*models.Envelope, error) {
	callOpts := []apiclient.CallOption{
		apiclient.WithMultipartFile(UploadField, file.Name, file.Size, file.Open),
	}
	if opts.OnProgress != nil || opts.Progress != nil {
		callOpts = append(callOpts, apiclient.WithUploadProgress(progressReporter(ctx, opts)))
	}
	return a.client.Post(ctx, UploadPath, nil, callOpts...)
}

func progressReporter(ctx context.Context, opts UploadOptions) func(uploaded, total int64) {
	last := 0
	return func(uploaded, total int64) {
		if total <= 0 {
			return
		}
		pct := Percent(uploaded, total)
		if pct < last {
			return
		}
		last = pct

		if opts.OnProgress != nil {
			opts.OnProgress(pct)
		}
		if opts.Progress != nil {
			select {
			case opts.Progress <- pct:
			case <-ctx.Done():
			}
		}
	}
}

// Percent is round(loaded*100/total).
func Percent(loaded, total int64) int {
	return int(math.Round(float64(loaded) * 100 / float64(total)))
}
