package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// File is a scoped handle to a downloaded resource.
// Closing it removes the backing file.
type File struct {
	path string
}

// Path returns the location of the downloaded file on disk.
// The path is only valid until Close is called.
func (f *File) Path() string {
	return f.path
}

// Close removes the backing file.
func (f *File) Close() error {
	return os.Remove(f.path)
}

// Downloader fetches remote resources into a destination directory.
type Downloader struct {
	dir    string
	cookie string
	client *http.Client
}

type Option func(d *Downloader)

// WithCookie attaches a cookie header to every request issued by the
// downloader. Some vendors gate downloads behind a license-acceptance
// cookie.
func WithCookie(cookie string) Option {
	return func(d *Downloader) {
		d.cookie = cookie
	}
}

// WithClient overrides the http client used to issue requests.
func WithClient(client *http.Client) Option {
	return func(d *Downloader) {
		d.client = client
	}
}

// New constructs a downloader scoped to the given destination
// directory. An empty dir means the current directory.
func New(dir string, opts ...Option) *Downloader {
	dl := Downloader{
		dir:    dir,
		client: http.DefaultClient,
	}

	if dl.dir == "" {
		dl.dir = "."
	}

	for _, opt := range opts {
		opt(&dl)
	}

	return &dl
}

// Fetch downloads the resource at url into the downloader's directory
// and returns a scoped handle to it. The file keeps the resource's
// base name as suffix so consumers can infer the format from the
// extension.
func (d *Downloader) Fetch(ctx context.Context, url string) (file *File, err error) {
	logdetail(fmt.Sprintf("downloading %s", url))

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if d.cookie != "" {
		req.Header.Set("Cookie", d.cookie)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("received unexpected response when downloading file: http%d", resp.StatusCode)
	}

	out, err := os.CreateTemp(d.dir, "*-"+path.Base(req.URL.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to create file in %s: %w", d.dir, err)
	}

	// the partial file is not left behind when the transfer fails
	defer func() {
		if err != nil {
			os.Remove(out.Name())
		}
	}()
	defer out.Close()

	data, finish := progress(resp.Body, resp.ContentLength)
	defer finish()

	if _, err := io.Copy(out, data); err != nil {
		return nil, fmt.Errorf("failed to copy data to file %s: %w", out.Name(), err)
	}

	return &File{path: out.Name()}, nil
}

// progress wraps an io.Reader to display a progress bar when running in a terminal.
// Returns the wrapped reader and a function to finalize the progress display.
func progress(reader io.Reader, size int64) (io.Reader, func()) {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return reader, func() {}
	}

	bar := pb.
		New64(size).
		SetTemplate(
			pb.ProgressBarTemplate(
				color.New(color.FgHiBlack).Sprint(
					`   └ {{string . "prefix"}}{{counters . }}` +
						` {{bar . "[" "=" ">" " " "]" }} {{percent . }}` +
						` {{speed . }} {{string . "suffix"}}`,
				),
			),
		).
		SetRefreshRate(time.Second / 60).
		SetMaxWidth(100).
		Start()

	return bar.NewProxyReader(reader), func() { bar.Finish() }
}

func logdetail(text string) {
	fmt.Println(
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}
