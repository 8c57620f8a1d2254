package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inamate/inamate/canvas-go/internal/object"
	"github.com/inamate/inamate/canvas-go/internal/typeid"
)

var (
	ErrAssetNotFound    = errors.New("asset not found")
	ErrSourceNotAllowed = errors.New("image source not allowed")
)

const (
	// maxFetchSize caps remote image downloads.
	maxFetchSize        = 32 << 20
	defaultFetchTimeout = 10 * time.Second
	maxRedirects        = 5
)

// Loader resolves image sources to decoded bitmaps. Only stored assets
// ("/assets/<asset id>.png") resolve by default. Remote http(s) sources
// need their host on the allow-list, and bare file paths need
// WithLocalFiles; both stay confined to what the options grant.
type Loader struct {
	dir     string
	maxDim  int
	local   bool
	hosts   map[string]bool
	timeout time.Duration
	client  *http.Client
}

type LoaderOption func(*Loader)

// WithRemoteHosts allows fetching from the given hosts. Entries match the
// URL host exactly, so "cdn.local:8443" is needed for a non-default port.
func WithRemoteHosts(hosts ...string) LoaderOption {
	return func(l *Loader) {
		for _, h := range hosts {
			if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
				l.hosts[h] = true
			}
		}
	}
}

// WithFetchTimeout bounds each remote fetch, redirects included.
func WithFetchTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = d }
}

// WithLocalFiles resolves relative paths under the asset directory. It is
// meant for command line use; the server never enables it.
func WithLocalFiles() LoaderOption {
	return func(l *Loader) { l.local = true }
}

func NewLoader(dir string, maxDim int, opts ...LoaderOption) *Loader {
	l := &Loader{dir: dir, maxDim: maxDim, hosts: make(map[string]bool), timeout: defaultFetchTimeout}
	for _, opt := range opts {
		opt(l)
	}
	l.client = &http.Client{
		Timeout: l.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.New("too many redirects")
			}
			if !l.hostAllowed(req.URL) {
				return fmt.Errorf("redirect to %s: %w", req.URL.Host, ErrSourceNotAllowed)
			}
			return nil
		},
	}
	return l
}

func (l *Loader) hostAllowed(u *url.URL) bool {
	return l.hosts[strings.ToLower(u.Host)]
}

func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("source %q: %w", src, ErrSourceNotAllowed)
	}
	switch u.Scheme {
	case "http", "https":
		return l.fetch(ctx, u)
	case "":
	default:
		return nil, fmt.Errorf("source %q: %w", src, ErrSourceNotAllowed)
	}

	if name, ok := strings.CutPrefix(src, "/assets/"); ok {
		id := strings.TrimSuffix(name, ".png")
		if err := typeid.Validate(id, typeid.PrefixAsset); err != nil {
			return nil, fmt.Errorf("asset %s: %w", src, ErrAssetNotFound)
		}
		return l.openInDir(src, id+".png")
	}
	if l.local && filepath.IsLocal(src) {
		return l.openInDir(src, src)
	}
	return nil, fmt.Errorf("source %q: %w", src, ErrSourceNotAllowed)
}

// openInDir opens name inside the asset directory. os.OpenInRoot refuses
// paths and symlinks that leave it.
func (l *Loader) openInDir(src, name string) (io.ReadCloser, error) {
	f, err := os.OpenInRoot(l.dir, name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("asset %s: %w", src, ErrAssetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w: %v", src, ErrSourceNotAllowed, err)
	}
	return f, nil
}

func (l *Loader) fetch(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	if !l.hostAllowed(u) {
		return nil, fmt.Errorf("fetch %s: %w", u.Redacted(), ErrSourceNotAllowed)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u.Redacted(), err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d: %w", u.Redacted(), resp.StatusCode, ErrAssetNotFound)
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(resp.Body, maxFetchSize), resp.Body}, nil
}

// Load reads and decodes src.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	rc, err := l.open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, _, err := Decode(rc, l.maxDim)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src, err)
	}
	return img, nil
}

// LoadImage loads src on a new goroutine and hands a new image shape, or
// the error, to done. done runs on that goroutine. Cancelling ctx aborts
// remote fetches; done is still called.
func (l *Loader) LoadImage(ctx context.Context, src string, done func(*object.Image, error), opts ...object.Option) {
	go func() {
		img, err := l.Load(ctx, src)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			slog.Warn("load image", "src", src, "error", err)
			done(nil, err)
			return
		}
		done(object.NewImage(img, src, opts...), nil)
	}()
}

// collectImages finds image shapes without a bitmap, descending into groups.
func collectImages(shapes []object.Shape, out []*object.Image) []*object.Image {
	for _, s := range shapes {
		switch v := s.(type) {
		case *object.Image:
			if v.Element() == nil && v.Src() != "" {
				out = append(out, v)
			}
		case *object.Group:
			out = collectImages(v.Objects(), out)
		}
	}
	return out
}

// Hydrate loads the bitmaps of every unloaded image among shapes. Sources
// are fetched concurrently; the shapes are only touched after all loads
// finish, on the calling goroutine. Sources that fail to load are logged
// and left empty.
func (l *Loader) Hydrate(ctx context.Context, shapes []object.Shape) error {
	images := collectImages(shapes, nil)
	if len(images) == 0 {
		return nil
	}

	var mu sync.Mutex
	loaded := make(map[string]image.Image)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	seen := make(map[string]bool)
	for _, im := range images {
		src := im.Src()
		if seen[src] {
			continue
		}
		seen[src] = true
		g.Go(func() error {
			img, err := l.Load(gctx, src)
			if err != nil {
				slog.Warn("hydrate image", "src", src, "error", err)
				return nil
			}
			mu.Lock()
			loaded[src] = img
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, im := range images {
		if img, ok := loaded[im.Src()]; ok {
			im.SetElement(img)
		}
	}
	return nil
}
