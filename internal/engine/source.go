package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// fetch reads the whole source into memory, reporting progress in percent.
// Remote sources are fetched over HTTP; anything else is a local path.
func fetch(ctx context.Context, client *http.Client, source string, progress func(int)) ([]byte, string, error) {
	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return fetchHTTP(ctx, client, source, progress)
	}

	p := source
	if err == nil && u.Scheme == "file" {
		p = u.Path
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	progress(100)
	return data, "", nil
}

func fetchHTTP(ctx context.Context, client *http.Client, source string, progress func(int)) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch %s: %s", source, resp.Status)
	}

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	chunk := make([]byte, 32*1024)
	last := -1
	for {
		n, rerr := resp.Body.Read(chunk)
		buf.Write(chunk[:n])
		if resp.ContentLength > 0 {
			if pct := int(int64(buf.Len()) * 100 / resp.ContentLength); pct != last && pct < 100 {
				last = pct
				progress(pct)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, "", rerr
		}
	}
	progress(100)
	return buf.Bytes(), resp.Header.Get("Content-Type"), nil
}

// codec picks a decoder from the content type, falling back to the file
// extension and finally to mp3.
func codec(source, contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "wav"):
		return "wav"
	case strings.Contains(ct, "flac"):
		return "flac"
	case strings.Contains(ct, "ogg"), strings.Contains(ct, "vorbis"):
		return "vorbis"
	case strings.Contains(ct, "mpeg"), strings.Contains(ct, "mp3"):
		return "mp3"
	}

	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".wav", ".wave":
		return "wav"
	case ".flac":
		return "flac"
	case ".ogg", ".oga":
		return "vorbis"
	default:
		return "mp3"
	}
}

func decode(data []byte, kind string) (beep.StreamSeekCloser, beep.Format, error) {
	r := nopCloser{bytes.NewReader(data)}
	switch kind {
	case "wav":
		return wav.Decode(r)
	case "flac":
		return flac.Decode(r)
	case "vorbis":
		return vorbis.Decode(r)
	default:
		return mp3.Decode(r)
	}
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
