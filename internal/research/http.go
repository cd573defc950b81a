package research

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	acceptEncoding = "gzip"
	maxBodyBytes   = 2 << 20
)

var errInvalidJSON = errors.New("response is not valid json")

// getJSON fetches endpoint with q and returns the parsed JSON document.
func (r *Researcher) getJSON(ctx context.Context, endpoint string, q url.Values) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return gjson.Result{}, err
	}

	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", acceptEncoding)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	r.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := r.client.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return gjson.Result{}, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		return gjson.Result{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("bad status: %s", resp.Status)
	}

	if !gjson.ValidBytes(data) {
		return gjson.Result{}, errInvalidJSON
	}

	return gjson.ParseBytes(data), nil
}
