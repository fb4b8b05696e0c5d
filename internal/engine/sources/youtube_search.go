package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

const ytInitialDataMarker = "var ytInitialData = "

// --- YouTube Data API v3 types ---

type ytDataSearchResp struct {
	Items []ytDataItem `json:"items"`
}

type ytDataItem struct {
	ID      ytDataItemID      `json:"id"`
	Snippet ytDataItemSnippet `json:"snippet"`
}

type ytDataItemID struct {
	VideoID string `json:"videoId"`
}

type ytDataThumb struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ytDataItemSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnails   struct {
		Default  *ytDataThumb `json:"default"`
		Medium   *ytDataThumb `json:"medium"`
		High     *ytDataThumb `json:"high"`
		Standard *ytDataThumb `json:"standard"`
		Maxres   *ytDataThumb `json:"maxres"`
	} `json:"thumbnails"`
}

type ytDataVideosResp struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// --- ytInitialData scraping types ---

type ytRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (r ytRuns) first() string {
	if len(r.Runs) == 0 {
		return ""
	}
	return r.Runs[0].Text
}

type ytVideoRenderer struct {
	VideoID    string `json:"videoId"`
	Title      ytRuns `json:"title"`
	OwnerText  ytRuns `json:"ownerText"`
	LengthText *struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
	Thumbnail struct {
		Thumbnails []engine.Thumbnail `json:"thumbnails"`
	} `json:"thumbnail"`
}

// Search returns up to the configured number of videos for phrase, in
// provider order. Uses the Data API when keys are configured; otherwise
// scrapes ytInitialData.
func (y *YouTube) Search(ctx context.Context, phrase string) ([]engine.RawResult, error) {
	if len(y.keys) > 0 {
		return y.searchDataAPI(ctx, phrase)
	}
	return y.searchInitialData(ctx, phrase)
}

// searchDataAPI searches via YouTube Data API v3.
// Automatically falls back to the secondary key on failure (quota 403s).
func (y *YouTube) searchDataAPI(ctx context.Context, phrase string) ([]engine.RawResult, error) {
	var lastErr error
	for _, key := range y.keys {
		videos, err := y.doDataSearch(ctx, phrase, key)
		if err == nil {
			y.fillDurations(ctx, videos, key)
			return videos, nil
		}
		lastErr = err
		slog.Debug("youtube data API key failed, trying fallback", slog.Any("err", err))
	}
	return nil, lastErr
}

func (y *YouTube) getJSON(ctx context.Context, apiURL string, out any) error {
	engine.IncrYouTubeDataAPIRequests()
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		return y.do(ctx, req)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (y *YouTube) doDataSearch(ctx context.Context, phrase, apiKey string) ([]engine.RawResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", phrase)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(min(y.limit, ytDataAPIMaxLim)))
	params.Set("key", apiKey)

	var result ytDataSearchResp
	if err := y.getJSON(ctx, y.dataAPIBase+"/search?"+params.Encode(), &result); err != nil {
		return nil, fmt.Errorf("youtube data API search: %w", err)
	}

	videos := make([]engine.RawResult, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, engine.RawResult{
			ID:         item.ID.VideoID,
			Title:      item.Snippet.Title,
			URL:        ytWatchURL + item.ID.VideoID,
			Channel:    item.Snippet.ChannelTitle,
			Thumbnails: dataThumbnails(item.Snippet),
		})
	}
	return videos, nil
}

// fillDurations looks up contentDetails for the found videos. A failed
// lookup leaves durations empty rather than failing the search.
func (y *YouTube) fillDurations(ctx context.Context, videos []engine.RawResult, apiKey string) {
	if len(videos) == 0 {
		return
	}
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", strings.Join(ids, ","))
	params.Set("key", apiKey)

	var result ytDataVideosResp
	if err := y.getJSON(ctx, y.dataAPIBase+"/videos?"+params.Encode(), &result); err != nil {
		slog.Warn("youtube: duration lookup failed", slog.Any("error", err))
		return
	}

	lengths := make(map[string]string, len(result.Items))
	for _, item := range result.Items {
		lengths[item.ID] = isoToClock(item.ContentDetails.Duration)
	}
	for i := range videos {
		videos[i].Length = lengths[videos[i].ID]
	}
}

// dataThumbnails lists the snippet thumbnails smallest first.
func dataThumbnails(s ytDataItemSnippet) []engine.Thumbnail {
	var out []engine.Thumbnail
	for _, t := range []*ytDataThumb{s.Thumbnails.Default, s.Thumbnails.Medium, s.Thumbnails.High, s.Thumbnails.Standard, s.Thumbnails.Maxres} {
		if t != nil && t.URL != "" {
			out = append(out, engine.Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
		}
	}
	return out
}

var isoDurationRE = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// isoToClock converts an ISO-8601 duration ("PT1H2M3S") to the clock text
// shown on the results page ("1:02:03", "3:49"). Live streams ("P0D") and
// unparseable input yield "".
func isoToClock(iso string) string {
	m := isoDurationRE.FindStringSubmatch(iso)
	if m == nil {
		return ""
	}
	n := func(s string) int {
		v, _ := strconv.Atoi(s)
		return v
	}
	days, h, mins, s := n(m[1]), n(m[2]), n(m[3]), n(m[4])
	h += days * 24
	if h == 0 && mins == 0 && s == 0 {
		return ""
	}
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, s)
	}
	return fmt.Sprintf("%d:%02d", mins, s)
}

// searchInitialData scrapes YouTube search results by parsing ytInitialData.
func (y *YouTube) searchInitialData(ctx context.Context, phrase string) ([]engine.RawResult, error) {
	searchURL := y.resultsURL + "?search_query=" + url.QueryEscape(phrase) + "&sp=" + ytSearchFilter

	body, err := y.fetchResultsPage(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("youtube search page: %w", err)
	}

	idx := bytes.Index(body, []byte(ytInitialDataMarker))
	if idx < 0 {
		return nil, fmt.Errorf("ytInitialData not found in YouTube search response")
	}
	jsonData := extractJSON(body[idx+len(ytInitialDataMarker):])
	if jsonData == nil {
		return nil, fmt.Errorf("failed to extract ytInitialData JSON")
	}
	return extractVideosFromInitialData(jsonData, y.limit), nil
}

// fetchResultsPage GETs the results page with exponential backoff on
// retryable statuses.
func (y *YouTube) fetchResultsPage(ctx context.Context, searchURL string) ([]byte, error) {
	engine.IncrYouTubeScrapeRequests()

	operation := func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := y.do(ctx, req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		defer resp.Body.Close()

		if engine.IsRetryableStatus(resp.StatusCode) {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, ytMaxPageBytes))
		if err != nil {
			return nil, fmt.Errorf("read youtube search response: %w", err)
		}
		return body, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	return backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(3), backoff.WithMaxElapsedTime(20*time.Second))
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

// extractVideosFromInitialData walks ytInitialData JSON for videoRenderer
// entries in document order.
func extractVideosFromInitialData(data []byte, limit int) []engine.RawResult {
	var results []engine.RawResult
	var walk func(v json.RawMessage)
	walk = func(v json.RawMessage) {
		if len(results) >= limit {
			return
		}
		v = bytes.TrimSpace(v)
		if len(v) == 0 {
			return
		}
		switch v[0] {
		case '{':
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(v, &obj); err != nil {
				return
			}
			if raw, ok := obj["videoRenderer"]; ok {
				var vr ytVideoRenderer
				if err := json.Unmarshal(raw, &vr); err == nil && vr.VideoID != "" {
					results = append(results, rendererToResult(vr))
					return
				}
			}
			// Map iteration is unordered; walk keys in document order.
			for _, key := range orderedKeys(v) {
				if len(results) >= limit {
					return
				}
				walk(obj[key])
			}
		case '[':
			var arr []json.RawMessage
			if err := json.Unmarshal(v, &arr); err != nil {
				return
			}
			for _, item := range arr {
				if len(results) >= limit {
					return
				}
				walk(item)
			}
		}
	}
	walk(data)
	return results
}

func rendererToResult(vr ytVideoRenderer) engine.RawResult {
	length := ""
	if vr.LengthText != nil {
		length = vr.LengthText.SimpleText
	}
	return engine.RawResult{
		ID:         vr.VideoID,
		Title:      vr.Title.first(),
		URL:        ytWatchURL + vr.VideoID,
		Length:     length,
		Channel:    vr.OwnerText.first(),
		Thumbnails: vr.Thumbnail.Thumbnails,
	}
}

// orderedKeys returns the top-level keys of a JSON object in source order.
func orderedKeys(obj json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(obj))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}
