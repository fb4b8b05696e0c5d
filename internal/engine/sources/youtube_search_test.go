package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_ytplay/internal/engine"
)

func TestIsoToClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PT3M49S", "3:49"},
		{"PT45S", "0:45"},
		{"PT1H2M3S", "1:02:03"},
		{"PT2H", "2:00:00"},
		{"P1DT1H", "25:00:00"},
		{"P0D", ""},
		{"PT0S", ""},
		{"", ""},
		{"garbage", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, isoToClock(tt.in))
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", `{"a":1};var x`, `{"a":1}`},
		{"nested", `{"a":{"b":[1,{"c":2}]}} trailing`, `{"a":{"b":[1,{"c":2}]}}`},
		{"brace in string", `{"a":"}{"};`, `{"a":"}{"}`},
		{"escaped quote", `{"a":"x\"}"}rest`, `{"a":"x\"}"}`},
		{"not an object", `[1,2]`, ""},
		{"unterminated", `{"a":1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(extractJSON([]byte(tt.in))))
		})
	}
}

const initialDataPage = `<html><script>var ytInitialData = {"contents":{"sectionListRenderer":{"contents":[
{"itemSectionRenderer":{"contents":[
 {"adSlotRenderer":{"id":"ad"}},
 {"videoRenderer":{"videoId":"aaa","title":{"runs":[{"text":"Daft Punk Discovery full album"}]},
   "ownerText":{"runs":[{"text":"Daft Punk"}]},"lengthText":{"simpleText":"1:01:00"},
   "thumbnail":{"thumbnails":[{"url":"https://i.ytimg.com/vi/aaa/hq1.jpg?sqp=1","width":360,"height":202},
                              {"url":"https://i.ytimg.com/vi/aaa/hq2.jpg?sqp=2","width":720,"height":404}]}}},
 {"videoRenderer":{"videoId":"bbb","title":{"runs":[{"text":"Live radio"}]},
   "thumbnail":{"thumbnails":[{"url":"https://i.ytimg.com/vi/bbb/hq.jpg"}]}}},
 {"videoRenderer":{"videoId":"ccc","title":{"runs":[{"text":"Third"}]},"lengthText":{"simpleText":"4:10"}}}
]}}]}}};</script></html>`

func newTestYouTube(t *testing.T, h http.Handler, keys ...string) *YouTube {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := engine.Config{HTTPClient: srv.Client(), SearchLimit: 10}
	if len(keys) > 0 {
		cfg.YouTubeAPIKey = keys[0]
	}
	if len(keys) > 1 {
		cfg.YouTubeAPIKeyFallback = keys[1]
	}
	y := NewYouTube(cfg)
	y.dataAPIBase = srv.URL
	y.resultsURL = srv.URL + "/results"
	return y
}

func TestSearchInitialData(t *testing.T) {
	var gotQuery string
	y := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		fmt.Fprint(w, initialDataPage)
	}))

	got, err := y.Search(context.Background(), "discovery album")
	require.NoError(t, err)
	assert.Equal(t, "discovery album", gotQuery)
	require.Len(t, got, 3)

	first := got[0]
	assert.Equal(t, "aaa", first.ID)
	assert.Equal(t, "Daft Punk Discovery full album", first.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=aaa", first.URL)
	assert.Equal(t, "1:01:00", first.Length)
	assert.Equal(t, "Daft Punk", first.Channel)
	require.Len(t, first.Thumbnails, 2)
	assert.Equal(t, 720, first.Thumbnails[1].Width)

	assert.Equal(t, "", got[1].Length, "live entries have no length text")
	assert.Equal(t, []string{"aaa", "bbb", "ccc"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSearchInitialDataLimit(t *testing.T) {
	y := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, initialDataPage)
	}))
	y.limit = 2

	got, err := y.Search(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearchInitialDataMissingMarker(t *testing.T) {
	y := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>consent wall</html>")
	}))

	_, err := y.Search(context.Background(), "x")
	assert.ErrorContains(t, err, "ytInitialData not found")
}

func TestSearchInitialDataPermanentStatus(t *testing.T) {
	var calls atomic.Int32
	y := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := y.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "404 is not retried")
}

const dataSearchBody = `{"items":[
 {"id":{"videoId":"v1"},"snippet":{"title":"Song one","channelTitle":"Chan",
   "thumbnails":{"default":{"url":"https://i.ytimg.com/vi/v1/default.jpg","width":120,"height":90},
                 "high":{"url":"https://i.ytimg.com/vi/v1/hqdefault.jpg","width":480,"height":360}}}},
 {"id":{"channelId":"UCx"},"snippet":{"title":"A channel"}},
 {"id":{"videoId":"v2"},"snippet":{"title":"Song two","channelTitle":"Chan"}}
]}`

const dataVideosBody = `{"items":[
 {"id":"v1","contentDetails":{"duration":"PT3M49S"}},
 {"id":"v2","contentDetails":{"duration":"PT1H0M5S"}}
]}`

func TestSearchDataAPI(t *testing.T) {
	var videosIDs string
	y := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "primary", r.URL.Query().Get("key"))
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "video", r.URL.Query().Get("type"))
			assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
			fmt.Fprint(w, dataSearchBody)
		case "/videos":
			videosIDs = r.URL.Query().Get("id")
			fmt.Fprint(w, dataVideosBody)
		default:
			http.NotFound(w, r)
		}
	}), "primary")

	got, err := y.Search(context.Background(), "song")
	require.NoError(t, err)
	require.Len(t, got, 2, "non-video items are skipped")
	assert.Equal(t, "v1,v2", videosIDs)

	assert.Equal(t, "Song one", got[0].Title)
	assert.Equal(t, "3:49", got[0].Length)
	assert.Equal(t, "1:00:05", got[1].Length)
	require.Len(t, got[0].Thumbnails, 2)
	assert.True(t, strings.HasSuffix(got[0].Thumbnails[1].URL, "hqdefault.jpg"), "largest thumbnail last")
	assert.Empty(t, got[1].Thumbnails)
}

func TestSearchDataAPIKeyFallback(t *testing.T) {
	y := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") == "exhausted" {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":{"message":"quotaExceeded"}}`)
			return
		}
		if r.URL.Path == "/videos" {
			fmt.Fprint(w, dataVideosBody)
			return
		}
		fmt.Fprint(w, dataSearchBody)
	}), "exhausted", "spare")

	got, err := y.Search(context.Background(), "song")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearchDataAPIDurationFailure(t *testing.T) {
	y := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/videos" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, dataSearchBody)
	}), "primary")

	got, err := y.Search(context.Background(), "song")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "", got[0].Length)
}

func TestSearchDataAPIAllKeysFail(t *testing.T) {
	y := newTestYouTube(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}), "a", "b")

	_, err := y.Search(context.Background(), "song")
	assert.ErrorContains(t, err, "status 403")
}
