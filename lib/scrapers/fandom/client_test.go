package fandom

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"kenshidata/lib/telemetry"
)

const ironPlatePage = `<html><body>
<h1 class="page-header__title">Iron Plate</h1>
<div class="mw-parser-output">
<p>Iron Plates are a basic building material refined from raw iron ore.</p>
</div>
</body></html>`

const weaponsIndexPage = `<html><body>
<h1 class="page-header__title">Weapons</h1>
<div class="mw-parser-output">
<p>Weapon types of Kenshi.</p>
<table class="navbox"><tr>
<td><a href="/wiki/Ringed_Sabre">Ringed Sabre</a></td>
<td><a href="/wiki/Iron_Plate">Iron Plate</a></td>
<td><a href="/wiki/Ringed_Sabre">Ringed Sabre</a></td>
<td><a href="/wiki/Category:Weapons">Weapons</a></td>
<td><a href="/wiki/Weapons">Weapons</a></td>
</tr></table>
</div>
</body></html>`

const armourIndexPage = `<html><body>
<h1 class="page-header__title">Armour</h1>
<div class="mw-parser-output">
<p>Armour of Kenshi, linked from a plain table.</p>
<table><tr>
<td><a href="/wiki/Leather_Shirt">Leather Shirt</a></td>
</tr></table>
</div>
</body></html>`

func newTestWiki(t testing.TB, hits *atomic.Int64) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/wiki/Iron_Plate", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(ironPlatePage))
	})
	mux.HandleFunc("/wiki/Weapons", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(weaponsIndexPage))
	})
	mux.HandleFunc("/wiki/Armour", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(armourIndexPage))
	})
	mux.HandleFunc("/wiki/Forbidden", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClient(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/fandom")
	defer cleanup()

	ctx, span := tracer.Start(context.Background(), "TestClient")
	defer span.End()

	var hits atomic.Int64
	server := newTestWiki(t, &hits)

	cache, err := badger.Open(badger.DefaultOptions("").WithInMemory(true))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	client, err := NewClient(ClientOptions{
		BaseUrl: server.URL,
		Cache:   cache,
	})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Fetch", func(t *testing.T) {
		raw, err := client.Fetch(ctx, RefFromTitle("Iron Plate"))
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, "Iron_Plate", raw.Ref.Slug)
		require.Equal(t, []byte(ironPlatePage), raw.Body)
		require.False(t, raw.FetchedAt.IsZero())
		require.Equal(t, int64(1), hits.Load())
	})

	t.Run("FetchCached", func(t *testing.T) {
		raw, err := client.Fetch(ctx, RefFromTitle("Iron Plate"))
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, []byte(ironPlatePage), raw.Body)
		// the page came out of the cache, not the network
		require.Equal(t, int64(1), hits.Load())
	})

	t.Run("FetchNotFound", func(t *testing.T) {
		_, err := client.Fetch(ctx, RefFromTitle("Does Not Exist"))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("FetchUnexpectedStatus", func(t *testing.T) {
		_, err := client.Fetch(ctx, RefFromTitle("Forbidden"))
		require.ErrorIs(t, err, ErrNetwork)
	})

	t.Run("IndexPages", func(t *testing.T) {
		refs, err := client.IndexPages(ctx, RefFromTitle("Weapons"))
		if err != nil {
			t.Fatal(err)
		}
		// duplicates, category links and the index itself are dropped
		require.Equal(t, []PageRef{
			{Title: "Ringed Sabre", Slug: "Ringed_Sabre"},
			{Title: "Iron Plate", Slug: "Iron_Plate"},
		}, refs)
	})

	t.Run("IndexPagesTableFallback", func(t *testing.T) {
		refs, err := client.IndexPages(ctx, RefFromTitle("Armour"))
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, []PageRef{
			{Title: "Leather Shirt", Slug: "Leather_Shirt"},
		}, refs)
	})
}

func TestClientWithoutCache(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/fandom")
	defer cleanup()

	var hits atomic.Int64
	server := newTestWiki(t, &hits)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := client.Fetch(ctx, RefFromTitle("Iron Plate"))
		if err != nil {
			t.Fatal(err)
		}
	}
	require.Equal(t, int64(2), hits.Load())
}
