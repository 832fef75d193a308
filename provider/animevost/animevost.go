// Package animevost implements the animevost.org source.
//
// Show pages and search results are scraped from the site HTML, episode
// playlists come from the site's JSON API.
package animevost

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anitrack-cli/anitrack/constant"
	"github.com/anitrack-cli/anitrack/network"
	"github.com/anitrack-cli/anitrack/source"
	"github.com/anitrack-cli/anitrack/track"
)

const (
	siteURL     = "https://animevost.org"
	playlistURL = "https://api.animevost.org/v1/playlist"
)

// Animevost scrapes animevost.org.
type Animevost struct {
	client *http.Client
	site   string
	api    string
}

// New returns the animevost source over the shared HTTP client.
func New() *Animevost {
	return &Animevost{
		client: network.Client,
		site:   siteURL,
		api:    playlistURL,
	}
}

func (a *Animevost) Name() string {
	return "Animevost"
}

func (a *Animevost) ID() string {
	return "animevost"
}

// Search runs the site's full-text search and returns matching shows.
func (a *Animevost) Search(query string) ([]*source.SearchResult, error) {
	if len([]rune(query)) < source.MinQueryLen {
		return nil, source.ErrQueryTooShort
	}

	form := url.Values{
		"do":           {"search"},
		"subaction":    {"search"},
		"search_start": {"0"},
		"full_search":  {"0"},
		"result_from":  {"1"},
		"story":        {query},
	}

	document, err := a.postDocument(a.site+"/index.php?do=search", form)
	if err != nil {
		return nil, err
	}

	var results []*source.SearchResult
	document.Find(".shortstory .shortstoryHead h1 a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		results = append(results, &source.SearchResult{
			Title: strings.TrimSpace(link.Text()),
			URL:   href,
		})
	})

	if len(results) == 0 {
		return nil, source.ErrNoResults
	}

	return results, nil
}

// Title fetches the display title from a show page.
func (a *Animevost) Title(showURL string) (string, error) {
	document, err := a.getDocument(showURL)
	if err != nil {
		return "", err
	}

	title := strings.TrimSpace(document.Find(".shortstoryHead h1").First().Text())
	if title == "" {
		return "", fmt.Errorf("no title found at %s", showURL)
	}

	return title, nil
}

type playlistEntry struct {
	Name string `json:"name"`
	HD   string `json:"hd"`
	Std  string `json:"std"`
}

// Episodes fetches the playlist for a show page, preferring HD streams.
func (a *Animevost) Episodes(showURL string) (map[string]string, error) {
	id, err := track.ParseID(showURL)
	if err != nil {
		return nil, err
	}

	form := url.Values{"id": {strconv.Itoa(id)}}

	res, err := a.post(a.api, form)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("playlist request failed: %s", res.Status)
	}

	contents, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var entries []playlistEntry
	if err = json.Unmarshal(contents, &entries); err != nil {
		return nil, fmt.Errorf("malformed playlist for %s: %w", showURL, err)
	}

	episodes := make(map[string]string, len(entries))
	for _, entry := range entries {
		streamURL := entry.HD
		if streamURL == "" {
			streamURL = entry.Std
		}

		if entry.Name == "" || streamURL == "" {
			continue
		}

		episodes[entry.Name] = streamURL
	}

	return episodes, nil
}

// Recent scrapes the release schedule from the front page.
func (a *Animevost) Recent() ([]*source.SearchResult, error) {
	document, err := a.getDocument(a.site)
	if err != nil {
		return nil, err
	}

	var results []*source.SearchResult
	document.Find(".raspis.raspis_fixed a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		results = append(results, &source.SearchResult{
			Title: strings.TrimSpace(link.Text()),
			URL:   href,
		})
	})

	if len(results) == 0 {
		return nil, source.ErrNoResults
	}

	return results, nil
}

func (a *Animevost) getDocument(rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", constant.UserAgent)

	res, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to %s failed: %s", rawURL, res.Status)
	}

	return goquery.NewDocumentFromReader(res.Body)
}

func (a *Animevost) post(rawURL string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return a.client.Do(req)
}

func (a *Animevost) postDocument(rawURL string, form url.Values) (*goquery.Document, error) {
	res, err := a.post(rawURL, form)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to %s failed: %s", rawURL, res.Status)
	}

	return goquery.NewDocumentFromReader(res.Body)
}
