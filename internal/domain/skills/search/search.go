package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"smartface-server-go/internal/platform/config"
	platformerrors "smartface-server-go/internal/platform/errors"
)

// Skill answers factual questions from Wikipedia. It searches for candidate
// pages first, then reads the summary of the best one.
type Skill struct {
	httpClient *http.Client
	baseURL    string
}

func New(cfg config.SearchConfig) *Skill {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org"
	}
	return &Skill{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Search looks the query up and returns a spoken answer. Not-found outcomes
// are answers, not errors.
func (s *Skill) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "I need something to search for. What would you like to know?", nil
	}

	titles, err := s.searchTitles(ctx, query)
	if err != nil {
		return "", err
	}
	if len(titles) == 0 {
		return notFound(query), nil
	}

	for i, title := range titles {
		summary, err := s.pageSummary(ctx, title)
		if err != nil {
			return "", err
		}
		if summary.Type == "disambiguation" {
			options := titles[i+1:]
			if len(options) > 3 {
				options = options[:3]
			}
			if len(options) == 0 {
				continue
			}
			return fmt.Sprintf("I found multiple results for '%s'. Did you mean: %s?",
				query, strings.Join(options, ", ")), nil
		}
		if summary.Extract != "" {
			return "According to Wikipedia: " + summary.Extract, nil
		}
	}
	return notFound(query), nil
}

func notFound(query string) string {
	return fmt.Sprintf("I couldn't find detailed information about '%s' in my knowledge base. Try asking a more specific question or search online.", query)
}

// searchTitles uses the opensearch API, which answers with a positional
// array: [query, titles, descriptions, urls].
func (s *Skill) searchTitles(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", query)
	params.Set("limit", "5")
	params.Set("format", "json")

	body, err := s.get(ctx, s.baseURL+"/w/api.php?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSkill, "search.titles", "decode search response failed", err)
	}
	if len(raw) < 2 {
		return nil, nil
	}
	var titles []string
	if err := sonic.Unmarshal(raw[1], &titles); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSkill, "search.titles", "decode title list failed", err)
	}
	return titles, nil
}

type pageSummary struct {
	Type    string `json:"type"`
	Extract string `json:"extract"`
}

func (s *Skill) pageSummary(ctx context.Context, title string) (pageSummary, error) {
	body, err := s.get(ctx, s.baseURL+"/api/rest_v1/page/summary/"+url.PathEscape(title))
	if err != nil {
		return pageSummary{}, err
	}
	var summary pageSummary
	if err := sonic.Unmarshal(body, &summary); err != nil {
		return pageSummary{}, platformerrors.Wrap(platformerrors.KindSkill, "search.summary", "decode summary failed", err)
	}
	return summary, nil
}

func (s *Skill) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSkill, "search.get", "build request failed", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindSkill, "search.get", "search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []byte("{}"), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, platformerrors.New(platformerrors.KindSkill, "search.get",
			fmt.Sprintf("search api returned status %d", resp.StatusCode))
	}
	return io.ReadAll(resp.Body)
}
