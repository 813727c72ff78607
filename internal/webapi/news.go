package webapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

const defaultNewsURL = "https://newsapi.org"

// News fetches top headlines from NewsAPI.
type News struct {
	rest    *resty.Client
	apiKey  string
	country string
	limit   int
}

// NewNews builds the client; country as in NewsAPI country codes ("us", "in").
func NewNews(apiKey, baseURL, country string, httpClient *http.Client) *News {
	if baseURL == "" {
		baseURL = defaultNewsURL
	}
	if country == "" {
		country = "us"
	}
	return &News{
		rest:    restyClient(httpClient).SetBaseURL(baseURL),
		apiKey:  apiKey,
		country: country,
		limit:   5,
	}
}

type newsResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// Headlines returns a spoken summary of the top headlines, optionally
// filtered by topic.
func (n *News) Headlines(ctx context.Context, topic string) (string, error) {
	if n.apiKey == "" {
		return "News service is not configured properly.", fmt.Errorf("news api key not set")
	}

	req := n.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"country": n.country,
			"apiKey":  n.apiKey,
		})
	if topic != "" {
		req.SetQueryParam("q", topic)
	}

	var out newsResponse
	resp, err := req.SetResult(&out).Get("/v2/top-headlines")
	if err != nil {
		return "There was an error getting the news.", err
	}
	if resp.IsError() || out.Status != "ok" {
		return "Sorry, I couldn't fetch the news at the moment.",
			fmt.Errorf("news api: status %d %q", resp.StatusCode(), out.Status)
	}
	if len(out.Articles) == 0 {
		if topic != "" {
			return fmt.Sprintf("No recent news found about %s.", topic), nil
		}
		return "No news headlines available at the moment.", nil
	}

	articles := out.Articles
	if len(articles) > n.limit {
		articles = articles[:n.limit]
	}
	var b strings.Builder
	b.WriteString("Here are the top news headlines: ")
	for i, a := range articles {
		fmt.Fprintf(&b, "%d. %s. ", i+1, a.Title)
	}
	return strings.TrimSpace(b.String()), nil
}
