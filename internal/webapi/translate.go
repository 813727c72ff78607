package webapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const defaultTranslateURL = "https://libretranslate.de"

// Translator talks to a LibreTranslate instance. The api key is optional on
// public instances.
type Translator struct {
	rest   *resty.Client
	apiKey string
}

func NewTranslator(apiKey, baseURL string, httpClient *http.Client) *Translator {
	if baseURL == "" {
		baseURL = defaultTranslateURL
	}
	return &Translator{
		rest:   restyClient(httpClient).SetBaseURL(baseURL),
		apiKey: apiKey,
	}
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// Translate converts text between base language codes ("en", "es"). On any
// failure it returns the original text along with the error, so a broken
// translation service degrades to untranslated speech.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == target && source != "auto" {
		return text, nil
	}

	body := map[string]string{
		"q":      text,
		"source": source,
		"target": target,
		"format": "text",
	}
	if t.apiKey != "" {
		body["api_key"] = t.apiKey
	}

	var out translateResponse
	resp, err := t.rest.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		Post("/translate")
	if err != nil {
		return text, err
	}
	if resp.IsError() || out.TranslatedText == "" {
		return text, fmt.Errorf("translate api: status %d", resp.StatusCode())
	}
	return out.TranslatedText, nil
}
