// internal/words/dictionary.go
//
// Client for a Free Dictionary API compatible service.
//
// A word is valid when GET <base>/<word> answers 2xx with a JSON array whose
// first entry lists at least one meaning. 404 is a definitive "no"; any other
// failure (transport, 5xx, bad JSON) is returned as an error so callers can
// tell it apart from a real miss.

package words

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultDictionaryURL is the public Free Dictionary API endpoint.
const DefaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"

// Dictionary validates words against a remote dictionary.
type Dictionary struct {
	base   string
	client *http.Client
}

// NewDictionary returns a client for base. A nil client gets a 10s timeout.
func NewDictionary(base string, client *http.Client) *Dictionary {
	if base == "" {
		base = DefaultDictionaryURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Dictionary{base: base, client: client}
}

type entry struct {
	Word     string            `json:"word"`
	Meanings []json.RawMessage `json:"meanings"`
}

// Validate looks word up in the remote dictionary.
func (d *Dictionary) Validate(ctx context.Context, word string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.base+url.PathEscape(word), nil)
	if err != nil {
		return false, fmt.Errorf("dictionary request %q: %w", word, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("dictionary lookup %q: %w", word, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("dictionary lookup %q: status %d", word, resp.StatusCode)
	}

	var entries []entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return false, fmt.Errorf("dictionary decode %q: %w", word, err)
	}
	return len(entries) > 0 && len(entries[0].Meanings) > 0, nil
}
