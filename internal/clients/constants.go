package clients

import "time"

const (
	SEARCH_TIMEOUT = 10 * time.Second
	FETCH_TIMEOUT  = 20 * time.Second

	// Extra full passes over the URL variations after the first one fails.
	MAX_RETRIES     = 1
	INITIAL_BACKOFF = 3 * time.Second
	MAX_BACKOFF     = 10 * time.Second
)

// Realistic browser identities rotated across requests. Overridden as a
// whole by OUTBOUND_USER_AGENT when operators need a fixed identity.
var USER_AGENTS = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}
