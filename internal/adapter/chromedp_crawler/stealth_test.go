package chromedp_crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintsRotateProxies(t *testing.T) {
	f := NewFingerprints(nil, []string{"http://p1:8000", "http://p2:8000"})

	assert.Equal(t, "http://p1:8000", f.Proxy())
	assert.Equal(t, "http://p2:8000", f.Proxy())
	assert.Equal(t, "http://p1:8000", f.Proxy())
}

func TestFingerprintsNoProxy(t *testing.T) {
	assert.Empty(t, NewFingerprints(nil, nil).Proxy())
}

func TestFingerprintsUserAgent(t *testing.T) {
	assert.Contains(t, defaultUserAgents, NewFingerprints(nil, nil).UserAgent())
	assert.Equal(t, "custom-agent", NewFingerprints([]string{"custom-agent"}, nil).UserAgent())
}
