package middleware

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"

	"decisio/internal/platform/metrics"
)

// Client channels derived from the User-Agent.
const (
	ChannelWeb    = "web"
	ChannelMobile = "mobile"
	ChannelBot    = "bot"
	ChannelAPI    = "api"
)

type channelKey struct{}

// Channel classifies the caller from its User-Agent and stores the channel
// tag in the context. Programmatic clients (curl, SDKs, empty user agents)
// classify as "api".
func Channel(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			channel := classifyChannel(r.UserAgent())
			if m != nil {
				m.IncrementChannel(channel)
			}

			ctx := context.WithValue(r.Context(), channelKey{}, channel)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetChannel retrieves the client channel from the context.
func GetChannel(ctx context.Context) string {
	if ch, ok := ctx.Value(channelKey{}).(string); ok {
		return ch
	}
	return ""
}

func classifyChannel(uaString string) string {
	if uaString == "" {
		return ChannelAPI
	}

	ua := useragent.New(uaString)
	switch {
	case ua.Bot():
		return ChannelBot
	case ua.Mobile():
		return ChannelMobile
	default:
		if name, _ := ua.Browser(); name != "" && ua.OS() != "" {
			return ChannelWeb
		}
		return ChannelAPI
	}
}
