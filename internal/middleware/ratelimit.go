package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit throttles requests per client IP. The rate uses the limiter
// formatted syntax, e.g. "60-M" for sixty requests per minute. State lives
// in process memory, which is enough for a single instance.
func RateLimit(rateFormat string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(rateFormat)
	if err != nil {
		zlog.Fatal().Err(err).Str("rate", rateFormat).Msg("invalid rate limit format")
	}

	instance := limiter.New(memory.NewStore(), rate)
	handler := stdlib.NewMiddleware(instance)

	return func(c *gin.Context) {
		handler.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if c.Writer.Status() == http.StatusTooManyRequests {
			c.Abort()
		}
	}
}
