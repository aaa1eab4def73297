package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a client retries a request
// with the same Idempotency-Key on the same route. Requests without the header
// pass through.
// Only 2xx responses are stored, so a failed checkout can be retried.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ownerID, ok := c.Get("user_id")
		if !ok {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}
		owner := ownerID.(uuid.UUID)
		route := c.Request.Method + " " + c.FullPath()

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.BadRequest(c, "Failed to read request body")
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])

		existing, err := config.Repo.Find(c.Request.Context(), owner, route, idempotencyKey)
		if err != nil {
			response.InternalServerError(c, "Failed to check idempotency key")
			c.Abort()
			return
		}

		if existing != nil && existing.LiveAt(time.Now()) {
			if existing.RequestHash != requestHash {
				response.ErrorWithCode(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used with a different request")
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		// Capture the response
		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 300 {
			ikey := &entity.IdempotencyKey{
				OwnerID:      owner,
				Route:        route,
				Key:          idempotencyKey,
				RequestHash:  requestHash,
				ResponseCode: status,
				ResponseBody: blw.body.String(),
				ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
			}
			if err := config.Repo.Save(c.Request.Context(), ikey); err != nil {
				log.Printf("[idempotency] failed to store key %s on %s: %v", idempotencyKey, route, err)
			}
		}
	}
}

// PurgeExpiredIdempotencyKeys deletes expired keys every interval until ctx is done
func PurgeExpiredIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpired(ctx, time.Now())
			if err != nil {
				log.Printf("[idempotency] failed to purge expired keys: %v", err)
			} else if n > 0 {
				log.Printf("[idempotency] purged %d expired keys", n)
			}
		}
	}
}
