package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/odilorg/invoiceflow-saas-sub000/database"
	"github.com/odilorg/invoiceflow-saas-sub000/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// idemStore is the narrow storage surface the idempotency guard needs.
// The GORM implementation uses its own short transactions so stored
// responses survive a rolled back handler TX.
type idemStore interface {
	// FindOrCreate returns the record for rec.Key, creating rec as
	// "pending" (ResponseStatus 0) when the key is new.
	FindOrCreate(rec *models.IdempotencyKey) (*models.IdempotencyKey, error)
	SaveResponse(key string, status int, body []byte) error
}

type gormIdemStore struct{}

func (gormIdemStore) FindOrCreate(rec *models.IdempotencyKey) (*models.IdempotencyKey, error) {
	var existing models.IdempotencyKey
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ?", rec.Key).First(&existing).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			// Not found -> create "pending"
			if e2 := tx.Create(rec).Error; e2 != nil {
				// Could be unique race: read again
				return tx.Where("key = ?", rec.Key).First(&existing).Error
			}
			existing = *rec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (gormIdemStore) SaveResponse(key string, status int, body []byte) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		return tx.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   body,
				"completed_at":    &now,
			}).Error
	})
}

// Idempotency processes Idempotency-Key for mutating HTTP methods. A key
// whose response is already stored is replayed verbatim; the handler chain
// never runs a second time.
func Idempotency() fiber.Handler {
	return idempotencyWithStore(gormIdemStore{})
}

func idempotencyWithStore(store idemStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Idempotency-Key too long"})
		}

		userID, _ := c.Locals("userID").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "auth context missing"})
		}

		path := c.OriginalURL() // includes query string
		body := c.Body()

		// Build deterministic request hash: method|path|body|user
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(body)
		h.Write([]byte{'\n'})
		h.Write([]byte(userID))
		reqHash := hex.EncodeToString(h.Sum(nil))

		rec := models.IdempotencyKey{
			Key:            key,
			RequestHash:    reqHash,
			Method:         method,
			Path:           path,
			UserID:         userID,
			ResponseStatus: 0,
		}
		existing, err := store.FindOrCreate(&rec)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
		}
		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			// Completed response stored: replay it, never re-run the handler.
			c.Status(existing.ResponseStatus)
			return c.Send(existing.ResponseBody)
		}

		// Pending/in-progress: run the handler once.
		if err := c.Next(); err != nil {
			return err
		}

		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		_ = store.SaveResponse(key, c.Response().StatusCode(), blob)

		return nil
	}
}
