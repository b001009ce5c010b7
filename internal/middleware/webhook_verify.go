package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"omnistock/internal/config"

	"github.com/labstack/echo/v4"
)

// Webhook authenticity checks, one per channel scheme. A channel whose
// secret is not configured passes through unchecked.

// VerifyShopifyWebhook checks the X-Shopify-Hmac-Sha256 header against an
// HMAC-SHA256 of the raw request body.
func VerifyShopifyWebhook(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.ShopifyWebhookSecret == "" {
				return next(c)
			}

			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return c.JSON(http.StatusBadRequest, errorJSON("unreadable body"))
			}
			// The handler still needs to bind the payload.
			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			mac := hmac.New(sha256.New, []byte(cfg.ShopifyWebhookSecret))
			mac.Write(body)
			expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

			got := c.Request().Header.Get("X-Shopify-Hmac-Sha256")
			if got == "" || !hmac.Equal([]byte(got), []byte(expected)) {
				return c.JSON(http.StatusUnauthorized, errorJSON("invalid hmac"))
			}

			return next(c)
		}
	}
}

// VerifyMercadoLibreWebhook requires the notification headers MercadoLibre
// always sends. Only header presence is checked; the signature itself is
// not validated.
func VerifyMercadoLibreWebhook(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.MercadoLibreSecret == "" {
				return next(c)
			}

			if c.Request().Header.Get("X-Signature") == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("missing signature"))
			}

			return next(c)
		}
	}
}

// VerifyTiendaNubeWebhook requires the store's bearer token.
func VerifyTiendaNubeWebhook(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.TiendaNubeToken == "" {
				return next(c)
			}

			authz := c.Request().Header.Get("Authorization")
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") ||
				strings.TrimSpace(parts[1]) != cfg.TiendaNubeToken {
				return c.JSON(http.StatusUnauthorized, errorJSON("invalid token"))
			}

			return next(c)
		}
	}
}
