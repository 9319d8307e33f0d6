package eth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/golang-jwt/jwt/v5"
)

// newJWTAuth returns an HTTP auth hook that stamps each RPC request with a
// fresh HS256 bearer token. Authenticated endpoints accept tokens with an
// iat claim no older than a minute, so the token is minted per request
// rather than cached.
func newJWTAuth(secret string) rpc.HTTPAuth {
	key := []byte(secret)
	return func(h http.Header) error {
		claims := jwt.MapClaims{
			"iat": time.Now().Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString(key)
		if err != nil {
			return fmt.Errorf("signing rpc token: %w", err)
		}
		h.Set("Authorization", "Bearer "+tokenString)
		return nil
	}
}
