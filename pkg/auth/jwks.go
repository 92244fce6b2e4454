package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeySet is the JWKS document published by the identity gateway for
// asymmetric token verification.
type KeySet struct {
	Keys []WebKey `json:"keys"`
}

type WebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeyProvider caches gateway signing keys by kid and refreshes on miss, at
// most once per minute.
type KeyProvider struct {
	mu        sync.RWMutex
	keys      map[string]*WebKey
	url       string
	refreshed time.Time
}

func NewKeyProvider(jwksURL string) *KeyProvider {
	return &KeyProvider{
		url:  jwksURL,
		keys: make(map[string]*WebKey),
	}
}

// KeyFunc plugs into jwt.Parse for RS256 gateway tokens.
func (p *KeyProvider) KeyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}

	kid, ok := token.Header["kid"].(string)
	if !ok {
		return nil, fmt.Errorf("kid header not found")
	}

	key, err := p.Get(kid)
	if err != nil {
		return nil, err
	}
	return key.PublicKey()
}

func (p *KeyProvider) Get(kid string) (*WebKey, error) {
	p.mu.RLock()
	key, exists := p.keys[kid]
	p.mu.RUnlock()
	if exists {
		return key, nil
	}

	if err := p.refresh(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	key, exists = p.keys[kid]
	p.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("signing key %q not found", kid)
	}
	return key, nil
}

func (p *KeyProvider) refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Rate limit refresh (1 min)
	if time.Since(p.refreshed) < time.Minute && len(p.keys) > 0 {
		return nil
	}

	resp, err := http.Get(p.url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var set KeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return err
	}

	p.keys = make(map[string]*WebKey, len(set.Keys))
	for _, k := range set.Keys {
		k := k
		p.keys[k.Kid] = &k
	}
	p.refreshed = time.Now()
	return nil
}

func (k *WebKey) PublicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}

	n := new(big.Int).SetBytes(nBytes)

	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}

	return &rsa.PublicKey{N: n, E: e}, nil
}
