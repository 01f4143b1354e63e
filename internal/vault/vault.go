// internal/vault/vault.go
//
// Thin KV-v2 client used to resolve `vault:` references in configuration.
//
// Context
// -------
// Secrets (the control-plane DB password, the SMTP relay password) never
// live in YAML or env files.  Instead the config carries references of the
// form
//
//	vault:<mount>/<path>#<key>
//
// which the loader resolves through this client before unmarshalling.
// Resolved values are cached in-process so repeated Reload() calls do not
// hammer the Vault server.
//
// Environment expectations
// ------------------------
//   - VAULT_ADDR  – scheme and host of the Vault server.
//   - VAULT_TOKEN – token with read access to the referenced mounts.
package vault

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
)

// RefPrefix marks a config value as a Vault reference.
const RefPrefix = "vault:"

// cacheTTL bounds how long a resolved secret is reused.  Config reloads
// within the window see the cached value.
const cacheTTL = 5 * time.Minute

// Client is safe for concurrent use.  Create once at startup.
type Client struct {
	api *vaultapi.Client

	mu    sync.RWMutex
	cache map[string]cached // "<path>#<key>" → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Client from the VAULT_* environment.
func New() (*Client, error) {
	cfg := vaultapi.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	api, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	return &Client{api: api, cache: make(map[string]cached)}, nil
}

// IsRef reports whether a config value is a Vault reference.
func IsRef(v string) bool { return strings.HasPrefix(v, RefPrefix) }

// Resolve turns "vault:<mount>/<path>#<key>" into the secret value.  Values
// without the prefix are returned unchanged, so callers can pass every
// config string through this helper.
func (c *Client) Resolve(ctx context.Context, v string) (string, error) {
	if !IsRef(v) {
		return v, nil
	}

	ref := strings.TrimPrefix(v, RefPrefix)
	path, key, ok := strings.Cut(ref, "#")
	if !ok || path == "" || key == "" {
		return "", fmt.Errorf("malformed vault reference %q", v)
	}

	c.mu.RLock()
	if cv, hit := c.cache[ref]; hit && time.Now().Before(cv.exp) {
		c.mu.RUnlock()
		return cv.val, nil
	}
	c.mu.RUnlock()

	mount, rel, _ := strings.Cut(path, "/")
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", path, err)
	}

	raw, found := sec.Data[key]
	if !found {
		return "", fmt.Errorf("key %q not found in secret %q", key, path)
	}
	sval, isStr := raw.(string)
	if !isStr {
		return "", fmt.Errorf("value at %s#%s is not a string", path, key)
	}

	c.mu.Lock()
	c.cache[ref] = cached{val: sval, exp: time.Now().Add(cacheTTL)}
	c.mu.Unlock()

	return sval, nil
}
