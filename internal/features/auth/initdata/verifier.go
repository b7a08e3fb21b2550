// Package initdata verifies the signed payload a Telegram Mini App sends
// with every request and decodes the user it asserts.
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	tma "github.com/telegram-mini-apps/init-data-golang"
	"github.com/tidwall/gjson"

	apperrors "wishlist-backend/internal/common/errors"
)

const (
	// DefaultMaxAge is how old auth_date may be before the payload is rejected.
	DefaultMaxAge = 24 * time.Hour

	hashKey     = "hash"
	authDateKey = "auth_date"
	userKey     = "user"
	secretSeed  = "WebAppData"
)

// Identity is the trusted user assertion produced by a successful Verify.
type Identity struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
	PhotoURL  string
	AuthDate  time.Time
}

type Option func(*Verifier)

// WithClock overrides the time source used for the age check.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// Verifier checks init data against a bot token. It holds no mutable state.
type Verifier struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

func NewVerifier(botToken string, maxAge time.Duration, opts ...Option) *Verifier {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	v := &Verifier{
		secret: secretKey(botToken),
		maxAge: maxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify validates raw init data and returns the identity it carries.
func (v *Verifier) Verify(raw string) (*Identity, error) {
	fields := parse(raw)

	received, ok := fields[hashKey]
	if !ok || received == "" {
		return nil, apperrors.NewAuthError(apperrors.AuthMissingHash)
	}
	delete(fields, hashKey)

	authDate, err := strconv.ParseInt(fields[authDateKey], 10, 64)
	if err != nil {
		return nil, apperrors.WrapAuthError(err, apperrors.AuthMalformedTimestamp)
	}
	if v.now().Unix()-authDate > int64(v.maxAge/time.Second) {
		return nil, apperrors.NewAuthError(apperrors.AuthExpired)
	}

	expected := sign(fields, v.secret)
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return nil, apperrors.NewAuthError(apperrors.AuthInvalidSignature)
	}

	user, err := decodeUser(fields[userKey])
	if err != nil {
		return nil, err
	}

	return &Identity{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		PhotoURL:  user.PhotoURL,
		AuthDate:  time.Unix(authDate, 0).UTC(),
	}, nil
}

// Sign returns the hash Telegram would attach to values for botToken.
// A hash key present in values is ignored.
func Sign(values url.Values, botToken string) string {
	fields := make(map[string]string, len(values))
	for k, vs := range values {
		if k == hashKey || len(vs) == 0 {
			continue
		}
		fields[k] = vs[len(vs)-1]
	}
	return sign(fields, secretKey(botToken))
}

// parse splits a query string into fields. Duplicate keys resolve to the last value,
// undecodable pairs are skipped.
func parse(raw string) map[string]string {
	fields := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		val, err := url.QueryUnescape(value)
		if err != nil {
			continue
		}
		fields[k] = val
	}
	return fields
}

func checkString(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+fields[k])
	}
	return strings.Join(lines, "\n")
}

func secretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte(secretSeed))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

func sign(fields map[string]string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString(fields)))
	return hex.EncodeToString(mac.Sum(nil))
}

func decodeUser(raw string) (*tma.User, error) {
	if raw == "" {
		return nil, apperrors.NewAuthError(apperrors.AuthMissingUser)
	}
	if !gjson.Valid(raw) {
		return nil, apperrors.NewAuthError(apperrors.AuthInvalidUserJSON)
	}
	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, apperrors.NewAuthError(apperrors.AuthInvalidUserJSON)
	}

	id := parsed.Get("id")
	if id.Type != gjson.Number {
		return nil, apperrors.NewAuthError(apperrors.AuthMissingRequiredFields)
	}
	if _, err := strconv.ParseInt(id.Raw, 10, 64); err != nil {
		return nil, apperrors.NewAuthError(apperrors.AuthMissingRequiredFields)
	}
	if parsed.Get("first_name").Type != gjson.String {
		return nil, apperrors.NewAuthError(apperrors.AuthMissingRequiredFields)
	}

	var user tma.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, apperrors.WrapAuthError(err, apperrors.AuthInvalidUserJSON)
	}
	return &user, nil
}
