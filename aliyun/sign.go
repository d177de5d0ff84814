package aliyun

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// percentEncode escapes a string per RFC 3986 with the provider's
// additional substitutions: space as %20, * as %2A, and ~ left literal.
func percentEncode(s string) string {
	encoded := url.QueryEscape(s)
	encoded = strings.ReplaceAll(encoded, "+", "%20")
	encoded = strings.ReplaceAll(encoded, "*", "%2A")
	encoded = strings.ReplaceAll(encoded, "%7E", "~")
	return encoded
}

// canonicalQuery serializes params sorted bytewise by raw key name,
// each key and value percent-encoded, joined as k=v pairs with &.
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, percentEncode(key)+"="+percentEncode(params[key]))
	}
	return strings.Join(pairs, "&")
}

// signature computes base64(HMAC-SHA1(secret+"&", stringToSign)) over
// METHOD & percentEncode("/") & percentEncode(canonicalQuery). The remote
// service recomputes the same value, so this must be byte-exact.
func signature(method, canonicalQS, accessKeySecret string) string {
	stringToSign := method + "&" + percentEncode("/") + "&" + percentEncode(canonicalQS)

	mac := hmac.New(sha1.New, []byte(accessKeySecret+"&"))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// signedQuery returns the final query string with the computed Signature
// parameter appended, itself percent-encoded with the same rules.
func signedQuery(method string, params map[string]string, accessKeySecret string) string {
	qs := canonicalQuery(params)
	sig := signature(method, qs, accessKeySecret)
	return qs + "&Signature=" + percentEncode(sig)
}
