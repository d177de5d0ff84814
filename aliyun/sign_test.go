package aliyun

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "unreserved characters pass through",
			input:    "abcXYZ019-_.~",
			expected: "abcXYZ019-_.~",
		},
		{
			name:     "space becomes %20 not plus",
			input:    "a b",
			expected: "a%20b",
		},
		{
			name:     "provider substitutions",
			input:    "!'()*",
			expected: "%21%27%28%29%2A",
		},
		{
			name:     "reserved query characters",
			input:    "k=v&x/y",
			expected: "k%3Dv%26x%2Fy",
		},
		{
			name:     "multibyte UTF-8",
			input:    "香港",
			expected: "%E9%A6%99%E6%B8%AF",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, percentEncode(tt.input))
		})
	}
}

func TestCanonicalQuery(t *testing.T) {
	tests := []struct {
		name     string
		params   map[string]string
		expected string
	}{
		{
			name: "keys sorted bytewise on raw names",
			params: map[string]string{
				"Zebra":  "1",
				"Action": "Describe",
				"alpha":  "2",
			},
			// uppercase sorts before lowercase in byte order
			expected: "Action=Describe&Zebra=1&alpha=2",
		},
		{
			name: "values are encoded",
			params: map[string]string{
				"InstanceIds": `["i-a"]`,
			},
			expected: "InstanceIds=%5B%22i-a%22%5D",
		},
		{
			name:     "empty params",
			params:   map[string]string{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, canonicalQuery(tt.params))
		})
	}
}

// TestSignatureReproducible verifies the signature against an independent
// construction of the string-to-sign and the HMAC, rather than against the
// implementation's own helpers.
func TestSignatureReproducible(t *testing.T) {
	params := map[string]string{
		"Action":           "DescribeInstances",
		"Version":          "2014-05-26",
		"RegionId":         "cn-hongkong",
		"AccessKeyId":      "testid",
		"Format":           "JSON",
		"SignatureMethod":  "HMAC-SHA1",
		"SignatureVersion": "1.0",
		"SignatureNonce":   "3ee8c1b8-83d3-44af-a94f-4e0ad82fd6cf",
		"Timestamp":        "2016-02-23T12:46:24Z",
	}
	secret := "testsecret"

	qs := canonicalQuery(params)
	got := signature("POST", qs, secret)

	// independent string-to-sign
	stringToSign := "POST&%2F&" + percentEncode(qs)
	mac := hmac.New(sha1.New, []byte(secret+"&"))
	mac.Write([]byte(stringToSign))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, got)

	// deterministic: same inputs, same signature
	assert.Equal(t, got, signature("POST", qs, secret))

	// method and secret both participate
	assert.NotEqual(t, got, signature("GET", qs, secret))
	assert.NotEqual(t, got, signature("POST", qs, "othersecret"))
}

func TestSignedQuery(t *testing.T) {
	params := map[string]string{
		"Action": "StartInstance",
	}

	query := signedQuery("POST", params, "secret")

	require.Contains(t, query, "Action=StartInstance")
	require.Contains(t, query, "&Signature=")

	// the appended signature must itself be percent-encoded
	assert.NotContains(t, query, "+")
	assert.NotContains(t, query, " ")
}
