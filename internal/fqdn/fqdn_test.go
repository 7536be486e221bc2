package fqdn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "simple", input: "example.com", want: true},
		{name: "two letter ccTLD", input: "foo.co", want: true},
		{name: "multi label suffix", input: "example.co.uk", want: true},
		{name: "subdomain", input: "www.example.com", want: true},
		{name: "hyphen in subdomain is not checked", input: "my-host.example.com", want: true},
		{name: "surrounding whitespace", input: "  example.com\n", want: true},
		{name: "digits in label", input: "123abc.net", want: true},
		{name: "private suffix", input: "foo.blogspot.com", want: true},

		{name: "empty", input: "", want: false},
		{name: "whitespace only", input: " \t ", want: false},
		{name: "comment", input: "# Blacklist retrieved on 2024-01-01 00:00:00", want: false},
		{name: "comment without space", input: "#example.com", want: false},
		{name: "single label", input: "localhost", want: false},
		{name: "double hyphen single label", input: "bad--domain", want: false},
		{name: "hyphen in domain label", input: "my-domain.com", want: false},
		{name: "bare tld", input: "com", want: false},
		{name: "bare multi label suffix", input: "co.uk", want: false},
		{name: "unlisted tld", input: "example.notarealtld", want: false},
		{name: "ipv4 literal", input: "192.168.0.1", want: false},
		{name: "ipv6 literal", input: "::1", want: false},
		{name: "trailing dot", input: "example.com.", want: false},
		{name: "leading dot", input: ".example.com", want: false},
		{name: "empty inner label", input: "example..com", want: false},
		{name: "underscore in label", input: "exa_mple.com", want: false},
		{name: "inner space", input: "exa mple.com", want: false},
		{name: "port suffix", input: "example.com:8080", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input), "Valid(%q)", tt.input)
		})
	}
}

func TestValid_CaseSensitive(t *testing.T) {
	// no normalization: uppercase suffixes are not on the list
	assert.False(t, Valid("EXAMPLE.COM"))
	assert.False(t, Valid("example.COM"))
	assert.True(t, Valid("Example.com"))
	assert.True(t, Valid("EXAMPLE.com"))
}

func TestValid_Internationalized(t *testing.T) {
	// raw unicode labels are letters, so they pass
	assert.True(t, Valid("bücher.de"))
	// punycode labels carry "xn--" and fail the no-hyphen rule
	assert.False(t, Valid("xn--bcher-kva.de"))
}

func TestValid_Idempotent(t *testing.T) {
	inputs := []string{"example.com", "foo.co", "my-domain.com", "", "# c", "bücher.de", "localhost"}
	for _, in := range inputs {
		first := Valid(in)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Valid(in), "Valid(%q) changed between calls", in)
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		host   string
		want   Parts
		wantOK bool
	}{
		{host: "example.com", want: Parts{Domain: "example", Suffix: "com"}, wantOK: true},
		{host: "a.b.example.co.uk", want: Parts{Subdomain: "a.b", Domain: "example", Suffix: "co.uk"}, wantOK: true},
		{host: "com", want: Parts{Suffix: "com"}, wantOK: true},
		{host: "localhost", wantOK: false},
		{host: "10.0.0.1", wantOK: false},
		{host: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			got, ok := Split(tt.host)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
