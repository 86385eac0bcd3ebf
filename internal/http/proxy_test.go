package http

import (
	"net/http"
	"net/url"
	"testing"

	ntlmssp "github.com/Azure/go-ntlmssp"

	"github.com/rescale/sheetconv/internal/config"
	"github.com/rescale/sheetconv/internal/logging"
)

func TestProxyFuncWithBypass_EmptyNoProxy(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "", logging.NewNopLogger())

	req, _ := http.NewRequest("GET", "https://convert.example.com/upload", nil)
	result, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected proxy URL, got nil (direct)")
	}
	if result.Host != "proxy.corp:8080" {
		t.Errorf("expected proxy host proxy.corp:8080, got %s", result.Host)
	}
}

func TestProxyFuncWithBypass_Patterns(t *testing.T) {
	proxyURL, _ := url.Parse("http://proxy.corp:8080")
	proxyFunc := proxyFuncWithBypass(proxyURL, "*.example.com, 192.168.0.0/16, internal.corp", logging.NewNopLogger())

	tests := []struct {
		name       string
		url        string
		wantBypass bool
	}{
		{"wildcard match", "https://convert.example.com/upload", true},
		{"cidr match", "http://192.168.1.100/progress/abc", true},
		{"exact domain match", "https://internal.corp/download/x.zip", true},
		{"subdomain of exact domain", "https://api.internal.corp/upload", true},
		{"non-match", "https://bucket.s3.amazonaws.com/out.zip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", tt.url, nil)
			result, err := proxyFunc(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantBypass && result != nil {
				t.Errorf("expected bypass (nil) for %s, got %v", tt.url, result)
			}
			if !tt.wantBypass && result == nil {
				t.Errorf("expected proxy for %s, got nil (bypass)", tt.url)
			}
		})
	}
}

func TestBuildProxyURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantHost string
		wantUser bool
	}{
		{"default port", config.Config{ProxyHost: "proxy.corp"}, "proxy.corp:8080", false},
		{"explicit port", config.Config{ProxyHost: "proxy.corp", ProxyPort: 3128}, "proxy.corp:3128", false},
		{"user without password", config.Config{ProxyHost: "p", ProxyPort: 1, ProxyUser: "u"}, "p:1", false},
		{"full credentials", config.Config{ProxyHost: "p", ProxyPort: 1, ProxyUser: "u", ProxyPassword: "pw"}, "p:1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := buildProxyURL(&tt.cfg)
			if u.Host != tt.wantHost {
				t.Errorf("expected host %s, got %s", tt.wantHost, u.Host)
			}
			if (u.User != nil) != tt.wantUser {
				t.Errorf("expected credentials embedded=%v, got %v", tt.wantUser, u.User)
			}
		})
	}
}

func TestConfigureHTTPClient_Modes(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *config.Config
		wantErr   bool
		wantNTLM  bool
		wantProxy bool
	}{
		{"no proxy", &config.Config{ProxyMode: "no-proxy"}, false, false, false},
		{"empty mode", &config.Config{}, false, false, false},
		{"system", &config.Config{ProxyMode: "system"}, false, false, true},
		{"basic", &config.Config{ProxyMode: "basic", ProxyHost: "proxy.corp"}, false, false, true},
		{"basic without host", &config.Config{ProxyMode: "basic"}, false, false, false},
		{"ntlm", &config.Config{ProxyMode: "ntlm", ProxyHost: "proxy.corp"}, false, true, false},
		{"unknown", &config.Config{ProxyMode: "socks5"}, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := ConfigureHTTPClient(tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Timeout != 0 {
				t.Errorf("expected no client-wide timeout, got %s", client.Timeout)
			}
			if tt.wantNTLM {
				if _, ok := client.Transport.(ntlmssp.Negotiator); !ok {
					t.Errorf("expected NTLM negotiator transport, got %T", client.Transport)
				}
				return
			}
			tr, ok := client.Transport.(*http.Transport)
			if !ok {
				t.Fatalf("expected *http.Transport, got %T", client.Transport)
			}
			if (tr.Proxy != nil) != tt.wantProxy {
				t.Errorf("expected proxy func set=%v", tt.wantProxy)
			}
		})
	}
}

func TestNeedsProxyPassword(t *testing.T) {
	tests := []struct {
		cfg  config.Config
		want bool
	}{
		{config.Config{ProxyMode: "no-proxy", ProxyUser: "u"}, false},
		{config.Config{ProxyMode: "basic", ProxyUser: "u"}, true},
		{config.Config{ProxyMode: "NTLM", ProxyUser: "u"}, true},
		{config.Config{ProxyMode: "ntlm", ProxyUser: "u", ProxyPassword: "p"}, false},
		{config.Config{ProxyMode: "basic"}, false},
	}

	for _, tt := range tests {
		if got := NeedsProxyPassword(&tt.cfg); got != tt.want {
			t.Errorf("NeedsProxyPassword(%+v) = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}

func TestCreateTransferClient_DisablesHTTP2BehindProxy(t *testing.T) {
	t.Setenv("FORCE_HTTP2", "")

	client, err := CreateTransferClient(&config.Config{ProxyMode: "basic", ProxyHost: "proxy.corp"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := client.Transport.(*http.Transport)
	if tr.ForceAttemptHTTP2 {
		t.Error("expected HTTP/2 disabled behind proxy")
	}
	if !tr.DisableCompression {
		t.Error("expected compression disabled")
	}
}
