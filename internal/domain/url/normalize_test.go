package url

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "https scheme unchanged", input: "https://example.com", want: "https://example.com"},
		{name: "about page unchanged", input: "about:blank", want: "about:blank"},
		{name: "bare domain gets https", input: "play.max.com", want: "https://play.max.com"},
		{name: "free text unchanged", input: "not a url", want: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain https", input: "https://example.com/watch?v=1", want: "example.com"},
		{name: "strips www", input: "https://www.YouTube.com/watch", want: "youtube.com"},
		{name: "strips port", input: "http://localhost:8080/video", want: "localhost"},
		{name: "subdomain kept", input: "https://play.max.com/video/watch/abc", want: "play.max.com"},
		{name: "bare host", input: "www.netflix.com", want: "netflix.com"},
		{name: "trailing dot", input: "https://example.com./", want: "example.com"},
		{name: "about blank", input: "about:blank", want: ""},
		{name: "chrome page", input: "chrome://newtab/", want: ""},
		{name: "file page", input: "file:///home/me/video.html", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDomain(tt.input); got != tt.want {
				t.Errorf("NormalizeDomain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
