package lyrics

import (
	"errors"
	"testing"

	"github.com/moderato-fm/songscreen/internal/model"
)

func TestFirstResultLink(t *testing.T) {
	t.Run("relative href resolved", func(t *testing.T) {
		body := `<html><body>
			<a class="title" href="piosenka,artist,song.html">Song</a>
			<a class="title" href="piosenka,artist,other.html">Other</a>
		</body></html>`

		got, err := firstResultLink(body)
		if err != nil {
			t.Fatalf("firstResultLink: %v", err)
		}
		if want := "https://www.tekstowo.pl/piosenka,artist,song.html"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("absolute href kept", func(t *testing.T) {
		body := `<a class="title" href="https://www.tekstowo.pl/piosenka,a,b.html">Song</a>`

		got, err := firstResultLink(body)
		if err != nil {
			t.Fatalf("firstResultLink: %v", err)
		}
		if want := "https://www.tekstowo.pl/piosenka,a,b.html"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("no results", func(t *testing.T) {
		_, err := firstResultLink("<html><body>Brak wyników</body></html>")
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestIsConsentPage(t *testing.T) {
	tests := []struct {
		name string
		page Page
		want bool
	}{
		{
			name: "onetrust banner",
			page: Page{Body: `<div id="onetrust-banner-sdk">accept cookies</div>`},
			want: true,
		},
		{
			name: "consent redirect url",
			page: Page{FinalURL: "https://consent.google.com/m?continue=..."},
			want: true,
		},
		{
			name: "ordinary page",
			page: Page{Body: "<html><body>lyrics here</body></html>", FinalURL: "https://www.tekstowo.pl/x"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConsentPage(&tt.page); got != tt.want {
				t.Errorf("isConsentPage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchTerm(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Killing in the Name", "Killing+in+the+Name"},
		{"  spaced   out  ", "spaced+out"},
		{"single", "single"},
	}

	for _, tt := range tests {
		if got := searchTerm(tt.input); got != tt.want {
			t.Errorf("searchTerm(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
