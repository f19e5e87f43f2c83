package benchmark

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/flash"
)

const installerURL = "http://localhost:8000"

// BenchmarkWizardPages hits a running installer, start one with
// "orchestractl server" first.
func BenchmarkWizardPages(b *testing.B) {
	if resp, err := http.Get(installerURL + "/status"); err != nil {
		b.Skip("installer is not running on " + installerURL)
	} else {
		_ = resp.Body.Close()
	}

	b.Run("GET /install", func(b *testing.B) {

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			resp, err := http.Get(installerURL + "/install")
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})

	b.Run("GET /install/create", func(b *testing.B) {

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			resp, err := http.Get(installerURL + "/install/create")
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}

func BenchmarkFlashRoundTrip(b *testing.B) {
	key, _ := flash.GenerateKey()
	f, _ := flash.New(key)
	bag := flash.Bag{
		FieldErrors: map[string][]string{"email": {"The email must be a valid email address."}},
		Old:         map[string]string{"email": "admin", "site_name": "Orchestra Platform"},
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		_ = f.Set(w, bag)

		r := httptest.NewRequest("GET", "/install/create", nil)
		for _, c := range w.Result().Cookies() {
			r.AddCookie(c)
		}
		_ = f.Pop(httptest.NewRecorder(), r)
	}
}
