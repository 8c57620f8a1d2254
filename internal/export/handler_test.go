package export

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
)

const doc = `{"width":40,"height":30,"objects":[{"type":"rect","width":10,"height":10,"fill":"red"}]}`

func TestExport(t *testing.T) {
	r := mux.NewRouter()
	r.HandleFunc("/export/{format}", NewHandler(nil).Export).Methods("POST")

	tests := []struct {
		name        string
		path        string
		body        string
		want        int
		magic       string
		disposition string
	}{
		{"png", "/export/png?name=my%20plan", doc, http.StatusOK, "\x89PNG", `attachment; filename="my-plan.png"`},
		{"webp", "/export/webp?scale=0.5", doc, http.StatusOK, "RIFF", `attachment; filename="canvas.webp"`},
		{"pdf", "/export/pdf", doc, http.StatusOK, "%PDF", `attachment; filename="canvas.pdf"`},
		{"gif", "/export/gif", doc, http.StatusBadRequest, "", ""},
		{"bad scale", "/export/png?scale=100", doc, http.StatusBadRequest, "", ""},
		{"bad document", "/export/png", `{"objects":[{"type":"star"}]}`, http.StatusBadRequest, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if tt.magic != "" && !bytes.HasPrefix(rec.Body.Bytes(), []byte(tt.magic)) {
				t.Errorf("body does not start with %q", tt.magic)
			}
			if got := rec.Header().Get("Content-Disposition"); got != tt.disposition && tt.want == http.StatusOK {
				t.Errorf("disposition = %s, want %s", got, tt.disposition)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "canvas"},
		{"board_1", "board_1"},
		{"../etc/passwd", "---etc-passwd"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
