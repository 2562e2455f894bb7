package fault

import (
	"errors"
	"net/http"
	"testing"
)

func TestTaxonomyWrapping(t *testing.T) {
	err := Validationf("filename is required")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("constructor lost the validation kind: %v", err)
	}

	wrapped := Storage("list bucket page", errors.New("connection reset"))
	if !errors.Is(wrapped, ErrStorage) {
		t.Fatalf("constructor lost the storage kind: %v", wrapped)
	}
	if Message(wrapped) != "list bucket page: connection reset" {
		t.Fatalf("underlying message not preserved: %q", Message(wrapped))
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validationf("bad input"), http.StatusBadRequest},
		{Configurationf("no bucket"), http.StatusInternalServerError},
		{Storage("stat", errors.New("timeout")), http.StatusBadGateway},
		{errors.New("unclassified"), http.StatusBadGateway},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMessageTrimsTaxonomySuffix(t *testing.T) {
	if got := Message(Validationf("No files uploaded")); got != "No files uploaded" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(errors.New("plain")); got != "plain" {
		t.Fatalf("plain errors must pass through, got %q", got)
	}
}
