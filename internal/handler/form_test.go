package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"reflect"
	"testing"

	"socialdesk/internal/services"
	desk_errors "socialdesk/pkg/errors"
)

func TestSplitKey(t *testing.T) {
	cases := map[string][]string{
		"name":                  {"name"},
		"fakeAccount[username]": {"fakeAccount", "username"},
		"a[b][c]":               {"a", "b", "c"},
	}
	for key, want := range cases {
		if got := splitKey(key); !reflect.DeepEqual(got, want) {
			t.Errorf("splitKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestFormDocumentNestsBracketKeysAndJSONGroups(t *testing.T) {
	doc := formDocument(map[string][]string{
		"fakeAccount":           {`{"username":"json","platform":"instagram"}`},
		"fakeAccount[username]": {"bracket"},
		"description":           {"{not json"},
		"title":                 {"Hello"},
	})

	fake, ok := doc["fakeAccount"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested object, got %#v", doc["fakeAccount"])
	}
	if fake["username"] != "bracket" || fake["platform"] != "instagram" {
		t.Fatalf("bracket key should refine the JSON group: %#v", fake)
	}
	if doc["description"] != "{not json" || doc["title"] != "Hello" {
		t.Fatalf("plain values should stay strings: %#v", doc)
	}
}

func TestFormPartsEnforcesFieldsAndLimits(t *testing.T) {
	headers := func(n int) []*multipart.FileHeader {
		out := make([]*multipart.FileHeader, n)
		for i := range out {
			out[i] = &multipart.FileHeader{Filename: "f.png", Size: 10}
		}
		return out
	}

	parts, err := formParts(map[string][]*multipart.FileHeader{
		services.FieldScreenshots: headers(2),
		services.FieldIDImage:     headers(1),
	}, []string{services.FieldScreenshots, services.FieldIDImage})
	if err != nil || len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d %v", len(parts), err)
	}

	_, err = formParts(map[string][]*multipart.FileHeader{"avatar": headers(1)}, []string{services.FieldMedia})
	if !errors.Is(err, desk_errors.ErrInvalidInput) {
		t.Fatalf("unexpected field should be rejected, got %v", err)
	}

	_, err = formParts(map[string][]*multipart.FileHeader{services.FieldIDImage: headers(2)}, []string{services.FieldIDImage})
	if !errors.Is(err, desk_errors.ErrInvalidInput) {
		t.Fatalf("too many files should be rejected, got %v", err)
	}
}

func TestBodyErrorMapsMaxBytes(t *testing.T) {
	if err := bodyError(&http.MaxBytesError{Limit: 1}); !errors.Is(err, desk_errors.ErrTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
	if err := bodyError(errors.New("eof")); !errors.Is(err, desk_errors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestErrorCode(t *testing.T) {
	if ErrorCode(http.StatusTooManyRequests) != "RATE_LIMITED" || ErrorCode(http.StatusTeapot) != "INTERNAL_ERROR" {
		t.Fatal("unexpected error codes")
	}
}
