package domain

import (
	"reflect"
	"testing"
)

func TestDescriptionPrefersHTML(t *testing.T) {
	row := RawProductRow{
		DescriptionHTML:  "<p>Long</p>",
		DescriptionText:  "Long plain",
		ShortDescription: "Short",
	}
	if got := row.Description(); got != "<p>Long</p>\n\nShort" {
		t.Errorf("Description() = %q", got)
	}

	row.DescriptionHTML = ""
	if got := row.Description(); got != "Long plain\n\nShort" {
		t.Errorf("Description() without HTML = %q", got)
	}

	row = RawProductRow{ShortDescription: "Short only"}
	if got := row.Description(); got != "Short only" {
		t.Errorf("Description() short only = %q", got)
	}

	empty := RawProductRow{}
	if got := empty.Description(); got != "" {
		t.Errorf("Description() empty = %q", got)
	}
}

func TestImageURLs(t *testing.T) {
	row := RawProductRow{
		Images:    "https://a.example/1.jpg| https://a.example/2.jpg ,https://a.example/3.jpg",
		Thumbnail: "https://a.example/t.jpg",
	}
	want := []string{
		"https://a.example/1.jpg",
		"https://a.example/2.jpg",
		"https://a.example/3.jpg",
		"https://a.example/t.jpg",
	}
	if got := row.ImageURLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("ImageURLs() = %v, want %v", got, want)
	}

	empty := RawProductRow{}
	if got := empty.ImageURLs(); len(got) != 0 {
		t.Errorf("ImageURLs() on empty row = %v", got)
	}
}
