package sequence

import (
	"errors"
	"slices"
	"testing"
)

func TestEncodeRows(t *testing.T) {
	if got := EncodeRows([]int{2, 5, 6}); got != "2|5|6" {
		t.Errorf("Expected 2|5|6, got %q", got)
	}
	if got := EncodeRows(nil); got != "" {
		t.Errorf("Expected empty payload, got %q", got)
	}
}

func TestDecodeRows(t *testing.T) {
	rows, err := DecodeRows(RowMimeType, "2|5|6")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(rows, []int{2, 5, 6}) {
		t.Errorf("Expected [2 5 6], got %v", rows)
	}

	rows, err = DecodeRows(RowMimeType, " 7 ")
	if err != nil || !slices.Equal(rows, []int{7}) {
		t.Errorf("Expected [7], got %v (%v)", rows, err)
	}
}

func TestDecodeRowsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		mime    string
		payload string
	}{
		{"wrong media type", "text/uri-list", "1|2"},
		{"empty", RowMimeType, ""},
		{"trailing separator", RowMimeType, "1|"},
		{"not a number", RowMimeType, "1|two"},
		{"negative", RowMimeType, "-3"},
		{"comma separated", RowMimeType, "1,2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRows(tt.mime, tt.payload)
			if !errors.Is(err, ErrPayloadFormat) {
				t.Fatalf("Expected payload format error, got %v", err)
			}
			var pe *PayloadFormatError
			if !errors.As(err, &pe) || pe.MimeType != tt.mime {
				t.Errorf("Expected media type %q on error, got %+v", tt.mime, pe)
			}
		})
	}
}
