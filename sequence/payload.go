package sequence

import (
	"errors"
	"strconv"
	"strings"
)

// RowSeparator joins row indices inside a drag payload.
const RowSeparator = "|"

var errEmptyPayload = errors.New("no rows")

// EncodeRows serialises rows in the given order, e.g. "2|5|6".
func EncodeRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, RowSeparator)
}

// DecodeRows parses a payload produced by EncodeRows. Anything tagged with another media type,
// empty, or holding a token that is not a non-negative decimal integer is rejected with a
// PayloadFormatError. Range checking is left to the collection.
func DecodeRows(mimeType, payload string) ([]int, error) {
	if mimeType != RowMimeType {
		return nil, &PayloadFormatError{MimeType: mimeType, Payload: payload}
	}

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, &PayloadFormatError{MimeType: mimeType, Payload: payload, Err: errEmptyPayload}
	}

	tokens := strings.Split(payload, RowSeparator)
	rows := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		row, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return nil, &PayloadFormatError{MimeType: mimeType, Payload: payload, Err: err}
		}
		if row < 0 {
			return nil, &PayloadFormatError{
				MimeType: mimeType,
				Payload:  payload,
				Err:      errors.New("negative row " + tok),
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
