// Package ingest decodes raw multipart payloads at the byte level, for the
// push path where files travel through the service instead of a presigned
// URL. The scan is deliberately lenient: malformed framing truncates the
// result instead of erroring, because the input is wholly contributor
// controlled and partial success beats total failure there.
package ingest

import (
	"bytes"
	"mime"
	"regexp"
	"strings"

	"github.com/karagol/memorywall/internal/fault"
)

const defaultContentType = "application/octet-stream"

// contributorField is the form-field name whose value overrides the default
// contributor namespace.
const contributorField = "contributor"

var (
	filenameAttr    = regexp.MustCompile(`filename="([^"]*)"`)
	nameAttr        = regexp.MustCompile(`name="([^"]*)"`)
	contentTypeLine = regexp.MustCompile(`(?i)content-type:\s*([^\r\n]+)`)
)

// FilePart is one decoded file part.
type FilePart struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// FormField is one decoded non-file part.
type FormField struct {
	Name  string
	Value string
}

// Payload is the result of decoding one multipart body.
type Payload struct {
	Files       []FilePart
	Fields      []FormField
	Contributor string
}

// Boundary extracts the boundary token from a multipart content-type header.
func Boundary(contentType string) (string, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return "", fault.Validationf("content type %q is not multipart", contentType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", fault.Validationf("multipart content type carries no boundary")
	}
	return boundary, nil
}

// Parse recovers the ordered parts delimited by the boundary token.
//
// Every occurrence of "--boundary" is located first; each consecutive pair of
// occurrences delimits one part's raw segment. Within a segment the first
// CRLF CRLF separates headers from body, and the body's trailing CRLF
// (inserted by the encoding before the next boundary) is stripped. Segments
// with no header separator and parts with no name attribute are skipped. An
// unterminated final boundary simply ends collection: the caller receives
// whatever parts were fully delimited.
func Parse(body []byte, boundary string) Payload {
	marker := []byte("--" + boundary)
	offsets := markerOffsets(body, marker)

	var payload Payload
	for i := 0; i+1 < len(offsets); i++ {
		segment := body[offsets[i]+len(marker) : offsets[i+1]]

		sep := bytes.Index(segment, []byte("\r\n\r\n"))
		if sep < 0 {
			continue
		}

		headers := string(segment[:sep])
		data := bytes.TrimSuffix(segment[sep+4:], []byte("\r\n"))

		if m := filenameAttr.FindStringSubmatch(headers); m != nil {
			contentType := defaultContentType
			if ct := contentTypeLine.FindStringSubmatch(headers); ct != nil {
				contentType = strings.TrimSpace(ct[1])
			}
			fieldName := ""
			if nm := nameAttr.FindStringSubmatch(headers); nm != nil {
				fieldName = nm[1]
			}
			payload.Files = append(payload.Files, FilePart{
				FieldName:   fieldName,
				Filename:    m[1],
				ContentType: contentType,
				Data:        data,
			})
			continue
		}

		nm := nameAttr.FindStringSubmatch(headers)
		if nm == nil {
			continue
		}

		value := strings.TrimSpace(string(data))
		payload.Fields = append(payload.Fields, FormField{Name: nm[1], Value: value})
		if nm[1] == contributorField {
			payload.Contributor = value
		}
	}

	return payload
}

func markerOffsets(body, marker []byte) []int {
	var offsets []int
	for from := 0; ; {
		i := bytes.Index(body[from:], marker)
		if i < 0 {
			break
		}
		offsets = append(offsets, from+i)
		from += i + len(marker)
	}
	return offsets
}
