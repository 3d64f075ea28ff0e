package wire

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"
)

// Media types accepted on the Content-Type header and negotiated via
// Accept, matching the two encodings the streaming call/event protocol
// supports.
const (
	MediaTypeProtobuf = "application/x-protobuf"
	MediaTypeJSON     = "application/json"
)

// ContentType identifies which of the two supported wire encodings a
// message body uses.
type ContentType int

const (
	ContentTypeUnknown ContentType = iota
	ContentTypeProtobuf
	ContentTypeJSON
)

// ParseContentType maps a Content-Type or Accept header value to the
// encoding it names. Matching is case-insensitive and ignores any
// parameters (e.g. "application/json; charset=utf-8").
func ParseContentType(header string) (ContentType, error) {
	if strings.TrimSpace(header) == "" {
		return ContentTypeUnknown, fmt.Errorf("empty content type")
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ContentTypeUnknown, fmt.Errorf("parse content type %q: %w", header, err)
	}
	switch strings.ToLower(mediaType) {
	case MediaTypeProtobuf:
		return ContentTypeProtobuf, nil
	case MediaTypeJSON, "*/*":
		return ContentTypeJSON, nil
	default:
		return ContentTypeUnknown, fmt.Errorf("unsupported content type %q", mediaType)
	}
}

func (c ContentType) MediaType() string {
	switch c {
	case ContentTypeProtobuf:
		return MediaTypeProtobuf
	default:
		return MediaTypeJSON
	}
}

// MarshalCall encodes a Call using the given content type.
func MarshalCall(c *Call, ct ContentType) ([]byte, error) {
	if ct == ContentTypeProtobuf {
		return marshalCallProto(c), nil
	}
	return json.Marshal(c)
}

// UnmarshalCall decodes a Call encoded with the given content type.
func UnmarshalCall(data []byte, ct ContentType) (*Call, error) {
	if ct == ContentTypeProtobuf {
		return unmarshalCallProto(data)
	}
	var c Call
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal json call: %w", err)
	}
	return &c, nil
}

// MarshalEvent encodes an Event using the given content type.
func MarshalEvent(e *Event, ct ContentType) ([]byte, error) {
	if ct == ContentTypeProtobuf {
		return marshalEventProto(e), nil
	}
	return json.Marshal(e)
}

// UnmarshalEvent decodes an Event encoded with the given content type.
func UnmarshalEvent(data []byte, ct ContentType) (*Event, error) {
	if ct == ContentTypeProtobuf {
		return unmarshalEventProto(data)
	}
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal json event: %w", err)
	}
	return &e, nil
}
