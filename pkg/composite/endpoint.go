package composite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// endpointLexer splits an endpoint into fields and delimiters. Fields keep
// surrounding spaces so values survive a round trip unchanged.
var endpointLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Colon", Pattern: `:`},
	{Name: "Field", Pattern: `[^:]+`},
})

// endpointRecord is the grammar of identifier:device_set:part:prefix:pin.
type endpointRecord struct {
	ID        string `parser:"@Field"`
	DeviceSet string `parser:"':' @Field"`
	Part      string `parser:"':' @Field"`
	Prefix    string `parser:"':' @Field"`
	Pin       string `parser:"':' @Field"`
}

var endpointParser = participle.MustBuild[endpointRecord](
	participle.Lexer(endpointLexer),
)

// EncodeEndpoint renders an endpoint in its colon-delimited form.
func EncodeEndpoint(e Endpoint) (string, error) {
	fields := []struct{ name, value string }{
		{"device_set", e.Descriptor.DeviceSet},
		{"part", e.Descriptor.Part},
		{"prefix", e.Descriptor.Prefix},
		{"pin", e.Pin},
	}
	for _, f := range fields {
		if f.value == "" || strings.Contains(f.value, ":") {
			return "", fmt.Errorf("%w: %s %q", ErrDelimiterInField, f.name, f.value)
		}
	}
	return strings.Join([]string{
		strconv.Itoa(e.Descriptor.ID),
		e.Descriptor.DeviceSet,
		e.Descriptor.Part,
		e.Descriptor.Prefix,
		e.Pin,
	}, ":"), nil
}

// DecodeEndpoint parses the colon-delimited form. It requires exactly five
// non-empty fields and a canonical decimal identifier.
func DecodeEndpoint(s string) (Endpoint, error) {
	rec, err := endpointParser.ParseString("", s)
	if err != nil {
		return Endpoint{}, &MalformedRecordError{Field: "endpoint", Record: s, Err: err}
	}
	id, err := parseIdentifier(rec.ID)
	if err != nil {
		return Endpoint{}, &MalformedRecordError{Field: "identifier", Record: s, Err: err}
	}
	return Endpoint{
		Descriptor: Descriptor{ID: id, DeviceSet: rec.DeviceSet, Part: rec.Part, Prefix: rec.Prefix},
		Pin:        rec.Pin,
	}, nil
}

// parseIdentifier accepts only the form strconv.Itoa produces for a
// non-negative identifier, so a decoded record encodes back unchanged.
func parseIdentifier(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if id < 0 || strconv.Itoa(id) != s {
		return 0, fmt.Errorf("identifier %q is not in canonical decimal form", s)
	}
	return id, nil
}
