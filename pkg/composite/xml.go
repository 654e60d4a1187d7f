package composite

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

type xmlSymbol struct {
	XMLName     xml.Name       `xml:"symbol"`
	Name        string         `xml:"name,attr"`
	Instances   xmlInstances   `xml:"instances"`
	Connections xmlConnections `xml:"connections"`
}

type xmlInstances struct {
	Items []xmlInstance `xml:"instance"`
}

type xmlInstance struct {
	Identifier string `xml:"identifier,attr"`
	DeviceSet  string `xml:"device_set,attr"`
	Part       string `xml:"part,attr"`
	Prefix     string `xml:"prefix,attr"`
}

type xmlConnections struct {
	Items []xmlConnection `xml:"connection"`
}

type xmlConnection struct {
	Source string `xml:"source_instance,attr"`
	Target string `xml:"target_instance,attr"`
}

// Encode writes the composite as XML.
func (s *Symbol) Encode(w io.Writer) error {
	doc := xmlSymbol{Name: s.Name}
	for _, d := range s.Descriptors {
		doc.Instances.Items = append(doc.Instances.Items, xmlInstance{
			Identifier: strconv.Itoa(d.ID),
			DeviceSet:  d.DeviceSet,
			Part:       d.Part,
			Prefix:     d.Prefix,
		})
	}
	for _, c := range s.Connections {
		src, err := EncodeEndpoint(c.Source)
		if err != nil {
			return err
		}
		dst, err := EncodeEndpoint(c.Target)
		if err != nil {
			return err
		}
		doc.Connections.Items = append(doc.Connections.Items, xmlConnection{Source: src, Target: dst})
	}

	enc := xml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("composite: encode %s: %w", s.Name, err)
	}
	return enc.Flush()
}

// Decode reads a composite written by Encode. Every connection endpoint must
// match a declared instance on identifier, device set, part and prefix.
func Decode(r io.Reader) (*Symbol, error) {
	var doc xmlSymbol
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("composite: decode: %w", err)
	}

	s := New(doc.Name)
	for _, inst := range doc.Instances.Items {
		id, err := parseIdentifier(inst.Identifier)
		if err != nil {
			return nil, &MalformedRecordError{Field: "identifier", Record: inst.Identifier, Err: err}
		}
		s.Descriptors = append(s.Descriptors, Descriptor{
			ID:        id,
			DeviceSet: inst.DeviceSet,
			Part:      inst.Part,
			Prefix:    inst.Prefix,
		})
	}

	for _, conn := range doc.Connections.Items {
		src, err := decodeKnown(s, "source_instance", conn.Source)
		if err != nil {
			return nil, err
		}
		dst, err := decodeKnown(s, "target_instance", conn.Target)
		if err != nil {
			return nil, err
		}
		s.Connections = append(s.Connections, Connection{Source: src, Target: dst})
	}
	return s, nil
}

func decodeKnown(s *Symbol, field, raw string) (Endpoint, error) {
	e, err := DecodeEndpoint(raw)
	if err != nil {
		if mre, ok := err.(*MalformedRecordError); ok {
			mre.Field = field
		}
		return Endpoint{}, err
	}
	if !s.Has(e.Descriptor) {
		return Endpoint{}, &MalformedRecordError{Field: field, Record: raw, Err: ErrUnknownDescriptor}
	}
	return e, nil
}
