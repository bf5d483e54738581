package decoder

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
)

// XMLDecoder decodes xml payloads into raw records.
type XMLDecoder struct{}

// Decode decodes every element named record from xmlFile into output channel.
// Nested elements are flattened into dot-separated keys relative to the record element.
func (d XMLDecoder) Decode(ctx context.Context, xmlFile io.Reader, record string, output chan<- models.RawRecord) error {
	dec := xml.NewDecoder(xmlFile)
	dec.Strict = true
	dec.CharsetReader = charsetReader

	for {
		token, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		element, ok := token.(xml.StartElement)
		if !ok || element.Name.Local != record {
			continue
		}

		raw := models.RawRecord{}
		for _, attr := range element.Attr {
			raw.Add("@"+attr.Name.Local, attr.Value)
		}

		if err := collectElement(dec, "", raw); err != nil {
			return fmt.Errorf("can't decode %s element: %w", record, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case output <- raw:
		}
	}
}

// collectElement reads tokens until end of current element and stores leaf texts in raw.
func collectElement(dec *xml.Decoder, prefix string, raw models.RawRecord) error {
	var (
		text        []byte
		hasChildren bool
	)

	for {
		token, err := dec.Token()
		if err != nil {
			return err
		}

		switch element := token.(type) {
		case xml.StartElement:
			hasChildren = true
			key := joinKey(prefix, element.Name.Local)
			for _, attr := range element.Attr {
				raw.Add(key+".@"+attr.Name.Local, attr.Value)
			}
			if err := collectElement(dec, key, raw); err != nil {
				return err
			}
		case xml.CharData:
			text = append(text, element...)
		case xml.EndElement:
			if prefix != "" && !hasChildren {
				raw.Add(prefix, html.UnescapeString(string(text)))
			}
			return nil
		}
	}
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
