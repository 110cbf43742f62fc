// Package inventory decodes the base64 encoded, gzip compressed NBT
// blobs the game API uses for inventory containers.
package inventory

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Tnze/go-mc/nbt"
)

// Item is one decoded inventory slot. Names keep their display text but
// have the in-game color codes stripped; Attributes carries the raw
// ExtraAttributes compound for condition checks (e.g. auction bids).
type Item struct {
	Name       string
	Attributes map[string]interface{}
}

// IntAttribute reads a numeric ExtraAttributes entry regardless of the
// integer width the NBT payload used.
func (i Item) IntAttribute(name string) (int64, bool) {
	value, ok := i.Attributes[name]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

// Decoder turns an encoded inventory container into its item list. The
// rank checkers only depend on this interface so tests can feed crafted
// inventories without building NBT payloads.
type Decoder interface {
	Decode(encoded string) ([]Item, error)
}

// NBTDecoder is the production Decoder. Decoding is pure: identical
// input bytes always produce the identical item list.
type NBTDecoder struct{}

func NewNBTDecoder() *NBTDecoder {
	return &NBTDecoder{}
}

var colorCodes = regexp.MustCompile(`[!#%]?§[0-9a-fk-or]`)

type nbtInventory struct {
	Items []nbtItem `nbt:"i"`
}

type nbtItem struct {
	Tag nbtItemTag `nbt:"tag"`
}

type nbtItemTag struct {
	Display         nbtDisplay             `nbt:"display"`
	ExtraAttributes map[string]interface{} `nbt:"ExtraAttributes"`
}

type nbtDisplay struct {
	Name string `nbt:"Name"`
}

// Decode unpacks one container, recursively flattening any backpack
// payloads stored inside item attributes into the same item list.
func (d *NBTDecoder) Decode(encoded string) ([]Item, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("inventory payload is not valid base64: %w", err)
	}
	return d.decodeRaw(raw)
}

func (d *NBTDecoder) decodeRaw(raw []byte) ([]Item, error) {
	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("inventory payload is not gzip compressed: %w", err)
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress inventory payload: %w", err)
	}

	var container nbtInventory
	if err := nbt.Unmarshal(decompressed, &container); err != nil {
		return nil, fmt.Errorf("failed to parse inventory NBT: %w", err)
	}

	var items []Item
	for _, slot := range container.Items {
		// Empty slots decode to an empty compound with no display tag.
		if slot.Tag.Display.Name == "" {
			continue
		}

		items = append(items, Item{
			Name:       colorCodes.ReplaceAllString(slot.Tag.Display.Name, ""),
			Attributes: slot.Tag.ExtraAttributes,
		})

		for key, value := range slot.Tag.ExtraAttributes {
			if !strings.HasSuffix(key, "_data") {
				continue
			}
			payload, ok := byteSlice(value)
			if !ok {
				continue
			}
			nested, err := d.decodeRaw(payload)
			if err != nil {
				// A corrupt backpack should not sink the whole
				// container; the rest of the items still count.
				continue
			}
			items = append(items, nested...)
		}
	}
	return items, nil
}

func byteSlice(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case []int8:
		out := make([]byte, len(v))
		for i, b := range v {
			out[i] = byte(b)
		}
		return out, true
	default:
		return nil, false
	}
}
