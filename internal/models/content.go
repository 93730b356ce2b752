package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ContentKind discriminates the variants of a profile content block.
type ContentKind string

// Known content block kinds.
const (
	KindLink         ContentKind = "link"
	KindProduct      ContentKind = "product"
	KindConsultation ContentKind = "consultation"
)

// ConsultationID is the fixed id of the consultation marker block. At most
// one such block may exist in a profile's content list; it references the
// profile-level consultation config instead of holding its own data.
const ConsultationID = "consultation"

// ContentItem is one ordered block of a public profile page. The concrete
// variants are LinkItem, ProductItem and ConsultationItem; renderers and the
// normalizer switch exhaustively on the variant type.
type ContentItem interface {
	ItemID() string
	Kind() ContentKind
	IsActive() bool
}

// LinkItem is a plain outbound link block.
type LinkItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	Active          bool   `json:"active"`
	ButtonColor     string `json:"buttonColor,omitempty"`
	ButtonTextColor string `json:"buttonTextColor,omitempty"`
}

// ItemID returns the block id.
func (l LinkItem) ItemID() string { return l.ID }

// Kind returns KindLink.
func (l LinkItem) Kind() ContentKind { return KindLink }

// IsActive reports whether the block is shown on the public page.
func (l LinkItem) IsActive() bool { return l.Active }

// ProductVariationOption is one selectable option of a variation, e.g. "XL".
// PriceModifier is added to the product's base price when selected.
type ProductVariationOption struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PriceModifier float64 `json:"priceModifier"`
}

// ProductVariation groups options a buyer picks exactly one of, e.g. "Size".
type ProductVariation struct {
	ID      string                   `json:"id"`
	Name    string                   `json:"name"`
	Options []ProductVariationOption `json:"options"`
}

// ProductItem is a sellable product block. Images is the ordered gallery,
// its first entry is the thumbnail; ImageURL is kept for older documents.
type ProductItem struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Price       string             `json:"price"` // display string, e.g. "$29.00"
	ImageURL    string             `json:"imageUrl"`
	Images      []string           `json:"images"`
	Description string             `json:"description"`
	Active      bool               `json:"active"`
	Variations  []ProductVariation `json:"variations"`
	ImageFit    string             `json:"imageFit,omitempty"` // "cover" or "contain"
}

// ItemID returns the block id.
func (p ProductItem) ItemID() string { return p.ID }

// Kind returns KindProduct.
func (p ProductItem) Kind() ContentKind { return KindProduct }

// IsActive reports whether the block is shown on the public page.
func (p ProductItem) IsActive() bool { return p.Active }

// BasePrice parses the numeric value out of the display price string by
// stripping every character that is not a digit or a decimal point.
// A string without a parsable number yields 0.
func (p ProductItem) BasePrice() float64 {
	return ParsePrice(p.Price)
}

// FinalPrice computes base price plus the modifiers of the selected options.
// selected maps variation id to the chosen option id; exactly one option per
// variation must be selected.
func (p ProductItem) FinalPrice(selected map[string]string) (float64, error) {
	total := p.BasePrice()
	for _, v := range p.Variations {
		optID, ok := selected[v.ID]
		if !ok {
			return 0, fmt.Errorf("no option selected for variation %q", v.Name)
		}
		found := false
		for _, opt := range v.Options {
			if opt.ID == optID {
				total += opt.PriceModifier
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown option %q for variation %q", optID, v.Name)
		}
	}
	return total, nil
}

// ConsultationItem marks that the profile's consultation booking card is
// part of the content list. Its id is always ConsultationID.
type ConsultationItem struct {
	Active bool `json:"active"`
}

// ItemID returns the fixed consultation id.
func (c ConsultationItem) ItemID() string { return ConsultationID }

// Kind returns KindConsultation.
func (c ConsultationItem) Kind() ContentKind { return KindConsultation }

// IsActive reports whether the block is shown on the public page.
func (c ConsultationItem) IsActive() bool { return c.Active }

// ParsePrice extracts a numeric amount from a display price string such as
// "$29.00". Every character except digits and the decimal point is dropped.
func ParsePrice(display string) float64 {
	var b strings.Builder
	for _, r := range display {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// ContentList is the ordered content of a profile. Render order equals list
// order. JSON documents carry a "type" discriminant per item so lists written
// by older clients parse unchanged.
type ContentList []ContentItem

type contentProbe struct {
	Type ContentKind `json:"type"`
}

// MarshalJSON writes each item with its "type" discriminant.
func (c ContentList) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(c))
	for _, item := range c {
		switch v := item.(type) {
		case LinkItem:
			out = append(out, struct {
				Type ContentKind `json:"type"`
				LinkItem
			}{KindLink, v})
		case ProductItem:
			out = append(out, struct {
				Type ContentKind `json:"type"`
				ProductItem
			}{KindProduct, v})
		case ConsultationItem:
			out = append(out, struct {
				Type ContentKind `json:"type"`
				ID   string      `json:"id"`
				ConsultationItem
			}{KindConsultation, ConsultationID, v})
		default:
			return nil, fmt.Errorf("unknown content item type %T", item)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a list of discriminated items.
func (c *ContentList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	list := make(ContentList, 0, len(raws))
	for _, raw := range raws {
		var probe contentProbe
		if err := json.Unmarshal(raw, &probe); err != nil {
			return err
		}
		switch probe.Type {
		case KindLink:
			var item LinkItem
			if err := json.Unmarshal(raw, &item); err != nil {
				return err
			}
			list = append(list, item)
		case KindProduct:
			var item ProductItem
			if err := json.Unmarshal(raw, &item); err != nil {
				return err
			}
			list = append(list, item)
		case KindConsultation:
			var item ConsultationItem
			if err := json.Unmarshal(raw, &item); err != nil {
				return err
			}
			list = append(list, item)
		default:
			return fmt.Errorf("unknown content item type %q", probe.Type)
		}
	}
	*c = list
	return nil
}

// Find returns the item with the given id and its index, or -1.
func (c ContentList) Find(id string) (ContentItem, int) {
	for i, item := range c {
		if item.ItemID() == id {
			return item, i
		}
	}
	return nil, -1
}
