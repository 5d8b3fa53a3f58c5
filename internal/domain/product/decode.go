package product

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/catalogd/internal/domain"
)

// FromRecord decodes a loosely typed record (a database row or a JSON object)
// into a validated Product. Backend aliases such as image_url are folded into
// the canonical fields; absent numbers default to zero.
func FromRecord(rec map[string]any) (Product, error) {
	id, err := idString(rec["id"])
	if err != nil {
		return Product{}, err
	}

	p := Product{ID: id}

	if p.Name, err = requiredString(rec, "name"); err != nil {
		return Product{}, err
	}
	if p.Brand, err = requiredString(rec, "brand"); err != nil {
		return Product{}, err
	}
	if p.Category, err = requiredString(rec, "category"); err != nil {
		return Product{}, err
	}
	if p.Price, err = optionalNumber(rec, "price"); err != nil {
		return Product{}, err
	}
	if p.Rating, err = optionalNumber(rec, "rating"); err != nil {
		return Product{}, err
	}
	stock, err := optionalNumber(rec, "stock")
	if err != nil {
		return Product{}, err
	}
	if stock != math.Trunc(stock) || stock < 0 || stock > math.MaxInt32 {
		return Product{}, fmt.Errorf("%w: product %q: stock %v is not a non-negative integer", domain.ErrMalformed, id, stock)
	}
	p.Stock = int(stock)

	p.Image = firstString(rec, "image", "image_url")
	if p.Image == "" {
		p.Image = PlaceholderImage(id)
	}
	p.Description = firstString(rec, "description")

	if p.Attributes, err = attributes(rec["attributes"]); err != nil {
		return Product{}, fmt.Errorf("product %q: %w", id, err)
	}

	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

func idString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		if t != "" {
			return t, nil
		}
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int:
		return strconv.Itoa(t), nil
	case json.Number:
		return t.String(), nil
	}
	return "", fmt.Errorf("%w: missing or invalid id (%T)", domain.ErrMalformed, v)
}

func requiredString(rec map[string]any, key string) (string, error) {
	s, ok := rec[key].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: field %q must be a non-empty string", domain.ErrMalformed, key)
	}
	return s, nil
}

func firstString(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func optionalNumber(rec map[string]any, key string) (float64, error) {
	v, ok := rec[key]
	if !ok || v == nil {
		return 0, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: field %q is not a number (%T)", domain.ErrMalformed, key, v)
	}
	return f, nil
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		// numeric columns sometimes arrive as text
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	}
	return 0, false
}

func attributes(v any) (Attributes, error) {
	out := Attributes{}
	if v == nil {
		return out, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: attributes must be an object (%T)", domain.ErrMalformed, v)
	}
	for k, raw := range m {
		switch t := raw.(type) {
		case string:
			out[k] = t
		default:
			f, ok := toFloat(t)
			if !ok {
				return nil, fmt.Errorf("%w: attribute %q has type %T", domain.ErrMalformed, k, raw)
			}
			out[k] = f
		}
	}
	return out, nil
}
