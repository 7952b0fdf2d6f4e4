package dto

import "github.com/goccy/go-json"

// CatalogItemDTO 分类 / 标签，序列化为扁平结构 {"id": "...", "en": "...", "pt-br": "..."}
type CatalogItemDTO struct {
	ID     string
	Labels map[string]string
}

func (c CatalogItemDTO) MarshalJSON() ([]byte, error) {
	flat := make(map[string]string, len(c.Labels)+1)
	for locale, label := range c.Labels {
		flat[locale] = label
	}
	flat["id"] = c.ID
	return json.Marshal(flat)
}

func (c *CatalogItemDTO) UnmarshalJSON(data []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	c.ID = flat["id"]
	delete(flat, "id")
	c.Labels = flat
	return nil
}

