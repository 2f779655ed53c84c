package species

import (
	"strings"
	"unicode"
)

// speciesData 是 pokemon-species 响应中用到的字段
type speciesData struct {
	Name              string         `json:"name"`
	FlavorTextEntries []flavorText   `json:"flavor_text_entries"`
	Habitat           *namedResource `json:"habitat"`
	IsLegendary       *bool          `json:"is_legendary"`
}

type flavorText struct {
	FlavorText string         `json:"flavor_text"`
	Language   *namedResource `json:"language"`
}

type namedResource struct {
	Name string `json:"name"`
}

const englishLanguage = "en"

// englishFlavorText 返回第一条英文描述；没有时返回 nil
func (d *speciesData) englishFlavorText() *string {
	for _, e := range d.FlavorTextEntries {
		if e.Language != nil && e.Language.Name == englishLanguage {
			text := replaceControlCharacters(e.FlavorText)
			return &text
		}
	}
	return nil
}

func (d *speciesData) habitat() *string {
	if d.Habitat == nil {
		return nil
	}
	name := d.Habitat.Name
	return &name
}

// replaceControlCharacters 把换行、换页等控制字符换成空格（上游文本里常见 \n 和 \f）
func replaceControlCharacters(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)
}
