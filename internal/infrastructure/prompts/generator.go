package prompts

import (
	"bytes"
	"text/template"

	"autofill-agent/internal/domain/entity"
)

type TagInfo struct {
	Name        string
	Description string
}

type HinterPromptData struct {
	Tags []TagInfo
}

var tagDescriptions = map[entity.FieldTag]string{
	entity.FieldFullName:        "applicant name in one field",
	entity.FieldPortfolio:       "personal website or portfolio URL",
	entity.FieldAddressLine:     "street address",
	entity.FieldPhoneDeviceType: "kind of phone (mobile, home, work)",
}

// GenerateHinterPrompt renders baseTemplate with every fillable tag, in
// declaration order. Exclusion tags are never offered.
func GenerateHinterPrompt(baseTemplate string) (string, error) {
	tags := make([]TagInfo, 0, len(entity.AllFieldTags))
	for _, tag := range entity.AllFieldTags {
		if tag.IsExclusion() {
			continue
		}
		tags = append(tags, TagInfo{
			Name:        tag.String(),
			Description: tagDescriptions[tag],
		})
	}

	tmpl, err := template.New("hinter").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, HinterPromptData{Tags: tags}); err != nil {
		return "", err
	}

	return buf.String(), nil
}
