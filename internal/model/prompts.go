package model

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

// posterSchemaDescription is handed to the model out-of-band. It is
// advisory only; nothing downstream assumes the reply honors it.
const posterSchemaDescription = `Respond with a single JSON object, no prose, matching this shape:
{
  "title": string,
  "authors": [string],
  "university": string,
  "department": string,
  "leftLogoUrl": string,
  "rightLogoUrl": string,
  "theme": {
    "primaryColor": "#rrggbb", "secondaryColor": "#rrggbb", "accentColor": "#rrggbb",
    "backgroundColor": "#rrggbb", "titleTextColor": "#rrggbb", "bodyTextColor": "#rrggbb",
    "sectionTitleColor": "#rrggbb", "borderColor": "#rrggbb"
  },
  "sections": [
    {
      "title": string,
      "content": string,
      "column": "1" | "2",
      "design": {"icon": string, "variant": string},
      "visuals": [
        {"type": "donutChart", "items": [{"label": string, "value": number, "color": string}]},
        {"type": "lineChart" | "barChart", "labels": [string], "series": [{"name": string, "data": [number]}]},
        {"type": "image", "url": string, "caption": string, "style": string},
        {"type": "table", "headers": [string], "rows": [[string]]}
      ]
    }
  ],
  "contactInfo": {"email": string, "phone": string, "website": string, "address": string, "qrCodeUrl": string}
}
Place introduction, background, objectives and methods sections in column "1" and everything else in column "2".`

func (b *PromptBuilder) BuildPosterPrompt(source, stylePrompt string) string {
	var sb strings.Builder
	sb.WriteString("You are an academic poster designer. Extract the key content of the document below into a two-column conference poster.\n\n")
	if strings.TrimSpace(stylePrompt) != "" {
		fmt.Fprintf(&sb, "Style guidance from the user: %s\n\n", strings.TrimSpace(stylePrompt))
	}
	sb.WriteString(posterSchemaDescription)
	sb.WriteString("\n\n--- SOURCE DOCUMENT ---\n")
	sb.WriteString(source)
	return sb.String()
}

func (b *PromptBuilder) BuildRevisionPrompt(currentJSON, instruction string) string {
	var sb strings.Builder
	sb.WriteString("You are revising an academic poster. Apply the instruction to the current poster and return the complete updated poster.\n\n")
	fmt.Fprintf(&sb, "Instruction: %s\n\n", strings.TrimSpace(instruction))
	sb.WriteString(posterSchemaDescription)
	sb.WriteString("\n\n--- CURRENT POSTER ---\n")
	sb.WriteString(currentJSON)
	return sb.String()
}
