package templates

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

// NewPanel lays the form values out in section order.
func NewPanel(form domain.Form) Panel {
	var p Panel
	for _, s := range domain.Sections {
		section := Section{Title: s.Title}
		for _, f := range s.Fields {
			field := Field{
				Key:   f.Key,
				Label: f.Label,
				Value: form.Get(f.Key),
			}
			switch f.Kind {
			case domain.FieldYesNo:
				field.YesNo = true
				field.Checked = form.Bool(f.Key)
			case domain.FieldDate:
				field.Placeholder = "dd/mm/aaaa"
			}
			if f.Key == domain.FieldSampleNumber {
				field.Lookup = true
			}
			if f.Key == "anomaly_details" {
				field.Multiline = true
			}
			section.Fields = append(section.Fields, field)
		}
		p.Sections = append(p.Sections, section)
	}
	return p
}

// ReportURL is the download path for a sample's PDF.
func ReportURL(number string) string {
	return "/samples/" + url.PathEscape(number) + "/report.pdf"
}

func JoinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprint(r)
	}
	return strings.Join(parts, ", ")
}
