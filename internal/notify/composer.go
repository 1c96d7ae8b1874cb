package notify

import (
	"github.com/ktantikarun/petrolprice-line-bot/internal/line"
	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
)

// Fixed strings of the notification contract, as published by the reference
// deployment. The card is Thai-language; visual parity requires these exact
// values.
const (
	altTextChange   = "พรุ่งนี้ราคาน้ำมันมีการปรับตัว!"
	headlineChange  = "พรุ่งนี้ราคาน้ำมันมีการปรับตัว !"
	colFuelType     = "ประเภทน้ำมัน"
	colTodayPrice   = "ราคาวันนี้"
	colTomorrowName = "ราคาพรุ่งนี้"
	colDiff         = "ส่วนต่าง"
	attribution     = "อ้างอิงจาก www.bangchak.com"
)

const (
	colorUp      = "#e83515"
	colorDown    = "#139c1e"
	colorNeutral = "#111111"
	colorLabel   = "#555555"
	colorFooter  = "#aaaaaa"
)

// AltText is the plain-text summary shown in chat lists and push previews.
func AltText() string { return altTextChange }

// ComposeFlex renders a report date and snapshot into the rich-card bubble.
// Pure formatting: every business decision has already been made by the time
// this runs.
func ComposeFlex(date string, snap *prices.Snapshot) line.Bubble {
	rows := make([]line.Component, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		rows = append(rows, priceRowBlock(r))
	}

	body := &line.Box{
		Type:   line.TypeBox,
		Layout: line.LayoutVertical,
		Contents: []line.Component{
			&line.Text{Type: line.TypeText, Text: date, Weight: "bold", Size: "lg", Margin: "none"},
			&line.Text{Type: line.TypeText, Text: headlineChange, Size: "md", Wrap: true},
			&line.Separator{Type: line.TypeSeparator, Margin: "xxl"},
			&line.Box{
				Type:   line.TypeBox,
				Layout: line.LayoutHorizontal,
				Contents: []line.Component{
					&line.Text{Type: line.TypeText, Text: colFuelType, Size: "sm", Color: colorLabel, Flex: line.Int(0), Margin: "none", Weight: "bold"},
					&line.Text{Type: line.TypeText, Text: colTodayPrice, Size: "sm", Color: colorNeutral, Align: "end", Position: "absolute", OffsetStart: "42%"},
					&line.Text{Type: line.TypeText, Text: colTomorrowName, Size: "sm", Color: colorNeutral, Align: "end", Position: "absolute", OffsetStart: "63%"},
					&line.Text{Type: line.TypeText, Text: colDiff, Size: "sm", Color: colorNeutral, Align: "end"},
				},
				Margin:       "lg",
				OffsetBottom: "none",
			},
			&line.Box{
				Type:     line.TypeBox,
				Layout:   line.LayoutVertical,
				Margin:   "md",
				Spacing:  "sm",
				Contents: rows,
			},
			&line.Separator{Type: line.TypeSeparator, Margin: "xxl"},
			&line.Box{
				Type:   line.TypeBox,
				Layout: line.LayoutHorizontal,
				Margin: "md",
				Contents: []line.Component{
					&line.Text{Type: line.TypeText, Text: attribution, Color: colorFooter, Size: "xs", Align: "end"},
				},
			},
		},
	}

	return line.Bubble{
		Type: line.TypeBubble,
		Size: "giga",
		Body: body,
		Styles: &line.BubbleStyles{
			Footer: &line.BlockStyle{Separator: true},
		},
	}
}

// priceRowBlock renders one fuel's row: name, today, tomorrow (colored by
// direction), and the signed difference indicator.
func priceRowBlock(r prices.PriceRow) line.Component {
	color := tomorrowColor(r)
	return &line.Box{
		Type:   line.TypeBox,
		Layout: line.LayoutHorizontal,
		Contents: []line.Component{
			&line.Text{Type: line.TypeText, Text: r.FuelType, Size: "sm", Color: colorLabel, Flex: line.Int(0)},
			&line.Text{Type: line.TypeText, Text: prices.FormatPrice(r.Today), Size: "sm", Color: colorNeutral, Align: "end", Position: "absolute", OffsetStart: "45%"},
			&line.Text{Type: line.TypeText, Text: prices.FormatPrice(r.Tomorrow), Size: "sm", Color: color, Align: "end", Position: "absolute", OffsetStart: "67%"},
			&line.Text{Type: line.TypeText, Text: prices.DiffText(r.Today, r.Tomorrow), Size: "sm", Color: color, Align: "end", Position: "relative"},
		},
	}
}

func tomorrowColor(r prices.PriceRow) string {
	switch {
	case r.Tomorrow > r.Today:
		return colorUp
	case r.Tomorrow < r.Today:
		return colorDown
	default:
		return colorNeutral
	}
}
