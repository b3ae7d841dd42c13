package deck

import (
	"math"
	"strconv"
	"strings"
	"time"

	"podium/internal/chart"
	"podium/internal/document"
	"podium/internal/logging"
)

// heading places the standard slide heading used by every non-title layout.
func (c *compiler) heading(title string) TextBox {
	return TextBox{
		Box:      Box{X: 0.5, Y: 0.8, W: 9, H: 0.8},
		Text:     title,
		FontSize: c.theme.Fonts.Heading,
		Color:    c.theme.Colors.Primary,
		Bold:     true,
	}
}

func (c *compiler) layoutTitle(content document.TitleContent) []Element {
	fonts := c.theme.Fonts
	colors := c.theme.Colors

	elements := []Element{
		TextBox{
			Box:      Box{X: 1, Y: 2.5, W: 8, H: 1.5},
			Text:     content.Title,
			FontSize: fonts.Title,
			Color:    colors.Primary,
			Bold:     true,
			Align:    AlignCenter,
		},
	}
	if strings.TrimSpace(content.Subtitle) != "" {
		elements = append(elements, TextBox{
			Box:      Box{X: 1, Y: 4.2, W: 8, H: 1},
			Text:     content.Subtitle,
			FontSize: fonts.Subtitle,
			Color:    colors.Text,
			Align:    AlignCenter,
		})
	}
	elements = append(elements, TextBox{
		Box:      Box{X: 1, Y: 6, W: 8, H: 0.5},
		Text:     time.Now().Format("January 2, 2006"),
		FontSize: fonts.Small,
		Color:    colors.Text,
		Align:    AlignCenter,
	})
	return elements
}

func (c *compiler) layoutContent(content document.BodyContent) []Element {
	fonts := c.theme.Fonts
	colors := c.theme.Colors

	elements := []Element{c.heading(content.Title)}
	if len(content.Points) > 0 {
		for i, point := range content.Points {
			elements = append(elements, TextBox{
				Box:      Box{X: 1, Y: 2 + float64(i)*0.8, W: 8, H: 0.6},
				Text:     "• " + point,
				FontSize: fonts.Body,
				Color:    colors.Text,
				VAlign:   VAlignTop,
			})
		}
	} else if strings.TrimSpace(content.Text) != "" {
		elements = append(elements, TextBox{
			Box:      Box{X: 1, Y: 2, W: 8, H: 4},
			Text:     content.Text,
			FontSize: fonts.Body,
			Color:    colors.Text,
			VAlign:   VAlignTop,
		})
	}
	return elements
}

// layoutChart emits a native chart frame themed with the primary,
// secondary, and accent colors. A payload that fails the embed-time check
// degrades to a placeholder box instead of failing the deck; this is the
// only layout that recovers locally.
func (c *compiler) layoutChart(content document.ChartContent, number int) []Element {
	fonts := c.theme.Fonts
	colors := c.theme.Colors

	elements := []Element{c.heading(content.Title)}
	if err := chart.ValidateData(content.Data); err != nil {
		c.logger.Warn("chart embed failed; substituting placeholder",
			logging.Error(err),
			logging.Int("slide", number),
		)
		return append(elements, TextBox{
			Box:      Box{X: 1, Y: 3, W: 8, H: 2},
			Text:     "Chart data unavailable",
			FontSize: fonts.Body,
			Color:    colors.Text,
			Align:    AlignCenter,
			VAlign:   VAlignMiddle,
			Fill:     colors.LightGray,
		})
	}

	elements = append(elements, ChartFrame{
		Box:       Box{X: 1, Y: 2, W: 8, H: 4},
		Kind:      chart.ParseKind(string(content.ChartType)),
		Data:      content.Data,
		Colors:    []string{colors.Primary, colors.Secondary, colors.Accent},
		LegendPos: "b",
	})
	return elements
}

func (c *compiler) layoutComparison(content document.ComparisonContent) []Element {
	fonts := c.theme.Fonts
	colors := c.theme.Colors

	elements := []Element{c.heading(content.Title)}
	if len(content.Items) == 0 {
		return elements
	}

	itemsPerRow := int(math.Ceil(math.Sqrt(float64(len(content.Items)))))
	if content.Layout == "2x2" {
		itemsPerRow = 2
	}
	itemWidth := 8.0/float64(itemsPerRow) - 0.2
	const itemHeight = 1.8

	for i, item := range content.Items {
		row := i / itemsPerRow
		col := i % itemsPerRow
		x := 1 + float64(col)*(itemWidth+0.2)
		y := 2.5 + float64(row)*(itemHeight+0.3)

		elements = append(elements,
			Shape{
				Box:       Box{X: x, Y: y, W: itemWidth, H: itemHeight},
				Kind:      ShapeRect,
				Fill:      colors.LightGray,
				LineColor: colors.Secondary,
				LineWidth: 1,
			},
			TextBox{
				Box:      Box{X: x, Y: y + 0.1, W: itemWidth, H: 0.4},
				Text:     item.Title,
				FontSize: fonts.Small,
				Color:    colors.Text,
				Bold:     true,
				Align:    AlignCenter,
			},
			TextBox{
				Box:      Box{X: x, Y: y + 0.6, W: itemWidth, H: 0.6},
				Text:     item.Value,
				FontSize: fonts.Large,
				Color:    colors.Primary,
				Bold:     true,
				Align:    AlignCenter,
			},
		)
		if strings.TrimSpace(item.Trend) != "" {
			trendColor := "EF4444"
			if strings.HasPrefix(item.Trend, "+") {
				trendColor = "10B981"
			}
			elements = append(elements, TextBox{
				Box:      Box{X: x, Y: y + 1.3, W: itemWidth, H: 0.3},
				Text:     item.Trend,
				FontSize: fonts.Small,
				Color:    trendColor,
				Bold:     true,
				Align:    AlignCenter,
			})
		}
	}
	return elements
}

func (c *compiler) layoutStrategy(content document.StrategyContent) []Element {
	fonts := c.theme.Fonts
	colors := c.theme.Colors

	elements := []Element{c.heading(content.Title)}
	for i, point := range content.Points {
		y := 2.2 + float64(i)*0.9
		elements = append(elements,
			Shape{
				Box:  Box{X: 0.8, Y: y + 0.1, W: 0.4, H: 0.4},
				Kind: ShapeEllipse,
				Fill: colors.Primary,
			},
			TextBox{
				Box:      Box{X: 0.8, Y: y + 0.1, W: 0.4, H: 0.4},
				Text:     strconv.Itoa(i + 1),
				FontSize: fonts.Small,
				Color:    "FFFFFF",
				Bold:     true,
				Align:    AlignCenter,
				VAlign:   VAlignMiddle,
			},
			TextBox{
				Box:      Box{X: 1.4, Y: y, W: 7.6, H: 0.6},
				Text:     point,
				FontSize: fonts.Body,
				Color:    colors.Text,
				VAlign:   VAlignMiddle,
			},
		)
	}
	return elements
}

func (c *compiler) layoutTimeline(content document.TimelineContent) []Element {
	fonts := c.theme.Fonts
	colors := c.theme.Colors

	elements := []Element{c.heading(content.Title)}
	if len(content.Items) == 0 {
		return elements
	}

	const axisY = 3.5
	stepWidth := 8.0 / float64(len(content.Items))

	elements = append(elements, Shape{
		Box:       Box{X: 1, Y: axisY, W: 8, H: 0},
		Kind:      ShapeLine,
		LineColor: colors.Secondary,
		LineWidth: 3,
	})
	for i, item := range content.Items {
		x := 1 + float64(i)*stepWidth + stepWidth/2
		label := item.Label()
		if strings.TrimSpace(label) == "" {
			label = "Step " + strconv.Itoa(i+1)
		}
		elements = append(elements,
			Shape{
				Box:  Box{X: x - 0.15, Y: axisY - 0.15, W: 0.3, H: 0.3},
				Kind: ShapeEllipse,
				Fill: colors.Primary,
			},
			TextBox{
				Box:      Box{X: x - stepWidth/2, Y: axisY - 0.8, W: stepWidth, H: 0.4},
				Text:     label,
				FontSize: fonts.Small,
				Color:    colors.Text,
				Bold:     true,
				Align:    AlignCenter,
			},
			TextBox{
				Box:      Box{X: x - stepWidth/2, Y: axisY + 0.5, W: stepWidth, H: 1},
				Text:     item.Text(),
				FontSize: fonts.Small,
				Color:    colors.Text,
				Align:    AlignCenter,
				VAlign:   VAlignTop,
			},
		)
	}
	return elements
}
