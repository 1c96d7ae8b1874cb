// Package line is a minimal client for the LINE Messaging API: flex-message
// payload types, the broadcast call, and webhook signature verification.
package line

// Flex component type and common attribute values.
const (
	TypeBubble    = "bubble"
	TypeBox       = "box"
	TypeText      = "text"
	TypeSeparator = "separator"

	LayoutVertical   = "vertical"
	LayoutHorizontal = "horizontal"
)

// Component is any node that can appear in a flex container. The concrete
// structs below marshal to the exact JSON the platform's rich-card renderer
// expects; the payload shape is a contract and must not be reshaped.
type Component interface {
	flexComponent()
}

// Bubble is the top-level flex container.
type Bubble struct {
	Type   string        `json:"type"`
	Size   string        `json:"size,omitempty"`
	Body   *Box          `json:"body,omitempty"`
	Styles *BubbleStyles `json:"styles,omitempty"`
}

type BubbleStyles struct {
	Footer *BlockStyle `json:"footer,omitempty"`
}

type BlockStyle struct {
	Separator bool `json:"separator,omitempty"`
}

// Box lays out child components horizontally or vertically.
type Box struct {
	Type         string      `json:"type"`
	Layout       string      `json:"layout"`
	Contents     []Component `json:"contents"`
	Margin       string      `json:"margin,omitempty"`
	Spacing      string      `json:"spacing,omitempty"`
	OffsetBottom string      `json:"offsetBottom,omitempty"`
}

// Text is a single text cell. Text is serialized even when empty: the diff
// column renders an empty string for unchanged prices.
type Text struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	Size        string `json:"size,omitempty"`
	Color       string `json:"color,omitempty"`
	Weight      string `json:"weight,omitempty"`
	Align       string `json:"align,omitempty"`
	Margin      string `json:"margin,omitempty"`
	Position    string `json:"position,omitempty"`
	OffsetStart string `json:"offsetStart,omitempty"`
	Flex        *int   `json:"flex,omitempty"`
	Wrap        bool   `json:"wrap,omitempty"`
}

type Separator struct {
	Type   string `json:"type"`
	Margin string `json:"margin,omitempty"`
}

func (*Box) flexComponent()       {}
func (*Text) flexComponent()      {}
func (*Separator) flexComponent() {}

// Int returns a pointer to v, for attributes like flex where zero is a
// meaningful value that must still be serialized.
func Int(v int) *int { return &v }
