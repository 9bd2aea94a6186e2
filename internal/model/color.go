package model

import "strings"

type Color string

// Palette is the fixed set of habit colors offered by the form.
var Palette = []Color{
	"#ff69b4",
	"#b34771",
	"#ff4500",
	"#4682b4",
	"#32cd32",
	"#9370db",
	"#ffd700",
	"#708090",
	"#8b4513",
	"#00ced1",
}

func ParseColor(raw string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(raw)))
	return c, c.IsValid()
}

func (c Color) IsValid() bool {
	return c.index() >= 0
}

// Next cycles through the palette; an unset color starts at the first entry.
func (c Color) Next(step int) Color {
	i := c.index()
	if i < 0 {
		if step < 0 {
			return Palette[len(Palette)-1]
		}
		return Palette[0]
	}
	n := len(Palette)
	return Palette[((i+step)%n+n)%n]
}

func (c Color) index() int {
	for i, p := range Palette {
		if p == c {
			return i
		}
	}
	return -1
}
