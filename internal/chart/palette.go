package chart

// Palette is an ordered list of CSS colors; slices cycle through it.
type Palette []string

// Pastel is used for the weekly summary.
var Pastel = Palette{
	"rgb(102,197,204)", "rgb(246,207,113)", "rgb(248,156,116)", "rgb(220,176,242)",
	"rgb(135,197,95)", "rgb(158,185,243)", "rgb(254,136,177)", "rgb(201,219,116)",
	"rgb(139,224,164)", "rgb(180,151,231)", "rgb(179,179,179)",
}

// Set3 is used for daily project distributions.
var Set3 = Palette{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

func (p Palette) Color(i int) string {
	if len(p) == 0 {
		return "#cccccc"
	}
	return p[i%len(p)]
}
