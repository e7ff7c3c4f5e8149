// Package rendersvg renders a built render graph to an SVG document: one
// vertical column per pass, a rounded-rectangle box per task, curved
// dependency links, and beneath each pass a scaled view of that pass's
// destination texture with its allocated sub-rectangles highlighted.
//
// Grounded line-for-line in structure on original_source/src/svg.rs:
// the same column-per-pass, box-per-task, scaled-atlas-preview layout,
// translated from euclid's float geometry to this module's own f32
// package (geom stays integer-only, per its own doc comment; f32 is
// the teacher's float counterpart to it, adapted here as the diagram's
// coordinate space instead of a GPU vertex one).
package rendersvg

import (
	"fmt"
	"io"

	rendergraph "github.com/nical/rendergraph"
	"github.com/nical/rendergraph/f32"
	"github.com/nical/rendergraph/geom"
	"github.com/nical/rendergraph/texalloc"
)

func rectFromGeom(r geom.Rectangle) f32.Rectangle {
	return f32.Rectangle{
		Min: f32.Pt(float32(r.Min.X), float32(r.Min.Y)),
		Max: f32.Pt(float32(r.Max.X), float32(r.Max.Y)),
	}
}

func rectangle(w io.Writer, rect f32.Rectangle, radius float32, style string) {
	size := rect.Size()
	fmt.Fprintf(w, `    <rect ry="%g" x="%g" y="%g" width="%g" height="%g" style="%s" />`+"\n",
		radius, rect.Min.X, rect.Min.Y, size.X, size.Y, style)
}

func text(w io.Writer, s string, size float32, pos f32.Point, style string) {
	fmt.Fprintf(w, `
    <text x="%g" y="%g" style="font-style:normal;font-weight:normal;font-size:%gpx;line-height:1.25;font-family:sans-serif;stroke:none;%s">
        <tspan>%s</tspan>
    </text>
`, pos.X, pos.Y, size, style, s)
}

func beginSVG(w io.Writer, size f32.Point) {
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg
   xmlns:cc="http://creativecommons.org/ns#"
   xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
   xmlns:svg="http://www.w3.org/2000/svg"
   xmlns="http://www.w3.org/2000/svg"
   version="1.1"
   viewBox="0 0 %g %g"
   width="%gmm"
   height="%gmm">
`, size.X, size.Y, size.X, size.Y)
}

func endSVG(w io.Writer) {
	fmt.Fprint(w, "</svg>")
}

// link draws a dependency edge from "from" to "to". When the two points
// are roughly level and span several passes, a straight cubic bow would
// cut through unrelated task boxes in between, so the path is bent
// upward instead.
func link(w io.Writer, from, to f32.Point, style string) {
	simplePath := abs(from.Y-to.Y) > 1.0 || (to.X-from.X) < 45.0

	mid := from.Lerp(to, 0.5)
	if simplePath {
		fmt.Fprintf(w, `
        <path d="M %g %g C %g %g %g %g %g %g" style="fill:none;%s" />
    `, from.X, from.Y, mid.X, from.Y, mid.X, to.Y, to.X, to.Y, style)
		return
	}

	ctrl1 := from.Lerp(mid, 0.5).Sub(f32.Pt(0, 25))
	ctrl2 := to.Lerp(mid, 0.5).Sub(f32.Pt(0, 25))
	bowedMid := mid.Sub(f32.Pt(0, 25))
	fmt.Fprintf(w, `
        <path d="M %g %g C %g %g %g %g %g %g C %g %g %g %g %g %g" style="fill:none;%s" />
    `, from.X, from.Y, ctrl1.X, ctrl1.Y, ctrl1.X, bowedMid.Y, bowedMid.X, bowedMid.Y,
		ctrl2.X, bowedMid.Y, ctrl2.X, ctrl2.Y, to.X, to.Y, style)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// verticalLayout stacks boxes of given height down a fixed-width column,
// tracking the running y coordinate.
type verticalLayout struct {
	start f32.Point
	y     float32
	width float32
}

func newVerticalLayout(start f32.Point, width float32) *verticalLayout {
	return &verticalLayout{start: start, y: start.Y, width: width}
}

func (l *verticalLayout) advance(by float32) { l.y += by }

func (l *verticalLayout) pushRectangle(height float32) f32.Rectangle {
	rect := f32.Rectangle{Min: f32.Pt(l.start.X, l.y), Max: f32.Pt(l.start.X+l.width, l.y+height)}
	l.y += height
	return rect
}

func (l *verticalLayout) totalRectangle() f32.Rectangle {
	return f32.Rectangle{Min: l.start, Max: f32.Pt(l.start.X+l.width, l.y)}
}

func (l *verticalLayout) startHere() {
	l.start.Y = l.y
}

// Layout constants, unchanged from the original's hand-tuned values.
const (
	nodeWidth         = 80.0
	nodeHeight        = 40.0
	textureBoxHeight  = 15.0
	verticalSpacing   = 10.0
	horizontalSpacing = 40.0
	margin            = 10.0
)

type textureInfo struct {
	labelRect      f32.Rectangle
	texture        texalloc.TextureID
	allocatedRects []f32.Rectangle
	texSize        f32.Point
}

// Dump writes an SVG rendering of built to w. allocator must be the same
// allocator (or one exposing the same TextureSizer view) used to build
// the graph, so texture sizes can be read back for the per-pass atlas
// preview. names, if non-nil, labels each task box with a caller-chosen
// name; nodes with no entry get no name line, though their task kind
// and size are still shown.
func Dump(w io.Writer, built *rendergraph.BuiltGraph, allocator texalloc.TextureSizer, names map[rendergraph.NodeID]string) {
	graph := built.Graph()
	nodeRange := graph.NodeIDs()
	nodeLabelRects := make([]*f32.Rectangle, nodeRange.Len())

	var targetRects []f32.Rectangle
	var textures []textureInfo
	x := float32(margin)
	maxY := float32(0.0)

	for _, pass := range built.Passes() {
		layout := newVerticalLayout(f32.Pt(x, margin), nodeWidth)

		for k := 0; k < 2; k++ {
			target := pass.Dynamic[k]
			if len(target.Tasks) == 0 {
				continue
			}
			layout.startHere()
			var allocRects []f32.Rectangle
			for _, task := range target.Tasks {
				r := layout.pushRectangle(nodeHeight)
				nodeLabelRects[task.Node] = &r
				layout.advance(verticalSpacing)
				if rect, ok := built.AllocatedRectangle(task.Node); ok {
					allocRects = append(allocRects, rectFromGeom(rect))
				}
			}

			texLabelRect := layout.pushRectangle(textureBoxHeight)
			texSize := f32.Point{}
			if target.HasTexture {
				if sz, ok := allocator.TextureSize(target.Texture); ok {
					texSize = f32.Pt(float32(sz.Width), float32(sz.Height))
				}
			}
			scale := texSize.X / nodeWidth
			if scale == 0 {
				scale = 1
			}
			layout.pushRectangle(texSize.Y / scale)

			targetRects = append(targetRects, layout.totalRectangle().Inflate(5, 5))
			layout.advance(verticalSpacing * 2)

			textures = append(textures, textureInfo{
				labelRect: texLabelRect, texture: target.Texture,
				allocatedRects: allocRects, texSize: texSize,
			})
		}

		for _, group := range pass.Fixed {
			layout.startHere()
			var allocRects []f32.Rectangle
			var unionRect geom.Rectangle
			for _, task := range group.Tasks {
				r := layout.pushRectangle(nodeHeight)
				nodeLabelRects[task.Node] = &r
				layout.advance(verticalSpacing)
				if rect, ok := built.AllocatedRectangle(task.Node); ok {
					allocRects = append(allocRects, rectFromGeom(rect))
					unionRect = unionRect.Union(rect)
				}
			}

			texLabelRect := layout.pushRectangle(textureBoxHeight)
			texSize := f32.Pt(float32(unionRect.Size().Width), float32(unionRect.Size().Height))
			scale := texSize.X / nodeWidth
			if scale == 0 {
				scale = 1
			}
			layout.pushRectangle(texSize.Y / scale)

			targetRects = append(targetRects, layout.totalRectangle().Inflate(5, 5))
			layout.advance(verticalSpacing * 2)

			textures = append(textures, textureInfo{
				labelRect: texLabelRect, texture: group.Texture,
				allocatedRects: allocRects, texSize: texSize,
			})
		}

		x += nodeWidth + horizontalSpacing
		if layout.y+100.0 > maxY {
			maxY = layout.y + 100.0
		}
	}

	svgSize := f32.Pt(x+margin, maxY+margin)
	beginSVG(w, svgSize)

	bgRect := f32.Rectangle{Min: f32.Pt(0, 0), Max: svgSize}.Inflate(1, 1)
	rectangle(w, bgRect, 0, "fill:rgb(50,50,50)")

	for _, rect := range targetRects {
		rectangle(w, rect, 5, "stroke:none;fill:black;fill-opacity:0.2")
	}

	for id := nodeRange.Start; id < nodeRange.End; id++ {
		rect := nodeLabelRects[id]
		if rect == nil {
			continue
		}
		pos := rect.Min
		for _, dep := range graph.Dependencies(id) {
			depRect := nodeLabelRects[dep]
			if depRect == nil {
				continue
			}
			from := depRect.Min.Add(f32.Pt(nodeWidth, nodeHeight/2))
			to := pos.Add(f32.Pt(0, nodeHeight/2))
			link(w, from.Add(f32.Pt(0, 1)), to.Add(f32.Pt(0, 1)), "stroke:black;stroke-opacity:0.4;stroke-width:3px;")
			link(w, from, to, "stroke:rgb(100, 100, 100);stroke-width:3px;")
		}
	}

	for _, rect := range nodeLabelRects {
		if rect == nil {
			continue
		}
		rectangle(w, rect.Add(f32.Pt(0, 2)), 3, "stroke:none;fill:black;fill-opacity:0.4")
		rectangle(w, *rect, 3, "stroke:none;fill:rgb(200, 200, 200);fill-opacity:0.8")
	}

	for _, info := range textures {
		atlasMin := info.labelRect.Min.Add(f32.Pt(0, textureBoxHeight))
		scale := info.texSize.X / nodeWidth
		if scale == 0 {
			scale = 1
		}
		atlasRect := f32.Rectangle{
			Min: atlasMin,
			Max: atlasMin.Add(f32.Pt(info.texSize.X/scale, info.texSize.Y/scale)),
		}

		textPos := f32.Pt((info.labelRect.Min.X+info.labelRect.Max.X)/2, info.labelRect.Min.Y+10)
		label := fmt.Sprintf("texture %d - %gx%g", info.texture, info.texSize.X, info.texSize.Y)
		text(w, label, 5, textPos, "text-anchor:middle;text-align:center;fill:rgb(250,250,250);")

		rectangle(w, atlasRect, 0, "stroke:none;fill:black;fill-opacity:0.5")
		for _, rect := range info.allocatedRects {
			scaled := f32.Rectangle{
				Min: f32.Pt(rect.Min.X/scale, rect.Min.Y/scale),
				Max: f32.Pt(rect.Max.X/scale, rect.Max.Y/scale),
			}
			rectangle(w, scaled.Add(atlasRect.Min).Inflate(-0.1, -0.1), 0, "stroke:none;fill:rgb(50,70,180);fill-opacity:0.8")
		}
	}

	for id := nodeRange.Start; id < nodeRange.End; id++ {
		rect := nodeLabelRects[id]
		if rect == nil {
			continue
		}
		pos := f32.Pt((rect.Min.X+rect.Max.X)/2, rect.Min.Y+12)
		name := names[id]
		node := graph.Node(id)
		kind := fmt.Sprintf("Task: %s", taskLabel(node.Task))
		size := fmt.Sprintf("%dx%d", node.Size.Width, node.Size.Height)

		text(w, name, 10, pos, "text-anchor:middle;text-align:center;")
		text(w, kind, 6, pos.Add(f32.Pt(0, 12)), "text-anchor:middle;text-align:center;fill:rgb(50,50,50)")
		text(w, size, 6, pos.Add(f32.Pt(0, 22)), "text-anchor:middle;text-align:center;fill:rgb(50,50,50)")
	}

	endSVG(w)
}

func taskLabel(t rendergraph.TaskIdentity) string {
	switch t.Kind {
	case rendergraph.Blit:
		return "Blit"
	case rendergraph.Render:
		return fmt.Sprintf("Render(%d)", t.RenderID)
	case rendergraph.Copy:
		return "Copy"
	default:
		return "Unknown"
	}
}
