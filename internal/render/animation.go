package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"reeldiary/internal/diary"
	"reeldiary/internal/ratings"
)

// Frame delays are in hundredths of a second.
const (
	DefaultBaseDelay = 40
	DefaultMinDelay  = 4
	DefaultHoldDelay = 400
)

// AnimationOptions controls the rating animation.
type AnimationOptions struct {
	Width     int
	Height    int
	BaseDelay int
	MinDelay  int
	HoldDelay int
}

// ErrNoFrames is returned when there is nothing to animate.
var ErrNoFrames = errors.New("no rated diary entries to animate")

var animationPalette = color.Palette{
	color.RGBA{R: 20, G: 24, B: 28, A: 255},    // background
	color.RGBA{R: 64, G: 188, B: 244, A: 255},  // bar
	color.RGBA{R: 0, G: 224, B: 84, A: 255},    // changed bar
	color.RGBA{R: 153, G: 170, B: 187, A: 255}, // text
	color.RGBA{R: 68, G: 85, B: 102, A: 255},   // axis
}

const (
	colorBackground = iota
	colorBar
	colorChanged
	colorText
	colorAxis
)

// FrameDelay returns the delay for the index-th of n frames (1-based):
// max(minDelay, base*(1-index/n)^2). Early frames linger and later ones
// speed up.
func FrameDelay(index, n, base, minDelay int) int {
	if n <= 0 {
		return minDelay
	}
	progress := 1 - float64(index)/float64(n)
	delay := int(math.Round(float64(base) * progress * progress))
	return max(minDelay, delay)
}

// Animation renders one GIF frame per snapshot, followed by a held copy of
// the last frame. Bars are scaled against the final distribution so the axis
// stays fixed.
func Animation(w io.Writer, snapshots []ratings.Snapshot, options AnimationOptions) error {
	if len(snapshots) == 0 {
		return ErrNoFrames
	}
	options = withAnimationDefaults(options)

	scale := max(1, snapshots[len(snapshots)-1].Counts.Max())
	anim := &gif.GIF{LoopCount: 0}
	var previous ratings.Counts
	for _, snap := range snapshots {
		frame := drawFrame(snap, previous, scale, options)
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, FrameDelay(snap.Index, len(snapshots), options.BaseDelay, options.MinDelay))
		previous = snap.Counts
	}
	last := snapshots[len(snapshots)-1]
	anim.Image = append(anim.Image, drawFrame(last, last.Counts, scale, options))
	anim.Delay = append(anim.Delay, options.HoldDelay)

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode animation: %w", err)
	}
	return nil
}

func withAnimationDefaults(options AnimationOptions) AnimationOptions {
	if options.Width <= 0 {
		options.Width = 640
	}
	if options.Height <= 0 {
		options.Height = 360
	}
	if options.BaseDelay <= 0 {
		options.BaseDelay = DefaultBaseDelay
	}
	if options.MinDelay <= 0 {
		options.MinDelay = DefaultMinDelay
	}
	if options.HoldDelay <= 0 {
		options.HoldDelay = DefaultHoldDelay
	}
	return options
}

func drawFrame(snap ratings.Snapshot, previous ratings.Counts, scale int, options AnimationOptions) *image.Paletted {
	bounds := image.Rect(0, 0, options.Width, options.Height)
	img := image.NewPaletted(bounds, animationPalette)
	fill(img, bounds, colorBackground)

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	const margin = 16
	top := margin + lineHeight*2
	bottom := options.Height - margin - lineHeight
	plotHeight := max(1, bottom-top-lineHeight)
	slot := (options.Width - 2*margin) / diary.RatingLevels
	barWidth := max(1, slot*7/10)

	header := fmt.Sprintf("#%d", snap.Index)
	if snap.Record.Title != "" {
		header += "  " + snap.Record.Title
		if snap.Record.Year != "" {
			header += " (" + snap.Record.Year + ")"
		}
		header += "  " + snap.Record.Rating.String()
	}
	drawText(img, face, margin, margin+lineHeight, header, colorText)

	fill(img, image.Rect(margin, bottom, options.Width-margin, bottom+1), colorAxis)
	for _, rating := range diary.AllRatings {
		i := rating.Index()
		count := snap.Counts[i]
		x0 := margin + i*slot + (slot-barWidth)/2
		height := count * plotHeight / scale
		barColor := uint8(colorBar)
		if count != previous[i] {
			barColor = colorChanged
		}
		fill(img, image.Rect(x0, bottom-height, x0+barWidth, bottom), barColor)

		label := strconv.FormatFloat(rating.Stars(), 'f', -1, 64)
		drawText(img, face, x0+(barWidth-textWidth(face, label))/2, bottom+lineHeight, label, colorText)
		if count > 0 {
			value := strconv.Itoa(count)
			drawText(img, face, x0+(barWidth-textWidth(face, value))/2, bottom-height-3, value, colorText)
		}
	}
	return img
}

func fill(img *image.Paletted, rect image.Rectangle, index uint8) {
	draw.Draw(img, rect.Intersect(img.Bounds()), &image.Uniform{C: animationPalette[index]}, image.Point{}, draw.Src)
}

func drawText(img *image.Paletted, face font.Face, x, y int, text string, index uint8) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(animationPalette[index]),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func textWidth(face font.Face, text string) int {
	return font.MeasureString(face, text).Ceil()
}
