package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"reeldiary/internal/diary"
)

//go:embed templates/grid.html.tmpl
var templateFS embed.FS

var gridTemplate = template.Must(template.ParseFS(templateFS, "templates/grid.html.tmpl"))

// DefaultGridTitle is used when GridOptions.Title is empty.
const DefaultGridTitle = "Letterboxd Diary Month"

// GridOptions controls the poster grid page.
type GridOptions struct {
	Title string
	// Reverse lists entities in reverse map order.
	Reverse bool
}

type gridMovie struct {
	Title     string
	Year      string
	Image     string
	Stars     string
	Liked     bool
	Rewatched bool
}

type gridPage struct {
	Title  string
	Count  int
	Movies []gridMovie
}

// Grid renders a self-contained poster grid page. Entities without a poster
// are left out.
func Grid(w io.Writer, entities *diary.EntityMap, opts GridOptions) error {
	if opts.Reverse {
		entities = entities.Reverse()
	}
	page := gridPage{Title: opts.Title}
	if page.Title == "" {
		page.Title = DefaultGridTitle
	}
	for _, rec := range entities.Records() {
		if rec.Image == "" {
			continue
		}
		page.Movies = append(page.Movies, gridMovie{
			Title:     rec.Title,
			Year:      rec.Year,
			Image:     rec.Image,
			Stars:     rec.Rating.StarGlyphs(),
			Liked:     rec.Liked,
			Rewatched: rec.Rewatched,
		})
	}
	page.Count = len(page.Movies)
	if err := gridTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render grid page: %w", err)
	}
	return nil
}
