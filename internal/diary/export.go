package diary

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/civil"

	"reeldiary/internal/services"
)

// Export column names.
const (
	ColumnDate        = "Date"
	ColumnName        = "Name"
	ColumnYear        = "Year"
	ColumnURI         = "Letterboxd URI"
	ColumnRating      = "Rating"
	ColumnRewatch     = "Rewatch"
	ColumnTags        = "Tags"
	ColumnWatchedDate = "Watched Date"
)

// ReadDiary loads diary.csv.
func ReadDiary(path string) ([]Row, error) {
	var rows []Row
	err := readFile(path, func(r io.Reader) error {
		var err error
		rows, err = DecodeDiary(r)
		return err
	})
	return rows, err
}

// ReadLikes loads likes/films.csv.
func ReadLikes(path string) ([]OverlayRow, error) {
	var rows []OverlayRow
	err := readFile(path, func(r io.Reader) error {
		var err error
		rows, err = DecodeLikes(r)
		return err
	})
	return rows, err
}

// ReadWatchlist loads watchlist.csv and returns the date each entry was added.
func ReadWatchlist(path string) ([]civil.Date, error) {
	var dates []civil.Date
	err := readFile(path, func(r io.Reader) error {
		var err error
		dates, err = DecodeWatchlist(r)
		return err
	})
	return dates, err
}

// DecodeDiary decodes diary rows. Name, Year and Watched Date are required
// columns; the rest default to blank.
func DecodeDiary(r io.Reader) ([]Row, error) {
	table, err := newTableReader(r, ColumnName, ColumnYear, ColumnWatchedDate)
	if err != nil {
		return nil, err
	}
	var rows []Row
	for {
		rec, err := table.next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{
			Title:       rec.get(ColumnName),
			Year:        rec.get(ColumnYear),
			WatchedDate: rec.get(ColumnWatchedDate),
			Rating:      rec.get(ColumnRating),
			Rewatch:     rec.get(ColumnRewatch),
			Tags:        rec.get(ColumnTags),
			URI:         rec.get(ColumnURI),
		})
	}
}

// DecodeLikes decodes liked film rows.
func DecodeLikes(r io.Reader) ([]OverlayRow, error) {
	table, err := newTableReader(r, ColumnName, ColumnYear)
	if err != nil {
		return nil, err
	}
	var rows []OverlayRow
	for {
		rec, err := table.next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, OverlayRow{Title: rec.get(ColumnName), Year: rec.get(ColumnYear)})
	}
}

// DecodeWatchlist decodes watchlist rows into their added dates.
func DecodeWatchlist(r io.Reader) ([]civil.Date, error) {
	table, err := newTableReader(r, ColumnDate)
	if err != nil {
		return nil, err
	}
	var dates []civil.Date
	for {
		rec, err := table.next()
		if errors.Is(err, io.EOF) {
			return dates, nil
		}
		if err != nil {
			return nil, err
		}
		date, err := ParseDate(rec.get(ColumnDate))
		if err != nil {
			return nil, fmt.Errorf("watchlist line %d: %w", rec.line, err)
		}
		dates = append(dates, date)
	}
}

func readFile(path string, decode func(io.Reader) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	if err := decode(bufio.NewReader(file)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

type tableReader struct {
	reader *csv.Reader
	index  map[string]int
}

type tableRecord struct {
	fields []string
	index  map[string]int
	line   int
}

func newTableReader(r io.Reader, required ...string) (*tableReader, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, services.Wrap(services.ErrParse, "export", "read header", "file is empty", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "export", "read header", "", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	var missing []string
	for _, name := range required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, services.Wrap(services.ErrParse, "export", "read header", "missing columns: "+strings.Join(missing, ", "), nil)
	}
	return &tableReader{reader: reader, index: index}, nil
}

func (t *tableReader) next() (tableRecord, error) {
	fields, err := t.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return tableRecord{}, io.EOF
		}
		return tableRecord{}, services.Wrap(services.ErrParse, "export", "read row", "", err)
	}
	line, _ := t.reader.FieldPos(0)
	return tableRecord{fields: fields, index: t.index, line: line}, nil
}

func (r tableRecord) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}
